// Package kube wraps the Kubernetes clientset behind the snapshot.DataSource
// contract. It resolves client configuration the standard way (explicit
// kubeconfig path, then default kubeconfig loading rules, then the in-cluster
// service account), lists the three monitored kinds, and classifies API
// errors into the taxonomy the presenters surface to the user.
package kube
