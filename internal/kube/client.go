package kube

import (
	"context"
	"fmt"
	"strings"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	_ "k8s.io/client-go/plugin/pkg/client/auth" // register auth provider plugins
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"kubemon/internal/snapshot"
	"kubemon/pkg/logging"
)

// listLimit caps every list call; the dashboard is not a pager.
const listLimit = 500

// nodeRoleLabelPrefix is how kubelets advertise node roles in labels.
const nodeRoleLabelPrefix = "node-role.kubernetes.io/"

// NewClientsetFromConfig is a package-level variable for creating a clientset
// from rest.Config. Exported to allow overriding in tests.
var NewClientsetFromConfig = func(c *rest.Config) (kubernetes.Interface, error) {
	return kubernetes.NewForConfig(c)
}

// InClusterConfig is a package-level variable wrapping rest.InClusterConfig
// for the same reason.
var InClusterConfig = rest.InClusterConfig

// Client implements snapshot.DataSource against a live cluster. The
// underlying connection is built once and reused across refresh cycles.
type Client struct {
	clientset kubernetes.Interface
	context   string
	serverURL string
}

var _ snapshot.DataSource = (*Client)(nil)

// Context returns the kubeconfig context the client was built from, or
// "in-cluster" when running inside a pod.
func (c *Client) Context() string { return c.context }

// ServerURL returns the API server URL, when known.
func (c *Client) ServerURL() string { return c.serverURL }

// NewClient builds a clientset using standard resolution: the explicit
// kubeconfig path when given, otherwise the default kubeconfig loading
// rules, falling back to the in-cluster service account config. Failure of
// all three is the fatal initialization error the process exits on.
func NewClient(kubeconfig string) (*Client, error) {
	loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
	if kubeconfig != "" {
		loadingRules.ExplicitPath = kubeconfig
	}
	kubeConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, &clientcmd.ConfigOverrides{})

	contextName := "in-cluster"
	serverURL := ""

	restConfig, err := kubeConfig.ClientConfig()
	if err != nil {
		logging.Debug("kube", "kubeconfig resolution failed (%v), trying in-cluster config", err)
		inCluster, inErr := InClusterConfig()
		if inErr != nil {
			return nil, fmt.Errorf("no usable cluster configuration: kubeconfig: %v; in-cluster: %w", err, inErr)
		}
		restConfig = inCluster
	} else {
		if raw, rawErr := kubeConfig.RawConfig(); rawErr == nil {
			contextName = raw.CurrentContext
			if ctx, ok := raw.Contexts[raw.CurrentContext]; ok {
				if cluster, ok := raw.Clusters[ctx.Cluster]; ok {
					serverURL = cluster.Server
				}
			}
		}
	}

	// Keep the TUI snappy; individual calls are additionally bounded by the
	// refresh loop's per-branch context.
	restConfig.QPS = 50
	restConfig.Burst = 100
	restConfig.Timeout = 30 * time.Second

	clientset, err := NewClientsetFromConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kubernetes clientset: %w", err)
	}

	logging.Info("kube", "connected: context=%s server=%s", contextName, serverURL)
	return &Client{clientset: clientset, context: contextName, serverURL: serverURL}, nil
}

// ListPods lists pods in the namespace (all namespaces for
// snapshot.NamespaceAll) and maps them to raw records.
func (c *Client) ListPods(ctx context.Context, namespace string) ([]snapshot.PodRecord, error) {
	podList, err := c.clientset.CoreV1().Pods(resolveNamespace(namespace)).List(ctx, metav1.ListOptions{Limit: listLimit})
	if err != nil {
		return nil, classifyError(err, c.serverURL)
	}
	records := make([]snapshot.PodRecord, 0, len(podList.Items))
	for _, pod := range podList.Items {
		records = append(records, podToRecord(pod))
	}
	return records, nil
}

// ListNodes lists cluster nodes and maps them to raw records.
func (c *Client) ListNodes(ctx context.Context) ([]snapshot.NodeRecord, error) {
	nodeList, err := c.clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{Limit: listLimit})
	if err != nil {
		return nil, classifyError(err, c.serverURL)
	}
	records := make([]snapshot.NodeRecord, 0, len(nodeList.Items))
	for _, node := range nodeList.Items {
		records = append(records, nodeToRecord(node))
	}
	return records, nil
}

// ListServices lists services in the namespace (all namespaces for
// snapshot.NamespaceAll) and maps them to raw records.
func (c *Client) ListServices(ctx context.Context, namespace string) ([]snapshot.ServiceRecord, error) {
	svcList, err := c.clientset.CoreV1().Services(resolveNamespace(namespace)).List(ctx, metav1.ListOptions{Limit: listLimit})
	if err != nil {
		return nil, classifyError(err, c.serverURL)
	}
	records := make([]snapshot.ServiceRecord, 0, len(svcList.Items))
	for _, svc := range svcList.Items {
		records = append(records, serviceToRecord(svc))
	}
	return records, nil
}

// PodLogs fetches the last tailLines lines of a pod's log via the log
// subresource. An empty container selects the pod's only (or first)
// container, as the API does.
func (c *Client) PodLogs(ctx context.Context, namespace, name string, tailLines int64) (string, error) {
	opts := &corev1.PodLogOptions{TailLines: &tailLines, Timestamps: true}
	raw, err := c.clientset.CoreV1().Pods(namespace).GetLogs(name, opts).Do(ctx).Raw()
	if err != nil {
		return "", classifyError(err, c.serverURL)
	}
	return string(raw), nil
}

// PodEvents returns the events recorded against a pod, in API order. A pod
// with no events yields an empty slice, not an error.
func (c *Client) PodEvents(ctx context.Context, namespace, name string) ([]snapshot.PodEvent, error) {
	opts := metav1.ListOptions{
		FieldSelector: fmt.Sprintf("involvedObject.name=%s", name),
		Limit:         listLimit,
	}
	eventList, err := c.clientset.CoreV1().Events(namespace).List(ctx, opts)
	if err != nil {
		return nil, classifyError(err, c.serverURL)
	}
	events := make([]snapshot.PodEvent, 0, len(eventList.Items))
	for _, ev := range eventList.Items {
		events = append(events, eventToRecord(ev))
	}
	return events, nil
}

func eventToRecord(ev corev1.Event) snapshot.PodEvent {
	// Older API servers fill FirstTimestamp, newer ones EventTime.
	t := ev.FirstTimestamp.Time
	if t.IsZero() {
		t = ev.EventTime.Time
	}
	count := ev.Count
	if count == 0 {
		count = 1
	}
	return snapshot.PodEvent{
		Type:    ev.Type,
		Reason:  ev.Reason,
		Message: ev.Message,
		Time:    t,
		Count:   count,
	}
}

func resolveNamespace(namespace string) string {
	if namespace == snapshot.NamespaceAll {
		return metav1.NamespaceAll
	}
	return namespace
}

func podToRecord(pod corev1.Pod) snapshot.PodRecord {
	ready := 0
	restarts := make([]int32, 0, len(pod.Status.ContainerStatuses))
	for _, cs := range pod.Status.ContainerStatuses {
		if cs.Ready {
			ready++
		}
		restarts = append(restarts, cs.RestartCount)
	}
	return snapshot.PodRecord{
		Name:              pod.Name,
		Namespace:         pod.Namespace,
		Phase:             podPhase(pod),
		Node:              pod.Spec.NodeName,
		ReadyContainers:   ready,
		TotalContainers:   len(pod.Spec.Containers),
		ContainerRestarts: restarts,
		CreatedAt:         pod.CreationTimestamp.Time,
	}
}

// podPhase prefers a waiting/terminated reason (CrashLoopBackOff,
// ImagePullBackOff, ...) over the coarse pod phase.
func podPhase(pod corev1.Pod) string {
	for _, cs := range pod.Status.ContainerStatuses {
		if cs.State.Waiting != nil && cs.State.Waiting.Reason != "" {
			return cs.State.Waiting.Reason
		}
		if cs.State.Terminated != nil && cs.State.Terminated.Reason != "" {
			return cs.State.Terminated.Reason
		}
	}
	return string(pod.Status.Phase)
}

func nodeToRecord(node corev1.Node) snapshot.NodeRecord {
	status := "NotReady"
	for _, cond := range node.Status.Conditions {
		if cond.Type == corev1.NodeReady && cond.Status == corev1.ConditionTrue {
			status = "Ready"
			break
		}
	}
	var roles []string
	for label := range node.Labels {
		if role := strings.TrimPrefix(label, nodeRoleLabelPrefix); role != label && role != "" {
			roles = append(roles, role)
		}
	}
	return snapshot.NodeRecord{
		Name:           node.Name,
		Status:         status,
		Roles:          roles,
		KubeletVersion: node.Status.NodeInfo.KubeletVersion,
		CreatedAt:      node.CreationTimestamp.Time,
	}
}

func serviceToRecord(svc corev1.Service) snapshot.ServiceRecord {
	var external []string
	for _, ingress := range svc.Status.LoadBalancer.Ingress {
		if ingress.IP != "" {
			external = append(external, ingress.IP)
		} else if ingress.Hostname != "" {
			external = append(external, ingress.Hostname)
		}
	}
	external = append(external, svc.Spec.ExternalIPs...)

	ports := make([]string, 0, len(svc.Spec.Ports))
	for _, p := range svc.Spec.Ports {
		if p.NodePort != 0 {
			ports = append(ports, fmt.Sprintf("%d:%d/%s", p.Port, p.NodePort, p.Protocol))
		} else {
			ports = append(ports, fmt.Sprintf("%d/%s", p.Port, p.Protocol))
		}
	}

	return snapshot.ServiceRecord{
		Name:        svc.Name,
		Namespace:   svc.Namespace,
		Type:        string(svc.Spec.Type),
		ClusterIP:   svc.Spec.ClusterIP,
		ExternalIPs: external,
		Ports:       ports,
		CreatedAt:   svc.CreationTimestamp.Time,
	}
}
