package snapshot

import (
	"context"
	"fmt"
	"time"
)

// Kind identifies one of the three monitored resource kinds.
type Kind string

const (
	KindPod     Kind = "Pod"
	KindNode    Kind = "Node"
	KindService Kind = "Service"
)

// Kinds lists the monitored kinds in tab order.
var Kinds = []Kind{KindPod, KindNode, KindService}

// NamespaceAll selects list calls across all namespaces.
const NamespaceAll = "all"

// PodRecord is the raw pod data a data source returns. Name is mandatory;
// everything else is optional display material.
type PodRecord struct {
	Name              string
	Namespace         string
	Phase             string
	Node              string
	ReadyContainers   int
	TotalContainers   int
	ContainerRestarts []int32
	CreatedAt         time.Time
}

// NodeRecord is the raw node data a data source returns.
type NodeRecord struct {
	Name           string
	Status         string
	Roles          []string
	KubeletVersion string
	CreatedAt      time.Time
}

// ServiceRecord is the raw service data a data source returns.
type ServiceRecord struct {
	Name        string
	Namespace   string
	Type        string
	ClusterIP   string
	ExternalIPs []string
	Ports       []string
	CreatedAt   time.Time
}

// PodEvent is one Kubernetes event recorded against a pod, shown under the
// logs in the TUI log overlay.
type PodEvent struct {
	Type    string
	Reason  string
	Message string
	Time    time.Time
	Count   int32
}

// DataSource lists raw records for the three kinds. Implementations are the
// live cluster client (internal/kube) and the demo fixture source
// (internal/mock). Namespace may be NamespaceAll.
type DataSource interface {
	ListPods(ctx context.Context, namespace string) ([]PodRecord, error)
	ListNodes(ctx context.Context) ([]NodeRecord, error)
	ListServices(ctx context.Context, namespace string) ([]ServiceRecord, error)
}

// PodRow is one rendered line of the Pods tab.
type PodRow struct {
	Name      string
	Namespace string
	Ready     string
	Status    string
	Restarts  string
	Age       string
	Node      string
}

// Cells returns the row values in PodColumns order.
func (r PodRow) Cells() []string {
	return []string{r.Name, r.Namespace, r.Ready, r.Status, r.Restarts, r.Age, r.Node}
}

// NodeRow is one rendered line of the Nodes tab.
type NodeRow struct {
	Name    string
	Status  string
	Roles   string
	Age     string
	Version string
}

// Cells returns the row values in NodeColumns order.
func (r NodeRow) Cells() []string {
	return []string{r.Name, r.Status, r.Roles, r.Age, r.Version}
}

// ServiceRow is one rendered line of the Services tab.
type ServiceRow struct {
	Name       string
	Namespace  string
	Type       string
	ClusterIP  string
	ExternalIP string
	Ports      string
	Age        string
}

// Cells returns the row values in ServiceColumns order.
func (r ServiceRow) Cells() []string {
	return []string{r.Name, r.Namespace, r.Type, r.ClusterIP, r.ExternalIP, r.Ports, r.Age}
}

// Column headers per kind, shared by both presenters.
var (
	PodColumns     = []string{"NAME", "NAMESPACE", "READY", "STATUS", "RESTARTS", "AGE", "NODE"}
	NodeColumns    = []string{"NAME", "STATUS", "ROLES", "AGE", "VERSION"}
	ServiceColumns = []string{"NAME", "NAMESPACE", "TYPE", "CLUSTER-IP", "EXTERNAL-IP", "PORTS", "AGE"}
)

// Warning records a contained, per-kind problem inside a cycle: a failed
// fetch branch or a skipped malformed record.
type Warning struct {
	Kind Kind
	Err  error
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %v", w.Kind, w.Err)
}

// Cycle is the result of one complete fetch-project pass over all three
// kinds. It is rebuilt wholesale every refresh; there is no incremental
// diffing and no identity carried between cycles.
type Cycle struct {
	Taken    time.Time
	Pods     []PodRow
	Nodes    []NodeRow
	Services []ServiceRow
	Warnings []Warning
}

// WarningsFor returns the warnings recorded against one kind.
func (c *Cycle) WarningsFor(kind Kind) []Warning {
	var out []Warning
	for _, w := range c.Warnings {
		if w.Kind == kind {
			out = append(out, w)
		}
	}
	return out
}
