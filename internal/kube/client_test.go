package kube

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	k8serrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/kubernetes/fake"

	"kubemon/internal/snapshot"
)

func TestListPodsMapsRecords(t *testing.T) {
	created := metav1.NewTime(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	pod := &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:              "web-1",
			Namespace:         "default",
			CreationTimestamp: created,
		},
		Spec: corev1.PodSpec{
			NodeName:   "node-a",
			Containers: []corev1.Container{{Name: "app"}, {Name: "sidecar"}},
		},
		Status: corev1.PodStatus{
			Phase: corev1.PodRunning,
			ContainerStatuses: []corev1.ContainerStatus{
				{Name: "app", Ready: true, RestartCount: 3},
				{Name: "sidecar", Ready: false, RestartCount: 1},
			},
		},
	}
	c := &Client{clientset: fake.NewClientset(pod)}

	records, err := c.ListPods(context.Background(), "default")
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "web-1", rec.Name)
	assert.Equal(t, "default", rec.Namespace)
	assert.Equal(t, "Running", rec.Phase)
	assert.Equal(t, "node-a", rec.Node)
	assert.Equal(t, 1, rec.ReadyContainers)
	assert.Equal(t, 2, rec.TotalContainers)
	assert.Equal(t, []int32{3, 1}, rec.ContainerRestarts)
	assert.Equal(t, created.Time, rec.CreatedAt)
}

func TestListPodsPrefersWaitingReason(t *testing.T) {
	pod := &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: "crasher", Namespace: "default"},
		Status: corev1.PodStatus{
			Phase: corev1.PodRunning,
			ContainerStatuses: []corev1.ContainerStatus{
				{State: corev1.ContainerState{Waiting: &corev1.ContainerStateWaiting{Reason: "CrashLoopBackOff"}}},
			},
		},
	}
	c := &Client{clientset: fake.NewClientset(pod)}

	records, err := c.ListPods(context.Background(), "default")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "CrashLoopBackOff", records[0].Phase)
}

func TestListPodsNamespaceScoping(t *testing.T) {
	podA := &corev1.Pod{ObjectMeta: metav1.ObjectMeta{Name: "a", Namespace: "default"}}
	podB := &corev1.Pod{ObjectMeta: metav1.ObjectMeta{Name: "b", Namespace: "kube-system"}}
	c := &Client{clientset: fake.NewClientset(podA, podB)}

	scoped, err := c.ListPods(context.Background(), "default")
	require.NoError(t, err)
	assert.Len(t, scoped, 1)

	all, err := c.ListPods(context.Background(), snapshot.NamespaceAll)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListNodesMapsStatusAndRoles(t *testing.T) {
	ready := &corev1.Node{
		ObjectMeta: metav1.ObjectMeta{
			Name: "cp-1",
			Labels: map[string]string{
				"node-role.kubernetes.io/control-plane": "",
				"kubernetes.io/hostname":                "cp-1",
			},
		},
		Status: corev1.NodeStatus{
			Conditions: []corev1.NodeCondition{{Type: corev1.NodeReady, Status: corev1.ConditionTrue}},
			NodeInfo:   corev1.NodeSystemInfo{KubeletVersion: "v1.28.2"},
		},
	}
	notReady := &corev1.Node{
		ObjectMeta: metav1.ObjectMeta{Name: "w-1"},
		Status: corev1.NodeStatus{
			Conditions: []corev1.NodeCondition{{Type: corev1.NodeReady, Status: corev1.ConditionFalse}},
		},
	}
	c := &Client{clientset: fake.NewClientset(ready, notReady)}

	records, err := c.ListNodes(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	byName := map[string]snapshot.NodeRecord{}
	for _, r := range records {
		byName[r.Name] = r
	}
	assert.Equal(t, "Ready", byName["cp-1"].Status)
	assert.Equal(t, []string{"control-plane"}, byName["cp-1"].Roles)
	assert.Equal(t, "v1.28.2", byName["cp-1"].KubeletVersion)
	assert.Equal(t, "NotReady", byName["w-1"].Status)
	assert.Empty(t, byName["w-1"].Roles)
}

func TestListServicesMapsPortsAndExternalIPs(t *testing.T) {
	svc := &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{Name: "lb", Namespace: "default"},
		Spec: corev1.ServiceSpec{
			Type:        corev1.ServiceTypeLoadBalancer,
			ClusterIP:   "10.96.1.100",
			ExternalIPs: []string{"198.51.100.7"},
			Ports: []corev1.ServicePort{
				{Port: 80, NodePort: 30080, Protocol: corev1.ProtocolTCP},
				{Port: 443, Protocol: corev1.ProtocolTCP},
			},
		},
		Status: corev1.ServiceStatus{
			LoadBalancer: corev1.LoadBalancerStatus{
				Ingress: []corev1.LoadBalancerIngress{{IP: "203.0.113.42"}},
			},
		},
	}
	c := &Client{clientset: fake.NewClientset(svc)}

	records, err := c.ListServices(context.Background(), "default")
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "LoadBalancer", rec.Type)
	assert.Equal(t, "10.96.1.100", rec.ClusterIP)
	assert.Equal(t, []string{"203.0.113.42", "198.51.100.7"}, rec.ExternalIPs)
	assert.Equal(t, []string{"80:30080/TCP", "443/TCP"}, rec.Ports)
}

func TestPodEventsMapsRecords(t *testing.T) {
	first := metav1.NewTime(time.Date(2024, 6, 1, 11, 55, 0, 0, time.UTC))
	counted := &corev1.Event{
		ObjectMeta:     metav1.ObjectMeta{Name: "web-1.backoff", Namespace: "default"},
		InvolvedObject: corev1.ObjectReference{Kind: "Pod", Name: "web-1", Namespace: "default"},
		Type:           "Warning",
		Reason:         "BackOff",
		Message:        "Back-off restarting failed container",
		FirstTimestamp: first,
		Count:          3,
	}
	// Newer API servers leave FirstTimestamp and Count empty.
	modern := &corev1.Event{
		ObjectMeta:     metav1.ObjectMeta{Name: "web-1.scheduled", Namespace: "default"},
		InvolvedObject: corev1.ObjectReference{Kind: "Pod", Name: "web-1", Namespace: "default"},
		Type:           "Normal",
		Reason:         "Scheduled",
		Message:        "assigned to node-a",
		EventTime:      metav1.NewMicroTime(first.Time.Add(time.Minute)),
	}
	c := &Client{clientset: fake.NewClientset(counted, modern)}

	events, err := c.PodEvents(context.Background(), "default", "web-1")
	require.NoError(t, err)
	require.Len(t, events, 2)

	byReason := map[string]snapshot.PodEvent{}
	for _, ev := range events {
		byReason[ev.Reason] = ev
	}
	assert.Equal(t, "Warning", byReason["BackOff"].Type)
	assert.Equal(t, int32(3), byReason["BackOff"].Count)
	assert.Equal(t, first.Time, byReason["BackOff"].Time)
	assert.Equal(t, int32(1), byReason["Scheduled"].Count)
	assert.Equal(t, first.Time.Add(time.Minute), byReason["Scheduled"].Time)
}

func TestPodLogs(t *testing.T) {
	pod := &corev1.Pod{ObjectMeta: metav1.ObjectMeta{Name: "web-1", Namespace: "default"}}
	c := &Client{clientset: fake.NewClientset(pod)}

	logs, err := c.PodLogs(context.Background(), "default", "web-1", 200)
	require.NoError(t, err)
	assert.NotEmpty(t, logs)
}

func TestClassifyError(t *testing.T) {
	gr := schema.GroupResource{Resource: "pods"}

	tests := []struct {
		name     string
		err      error
		expected ErrorType
	}{
		{
			name:     "unauthorized",
			err:      k8serrors.NewUnauthorized("token expired"),
			expected: ErrAuth,
		},
		{
			name:     "forbidden",
			err:      k8serrors.NewForbidden(gr, "web-1", errors.New("rbac denies list")),
			expected: ErrForbidden,
		},
		{
			name:     "server error",
			err:      k8serrors.NewInternalError(errors.New("etcd timeout")),
			expected: ErrConnectivity,
		},
		{
			name:     "dial failure",
			err:      errors.New(`Get "https://1.2.3.4:6443/api": dial tcp 1.2.3.4:6443: connection refused`),
			expected: ErrConnectivity,
		},
		{
			name:     "tls failure",
			err:      errors.New("x509: certificate signed by unknown authority"),
			expected: ErrConnectivity,
		},
		{
			name:     "deadline",
			err:      errors.New("context deadline exceeded"),
			expected: ErrConnectivity,
		},
		{
			name:     "unknown",
			err:      errors.New("boom"),
			expected: ErrUnknown,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			classified := classifyError(tc.err, "https://api.example:6443")
			var apiErr *APIError
			require.ErrorAs(t, classified, &apiErr)
			assert.Equal(t, tc.expected, apiErr.Type)
			assert.ErrorIs(t, classified, tc.err)
			assert.NotEmpty(t, apiErr.Error())
		})
	}
}

func TestClassifyErrorNil(t *testing.T) {
	assert.NoError(t, classifyError(nil, ""))
}
