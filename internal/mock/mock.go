// Package mock provides a fixed, deterministic data source for demo mode.
// It implements the same contract as the live cluster client and never
// fails, so `--mock` runs are fully reproducible: 3 pods, 3 nodes,
// 2 services on every cycle.
package mock

import (
	"context"
	"fmt"
	"time"

	"kubemon/internal/snapshot"
)

// Source serves the fixture set. Record ages are fixed offsets against the
// clock so the projector runs its real code path.
type Source struct {
	// now is swapped out in tests for stable ages. Nil selects time.Now.
	now func() time.Time
}

var _ snapshot.DataSource = (*Source)(nil)

// NewSource returns a fixture-backed data source.
func NewSource() *Source {
	return &Source{}
}

// NewSourceAt returns a fixture-backed data source whose record ages are
// computed against the given clock.
func NewSourceAt(now func() time.Time) *Source {
	return &Source{now: now}
}

func (s *Source) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// ListPods returns the three fixture pods regardless of namespace.
func (s *Source) ListPods(_ context.Context, _ string) ([]snapshot.PodRecord, error) {
	now := s.clock()
	return []snapshot.PodRecord{
		{
			Name:              "nginx-deployment-7d8cdf8d9c-abc123",
			Namespace:         "default",
			Phase:             "Running",
			Node:              "worker-node-1",
			ReadyContainers:   1,
			TotalContainers:   1,
			ContainerRestarts: []int32{0},
			CreatedAt:         now.Add(-2 * 24 * time.Hour),
		},
		{
			Name:              "api-server-78f9cd5b2a-def456",
			Namespace:         "default",
			Phase:             "Running",
			Node:              "worker-node-2",
			ReadyContainers:   1,
			TotalContainers:   1,
			ContainerRestarts: []int32{2},
			CreatedAt:         now.Add(-24 * time.Hour),
		},
		{
			Name:              "redis-cache-9b8a7c6d5e-ghi789",
			Namespace:         "default",
			Phase:             "Pending",
			Node:              "worker-node-1",
			ReadyContainers:   0,
			TotalContainers:   1,
			ContainerRestarts: []int32{0},
			CreatedAt:         now.Add(-5 * time.Minute),
		},
	}, nil
}

// ListNodes returns the three fixture nodes.
func (s *Source) ListNodes(_ context.Context) ([]snapshot.NodeRecord, error) {
	now := s.clock()
	return []snapshot.NodeRecord{
		{
			Name:           "master-node",
			Status:         "Ready",
			Roles:          []string{"control-plane", "master"},
			KubeletVersion: "v1.28.2",
			CreatedAt:      now.Add(-30 * 24 * time.Hour),
		},
		{
			Name:           "worker-node-1",
			Status:         "Ready",
			Roles:          []string{"worker"},
			KubeletVersion: "v1.28.2",
			CreatedAt:      now.Add(-30 * 24 * time.Hour),
		},
		{
			Name:           "worker-node-2",
			Status:         "Ready",
			Roles:          []string{"worker"},
			KubeletVersion: "v1.28.2",
			CreatedAt:      now.Add(-29 * 24 * time.Hour),
		},
	}, nil
}

// ListServices returns the two fixture services regardless of namespace.
func (s *Source) ListServices(_ context.Context, _ string) ([]snapshot.ServiceRecord, error) {
	now := s.clock()
	return []snapshot.ServiceRecord{
		{
			Name:      "kubernetes",
			Namespace: "default",
			Type:      "ClusterIP",
			ClusterIP: "10.96.0.1",
			Ports:     []string{"443/TCP"},
			CreatedAt: now.Add(-30 * 24 * time.Hour),
		},
		{
			Name:        "nginx-service",
			Namespace:   "default",
			Type:        "LoadBalancer",
			ClusterIP:   "10.96.1.100",
			ExternalIPs: []string{"203.0.113.42"},
			Ports:       []string{"80:30080/TCP"},
			CreatedAt:   now.Add(-2 * 24 * time.Hour),
		},
	}, nil
}

// PodEvents returns canned events so the TUI log overlay shows an events
// section in demo mode.
func (s *Source) PodEvents(_ context.Context, namespace, name string) ([]snapshot.PodEvent, error) {
	now := s.clock()
	return []snapshot.PodEvent{
		{
			Type:    "Normal",
			Reason:  "Scheduled",
			Message: fmt.Sprintf("Successfully assigned %s/%s to worker-node-1", namespace, name),
			Time:    now.Add(-5 * time.Minute),
			Count:   1,
		},
		{
			Type:    "Normal",
			Reason:  "Pulled",
			Message: "Container image already present on machine",
			Time:    now.Add(-5 * time.Minute),
			Count:   1,
		},
		{
			Type:    "Warning",
			Reason:  "BackOff",
			Message: "Back-off restarting failed container",
			Time:    now.Add(-2 * time.Minute),
			Count:   3,
		},
	}, nil
}

// PodLogs returns canned log lines so the TUI log viewer works in demo mode.
func (s *Source) PodLogs(_ context.Context, namespace, name string, tailLines int64) (string, error) {
	now := s.clock().UTC().Format(time.RFC3339)
	return fmt.Sprintf(
		"%s starting %s in %s\n%s listening on :8080\n%s readiness probe ok\n",
		now, name, namespace, now, now,
	), nil
}
