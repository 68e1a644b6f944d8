package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"kubemon/internal/snapshot"
)

func sampleCycle() snapshot.Cycle {
	return snapshot.Cycle{
		Taken: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Pods: []snapshot.PodRow{
			{Name: "web-1", Namespace: "default", Ready: "1/1", Status: "Running", Restarts: "0", Age: "2d", Node: "node-a"},
		},
		Nodes: []snapshot.NodeRow{
			{Name: "node-a", Status: "Ready", Roles: "worker", Age: "30d", Version: "v1.28.2"},
		},
		Services: []snapshot.ServiceRow{
			{Name: "kubernetes", Namespace: "default", Type: "ClusterIP", ClusterIP: "10.96.0.1", ExternalIP: "<none>", Ports: "443/TCP", Age: "30d"},
		},
	}
}

func TestPrintCycleRendersAllSections(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintCycle(sampleCycle())
	out := buf.String()

	assert.Contains(t, out, "Kubernetes Dashboard - 2024-06-01 12:00:00")
	for _, section := range []string{"Pods", "Nodes", "Services"} {
		assert.Contains(t, out, section)
	}
	for _, cell := range []string{"web-1", "node-a", "kubernetes", "NAME", "CLUSTER-IP"} {
		assert.Contains(t, out, cell)
	}
	assert.NotContains(t, out, "WARN")
	assert.NotContains(t, out, "\033[2J")
}

func TestPrintCycleEmptySections(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintCycle(snapshot.Cycle{Taken: time.Now()})

	assert.Equal(t, 3, strings.Count(buf.String(), "(none)"))
}

func TestPrintCycleShowsWarnings(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	c := sampleCycle()
	c.Nodes = nil
	c.Warnings = []snapshot.Warning{
		{Kind: snapshot.KindNode, Err: errors.New("list nodes: cluster unreachable")},
	}
	p.PrintCycle(c)
	out := buf.String()

	assert.Contains(t, out, "WARN list nodes: cluster unreachable")
	// The failing section renders only its warning, the others their rows.
	assert.Contains(t, out, "web-1")
	assert.Contains(t, out, "kubernetes")
}

func TestPrintCycleClearScreen(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.ClearScreen = true

	p.PrintCycle(sampleCycle())

	assert.True(t, strings.HasPrefix(buf.String(), "\033[2J\033[H"))
}
