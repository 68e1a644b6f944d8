package snapshot

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"kubemon/pkg/logging"
)

// DefaultFetchTimeout bounds each per-kind list call so no branch can hang a
// cycle indefinitely.
const DefaultFetchTimeout = 10 * time.Second

// Ticker is the minimal surface of time.Ticker the loop needs. Injecting it
// keeps interval behavior deterministic in tests.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type realTicker struct {
	t *time.Ticker
}

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// NewTicker returns a Ticker backed by time.Ticker.
func NewTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

// Loop drives fetch-project-emit cycles against a data source. Cycles run
// strictly sequentially; only the three per-kind fetches inside one cycle
// run concurrently.
type Loop struct {
	Source    DataSource
	Namespace string

	// Interval between cycles. Zero means a single cycle.
	Interval time.Duration

	// FetchTimeout bounds each per-kind list call. Zero selects
	// DefaultFetchTimeout.
	FetchTimeout time.Duration

	// NewTicker is swapped out in tests. Nil selects NewTicker.
	NewTicker func(time.Duration) Ticker

	// Now is swapped out in tests. Nil selects time.Now.
	Now func() time.Time
}

// Run performs cycles until ctx is cancelled, emitting each completed cycle
// through onCycle exactly once. With a zero interval it performs exactly one
// cycle and returns nil. Cancellation is honored between cycles, never
// mid-fetch; a cancelled wait returns ctx.Err().
func (l *Loop) Run(ctx context.Context, onCycle func(Cycle)) error {
	onCycle(l.runCycle(ctx))
	if l.Interval == 0 {
		return nil
	}

	newTicker := l.NewTicker
	if newTicker == nil {
		newTicker = NewTicker
	}
	ticker := newTicker(l.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C():
			onCycle(l.runCycle(ctx))
		}
	}
}

// runCycle fans the three kind fetches out concurrently, waits for all of
// them, and assembles one complete Cycle. A failed branch contributes an
// empty row-set and a warning; it never aborts the other branches or the
// loop. Each branch writes only its own result slot; the fan-in below the
// Wait is the only code touching shared output.
func (l *Loop) runCycle(ctx context.Context) Cycle {
	var (
		pods     []PodRecord
		nodes    []NodeRecord
		services []ServiceRecord

		podErr, nodeErr, svcErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		fctx, cancel := l.fetchContext(ctx)
		defer cancel()
		pods, podErr = l.Source.ListPods(fctx, l.Namespace)
		return nil
	})
	g.Go(func() error {
		fctx, cancel := l.fetchContext(ctx)
		defer cancel()
		nodes, nodeErr = l.Source.ListNodes(fctx)
		return nil
	})
	g.Go(func() error {
		fctx, cancel := l.fetchContext(ctx)
		defer cancel()
		services, svcErr = l.Source.ListServices(fctx, l.Namespace)
		return nil
	})
	g.Wait() //nolint:errcheck // branches report through their error slots

	now := time.Now()
	if l.Now != nil {
		now = l.Now()
	}
	cycle := Cycle{Taken: now}

	if podErr != nil {
		cycle.Warnings = append(cycle.Warnings, Warning{Kind: KindPod, Err: fmt.Errorf("list pods: %w", podErr)})
		logging.Warn("snapshot", "pod fetch failed: %v", podErr)
	} else {
		rows, warns := ProjectPods(pods, now)
		cycle.Pods = rows
		cycle.Warnings = append(cycle.Warnings, warns...)
	}

	if nodeErr != nil {
		cycle.Warnings = append(cycle.Warnings, Warning{Kind: KindNode, Err: fmt.Errorf("list nodes: %w", nodeErr)})
		logging.Warn("snapshot", "node fetch failed: %v", nodeErr)
	} else {
		rows, warns := ProjectNodes(nodes, now)
		cycle.Nodes = rows
		cycle.Warnings = append(cycle.Warnings, warns...)
	}

	if svcErr != nil {
		cycle.Warnings = append(cycle.Warnings, Warning{Kind: KindService, Err: fmt.Errorf("list services: %w", svcErr)})
		logging.Warn("snapshot", "service fetch failed: %v", svcErr)
	} else {
		rows, warns := ProjectServices(services, now)
		cycle.Services = rows
		cycle.Warnings = append(cycle.Warnings, warns...)
	}

	return cycle
}

func (l *Loop) fetchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := l.FetchTimeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return context.WithTimeout(ctx, timeout)
}
