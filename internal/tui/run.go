package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"kubemon/internal/snapshot"
	"kubemon/pkg/logging"
)

// Run starts the interactive dashboard. The refresh loop runs in a background
// goroutine and feeds each completed cycle into the program; quitting the
// program cancels the loop. Run blocks until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, loop *snapshot.Loop, logs LogProvider, contextName string) error {
	m := NewModel(loop.Namespace, contextName, logs)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		err := loop.Run(loopCtx, func(c snapshot.Cycle) {
			p.Send(cycleMsg{cycle: c})
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error("tui", err, "refresh loop stopped")
		}
	}()

	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
