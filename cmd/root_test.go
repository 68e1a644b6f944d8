package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kubemon/internal/config"
)

func TestApplyFlagsOnlyOverlaysChangedFlags(t *testing.T) {
	cfg := config.DefaultConfig()

	require.NoError(t, rootCmd.Flags().Set("mode", "textual"))
	require.NoError(t, rootCmd.Flags().Set("refresh", "0"))
	t.Cleanup(func() {
		// Reset shared flag state so other tests see pristine flags.
		rootCmd.Flags().Lookup("mode").Changed = false
		rootCmd.Flags().Lookup("refresh").Changed = false
		flagMode = ""
		flagRefresh = 0
	})

	out := applyFlags(rootCmd, cfg)

	assert.Equal(t, config.ModeTextual, out.Mode)
	require.NotNil(t, out.RefreshSeconds)
	assert.Equal(t, 0.0, *out.RefreshSeconds)
	// Namespace was not set on the command line and keeps the config value.
	assert.Equal(t, "default", out.Namespace)
}

func TestRunRootRejectsInvalidMode(t *testing.T) {
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"--mock", "--mode", "bogus"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid mode")
}

func TestRunRootRejectsNegativeRefresh(t *testing.T) {
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"--mock", "--mode", "cli", "--refresh", "-1"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid refresh interval")
}

func TestRunRootMockSingleSnapshot(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"--mock", "--mode", "cli", "--refresh", "0"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	// One mock cycle against the built-in fixtures; no cluster involved.
	require.NoError(t, rootCmd.Execute())

	dump := out.String()
	assert.Contains(t, dump, "Kubernetes Dashboard")
	for _, name := range []string{"nginx-deployment-7d8cdf8d9c-abc123", "master-node", "nginx-service"} {
		assert.Contains(t, dump, name)
	}
}

func TestIsCleanShutdown(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		clean bool
	}{
		{name: "context canceled", err: context.Canceled, clean: true},
		{name: "tui killed by signal", err: tea.ErrProgramKilled, clean: true},
		{name: "tui interrupted", err: tea.ErrInterrupted, clean: true},
		{name: "deadline exceeded", err: context.DeadlineExceeded, clean: false},
		{name: "real failure", err: errors.New("boom"), clean: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.clean, isCleanShutdown(tc.err))
		})
	}
}
