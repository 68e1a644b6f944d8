package config

// Presenter modes.
const (
	ModeCLI = "cli"
	// ModeTextual selects the interactive Bubble Tea presenter.
	ModeTextual = "textual"
)

const (
	defaultNamespace      = "default"
	defaultRefreshSeconds = 5.0
	defaultTimeoutSeconds = 10.0
)

// DefaultConfig returns the built-in configuration kubemon runs with when no
// file is present.
func DefaultConfig() Config {
	refresh := defaultRefreshSeconds
	timeout := defaultTimeoutSeconds
	return Config{
		Namespace:             defaultNamespace,
		RefreshSeconds:        &refresh,
		RequestTimeoutSeconds: &timeout,
		Mode:                  ModeCLI,
	}
}
