package config

import "time"

// Config is the top-level configuration structure for kubemon.
type Config struct {
	// Namespace to monitor; "all" selects all namespaces.
	Namespace string `yaml:"namespace,omitempty"`

	// RefreshSeconds between cycles; 0 means a single snapshot. Negative
	// values are rejected at validation.
	RefreshSeconds *float64 `yaml:"refreshSeconds,omitempty"`

	// RequestTimeoutSeconds bounds each per-kind list call.
	RequestTimeoutSeconds *float64 `yaml:"requestTimeoutSeconds,omitempty"`

	// Mode selects the presenter: "cli" or "textual".
	Mode string `yaml:"mode,omitempty"`
}

// RefreshInterval converts RefreshSeconds to a duration.
func (c Config) RefreshInterval() time.Duration {
	if c.RefreshSeconds == nil {
		return 0
	}
	return time.Duration(*c.RefreshSeconds * float64(time.Second))
}

// RequestTimeout converts RequestTimeoutSeconds to a duration.
func (c Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds == nil {
		return 0
	}
	return time.Duration(*c.RequestTimeoutSeconds * float64(time.Second))
}
