// Package config provides layered YAML configuration for kubemon.
//
// Configuration is merged in order, later layers overriding earlier ones:
//
//  1. Built-in defaults, so kubemon works with no file at all.
//  2. User configuration (~/.config/kubemon/config.yaml).
//  3. Project configuration (./.kubemon/config.yaml).
//
// Command-line flags override everything. The file covers the few knobs the
// dashboard has:
//
//	namespace: default          # or "all"
//	refreshSeconds: 5           # 0 = single snapshot
//	requestTimeoutSeconds: 10   # per-kind list call bound
//	mode: cli                   # or "textual"
package config
