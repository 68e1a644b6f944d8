package snapshot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedRecord marks a raw record that lacks its mandatory name field.
// The offending row is skipped; the rest of the kind still renders.
var ErrMalformedRecord = errors.New("malformed record: missing name")

// placeholder substitutes missing optional fields.
const placeholder = "N/A"

// ProjectPods maps pod records to display rows, preserving input order.
// Records without a name are skipped and reported as warnings; every other
// missing field degrades to a placeholder.
func ProjectPods(records []PodRecord, now time.Time) ([]PodRow, []Warning) {
	rows := make([]PodRow, 0, len(records))
	var warns []Warning
	for i, rec := range records {
		if rec.Name == "" {
			warns = append(warns, Warning{Kind: KindPod, Err: fmt.Errorf("pod record %d: %w", i, ErrMalformedRecord)})
			continue
		}
		var restarts int32
		for _, r := range rec.ContainerRestarts {
			restarts += r
		}
		rows = append(rows, PodRow{
			Name:      rec.Name,
			Namespace: orPlaceholder(rec.Namespace),
			Ready:     fmt.Sprintf("%d/%d", rec.ReadyContainers, rec.TotalContainers),
			Status:    orPlaceholder(rec.Phase),
			Restarts:  strconv.Itoa(int(restarts)),
			Age:       FormatAge(rec.CreatedAt, now),
			Node:      orPlaceholder(rec.Node),
		})
	}
	return rows, warns
}

// ProjectNodes maps node records to display rows, preserving input order.
func ProjectNodes(records []NodeRecord, now time.Time) ([]NodeRow, []Warning) {
	rows := make([]NodeRow, 0, len(records))
	var warns []Warning
	for i, rec := range records {
		if rec.Name == "" {
			warns = append(warns, Warning{Kind: KindNode, Err: fmt.Errorf("node record %d: %w", i, ErrMalformedRecord)})
			continue
		}
		roles := strings.Join(rec.Roles, ",")
		if roles == "" {
			roles = "worker"
		}
		rows = append(rows, NodeRow{
			Name:    rec.Name,
			Status:  orPlaceholder(rec.Status),
			Roles:   roles,
			Age:     FormatAge(rec.CreatedAt, now),
			Version: orPlaceholder(rec.KubeletVersion),
		})
	}
	return rows, warns
}

// ProjectServices maps service records to display rows, preserving input
// order.
func ProjectServices(records []ServiceRecord, now time.Time) ([]ServiceRow, []Warning) {
	rows := make([]ServiceRow, 0, len(records))
	var warns []Warning
	for i, rec := range records {
		if rec.Name == "" {
			warns = append(warns, Warning{Kind: KindService, Err: fmt.Errorf("service record %d: %w", i, ErrMalformedRecord)})
			continue
		}
		externalIP := strings.Join(rec.ExternalIPs, ",")
		if externalIP == "" {
			externalIP = "<none>"
		}
		rows = append(rows, ServiceRow{
			Name:       rec.Name,
			Namespace:  orPlaceholder(rec.Namespace),
			Type:       orPlaceholder(rec.Type),
			ClusterIP:  orPlaceholder(rec.ClusterIP),
			ExternalIP: externalIP,
			Ports:      orPlaceholder(strings.Join(rec.Ports, ",")),
			Age:        FormatAge(rec.CreatedAt, now),
		})
	}
	return rows, warns
}

// FormatAge renders the elapsed time since t as a single coarse unit:
// seconds under a minute, minutes under an hour, hours under a day, days
// beyond that, and years+days past 365 days. A zero or future timestamp
// renders the placeholder and "0s" respectively. Recomputed against now on
// every cycle.
func FormatAge(t, now time.Time) string {
	if t.IsZero() {
		return placeholder
	}
	d := now.Sub(t)
	if d < 0 {
		d = 0
	}
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		days := int(d.Hours() / 24)
		if days > 365 {
			return fmt.Sprintf("%dy%dd", days/365, days%365)
		}
		return fmt.Sprintf("%dd", days)
	}
}

func orPlaceholder(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}
