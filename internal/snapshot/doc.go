// Package snapshot contains the polling core of kubemon: the raw resource
// records fetched from a data source, the projection of those records into
// display rows, and the refresh loop that drives fetch-project-emit cycles.
//
// One Cycle is a complete pass over the three monitored resource kinds
// (Pods, Nodes, Services). The three fetches run concurrently with a bounded
// timeout each; a failing fetch yields an empty row-set and a Warning on the
// cycle instead of aborting the other kinds. The loop emits every completed
// cycle through a callback, exactly once, and never emits a half-built cycle.
//
// Presenters (internal/cli, internal/tui) consume cycles; they own sorting
// and styling. The projector preserves data-source order and passes status
// strings through verbatim.
package snapshot
