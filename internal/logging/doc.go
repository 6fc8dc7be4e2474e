// Package logging provides the process-wide structured logger shared by
// every component (spec.md §9: "global logger + file handlers map to a
// process-wide structured logger initialized once at CLI entry; no other
// module touches global state"), plus the typed attribute helpers call
// sites use so they never hand-roll a log key or accidentally log a secret
// value.
package logging
