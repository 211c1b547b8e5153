// Package engine implements the packing scan reconciliation core: it
// matches scanned codes against an order's expected product lines,
// tracks per-line fulfillment, gates confirmation behind tracking-code
// verification and sequences progression through a process's orders.
// It holds no I/O; the API client and TUI feed it typed data.
package engine
