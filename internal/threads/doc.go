// Package threads locates goroutine groups and their threads by name or id and
// exposes an early-terminating visitor over both.
//
// The package consumes a read-only view of a live group tree ([Group], [Thread],
// [Runtime]) and never mutates it. Every enumeration works on a point-in-time
// snapshot: the live set is counted, copied into a buffer half again as large,
// and re-read whenever the copy fills the buffer completely, since a full buffer
// may have truncated a set that grew in the meantime.
//
// Visitors are plain [Predicate] values. Returning false from Test stops the
// traversal; it is not an error. [Collector] turns any predicate into a bounded
// accumulator, and [Inspector] composes collectors into ready-made lookups.
package threads
