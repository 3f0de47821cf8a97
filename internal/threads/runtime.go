package threads

import "context"

// Thread is a read-only view of one tracked goroutine.
type Thread interface {
	// ID is positive for every thread that has been started.
	ID() int64
	// Name is not unique and may change concurrently.
	Name() string
}

// Group is a read-only view of a named container of threads and sub-groups.
//
// Counts are approximate. Enumerate* copy at most len(dst) live handles into dst
// and return how many were written. A destroyed group reports zero counts and
// writes nothing. Errors (for example access denial) are returned as is.
type Group interface {
	Name() string
	// Parent returns nil for the root group.
	Parent() (Group, error)
	Destroyed() bool
	ActiveGroupCount(recurse bool) (int, error)
	EnumerateGroups(dst []Group, recurse bool) (int, error)
	ActiveThreadCount(recurse bool) (int, error)
	EnumerateThreads(dst []Thread, recurse bool) (int, error)
}

// Runtime resolves the group of the calling execution context.
type Runtime interface {
	CurrentGroup(ctx context.Context) (Group, error)
}
