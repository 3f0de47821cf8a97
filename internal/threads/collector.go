package threads

// Collector accumulates the items its inner predicate matches and stops the
// traversal once an optional limit is reached. It is not safe for concurrent
// use; create one per query.
type Collector[T any] struct {
	match   Predicate[T]
	limit   int
	limited bool
	items   []T
}

// NewCollector returns a collector without a limit.
func NewCollector[T any](match Predicate[T]) *Collector[T] {
	return &Collector[T]{match: match}
}

// NewLimitedCollector returns a collector that asks to stop once max items are held.
func NewLimitedCollector[T any](match Predicate[T], max int) *Collector[T] {
	c := &Collector[T]{match: match, limit: max, limited: true}
	if max > 0 {
		c.items = make([]T, 0, max)
	}
	return c
}

// Test collects item if it matches and returns false once the limit is reached.
func (c *Collector[T]) Test(item T) bool {
	if c.match.Test(item) {
		c.items = append(c.items, item)
	}
	return !c.limited || len(c.items) < c.limit
}

// Results returns a copy of everything collected so far, in visit order.
func (c *Collector[T]) Results() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// First returns the first collected item, or false if nothing matched.
func (c *Collector[T]) First() (T, bool) {
	if len(c.items) == 0 {
		var zero T
		return zero, false
	}
	return c.items[0], true
}

// Len returns the number of collected items.
func (c *Collector[T]) Len() int {
	return len(c.items)
}
