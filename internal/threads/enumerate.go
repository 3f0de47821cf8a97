package threads

import (
	"go.uber.org/zap"

	"threadscope/internal/metrics"
)

// observer receives traversal events. The zero value discards them.
type observer struct {
	log     *zap.Logger
	metrics *metrics.Metrics
}

func (o observer) retry(level string, attempt, capacity int) {
	if o.log != nil {
		o.log.Debug("snapshot buffer filled, retrying",
			zap.String("level", level),
			zap.Int("attempt", attempt),
			zap.Int("capacity", capacity),
		)
	}
}

// VisitGroups hands every live sub-group of group to p, stopping at the first
// false. With recurse set, descendants at every depth are visited in one flat
// pass. It returns true if every visited group was accepted.
func VisitGroups(group Group, recurse bool, p Predicate[Group]) (bool, error) {
	return visitGroups(observer{}, group, recurse, p)
}

// VisitThreads hands every live thread of group to p, stopping at the first
// false. With recurse set, threads of all descendant groups are included. It
// returns true if every visited thread was accepted.
func VisitThreads(group Group, recurse bool, p Predicate[Thread]) (bool, error) {
	return visitThreads(observer{}, group, recurse, p)
}

func visitGroups(o observer, group Group, recurse bool, p Predicate[Group]) (bool, error) {
	if group == nil {
		return false, nilArgument("group must not be nil")
	}
	if p == nil {
		return false, nilArgument("predicate must not be nil")
	}
	items, err := snapshot(o, metrics.LevelGroups,
		func() (int, error) { return group.ActiveGroupCount(recurse) },
		func(dst []Group) (int, error) { return group.EnumerateGroups(dst, recurse) },
	)
	if err != nil {
		return false, err
	}
	return visit(o, metrics.LevelGroups, items, p), nil
}

func visitThreads(o observer, group Group, recurse bool, p Predicate[Thread]) (bool, error) {
	if group == nil {
		return false, nilArgument("group must not be nil")
	}
	if p == nil {
		return false, nilArgument("predicate must not be nil")
	}
	items, err := snapshot(o, metrics.LevelThreads,
		func() (int, error) { return group.ActiveThreadCount(recurse) },
		func(dst []Thread) (int, error) { return group.EnumerateThreads(dst, recurse) },
	)
	if err != nil {
		return false, err
	}
	return visit(o, metrics.LevelThreads, items, p), nil
}

// snapshot copies a live set whose size may change between count and fill.
// A completely filled buffer may have truncated the set, so it is discarded and
// the set re-read with a larger buffer. There is no retry limit: a set that
// outgrows every reallocation keeps the loop running.
func snapshot[T any](o observer, level string, count func() (int, error), fill func([]T) (int, error)) ([]T, error) {
	n, err := count()
	if err != nil {
		return nil, err
	}
	for attempt := 0; ; attempt++ {
		if n < 0 {
			n = 0
		}
		buf := make([]T, n+n/2+1)
		c, err := fill(buf)
		if err != nil {
			return nil, err
		}
		if c < len(buf) {
			o.metrics.ObserveSnapshot(level, attempt)
			return buf[:c], nil
		}
		o.retry(level, attempt+1, len(buf))
		if n, err = count(); err != nil {
			return nil, err
		}
		// the approximate count may lag behind what the fill just proved
		n = max(n, c)
	}
}

func visit[T any](o observer, level string, items []T, p Predicate[T]) bool {
	for i, item := range items {
		if !p.Test(item) {
			o.metrics.ObserveVisited(level, i+1)
			return false
		}
	}
	o.metrics.ObserveVisited(level, len(items))
	return true
}
