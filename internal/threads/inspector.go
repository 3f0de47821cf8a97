package threads

import (
	"context"

	"go.uber.org/zap"

	"threadscope/internal/errors"
	"threadscope/internal/metrics"
)

// Inspector answers lookups against the group tree of a Runtime. Unless a group
// is given, lookups start at the system group, the single ancestor of the
// current group that has no parent.
//
// Each call takes its own snapshots; a lookup spanning several groups sees a
// series of independent views, not one atomic picture.
type Inspector struct {
	rt  Runtime
	obs observer
}

// Option configures an Inspector.
type Option func(*Inspector)

// WithLogger sets the logger used for debug traces.
func WithLogger(log *zap.Logger) Option {
	return func(i *Inspector) {
		if log != nil {
			i.obs.log = log
		}
	}
}

// WithMetrics records traversal and query counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(i *Inspector) {
		i.obs.metrics = m
	}
}

// New returns an Inspector over rt.
func New(rt Runtime, opts ...Option) *Inspector {
	i := &Inspector{
		rt:  rt,
		obs: observer{log: zap.NewNop()},
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// SystemGroup walks parent links from the current group up to the root.
func (i *Inspector) SystemGroup(ctx context.Context) (Group, error) {
	if i.rt == nil {
		return nil, nilArgument("runtime must not be nil")
	}
	group, err := i.rt.CurrentGroup(ctx)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, errors.New("runtime reported no current group")
	}
	for {
		parent, err := group.Parent()
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return group, nil
		}
		group = parent
	}
}

// VisitAllGroups visits every group below the system group.
func (i *Inspector) VisitAllGroups(ctx context.Context, p Predicate[Group]) error {
	if p == nil {
		return nilArgument("predicate must not be nil")
	}
	root, err := i.SystemGroup(ctx)
	if err != nil {
		return err
	}
	_, err = visitGroups(i.obs, root, true, p)
	return err
}

// VisitAllThreads visits every live thread in the tree.
func (i *Inspector) VisitAllThreads(ctx context.Context, p Predicate[Thread]) error {
	if p == nil {
		return nilArgument("predicate must not be nil")
	}
	root, err := i.SystemGroup(ctx)
	if err != nil {
		return err
	}
	_, err = visitThreads(i.obs, root, true, p)
	return err
}

// VisitGroups is VisitGroups with this Inspector's logging and metrics.
func (i *Inspector) VisitGroups(group Group, recurse bool, p Predicate[Group]) (bool, error) {
	return visitGroups(i.obs, group, recurse, p)
}

// VisitThreads is VisitThreads with this Inspector's logging and metrics.
func (i *Inspector) VisitThreads(group Group, recurse bool, p Predicate[Thread]) (bool, error) {
	return visitThreads(i.obs, group, recurse, p)
}

// AllGroups returns every group below the system group. The system group
// itself is not included.
func (i *Inspector) AllGroups(ctx context.Context) ([]Group, error) {
	c := NewCollector(AlwaysTrue[Group]())
	if err := i.VisitAllGroups(ctx, c); err != nil {
		return nil, err
	}
	return record(i.obs, "all_groups", c.Results()), nil
}

// AllThreads returns every live thread.
func (i *Inspector) AllThreads(ctx context.Context) ([]Thread, error) {
	c := NewCollector(AlwaysTrue[Thread]())
	if err := i.VisitAllThreads(ctx, c); err != nil {
		return nil, err
	}
	return record(i.obs, "all_threads", c.Results()), nil
}

// ThreadByID returns the live thread with the given id, or false if there is none.
func (i *Inspector) ThreadByID(ctx context.Context, id int64) (Thread, bool, error) {
	match, err := NewThreadIDPredicate(id)
	if err != nil {
		return nil, false, err
	}
	c := NewLimitedCollector[Thread](match, 1)
	if err := i.VisitAllThreads(ctx, c); err != nil {
		return nil, false, err
	}
	return i.first("thread_by_id", c)
}

// ThreadByIDInGroup looks for the thread with the given id in group and its descendants.
func (i *Inspector) ThreadByIDInGroup(id int64, group Group) (Thread, bool, error) {
	match, err := NewThreadIDPredicate(id)
	if err != nil {
		return nil, false, err
	}
	if group == nil {
		return nil, false, nilArgument("group must not be nil")
	}
	c := NewLimitedCollector[Thread](match, 1)
	if _, err := visitThreads(i.obs, group, true, c); err != nil {
		return nil, false, err
	}
	return i.first("thread_by_id_in_group", c)
}

// ThreadByIDInGroupNamed looks for the thread with the given id in every group
// named groupName, stopping at the first hit.
func (i *Inspector) ThreadByIDInGroupNamed(ctx context.Context, id int64, groupName string) (Thread, bool, error) {
	match, err := NewThreadIDPredicate(id)
	if err != nil {
		return nil, false, err
	}
	groups, err := i.GroupsByName(ctx, groupName)
	if err != nil {
		return nil, false, err
	}
	c := NewLimitedCollector[Thread](match, 1)
	if err := i.visitEach(groups, c); err != nil {
		return nil, false, err
	}
	return i.first("thread_by_id_in_named_group", c)
}

// ThreadsByName returns all live threads named name.
func (i *Inspector) ThreadsByName(ctx context.Context, name string) ([]Thread, error) {
	match, err := NewThreadNamePredicate(name)
	if err != nil {
		return nil, err
	}
	c := NewCollector[Thread](match)
	if err := i.VisitAllThreads(ctx, c); err != nil {
		return nil, err
	}
	return record(i.obs, "threads_by_name", c.Results()), nil
}

// ThreadsByNameInGroup returns the threads named name in group and its descendants.
func (i *Inspector) ThreadsByNameInGroup(name string, group Group) ([]Thread, error) {
	match, err := NewThreadNamePredicate(name)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, nilArgument("group must not be nil")
	}
	c := NewCollector[Thread](match)
	if _, err := visitThreads(i.obs, group, true, c); err != nil {
		return nil, err
	}
	return record(i.obs, "threads_by_name_in_group", c.Results()), nil
}

// ThreadsByNameInGroupNamed returns the threads named name in every group named groupName.
func (i *Inspector) ThreadsByNameInGroupNamed(ctx context.Context, name, groupName string) ([]Thread, error) {
	match, err := NewThreadNamePredicate(name)
	if err != nil {
		return nil, err
	}
	groups, err := i.GroupsByName(ctx, groupName)
	if err != nil {
		return nil, err
	}
	c := NewCollector[Thread](match)
	if err := i.visitEach(groups, c); err != nil {
		return nil, err
	}
	return record(i.obs, "threads_by_name_in_named_group", c.Results()), nil
}

// GroupsByName returns every group below the system group named name.
func (i *Inspector) GroupsByName(ctx context.Context, name string) ([]Group, error) {
	match, err := NewGroupNamePredicate(name)
	if err != nil {
		return nil, err
	}
	c := NewCollector[Group](match)
	if err := i.VisitAllGroups(ctx, c); err != nil {
		return nil, err
	}
	return record(i.obs, "groups_by_name", c.Results()), nil
}

// OutermostGroups drops every group that has an ancestor in groups, so that a
// recursive visit of the result reaches each thread at most once. Order is kept.
func OutermostGroups(groups []Group) ([]Group, error) {
	kept := make(map[Group]struct{}, len(groups))
	for _, g := range groups {
		kept[g] = struct{}{}
	}
	out := groups[:0:0]
	for _, g := range groups {
		covered := false
		for p, err := g.Parent(); p != nil || err != nil; p, err = p.Parent() {
			if err != nil {
				return nil, err
			}
			if _, ok := kept[p]; ok {
				covered = true
				break
			}
		}
		if !covered {
			out = append(out, g)
		}
	}
	return out, nil
}

// visitEach runs c over each outermost group in turn until one visit is cut short.
func (i *Inspector) visitEach(groups []Group, c *Collector[Thread]) error {
	groups, err := OutermostGroups(groups)
	if err != nil {
		return err
	}
	for _, g := range groups {
		complete, err := visitThreads(i.obs, g, true, c)
		if err != nil {
			return err
		}
		if !complete {
			break
		}
	}
	return nil
}

func (i *Inspector) first(op string, c *Collector[Thread]) (Thread, bool, error) {
	t, ok := c.First()
	i.obs.metrics.ObserveQuery(op)
	i.obs.log.Debug("lookup", zap.String("op", op), zap.Bool("found", ok))
	return t, ok, nil
}

func record[T any](o observer, op string, items []T) []T {
	o.metrics.ObserveQuery(op)
	o.log.Debug("lookup", zap.String("op", op), zap.Int("results", len(items)))
	return items
}
