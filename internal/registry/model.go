package registry

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"threadscope/internal/threads"
)

// Thread is a goroutine started through Registry.Go.
type Thread struct {
	id    int64
	group *Group
	done  chan struct{}

	mu   sync.RWMutex
	name string
}

// ID returns the registry-wide id, starting at 1.
func (t *Thread) ID() int64 { return t.id }

// Name returns the current name.
func (t *Thread) Name() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.name
}

// SetName renames the thread. Names need not be unique.
func (t *Thread) SetName(name string) error {
	clean, err := normalizeName(threadName, name)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.name = clean
	t.mu.Unlock()
	return nil
}

// Group returns the group the thread was started in.
func (t *Thread) Group() *Group { return t.group }

// Done is closed once the goroutine has returned and left its group.
func (t *Thread) Done() <-chan struct{} { return t.done }

// Alive reports whether the goroutine is still running.
func (t *Thread) Alive() bool {
	select {
	case <-t.done:
		return false
	default:
		return true
	}
}

// Group is a named node of the registry tree. All mutable state is guarded by
// the owning registry's lock.
type Group struct {
	reg    *Registry
	name   string
	parent *Group

	groups    []*Group
	threads   []*Thread
	destroyed bool
}

var (
	_ threads.Group  = (*Group)(nil)
	_ threads.Thread = (*Thread)(nil)
)

// Name returns the group name.
func (g *Group) Name() string { return g.name }

// Parent returns the parent group, or nil for the root.
func (g *Group) Parent() (threads.Group, error) {
	if err := g.reg.checkAccess(g); err != nil {
		return nil, err
	}
	g.reg.mu.RLock()
	p := g.parent
	g.reg.mu.RUnlock()
	if p == nil {
		return nil, nil
	}
	return p, nil
}

// Destroyed reports whether Destroy has been called on the group or an ancestor.
func (g *Group) Destroyed() bool {
	g.reg.mu.RLock()
	defer g.reg.mu.RUnlock()
	return g.destroyed
}

// ActiveGroupCount returns the number of sub-groups, at every depth if recurse is set.
func (g *Group) ActiveGroupCount(recurse bool) (int, error) {
	if err := g.reg.checkAccess(g); err != nil {
		return 0, err
	}
	g.reg.mu.RLock()
	defer g.reg.mu.RUnlock()
	if g.destroyed {
		return 0, nil
	}
	n := len(g.groups)
	if recurse {
		for _, child := range g.groups {
			n += child.groupCountLocked()
		}
	}
	return n, nil
}

func (g *Group) groupCountLocked() int {
	n := len(g.groups)
	for _, child := range g.groups {
		n += child.groupCountLocked()
	}
	return n
}

// EnumerateGroups copies sub-groups into dst in creation order, each group
// followed by its own descendants when recurse is set.
func (g *Group) EnumerateGroups(dst []threads.Group, recurse bool) (int, error) {
	if err := g.reg.checkAccess(g); err != nil {
		return 0, err
	}
	g.reg.mu.RLock()
	defer g.reg.mu.RUnlock()
	if g.destroyed {
		return 0, nil
	}
	return g.fillGroupsLocked(dst, 0, recurse), nil
}

func (g *Group) fillGroupsLocked(dst []threads.Group, n int, recurse bool) int {
	for _, child := range g.groups {
		if n >= len(dst) {
			return n
		}
		dst[n] = child
		n++
		if recurse {
			n = child.fillGroupsLocked(dst, n, true)
		}
	}
	return n
}

// ActiveThreadCount returns the number of live threads, including those of
// descendant groups if recurse is set.
func (g *Group) ActiveThreadCount(recurse bool) (int, error) {
	if err := g.reg.checkAccess(g); err != nil {
		return 0, err
	}
	g.reg.mu.RLock()
	defer g.reg.mu.RUnlock()
	if g.destroyed {
		return 0, nil
	}
	return g.threadCountLocked(recurse), nil
}

func (g *Group) threadCountLocked(recurse bool) int {
	n := len(g.threads)
	if recurse {
		for _, child := range g.groups {
			n += child.threadCountLocked(true)
		}
	}
	return n
}

// EnumerateThreads copies live threads into dst: the group's own threads first,
// then those of each sub-group when recurse is set.
func (g *Group) EnumerateThreads(dst []threads.Thread, recurse bool) (int, error) {
	if err := g.reg.checkAccess(g); err != nil {
		return 0, err
	}
	g.reg.mu.RLock()
	defer g.reg.mu.RUnlock()
	if g.destroyed {
		return 0, nil
	}
	return g.fillThreadsLocked(dst, 0, recurse), nil
}

func (g *Group) fillThreadsLocked(dst []threads.Thread, n int, recurse bool) int {
	for _, t := range g.threads {
		if n >= len(dst) {
			return n
		}
		dst[n] = t
		n++
	}
	if recurse {
		for _, child := range g.groups {
			if n >= len(dst) {
				return n
			}
			n = child.fillThreadsLocked(dst, n, true)
		}
	}
	return n
}

// Destroy marks the group and all its descendants destroyed and detaches it
// from its parent. It fails while any thread in the subtree is alive.
func (g *Group) Destroy() error {
	g.reg.mu.Lock()
	defer g.reg.mu.Unlock()
	if g.parent == nil {
		return ErrRootGroup
	}
	if g.destroyed {
		return ErrGroupDestroyed
	}
	if n := g.threadCountLocked(true); n > 0 {
		return fmt.Errorf("%w: group %q has %d live thread(s)", ErrGroupNotEmpty, g.name, n)
	}
	g.markDestroyedLocked()
	siblings := g.parent.groups
	for i, s := range siblings {
		if s == g {
			g.parent.groups = append(siblings[:i:i], siblings[i+1:]...)
			break
		}
	}
	g.reg.log.Debug("group destroyed", zap.String("group", g.name))
	return nil
}

func (g *Group) markDestroyedLocked() {
	g.destroyed = true
	for _, child := range g.groups {
		child.markDestroyedLocked()
	}
	g.groups = nil
}
