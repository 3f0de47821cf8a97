// Package registry tracks goroutines in a tree of named groups and exposes the
// tree through the read-only interfaces of package threads.
package registry

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"threadscope/internal/threads"
)

const (
	// SystemGroupName is the name of the root group.
	SystemGroupName = "system"
	// MainGroupName is the name of the default group below the root.
	MainGroupName = "main"
)

var (
	// ErrAccessDenied is the conventional error for access checks that refuse a group.
	ErrAccessDenied = errors.New("access denied")
	// ErrGroupDestroyed is returned when adding to, or destroying, a destroyed group.
	ErrGroupDestroyed = errors.New("group is destroyed")
	// ErrGroupNotEmpty is returned when destroying a group with live threads.
	ErrGroupNotEmpty = errors.New("group is not empty")
	// ErrRootGroup is returned when destroying the system group.
	ErrRootGroup = errors.New("system group cannot be destroyed")
	// ErrInvalidName is wrapped by every rejected thread or group name.
	ErrInvalidName = errors.New("invalid name")
)

var _ threads.Runtime = (*Registry)(nil)

// AccessCheck decides whether g may be inspected. A non-nil error is returned
// unchanged to whoever asked.
type AccessCheck func(g *Group) error

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger for lifecycle events.
func WithLogger(log *zap.Logger) Option {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

// WithAccessCheck installs a guard consulted on parent walks, counts and fills.
func WithAccessCheck(check AccessCheck) Option {
	return func(r *Registry) {
		r.access = check
	}
}

// Registry is a threadsafe in-memory tree of goroutine groups.
type Registry struct {
	mu     sync.RWMutex
	nextID int64
	root   *Group
	main   *Group

	running sync.WaitGroup
	access  AccessCheck
	log     *zap.Logger
}

// New returns a registry holding the system group and its main child.
func New(opts ...Option) *Registry {
	r := &Registry{
		nextID: 1,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.root = &Group{reg: r, name: SystemGroupName}
	r.main = &Group{reg: r, name: MainGroupName, parent: r.root}
	r.root.groups = []*Group{r.main}
	return r
}

// Root returns the system group.
func (r *Registry) Root() *Group { return r.root }

// Main returns the default group.
func (r *Registry) Main() *Group { return r.main }

// NewGroup creates a group below parent, or below main if parent is nil.
func (r *Registry) NewGroup(parent *Group, name string) (*Group, error) {
	clean, err := normalizeName(groupName, name)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		parent = r.main
	}
	if parent.reg != r {
		return nil, errors.New("parent group belongs to another registry")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if parent.destroyed {
		return nil, ErrGroupDestroyed
	}
	g := &Group{reg: r, name: clean, parent: parent}
	parent.groups = append(parent.groups, g)
	r.log.Debug("group created", zap.String("group", clean), zap.String("parent", parent.name))
	return g, nil
}

// Go starts fn in a new goroutine tracked as a thread of group (main if nil).
// The thread is visible before Go returns and disappears once fn returns. The
// context passed to fn carries group and thread, see CurrentThread.
func (r *Registry) Go(ctx context.Context, group *Group, name string, fn func(ctx context.Context)) (*Thread, error) {
	clean, err := normalizeName(threadName, name)
	if err != nil {
		return nil, err
	}
	if group == nil {
		group = r.main
	}
	if group.reg != r {
		return nil, errors.New("group belongs to another registry")
	}

	r.mu.Lock()
	if group.destroyed {
		r.mu.Unlock()
		return nil, ErrGroupDestroyed
	}
	t := &Thread{
		id:    r.nextID,
		name:  clean,
		group: group,
		done:  make(chan struct{}),
	}
	r.nextID++
	group.threads = append(group.threads, t)
	r.running.Add(1)
	r.mu.Unlock()

	r.log.Debug("thread started", zap.Int64("id", t.id), zap.String("name", clean), zap.String("group", group.name))

	runCtx := WithGroup(context.WithValue(ctx, threadKey{}, t), group)
	go func() {
		defer r.exit(t)
		fn(runCtx)
	}()
	return t, nil
}

func (r *Registry) exit(t *Thread) {
	r.mu.Lock()
	g := t.group
	for i, other := range g.threads {
		if other == t {
			g.threads = append(g.threads[:i:i], g.threads[i+1:]...)
			break
		}
	}
	r.mu.Unlock()
	close(t.done)
	r.running.Done()
	r.log.Debug("thread exited", zap.Int64("id", t.id), zap.String("name", t.Name()))
}

// Wait blocks until every thread started so far has returned.
func (r *Registry) Wait() {
	r.running.Wait()
}

// CurrentGroup returns the group stored in ctx, or main.
func (r *Registry) CurrentGroup(ctx context.Context) (threads.Group, error) {
	if g, ok := ctx.Value(groupKey{}).(*Group); ok && g != nil && g.reg == r {
		return g, nil
	}
	return r.main, nil
}

func (r *Registry) checkAccess(g *Group) error {
	if r.access == nil {
		return nil
	}
	return r.access(g)
}

type (
	groupKey  struct{}
	threadKey struct{}
)

// WithGroup returns a context whose current group is g.
func WithGroup(ctx context.Context, g *Group) context.Context {
	return context.WithValue(ctx, groupKey{}, g)
}

// CurrentThread returns the thread running with ctx, if ctx came from Go.
func CurrentThread(ctx context.Context) (*Thread, bool) {
	t, ok := ctx.Value(threadKey{}).(*Thread)
	return t, ok && t != nil
}
