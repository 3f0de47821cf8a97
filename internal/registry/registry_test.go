package registry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threadscope/internal/threads"
)

// park starts a thread that blocks until the returned release func is called.
func park(t *testing.T, r *Registry, g *Group, name string) (*Thread, func()) {
	t.Helper()
	stop := make(chan struct{})
	th, err := r.Go(context.Background(), g, name, func(ctx context.Context) {
		<-stop
	})
	require.NoError(t, err)
	var once sync.Once
	release := func() {
		once.Do(func() { close(stop) })
		select {
		case <-th.Done():
		case <-time.After(5 * time.Second):
			t.Fatalf("thread %q did not exit", name)
		}
	}
	t.Cleanup(release)
	return th, release
}

func threadNames(t *testing.T, g *Group, recurse bool) []string {
	t.Helper()
	n, err := g.ActiveThreadCount(recurse)
	require.NoError(t, err)
	buf := make([]threads.Thread, n+1)
	c, err := g.EnumerateThreads(buf, recurse)
	require.NoError(t, err)
	out := make([]string, 0, c)
	for _, th := range buf[:c] {
		out = append(out, th.Name())
	}
	return out
}

func TestNewHasSystemAndMain(t *testing.T) {
	r := New()
	assert.Equal(t, SystemGroupName, r.Root().Name())
	assert.Equal(t, MainGroupName, r.Main().Name())

	parent, err := r.Root().Parent()
	require.NoError(t, err)
	assert.Nil(t, parent)

	parent, err = r.Main().Parent()
	require.NoError(t, err)
	assert.Same(t, r.Root(), parent)
}

func TestGoAssignsPositiveIncreasingIDs(t *testing.T) {
	r := New()
	a, _ := park(t, r, nil, "a")
	b, _ := park(t, r, nil, "b")
	assert.Equal(t, int64(1), a.ID())
	assert.Equal(t, int64(2), b.ID())
	assert.Same(t, r.Main(), a.Group())
	assert.True(t, a.Alive())
}

func TestThreadLeavesGroupOnExit(t *testing.T) {
	r := New()
	th, release := park(t, r, nil, "worker")
	assert.Equal(t, []string{"worker"}, threadNames(t, r.Main(), false))

	release()
	assert.False(t, th.Alive())
	assert.Empty(t, threadNames(t, r.Main(), false))
}

func TestGoRejectsInvalidNames(t *testing.T) {
	r := New()
	_, err := r.Go(context.Background(), nil, "  ", func(context.Context) {})
	assert.EqualError(t, err, "invalid name: thread name must not be empty")
	assert.ErrorIs(t, err, ErrInvalidName)
	_, err = r.Go(context.Background(), nil, "bad name", func(context.Context) {})
	assert.Error(t, err)
}

func TestRecursiveEnumerationOrder(t *testing.T) {
	r := New()
	a, err := r.NewGroup(nil, "a")
	require.NoError(t, err)
	b, err := r.NewGroup(a, "b")
	require.NoError(t, err)
	_, err = r.NewGroup(r.Main(), "c")
	require.NoError(t, err)

	park(t, r, a, "t-a")
	park(t, r, b, "t-b")
	park(t, r, nil, "t-main")

	assert.Equal(t, []string{"t-main", "t-a", "t-b"}, threadNames(t, r.Main(), true))
	assert.Equal(t, []string{"t-main"}, threadNames(t, r.Main(), false))

	buf := make([]threads.Group, 8)
	n, err := r.Root().EnumerateGroups(buf, true)
	require.NoError(t, err)
	names := make([]string, 0, n)
	for _, g := range buf[:n] {
		names = append(names, g.Name())
	}
	assert.Equal(t, []string{"main", "a", "b", "c"}, names)

	count, err := r.Root().ActiveGroupCount(false)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestEnumerateStopsAtBufferLength(t *testing.T) {
	r := New()
	for _, name := range []string{"one", "two", "three"} {
		park(t, r, nil, name)
	}
	buf := make([]threads.Thread, 2)
	n, err := r.Main().EnumerateThreads(buf, true)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestDestroy(t *testing.T) {
	r := New()
	g, err := r.NewGroup(nil, "jobs")
	require.NoError(t, err)
	sub, err := r.NewGroup(g, "sub")
	require.NoError(t, err)
	_, release := park(t, r, sub, "job")

	err = g.Destroy()
	assert.ErrorIs(t, err, ErrGroupNotEmpty)

	release()
	require.NoError(t, g.Destroy())
	assert.True(t, g.Destroyed())
	assert.True(t, sub.Destroyed())
	assert.ErrorIs(t, g.Destroy(), ErrGroupDestroyed)

	n, err := g.ActiveThreadCount(true)
	require.NoError(t, err)
	assert.Zero(t, n)

	count, err := r.Main().ActiveGroupCount(true)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = r.Go(context.Background(), g, "late", func(context.Context) {})
	assert.ErrorIs(t, err, ErrGroupDestroyed)
	_, err = r.NewGroup(g, "late")
	assert.ErrorIs(t, err, ErrGroupDestroyed)

	assert.ErrorIs(t, r.Root().Destroy(), ErrRootGroup)
}

func TestCurrentGroupFromContext(t *testing.T) {
	r := New()
	g, err := r.NewGroup(nil, "ctx")
	require.NoError(t, err)

	cur, err := r.CurrentGroup(context.Background())
	require.NoError(t, err)
	assert.Same(t, r.Main(), cur)

	seen := make(chan threads.Group, 1)
	self := make(chan *Thread, 1)
	th, err := r.Go(context.Background(), g, "ctx-reader", func(ctx context.Context) {
		cur, _ := r.CurrentGroup(ctx)
		seen <- cur
		me, _ := CurrentThread(ctx)
		self <- me
	})
	require.NoError(t, err)
	assert.Same(t, g, <-seen)
	assert.Same(t, th, <-self)

	other := New()
	cur, err = other.CurrentGroup(WithGroup(context.Background(), g))
	require.NoError(t, err)
	assert.Same(t, other.Main(), cur)
}

func TestAccessCheckIsReturnedUnchanged(t *testing.T) {
	var denied *Group
	r := New(WithAccessCheck(func(g *Group) error {
		if g == denied {
			return ErrAccessDenied
		}
		return nil
	}))
	denied = r.Root()

	_, err := r.Main().Parent()
	require.NoError(t, err)
	_, err = r.Root().ActiveThreadCount(true)
	assert.True(t, errors.Is(err, ErrAccessDenied))
	_, err = r.Root().EnumerateGroups(make([]threads.Group, 1), true)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestSetName(t *testing.T) {
	r := New()
	th, _ := park(t, r, nil, "before")
	require.NoError(t, th.SetName("after"))
	assert.Equal(t, "after", th.Name())
	assert.Error(t, th.SetName(""))
	assert.Equal(t, "after", th.Name())
}

func TestWaitReturnsAfterAllThreads(t *testing.T) {
	r := New()
	_, release := park(t, r, nil, "w")
	done := make(chan struct{})
	go func() {
		r.Wait()
		close(done)
	}()
	release()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Wait did not return")
	}
}
