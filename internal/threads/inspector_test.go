package threads

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flatTree builds system -> main with the given threads in main.
func flatTree(ts ...Thread) (*fakeGroup, *fakeGroup) {
	root := &fakeGroup{name: "system"}
	main := &fakeGroup{name: "main", parent: root, threads: ts}
	root.groups = []Group{main}
	root.threads = ts
	return root, main
}

func TestSystemGroupWalksParents(t *testing.T) {
	root, main := flatTree()
	leaf := &fakeGroup{name: "leaf", parent: main}
	insp := New(&fakeRuntime{current: leaf})

	got, err := insp.SystemGroup(context.Background())
	require.NoError(t, err)
	assert.Same(t, root, got)
}

func TestSystemGroupPropagatesDenial(t *testing.T) {
	denied := errors.New("denied")
	_, main := flatTree()
	main.err = denied
	insp := New(&fakeRuntime{current: main})

	_, err := insp.SystemGroup(context.Background())
	assert.Same(t, denied, err)

	_, err = insp.AllThreads(context.Background())
	assert.Same(t, denied, err)
}

func TestSystemGroupRuntimeErrors(t *testing.T) {
	_, err := New(nil).SystemGroup(context.Background())
	assert.ErrorIs(t, err, ErrNilArgument)

	_, err = New(&fakeRuntime{}).SystemGroup(context.Background())
	assert.Error(t, err)
}

func TestThreadByIDRejectsNonPositiveBeforeTraversal(t *testing.T) {
	root, main := flatTree(makeThreads(3, "w")...)
	insp := New(&fakeRuntime{current: main})

	for _, id := range []int64{0, -1, -42} {
		_, _, err := insp.ThreadByID(context.Background(), id)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		_, _, err = insp.ThreadByIDInGroup(id, main)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		_, _, err = insp.ThreadByIDInGroupNamed(context.Background(), id, "main")
		assert.ErrorIs(t, err, ErrInvalidArgument)
	}
	assert.Zero(t, root.counts)
	assert.Zero(t, main.counts)
}

func TestNilArgumentsBeforeTraversal(t *testing.T) {
	root, main := flatTree(makeThreads(1, "w")...)
	insp := New(&fakeRuntime{current: main})
	ctx := context.Background()

	_, err := insp.ThreadsByName(ctx, "")
	assert.ErrorIs(t, err, ErrNilArgument)
	_, err = insp.GroupsByName(ctx, "")
	assert.ErrorIs(t, err, ErrNilArgument)
	_, err = insp.ThreadsByNameInGroup("w", nil)
	assert.ErrorIs(t, err, ErrNilArgument)
	_, err = insp.ThreadsByNameInGroup("", main)
	assert.ErrorIs(t, err, ErrNilArgument)
	_, err = insp.ThreadsByNameInGroupNamed(ctx, "", "main")
	assert.ErrorIs(t, err, ErrNilArgument)
	_, err = insp.ThreadsByNameInGroupNamed(ctx, "w", "")
	assert.ErrorIs(t, err, ErrNilArgument)
	_, _, err = insp.ThreadByIDInGroup(1, nil)
	assert.ErrorIs(t, err, ErrNilArgument)
	_, _, err = insp.ThreadByIDInGroupNamed(ctx, 1, "")
	assert.ErrorIs(t, err, ErrNilArgument)
	assert.ErrorIs(t, insp.VisitAllThreads(ctx, nil), ErrNilArgument)
	assert.ErrorIs(t, insp.VisitAllGroups(ctx, nil), ErrNilArgument)

	assert.Zero(t, root.counts)
	assert.Zero(t, main.counts)
}

func TestThreadByIDStopsAtFirstHit(t *testing.T) {
	ts := makeThreads(4, "w")
	_, main := flatTree(ts...)
	insp := New(&fakeRuntime{current: main})

	got, ok, err := insp.ThreadByID(context.Background(), 3)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Same(t, ts[2], got)

	_, ok, err = insp.ThreadByID(context.Background(), 99)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNamedGroupLoopShortCircuits(t *testing.T) {
	first := &fakeGroup{name: "pool", threads: []Thread{&fakeThread{id: 5, name: "w"}}}
	second := &fakeGroup{name: "pool", threads: []Thread{&fakeThread{id: 6, name: "w"}}}
	root := &fakeGroup{name: "system", groups: []Group{first, second}}
	first.parent, second.parent = root, root
	insp := New(&fakeRuntime{current: first})

	got, ok, err := insp.ThreadByIDInGroupNamed(context.Background(), 5, "pool")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(5), got.ID())
	assert.Zero(t, second.fills, "second group must not be scanned once satisfied")

	got, ok, err = insp.ThreadByIDInGroupNamed(context.Background(), 6, "pool")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(6), got.ID())

	named, err := insp.ThreadsByNameInGroupNamed(context.Background(), "w", "pool")
	require.NoError(t, err)
	assert.Len(t, named, 2)

	_, ok, err = insp.ThreadByIDInGroupNamed(context.Background(), 5, "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLimitedCollectorReportsIncompleteVisit(t *testing.T) {
	g := &fakeGroup{threads: makeThreads(6, "w")}
	c := NewLimitedCollector(AlwaysTrue[Thread](), 3)
	complete, err := VisitThreads(g, true, c)
	require.NoError(t, err)
	assert.False(t, complete)
	assert.Equal(t, 3, c.Len())
}
