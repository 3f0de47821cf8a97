package threads

import "context"

type fakeThread struct {
	id   int64
	name string
}

func (t *fakeThread) ID() int64    { return t.id }
func (t *fakeThread) Name() string { return t.name }

// fakeGroup is a flat group whose live set can be changed between count and
// fill. A destroyed group reports nothing, whatever it still holds.
type fakeGroup struct {
	name      string
	parent    Group
	groups    []Group
	threads   []Thread
	destroyed bool

	// beforeFill runs before every fill with the 0-based fill number.
	beforeFill func(n int)
	fills      int
	counts     int
	err        error
	// reported overrides the approximate thread count.
	reported func() int
}

func (g *fakeGroup) Name() string { return g.name }

func (g *fakeGroup) Parent() (Group, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.parent, nil
}

func (g *fakeGroup) Destroyed() bool { return g.destroyed }

func (g *fakeGroup) ActiveGroupCount(bool) (int, error) {
	g.counts++
	if g.err != nil {
		return 0, g.err
	}
	if g.destroyed {
		return 0, nil
	}
	return len(g.groups), nil
}

func (g *fakeGroup) EnumerateGroups(dst []Group, _ bool) (int, error) {
	g.hook()
	if g.destroyed {
		return 0, nil
	}
	return copy(dst, g.groups), nil
}

func (g *fakeGroup) ActiveThreadCount(bool) (int, error) {
	g.counts++
	if g.err != nil {
		return 0, g.err
	}
	if g.destroyed {
		return 0, nil
	}
	if g.reported != nil {
		return g.reported(), nil
	}
	return len(g.threads), nil
}

func (g *fakeGroup) EnumerateThreads(dst []Thread, _ bool) (int, error) {
	g.hook()
	if g.destroyed {
		return 0, nil
	}
	return copy(dst, g.threads), nil
}

func (g *fakeGroup) hook() {
	if g.beforeFill != nil {
		g.beforeFill(g.fills)
	}
	g.fills++
}

type fakeRuntime struct {
	current Group
	err     error
}

func (r *fakeRuntime) CurrentGroup(context.Context) (Group, error) {
	return r.current, r.err
}

func makeThreads(n int, name string) []Thread {
	out := make([]Thread, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, &fakeThread{id: int64(i), name: name})
	}
	return out
}
