package threads

import "context"

// Node is a point-in-time view of one group, its threads and its sub-groups.
type Node struct {
	Name    string       `json:"name"`
	Threads []ThreadInfo `json:"threads,omitempty"`
	Groups  []Node       `json:"groups,omitempty"`
}

// ThreadInfo is the printable part of a Thread.
type ThreadInfo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Tree returns the whole tree starting at the system group.
func (i *Inspector) Tree(ctx context.Context) (Node, error) {
	root, err := i.SystemGroup(ctx)
	if err != nil {
		return Node{}, err
	}
	return i.TreeOf(root)
}

// TreeOf returns the tree below group. Each level is its own snapshot, so a
// group created or destroyed mid-walk may or may not appear.
func (i *Inspector) TreeOf(group Group) (Node, error) {
	if group == nil {
		return Node{}, nilArgument("group must not be nil")
	}
	node := Node{Name: group.Name()}

	threads := NewCollector(AlwaysTrue[Thread]())
	if _, err := visitThreads(i.obs, group, false, threads); err != nil {
		return Node{}, err
	}
	for _, t := range threads.Results() {
		node.Threads = append(node.Threads, ThreadInfo{ID: t.ID(), Name: t.Name()})
	}

	groups := NewCollector(AlwaysTrue[Group]())
	if _, err := visitGroups(i.obs, group, false, groups); err != nil {
		return Node{}, err
	}
	for _, g := range groups.Results() {
		child, err := i.TreeOf(g)
		if err != nil {
			return Node{}, err
		}
		node.Groups = append(node.Groups, child)
	}
	return node, nil
}

// Walk calls fn for every node in depth-first order with its depth below n.
func (n Node) Walk(fn func(depth int, node Node)) {
	n.walk(0, fn)
}

func (n Node) walk(depth int, fn func(int, Node)) {
	fn(depth, n)
	for _, child := range n.Groups {
		child.walk(depth+1, fn)
	}
}
