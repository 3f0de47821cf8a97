package threads

// Predicate is the visitor protocol. Test returns true to continue the traversal
// and false to stop it.
type Predicate[T any] interface {
	Test(item T) bool
}

// PredicateFunc adapts a plain function to Predicate.
type PredicateFunc[T any] func(item T) bool

// Test calls f(item).
func (f PredicateFunc[T]) Test(item T) bool {
	return f(item)
}

type alwaysTrue[T any] struct{}

func (alwaysTrue[T]) Test(T) bool { return true }

// AlwaysTrue matches everything.
func AlwaysTrue[T any]() Predicate[T] {
	return alwaysTrue[T]{}
}

// ThreadIDPredicate matches the thread with a given id.
type ThreadIDPredicate struct {
	id int64
}

// NewThreadIDPredicate fails with ErrInvalidArgument if id is not positive.
func NewThreadIDPredicate(id int64) (*ThreadIDPredicate, error) {
	if id <= 0 {
		return nil, invalidArgument("thread id must be positive, got %d", id)
	}
	return &ThreadIDPredicate{id: id}, nil
}

// Test reports whether t has the stored id.
func (p *ThreadIDPredicate) Test(t Thread) bool {
	return t.ID() == p.id
}

// ThreadNamePredicate matches threads by exact name.
type ThreadNamePredicate struct {
	name string
}

// NewThreadNamePredicate fails with ErrNilArgument if name is empty.
func NewThreadNamePredicate(name string) (*ThreadNamePredicate, error) {
	if name == "" {
		return nil, nilArgument("thread name must not be empty")
	}
	return &ThreadNamePredicate{name: name}, nil
}

// Test reports whether t is currently named as stored.
func (p *ThreadNamePredicate) Test(t Thread) bool {
	return t.Name() == p.name
}

// GroupNamePredicate matches groups by exact name.
type GroupNamePredicate struct {
	name string
}

// NewGroupNamePredicate fails with ErrNilArgument if name is empty.
func NewGroupNamePredicate(name string) (*GroupNamePredicate, error) {
	if name == "" {
		return nil, nilArgument("group name must not be empty")
	}
	return &GroupNamePredicate{name: name}, nil
}

// Test reports whether g has the stored name.
func (p *GroupNamePredicate) Test(g Group) bool {
	return g.Name() == p.name
}
