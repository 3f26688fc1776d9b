package quadtree

import "sync"

// Locked guards a Quadtree with a read-write mutex so that several
// goroutines may share it. Inserts are serialized; walks and encodes run
// concurrently with each other.
type Locked struct {
	mutex sync.RWMutex
	tree  *Quadtree
}

// NewLocked returns a guarded, empty tree. See New.
func NewLocked(boundary Rectangle, capacity int) (*Locked, error) {
	qt, err := New(boundary, capacity)
	if err != nil {
		return nil, err
	}
	return &Locked{tree: qt}, nil
}

func (l *Locked) Insert(p Point) (bool, error) {
	// the boundary never changes, so points outside it skip the lock
	if !p.finite() {
		return false, ErrNonFinite
	}
	if !l.tree.boundary.Contains(p) {
		return false, nil
	}
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.tree.insert(p), nil
}

// Walk holds the read lock for the whole walk; fn must not insert.
func (l *Locked) Walk(fn WalkFunc) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	l.tree.Walk(fn)
}

func (l *Locked) Len() int {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return l.tree.Len()
}

func (l *Locked) MarshalJSON() ([]byte, error) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return l.tree.MarshalJSON()
}

// Snapshot returns an independent copy of the tree.
func (l *Locked) Snapshot() *Quadtree {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return l.tree.clone()
}

// clone deep-copies q. Slabs are never modified and are shared.
func (q *Quadtree) clone() *Quadtree {
	c := &Quadtree{
		boundary: q.boundary,
		capacity: q.capacity,
		points:   append(make([]Point, 0, q.capacity), q.points...),
		slab:     q.slab,
	}
	if q.children != nil {
		var children [4]*Quadtree
		for i, child := range q.children {
			children[i] = child.clone()
		}
		c.children = &children
	}
	return c
}
