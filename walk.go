package quadtree

// WalkFunc is called once per node with the node's depth (0 at the root),
// its boundary and the points stored directly at it. The slice belongs to
// the tree and must not be modified. Returning false skips the node's
// quadrants.
type WalkFunc func(depth int, boundary Rectangle, points []Point) bool

// Walk visits q and its descendants in pre-order, quadrants in dispatch
// order.
func (q *Quadtree) Walk(fn WalkFunc) {
	q.walk(0, fn)
}

func (q *Quadtree) walk(depth int, fn WalkFunc) {
	if !fn(depth, q.boundary, q.points) || q.children == nil {
		return
	}
	for _, child := range q.children {
		child.walk(depth+1, fn)
	}
}

// Len returns the number of points stored in the whole tree.
func (q *Quadtree) Len() int {
	n := 0
	q.Walk(func(_ int, _ Rectangle, points []Point) bool {
		n += len(points)
		return true
	})
	return n
}

// NodeCount returns the number of nodes in the tree, the root included.
func (q *Quadtree) NodeCount() int {
	n := 0
	q.Walk(func(int, Rectangle, []Point) bool {
		n++
		return true
	})
	return n
}

// All returns every stored point in walk order.
func (q *Quadtree) All() []Point {
	all := make([]Point, 0, q.Len())
	q.Walk(func(_ int, _ Rectangle, points []Point) bool {
		all = append(all, points...)
		return true
	})
	return all
}

// Equal reports whether a and b have the same boundaries, capacities, point
// lists and shape.
func Equal(a, b *Quadtree) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.boundary != b.boundary || a.capacity != b.capacity || len(a.points) != len(b.points) {
		return false
	}
	for i := range a.points {
		if a.points[i] != b.points[i] {
			return false
		}
	}
	if (a.children == nil) != (b.children == nil) {
		return false
	}
	if a.children == nil {
		return true
	}
	for i := range a.children {
		if !Equal(a.children[i], b.children[i]) {
			return false
		}
	}
	return true
}
