/*
Package quadtree implements a point quadtree.

Each node stores up to its capacity of points. The first insertion into a full
node splits it into four quadrants, and that insertion and every later one in
the node's region descend into the quadrant that owns the point. A split node
keeps the points it held before splitting.

The root admits only points strictly inside its boundary. Below the root a
quadrant owns its region including its east and south edges, so a point on a
dividing line goes to the west or north quadrant and is never lost.

A full node whose quarters would be degenerate (a half-extent that rounds to
zero, or a center that halving no longer moves) does not split. Points that
would have to descend from it are rejected, so long runs of duplicate points
stop after roughly a thousand levels instead of producing empty regions.

quadtree is not safe for concurrent use.
*/
package quadtree

// Quadrant names a child of a split node. The constants are in dispatch
// order, which is also the order Walk visits children in.
type Quadrant int

const (
	Northeast Quadrant = iota
	Northwest
	Southeast
	Southwest
)

// Quadrants lists every quadrant in dispatch order.
var Quadrants = [4]Quadrant{Northeast, Northwest, Southeast, Southwest}

func (q Quadrant) String() string {
	switch q {
	case Northeast:
		return "northeast"
	case Northwest:
		return "northwest"
	case Southeast:
		return "southeast"
	case Southwest:
		return "southwest"
	}
	return "invalid"
}

// slab is the region a non-root node owns: (left, right] x (top, bottom].
type slab struct {
	left, right, top, bottom float64
}

func (s slab) owns(p Point) bool {
	return p.X > s.left && p.X <= s.right && p.Y > s.top && p.Y <= s.bottom
}

// quarter splits s at the center c. A root node has no slab, so its
// quarters are cut from its boundary's edges.
func (s slab) quarter(q Quadrant, c Point) *slab {
	switch q {
	case Northeast:
		return &slab{left: c.X, right: s.right, top: s.top, bottom: c.Y}
	case Northwest:
		return &slab{left: s.left, right: c.X, top: s.top, bottom: c.Y}
	case Southeast:
		return &slab{left: c.X, right: s.right, top: c.Y, bottom: s.bottom}
	default:
		return &slab{left: s.left, right: c.X, top: c.Y, bottom: s.bottom}
	}
}

type Quadtree struct {
	boundary Rectangle
	capacity int
	points   []Point
	children *[4]*Quadtree
	slab     *slab // nil at the root
}

// New returns an empty tree covering boundary whose nodes each hold up to
// capacity points before splitting.
func New(boundary Rectangle, capacity int) (*Quadtree, error) {
	if err := boundary.Validate(); err != nil {
		return nil, err
	}
	if capacity < 1 {
		return nil, ErrCapacity
	}
	return &Quadtree{
		boundary: boundary,
		capacity: capacity,
		points:   make([]Point, 0, capacity),
	}, nil
}

// Insert adds p to the tree. It returns false, without modifying the tree,
// when p lies outside the root boundary or on its edge. A non-finite p is
// an error.
func (q *Quadtree) Insert(p Point) (bool, error) {
	if !p.finite() {
		return false, ErrNonFinite
	}
	return q.insert(p), nil
}

func (q *Quadtree) owns(p Point) bool {
	if q.slab == nil {
		return q.boundary.Contains(p)
	}
	return q.slab.owns(p)
}

func (q *Quadtree) insert(p Point) bool {
	if !q.owns(p) {
		return false
	}
	if q.children == nil {
		if len(q.points) < q.capacity {
			q.points = append(q.points, p)
			return true
		}
		if !q.boundary.splittable() {
			return false
		}
		q.subdivide()
	}
	// every quadrant sees the point; at most one owns it
	ok := false
	for _, child := range q.children {
		if child.insert(p) {
			ok = true
		}
	}
	return ok
}

// subdivide creates the four quadrants. The node's own points stay where
// they are.
func (q *Quadtree) subdivide() {
	var children [4]*Quadtree
	for _, quad := range Quadrants {
		children[quad] = q.quadrant(quad)
	}
	q.children = &children
}

func (q *Quadtree) quadrant(quad Quadrant) *Quadtree {
	return &Quadtree{
		boundary: q.boundary.Quarter(quad),
		capacity: q.capacity,
		points:   make([]Point, 0, q.capacity),
		slab:     q.region().quarter(quad, Point{q.boundary.X, q.boundary.Y}),
	}
}

// region is the slab q owns, with the root's boundary edges standing in for
// its missing slab.
func (q *Quadtree) region() slab {
	if q.slab != nil {
		return *q.slab
	}
	b := q.boundary
	return slab{left: b.Left(), right: b.Right(), top: b.Top(), bottom: b.Bottom()}
}

func (q *Quadtree) Boundary() Rectangle { return q.boundary }

func (q *Quadtree) Capacity() int { return q.capacity }

// Points returns a copy of the points stored directly at q, in insertion
// order.
func (q *Quadtree) Points() []Point {
	return append([]Point(nil), q.points...)
}

// Divided reports whether q has split into quadrants.
func (q *Quadtree) Divided() bool { return q.children != nil }

// Child returns quadrant quad of q, or nil if q is a leaf.
func (q *Quadtree) Child(quad Quadrant) *Quadtree {
	if q.children == nil {
		return nil
	}
	return q.children[quad]
}
