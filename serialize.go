package quadtree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// node is the wire form of a Quadtree. Absent quadrants encode as null.
type node struct {
	Boundary  Rectangle `json:"boundary"`
	Capacity  int       `json:"capacity"`
	Points    []Point   `json:"points"`
	Northwest *node     `json:"northwest"`
	Northeast *node     `json:"northeast"`
	Southwest *node     `json:"southwest"`
	Southeast *node     `json:"southeast"`
	Divided   bool      `json:"divided"`
}

func (n *node) quadrant(quad Quadrant) **node {
	switch quad {
	case Northeast:
		return &n.Northeast
	case Northwest:
		return &n.Northwest
	case Southeast:
		return &n.Southeast
	default:
		return &n.Southwest
	}
}

// Marshal encodes the whole tree as JSON.
func Marshal(q *Quadtree) ([]byte, error) {
	return json.Marshal(q)
}

// Unmarshal decodes a tree written by Marshal. Any error wraps ErrMalformed.
func Unmarshal(data []byte) (*Quadtree, error) {
	q := &Quadtree{}
	if err := q.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return q, nil
}

func (q *Quadtree) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.encode())
}

func (q *Quadtree) encode() *node {
	n := &node{
		Boundary: q.boundary,
		Capacity: q.capacity,
		Points:   append(make([]Point, 0, len(q.points)), q.points...),
		Divided:  q.children != nil,
	}
	if q.children != nil {
		for _, quad := range Quadrants {
			*n.quadrant(quad) = q.children[quad].encode()
		}
	}
	return n
}

// UnmarshalJSON replaces q with the decoded tree. q is left untouched on
// error.
func (q *Quadtree) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var n node
	if err := dec.Decode(&n); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("%w: trailing data after tree", ErrMalformed)
	}
	root, err := build(&n, nil, 0, "root")
	if err != nil {
		return err
	}
	*q = *root
	return nil
}

// build validates n against the invariants Insert maintains and converts it
// to a node. parent is nil for the root; otherwise n is parent's quadrant
// quad.
func build(n *node, parent *Quadtree, quad Quadrant, path string) (*Quadtree, error) {
	if err := n.Boundary.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: boundary: %v", ErrMalformed, path, err)
	}
	if n.Capacity < 1 {
		return nil, fmt.Errorf("%w: %s: capacity %d", ErrMalformed, path, n.Capacity)
	}
	if len(n.Points) > n.Capacity {
		return nil, fmt.Errorf("%w: %s: %d points exceed capacity %d", ErrMalformed, path, len(n.Points), n.Capacity)
	}
	q := &Quadtree{
		boundary: n.Boundary,
		capacity: n.Capacity,
		points:   make([]Point, 0, n.Capacity),
	}
	if parent != nil {
		if want := parent.boundary.Quarter(quad); n.Boundary != want {
			return nil, fmt.Errorf("%w: %s: boundary %v is not the %v quarter %v", ErrMalformed, path, n.Boundary, quad, want)
		}
		if n.Capacity != parent.capacity {
			return nil, fmt.Errorf("%w: %s: capacity %d differs from parent's %d", ErrMalformed, path, n.Capacity, parent.capacity)
		}
		q.slab = parent.region().quarter(quad, Point{parent.boundary.X, parent.boundary.Y})
	}
	for i, p := range n.Points {
		if !p.finite() {
			return nil, fmt.Errorf("%w: %s: point %d: %v", ErrMalformed, path, i, ErrNonFinite)
		}
		if !q.owns(p) {
			return nil, fmt.Errorf("%w: %s: point %d %v lies outside the node", ErrMalformed, path, i, p)
		}
		q.points = append(q.points, p)
	}

	present := 0
	for _, c := range Quadrants {
		if *n.quadrant(c) != nil {
			present++
		}
	}
	switch {
	case n.Divided && present != len(Quadrants):
		return nil, fmt.Errorf("%w: %s: divided with %d of 4 quadrants", ErrMalformed, path, present)
	case !n.Divided && present != 0:
		return nil, fmt.Errorf("%w: %s: leaf with %d quadrants", ErrMalformed, path, present)
	case !n.Divided:
		return q, nil
	}
	// a node only splits when full, and only while its quarters are valid
	if len(q.points) != q.capacity {
		return nil, fmt.Errorf("%w: %s: divided with %d of %d points", ErrMalformed, path, len(q.points), q.capacity)
	}
	if !q.boundary.splittable() {
		return nil, fmt.Errorf("%w: %s: boundary %v is too small to divide", ErrMalformed, path, q.boundary)
	}
	var children [4]*Quadtree
	for _, c := range Quadrants {
		child, err := build(*n.quadrant(c), q, c, path+"."+c.String())
		if err != nil {
			return nil, err
		}
		children[c] = child
	}
	q.children = &children
	return q, nil
}
