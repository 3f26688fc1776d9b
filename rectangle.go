package quadtree

import (
	"fmt"
	"strconv"
)

// Rectangle is an axis-aligned region given by its center (X, Y) and its
// half-extents (W, H). The full width is 2*W and the full height is 2*H.
type Rectangle struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// NewRectangle returns the rectangle centered on (x, y) with half-width w and
// half-height h.
func NewRectangle(x, y, w, h float64) (Rectangle, error) {
	r := Rectangle{X: x, Y: y, W: w, H: h}
	if err := r.Validate(); err != nil {
		return Rectangle{}, err
	}
	return r, nil
}

// Validate reports whether r is usable as a tree boundary.
func (r Rectangle) Validate() error {
	if !finite(r.X) || !finite(r.Y) || !finite(r.W) || !finite(r.H) {
		return ErrNonFinite
	}
	if r.W <= 0 || r.H <= 0 {
		return fmt.Errorf("%w: w=%v h=%v", ErrDegenerate, r.W, r.H)
	}
	return nil
}

// Contains reports whether p lies strictly inside r. Points on an edge are
// outside.
func (r Rectangle) Contains(p Point) bool {
	return p.X > r.X-r.W &&
		p.X < r.X+r.W &&
		p.Y > r.Y-r.H &&
		p.Y < r.Y+r.H
}

// Quarter returns the region of quadrant q of r. North is toward smaller Y.
func (r Rectangle) Quarter(q Quadrant) Rectangle {
	w, h := r.W/2.0, r.H/2.0
	switch q {
	case Northeast:
		return Rectangle{X: r.X + w, Y: r.Y - h, W: w, H: h}
	case Northwest:
		return Rectangle{X: r.X - w, Y: r.Y - h, W: w, H: h}
	case Southeast:
		return Rectangle{X: r.X + w, Y: r.Y + h, W: w, H: h}
	case Southwest:
		return Rectangle{X: r.X - w, Y: r.Y + h, W: w, H: h}
	}
	panic("quadtree: invalid quadrant " + strconv.Itoa(int(q)))
}

// splittable reports whether every quarter of r is a valid rectangle that
// differs from r: half-extents stay positive and the centers still move.
func (r Rectangle) splittable() bool {
	w, h := r.W/2.0, r.H/2.0
	return w > 0 && h > 0 &&
		r.X-w < r.X && r.X+w > r.X &&
		r.Y-h < r.Y && r.Y+h > r.Y
}

// Left, Right, Top and Bottom are the edge coordinates of r.
func (r Rectangle) Left() float64   { return r.X - r.W }
func (r Rectangle) Right() float64  { return r.X + r.W }
func (r Rectangle) Top() float64    { return r.Y - r.H }
func (r Rectangle) Bottom() float64 { return r.Y + r.H }

func (r Rectangle) String() string {
	return "{center " + Point{r.X, r.Y}.String() + " half " + Point{r.W, r.H}.String() + "}"
}
