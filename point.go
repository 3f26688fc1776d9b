package quadtree

import (
	"errors"
	"math"
	"strconv"
)

var (
	// ErrNonFinite is returned when a coordinate or extent is NaN or infinite.
	ErrNonFinite = errors.New("quadtree: non-finite coordinate")
	// ErrDegenerate is returned for a rectangle with a non-positive half-extent.
	ErrDegenerate = errors.New("quadtree: non-positive half-extent")
	// ErrCapacity is returned for a node capacity below one.
	ErrCapacity = errors.New("quadtree: capacity must be at least 1")
	// ErrMalformed wraps every failure to decode a serialized tree.
	ErrMalformed = errors.New("quadtree: malformed tree data")
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPoint returns the point (x, y), or ErrNonFinite.
func NewPoint(x, y float64) (Point, error) {
	p := Point{X: x, Y: y}
	if !p.finite() {
		return Point{}, ErrNonFinite
	}
	return p, nil
}

func (p Point) finite() bool {
	return finite(p.X) && finite(p.Y)
}

func (p Point) String() string {
	return "[" + strconv.FormatFloat(p.X, 'f', -1, 64) + "," + strconv.FormatFloat(p.Y, 'f', -1, 64) + "]"
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
