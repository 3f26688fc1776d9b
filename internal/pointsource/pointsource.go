// Package pointsource generates points uniformly distributed over a square.
package pointsource

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/robert-butts/quadtree"
)

// Uniform draws points from [0, Dim) x [0, Dim).
type Uniform struct {
	Dim float64
	rnd *rand.Rand
}

// New returns a source over [0, dim) x [0, dim). A zero seed is replaced by
// the current time.
func New(dim float64, seed int64) (*Uniform, error) {
	if !(dim > 0) {
		return nil, fmt.Errorf("pointsource: dimension must be positive, got %v", dim)
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Uniform{Dim: dim, rnd: rand.New(rand.NewSource(seed))}, nil
}

func (u *Uniform) Next() quadtree.Point {
	return quadtree.Point{X: u.rnd.Float64() * u.Dim, Y: u.rnd.Float64() * u.Dim}
}

// Take returns the next count points.
func (u *Uniform) Take(count int) []quadtree.Point {
	points := make([]quadtree.Point, count)
	for i := range points {
		points[i] = u.Next()
	}
	return points
}
