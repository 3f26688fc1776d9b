// Package render draws a quadtree as a static image: one outline per node
// and one marker per stored point.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"

	"github.com/robert-butts/quadtree"
)

// MaxSide bounds the width and height of a rendered image in pixels.
const MaxSide = 1 << 14

var (
	Background = color.RGBA{85, 107, 47, 255} // dark olive green
	Outline    = color.RGBA{255, 255, 255, 255}
	Marker     = color.RGBA{255, 215, 0, 255}
)

type canvas struct {
	img        *image.RGBA
	left, top  float64
	scale      float64
	maxX, maxY int
}

func (c *canvas) px(x, y float64) (int, int) {
	return int(math.Round((x - c.left) * c.scale)), int(math.Round((y - c.top) * c.scale))
}

func (c *canvas) hline(x1, y, x2 int, col color.Color) {
	for ; x1 <= x2; x1++ {
		c.img.Set(x1, y, col)
	}
}

func (c *canvas) vline(x, y1, y2 int, col color.Color) {
	for ; y1 <= y2; y1++ {
		c.img.Set(x, y1, col)
	}
}

// rect outlines b. Edges that land on the far side of the image are pulled
// in by one pixel so they stay visible.
func (c *canvas) rect(b quadtree.Rectangle) {
	x1, y1 := c.px(b.Left(), b.Top())
	x2, y2 := c.px(b.Right(), b.Bottom())
	x2, y2 = min(x2, c.maxX), min(y2, c.maxY)
	c.hline(x1, y1, x2, Outline)
	c.hline(x1, y2, x2, Outline)
	c.vline(x1, y1, y2, Outline)
	c.vline(x2, y1, y2, Outline)
}

func (c *canvas) dot(p quadtree.Point) {
	x, y := c.px(p.X, p.Y)
	r := image.Rect(x-1, y-1, x+2, y+2)
	draw.Draw(c.img, r, &image.Uniform{Marker}, image.Point{}, draw.Src)
}

// Image draws qt with each unit of its coordinate space scaled to scale
// pixels. The image covers the root boundary.
func Image(qt *quadtree.Quadtree, scale int) (*image.RGBA, error) {
	if scale < 1 {
		return nil, fmt.Errorf("render: scale must be at least 1, got %d", scale)
	}
	root := qt.Boundary()
	w := math.Ceil(2*root.W*float64(scale)) + 1
	h := math.Ceil(2*root.H*float64(scale)) + 1
	if w > MaxSide || h > MaxSide {
		return nil, fmt.Errorf("render: %vx%v pixels exceeds %d", w, h, MaxSide)
	}
	c := &canvas{
		img:   image.NewRGBA(image.Rect(0, 0, int(w), int(h))),
		left:  root.Left(),
		top:   root.Top(),
		scale: float64(scale),
		maxX:  int(w) - 1,
		maxY:  int(h) - 1,
	}
	draw.Draw(c.img, c.img.Bounds(), &image.Uniform{Background}, image.Point{}, draw.Src)

	var points []quadtree.Point
	qt.Walk(func(_ int, b quadtree.Rectangle, ps []quadtree.Point) bool {
		c.rect(b)
		points = append(points, ps...)
		return true
	})
	// markers go on top of every outline
	for _, p := range points {
		c.dot(p)
	}
	return c.img, nil
}

// Encode writes img in the named format, "png" or "bmp".
func Encode(w io.Writer, img image.Image, format string) error {
	switch strings.ToLower(format) {
	case "png":
		return png.Encode(w, img)
	case "bmp":
		return bmp.Encode(w, img)
	}
	return fmt.Errorf("render: unsupported format %q", format)
}

// WriteFile renders qt to path, choosing the format from the extension.
func WriteFile(path string, qt *quadtree.Quadtree, scale int) (err error) {
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if format != "png" && format != "bmp" {
		return fmt.Errorf("render: unsupported extension %q", filepath.Ext(path))
	}
	img, err := Image(qt, scale)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("render: %w", cerr)
		}
	}()
	return Encode(f, img, format)
}
