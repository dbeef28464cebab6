// Package diagram contains the fundamental types used throughout the board editor.
package diagram

// Point represents a 2D coordinate in document space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size represents the dimensions of a rectangular area.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect represents a rectangular area in document space.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains checks if a point is inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{
		X: r.X + r.Width/2,
		Y: r.Y + r.Height/2,
	}
}

// Zoom limits for the canvas viewport.
const (
	MinZoom = 0.1
	MaxZoom = 3.0
)

// Viewport holds the canvas pan offset and scale. Viewport changes are
// camera movement, not document content, and are never recorded in history.
type Viewport struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}

// DefaultViewport returns the viewport of a freshly created diagram.
func DefaultViewport() Viewport {
	return Viewport{X: 0, Y: 0, Zoom: 1}
}
