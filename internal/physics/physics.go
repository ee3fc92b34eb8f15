// Package physics provides collision detection and motion helpers.
package physics

import "math"

// Rect is an axis-aligned bounding box in playfield coordinates (y grows downwards).
type Rect struct {
	Left, Top, Right, Bottom float64
}

// NewRect creates a rectangle from its top-left corner and size.
func NewRect(x, y, w, h float64) Rect {
	return Rect{Left: x, Top: y, Right: x + w, Bottom: y + h}
}

// Intersects reports whether two rectangles overlap. Rectangles that only
// touch along an edge or a corner count as overlapping.
func (r Rect) Intersects(o Rect) bool {
	return !(o.Left > r.Right ||
		o.Right < r.Left ||
		o.Top > r.Bottom ||
		o.Bottom < r.Top)
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() (x, y float64) {
	return (r.Left + r.Right) / 2, (r.Top + r.Bottom) / 2
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 {
	return r.Right - r.Left
}

// Height returns the vertical extent.
func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// Clamp restricts v to [min, max].
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Oscillation returns the shared sway offset for time t (seconds):
// dx = sin(t)*ampX, dy = cos(t)*ampY.
func Oscillation(t, ampX, ampY float64) (dx, dy float64) {
	return math.Sin(t) * ampX, math.Cos(t) * ampY
}
