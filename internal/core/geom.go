// Package core provides fundamental types and utilities shared by the city
// simulation and its host layers. It has no external dependencies (especially
// no Bubble Tea) to keep simulation logic pure and testable.
package core

// Rect is an axis-aligned bounding box in world units.
// X grows to the right, Y grows downward; the box covers [X, X+W) x [Y, Y+H).
type Rect struct {
	X, Y float64 // Top-left corner position
	W, H float64 // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// Empty reports whether the box has no extent on at least one axis.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Valid reports whether the box has non-negative, finite dimensions.
func (r Rect) Valid() bool {
	// NaN fails both comparisons.
	return r.W >= 0 && r.H >= 0 && r.W < inf && r.H < inf
}

const inf = 1e308

// Intersects returns true if this rectangle overlaps with another.
// Touching edges do not overlap, and a box with zero extent on either axis
// never overlaps anything.
func (r Rect) Intersects(other Rect) bool {
	if r.Empty() || other.Empty() {
		return false
	}
	return r.X < other.Right() &&
		r.Right() > other.X &&
		r.Y < other.Bottom() &&
		r.Bottom() > other.Y
}

// SpanOverlaps reports whether the horizontal extent [X, X+W) meets the closed
// span [left, right].
func (r Rect) SpanOverlaps(left, right float64) bool {
	return r.X <= right && r.Right() >= left
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Center returns the center point of the rectangle.
func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Clamp restricts a value to be within [min, max].
// When max < min the range is empty and min wins.
func Clamp(val, min, max float64) float64 {
	if val > max {
		val = max
	}
	if val < min {
		val = min
	}
	return val
}

// ClampInt restricts an integer to be within [min, max].
func ClampInt(val, min, max int) int {
	if val > max {
		val = max
	}
	if val < min {
		val = min
	}
	return val
}

// Sign returns -1, 0, or 1.
func Sign(v float64) float64 {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
