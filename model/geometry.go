package model

import "math"

// Point represents a 2D point in page coordinates.
type Point struct {
	X, Y float64
}

// Distance calculates the Euclidean distance to another point.
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Rect represents a rectangle in PDF page coordinates (bottom-origin).
type Rect struct {
	X      float64 // Left
	Y      float64 // Bottom
	Width  float64
	Height float64
}

// NewRect creates a rectangle from its left, bottom, width and height.
func NewRect(x, y, width, height float64) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// RectFromCorners creates a rectangle spanning two arbitrary corner points.
func RectFromCorners(a, b Point) Rect {
	x := math.Min(a.X, b.X)
	y := math.Min(a.Y, b.Y)
	return Rect{
		X:      x,
		Y:      y,
		Width:  math.Abs(b.X - a.X),
		Height: math.Abs(b.Y - a.Y),
	}
}

// Left returns the left edge X coordinate.
func (r Rect) Left() float64 { return r.X }

// Right returns the right edge X coordinate.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the bottom edge Y coordinate.
func (r Rect) Bottom() float64 { return r.Y }

// Top returns the top edge Y coordinate.
func (r Rect) Top() float64 { return r.Y + r.Height }

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether the point lies inside the rectangle (inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left() && p.X <= r.Right() &&
		p.Y >= r.Bottom() && p.Y <= r.Top()
}

// Intersects reports whether two rectangles overlap.
func (r Rect) Intersects(other Rect) bool {
	return !(r.Right() < other.Left() ||
		r.Left() > other.Right() ||
		r.Top() < other.Bottom() ||
		r.Bottom() > other.Top())
}

// IntersectsWithin reports whether two rectangles overlap after each is
// expanded by the given tolerance on all sides. Used for fuzzy overlap
// checks between detected regions and native link rectangles.
func (r Rect) IntersectsWithin(other Rect, tolerance float64) bool {
	return r.Expand(tolerance).Intersects(other.Expand(tolerance))
}

// Expand grows the rectangle by the margin on all sides. A negative margin
// shrinks it.
func (r Rect) Expand(margin float64) Rect {
	return Rect{
		X:      r.X - margin,
		Y:      r.Y - margin,
		Width:  r.Width + 2*margin,
		Height: r.Height + 2*margin,
	}
}

// Union returns the smallest rectangle containing both rectangles.
func (r Rect) Union(other Rect) Rect {
	x := math.Min(r.Left(), other.Left())
	y := math.Min(r.Bottom(), other.Bottom())
	right := math.Max(r.Right(), other.Right())
	top := math.Max(r.Top(), other.Top())
	return Rect{X: x, Y: y, Width: right - x, Height: top - y}
}

// Area returns the area of the rectangle.
func (r Rect) Area() float64 {
	return r.Width * r.Height
}
