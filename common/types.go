// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import "github.com/go-gl/mathgl/mgl32"

// Visibility is the result of a frustum visibility query.
type Visibility int

const (
	// Invisible means the queried volume lies entirely outside at least one boundary plane.
	Invisible Visibility = iota
	// Visible means the queried volume lies entirely inside every boundary plane.
	Visible
	// SemiVisible means the queried volume straddles at least one boundary plane.
	// Box queries may also report SemiVisible for boxes that are actually outside near a frustum corner.
	SemiVisible
)

// String returns the upper-case name of the visibility value.
//
// Returns:
//   - string: "INVISIBLE", "VISIBLE" or "SEMIVISIBLE"
func (v Visibility) String() string {
	switch v {
	case Invisible:
		return "INVISIBLE"
	case Visible:
		return "VISIBLE"
	case SemiVisible:
		return "SEMIVISIBLE"
	}
	return "UNKNOWN"
}

// Rect is an axis-aligned screen rectangle in pixels. The origin is the top-left corner of the screen and Y grows downward.
type Rect struct {
	// X is the left edge of the rectangle in pixels.
	X int
	// Y is the top edge of the rectangle in pixels.
	Y int
	// Width is the horizontal size of the rectangle in pixels.
	Width int
	// Height is the vertical size of the rectangle in pixels.
	Height int
}

// Center returns the center of the rectangle in pixel coordinates.
//
// Returns:
//   - mgl32.Vec2: the rectangle center (x, y)
func (r Rect) Center() mgl32.Vec2 {
	return mgl32.Vec2{float32(r.X) + float32(r.Width)/2, float32(r.Y) + float32(r.Height)/2}
}

// Empty reports whether the rectangle has no area.
//
// Returns:
//   - bool: true if Width or Height is not positive
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Sphere is a bounding sphere in world space.
type Sphere struct {
	Center mgl32.Vec3
	Radius float32
}

// Box is an axis-aligned bounding box in world space.
type Box struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Corners returns the eight corners of the box.
//
// Returns:
//   - [8]mgl32.Vec3: the box corners
func (b Box) Corners() [8]mgl32.Vec3 {
	var out [8]mgl32.Vec3
	for c := range 8 {
		for i := range 3 {
			if c&(1<<i) != 0 {
				out[c][i] = b.Max[i]
			} else {
				out[c][i] = b.Min[i]
			}
		}
	}
	return out
}
