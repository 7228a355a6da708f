package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Plane represents a plane in 3D space using the equation: ax + by + cz + d = 0
// where (a, b, c) is the normal and d is the distance from origin.
// Boundary planes are oriented so that the positive half-space is inside the visible volume.
type Plane struct {
	Normal   mgl32.Vec3
	Distance float32
}

// Boundary plane indices, in the order a 3D viewport reports them.
const (
	PlaneLeft   = 0
	PlaneRight  = 1
	PlaneNear   = 2
	PlaneFar    = 3
	PlaneTop    = 4
	PlaneBottom = 5
)

// Boundary plane indices of a 2D viewport, which has no near or far plane.
const (
	Plane2DLeft   = 0
	Plane2DRight  = 1
	Plane2DTop    = 2
	Plane2DBottom = 3
)

// NewPlane creates a plane with the given normal passing through point.
// The normal is normalized; a zero normal yields a zero plane.
//
// Parameters:
//   - normal: the plane normal, pointing toward the positive half-space
//   - point: any point lying on the plane
//
// Returns:
//   - Plane: the plane
func NewPlane(normal, point mgl32.Vec3) Plane {
	l := normal.Len()
	if l == 0 {
		return Plane{}
	}
	n := normal.Mul(1 / l)
	return Plane{Normal: n, Distance: -n.Dot(point)}
}

// SignedDistance returns the signed distance from p to the plane. Positive values are inside.
//
// Parameters:
//   - p: the world-space point
//
// Returns:
//   - float32: the signed distance
func (p Plane) SignedDistance(point mgl32.Vec3) float32 {
	return p.Normal.Dot(point) + p.Distance
}

// Coefficients returns the plane as (a, b, c, d).
//
// Returns:
//   - [4]float32: the plane equation coefficients
func (p Plane) Coefficients() [4]float32 {
	return [4]float32{p.Normal[0], p.Normal[1], p.Normal[2], p.Distance}
}

// ExtractFrustumFromMatrix extracts frustum planes from a view-projection matrix.
// The matrix should be the combined Projection * View matrix with OpenGL clip space (z in [-w, w]).
// Uses the Gribb/Hartmann method for plane extraction.
//
// Reference: https://www8.cs.umu.se/kurser/5DV051/HT12/lab/plane_extraction.pdf
//
// Parameters:
//   - viewProj: the view-projection matrix (column-major)
//
// Returns:
//   - [6]Plane: the normalized planes indexed by the Plane* constants
func ExtractFrustumFromMatrix(viewProj mgl32.Mat4) [6]Plane {
	var f [6]Plane

	r0, r1, r2, r3 := viewProj.Rows()

	f[PlaneLeft] = planeFromRow(r3.Add(r0))
	f[PlaneRight] = planeFromRow(r3.Sub(r0))
	f[PlaneBottom] = planeFromRow(r3.Add(r1))
	f[PlaneTop] = planeFromRow(r3.Sub(r1))
	f[PlaneNear] = planeFromRow(r3.Add(r2))
	f[PlaneFar] = planeFromRow(r3.Sub(r2))

	return f
}

// planeFromRow builds a normalized plane from a combined matrix row.
func planeFromRow(row mgl32.Vec4) Plane {
	p := Plane{Normal: mgl32.Vec3{row[0], row[1], row[2]}, Distance: row[3]}
	length := float32(math.Sqrt(float64(p.Normal.Dot(p.Normal))))

	if length > 0 {
		invLen := 1.0 / length
		p.Normal = p.Normal.Mul(invLen)
		p.Distance *= invLen
	}
	return p
}

// PointIsInside reports whether p lies in the positive half-space of every plane.
//
// Parameters:
//   - planes: the boundary planes
//   - p: the world-space point
//
// Returns:
//   - bool: true if the point is inside (or on) every plane
func PointIsInside(planes []Plane, p mgl32.Vec3) bool {
	for i := range planes {
		if planes[i].SignedDistance(p) < 0 {
			return false
		}
	}
	return true
}

// SphereVisibility classifies a sphere against the boundary planes.
// The sphere is Invisible as soon as it is entirely outside one plane,
// Visible when it is entirely inside every plane, and SemiVisible otherwise.
//
// Parameters:
//   - planes: the boundary planes
//   - center: the sphere center
//   - radius: the sphere radius
//
// Returns:
//   - Visibility: the classification
func SphereVisibility(planes []Plane, center mgl32.Vec3, radius float32) Visibility {
	allInside := true
	for i := range planes {
		d := planes[i].SignedDistance(center)
		if d < -radius {
			return Invisible
		}
		if d < radius {
			allInside = false
		}
	}
	if allInside {
		return Visible
	}
	return SemiVisible
}

// BoxVisibility classifies an axis-aligned box against the boundary planes using its eight corners.
// The test is conservative: a box outside the volume but straddling two planes near a corner is
// reported SemiVisible.
//
// Parameters:
//   - planes: the boundary planes
//   - min: the minimum corner of the box
//   - max: the maximum corner of the box
//
// Returns:
//   - Visibility: the classification
func BoxVisibility(planes []Plane, min, max mgl32.Vec3) Visibility {
	corners := Box{Min: min, Max: max}.Corners()
	allInForAllPlanes := true
	for i := range planes {
		allOut := true
		for _, c := range corners {
			if planes[i].SignedDistance(c) < 0 {
				allInForAllPlanes = false
			} else {
				allOut = false
			}
		}
		if allOut {
			return Invisible
		}
	}
	if allInForAllPlanes {
		return Visible
	}
	return SemiVisible
}
