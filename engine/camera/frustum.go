package camera

import (
	"math"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/go-gl/mathgl/mgl32"
)

func (v *viewportImpl) EnableBoundaryEquations(enable bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.boundaryEnabled = enable
}

func (v *viewportImpl) AreBoundaryEquationsEnabled() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.boundaryEnabled
}

func (v *viewportImpl) UpdateBoundaryEquations() []common.Plane {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.planes.set(v.key(), v.computePlanes())
	return clonePlanes(v.planes.value)
}

func (v *viewportImpl) BoundaryEquations() []common.Plane {
	v.mu.Lock()
	defer v.mu.Unlock()
	return clonePlanes(v.currentPlanes())
}

func (v *viewportImpl) DistanceToBoundary(index int, p mgl32.Vec3) float32 {
	v.mu.Lock()
	defer v.mu.Unlock()
	planes := v.currentPlanes()
	if index < 0 || index >= len(planes) {
		v.logger.Printf("[%s] DistanceToBoundary: plane index %d out of range [0, %d)", v.variant.tag(), index, len(planes))
		return 0
	}
	return planes[index].SignedDistance(p)
}

func (v *viewportImpl) PointIsVisible(p mgl32.Vec3) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return common.PointIsInside(v.currentPlanes(), p)
}

func (v *viewportImpl) BallIsVisible(center mgl32.Vec3, radius float32) common.Visibility {
	v.mu.Lock()
	defer v.mu.Unlock()
	return common.SphereVisibility(v.currentPlanes(), center, radius)
}

func (v *viewportImpl) BoxIsVisible(min, max mgl32.Vec3) common.Visibility {
	v.mu.Lock()
	defer v.mu.Unlock()
	return common.BoxVisibility(v.currentPlanes(), min, max)
}

// currentPlanes returns the planes used by visibility queries. Planes are computed on first use and
// refreshed when stale if boundary equations are enabled; otherwise stale planes are reused after a
// one-time warning.
// Caller must hold the mutex.
func (v *viewportImpl) currentPlanes() []common.Plane {
	key := v.key()
	switch {
	case !v.planes.valid, v.boundaryEnabled && v.planes.stale(key):
		v.planes.set(key, v.computePlanes())
	case v.planes.stale(key):
		v.warnOnce("stale-boundary", "[%s] boundary equations are out of date; call UpdateBoundaryEquations or enable them", v.variant.tag())
	}
	return v.planes.value
}

// computePlanes derives the boundary planes analytically from the eye pose and projection parameters.
// Normals point inside. Cameras report six planes indexed by common.Plane*, windows four indexed by common.Plane2D*.
// Caller must hold the mutex.
func (v *viewportImpl) computePlanes() []common.Plane {
	pos := v.eye.WorldPosition()
	right, up, view := v.eyeAxes()

	if v.variant == Orthographic2D {
		hw, hh := v.orthoWidthHeight()
		planes := make([]common.Plane, 4)
		planes[common.Plane2DLeft] = common.NewPlane(right, pos.Sub(right.Mul(hw)))
		planes[common.Plane2DRight] = common.NewPlane(right.Mul(-1), pos.Add(right.Mul(hw)))
		planes[common.Plane2DTop] = common.NewPlane(up.Mul(-1), pos.Add(up.Mul(hh)))
		planes[common.Plane2DBottom] = common.NewPlane(up, pos.Sub(up.Mul(hh)))
		return planes
	}

	planes := make([]common.Plane, 6)
	if v.variant == Perspective3D {
		a := float64(v.fov) / 2
		b := math.Atan(math.Tan(a) * float64(v.aspectRatio()))
		cosA, sinA := float32(math.Cos(a)), float32(math.Sin(a))
		cosB, sinB := float32(math.Cos(b)), float32(math.Sin(b))
		planes[common.PlaneLeft] = common.NewPlane(right.Mul(cosB).Add(view.Mul(sinB)), pos)
		planes[common.PlaneRight] = common.NewPlane(right.Mul(-cosB).Add(view.Mul(sinB)), pos)
		planes[common.PlaneTop] = common.NewPlane(up.Mul(-cosA).Add(view.Mul(sinA)), pos)
		planes[common.PlaneBottom] = common.NewPlane(up.Mul(cosA).Add(view.Mul(sinA)), pos)
	} else {
		hw, hh := v.orthoWidthHeight()
		planes[common.PlaneLeft] = common.NewPlane(right, pos.Sub(right.Mul(hw)))
		planes[common.PlaneRight] = common.NewPlane(right.Mul(-1), pos.Add(right.Mul(hw)))
		planes[common.PlaneTop] = common.NewPlane(up.Mul(-1), pos.Add(up.Mul(hh)))
		planes[common.PlaneBottom] = common.NewPlane(up, pos.Sub(up.Mul(hh)))
	}
	planes[common.PlaneNear] = common.NewPlane(view, pos.Add(view.Mul(v.zNear())))
	planes[common.PlaneFar] = common.NewPlane(view.Mul(-1), pos.Add(view.Mul(v.zFar())))
	return planes
}

func clonePlanes(planes []common.Plane) []common.Plane {
	out := make([]common.Plane, len(planes))
	copy(out, planes)
	return out
}
