package camera

import (
	"math"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/go-gl/mathgl/mgl32"
)

func (v *viewportImpl) ComputeView() mgl32.Mat4 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.computeView()
}

func (v *viewportImpl) ComputeProjection() mgl32.Mat4 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.computeProjection()
}

func (v *viewportImpl) ViewMatrix() mgl32.Mat4 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.viewMatrix()
}

func (v *viewportImpl) ProjectionMatrix() mgl32.Mat4 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.projectionMatrix()
}

func (v *viewportImpl) ViewProjectionMatrix() mgl32.Mat4 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.viewProjectionMatrix()
}

func (v *viewportImpl) ProjectedCoordinatesOf(p mgl32.Vec3) (mgl32.Vec3, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	clip := common.TransformPoint(v.viewProjectionMatrix(), p)
	if clip[3] == 0 {
		return mgl32.Vec3{}, false
	}
	ndc := clip.Vec3().Mul(1 / clip[3])
	w, h := float32(v.screenWidth), float32(v.screenHeight)
	return mgl32.Vec3{
		(ndc[0] + 1) / 2 * w,
		h - (ndc[1]+1)/2*h,
		(ndc[2] + 1) / 2,
	}, true
}

func (v *viewportImpl) UnprojectedCoordinatesOf(p mgl32.Vec3) (mgl32.Vec3, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	inv := v.inverseViewProjection()
	if !inv.ok {
		v.logger.Printf("[%s] UnprojectedCoordinatesOf: view-projection matrix is not invertible", v.variant.tag())
		return mgl32.Vec3{}, false
	}
	w, h := float32(v.screenWidth), float32(v.screenHeight)
	ndc := mgl32.Vec4{
		2*p[0]/w - 1,
		2*(h-p[1])/h - 1,
		2*p[2] - 1,
		1,
	}
	world := inv.m.Mul4x1(ndc)
	if world[3] == 0 {
		return mgl32.Vec3{}, false
	}
	return world.Vec3().Mul(1 / world[3]), true
}

func (v *viewportImpl) SetUnprojectCacheOptimized(optimized bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.unprojectOptimized = optimized
	if !optimized {
		v.inverse.reset()
	}
}

func (v *viewportImpl) IsUnprojectCacheOptimized() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.unprojectOptimized
}

func (v *viewportImpl) ConvertClickToLine(pixel mgl32.Vec2) (origin, direction mgl32.Vec3, ok bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.convertClickToLine(pixel)
}

// computeView returns the rigid inverse of the eye's world pose. The eye magnitude is not part of the
// view transform; windows apply it through their half extents.
// Caller must hold the mutex.
func (v *viewportImpl) computeView() mgl32.Mat4 {
	world := v.eye.WorldPose()
	return world.Orientation.Inverse().Mat4().Mul4(mgl32.Translate3D(-world.Position[0], -world.Position[1], -world.Position[2]))
}

// computeProjection builds the projection matrix for the current variant.
// Caller must hold the mutex.
func (v *viewportImpl) computeProjection() mgl32.Mat4 {
	n, f := v.zNear(), v.zFar()
	var m mgl32.Mat4
	if v.variant == Perspective3D {
		fct := float32(1 / math.Tan(float64(v.fov)/2))
		m[0] = fct / v.aspectRatio()
		m[5] = fct
		m[10] = (n + f) / (n - f)
		m[11] = -1
		m[14] = 2 * n * f / (n - f)
	} else {
		hw, hh := v.orthoWidthHeight()
		if hw == 0 || hh == 0 || f == n {
			v.warnOnce("degenerate-projection", "[%s] projection is degenerate (half extents %vx%v, depth %v..%v)", v.variant.tag(), hw, hh, n, f)
			return mgl32.Ident4()
		}
		m[0] = 1 / hw
		m[5] = 1 / hh
		m[10] = -2 / (f - n)
		m[14] = -(f + n) / (f - n)
		m[15] = 1
	}
	if v.leftHanded {
		m[5] = -m[5]
	}
	return m
}

// viewMatrix returns the memoized view matrix.
// Caller must hold the mutex.
func (v *viewportImpl) viewMatrix() mgl32.Mat4 {
	return v.view.get(v.key(), v.computeView)
}

// projectionMatrix returns the memoized projection matrix.
// Caller must hold the mutex.
func (v *viewportImpl) projectionMatrix() mgl32.Mat4 {
	return v.projection.get(v.key(), v.computeProjection)
}

// viewProjectionMatrix returns the memoized Projection * View matrix.
// Caller must hold the mutex.
func (v *viewportImpl) viewProjectionMatrix() mgl32.Mat4 {
	return v.viewProjection.get(v.key(), func() mgl32.Mat4 {
		return v.projectionMatrix().Mul4(v.viewMatrix())
	})
}

// inverseViewProjection returns the inverse view-projection matrix, memoized when the unprojection
// cache is enabled.
// Caller must hold the mutex.
func (v *viewportImpl) inverseViewProjection() inverseMatrix {
	compute := func() inverseMatrix {
		m, ok := common.Invert4(v.viewProjectionMatrix())
		return inverseMatrix{m: m, ok: ok}
	}
	if !v.unprojectOptimized {
		return compute()
	}
	return v.inverse.get(v.key(), compute)
}

// convertClickToLine builds the world-space ray through a pixel.
// Caller must hold the mutex.
func (v *viewportImpl) convertClickToLine(pixel mgl32.Vec2) (mgl32.Vec3, mgl32.Vec3, bool) {
	w, h := float32(v.screenWidth), float32(v.screenHeight)
	sx := 2*pixel[0]/w - 1
	sy := 2*(h-pixel[1])/h - 1
	if v.leftHanded {
		sy = -sy
	}
	if v.variant == Perspective3D {
		tanHalf := float32(math.Tan(float64(v.fov) / 2))
		local := mgl32.Vec3{sx * tanHalf * v.aspectRatio(), sy * tanHalf, -1}
		dir, ok := common.SafeNormalize(v.eye.WorldOrientation().Rotate(local))
		if !ok {
			return mgl32.Vec3{}, mgl32.Vec3{}, false
		}
		return v.eye.WorldPosition(), dir, true
	}
	hw, hh := v.orthoWidthHeight()
	var depth float32
	if v.variant == Orthographic3D {
		depth = -v.zNear()
	}
	origin := v.fromEye(mgl32.Vec3{sx * hw, sy * hh, depth})
	return origin, v.viewDirection(), true
}
