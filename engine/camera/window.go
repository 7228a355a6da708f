package camera

import (
	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Window is a 2D orthographic viewport. The eye always looks down -Z; its rotation is an angle about Z
// and its magnitude scales the visible region, so the half extents are half the screen size times the
// magnitude on each axis. The pseudo clipping range is [-1, 1] around the eye.
type Window interface {
	Viewport

	// Rotation returns the eye rotation about Z in radians.
	//
	// Returns:
	//   - float32: the angle
	Rotation() float32

	// SetRotation sets the eye rotation about Z.
	//
	// Parameters:
	//   - angle: the angle in radians
	SetRotation(angle float32)

	// Scaling returns the eye magnitude on X and Y: world units per pixel.
	//
	// Returns:
	//   - mgl32.Vec2: the scaling
	Scaling() mgl32.Vec2

	// SetScaling sets the eye magnitude on X and Y. Zero components are rejected with a diagnostic.
	//
	// Parameters:
	//   - s: world units per pixel on each axis
	SetScaling(s mgl32.Vec2)

	// OrthoWidthHeight returns the half width and half height of the visible region in world units.
	//
	// Returns:
	//   - float32: the half width
	//   - float32: the half height
	OrthoWidthHeight() (float32, float32)
}

var _ Window = &viewportImpl{}

// NewWindow creates a 2D Window. The eye frame is a 2D frame unless WithFrame supplies another.
// Unless WithFrame or WithPosition is given the window is fitted to the scene sphere.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the new window
func NewWindow(options ...ViewportBuilderOption) Window {
	v := newViewport(Orthographic2D)
	for _, option := range options {
		option(v)
	}
	v.variant = Orthographic2D
	v.finish()
	return v
}

func (v *viewportImpl) Rotation() float32 {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.requireWindow("Rotation") {
		return 0
	}
	return common.ZAngle(v.eye.WorldOrientation())
}

func (v *viewportImpl) SetRotation(angle float32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.requireWindow("SetRotation") {
		return
	}
	v.eye.SetWorldOrientation(mgl32.QuatRotate(angle, mgl32.Vec3{0, 0, 1}))
}

func (v *viewportImpl) Scaling() mgl32.Vec2 {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.requireWindow("Scaling") {
		return mgl32.Vec2{1, 1}
	}
	m := v.eye.WorldMagnitude()
	return mgl32.Vec2{m[0], m[1]}
}

func (v *viewportImpl) SetScaling(s mgl32.Vec2) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.requireWindow("SetScaling") {
		return
	}
	v.setScaling(s)
}

// setScaling stores a non-degenerate magnitude on the eye frame.
// Caller must hold the mutex.
func (v *viewportImpl) setScaling(s mgl32.Vec2) {
	if s[0] == 0 || s[1] == 0 {
		v.logger.Printf("[Window] SetScaling: %v has a zero component, ignored", s)
		return
	}
	v.eye.SetWorldMagnitude(mgl32.Vec3{s[0], s[1], 1})
}
