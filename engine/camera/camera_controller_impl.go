package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/go-gl/mathgl/mgl32"
)

// controllerImpl is the single implementation of Controller.
// Orbit methods rotate the eye frame around the arcball reference point; planar methods translate
// both the eye and the pivot along the eye axes, preserving the orbit relationship.
type controllerImpl struct {
	mu       *sync.Mutex
	viewport *viewportImpl

	// Orbit constraints
	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	// Orbit speed settings
	orbitSpeed       float32
	mouseSensitivity float32
	zoomSpeed        float32

	// Planar speed
	panSpeed float32
}

// Compile-time interface compliance check
var _ Controller = &controllerImpl{}

var worldUp = mgl32.Vec3{0, 1, 0}

// newController creates the controller bound to v with sensible defaults.
//
// Parameters:
//   - v: the viewport whose eye is driven
//   - options: functional options to configure the controller
//
// Returns:
//   - *controllerImpl: the newly created controller
func newController(v *viewportImpl, options ...ControllerOption) *controllerImpl {
	cc := &controllerImpl{
		mu:       &sync.Mutex{},
		viewport: v,

		minRadius:    1e-3,
		maxRadius:    math.MaxFloat32,
		minElevation: float32(-math.Pi/2 + 0.1),
		maxElevation: float32(math.Pi/2 - 0.1),

		orbitSpeed:       0.03,
		mouseSensitivity: 0.005,
		zoomSpeed:        10.0,

		panSpeed: 1.0,
	}

	for _, option := range options {
		option(cc)
	}
	return cc
}

// --- internal helpers ---

// orbitOffset returns the vector from the pivot to the eye.
// Caller must hold the viewport mutex.
func (cc *controllerImpl) orbitOffset() (pivot, offset mgl32.Vec3) {
	pivot = cc.viewport.eye.Pivot()
	return pivot, cc.viewport.eye.WorldPosition().Sub(pivot)
}

// spherical returns the azimuth and elevation of offset around the world Y axis.
func spherical(offset mgl32.Vec3) (azimuth, elevation float32) {
	l := offset.Len()
	if l < 1e-9 {
		return 0, 0
	}
	azimuth = float32(math.Atan2(float64(offset[0]), float64(offset[2])))
	elevation = float32(math.Asin(float64(mgl32.Clamp(offset[1]/l, -1, 1))))
	return azimuth, elevation
}

// orbitHorizontal rotates the eye around the pivot by angle: about the world Y axis for cameras,
// about Z for windows.
func (cc *controllerImpl) orbitHorizontal(angle float32) {
	v := cc.viewport
	v.mu.Lock()
	defer v.mu.Unlock()
	axis := worldUp
	if v.variant == Orthographic2D {
		axis = mgl32.Vec3{0, 0, 1}
	}
	v.eye.RotateAroundPoint(mgl32.QuatRotate(angle, axis), v.eye.Pivot())
}

// orbitVertical tilts the eye around the pivot so that its elevation changes by delta, clamped to bounds.
func (cc *controllerImpl) orbitVertical(delta float32, op string) {
	cc.mu.Lock()
	lo, hi := cc.minElevation, cc.maxElevation
	cc.mu.Unlock()

	v := cc.viewport
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.requireCamera(op) {
		return
	}
	pivot, offset := cc.orbitOffset()
	_, elevation := spherical(offset)
	target := mgl32.Clamp(elevation+delta, lo, hi)
	step := target - elevation
	if step == 0 {
		return
	}
	axis, ok := common.SafeNormalize(worldUp.Cross(offset))
	if !ok {
		axis = v.eye.WorldOrientation().Rotate(mgl32.Vec3{1, 0, 0})
	}
	v.eye.RotateAroundPoint(mgl32.QuatRotate(-step, axis), pivot)
}

// setRadius moves the eye along the pivot direction to radius, clamped to bounds.
// Caller must hold the viewport mutex.
func (cc *controllerImpl) setRadius(radius, lo, hi float32) {
	pivot, offset := cc.orbitOffset()
	dir, ok := common.SafeNormalize(offset)
	if !ok {
		dir = cc.viewport.viewDirection().Mul(-1)
	}
	radius = mgl32.Clamp(radius, lo, hi)
	cc.viewport.eye.SetWorldPosition(pivot.Add(dir.Mul(radius)))
}

// pan translates the eye and the pivot by offset.
// Caller must hold the viewport mutex.
func (cc *controllerImpl) pan(offset mgl32.Vec3) {
	v := cc.viewport
	v.eye.SetWorldPosition(v.eye.WorldPosition().Add(offset))
	v.eye.SetPivot(v.eye.Pivot().Add(offset))
}

// panStep returns delta scaled by the pan speed and the viewport fly speed.
func (cc *controllerImpl) panStep(delta float32) float32 {
	cc.mu.Lock()
	speed := cc.panSpeed
	cc.mu.Unlock()
	return delta * speed * cc.viewport.FlySpeed()
}

// --- Controller shared methods ---

func (cc *controllerImpl) Zoom(delta float32) {
	cc.mu.Lock()
	speed, lo, hi := cc.zoomSpeed, cc.minRadius, cc.maxRadius
	cc.mu.Unlock()

	v := cc.viewport
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.variant == Orthographic2D {
		m := v.eye.WorldMagnitude()
		factor := float32(math.Exp(float64(-0.01 * delta * speed)))
		v.setScaling(mgl32.Vec2{m[0] * factor, m[1] * factor})
		return
	}
	_, offset := cc.orbitOffset()
	cc.setRadius(offset.Len()-delta*speed*v.flySpeed, lo, hi)
}

// --- orbitController implementation ---

func (cc *controllerImpl) OrbitLeft() {
	cc.orbitHorizontal(-cc.OrbitSpeed())
}

func (cc *controllerImpl) OrbitRight() {
	cc.orbitHorizontal(cc.OrbitSpeed())
}

func (cc *controllerImpl) OrbitUp() {
	cc.orbitVertical(cc.OrbitSpeed(), "OrbitUp")
}

func (cc *controllerImpl) OrbitDown() {
	cc.orbitVertical(-cc.OrbitSpeed(), "OrbitDown")
}

func (cc *controllerImpl) OrbitDrag(dx, dy float32) {
	sensitivity := cc.MouseSensitivity()
	if dx != 0 {
		cc.orbitHorizontal(-dx * sensitivity)
	}
	if dy != 0 {
		cc.orbitVertical(dy*sensitivity, "OrbitDrag")
	}
}

func (cc *controllerImpl) Radius() float32 {
	v := cc.viewport
	v.mu.Lock()
	defer v.mu.Unlock()
	_, offset := cc.orbitOffset()
	return offset.Len()
}

func (cc *controllerImpl) SetRadius(radius float32) {
	cc.mu.Lock()
	lo, hi := cc.minRadius, cc.maxRadius
	cc.mu.Unlock()

	v := cc.viewport
	v.mu.Lock()
	defer v.mu.Unlock()
	cc.setRadius(radius, lo, hi)
}

func (cc *controllerImpl) MinRadius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.minRadius
}

func (cc *controllerImpl) MaxRadius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.maxRadius
}

func (cc *controllerImpl) Azimuth() float32 {
	v := cc.viewport
	v.mu.Lock()
	defer v.mu.Unlock()
	_, offset := cc.orbitOffset()
	azimuth, _ := spherical(offset)
	return azimuth
}

func (cc *controllerImpl) Elevation() float32 {
	v := cc.viewport
	v.mu.Lock()
	defer v.mu.Unlock()
	_, offset := cc.orbitOffset()
	_, elevation := spherical(offset)
	return elevation
}

func (cc *controllerImpl) MinElevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.minElevation
}

func (cc *controllerImpl) MaxElevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.maxElevation
}

func (cc *controllerImpl) OrbitSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.orbitSpeed
}

func (cc *controllerImpl) MouseSensitivity() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.mouseSensitivity
}

func (cc *controllerImpl) ZoomSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.zoomSpeed
}

// --- planarController implementation ---

func (cc *controllerImpl) PanRight(delta float32) {
	step := cc.panStep(delta)
	v := cc.viewport
	v.mu.Lock()
	defer v.mu.Unlock()
	right, _, _ := v.eyeAxes()
	cc.pan(right.Mul(step))
}

func (cc *controllerImpl) PanUp(delta float32) {
	step := cc.panStep(delta)
	v := cc.viewport
	v.mu.Lock()
	defer v.mu.Unlock()
	_, up, _ := v.eyeAxes()
	cc.pan(up.Mul(step))
}

func (cc *controllerImpl) PanForward(delta float32) {
	step := cc.panStep(delta)
	v := cc.viewport
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.requireCamera("PanForward") {
		return
	}
	_, _, view := v.eyeAxes()
	cc.pan(view.Mul(step))
}

func (cc *controllerImpl) PanSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.panSpeed
}
