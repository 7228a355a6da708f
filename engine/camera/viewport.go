// Package camera maps world space to an observer's eye space and screen space. A single viewport
// implementation covers three variants: a perspective 3D camera, an orthographic 3D camera and an
// orthographic 2D window. Matrices, boundary planes and the inverse projection are memoized against
// the projection parameter counter and the eye frame's world generation.
package camera

import (
	"fmt"
	"log"
	"math"
	"sort"
	"sync"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/frame"
	"github.com/Carmen-Shannon/oxy-view/engine/interpolator"
	"github.com/go-gl/mathgl/mgl32"
)

// Variant tags which projection model a viewport uses.
type Variant int

const (
	// Perspective3D is a 3D camera with a perspective projection.
	Perspective3D Variant = iota
	// Orthographic3D is a 3D camera with an orthographic projection.
	Orthographic3D
	// Orthographic2D is a 2D window looking down the -Z axis.
	Orthographic2D
)

// String returns the name of the variant.
//
// Returns:
//   - string: the variant name
func (v Variant) String() string {
	switch v {
	case Perspective3D:
		return "Perspective3D"
	case Orthographic3D:
		return "Orthographic3D"
	case Orthographic2D:
		return "Orthographic2D"
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

const (
	defaultScreenWidth  = 600
	defaultScreenHeight = 400
)

type viewportImpl struct {
	mu     *sync.Mutex
	logger *log.Logger
	warned map[string]bool

	variant Variant
	eye     frame.Frame

	sceneCenter  mgl32.Vec3
	sceneRadius  float32
	flySpeed     float32
	screenWidth  int
	screenHeight int

	kind          Kind
	fov           float32
	zNearCoef     float32
	zClipCoef     float32
	standardZNear float32
	standardZFar  float32
	orthoSize     float32
	orthoCoef     float32
	leftHanded    bool

	ioDistance               float32
	physicalScreenWidth      float32
	physicalDistanceToScreen float32
	focusDistance            float32

	// lastUpdate is bumped whenever a value that affects the projection changes.
	lastUpdate uint64

	view           memo[mgl32.Mat4]
	projection     memo[mgl32.Mat4]
	viewProjection memo[mgl32.Mat4]
	inverse        memo[inverseMatrix]
	planes         memo[[]common.Plane]

	unprojectOptimized bool
	boundaryEnabled    bool

	scheduler     interpolator.Scheduler
	paths         map[int]interpolator.KeyFrameInterpolator
	interpolation interpolator.KeyFrameInterpolator
	controller    Controller

	controllerOptions []ControllerOption
	pending           []func(*viewportImpl)
	fitOnCreate       bool
}

type inverseMatrix struct {
	m  mgl32.Mat4
	ok bool
}

// Viewport is the contract shared by cameras and windows. It owns an eye frame, an approximate
// scene bounding sphere and the screen size, and derives view, projection and view-projection
// matrices, boundary planes and screen/world mappings from them.
//
// The eye looks down its local -Z axis with +Y up and +X right. Screen coordinates have their
// origin at the top-left corner with Y growing downward; projected depth lies in [0, 1].
type Viewport interface {
	// Variant returns the projection model in use.
	//
	// Returns:
	//   - Variant: the current variant
	Variant() Variant

	// Frame returns the eye frame.
	//
	// Returns:
	//   - frame.Frame: the eye
	Frame() frame.Frame

	// SetFrame replaces the eye frame. Path interpolators are re-targeted to the new frame.
	// A nil frame is rejected with a diagnostic.
	//
	// Parameters:
	//   - f: the new eye frame
	SetFrame(f frame.Frame)

	// Position returns the eye position in world space.
	//
	// Returns:
	//   - mgl32.Vec3: the eye position
	Position() mgl32.Vec3

	// SetPosition moves the eye to p in world space.
	//
	// Parameters:
	//   - p: the new eye position
	SetPosition(p mgl32.Vec3)

	// Orientation returns the eye orientation in world space.
	//
	// Returns:
	//   - mgl32.Quat: the eye orientation
	Orientation() mgl32.Quat

	// SetOrientation sets the eye orientation in world space.
	//
	// Parameters:
	//   - q: the new eye orientation
	SetOrientation(q mgl32.Quat)

	// ViewDirection returns the unit world-space direction the eye looks at (its -Z axis).
	//
	// Returns:
	//   - mgl32.Vec3: the view direction
	ViewDirection() mgl32.Vec3

	// SetViewDirection rotates the eye so that it looks along dir, keeping the up vector when possible.
	// A window only accepts directions along -Z.
	//
	// Parameters:
	//   - dir: the new view direction
	//
	// Returns:
	//   - bool: false if dir has zero length or is not allowed for this variant
	SetViewDirection(dir mgl32.Vec3) bool

	// UpVector returns the unit world-space up vector of the eye (its +Y axis).
	//
	// Returns:
	//   - mgl32.Vec3: the up vector
	UpVector() mgl32.Vec3

	// SetUpVector rotates the eye so that its up vector matches up. Unless noMove is set, the eye
	// also moves so that the arcball reference point keeps its projected position.
	//
	// Parameters:
	//   - up: the new up vector
	//   - noMove: true to rotate in place
	SetUpVector(up mgl32.Vec3, noMove bool)

	// RightVector returns the unit world-space right vector of the eye (its +X axis).
	//
	// Returns:
	//   - mgl32.Vec3: the right vector
	RightVector() mgl32.Vec3

	// LookAt orients the eye toward target without moving it. A window pans so that target is centered.
	//
	// Parameters:
	//   - target: the world-space point to look at
	//
	// Returns:
	//   - bool: false if target coincides with the eye position
	LookAt(target mgl32.Vec3) bool

	// SceneRadius returns the radius of the scene bounding sphere.
	//
	// Returns:
	//   - float32: the scene radius
	SceneRadius() float32

	// SetSceneRadius sets the scene radius and resets the fly speed to 1% of it.
	// Non-positive values are replaced by 1 with a diagnostic.
	//
	// Parameters:
	//   - r: the scene radius
	SetSceneRadius(r float32)

	// SceneCenter returns the center of the scene bounding sphere.
	//
	// Returns:
	//   - mgl32.Vec3: the scene center
	SceneCenter() mgl32.Vec3

	// SetSceneCenter sets the scene center and moves the arcball reference point onto it.
	//
	// Parameters:
	//   - c: the scene center
	SetSceneCenter(c mgl32.Vec3)

	// SetSceneBoundingBox sets the scene sphere to the sphere circumscribing the box.
	//
	// Parameters:
	//   - min: the minimum corner
	//   - max: the maximum corner
	SetSceneBoundingBox(min, max mgl32.Vec3)

	// FlySpeed returns the translation step used by interactive motion.
	//
	// Returns:
	//   - float32: the fly speed in world units
	FlySpeed() float32

	// SetFlySpeed sets the translation step used by interactive motion.
	//
	// Parameters:
	//   - speed: the fly speed in world units
	SetFlySpeed(speed float32)

	// ArcballReferencePoint returns the world-space pivot for rotations and orthographic scaling.
	//
	// Returns:
	//   - mgl32.Vec3: the pivot
	ArcballReferencePoint() mgl32.Vec3

	// SetArcballReferencePoint moves the pivot. For orthographic cameras the half-extent coefficient is
	// rescaled by the ratio of the old and new pivot depths so that the image does not jump.
	//
	// Parameters:
	//   - p: the new pivot
	SetArcballReferencePoint(p mgl32.Vec3)

	// ScreenWidth returns the screen width in pixels.
	//
	// Returns:
	//   - int: the width
	ScreenWidth() int

	// ScreenHeight returns the screen height in pixels.
	//
	// Returns:
	//   - int: the height
	ScreenHeight() int

	// SetScreenWidthAndHeight sets the screen size. Non-positive values are replaced by 1 with a diagnostic.
	//
	// Parameters:
	//   - width: the width in pixels
	//   - height: the height in pixels
	SetScreenWidthAndHeight(width, height int)

	// AspectRatio returns width / height.
	//
	// Returns:
	//   - float32: the aspect ratio
	AspectRatio() float32

	// LastUpdate returns the projection parameter counter. It increases whenever a value that affects
	// the projection changes.
	//
	// Returns:
	//   - uint64: the counter
	LastUpdate() uint64

	// ComputeView computes the view matrix from the current eye pose, bypassing the cache.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ComputeView() mgl32.Mat4

	// ComputeProjection computes the projection matrix from the current parameters, bypassing the cache.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ComputeProjection() mgl32.Mat4

	// ViewMatrix returns the memoized view matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the memoized projection matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ProjectionMatrix() mgl32.Mat4

	// ViewProjectionMatrix returns the memoized Projection * View matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the view-projection matrix
	ViewProjectionMatrix() mgl32.Mat4

	// ProjectedCoordinatesOf maps a world-space point to screen pixels and depth in [0, 1].
	//
	// Parameters:
	//   - p: the world-space point
	//
	// Returns:
	//   - mgl32.Vec3: (x, y, depth) with the origin at the top-left corner
	//   - bool: false if the point projects to infinity
	ProjectedCoordinatesOf(p mgl32.Vec3) (mgl32.Vec3, bool)

	// UnprojectedCoordinatesOf maps screen pixels and depth back to world space.
	//
	// Parameters:
	//   - p: (x, y, depth) in screen space
	//
	// Returns:
	//   - mgl32.Vec3: the world-space point
	//   - bool: false if the view-projection matrix is not invertible or the point lies at infinity
	UnprojectedCoordinatesOf(p mgl32.Vec3) (mgl32.Vec3, bool)

	// SetUnprojectCacheOptimized enables caching of the inverse view-projection matrix. When disabled
	// the inverse is recomputed on every unprojection.
	//
	// Parameters:
	//   - optimized: true to cache the inverse
	SetUnprojectCacheOptimized(optimized bool)

	// IsUnprojectCacheOptimized reports whether the inverse view-projection matrix is cached.
	//
	// Returns:
	//   - bool: true if cached
	IsUnprojectCacheOptimized() bool

	// EnableBoundaryEquations enables or disables automatic recomputation of the boundary planes.
	// With recomputation disabled, visibility queries use the last computed planes and warn once
	// when those are out of date.
	//
	// Parameters:
	//   - enable: true to recompute automatically
	EnableBoundaryEquations(enable bool)

	// AreBoundaryEquationsEnabled reports whether boundary planes are recomputed automatically.
	//
	// Returns:
	//   - bool: true if enabled
	AreBoundaryEquationsEnabled() bool

	// UpdateBoundaryEquations recomputes the boundary planes now.
	//
	// Returns:
	//   - []common.Plane: six planes for a camera, four for a window
	UpdateBoundaryEquations() []common.Plane

	// BoundaryEquations returns the boundary planes used by visibility queries.
	//
	// Returns:
	//   - []common.Plane: six planes for a camera, four for a window
	BoundaryEquations() []common.Plane

	// DistanceToBoundary returns the signed distance from p to boundary plane index. Positive is inside.
	//
	// Parameters:
	//   - index: the plane index (common.Plane* for cameras, common.Plane2D* for windows)
	//   - p: the world-space point
	//
	// Returns:
	//   - float32: the signed distance, or 0 for an invalid index
	DistanceToBoundary(index int, p mgl32.Vec3) float32

	// PointIsVisible reports whether p lies inside every boundary plane.
	//
	// Parameters:
	//   - p: the world-space point
	//
	// Returns:
	//   - bool: true if visible
	PointIsVisible(p mgl32.Vec3) bool

	// BallIsVisible classifies a sphere against the boundary planes.
	//
	// Parameters:
	//   - center: the sphere center
	//   - radius: the sphere radius
	//
	// Returns:
	//   - common.Visibility: the classification
	BallIsVisible(center mgl32.Vec3, radius float32) common.Visibility

	// BoxIsVisible classifies an axis-aligned box against the boundary planes. Boxes outside the volume
	// near one of its corners may be reported SemiVisible.
	//
	// Parameters:
	//   - min: the minimum corner
	//   - max: the maximum corner
	//
	// Returns:
	//   - common.Visibility: the classification
	BoxIsVisible(min, max mgl32.Vec3) common.Visibility

	// FitBall moves the eye along its view direction so that the sphere exactly fills the view.
	// A window instead centers the sphere and sets a uniform magnitude.
	//
	// Parameters:
	//   - center: the sphere center
	//   - radius: the sphere radius
	FitBall(center mgl32.Vec3, radius float32)

	// FitBoundingBox fits the sphere centered on the box with half its largest extent as radius.
	//
	// Parameters:
	//   - min: the minimum corner
	//   - max: the maximum corner
	FitBoundingBox(min, max mgl32.Vec3)

	// FitScreenRegion moves the eye so that the screen rectangle fills the view. A window scales its
	// magnitude non-uniformly instead.
	//
	// Parameters:
	//   - rect: the screen rectangle in pixels
	FitScreenRegion(rect common.Rect)

	// ShowEntireScene fits the scene bounding sphere.
	ShowEntireScene()

	// CenterScene moves the eye sideways so that the scene center lies on its view axis.
	CenterScene()

	// ConvertClickToLine returns the world-space ray through a pixel. Perspective rays start at the
	// eye; orthographic rays start on the near plane and share the view direction.
	//
	// Parameters:
	//   - pixel: the pixel coordinates
	//
	// Returns:
	//   - mgl32.Vec3: the ray origin
	//   - mgl32.Vec3: the unit ray direction
	//   - bool: false if the direction cannot be normalized
	ConvertClickToLine(pixel mgl32.Vec2) (origin, direction mgl32.Vec3, ok bool)

	// KeyFrameInterpolator returns the path stored under key, or nil.
	//
	// Parameters:
	//   - key: the path key
	//
	// Returns:
	//   - interpolator.KeyFrameInterpolator: the path or nil
	KeyFrameInterpolator(key int) interpolator.KeyFrameInterpolator

	// SetKeyFrameInterpolator stores kfi under key, driving the eye frame. A nil kfi removes the path.
	//
	// Parameters:
	//   - key: the path key
	//   - kfi: the interpolator
	SetKeyFrameInterpolator(key int, kfi interpolator.KeyFrameInterpolator)

	// AddKeyFrameToPath appends the current eye pose to the path under key, one second after its last keyframe.
	// The path is created when missing.
	//
	// Parameters:
	//   - key: the path key
	AddKeyFrameToPath(key int)

	// PlayPath starts the path under key, or stops it when already playing.
	//
	// Parameters:
	//   - key: the path key
	PlayPath(key int)

	// DeletePath stops and removes the path under key.
	//
	// Parameters:
	//   - key: the path key
	DeletePath(key int)

	// ResetPath stops the path under key when playing; otherwise rewinds it and applies its first pose.
	//
	// Parameters:
	//   - key: the path key
	ResetPath(key int)

	// PathKeys returns the keys of every stored path in ascending order.
	//
	// Returns:
	//   - []int: the path keys
	PathKeys() []int

	// InterpolateTo smoothly moves the eye to pose over duration seconds.
	//
	// Parameters:
	//   - pose: the target world pose
	//   - duration: the travel time in seconds
	InterpolateTo(pose frame.Pose, duration float64)

	// InterpolateToFitScene smoothly moves the eye to the pose ShowEntireScene would produce.
	InterpolateToFitScene()

	// StopInterpolations stops every running path and the internal transition.
	StopInterpolations()

	// Update refreshes the memoized matrices and, when enabled, the boundary planes.
	// Should be called once per frame.
	Update()

	// Uniform returns the GPU camera uniform for the current matrices.
	//
	// Returns:
	//   - GPUCameraUniform: the uniform data
	Uniform() GPUCameraUniform

	// FrustumPlanesUniform returns the boundary planes in GPU layout.
	//
	// Returns:
	//   - []GPUFrustumPlane: one entry per boundary plane
	FrustumPlanesUniform() []GPUFrustumPlane

	// Controller returns the interactive controller bound to this viewport.
	//
	// Returns:
	//   - Controller: the controller
	Controller() Controller
}

// newViewport builds the shared state with defaults for the given variant.
func newViewport(variant Variant) *viewportImpl {
	v := &viewportImpl{
		mu:            &sync.Mutex{},
		logger:        log.Default(),
		warned:        make(map[string]bool),
		variant:       variant,
		sceneRadius:   1,
		flySpeed:      0.01,
		screenWidth:   defaultScreenWidth,
		screenHeight:  defaultScreenHeight,
		kind:          Adaptive,
		fov:           float32(math.Pi / 3),
		zNearCoef:     0.005,
		zClipCoef:     float32(math.Sqrt(3)),
		standardZNear: 0.001,
		standardZFar:  1000,
		orthoSize:     1,
		ioDistance:    0.062,
		paths:         make(map[int]interpolator.KeyFrameInterpolator),
		fitOnCreate:   true,

		physicalScreenWidth:      0.5,
		physicalDistanceToScreen: 0.75,
		focusDistance:            float32(math.Sqrt(3)) / float32(math.Tan(math.Pi/6)),
	}
	return v
}

// finish completes construction once every option has been applied.
func (v *viewportImpl) finish() {
	if v.eye == nil {
		if v.variant == Orthographic2D {
			v.eye = frame.NewFrame(frame.With2D(), frame.WithLogger(v.logger))
		} else {
			v.eye = frame.NewFrame(frame.WithLogger(v.logger))
		}
	}
	for _, apply := range v.pending {
		apply(v)
	}
	v.pending = nil
	v.orthoCoef = float32(math.Tan(float64(v.fov) / 2))
	v.eye.SetPivot(v.sceneCenter)
	v.interpolation = v.newInterpolator()
	if v.fitOnCreate {
		v.fitBall(v.sceneCenter, v.sceneRadius)
	}
	v.controller = newController(v, v.controllerOptions...)
	v.touch()
}

func (v *viewportImpl) Variant() Variant {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.variant
}

func (v *viewportImpl) Frame() frame.Frame {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.eye
}

func (v *viewportImpl) SetFrame(f frame.Frame) {
	if f == nil {
		v.logger.Printf("[%s] SetFrame: nil frame ignored", v.Variant().tag())
		return
	}
	v.mu.Lock()
	v.eye = f
	v.touch()
	kfis := v.interpolators()
	v.mu.Unlock()
	for _, kfi := range kfis {
		kfi.SetFrame(f)
	}
}

func (v *viewportImpl) Position() mgl32.Vec3 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.eye.WorldPosition()
}

func (v *viewportImpl) SetPosition(p mgl32.Vec3) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.eye.SetWorldPosition(p)
}

func (v *viewportImpl) Orientation() mgl32.Quat {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.eye.WorldOrientation()
}

func (v *viewportImpl) SetOrientation(q mgl32.Quat) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.eye.SetWorldOrientation(q)
}

func (v *viewportImpl) ViewDirection() mgl32.Vec3 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.viewDirection()
}

func (v *viewportImpl) SetViewDirection(dir mgl32.Vec3) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.setViewDirection(dir)
}

func (v *viewportImpl) UpVector() mgl32.Vec3 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.upVector()
}

func (v *viewportImpl) SetUpVector(up mgl32.Vec3, noMove bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.variant == Orthographic2D {
		v.warnOnce("SetUpVector", "[Window] SetUpVector: ignored, use SetRotation to turn a window")
		return
	}
	world := v.eye.WorldPose()
	localUp, ok := common.SafeNormalize(world.Orientation.Inverse().Rotate(up))
	if !ok {
		v.logger.Printf("[Camera] SetUpVector: zero-length up vector ignored")
		return
	}
	q := mgl32.QuatBetweenVectors(mgl32.Vec3{0, 1, 0}, localUp)
	ori := world.Orientation.Mul(q).Normalize()
	pos := world.Position
	if !noMove {
		pivot := v.eye.Pivot()
		localPivot := world.Orientation.Inverse().Rotate(pivot.Sub(world.Position))
		pos = pivot.Sub(ori.Rotate(localPivot))
	}
	world.Position = pos
	world.Orientation = ori
	v.eye.SetWorldPose(world)
}

func (v *viewportImpl) RightVector() mgl32.Vec3 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.eye.WorldOrientation().Rotate(mgl32.Vec3{1, 0, 0})
}

func (v *viewportImpl) LookAt(target mgl32.Vec3) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.variant == Orthographic2D {
		pos := v.eye.WorldPosition()
		v.eye.SetWorldPosition(mgl32.Vec3{target[0], target[1], pos[2]})
		return true
	}
	return v.setViewDirection(target.Sub(v.eye.WorldPosition()))
}

func (v *viewportImpl) SceneRadius() float32 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sceneRadius
}

func (v *viewportImpl) SetSceneRadius(r float32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.setSceneRadius(r)
}

func (v *viewportImpl) SceneCenter() mgl32.Vec3 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sceneCenter
}

func (v *viewportImpl) SetSceneCenter(c mgl32.Vec3) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sceneCenter = c
	v.setArcballReferencePoint(c)
	v.touch()
}

func (v *viewportImpl) SetSceneBoundingBox(min, max mgl32.Vec3) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sceneCenter = min.Add(max).Mul(0.5)
	v.setArcballReferencePoint(v.sceneCenter)
	v.setSceneRadius(0.5 * max.Sub(min).Len())
}

func (v *viewportImpl) FlySpeed() float32 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.flySpeed
}

func (v *viewportImpl) SetFlySpeed(speed float32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.flySpeed = speed
}

func (v *viewportImpl) ArcballReferencePoint() mgl32.Vec3 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.eye.Pivot()
}

func (v *viewportImpl) SetArcballReferencePoint(p mgl32.Vec3) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.setArcballReferencePoint(p)
}

func (v *viewportImpl) ScreenWidth() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.screenWidth
}

func (v *viewportImpl) ScreenHeight() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.screenHeight
}

func (v *viewportImpl) SetScreenWidthAndHeight(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.setScreenWidthAndHeight(width, height)
}

func (v *viewportImpl) AspectRatio() float32 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.aspectRatio()
}

func (v *viewportImpl) LastUpdate() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastUpdate
}

func (v *viewportImpl) Controller() Controller {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.controller
}

func (v *viewportImpl) Update() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.viewProjectionMatrix()
	if v.boundaryEnabled {
		v.currentPlanes()
	}
}

// touch bumps the projection parameter counter.
// Caller must hold the mutex.
func (v *viewportImpl) touch() {
	v.lastUpdate++
}

// key returns the cache key for the current inputs.
// Caller must hold the mutex.
func (v *viewportImpl) key() cacheKey {
	return cacheKey{params: v.lastUpdate, eye: v.eye.WorldGeneration()}
}

// warnOnce logs a diagnostic the first time id is seen by this viewport.
// Caller must hold the mutex.
func (v *viewportImpl) warnOnce(id, format string, args ...any) {
	if v.warned[id] {
		return
	}
	v.warned[id] = true
	v.logger.Printf(format, args...)
}

// requireCamera reports whether the viewport is a 3D camera, logging once per operation otherwise.
// Caller must hold the mutex.
func (v *viewportImpl) requireCamera(op string) bool {
	if v.variant != Orthographic2D {
		return true
	}
	v.warnOnce("camera:"+op, "[Window] %s is only available on a Camera, call ignored", op)
	return false
}

// requireWindow reports whether the viewport is a 2D window, logging once per operation otherwise.
// Caller must hold the mutex.
func (v *viewportImpl) requireWindow(op string) bool {
	if v.variant == Orthographic2D {
		return true
	}
	v.warnOnce("window:"+op, "[Camera] %s is only available on a Window, call ignored", op)
	return false
}

// setSceneRadius stores a positive radius and derives the fly speed from it.
// Caller must hold the mutex.
func (v *viewportImpl) setSceneRadius(r float32) {
	if r <= 0 || math.IsNaN(float64(r)) {
		v.logger.Printf("[%s] SetSceneRadius: radius %v must be positive, using 1", v.variant.tag(), r)
		r = 1
	}
	v.sceneRadius = r
	v.flySpeed = 0.01 * r
	v.touch()
}

// setScreenWidthAndHeight stores positive screen dimensions.
// Caller must hold the mutex.
func (v *viewportImpl) setScreenWidthAndHeight(width, height int) {
	if width <= 0 || height <= 0 {
		v.logger.Printf("[%s] SetScreenWidthAndHeight: %dx%d must be positive, clamping to 1", v.variant.tag(), width, height)
	}
	v.screenWidth = max(width, 1)
	v.screenHeight = max(height, 1)
	v.touch()
}

// setArcballReferencePoint moves the pivot, rescaling the orthographic coefficient.
// Caller must hold the mutex.
func (v *viewportImpl) setArcballReferencePoint(p mgl32.Vec3) {
	prevDist := v.depthOf(v.eye.Pivot())
	v.eye.SetPivot(p)
	newDist := v.depthOf(p)
	if prevDist > 1e-9 && newDist > 1e-9 {
		v.orthoCoef *= prevDist / newDist
	}
	v.touch()
}

// aspectRatio returns width / height.
// Caller must hold the mutex.
func (v *viewportImpl) aspectRatio() float32 {
	return float32(v.screenWidth) / float32(v.screenHeight)
}

// toEye expresses a world-space point in the eye's rigid coordinate system (magnitude ignored).
// Caller must hold the mutex.
func (v *viewportImpl) toEye(p mgl32.Vec3) mgl32.Vec3 {
	world := v.eye.WorldPose()
	return world.Orientation.Inverse().Rotate(p.Sub(world.Position))
}

// fromEye maps a point in the eye's rigid coordinate system to world space.
// Caller must hold the mutex.
func (v *viewportImpl) fromEye(p mgl32.Vec3) mgl32.Vec3 {
	world := v.eye.WorldPose()
	return world.Position.Add(world.Orientation.Rotate(p))
}

// depthOf returns the distance from the eye plane to p along the view direction.
// Caller must hold the mutex.
func (v *viewportImpl) depthOf(p mgl32.Vec3) float32 {
	return float32(math.Abs(float64(v.toEye(p)[2])))
}

// viewDirection returns the eye's -Z axis in world space.
// Caller must hold the mutex.
func (v *viewportImpl) viewDirection() mgl32.Vec3 {
	return v.eye.WorldOrientation().Rotate(mgl32.Vec3{0, 0, -1})
}

// upVector returns the eye's +Y axis in world space.
// Caller must hold the mutex.
func (v *viewportImpl) upVector() mgl32.Vec3 {
	return v.eye.WorldOrientation().Rotate(mgl32.Vec3{0, 1, 0})
}

// setViewDirection rotates the eye to look along dir, keeping the up vector when it is not parallel to dir.
// Caller must hold the mutex.
func (v *viewportImpl) setViewDirection(dir mgl32.Vec3) bool {
	d, ok := common.SafeNormalize(dir)
	if !ok {
		v.logger.Printf("[%s] SetViewDirection: zero-length direction ignored", v.variant.tag())
		return false
	}
	if v.variant == Orthographic2D {
		if d.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-5) {
			return true
		}
		// +Z would need a half turn about X or Y, which the planar frame projects away.
		if d.ApproxEqualThreshold(mgl32.Vec3{0, 0, 1}, 1e-5) {
			v.warnOnce("SetViewDirection", "[Window] SetViewDirection: +Z is not reachable with a planar rotation; a window always looks along -Z")
			return false
		}
		v.warnOnce("SetViewDirection", "[Window] SetViewDirection: a window always looks along -Z")
		return false
	}
	x, ok := common.SafeNormalize(d.Cross(v.upVector()))
	if !ok {
		// Looking along the up vector: keep the current X axis.
		x = v.eye.WorldOrientation().Rotate(mgl32.Vec3{1, 0, 0})
		x = x.Sub(d.Mul(x.Dot(d)))
		if x, ok = common.SafeNormalize(x); !ok {
			x = common.Orthogonal(d)
		}
	}
	z := d.Mul(-1)
	y := z.Cross(x)
	q := mgl32.Mat4ToQuat(mgl32.Mat3FromCols(x, y, z).Mat4())
	v.eye.SetWorldOrientation(q)
	return true
}

// interpolators returns every path interpolator plus the internal transition one.
// Caller must hold the mutex.
func (v *viewportImpl) interpolators() []interpolator.KeyFrameInterpolator {
	out := make([]interpolator.KeyFrameInterpolator, 0, len(v.paths)+1)
	keys := make([]int, 0, len(v.paths))
	for k := range v.paths {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, k := range keys {
		out = append(out, v.paths[k])
	}
	if v.interpolation != nil {
		out = append(out, v.interpolation)
	}
	return out
}

func (variant Variant) tag() string {
	if variant == Orthographic2D {
		return "Window"
	}
	return "Camera"
}
