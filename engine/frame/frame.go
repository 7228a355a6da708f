// Package frame provides positioned, oriented and scaled coordinate systems that may be chained to a
// reference frame, plus a handle table used to share frames without holding raw back-pointers.
package frame

import (
	"log"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/go-gl/mathgl/mgl32"
)

// generationCounter hands out strictly increasing modification stamps shared by every frame in the process.
var generationCounter atomic.Uint64

func nextGeneration() uint64 {
	return generationCounter.Add(1)
}

// Pose is the plain-data state of a frame: position, unit orientation and per-axis magnitude.
type Pose struct {
	Position    mgl32.Vec3
	Orientation mgl32.Quat
	Magnitude   mgl32.Vec3
}

// IdentityPose returns the pose at the origin with no rotation and unit magnitude.
//
// Returns:
//   - Pose: the identity pose
func IdentityPose() Pose {
	return Pose{
		Orientation: mgl32.QuatIdent(),
		Magnitude:   mgl32.Vec3{1, 1, 1},
	}
}

// Matrix returns the transform T * R * S described by the pose.
//
// Returns:
//   - mgl32.Mat4: the column-major transform
func (p Pose) Matrix() mgl32.Mat4 {
	t := mgl32.Translate3D(p.Position[0], p.Position[1], p.Position[2])
	s := mgl32.Scale3D(p.Magnitude[0], p.Magnitude[1], p.Magnitude[2])
	return t.Mul4(p.Orientation.Normalize().Mat4()).Mul4(s)
}

// ApproxEqual reports whether two poses match within threshold, treating q and -q as the same rotation.
//
// Parameters:
//   - other: the pose to compare with
//   - threshold: the per-component tolerance
//
// Returns:
//   - bool: true if the poses match
func (p Pose) ApproxEqual(other Pose, threshold float32) bool {
	return p.Position.ApproxEqualThreshold(other.Position, threshold) &&
		p.Magnitude.ApproxEqualThreshold(other.Magnitude, threshold) &&
		common.SameRotation(p.Orientation, other.Orientation, threshold)
}

type frameImpl struct {
	mu     *sync.Mutex
	logger *log.Logger

	position    mgl32.Vec3
	orientation mgl32.Quat
	magnitude   mgl32.Vec3
	pivot       mgl32.Vec3

	reference Frame
	is2D      bool

	generation uint64
}

// Frame is a local coordinate system defined by a position, a unit orientation and a per-axis magnitude,
// expressed relative to an optional reference frame. A frame without a reference lives in world space.
//
// Every mutation stamps the frame with a new process-wide generation. WorldGeneration folds in the
// stamps of the whole reference chain so that derived caches can detect a change anywhere above the frame.
type Frame interface {
	// Position returns the position relative to the reference frame.
	//
	// Returns:
	//   - mgl32.Vec3: the local position
	Position() mgl32.Vec3

	// SetPosition sets the position relative to the reference frame.
	//
	// Parameters:
	//   - p: the new local position
	SetPosition(p mgl32.Vec3)

	// Orientation returns the unit orientation relative to the reference frame.
	//
	// Returns:
	//   - mgl32.Quat: the local orientation
	Orientation() mgl32.Quat

	// SetOrientation sets the orientation relative to the reference frame. The quaternion is normalized.
	// 2D frames keep only the rotation about the Z axis.
	//
	// Parameters:
	//   - q: the new local orientation
	SetOrientation(q mgl32.Quat)

	// Magnitude returns the per-axis scale relative to the reference frame.
	//
	// Returns:
	//   - mgl32.Vec3: the local magnitude
	Magnitude() mgl32.Vec3

	// SetMagnitude sets the per-axis scale relative to the reference frame. Zero components are not guarded.
	//
	// Parameters:
	//   - m: the new local magnitude
	SetMagnitude(m mgl32.Vec3)

	// Angle returns the rotation about the Z axis in radians. Meaningful for 2D frames.
	//
	// Returns:
	//   - float32: the Z rotation angle
	Angle() float32

	// SetAngle sets the orientation to a rotation of angle radians about the Z axis.
	//
	// Parameters:
	//   - angle: the rotation in radians
	SetAngle(angle float32)

	// Is2D reports whether the frame is restricted to planar motion.
	//
	// Returns:
	//   - bool: true for a 2D frame
	Is2D() bool

	// Pose returns the local pose.
	//
	// Returns:
	//   - Pose: the local pose
	Pose() Pose

	// SetPose sets the local pose in one step.
	//
	// Parameters:
	//   - p: the new local pose
	SetPose(p Pose)

	// Reference returns the reference frame, or nil for a world frame.
	//
	// Returns:
	//   - Frame: the reference frame or nil
	Reference() Frame

	// SetReference sets the reference frame. The local pose is kept, so the world pose changes.
	// A reference that would create a cycle is rejected with a diagnostic.
	//
	// Parameters:
	//   - ref: the new reference frame, or nil
	//
	// Returns:
	//   - bool: false if the reference was rejected
	SetReference(ref Frame) bool

	// WorldPosition returns the position in world space.
	//
	// Returns:
	//   - mgl32.Vec3: the world position
	WorldPosition() mgl32.Vec3

	// SetWorldPosition moves the frame so that its world position equals p.
	//
	// Parameters:
	//   - p: the target world position
	SetWorldPosition(p mgl32.Vec3)

	// WorldOrientation returns the orientation in world space.
	//
	// Returns:
	//   - mgl32.Quat: the world orientation
	WorldOrientation() mgl32.Quat

	// SetWorldOrientation rotates the frame so that its world orientation equals q.
	//
	// Parameters:
	//   - q: the target world orientation
	SetWorldOrientation(q mgl32.Quat)

	// WorldMagnitude returns the per-axis scale in world space.
	//
	// Returns:
	//   - mgl32.Vec3: the world magnitude
	WorldMagnitude() mgl32.Vec3

	// SetWorldMagnitude scales the frame so that its world magnitude equals m.
	//
	// Parameters:
	//   - m: the target world magnitude
	SetWorldMagnitude(m mgl32.Vec3)

	// WorldPose returns the world pose.
	//
	// Returns:
	//   - Pose: the world pose
	WorldPose() Pose

	// SetWorldPose sets the world pose in one step.
	//
	// Parameters:
	//   - p: the target world pose
	SetWorldPose(p Pose)

	// CoordinatesOf converts a world-space point into this frame's coordinates.
	//
	// Parameters:
	//   - p: the world-space point
	//
	// Returns:
	//   - mgl32.Vec3: the point in frame coordinates
	CoordinatesOf(p mgl32.Vec3) mgl32.Vec3

	// InverseCoordinatesOf converts a point in this frame's coordinates into world space.
	//
	// Parameters:
	//   - p: the point in frame coordinates
	//
	// Returns:
	//   - mgl32.Vec3: the world-space point
	InverseCoordinatesOf(p mgl32.Vec3) mgl32.Vec3

	// LocalCoordinatesOf converts a point from the reference frame into this frame's coordinates.
	//
	// Parameters:
	//   - p: the point in reference-frame coordinates
	//
	// Returns:
	//   - mgl32.Vec3: the point in frame coordinates
	LocalCoordinatesOf(p mgl32.Vec3) mgl32.Vec3

	// LocalInverseCoordinatesOf converts a point from this frame's coordinates into the reference frame.
	//
	// Parameters:
	//   - p: the point in frame coordinates
	//
	// Returns:
	//   - mgl32.Vec3: the point in reference-frame coordinates
	LocalInverseCoordinatesOf(p mgl32.Vec3) mgl32.Vec3

	// TransformOf converts a world-space vector into this frame's coordinates. Translation is ignored.
	//
	// Parameters:
	//   - v: the world-space vector
	//
	// Returns:
	//   - mgl32.Vec3: the vector in frame coordinates
	TransformOf(v mgl32.Vec3) mgl32.Vec3

	// InverseTransformOf converts a vector in this frame's coordinates into world space.
	//
	// Parameters:
	//   - v: the vector in frame coordinates
	//
	// Returns:
	//   - mgl32.Vec3: the world-space vector
	InverseTransformOf(v mgl32.Vec3) mgl32.Vec3

	// Matrix returns the local transform T * R * S.
	//
	// Returns:
	//   - mgl32.Mat4: the local transform
	Matrix() mgl32.Mat4

	// WorldMatrix returns the transform from frame coordinates to world space.
	//
	// Returns:
	//   - mgl32.Mat4: the world transform
	WorldMatrix() mgl32.Mat4

	// WorldInverseMatrix returns the transform from world space to frame coordinates.
	//
	// Returns:
	//   - mgl32.Mat4: the inverse world transform
	WorldInverseMatrix() mgl32.Mat4

	// Translate moves the frame by t, expressed in the reference frame.
	//
	// Parameters:
	//   - t: the translation
	Translate(t mgl32.Vec3)

	// Rotate applies q to the frame in its own coordinates.
	//
	// Parameters:
	//   - q: the rotation
	Rotate(q mgl32.Quat)

	// RotateAroundPoint applies the world-space rotation q to the frame around the world-space point.
	//
	// Parameters:
	//   - q: the world-space rotation
	//   - point: the world-space center of rotation
	RotateAroundPoint(q mgl32.Quat, point mgl32.Vec3)

	// Scale multiplies the magnitude component-wise by s.
	//
	// Parameters:
	//   - s: the scale factors
	Scale(s mgl32.Vec3)

	// XAxis returns the frame's X axis in world space.
	//
	// Returns:
	//   - mgl32.Vec3: the unit X axis
	XAxis() mgl32.Vec3

	// YAxis returns the frame's Y axis in world space.
	//
	// Returns:
	//   - mgl32.Vec3: the unit Y axis
	YAxis() mgl32.Vec3

	// ZAxis returns the frame's Z axis in world space.
	//
	// Returns:
	//   - mgl32.Vec3: the unit Z axis
	ZAxis() mgl32.Vec3

	// Pivot returns the world-space point the frame rotates around when driven interactively.
	//
	// Returns:
	//   - mgl32.Vec3: the pivot
	Pivot() mgl32.Vec3

	// SetPivot sets the world-space rotation pivot.
	//
	// Parameters:
	//   - p: the new pivot
	SetPivot(p mgl32.Vec3)

	// Generation returns the stamp of the frame's last own modification.
	//
	// Returns:
	//   - uint64: the generation
	Generation() uint64

	// WorldGeneration returns the largest generation over the frame and its reference chain.
	//
	// Returns:
	//   - uint64: the world generation
	WorldGeneration() uint64

	// Clone returns an independent copy of the frame sharing the same reference.
	//
	// Returns:
	//   - Frame: the copy
	Clone() Frame
}

var _ Frame = &frameImpl{}

// NewFrame creates a new Frame at the origin with identity orientation and unit magnitude.
//
// Parameters:
//   - options: functional options to configure the frame
//
// Returns:
//   - Frame: the newly created frame
func NewFrame(options ...FrameBuilderOption) Frame {
	f := &frameImpl{
		mu:          &sync.Mutex{},
		logger:      log.Default(),
		orientation: mgl32.QuatIdent(),
		magnitude:   mgl32.Vec3{1, 1, 1},
	}
	for _, option := range options {
		option(f)
	}
	if f.is2D {
		f.orientation = projectToZ(f.orientation)
	}
	f.generation = nextGeneration()
	return f
}

func (f *frameImpl) Position() mgl32.Vec3 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.position
}

func (f *frameImpl) SetPosition(p mgl32.Vec3) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.position = p
	f.touch()
}

func (f *frameImpl) Orientation() mgl32.Quat {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orientation
}

func (f *frameImpl) SetOrientation(q mgl32.Quat) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setOrientation(q)
	f.touch()
}

func (f *frameImpl) Magnitude() mgl32.Vec3 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.magnitude
}

func (f *frameImpl) SetMagnitude(m mgl32.Vec3) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.magnitude = m
	f.touch()
}

func (f *frameImpl) Angle() float32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return common.ZAngle(f.orientation)
}

func (f *frameImpl) SetAngle(angle float32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orientation = mgl32.QuatRotate(angle, mgl32.Vec3{0, 0, 1})
	f.touch()
}

func (f *frameImpl) Is2D() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.is2D
}

func (f *frameImpl) Pose() Pose {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Pose{Position: f.position, Orientation: f.orientation, Magnitude: f.magnitude}
}

func (f *frameImpl) SetPose(p Pose) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.position = p.Position
	f.setOrientation(p.Orientation)
	f.magnitude = p.Magnitude
	f.touch()
}

func (f *frameImpl) Reference() Frame {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reference
}

func (f *frameImpl) SetReference(ref Frame) bool {
	// Walk the candidate chain before taking our own lock: a cycle would otherwise lock f twice.
	for r := ref; r != nil; r = r.Reference() {
		if r == Frame(f) {
			f.logger.Printf("[Frame] SetReference rejected: reference would create a cycle")
			return false
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reference = ref
	f.touch()
	return true
}

func (f *frameImpl) WorldPosition() mgl32.Vec3 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.worldPose().Position
}

func (f *frameImpl) SetWorldPosition(p mgl32.Vec3) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reference != nil {
		p = f.reference.CoordinatesOf(p)
	}
	f.position = p
	f.touch()
}

func (f *frameImpl) WorldOrientation() mgl32.Quat {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.worldPose().Orientation
}

func (f *frameImpl) SetWorldOrientation(q mgl32.Quat) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reference != nil {
		q = f.reference.WorldOrientation().Inverse().Mul(q)
	}
	f.setOrientation(q)
	f.touch()
}

func (f *frameImpl) WorldMagnitude() mgl32.Vec3 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.worldPose().Magnitude
}

func (f *frameImpl) SetWorldMagnitude(m mgl32.Vec3) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reference != nil {
		rm := f.reference.WorldMagnitude()
		m = mgl32.Vec3{m[0] / rm[0], m[1] / rm[1], m[2] / rm[2]}
	}
	f.magnitude = m
	f.touch()
}

func (f *frameImpl) WorldPose() Pose {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.worldPose()
}

func (f *frameImpl) SetWorldPose(p Pose) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pos, ori, mag := p.Position, p.Orientation, p.Magnitude
	if f.reference != nil {
		ref := f.reference.WorldPose()
		pos = f.reference.CoordinatesOf(pos)
		ori = ref.Orientation.Inverse().Mul(ori)
		mag = mgl32.Vec3{mag[0] / ref.Magnitude[0], mag[1] / ref.Magnitude[1], mag[2] / ref.Magnitude[2]}
	}
	f.position = pos
	f.setOrientation(ori)
	f.magnitude = mag
	f.touch()
}

func (f *frameImpl) CoordinatesOf(p mgl32.Vec3) mgl32.Vec3 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reference != nil {
		p = f.reference.CoordinatesOf(p)
	}
	return f.localCoordinatesOf(p)
}

func (f *frameImpl) InverseCoordinatesOf(p mgl32.Vec3) mgl32.Vec3 {
	f.mu.Lock()
	defer f.mu.Unlock()
	p = f.localInverseCoordinatesOf(p)
	if f.reference != nil {
		p = f.reference.InverseCoordinatesOf(p)
	}
	return p
}

func (f *frameImpl) LocalCoordinatesOf(p mgl32.Vec3) mgl32.Vec3 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.localCoordinatesOf(p)
}

func (f *frameImpl) LocalInverseCoordinatesOf(p mgl32.Vec3) mgl32.Vec3 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.localInverseCoordinatesOf(p)
}

func (f *frameImpl) TransformOf(v mgl32.Vec3) mgl32.Vec3 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reference != nil {
		v = f.reference.TransformOf(v)
	}
	return divide(f.orientation.Inverse().Rotate(v), f.magnitude)
}

func (f *frameImpl) InverseTransformOf(v mgl32.Vec3) mgl32.Vec3 {
	f.mu.Lock()
	defer f.mu.Unlock()
	v = f.orientation.Rotate(multiply(f.magnitude, v))
	if f.reference != nil {
		v = f.reference.InverseTransformOf(v)
	}
	return v
}

func (f *frameImpl) Matrix() mgl32.Mat4 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.localPose().Matrix()
}

func (f *frameImpl) WorldMatrix() mgl32.Mat4 {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := f.localPose().Matrix()
	if f.reference != nil {
		m = f.reference.WorldMatrix().Mul4(m)
	}
	return m
}

func (f *frameImpl) WorldInverseMatrix() mgl32.Mat4 {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv := mgl32.Scale3D(1/f.magnitude[0], 1/f.magnitude[1], 1/f.magnitude[2]).
		Mul4(f.orientation.Inverse().Mat4()).
		Mul4(mgl32.Translate3D(-f.position[0], -f.position[1], -f.position[2]))
	if f.reference != nil {
		inv = inv.Mul4(f.reference.WorldInverseMatrix())
	}
	return inv
}

func (f *frameImpl) Translate(t mgl32.Vec3) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.position = f.position.Add(t)
	f.touch()
}

func (f *frameImpl) Rotate(q mgl32.Quat) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setOrientation(f.orientation.Mul(q))
	f.touch()
}

func (f *frameImpl) RotateAroundPoint(q mgl32.Quat, point mgl32.Vec3) {
	f.mu.Lock()
	defer f.mu.Unlock()
	world := f.worldPose()
	q = q.Normalize()
	pos := point.Add(q.Rotate(world.Position.Sub(point)))
	ori := q.Mul(world.Orientation)
	if f.reference != nil {
		pos = f.reference.CoordinatesOf(pos)
		ori = f.reference.WorldOrientation().Inverse().Mul(ori)
	}
	f.position = pos
	f.setOrientation(ori)
	f.touch()
}

func (f *frameImpl) Scale(s mgl32.Vec3) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.magnitude = multiply(f.magnitude, s)
	f.touch()
}

func (f *frameImpl) XAxis() mgl32.Vec3 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.worldPose().Orientation.Rotate(mgl32.Vec3{1, 0, 0})
}

func (f *frameImpl) YAxis() mgl32.Vec3 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.worldPose().Orientation.Rotate(mgl32.Vec3{0, 1, 0})
}

func (f *frameImpl) ZAxis() mgl32.Vec3 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.worldPose().Orientation.Rotate(mgl32.Vec3{0, 0, 1})
}

func (f *frameImpl) Pivot() mgl32.Vec3 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pivot
}

func (f *frameImpl) SetPivot(p mgl32.Vec3) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pivot = p
	f.touch()
}

func (f *frameImpl) Generation() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.generation
}

func (f *frameImpl) WorldGeneration() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	g := f.generation
	if f.reference != nil {
		g = max(g, f.reference.WorldGeneration())
	}
	return g
}

func (f *frameImpl) Clone() Frame {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &frameImpl{
		mu:          &sync.Mutex{},
		logger:      f.logger,
		position:    f.position,
		orientation: f.orientation,
		magnitude:   f.magnitude,
		pivot:       f.pivot,
		reference:   f.reference,
		is2D:        f.is2D,
		generation:  nextGeneration(),
	}
}

// touch stamps the frame with a fresh generation.
// Caller must hold the mutex.
func (f *frameImpl) touch() {
	f.generation = nextGeneration()
}

// setOrientation stores a normalized orientation, reduced to a Z rotation for 2D frames.
// Caller must hold the mutex.
func (f *frameImpl) setOrientation(q mgl32.Quat) {
	if q.Len() == 0 {
		f.logger.Printf("[Frame] ignoring zero-length orientation")
		return
	}
	q = q.Normalize()
	if f.is2D {
		q = projectToZ(q)
	}
	f.orientation = q
}

// localPose returns the local pose.
// Caller must hold the mutex.
func (f *frameImpl) localPose() Pose {
	return Pose{Position: f.position, Orientation: f.orientation, Magnitude: f.magnitude}
}

// worldPose composes the local pose with the reference chain.
// Caller must hold the mutex.
func (f *frameImpl) worldPose() Pose {
	local := f.localPose()
	if f.reference == nil {
		return local
	}
	ref := f.reference.WorldPose()
	return Pose{
		Position:    ref.Position.Add(ref.Orientation.Rotate(multiply(ref.Magnitude, local.Position))),
		Orientation: ref.Orientation.Mul(local.Orientation).Normalize(),
		Magnitude:   multiply(ref.Magnitude, local.Magnitude),
	}
}

// localCoordinatesOf maps a point from the reference frame into this frame.
// Caller must hold the mutex.
func (f *frameImpl) localCoordinatesOf(p mgl32.Vec3) mgl32.Vec3 {
	return divide(f.orientation.Inverse().Rotate(p.Sub(f.position)), f.magnitude)
}

// localInverseCoordinatesOf maps a point from this frame into the reference frame.
// Caller must hold the mutex.
func (f *frameImpl) localInverseCoordinatesOf(p mgl32.Vec3) mgl32.Vec3 {
	return f.position.Add(f.orientation.Rotate(multiply(f.magnitude, p)))
}

func projectToZ(q mgl32.Quat) mgl32.Quat {
	return mgl32.QuatRotate(common.ZAngle(q), mgl32.Vec3{0, 0, 1})
}

func multiply(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

func divide(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] / b[0], a[1] / b[1], a[2] / b[2]}
}
