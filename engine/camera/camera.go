package camera

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Type is the projection model of a Camera.
type Type int

const (
	// Perspective projects through the eye position with a field of view.
	Perspective Type = iota
	// Orthographic projects along the view direction with fixed half extents.
	Orthographic
)

// String returns the upper-case name of the type.
//
// Returns:
//   - string: "PERSPECTIVE" or "ORTHOGRAPHIC"
func (t Type) String() string {
	switch t {
	case Perspective:
		return "PERSPECTIVE"
	case Orthographic:
		return "ORTHOGRAPHIC"
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// ParseType parses a projection type name, ignoring case.
//
// Parameters:
//   - s: "perspective" or "orthographic"
//
// Returns:
//   - Type: the parsed type
//   - error: an error if s is not a known type
func ParseType(s string) (Type, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PERSPECTIVE":
		return Perspective, nil
	case "ORTHOGRAPHIC":
		return Orthographic, nil
	}
	return Perspective, fmt.Errorf("unknown camera type %q", s)
}

func (t Type) variant() Variant {
	if t == Orthographic {
		return Orthographic3D
	}
	return Perspective3D
}

// Kind selects how a Camera derives its clipping distances.
type Kind int

const (
	// Adaptive derives zNear and zFar from the scene sphere on every query.
	Adaptive Kind = iota
	// Fixed uses the standard zNear and zFar constants.
	Fixed
)

// String returns the upper-case name of the kind.
//
// Returns:
//   - string: "ADAPTIVE" or "FIXED"
func (k Kind) String() string {
	switch k {
	case Adaptive:
		return "ADAPTIVE"
	case Fixed:
		return "FIXED"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind parses a clipping kind name, ignoring case.
//
// Parameters:
//   - s: "adaptive" or "fixed"
//
// Returns:
//   - Kind: the parsed kind
//   - error: an error if s is not a known kind
func ParseKind(s string) (Kind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ADAPTIVE":
		return Adaptive, nil
	case "FIXED":
		return Fixed, nil
	}
	return Adaptive, fmt.Errorf("unknown camera kind %q", s)
}

// Camera is a 3D viewport with either a perspective or an orthographic projection.
type Camera interface {
	Viewport

	// Type returns the projection type.
	//
	// Returns:
	//   - Type: Perspective or Orthographic
	Type() Type

	// SetType switches the projection type. Switching from perspective to orthographic seeds the
	// orthographic half-extent coefficient from the current field of view.
	//
	// Parameters:
	//   - t: the new projection type
	SetType(t Type)

	// Kind returns how the clipping distances are derived.
	//
	// Returns:
	//   - Kind: Adaptive or Fixed
	Kind() Kind

	// SetKind sets how the clipping distances are derived.
	//
	// Parameters:
	//   - k: Adaptive or Fixed
	SetKind(k Kind)

	// FieldOfView returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: the field of view
	FieldOfView() float32

	// SetFieldOfView sets the vertical field of view. Values outside (0, π) are rejected with a diagnostic.
	//
	// Parameters:
	//   - fov: the field of view in radians
	SetFieldOfView(fov float32)

	// HorizontalFieldOfView returns the horizontal field of view derived from the aspect ratio.
	//
	// Returns:
	//   - float32: the horizontal field of view in radians
	HorizontalFieldOfView() float32

	// SetHorizontalFieldOfView sets the vertical field of view so that the horizontal one equals hfov.
	//
	// Parameters:
	//   - hfov: the horizontal field of view in radians
	SetHorizontalFieldOfView(hfov float32)

	// SetFOVToFitScene sets the field of view so that the scene sphere fits the view from the current
	// distance, or to π/2 when the eye is too close.
	SetFOVToFitScene()

	// ZNear returns the near clipping distance.
	//
	// Returns:
	//   - float32: the near distance
	ZNear() float32

	// ZFar returns the far clipping distance.
	//
	// Returns:
	//   - float32: the far distance
	ZFar() float32

	// ZNearCoefficient returns the coefficient bounding zNear from below for adaptive perspective cameras.
	//
	// Returns:
	//   - float32: the coefficient
	ZNearCoefficient() float32

	// SetZNearCoefficient sets the zNear coefficient. Non-positive values are rejected.
	//
	// Parameters:
	//   - coef: the coefficient
	SetZNearCoefficient(coef float32)

	// ZClippingCoefficient returns the multiple of the scene radius kept between the clipping planes
	// and the scene center.
	//
	// Returns:
	//   - float32: the coefficient
	ZClippingCoefficient() float32

	// SetZClippingCoefficient sets the clipping coefficient. Non-positive values are rejected.
	//
	// Parameters:
	//   - coef: the coefficient
	SetZClippingCoefficient(coef float32)

	// StandardZNear returns the near distance used by the Fixed kind.
	//
	// Returns:
	//   - float32: the near distance
	StandardZNear() float32

	// SetStandardZNear sets the near distance used by the Fixed kind.
	//
	// Parameters:
	//   - zNear: the near distance
	SetStandardZNear(zNear float32)

	// StandardZFar returns the far distance used by the Fixed kind.
	//
	// Returns:
	//   - float32: the far distance
	StandardZFar() float32

	// SetStandardZFar sets the far distance used by the Fixed kind.
	//
	// Parameters:
	//   - zFar: the far distance
	SetStandardZFar(zFar float32)

	// StandardOrthoFrustumSize returns the half-extent scale used by Fixed orthographic cameras.
	//
	// Returns:
	//   - float32: the size in scene radii
	StandardOrthoFrustumSize() float32

	// SetStandardOrthoFrustumSize sets the half-extent scale used by Fixed orthographic cameras.
	//
	// Parameters:
	//   - size: the size in scene radii; non-positive values are rejected
	SetStandardOrthoFrustumSize(size float32)

	// OrthoWidthHeight returns the half width and half height of the orthographic view volume.
	//
	// Returns:
	//   - float32: the half width
	//   - float32: the half height
	OrthoWidthHeight() (float32, float32)

	// DistanceToSceneCenter returns the depth of the scene center along the view direction.
	//
	// Returns:
	//   - float32: the distance
	DistanceToSceneCenter() float32

	// DistanceToArcballReferencePoint returns the depth of the pivot along the view direction.
	//
	// Returns:
	//   - float32: the distance
	DistanceToArcballReferencePoint() float32

	// LeftHanded reports whether the vertical projection axis is flipped.
	//
	// Returns:
	//   - bool: true if left-handed
	LeftHanded() bool

	// SetLeftHanded flips the vertical projection axis.
	//
	// Parameters:
	//   - leftHanded: true for a left-handed projection
	SetLeftHanded(leftHanded bool)

	// IODistance returns the inter-ocular distance used for stereo rendering.
	//
	// Returns:
	//   - float32: the distance in meters
	IODistance() float32

	// SetIODistance sets the inter-ocular distance.
	//
	// Parameters:
	//   - d: the distance in meters
	SetIODistance(d float32)

	// PhysicalScreenWidth returns the physical width of the display.
	//
	// Returns:
	//   - float32: the width in meters
	PhysicalScreenWidth() float32

	// SetPhysicalScreenWidth sets the physical width of the display.
	//
	// Parameters:
	//   - w: the width in meters
	SetPhysicalScreenWidth(w float32)

	// PhysicalDistanceToScreen returns the distance between the viewer and the display.
	//
	// Returns:
	//   - float32: the distance in meters
	PhysicalDistanceToScreen() float32

	// SetPhysicalDistanceToScreen sets the distance between the viewer and the display.
	//
	// Parameters:
	//   - d: the distance in meters
	SetPhysicalDistanceToScreen(d float32)

	// FocusDistance returns the distance of the zero-parallax plane.
	//
	// Returns:
	//   - float32: the distance in scene units
	FocusDistance() float32

	// SetFocusDistance sets the distance of the zero-parallax plane.
	//
	// Parameters:
	//   - d: the distance in scene units
	SetFocusDistance(d float32)
}

var _ Camera = &viewportImpl{}

// NewCamera creates a perspective Camera.
// Defaults: a π/3 field of view, Adaptive clipping, a unit scene sphere at the origin and a 600x400 screen.
// Unless WithFrame or WithPosition is given the eye is placed to show the entire scene.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the new camera
func NewCamera(options ...ViewportBuilderOption) Camera {
	v := newViewport(Perspective3D)
	for _, option := range options {
		option(v)
	}
	if v.variant == Orthographic2D {
		v.variant = Perspective3D
	}
	v.finish()
	return v
}

func (v *viewportImpl) Type() Type {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.variant == Perspective3D {
		return Perspective
	}
	return Orthographic
}

func (v *viewportImpl) SetType(t Type) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.requireCamera("SetType") {
		return
	}
	if t == Orthographic && v.variant == Perspective3D {
		v.orthoCoef = float32(math.Tan(float64(v.fov) / 2))
	}
	v.variant = t.variant()
	v.touch()
}

func (v *viewportImpl) Kind() Kind {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.kind
}

func (v *viewportImpl) SetKind(k Kind) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.requireCamera("SetKind") {
		return
	}
	v.kind = k
	v.touch()
}

func (v *viewportImpl) FieldOfView() float32 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.fov
}

func (v *viewportImpl) SetFieldOfView(fov float32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.requireCamera("SetFieldOfView") {
		return
	}
	v.setFieldOfView(fov)
}

func (v *viewportImpl) HorizontalFieldOfView() float32 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.horizontalFieldOfView()
}

func (v *viewportImpl) SetHorizontalFieldOfView(hfov float32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.requireCamera("SetHorizontalFieldOfView") {
		return
	}
	half := math.Tan(float64(hfov)/2) / float64(v.aspectRatio())
	v.setFieldOfView(float32(2 * math.Atan(half)))
}

func (v *viewportImpl) SetFOVToFitScene() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.requireCamera("SetFOVToFitScene") {
		return
	}
	d := v.distanceToSceneCenter()
	if d > float32(math.Sqrt2)*v.sceneRadius {
		v.setFieldOfView(float32(2 * math.Asin(float64(v.sceneRadius/d))))
	} else {
		v.setFieldOfView(math.Pi / 2)
	}
}

func (v *viewportImpl) ZNear() float32 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.zNear()
}

func (v *viewportImpl) ZFar() float32 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.zFar()
}

func (v *viewportImpl) ZNearCoefficient() float32 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.zNearCoef
}

func (v *viewportImpl) SetZNearCoefficient(coef float32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.requireCamera("SetZNearCoefficient") {
		return
	}
	if coef <= 0 {
		v.logger.Printf("[Camera] SetZNearCoefficient: %v must be positive, ignored", coef)
		return
	}
	v.zNearCoef = coef
	v.touch()
}

func (v *viewportImpl) ZClippingCoefficient() float32 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.zClipCoef
}

func (v *viewportImpl) SetZClippingCoefficient(coef float32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.requireCamera("SetZClippingCoefficient") {
		return
	}
	if coef <= 0 {
		v.logger.Printf("[Camera] SetZClippingCoefficient: %v must be positive, ignored", coef)
		return
	}
	v.zClipCoef = coef
	v.touch()
}

func (v *viewportImpl) StandardZNear() float32 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.standardZNear
}

func (v *viewportImpl) SetStandardZNear(zNear float32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.requireCamera("SetStandardZNear") {
		return
	}
	if zNear < 0 || zNear >= v.standardZFar {
		v.logger.Printf("[Camera] SetStandardZNear: %v must lie in [0, %v), ignored", zNear, v.standardZFar)
		return
	}
	v.standardZNear = zNear
	v.touch()
}

func (v *viewportImpl) StandardZFar() float32 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.standardZFar
}

func (v *viewportImpl) SetStandardZFar(zFar float32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.requireCamera("SetStandardZFar") {
		return
	}
	if zFar <= v.standardZNear {
		v.logger.Printf("[Camera] SetStandardZFar: %v must exceed %v, ignored", zFar, v.standardZNear)
		return
	}
	v.standardZFar = zFar
	v.touch()
}

func (v *viewportImpl) StandardOrthoFrustumSize() float32 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.orthoSize
}

func (v *viewportImpl) SetStandardOrthoFrustumSize(size float32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.requireCamera("SetStandardOrthoFrustumSize") {
		return
	}
	if size <= 0 {
		v.logger.Printf("[Camera] SetStandardOrthoFrustumSize: %v must be positive, ignored", size)
		return
	}
	v.orthoSize = size
	v.touch()
}

func (v *viewportImpl) OrthoWidthHeight() (float32, float32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.orthoWidthHeight()
}

func (v *viewportImpl) DistanceToSceneCenter() float32 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.distanceToSceneCenter()
}

func (v *viewportImpl) DistanceToArcballReferencePoint() float32 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.depthOf(v.eye.Pivot())
}

func (v *viewportImpl) LeftHanded() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.leftHanded
}

func (v *viewportImpl) SetLeftHanded(leftHanded bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.requireCamera("SetLeftHanded") {
		return
	}
	v.leftHanded = leftHanded
	v.touch()
}

func (v *viewportImpl) IODistance() float32 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.ioDistance
}

func (v *viewportImpl) SetIODistance(d float32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.requireCamera("SetIODistance") {
		v.ioDistance = d
	}
}

func (v *viewportImpl) PhysicalScreenWidth() float32 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.physicalScreenWidth
}

func (v *viewportImpl) SetPhysicalScreenWidth(w float32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.requireCamera("SetPhysicalScreenWidth") {
		v.physicalScreenWidth = w
	}
}

func (v *viewportImpl) PhysicalDistanceToScreen() float32 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.physicalDistanceToScreen
}

func (v *viewportImpl) SetPhysicalDistanceToScreen(d float32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.requireCamera("SetPhysicalDistanceToScreen") {
		v.physicalDistanceToScreen = d
	}
}

func (v *viewportImpl) FocusDistance() float32 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.focusDistance
}

func (v *viewportImpl) SetFocusDistance(d float32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.requireCamera("SetFocusDistance") {
		v.focusDistance = d
	}
}

// setFieldOfView stores a field of view in (0, π).
// Caller must hold the mutex.
func (v *viewportImpl) setFieldOfView(fov float32) {
	if !(fov > 0 && fov < math.Pi) {
		v.logger.Printf("[Camera] SetFieldOfView: %v must lie in (0, π), ignored", fov)
		return
	}
	v.fov = fov
	v.touch()
}

// horizontalFieldOfView derives the horizontal field of view from the vertical one.
// Caller must hold the mutex.
func (v *viewportImpl) horizontalFieldOfView() float32 {
	return float32(2 * math.Atan(math.Tan(float64(v.fov)/2)*float64(v.aspectRatio())))
}

// distanceToSceneCenter returns the depth of the scene center in eye space.
// Caller must hold the mutex.
func (v *viewportImpl) distanceToSceneCenter() float32 {
	return v.depthOf(v.sceneCenter)
}

// zNear returns the near clipping distance for the current kind and variant.
// Caller must hold the mutex.
func (v *viewportImpl) zNear() float32 {
	if v.variant == Orthographic2D {
		return -1
	}
	if v.kind == Fixed {
		return v.standardZNear
	}
	z := v.distanceToSceneCenter() - v.zClipCoef*v.sceneRadius
	zMin := v.zNearCoef * v.zClipCoef * v.sceneRadius
	if z < zMin {
		if v.variant == Perspective3D {
			return zMin
		}
		return 0
	}
	return z
}

// zFar returns the far clipping distance for the current kind and variant.
// Caller must hold the mutex.
func (v *viewportImpl) zFar() float32 {
	if v.variant == Orthographic2D {
		return 1
	}
	if v.kind == Fixed {
		return v.standardZFar
	}
	return v.distanceToSceneCenter() + v.zClipCoef*v.sceneRadius
}

// orthoWidthHeight returns the half extents of the orthographic view volume.
// Caller must hold the mutex.
func (v *viewportImpl) orthoWidthHeight() (float32, float32) {
	if v.variant == Orthographic2D {
		m := v.eye.WorldMagnitude()
		hw := float32(v.screenWidth) / 2 * float32(math.Abs(float64(m[0])))
		hh := float32(v.screenHeight) / 2 * float32(math.Abs(float64(m[1])))
		return hw, hh
	}
	var dist float32
	if v.kind == Adaptive {
		dist = v.orthoCoef * v.depthOf(v.eye.Pivot())
	}
	if v.kind == Fixed || dist <= 0 {
		dist = v.sceneRadius * v.orthoSize
	}
	aspect := v.aspectRatio()
	if aspect < 1 {
		return dist, dist / aspect
	}
	return dist * aspect, dist
}

// eyeAxes returns the world-space right, up and view vectors.
// Caller must hold the mutex.
func (v *viewportImpl) eyeAxes() (right, up, view mgl32.Vec3) {
	q := v.eye.WorldOrientation()
	return q.Rotate(mgl32.Vec3{1, 0, 0}), q.Rotate(mgl32.Vec3{0, 1, 0}), q.Rotate(mgl32.Vec3{0, 0, -1})
}
