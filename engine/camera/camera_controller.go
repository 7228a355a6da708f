package camera

// Controller moves the eye of a viewport interactively. It holds no positional state of its own: every
// step reads the eye frame and its arcball reference point and writes the result back, so a controller
// and a playing path never disagree about where the eye is. Embeds both orbitController and
// planarController, enabling orbit and planar controls to work from a single controller instance.
type Controller interface {
	orbitController
	planarController

	// Zoom moves the eye toward the arcball reference point. Windows scale their magnitude instead.
	// Positive delta zooms in.
	//
	// Parameters:
	//   - delta: zoom amount scaled by ZoomSpeed and the viewport fly speed
	Zoom(delta float32)
}

// orbitController defines orbit-specific control methods.
// Provides third-person orbit controls using spherical coordinates (radius, azimuth, elevation)
// of the eye around the arcball reference point, measured against the world Y axis.
type orbitController interface {
	// OrbitLeft rotates the eye left around the pivot by one orbit speed step.
	OrbitLeft()

	// OrbitRight rotates the eye right around the pivot by one orbit speed step.
	OrbitRight()

	// OrbitUp tilts the eye upward by one orbit speed step, clamped to max elevation.
	// Ignored by windows.
	OrbitUp()

	// OrbitDown tilts the eye downward by one orbit speed step, clamped to min elevation.
	// Ignored by windows.
	OrbitDown()

	// OrbitDrag applies a mouse drag: horizontal motion orbits left/right, vertical motion tilts.
	//
	// Parameters:
	//   - dx: horizontal drag in pixels
	//   - dy: vertical drag in pixels
	OrbitDrag(dx, dy float32)

	// Radius returns the current distance from the eye to the pivot.
	//
	// Returns:
	//   - float32: current distance from pivot
	Radius() float32

	// SetRadius moves the eye along the pivot direction to the given distance, clamped to min/max bounds.
	//
	// Parameters:
	//   - radius: new distance from pivot
	SetRadius(radius float32)

	// MinRadius returns the minimum allowed orbit radius.
	//
	// Returns:
	//   - float32: minimum zoom distance
	MinRadius() float32

	// MaxRadius returns the maximum allowed orbit radius.
	//
	// Returns:
	//   - float32: maximum zoom distance
	MaxRadius() float32

	// Azimuth returns the current horizontal angle of the eye around the world Y axis through the pivot.
	//
	// Returns:
	//   - float32: azimuth in radians
	Azimuth() float32

	// Elevation returns the current vertical angle of the eye above the pivot's horizontal plane.
	//
	// Returns:
	//   - float32: elevation in radians
	Elevation() float32

	// MinElevation returns the minimum allowed elevation angle.
	//
	// Returns:
	//   - float32: minimum elevation in radians
	MinElevation() float32

	// MaxElevation returns the maximum allowed elevation angle.
	//
	// Returns:
	//   - float32: maximum elevation in radians
	MaxElevation() float32

	// OrbitSpeed returns the keyboard orbit speed in radians per step.
	//
	// Returns:
	//   - float32: radians per orbit call
	OrbitSpeed() float32

	// MouseSensitivity returns the mouse drag sensitivity in radians per pixel.
	//
	// Returns:
	//   - float32: multiplier for mouse movement
	MouseSensitivity() float32

	// ZoomSpeed returns the zoom speed multiplier.
	//
	// Returns:
	//   - float32: multiplier for zoom input
	ZoomSpeed() float32
}

// planarController defines planar translation control methods.
// Provides first-person-style panning along the eye's local axes. Panning shifts both the eye and
// the pivot by the same offset, preserving the orbit relationship.
type planarController interface {
	// PanRight translates the eye along its local right axis.
	// Positive delta moves right, negative moves left.
	//
	// Parameters:
	//   - delta: pan amount scaled by PanSpeed and the viewport fly speed
	PanRight(delta float32)

	// PanUp translates the eye along its local up axis.
	// Positive delta moves up, negative moves down.
	//
	// Parameters:
	//   - delta: pan amount scaled by PanSpeed and the viewport fly speed
	PanUp(delta float32)

	// PanForward translates the eye along its view direction (dolly). Ignored by windows.
	// Positive delta moves forward, negative moves back.
	//
	// Parameters:
	//   - delta: pan amount scaled by PanSpeed and the viewport fly speed
	PanForward(delta float32)

	// PanSpeed returns the pan speed multiplier.
	//
	// Returns:
	//   - float32: multiplier for pan input
	PanSpeed() float32
}
