package camera

import (
	"log"
	"math"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/frame"
	"github.com/Carmen-Shannon/oxy-view/engine/interpolator"
	"github.com/go-gl/mathgl/mgl32"
)

// ViewportBuilderOption is a functional option for configuring a Camera or a Window.
type ViewportBuilderOption func(*viewportImpl)

// WithLogger sets the logger used for diagnostics.
//
// Parameters:
//   - logger: the logger; nil keeps log.Default()
//
// Returns:
//   - ViewportBuilderOption: a function that sets the logger
func WithLogger(logger *log.Logger) ViewportBuilderOption {
	return func(v *viewportImpl) {
		v.logger = common.Coalesce(logger, v.logger)
	}
}

// WithScheduler sets the scheduler that drives path playback and transitions.
//
// Parameters:
//   - s: the scheduler, usually the engine
//
// Returns:
//   - ViewportBuilderOption: a function that sets the scheduler
func WithScheduler(s interpolator.Scheduler) ViewportBuilderOption {
	return func(v *viewportImpl) {
		v.scheduler = s
	}
}

// WithFrame uses f as the eye frame. The eye is not moved to show the scene.
//
// Parameters:
//   - f: the eye frame
//
// Returns:
//   - ViewportBuilderOption: a function that sets the eye frame
func WithFrame(f frame.Frame) ViewportBuilderOption {
	return func(v *viewportImpl) {
		if f != nil {
			v.eye = f
			v.fitOnCreate = false
		}
	}
}

// WithPosition places the eye at p. The eye is not moved to show the scene.
//
// Parameters:
//   - p: the world-space eye position
//
// Returns:
//   - ViewportBuilderOption: a function that sets the eye position
func WithPosition(p mgl32.Vec3) ViewportBuilderOption {
	return func(v *viewportImpl) {
		v.fitOnCreate = false
		v.pending = append(v.pending, func(v *viewportImpl) {
			v.eye.SetWorldPosition(p)
		})
	}
}

// WithOrientation sets the initial eye orientation.
//
// Parameters:
//   - q: the world-space eye orientation
//
// Returns:
//   - ViewportBuilderOption: a function that sets the eye orientation
func WithOrientation(q mgl32.Quat) ViewportBuilderOption {
	return func(v *viewportImpl) {
		v.pending = append(v.pending, func(v *viewportImpl) {
			v.eye.SetWorldOrientation(q)
		})
	}
}

// WithSceneRadius sets the scene radius.
//
// Parameters:
//   - r: the scene radius; non-positive values keep the default
//
// Returns:
//   - ViewportBuilderOption: a function that sets the scene radius
func WithSceneRadius(r float32) ViewportBuilderOption {
	return func(v *viewportImpl) {
		if r > 0 {
			v.sceneRadius = r
			v.flySpeed = 0.01 * r
		}
	}
}

// WithSceneCenter sets the scene center and the arcball reference point.
//
// Parameters:
//   - c: the scene center
//
// Returns:
//   - ViewportBuilderOption: a function that sets the scene center
func WithSceneCenter(c mgl32.Vec3) ViewportBuilderOption {
	return func(v *viewportImpl) {
		v.sceneCenter = c
	}
}

// WithScreenSize sets the screen size in pixels.
//
// Parameters:
//   - width: the width; non-positive values keep the default
//   - height: the height; non-positive values keep the default
//
// Returns:
//   - ViewportBuilderOption: a function that sets the screen size
func WithScreenSize(width, height int) ViewportBuilderOption {
	return func(v *viewportImpl) {
		if width > 0 && height > 0 {
			v.screenWidth = width
			v.screenHeight = height
		}
	}
}

// WithFieldOfView sets the vertical field of view of a camera.
//
// Parameters:
//   - fov: the field of view in radians; values outside (0, π) keep the default
//
// Returns:
//   - ViewportBuilderOption: a function that sets the field of view
func WithFieldOfView(fov float32) ViewportBuilderOption {
	return func(v *viewportImpl) {
		if fov > 0 && fov < math.Pi {
			v.fov = fov
		}
	}
}

// WithType sets the projection type of a camera. Ignored by NewWindow.
//
// Parameters:
//   - t: Perspective or Orthographic
//
// Returns:
//   - ViewportBuilderOption: a function that sets the projection type
func WithType(t Type) ViewportBuilderOption {
	return func(v *viewportImpl) {
		v.variant = t.variant()
	}
}

// WithKind sets how a camera derives its clipping planes.
//
// Parameters:
//   - k: Adaptive or Fixed
//
// Returns:
//   - ViewportBuilderOption: a function that sets the clipping kind
func WithKind(k Kind) ViewportBuilderOption {
	return func(v *viewportImpl) {
		v.kind = k
	}
}

// WithStandardZNearZFar sets the clipping distances used by the Fixed kind.
//
// Parameters:
//   - zNear: the near distance
//   - zFar: the far distance, must exceed zNear
//
// Returns:
//   - ViewportBuilderOption: a function that sets the fixed clipping distances
func WithStandardZNearZFar(zNear, zFar float32) ViewportBuilderOption {
	return func(v *viewportImpl) {
		if zNear >= 0 && zFar > zNear {
			v.standardZNear = zNear
			v.standardZFar = zFar
		}
	}
}

// WithLeftHanded flips the vertical axis of the projection.
//
// Returns:
//   - ViewportBuilderOption: a function that enables left-handed projection
func WithLeftHanded() ViewportBuilderOption {
	return func(v *viewportImpl) {
		v.leftHanded = true
	}
}

// WithBoundaryEquations enables automatic recomputation of the boundary planes.
//
// Returns:
//   - ViewportBuilderOption: a function that enables boundary equations
func WithBoundaryEquations() ViewportBuilderOption {
	return func(v *viewportImpl) {
		v.boundaryEnabled = true
	}
}

// WithUnprojectCacheOptimized caches the inverse view-projection matrix.
//
// Returns:
//   - ViewportBuilderOption: a function that enables the unprojection cache
func WithUnprojectCacheOptimized() ViewportBuilderOption {
	return func(v *viewportImpl) {
		v.unprojectOptimized = true
	}
}

// WithControllerOptions configures the interactive controller bound to the viewport.
//
// Parameters:
//   - options: controller options
//
// Returns:
//   - ViewportBuilderOption: a function that stores the controller options
func WithControllerOptions(options ...ControllerOption) ViewportBuilderOption {
	return func(v *viewportImpl) {
		v.controllerOptions = append(v.controllerOptions, options...)
	}
}
