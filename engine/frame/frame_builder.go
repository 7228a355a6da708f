package frame

import (
	"log"

	"github.com/go-gl/mathgl/mgl32"
)

type FrameBuilderOption func(*frameImpl)

// WithPosition sets the frame's position relative to its reference.
//
// Parameters:
//   - p: the local position
//
// Returns:
//   - FrameBuilderOption: a function that sets the frame's position
func WithPosition(p mgl32.Vec3) FrameBuilderOption {
	return func(f *frameImpl) {
		f.position = p
	}
}

// WithOrientation sets the frame's orientation relative to its reference. The quaternion is normalized.
//
// Parameters:
//   - q: the local orientation
//
// Returns:
//   - FrameBuilderOption: a function that sets the frame's orientation
func WithOrientation(q mgl32.Quat) FrameBuilderOption {
	return func(f *frameImpl) {
		f.setOrientation(q)
	}
}

// WithMagnitude sets the frame's per-axis scale.
//
// Parameters:
//   - m: the local magnitude
//
// Returns:
//   - FrameBuilderOption: a function that sets the frame's magnitude
func WithMagnitude(m mgl32.Vec3) FrameBuilderOption {
	return func(f *frameImpl) {
		f.magnitude = m
	}
}

// WithPose sets position, orientation and magnitude from a pose.
//
// Parameters:
//   - p: the local pose
//
// Returns:
//   - FrameBuilderOption: a function that sets the frame's pose
func WithPose(p Pose) FrameBuilderOption {
	return func(f *frameImpl) {
		f.position = p.Position
		f.setOrientation(p.Orientation)
		f.magnitude = p.Magnitude
	}
}

// WithReference parents the frame to ref.
//
// Parameters:
//   - ref: the reference frame
//
// Returns:
//   - FrameBuilderOption: a function that sets the frame's reference
func WithReference(ref Frame) FrameBuilderOption {
	return func(f *frameImpl) {
		f.reference = ref
	}
}

// With2D restricts the frame to planar motion: its orientation is always a rotation about Z.
//
// Returns:
//   - FrameBuilderOption: a function that marks the frame as 2D
func With2D() FrameBuilderOption {
	return func(f *frameImpl) {
		f.is2D = true
	}
}

// WithPivot sets the world-space rotation pivot.
//
// Parameters:
//   - p: the pivot
//
// Returns:
//   - FrameBuilderOption: a function that sets the frame's pivot
func WithPivot(p mgl32.Vec3) FrameBuilderOption {
	return func(f *frameImpl) {
		f.pivot = p
	}
}

// WithLogger sets the logger used for frame diagnostics.
//
// Parameters:
//   - logger: the logger; nil keeps the default logger
//
// Returns:
//   - FrameBuilderOption: a function that sets the frame's logger
func WithLogger(logger *log.Logger) FrameBuilderOption {
	return func(f *frameImpl) {
		if logger != nil {
			f.logger = logger
		}
	}
}
