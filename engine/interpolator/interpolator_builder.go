package interpolator

import (
	"log"
	"time"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/frame"
)

type KeyFrameInterpolatorBuilderOption func(*keyFrameInterpolatorImpl)

// WithFrame sets the frame driven during playback.
//
// Parameters:
//   - f: the frame to drive
//
// Returns:
//   - KeyFrameInterpolatorBuilderOption: a function that sets the driven frame
func WithFrame(f frame.Frame) KeyFrameInterpolatorBuilderOption {
	return func(k *keyFrameInterpolatorImpl) {
		k.frame = f
	}
}

// WithScheduler sets the scheduler that calls Update while playing.
//
// Parameters:
//   - s: the scheduler
//
// Returns:
//   - KeyFrameInterpolatorBuilderOption: a function that sets the scheduler
func WithScheduler(s Scheduler) KeyFrameInterpolatorBuilderOption {
	return func(k *keyFrameInterpolatorImpl) {
		k.scheduler = s
	}
}

// WithPeriod sets the interval between playback updates.
//
// Parameters:
//   - period: the update period; non-positive values keep the default
//
// Returns:
//   - KeyFrameInterpolatorBuilderOption: a function that sets the period
func WithPeriod(period time.Duration) KeyFrameInterpolatorBuilderOption {
	return func(k *keyFrameInterpolatorImpl) {
		if period > 0 {
			k.period = period
		}
	}
}

// WithSpeed sets the playback speed multiplier.
//
// Parameters:
//   - speed: the speed; negative values play backwards
//
// Returns:
//   - KeyFrameInterpolatorBuilderOption: a function that sets the speed
func WithSpeed(speed float64) KeyFrameInterpolatorBuilderOption {
	return func(k *keyFrameInterpolatorImpl) {
		k.speed = speed
	}
}

// WithLoop enables wrapping at the path ends.
//
// Parameters:
//   - loop: true to loop
//
// Returns:
//   - KeyFrameInterpolatorBuilderOption: a function that sets looping
func WithLoop(loop bool) KeyFrameInterpolatorBuilderOption {
	return func(k *keyFrameInterpolatorImpl) {
		k.loop = loop
	}
}

// WithPathSteps sets the number of preview samples per segment returned by Path.
//
// Parameters:
//   - steps: samples per segment; non-positive values keep the default
//
// Returns:
//   - KeyFrameInterpolatorBuilderOption: a function that sets the preview resolution
func WithPathSteps(steps int) KeyFrameInterpolatorBuilderOption {
	return func(k *keyFrameInterpolatorImpl) {
		if steps > 0 {
			k.pathSteps = steps
		}
	}
}

// With2D interpolates orientations as Z angles regardless of the driven frame.
//
// Returns:
//   - KeyFrameInterpolatorBuilderOption: a function that enables planar interpolation
func With2D() KeyFrameInterpolatorBuilderOption {
	return func(k *keyFrameInterpolatorImpl) {
		k.planar = true
	}
}

// WithLogger sets the logger used for diagnostics.
//
// Parameters:
//   - logger: the logger; nil keeps the default logger
//
// Returns:
//   - KeyFrameInterpolatorBuilderOption: a function that sets the logger
func WithLogger(logger *log.Logger) KeyFrameInterpolatorBuilderOption {
	return func(k *keyFrameInterpolatorImpl) {
		k.logger = common.Coalesce(logger, k.logger)
	}
}
