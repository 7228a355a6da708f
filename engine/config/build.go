package config

import (
	"fmt"
	"log"

	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/frame"
	"github.com/Carmen-Shannon/oxy-view/engine/interpolator"
	"github.com/go-gl/mathgl/mgl32"
)

type builder struct {
	logger    *log.Logger
	scheduler interpolator.Scheduler
	options   []camera.ViewportBuilderOption
}

// BuildOption is a functional option for Build.
type BuildOption func(*builder)

// WithLogger sets the logger handed to the viewport and its paths.
//
// Parameters:
//   - logger: the logger; nil keeps log.Default()
//
// Returns:
//   - BuildOption: a function that sets the logger
func WithLogger(logger *log.Logger) BuildOption {
	return func(b *builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithScheduler sets the scheduler that drives playback of the viewport and its paths.
//
// Parameters:
//   - s: the scheduler, usually the engine
//
// Returns:
//   - BuildOption: a function that sets the scheduler
func WithScheduler(s interpolator.Scheduler) BuildOption {
	return func(b *builder) {
		b.scheduler = s
	}
}

// WithViewportOptions appends viewport options applied after the ones derived from the document.
//
// Parameters:
//   - options: the extra viewport options
//
// Returns:
//   - BuildOption: a function that appends the options
func WithViewportOptions(options ...camera.ViewportBuilderOption) BuildOption {
	return func(b *builder) {
		b.options = append(b.options, options...)
	}
}

// Build validates cfg and constructs its viewport together with every configured path.
//
// Parameters:
//   - cfg: the configuration
//   - options: functional options for the build
//
// Returns:
//   - camera.Viewport: a camera.Camera or a camera.Window
//   - error: a validation error
func Build(cfg *Config, options ...BuildOption) (camera.Viewport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b := &builder{logger: log.Default()}
	for _, option := range options {
		option(b)
	}

	vc := cfg.Viewport
	opts := []camera.ViewportBuilderOption{
		camera.WithLogger(b.logger),
		camera.WithScheduler(b.scheduler),
	}
	if !vc.IsWindow() {
		t, _ := camera.ParseType(vc.Type)
		opts = append(opts, camera.WithType(t))
	}
	if vc.Kind != "" {
		k, _ := camera.ParseKind(vc.Kind)
		opts = append(opts, camera.WithKind(k))
	}
	if vc.FieldOfView > 0 {
		opts = append(opts, camera.WithFieldOfView(vc.FieldOfView))
	}
	if vc.ScreenWidth > 0 && vc.ScreenHeight > 0 {
		opts = append(opts, camera.WithScreenSize(vc.ScreenWidth, vc.ScreenHeight))
	}
	if vc.SceneCenter != nil {
		opts = append(opts, camera.WithSceneCenter(mgl32.Vec3(*vc.SceneCenter)))
	}
	if vc.SceneRadius > 0 {
		opts = append(opts, camera.WithSceneRadius(vc.SceneRadius))
	}
	if vc.Position != nil {
		opts = append(opts, camera.WithPosition(mgl32.Vec3(*vc.Position)))
	}
	if vc.Orientation != nil {
		opts = append(opts, camera.WithOrientation(toQuat(*vc.Orientation)))
	}
	if vc.ZFar > 0 {
		opts = append(opts, camera.WithStandardZNearZFar(vc.ZNear, vc.ZFar))
	}
	if vc.LeftHanded {
		opts = append(opts, camera.WithLeftHanded())
	}
	if vc.BoundaryEquations {
		opts = append(opts, camera.WithBoundaryEquations())
	}
	opts = append(opts, b.options...)

	var v camera.Viewport
	if vc.IsWindow() {
		v = camera.NewWindow(opts...)
	} else {
		v = camera.NewCamera(opts...)
	}

	for _, pc := range cfg.Paths {
		kfi, err := b.buildPath(pc, vc.IsWindow())
		if err != nil {
			return nil, err
		}
		v.SetKeyFrameInterpolator(pc.Key, kfi)
	}
	b.logger.Printf("[Config] built %s viewport with %d path(s)", v.Variant(), len(cfg.Paths))
	return v, nil
}

func (b *builder) buildPath(pc PathConfig, is2D bool) (interpolator.KeyFrameInterpolator, error) {
	options := []interpolator.KeyFrameInterpolatorBuilderOption{
		interpolator.WithScheduler(b.scheduler),
		interpolator.WithLogger(b.logger),
		interpolator.WithLoop(pc.Loop),
	}
	if pc.Speed != 0 {
		options = append(options, interpolator.WithSpeed(pc.Speed))
	}
	if is2D {
		options = append(options, interpolator.With2D())
	}
	kfi := interpolator.NewKeyFrameInterpolator(options...)

	times := pc.Times()
	for i, kc := range pc.KeyFrames {
		if !kfi.AddKeyFrame(kc.pose(), times[i]) {
			return nil, fmt.Errorf("%w: path %d: keyframes[%d] rejected", ErrInvalid, pc.Key, i)
		}
	}
	return kfi, nil
}

// pose converts the keyframe to a frame pose.
func (k KeyFrameConfig) pose() frame.Pose {
	p := frame.IdentityPose()
	p.Position = mgl32.Vec3(k.Position)
	switch {
	case k.Orientation != nil:
		p.Orientation = toQuat(*k.Orientation)
	case k.Angle != nil:
		p.Orientation = mgl32.QuatRotate(*k.Angle, mgl32.Vec3{0, 0, 1})
	}
	if k.Magnitude != nil {
		p.Magnitude = mgl32.Vec3(*k.Magnitude)
	}
	return p
}

// toQuat converts [w, x, y, z] to a unit quaternion.
func toQuat(q [4]float32) mgl32.Quat {
	return mgl32.Quat{W: q[0], V: mgl32.Vec3{q[1], q[2], q[3]}}.Normalize()
}
