package camera

import (
	"sort"

	"github.com/Carmen-Shannon/oxy-view/engine/frame"
	"github.com/Carmen-Shannon/oxy-view/engine/interpolator"
)

// fitSceneDuration is the travel time of InterpolateToFitScene, in seconds.
const fitSceneDuration = 1.0

func (v *viewportImpl) KeyFrameInterpolator(key int) interpolator.KeyFrameInterpolator {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.paths[key]
}

func (v *viewportImpl) SetKeyFrameInterpolator(key int, kfi interpolator.KeyFrameInterpolator) {
	v.mu.Lock()
	old := v.paths[key]
	if kfi == nil {
		delete(v.paths, key)
	} else {
		v.paths[key] = kfi
	}
	eye := v.eye
	v.mu.Unlock()

	if old != nil && old != kfi {
		old.StopInterpolation()
	}
	if kfi != nil {
		kfi.SetFrame(eye)
	}
}

func (v *viewportImpl) AddKeyFrameToPath(key int) {
	v.mu.Lock()
	kfi, ok := v.paths[key]
	if !ok {
		kfi = v.newInterpolator()
		v.paths[key] = kfi
		v.logger.Printf("[%s] created path %d", v.variant.tag(), key)
	}
	pose := v.eye.WorldPose()
	v.mu.Unlock()

	kfi.AppendKeyFrame(pose)
}

func (v *viewportImpl) PlayPath(key int) {
	kfi := v.path(key, "PlayPath")
	if kfi == nil {
		return
	}
	kfi.ToggleInterpolation()
}

func (v *viewportImpl) DeletePath(key int) {
	v.mu.Lock()
	kfi, ok := v.paths[key]
	delete(v.paths, key)
	v.mu.Unlock()
	if !ok {
		return
	}
	kfi.StopInterpolation()
	kfi.DeletePath()
}

func (v *viewportImpl) ResetPath(key int) {
	kfi := v.path(key, "ResetPath")
	if kfi == nil {
		return
	}
	if kfi.IsInterpolationStarted() {
		kfi.StopInterpolation()
		return
	}
	kfi.ResetInterpolation()
	kfi.InterpolateAtTime(kfi.InterpolationTime())
}

func (v *viewportImpl) PathKeys() []int {
	v.mu.Lock()
	defer v.mu.Unlock()
	keys := make([]int, 0, len(v.paths))
	for k := range v.paths {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func (v *viewportImpl) InterpolateTo(pose frame.Pose, duration float64) {
	v.mu.Lock()
	kfi := v.interpolation
	start := v.eye.WorldPose()
	v.mu.Unlock()

	kfi.StopInterpolation()
	kfi.DeletePath()
	if duration <= 0 {
		v.mu.Lock()
		v.eye.SetWorldPose(pose)
		v.mu.Unlock()
		return
	}
	kfi.AddKeyFrame(start, 0)
	kfi.AddKeyFrame(pose, duration)
	kfi.StartInterpolation()
}

func (v *viewportImpl) InterpolateToFitScene() {
	v.mu.Lock()
	pose, ok := v.fitBallPose(v.sceneCenter, v.sceneRadius)
	v.mu.Unlock()
	if ok {
		v.InterpolateTo(pose, fitSceneDuration)
	}
}

func (v *viewportImpl) StopInterpolations() {
	v.mu.Lock()
	kfis := v.interpolators()
	v.mu.Unlock()
	for _, kfi := range kfis {
		kfi.StopInterpolation()
	}
}

// path returns the interpolator under key, logging when it is missing.
func (v *viewportImpl) path(key int, op string) interpolator.KeyFrameInterpolator {
	v.mu.Lock()
	defer v.mu.Unlock()
	kfi, ok := v.paths[key]
	if !ok {
		v.logger.Printf("[%s] %s: no path %d", v.variant.tag(), op, key)
		return nil
	}
	return kfi
}

// newInterpolator creates an interpolator driving the eye frame.
// Caller must hold the mutex.
func (v *viewportImpl) newInterpolator() interpolator.KeyFrameInterpolator {
	options := []interpolator.KeyFrameInterpolatorBuilderOption{
		interpolator.WithFrame(v.eye),
		interpolator.WithScheduler(v.scheduler),
		interpolator.WithLogger(v.logger),
	}
	if v.variant == Orthographic2D {
		options = append(options, interpolator.With2D())
	}
	return interpolator.NewKeyFrameInterpolator(options...)
}
