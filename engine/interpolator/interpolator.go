// Package interpolator records time-stamped poses and replays them as a smooth path: positions and
// magnitudes follow a cubic Hermite spline and orientations follow a SQUAD quaternion curve.
package interpolator

import (
	"log"
	"math"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/frame"
	"github.com/go-gl/mathgl/mgl32"
)

type keyFrameInterpolatorImpl struct {
	mu     *sync.Mutex
	logger *log.Logger

	keyFrames []*keyFrame
	frame     frame.Frame
	planar    bool

	scheduler    Scheduler
	cancel       func()
	period       time.Duration
	speed        float64
	loop         bool
	time         float64
	started      bool
	onEndReached func()

	pathSteps int
	path      []frame.Pose
	pathValid bool

	// Spline cache: tangents are valid while valuesValid holds, v1/v2 belong to the segment starting at
	// index segment, and cursor remembers the last bracketing index.
	valuesValid bool
	cursor      int
	segment     int
	v1, v2      mgl32.Vec3
	mv1, mv2    mgl32.Vec3
}

// KeyFrameInterpolator records keyframes and interpolates a pose for any time between the first and
// last keyframe. While playing it drives an optional frame on a Scheduler.
//
// Keyframe times are strictly increasing: a keyframe whose time is not greater than the last one is
// rejected with a diagnostic. Fewer than two keyframes make interpolation a no-op.
type KeyFrameInterpolator interface {
	// AddKeyFrame appends a snapshot of pose at time t.
	//
	// Parameters:
	//   - pose: the world pose to record
	//   - t: the keyframe time in seconds
	//
	// Returns:
	//   - bool: false if t is not greater than the last keyframe time
	AddKeyFrame(pose frame.Pose, t float64) bool

	// AddKeyFrameFromFrame appends a snapshot of f's current world pose at time t.
	//
	// Parameters:
	//   - f: the frame to sample
	//   - t: the keyframe time in seconds
	//
	// Returns:
	//   - bool: false if f is nil or t is not greater than the last keyframe time
	AddKeyFrameFromFrame(f frame.Frame, t float64) bool

	// AddKeyFrameReference appends a live keyframe that follows the frame addressed by h in table.
	// The interpolator polls the frame's world generation and recomputes its curve when it moves.
	// If the handle stops resolving the last sampled pose is kept.
	//
	// Parameters:
	//   - table: the frame table
	//   - h: the frame handle
	//   - t: the keyframe time in seconds
	//
	// Returns:
	//   - bool: false if the handle does not resolve or t is not greater than the last keyframe time
	AddKeyFrameReference(table frame.Table, h frame.Handle, t float64) bool

	// AppendKeyFrame appends a snapshot of pose one second after the last keyframe, or at 0 when empty.
	//
	// Parameters:
	//   - pose: the world pose to record
	//
	// Returns:
	//   - bool: true once the keyframe is recorded
	AppendKeyFrame(pose frame.Pose) bool

	// RemoveKeyFrame removes the keyframe at index. Playback is stopped.
	//
	// Parameters:
	//   - index: the keyframe index
	//
	// Returns:
	//   - bool: false if index is out of range
	RemoveKeyFrame(index int) bool

	// DeletePath stops playback and removes every keyframe.
	DeletePath()

	// NumberOfKeyFrames returns the number of keyframes.
	//
	// Returns:
	//   - int: the keyframe count
	NumberOfKeyFrames() int

	// KeyFrame returns the keyframe at index.
	//
	// Parameters:
	//   - index: the keyframe index
	//
	// Returns:
	//   - KeyFrame: the keyframe
	//   - bool: false if index is out of range
	KeyFrame(index int) (KeyFrame, bool)

	// KeyFrames returns a copy of every keyframe in time order.
	//
	// Returns:
	//   - []KeyFrame: the keyframes
	KeyFrames() []KeyFrame

	// FirstTime returns the time of the first keyframe, or 0 when empty.
	//
	// Returns:
	//   - float64: the first keyframe time
	FirstTime() float64

	// LastTime returns the time of the last keyframe, or 0 when empty.
	//
	// Returns:
	//   - float64: the last keyframe time
	LastTime() float64

	// Duration returns LastTime - FirstTime.
	//
	// Returns:
	//   - float64: the path duration in seconds
	Duration() float64

	// Interpolate evaluates the path at time t without touching the driven frame or the interpolation time.
	// Times outside the keyframe range are clamped; keyframe times return the keyframe pose exactly.
	//
	// Parameters:
	//   - t: the query time in seconds
	//
	// Returns:
	//   - frame.Pose: the interpolated world pose
	//   - bool: false if there are fewer than two keyframes
	Interpolate(t float64) (frame.Pose, bool)

	// InterpolateAtTime sets the interpolation time to t and writes the interpolated pose to the driven frame.
	//
	// Parameters:
	//   - t: the time in seconds
	InterpolateAtTime(t float64)

	// InterpolationTime returns the current interpolation time.
	//
	// Returns:
	//   - float64: the time in seconds
	InterpolationTime() float64

	// SetInterpolationTime sets the current interpolation time without evaluating the path.
	//
	// Parameters:
	//   - t: the time in seconds
	SetInterpolationTime(t float64)

	// InterpolationSpeed returns the playback speed multiplier. Negative speeds play backwards.
	//
	// Returns:
	//   - float64: the speed
	InterpolationSpeed() float64

	// SetInterpolationSpeed sets the playback speed multiplier.
	//
	// Parameters:
	//   - speed: the speed
	SetInterpolationSpeed(speed float64)

	// InterpolationPeriod returns the interval between playback updates.
	//
	// Returns:
	//   - time.Duration: the period
	InterpolationPeriod() time.Duration

	// SetInterpolationPeriod sets the interval between playback updates. It applies to the next start.
	//
	// Parameters:
	//   - period: the period; non-positive values are ignored
	SetInterpolationPeriod(period time.Duration)

	// LoopInterpolation reports whether playback wraps around at the path ends.
	//
	// Returns:
	//   - bool: true if looping
	LoopInterpolation() bool

	// SetLoopInterpolation enables or disables wrapping at the path ends.
	//
	// Parameters:
	//   - loop: true to loop
	SetLoopInterpolation(loop bool)

	// StartInterpolation starts playback from the current interpolation time, rewinding first when the
	// time already sits at the end the speed is heading to. Without a scheduler, Update must be called
	// by the caller.
	StartInterpolation()

	// StopInterpolation stops playback. It is safe to call when already stopped.
	StopInterpolation()

	// ResetInterpolation stops playback and rewinds the interpolation time to the first keyframe.
	ResetInterpolation()

	// ToggleInterpolation starts playback when stopped and stops it when started.
	ToggleInterpolation()

	// IsInterpolationStarted reports whether playback is running.
	//
	// Returns:
	//   - bool: true while playing
	IsInterpolationStarted() bool

	// Update performs one playback step: it applies the pose at the current time to the driven frame
	// and advances the time by speed * period, wrapping or stopping at the path ends.
	Update()

	// SetOnEndReached registers a callback invoked each time playback reaches a path end.
	//
	// Parameters:
	//   - fn: the callback, or nil
	SetOnEndReached(fn func())

	// Frame returns the driven frame, or nil.
	//
	// Returns:
	//   - frame.Frame: the driven frame
	Frame() frame.Frame

	// SetFrame sets the frame driven by playback.
	//
	// Parameters:
	//   - f: the frame, or nil
	SetFrame(f frame.Frame)

	// Path returns poses sampled along the whole path, a fixed number of steps per segment, ending on
	// the last keyframe. The result is cached until a keyframe changes.
	//
	// Returns:
	//   - []frame.Pose: the sampled poses
	Path() []frame.Pose
}

var _ KeyFrameInterpolator = &keyFrameInterpolatorImpl{}

// NewKeyFrameInterpolator creates an empty KeyFrameInterpolator.
// Defaults: a 40ms period, speed 1, no looping, 30 preview steps per segment and no scheduler.
//
// Parameters:
//   - options: functional options to configure the interpolator
//
// Returns:
//   - KeyFrameInterpolator: the new interpolator
func NewKeyFrameInterpolator(options ...KeyFrameInterpolatorBuilderOption) KeyFrameInterpolator {
	k := &keyFrameInterpolatorImpl{
		mu:        &sync.Mutex{},
		logger:    log.Default(),
		period:    40 * time.Millisecond,
		speed:     1,
		pathSteps: 30,
		segment:   -1,
	}
	for _, option := range options {
		option(k)
	}
	return k
}

func (k *keyFrameInterpolatorImpl) AddKeyFrame(pose frame.Pose, t float64) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.addKeyFrame(&keyFrame{time: t, pose: pose})
}

func (k *keyFrameInterpolatorImpl) AddKeyFrameFromFrame(f frame.Frame, t float64) bool {
	if f == nil {
		k.logger.Printf("[KeyFrameInterpolator] AddKeyFrameFromFrame: nil frame ignored")
		return false
	}
	pose := f.WorldPose()
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.addKeyFrame(&keyFrame{time: t, pose: pose})
}

func (k *keyFrameInterpolatorImpl) AddKeyFrameReference(table frame.Table, h frame.Handle, t float64) bool {
	if table == nil {
		k.logger.Printf("[KeyFrameInterpolator] AddKeyFrameReference: nil table ignored")
		return false
	}
	f, ok := table.Lookup(h)
	if !ok {
		k.logger.Printf("[KeyFrameInterpolator] AddKeyFrameReference: handle does not resolve")
		return false
	}
	kf := &keyFrame{time: t, table: table, handle: h, seen: f.WorldGeneration(), pose: f.WorldPose()}
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.addKeyFrame(kf)
}

func (k *keyFrameInterpolatorImpl) AppendKeyFrame(pose frame.Pose) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	t := 0.0
	if n := len(k.keyFrames); n > 0 {
		t = k.keyFrames[n-1].time + 1
	}
	return k.addKeyFrame(&keyFrame{time: t, pose: pose})
}

func (k *keyFrameInterpolatorImpl) RemoveKeyFrame(index int) bool {
	k.mu.Lock()
	if index < 0 || index >= len(k.keyFrames) {
		k.mu.Unlock()
		k.logger.Printf("[KeyFrameInterpolator] RemoveKeyFrame: index %d out of range", index)
		return false
	}
	cancel := k.stop()
	k.keyFrames = append(k.keyFrames[:index], k.keyFrames[index+1:]...)
	k.invalidate()
	k.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	return true
}

func (k *keyFrameInterpolatorImpl) DeletePath() {
	k.mu.Lock()
	cancel := k.stop()
	k.keyFrames = nil
	k.path = nil
	k.invalidate()
	k.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (k *keyFrameInterpolatorImpl) NumberOfKeyFrames() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.keyFrames)
}

func (k *keyFrameInterpolatorImpl) KeyFrame(index int) (KeyFrame, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if index < 0 || index >= len(k.keyFrames) {
		return KeyFrame{}, false
	}
	k.refreshLive()
	return k.keyFrames[index].view(), true
}

func (k *keyFrameInterpolatorImpl) KeyFrames() []KeyFrame {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.refreshLive()
	out := make([]KeyFrame, len(k.keyFrames))
	for i, kf := range k.keyFrames {
		out[i] = kf.view()
	}
	return out
}

func (k *keyFrameInterpolatorImpl) FirstTime() float64 {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.firstTime()
}

func (k *keyFrameInterpolatorImpl) LastTime() float64 {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.lastTime()
}

func (k *keyFrameInterpolatorImpl) Duration() float64 {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.lastTime() - k.firstTime()
}

func (k *keyFrameInterpolatorImpl) Interpolate(t float64) (frame.Pose, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.evaluate(t)
}

func (k *keyFrameInterpolatorImpl) InterpolateAtTime(t float64) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.interpolateAtTime(t)
}

func (k *keyFrameInterpolatorImpl) InterpolationTime() float64 {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.time
}

func (k *keyFrameInterpolatorImpl) SetInterpolationTime(t float64) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.time = t
}

func (k *keyFrameInterpolatorImpl) InterpolationSpeed() float64 {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.speed
}

func (k *keyFrameInterpolatorImpl) SetInterpolationSpeed(speed float64) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.speed = speed
}

func (k *keyFrameInterpolatorImpl) InterpolationPeriod() time.Duration {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.period
}

func (k *keyFrameInterpolatorImpl) SetInterpolationPeriod(period time.Duration) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if period <= 0 {
		k.logger.Printf("[KeyFrameInterpolator] SetInterpolationPeriod: ignoring non-positive period %v", period)
		return
	}
	k.period = period
}

func (k *keyFrameInterpolatorImpl) LoopInterpolation() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.loop
}

func (k *keyFrameInterpolatorImpl) SetLoopInterpolation(loop bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.loop = loop
}

func (k *keyFrameInterpolatorImpl) StartInterpolation() {
	k.mu.Lock()
	if len(k.keyFrames) < 2 {
		k.mu.Unlock()
		k.logger.Printf("[KeyFrameInterpolator] StartInterpolation: at least two keyframes are required")
		return
	}
	if k.started {
		k.mu.Unlock()
		return
	}
	if k.speed > 0 && k.time >= k.lastTime() {
		k.time = k.firstTime()
	}
	if k.speed < 0 && k.time <= k.firstTime() {
		k.time = k.lastTime()
	}
	k.started = true
	scheduler, period := k.scheduler, k.period
	k.mu.Unlock()

	if scheduler != nil {
		cancel := scheduler.Schedule(period, k.Update)
		k.mu.Lock()
		if k.started && k.cancel == nil {
			k.cancel, cancel = cancel, nil
		}
		k.mu.Unlock()
		// Playback was stopped while scheduling.
		if cancel != nil {
			cancel()
		}
	}
	k.Update()
}

func (k *keyFrameInterpolatorImpl) StopInterpolation() {
	k.mu.Lock()
	cancel := k.stop()
	k.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (k *keyFrameInterpolatorImpl) ResetInterpolation() {
	k.mu.Lock()
	cancel := k.stop()
	k.time = k.firstTime()
	k.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (k *keyFrameInterpolatorImpl) ToggleInterpolation() {
	if k.IsInterpolationStarted() {
		k.StopInterpolation()
	} else {
		k.StartInterpolation()
	}
}

func (k *keyFrameInterpolatorImpl) IsInterpolationStarted() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.started
}

func (k *keyFrameInterpolatorImpl) Update() {
	k.mu.Lock()
	if !k.started || len(k.keyFrames) < 2 {
		k.mu.Unlock()
		return
	}

	k.interpolateAtTime(k.time)
	k.time += k.speed * k.period.Seconds()

	first, last := k.firstTime(), k.lastTime()
	duration := last - first
	var cancel func()
	ended := false
	switch {
	case k.time > last:
		if k.loop {
			for k.time > last {
				k.time -= duration
			}
		} else {
			// The last keyframe is always reached before stopping.
			k.interpolateAtTime(last)
			cancel = k.stop()
		}
		ended = true
	case k.time < first:
		if k.loop {
			for k.time < first {
				k.time += duration
			}
		} else {
			k.interpolateAtTime(first)
			cancel = k.stop()
		}
		ended = true
	}
	onEnd := k.onEndReached
	k.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if ended && onEnd != nil {
		onEnd()
	}
}

func (k *keyFrameInterpolatorImpl) SetOnEndReached(fn func()) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.onEndReached = fn
}

func (k *keyFrameInterpolatorImpl) Frame() frame.Frame {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.frame
}

func (k *keyFrameInterpolatorImpl) SetFrame(f frame.Frame) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.frame = f
	k.pathValid = false
}

func (k *keyFrameInterpolatorImpl) Path() []frame.Pose {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.ensureValues()
	if !k.pathValid {
		k.buildPath()
	}
	out := make([]frame.Pose, len(k.path))
	copy(out, k.path)
	return out
}

// addKeyFrame appends kf if its time keeps the sequence strictly increasing.
// Caller must hold the mutex.
func (k *keyFrameInterpolatorImpl) addKeyFrame(kf *keyFrame) bool {
	if math.IsNaN(kf.time) || math.IsInf(kf.time, 0) {
		k.logger.Printf("[KeyFrameInterpolator] rejected keyframe at t=%v: time must be finite", kf.time)
		return false
	}
	if n := len(k.keyFrames); n > 0 && kf.time <= k.keyFrames[n-1].time {
		k.logger.Printf("[KeyFrameInterpolator] rejected keyframe at t=%.4f: time must be greater than %.4f",
			kf.time, k.keyFrames[n-1].time)
		return false
	}
	if kf.pose.Orientation.Len() == 0 {
		kf.pose.Orientation = mgl32.QuatIdent()
	}
	kf.pose.Orientation = kf.pose.Orientation.Normalize()
	if kf.pose.Magnitude == (mgl32.Vec3{}) {
		kf.pose.Magnitude = mgl32.Vec3{1, 1, 1}
	}
	if len(k.keyFrames) == 0 {
		k.time = kf.time
	}
	k.keyFrames = append(k.keyFrames, kf)
	k.invalidate()
	return true
}

// stop clears the playback state and returns the scheduler cancel function to run once unlocked.
// Caller must hold the mutex.
func (k *keyFrameInterpolatorImpl) stop() func() {
	k.started = false
	cancel := k.cancel
	k.cancel = nil
	return cancel
}

// invalidate drops every derived cache.
// Caller must hold the mutex.
func (k *keyFrameInterpolatorImpl) invalidate() {
	k.valuesValid = false
	k.pathValid = false
	k.segment = -1
	k.cursor = 0
}

// refreshLive re-samples live keyframes and invalidates the caches if any of them moved.
// Caller must hold the mutex.
func (k *keyFrameInterpolatorImpl) refreshLive() {
	for _, kf := range k.keyFrames {
		changed, lost := kf.refresh()
		if lost {
			k.logger.Printf("[KeyFrameInterpolator] live keyframe at t=%.4f no longer resolves, keeping its last pose", kf.time)
		}
		if changed {
			k.invalidate()
		}
	}
}

// ensureValues brings live keyframes and tangents up to date.
// Caller must hold the mutex.
func (k *keyFrameInterpolatorImpl) ensureValues() {
	k.refreshLive()
	if !k.valuesValid {
		k.computeTangents()
		k.valuesValid = true
		k.segment = -1
	}
}

// computeTangents aligns consecutive orientations on the shortest arc, then derives the Catmull-Rom
// style tangents for position and magnitude and the SQUAD tangents for orientation.
// Caller must hold the mutex.
func (k *keyFrameInterpolatorImpl) computeTangents() {
	n := len(k.keyFrames)
	if n == 0 {
		return
	}
	prev := k.keyFrames[0].pose.Orientation
	for _, kf := range k.keyFrames {
		kf.quat = common.ShortestArc(prev, kf.pose.Orientation)
		prev = kf.quat
	}
	for i, kf := range k.keyFrames {
		before := k.keyFrames[max(i-1, 0)]
		after := k.keyFrames[min(i+1, n-1)]
		kf.tgPosition = after.pose.Position.Sub(before.pose.Position).Mul(0.5)
		kf.tgMagnitude = after.pose.Magnitude.Sub(before.pose.Magnitude).Mul(0.5)
		kf.tgQuat = common.SquadTangent(before.quat, kf.quat, after.quat)
	}
}

// locate returns the index i such that keyFrames[i].time <= t < keyFrames[i+1].time, starting from the cursor.
// Caller must hold the mutex and ensure first <= t < last.
func (k *keyFrameInterpolatorImpl) locate(t float64) int {
	n := len(k.keyFrames)
	i := k.cursor
	if i < 0 || i >= n-1 {
		i = 0
	}
	for i > 0 && k.keyFrames[i].time > t {
		i--
	}
	for i < n-2 && k.keyFrames[i+1].time <= t {
		i++
	}
	k.cursor = i
	return i
}

// evaluate computes the pose at t.
// Caller must hold the mutex.
func (k *keyFrameInterpolatorImpl) evaluate(t float64) (frame.Pose, bool) {
	n := len(k.keyFrames)
	if n < 2 {
		return frame.Pose{}, false
	}
	k.ensureValues()

	first, last := k.keyFrames[0], k.keyFrames[n-1]
	if t <= first.time {
		return first.pose, true
	}
	if t >= last.time {
		return last.pose, true
	}

	i := k.locate(t)
	k1, k2 := k.keyFrames[i], k.keyFrames[i+1]

	var alpha float32
	if dt := k2.time - k1.time; dt > 0 {
		alpha = float32((t - k1.time) / dt)
	}
	if alpha == 0 {
		return k1.pose, true
	}

	if k.segment != i {
		k.v1, k.v2 = splineCoefficients(k1.pose.Position, k2.pose.Position, k1.tgPosition, k2.tgPosition)
		k.mv1, k.mv2 = splineCoefficients(k1.pose.Magnitude, k2.pose.Magnitude, k1.tgMagnitude, k2.tgMagnitude)
		k.segment = i
	}

	pose := frame.Pose{
		Position:  hermite(k1.pose.Position, k1.tgPosition, k.v1, k.v2, alpha),
		Magnitude: hermite(k1.pose.Magnitude, k1.tgMagnitude, k.mv1, k.mv2, alpha),
	}
	if k.is2D() {
		angle := common.Lerp(common.ZAngle(k1.quat), common.ZAngle(k2.quat), alpha)
		pose.Orientation = mgl32.QuatRotate(angle, mgl32.Vec3{0, 0, 1})
	} else {
		pose.Orientation = common.Squad(k1.quat, k1.tgQuat, k2.tgQuat, k2.quat, alpha)
	}
	return pose, true
}

// interpolateAtTime sets the time and drives the frame.
// Caller must hold the mutex.
func (k *keyFrameInterpolatorImpl) interpolateAtTime(t float64) {
	k.time = t
	pose, ok := k.evaluate(t)
	if !ok || k.frame == nil {
		return
	}
	k.frame.SetWorldPose(pose)
}

// buildPath samples every segment at pathSteps points plus the final keyframe.
// Caller must hold the mutex.
func (k *keyFrameInterpolatorImpl) buildPath() {
	k.path = k.path[:0]
	n := len(k.keyFrames)
	if n == 1 {
		k.path = append(k.path, k.keyFrames[0].pose)
	}
	if n >= 2 {
		for i := 0; i < n-1; i++ {
			t1, t2 := k.keyFrames[i].time, k.keyFrames[i+1].time
			for s := 0; s < k.pathSteps; s++ {
				pose, _ := k.evaluate(t1 + (t2-t1)*float64(s)/float64(k.pathSteps))
				k.path = append(k.path, pose)
			}
		}
		k.path = append(k.path, k.keyFrames[n-1].pose)
	}
	k.pathValid = true
}

// is2D reports whether orientations interpolate as plain Z angles.
// Caller must hold the mutex.
func (k *keyFrameInterpolatorImpl) is2D() bool {
	return k.planar || (k.frame != nil && k.frame.Is2D())
}

// firstTime returns the first keyframe time.
// Caller must hold the mutex.
func (k *keyFrameInterpolatorImpl) firstTime() float64 {
	if len(k.keyFrames) == 0 {
		return 0
	}
	return k.keyFrames[0].time
}

// lastTime returns the last keyframe time.
// Caller must hold the mutex.
func (k *keyFrameInterpolatorImpl) lastTime() float64 {
	if len(k.keyFrames) == 0 {
		return 0
	}
	return k.keyFrames[len(k.keyFrames)-1].time
}

// splineCoefficients returns the cubic terms of the Hermite segment from p1 to p2.
func splineCoefficients(p1, p2, tg1, tg2 mgl32.Vec3) (v1, v2 mgl32.Vec3) {
	delta := p2.Sub(p1)
	v1 = delta.Mul(3).Sub(tg1.Mul(2)).Sub(tg2)
	v2 = delta.Mul(-2).Add(tg1).Add(tg2)
	return v1, v2
}

func hermite(p1, tg1, v1, v2 mgl32.Vec3, alpha float32) mgl32.Vec3 {
	return p1.Add(tg1.Add(v1.Add(v2.Mul(alpha)).Mul(alpha)).Mul(alpha))
}
