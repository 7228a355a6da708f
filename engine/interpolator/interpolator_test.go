package interpolator

import (
	"bytes"
	"io"
	"log"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/frame"
	"github.com/go-gl/mathgl/mgl32"
)

type fakeScheduler struct {
	period   time.Duration
	fn       func()
	cancels  int
	schedule int
}

func (s *fakeScheduler) Schedule(period time.Duration, fn func()) func() {
	s.period = period
	s.fn = fn
	s.schedule++
	return func() { s.cancels++ }
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func poseAt(x, y, z float32) frame.Pose {
	p := frame.IdentityPose()
	p.Position = mgl32.Vec3{x, y, z}
	return p
}

func scenarioInterpolator(options ...KeyFrameInterpolatorBuilderOption) KeyFrameInterpolator {
	k := NewKeyFrameInterpolator(append([]KeyFrameInterpolatorBuilderOption{WithLogger(quietLogger())}, options...)...)
	k.AddKeyFrame(poseAt(0, 0, 0), 0)
	k.AddKeyFrame(poseAt(10, 0, 0), 1)
	k.AddKeyFrame(poseAt(10, 10, 0), 2)
	return k
}

func TestScenarioThreeKeyFrames(t *testing.T) {
	k := scenarioInterpolator()

	at1, ok := k.Interpolate(1.0)
	if !ok {
		t.Fatal("expected interpolation to succeed")
	}
	if at1.Position != (mgl32.Vec3{10, 0, 0}) {
		t.Errorf("expected (10,0,0) at t=1, got %v", at1.Position)
	}

	mid, _ := k.Interpolate(0.5)
	if mid.Position[0] <= 0 || mid.Position[0] >= 10 {
		t.Errorf("expected 0 < x < 10 at t=0.5, got %f", mid.Position[0])
	}
	if math.Abs(float64(mid.Position[1])) > 1 {
		t.Errorf("expected y close to 0 at t=0.5, got %f", mid.Position[1])
	}
	if mid.Position[2] != 0 {
		t.Errorf("expected z == 0 at t=0.5, got %f", mid.Position[2])
	}
}

func TestEndpointExactness(t *testing.T) {
	k := NewKeyFrameInterpolator(WithLogger(quietLogger()))
	first := frame.Pose{
		Position:    mgl32.Vec3{1, 2, 3},
		Orientation: mgl32.QuatRotate(0.3, mgl32.Vec3{0, 1, 0}),
		Magnitude:   mgl32.Vec3{1, 1, 1},
	}
	last := frame.Pose{
		Position:    mgl32.Vec3{-4, 5, 6},
		Orientation: mgl32.QuatRotate(1.1, mgl32.Vec3{1, 0, 0}),
		Magnitude:   mgl32.Vec3{2, 2, 2},
	}
	k.AddKeyFrame(first, 0.5)
	k.AddKeyFrame(poseAt(0, 0, 0), 1.5)
	k.AddKeyFrame(last, 3)

	want0, _ := k.KeyFrame(0)
	wantN, _ := k.KeyFrame(2)

	if got, _ := k.Interpolate(0.5); got != want0.Pose {
		t.Errorf("expected first keyframe pose %+v, got %+v", want0.Pose, got)
	}
	if got, _ := k.Interpolate(3); got != wantN.Pose {
		t.Errorf("expected last keyframe pose %+v, got %+v", wantN.Pose, got)
	}
	if got, _ := k.Interpolate(-10); got != want0.Pose {
		t.Error("expected times before the path to clamp to the first keyframe")
	}
	if got, _ := k.Interpolate(10); got != wantN.Pose {
		t.Error("expected times after the path to clamp to the last keyframe")
	}
}

func TestRejectsNonIncreasingTime(t *testing.T) {
	var buf bytes.Buffer
	k := NewKeyFrameInterpolator(WithLogger(log.New(&buf, "", 0)))

	if !k.AddKeyFrame(poseAt(0, 0, 0), 1) {
		t.Fatal("expected first keyframe to be accepted")
	}
	if k.AddKeyFrame(poseAt(1, 0, 0), 1) {
		t.Error("expected equal time to be rejected")
	}
	if k.AddKeyFrame(poseAt(1, 0, 0), 0.5) {
		t.Error("expected earlier time to be rejected")
	}
	if k.NumberOfKeyFrames() != 1 {
		t.Errorf("expected 1 keyframe, got %d", k.NumberOfKeyFrames())
	}
	if !strings.Contains(buf.String(), "rejected keyframe") {
		t.Errorf("expected a diagnostic, got %q", buf.String())
	}
}

func TestRejectsNonFiniteTime(t *testing.T) {
	var buf bytes.Buffer
	k := NewKeyFrameInterpolator(WithLogger(log.New(&buf, "", 0)))

	if !k.AddKeyFrame(poseAt(0, 0, 0), 0) {
		t.Fatal("expected first keyframe to be accepted")
	}
	if k.AddKeyFrame(poseAt(1, 0, 0), math.NaN()) {
		t.Error("expected a NaN time to be rejected")
	}
	if k.AddKeyFrame(poseAt(1, 0, 0), -5) {
		t.Error("expected a time before the last keyframe to be rejected after a NaN attempt")
	}
	if k.AddKeyFrame(poseAt(1, 0, 0), math.Inf(1)) {
		t.Error("expected an infinite time to be rejected")
	}
	if k.NumberOfKeyFrames() != 1 {
		t.Errorf("expected 1 keyframe, got %d", k.NumberOfKeyFrames())
	}
	if !strings.Contains(buf.String(), "time must be finite") {
		t.Errorf("expected a diagnostic, got %q", buf.String())
	}

	if !k.AddKeyFrame(poseAt(1, 0, 0), 1) {
		t.Error("expected a later finite time to be accepted")
	}
}

func TestZeroPoseKeyFrameKeepsUnitMagnitude(t *testing.T) {
	f := frame.NewFrame(frame.WithMagnitude(mgl32.Vec3{2, 2, 2}))
	k := NewKeyFrameInterpolator(WithLogger(quietLogger()), WithFrame(f))
	k.AddKeyFrame(frame.Pose{}, 0)
	k.AddKeyFrame(poseAt(1, 0, 0), 1)

	kf, ok := k.KeyFrame(0)
	if !ok {
		t.Fatal("expected keyframe 0")
	}
	if got := kf.Pose.Magnitude; got != (mgl32.Vec3{1, 1, 1}) {
		t.Errorf("expected magnitude (1,1,1), got %v", got)
	}

	k.InterpolateAtTime(0)
	if got := f.WorldMagnitude(); got != (mgl32.Vec3{1, 1, 1}) {
		t.Errorf("expected the driven frame to keep unit magnitude, got %v", got)
	}
}

func TestNilLoggerKeepsConfiguredLogger(t *testing.T) {
	var buf bytes.Buffer
	k := NewKeyFrameInterpolator(WithLogger(log.New(&buf, "", 0)), WithLogger(nil))
	k.StartInterpolation()
	if !strings.Contains(buf.String(), "at least two keyframes") {
		t.Errorf("expected the diagnostic on the first logger, got %q", buf.String())
	}

	d := NewKeyFrameInterpolator(WithLogger(nil))
	if d.(*keyFrameInterpolatorImpl).logger == nil {
		t.Error("expected the default logger to survive a nil option")
	}
}

func TestDegenerateKeyFrameCounts(t *testing.T) {
	f := frame.NewFrame(frame.WithPosition(mgl32.Vec3{7, 7, 7}))
	k := NewKeyFrameInterpolator(WithLogger(quietLogger()), WithFrame(f))

	k.InterpolateAtTime(0)
	if f.Position() != (mgl32.Vec3{7, 7, 7}) {
		t.Error("expected empty interpolator to leave the frame untouched")
	}
	if _, ok := k.Interpolate(0); ok {
		t.Error("expected empty interpolator to report failure")
	}

	k.AddKeyFrame(poseAt(1, 1, 1), 0)
	k.InterpolateAtTime(0)
	if f.Position() != (mgl32.Vec3{7, 7, 7}) {
		t.Error("expected a single keyframe to leave the frame untouched")
	}
	if got := k.InterpolationTime(); got != 0 {
		t.Errorf("expected interpolation time 0, got %f", got)
	}
}

func TestShortestArcOrientation(t *testing.T) {
	k := NewKeyFrameInterpolator(WithLogger(quietLogger()))
	z := mgl32.Vec3{0, 0, 1}

	q1 := mgl32.QuatRotate(2.0, z)
	negated := q1.Scale(-1)
	if mgl32.QuatIdent().Dot(negated) >= 0 {
		t.Fatal("expected the negated keyframe to lie in the opposite hemisphere")
	}

	k.AddKeyFrame(frame.Pose{Orientation: mgl32.QuatIdent(), Magnitude: mgl32.Vec3{1, 1, 1}}, 0)
	k.AddKeyFrame(frame.Pose{Orientation: negated, Magnitude: mgl32.Vec3{1, 1, 1}}, 1)
	k.AddKeyFrame(frame.Pose{Orientation: mgl32.QuatRotate(2.8, z), Magnitude: mgl32.Vec3{1, 1, 1}}, 2)

	prev := float32(-1)
	for i := 0; i <= 40; i++ {
		pose, _ := k.Interpolate(float64(i) / 20)
		angle := common.ZAngle(common.ShortestArc(mgl32.QuatIdent(), pose.Orientation))
		if angle < prev-1e-3 {
			t.Fatalf("expected monotone angular progress, got %f after %f at step %d", angle, prev, i)
		}
		prev = angle
	}
	if math.Abs(float64(prev)-2.8) > 1e-3 {
		t.Errorf("expected to end at 2.8 rad, got %f", prev)
	}
}

func TestPlanarInterpolation(t *testing.T) {
	f := frame.NewFrame(frame.With2D())
	k := NewKeyFrameInterpolator(WithLogger(quietLogger()), WithFrame(f))
	k.AddKeyFrame(frame.Pose{Orientation: mgl32.QuatRotate(0, mgl32.Vec3{0, 0, 1}), Magnitude: mgl32.Vec3{1, 1, 1}}, 0)
	k.AddKeyFrame(frame.Pose{Orientation: mgl32.QuatRotate(1, mgl32.Vec3{0, 0, 1}), Magnitude: mgl32.Vec3{1, 1, 1}}, 1)

	k.InterpolateAtTime(0.25)
	if got := f.Angle(); math.Abs(float64(got)-0.25) > 1e-4 {
		t.Errorf("expected angle 0.25, got %f", got)
	}
}

func TestPlaybackStopsOnLastKeyFrame(t *testing.T) {
	f := frame.NewFrame()
	sched := &fakeScheduler{}
	k := NewKeyFrameInterpolator(
		WithLogger(quietLogger()),
		WithFrame(f),
		WithScheduler(sched),
		WithPeriod(500*time.Millisecond),
	)
	k.AddKeyFrame(poseAt(0, 0, 0), 0)
	k.AddKeyFrame(poseAt(4, 0, 0), 1)

	ends := 0
	k.SetOnEndReached(func() { ends++ })

	k.StartInterpolation()
	if sched.schedule != 1 || sched.period != 500*time.Millisecond {
		t.Fatalf("expected one schedule call at 500ms, got %d at %v", sched.schedule, sched.period)
	}
	if !k.IsInterpolationStarted() {
		t.Fatal("expected playback to be started")
	}
	if f.Position() != (mgl32.Vec3{0, 0, 0}) {
		t.Errorf("expected first keyframe to be applied on start, got %v", f.Position())
	}

	sched.fn() // t = 0.5
	sched.fn() // t = 1.0, then overshoot
	if k.IsInterpolationStarted() {
		t.Error("expected playback to stop at the end")
	}
	if f.Position() != (mgl32.Vec3{4, 0, 0}) {
		t.Errorf("expected last keyframe to be reached exactly, got %v", f.Position())
	}
	if ends != 1 {
		t.Errorf("expected one end notification, got %d", ends)
	}
	if sched.cancels != 1 {
		t.Errorf("expected scheduler to be cancelled once, got %d", sched.cancels)
	}

	k.StopInterpolation()
	k.StopInterpolation()
	if sched.cancels != 1 {
		t.Errorf("expected stopping twice to be a no-op, got %d cancels", sched.cancels)
	}

	// Restarting from the end rewinds to the first keyframe.
	k.StartInterpolation()
	if f.Position() != (mgl32.Vec3{0, 0, 0}) {
		t.Errorf("expected restart from the first keyframe, got %v", f.Position())
	}
}

func TestPlaybackLoops(t *testing.T) {
	sched := &fakeScheduler{}
	k := NewKeyFrameInterpolator(
		WithLogger(quietLogger()),
		WithScheduler(sched),
		WithPeriod(750*time.Millisecond),
		WithLoop(true),
	)
	k.AddKeyFrame(poseAt(0, 0, 0), 0)
	k.AddKeyFrame(poseAt(1, 0, 0), 1)

	ends := 0
	k.SetOnEndReached(func() { ends++ })
	k.StartInterpolation() // t = 0.75
	sched.fn()             // t = 1.5 wraps to 0.5

	if !k.IsInterpolationStarted() {
		t.Error("expected looping playback to keep running")
	}
	if got := k.InterpolationTime(); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("expected wrapped time 0.5, got %f", got)
	}
	if ends != 1 {
		t.Errorf("expected one end notification, got %d", ends)
	}
}

func TestPlaybackBackwards(t *testing.T) {
	f := frame.NewFrame()
	k := NewKeyFrameInterpolator(
		WithLogger(quietLogger()),
		WithFrame(f),
		WithPeriod(time.Second),
		WithSpeed(-1),
	)
	k.AddKeyFrame(poseAt(0, 0, 0), 0)
	k.AddKeyFrame(poseAt(2, 0, 0), 1)

	k.StartInterpolation() // time rewinds to the last keyframe
	if f.Position() != (mgl32.Vec3{2, 0, 0}) {
		t.Errorf("expected backwards playback to start on the last keyframe, got %v", f.Position())
	}
	k.Update()
	k.Update()
	if k.IsInterpolationStarted() {
		t.Error("expected backwards playback to stop on the first keyframe")
	}
	if f.Position() != (mgl32.Vec3{0, 0, 0}) {
		t.Errorf("expected first keyframe to be reached exactly, got %v", f.Position())
	}
}

func TestResetAndToggle(t *testing.T) {
	k := scenarioInterpolator()
	k.SetInterpolationTime(1.5)
	k.ToggleInterpolation()
	if !k.IsInterpolationStarted() {
		t.Fatal("expected toggle to start playback")
	}
	k.ResetInterpolation()
	if k.IsInterpolationStarted() {
		t.Error("expected reset to stop playback")
	}
	if k.InterpolationTime() != 0 {
		t.Errorf("expected reset to rewind to 0, got %f", k.InterpolationTime())
	}
}

func TestLiveReferenceInvalidation(t *testing.T) {
	table := frame.NewTable()
	source := frame.NewFrame(frame.WithPosition(mgl32.Vec3{0, 0, 0}))
	h := table.Register(source)

	var buf bytes.Buffer
	k := NewKeyFrameInterpolator(WithLogger(log.New(&buf, "", 0)), WithPathSteps(4))
	if !k.AddKeyFrameReference(table, h, 0) {
		t.Fatal("expected live keyframe to be accepted")
	}
	k.AddKeyFrame(poseAt(10, 0, 0), 1)

	before := k.Path()
	if len(before) != 5 {
		t.Fatalf("expected 5 path samples, got %d", len(before))
	}

	source.SetPosition(mgl32.Vec3{0, 5, 0})
	if got, _ := k.Interpolate(0); got.Position != (mgl32.Vec3{0, 5, 0}) {
		t.Errorf("expected live keyframe to follow its frame, got %v", got.Position)
	}
	after := k.Path()
	if after[0].Position != (mgl32.Vec3{0, 5, 0}) {
		t.Errorf("expected preview path to be recomputed, got %v", after[0].Position)
	}
	kf, _ := k.KeyFrame(0)
	if !kf.Live {
		t.Error("expected keyframe to be reported live")
	}

	table.Remove(h)
	source.SetPosition(mgl32.Vec3{9, 9, 9})
	if got, _ := k.Interpolate(0); got.Position != (mgl32.Vec3{0, 5, 0}) {
		t.Errorf("expected removed reference to keep its last pose, got %v", got.Position)
	}
	if !strings.Contains(buf.String(), "no longer resolves") {
		t.Errorf("expected a diagnostic for the lost reference, got %q", buf.String())
	}
}

func TestAppendRemoveDelete(t *testing.T) {
	k := NewKeyFrameInterpolator(WithLogger(quietLogger()))
	k.AppendKeyFrame(poseAt(0, 0, 0))
	k.AppendKeyFrame(poseAt(1, 0, 0))
	k.AppendKeyFrame(poseAt(2, 0, 0))

	if k.FirstTime() != 0 || k.LastTime() != 2 || k.Duration() != 2 {
		t.Errorf("expected times 0..2, got %f..%f", k.FirstTime(), k.LastTime())
	}
	if !k.RemoveKeyFrame(1) {
		t.Fatal("expected removal to succeed")
	}
	if k.RemoveKeyFrame(5) {
		t.Error("expected out of range removal to fail")
	}
	kfs := k.KeyFrames()
	if len(kfs) != 2 || kfs[1].Time != 2 {
		t.Errorf("expected keyframes at 0 and 2, got %+v", kfs)
	}

	k.DeletePath()
	if k.NumberOfKeyFrames() != 0 {
		t.Errorf("expected empty path, got %d keyframes", k.NumberOfKeyFrames())
	}
	if len(k.Path()) != 0 {
		t.Error("expected empty preview path")
	}
}
