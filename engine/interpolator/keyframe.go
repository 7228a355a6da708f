package interpolator

import (
	"github.com/Carmen-Shannon/oxy-view/engine/frame"
	"github.com/go-gl/mathgl/mgl32"
)

// KeyFrame is the plain-data view of a recorded keyframe, suitable for persistence by the caller.
type KeyFrame struct {
	// Time is the keyframe time in seconds. Times are strictly increasing along a path.
	Time float64
	// Pose is the world pose of the keyframe. For live keyframes it is the most recently sampled pose.
	Pose frame.Pose
	// Live reports whether the keyframe follows a frame registered in a frame.Table.
	Live bool
}

// keyFrame is the internal record: the sampled pose plus the tangents derived from its neighbours.
type keyFrame struct {
	time float64
	pose frame.Pose

	table   frame.Table
	handle  frame.Handle
	seen    uint64
	missing bool

	// quat is the orientation after the shortest-arc pass; it may be the negation of pose.Orientation.
	quat mgl32.Quat

	tgPosition  mgl32.Vec3
	tgMagnitude mgl32.Vec3
	tgQuat      mgl32.Quat
}

func (k *keyFrame) live() bool {
	return k.table != nil
}

func (k *keyFrame) view() KeyFrame {
	return KeyFrame{Time: k.time, Pose: k.pose, Live: k.live()}
}

// refresh re-samples a live keyframe from its table.
//
// Returns:
//   - changed: true if the source frame moved since the last sample
//   - lost: true if the handle stopped resolving on this call
func (k *keyFrame) refresh() (changed, lost bool) {
	if !k.live() {
		return false, false
	}
	f, ok := k.table.Lookup(k.handle)
	if !ok {
		lost = !k.missing
		k.missing = true
		return false, lost
	}
	k.missing = false
	g := f.WorldGeneration()
	if g == k.seen {
		return false, false
	}
	k.seen = g
	k.pose = f.WorldPose()
	return true, false
}
