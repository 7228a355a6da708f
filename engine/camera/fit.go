package camera

import (
	"math"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/frame"
	"github.com/go-gl/mathgl/mgl32"
)

func (v *viewportImpl) FitBall(center mgl32.Vec3, radius float32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.fitBall(center, radius)
}

func (v *viewportImpl) FitBoundingBox(min, max mgl32.Vec3) {
	v.mu.Lock()
	defer v.mu.Unlock()
	extent := max.Sub(min)
	diameter := float32(math.Max(math.Abs(float64(extent[0])), math.Max(math.Abs(float64(extent[1])), math.Abs(float64(extent[2])))))
	v.fitBall(min.Add(max).Mul(0.5), 0.5*diameter)
}

func (v *viewportImpl) FitScreenRegion(rect common.Rect) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if rect.Empty() {
		v.logger.Printf("[%s] FitScreenRegion: empty rectangle %+v ignored", v.variant.tag(), rect)
		return
	}
	if v.variant == Orthographic2D {
		v.fitScreenRegion2D(rect)
		return
	}
	v.fitScreenRegion3D(rect)
}

func (v *viewportImpl) ShowEntireScene() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.fitBall(v.sceneCenter, v.sceneRadius)
}

func (v *viewportImpl) CenterScene() {
	v.mu.Lock()
	defer v.mu.Unlock()
	pos := v.eye.WorldPosition()
	if v.variant == Orthographic2D {
		v.eye.SetWorldPosition(mgl32.Vec3{v.sceneCenter[0], v.sceneCenter[1], pos[2]})
		return
	}
	vd := v.viewDirection()
	c := v.sceneCenter
	v.eye.SetWorldPosition(c.Sub(vd.Mul(c.Sub(pos).Dot(vd))))
}

// fitBall moves the eye to frame the sphere.
// Caller must hold the mutex.
func (v *viewportImpl) fitBall(center mgl32.Vec3, radius float32) {
	pose, ok := v.fitBallPose(center, radius)
	if !ok {
		return
	}
	v.eye.SetWorldPose(pose)
}

// fitBallPose returns the eye world pose that frames the sphere, without applying it.
// Caller must hold the mutex.
func (v *viewportImpl) fitBallPose(center mgl32.Vec3, radius float32) (frame.Pose, bool) {
	pose := v.eye.WorldPose()
	if !(radius > 0) {
		v.logger.Printf("[%s] FitBall: radius %v must be positive, ignored", v.variant.tag(), radius)
		return pose, false
	}
	if v.variant == Orthographic2D {
		s := 2 * radius / float32(min(v.screenWidth, v.screenHeight))
		pose.Magnitude = mgl32.Vec3{s, s, 1}
		pose.Position = center
		return pose, true
	}
	vd := v.viewDirection()
	var distance float32
	if v.variant == Perspective3D {
		yview := radius / float32(math.Sin(float64(v.fov)/2))
		xview := radius / float32(math.Sin(float64(v.horizontalFieldOfView())/2))
		distance = max(xview, yview)
	} else {
		distance = center.Sub(v.eye.Pivot()).Dot(vd) + radius/v.orthoCoef
	}
	pose.Position = center.Sub(vd.Mul(distance))
	return pose, true
}

// fitScreenRegion3D moves the eye along the view direction so that rect fills the view. Pixels are
// mapped onto the plane through the scene center perpendicular to the view direction.
// Caller must hold the mutex.
func (v *viewportImpl) fitScreenRegion3D(rect common.Rect) {
	vd := v.viewDirection()
	onScenePlane := func(x, y float32) (mgl32.Vec3, bool) {
		origin, dir, ok := v.convertClickToLine(mgl32.Vec2{x, y})
		if !ok {
			return mgl32.Vec3{}, false
		}
		denom := dir.Dot(vd)
		if math.Abs(float64(denom)) < 1e-9 {
			return mgl32.Vec3{}, false
		}
		t := v.sceneCenter.Sub(origin).Dot(vd) / denom
		return origin.Add(dir.Mul(t)), true
	}

	cx, cy := rect.Center()[0], rect.Center()[1]
	newCenter, ok1 := onScenePlane(cx, cy)
	pointX, ok2 := onScenePlane(float32(rect.X), cy)
	pointY, ok3 := onScenePlane(cx, float32(rect.Y))
	if !ok1 || !ok2 || !ok3 {
		v.logger.Printf("[Camera] FitScreenRegion: region does not intersect the scene plane, ignored")
		return
	}

	var distance float32
	if v.variant == Perspective3D {
		distX := pointX.Sub(newCenter).Len() / float32(math.Sin(float64(v.horizontalFieldOfView())/2))
		distY := pointY.Sub(newCenter).Len() / float32(math.Sin(float64(v.fov)/2))
		distance = max(distX, distY)
	} else {
		aspect := v.aspectRatio()
		wScale, hScale := aspect, float32(1)
		if aspect < 1 {
			wScale, hScale = 1, 1/aspect
		}
		distX := pointX.Sub(newCenter).Len() / v.orthoCoef / wScale
		distY := pointY.Sub(newCenter).Len() / v.orthoCoef / hScale
		distance = newCenter.Sub(v.eye.Pivot()).Dot(vd) + max(distX, distY)
	}
	v.eye.SetWorldPosition(newCenter.Sub(vd.Mul(distance)))
}

// fitScreenRegion2D centers the window on rect and scales each axis so that rect fills the screen.
// Caller must hold the mutex.
func (v *viewportImpl) fitScreenRegion2D(rect common.Rect) {
	c := rect.Center()
	center, _, _ := v.convertClickToLine(c)
	m := v.eye.WorldMagnitude()
	v.setScaling(mgl32.Vec2{
		m[0] * float32(rect.Width) / float32(v.screenWidth),
		m[1] * float32(rect.Height) / float32(v.screenHeight),
	})
	pos := v.eye.WorldPosition()
	v.eye.SetWorldPosition(mgl32.Vec3{center[0], center[1], pos[2]})
}
