package camera

import (
	"math"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/go-gl/mathgl/mgl32"
)

// looksAtPivot reports whether the eye's view direction points at its arcball reference point.
func looksAtPivot(v Viewport) bool {
	toPivot := v.ArcballReferencePoint().Sub(v.Position()).Normalize()
	return nearVec(toPivot, v.ViewDirection(), 1e-4)
}

func TestControllerDefaults(t *testing.T) {
	c := NewCamera(WithLogger(quietLogger()))
	ctrl := c.Controller()
	if !near(ctrl.Radius(), 2, 1e-5) {
		t.Errorf("expected radius 2, got %v", ctrl.Radius())
	}
	if ctrl.Azimuth() != 0 || ctrl.Elevation() != 0 {
		t.Errorf("expected azimuth and elevation 0, got %v and %v", ctrl.Azimuth(), ctrl.Elevation())
	}
	if ctrl.OrbitSpeed() != 0.03 || ctrl.ZoomSpeed() != 10 || ctrl.PanSpeed() != 1 || ctrl.MouseSensitivity() != 0.005 {
		t.Errorf("unexpected speeds %v %v %v %v", ctrl.OrbitSpeed(), ctrl.ZoomSpeed(), ctrl.PanSpeed(), ctrl.MouseSensitivity())
	}
}

func TestControllerOptions(t *testing.T) {
	c := NewCamera(WithLogger(quietLogger()), WithControllerOptions(
		WithOrbitSpeed(0.1),
		WithRadiusBounds(1, 3),
		WithElevationBounds(-0.2, 0.2),
		WithZoomSpeed(50),
		WithPanSpeed(2),
		WithMouseSensitivity(0.01),
	))
	ctrl := c.Controller()
	if ctrl.OrbitSpeed() != 0.1 || ctrl.MinRadius() != 1 || ctrl.MaxRadius() != 3 {
		t.Errorf("unexpected settings %v %v %v", ctrl.OrbitSpeed(), ctrl.MinRadius(), ctrl.MaxRadius())
	}
	if ctrl.MinElevation() != -0.2 || ctrl.MaxElevation() != 0.2 {
		t.Errorf("unexpected elevation bounds %v %v", ctrl.MinElevation(), ctrl.MaxElevation())
	}

	ctrl.Zoom(10)
	if !near(ctrl.Radius(), 1, 1e-5) {
		t.Errorf("expected zoom clamped to the minimum radius 1, got %v", ctrl.Radius())
	}
	for range 10 {
		ctrl.OrbitUp()
	}
	if !near(ctrl.Elevation(), 0.2, 1e-4) {
		t.Errorf("expected elevation clamped to 0.2, got %v", ctrl.Elevation())
	}
}

func TestControllerOrbit(t *testing.T) {
	c := NewCamera(WithLogger(quietLogger()))
	ctrl := c.Controller()

	ctrl.OrbitRight()
	if !near(ctrl.Azimuth(), 0.03, 1e-5) {
		t.Errorf("expected azimuth 0.03, got %v", ctrl.Azimuth())
	}
	if !near(ctrl.Radius(), 2, 1e-5) {
		t.Errorf("expected orbiting to keep the radius, got %v", ctrl.Radius())
	}
	if !looksAtPivot(c) {
		t.Error("expected the eye to keep looking at the pivot")
	}

	ctrl.OrbitLeft()
	ctrl.OrbitLeft()
	if !near(ctrl.Azimuth(), -0.03, 1e-5) {
		t.Errorf("expected azimuth -0.03, got %v", ctrl.Azimuth())
	}

	ctrl.OrbitUp()
	if !near(ctrl.Elevation(), 0.03, 1e-4) {
		t.Errorf("expected elevation 0.03, got %v", ctrl.Elevation())
	}
	for range 100 {
		ctrl.OrbitUp()
	}
	if want := float32(math.Pi/2 - 0.1); !near(ctrl.Elevation(), want, 1e-3) {
		t.Errorf("expected elevation clamped to %v, got %v", want, ctrl.Elevation())
	}
	if !looksAtPivot(c) {
		t.Error("expected the eye to keep looking at the pivot after tilting")
	}

	ctrl.OrbitDown()
	if want := float32(math.Pi/2 - 0.13); !near(ctrl.Elevation(), want, 1e-3) {
		t.Errorf("expected elevation %v, got %v", want, ctrl.Elevation())
	}
}

func TestControllerDrag(t *testing.T) {
	c := NewCamera(WithLogger(quietLogger()))
	ctrl := c.Controller()
	ctrl.OrbitDrag(10, 4)
	if !near(ctrl.Azimuth(), -0.05, 1e-5) {
		t.Errorf("expected azimuth -0.05, got %v", ctrl.Azimuth())
	}
	if !near(ctrl.Elevation(), 0.02, 1e-4) {
		t.Errorf("expected elevation 0.02, got %v", ctrl.Elevation())
	}
}

func TestControllerZoomAndRadius(t *testing.T) {
	c := NewCamera(WithLogger(quietLogger()))
	ctrl := c.Controller()

	ctrl.Zoom(1)
	if !near(ctrl.Radius(), 1.9, 1e-5) {
		t.Errorf("expected radius 1.9, got %v", ctrl.Radius())
	}
	if !nearVec(c.Position(), mgl32.Vec3{0, 0, 1.9}, 1e-5) {
		t.Errorf("expected the eye at (0,0,1.9), got %v", c.Position())
	}

	ctrl.SetRadius(0)
	if !near(ctrl.Radius(), 1e-3, 1e-5) {
		t.Errorf("expected the radius clamped to 1e-3, got %v", ctrl.Radius())
	}
	ctrl.SetRadius(5)
	if !nearVec(c.Position(), mgl32.Vec3{0, 0, 5}, 1e-4) {
		t.Errorf("expected the eye at (0,0,5), got %v", c.Position())
	}
}

func TestControllerPan(t *testing.T) {
	c := NewCamera(WithLogger(quietLogger()))
	ctrl := c.Controller()

	ctrl.PanRight(1)
	if !nearVec(c.Position(), mgl32.Vec3{0.01, 0, 2}, 1e-6) {
		t.Errorf("expected the eye at (0.01,0,2), got %v", c.Position())
	}
	if !nearVec(c.ArcballReferencePoint(), mgl32.Vec3{0.01, 0, 0}, 1e-6) {
		t.Errorf("expected the pivot to follow, got %v", c.ArcballReferencePoint())
	}

	ctrl.PanUp(-2)
	if !nearVec(c.Position(), mgl32.Vec3{0.01, -0.02, 2}, 1e-6) {
		t.Errorf("expected the eye at (0.01,-0.02,2), got %v", c.Position())
	}

	ctrl.PanForward(100)
	if !nearVec(c.Position(), mgl32.Vec3{0.01, -0.02, 1}, 1e-5) {
		t.Errorf("expected the eye at (0.01,-0.02,1), got %v", c.Position())
	}
	if !near(ctrl.Radius(), 2, 1e-5) {
		t.Errorf("expected panning to keep the radius, got %v", ctrl.Radius())
	}
}

func TestControllerOnWindow(t *testing.T) {
	logger, buf := bufferLogger()
	w := NewWindow(WithLogger(logger))
	ctrl := w.Controller()

	ctrl.Zoom(10)
	want := float32(0.005 * math.Exp(-1))
	if s := w.Scaling(); !near(s[0], want, 1e-7) || !near(s[1], want, 1e-7) {
		t.Errorf("expected scaling %v, got %v", want, s)
	}

	ctrl.OrbitRight()
	if !near(w.Rotation(), 0.03, 1e-5) {
		t.Errorf("expected rotation 0.03, got %v", w.Rotation())
	}

	ctrl.OrbitUp()
	ctrl.PanForward(1)
	for _, op := range []string{"OrbitUp", "PanForward"} {
		if !strings.Contains(buf.String(), op+" is only available on a Camera") {
			t.Errorf("expected a %s diagnostic, got %q", op, buf.String())
		}
	}

	before := w.Position()
	ctrl.PanRight(1)
	right := w.RightVector()
	if !nearVec(w.Position(), before.Add(right.Mul(0.01)), 1e-6) {
		t.Errorf("expected a pan along %v, got %v", right, w.Position())
	}
	if got := w.BallIsVisible(w.Position(), 0.1); got != common.Visible {
		t.Errorf("expected a small ball at the window center to be Visible, got %v", got)
	}
}
