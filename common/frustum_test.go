package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func testViewProjection() mgl32.Mat4 {
	proj := mgl32.Perspective(float32(math.Pi/3), 1.5, 0.1, 100)
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	return proj.Mul4(view)
}

func TestExtractFrustumFromMatrixNormals(t *testing.T) {
	planes := ExtractFrustumFromMatrix(testViewProjection())
	for i, p := range planes {
		if l := p.Normal.Len(); math.Abs(float64(l)-1) > 1e-4 {
			t.Errorf("plane %d: expected unit normal, got length %f", i, l)
		}
	}

	// The eye looks down -Z from z = 5, so the near plane faces -Z and sits at z = 4.9.
	near := planes[PlaneNear]
	if !near.Normal.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-4) {
		t.Errorf("expected near normal (0,0,-1), got %v", near.Normal)
	}
	if d := near.SignedDistance(mgl32.Vec3{0, 0, 4.9}); math.Abs(float64(d)) > 1e-3 {
		t.Errorf("expected near plane through z=4.9, got signed distance %f", d)
	}
}

func TestSphereVisibility(t *testing.T) {
	planes := ExtractFrustumFromMatrix(testViewProjection())

	tests := []struct {
		name   string
		center mgl32.Vec3
		radius float32
		want   Visibility
	}{
		{"inside", mgl32.Vec3{}, 1, Visible},
		{"far to the side", mgl32.Vec3{100, 0, 0}, 1, Invisible},
		{"behind the eye", mgl32.Vec3{0, 0, 10}, 1, Invisible},
		{"straddling near plane", mgl32.Vec3{0, 0, 4.9}, 0.05, SemiVisible},
		{"beyond far plane", mgl32.Vec3{0, 0, -200}, 1, Invisible},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SphereVisibility(planes[:], tt.center, tt.radius)
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestBoxVisibility(t *testing.T) {
	planes := ExtractFrustumFromMatrix(testViewProjection())

	if got := BoxVisibility(planes[:], mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1}); got != Visible {
		t.Errorf("expected unit box to be VISIBLE, got %s", got)
	}
	if got := BoxVisibility(planes[:], mgl32.Vec3{50, 50, -1}, mgl32.Vec3{51, 51, 1}); got != Invisible {
		t.Errorf("expected distant box to be INVISIBLE, got %s", got)
	}
	if got := BoxVisibility(planes[:], mgl32.Vec3{-100, -1, -1}, mgl32.Vec3{100, 1, 1}); got != SemiVisible {
		t.Errorf("expected wide box to be SEMIVISIBLE, got %s", got)
	}
}

func TestPointIsInside(t *testing.T) {
	planes := ExtractFrustumFromMatrix(testViewProjection())
	if !PointIsInside(planes[:], mgl32.Vec3{}) {
		t.Error("expected origin to be inside")
	}
	if PointIsInside(planes[:], mgl32.Vec3{0, 0, 6}) {
		t.Error("expected point behind the eye to be outside")
	}
}

func TestNewPlane(t *testing.T) {
	p := NewPlane(mgl32.Vec3{0, 2, 0}, mgl32.Vec3{0, 3, 0})
	if d := p.SignedDistance(mgl32.Vec3{0, 5, 0}); math.Abs(float64(d)-2) > 1e-6 {
		t.Errorf("expected signed distance 2, got %f", d)
	}
	if c := p.Coefficients(); c != [4]float32{0, 1, 0, -3} {
		t.Errorf("expected coefficients (0,1,0,-3), got %v", c)
	}
	if zero := NewPlane(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}); zero != (Plane{}) {
		t.Errorf("expected zero plane for zero normal, got %v", zero)
	}
}

func TestVisibilityString(t *testing.T) {
	if Invisible.String() != "INVISIBLE" || Visible.String() != "VISIBLE" || SemiVisible.String() != "SEMIVISIBLE" {
		t.Error("unexpected visibility names")
	}
}

func TestBoxCorners(t *testing.T) {
	corners := Box{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 2, 3}}.Corners()
	seen := make(map[mgl32.Vec3]bool)
	for _, c := range corners {
		seen[c] = true
	}
	if len(seen) != 8 {
		t.Errorf("expected 8 distinct corners, got %d", len(seen))
	}
	if corners[7] != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("expected last corner to be Max, got %v", corners[7])
	}
}
