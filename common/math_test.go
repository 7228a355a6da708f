package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestInvert4(t *testing.T) {
	m := mgl32.Translate3D(1, -2, 3).
		Mul4(mgl32.HomogRotate3D(0.7, mgl32.Vec3{1, 1, 0}.Normalize())).
		Mul4(mgl32.Scale3D(2, 3, 0.5))

	inv, ok := Invert4(m)
	if !ok {
		t.Fatal("expected matrix to be invertible")
	}
	if !m.Mul4(inv).ApproxEqualThreshold(mgl32.Ident4(), 1e-4) {
		t.Errorf("expected m * inv to be identity, got %v", m.Mul4(inv))
	}
}

func TestInvert4Singular(t *testing.T) {
	if _, ok := Invert4(mgl32.Mat4{}); ok {
		t.Error("expected zero matrix to be reported singular")
	}
	if _, ok := Invert4(mgl32.Scale3D(1, 0, 1)); ok {
		t.Error("expected flattened matrix to be reported singular")
	}
}

func TestSafeNormalize(t *testing.T) {
	if _, ok := SafeNormalize(mgl32.Vec3{}); ok {
		t.Error("expected zero vector to fail normalization")
	}
	n, ok := SafeNormalize(mgl32.Vec3{0, 3, 4})
	if !ok || !n.ApproxEqualThreshold(mgl32.Vec3{0, 0.6, 0.8}, 1e-6) {
		t.Errorf("expected (0,0.6,0.8), got %v", n)
	}
}

func TestOrthogonal(t *testing.T) {
	for _, v := range []mgl32.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {1, 2, 3}, {-5, 0.1, 0}} {
		o := Orthogonal(v)
		if math.Abs(float64(o.Dot(v))) > 1e-5 {
			t.Errorf("expected %v to be orthogonal to %v", o, v)
		}
		if math.Abs(float64(o.Len())-1) > 1e-5 {
			t.Errorf("expected unit vector, got length %f", o.Len())
		}
	}
}

func TestCoalesce(t *testing.T) {
	if got := Coalesce(0, 0, 3, 4); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
	if got := Coalesce("", ""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
	fallback := new(int)
	var unset *int
	if got := Coalesce(unset, fallback); got != fallback {
		t.Error("expected a nil pointer to fall back to the configured one")
	}
}
