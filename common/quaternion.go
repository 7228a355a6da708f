package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const quatEpsilon = 1e-6

// QuatLog returns the logarithm of a unit quaternion as a pure quaternion (W == 0).
//
// Parameters:
//   - q: the unit quaternion
//
// Returns:
//   - mgl32.Quat: the logarithm
func QuatLog(q mgl32.Quat) mgl32.Quat {
	l := q.V.Len()
	if l < quatEpsilon {
		return mgl32.Quat{W: 0, V: q.V}
	}
	angle := float32(math.Acos(float64(mgl32.Clamp(q.W, -1, 1))))
	return mgl32.Quat{W: 0, V: q.V.Mul(angle / l)}
}

// QuatExp returns the exponential of a pure quaternion. It is the inverse of QuatLog.
//
// Parameters:
//   - q: the quaternion whose vector part is exponentiated
//
// Returns:
//   - mgl32.Quat: the unit quaternion
func QuatExp(q mgl32.Quat) mgl32.Quat {
	theta := float64(q.V.Len())
	if theta < quatEpsilon {
		return mgl32.Quat{W: float32(math.Cos(theta)), V: q.V}
	}
	s := float32(math.Sin(theta) / theta)
	return mgl32.Quat{W: float32(math.Cos(theta)), V: q.V.Mul(s)}
}

// QuatLnDif returns log(a⁻¹ · b), the rotation taking a onto b expressed in the tangent space of a.
//
// Parameters:
//   - a: the origin rotation
//   - b: the target rotation
//
// Returns:
//   - mgl32.Quat: the pure logarithmic difference
func QuatLnDif(a, b mgl32.Quat) mgl32.Quat {
	dif := a.Inverse().Mul(b)
	if dif.Len() == 0 {
		return mgl32.Quat{}
	}
	return QuatLog(dif.Normalize())
}

// SquadTangent returns the inner control quaternion used by Squad at center, given its neighbours.
// The three quaternions are expected to lie in the same hemisphere (see ShortestArc).
//
// Parameters:
//   - before: the previous key orientation
//   - center: the key orientation the tangent is computed for
//   - after: the next key orientation
//
// Returns:
//   - mgl32.Quat: the tangent control quaternion
func SquadTangent(before, center, after mgl32.Quat) mgl32.Quat {
	l1 := QuatLnDif(center, before)
	l2 := QuatLnDif(center, after)
	e := mgl32.Quat{W: 0, V: l1.V.Add(l2.V).Mul(-0.25)}
	return center.Mul(QuatExp(e))
}

// SlerpNoFlip spherically interpolates from a to b without negating b when the two lie in opposite
// hemispheres. Close orientations fall back to a normalized linear blend.
//
// Parameters:
//   - a: the start rotation (t == 0)
//   - b: the end rotation (t == 1)
//   - t: the interpolation parameter
//
// Returns:
//   - mgl32.Quat: the interpolated rotation
func SlerpNoFlip(a, b mgl32.Quat, t float32) mgl32.Quat {
	cosAngle := float64(mgl32.Clamp(a.Dot(b), -1, 1))
	var c1, c2 float64
	if 1-math.Abs(cosAngle) < 0.01 {
		c1 = 1 - float64(t)
		c2 = float64(t)
	} else {
		angle := math.Acos(cosAngle)
		sinAngle := math.Sin(angle)
		c1 = math.Sin(angle*(1-float64(t))) / sinAngle
		c2 = math.Sin(angle*float64(t)) / sinAngle
	}
	out := a.Scale(float32(c1)).Add(b.Scale(float32(c2)))
	if out.Len() == 0 {
		return a
	}
	return out.Normalize()
}

// Squad performs spherical quadrangle interpolation between a and b using the control quaternions
// produced by SquadTangent. The curve passes through a at t == 0 and b at t == 1.
//
// Parameters:
//   - a: the start rotation
//   - tgA: the tangent control of a
//   - tgB: the tangent control of b
//   - b: the end rotation
//   - t: the interpolation parameter in [0, 1]
//
// Returns:
//   - mgl32.Quat: the interpolated rotation
func Squad(a, tgA, tgB, b mgl32.Quat, t float32) mgl32.Quat {
	ab := SlerpNoFlip(a, b, t)
	tg := SlerpNoFlip(tgA, tgB, t)
	return SlerpNoFlip(ab, tg, 2*t*(1-t))
}

// ShortestArc returns q or -q, whichever lies in the same hemisphere as prev.
//
// Parameters:
//   - prev: the reference rotation
//   - q: the rotation to align
//
// Returns:
//   - mgl32.Quat: q, possibly negated
func ShortestArc(prev, q mgl32.Quat) mgl32.Quat {
	if prev.Dot(q) < 0 {
		return q.Scale(-1)
	}
	return q
}

// SameRotation reports whether a and b describe the same rotation within tolerance, treating q and -q as equal.
//
// Parameters:
//   - a: the first rotation
//   - b: the second rotation
//   - tolerance: the allowed deviation of |a·b| from 1
//
// Returns:
//   - bool: true if the rotations match
func SameRotation(a, b mgl32.Quat, tolerance float32) bool {
	d := a.Normalize().Dot(b.Normalize())
	return 1-abs32(d) <= tolerance
}

// ZAngle returns the rotation of q about the Z axis in radians, ignoring any other component.
//
// Parameters:
//   - q: the rotation
//
// Returns:
//   - float32: the Z angle
func ZAngle(q mgl32.Quat) float32 {
	return 2 * float32(math.Atan2(float64(q.V[2]), float64(q.W)))
}
