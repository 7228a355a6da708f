package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Invert4 computes the inverse of a 4x4 column-major matrix using the Laplace
// expansion (cofactor) method. If the matrix is singular (determinant == 0) the
// returned matrix is the zero matrix and the function returns false.
//
// Parameters:
//   - m: source matrix (column-major)
//
// Returns:
//   - mgl32.Mat4: the inverse matrix
//   - bool: true if the matrix was successfully inverted, false if singular
func Invert4(m mgl32.Mat4) (mgl32.Mat4, bool) {
	var out mgl32.Mat4

	// 2x2 sub-determinants of the upper-left and lower-right quadrants.
	s0 := m[0]*m[5] - m[4]*m[1]
	s1 := m[0]*m[6] - m[4]*m[2]
	s2 := m[0]*m[7] - m[4]*m[3]
	s3 := m[1]*m[6] - m[5]*m[2]
	s4 := m[1]*m[7] - m[5]*m[3]
	s5 := m[2]*m[7] - m[6]*m[3]

	c5 := m[10]*m[15] - m[14]*m[11]
	c4 := m[9]*m[15] - m[13]*m[11]
	c3 := m[9]*m[14] - m[13]*m[10]
	c2 := m[8]*m[15] - m[12]*m[11]
	c1 := m[8]*m[14] - m[12]*m[10]
	c0 := m[8]*m[13] - m[12]*m[9]

	det := s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
	if det == 0 || math.IsNaN(float64(det)) || math.IsInf(float64(det), 0) {
		return out, false
	}

	invDet := 1.0 / det

	out[0] = (m[5]*c5 - m[6]*c4 + m[7]*c3) * invDet
	out[1] = (-m[1]*c5 + m[2]*c4 - m[3]*c3) * invDet
	out[2] = (m[13]*s5 - m[14]*s4 + m[15]*s3) * invDet
	out[3] = (-m[9]*s5 + m[10]*s4 - m[11]*s3) * invDet

	out[4] = (-m[4]*c5 + m[6]*c2 - m[7]*c1) * invDet
	out[5] = (m[0]*c5 - m[2]*c2 + m[3]*c1) * invDet
	out[6] = (-m[12]*s5 + m[14]*s2 - m[15]*s1) * invDet
	out[7] = (m[8]*s5 - m[10]*s2 + m[11]*s1) * invDet

	out[8] = (m[4]*c4 - m[5]*c2 + m[7]*c0) * invDet
	out[9] = (-m[0]*c4 + m[1]*c2 - m[3]*c0) * invDet
	out[10] = (m[12]*s4 - m[13]*s2 + m[15]*s0) * invDet
	out[11] = (-m[8]*s4 + m[9]*s2 - m[11]*s0) * invDet

	out[12] = (-m[4]*c3 + m[5]*c1 - m[6]*c0) * invDet
	out[13] = (m[0]*c3 - m[1]*c1 + m[2]*c0) * invDet
	out[14] = (-m[12]*s3 + m[13]*s1 - m[14]*s0) * invDet
	out[15] = (m[8]*s3 - m[9]*s1 + m[10]*s0) * invDet

	return out, true
}

// TransformPoint multiplies the homogeneous point (p, 1) by m.
//
// Parameters:
//   - m: the transform (column-major)
//   - p: the point
//
// Returns:
//   - mgl32.Vec4: the transformed homogeneous point, not divided by w
func TransformPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec4 {
	return m.Mul4x1(p.Vec4(1))
}

// SafeNormalize returns v scaled to unit length, or false if v has (near) zero length.
//
// Parameters:
//   - v: the vector to normalize
//
// Returns:
//   - mgl32.Vec3: the unit vector, or v unchanged on failure
//   - bool: true if v could be normalized
func SafeNormalize(v mgl32.Vec3) (mgl32.Vec3, bool) {
	l := v.Len()
	if l < 1e-10 || math.IsNaN(float64(l)) {
		return v, false
	}
	return v.Mul(1 / l), true
}

// Orthogonal returns a unit vector orthogonal to v. The result is stable for any non-zero v.
//
// Parameters:
//   - v: the reference vector
//
// Returns:
//   - mgl32.Vec3: a unit vector perpendicular to v
func Orthogonal(v mgl32.Vec3) mgl32.Vec3 {
	ax, ay, az := abs32(v[0]), abs32(v[1]), abs32(v[2])
	var o mgl32.Vec3
	switch {
	case ax <= ay && ax <= az:
		o = mgl32.Vec3{0, -v[2], v[1]}
	case ay <= az:
		o = mgl32.Vec3{-v[2], 0, v[0]}
	default:
		o = mgl32.Vec3{-v[1], v[0], 0}
	}
	if n, ok := SafeNormalize(o); ok {
		return n
	}
	return mgl32.Vec3{1, 0, 0}
}

// Lerp linearly interpolates between a and b.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

func abs32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
