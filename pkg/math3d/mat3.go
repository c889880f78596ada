package math3d

// Mat3 is a 3x3 matrix stored in column-major order.
type Mat3 struct {
	M [9]float64
}

// Mat3FromCols builds a matrix from three column vectors.
func Mat3FromCols(c0, c1, c2 Vec3) Mat3 {
	return Mat3{M: [9]float64{
		c0.X, c0.Y, c0.Z,
		c1.X, c1.Y, c1.Z,
		c2.X, c2.Y, c2.Z,
	}}
}

// Identity3 returns the identity matrix.
func Identity3() Mat3 {
	return Mat3{M: [9]float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}}
}

// MulVec3 multiplies the matrix by a vector.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{
		m.M[0]*v.X + m.M[3]*v.Y + m.M[6]*v.Z,
		m.M[1]*v.X + m.M[4]*v.Y + m.M[7]*v.Z,
		m.M[2]*v.X + m.M[5]*v.Y + m.M[8]*v.Z,
	}
}

// Transposed returns the transpose of the matrix.
func (m Mat3) Transposed() Mat3 {
	return Mat3{M: [9]float64{
		m.M[0], m.M[3], m.M[6],
		m.M[1], m.M[4], m.M[7],
		m.M[2], m.M[5], m.M[8],
	}}
}

// Det returns the determinant.
func (m Mat3) Det() float64 {
	a, d, g := m.M[0], m.M[3], m.M[6]
	b, e, h := m.M[1], m.M[4], m.M[7]
	c, f, i := m.M[2], m.M[5], m.M[8]
	return a*(e*i-f*h) - d*(b*i-c*h) + g*(b*f-c*e)
}

// Inverse returns the inverse of the matrix. The second return value is
// false when the matrix is singular, in which case the identity is returned.
func (m Mat3) Inverse() (Mat3, bool) {
	det := m.Det()
	if det == 0 {
		return Identity3(), false
	}
	inv := 1 / det

	a, d, g := m.M[0], m.M[3], m.M[6]
	b, e, h := m.M[1], m.M[4], m.M[7]
	c, f, i := m.M[2], m.M[5], m.M[8]

	// Adjugate over determinant, laid out column-major.
	return Mat3{M: [9]float64{
		(e*i - f*h) * inv,
		(c*h - b*i) * inv,
		(b*f - c*e) * inv,
		(f*g - d*i) * inv,
		(a*i - c*g) * inv,
		(c*d - a*f) * inv,
		(d*h - e*g) * inv,
		(b*g - a*h) * inv,
		(a*e - b*d) * inv,
	}}, true
}
