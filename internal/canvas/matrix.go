package canvas

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Matrix is a 2x3 affine transform laid out as [A C E; B D F].
type Matrix struct {
	A, B, C, D, E, F float64
}

// Identity returns the identity transform.
func Identity() Matrix {
	return Matrix{A: 1, D: 1}
}

// Mul returns m ∘ u (apply u, then m).
func (m Matrix) Mul(u Matrix) Matrix {
	return Matrix{
		A: m.A*u.A + m.C*u.B,
		B: m.B*u.A + m.D*u.B,
		C: m.A*u.C + m.C*u.D,
		D: m.B*u.C + m.D*u.D,
		E: m.A*u.E + m.C*u.F + m.E,
		F: m.B*u.E + m.D*u.F + m.F,
	}
}

// Apply maps a point.
func (m Matrix) Apply(p r2.Vec) r2.Vec {
	return r2.Vec{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

// ApplyVector maps a direction, ignoring the translation.
func (m Matrix) ApplyVector(v r2.Vec) r2.Vec {
	return r2.Vec{X: m.A*v.X + m.C*v.Y, Y: m.B*v.X + m.D*v.Y}
}

// Translate prepends a translation in user space.
func (m Matrix) Translate(tx, ty float64) Matrix {
	return m.Mul(Matrix{A: 1, D: 1, E: tx, F: ty})
}

// Rotate prepends a counter-clockwise rotation by rad in user space.
func (m Matrix) Rotate(rad float64) Matrix {
	s, c := math.Sincos(rad)
	return m.Mul(Matrix{A: c, B: s, C: -s, D: c})
}

// Scale prepends a scale in user space.
func (m Matrix) Scale(sx, sy float64) Matrix {
	return m.Mul(Matrix{A: sx, D: sy})
}

// Det is the determinant of the linear part. Negative means mirrored.
func (m Matrix) Det() float64 {
	return m.A*m.D - m.B*m.C
}

// Invert returns the inverse transform. ok is false for singular matrices.
func (m Matrix) Invert() (inv Matrix, ok bool) {
	det := m.Det()
	if math.Abs(det) < 1e-12 {
		return Matrix{}, false
	}
	inv = Matrix{
		A: m.D / det,
		B: -m.B / det,
		C: -m.C / det,
		D: m.A / det,
	}
	inv.E = -(inv.A*m.E + inv.C*m.F)
	inv.F = -(inv.B*m.E + inv.D*m.F)
	return inv, true
}

// Origin is where the user-space origin lands in device space.
func (m Matrix) Origin() r2.Vec {
	return r2.Vec{X: m.E, Y: m.F}
}

// Heading is the device-space direction of the user +x axis, in radians.
func (m Matrix) Heading() float64 {
	return math.Atan2(m.B, m.A)
}
