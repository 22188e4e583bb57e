package engine

import "math"

// Point is a 2D point in user or device space.
type Point struct {
	X, Y float64
}

// Matrix is a 2D affine transformation in row-major 2x3 form:
//
//	x' = A*x + B*y + C
//	y' = D*x + E*y + F
type Matrix struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the identity transformation.
func Identity() Matrix {
	return Matrix{A: 1, E: 1}
}

// TranslateMatrix returns a translation.
func TranslateMatrix(x, y float64) Matrix {
	return Matrix{A: 1, C: x, E: 1, F: y}
}

// ScaleMatrix returns a scale about the origin.
func ScaleMatrix(x, y float64) Matrix {
	return Matrix{A: x, E: y}
}

// RotateMatrix returns a rotation about the origin (angle in radians).
func RotateMatrix(angle float64) Matrix {
	sin, cos := math.Sincos(angle)
	return Matrix{
		A: cos, B: -sin,
		D: sin, E: cos,
	}
}

// Multiply returns m * other, so other is applied first.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.B*other.D,
		B: m.A*other.B + m.B*other.E,
		C: m.A*other.C + m.B*other.F + m.C,
		D: m.D*other.A + m.E*other.D,
		E: m.D*other.B + m.E*other.E,
		F: m.D*other.C + m.E*other.F + m.F,
	}
}

// Apply maps a point.
func (m Matrix) Apply(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

// Invert returns the inverse and whether one exists.
func (m Matrix) Invert() (Matrix, bool) {
	det := m.A*m.E - m.B*m.D
	if math.Abs(det) < 1e-12 || math.IsNaN(det) {
		return Identity(), false
	}

	inv := 1.0 / det
	r := Matrix{
		A: m.E * inv,
		B: -m.B * inv,
		C: (m.B*m.F - m.C*m.E) * inv,
		D: -m.D * inv,
		E: m.A * inv,
		F: (m.C*m.D - m.A*m.F) * inv,
	}
	if !r.finite() {
		return Identity(), false
	}
	return r, true
}

func (m Matrix) finite() bool {
	return finite(m.A, m.B, m.C, m.D, m.E, m.F)
}

// IsIdentity reports whether m is exactly the identity.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}
