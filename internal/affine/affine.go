// Package affine provides the 2D affine transforms used to place the tiled
// material fill under the user's scale and rotation.
package affine

import "math"

// Affine represents a 2D affine transformation matrix:
//
//	| a  b  c |
//	| d  e  f |
//	| 0  0  1 |
type Affine struct {
	a, b, c float64 // x' = ax + by + c
	d, e, f float64 // y' = dx + ey + f
}

// Identity returns the identity transformation.
func Identity() Affine {
	return Affine{a: 1, e: 1}
}

// Translate returns a translation by (tx, ty).
func Translate(tx, ty float64) Affine {
	return Affine{a: 1, c: tx, e: 1, f: ty}
}

// Scale returns a scaling by (sx, sy) around the origin.
func Scale(sx, sy float64) Affine {
	return Affine{a: sx, e: sy}
}

// Rotate returns a rotation by angle radians around the origin.
// With y pointing down, positive angles turn clockwise on screen.
func Rotate(angle float64) Affine {
	sin, cos := math.Sincos(angle)
	return Affine{a: cos, b: -sin, d: sin, e: cos}
}

// Multiply returns a * other: other is applied first, then a.
func (a Affine) Multiply(other Affine) Affine {
	return Affine{
		a: a.a*other.a + a.b*other.d,
		b: a.a*other.b + a.b*other.e,
		c: a.a*other.c + a.b*other.f + a.c,
		d: a.d*other.a + a.e*other.d,
		e: a.d*other.b + a.e*other.e,
		f: a.d*other.c + a.e*other.f + a.f,
	}
}

// Invert returns the inverse transformation.
// Returns false if the matrix is singular.
func (a Affine) Invert() (Affine, bool) {
	det := a.a*a.e - a.b*a.d
	if math.Abs(det) < 1e-10 {
		return Affine{}, false
	}
	inv := 1.0 / det
	return Affine{
		a: a.e * inv,
		b: -a.b * inv,
		c: (a.b*a.f - a.c*a.e) * inv,
		d: -a.d * inv,
		e: a.a * inv,
		f: (a.c*a.d - a.a*a.f) * inv,
	}, true
}

// Apply transforms point (x, y).
func (a Affine) Apply(x, y float64) (float64, float64) {
	return a.a*x + a.b*y + a.c, a.d*x + a.e*y + a.f
}

// About returns a uniform scale followed by a rotation, both around (cx, cy).
func About(cx, cy, scale, angle float64) Affine {
	return Translate(cx, cy).
		Multiply(Rotate(angle)).
		Multiply(Scale(scale, scale)).
		Multiply(Translate(-cx, -cy))
}
