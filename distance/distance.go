// Package distance provides signed and unsigned
// point/line/plane/triangle distances, generic over the evaluation scalar so
// the same formulas serve concrete double queries, the root finder's interval
// closures, and the autodiff agreement tests.
package distance

import (
	"github.com/alecjacobson/rigid-ipc/numeric"
)

// PointPointDistance2 returns the Euclidean distance between two 2D points.
func PointPointDistance2[T numeric.Scalar[T]](p, q numeric.Vec2[T]) (T, error) {
	return numeric.Norm2(p.Sub(q))
}

// PointPointDistance3 returns the Euclidean distance between two 3D points.
func PointPointDistance3[T numeric.Scalar[T]](p, q numeric.Vec3[T]) (T, error) {
	return numeric.Norm3(p.Sub(q))
}

// clamp01 clamps a scalar to [0, 1], comparing via the representative float
// (ordering predicates are only defined through Float on the scalar contract).
func clamp01[T numeric.Scalar[T]](t T) T {
	if t.Float() < 0 {
		return t.FromFloat(0)
	}
	if t.Float() > 1 {
		return t.FromFloat(1)
	}
	return t
}

// PointSegmentDistance2 returns the distance from p to the segment [a, b]
// via clamped projection.
func PointSegmentDistance2[T numeric.Scalar[T]](p, a, b numeric.Vec2[T]) (T, error) {
	ab := b.Sub(a)
	t, err := numeric.Dot2(p.Sub(a), ab).Div(numeric.SquaredNorm2(ab))
	if err != nil {
		// Degenerate segment: fall back to point-point.
		return PointPointDistance2(p, a)
	}
	closest := a.Add(ab.MulScalar(clamp01(t)))
	return numeric.Norm2(p.Sub(closest))
}

// PointSegmentDistance3 is the 3D analogue of PointSegmentDistance2.
func PointSegmentDistance3[T numeric.Scalar[T]](p, a, b numeric.Vec3[T]) (T, error) {
	ab := b.Sub(a)
	t, err := numeric.Dot3(p.Sub(a), ab).Div(numeric.SquaredNorm3(ab))
	if err != nil {
		return PointPointDistance3(p, a)
	}
	closest := a.Add(ab.MulScalar(clamp01(t)))
	return numeric.Norm3(p.Sub(closest))
}

// PointLineSignedDistance2 returns the signed distance from p to the
// infinite line through a and b. The sign follows the orientation of (b-a):
// for a flat reference line along +x, points above get positive sign.
func PointLineSignedDistance2[T numeric.Scalar[T]](p, a, b numeric.Vec2[T]) (T, error) {
	ab := b.Sub(a)
	n, err := numeric.Norm2(ab)
	if err != nil {
		return n, err
	}
	return numeric.Cross2(ab, p.Sub(a)).Div(n)
}

// TriangleNormal3 returns the (unnormalized) normal of the triangle (a, b, c):
// cross(b-a, c-a).
func TriangleNormal3[T numeric.Scalar[T]](a, b, c numeric.Vec3[T]) numeric.Vec3[T] {
	return numeric.Cross3(b.Sub(a), c.Sub(a))
}

// PointPlaneSignedDistance3 returns the signed distance from p to the plane
// through a with (unnormalized) normal n: (p-a) . n / ||n||.
func PointPlaneSignedDistance3[T numeric.Scalar[T]](p, a, n numeric.Vec3[T]) (T, error) {
	norm, err := numeric.Norm3(n)
	if err != nil {
		return norm, err
	}
	return numeric.Dot3(p.Sub(a), n).Div(norm)
}

// LineLineSignedDistance3 returns the signed distance between the infinite
// lines through (a0, a1) and (b0, b1): (b0-a0) . n / ||n|| with
// n = cross(a1-a0, b1-b0).
func LineLineSignedDistance3[T numeric.Scalar[T]](a0, a1, b0, b1 numeric.Vec3[T]) (T, error) {
	n := numeric.Cross3(a1.Sub(a0), b1.Sub(b0))
	norm, err := numeric.Norm3(n)
	if err != nil {
		return norm, err
	}
	return numeric.Dot3(b0.Sub(a0), n).Div(norm)
}

// PointTriangleDistance3 returns the distance from p to the closed triangle
// (a, b, c) via the classical 7-region closest-point test (vertex, edge and
// face regions). Region classification compares representative floats;
// values on region boundaries agree regardless of which branch is taken
// because the closest point itself is continuous across boundaries.
func PointTriangleDistance3[T numeric.Scalar[T]](p, a, b, c numeric.Vec3[T]) (T, error) {
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := p.Sub(a)

	d1 := numeric.Dot3(ab, ap)
	d2 := numeric.Dot3(ac, ap)
	if d1.Float() <= 0 && d2.Float() <= 0 {
		return PointPointDistance3(p, a) // vertex region A
	}

	bp := p.Sub(b)
	d3 := numeric.Dot3(ab, bp)
	d4 := numeric.Dot3(ac, bp)
	if d3.Float() >= 0 && d4.Float() <= d3.Float() {
		return PointPointDistance3(p, b) // vertex region B
	}

	vc := d1.Mul(d4).Sub(d3.Mul(d2))
	if vc.Float() <= 0 && d1.Float() >= 0 && d3.Float() <= 0 {
		return PointSegmentDistance3(p, a, b) // edge region AB
	}

	cp := p.Sub(c)
	d5 := numeric.Dot3(ab, cp)
	d6 := numeric.Dot3(ac, cp)
	if d6.Float() >= 0 && d5.Float() <= d6.Float() {
		return PointPointDistance3(p, c) // vertex region C
	}

	vb := d5.Mul(d2).Sub(d1.Mul(d6))
	if vb.Float() <= 0 && d2.Float() >= 0 && d6.Float() <= 0 {
		return PointSegmentDistance3(p, a, c) // edge region AC
	}

	va := d3.Mul(d6).Sub(d5.Mul(d4))
	if va.Float() <= 0 && d4.Float() >= d3.Float() && d5.Float() >= d6.Float() {
		return PointSegmentDistance3(p, b, c) // edge region BC
	}

	// Face region: distance to the supporting plane.
	n := TriangleNormal3(a, b, c)
	d, err := PointPlaneSignedDistance3(p, a, n)
	if err != nil {
		return d, err
	}
	if d.Float() < 0 {
		return d.Neg(), nil
	}
	return d, nil
}
