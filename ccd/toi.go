package ccd

import (
	"github.com/pkg/errors"

	"github.com/alecjacobson/rigid-ipc/distance"
	"github.com/alecjacobson/rigid-ipc/interval"
	"github.com/alecjacobson/rigid-ipc/numeric"
	"github.com/alecjacobson/rigid-ipc/pose"
	"github.com/alecjacobson/rigid-ipc/rberrors"
	"github.com/alecjacobson/rigid-ipc/rigidbody"
)

// unit is the fixed parameter range [0, 1] both for time and for the edge
// parameter alpha.
var unit = interval.Interval{Lo: 0, Hi: 1}

// sweptVertex2 evaluates one body-local 2D vertex under the pose swept
// linearly from p0 to p1 over the time interval t.
func sweptVertex2(v []float64, p0, p1 pose.Pose, t interval.Interval) numeric.Vec2[interval.Interval] {
	position, theta := pose.Sweep2(p0, p1, t)
	return pose.WorldVertex2([2]float64{v[0], v[1]}, position, theta)
}

func sweptVertex3(v []float64, p0, p1 pose.Pose, t interval.Interval) numeric.Vec3[interval.Interval] {
	position, rotation := pose.Sweep3(p0, p1, t)
	return pose.WorldVertex3([3]float64{v[0], v[1], v[2]}, position, rotation)
}

// VertexEdgeTOI answers the 2D vertex-edge continuous-collision query:
// does vertex vi of bodyA, swept from poseA0 to poseA1, cross the line
// supporting edge ei of bodyB (swept from poseB0 to poseB1) at a parameter
// alpha inside [0, 1]? On impact, toi is the conservative lower bound of the
// accepted time sub-interval.
func VertexEdgeTOI(
	bodyA *rigidbody.Body, vi int, poseA0, poseA1 pose.Pose,
	bodyB *rigidbody.Body, ei int, poseB0, poseB1 pose.Pose,
	opts Options,
) (impacting bool, toi float64, err error) {
	if bodyA.Dim != 2 || bodyB.Dim != 2 {
		return false, 0, errors.Wrap(rberrors.ErrNotImplemented, "vertex-edge TOI outside 2D")
	}
	v := bodyA.V[vi]
	edge := bodyB.E[ei]
	e0, e1 := bodyB.V[edge[0]], bodyB.V[edge[1]]

	D := func(t interval.Interval) (interval.Interval, error) {
		p := sweptVertex2(v, poseA0, poseA1, t)
		a := sweptVertex2(e0, poseB0, poseB1, t)
		b := sweptVertex2(e1, poseB0, poseB1, t)
		return distance.PointLineSignedDistance2(p, a, b)
	}

	C := func(t interval.Interval) (bool, error) {
		p := sweptVertex2(v, poseA0, poseA1, t)
		a := sweptVertex2(e0, poseB0, poseB1, t)
		b := sweptVertex2(e1, poseB0, poseB1, t)
		ab := b.Sub(a)
		alpha, err := numeric.Dot2(p.Sub(a), ab).Div(numeric.SquaredNorm2(ab))
		if err != nil {
			return false, err
		}
		return interval.Overlap(alpha, unit), nil
	}

	return FindRoot(D, C, opts)
}

// VertexEdgeAlpha evaluates the edge parameter alpha of the contact point at
// a concrete time t (double evaluation), clamped to [0, 1] for the impulse
// stage.
func VertexEdgeAlpha(
	bodyA *rigidbody.Body, vi int, poseA0, poseA1 pose.Pose,
	bodyB *rigidbody.Body, ei int, poseB0, poseB1 pose.Pose,
	t float64,
) (float64, error) {
	edge := bodyB.E[ei]
	pA := pose.Lerp(poseA0, poseA1, t)
	pB := pose.Lerp(poseB0, poseB1, t)
	wA := bodyA.WorldVerticesAt(pA)
	wB := bodyB.WorldVerticesAt(pB)
	p := numeric.Vec2[numeric.F64]{X: numeric.F64(wA[vi][0]), Y: numeric.F64(wA[vi][1])}
	a := numeric.Vec2[numeric.F64]{X: numeric.F64(wB[edge[0]][0]), Y: numeric.F64(wB[edge[0]][1])}
	b := numeric.Vec2[numeric.F64]{X: numeric.F64(wB[edge[1]][0]), Y: numeric.F64(wB[edge[1]][1])}
	ab := b.Sub(a)
	alpha, err := numeric.Dot2(p.Sub(a), ab).Div(numeric.SquaredNorm2(ab))
	if err != nil {
		return 0, err
	}
	out := alpha.Float()
	if out < 0 {
		out = 0
	} else if out > 1 {
		out = 1
	}
	return out, nil
}

// VertexFaceTOI answers the 3D vertex-face query: does vertex vi of bodyA
// cross triangle fi of bodyB during the step? Containment holds when the
// three sub-triangle unit normals, obtained by replacing each face vertex
// with the query point in turn, are componentwise co-consistent (every pairwise
// componentwise intersection is non-empty), meaning the point can lie inside
// the triangle at that time.
func VertexFaceTOI(
	bodyA *rigidbody.Body, vi int, poseA0, poseA1 pose.Pose,
	bodyB *rigidbody.Body, fi int, poseB0, poseB1 pose.Pose,
	opts Options,
) (impacting bool, toi float64, err error) {
	if bodyA.Dim != 3 || bodyB.Dim != 3 {
		return false, 0, errors.Wrap(rberrors.ErrNotImplemented, "vertex-face TOI outside 3D")
	}
	v := bodyA.V[vi]
	face := bodyB.F[fi]
	f0, f1, f2 := bodyB.V[face[0]], bodyB.V[face[1]], bodyB.V[face[2]]

	D := func(t interval.Interval) (interval.Interval, error) {
		p := sweptVertex3(v, poseA0, poseA1, t)
		a := sweptVertex3(f0, poseB0, poseB1, t)
		b := sweptVertex3(f1, poseB0, poseB1, t)
		c := sweptVertex3(f2, poseB0, poseB1, t)
		return distance.PointPlaneSignedDistance3(p, a, distance.TriangleNormal3(a, b, c))
	}

	C := func(t interval.Interval) (bool, error) {
		p := sweptVertex3(v, poseA0, poseA1, t)
		a := sweptVertex3(f0, poseB0, poseB1, t)
		b := sweptVertex3(f1, poseB0, poseB1, t)
		c := sweptVertex3(f2, poseB0, poseB1, t)
		raw := [3]numeric.Vec3[interval.Interval]{
			distance.TriangleNormal3(p, b, c),
			distance.TriangleNormal3(a, p, c),
			distance.TriangleNormal3(a, b, p),
		}
		var normals [3]numeric.Vec3[interval.Interval]
		for k, n := range raw {
			length, err := numeric.Norm3(n)
			if err != nil {
				return false, err
			}
			inv, err := interval.FromPoint(1).Div(length)
			if err != nil {
				return false, err
			}
			normals[k] = n.MulScalar(inv)
		}
		for i := 0; i < 3; i++ {
			for j := i + 1; j < 3; j++ {
				if !interval.Overlap(normals[i].X, normals[j].X) ||
					!interval.Overlap(normals[i].Y, normals[j].Y) ||
					!interval.Overlap(normals[i].Z, normals[j].Z) {
					return false, nil
				}
			}
		}
		return true, nil
	}

	return FindRoot(D, C, opts)
}

// EdgeEdgeTOI is the 3D edge-edge query, admitted as unimplemented.
func EdgeEdgeTOI(
	bodyA *rigidbody.Body, ea int, poseA0, poseA1 pose.Pose,
	bodyB *rigidbody.Body, eb int, poseB0, poseB1 pose.Pose,
	opts Options,
) (bool, float64, error) {
	return false, 0, errors.Wrap(rberrors.ErrNotImplemented, "edge-edge 3D TOI")
}
