// Package impulse implements Newton-restitution impulse
// resolution over a time-ordered list of 2D vertex-edge impacts, updating
// the linear and angular velocities of both bodies while honoring per-DoF
// fixity.
package impulse

import (
	"math"

	"github.com/pkg/errors"

	"github.com/alecjacobson/rigid-ipc/assembly"
	"github.com/alecjacobson/rigid-ipc/ccd"
	"github.com/alecjacobson/rigid-ipc/numeric"
	"github.com/alecjacobson/rigid-ipc/pose"
	"github.com/alecjacobson/rigid-ipc/rberrors"
	"github.com/alecjacobson/rigid-ipc/rigidbody"
)

type vec2 = numeric.Vec2[numeric.F64]

func toVec2(x, y float64) vec2 { return vec2{X: numeric.F64(x), Y: numeric.F64(y)} }

// contactNormal computes the unit edge normal at the time of impact:
// rotate90ccw of the world edge direction under the pose linearly
// interpolated to toi. For unoriented bodies it is flipped to point from the
// edge toward the query vertex; oriented bodies keep the winding normal.
func contactNormal(bodyB *rigidbody.Body, localEdge int, toi float64, vertexWorld vec2) (vec2, error) {
	pB := pose.Lerp(bodyB.PosePrev, bodyB.Pose, toi)
	w := bodyB.WorldVerticesAt(pB)
	e := bodyB.E[localEdge]
	e0 := toVec2(w[e[0]][0], w[e[0]][1])
	e1 := toVec2(w[e[1]][0], w[e[1]][1])

	n := numeric.Rotate90CCW(e1.Sub(e0))
	length, err := numeric.Norm2(n)
	if err != nil || length.Float() == 0 {
		return vec2{}, errors.Wrapf(rberrors.ErrDegenerateTopology, "zero-length edge %d at toi %v", localEdge, toi)
	}
	inv := numeric.F64(1 / length.Float())
	n = n.MulScalar(inv)

	if !bodyB.Oriented {
		mid := e0.Add(e1).MulScalar(numeric.F64(0.5))
		if numeric.Dot2(n, vertexWorld.Sub(mid)).Float() < 0 {
			n = n.Neg()
		}
	}
	return n, nil
}

// preImpactState interpolates a body's centroid velocity to the moment of
// impact and evaluates the rotated contact arm r_perp = dR/dtheta * r at the
// interpolated angle. Fixed DoFs carry no motion, so their velocity
// components are zero here regardless of the stored value.
func preImpactState(b *rigidbody.Body, rLocal vec2, toi float64) (vel vec2, omega float64, rPerp vec2) {
	theta := b.PosePrev.Rotation[0] + toi*(b.Pose.Rotation[0]-b.PosePrev.Rotation[0])
	rPerp = pose.RotationMatrixGradient2(theta).MulVec(rLocal)

	var v [2]float64
	for d := 0; d < 2; d++ {
		if !b.Fixed[d] {
			v[d] = b.VelocityPrev.Position[d] + toi*(b.Velocity.Position[d]-b.VelocityPrev.Position[d])
		}
	}
	vel = toVec2(v[0], v[1])
	if !b.Fixed[2] {
		omega = b.VelocityPrev.Rotation[0] + toi*(b.Velocity.Rotation[0]-b.VelocityPrev.Rotation[0])
	}
	return vel, omega, rPerp
}

// inverseMasses returns the per-DoF inverse masses of a 2D body with fixed
// DoFs zeroed: (1/m_x, 1/m_y, 1/I).
func inverseMasses(b *rigidbody.Body) (invM [2]float64, invI float64) {
	for d := 0; d < 2; d++ {
		if !b.Fixed[d] {
			invM[d] = 1 / b.Mass
		}
	}
	if !b.Fixed[2] {
		invI = 1 / b.Inertia[0]
	}
	return invM, invI
}

// Resolve applies Newton-restitution impulses for each impact in
// non-decreasing time order. The impacts slice must already be sorted by
// Time (ccd.ParallelQuery guarantees this); restitution is e in [0, 1].
// 2D only.
func Resolve(asm *assembly.Assembler, impacts []ccd.Impact, restitution float64) error {
	if asm.Dim() != 2 {
		return errors.Wrap(rberrors.ErrNotImplemented, "impulse resolution outside 2D")
	}

	for _, imp := range impacts {
		ai, vi := asm.LocalVertex(imp.Vertex)
		bi, ei := asm.LocalEdge(imp.EdgeOrFace)
		bodyA, bodyB := asm.Body(ai), asm.Body(bi)

		rA := toVec2(bodyA.V[vi][0], bodyA.V[vi][1])
		e := bodyB.E[ei]
		oneMinus := 1 - imp.Alpha
		rB := toVec2(
			oneMinus*bodyB.V[e[0]][0]+imp.Alpha*bodyB.V[e[1]][0],
			oneMinus*bodyB.V[e[0]][1]+imp.Alpha*bodyB.V[e[1]][1],
		)

		velA, omegaA, rAPerp := preImpactState(bodyA, rA, imp.Time)
		velB, omegaB, rBPerp := preImpactState(bodyB, rB, imp.Time)

		pA := pose.Lerp(bodyA.PosePrev, bodyA.Pose, imp.Time)
		wA := bodyA.WorldVerticesAt(pA)
		vertexWorld := toVec2(wA[vi][0], wA[vi][1])

		n, err := contactNormal(bodyB, ei, imp.Time, vertexWorld)
		if err != nil {
			return err
		}

		// Contact-point velocities at the moment of impact.
		contactA := velA.Add(rAPerp.MulScalar(numeric.F64(omegaA)))
		contactB := velB.Add(rBPerp.MulScalar(numeric.F64(omegaB)))
		vRel := numeric.Dot2(contactA.Sub(contactB), n).Float()
		if vRel >= 0 {
			continue // separating
		}

		invMA, invIA := inverseMasses(bodyA)
		invMB, invIB := inverseMasses(bodyB)

		nArr := [2]float64{n.X.Float(), n.Y.Float()}
		nDotRA := numeric.Dot2(n, rAPerp).Float()
		nDotRB := numeric.Dot2(n, rBPerp).Float()

		K := invIA*nDotRA*nDotRA + invIB*nDotRB*nDotRB
		for d := 0; d < 2; d++ {
			K += nArr[d] * nArr[d] * (invMA[d] + invMB[d])
		}
		if K == 0 || math.IsNaN(K) {
			continue // both bodies fully fixed along the normal
		}

		j := -(1 + restitution) * vRel / K

		velAArr := [2]float64{velA.X.Float(), velA.Y.Float()}
		velBArr := [2]float64{velB.X.Float(), velB.Y.Float()}
		for d := 0; d < 2; d++ {
			if !bodyA.Fixed[d] {
				bodyA.Velocity.Position[d] = velAArr[d] + invMA[d]*j*nArr[d]
			}
			if !bodyB.Fixed[d] {
				bodyB.Velocity.Position[d] = velBArr[d] - invMB[d]*j*nArr[d]
			}
		}
		if !bodyA.Fixed[2] {
			bodyA.Velocity.Rotation[0] = omegaA + invIA*j*nDotRA
		}
		if !bodyB.Fixed[2] {
			bodyB.Velocity.Rotation[0] = omegaB - invIB*j*nDotRB
		}
	}
	return nil
}
