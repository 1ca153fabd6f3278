package rigidbody

import (
	"github.com/pkg/errors"

	"github.com/alecjacobson/rigid-ipc/numeric"
	"github.com/alecjacobson/rigid-ipc/pose"
	"github.com/alecjacobson/rigid-ipc/rberrors"
)

// Step selects which stored pose a world-space query evaluates under.
type Step int

const (
	// PreviousStep evaluates under PosePrev (t = 0 of the current step).
	PreviousStep Step = iota
	// CurrentStep evaluates under Pose (t = 1 of the current step).
	CurrentStep
)

func (b *Body) poseFor(s Step) pose.Pose {
	if s == PreviousStep {
		return b.PosePrev
	}
	return b.Pose
}

// WorldVertices returns the |V| x dim world-space vertex matrix under the
// stored pose selected by s.
func (b *Body) WorldVertices(s Step) [][]float64 {
	return b.WorldVerticesAt(b.poseFor(s))
}

// WorldVerticesAt returns the |V| x dim world-space vertex matrix under an
// arbitrary supplied pose: R(rotation) * V[i] + position for each vertex.
func (b *Body) WorldVerticesAt(p pose.Pose) [][]float64 {
	out := make([][]float64, len(b.V))
	if b.Dim == 2 {
		position := [2]numeric.F64{numeric.F64(p.Position[0]), numeric.F64(p.Position[1])}
		theta := numeric.F64(p.Rotation[0])
		for i, v := range b.V {
			w := pose.WorldVertex2([2]float64{v[0], v[1]}, position, theta)
			out[i] = []float64{w.X.Float(), w.Y.Float()}
		}
		return out
	}
	position := [3]numeric.F64{numeric.F64(p.Position[0]), numeric.F64(p.Position[1]), numeric.F64(p.Position[2])}
	rotation := [3]numeric.F64{numeric.F64(p.Rotation[0]), numeric.F64(p.Rotation[1]), numeric.F64(p.Rotation[2])}
	for i, v := range b.V {
		w := pose.WorldVertex3([3]float64{v[0], v[1], v[2]}, position, rotation)
		out[i] = []float64{w.X.Float(), w.Y.Float(), w.Z.Float()}
	}
	return out
}

// WorldVerticesGradientExact returns the analytic Jacobian of the flattened
// world vertices (x0, x1, ..., y0, y1, ..., z0, ...) with respect to the pose
// DoFs, shape (|V|*dim) x ndof. Positional columns are selector matrices;
// rotational column i is flatten(V * dR/dtheta_i ^T).
func (b *Body) WorldVerticesGradientExact(p pose.Pose) [][]float64 {
	nV := len(b.V)
	rows := nV * b.Dim
	ndof := b.Ndof()
	J := make([][]float64, rows)
	for r := range J {
		J[r] = make([]float64, ndof)
	}

	// Positional columns: d(world v_i,d)/d(position_e) = delta(d, e).
	for d := 0; d < b.Dim; d++ {
		for i := 0; i < nV; i++ {
			J[d*nV+i][d] = 1
		}
	}

	if b.Dim == 2 {
		dR := pose.RotationMatrixGradient2(p.Rotation[0])
		for i, v := range b.V {
			dv := dR.MulVec(numeric.Vec2[numeric.F64]{X: numeric.F64(v[0]), Y: numeric.F64(v[1])})
			J[0*nV+i][2] = dv.X.Float()
			J[1*nV+i][2] = dv.Y.Float()
		}
		return J
	}

	grads := pose.RotationMatrixGradient3([3]float64{p.Rotation[0], p.Rotation[1], p.Rotation[2]})
	for k := 0; k < 3; k++ {
		for i, v := range b.V {
			dv := grads[k].MulVec(numeric.Vec3[numeric.F64]{
				X: numeric.F64(v[0]), Y: numeric.F64(v[1]), Z: numeric.F64(v[2]),
			})
			J[0*nV+i][3+k] = dv.X.Float()
			J[1*nV+i][3+k] = dv.Y.Float()
			J[2*nV+i][3+k] = dv.Z.Float()
		}
	}
	return J
}

// WorldVelocities returns the per-vertex world velocities under the current
// pose and velocity: R'(theta)*v*thetadot + pdot. 2D only; the 3D case fails
// with ErrNotImplemented.
func (b *Body) WorldVelocities() ([][]float64, error) {
	if b.Dim != 2 {
		return nil, errors.Wrap(rberrors.ErrNotImplemented, "world velocities in 3D")
	}
	dR := pose.RotationMatrixGradient2(b.Pose.Rotation[0])
	thetadot := numeric.F64(b.Velocity.Rotation[0])
	out := make([][]float64, len(b.V))
	for i, v := range b.V {
		rot := dR.MulVec(numeric.Vec2[numeric.F64]{X: numeric.F64(v[0]), Y: numeric.F64(v[1])}).MulScalar(thetadot)
		out[i] = []float64{
			rot.X.Float() + b.Velocity.Position[0],
			rot.Y.Float() + b.Velocity.Position[1],
		}
	}
	return out, nil
}
