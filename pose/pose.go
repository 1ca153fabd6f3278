// Package pose provides the Pose type (position + rotation
// parameters), its additive DoF-vector algebra, and the rotation operator
// together with its analytic gradient and Hessian. Rotation-matrix
// construction is generic over numeric.Scalar so the same code evaluates
// under float64 and interval.Interval; the gradient and Hessian are
// float64-only, since the analytic Jacobian is the one production path and
// autodiff agreement is a test property, not a runtime branch.
package pose

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/alecjacobson/rigid-ipc/rberrors"
)

// Pose concatenates a position vector of length Dim with a rotation vector
// of length 1 (2D, a scalar angle) or 3 (3D, Euler angles applied as
// R = Rz(gamma) * Ry(beta) * Rx(alpha), Rotation = (alpha, beta, gamma)).
type Pose struct {
	Dim      int
	Position []float64
	Rotation []float64
}

// RotNdof returns the number of rotational degrees of freedom for a given
// spatial dimension.
func RotNdof(dim int) int {
	if dim == 2 {
		return 1
	}
	return 3
}

// New constructs a zero pose for the given dimension.
func New(dim int) Pose {
	return Pose{Dim: dim, Position: make([]float64, dim), Rotation: make([]float64, RotNdof(dim))}
}

// FromPositionRotation constructs a pose from explicit slices, validating
// their lengths against dim.
func FromPositionRotation(dim int, position, rotation []float64) (Pose, error) {
	if len(position) != dim || len(rotation) != RotNdof(dim) {
		return Pose{}, errors.Wrapf(rberrors.ErrInvalidGeometry,
			"pose dimension mismatch: dim=%d want position len %d got %d, want rotation len %d got %d",
			dim, dim, len(position), RotNdof(dim), len(rotation))
	}
	p := Pose{Dim: dim, Position: append([]float64(nil), position...), Rotation: append([]float64(nil), rotation...)}
	return p, nil
}

// Ndof returns the total number of degrees of freedom (position + rotation).
func (p Pose) Ndof() int { return p.Dim + len(p.Rotation) }

// Clone returns a deep copy. Pose assignment shares the underlying slices,
// so state pairs like (pose, pose_prev) that are mutated independently must
// be cloned, not assigned.
func (p Pose) Clone() Pose {
	return Pose{
		Dim:      p.Dim,
		Position: append([]float64(nil), p.Position...),
		Rotation: append([]float64(nil), p.Rotation...),
	}
}

// DoFVector concatenates position and rotation into a single vector, the
// representation the additive pose algebra acts on.
func (p Pose) DoFVector() []float64 {
	v := make([]float64, 0, p.Ndof())
	v = append(v, p.Position...)
	v = append(v, p.Rotation...)
	return v
}

// FromDoFVector is the inverse of DoFVector.
func FromDoFVector(dim int, v []float64) Pose {
	pos := append([]float64(nil), v[:dim]...)
	rot := append([]float64(nil), v[dim:]...)
	return Pose{Dim: dim, Position: pos, Rotation: rot}
}

func elementwise(a, b Pose, op func(x, y float64) float64) Pose {
	av, bv := a.DoFVector(), b.DoFVector()
	out := make([]float64, len(av))
	for i := range av {
		out[i] = op(av[i], bv[i])
	}
	return FromDoFVector(a.Dim, out)
}

// Add returns a + b, componentwise on the concatenated DoF vector.
func (a Pose) Add(b Pose) Pose { return elementwise(a, b, func(x, y float64) float64 { return x + y }) }

// Sub returns a - b, componentwise.
func (a Pose) Sub(b Pose) Pose { return elementwise(a, b, func(x, y float64) float64 { return x - y }) }

// MulScalar returns a * s, componentwise.
func (a Pose) MulScalar(s float64) Pose {
	av := a.DoFVector()
	out := make([]float64, len(av))
	for i := range av {
		out[i] = av[i] * s
	}
	return FromDoFVector(a.Dim, out)
}

// DivScalar returns a / s, componentwise.
func (a Pose) DivScalar(s float64) Pose { return a.MulScalar(1.0 / s) }

// Lerp linearly interpolates between p0 and p1: (p1 - p0) * t + p0. At t=0
// it returns p0; at t=1 it returns p1.
func Lerp(p0, p1 Pose, t float64) Pose {
	return p1.Sub(p0).MulScalar(t).Add(p0)
}

func (p Pose) String() string {
	return fmt.Sprintf("Pose{dim=%d pos=%v rot=%v}", p.Dim, p.Position, p.Rotation)
}
