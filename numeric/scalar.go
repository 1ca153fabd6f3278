// Package numeric defines the generic scalar-capability contract shared by
// the concrete double, interval, and dual-number evaluation paths, plus the
// small Vec2/Vec3/Mat2/Mat3 algebra built on top of it, stored by columns.
package numeric

import (
	"math"

	"github.com/pkg/errors"

	"github.com/alecjacobson/rigid-ipc/rberrors"
)

// Scalar is the capability set the generic numeric code needs: +, -, *, /,
// sqrt, sin, cos, plus enough to recover a concrete float64 for logging and
// non-exact comparisons. float64 (via F64), interval.Interval, and Dual all
// implement it.
type Scalar[T any] interface {
	Add(T) T
	Sub(T) T
	Mul(T) T
	Neg() T
	Div(T) (T, error)
	Sqrt() (T, error)
	Sin() T
	Cos() T
	// Float returns a representative float64 (the value itself for F64 and
	// Dual, the midpoint for Interval), used for ordering heuristics and
	// diagnostics only, never for contract-relevant control flow.
	Float() float64
	// FromFloat lifts a literal float64 constant into the same scalar
	// path, so generic code can build things like the identity matrix
	// without an if/else on the concrete type.
	FromFloat(float64) T
}

// F64 is the concrete double-precision evaluation path.
type F64 float64

func (a F64) Add(b F64) F64 { return a + b }
func (a F64) Sub(b F64) F64 { return a - b }
func (a F64) Mul(b F64) F64 { return a * b }
func (a F64) Neg() F64      { return -a }

func (a F64) Div(b F64) (F64, error) {
	if b == 0 {
		return 0, errors.Wrap(rberrors.ErrBadArithmetic, "division by zero")
	}
	return a / b, nil
}

func (a F64) Sqrt() (F64, error) {
	if a < 0 {
		return 0, errors.Wrap(rberrors.ErrBadArithmetic, "sqrt of negative number")
	}
	return F64(math.Sqrt(float64(a))), nil
}

func (a F64) Sin() F64          { return F64(math.Sin(float64(a))) }
func (a F64) Cos() F64          { return F64(math.Cos(float64(a))) }
func (a F64) Float() float64    { return float64(a) }
func (a F64) FromFloat(x float64) F64 { return F64(x) }

// FromFloat64 lifts a plain float64 into the F64 scalar path. It exists so
// generic callers can be written without an if/else on the concrete type.
func FromFloat64(x float64) F64 { return F64(x) }
