package numeric

import (
	"math"

	"github.com/pkg/errors"

	"github.com/alecjacobson/rigid-ipc/rberrors"
)

// Dual is a first-order forward-mode dual number a + b*eps with eps^2 = 0.
// It exists to verify the analytic world-vertex Jacobian: the production path
// is analytic, and the autodiff agreement check is a test property, not a
// runtime branch.
type Dual struct {
	Re, Eps float64
}

// Variable seeds a dual number for differentiation with respect to itself.
func Variable(x float64) Dual { return Dual{Re: x, Eps: 1} }

// Constant lifts a plain value with zero derivative.
func Constant(x float64) Dual { return Dual{Re: x} }

func (a Dual) Add(b Dual) Dual { return Dual{a.Re + b.Re, a.Eps + b.Eps} }
func (a Dual) Sub(b Dual) Dual { return Dual{a.Re - b.Re, a.Eps - b.Eps} }
func (a Dual) Neg() Dual       { return Dual{-a.Re, -a.Eps} }

func (a Dual) Mul(b Dual) Dual {
	return Dual{a.Re * b.Re, a.Re*b.Eps + a.Eps*b.Re}
}

func (a Dual) Div(b Dual) (Dual, error) {
	if b.Re == 0 {
		return Dual{}, errors.Wrap(rberrors.ErrBadArithmetic, "dual division by zero")
	}
	return Dual{a.Re / b.Re, (a.Eps*b.Re - a.Re*b.Eps) / (b.Re * b.Re)}, nil
}

func (a Dual) Sqrt() (Dual, error) {
	if a.Re < 0 {
		return Dual{}, errors.Wrap(rberrors.ErrBadArithmetic, "dual sqrt of negative number")
	}
	s := math.Sqrt(a.Re)
	if s == 0 {
		return Dual{Re: 0, Eps: math.Inf(1)}, nil
	}
	return Dual{s, a.Eps / (2 * s)}, nil
}

func (a Dual) Sin() Dual { return Dual{math.Sin(a.Re), a.Eps * math.Cos(a.Re)} }
func (a Dual) Cos() Dual { return Dual{math.Cos(a.Re), -a.Eps * math.Sin(a.Re)} }

func (a Dual) Float() float64         { return a.Re }
func (Dual) FromFloat(x float64) Dual { return Dual{Re: x} }
