// Package interval implements directed-rounding closed real
// intervals with the arithmetic and transcendental operations the
// conservative root finder (package ccd) needs.
//
// Go exposes no rounding-mode control (unlike, say, a C++ build linked
// against MPFR or Boost.Interval), so every operation below computes with
// ordinary float64 arithmetic and widens the result outward by one ULP in
// each direction with math.Nextafter. The result is still a true enclosure,
// just not the tightest possible one.
package interval

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/alecjacobson/rigid-ipc/rberrors"
)

// Interval is a closed real interval [Lo, Hi]. The zero value is the
// degenerate interval {0, 0}.
type Interval struct {
	Lo, Hi float64
}

// FromPoint returns the degenerate interval containing exactly x.
func FromPoint(x float64) Interval { return Interval{Lo: x, Hi: x} }

// FromBounds validates and constructs an interval from explicit bounds.
func FromBounds(lo, hi float64) (Interval, error) {
	if math.IsNaN(lo) || math.IsNaN(hi) {
		return Interval{}, errors.Wrap(rberrors.ErrBadArithmetic, "NaN in interval bounds")
	}
	if lo > hi {
		return Interval{}, errors.Wrapf(rberrors.ErrBadArithmetic, "lo %v > hi %v", lo, hi)
	}
	return Interval{Lo: lo, Hi: hi}, nil
}

func (i Interval) String() string { return fmt.Sprintf("[%g, %g]", i.Lo, i.Hi) }

// widenDown returns the next representable float64 at or below x.
func widenDown(x float64) float64 {
	if math.IsInf(x, 0) {
		return x
	}
	return math.Nextafter(x, math.Inf(-1))
}

// widenUp returns the next representable float64 at or above x.
func widenUp(x float64) float64 {
	if math.IsInf(x, 0) {
		return x
	}
	return math.Nextafter(x, math.Inf(1))
}

func (i Interval) checkNaN() error {
	if math.IsNaN(i.Lo) || math.IsNaN(i.Hi) {
		return errors.Wrap(rberrors.ErrBadArithmetic, "NaN in interval")
	}
	return nil
}

// Add returns an interval guaranteed to contain x+y for every x in i, y in o.
func (i Interval) Add(o Interval) Interval {
	return Interval{Lo: widenDown(i.Lo + o.Lo), Hi: widenUp(i.Hi + o.Hi)}
}

// Sub returns an interval guaranteed to contain x-y for every x in i, y in o.
func (i Interval) Sub(o Interval) Interval {
	return Interval{Lo: widenDown(i.Lo - o.Hi), Hi: widenUp(i.Hi - o.Lo)}
}

// Neg negates the interval.
func (i Interval) Neg() Interval {
	return Interval{Lo: -i.Hi, Hi: -i.Lo}
}

// Mul returns an interval guaranteed to contain x*y for every x in i, y in o.
func (i Interval) Mul(o Interval) Interval {
	p1, p2, p3, p4 := i.Lo*o.Lo, i.Lo*o.Hi, i.Hi*o.Lo, i.Hi*o.Hi
	lo := math.Min(math.Min(p1, p2), math.Min(p3, p4))
	hi := math.Max(math.Max(p1, p2), math.Max(p3, p4))
	return Interval{Lo: widenDown(lo), Hi: widenUp(hi)}
}

// Div returns an interval guaranteed to contain x/y for every x in i, y in
// o, or ErrBadArithmetic if o contains zero.
func (i Interval) Div(o Interval) (Interval, error) {
	if o.ContainsZero() {
		return Interval{}, errors.Wrapf(rberrors.ErrBadArithmetic, "division by interval containing zero: %s", o)
	}
	q1, q2, q3, q4 := i.Lo/o.Lo, i.Lo/o.Hi, i.Hi/o.Lo, i.Hi/o.Hi
	lo := math.Min(math.Min(q1, q2), math.Min(q3, q4))
	hi := math.Max(math.Max(q1, q2), math.Max(q3, q4))
	return Interval{Lo: widenDown(lo), Hi: widenUp(hi)}, nil
}

// Sqrt returns an interval guaranteed to contain sqrt(x) for every x in i,
// or ErrBadArithmetic if i.Hi < 0.
func (i Interval) Sqrt() (Interval, error) {
	if i.Hi < 0 {
		return Interval{}, errors.Wrapf(rberrors.ErrBadArithmetic, "sqrt of interval with negative upper bound: %s", i)
	}
	lo := i.Lo
	if lo < 0 {
		lo = 0
	}
	return Interval{Lo: widenDown(math.Sqrt(lo)), Hi: widenUp(math.Sqrt(i.Hi))}, nil
}

// Sin returns an interval enclosure of sin(x) for every x in i. Because sin
// is not monotonic, the enclosure is built from the endpoints plus any
// interior extrema (odd multiples of pi/2), matching the classical
// interval-sine construction; the result is then widened by one ULP.
func (i Interval) Sin() Interval {
	if i.Hi-i.Lo >= 2*math.Pi {
		return Interval{Lo: -1, Hi: 1}
	}
	vals := []float64{math.Sin(i.Lo), math.Sin(i.Hi)}
	// Maxima of sin occur at pi/2 + 2k*pi; minima at -pi/2 + 2k*pi.
	for _, extremum := range []float64{math.Pi / 2, -math.Pi / 2} {
		k := math.Floor((i.Lo - extremum) / (2 * math.Pi))
		for x := extremum + k*2*math.Pi; x <= i.Hi+1e-12; x += 2 * math.Pi {
			if x >= i.Lo-1e-12 && x <= i.Hi+1e-12 {
				vals = append(vals, math.Sin(x))
			}
		}
	}
	lo, hi := vals[0], vals[0]
	for _, v := range vals {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return Interval{Lo: widenDown(lo), Hi: widenUp(hi)}
}

// Cos returns an interval enclosure of cos(x) for every x in i, reusing Sin
// via the phase shift cos(x) = sin(x + pi/2).
func (i Interval) Cos() Interval {
	shifted := Interval{Lo: widenDown(i.Lo + math.Pi/2), Hi: widenUp(i.Hi + math.Pi/2)}
	return shifted.Sin()
}

// Float returns the interval's midpoint.
func (i Interval) Float() float64 { return 0.5 * (i.Lo + i.Hi) }

// FromFloat lifts a literal float64 constant into a degenerate interval.
func (Interval) FromFloat(x float64) Interval { return FromPoint(x) }

// Width returns Hi - Lo.
func (i Interval) Width() float64 { return i.Hi - i.Lo }

// ContainsZero reports whether 0 lies within [Lo, Hi].
func (i Interval) ContainsZero() bool { return i.Lo <= 0 && 0 <= i.Hi }

// Contains reports whether the point x lies within [Lo, Hi]; used by tests
// checking that interval evaluation encloses the double evaluation.
func (i Interval) Contains(x float64) bool { return i.Lo <= x && x <= i.Hi }

// Overlap reports whether two intervals share at least one point.
func Overlap(a, b Interval) bool {
	return math.Max(a.Lo, b.Lo) <= math.Min(a.Hi, b.Hi)
}

// Intersect returns the overlap of a and b, or ErrBadArithmetic if they do
// not overlap.
func Intersect(a, b Interval) (Interval, error) {
	lo, hi := math.Max(a.Lo, b.Lo), math.Min(a.Hi, b.Hi)
	if lo > hi {
		return Interval{}, errors.Wrapf(rberrors.ErrBadArithmetic, "empty intersection of %s and %s", a, b)
	}
	return Interval{Lo: lo, Hi: hi}, nil
}

// Midpoint returns the interval's midpoint, same value as Float but named
// for call sites that bisect rather than merely report.
func (i Interval) Midpoint() float64 { return i.Float() }

// Bisect splits the interval at its midpoint into two halves covering the
// same range, used by the root finder.
func (i Interval) Bisect() (Interval, Interval) {
	mid := i.Midpoint()
	return Interval{Lo: i.Lo, Hi: mid}, Interval{Lo: mid, Hi: i.Hi}
}
