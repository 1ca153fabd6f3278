// Package ccd provides continuous collision detection: the conservative
// interval-arithmetic root finder over time-of-impact candidates in [0, 1],
// and the vertex-edge (2D) and vertex-face (3D) queries that assemble its
// distance and containment closures, plus the parallel map over candidate
// pairs.
package ccd

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/alecjacobson/rigid-ipc/interval"
	"github.com/alecjacobson/rigid-ipc/rberrors"
)

// DistanceFn evaluates an interval enclosure of the signed distance over an
// interval of times; zero exactly at contact.
type DistanceFn func(t interval.Interval) (interval.Interval, error)

// ContainmentFn evaluates the parametric containment witness over an
// interval of times (e.g. "alpha(t) overlaps [0, 1]").
type ContainmentFn func(t interval.Interval) (bool, error)

// Options is the caller-overridable tuning surface of the root finder.
// The zero value means "use defaults".
type Options struct {
	// TimeTol is the sub-interval width below which a candidate is accepted
	// as the answer. Defaults to 1e-6.
	TimeTol float64
	// DistTol accepts a candidate whose distance enclosure is narrower than
	// this. Defaults to ten ULPs at unit scale.
	DistTol float64
	// MaxDepth caps bisection depth; exceeding it returns the earliest
	// unresolved sub-interval's lower bound and logs a warning. Defaults
	// to 64.
	MaxDepth int
	// Logger receives the depth-cap warning. Defaults to a nop logger.
	Logger *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.TimeTol <= 0 {
		o.TimeTol = 1e-6
	}
	if o.DistTol <= 0 {
		// Ten ULPs at unit scale.
		o.DistTol = 10 * (math.Nextafter(1, 2) - 1)
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = 64
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// FindRoot locates the earliest t in [0, 1] where 0 is contained in D(t) and
// C(t) holds, to the configured tolerances. It returns impacting=false only
// when no such t exists; when impacting=true, toi is the lower bound of the
// accepted sub-interval, so no collision occurs for t < toi (conservative,
// false-positive-only).
//
// BadArithmetic raised by either closure is locally recoverable: the
// sub-interval is kept and bisected further. A distance closure that cannot
// even be evaluated on the degenerate interval [0, 0] surfaces
// DegenerateTopology; the containment closure is not probed there.
// Hitting the bisection depth cap returns the earliest unresolved
// sub-interval's lower bound together with ErrTolerancesExhausted.
func FindRoot(D DistanceFn, C ContainmentFn, opts Options) (impacting bool, toi float64, err error) {
	opts = opts.withDefaults()

	guard := interval.AcquireRoundingGuard()
	defer guard.Release()

	// Probe the step start: geometry degenerate at t = [0, 0] is not
	// recoverable by bisection.
	if _, probeErr := D(interval.FromPoint(0)); probeErr != nil && errors.Is(probeErr, rberrors.ErrBadArithmetic) {
		return false, 0, errors.Wrap(rberrors.ErrDegenerateTopology, "distance undefined at t = [0, 0]")
	}

	var stack candidateStack
	stack.Push(candidate{t: interval.Interval{Lo: 0, Hi: 1}})

	bisect := func(c candidate) error {
		if c.depth >= opts.MaxDepth || c.t.Width() == 0 {
			opts.Logger.Warn("bisection depth cap reached; returning conservative lower bound",
				zap.Float64("toi", c.t.Lo),
				zap.Int("depth", c.depth),
			)
			return errors.Wrapf(rberrors.ErrTolerancesExhausted, "depth %d at t = %s", c.depth, c.t)
		}
		lower, upper := c.t.Bisect()
		stack.Push(candidate{t: upper, depth: c.depth + 1})
		stack.Push(candidate{t: lower, depth: c.depth + 1})
		return nil
	}

	for stack.Len() > 0 {
		c := stack.Pop()

		d, derr := D(c.t)
		if derr != nil {
			if !errors.Is(derr, rberrors.ErrBadArithmetic) {
				return false, 0, derr
			}
			// Inconclusive evaluation: keep the candidate and refine.
			if berr := bisect(c); berr != nil {
				return true, c.t.Lo, berr
			}
			continue
		}
		if !d.ContainsZero() {
			continue
		}

		inside, cerr := C(c.t)
		if cerr != nil {
			if !errors.Is(cerr, rberrors.ErrBadArithmetic) {
				return false, 0, cerr
			}
			if berr := bisect(c); berr != nil {
				return true, c.t.Lo, berr
			}
			continue
		}
		if !inside {
			continue
		}

		if c.t.Width() <= opts.TimeTol || d.Width() <= opts.DistTol {
			return true, c.t.Lo, nil
		}
		if berr := bisect(c); berr != nil {
			return true, c.t.Lo, berr
		}
	}

	return false, 0, nil
}
