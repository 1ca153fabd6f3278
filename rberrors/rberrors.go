// Package rberrors defines the sentinel error kinds shared across the
// collision and impulse-resolution packages. Call sites attach provenance
// with github.com/pkg/errors and callers recover the kind with errors.Is.
package rberrors

import "errors"

var (
	// ErrInvalidGeometry is raised at body construction for degenerate or
	// misaligned input: non-positive mass, a centroid that does not
	// recenter to within tolerance, or dimension mismatches between V,
	// pose and velocity.
	ErrInvalidGeometry = errors.New("rigid-ipc: invalid geometry")

	// ErrBadArithmetic is raised by interval operations that cannot
	// produce a contract-respecting result: division by an interval
	// containing zero, sqrt of an interval with a negative upper bound,
	// or NaN ingress. Locally recoverable inside the root finder.
	ErrBadArithmetic = errors.New("rigid-ipc: bad interval arithmetic")

	// ErrDegenerateTopology is raised when a zero-length edge or
	// zero-area face is found at full bisection width (t = [0,0]) and is
	// not locally recoverable.
	ErrDegenerateTopology = errors.New("rigid-ipc: degenerate topology")

	// ErrNotImplemented marks a programming-time contract: edge-edge 3D
	// time of impact and 3D world velocities are not implemented.
	ErrNotImplemented = errors.New("rigid-ipc: not implemented")

	// ErrTolerancesExhausted is returned when the root finder's maximum
	// bisection depth is reached before converging; the caller still
	// receives a conservative lower bound.
	ErrTolerancesExhausted = errors.New("rigid-ipc: tolerances exhausted")
)
