// Package rigidbody provides the rigid body: immutable body-local geometry
// plus mass/inertia, fixity flags, and the pose-dependent world-vertex
// mapping (and its analytic gradient) shared across the 2D and 3D paths.
package rigidbody

import (
	"math"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/alecjacobson/rigid-ipc/pose"
	"github.com/alecjacobson/rigid-ipc/rberrors"
)

// Body is a rigid body: immutable geometry (V, E, F) centered at its
// centroid of mass, plus the mutable pose/velocity pairs the driver
// advances each step.
type Body struct {
	ID uuid.UUID
	// Dim is the spatial dimension, 2 or 3.
	Dim int
	// V holds body-local vertex coordinates, each of length Dim, centered
	// so that ||centroid(V)||^2 < 1e-8, enforced at construction.
	V [][]float64
	// E holds vertex-index pairs (edges); used directly in 2D, and as the
	// wireframe of the 3D mesh.
	E [][2]int
	// F holds vertex-index triples (faces); empty in 2D.
	F [][3]int

	Pose, PosePrev         pose.Pose
	Velocity, VelocityPrev pose.Pose

	Density float64
	// Fixed has length Ndof(); a true entry means that DoF never moves
	// under impulse resolution.
	Fixed []bool
	// Oriented marks a body whose edges are wound consistently, so contact
	// normals keep the winding orientation instead of being flipped toward
	// the query vertex.
	Oriented bool

	Mass float64
	// Inertia holds the principal inertia value(s) used as the diagonal
	// mass terms for rotational DoFs: one scalar in 2D, three principal
	// eigenvalues of the 3D tensor in 3D.
	Inertia []float64
	// RMax is max ||v||^2 over body-local vertices, used to rescale
	// rotational DoFs so positional and rotational gradients are
	// commensurate.
	RMax float64
}

// Spec is the external input the scene loader is expected to produce
// (the core never parses scene files itself).
type Spec struct {
	V        [][]float64
	E        [][2]int
	F        [][3]int
	Pose     pose.Pose
	Velocity pose.Pose
	Density  float64
	Fixed    []bool
	Oriented bool
}

// Ndof returns the number of degrees of freedom of the body's pose.
func (b *Body) Ndof() int { return b.Dim + pose.RotNdof(b.Dim) }

// New validates and constructs a Body from a scene specification,
// mass-centering V about its centroid of mass. It fails with
// ErrInvalidGeometry on non-positive mass, a centroid that does not recenter
// to within 1e-8 of the origin, or a dimension mismatch between V, pose, and
// velocity.
func New(spec Spec) (*Body, error) {
	dim := spec.Pose.Dim
	if dim != 2 && dim != 3 {
		return nil, errors.Wrapf(rberrors.ErrInvalidGeometry, "unsupported dimension %d", dim)
	}
	if spec.Velocity.Dim != dim {
		return nil, errors.Wrapf(rberrors.ErrInvalidGeometry, "velocity dim %d != pose dim %d", spec.Velocity.Dim, dim)
	}
	for i, v := range spec.V {
		if len(v) != dim {
			return nil, errors.Wrapf(rberrors.ErrInvalidGeometry, "vertex %d has dim %d, want %d", i, len(v), dim)
		}
	}
	ndof := dim + pose.RotNdof(dim)
	if len(spec.Fixed) != ndof {
		return nil, errors.Wrapf(rberrors.ErrInvalidGeometry, "fixed flags len %d, want %d", len(spec.Fixed), ndof)
	}
	if spec.Density <= 0 {
		return nil, errors.Wrapf(rberrors.ErrInvalidGeometry, "density %v must be positive", spec.Density)
	}

	var mass float64
	var centroid []float64
	var inertia []float64

	if dim == 2 {
		area, c, I := massProperties2D(spec.V)
		mass = area * spec.Density
		centroid = c
		inertia = []float64{math.Abs(I) * spec.Density}
	} else {
		volume, c, tensor := massProperties3D(spec.V, toFaceArray(spec.F))
		mass = math.Abs(volume) * spec.Density
		centroid = c
		inertia = principalInertia(tensor, spec.Density)
	}

	if mass <= 0 {
		return nil, errors.Wrapf(rberrors.ErrInvalidGeometry, "non-positive mass %v", mass)
	}

	centered := make([][]float64, len(spec.V))
	for i, v := range spec.V {
		cv := make([]float64, dim)
		for d := 0; d < dim; d++ {
			cv[d] = v[d] - centroid[d]
		}
		centered[i] = cv
	}

	var centroidNormSq float64
	// Recompute the centroid of the recentered geometry as a construction
	// invariant check: ||centroid(V)||^2 < 1e-8.
	if dim == 2 {
		_, c2, _ := massProperties2D(centered)
		centroidNormSq = c2[0]*c2[0] + c2[1]*c2[1]
	} else {
		_, c2, _ := massProperties3D(centered, toFaceArray(spec.F))
		centroidNormSq = c2[0]*c2[0] + c2[1]*c2[1] + c2[2]*c2[2]
	}
	if centroidNormSq > 1e-8 {
		return nil, errors.Wrapf(rberrors.ErrInvalidGeometry,
			"centroid did not recenter to within tolerance: ||c||^2 = %v", centroidNormSq)
	}

	rMax := 0.0
	for _, v := range centered {
		s := 0.0
		for _, x := range v {
			s += x * x
		}
		if s > rMax {
			rMax = s
		}
	}

	b := &Body{
		ID:           uuid.New(),
		Dim:          dim,
		V:            centered,
		E:            spec.E,
		F:            spec.F,
		Pose:         spec.Pose.Clone(),
		PosePrev:     spec.Pose.Clone(),
		Velocity:     spec.Velocity.Clone(),
		VelocityPrev: spec.Velocity.Clone(),
		Density:      spec.Density,
		Fixed:        append([]bool(nil), spec.Fixed...),
		Oriented:     spec.Oriented,
		Mass:         mass,
		Inertia:      inertia,
		RMax:         rMax,
	}
	return b, nil
}

func toFaceArray(f [][3]int) [][3]int { return f }

// principalInertia extracts the eigenvalues of a symmetric 3x3 inertia
// tensor via the closed-form trigonometric eigenvalue solution (exact for
// 3x3 symmetric matrices, avoiding an iterative eigensolver dependency for
// a 3-element spectrum).
func principalInertia(tensor [3][3]float64, density float64) []float64 {
	for i := range tensor {
		for j := range tensor[i] {
			tensor[i][j] *= density
		}
	}
	p1 := tensor[0][1]*tensor[0][1] + tensor[0][2]*tensor[0][2] + tensor[1][2]*tensor[1][2]
	if p1 < 1e-14 {
		return []float64{tensor[0][0], tensor[1][1], tensor[2][2]}
	}
	q := (tensor[0][0] + tensor[1][1] + tensor[2][2]) / 3.0
	p2 := (tensor[0][0]-q)*(tensor[0][0]-q) + (tensor[1][1]-q)*(tensor[1][1]-q) + (tensor[2][2]-q)*(tensor[2][2]-q) + 2*p1
	p := math.Sqrt(p2 / 6.0)

	var B [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			diag := 0.0
			if i == j {
				diag = q
			}
			B[i][j] = (tensor[i][j] - diag) / p
		}
	}
	detB := B[0][0]*(B[1][1]*B[2][2]-B[1][2]*B[2][1]) -
		B[0][1]*(B[1][0]*B[2][2]-B[1][2]*B[2][0]) +
		B[0][2]*(B[1][0]*B[2][1]-B[1][1]*B[2][0])
	r := detB / 2.0
	r = math.Max(-1, math.Min(1, r))
	phi := math.Acos(r) / 3.0

	eig1 := q + 2*p*math.Cos(phi)
	eig3 := q + 2*p*math.Cos(phi+2*math.Pi/3)
	eig2 := 3*q - eig1 - eig3
	return []float64{eig1, eig2, eig3}
}
