package assembly

import (
	"github.com/pkg/errors"

	"github.com/alecjacobson/rigid-ipc/pose"
	"github.com/alecjacobson/rigid-ipc/rberrors"
)

// Triplet is one (row, col, value) entry of a sparse matrix under
// accumulation.
type Triplet struct {
	Row, Col int
	Val      float64
}

// Sparse is a triplet-form sparse matrix; duplicate entries accumulate.
type Sparse struct {
	Rows, Cols int
	Triplets   []Triplet
}

// ToDense expands the triplets into a dense matrix, summing duplicates.
// Intended for tests and small systems.
func (s Sparse) ToDense() [][]float64 {
	out := make([][]float64, s.Rows)
	for r := range out {
		out[r] = make([]float64, s.Cols)
	}
	for _, t := range s.Triplets {
		out[t.Row][t.Col] += t.Val
	}
	return out
}

// WorldVerticesGradient assembles the per-body world-vertex Jacobians at the
// supplied poses into one global sparse matrix of shape
// (numVertices*dim) x (numBodies*ndof). Rows follow the global flattening
// (all x components first, then all y, then z); body b's block lands at rows
// d*numVertices + vertexStart[b] and columns b*ndof.
func (a *Assembler) WorldVerticesGradient(poses []pose.Pose) (Sparse, error) {
	if len(poses) != len(a.bodies) {
		return Sparse{}, errors.Wrapf(rberrors.ErrInvalidGeometry, "pose count %d, want %d", len(poses), len(a.bodies))
	}
	nV := a.NumVertices()
	out := Sparse{Rows: nV * a.dim, Cols: len(a.bodies) * a.ndof}
	for bi, b := range a.bodies {
		J := b.WorldVerticesGradientExact(poses[bi])
		bodyNV := len(b.V)
		for d := 0; d < a.dim; d++ {
			for i := 0; i < bodyNV; i++ {
				row := d*nV + a.vertexStart[bi] + i
				localRow := d*bodyNV + i
				for c := 0; c < a.ndof; c++ {
					if v := J[localRow][c]; v != 0 {
						out.Triplets = append(out.Triplets, Triplet{Row: row, Col: bi*a.ndof + c, Val: v})
					}
				}
			}
		}
	}
	return out, nil
}
