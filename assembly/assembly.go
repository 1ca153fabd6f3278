// Package assembly aggregates many rigid bodies
// into global vertex/edge/face index spaces, resolves global indices back to
// (body, local) in O(log n) over prefix sums, and carries the block-diagonal
// rigid mass matrix and the pose-to-DoF scaling diagonal.
package assembly

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"

	"github.com/alecjacobson/rigid-ipc/pose"
	"github.com/alecjacobson/rigid-ipc/rberrors"
	"github.com/alecjacobson/rigid-ipc/rigidbody"
)

// Assembler owns the body arena. All cross-references are integer indices
// into it, never pointers held elsewhere; read-only parallel phases take the
// arena as an immutable view.
type Assembler struct {
	bodies []*rigidbody.Body
	dim    int
	ndof   int

	// Prefix sums, length len(bodies)+1; entry b is the first global index
	// owned by body b.
	vertexStart []int
	edgeStart   []int
	faceStart   []int

	// Global connectivity: local indices shifted by vertexStart[b].
	edges [][2]int
	faces [][3]int

	vertexToBody []int

	// Diagonals of the block mass matrix and the pose-to-DoF scaling, both
	// of length len(bodies)*ndof. Write-once at construction, read-only
	// thereafter.
	massDiagonal []float64
	poseToDof    []float64
}

// New builds an assembler over the given bodies, which must all share one
// spatial dimension.
func New(bodies []*rigidbody.Body) (*Assembler, error) {
	if len(bodies) == 0 {
		return nil, errors.Wrap(rberrors.ErrInvalidGeometry, "assembler needs at least one body")
	}
	dim := bodies[0].Dim
	for i, b := range bodies {
		if b.Dim != dim {
			return nil, errors.Wrapf(rberrors.ErrInvalidGeometry, "body %d has dim %d, want %d", i, b.Dim, dim)
		}
	}
	ndof := bodies[0].Ndof()

	a := &Assembler{
		bodies:      bodies,
		dim:         dim,
		ndof:        ndof,
		vertexStart: make([]int, len(bodies)+1),
		edgeStart:   make([]int, len(bodies)+1),
		faceStart:   make([]int, len(bodies)+1),
	}
	for i, b := range bodies {
		a.vertexStart[i+1] = a.vertexStart[i] + len(b.V)
		a.edgeStart[i+1] = a.edgeStart[i] + len(b.E)
		a.faceStart[i+1] = a.faceStart[i] + len(b.F)
	}

	a.edges = make([][2]int, 0, a.edgeStart[len(bodies)])
	a.faces = make([][3]int, 0, a.faceStart[len(bodies)])
	a.vertexToBody = make([]int, a.vertexStart[len(bodies)])
	for i, b := range bodies {
		shift := a.vertexStart[i]
		for _, e := range b.E {
			a.edges = append(a.edges, [2]int{e[0] + shift, e[1] + shift})
		}
		for _, f := range b.F {
			a.faces = append(a.faces, [3]int{f[0] + shift, f[1] + shift, f[2] + shift})
		}
		for v := shift; v < a.vertexStart[i+1]; v++ {
			a.vertexToBody[v] = i
		}
	}

	a.massDiagonal = make([]float64, len(bodies)*ndof)
	a.poseToDof = make([]float64, len(bodies)*ndof)
	for i, b := range bodies {
		base := i * ndof
		for d := 0; d < dim; d++ {
			a.massDiagonal[base+d] = b.Mass
			a.poseToDof[base+d] = 1
		}
		for k, inertia := range b.Inertia {
			a.massDiagonal[base+dim+k] = inertia
			a.poseToDof[base+dim+k] = b.RMax
		}
	}
	return a, nil
}

func (a *Assembler) NumBodies() int   { return len(a.bodies) }
func (a *Assembler) NumVertices() int { return a.vertexStart[len(a.bodies)] }
func (a *Assembler) NumEdges() int    { return a.edgeStart[len(a.bodies)] }
func (a *Assembler) NumFaces() int    { return a.faceStart[len(a.bodies)] }
func (a *Assembler) Dim() int         { return a.dim }
func (a *Assembler) Ndof() int        { return a.ndof }

// Body returns the body at arena index i.
func (a *Assembler) Body(i int) *rigidbody.Body { return a.bodies[i] }

// Bodies returns the arena itself for sequential phases (impulse resolution,
// step advancement) that mutate pose/velocity in place.
func (a *Assembler) Bodies() []*rigidbody.Body { return a.bodies }

// Edges returns the global edge matrix.
func (a *Assembler) Edges() [][2]int { return a.edges }

// Faces returns the global face matrix.
func (a *Assembler) Faces() [][3]int { return a.faces }

// findOwner locates the body owning global index g in a prefix-sum array:
// the largest b with prefix[b] <= g.
func findOwner[T constraints.Ordered](prefix []T, g T) int {
	lo, hi := 0, len(prefix)-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if prefix[mid] <= g {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}

// LocalVertex resolves a global vertex index to (body, local index).
func (a *Assembler) LocalVertex(g int) (body, local int) {
	body = findOwner(a.vertexStart, g)
	return body, g - a.vertexStart[body]
}

// LocalEdge resolves a global edge index to (body, local index).
func (a *Assembler) LocalEdge(g int) (body, local int) {
	body = findOwner(a.edgeStart, g)
	return body, g - a.edgeStart[body]
}

// LocalFace resolves a global face index to (body, local index).
func (a *Assembler) LocalFace(g int) (body, local int) {
	body = findOwner(a.faceStart, g)
	return body, g - a.faceStart[body]
}

// VertexToBody returns the owning body index of a global vertex in O(1) via
// the dense map.
func (a *Assembler) VertexToBody(g int) int { return a.vertexToBody[g] }

// RBPoses returns the per-body pose vector for the selected step.
func (a *Assembler) RBPoses(s rigidbody.Step) []pose.Pose {
	poses := make([]pose.Pose, len(a.bodies))
	for i, b := range a.bodies {
		if s == rigidbody.PreviousStep {
			poses[i] = b.PosePrev.Clone()
		} else {
			poses[i] = b.Pose.Clone()
		}
	}
	return poses
}

// SetRBPoses writes the per-body pose vector back into the arena,
// round-tripping with RBPoses.
func (a *Assembler) SetRBPoses(poses []pose.Pose) error {
	if len(poses) != len(a.bodies) {
		return errors.Wrapf(rberrors.ErrInvalidGeometry, "pose count %d, want %d", len(poses), len(a.bodies))
	}
	for i, p := range poses {
		if p.Dim != a.dim {
			return errors.Wrapf(rberrors.ErrInvalidGeometry, "pose %d has dim %d, want %d", i, p.Dim, a.dim)
		}
		a.bodies[i].Pose = p.Clone()
	}
	return nil
}

// WorldVertices concatenates the per-body world vertex matrices for the
// selected step, in global vertex order.
func (a *Assembler) WorldVertices(s rigidbody.Step) [][]float64 {
	out := make([][]float64, 0, a.NumVertices())
	for _, b := range a.bodies {
		out = append(out, b.WorldVertices(s)...)
	}
	return out
}

// MassMatrixDiagonal returns the diagonal of the block mass matrix
// [mass, mass, (mass,) principal inertia...] per body.
func (a *Assembler) MassMatrixDiagonal() []float64 { return a.massDiagonal }

// PoseToDof returns the diagonal scaling with ones on positional DoFs and
// r_max on rotational DoFs, making positional and rotational gradients
// commensurate.
func (a *Assembler) PoseToDof() []float64 { return a.poseToDof }
