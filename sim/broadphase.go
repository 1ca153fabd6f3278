package sim

import (
	"math"

	"github.com/alecjacobson/rigid-ipc/assembly"
	"github.com/alecjacobson/rigid-ipc/ccd"
	"github.com/alecjacobson/rigid-ipc/rigidbody"
)

// aabb is an axis-aligned box over the step's swept extent.
type aabb struct {
	lo, hi [3]float64
}

func emptyAABB(dim int) aabb {
	var b aabb
	for d := 0; d < dim; d++ {
		b.lo[d] = math.Inf(1)
		b.hi[d] = math.Inf(-1)
	}
	return b
}

func (b *aabb) extend(p []float64) {
	for d, x := range p {
		b.lo[d] = math.Min(b.lo[d], x)
		b.hi[d] = math.Max(b.hi[d], x)
	}
}

func (b *aabb) inflate(dim int, r float64) {
	for d := 0; d < dim; d++ {
		b.lo[d] -= r
		b.hi[d] += r
	}
}

func (b aabb) overlaps(o aabb, dim int) bool {
	for d := 0; d < dim; d++ {
		if b.lo[d] > o.hi[d] || o.lo[d] > b.hi[d] {
			return false
		}
	}
	return true
}

// SweptAABBBroadPhase is the trivial broad phase the driver plugs into the
// core's ccd.BroadPhase seam: a box per swept vertex against a box per swept
// edge (2D) or face (3D), each inflated by collisionEps times the largest
// vertex displacement of the owning body. Quadratic in the primitive counts;
// a real deployment substitutes a tree, which is exactly why this lives
// outside the core.
type SweptAABBBroadPhase struct {
	asm *assembly.Assembler
}

// NewSweptAABBBroadPhase builds the broad phase over an assembled scene.
func NewSweptAABBBroadPhase(asm *assembly.Assembler) *SweptAABBBroadPhase {
	return &SweptAABBBroadPhase{asm: asm}
}

var _ ccd.BroadPhase = (*SweptAABBBroadPhase)(nil)

// Candidates returns the vertex-edge (2D) or vertex-face (3D) global index
// pairs whose swept boxes overlap, skipping same-body pairs.
func (bp *SweptAABBBroadPhase) Candidates(collisionEps float64) []ccd.Candidate {
	asm := bp.asm
	dim := asm.Dim()

	w0 := asm.WorldVertices(rigidbody.PreviousStep)
	w1 := asm.WorldVertices(rigidbody.CurrentStep)

	// Per-body inflation radius: collisionEps times the body's largest
	// vertex displacement this step.
	radius := make([]float64, asm.NumBodies())
	for g := 0; g < asm.NumVertices(); g++ {
		b := asm.VertexToBody(g)
		var d2 float64
		for d := 0; d < dim; d++ {
			delta := w1[g][d] - w0[g][d]
			d2 += delta * delta
		}
		radius[b] = math.Max(radius[b], collisionEps*math.Sqrt(d2))
	}

	vertexBoxes := make([]aabb, asm.NumVertices())
	for g := range vertexBoxes {
		box := emptyAABB(dim)
		box.extend(w0[g])
		box.extend(w1[g])
		box.inflate(dim, radius[asm.VertexToBody(g)])
		vertexBoxes[g] = box
	}

	primitiveBox := func(verts []int) aabb {
		box := emptyAABB(dim)
		for _, g := range verts {
			box.extend(w0[g])
			box.extend(w1[g])
		}
		box.inflate(dim, radius[asm.VertexToBody(verts[0])])
		return box
	}

	var out []ccd.Candidate
	if dim == 2 {
		for ei, e := range asm.Edges() {
			box := primitiveBox(e[:])
			owner := asm.VertexToBody(e[0])
			for g := 0; g < asm.NumVertices(); g++ {
				if asm.VertexToBody(g) == owner {
					continue
				}
				if vertexBoxes[g].overlaps(box, dim) {
					out = append(out, ccd.Candidate{Vertex: g, EdgeOrFace: ei})
				}
			}
		}
		return out
	}
	for fi, f := range asm.Faces() {
		box := primitiveBox(f[:])
		owner := asm.VertexToBody(f[0])
		for g := 0; g < asm.NumVertices(); g++ {
			if asm.VertexToBody(g) == owner {
				continue
			}
			if vertexBoxes[g].overlaps(box, dim) {
				out = append(out, ccd.Candidate{Vertex: g, EdgeOrFace: fi})
			}
		}
	}
	return out
}
