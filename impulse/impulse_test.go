package impulse

import (
	"math"
	"testing"

	"github.com/pkg/errors"

	"github.com/alecjacobson/rigid-ipc/assembly"
	"github.com/alecjacobson/rigid-ipc/ccd"
	"github.com/alecjacobson/rigid-ipc/pose"
	"github.com/alecjacobson/rigid-ipc/rberrors"
	"github.com/alecjacobson/rigid-ipc/rigidbody"
)

var unitSquare = [][]float64{{-0.5, -0.5}, {0.5, -0.5}, {0.5, 0.5}, {-0.5, 0.5}}

// ccwEdges wind with the vertex order; outwardEdges reverse each pair so
// rotate90ccw of the edge direction points out of the square.
var ccwEdges = [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}}
var outwardEdges = [][2]int{{1, 0}, {2, 1}, {3, 2}, {0, 3}}

func mkBody(t *testing.T, spec rigidbody.Spec) *rigidbody.Body {
	t.Helper()
	b, err := rigidbody.New(spec)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func pose2(x, y, theta float64) pose.Pose {
	p := pose.New(2)
	p.Position[0], p.Position[1] = x, y
	p.Rotation[0] = theta
	return p
}

// contactScene builds two unit squares in exact touching contact: body A's
// vertex 1 (local (0.5, -0.5), world (0, -0.3)) sits on body B's left edge
// (edge 3 of outwardEdges, world x = 0, alpha = 0.2). Body B is oriented so
// the contact normal keeps the outward winding direction (-1, 0) instead of
// degenerating on the toward-vertex flip at zero gap.
func contactScene(t *testing.T, velA, velB pose.Pose, fixedA, fixedB []bool) *assembly.Assembler {
	a := mkBody(t, rigidbody.Spec{
		V: unitSquare, E: ccwEdges,
		Pose: pose2(-0.5, 0.2, 0), Velocity: velA,
		Density: 1, Fixed: fixedA,
	})
	b := mkBody(t, rigidbody.Spec{
		V: unitSquare, E: outwardEdges,
		Pose: pose2(0.5, 0, 0), Velocity: velB,
		Density: 1, Fixed: fixedB,
		Oriented: true,
	})
	asm, err := assembly.New([]*rigidbody.Body{a, b})
	if err != nil {
		t.Fatal(err)
	}
	return asm
}

// contactImpact is the synthetic exact-contact impact for contactScene:
// global vertex 1 (body A), global edge 7 (body B's edge 3).
var contactImpact = ccd.Impact{Time: 0, EdgeOrFace: 7, Vertex: 1, Alpha: 0.2}

func linearMomentum(asm *assembly.Assembler) (px, py float64) {
	for _, b := range asm.Bodies() {
		px += b.Mass * b.Velocity.Position[0]
		py += b.Mass * b.Velocity.Position[1]
	}
	return px, py
}

func angularMomentum(asm *assembly.Assembler) float64 {
	var L float64
	for _, b := range asm.Bodies() {
		x, y := b.Pose.Position[0], b.Pose.Position[1]
		vx, vy := b.Velocity.Position[0], b.Velocity.Position[1]
		L += b.Inertia[0]*b.Velocity.Rotation[0] + b.Mass*(x*vy-y*vx)
	}
	return L
}

func kineticEnergy(asm *assembly.Assembler) float64 {
	var E float64
	for _, b := range asm.Bodies() {
		vx, vy := b.Velocity.Position[0], b.Velocity.Position[1]
		omega := b.Velocity.Rotation[0]
		E += 0.5*b.Mass*(vx*vx+vy*vy) + 0.5*b.Inertia[0]*omega*omega
	}
	return E
}

// Invariant: with all DoFs free and e = 1, the impulse conserves linear and
// angular momentum to floating-point epsilon and kinetic energy analytically.
func TestElasticImpulseConservesMomentum(t *testing.T) {
	free := []bool{false, false, false}
	asm := contactScene(t,
		pose2(2, 0, 0.3),
		pose2(-1, 0.5, -0.2),
		free, free,
	)

	px0, py0 := linearMomentum(asm)
	L0 := angularMomentum(asm)
	E0 := kineticEnergy(asm)

	if err := Resolve(asm, []ccd.Impact{contactImpact}, 1); err != nil {
		t.Fatal(err)
	}

	px1, py1 := linearMomentum(asm)
	L1 := angularMomentum(asm)
	E1 := kineticEnergy(asm)

	if math.Abs(px1-px0) > 1e-10 || math.Abs(py1-py0) > 1e-10 {
		t.Fatalf("linear momentum drifted: (%v, %v) -> (%v, %v)", px0, py0, px1, py1)
	}
	if math.Abs(L1-L0) > 1e-10 {
		t.Fatalf("angular momentum drifted: %v -> %v", L0, L1)
	}
	if math.Abs(E1-E0) > 1e-9 {
		t.Fatalf("kinetic energy not conserved at e=1: %v -> %v", E0, E1)
	}

	// The impulse must actually have fired.
	if asm.Body(0).Velocity.Position[0] >= 2 {
		t.Fatal("body A was not decelerated")
	}
}

func TestInelasticImpulseReducesEnergy(t *testing.T) {
	free := []bool{false, false, false}
	for _, e := range []float64{0, 0.25, 0.5, 0.9} {
		asm := contactScene(t,
			pose2(2, 0, 0.3),
			pose2(-1, 0.5, -0.2),
			free, free,
		)
		E0 := kineticEnergy(asm)
		if err := Resolve(asm, []ccd.Impact{contactImpact}, e); err != nil {
			t.Fatal(err)
		}
		E1 := kineticEnergy(asm)
		if E1 >= E0 {
			t.Fatalf("e=%v: kinetic energy did not decrease: %v -> %v", e, E0, E1)
		}
		px0 := 1.0*2 + 1.0*(-1)
		px1, _ := linearMomentum(asm)
		if math.Abs(px1-px0) > 1e-10 {
			t.Fatalf("e=%v: linear momentum drifted to %v", e, px1)
		}
	}
}

// A separating contact (relative normal velocity >= 0) must be skipped.
func TestSeparatingContactSkipped(t *testing.T) {
	free := []bool{false, false, false}
	asm := contactScene(t,
		pose2(-2, 0, 0), // A moving away from B
		pose2(1, 0, 0),
		free, free,
	)
	if err := Resolve(asm, []ccd.Impact{contactImpact}, 1); err != nil {
		t.Fatal(err)
	}
	if asm.Body(0).Velocity.Position[0] != -2 || asm.Body(1).Velocity.Position[0] != 1 {
		t.Fatal("separating impact must leave velocities untouched")
	}
}

// Fixity: a DoF flagged fixed contributes no inverse mass and is never
// updated.
func TestFixedDoFsUntouched(t *testing.T) {
	asm := contactScene(t,
		pose2(2, 0, 0),
		pose2(0, 0, 0),
		[]bool{false, false, true}, // A cannot spin
		[]bool{true, true, true},   // B fully fixed
	)
	if err := Resolve(asm, []ccd.Impact{contactImpact}, 1); err != nil {
		t.Fatal(err)
	}
	a, b := asm.Body(0), asm.Body(1)

	// Elastic bounce off an immovable wall: A's normal velocity reverses.
	if math.Abs(a.Velocity.Position[0]-(-2)) > 1e-12 {
		t.Fatalf("A velocity = %v, want -2", a.Velocity.Position[0])
	}
	if a.Velocity.Rotation[0] != 0 {
		t.Fatal("fixed rotation DoF of A was updated")
	}
	if b.Velocity.Position[0] != 0 || b.Velocity.Position[1] != 0 || b.Velocity.Rotation[0] != 0 {
		t.Fatal("fully fixed body B was updated")
	}
}

func TestResolveRejects3D(t *testing.T) {
	v := [][]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	f := [][3]int{{0, 2, 1}, {0, 1, 3}, {0, 3, 2}, {1, 2, 3}}
	e := [][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}
	b, err := rigidbody.New(rigidbody.Spec{
		V: v, E: e, F: f,
		Pose: pose.New(3), Velocity: pose.New(3),
		Density: 1, Fixed: make([]bool, 6),
	})
	if err != nil {
		t.Fatal(err)
	}
	asm, err := assembly.New([]*rigidbody.Body{b})
	if err != nil {
		t.Fatal(err)
	}
	if err := Resolve(asm, nil, 1); !errors.Is(err, rberrors.ErrNotImplemented) {
		t.Fatalf("want ErrNotImplemented, got %v", err)
	}
}
