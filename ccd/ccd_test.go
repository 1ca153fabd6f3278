package ccd

import (
	"math"
	"testing"

	"github.com/pkg/errors"

	"github.com/alecjacobson/rigid-ipc/interval"
	"github.com/alecjacobson/rigid-ipc/pose"
	"github.com/alecjacobson/rigid-ipc/rberrors"
	"github.com/alecjacobson/rigid-ipc/rigidbody"
)

func pose2(x, y, theta float64) pose.Pose {
	p := pose.New(2)
	p.Position[0], p.Position[1] = x, y
	p.Rotation[0] = theta
	return p
}

func pose3(x, y, z float64) pose.Pose {
	p := pose.New(3)
	p.Position[0], p.Position[1], p.Position[2] = x, y, z
	return p
}

// pointBody and edgeBody build bare geometry carriers; TOI queries only read
// V, E/F and Dim, so no mass properties are needed.
func pointBody2() *rigidbody.Body {
	return &rigidbody.Body{Dim: 2, V: [][]float64{{0, 0}}}
}

func edgeBody2(a, b [2]float64) *rigidbody.Body {
	return &rigidbody.Body{
		Dim: 2,
		V:   [][]float64{{a[0], a[1]}, {b[0], b[1]}},
		E:   [][2]int{{0, 1}},
	}
}

// A vertex at (0, 1) displaced by (0, -2) against a stationary edge
// [(-10,0), (10,0)]: impact at toi ~ 0.5.
func TestVertexEdgeImpact(t *testing.T) {
	vertex := pointBody2()
	edge := edgeBody2([2]float64{-10, 0}, [2]float64{10, 0})
	still := pose2(0, 0, 0)

	hit, toi, err := VertexEdgeTOI(
		vertex, 0, pose2(0, 1, 0), pose2(0, -1, 0),
		edge, 0, still, still,
		Options{},
	)
	if err != nil {
		t.Fatal(err)
	}
	if !hit {
		t.Fatal("want impact")
	}
	if math.Abs(toi-0.5) > 1e-6 {
		t.Fatalf("toi = %v, want 0.5 within 1e-6", toi)
	}
	if toi > 0.5 {
		t.Fatalf("toi = %v is past the true root; the bound must be conservative", toi)
	}
}

// The same vertex sliding parallel to the edge never impacts.
func TestVertexEdgeParallelSlide(t *testing.T) {
	vertex := pointBody2()
	edge := edgeBody2([2]float64{-10, 0}, [2]float64{10, 0})
	still := pose2(0, 0, 0)

	hit, _, err := VertexEdgeTOI(
		vertex, 0, pose2(0, 1, 0), pose2(20, 1, 0),
		edge, 0, still, still,
		Options{},
	)
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Fatal("parallel slide must not impact")
	}
}

// A vertex crossing the supporting line beyond the edge's extent must be
// rejected by the containment predicate.
func TestVertexEdgeMissesBeyondEndpoint(t *testing.T) {
	vertex := pointBody2()
	edge := edgeBody2([2]float64{-2, 0}, [2]float64{-1, 0})
	still := pose2(0, 0, 0)

	hit, _, err := VertexEdgeTOI(
		vertex, 0, pose2(5, 1, 0), pose2(5, -1, 0),
		edge, 0, still, still,
		Options{},
	)
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Fatal("crossing beyond the edge endpoints must not impact")
	}
}

// Invariant: no t' < toi - eps_t satisfies both contact predicates. Sampled
// check: the signed distance keeps its initial sign strictly before toi.
func TestNoEarlierRoot(t *testing.T) {
	vertex := pointBody2()
	edge := edgeBody2([2]float64{-10, 0}, [2]float64{10, 0})
	still := pose2(0, 0, 0)
	p0, p1 := pose2(0.5, 1, 0), pose2(-0.25, -3, 0.2)

	hit, toi, err := VertexEdgeTOI(vertex, 0, p0, p1, edge, 0, still, still, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !hit {
		t.Fatal("want impact")
	}

	distAt := func(tt float64) float64 {
		at := pose.Lerp(p0, p1, tt)
		// The vertex body has its single vertex at the local origin, so the
		// world position is the pose position.
		return at.Position[1]
	}
	sign0 := math.Signbit(distAt(0))
	for i := 0; i < 200; i++ {
		tt := float64(i) / 200 * (toi - 1e-6)
		if tt < 0 {
			break
		}
		if math.Signbit(distAt(tt)) != sign0 {
			t.Fatalf("distance changed sign at t=%v < toi=%v", tt, toi)
		}
	}
}

func TestDegenerateEdge(t *testing.T) {
	vertex := pointBody2()
	edge := edgeBody2([2]float64{1, 0}, [2]float64{1, 0}) // zero length
	still := pose2(0, 0, 0)

	_, _, err := VertexEdgeTOI(
		vertex, 0, pose2(0, 1, 0), pose2(0, -1, 0),
		edge, 0, still, still,
		Options{},
	)
	if !errors.Is(err, rberrors.ErrDegenerateTopology) {
		t.Fatalf("want ErrDegenerateTopology, got %v", err)
	}
}

func TestDepthCapReturnsConservativeBound(t *testing.T) {
	vertex := pointBody2()
	edge := edgeBody2([2]float64{-10, 0}, [2]float64{10, 0})
	still := pose2(0, 0, 0)

	hit, toi, err := VertexEdgeTOI(
		vertex, 0, pose2(0, 1, 0), pose2(0, -1, 0),
		edge, 0, still, still,
		Options{TimeTol: 1e-12, DistTol: 1e-300, MaxDepth: 3},
	)
	if !errors.Is(err, rberrors.ErrTolerancesExhausted) {
		t.Fatalf("want ErrTolerancesExhausted, got %v", err)
	}
	if !hit {
		t.Fatal("depth cap still reports the impact")
	}
	if toi > 0.5 {
		t.Fatalf("toi = %v exceeds the true root", toi)
	}
}

// A vertex at (0, 1, 0) displaced by (0, -2, 0) against the stationary
// triangle (-1,0,1), (1,0,1), (0,0,-1): impact at toi ~ 0.5.
func TestVertexFaceImpact(t *testing.T) {
	vertex := &rigidbody.Body{Dim: 3, V: [][]float64{{0, 0, 0}}}
	face := &rigidbody.Body{
		Dim: 3,
		V:   [][]float64{{-1, 0, 1}, {1, 0, 1}, {0, 0, -1}},
		F:   [][3]int{{0, 1, 2}},
	}
	still := pose3(0, 0, 0)

	hit, toi, err := VertexFaceTOI(
		vertex, 0, pose3(0, 1, 0), pose3(0, -1, 0),
		face, 0, still, still,
		Options{},
	)
	if err != nil {
		t.Fatal(err)
	}
	if !hit {
		t.Fatal("want impact")
	}
	if math.Abs(toi-0.5) > 1e-6 || toi > 0.5 {
		t.Fatalf("toi = %v, want conservative 0.5 within 1e-6", toi)
	}
}

// A vertex dropping outside the triangle's extent crosses the plane but
// fails containment.
func TestVertexFaceMissOutsideTriangle(t *testing.T) {
	vertex := &rigidbody.Body{Dim: 3, V: [][]float64{{0, 0, 0}}}
	face := &rigidbody.Body{
		Dim: 3,
		V:   [][]float64{{-1, 0, 1}, {1, 0, 1}, {0, 0, -1}},
		F:   [][3]int{{0, 1, 2}},
	}
	still := pose3(0, 0, 0)

	hit, _, err := VertexFaceTOI(
		vertex, 0, pose3(5, 1, 0), pose3(5, -1, 0),
		face, 0, still, still,
		Options{},
	)
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Fatal("crossing outside the triangle must not impact")
	}
}

func TestEdgeEdgeNotImplemented(t *testing.T) {
	a := edgeBody2([2]float64{0, 0}, [2]float64{1, 0})
	_, _, err := EdgeEdgeTOI(a, 0, pose2(0, 0, 0), pose2(0, 0, 0), a, 0, pose2(0, 0, 0), pose2(0, 0, 0), Options{})
	if !errors.Is(err, rberrors.ErrNotImplemented) {
		t.Fatalf("want ErrNotImplemented, got %v", err)
	}
}

// The parallel reduction must be deterministic: sorted by time with ties in
// input order, independent of worker count.
func TestParallelQueryDeterministicOrder(t *testing.T) {
	times := []float64{0.9, 0.1, 0.5, 0.1, 0.3, 0.5, 0.1}
	query := func(i int) (Impact, bool, error) {
		return Impact{Time: times[i], Vertex: i}, true, nil
	}

	var first []Impact
	for _, workers := range []int{1, 2, 8} {
		got, err := ParallelQuery(len(times), workers, query)
		if err != nil {
			t.Fatal(err)
		}
		if first == nil {
			first = got
			for i := 1; i < len(got); i++ {
				if got[i-1].Time > got[i].Time {
					t.Fatalf("impacts not sorted: %v", got)
				}
				if got[i-1].Time == got[i].Time && got[i-1].Vertex > got[i].Vertex {
					t.Fatalf("tie not broken by input order: %v", got)
				}
			}
			continue
		}
		for i := range got {
			if got[i] != first[i] {
				t.Fatalf("workers=%d: order differs at %d: %v vs %v", workers, i, got[i], first[i])
			}
		}
	}
}

func TestParallelQueryCombinesErrors(t *testing.T) {
	query := func(i int) (Impact, bool, error) {
		if i%2 == 0 {
			return Impact{}, false, errors.Wrapf(rberrors.ErrBadArithmetic, "pair %d", i)
		}
		return Impact{Time: float64(i)}, true, nil
	}
	got, err := ParallelQuery(4, 2, query)
	if err == nil {
		t.Fatal("want combined error")
	}
	if !errors.Is(err, rberrors.ErrBadArithmetic) {
		t.Fatalf("combined error loses the kind: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want the 2 successful impacts, got %d", len(got))
	}
}

// The root finder itself, driven by hand-built closures: the earliest of two
// roots must win.
func TestFindRootPicksEarliest(t *testing.T) {
	// D(t) = (t - 0.25) * (t - 0.75), roots at 0.25 and 0.75.
	D := func(t interval.Interval) (interval.Interval, error) {
		quarter := interval.FromPoint(0.25)
		threeQ := interval.FromPoint(0.75)
		return t.Sub(quarter).Mul(t.Sub(threeQ)), nil
	}
	C := func(interval.Interval) (bool, error) { return true, nil }

	hit, toi, err := FindRoot(D, C, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !hit {
		t.Fatal("want a root")
	}
	if math.Abs(toi-0.25) > 1e-6 || toi > 0.25 {
		t.Fatalf("toi = %v, want conservative 0.25", toi)
	}
}

func TestFindRootNoRoot(t *testing.T) {
	D := func(t interval.Interval) (interval.Interval, error) {
		return t.Add(interval.FromPoint(1)), nil // strictly positive on [0, 1]
	}
	C := func(interval.Interval) (bool, error) { return true, nil }
	hit, _, err := FindRoot(D, C, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Fatal("want no root")
	}
}
