package distance

import (
	"math"
	"testing"

	"github.com/alecjacobson/rigid-ipc/interval"
	"github.com/alecjacobson/rigid-ipc/numeric"
)

func v2(x, y float64) numeric.Vec2[numeric.F64] {
	return numeric.Vec2[numeric.F64]{X: numeric.F64(x), Y: numeric.F64(y)}
}

func v3(x, y, z float64) numeric.Vec3[numeric.F64] {
	return numeric.Vec3[numeric.F64]{X: numeric.F64(x), Y: numeric.F64(y), Z: numeric.F64(z)}
}

// sign(point_line_signed_distance(p with p.y = d, (-10,0), (-9,0))) must
// equal sign(d).
func TestPointLineSignConvention(t *testing.T) {
	a, b := v2(-10, 0), v2(-9, 0)
	for _, d := range []float64{3, 0.25, -0.5, -7} {
		got, err := PointLineSignedDistance2(v2(42, d), a, b)
		if err != nil {
			t.Fatal(err)
		}
		if math.Signbit(got.Float()) != math.Signbit(d) {
			t.Errorf("d=%v: signed distance %v has wrong sign", d, got.Float())
		}
		if math.Abs(got.Float()-d) > 1e-12 {
			t.Errorf("d=%v: signed distance %v, want %v", d, got.Float(), d)
		}
	}
}

func TestPointPlaneSignConvention(t *testing.T) {
	// Flat reference plane y = 0, normal +y.
	a, n := v3(0, 0, 0), v3(0, 1, 0)
	for _, d := range []float64{2, -3, 0.1} {
		got, err := PointPlaneSignedDistance3(v3(5, d, -1), a, n)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(got.Float()-d) > 1e-12 {
			t.Errorf("d=%v: plane distance %v", d, got.Float())
		}
	}
}

func TestLineLineSignConvention(t *testing.T) {
	// Line A along +x at y=z=0; line B along -z at height y=d, so the
	// common normal cross(x, -z) points along +y and the sign follows d.
	a0, a1 := v3(0, 0, 0), v3(1, 0, 0)
	for _, d := range []float64{1.5, -2} {
		b0, b1 := v3(0, d, 1), v3(0, d, 0)
		got, err := LineLineSignedDistance3(a0, a1, b0, b1)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(got.Float()-d) > 1e-12 {
			t.Errorf("d=%v: line-line distance %v, want %v", d, got.Float(), d)
		}
	}
}

func TestPointSegmentClamping(t *testing.T) {
	a, b := v2(0, 0), v2(2, 0)
	cases := []struct {
		p    numeric.Vec2[numeric.F64]
		want float64
	}{
		{v2(1, 3), 3},             // interior projection
		{v2(-3, 4), 5},            // clamped to a
		{v2(5, -4), 5},            // clamped to b
		{v2(1, 0), 0},             // on the segment
		{v2(2, 0.5), 0.5},         // above endpoint b
		{v2(-1, 0), 1},            // collinear beyond a
	}
	for _, tc := range cases {
		got, err := PointSegmentDistance2(tc.p, a, b)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(got.Float()-tc.want) > 1e-12 {
			t.Errorf("p=%v: distance %v, want %v", tc.p, got.Float(), tc.want)
		}
	}

	// Degenerate segment falls back to point-point.
	got, err := PointSegmentDistance2(v2(3, 4), v2(0, 0), v2(0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got.Float()-5) > 1e-12 {
		t.Errorf("degenerate segment distance %v, want 5", got.Float())
	}
}

// Face, vertex and edge closest-feature regions of the 7-region test.
func TestPointTriangle(t *testing.T) {
	a, b, c := v3(-1, 0, 1), v3(1, 0, 1), v3(0, 0, -1)
	cases := []struct {
		name string
		p    numeric.Vec3[numeric.F64]
		want float64
	}{
		{"face region above", v3(0, 2, 0), 2},
		{"closest to vertex b", v3(10, 2, 0), math.Sqrt(86)},
		{"closest to vertex a", v3(-10, -2, 1.5), math.Sqrt(81 + 4 + 0.25)},
		{"on the triangle", v3(0, 0, 0.5), 0},
		{"below the face", v3(0, -1, 0.5), 1},
		{"closest to edge ab", v3(0, 1, 2), math.Sqrt(2)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := PointTriangleDistance3(tc.p, a, b, c)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(got.Float()-tc.want) > 1e-12 {
				t.Errorf("distance = %v, want %v", got.Float(), tc.want)
			}
		})
	}
}

// The same formulas must run under interval scalars and enclose the double
// result.
func TestSignedDistanceIntervalEnclosure(t *testing.T) {
	pd, err := PointLineSignedDistance2(v2(0.5, 2), v2(-1, 0), v2(1, 0))
	if err != nil {
		t.Fatal(err)
	}

	iv := func(x float64) interval.Interval { return interval.FromPoint(x) }
	p := numeric.Vec2[interval.Interval]{X: iv(0.5), Y: iv(2)}
	a := numeric.Vec2[interval.Interval]{X: iv(-1), Y: iv(0)}
	b := numeric.Vec2[interval.Interval]{X: iv(1), Y: iv(0)}
	di, err := PointLineSignedDistance2(p, a, b)
	if err != nil {
		t.Fatal(err)
	}
	if !di.Contains(pd.Float()) {
		t.Fatalf("interval evaluation %s does not contain %v", di, pd.Float())
	}
}
