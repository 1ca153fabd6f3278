package rigidbody

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// massProperties2D computes the area, centroid and scalar moment of inertia
// (about the centroid) of a simple polygon given in winding order, following
// a triangle-fan decomposition from an interior reference point.
func massProperties2D(v [][]float64) (area float64, centroid []float64, inertia float64) {
	n := len(v)
	if n < 3 {
		return 0, []float64{0, 0}, 0
	}

	s := []float64{0, 0}
	for _, p := range v {
		s[0] += p[0]
		s[1] += p[1]
	}
	s[0] /= float64(n)
	s[1] /= float64(n)

	const k_inv3 = 1.0 / 3.0
	center := []float64{0, 0}
	I := 0.0

	for i := 0; i < n; i++ {
		e1 := []float64{v[i][0] - s[0], v[i][1] - s[1]}
		j := (i + 1) % n
		e2 := []float64{v[j][0] - s[0], v[j][1] - s[1]}

		d := e1[0]*e2[1] - e1[1]*e2[0] // cross(e1, e2)
		triArea := 0.5 * d
		area += triArea

		center[0] += triArea * k_inv3 * (e1[0] + e2[0])
		center[1] += triArea * k_inv3 * (e1[1] + e2[1])

		ex1, ey1, ex2, ey2 := e1[0], e1[1], e2[0], e2[1]
		intx2 := ex1*ex1 + ex2*ex1 + ex2*ex2
		inty2 := ey1*ey1 + ey2*ey1 + ey2*ey2
		I += (0.25 * k_inv3 * d) * (intx2 + inty2)
	}

	if math.Abs(area) < 1e-12 {
		return area, []float64{s[0], s[1]}, 0
	}

	center[0] /= area
	center[1] /= area
	centroid = []float64{s[0] + center[0], s[1] + center[1]}

	// Shift inertia from the reference point s to the centroid.
	I -= area * (center[0]*center[0] + center[1]*center[1])

	return area, centroid, I
}

// massProperties3D computes the volume, centroid and 3x3 moment-of-inertia
// tensor (about the centroid) of a closed triangulated surface by signed
// tetrahedral decomposition from the origin, using the standard divergence
// theorem formulas for polyhedral mass properties.
func massProperties3D(v [][]float64, faces [][3]int) (volume float64, centroid []float64, inertia [3][3]float64) {
	var vol, cx, cy, cz float64
	var Ixx, Iyy, Izz, Ixy, Ixz, Iyz float64

	sumSq := func(arr [4]float64) float64 {
		total := 0.0
		for i := 0; i < 4; i++ {
			for j := i; j < 4; j++ {
				total += arr[i] * arr[j]
			}
		}
		return total
	}
	sumCross := func(u, w [4]float64) float64 {
		total := 0.0
		for i := 0; i < 4; i++ {
			for j := 0; j < 4; j++ {
				if i == j {
					total += 2 * u[i] * w[j]
				} else {
					total += u[i] * w[j]
				}
			}
		}
		return total
	}

	for _, f := range faces {
		a := mgl64.Vec3{v[f[0]][0], v[f[0]][1], v[f[0]][2]}
		b := mgl64.Vec3{v[f[1]][0], v[f[1]][1], v[f[1]][2]}
		c := mgl64.Vec3{v[f[2]][0], v[f[2]][1], v[f[2]][2]}

		// Signed volume of the tetrahedron (origin, a, b, c).
		detJ := mgl64.Mat3FromCols(a, b, c).Det()
		tetVol := detJ / 6.0
		vol += tetVol

		sum := a.Add(b).Add(c).Mul(tetVol / 4.0)
		cx += sum.X()
		cy += sum.Y()
		cz += sum.Z()

		// Tonon's closed-form tetrahedron inertia tensor (one vertex at
		// the origin), accumulated about the origin and shifted to the
		// centroid once the total volume is known.
		xs := [4]float64{0, a.X(), b.X(), c.X()}
		ys := [4]float64{0, a.Y(), b.Y(), c.Y()}
		zs := [4]float64{0, a.Z(), b.Z(), c.Z()}

		diag := detJ / 60.0
		prod := detJ / 120.0
		Ixx += diag * (sumSq(ys) + sumSq(zs))
		Iyy += diag * (sumSq(xs) + sumSq(zs))
		Izz += diag * (sumSq(xs) + sumSq(ys))
		Ixy += prod * sumCross(xs, ys)
		Ixz += prod * sumCross(xs, zs)
		Iyz += prod * sumCross(ys, zs)
	}

	if math.Abs(vol) < 1e-12 {
		return vol, []float64{0, 0, 0}, inertia
	}

	centroid = []float64{cx / vol, cy / vol, cz / vol}

	// Parallel axis shift from origin to centroid: I_c = I_o - m*(shift).
	m := vol
	dx, dy, dz := centroid[0], centroid[1], centroid[2]
	Ixx -= m * (dy*dy + dz*dz)
	Iyy -= m * (dx*dx + dz*dz)
	Izz -= m * (dx*dx + dy*dy)
	Ixy -= m * dx * dy
	Ixz -= m * dx * dz
	Iyz -= m * dy * dz

	inertia = [3][3]float64{
		{Ixx, -Ixy, -Ixz},
		{-Ixy, Iyy, -Iyz},
		{-Ixz, -Iyz, Izz},
	}
	return vol, centroid, inertia
}
