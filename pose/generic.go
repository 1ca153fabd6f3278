package pose

import "github.com/alecjacobson/rigid-ipc/numeric"

// lift turns a literal float64 into the scalar path T, using T's own
// FromFloat method as the constructor (works for both numeric.F64 and
// interval.Interval without either package importing the other).
func lift[T numeric.Scalar[T]](x float64) T {
	var zero T
	return zero.FromFloat(x)
}

// sweepScalar returns p0 + t*(p1-p0), evaluated in the scalar path T. When
// T is interval.Interval and t is an interval of times, the result encloses
// every value the double evaluation could take for t in that interval.
func sweepScalar[T numeric.Scalar[T]](p0, p1 float64, t T) T {
	disp := lift[T](p1 - p0)
	return lift[T](p0).Add(t.Mul(disp))
}

// Sweep2 lifts a pair of 2D poses and a time scalar into the generic
// position/rotation values needed to evaluate a linearly swept world
// vertex between them.
func Sweep2[T numeric.Scalar[T]](p0, p1 Pose, t T) (position [2]T, theta T) {
	position[0] = sweepScalar[T](p0.Position[0], p1.Position[0], t)
	position[1] = sweepScalar[T](p0.Position[1], p1.Position[1], t)
	theta = sweepScalar[T](p0.Rotation[0], p1.Rotation[0], t)
	return
}

// Sweep3 is the 3D analogue of Sweep2.
func Sweep3[T numeric.Scalar[T]](p0, p1 Pose, t T) (position [3]T, rotation [3]T) {
	for d := 0; d < 3; d++ {
		position[d] = sweepScalar[T](p0.Position[d], p1.Position[d], t)
	}
	for d := 0; d < 3; d++ {
		rotation[d] = sweepScalar[T](p0.Rotation[d], p1.Rotation[d], t)
	}
	return
}

// WorldVertex2 maps a single body-local 2D vertex through a pose evaluated
// in the scalar path T: R(theta)*v + position.
func WorldVertex2[T numeric.Scalar[T]](v [2]float64, position [2]T, theta T) numeric.Vec2[T] {
	local := numeric.Vec2[T]{X: lift[T](v[0]), Y: lift[T](v[1])}
	r := RotationMatrix2(theta)
	return r.MulVec(local).Add(numeric.Vec2[T]{X: position[0], Y: position[1]})
}

// WorldVertex3 maps a single body-local 3D vertex through a pose evaluated
// in the scalar path T: R(rotation)*v + position.
func WorldVertex3[T numeric.Scalar[T]](v [3]float64, position [3]T, rotation [3]T) numeric.Vec3[T] {
	local := numeric.Vec3[T]{X: lift[T](v[0]), Y: lift[T](v[1]), Z: lift[T](v[2])}
	r := RotationMatrix3(rotation)
	return r.MulVec(local).Add(numeric.Vec3[T]{X: position[0], Y: position[1], Z: position[2]})
}
