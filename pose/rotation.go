package pose

import (
	"github.com/alecjacobson/rigid-ipc/numeric"
)

// RotationMatrix2 returns R(theta) = [[cos theta, -sin theta], [sin theta,
// cos theta]], generic over the evaluation scalar so the same code drives
// both the concrete double path and interval evaluation of a sweeping pose.
func RotationMatrix2[T numeric.Scalar[T]](theta T) numeric.Mat2[T] {
	c, s := theta.Cos(), theta.Sin()
	return numeric.Mat2[T]{
		Ex: numeric.Vec2[T]{X: c, Y: s},
		Ey: numeric.Vec2[T]{X: s.Neg(), Y: c},
	}
}

// RotationMatrixGradient2 returns dR/dtheta = [[-sin theta, -cos theta],
// [cos theta, -sin theta]], the single 2D rotational gradient matrix.
func RotationMatrixGradient2(theta float64) numeric.Mat2[numeric.F64] {
	c, s := numeric.F64(theta).Cos(), numeric.F64(theta).Sin()
	return numeric.Mat2[numeric.F64]{
		Ex: numeric.Vec2[numeric.F64]{X: s.Neg(), Y: c},
		Ey: numeric.Vec2[numeric.F64]{X: c.Neg(), Y: s.Neg()},
	}
}

// RotationMatrixHessian2 returns the single 2D Hessian entry:
// d2R/dtheta2 = -R(theta).
func RotationMatrixHessian2(theta float64) numeric.Mat2[numeric.F64] {
	r := RotationMatrix2(numeric.F64(theta))
	return numeric.Mat2[numeric.F64]{Ex: r.Ex.Neg(), Ey: r.Ey.Neg()}
}

// rx, ry, rz build the elementary single-axis 3D rotation matrices, generic
// over the evaluation scalar, stored by columns.
func rx[T numeric.Scalar[T]](theta T) numeric.Mat3[T] {
	zero, one := theta.FromFloat(0), theta.FromFloat(1)
	c, s := theta.Cos(), theta.Sin()
	return numeric.Mat3[T]{
		Ex: numeric.Vec3[T]{X: one, Y: zero, Z: zero},
		Ey: numeric.Vec3[T]{X: zero, Y: c, Z: s},
		Ez: numeric.Vec3[T]{X: zero, Y: s.Neg(), Z: c},
	}
}

func ry[T numeric.Scalar[T]](theta T) numeric.Mat3[T] {
	zero, one := theta.FromFloat(0), theta.FromFloat(1)
	c, s := theta.Cos(), theta.Sin()
	return numeric.Mat3[T]{
		Ex: numeric.Vec3[T]{X: c, Y: zero, Z: s.Neg()},
		Ey: numeric.Vec3[T]{X: zero, Y: one, Z: zero},
		Ez: numeric.Vec3[T]{X: s, Y: zero, Z: c},
	}
}

func rz[T numeric.Scalar[T]](theta T) numeric.Mat3[T] {
	zero, one := theta.FromFloat(0), theta.FromFloat(1)
	c, s := theta.Cos(), theta.Sin()
	return numeric.Mat3[T]{
		Ex: numeric.Vec3[T]{X: c, Y: s, Z: zero},
		Ey: numeric.Vec3[T]{X: s.Neg(), Y: c, Z: zero},
		Ez: numeric.Vec3[T]{X: zero, Y: zero, Z: one},
	}
}

// RotationMatrix3 returns R = Rz(gamma) * Ry(beta) * Rx(alpha), generic
// over the evaluation scalar, with rotation = (alpha, beta, gamma).
func RotationMatrix3[T numeric.Scalar[T]](rotation [3]T) numeric.Mat3[T] {
	alpha, beta, gamma := rotation[0], rotation[1], rotation[2]
	return rz(gamma).MulMat(ry(beta)).MulMat(rx(alpha))
}

// Single-axis derivative matrices (float64-only; the analytic Jacobian is
// the production path, autodiff agreement is a test property).
func dRx(theta float64) numeric.Mat3[numeric.F64] {
	c, s := numeric.F64(theta).Cos(), numeric.F64(theta).Sin()
	zero := numeric.F64(0)
	return numeric.Mat3[numeric.F64]{
		Ex: numeric.Vec3[numeric.F64]{X: zero, Y: zero, Z: zero},
		Ey: numeric.Vec3[numeric.F64]{X: zero, Y: s.Neg(), Z: c},
		Ez: numeric.Vec3[numeric.F64]{X: zero, Y: c.Neg(), Z: s.Neg()},
	}
}

func dRy(theta float64) numeric.Mat3[numeric.F64] {
	c, s := numeric.F64(theta).Cos(), numeric.F64(theta).Sin()
	zero := numeric.F64(0)
	return numeric.Mat3[numeric.F64]{
		Ex: numeric.Vec3[numeric.F64]{X: s.Neg(), Y: zero, Z: c.Neg()},
		Ey: numeric.Vec3[numeric.F64]{X: zero, Y: zero, Z: zero},
		Ez: numeric.Vec3[numeric.F64]{X: c, Y: zero, Z: s.Neg()},
	}
}

func dRz(theta float64) numeric.Mat3[numeric.F64] {
	c, s := numeric.F64(theta).Cos(), numeric.F64(theta).Sin()
	zero := numeric.F64(0)
	return numeric.Mat3[numeric.F64]{
		Ex: numeric.Vec3[numeric.F64]{X: s.Neg(), Y: c, Z: zero},
		Ey: numeric.Vec3[numeric.F64]{X: c.Neg(), Y: s.Neg(), Z: zero},
		Ez: numeric.Vec3[numeric.F64]{X: zero, Y: zero, Z: zero},
	}
}

// RotationMatrixGradient3 returns the three dR/dtheta_i matrices,
// dR/dalpha = Rz*Ry*dRx, dR/dbeta = Rz*dRy*Rx, dR/dgamma = dRz*Ry*Rx.
func RotationMatrixGradient3(rotation [3]float64) [3]numeric.Mat3[numeric.F64] {
	alpha, beta, gamma := rotation[0], rotation[1], rotation[2]
	Rx, Ry, Rz := rx(numeric.F64(alpha)), ry(numeric.F64(beta)), rz(numeric.F64(gamma))
	return [3]numeric.Mat3[numeric.F64]{
		Rz.MulMat(Ry).MulMat(dRx(alpha)),
		Rz.MulMat(dRy(beta)).MulMat(Rx),
		dRz(gamma).MulMat(Ry).MulMat(Rx),
	}
}

// RotationMatrixHessian3 returns the symmetric 3x3 block of Hessian
// matrices d2R/dtheta_i dtheta_j. Diagonal entries use -Rz*Ry*Rx;
// off-diagonals combine one single-gradient factor per angle.
func RotationMatrixHessian3(rotation [3]float64) [3][3]numeric.Mat3[numeric.F64] {
	alpha, beta, gamma := rotation[0], rotation[1], rotation[2]
	Rx, Ry, Rz := rx(numeric.F64(alpha)), ry(numeric.F64(beta)), rz(numeric.F64(gamma))
	dRxv, dRyv, dRzv := dRx(alpha), dRy(beta), dRz(gamma)
	negR := func(m numeric.Mat3[numeric.F64]) numeric.Mat3[numeric.F64] {
		return numeric.Mat3[numeric.F64]{Ex: m.Ex.MulScalar(-1), Ey: m.Ey.MulScalar(-1), Ez: m.Ez.MulScalar(-1)}
	}
	R := Rz.MulMat(Ry).MulMat(Rx)

	var H [3][3]numeric.Mat3[numeric.F64]
	H[0][0] = negR(R)
	H[1][1] = negR(R)
	H[2][2] = negR(R)
	H[0][1] = Rz.MulMat(dRyv).MulMat(dRxv)
	H[1][0] = H[0][1]
	H[0][2] = dRzv.MulMat(Ry).MulMat(dRxv)
	H[2][0] = H[0][2]
	H[1][2] = dRzv.MulMat(dRyv).MulMat(Rx)
	H[2][1] = H[1][2]
	return H
}
