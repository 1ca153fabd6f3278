package numeric

// Vec2 is a generic 2D column vector, parametrized over a Scalar so the
// same arithmetic runs under float64 and interval.Interval.
type Vec2[T Scalar[T]] struct {
	X, Y T
}

func (v Vec2[T]) Add(o Vec2[T]) Vec2[T] { return Vec2[T]{v.X.Add(o.X), v.Y.Add(o.Y)} }
func (v Vec2[T]) Sub(o Vec2[T]) Vec2[T] { return Vec2[T]{v.X.Sub(o.X), v.Y.Sub(o.Y)} }
func (v Vec2[T]) MulScalar(s T) Vec2[T] { return Vec2[T]{v.X.Mul(s), v.Y.Mul(s)} }
func (v Vec2[T]) Neg() Vec2[T]          { return Vec2[T]{v.X.Neg(), v.Y.Neg()} }

// Dot2 performs the dot product of two vectors.
func Dot2[T Scalar[T]](a, b Vec2[T]) T {
	return a.X.Mul(b.X).Add(a.Y.Mul(b.Y))
}

// Cross2 performs the 2D cross product, producing a scalar.
func Cross2[T Scalar[T]](a, b Vec2[T]) T {
	return a.X.Mul(b.Y).Sub(a.Y.Mul(b.X))
}

// SquaredNorm2 returns the squared Euclidean norm.
func SquaredNorm2[T Scalar[T]](v Vec2[T]) T {
	return Dot2(v, v)
}

// Norm2 returns the Euclidean norm via the scalar's own Sqrt, so interval
// evaluation stays within the enclosure contract rather than escaping to
// math.Sqrt on a float64 midpoint.
func Norm2[T Scalar[T]](v Vec2[T]) (T, error) {
	return SquaredNorm2(v).Sqrt()
}

// Skew2 returns the vector such that Dot2(Skew2(v), other) == Cross2(v, other).
func Skew2[T Scalar[T]](v Vec2[T]) Vec2[T] {
	return Vec2[T]{v.Y.Neg(), v.X}
}

// Rotate90CCW rotates a vector 90 degrees counter-clockwise, used to build
// edge normals at the moment of contact.
func Rotate90CCW[T Scalar[T]](v Vec2[T]) Vec2[T] {
	return Vec2[T]{v.Y.Neg(), v.X}
}

// Mat2 is a generic 2x2 matrix stored by columns (Ex, Ey), mirroring
// B2Mat22's column-major layout.
type Mat2[T Scalar[T]] struct {
	Ex, Ey Vec2[T]
}

// MulVec multiplies the matrix by a column vector.
func (m Mat2[T]) MulVec(v Vec2[T]) Vec2[T] {
	return Vec2[T]{
		m.Ex.X.Mul(v.X).Add(m.Ey.X.Mul(v.Y)),
		m.Ex.Y.Mul(v.X).Add(m.Ey.Y.Mul(v.Y)),
	}
}

// Transpose returns the transposed matrix.
func (m Mat2[T]) Transpose() Mat2[T] {
	return Mat2[T]{
		Ex: Vec2[T]{m.Ex.X, m.Ey.X},
		Ey: Vec2[T]{m.Ex.Y, m.Ey.Y},
	}
}

// Vec3 is a generic 3D column vector.
type Vec3[T Scalar[T]] struct {
	X, Y, Z T
}

func (v Vec3[T]) Add(o Vec3[T]) Vec3[T] {
	return Vec3[T]{v.X.Add(o.X), v.Y.Add(o.Y), v.Z.Add(o.Z)}
}
func (v Vec3[T]) Sub(o Vec3[T]) Vec3[T] {
	return Vec3[T]{v.X.Sub(o.X), v.Y.Sub(o.Y), v.Z.Sub(o.Z)}
}
func (v Vec3[T]) MulScalar(s T) Vec3[T] {
	return Vec3[T]{v.X.Mul(s), v.Y.Mul(s), v.Z.Mul(s)}
}

func Dot3[T Scalar[T]](a, b Vec3[T]) T {
	return a.X.Mul(b.X).Add(a.Y.Mul(b.Y)).Add(a.Z.Mul(b.Z))
}

func Cross3[T Scalar[T]](a, b Vec3[T]) Vec3[T] {
	return Vec3[T]{
		a.Y.Mul(b.Z).Sub(a.Z.Mul(b.Y)),
		a.Z.Mul(b.X).Sub(a.X.Mul(b.Z)),
		a.X.Mul(b.Y).Sub(a.Y.Mul(b.X)),
	}
}

func SquaredNorm3[T Scalar[T]](v Vec3[T]) T {
	return Dot3(v, v)
}

func Norm3[T Scalar[T]](v Vec3[T]) (T, error) {
	return SquaredNorm3(v).Sqrt()
}

// Mat3 is a generic 3x3 matrix stored by columns, mirroring B2Mat33.
type Mat3[T Scalar[T]] struct {
	Ex, Ey, Ez Vec3[T]
}

func (m Mat3[T]) MulVec(v Vec3[T]) Vec3[T] {
	return Vec3[T]{
		m.Ex.X.Mul(v.X).Add(m.Ey.X.Mul(v.Y)).Add(m.Ez.X.Mul(v.Z)),
		m.Ex.Y.Mul(v.X).Add(m.Ey.Y.Mul(v.Y)).Add(m.Ez.Y.Mul(v.Z)),
		m.Ex.Z.Mul(v.X).Add(m.Ey.Z.Mul(v.Y)).Add(m.Ez.Z.Mul(v.Z)),
	}
}

// MulMat computes the matrix product m * o (same "A times B columns" idiom
// as B2Mat22Mul).
func (m Mat3[T]) MulMat(o Mat3[T]) Mat3[T] {
	return Mat3[T]{
		Ex: m.MulVec(o.Ex),
		Ey: m.MulVec(o.Ey),
		Ez: m.MulVec(o.Ez),
	}
}

func (m Mat2[T]) MulMat(o Mat2[T]) Mat2[T] {
	return Mat2[T]{
		Ex: m.MulVec(o.Ex),
		Ey: m.MulVec(o.Ey),
	}
}
