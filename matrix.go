package easel

import "math"

// DegToRad converts degrees to radians when multiplied.
const DegToRad = math.Pi / 180

// Matrix2D is a 2D affine transform:
//
//	| A  C  TX |
//	| B  D  TY |
//	| 0  0   1 |
//
// so that a point transforms as x' = A*x + C*y + TX, y' = B*x + D*y + TY
// (the HTML canvas convention). Alongside the six coefficients it
// accumulates the visual attributes that are inherited down the display
// list: opacity, shadow and composite mode.
//
// Matrix2D is mutable and is used as a scratch accumulator during draw
// traversal — each node reuses one instance per frame to avoid
// allocation. Callers must not retain a reference across frames without
// calling Clone.
type Matrix2D struct {
	A, B, C, D, TX, TY float64

	// Inherited visual attributes.
	Alpha       float64
	Shadow      *Shadow
	CompositeOp CompositeOp
}

// NewMatrix2D returns an identity matrix with Alpha 1 and no
// shadow/composite mode.
func NewMatrix2D() *Matrix2D {
	return &Matrix2D{A: 1, D: 1, Alpha: 1}
}

// Identity resets the matrix to the identity transform and clears the
// visual attributes.
func (m *Matrix2D) Identity() *Matrix2D {
	m.A, m.B, m.C, m.D, m.TX, m.TY = 1, 0, 0, 1, 0, 0
	m.Alpha = 1
	m.Shadow = nil
	m.CompositeOp = ""
	return m
}

// IsIdentity reports whether the six affine coefficients form the
// identity transform. Visual attributes are not considered.
func (m *Matrix2D) IsIdentity() bool {
	return m.A == 1 && m.B == 0 && m.C == 0 && m.D == 1 && m.TX == 0 && m.TY == 0
}

// Append composes the given transform after this one: the argument is
// applied to points after the existing transform. Used when accumulating
// in document order (parent first, then the child's local transform).
func (m *Matrix2D) Append(a, b, c, d, tx, ty float64) *Matrix2D {
	a1, b1, c1, d1 := m.A, m.B, m.C, m.D
	if a != 1 || b != 0 || c != 0 || d != 1 {
		m.A = a1*a + c1*b
		m.B = b1*a + d1*b
		m.C = a1*c + c1*d
		m.D = b1*c + d1*d
	}
	m.TX = a1*tx + c1*ty + m.TX
	m.TY = b1*tx + d1*ty + m.TY
	return m
}

// Prepend composes the given transform before this one: the argument is
// applied to points before the existing transform. Used when walking a
// parent chain outward from a leaf toward the root.
func (m *Matrix2D) Prepend(a, b, c, d, tx, ty float64) *Matrix2D {
	a1, b1, c1, d1, tx1, ty1 := m.A, m.B, m.C, m.D, m.TX, m.TY
	m.A = a*a1 + c*b1
	m.B = b*a1 + d*b1
	m.C = a*c1 + c*d1
	m.D = b*c1 + d*d1
	m.TX = a*tx1 + c*ty1 + tx
	m.TY = b*tx1 + d*ty1 + ty
	return m
}

// AppendMatrix appends the six coefficients of o and merges its visual
// attributes with append precedence.
func (m *Matrix2D) AppendMatrix(o *Matrix2D) *Matrix2D {
	m.Append(o.A, o.B, o.C, o.D, o.TX, o.TY)
	return m.AppendProperties(o.Alpha, o.Shadow, o.CompositeOp)
}

// PrependMatrix prepends the six coefficients of o and merges its visual
// attributes with prepend precedence.
func (m *Matrix2D) PrependMatrix(o *Matrix2D) *Matrix2D {
	m.Prepend(o.A, o.B, o.C, o.D, o.TX, o.TY)
	return m.PrependProperties(o.Alpha, o.Shadow, o.CompositeOp)
}

// transformTrig resolves the rotation trig for a decomposed transform.
// Exact multiples of 360 degrees degenerate to identity without calling
// trig functions, preserving exact coefficients in the common 0-degree
// case.
func transformTrig(rotationDeg float64) (sin, cos float64) {
	if math.Mod(rotationDeg, 360) != 0 {
		return math.Sincos(rotationDeg * DegToRad)
	}
	return 0, 1
}

// AppendTransform appends a node's decomposed transform: registration
// offset, skew, scale, rotation and translation, in the order the
// display list composes them. Angles are in degrees.
func (m *Matrix2D) AppendTransform(x, y, scaleX, scaleY, rotationDeg, skewXDeg, skewYDeg, regX, regY float64) *Matrix2D {
	sin, cos := transformTrig(rotationDeg)

	if skewXDeg != 0 || skewYDeg != 0 {
		skewX := skewXDeg * DegToRad
		skewY := skewYDeg * DegToRad
		m.Append(math.Cos(skewY), math.Sin(skewY), -math.Sin(skewX), math.Cos(skewX), x, y)
		m.Append(cos*scaleX, sin*scaleX, -sin*scaleY, cos*scaleY, 0, 0)
	} else {
		m.Append(cos*scaleX, sin*scaleX, -sin*scaleY, cos*scaleY, x, y)
	}

	if regX != 0 || regY != 0 {
		// Registration is a pre-translation of the local origin.
		m.TX -= regX*m.A + regY*m.C
		m.TY -= regX*m.B + regY*m.D
	}
	return m
}

// PrependTransform prepends a node's decomposed transform. Angles are in
// degrees. Mirrors AppendTransform for ancestor-chain accumulation.
func (m *Matrix2D) PrependTransform(x, y, scaleX, scaleY, rotationDeg, skewXDeg, skewYDeg, regX, regY float64) *Matrix2D {
	sin, cos := transformTrig(rotationDeg)

	if regX != 0 || regY != 0 {
		m.TX -= regX
		m.TY -= regY
	}
	if skewXDeg != 0 || skewYDeg != 0 {
		skewX := skewXDeg * DegToRad
		skewY := skewYDeg * DegToRad
		m.Prepend(cos*scaleX, sin*scaleX, -sin*scaleY, cos*scaleY, 0, 0)
		m.Prepend(math.Cos(skewY), math.Sin(skewY), -math.Sin(skewX), math.Cos(skewX), x, y)
	} else {
		m.Prepend(cos*scaleX, sin*scaleX, -sin*scaleY, cos*scaleY, x, y)
	}
	return m
}

// AppendProperties merges visual attributes with append precedence:
// opacity multiplies, and an incoming non-empty shadow/composite mode
// overrides the accumulated one. This realizes inheritance where a
// child's own value wins over an inherited one.
func (m *Matrix2D) AppendProperties(alpha float64, shadow *Shadow, op CompositeOp) *Matrix2D {
	m.Alpha *= alpha
	if shadow != nil {
		m.Shadow = shadow
	}
	if op != "" {
		m.CompositeOp = op
	}
	return m
}

// PrependProperties merges visual attributes with prepend precedence:
// opacity multiplies, and the accumulated shadow/composite mode wins
// unless it is unset. Used when walking from a leaf toward the root so
// the leaf's own values take priority over ancestors'.
func (m *Matrix2D) PrependProperties(alpha float64, shadow *Shadow, op CompositeOp) *Matrix2D {
	m.Alpha *= alpha
	if m.Shadow == nil {
		m.Shadow = shadow
	}
	if m.CompositeOp == "" {
		m.CompositeOp = op
	}
	return m
}

// Translate appends a translation.
func (m *Matrix2D) Translate(x, y float64) *Matrix2D {
	m.TX += m.A*x + m.C*y
	m.TY += m.B*x + m.D*y
	return m
}

// Scale appends a scale.
func (m *Matrix2D) Scale(x, y float64) *Matrix2D {
	m.A *= x
	m.B *= x
	m.C *= y
	m.D *= y
	return m
}

// Rotate appends a rotation, in degrees.
func (m *Matrix2D) Rotate(angleDeg float64) *Matrix2D {
	sin, cos := transformTrig(angleDeg)
	a1, b1 := m.A, m.B
	m.A = a1*cos + m.C*sin
	m.B = b1*cos + m.D*sin
	m.C = m.C*cos - a1*sin
	m.D = m.D*cos - b1*sin
	return m
}

// Invert inverts the affine transform in place. A singular matrix (any
// axis scaled to zero, determinant A*D-B*C == 0) produces non-finite
// coefficients rather than an error; callers converting coordinates
// through such a matrix get a degenerate result. Visual attributes are
// left untouched.
func (m *Matrix2D) Invert() *Matrix2D {
	a1, b1, c1, d1, tx1 := m.A, m.B, m.C, m.D, m.TX
	det := a1*d1 - b1*c1

	m.A = d1 / det
	m.B = -b1 / det
	m.C = -c1 / det
	m.D = a1 / det
	m.TX = (c1*m.TY - d1*tx1) / det
	m.TY = -(a1*m.TY - b1*tx1) / det
	return m
}

// TransformPoint applies the transform to (x, y).
func (m *Matrix2D) TransformPoint(x, y float64) Point {
	return Point{
		X: m.A*x + m.C*y + m.TX,
		Y: m.B*x + m.D*y + m.TY,
	}
}

// Transform holds the decomposed components of an affine matrix.
// Angles are in degrees.
type Transform struct {
	X, Y           float64
	ScaleX, ScaleY float64
	Rotation       float64
	SkewX, SkewY   float64
}

// Decompose extracts translation, scale magnitudes, and rotation or
// independent x/y skew from the matrix. This is a best-effort inverse of
// AppendTransform: it reproduces an equivalent visual transform, not
// necessarily the original input parameters.
func (m *Matrix2D) Decompose() Transform {
	var t Transform
	t.X = m.TX
	t.Y = m.TY
	t.ScaleX = math.Sqrt(m.A*m.A + m.B*m.B)
	t.ScaleY = math.Sqrt(m.C*m.C + m.D*m.D)

	skewX := math.Atan2(-m.C, m.D)
	skewY := math.Atan2(m.B, m.A)

	if skewX == skewY {
		// Pure rotation. atan2 leaves a sign ambiguity when the x axis is
		// mirrored; correct by a half turn.
		t.Rotation = skewY / DegToRad
		if m.A < 0 && m.D >= 0 {
			if t.Rotation <= 0 {
				t.Rotation += 180
			} else {
				t.Rotation -= 180
			}
		}
	} else {
		t.SkewX = skewX / DegToRad
		t.SkewY = skewY / DegToRad
	}
	return t
}

// Clone returns an independent copy of the matrix, including visual
// attributes. The Shadow pointer is shared (shadows are treated as
// immutable descriptors).
func (m *Matrix2D) Clone() *Matrix2D {
	o := *m
	return &o
}

// CopyFrom overwrites this matrix with o's coefficients and visual
// attributes.
func (m *Matrix2D) CopyFrom(o *Matrix2D) *Matrix2D {
	*m = *o
	return m
}
