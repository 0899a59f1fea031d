package xform

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Transform is a decomposed affine transform: scale, then rotation, then translation.
type Transform struct {
	Pos   mgl64.Vec3
	Rot   mgl64.Quat
	Scale mgl64.Vec3
}

func Identity() Transform {
	return Transform{Rot: mgl64.QuatIdent(), Scale: mgl64.Vec3{1, 1, 1}}
}

// New builds a transform from a position, an HPR rotation in degrees and a scale.
func New(pos, hpr, scale mgl64.Vec3) Transform {
	return Transform{Pos: pos, Rot: FromHPR(hpr), Scale: scale}
}

func (t Transform) HPR() mgl64.Vec3 { return ToHPR(t.Rot) }

// Matrix returns T * R * S.
func (t Transform) Matrix() mgl64.Mat4 {
	tr := mgl64.Translate3D(t.Pos[0], t.Pos[1], t.Pos[2])
	sc := mgl64.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2])
	return tr.Mul4(t.Rot.Normalize().Mat4()).Mul4(sc)
}

// FromMatrix decomposes an affine matrix. Shear is discarded: the rotation is
// the Gram-Schmidt orthonormalization of the basis columns and the scale is
// each column's extent along the orthonormal axes. A mirrored basis is folded
// into a negative X scale.
func FromMatrix(m mgl64.Mat4) Transform {
	pos := m.Col(3).Vec3()
	cx, cy, cz := m.Col(0).Vec3(), m.Col(1).Vec3(), m.Col(2).Vec3()

	sx := cx.Len()
	if sx < Epsilon {
		return Transform{Pos: pos, Rot: mgl64.QuatIdent(), Scale: mgl64.Vec3{sx, cy.Len(), cz.Len()}}
	}
	if cx.Cross(cy).Dot(cz) < 0 {
		sx = -sx
	}
	ax := cx.Mul(1 / sx)

	py := cy.Sub(ax.Mul(cy.Dot(ax)))
	sy := py.Len()
	var ay mgl64.Vec3
	if sy < Epsilon {
		ay = perpendicular(ax)
	} else {
		ay = py.Mul(1 / sy)
	}
	az := ax.Cross(ay)
	sz := cz.Dot(az)

	rot := mgl64.Mat4FromCols(ax.Vec4(0), ay.Vec4(0), az.Vec4(0), mgl64.Vec4{0, 0, 0, 1})
	return Transform{
		Pos:   pos,
		Rot:   mgl64.Mat4ToQuat(rot).Normalize(),
		Scale: mgl64.Vec3{sx, sy, sz},
	}
}

// ApproxEqual compares two transforms by their matrices so that q and -q match.
func (t Transform) ApproxEqual(o Transform, eps float64) bool {
	return MatNear(t.Matrix(), o.Matrix(), eps)
}

// VecNear reports whether no component of a and b differs by more than eps.
// Unlike mgl64's ApproxEqualThreshold the tolerance is absolute, so values
// near zero compare sanely.
func VecNear(a, b mgl64.Vec3, eps float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

// MatNear is VecNear for every matrix entry.
func MatNear(a, b mgl64.Mat4, eps float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

// QuatNear reports whether a and b are the same rotation within eps, treating
// q and -q as equal.
func QuatNear(a, b mgl64.Quat, eps float64) bool {
	return 1-math.Abs(a.Normalize().Dot(b.Normalize())) <= eps
}

func perpendicular(v mgl64.Vec3) mgl64.Vec3 {
	ref := mgl64.Vec3{0, 0, 1}
	if math.Abs(v.Dot(ref)) > 0.9 {
		ref = mgl64.Vec3{0, 1, 0}
	}
	return ref.Sub(v.Mul(ref.Dot(v))).Normalize()
}
