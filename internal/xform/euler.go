package xform

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the tolerance used for degenerate lengths and gimbal detection.
const Epsilon = 1e-9

var (
	AxisX = mgl64.Vec3{1, 0, 0}
	AxisY = mgl64.Vec3{0, 1, 0}
	AxisZ = mgl64.Vec3{0, 0, 1}
)

// FromHPR converts heading, pitch, roll in degrees to a quaternion.
// The frame is Z-up and Y-forward: heading turns about +Z, pitch about +X and
// roll about +Y, applied roll first, heading last.
func FromHPR(hpr mgl64.Vec3) mgl64.Quat {
	h := mgl64.QuatRotate(mgl64.DegToRad(hpr[0]), AxisZ)
	p := mgl64.QuatRotate(mgl64.DegToRad(hpr[1]), AxisX)
	r := mgl64.QuatRotate(mgl64.DegToRad(hpr[2]), AxisY)
	return h.Mul(p).Mul(r).Normalize()
}

// ToHPR is the inverse of FromHPR. At gimbal lock (pitch of +-90) roll is
// folded into heading.
func ToHPR(q mgl64.Quat) mgl64.Vec3 {
	m := q.Normalize().Mat4()
	sp := clamp(m.At(2, 1), -1, 1)
	p := math.Asin(sp)

	var h, r float64
	if math.Abs(sp) < 1-Epsilon {
		h = math.Atan2(-m.At(0, 1), m.At(1, 1))
		r = math.Atan2(-m.At(2, 0), m.At(2, 2))
	} else {
		h = math.Atan2(m.At(1, 0), m.At(0, 0))
	}
	return mgl64.Vec3{mgl64.RadToDeg(h), mgl64.RadToDeg(p), mgl64.RadToDeg(r)}
}

// AimHPR returns the HPR whose forward (+Y) axis points along dir with zero roll.
func AimHPR(dir mgl64.Vec3) mgl64.Vec3 {
	h := math.Atan2(-dir[0], dir[1])
	p := math.Atan2(dir[2], math.Hypot(dir[0], dir[1]))
	return mgl64.Vec3{mgl64.RadToDeg(h), mgl64.RadToDeg(p), 0}
}

// LookRotation builds the rotation whose +Y axis is forward and whose +Z axis
// is as close to up as possible. It reports false when forward has no length.
// When forward is parallel to up, +Y and then +X are tried as the up reference.
func LookRotation(forward, up mgl64.Vec3) (mgl64.Quat, bool) {
	if forward.Len() < Epsilon {
		return mgl64.QuatIdent(), false
	}
	f := forward.Normalize()

	var right mgl64.Vec3
	for _, ref := range []mgl64.Vec3{up, AxisY, AxisX} {
		if ref.Len() < Epsilon {
			continue
		}
		right = f.Cross(ref.Normalize())
		if right.Len() > 1e-6 {
			break
		}
	}
	right = right.Normalize()
	u := right.Cross(f)

	m := mgl64.Mat4FromCols(right.Vec4(0), f.Vec4(0), u.Vec4(0), mgl64.Vec4{0, 0, 0, 1})
	return mgl64.Mat4ToQuat(m).Normalize(), true
}

// LerpHPR averages two HPR triples componentwise.
func LerpHPR(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
