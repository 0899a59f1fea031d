package rig

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigsim/internal/xform"
)

var unitScale = mgl64.Vec3{1, 1, 1}

// Update runs an evaluation pass if any bone changed since the last one and
// reports whether it did.
func (a *Armature) Update() bool {
	if !a.dirty {
		return false
	}
	a.Evaluate()
	return true
}

// Evaluate runs the constraint pass unconditionally. Each step reads state
// written by the steps before it, so the order is fixed.
func (a *Armature) Evaluate() {
	ctl := a.bones[YardControl].ctl

	// the band follows yaw and pitch of the control, never its roll
	a.bones[Band].ctl.SetLocalRot(ctl.LocalRot(), Mask{true, true, false})

	bandFrame := a.bones[BandFrame].ctl
	bandFrame.SetLocalRot(ctl.LocalRot(), All)
	bandFrame.SetLocalPos(ctl.LocalPos())

	pivot := a.bones[YardFrameTail].ctl.GlobalPos()
	a.bones[YardL].ctl.SetGlobalPos(pivot)
	a.bones[YardR].ctl.SetGlobalPos(pivot)

	a.bones[ScaleFrame].ctl.SetGlobalScale(ctl.GlobalScale(), All)
	a.bones[YardFrameL].ctl.SetLocalScale(unitScale, All)
	a.bones[YardFrameR].ctl.SetLocalScale(unitScale, All)

	a.bones[YardL].ctl.Track(a.bones[YardFrameTailL].ctl)
	a.bones[YardR].ctl.Track(a.bones[YardFrameTailR].ctl)

	for _, s := range Sides {
		a.evaluateBrace(braceRoles[s])
	}

	a.dirty = false
	a.passes++
	a.log.Debug("evaluated", "pass", a.passes)
}

func (a *Armature) evaluateBrace(r sideRoles) {
	upper := a.bones[r.upper].ctl

	if pole, ok := a.bones[r.pole].Get(); ok {
		top := a.bones[r.topControl].ctl
		bottom := a.bones[r.bottomControl].ctl
		pole.SetGlobalPos(top.GlobalPos().Add(bottom.GlobalPos()).Mul(0.5))
		pole.SetLocalRot(xform.LerpHPR(top.LocalRot(), bottom.LocalRot(), 0.5), All)
		upper.Track(pole)
		a.bones[r.lowerTop].ctl.StretchTo(top)
		a.bones[r.lowerBottom].ctl.StretchTo(bottom)
		return
	}

	target := a.bones[r.control].ctl
	if lower, ok := a.bones[r.lower].Get(); ok {
		upper.Track(target)
		lower.StretchTo(target)
		return
	}
	upper.StretchTo(target)
}
