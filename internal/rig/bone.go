package rig

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigsim/internal/scene"
	"github.com/san-kum/rigsim/internal/xform"
)

// Frame names the reference frame a bone value is read or written in.
type Frame int

const (
	// Origin is the bone's rest pose; values there are displacements from rest.
	Origin Frame = iota
	// Root is the armature root.
	Root
	// Parent is the proxy's transform parent.
	Parent
)

func (f Frame) String() string {
	switch f {
	case Origin:
		return "origin"
	case Root:
		return "root"
	case Parent:
		return "parent"
	default:
		return fmt.Sprintf("Frame(%d)", int(f))
	}
}

// BoneControl drives one joint through a proxy node and measures it against
// an origin frame captured at bind time.
type BoneControl struct {
	name   string
	proxy  *scene.Node
	origin *scene.Node
	parent *BoneControl
	arm    *Armature
	rest   map[*BoneControl]float64
}

// Bone is a BoneControl that a rig variant may not have. The zero value is Absent.
type Bone struct {
	ctl *BoneControl
}

var Absent Bone

func (b Bone) Get() (*BoneControl, bool) { return b.ctl, b.ctl != nil }
func (b Bone) Present() bool             { return b.ctl != nil }

// bind takes control of joint. A joint the model does not have yields Absent.
func bind(arm *Armature, joint string, parent *BoneControl) (Bone, error) {
	proxy, ok := arm.model.ControlJoint(joint)
	if !ok {
		return Absent, nil
	}

	originParent := arm.model.Root()
	if parent != nil {
		if err := proxy.WrtReparent(parent.proxy); err != nil {
			return Absent, fmt.Errorf("bind %s under %s: %w", joint, parent.name, err)
		}
		originParent = parent.origin
	}

	return Bone{&BoneControl{
		name:   joint,
		proxy:  proxy,
		origin: originParent.AttachFrame(joint+"-origin", proxy),
		parent: parent,
		arm:    arm,
		rest:   make(map[*BoneControl]float64),
	}}, nil
}

func (b *BoneControl) Name() string        { return b.name }
func (b *BoneControl) Proxy() *scene.Node  { return b.proxy }
func (b *BoneControl) Origin() *scene.Node { return b.origin }

func (b *BoneControl) frame(f Frame) *scene.Node {
	switch f {
	case Origin:
		return b.origin
	case Root:
		return b.arm.root
	default:
		return b.proxy.Parent()
	}
}

func (b *BoneControl) Pos(f Frame) mgl64.Vec3   { return b.proxy.Pos(b.frame(f)) }
func (b *BoneControl) Rot(f Frame) mgl64.Vec3   { return b.proxy.HPR(b.frame(f)) }
func (b *BoneControl) Scale(f Frame) mgl64.Vec3 { return b.proxy.Scale(b.frame(f)) }

func (b *BoneControl) SetPos(f Frame, v mgl64.Vec3) {
	b.arm.touch()
	b.proxy.SetPos(b.frame(f), v)
}

// SetRot writes heading, pitch, roll in degrees. Components outside m keep
// their current value in the same frame. Kept components are read back as
// HPR, so at pitch ±90 the current roll has already been folded into heading
// and a masked write keeps heading and roll only as that pair.
func (b *BoneControl) SetRot(f Frame, hpr mgl64.Vec3, m Mask) {
	b.arm.touch()
	if m == None {
		return
	}
	ref := b.frame(f)
	if m != All {
		hpr = m.merge(b.proxy.HPR(ref), hpr)
	}
	b.proxy.SetHPR(ref, hpr)
}

func (b *BoneControl) SetScale(f Frame, s mgl64.Vec3, m Mask) {
	b.arm.touch()
	if m == None {
		return
	}
	ref := b.frame(f)
	if m != All {
		s = m.merge(b.proxy.Scale(ref), s)
	}
	b.proxy.SetScale(ref, s)
}

func (b *BoneControl) LocalPos() mgl64.Vec3    { return b.Pos(Origin) }
func (b *BoneControl) LocalRot() mgl64.Vec3    { return b.Rot(Origin) }
func (b *BoneControl) LocalScale() mgl64.Vec3  { return b.Scale(Origin) }
func (b *BoneControl) GlobalPos() mgl64.Vec3   { return b.Pos(Root) }
func (b *BoneControl) GlobalRot() mgl64.Vec3   { return b.Rot(Root) }
func (b *BoneControl) GlobalScale() mgl64.Vec3 { return b.Scale(Root) }

func (b *BoneControl) SetLocalPos(v mgl64.Vec3)            { b.SetPos(Origin, v) }
func (b *BoneControl) SetLocalRot(r mgl64.Vec3, m Mask)    { b.SetRot(Origin, r, m) }
func (b *BoneControl) SetLocalScale(s mgl64.Vec3, m Mask)  { b.SetScale(Origin, s, m) }
func (b *BoneControl) SetGlobalPos(v mgl64.Vec3)           { b.SetPos(Root, v) }
func (b *BoneControl) SetGlobalRot(r mgl64.Vec3, m Mask)   { b.SetRot(Root, r, m) }
func (b *BoneControl) SetGlobalScale(s mgl64.Vec3, m Mask) { b.SetScale(Root, s, m) }

// Track aims the proxy's +Y axis at target with parent +Z as the up hint.
func (b *BoneControl) Track(target *BoneControl) bool {
	return b.TrackUp(target, xform.AxisZ)
}

// TrackUp aims the proxy's +Y axis at target, rolling +Z toward up (parent
// frame). A target sitting on the bone leaves the orientation as it was and
// reports false.
func (b *BoneControl) TrackUp(target *BoneControl, up mgl64.Vec3) bool {
	b.arm.touch()
	if err := b.proxy.LookAt(target.proxy, up); err != nil {
		b.arm.degenerate(b, target, err)
		return false
	}
	return true
}

// StretchTo tracks target and scales the proxy's Y axis by the ratio of the
// current distance to the rest distance between the two origin frames.
func (b *BoneControl) StretchTo(target *BoneControl) {
	if !b.Track(target) {
		return
	}
	rest := b.RestDistance(target)
	if rest < xform.Epsilon {
		b.arm.degenerate(b, target, ErrZeroRestDistance)
		return
	}
	ref := b.proxy.Parent()
	s := b.proxy.Scale(ref)
	s[1] = b.proxy.Distance(target.proxy) / rest
	b.proxy.SetScale(ref, s)
}

// RestDistance is the distance between the origin frames of b and target,
// computed on first use.
func (b *BoneControl) RestDistance(target *BoneControl) float64 {
	d, ok := b.rest[target]
	if !ok {
		d = b.origin.Distance(target.origin)
		b.rest[target] = d
	}
	return d
}
