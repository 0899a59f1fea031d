package rig

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigsim/internal/scene"
)

// JointSource resolves joints of a skeletal model into control proxies.
type JointSource interface {
	// Root is the model root; proxies without a parent control live under it.
	Root() *scene.Node
	// ControlJoint returns the proxy driving the named joint, or false when
	// the model has no such joint.
	ControlJoint(name string) (*scene.Node, bool)
}

// Armature is the rigging of one yard: a single control bone steers every
// other bone through a fixed constraint pass.
//
// An Armature is not safe for concurrent use. Distinct armatures bound to
// disjoint joints of one model share no mutable state.
type Armature struct {
	name  string
	model JointSource
	root  *scene.Node
	bones [NumRoles]Bone
	log   *slog.Logger

	dirty   bool
	passes  int
	skipped int
}

type Option func(*Armature)

func WithLogger(l *slog.Logger) Option {
	return func(a *Armature) { a.log = l }
}

// New binds the armature named prefix to the model's joints. Global values
// are measured against root. Missing optional bones select a simpler brace
// variant; missing required bones are an error.
func New(prefix string, model JointSource, root *scene.Node, opts ...Option) (*Armature, error) {
	a := &Armature{
		name:  prefix,
		model: model,
		root:  root,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.With("armature", prefix)

	for r := Role(0); r < NumRoles; r++ {
		var parent *BoneControl
		if pr, ok := r.Parent(); ok {
			parent = a.bones[pr].ctl
		}
		b, err := bind(a, JointName(prefix, r), parent)
		if err != nil {
			return nil, err
		}
		if roleTable[r].required && !b.Present() {
			return nil, fmt.Errorf("%w: %s", ErrMissingRequiredBone, JointName(prefix, r))
		}
		a.bones[r] = b
	}

	for _, s := range Sides {
		if err := a.checkSide(s); err != nil {
			return nil, err
		}
	}

	a.dirty = false
	return a, nil
}

func (a *Armature) checkSide(s Side) error {
	r := braceRoles[s]
	var need []Role
	if a.bones[r.pole].Present() {
		need = []Role{r.topControl, r.bottomControl, r.lowerTop, r.lowerBottom}
	} else {
		need = []Role{r.control}
	}
	for _, role := range need {
		if !a.bones[role].Present() {
			return fmt.Errorf("%w: %s side %s lacks %s", ErrInconsistentVariant, a.name, s, JointName(a.name, role))
		}
	}
	return nil
}

func (a *Armature) Name() string { return a.name }

func (a *Armature) Bone(r Role) Bone { return a.bones[r] }

// Control is the bone a driver steers.
func (a *Armature) Control() *BoneControl { return a.bones[YardControl].ctl }

// Dirty reports whether a bone changed since the last evaluation pass.
func (a *Armature) Dirty() bool { return a.dirty }

// Passes counts completed evaluation passes.
func (a *Armature) Passes() int { return a.passes }

// Degenerate counts aim and stretch constraints skipped for degenerate geometry.
func (a *Armature) Degenerate() int { return a.skipped }

// Variant reports which brace branch the evaluation pass takes for side s.
func (a *Armature) Variant(s Side) Variant {
	r := braceRoles[s]
	switch {
	case a.bones[r.pole].Present():
		return Pole
	case a.bones[r.lower].Present():
		return TwoTier
	default:
		return Direct
	}
}

func (a *Armature) touch() { a.dirty = true }

func (a *Armature) degenerate(b, target *BoneControl, err error) {
	a.skipped++
	a.log.Warn("constraint skipped", "bone", b.name, "target", target.name, "err", err)
}

// Pose is a bone's transform in the armature root frame.
type Pose struct {
	Role  Role
	Bone  string
	Pos   mgl64.Vec3
	HPR   mgl64.Vec3
	Scale mgl64.Vec3
}

// Snapshot returns the global pose of every present bone in role order.
func (a *Armature) Snapshot() []Pose {
	poses := make([]Pose, 0, NumRoles)
	for r, b := range a.bones {
		c, ok := b.Get()
		if !ok {
			continue
		}
		t := c.proxy.Transform(a.root)
		poses = append(poses, Pose{
			Role:  Role(r),
			Bone:  c.name,
			Pos:   t.Pos,
			HPR:   t.HPR(),
			Scale: t.Scale,
		})
	}
	return poses
}

// Link connects two bones for drawing: either a parent and child, or a
// constrained bone and the bone it aims at.
type Link struct {
	From, To   Role
	Constraint bool
}

// Links lists the hierarchy and constraint edges of the present bones.
func (a *Armature) Links() []Link {
	links := make([]Link, 0, NumRoles+8)
	for r := Role(0); r < NumRoles; r++ {
		p, ok := r.Parent()
		if ok && a.bones[r].Present() && a.bones[p].Present() {
			links = append(links, Link{From: p, To: r})
		}
	}
	links = append(links,
		Link{From: YardL, To: YardFrameTailL, Constraint: true},
		Link{From: YardR, To: YardFrameTailR, Constraint: true},
	)
	for _, s := range Sides {
		r := braceRoles[s]
		switch a.Variant(s) {
		case Pole:
			links = append(links,
				Link{From: r.upper, To: r.pole, Constraint: true},
				Link{From: r.lowerTop, To: r.topControl, Constraint: true},
				Link{From: r.lowerBottom, To: r.bottomControl, Constraint: true},
			)
		case TwoTier:
			links = append(links, Link{From: r.lower, To: r.control, Constraint: true})
		default:
			links = append(links, Link{From: r.upper, To: r.control, Constraint: true})
		}
	}
	return links
}
