// Package ship generates the skeleton of a square-rigged ship: one rig
// armature per yard, named after its mast and sail.
package ship

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigsim/internal/rig"
	"github.com/san-kum/rigsim/internal/scene"
	"github.com/san-kum/rigsim/internal/xform"
)

var (
	Masts = []string{"fore", "main", "mizzen"}
	// Sails from the lowest up. The course is the unnamed lowest sail.
	Sails = []string{"", "top", "topgallant", "royal", "sky"}
)

// Prefix is the armature name of a yard.
func Prefix(mast, sail string) string { return mast + sail }

// SailName maps the user-facing "course" to the unnamed lowest sail.
func SailName(s string) string {
	if s == "course" {
		return ""
	}
	return s
}

type Mast struct {
	Name string
	// Y is the mast's position along the keel; forward is +Y.
	Y float64
	// Scale shrinks yard heights and spans of smaller masts.
	Scale float64
}

type Sail struct {
	Name      string
	Height    float64
	HalfWidth float64
	Variant   rig.Variant
}

type Layout struct {
	Masts []Mast
	Sails []Sail
	// Deck is the height brace controls are belayed at.
	Deck float64
	// Aft is how far behind its mast a brace is belayed.
	Aft float64
}

func DefaultLayout() Layout {
	return Layout{
		Masts: []Mast{
			{Name: "fore", Y: 20, Scale: 0.9},
			{Name: "main", Y: 0, Scale: 1},
			{Name: "mizzen", Y: -18, Scale: 0.75},
		},
		Sails: []Sail{
			{Name: "", Height: 10, HalfWidth: 9, Variant: rig.Pole},
			{Name: "top", Height: 18, HalfWidth: 7, Variant: rig.TwoTier},
			{Name: "topgallant", Height: 25, HalfWidth: 5, Variant: rig.Direct},
			{Name: "royal", Height: 30, HalfWidth: 3.5, Variant: rig.Direct},
			{Name: "sky", Height: 34, HalfWidth: 2.5, Variant: rig.Direct},
		},
		Deck: 3,
		Aft:  6,
	}
}

func brigLayout() Layout {
	l := DefaultLayout()
	l.Masts = []Mast{
		{Name: "fore", Y: 10, Scale: 0.85},
		{Name: "main", Y: -6, Scale: 1},
	}
	l.Sails = l.Sails[:4]
	return l
}

var ErrUnknownShip = errors.New("ship: unknown layout")

var layouts = map[string]func() Layout{
	"frigate": DefaultLayout,
	"brig":    brigLayout,
}

func LayoutFor(name string) (Layout, error) {
	f, ok := layouts[name]
	if !ok {
		return Layout{}, fmt.Errorf("%w: %s", ErrUnknownShip, name)
	}
	return f(), nil
}

func LayoutNames() []string {
	names := make([]string, 0, len(layouts))
	for name := range layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MastNames lists the layout's masts fore to aft.
func (l Layout) MastNames() []string {
	out := make([]string, len(l.Masts))
	for i, m := range l.Masts {
		out[i] = m.Name
	}
	return out
}

// SailNames lists the layout's sails from the lowest up.
func (l Layout) SailNames() []string {
	out := make([]string, len(l.Sails))
	for i, s := range l.Sails {
		out[i] = s.Name
	}
	return out
}

// Prefixes lists every armature of the layout, mast by mast.
func (l Layout) Prefixes() []string {
	out := make([]string, 0, len(l.Masts)*len(l.Sails))
	for _, m := range l.Masts {
		for _, s := range l.Sails {
			out = append(out, Prefix(m.Name, s.Name))
		}
	}
	return out
}

// RigSpec places one yard rig.
type RigSpec struct {
	Prefix string
	// Parent is the joint the rig hangs from; empty means the model root.
	Parent string
	// Base is the point on the mast axis at yard height.
	Base      mgl64.Vec3
	HalfWidth float64
	// Drop and Aft locate the brace controls below and behind the yardarms.
	Drop, Aft float64
	Variant   [2]rig.Variant
}

// Skeleton builds the full ship skeleton for the layout.
func Skeleton(name string, l Layout) (*scene.Skeleton, error) {
	b := newBuilder()
	for _, m := range l.Masts {
		mast := m.Name + "-mast"
		if err := b.add(mast, "", mgl64.Vec3{0, m.Y, 0}); err != nil {
			return nil, err
		}
		for _, s := range l.Sails {
			h := s.Height * m.Scale
			spec := RigSpec{
				Prefix:    Prefix(m.Name, s.Name),
				Parent:    mast,
				Base:      mgl64.Vec3{0, m.Y, h},
				HalfWidth: s.HalfWidth * m.Scale,
				Drop:      h - l.Deck,
				Aft:       l.Aft,
				Variant:   [2]rig.Variant{s.Variant, s.Variant},
			}
			if err := b.rig(spec); err != nil {
				return nil, err
			}
		}
	}
	return b.skeleton(name), nil
}

// RigSkeleton builds a skeleton holding a single rig.
func RigSkeleton(name string, spec RigSpec) (*scene.Skeleton, error) {
	b := newBuilder()
	if err := b.rig(spec); err != nil {
		return nil, err
	}
	return b.skeleton(name), nil
}

// builder lays joints out in model space on a scratch node tree and reads
// back their parent-relative transforms.
type builder struct {
	root  *scene.Node
	nodes map[string]*scene.Node
	order []*scene.Node
	names map[*scene.Node]string
}

func newBuilder() *builder {
	return &builder{
		root:  scene.NewRoot("build"),
		nodes: make(map[string]*scene.Node),
		names: make(map[*scene.Node]string),
	}
}

func (b *builder) add(name, parent string, pos mgl64.Vec3) error {
	if _, dup := b.nodes[name]; dup {
		return fmt.Errorf("%w: %s", scene.ErrDuplicateJoint, name)
	}
	p := b.root
	if parent != "" {
		var ok bool
		if p, ok = b.nodes[parent]; !ok {
			return fmt.Errorf("%w: %s (parent of %s)", scene.ErrUnknownParent, parent, name)
		}
	}
	n := p.AttachNew(name)
	n.SetPos(nil, pos)
	b.nodes[name] = n
	b.names[n] = parent
	b.order = append(b.order, n)
	return nil
}

// aim orients name the way a rig track constraint would.
func (b *builder) aim(name, target string) error {
	if err := b.nodes[name].LookAt(b.nodes[target], xform.AxisZ); err != nil {
		return fmt.Errorf("aim %s at %s: %w", name, target, err)
	}
	return nil
}

func (b *builder) skeleton(name string) *scene.Skeleton {
	skel := &scene.Skeleton{Name: name, Joints: make([]scene.JointSpec, 0, len(b.order))}
	for _, n := range b.order {
		t := n.Local()
		skel.Joints = append(skel.Joints, scene.JointSpec{
			Name:   n.Name(),
			Parent: b.names[n],
			Pos:    t.Pos,
			HPR:    t.HPR(),
			Scale:  t.Scale,
		})
	}
	return skel
}

type placement struct {
	role rig.Role
	off  mgl64.Vec3
}

// rigBuild lays out one rig. Offsets are relative to the rig base.
type rigBuild struct {
	*builder
	RigSpec
}

// yardArm is where the yards hinge, just forward of the mast.
var yardArm = mgl64.Vec3{0, 0.6, 0}

func (b *builder) rig(s RigSpec) error {
	r := rigBuild{b, s}
	w := s.HalfWidth

	steps := []placement{{rig.YardControl, mgl64.Vec3{0, 1.5, 0}}}
	for _, side := range rig.Sides {
		ctl, top, bottom := r.controls(side)
		if s.Variant[side] == rig.Pole {
			steps = append(steps,
				placement{sideRole(side, rig.BraceTopControlL), top},
				placement{sideRole(side, rig.BraceBottomControlL), bottom},
			)
			continue
		}
		steps = append(steps, placement{sideRole(side, rig.BraceControlL), ctl})
	}
	steps = append(steps,
		placement{rig.BandFrame, mgl64.Vec3{}},
		placement{rig.YardFrame, mgl64.Vec3{}},
		placement{rig.YardFrameTail, yardArm},
		placement{rig.ScaleFrame, mgl64.Vec3{}},
		placement{rig.YardFrameL, yardArm},
		placement{rig.YardFrameR, yardArm},
		placement{rig.YardFrameTailL, yardArm.Add(mgl64.Vec3{-w, 0, 0})},
		placement{rig.YardFrameTailR, yardArm.Add(mgl64.Vec3{w, 0, 0})},
	)
	for _, side := range rig.Sides {
		if s.Variant[side] == rig.Pole {
			ctl, _, _ := r.controls(side)
			steps = append(steps, placement{sideRole(side, rig.BracePoleL), ctl})
		}
	}
	steps = append(steps, placement{rig.Band, mgl64.Vec3{}})
	for _, st := range steps {
		if err := r.place(st.role, st.off); err != nil {
			return err
		}
	}

	for _, side := range rig.Sides {
		yard := sideRole(side, rig.YardL)
		if err := r.place(yard, yardArm); err != nil {
			return err
		}
		if err := r.aim(yard, sideRole(side, rig.YardFrameTailL)); err != nil {
			return err
		}
	}
	for _, side := range rig.Sides {
		if err := r.brace(side); err != nil {
			return err
		}
	}
	return nil
}

func (r rigBuild) joint(role rig.Role) string { return rig.JointName(r.Prefix, role) }

func (r rigBuild) place(role rig.Role, off mgl64.Vec3) error {
	parent := r.Parent
	if p, ok := role.Parent(); ok {
		parent = r.joint(p)
	}
	return r.add(r.joint(role), parent, r.Base.Add(off))
}

func (r rigBuild) aim(role, target rig.Role) error {
	return r.builder.aim(r.joint(role), r.joint(target))
}

// controls returns the brace belay point of a side and the top and bottom
// control points a pole rig splits it into.
func (r rigBuild) controls(side rig.Side) (ctl, top, bottom mgl64.Vec3) {
	ctl = mgl64.Vec3{side.Sign() * 0.8 * r.HalfWidth, -r.Aft, -r.Drop}
	lift := mgl64.Vec3{0, 0, 0.6}
	return ctl, ctl.Add(lift), ctl.Sub(lift)
}

func (r rigBuild) brace(side rig.Side) error {
	upper := sideRole(side, rig.BraceUpperL)
	yardarm := yardArm.Add(mgl64.Vec3{side.Sign() * 0.95 * r.HalfWidth, 0, 0})
	if err := r.place(upper, yardarm); err != nil {
		return err
	}

	ctl, _, _ := r.controls(side)
	switch r.Variant[side] {
	case rig.Pole:
		if err := r.aim(upper, sideRole(side, rig.BracePoleL)); err != nil {
			return err
		}
		fork := yardarm.Add(ctl.Sub(yardarm).Mul(0.7))
		for _, pair := range [][2]rig.Role{
			{sideRole(side, rig.BraceLowerTopL), sideRole(side, rig.BraceTopControlL)},
			{sideRole(side, rig.BraceLowerBottomL), sideRole(side, rig.BraceBottomControlL)},
		} {
			if err := r.place(pair[0], fork); err != nil {
				return err
			}
			if err := r.aim(pair[0], pair[1]); err != nil {
				return err
			}
		}
		return nil
	case rig.TwoTier:
		control := sideRole(side, rig.BraceControlL)
		if err := r.aim(upper, control); err != nil {
			return err
		}
		lower := sideRole(side, rig.BraceLowerL)
		if err := r.place(lower, yardarm.Add(ctl.Sub(yardarm).Mul(0.5))); err != nil {
			return err
		}
		return r.aim(lower, control)
	default:
		return r.aim(upper, sideRole(side, rig.BraceControlL))
	}
}

// sideRole maps a left-side role to the given side. Left and right roles
// are declared in adjacent pairs.
func sideRole(s rig.Side, left rig.Role) rig.Role {
	return left + rig.Role(s)
}
