package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigsim/internal/xform"
)

// Node is a named transform in a tree. Its local transform is relative to its
// parent; a nil parent means world space.
//
// Every "other" argument below names the reference frame a value is measured
// in. A nil other means world space.
//
// Reads never mutate, so concurrent readers are safe as long as no goroutine
// writes to the node or any of its ancestors.
type Node struct {
	name     string
	parent   *Node
	children []*Node
	local    xform.Transform
}

func NewRoot(name string) *Node {
	return &Node{name: name, local: xform.Identity()}
}

func (n *Node) Name() string               { return n.name }
func (n *Node) Parent() *Node              { return n.parent }
func (n *Node) Children() []*Node          { return n.children }
func (n *Node) Local() xform.Transform     { return n.local }
func (n *Node) SetLocal(t xform.Transform) { n.local = t }

// Attach creates a child with the given local transform.
func (n *Node) Attach(name string, local xform.Transform) *Node {
	c := &Node{name: name, parent: n, local: local}
	n.children = append(n.children, c)
	return c
}

// AttachNew creates a child with an identity local transform.
func (n *Node) AttachNew(name string) *Node {
	return n.Attach(name, xform.Identity())
}

// AttachFrame creates a child whose world transform equals from's current
// world transform.
func (n *Node) AttachFrame(name string, from *Node) *Node {
	c := n.AttachNew(name)
	c.CopyWorld(from)
	return c
}

// CopyWorld sets the node's local transform so that its world transform
// matches from's.
func (n *Node) CopyWorld(from *Node) {
	n.local = xform.FromMatrix(n.parentInverse().Mul4(from.NetMatrix()))
}

// Reparent moves the node under p keeping its local transform.
func (n *Node) Reparent(p *Node) error {
	if p != nil && (p == n || n.IsAncestorOf(p)) {
		return ErrCycle
	}
	n.detach()
	n.parent = p
	if p != nil {
		p.children = append(p.children, n)
	}
	return nil
}

// WrtReparent moves the node under p keeping its world transform.
func (n *Node) WrtReparent(p *Node) error {
	net := n.NetMatrix()
	if err := n.Reparent(p); err != nil {
		return err
	}
	n.local = xform.FromMatrix(n.parentInverse().Mul4(net))
	return nil
}

func (n *Node) IsAncestorOf(o *Node) bool {
	for p := o.parent; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

func (n *Node) detach() {
	if n.parent == nil {
		return
	}
	siblings := n.parent.children
	for i, c := range siblings {
		if c == n {
			n.parent.children = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
	n.parent = nil
}

// NetMatrix is the node's world matrix.
func (n *Node) NetMatrix() mgl64.Mat4 {
	m := n.local.Matrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.local.Matrix().Mul4(m)
	}
	return m
}

func (n *Node) parentInverse() mgl64.Mat4 {
	if n.parent == nil {
		return mgl64.Ident4()
	}
	return n.parent.NetMatrix().Inv()
}

func netOf(other *Node) mgl64.Mat4 {
	if other == nil {
		return mgl64.Ident4()
	}
	return other.NetMatrix()
}

// RelativeMatrix returns the node's matrix expressed in other's frame.
func (n *Node) RelativeMatrix(other *Node) mgl64.Mat4 {
	if other == n.parent {
		return n.local.Matrix()
	}
	return netOf(other).Inv().Mul4(n.NetMatrix())
}

// Transform returns the node's transform expressed in other's frame.
func (n *Node) Transform(other *Node) xform.Transform {
	if other == n.parent {
		return n.local
	}
	return xform.FromMatrix(n.RelativeMatrix(other))
}

// SetTransform sets the node so that its transform in other's frame equals t.
func (n *Node) SetTransform(other *Node, t xform.Transform) {
	if other == n.parent {
		n.local = t
		return
	}
	n.local = xform.FromMatrix(n.parentInverse().Mul4(netOf(other)).Mul4(t.Matrix()))
}

func (n *Node) Pos(other *Node) mgl64.Vec3 {
	if other == n.parent {
		return n.local.Pos
	}
	return n.RelativeMatrix(other).Col(3).Vec3()
}

// SetPos moves the node so its origin sits at v in other's frame, leaving the
// rotation and scale untouched.
func (n *Node) SetPos(other *Node, v mgl64.Vec3) {
	if other == n.parent {
		n.local.Pos = v
		return
	}
	m := n.parentInverse().Mul4(netOf(other))
	n.local.Pos = mgl64.TransformCoordinate(v, m)
}

// HPR returns heading, pitch, roll in degrees relative to other.
func (n *Node) HPR(other *Node) mgl64.Vec3 {
	return n.Transform(other).HPR()
}

func (n *Node) SetHPR(other *Node, hpr mgl64.Vec3) {
	n.SetRot(other, xform.FromHPR(hpr))
}

func (n *Node) SetRot(other *Node, q mgl64.Quat) {
	if other == n.parent {
		n.local.Rot = q
		return
	}
	t := n.Transform(other)
	t.Rot = q
	n.SetTransform(other, t)
}

func (n *Node) Scale(other *Node) mgl64.Vec3 {
	return n.Transform(other).Scale
}

func (n *Node) SetScale(other *Node, s mgl64.Vec3) {
	if other == n.parent {
		n.local.Scale = s
		return
	}
	t := n.Transform(other)
	t.Scale = s
	n.SetTransform(other, t)
}

// Distance is the world-space distance between the two node origins.
func (n *Node) Distance(other *Node) float64 {
	return n.NetMatrix().Col(3).Vec3().Sub(other.NetMatrix().Col(3).Vec3()).Len()
}

// LookAt rotates the node so its +Y axis points at target's origin and its +Z
// axis leans toward up, given in the parent's frame. Position and scale are
// kept. On ErrDegenerateAim the node is left unchanged.
func (n *Node) LookAt(target *Node, up mgl64.Vec3) error {
	p := target.Pos(n.parent)
	q, ok := xform.LookRotation(p.Sub(n.local.Pos), up)
	if !ok {
		return ErrDegenerateAim
	}
	n.local.Rot = q
	return nil
}

// Find returns the first descendant with the given name, depth first.
func (n *Node) Find(name string) *Node {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
		if f := c.Find(name); f != nil {
			return f
		}
	}
	return nil
}
