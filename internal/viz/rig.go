package viz

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigsim/internal/rig"
	"github.com/san-kum/rigsim/internal/xform"
)

// AxisLength is the length of the forward stick drawn on each bone.
const AxisLength = 0.5

// AddArmature appends the armature's bone hierarchy, its constraint links and
// a forward stick per bone, in the armature root frame.
func (w *Wireframe) AddArmature(arm *rig.Armature) {
	poses := arm.Snapshot()
	at := make(map[rig.Role]rig.Pose, len(poses))
	for _, p := range poses {
		at[p.Role] = p
	}

	for _, l := range arm.Links() {
		a, okA := at[l.From]
		b, okB := at[l.To]
		if !okA || !okB {
			continue
		}
		kind := Bone
		if l.Constraint {
			kind = Constraint
		}
		w.AddEdge(a.Pos, b.Pos, kind)
	}

	for _, p := range poses {
		w.AddEdge(p.Pos, p.Pos.Add(forward(p).Mul(AxisLength*p.Scale[1])), Axis)
	}
}

func forward(p rig.Pose) mgl64.Vec3 {
	return xform.FromHPR(p.HPR).Rotate(xform.AxisY)
}
