package gui

import (
	"github.com/charmbracelet/lipgloss"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigsim/internal/viz"
)

// toRL maps the rig's Z-up world into raylib's Y-up one, keeping it
// right-handed.
func toRL(v mgl64.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v[0]), float32(v[2]), float32(-v[1]))
}

type palette struct {
	bg, text, muted, accent rl.Color
	edges                   [3]rl.Color
}

func newPalette(t viz.Theme) (palette, error) {
	var p palette
	for _, c := range []struct {
		dst *rl.Color
		src lipgloss.Color
	}{
		{&p.bg, t.Background},
		{&p.text, t.Text},
		{&p.muted, t.Muted},
		{&p.accent, t.Accent},
		{&p.edges[viz.Bone], t.Bone},
		{&p.edges[viz.Constraint], t.Constraint},
		{&p.edges[viz.Axis], t.Axis},
	} {
		rgba, err := viz.RGBA(c.src)
		if err != nil {
			return p, err
		}
		*c.dst = rl.NewColor(rgba.R, rgba.G, rgba.B, rgba.A)
	}
	return p, nil
}

// drawWireframe draws edges as 3D lines; zero-length edges become joints.
func drawWireframe(wf *viz.Wireframe, p palette, constraints bool) {
	for _, e := range wf.Edges {
		if e.Kind == viz.Constraint && !constraints {
			continue
		}
		col := p.edges[e.Kind]
		if e.A == e.B {
			rl.DrawSphere(toRL(e.A), 0.12, col)
			continue
		}
		rl.DrawLine3D(toRL(e.A), toRL(e.B), col)
	}
}

// drawDeck outlines the hull footprint and the masts at the model root.
func drawDeck(root mgl64.Vec3, length, beam float64, masts []float64, col rl.Color) {
	corners := []mgl64.Vec3{
		{-beam, -length / 2, 0}, {beam, -length / 2, 0},
		{beam, length / 3, 0}, {0, length / 2, 0}, {-beam, length / 3, 0},
	}
	for i := range corners {
		a := root.Add(corners[i])
		b := root.Add(corners[(i+1)%len(corners)])
		rl.DrawLine3D(toRL(a), toRL(b), col)
	}
	for _, y := range masts {
		rl.DrawCircle3D(toRL(root.Add(mgl64.Vec3{0, y, 0})), 0.4, rl.NewVector3(1, 0, 0), 90, col)
	}
}
