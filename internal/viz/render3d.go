package viz

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigsim/internal/xform"
)

// View is a camera preset.
type View int

const (
	// Side looks at the ship from starboard (+X), bow to the right.
	Side View = iota
	// Top looks down the mast.
	Top
	// Front looks aft from ahead of the bow.
	Front
	// Orbit uses the camera's own yaw and pitch.
	Orbit
)

var viewNames = [...]string{"side", "top", "front", "orbit"}

func (v View) String() string {
	if v < 0 || int(v) >= len(viewNames) {
		return fmt.Sprintf("View(%d)", int(v))
	}
	return viewNames[v]
}

func ParseView(s string) (View, error) {
	for i, n := range viewNames {
		if n == s {
			return View(i), nil
		}
	}
	return 0, fmt.Errorf("viz: unknown view %q", s)
}

// Camera orbits a target point. Yaw and Pitch are in degrees; Zoom scales
// the fitted extent.
type Camera struct {
	Target     mgl64.Vec3
	Extent     float64
	Yaw, Pitch float64
	Zoom       float64
	View       View
}

func NewCamera() *Camera {
	return &Camera{Extent: 50, Yaw: 35, Pitch: 20, Zoom: 1}
}

func (c *Camera) Rotate(dyaw, dpitch float64) {
	c.Yaw += dyaw
	c.Pitch = math.Max(-89, math.Min(89, c.Pitch+dpitch))
}

func (c *Camera) ZoomIn()  { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut() { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// direction returns the unit vector from the target to the eye and the up
// vector for the current view.
func (c *Camera) direction() (eye, up mgl64.Vec3) {
	switch c.View {
	case Side:
		return xform.AxisX, xform.AxisZ
	case Top:
		return xform.AxisZ, xform.AxisY
	case Front:
		return xform.AxisY, xform.AxisZ
	}
	// the eye sits along the HPR forward axis, so positive pitch looks down
	q := xform.FromHPR(mgl64.Vec3{c.Yaw, c.Pitch, 0})
	return q.Rotate(xform.AxisY), xform.AxisZ
}

// ViewMatrix maps world coordinates into camera space.
func (c *Camera) ViewMatrix() mgl64.Mat4 {
	dir, up := c.direction()
	eye := c.Target.Add(dir.Mul(c.Extent * 4))
	return mgl64.LookAtV(eye, c.Target, up)
}

// Project maps p onto a w x h pixel grid with an orthographic projection
// sized so that Extent fills the smaller dimension. It returns the pixel,
// the depth along the view axis (larger is farther) and whether the pixel
// is on the grid.
func (c *Camera) Project(p mgl64.Vec3, w, h int) (int, int, float64, bool) {
	v := mgl64.TransformCoordinate(p, c.ViewMatrix())
	scale := float64(min(w, h)) / (2 * c.Extent) * c.Zoom
	x := int(math.Round(v[0]*scale)) + w/2
	y := int(math.Round(-v[1]*scale)) + h/2
	return x, y, -v[2], x >= 0 && x < w && y >= 0 && y < h
}

// Fit centers the camera on the wireframe and sizes it to show every edge.
func (c *Camera) Fit(wf *Wireframe) {
	lo, hi, ok := wf.Bounds()
	if !ok {
		return
	}
	c.Target = lo.Add(hi).Mul(0.5)
	c.Extent = math.Max(hi.Sub(lo).Len()/2*1.05, 1)
}

type EdgeKind int

const (
	// Bone connects a parent bone to its child.
	Bone EdgeKind = iota
	// Constraint connects a constrained bone to its aim target.
	Constraint
	// Axis is a bone's forward stick.
	Axis
)

type Edge struct {
	A, B mgl64.Vec3
	Kind EdgeKind
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe                              { return &Wireframe{} }
func (w *Wireframe) AddEdge(a, b mgl64.Vec3, kind EdgeKind) { w.Edges = append(w.Edges, Edge{a, b, kind}) }
func (w *Wireframe) AddPoint(p mgl64.Vec3, kind EdgeKind)   { w.Edges = append(w.Edges, Edge{p, p, kind}) }
func (w *Wireframe) Clear()                                 { w.Edges = w.Edges[:0] }

// Bounds returns the axis-aligned box around every edge endpoint.
func (w *Wireframe) Bounds() (lo, hi mgl64.Vec3, ok bool) {
	if w == nil || len(w.Edges) == 0 {
		return lo, hi, false
	}
	lo, hi = w.Edges[0].A, w.Edges[0].A
	for _, e := range w.Edges {
		for _, p := range []mgl64.Vec3{e.A, e.B} {
			for i := range 3 {
				lo[i] = math.Min(lo[i], p[i])
				hi[i] = math.Max(hi[i], p[i])
			}
		}
	}
	return lo, hi, true
}

// Segment is an edge in pixel space.
type Segment struct {
	X1, Y1, X2, Y2 int
	Depth          float64
	Kind           EdgeKind
}

// Project returns the segments with at least one end on a w x h grid,
// farthest first.
func (w *Wireframe) Project(cam *Camera, width, height int) []Segment {
	segs := make([]Segment, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.A, width, height)
		x2, y2, d2, v2 := cam.Project(e.B, width, height)
		if v1 || v2 {
			segs = append(segs, Segment{x1, y1, x2, y2, (d1 + d2) / 2, e.Kind})
		}
	}
	sort.SliceStable(segs, func(i, j int) bool { return segs[i].Depth > segs[j].Depth })
	return segs
}

// Render3D draws the wireframe onto the canvas. kinds limits which edges are
// drawn; none means all.
func Render3D(c *Canvas, w *Wireframe, cam *Camera, kinds ...EdgeKind) {
	if c == nil || w == nil || cam == nil {
		return
	}
	pw, ph := c.Pixels()
	for _, s := range w.Project(cam, pw, ph) {
		if len(kinds) > 0 && !containsKind(kinds, s.Kind) {
			continue
		}
		c.DrawLine(s.X1, s.Y1, s.X2, s.Y2)
	}
}

func containsKind(kinds []EdgeKind, k EdgeKind) bool {
	for _, x := range kinds {
		if x == k {
			return true
		}
	}
	return false
}
