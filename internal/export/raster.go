package export

import (
	"image"
	"image/color"

	"github.com/san-kum/rigsim/internal/viz"
	"golang.org/x/image/draw"
)

// Snapshot rasterizes a wireframe.
type Snapshot struct {
	Width, Height int
	// Supersample renders at this multiple of the output size and filters
	// down, which smooths the lines.
	Supersample int
	// Thickness is the line width in output pixels.
	Thickness float64
	Theme     viz.Theme
}

func DefaultSnapshot() Snapshot {
	return Snapshot{Width: 800, Height: 600, Supersample: 3, Thickness: 1.5, Theme: viz.ThemeHarbor}
}

// Render draws wf as seen by cam.
func (s Snapshot) Render(wf *viz.Wireframe, cam *viz.Camera) (*image.NRGBA, error) {
	ss := max(s.Supersample, 1)
	w, h := s.Width*ss, s.Height*ss

	bg, err := viz.RGBA(s.Theme.Background)
	if err != nil {
		return nil, err
	}
	palette := map[viz.EdgeKind]color.RGBA{}
	for _, k := range []viz.EdgeKind{viz.Bone, viz.Constraint, viz.Axis} {
		if palette[k], err = viz.RGBA(s.Theme.Edge(k)); err != nil {
			return nil, err
		}
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	radius := max(int(s.Thickness*float64(ss)/2), 0)
	for _, seg := range wf.Project(cam, w, h) {
		line(img, seg.X1, seg.Y1, seg.X2, seg.Y2, radius, palette[seg.Kind])
	}

	if ss == 1 {
		out := image.NewNRGBA(img.Bounds())
		draw.Draw(out, out.Bounds(), img, image.Point{}, draw.Src)
		return out, nil
	}
	return Downsample(img, s.Width, s.Height), nil
}

// Downsample filters an opaque image down to w x h with Catmull-Rom.
func Downsample(src image.Image, w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// line stamps a square brush of the given radius along the segment.
func line(img *image.RGBA, x0, y0, x1, y1, r int, c color.RGBA) {
	dx, dy := x1-x0, y1-y0
	steps := max(abs(dx), abs(dy), 1)
	for i := 0; i <= steps; i++ {
		x := x0 + dx*i/steps
		y := y0 + dy*i/steps
		for by := -r; by <= r; by++ {
			for bx := -r; bx <= r; bx++ {
				if image.Pt(x+bx, y+by).In(img.Rect) {
					img.SetRGBA(x+bx, y+by, c)
				}
			}
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
