package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/rigsim/internal/analysis"
	"github.com/san-kum/rigsim/internal/viz"
)

const svgHeader = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`

// WireframeSVG draws the projected wireframe as line segments, farthest
// first, colored per edge kind.
func WireframeSVG(wf *viz.Wireframe, cam *viz.Camera, theme viz.Theme, width, height int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, width, height, width, height, theme.Background)

	for _, s := range wf.Project(cam, width, height) {
		stroke := 1.5
		if s.Kind == viz.Axis {
			stroke = 1
		}
		fmt.Fprintf(&sb, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="%.1f" stroke-linecap="round"/>`+"\n",
			s.X1, s.Y1, s.X2, s.Y2, theme.Edge(s.Kind), stroke)
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// CanvasToSVG converts a braille canvas to one circle per lit dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64, theme viz.Theme) string {
	if canvas == nil {
		return ""
	}

	pw, ph := canvas.Pixels()
	width, height := int(float64(pw)*scale), int(float64(ph)*scale)

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, width, height, width, height, theme.Background)
	fmt.Fprintf(&sb, "<g fill=\"%s\">\n", theme.Bone)

	r := scale * 0.4
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			if canvas.IsSet(x, y) {
				fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
					(float64(x)+0.5)*scale, (float64(y)+0.5)*scale, r)
			}
		}
	}

	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}

// PortraitToSVG draws the portrait as a polyline scaled to fill the image.
func PortraitToSVG(p *analysis.Portrait, width, height int, theme viz.Theme) string {
	if p == nil || len(p.Points) < 2 {
		return ""
	}

	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		minX, maxX = min(minX, pt.X), max(maxX, pt.X)
		minY, maxY = min(minY, pt.Y), max(maxY, pt.Y)
	}
	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX, minY = minX-rangeX*0.1, minY-rangeY*0.1
	rangeX, rangeY = rangeX*1.2, rangeY*1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, width, height, width, height, theme.Background)
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, theme.Constraint)
	for i, pt := range p.Points {
		x := (pt.X - minX) / rangeX * float64(width)
		y := float64(height) - (pt.Y-minY)/rangeY*float64(height)
		cmd := " L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&sb, "%s%.1f,%.1f", cmd, x, y)
	}
	sb.WriteString("\"/>\n")
	fmt.Fprintf(&sb, `<text x="8" y="%d" fill="%s" font-family="monospace" font-size="12">%s vs %s</text>`+"\n",
		height-8, theme.Muted, p.YLabel, p.XLabel)
	sb.WriteString("</svg>\n")
	return sb.String()
}
