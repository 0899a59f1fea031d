package analysis

import (
	"strings"
)

type Point struct{ X, Y float64 }

// Portrait is one channel plotted against another, sample by sample.
type Portrait struct {
	XLabel, YLabel string
	Points         []Point
}

// NewPortrait pairs x and y samples up to the shorter series.
func NewPortrait(xLabel string, x []float64, yLabel string, y []float64) *Portrait {
	n := min(len(x), len(y))
	p := &Portrait{XLabel: xLabel, YLabel: yLabel, Points: make([]Point, n)}
	for i := range n {
		p.Points[i] = Point{x[i], y[i]}
	}
	return p
}

type bounds struct{ minX, maxX, minY, maxY float64 }

// padded returns the bounds of pts widened by a tenth on each side.
func padded(pts []Point) bounds {
	b := bounds{pts[0].X, pts[0].X, pts[0].Y, pts[0].Y}
	for _, p := range pts {
		b.minX, b.maxX = min(b.minX, p.X), max(b.maxX, p.X)
		b.minY, b.maxY = min(b.minY, p.Y), max(b.maxY, p.Y)
	}
	pad := func(lo, hi float64) (float64, float64) {
		r := hi - lo
		if r == 0 {
			r = 1
		}
		return lo - r*0.1, hi + r*0.1
	}
	b.minX, b.maxX = pad(b.minX, b.maxX)
	b.minY, b.maxY = pad(b.minY, b.maxY)
	return b
}

func (b bounds) cell(p Point, width, height int) (row, col int) {
	col = int((p.X - b.minX) / (b.maxX - b.minX) * float64(width-1))
	row = height - 1 - int((p.Y-b.minY)/(b.maxY-b.minY)*float64(height-1))
	return row, col
}

// PortraitToASCII plots the portrait on a width x height character grid,
// with axes where zero is in view and the channel names underneath.
func PortraitToASCII(portrait *Portrait, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}
	b := padded(portrait.Points)

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}
	for _, p := range portrait.Points {
		row, col := b.cell(p, width, height)
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	zeroRow, zeroCol := b.cell(Point{}, width, height)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			if canvas[row][col] != ' ' {
				continue
			}
			switch {
			case col == zeroCol && b.minX <= 0 && b.maxX >= 0:
				canvas[row][col] = '│'
			case row == zeroRow && b.minY <= 0 && b.maxY >= 0:
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	sb.WriteString("x: " + portrait.XLabel + "  y: " + portrait.YLabel + "\n")
	return sb.String()
}
