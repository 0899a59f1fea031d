package metrics

import (
	"math"

	"github.com/san-kum/rigsim/internal/driver"
	"github.com/san-kum/rigsim/internal/rig"
)

// stretchRoles are the brace bones that stretch toward a control in at least
// one brace variant. Yards only track, so their scale never moves.
var stretchRoles = map[rig.Role]bool{
	rig.BraceUpperL:       true,
	rig.BraceUpperR:       true,
	rig.BraceLowerL:       true,
	rig.BraceLowerR:       true,
	rig.BraceLowerTopL:    true,
	rig.BraceLowerTopR:    true,
	rig.BraceLowerBottomL: true,
	rig.BraceLowerBottomR: true,
}

// Stretch is the largest relative length change of any stretching bone.
type Stretch struct {
	name string
	peak float64
}

func NewStretch() *Stretch {
	return &Stretch{name: "max_stretch"}
}

func (s *Stretch) Name() string { return s.name }

func (s *Stretch) Observe(samples []driver.Sample) {
	for _, smp := range samples {
		if stretchRoles[smp.Role] {
			s.peak = math.Max(s.peak, math.Abs(smp.Scale[1]-1))
		}
	}
}

func (s *Stretch) Value() float64 { return s.peak }

func (s *Stretch) Reset() { s.peak = 0 }
