package metrics

import (
	"math"

	"github.com/san-kum/rigsim/internal/driver"
	"github.com/san-kum/rigsim/internal/rig"
)

// YardSwing is the widest heading range, in degrees, any port yard covered.
// Headings are unwrapped tick to tick, so a swing across ±180° counts as the
// short way round.
type YardSwing struct {
	name   string
	tracks map[string]*headingTrack
}

type headingTrack struct {
	last     float64
	min, max float64
}

func NewYardSwing() *YardSwing {
	return &YardSwing{
		name:   "yard_swing",
		tracks: make(map[string]*headingTrack),
	}
}

func (s *YardSwing) Name() string {
	return s.name
}

func (s *YardSwing) Observe(samples []driver.Sample) {
	for _, smp := range samples {
		if smp.Role != rig.YardL {
			continue
		}
		h := smp.HPR[0]
		tr, ok := s.tracks[smp.Armature]
		if !ok {
			s.tracks[smp.Armature] = &headingTrack{last: h, min: h, max: h}
			continue
		}
		tr.last += wrapDegrees(h - tr.last)
		tr.min = math.Min(tr.min, tr.last)
		tr.max = math.Max(tr.max, tr.last)
	}
}

func (s *YardSwing) Value() float64 {
	widest := 0.0
	for _, tr := range s.tracks {
		widest = math.Max(widest, tr.max-tr.min)
	}
	return widest
}

func (s *YardSwing) Reset() {
	clear(s.tracks)
}

// wrapDegrees maps d into [-180, 180).
func wrapDegrees(d float64) float64 {
	d = math.Mod(d+180, 360)
	if d < 0 {
		d += 360
	}
	return d - 180
}
