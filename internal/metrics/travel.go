package metrics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigsim/internal/driver"
	"github.com/san-kum/rigsim/internal/rig"
)

// ControlTravel is the mean distance the yard controls moved per tick,
// summed over armatures.
type ControlTravel struct {
	name    string
	last    map[string]mgl64.Vec3
	sum     float64
	samples int
}

func NewControlTravel() *ControlTravel {
	return &ControlTravel{
		name: "control_travel",
		last: make(map[string]mgl64.Vec3),
	}
}

func (c *ControlTravel) Name() string {
	return c.name
}

func (c *ControlTravel) Observe(samples []driver.Sample) {
	moved := false
	for _, smp := range samples {
		if smp.Role != rig.YardControl {
			continue
		}
		if prev, ok := c.last[smp.Armature]; ok {
			c.sum += smp.Pos.Sub(prev).Len()
			moved = true
		}
		c.last[smp.Armature] = smp.Pos
	}
	if moved {
		c.samples++
	}
}

func (c *ControlTravel) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlTravel) Reset() {
	clear(c.last)
	c.sum = 0
	c.samples = 0
}
