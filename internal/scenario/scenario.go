// Package scenario runs scripted steering sequences against a driver.
package scenario

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/san-kum/rigsim/internal/config"
	"github.com/san-kum/rigsim/internal/rig"
	"gopkg.in/yaml.v3"
)

var ErrInvalidStep = errors.New("scenario: invalid step")

// Scenario is a named list of steps. Each step ticks the driver Repeat times.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Ship        string `yaml:"ship,omitempty"`
	Steps       []Step `yaml:"steps"`
}

// Step changes the selection, writes bones directly, or steers. Any
// combination is allowed; they apply in that order before each tick.
type Step struct {
	Select *SelectStep `yaml:"select,omitempty"`
	Delta  *DeltaStep  `yaml:"delta,omitempty"`
	Bone   *BoneStep   `yaml:"bone,omitempty"`
	// Repeat is the number of ticks; zero means one.
	Repeat int `yaml:"repeat,omitempty"`
}

type SelectStep struct {
	Action string `yaml:"action"`
	Mast   string `yaml:"mast"`
	Sail   string `yaml:"sail"`
}

type DeltaStep struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Wheel float64 `yaml:"wheel"`
}

// BoneStep writes a bone's local transform. Mask applies to rotation and
// scale and defaults to all axes.
type BoneStep struct {
	Armature      string      `yaml:"armature"`
	Role          string      `yaml:"role"`
	SetLocalPos   *[3]float64 `yaml:"set_local_pos,omitempty"`
	SetLocalRot   *[3]float64 `yaml:"set_local_rot,omitempty"`
	SetLocalScale *[3]float64 `yaml:"set_local_scale,omitempty"`
	Mask          []bool      `yaml:"mask,omitempty"`

	role rig.Role
	mask rig.Mask
}

func (s Step) ticks() int { return max(s.Repeat, 1) }

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes and validates a scenario.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks what can be checked without a ship: step shape, role
// names and masks. Ship-specific names are checked when the step runs.
func (sc *Scenario) Validate() error {
	if len(sc.Steps) == 0 {
		return fmt.Errorf("%w: no steps", ErrInvalidStep)
	}
	for i := range sc.Steps {
		if err := sc.Steps[i].validate(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

func (s *Step) validate() error {
	if s.Repeat < 0 {
		return fmt.Errorf("%w: negative repeat %d", ErrInvalidStep, s.Repeat)
	}
	if s.Select == nil && s.Delta == nil && s.Bone == nil {
		return fmt.Errorf("%w: empty step", ErrInvalidStep)
	}
	if b := s.Bone; b != nil {
		if b.Armature == "" {
			return fmt.Errorf("%w: bone step without armature", ErrInvalidStep)
		}
		r, err := rig.ParseRole(b.Role)
		if err != nil {
			return err
		}
		b.role = r
		b.mask = rig.All
		if b.Mask != nil {
			if b.mask, err = rig.ParseMask(b.Mask); err != nil {
				return err
			}
		}
	}
	return nil
}

// Ticks is the total number of ticks the scenario runs.
func (sc *Scenario) Ticks() int {
	n := 0
	for _, s := range sc.Steps {
		n += s.ticks()
	}
	return n
}

// FromConfig turns a config's steering settings into a scenario: a sine of
// each configured amplitude over cfg.Steer.Period, for cfg.Ticks ticks.
func FromConfig(cfg *config.Config) *Scenario {
	sc := &Scenario{
		Name:  "steer",
		Ship:  cfg.Ship,
		Steps: make([]Step, cfg.Ticks),
	}
	period := float64(cfg.Steer.Period)
	for i := range sc.Steps {
		w := math.Sin(2 * math.Pi * float64(i) / period)
		sc.Steps[i].Delta = &DeltaStep{
			X:     cfg.Steer.X * w,
			Y:     cfg.Steer.Y * w,
			Wheel: cfg.Steer.Wheel * w,
		}
	}
	if len(sc.Steps) > 0 {
		sc.Steps[0].Select = &SelectStep{
			Action: cfg.Selection.Action,
			Mast:   cfg.Selection.Mast,
			Sail:   cfg.Selection.Sail,
		}
	}
	return sc
}
