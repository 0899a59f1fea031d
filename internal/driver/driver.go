// Package driver steers a ship's yard controls from pointer input and
// evaluates the rig armatures once per tick.
package driver

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigsim/internal/rig"
	"github.com/san-kum/rigsim/internal/scene"
	"github.com/san-kum/rigsim/internal/ship"
	"golang.org/x/sync/errgroup"
)

// MinScale is the smallest yard control scale the scale action allows.
const MinScale = 1.0 / 32

// Delta is one tick of pointer input: X and Y are the pointer motion in
// window units and Wheel the wheel clicks.
type Delta struct {
	X, Y, Wheel float64
}

func (d Delta) IsZero() bool { return d == Delta{} }

type Options struct {
	// Position places the model root in the world.
	Position    mgl64.Vec3
	Sensitivity float64
	// Workers bounds concurrent armature evaluation; zero or less means no bound.
	Workers int
	Logger  *slog.Logger
}

// Driver owns one ship model and its armatures.
type Driver struct {
	world  *scene.Node
	model  *scene.Model
	layout ship.Layout
	arms   map[string]*rig.Armature
	names  []string
	sel    Selection
	opts   Options
	ticks  int
	log    *slog.Logger
}

// New instantiates skel in a fresh world and binds one armature per yard of
// the layout.
func New(skel *scene.Skeleton, layout ship.Layout, opts Options) (*Driver, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Sensitivity == 0 {
		opts.Sensitivity = 1
	}
	if opts.Workers <= 0 {
		opts.Workers = -1
	}

	world := scene.NewRoot("render")
	model, err := scene.NewModel(world, skel)
	if err != nil {
		return nil, err
	}
	model.Root().SetPos(nil, opts.Position)

	d := &Driver{
		world:  world,
		model:  model,
		layout: layout,
		arms:   make(map[string]*rig.Armature),
		names:  layout.Prefixes(),
		sel:    DefaultSelection(),
		opts:   opts,
		log:    opts.Logger,
	}
	for _, name := range d.names {
		arm, err := rig.New(name, model, model.Root(), rig.WithLogger(opts.Logger))
		if err != nil {
			return nil, fmt.Errorf("armature %s: %w", name, err)
		}
		d.arms[name] = arm
	}
	d.log.Info("ship rigged", "model", model.Name(), "armatures", len(d.arms), "joints", model.Controlled())
	return d, nil
}

func (d *Driver) World() *scene.Node       { return d.world }
func (d *Driver) Model() *scene.Model      { return d.model }
func (d *Driver) Layout() ship.Layout      { return d.layout }
func (d *Driver) Names() []string          { return d.names }
func (d *Driver) Selection() Selection     { return d.sel }
func (d *Driver) Select(s Selection)       { d.sel = s }
func (d *Driver) Ticks() int               { return d.ticks }
func (d *Driver) Sensitivity() float64     { return d.opts.Sensitivity }
func (d *Driver) SetSensitivity(s float64) { d.opts.Sensitivity = s }

func (d *Driver) Armature(name string) (*rig.Armature, error) {
	arm, ok := d.arms[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownArmature, name)
	}
	return arm, nil
}

// Steer applies one tick of pointer input to every selected yard control.
func (d *Driver) Steer(delta Delta) {
	if delta.IsZero() {
		return
	}
	s := d.opts.Sensitivity
	for _, name := range d.sel.Prefixes(d.layout) {
		arm, ok := d.arms[name]
		if !ok {
			continue
		}
		ctl := arm.Control()
		switch d.sel.Action {
		case Rotate:
			r := ctl.LocalRot()
			ctl.SetLocalRot(mgl64.Vec3{
				r[0] + delta.X*40*s,
				r[1] + delta.Wheel*4*s,
				r[2] + delta.Y*40*s,
			}, rig.All)
		case Move:
			p := ctl.LocalPos()
			ctl.SetLocalPos(mgl64.Vec3{
				p[0] - delta.Wheel*0.2*s,
				p[1] - delta.X*2*s,
				p[2] - delta.Y*2*s,
			})
		case Scale:
			sc := ctl.LocalScale()
			for i := range sc {
				sc[i] = math.Max(MinScale, sc[i]+delta.Wheel*0.02*s)
			}
			ctl.SetLocalScale(sc, rig.All)
		}
	}
}

// Tick evaluates every dirty armature and then poses the skeleton. It
// returns how many armatures were evaluated.
func (d *Driver) Tick(ctx context.Context) (int, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.opts.Workers)

	var evaluated atomic.Int64
	for _, name := range d.names {
		arm := d.arms[name]
		if !arm.Dirty() {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			arm.Evaluate()
			evaluated.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	n := int(evaluated.Load())
	if n > 0 {
		d.model.Sync()
	}
	d.ticks++
	d.log.Debug("tick", "tick", d.ticks, "evaluated", n)
	return n, nil
}

// Sample is one bone pose of one armature at a tick.
type Sample struct {
	Tick     int
	Armature string
	rig.Pose
}

// Snapshot returns the pose of every bone of every armature.
func (d *Driver) Snapshot() []Sample {
	out := make([]Sample, 0, len(d.names)*int(rig.NumRoles))
	for _, name := range d.names {
		for _, p := range d.arms[name].Snapshot() {
			out = append(out, Sample{Tick: d.ticks, Armature: name, Pose: p})
		}
	}
	return out
}
