package driver

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigsim/internal/ship"
	"github.com/san-kum/rigsim/internal/xform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDriver(t *testing.T, name string) *Driver {
	t.Helper()
	l, err := ship.LayoutFor(name)
	require.NoError(t, err)
	skel, err := ship.Skeleton(name, l)
	require.NoError(t, err)
	d, err := New(skel, l, Options{
		Position: mgl64.Vec3{512, 512, 25},
		Workers:  4,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	return d
}

func TestParseSelection(t *testing.T) {
	l := ship.DefaultLayout()
	tests := []struct {
		action, mast, sail string
		want               []string
		err                error
	}{
		{"rotate", "all", "all", l.Prefixes(), nil},
		{"move", "main", "course", []string{"main"}, nil},
		{"scale", "all", "royal", []string{"foreroyal", "mainroyal", "mizzenroyal"}, nil},
		{"spin", "all", "all", nil, ErrUnknownAction},
		{"rotate", "bowsprit", "all", nil, ErrUnknownMast},
		{"rotate", "all", "moonraker", nil, ErrUnknownSail},
	}

	for _, tt := range tests {
		sel, err := ParseSelection(l, tt.action, tt.mast, tt.sail)
		if tt.err != nil {
			assert.ErrorIs(t, err, tt.err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, sel.Prefixes(l))
	}
}

func TestSelectionString(t *testing.T) {
	assert.Equal(t, "move main/course", Selection{Action: Move, Mast: "main", Sail: ""}.String())
}

func TestNewPlacesModel(t *testing.T) {
	d := newDriver(t, "brig")
	assert.Len(t, d.Names(), 8)
	assert.True(t, xform.VecNear(d.Model().Root().Pos(nil), mgl64.Vec3{512, 512, 25}, 1e-9))

	_, err := d.Armature("mainroyal")
	assert.NoError(t, err)
	_, err = d.Armature("mizzenroyal")
	assert.ErrorIs(t, err, ErrUnknownArmature)
}

func TestTickEvaluatesOnlySteered(t *testing.T) {
	d := newDriver(t, "frigate")
	ctx := context.Background()

	n, err := d.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	d.Select(Selection{Action: Rotate, Mast: "main", Sail: Any})
	d.Steer(Delta{X: 0.1})
	n, err = d.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(ship.Sails), n)
	assert.Equal(t, 2, d.Ticks())

	for _, name := range d.Names() {
		arm, _ := d.Armature(name)
		assert.False(t, arm.Dirty(), name)
	}
}

func TestSteerMapping(t *testing.T) {
	tests := []struct {
		action Action
		delta  Delta
		check  func(t *testing.T, pos, rot, scale mgl64.Vec3)
	}{
		{Rotate, Delta{X: 0.5, Y: 0.25, Wheel: 1}, func(t *testing.T, pos, rot, scale mgl64.Vec3) {
			assert.InDelta(t, 20, rot[0], 1e-9)
			assert.InDelta(t, 4, rot[1], 1e-9)
			assert.InDelta(t, 10, rot[2], 1e-9)
		}},
		{Move, Delta{X: 0.5, Y: 0.25, Wheel: 1}, func(t *testing.T, pos, rot, scale mgl64.Vec3) {
			assert.True(t, xform.VecNear(pos, mgl64.Vec3{-0.2, -1, -0.5}, 1e-9), "%v", pos)
		}},
		{Scale, Delta{Wheel: 5}, func(t *testing.T, pos, rot, scale mgl64.Vec3) {
			assert.True(t, xform.VecNear(scale, mgl64.Vec3{1.1, 1.1, 1.1}, 1e-9), "%v", scale)
		}},
		{Scale, Delta{Wheel: -100}, func(t *testing.T, pos, rot, scale mgl64.Vec3) {
			assert.True(t, xform.VecNear(scale, mgl64.Vec3{MinScale, MinScale, MinScale}, 1e-9), "%v", scale)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.action.String(), func(t *testing.T) {
			d := newDriver(t, "brig")
			d.Select(Selection{Action: tt.action, Mast: "fore", Sail: "top"})
			d.Steer(tt.delta)

			arm, err := d.Armature("foretop")
			require.NoError(t, err)
			ctl := arm.Control()
			tt.check(t, ctl.LocalPos(), ctl.LocalRot(), ctl.LocalScale())

			other, _ := d.Armature("maintop")
			assert.False(t, other.Dirty(), "unselected armature steered")
		})
	}
}

func TestSensitivity(t *testing.T) {
	d := newDriver(t, "brig")
	d.SetSensitivity(0.5)
	d.Select(Selection{Action: Rotate, Mast: "main", Sail: ""})
	d.Steer(Delta{X: 1})
	arm, _ := d.Armature("main")
	assert.InDelta(t, 20, arm.Control().LocalRot()[0], 1e-9)
}

func TestTickSyncsJoints(t *testing.T) {
	d := newDriver(t, "brig")
	d.Select(Selection{Action: Rotate, Mast: "fore", Sail: ""})
	d.Steer(Delta{X: 0.75})
	_, err := d.Tick(context.Background())
	require.NoError(t, err)

	arm, _ := d.Armature("fore")
	for _, p := range arm.Snapshot() {
		joint, ok := d.Model().Joint(p.Bone)
		require.True(t, ok, p.Bone)
		proxy, _ := d.Model().ControlJoint(p.Bone)
		assert.True(t, xform.MatNear(joint.NetMatrix(), proxy.NetMatrix(), 1e-9), p.Bone)
	}
}

func TestTickCanceled(t *testing.T) {
	d := newDriver(t, "brig")
	d.Steer(Delta{X: 0.1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := d.Tick(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSnapshot(t *testing.T) {
	d := newDriver(t, "brig")
	samples := d.Snapshot()
	require.NotEmpty(t, samples)
	assert.Equal(t, "fore", samples[0].Armature)
	assert.Equal(t, "fore-yard-control", samples[0].Bone)
}
