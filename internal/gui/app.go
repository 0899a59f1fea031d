// Package gui is a raylib viewer for a rigged ship with mouse steering.
package gui

import (
	"context"
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigsim/internal/driver"
	"github.com/san-kum/rigsim/internal/viz"
)

type Options struct {
	Theme  viz.Theme
	Width  int
	Height int
}

type App struct {
	drv    *driver.Driver
	wf     *viz.Wireframe
	pal    palette
	camera rl.Camera3D

	yaw, pitch, dist float64
	target           mgl64.Vec3

	masts, sails []string
	mast, sail   int
	paused       bool
	constraints  bool
	evaluated    int
}

func initWindow(w, h int) {
	rl.SetConfigFlags(rl.FlagMsaa4xHint)
	rl.InitWindow(int32(w), int32(h), "rigsim")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

func NewApp(d *driver.Driver, opts Options) (*App, error) {
	pal, err := newPalette(opts.Theme)
	if err != nil {
		return nil, err
	}
	a := &App{
		drv:         d,
		wf:          viz.NewWireframe(),
		pal:         pal,
		yaw:         -math.Pi / 3,
		pitch:       0.35,
		masts:       append([]string{driver.Any}, d.Layout().MastNames()...),
		sails:       append([]string{driver.Any}, d.Layout().SailNames()...),
		constraints: true,
	}
	a.camera = rl.NewCamera3D(rl.NewVector3(0, 0, 0), rl.NewVector3(0, 0, 0), rl.NewVector3(0, 1, 0), 45, rl.CameraPerspective)
	a.rebuild()
	if lo, hi, ok := a.wf.Bounds(); ok {
		a.target = lo.Add(hi).Mul(0.5)
		a.dist = hi.Sub(lo).Len() * 1.2
	} else {
		a.target, a.dist = d.Model().Root().Pos(nil), 60
	}
	return a, nil
}

// Run opens the window and blocks until it is closed or ctx is done.
func Run(ctx context.Context, d *driver.Driver, opts Options) error {
	if opts.Width == 0 {
		opts.Width, opts.Height = 1280, 720
	}
	initWindow(opts.Width, opts.Height)
	defer rl.CloseWindow()

	a, err := NewApp(d, opts)
	if err != nil {
		return err
	}
	for !rl.WindowShouldClose() && !rl.IsKeyPressed(rl.KeyQ) {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if err := a.Update(ctx); err != nil {
			return err
		}
		a.Draw()
	}
	return nil
}

func (a *App) rebuild() {
	a.wf.Clear()
	for _, name := range a.drv.Names() {
		if arm, err := a.drv.Armature(name); err == nil {
			a.wf.AddArmature(arm)
		}
	}
}

func (a *App) Update(ctx context.Context) error {
	a.handleKeys()
	a.orbit()

	if a.paused {
		return nil
	}
	a.drv.Steer(a.pointer())
	n, err := a.drv.Tick(ctx)
	if err != nil {
		return err
	}
	a.evaluated = n
	if n > 0 {
		a.rebuild()
	}
	return nil
}

func (a *App) handleKeys() {
	sel := a.drv.Selection()
	switch {
	case rl.IsKeyPressed(rl.KeyOne):
		sel.Action = driver.Rotate
	case rl.IsKeyPressed(rl.KeyTwo):
		sel.Action = driver.Move
	case rl.IsKeyPressed(rl.KeyThree):
		sel.Action = driver.Scale
	case rl.IsKeyPressed(rl.KeyM):
		a.mast = (a.mast + 1) % len(a.masts)
		sel.Mast = a.masts[a.mast]
	case rl.IsKeyPressed(rl.KeyS):
		a.sail = (a.sail + 1) % len(a.sails)
		sel.Sail = a.sails[a.sail]
	case rl.IsKeyPressed(rl.KeySpace):
		a.paused = !a.paused
	case rl.IsKeyPressed(rl.KeyC):
		a.constraints = !a.constraints
	}
	a.drv.Select(sel)
}

// pointer reads this frame's steering input: left-drag motion as a fraction
// of the window, the wheel, and arrow keys held down.
func (a *App) pointer() driver.Delta {
	var d driver.Delta
	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		md := rl.GetMouseDelta()
		d.X = float64(md.X) / float64(rl.GetScreenWidth())
		d.Y = float64(md.Y) / float64(rl.GetScreenHeight())
	}
	d.Wheel = float64(rl.GetMouseWheelMove())

	const step = 0.005
	if rl.IsKeyDown(rl.KeyLeft) {
		d.X -= step
	}
	if rl.IsKeyDown(rl.KeyRight) {
		d.X += step
	}
	if rl.IsKeyDown(rl.KeyUp) {
		d.Y -= step
	}
	if rl.IsKeyDown(rl.KeyDown) {
		d.Y += step
	}
	return d
}

// orbit moves the camera on a sphere around the ship with right-drag and
// zooms with W/S held.
func (a *App) orbit() {
	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		md := rl.GetMouseDelta()
		a.yaw -= float64(md.X) * 0.005
		a.pitch = clamp(a.pitch+float64(md.Y)*0.005, -1.4, 1.4)
	}
	if rl.IsKeyDown(rl.KeyW) {
		a.dist = math.Max(a.dist*0.98, 5)
	}
	if rl.IsKeyDown(rl.KeyX) {
		a.dist = math.Min(a.dist*1.02, 500)
	}

	eye := a.target.Add(mgl64.Vec3{
		a.dist * math.Cos(a.pitch) * math.Cos(a.yaw),
		a.dist * math.Cos(a.pitch) * math.Sin(a.yaw),
		a.dist * math.Sin(a.pitch),
	})
	a.camera.Position = toRL(eye)
	a.camera.Target = toRL(a.target)
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(a.pal.bg)

	rl.BeginMode3D(a.camera)
	a.drawHull()
	drawWireframe(a.wf, a.pal, a.constraints)
	rl.EndMode3D()

	a.drawHUD()
	rl.EndDrawing()
}

func (a *App) drawHull() {
	l := a.drv.Layout()
	ys := make([]float64, len(l.Masts))
	lo, hi := 0.0, 0.0
	for i, m := range l.Masts {
		ys[i] = m.Y
		lo, hi = math.Min(lo, m.Y), math.Max(hi, m.Y)
	}
	drawDeck(a.drv.Model().Root().Pos(nil).Add(mgl64.Vec3{0, 0, l.Deck}), hi-lo+24, l.Sails[0].HalfWidth*0.8, ys, a.pal.muted)
}

func (a *App) drawHUD() {
	rl.DrawText(a.drv.Model().Name(), 20, 20, 20, a.pal.accent)
	rl.DrawText(a.drv.Selection().String(), 20, 46, 18, a.pal.text)
	status := fmt.Sprintf("tick %d  eval %d  %d fps", a.drv.Ticks(), a.evaluated, rl.GetFPS())
	if a.paused {
		status += "  paused"
	}
	rl.DrawText(status, 20, 70, 16, a.pal.muted)

	h := int32(rl.GetScreenHeight())
	rl.DrawText("1/2/3 rotate/move/scale  M mast  S sail  drag/wheel/arrows steer", 20, h-48, 16, a.pal.muted)
	rl.DrawText("right-drag orbit  W/X zoom  C constraints  space pause  Q quit", 20, h-26, 16, a.pal.muted)
}

func clamp(v, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, v)) }
