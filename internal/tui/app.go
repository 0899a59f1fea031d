// Package tui is the terminal front end: live steering of a rigged ship with
// a braille wireframe and a heading trace.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/rigsim/internal/driver"
	"github.com/san-kum/rigsim/internal/rig"
	"github.com/san-kum/rigsim/internal/viz"
)

const (
	historyLen = 120
	// keyStep is the pointer delta one arrow key press stands for.
	keyStep = 0.05
)

type Options struct {
	Theme viz.Theme
	View  viz.View
	// Watch is the armature whose port yard heading is graphed. Empty means
	// the first one.
	Watch string
	Rate  time.Duration
}

type styles struct {
	title, text, muted, accent, bone lipgloss.Style
}

func newStyles(t viz.Theme) styles {
	return styles{
		title:  lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		text:   lipgloss.NewStyle().Foreground(t.Text),
		muted:  lipgloss.NewStyle().Foreground(t.Muted),
		accent: lipgloss.NewStyle().Foreground(t.Accent),
		bone:   lipgloss.NewStyle().Foreground(t.Bone),
	}
}

type App struct {
	ctx   context.Context
	drv   *driver.Driver
	opts  Options
	st    styles
	cam   *viz.Camera
	wf    *viz.Wireframe
	masts []string
	sails []string

	mast, sail  int
	pending     driver.Delta
	dragging    bool
	lastX       int
	lastY       int
	paused      bool
	constraints bool
	history     []float64
	evaluated   int
	err         error

	width  int
	height int
}

func New(ctx context.Context, d *driver.Driver, opts Options) App {
	if opts.Rate <= 0 {
		opts.Rate = 33 * time.Millisecond
	}
	if opts.Watch == "" && len(d.Names()) > 0 {
		opts.Watch = d.Names()[0]
	}
	if opts.Theme.Name == "" {
		opts.Theme = viz.ThemeHarbor
	}

	m := App{
		ctx:         ctx,
		drv:         d,
		opts:        opts,
		st:          newStyles(opts.Theme),
		cam:         viz.NewCamera(),
		wf:          viz.NewWireframe(),
		masts:       append([]string{driver.Any}, d.Layout().MastNames()...),
		sails:       append([]string{driver.Any}, d.Layout().SailNames()...),
		constraints: true,
		history:     make([]float64, 0, historyLen),
		width:       80,
		height:      32,
	}
	m.cam.View = opts.View
	m.rebuild()
	m.cam.Fit(m.wf)
	return m
}

// Run blocks until the user quits.
func Run(ctx context.Context, d *driver.Driver, opts Options) error {
	p := tea.NewProgram(New(ctx, d, opts), tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return err
	}
	if app, ok := final.(App); ok {
		return app.err
	}
	return nil
}

type tickMsg time.Time

func (m App) tick() tea.Cmd {
	return tea.Tick(m.opts.Rate, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m App) Init() tea.Cmd { return m.tick() }

func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg), nil
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tickMsg:
		if !m.paused {
			if err := m.step(); err != nil {
				m.err = err
				return m, tea.Quit
			}
		}
		return m, m.tick()
	}
	return m, nil
}

// step feeds the pending input to the driver and evaluates one tick.
func (m *App) step() error {
	m.drv.Steer(m.pending)
	m.pending = driver.Delta{}
	n, err := m.drv.Tick(m.ctx)
	if err != nil {
		return err
	}
	m.evaluated = n
	m.rebuild()

	if arm, err := m.drv.Armature(m.opts.Watch); err == nil {
		if yard, ok := arm.Bone(rig.YardL).Get(); ok {
			m.history = append(m.history, yard.GlobalRot()[0])
			if len(m.history) > historyLen {
				m.history = m.history[1:]
			}
		}
	}
	return nil
}

func (m *App) rebuild() {
	m.wf.Clear()
	for _, name := range m.drv.Names() {
		if arm, err := m.drv.Armature(name); err == nil {
			m.wf.AddArmature(arm)
		}
	}
}

func (m App) handleKey(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case " ", "p":
		m.paused = !m.paused
	case "1":
		m.setAction(driver.Rotate)
	case "2":
		m.setAction(driver.Move)
	case "3":
		m.setAction(driver.Scale)
	case "m":
		m.mast = (m.mast + 1) % len(m.masts)
		m.reselect()
	case "s":
		m.sail = (m.sail + 1) % len(m.sails)
		m.reselect()
	case "left", "h":
		m.pending.X -= keyStep
	case "right", "l":
		m.pending.X += keyStep
	case "up", "k":
		m.pending.Y -= keyStep
	case "down", "j":
		m.pending.Y += keyStep
	case "[":
		m.pending.Wheel--
	case "]":
		m.pending.Wheel++
	case "v":
		m.cam.View = (m.cam.View + 1) % (viz.Orbit + 1)
	case "c":
		m.constraints = !m.constraints
	case "+", "=":
		m.cam.ZoomIn()
	case "-", "_":
		m.cam.ZoomOut()
	case "f":
		m.cam.Fit(m.wf)
	case "<", ",":
		m.drv.SetSensitivity(max(m.drv.Sensitivity()/2, 0.125))
	case ">", ".":
		m.drv.SetSensitivity(min(m.drv.Sensitivity()*2, 8))
	}
	return m, nil
}

// handleMouse turns left-button drags into pointer deltas, scaled so a drag
// across the whole window is 1, and wheel clicks into wheel steps.
func (m App) handleMouse(msg tea.MouseMsg) App {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.pending.Wheel++
		return m
	case tea.MouseButtonWheelDown:
		m.pending.Wheel--
		return m
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.dragging = true
			m.lastX, m.lastY = msg.X, msg.Y
		}
	case tea.MouseActionMotion:
		if !m.dragging {
			return m
		}
		if m.cam.View == viz.Orbit && msg.Shift {
			m.cam.Rotate(float64(msg.X-m.lastX)*0.05, float64(msg.Y-m.lastY)*0.05)
		} else {
			m.pending.X += float64(msg.X-m.lastX) / float64(max(m.width, 1))
			m.pending.Y += float64(msg.Y-m.lastY) / float64(max(m.height, 1))
		}
		m.lastX, m.lastY = msg.X, msg.Y
	case tea.MouseActionRelease:
		m.dragging = false
	}
	return m
}

func (m *App) setAction(a driver.Action) {
	sel := m.drv.Selection()
	sel.Action = a
	m.drv.Select(sel)
}

func (m *App) reselect() {
	sel := m.drv.Selection()
	sel.Mast = m.masts[m.mast]
	sel.Sail = m.sails[m.sail]
	m.drv.Select(sel)
}

func (m App) View() string {
	var b strings.Builder

	status := m.st.accent.Render("●") + " " + m.st.text.Render("live")
	if m.paused {
		status = m.st.muted.Render("○ paused")
	}
	fmt.Fprintf(&b, "\n   %s  %s  %s  %s\n",
		m.st.title.Render(m.drv.Model().Name()),
		m.st.text.Render(m.drv.Selection().String()),
		m.st.muted.Render(fmt.Sprintf("tick %d  eval %d  sens %.3g  %s view", m.drv.Ticks(), m.evaluated, m.drv.Sensitivity(), m.cam.View)),
		status)

	cw, ch := max(m.width-6, 40), max(m.height-18, 10)
	canvas := viz.NewCanvas(cw, ch)
	kinds := []viz.EdgeKind{viz.Bone, viz.Axis}
	if m.constraints {
		kinds = append(kinds, viz.Constraint)
	}
	viz.Render3D(canvas, m.wf, m.cam, kinds...)
	for _, line := range canvas.Lines() {
		b.WriteString("   " + m.st.bone.Render(line) + "\n")
	}

	if len(m.history) > 1 {
		graph := asciigraph.Plot(m.history,
			asciigraph.Height(6),
			asciigraph.Width(min(cw-10, historyLen)),
			asciigraph.Precision(1),
			asciigraph.Caption(m.opts.Watch+" port yard heading"),
		)
		b.WriteString("\n" + m.st.muted.Render(indent(graph, "   ")) + "\n")
	}

	b.WriteString("\n" + m.st.muted.Render("   1/2/3 rotate/move/scale  m mast  s sail  ←→↑↓ [ ] steer  drag pointer") + "\n")
	b.WriteString(m.st.muted.Render("   v view  c constraints  +/- zoom  f fit  </> sensitivity  space pause  q quit") + "\n")
	return b.String()
}

func indent(s, pad string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = pad + l
	}
	return strings.Join(lines, "\n")
}
