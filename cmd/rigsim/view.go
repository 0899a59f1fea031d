package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/san-kum/rigsim/internal/driver"
	"github.com/san-kum/rigsim/internal/export"
	"github.com/san-kum/rigsim/internal/gui"
	"github.com/san-kum/rigsim/internal/scenario"
	"github.com/san-kum/rigsim/internal/tui"
	"github.com/san-kum/rigsim/internal/viz"
	"github.com/spf13/cobra"
)

// snapshotRig rigs the ship, runs the configured steering when --ticks is
// given, and draws the result.
func snapshotRig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	d, err := newDriver(cfg)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("ticks") || preset != "" {
		if _, err := scenario.Run(cmd.Context(), d, scenario.FromConfig(cfg), nil, nil); err != nil {
			return err
		}
	} else if _, err := d.Tick(cmd.Context()); err != nil {
		return err
	}

	view, err := viz.ParseView(viewName)
	if err != nil {
		return err
	}
	theme := viz.GetTheme(themeName)
	wf := wireframe(d)
	cam := viz.NewCamera()
	cam.View = view
	cam.Fit(wf)

	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(outFile), ".")
	}
	switch format {
	case "", "txt", "text":
		canvas := viz.NewCanvas(width/10, height/20)
		viz.Render3D(canvas, wf, cam)
		return writeOut(canvas.String() + "\n")
	case "svg":
		return writeOut(export.WireframeSVG(wf, cam, theme, width, height))
	case "webp":
		if outFile == "" {
			return fmt.Errorf("webp output needs --out")
		}
		s := export.DefaultSnapshot()
		s.Width, s.Height, s.Theme = width, height, theme
		img, err := s.Render(wf, cam)
		if err != nil {
			return err
		}
		if err := export.SaveWebP(outFile, img); err != nil {
			return err
		}
		fmt.Printf("wrote %dx%d snapshot to %s\n", width, height, outFile)
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func wireframe(d *driver.Driver) *viz.Wireframe {
	wf := viz.NewWireframe()
	for _, name := range d.Names() {
		if arm, err := d.Armature(name); err == nil {
			wf.AddArmature(arm)
		}
	}
	return wf
}

func writeOut(s string) error {
	if outFile == "" {
		_, err := fmt.Print(s)
		return err
	}
	return os.WriteFile(outFile, []byte(s), 0644)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// the alt screen owns the terminal; send logs to the data dir instead
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return err
	}
	logf, err := os.OpenFile(filepath.Join(cfg.DataDir, "live.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer logf.Close()
	var lvl slog.Level
	_ = lvl.UnmarshalText([]byte(cfg.LogLevel))
	slog.SetDefault(slog.New(slog.NewTextHandler(logf, &slog.HandlerOptions{Level: lvl})))

	d, err := newDriver(cfg)
	if err != nil {
		return err
	}
	view, err := viz.ParseView(viewName)
	if err != nil {
		return err
	}
	return tui.Run(cmd.Context(), d, tui.Options{
		Theme: viz.GetTheme(themeName),
		View:  view,
	})
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	d, err := newDriver(cfg)
	if err != nil {
		return err
	}
	return gui.Run(cmd.Context(), d, gui.Options{Theme: viz.GetTheme(themeName)})
}
