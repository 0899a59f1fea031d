package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigsim/internal/config"
	"github.com/san-kum/rigsim/internal/driver"
	"github.com/san-kum/rigsim/internal/scene"
	"github.com/san-kum/rigsim/internal/ship"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	preset     string
	// rig flags, shared by every command that builds a ship
	shipName     string
	skeletonFile string
	ticks        int
	workers      int
	sensitivity  float64
	action       string
	mast         string
	sail         string
	// run
	scenarioFile string
	every        int
	// views
	channels  []string
	viewName  string
	themeName string
	format    string
	outFile   string
	width     int
	height    int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "rigsim",
		Short:         "procedural sail rigging for ship models",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel)
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	skeletonCmd := &cobra.Command{
		Use:   "skeleton [ship]",
		Short: "generate a ship skeleton as yaml",
		Args:  cobra.ExactArgs(1),
		RunE:  writeSkeleton,
	}
	skeletonCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	inspectCmd := &cobra.Command{
		Use:   "inspect",
		Short: "bind a ship's armatures and list their brace variants",
		RunE:  inspectShip,
	}
	addRigFlags(inspectCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "steer a ship for a number of ticks and store the poses",
		RunE:  runSteering,
	}
	addRigFlags(runCmd)
	runCmd.Flags().StringVar(&scenarioFile, "scenario", "", "scenario file (yaml); replaces sine steering")
	runCmd.Flags().IntVar(&every, "every", 1, "record every n ticks")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot channels of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVarP(&channels, "channel", "c", []string{"main/yard-l/h"}, "armature/role/field")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a channel",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringSliceVarP(&channels, "channel", "c", []string{"main/yard-l/h"}, "armature/role/field")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "draw the rig as text, svg or webp",
		RunE:  snapshotRig,
	}
	addRigFlags(snapshotCmd)
	addViewFlags(snapshotCmd)
	snapshotCmd.Flags().StringVar(&format, "format", "", "text, svg or webp (default from --out)")
	snapshotCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	snapshotCmd.Flags().IntVar(&width, "width", 800, "image width")
	snapshotCmd.Flags().IntVar(&height, "height", 600, "image height")

	presetsCmd := &cobra.Command{
		Use:   "presets [ship]",
		Short: "list available presets for a ship",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for ship: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "steer a ship in the terminal",
		RunE:  runLive,
	}
	addRigFlags(liveCmd)
	addViewFlags(liveCmd)

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "steer a ship in a 3d window",
		RunE:  runGUI,
	}
	addRigFlags(guiCmd)
	guiCmd.Flags().StringVar(&themeName, "theme", "harbor", "color theme")

	rootCmd.AddCommand(skeletonCmd, inspectCmd, runCmd, listCmd, plotCmd, analyzeCmd, exportCmd, snapshotCmd, presetsCmd, liveCmd, guiCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addRigFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.StringVar(&shipName, "ship", "frigate", "ship layout ("+strings.Join(ship.LayoutNames(), ", ")+")")
	f.StringVar(&skeletonFile, "skeleton", "", "skeleton file to load instead of generating one")
	f.IntVar(&ticks, "ticks", config.DefaultTicks, "ticks to run")
	f.IntVar(&workers, "workers", config.DefaultWorkers, "concurrent armature evaluations")
	f.Float64Var(&sensitivity, "sensitivity", config.DefaultSensitivity, "steering sensitivity")
	f.StringVar(&action, "action", "rotate", "rotate, move or scale")
	f.StringVar(&mast, "mast", driver.Any, "mast to steer")
	f.StringVar(&sail, "sail", driver.Any, "sail to steer (course is the lowest)")
}

func addViewFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&viewName, "view", "side", "side, top, front or orbit")
	cmd.Flags().StringVar(&themeName, "theme", "harbor", "color theme")
}

func setupLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}

// loadConfig layers the defaults, the config file, the preset and then any
// flag the user set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("ship") {
		cfg.Ship = shipName
	}
	if preset != "" {
		p := config.GetPreset(cfg.Ship, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Ship))
		}
		cfg.Apply(p)
	}

	if flags.Changed("skeleton") {
		cfg.Skeleton = skeletonFile
	}
	if flags.Changed("ticks") {
		cfg.Ticks = ticks
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("sensitivity") {
		cfg.Sensitivity = sensitivity
	}
	if flags.Changed("action") {
		cfg.Selection.Action = action
	}
	if flags.Changed("mast") {
		cfg.Selection.Mast = mast
	}
	if flags.Changed("sail") {
		cfg.Selection.Sail = sail
	}
	if flags.Changed("data") || configFile == "" {
		cfg.DataDir = dataDir
	}
	if flags.Changed("log-level") || configFile == "" {
		cfg.LogLevel = logLevel
	} else if err := setupLogging(cfg.LogLevel); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newDriver rigs the configured ship and applies the configured selection.
func newDriver(cfg *config.Config) (*driver.Driver, error) {
	layout, err := ship.LayoutFor(cfg.Ship)
	if err != nil {
		return nil, err
	}

	var skel *scene.Skeleton
	if cfg.Skeleton != "" {
		skel, err = scene.LoadSkeleton(cfg.Skeleton)
	} else {
		skel, err = ship.Skeleton(cfg.Ship, layout)
	}
	if err != nil {
		return nil, err
	}

	d, err := driver.New(skel, layout, driver.Options{
		Position:    mgl64.Vec3(cfg.Position),
		Sensitivity: cfg.Sensitivity,
		Workers:     cfg.Workers,
		Logger:      slog.Default(),
	})
	if err != nil {
		return nil, err
	}

	sel, err := driver.ParseSelection(layout, cfg.Selection.Action, cfg.Selection.Mast, cfg.Selection.Sail)
	if err != nil {
		return nil, err
	}
	d.Select(sel)
	return d, nil
}
