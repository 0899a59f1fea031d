package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/rigsim/internal/analysis"
	"github.com/san-kum/rigsim/internal/metrics"
	"github.com/san-kum/rigsim/internal/rig"
	"github.com/san-kum/rigsim/internal/scene"
	"github.com/san-kum/rigsim/internal/scenario"
	"github.com/san-kum/rigsim/internal/ship"
	"github.com/san-kum/rigsim/internal/storage"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func writeSkeleton(cmd *cobra.Command, args []string) error {
	layout, err := ship.LayoutFor(args[0])
	if err != nil {
		return err
	}
	skel, err := ship.Skeleton(args[0], layout)
	if err != nil {
		return err
	}
	if outFile != "" {
		if err := scene.SaveSkeleton(outFile, skel); err != nil {
			return err
		}
		fmt.Printf("wrote %d joints to %s\n", len(skel.Joints), outFile)
		return nil
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(skel)
}

func inspectShip(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	d, err := newDriver(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("ship: %s\n", d.Model().Name())
	fmt.Printf("joints: %d (%d controlled)\n\n", len(d.Model().JointNames()), d.Model().Controlled())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ARMATURE\tLEFT\tRIGHT\tBONES\tLINKS")
	for _, name := range d.Names() {
		arm, err := d.Armature(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
			name,
			arm.Variant(rig.Left),
			arm.Variant(rig.Right),
			len(arm.Snapshot()),
			len(arm.Links()),
		)
	}
	return w.Flush()
}

func runSteering(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	d, err := newDriver(cfg)
	if err != nil {
		return err
	}

	sc := scenario.FromConfig(cfg)
	if scenarioFile != "" {
		if sc, err = scenario.Load(scenarioFile); err != nil {
			return err
		}
		if sc.Ship != "" && sc.Ship != cfg.Ship {
			return fmt.Errorf("scenario %s is for %s, not %s", sc.Name, sc.Ship, cfg.Ship)
		}
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("running %s on %s (%d ticks)...\n", sc.Name, cfg.Ship, sc.Ticks())
	selection := d.Selection().String()
	rec := scenario.NewRecorder(every, metrics.Default()...)
	start := time.Now()

	res, err := scenario.Run(cmd.Context(), d, sc, rec, nil)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	degenerate := 0
	for _, name := range d.Names() {
		arm, _ := d.Armature(name)
		degenerate += arm.Degenerate()
	}
	values := metrics.Values(rec.Metrics)
	values["evaluations"] = float64(res.Evaluations)
	values["degenerate_aim"] = float64(degenerate)
	values["ticks_per_sec"] = float64(res.Ticks) / elapsed.Seconds()

	runID, err := st.Save(storage.RunMetadata{
		Ship:        cfg.Ship,
		Ticks:       res.Ticks,
		Selection:   selection,
		Scenario:    sc.Name,
		Sensitivity: cfg.Sensitivity,
		Armatures:   len(d.Names()),
		Metrics:     values,
	}, rec.Records())
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("records: %d\n", len(rec.Records()))
	fmt.Println("\nmetrics:")
	for name, val := range values {
		fmt.Printf("  %s: %.3f\n", name, val)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSHIP\tTIME\tTICKS\tSCENARIO\tSELECTION")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			run.ID,
			run.Ship,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Ticks,
			run.Scenario,
			run.Selection,
		)
	}
	return w.Flush()
}

// loadChannels reads a run and extracts each requested channel.
func loadChannels(runID string) (*storage.RunMetadata, []analysis.Channel, [][]float64, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	records, err := st.LoadRecords(runID)
	if err != nil {
		return nil, nil, nil, err
	}

	chans := make([]analysis.Channel, 0, len(channels))
	series := make([][]float64, 0, len(channels))
	for _, s := range channels {
		ch, err := analysis.ParseChannel(s)
		if err != nil {
			return nil, nil, nil, err
		}
		data := ch.Extract(records)
		if len(data) == 0 {
			return nil, nil, nil, fmt.Errorf("no data for channel %s in run %s", ch, runID)
		}
		chans = append(chans, ch)
		series = append(series, data)
	}
	return meta, chans, series, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, chans, series, err := loadChannels(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("ship: %s\n", meta.Ship)
	fmt.Printf("samples: %d\n\n", len(series[0]))

	for i, data := range series {
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(chans[i].String()),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, chans, series, err := loadChannels(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("ship: %s\n\n", meta.Ship)

	for i, data := range series {
		ps := analysis.PowerSpectrum(data)
		if len(ps) > 8 {
			graph := asciigraph.Plot(ps[:max(len(ps)/4, 8)],
				asciigraph.Height(12),
				asciigraph.Width(80),
				asciigraph.Caption("power spectrum ("+chans[i].String()+")"),
			)
			fmt.Println(graph)
			fmt.Println()
		}

		s := analysis.Summarize(data)
		fmt.Printf("%s: min %.3f  max %.3f  mean %.3f  std %.3f\n", chans[i], s.Min, s.Max, s.Mean, s.Std)
		if period, power := analysis.DominantPeriod(data); period > 0 {
			fmt.Printf("dominant period: %.1f samples (power %.3f)\n\n", period, power)
		} else {
			fmt.Printf("no dominant period\n\n")
		}
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	records, err := st.LoadRecords(args[0])
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return storage.ExportJSON(w, *meta, records)
}
