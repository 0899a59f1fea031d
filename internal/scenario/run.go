package scenario

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigsim/internal/driver"
	"github.com/san-kum/rigsim/internal/metrics"
	"github.com/san-kum/rigsim/internal/storage"
)

// Recorder collects driver snapshots as store records and feeds every
// snapshot to its metrics.
type Recorder struct {
	// Every records one snapshot per this many ticks; zero or less means every tick.
	Every   int
	Metrics []metrics.Metric
	records []storage.Record
}

func NewRecorder(every int, ms ...metrics.Metric) *Recorder {
	return &Recorder{Every: every, Metrics: ms}
}

// Capture observes the driver's current poses and stores them if the tick
// is due.
func (r *Recorder) Capture(d *driver.Driver) {
	samples := d.Snapshot()
	for _, m := range r.Metrics {
		m.Observe(samples)
	}
	if r.Every > 1 && d.Ticks()%r.Every != 0 {
		return
	}
	for _, s := range samples {
		r.records = append(r.records, storage.Record{
			Tick:     s.Tick,
			Armature: s.Armature,
			Bone:     s.Bone,
			Pos:      vec(s.Pos),
			HPR:      vec(s.HPR),
			Scale:    vec(s.Scale),
		})
	}
}

func (r *Recorder) Records() []storage.Record { return r.records }

func vec(v mgl64.Vec3) [3]float64 { return [3]float64(v) }

// Result summarizes a run.
type Result struct {
	Ticks int
	// Evaluations counts armature evaluations across all ticks.
	Evaluations int
}

// Run plays the scenario on d. The recorder, if any, captures the initial
// pose and then every tick.
func Run(ctx context.Context, d *driver.Driver, sc *Scenario, rec *Recorder, log *slog.Logger) (Result, error) {
	if log == nil {
		log = slog.Default()
	}
	var res Result
	if err := sc.Validate(); err != nil {
		return res, err
	}
	if rec != nil {
		rec.Capture(d)
	}

	for i, step := range sc.Steps {
		if err := apply(d, step); err != nil {
			return res, fmt.Errorf("step %d: %w", i+1, err)
		}
		for range step.ticks() {
			if step.Bone != nil {
				if err := writeBone(d, step.Bone); err != nil {
					return res, fmt.Errorf("step %d: %w", i+1, err)
				}
			}
			if step.Delta != nil {
				d.Steer(driver.Delta{X: step.Delta.X, Y: step.Delta.Y, Wheel: step.Delta.Wheel})
			}
			n, err := d.Tick(ctx)
			if err != nil {
				return res, err
			}
			res.Ticks++
			res.Evaluations += n
			if rec != nil {
				rec.Capture(d)
			}
		}
	}

	log.Info("scenario finished", "name", sc.Name, "ticks", res.Ticks, "evaluations", res.Evaluations)
	return res, nil
}

func apply(d *driver.Driver, step Step) error {
	if step.Select == nil {
		return nil
	}
	sel, err := driver.ParseSelection(d.Layout(), step.Select.Action, step.Select.Mast, step.Select.Sail)
	if err != nil {
		return err
	}
	d.Select(sel)
	return nil
}

func writeBone(d *driver.Driver, b *BoneStep) error {
	arm, err := d.Armature(b.Armature)
	if err != nil {
		return err
	}
	ctl, ok := arm.Bone(b.role).Get()
	if !ok {
		return fmt.Errorf("%w: %s has no %s bone", ErrInvalidStep, b.Armature, b.role)
	}
	if p := b.SetLocalPos; p != nil {
		ctl.SetLocalPos(mgl64.Vec3(*p))
	}
	if r := b.SetLocalRot; r != nil {
		ctl.SetLocalRot(mgl64.Vec3(*r), b.mask)
	}
	if s := b.SetLocalScale; s != nil {
		ctl.SetLocalScale(mgl64.Vec3(*s), b.mask)
	}
	return nil
}
