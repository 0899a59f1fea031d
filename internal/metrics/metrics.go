// Package metrics summarizes a steering run from the bone poses seen each
// tick.
package metrics

import "github.com/san-kum/rigsim/internal/driver"

// Metric folds one snapshot per tick into a single value.
type Metric interface {
	Name() string
	Observe(samples []driver.Sample)
	Value() float64
	Reset()
}

// Default is the set a stored run reports.
func Default() []Metric {
	return []Metric{NewYardSwing(), NewStretch(), NewControlTravel()}
}

func Values(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}
