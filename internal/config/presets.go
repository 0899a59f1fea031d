package config

// Presets are canned steering runs per ship.
var Presets = map[string]map[string]*Config{
	"frigate": {
		"tack": {
			Ship: "frigate", Ticks: 360, Sensitivity: 1,
			Selection: SelectionConfig{Action: "rotate", Mast: "all", Sail: "all"},
			Steer:     SteerConfig{X: 0.02, Period: 180},
		},
		"luff": {
			Ship: "frigate", Ticks: 240, Sensitivity: 1,
			Selection: SelectionConfig{Action: "rotate", Mast: "main", Sail: "course"},
			Steer:     SteerConfig{X: 0.01, Y: 0.005, Period: 60},
		},
		"hoist": {
			Ship: "frigate", Ticks: 240, Sensitivity: 1,
			Selection: SelectionConfig{Action: "move", Mast: "all", Sail: "top"},
			Steer:     SteerConfig{Y: 0.01, Period: 240},
		},
		"reef": {
			Ship: "frigate", Ticks: 120, Sensitivity: 1,
			Selection: SelectionConfig{Action: "scale", Mast: "all", Sail: "all"},
			Steer:     SteerConfig{Wheel: 0.5, Period: 120},
		},
	},
	"brig": {
		"tack": {
			Ship: "brig", Ticks: 360, Sensitivity: 1,
			Selection: SelectionConfig{Action: "rotate", Mast: "all", Sail: "all"},
			Steer:     SteerConfig{X: 0.02, Period: 180},
		},
		"square": {
			Ship: "brig", Ticks: 60, Sensitivity: 1,
			Selection: SelectionConfig{Action: "rotate", Mast: "fore", Sail: "all"},
			Steer:     SteerConfig{X: 0.005, Period: 60},
		},
	},
}

func GetPreset(ship, preset string) *Config {
	shipPresets, ok := Presets[ship]
	if !ok {
		return nil
	}
	cfg, ok := shipPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(ship string) []string {
	shipPresets, ok := Presets[ship]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(shipPresets))
	for name := range shipPresets {
		names = append(names, name)
	}
	return names
}

// Apply copies the preset's run settings onto c, keeping placement, workers
// and paths.
func (c *Config) Apply(p *Config) {
	c.Ship = p.Ship
	c.Ticks = p.Ticks
	c.Sensitivity = p.Sensitivity
	c.Selection = p.Selection
	c.Steer = p.Steer
}
