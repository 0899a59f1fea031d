package viz

import (
	"fmt"
	"image/color"

	"github.com/charmbracelet/lipgloss"
)

// Theme colors a rig drawing. Colors are "#rrggbb" hex strings so the same
// theme serves the terminal, SVG and raster output.
type Theme struct {
	Name       string
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Accent     lipgloss.Color
	Bone       lipgloss.Color
	Constraint lipgloss.Color
	Axis       lipgloss.Color
}

var (
	ThemeHarbor = Theme{
		Name:       "harbor",
		Background: lipgloss.Color("#0b1d2a"),
		Text:       lipgloss.Color("#e0f0ff"),
		Muted:      lipgloss.Color("#4488aa"),
		Accent:     lipgloss.Color("#ffd700"),
		Bone:       lipgloss.Color("#d9b38c"), // tarred timber
		Constraint: lipgloss.Color("#7fc8f8"),
		Axis:       lipgloss.Color("#ff6b6b"),
	}

	ThemeChart = Theme{
		Name:       "chart",
		Background: lipgloss.Color("#f5efe0"),
		Text:       lipgloss.Color("#222222"),
		Muted:      lipgloss.Color("#8c8270"),
		Accent:     lipgloss.Color("#b03a2e"),
		Bone:       lipgloss.Color("#3b2f2f"),
		Constraint: lipgloss.Color("#2e6da4"),
		Axis:       lipgloss.Color("#b03a2e"),
	}

	ThemeNight = Theme{
		Name:       "night",
		Background: lipgloss.Color("#000000"),
		Text:       lipgloss.Color("#00ff00"),
		Muted:      lipgloss.Color("#005500"),
		Accent:     lipgloss.Color("#88ff88"),
		Bone:       lipgloss.Color("#00cc00"),
		Constraint: lipgloss.Color("#ffff00"),
		Axis:       lipgloss.Color("#ff8800"),
	}

	Themes = []Theme{ThemeHarbor, ThemeChart, ThemeNight}
)

// GetTheme returns the named theme, or harbor.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeHarbor
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

func (t Theme) Edge(k EdgeKind) lipgloss.Color {
	switch k {
	case Constraint:
		return t.Constraint
	case Axis:
		return t.Axis
	default:
		return t.Bone
	}
}

// RGBA parses a "#rrggbb" color.
func RGBA(c lipgloss.Color) (color.RGBA, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(string(c), "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("viz: bad color %q: %w", c, err)
	}
	return color.RGBA{r, g, b, 0xff}, nil
}
