package ui

import "github.com/charmbracelet/lipgloss"

// Theme is a named color set. Two are shipped: Rosé Pine Moon for dark
// terminals and Rosé Pine Dawn for light ones.
// https://rosepinetheme.com/palette/
type Theme struct {
	Name string

	// Base tones
	Base    lipgloss.Color
	Surface lipgloss.Color
	Overlay lipgloss.Color
	Muted   lipgloss.Color
	Subtle  lipgloss.Color
	Text    lipgloss.Color

	// Semantic colors
	Love lipgloss.Color // error, danger
	Gold lipgloss.Color // warning
	Rose lipgloss.Color // accent, secondary
	Pine lipgloss.Color // link
	Foam lipgloss.Color // info, running
	Iris lipgloss.Color // highlight, primary

	// Diff-specific (keep readable semantic greens/reds)
	DiffAdd    lipgloss.Color
	DiffDelete lipgloss.Color
	DiffHunk   lipgloss.Color
}

// Dark returns the Rosé Pine Moon theme.
func Dark() Theme {
	return Theme{
		Name:       "dark",
		Base:       lipgloss.Color("#232136"),
		Surface:    lipgloss.Color("#2a273f"),
		Overlay:    lipgloss.Color("#393552"),
		Muted:      lipgloss.Color("#6e6a86"),
		Subtle:     lipgloss.Color("#908caa"),
		Text:       lipgloss.Color("#e0def4"),
		Love:       lipgloss.Color("#eb6f92"),
		Gold:       lipgloss.Color("#f6c177"),
		Rose:       lipgloss.Color("#ea9a97"),
		Pine:       lipgloss.Color("#3e8fb0"),
		Foam:       lipgloss.Color("#9ccfd8"),
		Iris:       lipgloss.Color("#c4a7e7"),
		DiffAdd:    lipgloss.Color("#9ccfd8"),
		DiffDelete: lipgloss.Color("#eb6f92"),
		DiffHunk:   lipgloss.Color("#c4a7e7"),
	}
}

// Light returns the Rosé Pine Dawn theme.
func Light() Theme {
	return Theme{
		Name:       "light",
		Base:       lipgloss.Color("#faf4ed"),
		Surface:    lipgloss.Color("#fffaf3"),
		Overlay:    lipgloss.Color("#f2e9e1"),
		Muted:      lipgloss.Color("#9893a5"),
		Subtle:     lipgloss.Color("#797593"),
		Text:       lipgloss.Color("#575279"),
		Love:       lipgloss.Color("#b4637a"),
		Gold:       lipgloss.Color("#ea9d34"),
		Rose:       lipgloss.Color("#d7827e"),
		Pine:       lipgloss.Color("#286983"),
		Foam:       lipgloss.Color("#56949f"),
		Iris:       lipgloss.Color("#907aa9"),
		DiffAdd:    lipgloss.Color("#56949f"),
		DiffDelete: lipgloss.Color("#b4637a"),
		DiffHunk:   lipgloss.Color("#907aa9"),
	}
}

// ForName returns the theme matching a config value, defaulting to dark.
func ForName(name string) Theme {
	if name == "light" {
		return Light()
	}
	return Dark()
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t.Name == "light" {
		return Dark()
	}
	return Light()
}
