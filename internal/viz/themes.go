package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the palette used by terminal views.
type Theme struct {
	Name     string
	Title    lipgloss.Color
	Circle   lipgloss.Color
	Coherent lipgloss.Color
	Drifting lipgloss.Color
	Vector   lipgloss.Color
	Text     lipgloss.Color
	Muted    lipgloss.Color
	Warning  lipgloss.Color
}

var (
	ThemeNeon = Theme{
		Name:     "neon",
		Title:    lipgloss.Color("#00ffff"),
		Circle:   lipgloss.Color("#444466"),
		Coherent: lipgloss.Color("#00ff88"),
		Drifting: lipgloss.Color("#ff00ff"),
		Vector:   lipgloss.Color("#ffff00"),
		Text:     lipgloss.Color("#ffffff"),
		Muted:    lipgloss.Color("#666688"),
		Warning:  lipgloss.Color("#ff8800"),
	}

	ThemePhosphor = Theme{
		Name:     "phosphor",
		Title:    lipgloss.Color("#00ff00"),
		Circle:   lipgloss.Color("#005500"),
		Coherent: lipgloss.Color("#88ff88"),
		Drifting: lipgloss.Color("#00cc00"),
		Vector:   lipgloss.Color("#ffff00"),
		Text:     lipgloss.Color("#00ff00"),
		Muted:    lipgloss.Color("#005500"),
		Warning:  lipgloss.Color("#ffff00"),
	}

	ThemeOcean = Theme{
		Name:     "ocean",
		Title:    lipgloss.Color("#00a8cc"),
		Circle:   lipgloss.Color("#4488aa"),
		Coherent: lipgloss.Color("#00ff88"),
		Drifting: lipgloss.Color("#ff4444"),
		Vector:   lipgloss.Color("#ffd700"),
		Text:     lipgloss.Color("#e0f0ff"),
		Muted:    lipgloss.Color("#4488aa"),
		Warning:  lipgloss.Color("#ffcc00"),
	}

	Themes = []Theme{ThemeNeon, ThemePhosphor, ThemeOcean}
)

// GetTheme returns a theme by name, falling back to the first theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// next returns the theme after t, wrapping around.
func (t Theme) next() Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}
