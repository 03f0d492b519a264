package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the arena canvas and the stats panel.
type Theme struct {
	Name   string
	Arena  lipgloss.Color
	Accent lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Alert  lipgloss.Color
}

var (
	ThemeMono = Theme{
		Name:   "mono",
		Arena:  lipgloss.Color("#ffffff"),
		Accent: lipgloss.Color("#00ccff"),
		Text:   lipgloss.Color("252"),
		Muted:  lipgloss.Color("240"),
		Alert:  lipgloss.Color("#ff4444"),
	}

	ThemeRetroGreen = Theme{
		Name:   "retro",
		Arena:  lipgloss.Color("#00ff00"), // green phosphor
		Accent: lipgloss.Color("#88ff88"),
		Text:   lipgloss.Color("#00ff00"),
		Muted:  lipgloss.Color("#005500"),
		Alert:  lipgloss.Color("#ffff00"),
	}

	ThemeCyberpunk = Theme{
		Name:   "cyberpunk",
		Arena:  lipgloss.Color("#00ffff"),
		Accent: lipgloss.Color("#ff00ff"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#666666"),
		Alert:  lipgloss.Color("#ffff00"),
	}

	ThemeSunset = Theme{
		Name:   "sunset",
		Arena:  lipgloss.Color("#feca57"),
		Accent: lipgloss.Color("#ff6b6b"),
		Text:   lipgloss.Color("#fff5f5"),
		Muted:  lipgloss.Color("#8b6b8c"),
		Alert:  lipgloss.Color("#ff4757"),
	}

	Themes = []Theme{
		ThemeMono,
		ThemeRetroGreen,
		ThemeCyberpunk,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to mono.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeMono
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

func themeIndex(name string) int {
	for i, t := range Themes {
		if t.Name == name {
			return i
		}
	}
	return 0
}
