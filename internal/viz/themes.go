package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the colour scheme for heatmaps and the live view.
// Low/High form the ramp for magnitudes; Negative/Positive are the two
// ends of the diverging ramp for signed data.
type Theme struct {
	Name     string
	Low      lipgloss.Color
	High     lipgloss.Color
	Negative lipgloss.Color
	Positive lipgloss.Color
	Text     lipgloss.Color
	Muted    lipgloss.Color
	Error    lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:     "cyberpunk",
		Low:      lipgloss.Color("#1a001a"),
		High:     lipgloss.Color("#ff00ff"),
		Negative: lipgloss.Color("#00ffff"),
		Positive: lipgloss.Color("#ff00ff"),
		Text:     lipgloss.Color("#ffffff"),
		Muted:    lipgloss.Color("#666666"),
		Error:    lipgloss.Color("#ff0000"),
	}

	ThemeOcean = Theme{
		Name:     "ocean",
		Low:      lipgloss.Color("#001a33"),
		High:     lipgloss.Color("#00a8cc"),
		Negative: lipgloss.Color("#0077be"),
		Positive: lipgloss.Color("#ffd700"),
		Text:     lipgloss.Color("#e0f0ff"),
		Muted:    lipgloss.Color("#4488aa"),
		Error:    lipgloss.Color("#ff4444"),
	}

	ThemeSunset = Theme{
		Name:     "sunset",
		Low:      lipgloss.Color("#2d1b2e"),
		High:     lipgloss.Color("#feca57"),
		Negative: lipgloss.Color("#5f27cd"),
		Positive: lipgloss.Color("#ff6b6b"),
		Text:     lipgloss.Color("#fff5f5"),
		Muted:    lipgloss.Color("#8b6b8c"),
		Error:    lipgloss.Color("#ff4757"),
	}

	ThemeMinimal = Theme{
		Name:     "minimal",
		Low:      lipgloss.Color("#222222"),
		High:     lipgloss.Color("#ffffff"),
		Negative: lipgloss.Color("#0088ff"),
		Positive: lipgloss.Color("#ff8800"),
		Text:     lipgloss.Color("#ffffff"),
		Muted:    lipgloss.Color("#888888"),
		Error:    lipgloss.Color("#ff0000"),
	}

	CurrentTheme = ThemeOcean

	Themes = []Theme{
		ThemeOcean,
		ThemeCyberpunk,
		ThemeSunset,
		ThemeMinimal,
	}
)

// GetTheme returns a theme by name, falling back to ocean.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeOcean
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	names := ThemeNames()
	for i, name := range names {
		if name == CurrentTheme.Name {
			SetTheme(names[(i+1)%len(names)])
			return
		}
	}
	SetTheme(names[0])
}
