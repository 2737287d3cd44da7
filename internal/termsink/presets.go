package termsink

import "github.com/charmbracelet/lipgloss"

// Preset names a built-in terminal theme.
type Preset struct {
	Name        string
	Description string
}

// presetOrder fixes the display order of built-in themes.
var presetOrder = []Preset{
	{"dracula", "Dark theme with purple accents, matches the code classifier palette"},
	{"gruvbox", "Retro groove color scheme"},
	{"nord", "Arctic, north-bluish color palette"},
	{"solarized", "Precision colors for machines and people"},
	{"monokai", "Vibrant colors inspired by Sublime Text"},
}

// Presets lists the built-in themes in display order.
func Presets() []Preset {
	out := make([]Preset, len(presetOrder))
	copy(out, presetOrder)
	return out
}

// ThemeByName builds a fresh copy of the named built-in theme. The second
// return is false for names Presets does not list.
func ThemeByName(name string) (*Theme, bool) {
	switch name {
	case "dracula":
		return DefaultTheme(), true
	case "gruvbox":
		return gruvboxTheme(), true
	case "nord":
		return nordTheme(), true
	case "solarized":
		return solarizedTheme(), true
	case "monokai":
		return monokaiTheme(), true
	}
	return nil, false
}

func gruvboxTheme() *Theme {
	return &Theme{
		Heading:   lipgloss.Color("#b8bb26"), // green
		Quote:     lipgloss.Color("#928374"), // gray
		Rule:      lipgloss.Color("#928374"),
		Link:      lipgloss.Color("#83a598"), // aqua
		LinkURL:   lipgloss.Color("#928374"),
		Code:      lipgloss.Color("#fabd2f"), // yellow
		Gutter:    lipgloss.Color("#928374"),
		Muted:     lipgloss.Color("#928374"),
		Checked:   lipgloss.Color("#b8bb26"),
		Caption:   lipgloss.Color("#928374"),
		TableLine: lipgloss.Color("#928374"),

		Syntax: map[string]lipgloss.Color{
			"keyword":   lipgloss.Color("#fb4934"),
			"function":  lipgloss.Color("#8ec07c"),
			"comment":   lipgloss.Color("#928374"),
			"string":    lipgloss.Color("#b8bb26"),
			"number":    lipgloss.Color("#d3869b"),
			"type":      lipgloss.Color("#fabd2f"),
			"bool":      lipgloss.Color("#d3869b"),
			"attribute": lipgloss.Color("#8ec07c"),
			"text":      lipgloss.Color("#ebdbb2"),
		},
	}
}

func nordTheme() *Theme {
	return &Theme{
		Heading:   lipgloss.Color("#88c0d0"), // frost cyan
		Quote:     lipgloss.Color("#4c566a"), // polar night
		Rule:      lipgloss.Color("#4c566a"),
		Link:      lipgloss.Color("#81a1c1"), // frost blue
		LinkURL:   lipgloss.Color("#4c566a"),
		Code:      lipgloss.Color("#ebcb8b"), // aurora yellow
		Gutter:    lipgloss.Color("#4c566a"),
		Muted:     lipgloss.Color("#4c566a"),
		Checked:   lipgloss.Color("#a3be8c"), // aurora green
		Caption:   lipgloss.Color("#4c566a"),
		TableLine: lipgloss.Color("#4c566a"),

		Syntax: map[string]lipgloss.Color{
			"keyword":   lipgloss.Color("#81a1c1"),
			"function":  lipgloss.Color("#88c0d0"),
			"comment":   lipgloss.Color("#4c566a"),
			"string":    lipgloss.Color("#a3be8c"),
			"number":    lipgloss.Color("#b48ead"),
			"type":      lipgloss.Color("#8fbcbb"),
			"bool":      lipgloss.Color("#81a1c1"),
			"attribute": lipgloss.Color("#8fbcbb"),
			"text":      lipgloss.Color("#d8dee9"),
		},
	}
}

func solarizedTheme() *Theme {
	return &Theme{
		Heading:   lipgloss.Color("#268bd2"), // blue
		Quote:     lipgloss.Color("#586e75"), // base01
		Rule:      lipgloss.Color("#586e75"),
		Link:      lipgloss.Color("#2aa198"), // cyan
		LinkURL:   lipgloss.Color("#586e75"),
		Code:      lipgloss.Color("#b58900"), // yellow
		Gutter:    lipgloss.Color("#586e75"),
		Muted:     lipgloss.Color("#586e75"),
		Checked:   lipgloss.Color("#859900"), // green
		Caption:   lipgloss.Color("#586e75"),
		TableLine: lipgloss.Color("#586e75"),

		Syntax: map[string]lipgloss.Color{
			"keyword":   lipgloss.Color("#859900"),
			"function":  lipgloss.Color("#268bd2"),
			"comment":   lipgloss.Color("#586e75"),
			"string":    lipgloss.Color("#2aa198"),
			"number":    lipgloss.Color("#d33682"),
			"type":      lipgloss.Color("#b58900"),
			"bool":      lipgloss.Color("#d33682"),
			"attribute": lipgloss.Color("#268bd2"),
			"text":      lipgloss.Color("#839496"),
		},
	}
}

func monokaiTheme() *Theme {
	return &Theme{
		Heading:   lipgloss.Color("#a6e22e"), // green
		Quote:     lipgloss.Color("#75715e"), // comment
		Rule:      lipgloss.Color("#75715e"),
		Link:      lipgloss.Color("#66d9ef"), // cyan
		LinkURL:   lipgloss.Color("#75715e"),
		Code:      lipgloss.Color("#e6db74"), // yellow
		Gutter:    lipgloss.Color("#75715e"),
		Muted:     lipgloss.Color("#75715e"),
		Checked:   lipgloss.Color("#a6e22e"),
		Caption:   lipgloss.Color("#75715e"),
		TableLine: lipgloss.Color("#75715e"),

		Syntax: map[string]lipgloss.Color{
			"keyword":   lipgloss.Color("#f92672"),
			"function":  lipgloss.Color("#a6e22e"),
			"comment":   lipgloss.Color("#75715e"),
			"string":    lipgloss.Color("#e6db74"),
			"number":    lipgloss.Color("#ae81ff"),
			"type":      lipgloss.Color("#66d9ef"),
			"bool":      lipgloss.Color("#ae81ff"),
			"attribute": lipgloss.Color("#a6e22e"),
			"text":      lipgloss.Color("#f8f8f2"),
		},
	}
}
