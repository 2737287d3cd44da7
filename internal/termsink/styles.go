// Package termsink renders document trees as styled ANSI terminal output.
// It is the terminal counterpart of the HTML writer: same tree in, wrapped
// and colored text out.
package termsink

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is the color palette for terminal rendering. The defaults follow
// the Dracula palette the code classifier is tuned against, so highlighted
// blocks and surrounding prose agree.
type Theme struct {
	Heading   lipgloss.Color
	Quote     lipgloss.Color
	Rule      lipgloss.Color
	Link      lipgloss.Color
	LinkURL   lipgloss.Color
	Code      lipgloss.Color
	Gutter    lipgloss.Color
	Muted     lipgloss.Color
	Checked   lipgloss.Color
	Caption   lipgloss.Color
	TableLine lipgloss.Color

	Syntax map[string]lipgloss.Color
}

// DefaultTheme returns the Dracula terminal palette.
func DefaultTheme() *Theme {
	return &Theme{
		Heading:   lipgloss.Color("#bd93f9"), // purple
		Quote:     lipgloss.Color("#6272a4"), // comment blue
		Rule:      lipgloss.Color("#6272a4"),
		Link:      lipgloss.Color("#8be9fd"), // cyan
		LinkURL:   lipgloss.Color("#6272a4"),
		Code:      lipgloss.Color("#f1fa8c"), // yellow
		Gutter:    lipgloss.Color("#6272a4"),
		Muted:     lipgloss.Color("#6272a4"),
		Checked:   lipgloss.Color("#50fa7b"), // green
		Caption:   lipgloss.Color("#6272a4"),
		TableLine: lipgloss.Color("#6272a4"),

		Syntax: map[string]lipgloss.Color{
			"keyword":   lipgloss.Color("#ff79c6"),
			"function":  lipgloss.Color("#50fa7b"),
			"comment":   lipgloss.Color("#6272a4"),
			"string":    lipgloss.Color("#f1fa8c"),
			"number":    lipgloss.Color("#bd93f9"),
			"type":      lipgloss.Color("#8be9fd"),
			"bool":      lipgloss.Color("#bd93f9"),
			"attribute": lipgloss.Color("#50fa7b"),
			"text":      lipgloss.Color("#f8f8f2"),
		},
	}
}

// Styles holds the lipgloss styles for one output, bound to its renderer so
// color degradation follows the output's capabilities.
type Styles struct {
	renderer *lipgloss.Renderer
	theme    *Theme

	Heading     lipgloss.Style
	Emphasis    lipgloss.Style
	Strong      lipgloss.Style
	Strike      lipgloss.Style
	Quote       lipgloss.Style
	Rule        lipgloss.Style
	Link        lipgloss.Style
	LinkURL     lipgloss.Style
	Code        lipgloss.Style
	Gutter      lipgloss.Style
	Muted       lipgloss.Style
	Checked     lipgloss.Style
	Caption     lipgloss.Style
	TableHeader lipgloss.Style
	TableLine   lipgloss.Style

	syntax map[string]lipgloss.Style
}

// NewStyles builds the style set for the given renderer and theme.
func NewStyles(r *lipgloss.Renderer, theme *Theme) *Styles {
	s := &Styles{
		renderer: r,
		theme:    theme,

		Heading: r.NewStyle().
			Bold(true).
			Foreground(theme.Heading),

		Emphasis: r.NewStyle().
			Italic(true),

		Strong: r.NewStyle().
			Bold(true),

		Strike: r.NewStyle().
			Strikethrough(true),

		Quote: r.NewStyle().
			Foreground(theme.Quote),

		Rule: r.NewStyle().
			Foreground(theme.Rule),

		Link: r.NewStyle().
			Underline(true).
			Foreground(theme.Link),

		LinkURL: r.NewStyle().
			Foreground(theme.LinkURL),

		Code: r.NewStyle().
			Foreground(theme.Code),

		Gutter: r.NewStyle().
			Foreground(theme.Gutter),

		Muted: r.NewStyle().
			Foreground(theme.Muted),

		Checked: r.NewStyle().
			Foreground(theme.Checked),

		Caption: r.NewStyle().
			Italic(true).
			Foreground(theme.Caption),

		TableHeader: r.NewStyle().
			Bold(true),

		TableLine: r.NewStyle().
			Foreground(theme.TableLine),
	}

	s.syntax = make(map[string]lipgloss.Style, len(theme.Syntax))
	for class, color := range theme.Syntax {
		s.syntax[class] = r.NewStyle().Foreground(color)
	}
	return s
}

// Syntax returns the style for a classifier class, falling back to the
// plain text style for classes the theme does not name.
func (s *Styles) Syntax(class string) lipgloss.Style {
	if st, ok := s.syntax[class]; ok {
		return st
	}
	if st, ok := s.syntax["text"]; ok {
		return st
	}
	return s.renderer.NewStyle()
}

// Theme returns the theme these styles were built from.
func (s *Styles) Theme() *Theme {
	return s.theme
}
