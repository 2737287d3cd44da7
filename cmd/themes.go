package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/marktree/marktree/internal/termsink"
)

var themesCmd = &cobra.Command{
	Use:   "themes [filter]",
	Short: "List the built-in color themes",
	Long: `List the built-in color themes with a sample of each palette.

An argument fuzzy-filters the list by name. Pick one with --theme, the
theme.name config key, or 'marktree config theme'.

Examples:
  marktree themes
  marktree themes sol
  marktree render --theme gruvbox README.md`,
	Args: cobra.MaximumNArgs(1),
	RunE: runThemes,
}

func init() {
	rootCmd.AddCommand(themesCmd)
}

func runThemes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	presets := termsink.Presets()
	if len(args) > 0 {
		names := make([]string, len(presets))
		for i, p := range presets {
			names[i] = p.Name
		}
		matches := fuzzy.Find(args[0], names)
		filtered := make([]termsink.Preset, 0, len(matches))
		for _, m := range matches {
			filtered = append(filtered, presets[m.Index])
		}
		presets = filtered
	}

	r := lipgloss.NewRenderer(os.Stdout)
	for _, p := range presets {
		theme, ok := termsink.ThemeByName(p.Name)
		if !ok {
			continue
		}
		name := p.Name
		if p.Name == cfg.Theme.Name {
			name += " *"
		}
		fmt.Printf("%s  %-12s %s\n", swatch(r, theme), name, p.Description)
	}
	return nil
}

// swatch renders a block sample of the theme's leading colors.
func swatch(r *lipgloss.Renderer, t *termsink.Theme) string {
	colors := []lipgloss.Color{t.Heading, t.Link, t.Code, t.Quote, t.Checked}
	var b strings.Builder
	for _, c := range colors {
		b.WriteString(r.NewStyle().Foreground(c).Render("██"))
	}
	return b.String()
}
