package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/marktree/marktree/internal/render"
	"github.com/marktree/marktree/internal/termsink"
	"github.com/marktree/marktree/internal/tui/viewer"
)

var viewCmd = &cobra.Command{
	Use:   "view <file>",
	Short: "Page through a rendered markdown file",
	Long: `Open a rendered markdown file in a scrollable full-screen pager.

The document reflows when the terminal resizes.

Examples:
  marktree view README.md
  marktree view --theme nord NOTES.md`,
	Args: cobra.ExactArgs(1),
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	theme, err := cfg.Theme.Build()
	if err != nil {
		return err
	}

	path := args[0]
	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	doc, err := render.Document(string(source), fileOptions(cfg, path))
	if err != nil {
		return err
	}

	// Inline images are escape sequences the viewport cannot scroll, so
	// the pager always renders the placeholder form.
	styles := termsink.New(os.Stdout, termsink.WithTheme(theme)).Styles()
	renderDoc := func(width int) string {
		if cfg.Width > 0 {
			width = cfg.Width
		}
		sink := termsink.New(os.Stdout, termsink.WithTheme(theme), termsink.WithWidth(width))
		return sink.Render(doc)
	}
	return viewer.Show(filepath.Base(path), styles, renderDoc, string(source))
}
