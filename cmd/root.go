package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is stamped by the release build via ldflags.
var Version = "dev"

func init() {
	rootCmd.PersistentFlags().StringVar(&flagTheme, "theme", "", "Color theme (see 'marktree themes')")
	rootCmd.PersistentFlags().IntVarP(&flagWidth, "width", "w", 0, "Wrap width in columns (0 = terminal width)")
}

var rootCmd = &cobra.Command{
	Use:   "marktree",
	Short: "Render markdown as styled terminal output or HTML",
	Long: `marktree parses markdown into a styled document tree and renders the
tree for terminals or as HTML.

Examples:
  marktree render README.md               # styled output on stdout
  marktree render --format html doc.md    # HTML fragment
  marktree render -o site 'docs/**/*.md'  # render a tree of files
  some-tool | marktree render             # stream stdin block by block

  marktree view README.md                 # scrollable pager
  marktree events doc.md                  # inspect the parse events
  marktree config theme                   # pick a color theme`,
	Version:           Version,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
}

var flagTheme string
var flagWidth int

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
