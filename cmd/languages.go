package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/marktree/marktree/internal/highlight"
)

var languagesStyles bool

var languagesCmd = &cobra.Command{
	Use:     "languages [filter]",
	Aliases: []string{"langs"},
	Short:   "List languages the code classifier understands",
	Long: `List the languages available for fenced code block highlighting.

Any listed name works as a fence info string. An argument fuzzy-filters
the list.

Examples:
  marktree languages
  marktree languages script    # javascript, typescript, ...
  marktree languages --styles  # highlight style names instead`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLanguages,
}

func init() {
	rootCmd.AddCommand(languagesCmd)
	languagesCmd.Flags().BoolVar(&languagesStyles, "styles", false, "List highlight style names instead of languages")
}

func runLanguages(cmd *cobra.Command, args []string) error {
	names := highlight.LanguageNames()
	if languagesStyles {
		names = highlight.StyleNames()
	}
	if len(args) > 0 {
		matches := fuzzy.Find(args[0], names)
		filtered := make([]string, 0, len(matches))
		for _, m := range matches {
			filtered = append(filtered, names[m.Index])
		}
		names = filtered
	}
	for _, line := range columnize(names, displayWidth()) {
		fmt.Println(line)
	}
	return nil
}

// displayWidth is the terminal width for column layout, or 80 when the
// output is not a terminal.
func displayWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// columnize lays names out column-major in as many columns as fit.
func columnize(names []string, width int) []string {
	if len(names) == 0 {
		return nil
	}
	colWidth := 0
	for _, n := range names {
		if w := runewidth.StringWidth(n); w > colWidth {
			colWidth = w
		}
	}
	colWidth += 2
	cols := width / colWidth
	if cols < 1 {
		cols = 1
	}
	rows := (len(names) + cols - 1) / cols

	lines := make([]string, rows)
	for i, n := range names {
		lines[i%rows] += runewidth.FillRight(n, colWidth)
	}
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return lines
}
