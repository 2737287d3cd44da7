package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marktree/marktree/internal/event"
)

var eventsJSON bool

var eventsCmd = &cobra.Command{
	Use:   "events [file]",
	Short: "Dump the markdown parse events",
	Long: `Print the flat event stream a markdown document tokenizes into.

Each line is one event, indented by nesting depth. This is the stream the
renderer consumes, so it is the place to look when rendered output differs
from what the source seems to say. Reads stdin when no file is given.

Examples:
  marktree events doc.md
  marktree events --json doc.md | jq '.[].kind'
  echo '# hi' | marktree events`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEvents,
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.Flags().BoolVar(&eventsJSON, "json", false, "Output as JSON")
}

func runEvents(cmd *cobra.Command, args []string) error {
	source, err := readSource(args)
	if err != nil {
		return err
	}
	events := event.Tokenize(source)
	if eventsJSON {
		return printEventsJSON(events)
	}

	depth := 0
	for _, ev := range events {
		if ev.Kind == event.KindEnd && depth > 0 {
			depth--
		}
		fmt.Printf("%s%s\n", strings.Repeat("  ", depth), ev)
		if ev.Kind == event.KindStart {
			depth++
		}
	}
	return nil
}

func readSource(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(args[0])
}

func printEventsJSON(events []event.Event) error {
	type jsonEvent struct {
		Kind    string `json:"kind"`
		Tag     string `json:"tag,omitempty"`
		Literal string `json:"literal,omitempty"`
		Checked *bool  `json:"checked,omitempty"`
	}
	out := make([]jsonEvent, 0, len(events))
	for _, ev := range events {
		je := jsonEvent{Kind: ev.Kind.String(), Literal: ev.Literal}
		if ev.Kind == event.KindStart || ev.Kind == event.KindEnd {
			je.Tag = ev.Tag.String()
		}
		if ev.Kind == event.KindTaskMarker {
			checked := ev.Checked
			je.Checked = &checked
		}
		out = append(out, je)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
