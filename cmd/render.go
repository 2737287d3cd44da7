package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gobwas/glob"
	diff "github.com/shogoki/gotextdiff"
	"github.com/spf13/cobra"

	"github.com/marktree/marktree/internal/config"
	"github.com/marktree/marktree/internal/doctree"
	"github.com/marktree/marktree/internal/render"
	"github.com/marktree/marktree/internal/stream"
	"github.com/marktree/marktree/internal/termsink"
)

var renderFormat string
var renderOut string
var renderCheck bool

var renderCmd = &cobra.Command{
	Use:   "render [file|glob ...]",
	Short: "Render markdown files or stdin",
	Long: `Render markdown files to the terminal or to HTML.

Globs use ** for recursive matching and expand relative to the working
directory; patterns from render.exclude in the config are skipped. Without
arguments (or with -) input is read from stdin and rendered block by block
as it arrives, so piped output from a slow producer displays incrementally.

Examples:
  marktree render README.md
  marktree render 'docs/**/*.md'
  marktree render --format html -o site 'docs/**/*.md'
  marktree render --check -o site 'docs/**/*.md'
  slow-tool | marktree render`,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "", "Output format: term or html")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Directory to write one HTML file per input into")
	renderCmd.Flags().BoolVar(&renderCheck, "check", false, "Diff rendered HTML against existing output files instead of writing")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.ApplyOverrides(renderFormat, "", 0)

	if len(args) == 0 || len(args) == 1 && args[0] == "-" {
		return renderStdin(cfg)
	}

	paths, err := expandArgs(args, cfg.Render.Exclude)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no files match %s", strings.Join(args, " "))
	}

	if renderCheck {
		return checkHTML(cfg, paths)
	}
	switch cfg.Format {
	case "term":
		return renderTerm(cfg, paths)
	case "html":
		return renderHTML(cfg, paths)
	default:
		return fmt.Errorf("unknown format %q (want term or html)", cfg.Format)
	}
}

func renderStdin(cfg *config.Config) error {
	ropts := render.Options{ImageBasePath: cfg.Images.BasePath}

	if cfg.Format == "html" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		doc, err := render.Document(string(data), ropts)
		if err != nil {
			return err
		}
		_, err = io.WriteString(os.Stdout, doctree.HTML(doc)+"\n")
		return err
	}

	opts, err := sinkOptions(cfg, os.Stdout)
	if err != nil {
		return err
	}

	// An interrupt closes stdin so a partially received document still
	// flushes before exit.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		os.Stdin.Close()
	}()

	r := stream.New(os.Stdout, ropts, opts...)
	if _, err := io.Copy(r, os.Stdin); err != nil && !errors.Is(err, os.ErrClosed) {
		return err
	}
	return r.Close()
}

func renderTerm(cfg *config.Config, paths []string) error {
	opts, err := sinkOptions(cfg, os.Stdout)
	if err != nil {
		return err
	}
	sink := termsink.New(os.Stdout, opts...)
	for i, path := range paths {
		if len(paths) > 1 {
			if i > 0 {
				fmt.Println()
			}
			fmt.Println(sink.Styles().Muted.Render(path))
			fmt.Println()
		}
		doc, err := render.DocumentFromFile(path, "", fileOptions(cfg, path))
		if err != nil {
			return err
		}
		if err := sink.Write(doc); err != nil {
			return err
		}
	}
	return nil
}

func renderHTML(cfg *config.Config, paths []string) error {
	for _, path := range paths {
		doc, err := render.DocumentFromFile(path, "", fileOptions(cfg, path))
		if err != nil {
			return err
		}
		html := doctree.HTML(doc) + "\n"

		if renderOut == "" {
			if _, err := io.WriteString(os.Stdout, html); err != nil {
				return err
			}
			continue
		}

		out := htmlPath(path)
		if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		if err := os.WriteFile(out, []byte(html), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}
		fmt.Printf("wrote %s\n", out)
	}
	return nil
}

// checkHTML re-renders each input and diffs it against the HTML file a
// plain render would have written. Used to keep generated output in sync
// with its sources.
func checkHTML(cfg *config.Config, paths []string) error {
	var stale int
	for _, path := range paths {
		doc, err := render.DocumentFromFile(path, "", fileOptions(cfg, path))
		if err != nil {
			return err
		}
		want := []byte(doctree.HTML(doc) + "\n")

		out := htmlPath(path)
		have, err := os.ReadFile(out)
		if err != nil {
			if os.IsNotExist(err) {
				fmt.Printf("missing %s\n", out)
				stale++
				continue
			}
			return err
		}
		if d := diff.Diff(out, have, out, want); len(d) > 0 {
			os.Stdout.Write(d)
			stale++
		}
	}
	if stale > 0 {
		return fmt.Errorf("%d file(s) out of date", stale)
	}
	return nil
}

// htmlPath maps a markdown input to its HTML output path, mirroring the
// input's directory structure under --out when set.
func htmlPath(path string) string {
	out := strings.TrimSuffix(path, filepath.Ext(path)) + ".html"
	if renderOut == "" {
		return out
	}
	return filepath.Join(renderOut, out)
}

// expandArgs resolves file and glob arguments into a sorted, deduplicated
// path list with the exclude patterns filtered out.
func expandArgs(args, exclude []string) ([]string, error) {
	excludes := make([]glob.Glob, 0, len(exclude))
	for _, pattern := range exclude {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("bad exclude pattern %q: %w", pattern, err)
		}
		excludes = append(excludes, g)
	}

	seen := make(map[string]bool)
	var paths []string
	add := func(path string) {
		path = filepath.ToSlash(path)
		for _, g := range excludes {
			if g.Match(path) {
				return
			}
		}
		if !seen[path] {
			seen[path] = true
			paths = append(paths, path)
		}
	}

	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[{") {
			if _, err := os.Stat(arg); err != nil {
				return nil, err
			}
			add(arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad glob %q: %w", arg, err)
		}
		for _, m := range matches {
			add(m)
		}
	}

	sort.Strings(paths)
	return paths, nil
}
