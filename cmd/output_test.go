package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/marktree/marktree/internal/config"
	"github.com/marktree/marktree/internal/termimg"
)

// clearGraphicsEnv blanks the variables protocol detection reads so tests
// behave the same inside and outside graphical terminals.
func clearGraphicsEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"KITTY_WINDOW_ID", "TERM", "TERM_PROGRAM", "LC_TERMINAL"} {
		t.Setenv(key, "")
	}
}

func TestOutputWidth(t *testing.T) {
	file, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	t.Run("explicit width wins", func(t *testing.T) {
		cfg := &config.Config{Width: 120}
		if got := outputWidth(cfg, file); got != 120 {
			t.Errorf("outputWidth=%d, want 120", got)
		}
	})

	t.Run("non-terminal falls back to 80", func(t *testing.T) {
		cfg := &config.Config{}
		if got := outputWidth(cfg, file); got != 80 {
			t.Errorf("outputWidth=%d, want 80", got)
		}
	})
}

func TestImageEmitter(t *testing.T) {
	clearGraphicsEnv(t)

	t.Run("disabled yields nil", func(t *testing.T) {
		cfg := &config.Config{Images: config.ImagesConfig{Enabled: false}}
		if got := imageEmitter(cfg); got != nil {
			t.Errorf("imageEmitter=%v, want nil", got)
		}
	})

	t.Run("forced protocol skips detection", func(t *testing.T) {
		cfg := &config.Config{Images: config.ImagesConfig{Enabled: true, Protocol: "kitty"}}
		e, ok := imageEmitter(cfg).(*termimg.Emitter)
		if !ok {
			t.Fatal("expected a termimg emitter")
		}
		if e.Capability() != termimg.CapKitty {
			t.Errorf("capability=%v, want kitty", e.Capability())
		}
	})

	t.Run("auto without support yields nil", func(t *testing.T) {
		cfg := &config.Config{Images: config.ImagesConfig{Enabled: true, Protocol: "auto"}}
		if got := imageEmitter(cfg); got != nil {
			t.Errorf("imageEmitter=%v, want nil", got)
		}
	})
}

func TestFileOptions(t *testing.T) {
	t.Run("defaults to file directory", func(t *testing.T) {
		cfg := &config.Config{}
		opts := fileOptions(cfg, filepath.Join("docs", "guide", "x.md"))
		if want := filepath.Join("docs", "guide"); opts.ImageBasePath != want {
			t.Errorf("ImageBasePath=%q, want %q", opts.ImageBasePath, want)
		}
	})

	t.Run("configured base path wins", func(t *testing.T) {
		cfg := &config.Config{Images: config.ImagesConfig{BasePath: "/assets"}}
		opts := fileOptions(cfg, "docs/x.md")
		if opts.ImageBasePath != "/assets" {
			t.Errorf("ImageBasePath=%q, want /assets", opts.ImageBasePath)
		}
	})
}
