package cmd

import (
	"os"
	"path/filepath"

	"golang.org/x/term"

	"github.com/marktree/marktree/internal/config"
	"github.com/marktree/marktree/internal/render"
	"github.com/marktree/marktree/internal/termimg"
	"github.com/marktree/marktree/internal/termsink"
)

// loadConfig loads the user config with the global flag overrides applied.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	cfg.ApplyOverrides("", flagTheme, flagWidth)
	return cfg, nil
}

// sinkOptions translates the config into termsink options for out.
func sinkOptions(cfg *config.Config, out *os.File) ([]termsink.Option, error) {
	theme, err := cfg.Theme.Build()
	if err != nil {
		return nil, err
	}
	opts := []termsink.Option{
		termsink.WithTheme(theme),
		termsink.WithWidth(outputWidth(cfg, out)),
	}
	if e := imageEmitter(cfg); e != nil {
		opts = append(opts, termsink.WithImages(e))
	}
	return opts, nil
}

// outputWidth resolves the wrap width: an explicit config width wins, then
// the terminal size, then 80 for non-terminal outputs.
func outputWidth(cfg *config.Config, out *os.File) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	if w, _, err := term.GetSize(int(out.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// imageEmitter builds the inline image emitter the config asks for, or nil
// when images are disabled or the terminal supports no graphics protocol.
func imageEmitter(cfg *config.Config) termsink.ImageEmitter {
	if !cfg.Images.Enabled {
		return nil
	}
	switch cfg.Images.Protocol {
	case "kitty":
		return termimg.NewWithCapability(termimg.CapKitty)
	case "iterm":
		return termimg.NewWithCapability(termimg.CapITerm)
	case "sixel":
		return termimg.NewWithCapability(termimg.CapSixel)
	}
	if e := termimg.New(); e.Supported() {
		return e
	}
	return nil
}

// fileOptions builds render options for a file input. Relative image urls
// resolve against the file's directory unless the config pins a base path.
func fileOptions(cfg *config.Config, path string) render.Options {
	base := cfg.Images.BasePath
	if base == "" {
		base = filepath.Dir(path)
	}
	return render.Options{ImageBasePath: base}
}
