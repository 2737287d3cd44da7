// Package config loads marktree settings from the user config file with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"

	"github.com/marktree/marktree/internal/termsink"
)

type Config struct {
	Format string       `mapstructure:"format" yaml:"format"`
	Width  int          `mapstructure:"width" yaml:"width"`
	Theme  ThemeConfig  `mapstructure:"theme" yaml:"theme"`
	Images ImagesConfig `mapstructure:"images" yaml:"images"`
	Render RenderConfig `mapstructure:"render" yaml:"render"`
}

// ThemeConfig selects a built-in theme and lets individual colors be
// overridden on top of it. Colors are hex codes or ANSI numbers.
type ThemeConfig struct {
	Name      string `mapstructure:"name" yaml:"name"`
	Heading   string `mapstructure:"heading" yaml:"heading,omitempty"`
	Quote     string `mapstructure:"quote" yaml:"quote,omitempty"`
	Rule      string `mapstructure:"rule" yaml:"rule,omitempty"`
	Link      string `mapstructure:"link" yaml:"link,omitempty"`
	LinkURL   string `mapstructure:"link_url" yaml:"link_url,omitempty"`
	Code      string `mapstructure:"code" yaml:"code,omitempty"`
	Gutter    string `mapstructure:"gutter" yaml:"gutter,omitempty"`
	Muted     string `mapstructure:"muted" yaml:"muted,omitempty"`
	Checked   string `mapstructure:"checked" yaml:"checked,omitempty"`
	Caption   string `mapstructure:"caption" yaml:"caption,omitempty"`
	TableLine string `mapstructure:"table_line" yaml:"table_line,omitempty"`

	// Syntax overrides classifier class colors, keyed by class name.
	Syntax map[string]string `mapstructure:"syntax" yaml:"syntax,omitempty"`
}

// ImagesConfig controls inline image emission.
type ImagesConfig struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
	BasePath string `mapstructure:"base_path" yaml:"base_path,omitempty"` // prefixed onto relative urls
	Protocol string `mapstructure:"protocol" yaml:"protocol"`             // auto, kitty, iterm, sixel
}

type RenderConfig struct {
	Exclude []string `mapstructure:"exclude" yaml:"exclude,omitempty"` // glob patterns skipped during expansion
}

func Load() (*Config, error) {
	configPath, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")

	v.SetDefault("format", "term")
	v.SetDefault("width", 0)
	v.SetDefault("theme.name", "dracula")
	v.SetDefault("images.enabled", true)
	v.SetDefault("images.base_path", "")
	v.SetDefault("images.protocol", "auto")
	v.SetDefault("render.exclude", []string{})

	v.SetEnvPrefix("MARKTREE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Images.BasePath = expandEnv(cfg.Images.BasePath)
	return &cfg, nil
}

// ApplyOverrides applies command-line overrides onto the loaded config.
// Empty values leave the config untouched.
func (c *Config) ApplyOverrides(format, theme string, width int) {
	if format != "" {
		c.Format = format
	}
	if theme != "" {
		c.Theme.Name = theme
	}
	if width > 0 {
		c.Width = width
	}
}

// Build resolves the configured theme: named preset first, individual
// color overrides on top.
func (t ThemeConfig) Build() (*termsink.Theme, error) {
	name := t.Name
	if name == "" {
		name = "dracula"
	}
	theme, ok := termsink.ThemeByName(name)
	if !ok {
		return nil, fmt.Errorf("unknown theme %q", name)
	}

	override := func(dst *lipgloss.Color, value string) {
		if value != "" {
			*dst = lipgloss.Color(value)
		}
	}
	override(&theme.Heading, t.Heading)
	override(&theme.Quote, t.Quote)
	override(&theme.Rule, t.Rule)
	override(&theme.Link, t.Link)
	override(&theme.LinkURL, t.LinkURL)
	override(&theme.Code, t.Code)
	override(&theme.Gutter, t.Gutter)
	override(&theme.Muted, t.Muted)
	override(&theme.Checked, t.Checked)
	override(&theme.Caption, t.Caption)
	override(&theme.TableLine, t.TableLine)

	for class, value := range t.Syntax {
		if value != "" {
			theme.Syntax[class] = lipgloss.Color(value)
		}
	}
	return theme, nil
}

// expandEnv expands ${VAR} or $VAR in a string
func expandEnv(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}
	if strings.HasPrefix(s, "$") {
		return os.Getenv(s[1:])
	}
	return s
}

// GetConfigDir returns the XDG config directory for marktree.
// Uses $XDG_CONFIG_HOME if set, otherwise ~/.config
func GetConfigDir() (string, error) {
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		return filepath.Join(xdgHome, "marktree"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "marktree"), nil
}

// GetConfigPath returns the path where the config file should be located
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.yaml"), nil
}

// Exists returns true if a config file exists
func Exists() bool {
	path, err := GetConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Save writes the config to disk
func Save(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	content := fmt.Sprintf(`# Output format: term or html
format: %s

# Render width in columns. 0 detects the terminal width.
width: %d

theme:
  name: %s
  # Individual colors can be overridden, hex or ANSI 0-255:
  # heading: "#bd93f9"
  # syntax:
  #   keyword: "#ff79c6"

images:
  enabled: %t
  # Protocol: auto, kitty, iterm or sixel
  protocol: %s
  # base_path prefixes relative image urls:
  # base_path: ./assets

render:
  # Glob patterns excluded when directories expand:
  # exclude:
  #   - "**/node_modules/**"
`, cfg.Format, cfg.Width, cfg.Theme.Name, cfg.Images.Enabled, cfg.Images.Protocol)

	return os.WriteFile(path, []byte(content), 0600)
}
