package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/marktree/marktree/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or modify configuration",
	Long: `Show the effective configuration, or manage the config file.

Examples:
  marktree config          # effective config as YAML
  marktree config path     # config file location
  marktree config edit     # open in $EDITOR
  marktree config theme    # interactive theme picker
  marktree config reset    # restore the default config file`,
	RunE: configShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE:  configPath,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the config file in your editor",
	RunE:  configEdit,
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the config file to defaults",
	RunE:  configReset,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configResetCmd)
}

func configShow(cmd *cobra.Command, args []string) error {
	path, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if config.Exists() {
		fmt.Printf("# %s\n", path)
	} else {
		fmt.Printf("# %s (not created yet, showing defaults)\n", path)
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}

func configPath(cmd *cobra.Command, args []string) error {
	path, err := config.GetConfigPath()
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

func configEdit(cmd *cobra.Command, args []string) error {
	path, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	if !config.Exists() {
		if err := config.Save(defaultConfig()); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		editor = "vi"
	}

	editorCmd := exec.Command(editor, path)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr
	return editorCmd.Run()
}

func configReset(cmd *cobra.Command, args []string) error {
	path, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	if err := config.Save(defaultConfig()); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Config reset to defaults: %s\n", path)
	return nil
}

// defaultConfig is the config written for a fresh file. Built directly
// rather than through Load so environment overrides do not leak into the
// file on disk.
func defaultConfig() *config.Config {
	return &config.Config{
		Format: "term",
		Theme:  config.ThemeConfig{Name: "dracula"},
		Images: config.ImagesConfig{Enabled: true, Protocol: "auto"},
	}
}
