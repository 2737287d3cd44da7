package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/marktree/marktree/internal/config"
	"github.com/marktree/marktree/internal/termsink"
)

var configThemeCmd = &cobra.Command{
	Use:   "theme [name]",
	Short: "Select the color theme",
	Long: `Select the color theme and save it to the config file.

With no argument an interactive picker opens. Only theme.name is written;
other keys in the config file are left untouched.

Available themes: dracula (default), gruvbox, nord, solarized, monokai`,
	Args: cobra.MaximumNArgs(1),
	RunE: configTheme,
}

func init() {
	configCmd.AddCommand(configThemeCmd)
}

func configTheme(cmd *cobra.Command, args []string) error {
	var name string
	if len(args) > 0 {
		name = args[0]
		if _, ok := termsink.ThemeByName(name); !ok {
			return fmt.Errorf("unknown theme %q (see 'marktree themes')", name)
		}
	} else {
		current := ""
		if cfg, err := config.Load(); err == nil {
			current = cfg.Theme.Name
		}
		selected, err := pickTheme(current)
		if err != nil || selected == "" {
			return err
		}
		name = selected
	}

	if err := saveThemeName(name); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	fmt.Printf("Theme set to: %s\n", name)
	return nil
}

// pickTheme runs the interactive selector. An empty name means cancelled.
func pickTheme(current string) (string, error) {
	presets := termsink.Presets()
	options := make([]huh.Option[string], 0, len(presets))
	var selected string
	for _, p := range presets {
		label := fmt.Sprintf("%-12s %s", p.Name, p.Description)
		if p.Name == current {
			selected = p.Name
		}
		options = append(options, huh.NewOption(label, p.Name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select a theme").
				Options(options...).
				Value(&selected),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", nil
		}
		return "", err
	}
	return selected, nil
}

// saveThemeName writes theme.name into the config file, preserving every
// other key already there.
func saveThemeName(name string) error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}

	var root yaml.Node
	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		root = emptyDocument()
	case err != nil:
		return err
	default:
		if err := yaml.Unmarshal(data, &root); err != nil {
			return err
		}
		// A file holding only comments unmarshals to a zero node.
		if root.Kind == 0 || len(root.Content) == 0 {
			root = emptyDocument()
		}
	}

	if err := setYAMLValue(&root, []string{"theme", "name"}, name); err != nil {
		return err
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&root); err != nil {
		return err
	}
	encoder.Close()

	return os.WriteFile(configPath, buf.Bytes(), 0600)
}

func emptyDocument() yaml.Node {
	return yaml.Node{
		Kind:    yaml.DocumentNode,
		Content: []*yaml.Node{{Kind: yaml.MappingNode}},
	}
}

// setYAMLValue sets a dotted-path scalar in a parsed YAML document,
// creating intermediate mappings as needed. Comments and unrelated keys
// survive because the document is edited as a node tree.
func setYAMLValue(root *yaml.Node, path []string, value string) error {
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return fmt.Errorf("invalid document structure")
	}

	current := root.Content[0]
	if current.Kind != yaml.MappingNode {
		return fmt.Errorf("root is not a mapping")
	}

	for i, part := range path {
		isLast := i == len(path)-1

		found := false
		for j := 0; j < len(current.Content); j += 2 {
			if current.Content[j].Value != part {
				continue
			}
			if isLast {
				valueNode := current.Content[j+1]
				valueNode.Value = value
				valueNode.Tag = ""
				valueNode.Kind = yaml.ScalarNode
				valueNode.Content = nil
			} else {
				current = current.Content[j+1]
				if current.Kind != yaml.MappingNode {
					current.Kind = yaml.MappingNode
					current.Content = nil
					current.Value = ""
					current.Tag = ""
				}
			}
			found = true
			break
		}

		if !found {
			keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: part}
			if isLast {
				valueNode := &yaml.Node{Kind: yaml.ScalarNode, Value: value}
				current.Content = append(current.Content, keyNode, valueNode)
			} else {
				mapping := &yaml.Node{Kind: yaml.MappingNode}
				current.Content = append(current.Content, keyNode, mapping)
				current = mapping
			}
		}
	}

	return nil
}
