package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Plugin is one entry from plugins/plugins.yaml: a plugin identity plus the
// marketplace it is installed from.
type Plugin struct {
	Name        string
	Marketplace string
	// Source is the marketplace source URL or owner/repo shorthand passed
	// to `plugin marketplace add`.
	Source string
	Docs   string
	// Installed is annotated from enabledPlugins in settings.json; display only.
	Installed bool
	Selected  bool
}

// Spec returns the name@marketplace form used by `plugin install`.
func (p *Plugin) Spec() string {
	return p.Name + "@" + p.Marketplace
}

// ShortSource returns the trailing owner/repo portion of the source URL for
// compact display.
func (p *Plugin) ShortSource() string {
	s := strings.TrimSuffix(p.Source, "/")
	s = strings.TrimSuffix(s, ".git")
	parts := strings.Split(s, "/")
	if len(parts) >= 2 {
		return parts[len(parts)-2] + "/" + parts[len(parts)-1]
	}
	return s
}

type marketplaceYAML struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
}

// pluginEntryYAML accepts both a bare string ("name") and a mapping
// ({name, description}).
type pluginEntryYAML struct {
	Name        string
	Description string
}

func (p *pluginEntryYAML) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&p.Name)
	}
	var m struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description,omitempty"`
	}
	if err := node.Decode(&m); err != nil {
		return err
	}
	p.Name = m.Name
	p.Description = m.Description
	return nil
}

type pluginsFileYAML struct {
	Marketplace marketplaceYAML   `yaml:"marketplace"`
	Plugins     []pluginEntryYAML `yaml:"plugins"`
}

// LoadPlugins parses plugins/plugins.yaml. Invalid entries are returned as
// errors and never become work items.
func LoadPlugins(path string) ([]Plugin, []error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var file pluginsFileYAML
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if file.Marketplace.Name == "" {
		return nil, nil, fmt.Errorf("%s: marketplace name is required", path)
	}
	if err := ValidateName(file.Marketplace.Name); err != nil {
		return nil, nil, fmt.Errorf("%s: marketplace name: %w", path, err)
	}
	if err := ValidateSource(file.Marketplace.Source); err != nil {
		return nil, nil, fmt.Errorf("%s: marketplace source: %w", path, err)
	}

	var plugins []Plugin
	var rejected []error
	for _, entry := range file.Plugins {
		if err := ValidateName(entry.Name); err != nil {
			rejected = append(rejected, fmt.Errorf("plugin %q: %w", entry.Name, err))
			continue
		}
		plugins = append(plugins, Plugin{
			Name:        entry.Name,
			Marketplace: file.Marketplace.Name,
			Source:      file.Marketplace.Source,
			Docs:        entry.Description,
		})
	}
	return plugins, rejected, nil
}
