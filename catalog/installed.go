package catalog

import (
	"encoding/json"
	"strings"
)

// ParseMcpList extracts server names from `<cli> mcp list` output. Both CLIs
// print one server per line as "name: <transport or endpoint>", sometimes
// preceded by banner lines without a colon, which are skipped.
func ParseMcpList(output string) map[string]bool {
	installed := make(map[string]bool)
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, _, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" || ValidateName(name) != nil {
			continue
		}
		installed[name] = true
	}
	return installed
}

// ParseEnabledPlugins extracts the name@marketplace plugin specs from the
// enabledPlugins section of a settings.json document. Returns an empty map on
// malformed input; annotation is display-only and never gates execution.
func ParseEnabledPlugins(settingsData []byte) map[string]bool {
	enabled := make(map[string]bool)

	var settings struct {
		EnabledPlugins map[string][]string `json:"enabledPlugins"`
	}
	if err := json.Unmarshal(settingsData, &settings); err != nil {
		return enabled
	}

	for marketplace, names := range settings.EnabledPlugins {
		for _, name := range names {
			enabled[name+"@"+marketplace] = true
		}
	}
	return enabled
}

// AnnotateServers flips the Installed flag on servers present in the
// mcp list output.
func AnnotateServers(servers []McpServer, installed map[string]bool) {
	for i := range servers {
		servers[i].Installed = installed[servers[i].Name]
	}
}

// AnnotatePlugins flips the Installed flag on plugins present in the
// enabledPlugins set.
func AnnotatePlugins(plugins []Plugin, enabled map[string]bool) {
	for i := range plugins {
		plugins[i].Installed = enabled[plugins[i].Spec()]
	}
}
