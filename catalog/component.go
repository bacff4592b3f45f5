package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// TargetCli identifies which CLI's configuration directory is being managed.
type TargetCli int

const (
	CliClaude TargetCli = iota
	CliCodex
)

func (c TargetCli) String() string {
	switch c {
	case CliCodex:
		return "codex"
	default:
		return "claude"
	}
}

// BinaryName returns the executable name used to invoke the CLI on the
// current platform.
func (c TargetCli) BinaryName() string {
	name := c.String()
	if runtime.GOOS == "windows" {
		return name + ".cmd"
	}
	return name
}

// ConfigDir returns the CLI's configuration directory (~/.claude or ~/.codex).
func (c TargetCli) ConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, "."+c.String()), nil
}

// ParseTargetCli parses a CLI name from config or flags.
func ParseTargetCli(s string) (TargetCli, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "claude":
		return CliClaude, nil
	case "codex":
		return CliCodex, nil
	default:
		return CliClaude, fmt.Errorf("unknown target cli %q", s)
	}
}

// Category classifies a file component by which part of the config tree it
// belongs to.
type Category int

const (
	CategoryAgent Category = iota
	CategoryCommand
	CategoryContext
	CategoryRule
	CategorySkill
	CategoryOutputStyle
	CategoryStatusline
	CategoryHook
	CategorySettings
	CategoryMemory
)

func (c Category) String() string {
	switch c {
	case CategoryAgent:
		return "agents"
	case CategoryCommand:
		return "commands"
	case CategoryContext:
		return "contexts"
	case CategoryRule:
		return "rules"
	case CategorySkill:
		return "skills"
	case CategoryOutputStyle:
		return "output-styles"
	case CategoryStatusline:
		return "statusline"
	case CategoryHook:
		return "hooks"
	case CategorySettings:
		return "settings"
	case CategoryMemory:
		return "memory"
	default:
		return "unknown"
	}
}

// Title returns the human-readable tab label for the category.
func (c Category) Title() string {
	switch c {
	case CategoryAgent:
		return "Agents"
	case CategoryCommand:
		return "Commands"
	case CategoryContext:
		return "Contexts"
	case CategoryRule:
		return "Rules"
	case CategorySkill:
		return "Skills"
	case CategoryOutputStyle:
		return "Output Styles"
	case CategoryStatusline:
		return "Statusline"
	case CategoryHook:
		return "Hooks"
	case CategorySettings:
		return "Settings"
	case CategoryMemory:
		return "Memory"
	default:
		return "Unknown"
	}
}

// Status describes how a component's source compares to its destination.
type Status int

const (
	StatusNew Status = iota
	StatusModified
	StatusUnchanged
	StatusManaged
)

func (s Status) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusModified:
		return "modified"
	case StatusUnchanged:
		return "unchanged"
	case StatusManaged:
		return "managed"
	default:
		return "unknown"
	}
}

// HookConfig describes a hook binary and the settings.json entry that
// registers it, parsed from a hook.yaml next to the binary.
type HookConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Event       string `yaml:"event"`
	Kind        string `yaml:"kind,omitempty"`
	TimeoutSecs int    `yaml:"timeout,omitempty"`
}

// BinaryName returns the platform-specific binary filename for the hook.
func (h *HookConfig) BinaryName() string {
	return h.Name + currentPlatformSuffix()
}

func currentPlatformSuffix() string {
	switch runtime.GOOS {
	case "windows":
		return ".exe"
	case "darwin":
		return "_macos"
	default:
		return "_linux"
	}
}

// CommandPath returns the command string registered in settings.json. The CLI
// expands the tilde, so the entry stays stable across machines.
func (h *HookConfig) CommandPath(cli TargetCli) string {
	return "~/." + cli.String() + "/hooks/" + h.BinaryName()
}

// Component is a single file or binary to be installed into the target
// configuration directory. It is self-contained: it carries absolute source
// and destination paths and never borrows state from the UI.
type Component struct {
	// Name is the slash-delimited display path within its category,
	// e.g. "review/security.md".
	Name     string
	Category Category
	Source   string
	Dest     string
	Status   Status
	Selected bool
	// Hook is set only for CategoryHook components.
	Hook *HookConfig
}

// DefaultSelected reports whether a freshly scanned component should start
// selected. Unchanged files have nothing to do.
func (c *Component) DefaultSelected() bool {
	return c.Status != StatusUnchanged
}
