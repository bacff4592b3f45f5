package installer

import (
	"fmt"
	"time"

	"github.com/google/shlex"

	"github.com/kastheco/dotsmith/catalog"
)

// Direction selects between installing and removing.
type Direction int

const (
	DirInstall Direction = iota
	DirRemove
)

func (d Direction) String() string {
	if d == DirRemove {
		return "remove"
	}
	return "install"
}

// ItemKind tags the work-item variant.
type ItemKind int

const (
	ItemFile ItemKind = iota
	ItemMcp
	ItemPlugin
)

func (k ItemKind) String() string {
	switch k {
	case ItemMcp:
		return "mcp"
	case ItemPlugin:
		return "plugin"
	default:
		return "file"
	}
}

// WorkItem is the closed sum over the three installable kinds. It holds value
// copies, never references into UI state: a WorkItem crosses the boundary
// into the execution goroutine and must be self-contained.
type WorkItem struct {
	Kind   ItemKind
	File   catalog.Component
	Server catalog.McpServer
	Plugin catalog.Plugin
}

// Name returns the display identity of the item.
func (w *WorkItem) Name() string {
	switch w.Kind {
	case ItemMcp:
		return w.Server.Name
	case ItemPlugin:
		return w.Plugin.Spec()
	default:
		return w.File.Name
	}
}

// FileItem wraps a component as a work item.
func FileItem(c catalog.Component) WorkItem {
	return WorkItem{Kind: ItemFile, File: c}
}

// McpItem wraps a server as a work item.
func McpItem(s catalog.McpServer) WorkItem {
	return WorkItem{Kind: ItemMcp, Server: s}
}

// PluginItem wraps a plugin as a work item.
func PluginItem(p catalog.Plugin) WorkItem {
	return WorkItem{Kind: ItemPlugin, Plugin: p}
}

// Env is the ambient configuration the materializer combines with a work
// item: target CLI, install scope, collected secret values, and timeouts.
type Env struct {
	Cli        catalog.TargetCli
	Scope      catalog.Scope
	ProjectDir string
	// Secrets maps required env var names to their collected values.
	Secrets map[string]string
	// ConfigDir is the target CLI's configuration directory.
	ConfigDir string
	// SettingsPath is the settings.json inside ConfigDir.
	SettingsPath string

	InstallTimeout time.Duration
	RemoveTimeout  time.Duration
	QuickTimeout   time.Duration
	CleanupTimeout time.Duration
}

// Task is one executable description produced by Materialize: exactly one of
// the operation fields is set.
type Task struct {
	// Label is the human-readable log line prefix, e.g. "install agents/foo.md".
	Label string

	File          *FileTask
	Proc          *Invocation
	PluginInstall *PluginInstallTask
}

// FileOpKind selects the direct filesystem operation.
type FileOpKind int

const (
	FileCopy FileOpKind = iota
	FileRemove
	FileMergeSettings
	FileRemoveManaged
)

// FileTask is a direct filesystem step; no subprocess involved.
type FileTask struct {
	Op        FileOpKind
	Component catalog.Component
	Cli       catalog.TargetCli
	// SettingsPath is consulted for hook registration and default
	// style/statusline bookkeeping.
	SettingsPath string
}

// PluginInstallTask installs a plugin, first ensuring its marketplace is
// registered with the target CLI.
type PluginInstallTask struct {
	MarketplaceName string
	List            Invocation
	Add             Invocation
	Install         Invocation
}

// Materialize converts a work item plus the ambient environment into an
// executable task. It is a pure function: no I/O, no shared state. Catalog
// command strings are split with shell-word semantics so quoted arguments
// survive; secret values become discrete argv entries, never shell text.
func Materialize(item WorkItem, dir Direction, env Env) (Task, error) {
	switch item.Kind {
	case ItemFile:
		return materializeFile(item.File, dir, env), nil
	case ItemMcp:
		return materializeMcp(item.Server, dir, env)
	case ItemPlugin:
		return materializePlugin(item.Plugin, dir, env), nil
	default:
		return Task{}, fmt.Errorf("unknown work item kind %d", item.Kind)
	}
}

func materializeFile(c catalog.Component, dir Direction, env Env) Task {
	task := Task{
		Label: fmt.Sprintf("%s %s", dir, c.Name),
		File: &FileTask{
			Component:    c,
			Cli:          env.Cli,
			SettingsPath: env.SettingsPath,
		},
	}

	if c.Category == catalog.CategorySettings {
		if dir == DirInstall {
			task.File.Op = FileMergeSettings
		} else {
			task.File.Op = FileRemoveManaged
		}
		return task
	}

	if dir == DirInstall {
		task.File.Op = FileCopy
	} else {
		task.File.Op = FileRemove
	}
	return task
}

// splitCommand tokenizes a catalog command string with shell-word semantics.
func splitCommand(command string) ([]string, error) {
	words, err := shlex.Split(command)
	if err != nil {
		return nil, fmt.Errorf("failed to split command %q: %w", command, err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("command %q is empty after splitting", command)
	}
	return words, nil
}
