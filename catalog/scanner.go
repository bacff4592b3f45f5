package catalog

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kastheco/dotsmith/log"
)

// Catalog is the result of a full source-tree scan: everything that can be
// installed into the target CLI, with computed statuses.
type Catalog struct {
	Components []Component
	Servers    []McpServer
	Plugins    []Plugin
	// Rejected lists catalog entries that failed validation. They are
	// surfaced in the log and never become work items.
	Rejected []error
}

// markdownCategories are the source directories scanned recursively for
// markdown artifacts.
var markdownCategories = []Category{
	CategoryAgent,
	CategoryCommand,
	CategoryContext,
	CategoryRule,
	CategorySkill,
	CategoryOutputStyle,
}

// codexCategories is the subset of file categories Codex understands.
var codexCategories = map[Category]bool{
	CategorySkill: true,
}

// Scan walks the source tree and produces the artifact catalog for the given
// target. destDir is the CLI's configuration directory; statuses are computed
// against it by existence, then size, then byte comparison.
func Scan(sourceDir string, cli TargetCli, destDir string) (*Catalog, error) {
	if _, err := os.Stat(sourceDir); err != nil {
		return nil, fmt.Errorf("source directory %s: %w", sourceDir, err)
	}

	cat := &Catalog{}

	for _, category := range markdownCategories {
		if cli == CliCodex && !codexCategories[category] {
			continue
		}
		if err := scanMarkdownDir(cat, sourceDir, category, destDir); err != nil {
			return nil, err
		}
	}

	if cli == CliClaude {
		scanStatusline(cat, sourceDir, destDir)
		if err := scanHooks(cat, sourceDir, cli, destDir); err != nil {
			return nil, err
		}
		addConfigFile(cat, sourceDir, "settings.json", destDir, CategorySettings)
		addConfigFile(cat, sourceDir, "CLAUDE.md", destDir, CategoryMemory)

		servers, rejected, err := LoadServers(filepath.Join(sourceDir, "mcp", "servers.yaml"))
		if err != nil {
			return nil, err
		}
		cat.Servers = servers
		cat.Rejected = append(cat.Rejected, rejected...)

		plugins, rejected, err := LoadPlugins(filepath.Join(sourceDir, "plugins", "plugins.yaml"))
		if err != nil {
			return nil, err
		}
		cat.Plugins = plugins
		cat.Rejected = append(cat.Rejected, rejected...)
	} else {
		addConfigFile(cat, sourceDir, "AGENTS.md", destDir, CategoryMemory)
	}

	for _, err := range cat.Rejected {
		log.WarningLog.Printf("catalog entry rejected: %v", err)
	}

	return cat, nil
}

func scanMarkdownDir(cat *Catalog, sourceDir string, category Category, destDir string) error {
	root := filepath.Join(sourceDir, category.String())
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("failed to compute relative path for %s: %w", path, err)
		}
		name := filepath.ToSlash(rel)
		if !includeArtifact(name) {
			return nil
		}

		dest := filepath.Join(destDir, category.String(), rel)
		cat.addComponent(Component{
			Name:     name,
			Category: category,
			Source:   path,
			Dest:     dest,
		})
		return nil
	})
}

// includeArtifact filters scanned files: localized "-ko.md" variants are
// documentation-only, and any path escaping the category root is rejected.
func includeArtifact(name string) bool {
	if strings.HasSuffix(name, "-ko.md") {
		return false
	}
	for _, segment := range strings.Split(name, "/") {
		if segment == ".." || segment == "" {
			return false
		}
	}
	return true
}

// scanStatusline looks for the platform-specific statusline binary. The
// destination drops the platform suffix so settings.json entries stay stable.
func scanStatusline(cat *Catalog, sourceDir, destDir string) {
	dir := filepath.Join(sourceDir, "statusline")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		base, ok := stripPlatformSuffix(entry.Name())
		if !ok {
			continue
		}
		cat.addComponent(Component{
			Name:     base,
			Category: CategoryStatusline,
			Source:   filepath.Join(dir, entry.Name()),
			Dest:     filepath.Join(destDir, "statusline", base),
		})
	}
}

// scanHooks walks hooks/<name>/ directories, each holding a hook.yaml and the
// per-platform binaries.
func scanHooks(cat *Catalog, sourceDir string, cli TargetCli, destDir string) error {
	dir := filepath.Join(sourceDir, "hooks")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read hooks directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		hookDir := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(filepath.Join(hookDir, "hook.yaml"))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("failed to read hook.yaml in %s: %w", hookDir, err)
		}

		var hook HookConfig
		if err := yaml.Unmarshal(data, &hook); err != nil {
			cat.Rejected = append(cat.Rejected, fmt.Errorf("hook %q: %w", entry.Name(), err))
			continue
		}
		if hook.Name == "" {
			hook.Name = entry.Name()
		}
		if err := ValidateName(hook.Name); err != nil {
			cat.Rejected = append(cat.Rejected, fmt.Errorf("hook %q: %w", hook.Name, err))
			continue
		}
		if hook.Event == "" {
			cat.Rejected = append(cat.Rejected, fmt.Errorf("hook %q: event is required", hook.Name))
			continue
		}

		binary := hook.BinaryName()
		source := filepath.Join(hookDir, binary)
		if _, err := os.Stat(source); err != nil {
			cat.Rejected = append(cat.Rejected, fmt.Errorf("hook %q: missing binary %s", hook.Name, binary))
			continue
		}

		h := hook
		cat.addComponent(Component{
			Name:     hook.Name,
			Category: CategoryHook,
			Source:   source,
			Dest:     filepath.Join(destDir, "hooks", binary),
			Hook:     &h,
		})
	}
	return nil
}

func addConfigFile(cat *Catalog, sourceDir, name, destDir string, category Category) {
	source := filepath.Join(sourceDir, name)
	if _, err := os.Stat(source); err != nil {
		return
	}
	cat.addComponent(Component{
		Name:     name,
		Category: category,
		Source:   source,
		Dest:     filepath.Join(destDir, name),
	})
}

func (cat *Catalog) addComponent(c Component) {
	c.Status = computeStatus(&c)
	c.Selected = c.DefaultSelected()
	cat.Components = append(cat.Components, c)
}

// computeStatus compares source against destination: destination missing is
// New, differing sizes are Modified, then a byte comparison decides. Managed
// files (settings.json) are merged rather than copied, so they get their own
// status. Timestamps are never consulted.
func computeStatus(c *Component) Status {
	if c.Category == CategorySettings {
		return StatusManaged
	}

	destInfo, err := os.Stat(c.Dest)
	if err != nil {
		return StatusNew
	}
	srcInfo, err := os.Stat(c.Source)
	if err != nil {
		return StatusNew
	}
	if srcInfo.Size() != destInfo.Size() {
		return StatusModified
	}

	srcData, err := os.ReadFile(c.Source)
	if err != nil {
		return StatusModified
	}
	destData, err := os.ReadFile(c.Dest)
	if err != nil {
		return StatusModified
	}
	if bytes.Equal(srcData, destData) {
		return StatusUnchanged
	}
	return StatusModified
}

func stripPlatformSuffix(name string) (string, bool) {
	for _, suffix := range []string{".exe", "_macos", "_linux"} {
		if strings.HasSuffix(name, suffix) {
			if currentPlatformSuffix() == suffix {
				return strings.TrimSuffix(name, suffix), true
			}
			return "", false
		}
	}
	return "", false
}
