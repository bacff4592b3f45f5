package installer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kastheco/dotsmith/catalog"
	"github.com/kastheco/dotsmith/log"
)

// executeFile runs a direct filesystem task. Per-item failures come back as
// Failure outcomes; nothing here aborts the batch.
func executeFile(task *FileTask) Outcome {
	c := &task.Component

	switch task.Op {
	case FileMergeSettings:
		if err := MergeSettingsFile(c.Source, c.Dest); err != nil {
			return Failuref("merge settings: %v", err)
		}
		return Success()

	case FileRemoveManaged:
		if err := RemoveManagedSections(c.Dest); err != nil {
			return Failuref("remove managed settings: %v", err)
		}
		return Success()

	case FileRemove:
		if err := removeComponent(task); err != nil {
			return Failuref("remove %s: %v", c.Name, err)
		}
		return Success()

	default:
		if err := copyComponent(task); err != nil {
			return Failuref("copy %s: %v", c.Name, err)
		}
		return Success()
	}
}

func copyComponent(task *FileTask) error {
	c := &task.Component

	if err := os.MkdirAll(filepath.Dir(c.Dest), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(c.Dest), err)
	}
	if err := copyFile(c.Source, c.Dest, componentMode(c)); err != nil {
		return err
	}

	// Components that participate in settings.json get their bookkeeping
	// applied after the file lands. Defaults are only claimed when unset,
	// so an existing user choice survives.
	switch {
	case c.Hook != nil:
		if err := RegisterHook(task.SettingsPath, c.Hook, task.Cli); err != nil {
			return fmt.Errorf("register hook: %w", err)
		}
	case c.Category == catalog.CategoryStatusline:
		if err := SetStatusline(task.SettingsPath, c.Name, task.Cli, true); err != nil {
			return fmt.Errorf("set statusline: %w", err)
		}
	case c.Category == catalog.CategoryOutputStyle:
		if err := SetOutputStyle(task.SettingsPath, styleName(c.Name), true); err != nil {
			return fmt.Errorf("set output style: %w", err)
		}
	}
	return nil
}

func removeComponent(task *FileTask) error {
	c := &task.Component

	if err := os.Remove(c.Dest); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", c.Dest, err)
	}

	switch {
	case c.Hook != nil:
		if err := UnregisterHook(task.SettingsPath, c.Hook, task.Cli); err != nil {
			log.WarningLog.Printf("unregister hook %s: %v", c.Hook.Name, err)
		}
	case c.Category == catalog.CategoryStatusline:
		if err := UnsetStatusline(task.SettingsPath, c.Name); err != nil {
			log.WarningLog.Printf("unset statusline %s: %v", c.Name, err)
		}
	case c.Category == catalog.CategoryOutputStyle:
		if err := UnsetOutputStyle(task.SettingsPath, styleName(c.Name)); err != nil {
			log.WarningLog.Printf("unset output style %s: %v", c.Name, err)
		}
	}
	return nil
}

// componentMode picks destination permissions: statusline and hook binaries
// plus shell scripts are executable, everything else is a plain file.
func componentMode(c *catalog.Component) os.FileMode {
	if c.Category == catalog.CategoryStatusline || c.Category == catalog.CategoryHook {
		return 0755
	}
	if strings.HasSuffix(c.Dest, ".sh") {
		return 0755
	}
	return 0644
}

func copyFile(src, dest string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy to %s: %w", dest, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", dest, err)
	}
	// Mode on OpenFile only applies at creation; enforce on overwrite too.
	if err := os.Chmod(dest, mode); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", dest, err)
	}
	return nil
}

// styleName strips the markdown extension and any folder prefix from an
// output-style component name for use as the settings.json value.
func styleName(name string) string {
	base := name
	if idx := strings.LastIndex(base, "/"); idx >= 0 {
		base = base[idx+1:]
	}
	return strings.TrimSuffix(base, ".md")
}
