package installer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/kastheco/dotsmith/catalog"
)

// managedKeys are the settings.json sections this tool owns. Removal deletes
// them wholesale; everything else in the document belongs to the user.
var managedKeys = []string{"hooks", "outputStyle", "statusLine"}

// MergeSettingsFile deep-merges the source settings document into the
// destination file, creating it when missing. The hooks section appends
// entries instead of replacing, de-duplicating by whole-entry equality.
func MergeSettingsFile(srcPath, destPath string) error {
	srcDoc, err := readSettings(srcPath)
	if err != nil {
		return err
	}
	destDoc, err := readSettingsOrEmpty(destPath)
	if err != nil {
		return err
	}

	mergeValues(destDoc, srcDoc)
	return writeSettings(destPath, destDoc)
}

// RemoveManagedSections deletes the managed keys from the destination
// settings document, leaving unrelated user keys untouched. Missing file is
// a no-op.
func RemoveManagedSections(destPath string) error {
	doc, err := readSettingsOrEmpty(destPath)
	if err != nil {
		return err
	}
	if len(doc) == 0 {
		return nil
	}
	for _, key := range managedKeys {
		delete(doc, key)
	}
	return writeSettings(destPath, doc)
}

// RegisterHook adds the hook's settings.json entry under its event,
// de-duplicating by command path.
func RegisterHook(settingsPath string, hook *catalog.HookConfig, cli catalog.TargetCli) error {
	doc, err := readSettingsOrEmpty(settingsPath)
	if err != nil {
		return err
	}

	command := hook.CommandPath(cli)
	hooks := asObject(doc["hooks"])
	entries := asArray(hooks[hook.Event])

	if hookEntryIndex(entries, command) < 0 {
		inner := map[string]any{
			"type":    "command",
			"command": command,
		}
		if hook.TimeoutSecs > 0 {
			inner["timeout"] = float64(hook.TimeoutSecs)
		}
		entries = append(entries, map[string]any{
			"hooks": []any{inner},
		})
	}

	hooks[hook.Event] = entries
	doc["hooks"] = hooks
	return writeSettings(settingsPath, doc)
}

// UnregisterHook removes every entry whose command path references the hook's
// binary, pruning event arrays and the hooks object when they empty out.
func UnregisterHook(settingsPath string, hook *catalog.HookConfig, cli catalog.TargetCli) error {
	doc, err := readSettingsOrEmpty(settingsPath)
	if err != nil {
		return err
	}
	hooks := asObject(doc["hooks"])
	if len(hooks) == 0 {
		return nil
	}

	command := hook.CommandPath(cli)
	for event, raw := range hooks {
		entries := asArray(raw)
		kept := entries[:0]
		for _, entry := range entries {
			if !entryReferencesCommand(entry, command) {
				kept = append(kept, entry)
			}
		}
		if len(kept) == 0 {
			delete(hooks, event)
		} else {
			hooks[event] = kept
		}
	}

	if len(hooks) == 0 {
		delete(doc, "hooks")
	} else {
		doc["hooks"] = hooks
	}
	return writeSettings(settingsPath, doc)
}

// SetOutputStyle records the default output style. With onlyIfUnset, an
// existing user choice is preserved.
func SetOutputStyle(settingsPath, name string, onlyIfUnset bool) error {
	doc, err := readSettingsOrEmpty(settingsPath)
	if err != nil {
		return err
	}
	if onlyIfUnset {
		if _, exists := doc["outputStyle"]; exists {
			return nil
		}
	}
	doc["outputStyle"] = name
	return writeSettings(settingsPath, doc)
}

// UnsetOutputStyle clears the default output style when it points at name.
func UnsetOutputStyle(settingsPath, name string) error {
	doc, err := readSettingsOrEmpty(settingsPath)
	if err != nil {
		return err
	}
	if current, _ := doc["outputStyle"].(string); current != name {
		return nil
	}
	delete(doc, "outputStyle")
	return writeSettings(settingsPath, doc)
}

// SetStatusline points the statusLine section at the installed binary.
// With onlyIfUnset, an existing user statusline is preserved.
func SetStatusline(settingsPath, name string, cli catalog.TargetCli, onlyIfUnset bool) error {
	doc, err := readSettingsOrEmpty(settingsPath)
	if err != nil {
		return err
	}
	if onlyIfUnset {
		if _, exists := doc["statusLine"]; exists {
			return nil
		}
	}
	doc["statusLine"] = map[string]any{
		"type":    "command",
		"command": "~/." + cli.String() + "/statusline/" + name,
		"padding": float64(0),
	}
	return writeSettings(settingsPath, doc)
}

// UnsetStatusline clears the statusLine section when its command references
// the named binary.
func UnsetStatusline(settingsPath, name string) error {
	doc, err := readSettingsOrEmpty(settingsPath)
	if err != nil {
		return err
	}
	section := asObject(doc["statusLine"])
	command, _ := section["command"].(string)
	if filepath.Base(command) != name {
		return nil
	}
	delete(doc, "statusLine")
	return writeSettings(settingsPath, doc)
}

// mergeValues deep-merges src into dst. Objects merge recursively, the hooks
// key gets append-with-dedup treatment, and everything else is replaced by
// the source value.
func mergeValues(dst, src map[string]any) {
	for key, srcVal := range src {
		if key == "hooks" {
			dst[key] = mergeHooks(asObject(dst[key]), asObject(srcVal))
			continue
		}
		if srcObj, ok := srcVal.(map[string]any); ok {
			if dstObj, ok := dst[key].(map[string]any); ok {
				mergeValues(dstObj, srcObj)
				continue
			}
		}
		dst[key] = srcVal
	}
}

// mergeHooks appends source entries per event, skipping entries already
// present by deep equality.
func mergeHooks(dst, src map[string]any) map[string]any {
	for event, rawEntries := range src {
		existing := asArray(dst[event])
		for _, entry := range asArray(rawEntries) {
			if !containsEntry(existing, entry) {
				existing = append(existing, entry)
			}
		}
		dst[event] = existing
	}
	return dst
}

func containsEntry(entries []any, candidate any) bool {
	for _, entry := range entries {
		if reflect.DeepEqual(entry, candidate) {
			return true
		}
	}
	return false
}

// hookEntryIndex finds the entry whose inner hooks array references the
// command path, or -1.
func hookEntryIndex(entries []any, command string) int {
	for i, entry := range entries {
		if entryReferencesCommand(entry, command) {
			return i
		}
	}
	return -1
}

func entryReferencesCommand(entry any, command string) bool {
	obj := asObject(entry)
	for _, inner := range asArray(obj["hooks"]) {
		if cmd, _ := asObject(inner)["command"].(string); cmd == command {
			return true
		}
	}
	return false
}

func asObject(v any) map[string]any {
	if obj, ok := v.(map[string]any); ok {
		return obj
	}
	return map[string]any{}
}

func asArray(v any) []any {
	if arr, ok := v.([]any); ok {
		return arr
	}
	return nil
}

func readSettings(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

func readSettingsOrEmpty(path string) (map[string]any, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return map[string]any{}, nil
	}
	return readSettings(path)
}

func writeSettings(path string, doc map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0644)
}
