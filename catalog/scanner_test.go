package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// fixtureSource builds a catalog tree with agents, a skill, a statusline
// binary, one valid and one broken hook, config files, and server/plugin
// manifests.
func fixtureSource(t *testing.T) string {
	t.Helper()
	src := t.TempDir()

	writeFile(t, filepath.Join(src, "agents", "review.md"), "# review\n")
	writeFile(t, filepath.Join(src, "agents", "frontend", "api.md"), "# api\n")
	writeFile(t, filepath.Join(src, "agents", "review-ko.md"), "# localized\n")
	writeFile(t, filepath.Join(src, "skills", "testing.md"), "# testing\n")
	writeFile(t, filepath.Join(src, "statusline", "rainbow"+currentPlatformSuffix()), "#!/bin/sh\n")

	writeFile(t, filepath.Join(src, "hooks", "guard", "hook.yaml"),
		"name: guard\nevent: PreToolUse\ntimeout: 30\n")
	writeFile(t, filepath.Join(src, "hooks", "guard", "guard"+currentPlatformSuffix()), "bin")
	writeFile(t, filepath.Join(src, "hooks", "broken", "hook.yaml"), "name: broken\n")

	writeFile(t, filepath.Join(src, "settings.json"), `{"outputStyle":"concise"}`)
	writeFile(t, filepath.Join(src, "CLAUDE.md"), "# memory\n")
	writeFile(t, filepath.Join(src, "AGENTS.md"), "# codex memory\n")

	writeFile(t, filepath.Join(src, "mcp", "servers.yaml"), `
servers:
  - name: github
    transport: http
    url: https://api.example.com/mcp
  - name: "bad;name"
    transport: http
    url: https://api.example.com/mcp
`)
	writeFile(t, filepath.Join(src, "plugins", "plugins.yaml"), `
marketplace:
  name: kastheco
  source: https://github.com/kastheco/plugins
plugins:
  - superpowers
`)

	return src
}

func findComponent(cat *Catalog, name string) *Component {
	for i := range cat.Components {
		if cat.Components[i].Name == name {
			return &cat.Components[i]
		}
	}
	return nil
}

func TestScanClaude(t *testing.T) {
	src := fixtureSource(t)
	dest := t.TempDir()

	cat, err := Scan(src, CliClaude, dest)
	require.NoError(t, err)

	t.Run("markdown artifacts keep nested paths", func(t *testing.T) {
		require.NotNil(t, findComponent(cat, "review.md"))
		nested := findComponent(cat, "frontend/api.md")
		require.NotNil(t, nested)
		assert.Equal(t, filepath.Join(dest, "agents", "frontend", "api.md"), nested.Dest)
	})

	t.Run("localized variants are skipped", func(t *testing.T) {
		assert.Nil(t, findComponent(cat, "review-ko.md"))
	})

	t.Run("statusline drops the platform suffix at the destination", func(t *testing.T) {
		sl := findComponent(cat, "rainbow")
		require.NotNil(t, sl)
		assert.Equal(t, CategoryStatusline, sl.Category)
		assert.Equal(t, filepath.Join(dest, "statusline", "rainbow"), sl.Dest)
	})

	t.Run("hooks carry their parsed config", func(t *testing.T) {
		hook := findComponent(cat, "guard")
		require.NotNil(t, hook)
		require.NotNil(t, hook.Hook)
		assert.Equal(t, "PreToolUse", hook.Hook.Event)
		assert.Equal(t, 30, hook.Hook.TimeoutSecs)
	})

	t.Run("hook without an event is rejected", func(t *testing.T) {
		assert.Nil(t, findComponent(cat, "broken"))
	})

	t.Run("config files are included", func(t *testing.T) {
		settings := findComponent(cat, "settings.json")
		require.NotNil(t, settings)
		assert.Equal(t, StatusManaged, settings.Status)
		assert.NotNil(t, findComponent(cat, "CLAUDE.md"))
		assert.Nil(t, findComponent(cat, "AGENTS.md"))
	})

	t.Run("manifests load with rejects surfaced", func(t *testing.T) {
		require.Len(t, cat.Servers, 1)
		assert.Equal(t, "github", cat.Servers[0].Name)
		require.Len(t, cat.Plugins, 1)
		assert.Equal(t, "superpowers@kastheco", cat.Plugins[0].Spec())
		// broken hook plus the bad server name
		assert.Len(t, cat.Rejected, 2)
	})
}

func TestScanCodex(t *testing.T) {
	src := fixtureSource(t)
	dest := t.TempDir()

	cat, err := Scan(src, CliCodex, dest)
	require.NoError(t, err)

	assert.NotNil(t, findComponent(cat, "testing.md"))
	assert.Nil(t, findComponent(cat, "review.md"))
	assert.Nil(t, findComponent(cat, "rainbow"))
	assert.Nil(t, findComponent(cat, "settings.json"))
	assert.NotNil(t, findComponent(cat, "AGENTS.md"))
	assert.Empty(t, cat.Servers)
	assert.Empty(t, cat.Plugins)
}

func TestScanStatus(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	writeFile(t, filepath.Join(src, "agents", "new.md"), "new\n")
	writeFile(t, filepath.Join(src, "agents", "changed.md"), "after\n")
	writeFile(t, filepath.Join(src, "agents", "same.md"), "same\n")
	writeFile(t, filepath.Join(dest, "agents", "changed.md"), "before but longer\n")
	writeFile(t, filepath.Join(dest, "agents", "same.md"), "same\n")

	cat, err := Scan(src, CliClaude, dest)
	require.NoError(t, err)

	assert.Equal(t, StatusNew, findComponent(cat, "new.md").Status)
	assert.Equal(t, StatusModified, findComponent(cat, "changed.md").Status)
	assert.Equal(t, StatusUnchanged, findComponent(cat, "same.md").Status)

	t.Run("unchanged files start deselected", func(t *testing.T) {
		assert.True(t, findComponent(cat, "new.md").Selected)
		assert.True(t, findComponent(cat, "changed.md").Selected)
		assert.False(t, findComponent(cat, "same.md").Selected)
	})

	t.Run("same size different bytes is modified", func(t *testing.T) {
		writeFile(t, filepath.Join(src, "agents", "swap.md"), "abc\n")
		writeFile(t, filepath.Join(dest, "agents", "swap.md"), "abd\n")
		cat, err := Scan(src, CliClaude, dest)
		require.NoError(t, err)
		assert.Equal(t, StatusModified, findComponent(cat, "swap.md").Status)
	})
}

func TestScanMissingSource(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "absent"), CliClaude, t.TempDir())
	assert.Error(t, err)
}
