package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTargetCli(t *testing.T) {
	cli, err := ParseTargetCli("claude")
	require.NoError(t, err)
	assert.Equal(t, CliClaude, cli)

	cli, err = ParseTargetCli(" Codex ")
	require.NoError(t, err)
	assert.Equal(t, CliCodex, cli)

	_, err = ParseTargetCli("gemini")
	assert.Error(t, err)
}

func TestHookCommandPath(t *testing.T) {
	h := &HookConfig{Name: "guard"}
	path := h.CommandPath(CliClaude)
	assert.Contains(t, path, "~/.claude/hooks/guard")

	path = h.CommandPath(CliCodex)
	assert.Contains(t, path, "~/.codex/hooks/guard")
}

func TestConfigDir(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir, err := CliClaude.ConfigDir()
	require.NoError(t, err)
	assert.Contains(t, dir, ".claude")
}
