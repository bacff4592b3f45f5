package installer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kastheco/dotsmith/catalog"
)

func testEnv(cli catalog.TargetCli) Env {
	return Env{
		Cli:            cli,
		Scope:          catalog.ScopeUser,
		ProjectDir:     "/work/project",
		Secrets:        map[string]string{"API_KEY": "s3cret"},
		ConfigDir:      "/home/u/.claude",
		SettingsPath:   "/home/u/.claude/settings.json",
		InstallTimeout: 120 * time.Second,
		RemoveTimeout:  30 * time.Second,
		QuickTimeout:   15 * time.Second,
		CleanupTimeout: 10 * time.Second,
	}
}

func TestMaterializeMcpClaude(t *testing.T) {
	t.Run("http transport", func(t *testing.T) {
		server := catalog.McpServer{
			Name:      "github",
			Transport: catalog.TransportHTTP,
			URL:       "https://api.example.com/mcp",
			Env:       []string{"API_KEY"},
		}

		task, err := Materialize(McpItem(server), DirInstall, testEnv(catalog.CliClaude))
		require.NoError(t, err)
		require.NotNil(t, task.Proc)

		assert.Equal(t, []string{
			"mcp", "add", "--scope", "user", "github",
			"-e", "API_KEY=s3cret",
			"-t", "http", "https://api.example.com/mcp",
		}, task.Proc.Args)
		assert.Empty(t, task.Proc.Dir)
		assert.Equal(t, 120*time.Second, task.Proc.Timeout)
		assert.NotNil(t, task.Proc.Cleanup)
	})

	t.Run("stdio transport keeps quoted words intact", func(t *testing.T) {
		server := catalog.McpServer{
			Name:      "files",
			Transport: catalog.TransportStdio,
			Command:   `npx some-server --root "/tmp/my files"`,
		}

		task, err := Materialize(McpItem(server), DirInstall, testEnv(catalog.CliClaude))
		require.NoError(t, err)

		assert.Equal(t, []string{
			"mcp", "add", "--scope", "user", "files",
			"--", "npx", "some-server", "--root", "/tmp/my files",
		}, task.Proc.Args)
	})

	t.Run("local scope sets working directory", func(t *testing.T) {
		env := testEnv(catalog.CliClaude)
		env.Scope = catalog.ScopeLocal
		server := catalog.McpServer{
			Name:      "files",
			Transport: catalog.TransportStdio,
			Command:   "npx some-server",
		}

		task, err := Materialize(McpItem(server), DirInstall, env)
		require.NoError(t, err)
		assert.Equal(t, "/work/project", task.Proc.Dir)
		assert.Contains(t, task.Proc.Args, "local")
	})

	t.Run("remove", func(t *testing.T) {
		server := catalog.McpServer{Name: "github"}
		task, err := Materialize(McpItem(server), DirRemove, testEnv(catalog.CliClaude))
		require.NoError(t, err)
		assert.Equal(t, []string{"mcp", "remove", "github"}, task.Proc.Args)
		assert.Equal(t, 30*time.Second, task.Proc.Timeout)
		assert.Nil(t, task.Proc.Cleanup)
	})
}

func TestMaterializeMcpCodex(t *testing.T) {
	server := catalog.McpServer{
		Name:      "github",
		Transport: catalog.TransportHTTP,
		URL:       "https://api.example.com/mcp",
		Env:       []string{"API_KEY"},
	}

	task, err := Materialize(McpItem(server), DirInstall, testEnv(catalog.CliCodex))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"mcp", "add",
		"--env", "API_KEY=s3cret",
		"github",
		"--url", "https://api.example.com/mcp",
	}, task.Proc.Args)
}

func TestMaterializeSecretsAreDiscreteArgs(t *testing.T) {
	// A hostile secret value must stay a single argv entry, never be
	// interpreted as shell text.
	env := testEnv(catalog.CliClaude)
	env.Secrets["API_KEY"] = `x"; rm -rf / #`
	server := catalog.McpServer{
		Name:      "evil",
		Transport: catalog.TransportHTTP,
		URL:       "https://example.com",
		Env:       []string{"API_KEY"},
	}

	task, err := Materialize(McpItem(server), DirInstall, env)
	require.NoError(t, err)
	assert.Contains(t, task.Proc.Args, `API_KEY=x"; rm -rf / #`)
}

func TestMaterializePlugin(t *testing.T) {
	plugin := catalog.Plugin{
		Name:        "superpowers",
		Marketplace: "kastheco",
		Source:      "https://github.com/kastheco/plugins",
	}

	t.Run("install ensures marketplace then installs", func(t *testing.T) {
		task, err := Materialize(PluginItem(plugin), DirInstall, testEnv(catalog.CliClaude))
		require.NoError(t, err)
		require.NotNil(t, task.PluginInstall)

		pi := task.PluginInstall
		assert.Equal(t, "kastheco", pi.MarketplaceName)
		assert.Equal(t, []string{"plugin", "marketplace", "list"}, pi.List.Args)
		assert.Equal(t, 15*time.Second, pi.List.Timeout)
		assert.Equal(t, []string{"plugin", "marketplace", "add", "https://github.com/kastheco/plugins"}, pi.Add.Args)
		assert.Equal(t, []string{"plugin", "install", "superpowers@kastheco"}, pi.Install.Args)
		assert.NotNil(t, pi.Install.Cleanup)
	})

	t.Run("remove", func(t *testing.T) {
		task, err := Materialize(PluginItem(plugin), DirRemove, testEnv(catalog.CliClaude))
		require.NoError(t, err)
		assert.Equal(t, []string{"plugin", "uninstall", "superpowers"}, task.Proc.Args)
	})
}

func TestMaterializeFile(t *testing.T) {
	env := testEnv(catalog.CliClaude)

	t.Run("copy on install", func(t *testing.T) {
		c := catalog.Component{Name: "review.md", Category: catalog.CategoryAgent}
		task, err := Materialize(FileItem(c), DirInstall, env)
		require.NoError(t, err)
		require.NotNil(t, task.File)
		assert.Equal(t, FileCopy, task.File.Op)
		assert.Equal(t, env.SettingsPath, task.File.SettingsPath)
	})

	t.Run("settings merge on install", func(t *testing.T) {
		c := catalog.Component{Name: "settings.json", Category: catalog.CategorySettings}
		task, err := Materialize(FileItem(c), DirInstall, env)
		require.NoError(t, err)
		assert.Equal(t, FileMergeSettings, task.File.Op)
	})

	t.Run("settings removal strips managed sections", func(t *testing.T) {
		c := catalog.Component{Name: "settings.json", Category: catalog.CategorySettings}
		task, err := Materialize(FileItem(c), DirRemove, env)
		require.NoError(t, err)
		assert.Equal(t, FileRemoveManaged, task.File.Op)
	})

	t.Run("remove on remove", func(t *testing.T) {
		c := catalog.Component{Name: "review.md", Category: catalog.CategoryAgent}
		task, err := Materialize(FileItem(c), DirRemove, env)
		require.NoError(t, err)
		assert.Equal(t, FileRemove, task.File.Op)
	})
}

func TestWorkItemName(t *testing.T) {
	file := FileItem(catalog.Component{Name: "a.md"})
	mcp := McpItem(catalog.McpServer{Name: "srv"})
	plugin := PluginItem(catalog.Plugin{Name: "p", Marketplace: "m"})

	assert.Equal(t, "a.md", file.Name())
	assert.Equal(t, "srv", mcp.Name())
	assert.Equal(t, "p@m", plugin.Name())
}

func TestSplitCommandErrors(t *testing.T) {
	_, err := splitCommand("   ")
	assert.Error(t, err)
}
