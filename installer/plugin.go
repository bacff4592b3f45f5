package installer

import (
	"fmt"

	"github.com/kastheco/dotsmith/catalog"
)

// materializePlugin builds the invocations for plugin install/uninstall.
// Install is a compound task: the marketplace is checked and registered
// first, then the plugin itself is installed.
func materializePlugin(plugin catalog.Plugin, dir Direction, env Env) Task {
	cliBin := env.Cli.BinaryName()

	if dir == DirRemove {
		return Task{
			Label: fmt.Sprintf("uninstall plugin %s", plugin.Name),
			Proc: &Invocation{
				Path:    cliBin,
				Args:    []string{"plugin", "uninstall", plugin.Name},
				Timeout: env.RemoveTimeout,
			},
		}
	}

	name := plugin.Name
	cleanupTimeout := env.CleanupTimeout
	return Task{
		Label: fmt.Sprintf("install plugin %s", plugin.Spec()),
		PluginInstall: &PluginInstallTask{
			MarketplaceName: plugin.Marketplace,
			List: Invocation{
				Path:    cliBin,
				Args:    []string{"plugin", "marketplace", "list"},
				Timeout: env.QuickTimeout,
			},
			Add: Invocation{
				Path:    cliBin,
				Args:    []string{"plugin", "marketplace", "add", plugin.Source},
				Timeout: env.InstallTimeout,
			},
			Install: Invocation{
				Path:    cliBin,
				Args:    []string{"plugin", "install", plugin.Spec()},
				Timeout: env.InstallTimeout,
				Cleanup: func() error {
					return runCleanup(cliBin, []string{"plugin", "uninstall", name}, "", cleanupTimeout)
				},
			},
		},
	}
}
