package installer

import (
	"strings"

	"github.com/kastheco/dotsmith/catalog"
	"github.com/kastheco/dotsmith/log"
)

// Execute runs a materialized task to completion, honoring the cancellation
// channel for process-backed steps. File tasks are quick local I/O and are
// not cancellable mid-write.
func Execute(task Task, cancel <-chan struct{}) Outcome {
	switch {
	case task.File != nil:
		return executeFile(task.File)
	case task.PluginInstall != nil:
		return executePluginInstall(task.PluginInstall, cancel)
	case task.Proc != nil:
		return Run(*task.Proc, cancel)
	default:
		return Failuref("task %q has no operation", task.Label)
	}
}

// executePluginInstall registers the plugin's marketplace when missing, then
// installs the plugin. The marketplace list check is advisory: if it fails,
// the add is attempted anyway and the install decides the item's fate.
func executePluginInstall(task *PluginInstallTask, cancel <-chan struct{}) Outcome {
	if !marketplaceRegistered(task) {
		outcome := Run(task.Add, cancel)
		if !outcome.OK() {
			// An add that failed because the marketplace already exists
			// is fine; the install below is the real arbiter.
			if outcome.Kind != OutcomeFailure {
				return outcome
			}
			log.WarningLog.Printf("marketplace add %s: %s", task.MarketplaceName, outcome.String())
		}
	}
	return Run(task.Install, cancel)
}

func marketplaceRegistered(task *PluginInstallTask) bool {
	out, err := Capture(task.List.Path, task.List.Args, task.List.Dir, task.List.Timeout)
	if err != nil {
		log.WarningLog.Printf("marketplace list: %v", err)
		return false
	}
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) > 0 && fields[0] == task.MarketplaceName {
			return true
		}
	}
	return false
}

// MissingSecrets returns the env var names a server install still needs:
// required names absent from both the collected set and the process
// environment. Order follows the server definition.
func MissingSecrets(server *catalog.McpServer, collected map[string]string, lookup func(string) (string, bool)) []string {
	var missing []string
	for _, name := range server.Env {
		if _, ok := collected[name]; ok {
			continue
		}
		if val, ok := lookup(name); ok && val != "" {
			continue
		}
		missing = append(missing, name)
	}
	return missing
}
