package installer

import (
	"fmt"
	"time"

	"github.com/kastheco/dotsmith/catalog"
	"github.com/kastheco/dotsmith/log"
)

// materializeMcp builds the exact CLI invocation for adding or removing an
// MCP server. Secret values are appended as discrete KEY=VALUE arguments
// behind -e/--env flags; nothing is ever interpolated into a shell string.
func materializeMcp(server catalog.McpServer, dir Direction, env Env) (Task, error) {
	cliBin := env.Cli.BinaryName()

	if dir == DirRemove {
		return Task{
			Label: fmt.Sprintf("remove mcp server %s", server.Name),
			Proc: &Invocation{
				Path:    cliBin,
				Args:    []string{"mcp", "remove", server.Name},
				Timeout: env.RemoveTimeout,
			},
		}, nil
	}

	var args []string
	var workDir string

	switch env.Cli {
	case catalog.CliCodex:
		args = []string{"mcp", "add"}
		for _, name := range server.Env {
			args = append(args, "--env", name+"="+env.Secrets[name])
		}
		args = append(args, server.Name)
		if server.Transport == catalog.TransportHTTP {
			args = append(args, "--url", server.URL)
		} else {
			words, err := splitCommand(server.Command)
			if err != nil {
				return Task{}, err
			}
			args = append(args, "--")
			args = append(args, words...)
		}

	default:
		args = []string{"mcp", "add", "--scope", env.Scope.String(), server.Name}
		for _, name := range server.Env {
			args = append(args, "-e", name+"="+env.Secrets[name])
		}
		if server.Transport == catalog.TransportHTTP {
			args = append(args, "-t", "http", server.URL)
		} else {
			words, err := splitCommand(server.Command)
			if err != nil {
				return Task{}, err
			}
			args = append(args, "--")
			args = append(args, words...)
		}
		// Local scope registers against the project the CLI is run from.
		if env.Scope == catalog.ScopeLocal {
			workDir = env.ProjectDir
		}
	}

	name := server.Name
	cleanupTimeout := env.CleanupTimeout
	return Task{
		Label: fmt.Sprintf("install mcp server %s", server.Name),
		Proc: &Invocation{
			Path:    cliBin,
			Args:    args,
			Dir:     workDir,
			Timeout: env.InstallTimeout,
			Cleanup: func() error {
				return runCleanup(cliBin, []string{"mcp", "remove", name}, workDir, cleanupTimeout)
			},
		},
	}, nil
}

// runCleanup executes a best-effort undo command with its own tight timeout
// and no cancellation surface.
func runCleanup(path string, args []string, dir string, timeout time.Duration) error {
	outcome := Run(Invocation{Path: path, Args: args, Dir: dir, Timeout: timeout}, nil)
	if !outcome.OK() {
		log.WarningLog.Printf("cleanup %s %v: %s", path, args, outcome.String())
		return fmt.Errorf("cleanup failed: %s", outcome.String())
	}
	return nil
}
