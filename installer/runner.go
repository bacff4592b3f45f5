package installer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/kastheco/dotsmith/log"
)

const (
	// maxStderrBytes caps captured diagnostics so a chatty child cannot
	// balloon memory.
	maxStderrBytes = 1024 * 1024
	// pollInterval is the completion/cancellation polling cadence.
	pollInterval = 100 * time.Millisecond
	// killWait is how long to wait for a killed child to be reaped.
	killWait = 500 * time.Millisecond

	truncationMarker = "\n[... output truncated]"
)

// Invocation describes one external command execution: argv, working
// directory, wall-clock timeout, and an optional advisory cleanup run after a
// kill.
type Invocation struct {
	Path    string
	Args    []string
	Dir     string
	Timeout time.Duration
	// Cleanup undoes a partially applied operation after a timeout or
	// cancellation. Its error is recorded on the outcome but never
	// escalated.
	Cleanup func() error
}

// Run executes the invocation to completion, honoring the timeout and a
// single-shot cancellation channel.
//
// The child runs with stdin nulled so it cannot block on an interactive
// prompt, stdout drained and discarded, and stderr captured up to
// maxStderrBytes. The poll loop checks child completion before consulting the
// cancellation channel: a process that finishes in the same tick as a cancel
// keystroke is reported by its own exit status, never as cancelled. Nothing
// here writes to the terminal; the UI owns the screen.
func Run(inv Invocation, cancel <-chan struct{}) Outcome {
	cmd := exec.Command(inv.Path, inv.Args...)
	cmd.Dir = inv.Dir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Failuref("failed to open stdout pipe: %v", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return Failuref("failed to open stderr pipe: %v", err)
	}

	if err := cmd.Start(); err != nil {
		return Failuref("failed to start %s: %v", inv.Path, err)
	}

	stderrBuf := &boundedBuffer{limit: maxStderrBytes}
	var readers sync.WaitGroup
	readers.Add(2)
	go func() {
		defer readers.Done()
		_, _ = io.Copy(io.Discard, stdout)
	}()
	go func() {
		defer readers.Done()
		_, _ = io.Copy(stderrBuf, stderr)
	}()

	// The readers must reach EOF before Wait reaps the child, otherwise
	// Wait can close the pipes out from under them.
	waitCh := make(chan error, 1)
	go func() {
		readers.Wait()
		waitCh <- cmd.Wait()
	}()

	deadline := time.Now().Add(inv.Timeout)
	for {
		select {
		case waitErr := <-waitCh:
			return outcomeFromExit(waitErr, stderrBuf.String())
		default:
		}

		if time.Now().After(deadline) {
			return terminate(cmd, waitCh, inv, Outcome{
				Kind: OutcomeTimedOut,
				Diagnostic: fmt.Sprintf("timed out after %ds",
					int(inv.Timeout.Seconds())),
			})
		}

		select {
		case <-cancel:
			return terminate(cmd, waitCh, inv, Outcome{
				Kind:       OutcomeCancelled,
				Diagnostic: "cancelled by user",
			})
		default:
		}

		time.Sleep(pollInterval)
	}
}

// outcomeFromExit maps the Wait result onto an outcome. A non-ExitError from
// Wait is a wait-syscall level fault; the child is already unreachable at
// that point so it is surfaced as a failure.
func outcomeFromExit(waitErr error, diagnostic string) Outcome {
	if waitErr == nil {
		return Success()
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		text := strings.TrimSpace(diagnostic)
		if text == "" {
			text = exitErr.String()
		}
		return Outcome{Kind: OutcomeFailure, Diagnostic: text}
	}
	return Failuref("system error during wait: %v", waitErr)
}

// terminate force-kills the child, waits briefly for it to be reaped, then
// runs the advisory cleanup and annotates the outcome with its result.
func terminate(cmd *exec.Cmd, waitCh <-chan error, inv Invocation, base Outcome) Outcome {
	if cmd.Process != nil {
		if err := cmd.Process.Kill(); err != nil {
			log.WarningLog.Printf("failed to kill %s: %v", inv.Path, err)
		}
	}

	// Killing closes the pipes, the readers hit EOF, and Wait returns.
	select {
	case <-waitCh:
	case <-time.After(killWait):
		log.WarningLog.Printf("%s did not exit within %v of kill", inv.Path, killWait)
	}

	if inv.Cleanup != nil {
		base.CleanupAttempted = true
		if err := inv.Cleanup(); err != nil {
			log.WarningLog.Printf("cleanup after %s: %v", base.String(), err)
			base.CleanupOK = false
		} else {
			base.CleanupOK = true
		}
	}
	return base
}

// Capture runs a short informational command and returns its stdout. Used
// for installed-state queries (`mcp list`, `plugin marketplace list`) that
// have a tight timeout and no cancellation surface.
func Capture(path string, args []string, dir string, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = dir
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = io.Discard

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%s timed out after %v", path, timeout)
		}
		return "", fmt.Errorf("%s %s: %w", path, strings.Join(args, " "), err)
	}
	return out.String(), nil
}

// boundedBuffer accumulates writes up to a byte limit, appending a truncation
// marker once and silently draining the rest. It keeps accepting writes so
// the feeding io.Copy never stalls the child's stderr pipe.
type boundedBuffer struct {
	mu        sync.Mutex
	buf       bytes.Buffer
	limit     int
	truncated bool
}

func (b *boundedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.truncated {
		return len(p), nil
	}
	remaining := b.limit - b.buf.Len()
	if len(p) <= remaining {
		b.buf.Write(p)
		return len(p), nil
	}
	b.buf.Write(p[:remaining])
	b.buf.WriteString(truncationMarker)
	b.truncated = true
	return len(p), nil
}

func (b *boundedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
