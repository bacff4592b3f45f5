//go:build !windows

package installer

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSuccess(t *testing.T) {
	outcome := Run(Invocation{
		Path:    "/bin/sh",
		Args:    []string{"-c", "exit 0"},
		Timeout: 5 * time.Second,
	}, nil)

	assert.Equal(t, OutcomeSuccess, outcome.Kind)
	assert.True(t, outcome.OK())
}

func TestRunFailureCapturesStderr(t *testing.T) {
	outcome := Run(Invocation{
		Path:    "/bin/sh",
		Args:    []string{"-c", "echo boom >&2; exit 3"},
		Timeout: 5 * time.Second,
	}, nil)

	require.Equal(t, OutcomeFailure, outcome.Kind)
	assert.Contains(t, outcome.Diagnostic, "boom")
}

func TestRunDiscardsStdout(t *testing.T) {
	// A child writing far more than the pipe buffer to stdout must still
	// finish: the discard reader prevents pipe deadlock.
	outcome := Run(Invocation{
		Path:    "/bin/sh",
		Args:    []string{"-c", "yes x | head -c 1000000"},
		Timeout: 10 * time.Second,
	}, nil)

	assert.Equal(t, OutcomeSuccess, outcome.Kind)
}

func TestRunTimeoutKillsChild(t *testing.T) {
	start := time.Now()
	outcome := Run(Invocation{
		Path:    "/bin/sh",
		Args:    []string{"-c", "echo $$; sleep 30"},
		Timeout: 500 * time.Millisecond,
	}, nil)

	require.Equal(t, OutcomeTimedOut, outcome.Kind)
	assert.Less(t, time.Since(start), 10*time.Second)
	assert.False(t, outcome.CleanupAttempted)
}

func TestRunTimeoutRunsCleanup(t *testing.T) {
	cleanupRan := false
	outcome := Run(Invocation{
		Path:    "/bin/sleep",
		Args:    []string{"30"},
		Timeout: 300 * time.Millisecond,
		Cleanup: func() error {
			cleanupRan = true
			return nil
		},
	}, nil)

	require.Equal(t, OutcomeTimedOut, outcome.Kind)
	assert.True(t, cleanupRan)
	assert.True(t, outcome.CleanupAttempted)
	assert.True(t, outcome.CleanupOK)
}

func TestRunCancelled(t *testing.T) {
	cancel := make(chan struct{}, 1)
	cancel <- struct{}{}

	outcome := Run(Invocation{
		Path:    "/bin/sleep",
		Args:    []string{"30"},
		Timeout: 30 * time.Second,
	}, cancel)

	assert.Equal(t, OutcomeCancelled, outcome.Kind)
}

func TestRunCompletionObservedBeforeCancel(t *testing.T) {
	// A cancel signal pending while the process has already exited
	// successfully must never override the process's own outcome.
	cancel := make(chan struct{}, 1)

	done := make(chan Outcome, 1)
	go func() {
		done <- Run(Invocation{
			Path:    "/bin/sh",
			Args:    []string{"-c", "exit 0"},
			Timeout: 5 * time.Second,
		}, cancel)
	}()

	// The signal may arrive in the same poll tick as completion; the
	// runner checks completion first, so Success must win whenever the
	// child has already exited.
	time.Sleep(300 * time.Millisecond)
	cancel <- struct{}{}

	outcome := <-done
	assert.Equal(t, OutcomeSuccess, outcome.Kind)
}

func TestRunLeavesNoChildAfterTimeout(t *testing.T) {
	marker := "dotsmith-runner-test-marker"
	outcome := Run(Invocation{
		Path:    "/bin/sh",
		Args:    []string{"-c", "sleep 30 # " + marker},
		Timeout: 300 * time.Millisecond,
	}, nil)
	require.Equal(t, OutcomeTimedOut, outcome.Kind)

	// The shell was the direct child; its pid must be gone.
	time.Sleep(100 * time.Millisecond)
	procs, err := os.ReadDir("/proc")
	if err != nil {
		t.Skip("no /proc on this platform")
	}
	for _, p := range procs {
		cmdline, err := os.ReadFile("/proc/" + p.Name() + "/cmdline")
		if err != nil {
			continue
		}
		assert.NotContains(t, string(cmdline), marker)
	}
}

func TestRunMissingBinary(t *testing.T) {
	outcome := Run(Invocation{
		Path:    "/nonexistent/definitely-not-here",
		Timeout: time.Second,
	}, nil)

	assert.Equal(t, OutcomeFailure, outcome.Kind)
	assert.Contains(t, outcome.Diagnostic, "failed to start")
}

func TestCapture(t *testing.T) {
	t.Run("returns stdout", func(t *testing.T) {
		out, err := Capture("/bin/sh", []string{"-c", "echo hello"}, "", 5*time.Second)
		require.NoError(t, err)
		assert.Equal(t, "hello\n", out)
	})

	t.Run("times out", func(t *testing.T) {
		_, err := Capture("/bin/sleep", []string{"30"}, "", 200*time.Millisecond)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "timed out")
	})
}

func TestBoundedBuffer(t *testing.T) {
	b := &boundedBuffer{limit: 10}

	n, err := b.Write([]byte("12345"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	// Crossing the limit keeps the head, appends the marker once, and
	// swallows everything after.
	n, err = b.Write([]byte("6789012345"))
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	_, err = b.Write([]byte("more"))
	require.NoError(t, err)

	got := b.String()
	assert.True(t, strings.HasPrefix(got, "1234567890"))
	assert.True(t, strings.HasSuffix(got, truncationMarker))
	assert.Equal(t, 1, strings.Count(got, "[... output truncated]"))
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "ok", Success().String())
	assert.Equal(t, "bad", Failuref("bad").String())
	assert.Equal(t, "cancelled by user", Outcome{Kind: OutcomeCancelled}.String())
	assert.Equal(t, "timed out (cleanup may be incomplete)",
		Outcome{Kind: OutcomeTimedOut, CleanupAttempted: true}.String())
}
