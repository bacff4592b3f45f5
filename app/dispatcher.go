package app

import (
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kastheco/dotsmith/catalog"
	"github.com/kastheco/dotsmith/config/history"
	"github.com/kastheco/dotsmith/installer"
	"github.com/kastheco/dotsmith/log"
	"github.com/kastheco/dotsmith/ui"
)

// scanDoneMsg carries the initial catalog scan result.
type scanDoneMsg struct {
	result scanResult
	err    error
}

// refreshDoneMsg carries the post-pass re-scan result.
type refreshDoneMsg struct {
	result scanResult
	err    error
}

// scanResult is the immutable payload handed back from a scan goroutine.
type scanResult struct {
	cat              *catalog.Catalog
	installedServers map[string]bool
	enabledPlugins   map[string]bool
	configDir        string
}

// taskDoneMsg reports one completed queue entry.
type taskDoneMsg struct {
	itemID  int
	label   string
	outcome installer.Outcome
	// fault marks a worker that closed its channel without sending: the
	// execution goroutine crashed. Treated as a failure, never a hang.
	fault bool
}

// doScan runs the full catalog scan plus installed-state queries. It executes
// on the command's own goroutine; everything it returns is owned data.
func (h *home) doScan(cli catalog.TargetCli) (scanResult, error) {
	configDir, err := cli.ConfigDir()
	if err != nil {
		return scanResult{}, err
	}

	cat, err := catalog.Scan(h.sourceDir, cli, configDir)
	if err != nil {
		return scanResult{}, err
	}

	res := scanResult{cat: cat, configDir: configDir}

	// Installed-state queries annotate display only; failures are logged
	// and ignored.
	if len(cat.Servers) > 0 {
		quick := time.Duration(h.cfg.QuickTimeoutSecs) * time.Second
		out, err := installer.Capture(cli.BinaryName(), []string{"mcp", "list"}, "", quick)
		if err != nil {
			log.WarningLog.Printf("mcp list: %v", err)
		} else {
			res.installedServers = catalog.ParseMcpList(out)
		}
	}
	if len(cat.Plugins) > 0 {
		if data, err := readSettingsFile(filepath.Join(configDir, "settings.json")); err == nil {
			res.enabledPlugins = catalog.ParseEnabledPlugins(data)
		}
	}

	return res, nil
}

func (h *home) scanCmd(cli catalog.TargetCli) tea.Cmd {
	return func() tea.Msg {
		res, err := h.doScan(cli)
		return scanDoneMsg{result: res, err: err}
	}
}

func (h *home) refreshCmd() tea.Cmd {
	cli := h.cli
	return func() tea.Msg {
		res, err := h.doScan(cli)
		return refreshDoneMsg{result: res, err: err}
	}
}

// runTaskCmd executes one materialized task on a dedicated goroutine. The
// result channel is closed by defer: if the worker panics before sending, the
// receive observes a closed channel and reports a fault instead of hanging.
func runTaskCmd(task installer.Task, cancel <-chan struct{}, itemID int) tea.Cmd {
	resultCh := make(chan installer.Outcome, 1)
	go func() {
		defer close(resultCh)
		defer func() {
			if r := recover(); r != nil {
				log.ErrorLog.Printf("task %q panicked: %v", task.Label, r)
			}
		}()
		resultCh <- installer.Execute(task, cancel)
	}()

	return func() tea.Msg {
		outcome, ok := <-resultCh
		if !ok {
			return taskDoneMsg{itemID: itemID, label: task.Label, fault: true}
		}
		return taskDoneMsg{itemID: itemID, label: task.Label, outcome: outcome}
	}
}

// dispatchNext pops the queue head, materializes it, and hands it to a fresh
// execution goroutine with a fresh single-shot cancellation channel. An empty
// queue moves on to the refresh pass. Exactly one task is ever in flight.
func (h *home) dispatchNext() tea.Cmd {
	if h.inflight {
		return nil
	}
	if len(h.queue) == 0 {
		return h.startRefresh()
	}

	itemID := h.queue[0]
	h.queue = h.queue[1:]
	it := &h.items[itemID]

	task, err := installer.Materialize(it.work, h.direction, h.env())
	if err != nil {
		h.appendLog(ui.LogErr, "[ERR] %s: %v", it.work.Name(), err)
		h.emitHistory(failureKind(h.direction), it, "materialize failed", err.Error(), "error")
		h.progressDone++
		return h.dispatchNext()
	}

	h.inflight = true
	h.inflightID = itemID
	h.inflightLabel = task.Label
	h.cancelCh = make(chan struct{}, 1)
	h.cancelSent = false
	h.appendLog(ui.LogInfo, "... %s", task.Label)

	return runTaskCmd(task, h.cancelCh, itemID)
}

// requestCancel delivers the single-shot cancellation signal for the
// in-flight operation. The latch makes a second press a no-op, and the queue
// clears immediately so no further items are dispatched.
func (h *home) requestCancel() {
	if !h.inflight || h.cancelSent {
		return
	}
	h.cancelSent = true
	h.cancelCh <- struct{}{}
	h.queue = nil
	h.appendLog(ui.LogWarn, "[WARN] cancelling %s ...", h.inflightLabel)
}

func (h *home) handleTaskDone(msg taskDoneMsg) (tea.Model, tea.Cmd) {
	h.inflight = false
	h.progressDone++
	it := &h.items[msg.itemID]

	switch {
	case msg.fault:
		h.appendLog(ui.LogErr, "[ERR] %s: process thread crashed", msg.label)
		h.emitHistory(failureKind(h.direction), it, msg.label, "process thread crashed", "error")

	case msg.outcome.OK():
		h.appendLog(ui.LogOK, "[OK] %s", msg.label)
		h.emitHistory(successKind(h.direction), it, msg.label, "", "info")

	case msg.outcome.Kind == installer.OutcomeCancelled:
		h.appendLog(ui.LogWarn, "[WARN] %s: %s", msg.label, msg.outcome.String())
		h.emitHistory(cancelKind(h.direction), it, msg.label, msg.outcome.Diagnostic, "warn")
		// Cancellation abandons the rest of the batch.
		h.queue = nil

	case msg.outcome.Kind == installer.OutcomeTimedOut:
		h.appendLog(ui.LogErr, "[ERR] %s: %s", msg.label, msg.outcome.String())
		h.emitHistory(timeoutKind(h.direction), it, msg.label, msg.outcome.Diagnostic, "error")

	default:
		h.appendLog(ui.LogErr, "[ERR] %s: %s", msg.label, msg.outcome.String())
		h.emitHistory(failureKind(h.direction), it, msg.label, msg.outcome.Diagnostic, "error")
	}

	return h, h.dispatchNext()
}

// startRefresh launches the post-pass catalog re-scan on its own goroutine.
// The processing view stays up until the refreshed list has been applied.
func (h *home) startRefresh() tea.Cmd {
	if h.refreshing || h.procComplete {
		return nil
	}
	h.refreshing = true
	return h.refreshCmd()
}

func (h *home) handleScanDone(msg scanDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		h.err = msg.err
		log.ErrorLog.Printf("scan failed: %v", msg.err)
		h.state = stateCliChoice
		h.statusMsg = msg.err.Error()
		return h, nil
	}

	h.applyScanResult(msg.result)
	h.hist.Emit(history.NewEvent(history.EventScanCompleted, h.cli.String(), "", "", h.sourceDir))
	for _, rejectErr := range msg.result.cat.Rejected {
		h.hist.Emit(history.NewEvent(history.EventEntryRejected, h.cli.String(), "", "",
			rejectErr.Error(), history.WithLevel("warn")))
	}
	h.state = stateList
	return h, nil
}

func (h *home) handleRefreshDone(msg refreshDoneMsg) (tea.Model, tea.Cmd) {
	h.refreshing = false
	if msg.err != nil {
		log.ErrorLog.Printf("refresh failed: %v", msg.err)
		h.appendLog(ui.LogErr, "[ERR] refresh failed: %v", msg.err)
	} else {
		h.applyScanResult(msg.result)
		h.hist.Emit(history.NewEvent(history.EventRefreshCompleted, h.cli.String(), "", "", h.sourceDir))
	}
	// Dismissal is legal from here on.
	h.procComplete = true
	return h, nil
}

func successKind(d installer.Direction) history.EventKind {
	if d == installer.DirRemove {
		return history.EventRemoveOK
	}
	return history.EventInstallOK
}

func failureKind(d installer.Direction) history.EventKind {
	if d == installer.DirRemove {
		return history.EventRemoveFailed
	}
	return history.EventInstallFailed
}

func timeoutKind(d installer.Direction) history.EventKind {
	if d == installer.DirRemove {
		return history.EventRemoveTimedOut
	}
	return history.EventInstallTimedOut
}

func cancelKind(d installer.Direction) history.EventKind {
	if d == installer.DirRemove {
		return history.EventRemoveCancelled
	}
	return history.EventInstallCancelled
}
