package history

import "time"

// EventKind identifies the type of history event.
type EventKind string

// String returns the string representation of the EventKind.
func (k EventKind) String() string {
	return string(k)
}

// Task outcome events.
const (
	EventInstallOK        EventKind = "install_ok"
	EventInstallFailed    EventKind = "install_failed"
	EventInstallTimedOut  EventKind = "install_timed_out"
	EventInstallCancelled EventKind = "install_cancelled"
	EventRemoveOK         EventKind = "remove_ok"
	EventRemoveFailed     EventKind = "remove_failed"
	EventRemoveTimedOut   EventKind = "remove_timed_out"
	EventRemoveCancelled  EventKind = "remove_cancelled"
)

// Session events.
const (
	EventScanCompleted    EventKind = "scan_completed"
	EventRefreshCompleted EventKind = "refresh_completed"
	EventEntryRejected    EventKind = "entry_rejected"
	EventSettingsReset    EventKind = "settings_reset"
)

// Event is a single install-history entry.
type Event struct {
	ID        int64
	Kind      EventKind
	Timestamp time.Time
	Cli       string // target CLI ("claude", "codex")
	Item      string // component, server, or plugin name
	ItemKind  string // "file", "mcp", "plugin"
	Scope     string // "user" or "local" for MCP installs
	Message   string
	Detail    string // captured diagnostics or JSON-encoded extra data
	Level     string // info, warn, error
}
