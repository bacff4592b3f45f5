package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/kastheco/dotsmith/internal/sentry"
)

var (
	// InfoLog logs informational messages.
	InfoLog *log.Logger
	// WarningLog logs recoverable problems.
	WarningLog *log.Logger
	// ErrorLog logs failures.
	ErrorLog *log.Logger

	globalLogFile *os.File
)

const logFileName = "dotsmith.log"

// Initialize sets up the package-level loggers backed by a log file in the
// config directory. When telemetry is enabled, warning and error output is
// also forwarded to Sentry. Call Close before exit.
func Initialize(telemetryEnabled bool) {
	logFile, err := openLogFile()
	if err != nil {
		fmt.Printf("could not open log file: %v\n", err)
		logFile = nil
	}

	var base io.Writer = io.Discard
	if logFile != nil {
		base = logFile
	}

	infoWriter := base
	warnWriter := base
	errorWriter := base
	if telemetryEnabled {
		warnWriter = sentry.NewWriter(base, sentry.LevelWarning)
		errorWriter = sentry.NewWriter(base, sentry.LevelError)
	}

	flags := log.LstdFlags | log.Lshortfile
	InfoLog = log.New(infoWriter, "INFO: ", flags)
	WarningLog = log.New(warnWriter, "WARNING: ", flags)
	ErrorLog = log.New(errorWriter, "ERROR: ", flags)
	globalLogFile = logFile
}

// Close flushes and closes the log file opened by Initialize.
func Close() {
	if globalLogFile != nil {
		_ = globalLogFile.Close()
		globalLogFile = nil
	}
}

func openLogFile() (*os.File, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	dir := filepath.Join(homeDir, ".config", "dotsmith")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	path := filepath.Join(dir, logFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, nil
}
