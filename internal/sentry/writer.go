package sentry

import (
	"io"
	"strings"

	gosentry "github.com/getsentry/sentry-go"
)

// Level represents the severity level for the sentry writer.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

// Writer wraps an io.Writer and forwards log lines to Sentry. Error lines
// become Sentry events; warnings and info become breadcrumbs. The wrapped
// writer always receives the bytes first, so logging keeps working when
// telemetry is off.
type Writer struct {
	inner io.Writer
	level Level
}

// NewWriter creates a Writer that tees to inner and forwards to Sentry.
func NewWriter(inner io.Writer, level Level) *Writer {
	return &Writer{inner: inner, level: level}
}

func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.inner.Write(p)

	if !enabled {
		return n, err
	}

	msg := strings.TrimSpace(string(p))
	if msg == "" {
		return n, err
	}

	if w.level == LevelError {
		gosentry.CaptureMessage(msg)
		return n, err
	}

	crumbLevel := gosentry.LevelInfo
	if w.level == LevelWarning {
		crumbLevel = gosentry.LevelWarning
	}
	gosentry.AddBreadcrumb(&gosentry.Breadcrumb{
		Level:    crumbLevel,
		Category: "log",
		Message:  msg,
	})

	return n, err
}
