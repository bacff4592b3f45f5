package history

import "time"

// QueryFilter specifies criteria for querying history events.
type QueryFilter struct {
	Cli      string
	Item     string
	ItemKind string
	Kinds    []EventKind
	Limit    int
	Before   time.Time
	After    time.Time
}

// Logger is the interface for emitting and querying history events.
type Logger interface {
	Emit(event Event)
	Query(filter QueryFilter) ([]Event, error)
	Close() error
}

// EventOption is a functional option for configuring optional Event fields.
type EventOption func(*Event)

// WithScope sets the Scope field on the event.
func WithScope(scope string) EventOption {
	return func(e *Event) { e.Scope = scope }
}

// WithDetail sets the Detail field on the event.
func WithDetail(detail string) EventOption {
	return func(e *Event) { e.Detail = detail }
}

// WithLevel sets the Level field on the event (info, warn, error).
func WithLevel(level string) EventOption {
	return func(e *Event) { e.Level = level }
}

// NewEvent builds an Event from the required fields plus options.
func NewEvent(kind EventKind, cli, item, itemKind, message string, opts ...EventOption) Event {
	e := Event{
		Kind:     kind,
		Cli:      cli,
		Item:     item,
		ItemKind: itemKind,
		Message:  message,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// nopLogger is a no-op Logger used when history is disabled.
type nopLogger struct{}

// NopLogger returns a Logger that discards all events.
func NopLogger() Logger {
	return &nopLogger{}
}

func (n *nopLogger) Emit(_ Event) {}

func (n *nopLogger) Query(_ QueryFilter) ([]Event, error) {
	return nil, nil
}

func (n *nopLogger) Close() error {
	return nil
}
