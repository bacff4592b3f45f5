package installer

import "fmt"

// OutcomeKind classifies how an operation ended.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeFailure
	OutcomeTimedOut
	OutcomeCancelled
)

// Outcome is the typed result of executing one task. TimedOut and Cancelled
// additionally record whether the best-effort cleanup command was attempted
// and whether it is known to have succeeded.
type Outcome struct {
	Kind             OutcomeKind
	Diagnostic       string
	CleanupAttempted bool
	CleanupOK        bool
}

// Success is the zero-diagnostic success outcome.
func Success() Outcome {
	return Outcome{Kind: OutcomeSuccess}
}

// Failuref builds a failure outcome with a formatted diagnostic.
func Failuref(format string, args ...any) Outcome {
	return Outcome{Kind: OutcomeFailure, Diagnostic: fmt.Sprintf(format, args...)}
}

// OK reports whether the operation succeeded.
func (o Outcome) OK() bool {
	return o.Kind == OutcomeSuccess
}

// String renders the outcome for the processing log.
func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeSuccess:
		return "ok"
	case OutcomeTimedOut:
		if o.CleanupAttempted && !o.CleanupOK {
			return "timed out (cleanup may be incomplete)"
		}
		return "timed out"
	case OutcomeCancelled:
		if o.CleanupAttempted && !o.CleanupOK {
			return "cancelled (cleanup may be incomplete)"
		}
		return "cancelled by user"
	default:
		if o.Diagnostic != "" {
			return o.Diagnostic
		}
		return "failed"
	}
}
