package reconcile

import (
	"errors"
	"strings"
)

// Kind classifies a reconciliation failure.
type Kind string

const (
	// MissingTarget: no event was selected. Reported before any Directory call.
	MissingTarget Kind = "missing_target"
	// DuplicateConflict: at commit time the store already holds an assignment
	// for at least one volunteer in the assign batch. Nothing was sent.
	DuplicateConflict Kind = "duplicate_conflict"
	// FetchFailure: a list call (events, candidates, assignments) failed.
	FetchFailure Kind = "fetch_failure"
	// PartialFailure: one batch was committed and the other failed. The
	// caller must re-read the store before retrying.
	PartialFailure Kind = "partial_failure"
	// CommitFailure: every batch that was attempted failed.
	CommitFailure Kind = "commit_failure"
	// InFlight: another reconciliation for the same event is still running.
	InFlight Kind = "in_flight"
)

// Error is the structured error returned by the reconciler.
type Error struct {
	Kind   Kind
	Detail string
	// Names holds volunteer display names for DuplicateConflict.
	Names []string
	Err   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if len(e.Names) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(e.Names, ", "))
		b.WriteString(")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the Kind from err if it wraps an *Error.
func KindOf(err error) (Kind, bool) {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind, true
	}
	return "", false
}

// IsKind reports whether err wraps an *Error of kind k.
func IsKind(err error, k Kind) bool {
	got, ok := KindOf(err)
	return ok && got == k
}
