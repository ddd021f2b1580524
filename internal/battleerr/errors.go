// Package battleerr defines the engine's closed error taxonomy (§7). Each
// kind is a typed failure the caller must decide about — never a panic, and
// never a partial state mutation. Validation failures are reported without
// mutating state; action-legality failures come back to the caller so a UI
// can re-prompt; replay failures indicate a history/RNG stream mismatch.
package battleerr

import (
	"errors"
	"fmt"
)

// Kind is the closed set of error categories surfaced to callers.
type Kind string

const (
	// Validation (creature construction)
	KindUnknownSpecies   Kind = "UnknownSpecies"
	KindUnknownMove      Kind = "UnknownMove"
	KindMoveNotLearnable Kind = "MoveNotLearnable"
	KindDuplicateMove    Kind = "DuplicateMove"
	KindInvalidEvBudget  Kind = "InvalidEvBudget"

	// Action legality
	KindActionNotNeeded    Kind = "ActionNotNeeded"
	KindMustSwitch         Kind = "MustSwitch"
	KindNoSwitchAvailable  Kind = "NoSwitchAvailable"
	KindInvalidSwitchTarget Kind = "InvalidSwitchTarget"
	KindNoPP               Kind = "NoPp"
	KindMoveNotKnown       Kind = "MoveNotKnown"
	KindItemNotUsable      Kind = "ItemNotUsable"

	// Replay
	KindHistoryRngUnderflow    Kind = "HistoryRngUnderflow"
	KindHistoryActionMismatch Kind = "HistoryActionMismatch"
)

// Error is a typed engine failure. It wraps an optional underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New constructs an Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Is reports whether err is a battleerr.Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
