package booking

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCategory means a stateroom category code outside IS, OS, OB, SU
	// crossed the search boundary. It is a data contract violation.
	ErrUnknownCategory = errors.New("unknown stateroom category")

	// ErrHoldUnavailable means the selected stateroom cannot be put on courtesy hold.
	ErrHoldUnavailable = errors.New("courtesy hold not available")

	// ErrEmptySearchResult means no sailing matched the search and category.
	ErrEmptySearchResult = errors.New("no matching sailings")

	// ErrDownstream matches any *DownstreamError.
	ErrDownstream = errors.New("downstream service failure")

	// ErrOutOfTurn means the intent is not valid under the active dialog marker.
	ErrOutOfTurn = errors.New("intent not expected in current dialog state")

	// ErrUnknownIntent means no pipeline is bound to the intent.
	ErrUnknownIntent = errors.New("unknown intent")

	// ErrMissingState means a pipeline did not find what an earlier turn should have stored.
	ErrMissingState = errors.New("session state missing")
)

// DownstreamError wraps a failed call to an external collaborator.
type DownstreamError struct {
	Op  string
	Err error
}

func (e *DownstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DownstreamError) Unwrap() error {
	return e.Err
}

// Is reports ErrDownstream as a match so callers need not know the concrete type.
func (e *DownstreamError) Is(target error) bool {
	return target == ErrDownstream
}

func downstream(op string, err error) error {
	return &DownstreamError{Op: op, Err: err}
}

// ErrorKind classifies a turn failure.
type ErrorKind string

const (
	KindNone            ErrorKind = "ok"
	KindUnknownCategory ErrorKind = "unknown_category"
	KindHoldUnavailable ErrorKind = "hold_unavailable"
	KindEmptySearch     ErrorKind = "empty_result"
	KindDownstream      ErrorKind = "downstream"
	KindOutOfTurn       ErrorKind = "out_of_turn"
	KindUnknownIntent   ErrorKind = "unknown_intent"
	KindMissingState    ErrorKind = "missing_state"
	KindInternal        ErrorKind = "internal"
)

// KindOf returns the kind of err.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrUnknownCategory):
		return KindUnknownCategory
	case errors.Is(err, ErrHoldUnavailable):
		return KindHoldUnavailable
	case errors.Is(err, ErrEmptySearchResult):
		return KindEmptySearch
	case errors.Is(err, ErrDownstream):
		return KindDownstream
	case errors.Is(err, ErrOutOfTurn):
		return KindOutOfTurn
	case errors.Is(err, ErrUnknownIntent):
		return KindUnknownIntent
	case errors.Is(err, ErrMissingState):
		return KindMissingState
	default:
		return KindInternal
	}
}
