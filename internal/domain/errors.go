package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidConfig   = errors.New("invalid config")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrMissingVar      = errors.New("missing variable")
	ErrExecution       = errors.New("execution error")
	ErrRequestRejected = errors.New("request rejected")
	ErrMissingField    = errors.New("missing response field")
)

// ErrorKind is a coarse-grained categorization for errors.
type ErrorKind string

const (
	KindNotFound        ErrorKind = "not_found"
	KindInvalidConfig   ErrorKind = "invalid_config"
	KindInvalidRequest  ErrorKind = "invalid_request"
	KindMissingVar      ErrorKind = "missing_variable"
	KindExecution       ErrorKind = "execution"
	KindRequestRejected ErrorKind = "request_rejected"
	KindUnexpected      ErrorKind = "unexpected"
)

// Messages shown to the user when a query does not complete.
const (
	MsgRequestRejected = "Error submitting query."
	MsgUnexpected      = "An unexpected error occurred."
)

// OpError wraps an underlying error with operation context and a kind.
type OpError struct {
	Op   string
	Kind ErrorKind
	Path string // Optional: relevant file path or URL
	Err  error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// RejectedError reports a backend answer with a non-success status.
// Body holds the decoded JSON error body, or the raw text when it is not JSON.
type RejectedError struct {
	StatusCode int
	Body       any
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("backend responded with status %d", e.StatusCode)
}

func (e *RejectedError) Unwrap() error { return ErrRequestRejected }

// IsKind helps callers classify errors without depending on infra packages.
func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}

// KindOf returns the kind of the outermost OpError in err's chain. A bare
// RejectedError is request_rejected; anything else is unexpected.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind
	}
	if errors.Is(err, ErrRequestRejected) {
		return KindRequestRejected
	}
	return KindUnexpected
}

// UserMessage maps a failed query to the fixed text shown in the status area.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if KindOf(err) == KindRequestRejected {
		return MsgRequestRejected
	}
	return MsgUnexpected
}
