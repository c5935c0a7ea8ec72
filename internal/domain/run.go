package domain

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"syscall"
)

// RunErrorKind is a high-level classification of transport errors, used
// for diagnostics only; users always see MsgUnexpected.
type RunErrorKind string

const (
	RunErrorUnknown RunErrorKind = "unknown"
	RunErrorTimeout RunErrorKind = "timeout"
	RunErrorDNS     RunErrorKind = "dns"
	RunErrorConn    RunErrorKind = "connection"
	RunErrorHTTP    RunErrorKind = "http"
	RunErrorDecode  RunErrorKind = "decode"
)

// RunError represents a structured error produced by a query client.
type RunError struct {
	Kind    RunErrorKind
	Message string
}

// NewRunError classifies err and keeps its message.
func NewRunError(err error) *RunError {
	if err == nil {
		return nil
	}
	return &RunError{Kind: ClassifyRunError(err), Message: err.Error()}
}

// ClassifyRunError inspects the error chain for well-known transport errors.
func ClassifyRunError(err error) RunErrorKind {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return RunErrorTimeout
	}
	if errors.Is(err, ErrRequestRejected) {
		return RunErrorHTTP
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.Is(err, ErrMissingField) || errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return RunErrorDecode
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return RunErrorDNS
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return RunErrorTimeout
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return RunErrorConn
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return RunErrorConn
	}

	return RunErrorUnknown
}
