package errors

import (
	"errors"
	"fmt"
)

// AgentlandError is the base interface for all SDK errors.
type AgentlandError interface {
	error
	IsAgentlandError() bool
}

// Compile-time verification that all error types implement AgentlandError.
var (
	_ AgentlandError = (*UnavailableError)(nil)
	_ AgentlandError = (*TransportError)(nil)
	_ AgentlandError = (*ConnectionFileError)(nil)
	_ AgentlandError = (*APIError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrNoTransport indicates no transport or transport factory was configured.
	ErrNoTransport = errors.New("no transport configured")

	// ErrSessionClosed indicates the kernel session has been closed.
	ErrSessionClosed = errors.New("kernel session closed")

	// ErrCodeRequired indicates an execute call with empty code.
	ErrCodeRequired = errors.New("code is required")

	// ErrSandboxIDRequired indicates a sandbox operation with an empty sandbox id.
	ErrSandboxIDRequired = errors.New("sandbox_id is required")

	// ErrInvalidTimeout indicates a timeout_ms outside the accepted range.
	ErrInvalidTimeout = errors.New("timeout_ms must be between 100 and 300000")

	// ErrUnsupportedLanguage indicates a language other than python or shell.
	ErrUnsupportedLanguage = errors.New("language must be 'python' or 'shell'")
)

// UnavailableError indicates the kernel channels could not be opened or the
// kernel never announced readiness within the bound.
type UnavailableError struct {
	Reason string
	Err    error
}

func (e *UnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("kernel unavailable: %s: %v", e.Reason, e.Err)
	}

	return fmt.Sprintf("kernel unavailable: %s", e.Reason)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// IsAgentlandError implements AgentlandError.
func (e *UnavailableError) IsAgentlandError() bool { return true }

// TransportError indicates a channel send or receive failed outside the
// expected protocol. Distinct from a kernel-reported execution error, which is
// carried in the ExecuteResult status instead.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport %s failed: %v", e.Op, e.Err)
	}

	return fmt.Sprintf("transport %s failed", e.Op)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsAgentlandError implements AgentlandError.
func (e *TransportError) IsAgentlandError() bool { return true }

// ConnectionFileError indicates the kernel connection descriptor could not be
// read or did not contain the required fields.
type ConnectionFileError struct {
	Path string
	Err  error
}

func (e *ConnectionFileError) Error() string {
	return fmt.Sprintf("invalid connection file %s: %v", e.Path, e.Err)
}

func (e *ConnectionFileError) Unwrap() error {
	return e.Err
}

// IsAgentlandError implements AgentlandError.
func (e *ConnectionFileError) IsAgentlandError() bool { return true }

// APIError indicates the sandbox gateway rejected a request or returned an
// error payload. Code is the gateway's application code when present (zero
// otherwise); HTTPStatus is the HTTP status line code.
type APIError struct {
	Msg        string
	Code       int
	HTTPStatus int
	Body       string
}

func (e *APIError) Error() string {
	if e.HTTPStatus != 0 {
		return fmt.Sprintf("gateway request failed (http %d): %s", e.HTTPStatus, e.Msg)
	}

	return fmt.Sprintf("gateway request failed: %s", e.Msg)
}

// IsAgentlandError implements AgentlandError.
func (e *APIError) IsAgentlandError() bool { return true }
