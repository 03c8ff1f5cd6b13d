package agentland

import "github.com/agentland/agentland-go/internal/errors"

// Re-export error types from internal package

// UnavailableError indicates the kernel channels could not be opened or the
// kernel never announced readiness within the bound.
type UnavailableError = errors.UnavailableError

// TransportError indicates a channel send or receive failed outside the
// expected protocol.
type TransportError = errors.TransportError

// ConnectionFileError indicates the kernel connection descriptor could not
// be read or was missing required fields.
type ConnectionFileError = errors.ConnectionFileError

// APIError indicates the sandbox gateway returned an error payload.
type APIError = errors.APIError

// AgentlandError is the base interface for all SDK errors.
type AgentlandError = errors.AgentlandError

// Re-export sentinel errors from internal package.
var (
	// ErrNoTransport indicates neither WithTransport nor WithTransportFactory
	// was configured for a kernel operation.
	ErrNoTransport = errors.ErrNoTransport

	// ErrCodeRequired indicates an execute call with empty code.
	ErrCodeRequired = errors.ErrCodeRequired

	// ErrSandboxIDRequired indicates a sandbox operation with an empty id.
	ErrSandboxIDRequired = errors.ErrSandboxIDRequired

	// ErrInvalidTimeout indicates a timeout_ms outside [100, 300000].
	ErrInvalidTimeout = errors.ErrInvalidTimeout

	// ErrUnsupportedLanguage indicates a language other than python or shell.
	ErrUnsupportedLanguage = errors.ErrUnsupportedLanguage
)
