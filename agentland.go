package agentland

import (
	"context"

	"github.com/agentland/agentland-go/internal/session"
)

// Execution statuses reported in ExecuteResult.Status.
const (
	StatusOK      = session.StatusOK
	StatusError   = session.StatusError
	StatusTimeout = session.StatusTimeout
)

// ExecuteResult is the outcome of a kernel code execution: the terminal
// status, the kernel's execution sequence number, and the accumulated
// stdout/stderr text in receipt order.
type ExecuteResult = session.ExecuteResult

// ProbeResult is the outcome of a kernel readiness probe.
type ProbeResult = session.ProbeResult

// ShutdownResult is the outcome of a kernel shutdown request.
type ShutdownResult = session.ShutdownResult

// Probe checks that the kernel behind the connection descriptor is live:
// it opens a session, waits for the transport to announce readiness within
// the timeout (default 5s), and closes the session. No command is sent.
//
// Returns UnavailableError when the kernel does not become ready in time.
func Probe(ctx context.Context, descriptor string, opts ...Option) (*ProbeResult, error) {
	return session.Probe(ctx, descriptor, applyOptions(opts))
}

// Execute runs code on the kernel behind the connection descriptor, bounded
// by the configured timeout (default 30s).
//
// The result status is "ok", "error" (kernel-reported failure, traceback in
// Stderr), or "timeout" (deadline elapsed; partial output retained, a
// timeout notice appended to Stderr, and an advisory interrupt sent to the
// kernel). A non-nil error is returned only when the session itself fails:
// the channels cannot be opened, the kernel never becomes ready, or a
// transport send/receive breaks.
func Execute(ctx context.Context, descriptor, code string, opts ...Option) (*ExecuteResult, error) {
	return session.Execute(ctx, descriptor, code, applyOptions(opts))
}

// Shutdown asks the kernel behind the connection descriptor to exit
// gracefully. Fire-and-forget: readiness is awaited for at most min(3s,
// timeout) but not required, the shutdown command is best-effort, and no
// acknowledgement is consumed.
func Shutdown(ctx context.Context, descriptor string, opts ...Option) (*ShutdownResult, error) {
	return session.Shutdown(ctx, descriptor, applyOptions(opts))
}
