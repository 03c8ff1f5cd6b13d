// Package session implements the kernel session client: the protocol state
// machine that turns the two-channel kernel transport into synchronous
// probe, execute, and shutdown operations.
//
// A session is single-use. Each operation opens its own session against the
// connection descriptor, drives it to completion, and closes it on every
// exit path; no state survives between operations.
package session

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agentland/agentland-go/internal/config"
	"github.com/agentland/agentland-go/internal/connfile"
	"github.com/agentland/agentland-go/internal/errors"
)

// Default operation timeouts, overridable per call.
const (
	DefaultProbeTimeout    = 5 * time.Second
	DefaultExecuteTimeout  = 30 * time.Second
	DefaultShutdownTimeout = 5 * time.Second
)

// Sub-bounds for the readiness wait. A dead kernel is detected within the
// short bound instead of consuming the caller's whole timeout.
const (
	executeReadyBound  = 5 * time.Second
	shutdownReadyBound = 3 * time.Second
)

// Session owns one kernel transport for the duration of one operation.
type Session struct {
	log       *slog.Logger
	transport config.Transport

	// id is the wire session identity stamped on outgoing command headers.
	id string

	iopub     <-chan map[string]any
	iopubErrs <-chan error
	shell     <-chan map[string]any
	shellErrs <-chan error

	closeOnce sync.Once
	closeErr  error
}

// Open resolves a transport for the descriptor, starts it, and subscribes to
// both channels. The caller must Close the session on every path.
func Open(ctx context.Context, descriptor string, opts *config.Options) (*Session, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	log = log.With("component", "kernel_session")

	transport, err := resolveTransport(ctx, descriptor, opts, log)
	if err != nil {
		return nil, err
	}

	if err := transport.Start(ctx); err != nil {
		return nil, &errors.UnavailableError{Reason: "transport start failed", Err: err}
	}

	id := opts.Session
	if id == "" {
		id = uuid.NewString()
	}

	s := &Session{
		log:       log,
		transport: transport,
		id:        id,
	}
	s.iopub, s.iopubErrs = transport.IOPubMessages(ctx)
	s.shell, s.shellErrs = transport.ShellMessages(ctx)

	log.Debug("Kernel session opened", "session_id", id, "descriptor", descriptor)

	return s, nil
}

func resolveTransport(
	ctx context.Context,
	descriptor string,
	opts *config.Options,
	log *slog.Logger,
) (config.Transport, error) {
	if opts.Transport != nil {
		return opts.Transport, nil
	}

	if opts.TransportFactory == nil {
		return nil, &errors.UnavailableError{Reason: "cannot open channels", Err: errors.ErrNoTransport}
	}

	info, err := connfile.Load(descriptor)
	if err != nil {
		return nil, err
	}

	transport, err := opts.TransportFactory(ctx, info, log)
	if err != nil {
		return nil, &errors.UnavailableError{Reason: "cannot open channels", Err: err}
	}

	return transport, nil
}

// ID returns the wire session identity.
func (s *Session) ID() string {
	return s.id
}

// WaitReady blocks until the transport announces readiness, the bound
// elapses, or ctx is cancelled. An already-ready transport returns
// immediately even when the bound is zero or negative.
func (s *Session) WaitReady(ctx context.Context, bound time.Duration) error {
	// Fast path so that an already-expired execute deadline still observes
	// a live kernel and proceeds into the timeout flow instead of failing
	// here.
	select {
	case <-s.transport.Ready():
		return nil
	default:
	}

	if bound <= 0 {
		return &errors.UnavailableError{Reason: "kernel not ready"}
	}

	timer := time.NewTimer(bound)
	defer timer.Stop()

	select {
	case <-s.transport.Ready():
		return nil
	case <-timer.C:
		return &errors.UnavailableError{Reason: fmt.Sprintf("kernel not ready within %s", bound)}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// recvIOPub waits up to wait for the next broadcast-channel event.
// ok is false when the bound elapsed with no message; err reports transport
// failure or ctx cancellation. Exactly one of the three outcomes holds.
func (s *Session) recvIOPub(ctx context.Context, wait time.Duration) (map[string]any, bool, error) {
	msg, ok, err := recv(ctx, s.iopub, &s.iopubErrs, wait)
	if err != nil {
		return nil, false, wrapRecvErr("iopub receive", err)
	}

	return msg, ok, nil
}

// recvShell waits up to wait for the next reply-channel message.
func (s *Session) recvShell(ctx context.Context, wait time.Duration) (map[string]any, bool, error) {
	msg, ok, err := recv(ctx, s.shell, &s.shellErrs, wait)
	if err != nil {
		return nil, false, wrapRecvErr("shell receive", err)
	}

	return msg, ok, nil
}

// errChannelClosed marks a receive stream that ended without an error value.
var errChannelClosed = stderrors.New("channel closed")

func recv(
	ctx context.Context,
	msgs <-chan map[string]any,
	errs *<-chan error,
	wait time.Duration,
) (map[string]any, bool, error) {
	if wait <= 0 {
		return nil, false, nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				return nil, false, errChannelClosed
			}

			return msg, true, nil

		case err, ok := <-*errs:
			if !ok {
				// Error stream ended; stop selecting on it so a closed
				// channel cannot spin the loop.
				*errs = nil

				continue
			}

			if err != nil {
				return nil, false, err
			}

		case <-timer.C:
			return nil, false, nil

		case <-ctx.Done():
			return nil, false, ctx.Err()
		}
	}
}

func wrapRecvErr(op string, err error) error {
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return err
	}

	return &errors.TransportError{Op: op, Err: err}
}

// sendShell marshals and sends a command envelope on the reply channel.
func (s *Session) sendShell(ctx context.Context, data []byte) error {
	if err := s.transport.SendShell(ctx, data); err != nil {
		return &errors.TransportError{Op: "shell send", Err: err}
	}

	return nil
}

// sendControl marshals and sends a command envelope on the control channel.
func (s *Session) sendControl(ctx context.Context, data []byte) error {
	if err := s.transport.SendControl(ctx, data); err != nil {
		return &errors.TransportError{Op: "control send", Err: err}
	}

	return nil
}

// Close tears down the transport. Idempotent; the first error is retained.
// Callers treat a close failure as best-effort cleanup: log and continue.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.transport.Close()
		if s.closeErr != nil {
			s.log.Warn("Failed to close kernel transport", "error", s.closeErr)
		} else {
			s.log.Debug("Kernel session closed", "session_id", s.id)
		}
	})

	return s.closeErr
}
