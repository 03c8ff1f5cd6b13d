package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agentland/agentland-go/internal/config"
	"github.com/agentland/agentland-go/internal/errors"
	"github.com/agentland/agentland-go/internal/wire"
)

// Terminal statuses of an execute operation.
const (
	StatusOK      = "ok"
	StatusError   = "error"
	StatusTimeout = "timeout"
)

// ExecuteResult is the outcome of one code execution. On timeout the partial
// stdout/stderr accumulated so far is retained and stderr carries a timeout
// notice.
type ExecuteResult struct {
	Status         string `json:"status"`
	ExecutionCount int64  `json:"execution_count"`
	Stdout         string `json:"stdout"`
	Stderr         string `json:"stderr"`
}

// ProbeResult is the outcome of a readiness probe.
type ProbeResult struct {
	OK bool `json:"ok"`
}

// ShutdownResult is the outcome of a shutdown request.
type ShutdownResult struct {
	OK bool `json:"ok"`
}

// Probe opens a session and waits for the kernel to announce readiness
// within the timeout. No command is sent.
func Probe(ctx context.Context, descriptor string, opts *config.Options) (*ProbeResult, error) {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultProbeTimeout
	}

	s, err := Open(ctx, descriptor, opts)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	if err := s.WaitReady(ctx, timeout); err != nil {
		return nil, err
	}

	s.log.Debug("Probe succeeded", "session_id", s.id)

	return &ProbeResult{OK: true}, nil
}

// Execute runs one code execution to completion.
//
// The state machine: AwaitReady (bounded by min(5s, timeout)), then the
// broadcast-event loop until the idle signal, then the acknowledgement loop
// on the reply channel, both against the same absolute deadline. A deadline
// expiry on any waiting state finalizes with status timeout and an advisory
// interrupt; it is not an operation error.
func Execute(ctx context.Context, descriptor, code string, opts *config.Options) (*ExecuteResult, error) {
	if strings.TrimSpace(code) == "" {
		return nil, errors.ErrCodeRequired
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultExecuteTimeout
	}

	s, err := Open(ctx, descriptor, opts)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	if err := s.WaitReady(ctx, min(executeReadyBound, timeout)); err != nil {
		return nil, err
	}

	req := wire.NewExecuteRequest(s.id, code)

	data, err := req.Marshal()
	if err != nil {
		return nil, fmt.Errorf("marshal execute request: %w", err)
	}

	if err := s.sendShell(ctx, data); err != nil {
		return nil, err
	}

	msgID := req.MsgID()
	deadline := time.Now().Add(timeout)

	s.log.Debug("Execute command sent", "msg_id", msgID, "timeout", timeout)

	res := &ExecuteResult{Status: StatusOK}

	var stdout, stderr strings.Builder

	if err := s.consumeEvents(ctx, msgID, deadline, res, &stdout, &stderr); err != nil {
		return nil, err
	}

	if res.Status != StatusTimeout {
		if err := s.consumeAck(ctx, msgID, deadline, res, &stderr); err != nil {
			return nil, err
		}
	}

	if res.Status == StatusTimeout {
		s.interrupt(ctx)
		fmt.Fprintf(&stderr, "Execution timed out after %d ms.\n", timeout.Milliseconds())
	}

	res.Stdout = stdout.String()
	res.Stderr = stderr.String()

	s.log.Debug("Execute finished",
		"msg_id", msgID,
		"status", res.Status,
		"execution_count", res.ExecutionCount,
	)

	return res, nil
}

// consumeEvents drains the broadcast channel until the matching idle signal
// or the deadline. Events carrying a different correlation id are discarded
// without touching the accumulators.
func (s *Session) consumeEvents(
	ctx context.Context,
	msgID string,
	deadline time.Time,
	res *ExecuteResult,
	stdout, stderr *strings.Builder,
) error {
	for {
		raw, ok, err := s.recvIOPub(ctx, time.Until(deadline))
		if err != nil {
			return err
		}

		if !ok {
			res.Status = StatusTimeout

			return nil
		}

		ev := wire.ParseEvent(raw)
		if ev.ParentID != msgID {
			continue
		}

		switch ev.Type {
		case wire.MsgTypeStream:
			// Routing is by the explicit stream name; anything that is not
			// the stderr stream defaults to stdout.
			if ev.StreamName == wire.StreamStderr {
				stderr.WriteString(ev.Text)
			} else {
				stdout.WriteString(ev.Text)
			}

		case wire.MsgTypeError:
			stderr.WriteString(ev.ErrorText())

		case wire.MsgTypeExecuteInput:
			if ev.HasExecutionCount {
				res.ExecutionCount = ev.ExecutionCount
			}

		case wire.MsgTypeStatus:
			if ev.ExecutionState == wire.ExecutionStateIdle {
				return nil
			}
		}
	}
}

// consumeAck waits on the reply channel for the acknowledgement matching the
// command, against the remaining deadline. The acknowledgement is only
// consumed after the broadcast side reached its terminal condition.
func (s *Session) consumeAck(
	ctx context.Context,
	msgID string,
	deadline time.Time,
	res *ExecuteResult,
	stderr *strings.Builder,
) error {
	for {
		raw, ok, err := s.recvShell(ctx, time.Until(deadline))
		if err != nil {
			return err
		}

		if !ok {
			res.Status = StatusTimeout

			return nil
		}

		reply := wire.ParseReply(raw)
		if reply.ParentID != msgID {
			continue
		}

		res.Status = reply.Status
		if reply.HasExecutionCount {
			res.ExecutionCount = reply.ExecutionCount
		}

		if reply.Status == StatusError {
			stderr.WriteString(reply.ErrorText())
		}

		return nil
	}
}

// interrupt sends the advisory interrupt command after a deadline expiry.
// Interruption is best-effort: a send failure is logged and swallowed, and
// the timeout result is returned either way.
func (s *Session) interrupt(ctx context.Context) {
	data, err := wire.NewInterruptRequest(s.id).Marshal()
	if err != nil {
		s.log.Warn("Failed to marshal interrupt request", "error", err)

		return
	}

	if err := s.sendControl(ctx, data); err != nil {
		s.log.Warn("Failed to send interrupt after timeout", "error", err)

		return
	}

	s.log.Debug("Interrupt sent after execution timeout", "session_id", s.id)
}

// Shutdown requests a graceful kernel shutdown. Fire-and-forget: readiness
// and command delivery are both best-effort, and no acknowledgement is
// awaited.
func Shutdown(ctx context.Context, descriptor string, opts *config.Options) (*ShutdownResult, error) {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultShutdownTimeout
	}

	s, err := Open(ctx, descriptor, opts)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	if err := s.WaitReady(ctx, min(shutdownReadyBound, timeout)); err != nil {
		// A kernel that never became ready may still honor the shutdown
		// command, and an already-dead kernel needs none.
		s.log.Debug("Kernel not ready before shutdown, proceeding", "error", err)
	}

	data, err := wire.NewShutdownRequest(s.id).Marshal()
	if err != nil {
		return nil, fmt.Errorf("marshal shutdown request: %w", err)
	}

	if err := s.sendControl(ctx, data); err != nil {
		s.log.Warn("Failed to send shutdown command", "error", err)
	}

	return &ShutdownResult{OK: true}, nil
}
