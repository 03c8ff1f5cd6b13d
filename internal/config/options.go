// Package config provides configuration types shared by the public API and
// the internal session driver.
package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/agentland/agentland-go/internal/connfile"
)

// Transport is the channel layer one kernel session drives: a broadcast
// (iopub) receive channel carrying execution events and a reply (shell)
// channel carrying command acknowledgements, plus a control send path for
// advisory commands (interrupt, shutdown).
//
// The SDK does not ship a concrete kernel transport; callers inject one via
// WithTransport or WithTransportFactory. Tests use scripted in-memory
// transports.
//
// Delivery must be reliable and ordered per channel, and every message
// produced by a command must echo that command's correlation id in its
// parent header.
type Transport interface {
	// Start opens both channels against the descriptor. Called once,
	// before any send or receive.
	Start(ctx context.Context) error

	// Ready returns a channel that is closed once both channels are live
	// and the kernel has announced readiness.
	Ready() <-chan struct{}

	// IOPubMessages returns the broadcast-channel stream. The message
	// channel yields decoded envelopes; the error channel yields transport
	// failures. Both are closed when reading stops.
	IOPubMessages(ctx context.Context) (<-chan map[string]any, <-chan error)

	// ShellMessages returns the reply-channel stream, with the same
	// contract as IOPubMessages.
	ShellMessages(ctx context.Context) (<-chan map[string]any, <-chan error)

	// SendShell sends a command envelope on the reply channel.
	SendShell(ctx context.Context, data []byte) error

	// SendControl sends a command envelope on the control channel.
	SendControl(ctx context.Context, data []byte) error

	// Close tears down both channels. Safe to call multiple times.
	Close() error
}

// TransportFactory opens a transport for a loaded connection descriptor.
// The factory owns nothing after returning: the session starts and closes
// the transport it is handed.
type TransportFactory func(ctx context.Context, info *connfile.Info, log *slog.Logger) (Transport, error)

// Options configures one kernel operation or one gateway client.
type Options struct {
	// Logger receives debug and warning output. Nil disables logging.
	Logger *slog.Logger

	// Timeout bounds the whole operation. Zero selects the operation's
	// default (5s for probe and shutdown, 30s for execute).
	Timeout time.Duration

	// Transport is a pre-built transport handle. Takes precedence over
	// TransportFactory. The session still calls Start and Close on it.
	Transport Transport

	// TransportFactory builds a transport from the connection descriptor.
	TransportFactory TransportFactory

	// Session is the wire session identity stamped on command headers.
	// Generated when empty.
	Session string
}
