package agentland

import (
	"log/slog"
	"time"

	"github.com/agentland/agentland-go/internal/config"
)

// Option configures a kernel operation using the functional options pattern.
type Option func(*config.Options)

// applyOptions applies functional options onto a fresh Options struct.
func applyOptions(opts []Option) *config.Options {
	options := &config.Options{}
	for _, opt := range opts {
		opt(options)
	}

	return options
}

// WithLogger sets the logger for debug output.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *config.Options) {
		o.Logger = logger
	}
}

// WithTimeout bounds the whole operation. Zero keeps the per-operation
// default: 5s for Probe and Shutdown, 30s for Execute.
func WithTimeout(timeout time.Duration) Option {
	return func(o *config.Options) {
		o.Timeout = timeout
	}
}

// WithTransport injects a pre-built transport handle for the session.
// The session still starts and closes the transport; the handle must not be
// shared across operations. Takes precedence over WithTransportFactory.
func WithTransport(transport Transport) Option {
	return func(o *config.Options) {
		o.Transport = transport
	}
}

// WithTransportFactory sets the factory that opens a transport against the
// loaded connection descriptor. This is how a concrete channel layer is
// plugged into the SDK.
func WithTransportFactory(factory TransportFactory) Option {
	return func(o *config.Options) {
		o.TransportFactory = factory
	}
}

// WithSession fixes the wire session identity stamped on command headers.
// Mainly useful in tests; a fresh identity is generated when unset.
func WithSession(id string) Option {
	return func(o *config.Options) {
		o.Session = id
	}
}
