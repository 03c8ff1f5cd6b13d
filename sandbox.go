package agentland

import (
	"log/slog"
	"time"

	"github.com/agentland/agentland-go/internal/sandbox"
)

// Gateway is a client for the agentland code-runner HTTP API.
type Gateway = sandbox.Client

// Sandbox is one code-runner sandbox session.
type Sandbox = sandbox.Sandbox

// SandboxContext is one execution context inside a sandbox.
type SandboxContext = sandbox.Context

// SandboxFS exposes the sandbox filesystem operations.
type SandboxFS = sandbox.FS

// ExecResult is the gateway's response to one context execution.
type ExecResult = sandbox.ExecResult

// FileTree is a sandbox file tree listing.
type FileTree = sandbox.FileTree

// FileNode is one entry in a FileTree.
type FileNode = sandbox.FileNode

// FileContent is the payload of one sandbox file read.
type FileContent = sandbox.FileContent

// WriteReceipt acknowledges one sandbox file write.
type WriteReceipt = sandbox.WriteReceipt

// UploadReceipt acknowledges one sandbox file upload.
type UploadReceipt = sandbox.UploadReceipt

// DownloadInfo describes a completed sandbox file download.
type DownloadInfo = sandbox.DownloadInfo

// GatewayOption configures a Gateway during construction.
type GatewayOption func(*gatewayConfig)

type gatewayConfig struct {
	timeout time.Duration
	logger  *slog.Logger
}

// WithGatewayTimeout sets the per-request HTTP timeout (default 30s).
func WithGatewayTimeout(timeout time.Duration) GatewayOption {
	return func(c *gatewayConfig) {
		c.timeout = timeout
	}
}

// WithGatewayLogger sets the logger for gateway request tracking.
func WithGatewayLogger(logger *slog.Logger) GatewayOption {
	return func(c *gatewayConfig) {
		c.logger = logger
	}
}

// NewGateway creates a client for the gateway at baseURL.
func NewGateway(baseURL string, opts ...GatewayOption) (*Gateway, error) {
	cfg := &gatewayConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	return sandbox.New(baseURL, cfg.timeout, cfg.logger)
}
