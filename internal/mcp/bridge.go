package mcp

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/agentland/agentland-go/internal/errors"
	"github.com/agentland/agentland-go/internal/sandbox"
)

// defaultTreeDepth is applied when a tool call omits depth.
const defaultTreeDepth = 5

// cleanupTimeout bounds the asynchronous context delete after code_execute.
const cleanupTimeout = 10 * time.Second

// Bridge adapts the sandbox gateway client to MCP tool handlers. Each tool
// call is stateless apart from the sandbox id carried in its arguments.
type Bridge struct {
	log     *slog.Logger
	gateway *sandbox.Client
}

// NewBridge creates a Bridge over the given gateway client.
func NewBridge(gateway *sandbox.Client, log *slog.Logger) *Bridge {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Bridge{
		log:     log.With("component", "mcp-bridge"),
		gateway: gateway,
	}
}

// SandboxCreate handles the sandbox_create tool.
func (b *Bridge) SandboxCreate(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := ParseArguments(req)
	if err != nil {
		return ErrorResult(err.Error()), nil
	}

	sb, err := b.gateway.CreateSandbox(ctx, stringArg(args, "language"))
	if err != nil {
		return ErrorResult(err.Error()), nil
	}

	return JSONResult(map[string]string{"sandbox_id": sb.ID})
}

// CodeExecute handles the code_execute tool: it runs code once in a
// temporary context, then deletes the context asynchronously.
func (b *Bridge) CodeExecute(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := ParseArguments(req)
	if err != nil {
		return ErrorResult(err.Error()), nil
	}

	sb, err := b.bindSandbox(args)
	if err != nil {
		return ErrorResult(err.Error()), nil
	}

	code := stringArg(args, "code")
	if code == "" {
		return ErrorResult(errors.ErrCodeRequired.Error()), nil
	}

	cx, err := sb.CreateContext(ctx, stringArg(args, "language"), stringArg(args, "cwd"))
	if err != nil {
		return ErrorResult(err.Error()), nil
	}
	defer b.deleteContextAsync(cx)

	result, err := cx.Exec(ctx, code, intArg(args, "timeout_ms"))
	if err != nil {
		return ErrorResult(err.Error()), nil
	}

	return JSONResult(result)
}

// FSTree handles the fs_tree tool.
func (b *Bridge) FSTree(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := ParseArguments(req)
	if err != nil {
		return ErrorResult(err.Error()), nil
	}

	sb, err := b.bindSandbox(args)
	if err != nil {
		return ErrorResult(err.Error()), nil
	}

	depth := intArg(args, "depth")
	if depth == 0 {
		depth = defaultTreeDepth
	}

	tree, err := sb.FS().Tree(ctx, stringArg(args, "path"), depth, boolArg(args, "includeHidden"))
	if err != nil {
		return ErrorResult(err.Error()), nil
	}

	return JSONResult(tree)
}

// FSFileGet handles the fs_file_get tool.
func (b *Bridge) FSFileGet(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := ParseArguments(req)
	if err != nil {
		return ErrorResult(err.Error()), nil
	}

	sb, err := b.bindSandbox(args)
	if err != nil {
		return ErrorResult(err.Error()), nil
	}

	content, err := sb.FS().ReadFile(ctx, stringArg(args, "path"), stringArg(args, "encoding"))
	if err != nil {
		return ErrorResult(err.Error()), nil
	}

	return JSONResult(content)
}

// FSFileWrite handles the fs_file_write tool.
func (b *Bridge) FSFileWrite(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := ParseArguments(req)
	if err != nil {
		return ErrorResult(err.Error()), nil
	}

	sb, err := b.bindSandbox(args)
	if err != nil {
		return ErrorResult(err.Error()), nil
	}

	receipt, err := sb.FS().WriteFile(ctx,
		stringArg(args, "path"), stringArg(args, "content"), stringArg(args, "encoding"))
	if err != nil {
		return ErrorResult(err.Error()), nil
	}

	return JSONResult(receipt)
}

func (b *Bridge) bindSandbox(args map[string]any) (*sandbox.Sandbox, error) {
	return b.gateway.Sandbox(stringArg(args, "sandbox_id"))
}

// deleteContextAsync tears the temporary context down without blocking the
// tool response. Failures are logged and swallowed.
func (b *Bridge) deleteContextAsync(cx *sandbox.Context) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
		defer cancel()

		if err := cx.Delete(ctx); err != nil {
			b.log.Warn("Temporary context cleanup failed", "context_id", cx.ID, "error", err)
		}
	}()
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)

	return s
}

func intArg(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	default:
		return 0
	}
}

func boolArg(args map[string]any, key string) bool {
	v, _ := args[key].(bool)

	return v
}
