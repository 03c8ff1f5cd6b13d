package agentland

import (
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	internalmcp "github.com/agentland/agentland-go/internal/mcp"
)

// Tool server identity reported during MCP initialization.
const (
	ToolServerName    = "agentland-code-runner"
	ToolServerVersion = "v0.1.0"
)

// NewToolServer assembles the code-runner MCP tool server over a gateway
// client: sandbox_create, code_execute, fs_tree, fs_file_get, fs_file_write.
// Run it over a transport of your choice, e.g.:
//
//	server := agentland.NewToolServer(gateway, logger)
//	err := server.Run(ctx, &mcp.StdioTransport{})
func NewToolServer(gateway *Gateway, logger *slog.Logger) *mcpsdk.Server {
	bridge := internalmcp.NewBridge(gateway, logger)

	return internalmcp.NewServer(bridge, ToolServerName, ToolServerVersion)
}
