package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/agentland/agentland-go"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the code-runner tools over MCP stdio",
	Long: "Start an MCP server on stdin/stdout exposing the code-runner tools: " +
		"sandbox_create, code_execute, fs_tree, fs_file_get, fs_file_write.",
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := newLogger()

	gateway, err := newGateway(log)
	if err != nil {
		return err
	}

	server := agentland.NewToolServer(gateway, log)

	log.Info("MCP server listening on stdio", "gateway", gateway.BaseURL())

	return server.Run(ctx, &mcp.StdioTransport{})
}
