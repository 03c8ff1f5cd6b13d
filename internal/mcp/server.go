package mcp

import (
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer assembles the code-runner tool set on an MCP server. The caller
// picks the transport; see mcp.Server.Run.
func NewServer(bridge *Bridge, name, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    name,
		Version: version,
	}, nil)

	sandboxID := stringSchema("Sandbox session id from the sandbox_create tool")

	server.AddTool(NewTool(
		"sandbox_create",
		"Create a code runner sandbox session",
		objectSchema(map[string]*jsonschema.Schema{
			"language": stringSchema("Sandbox language, supported values: python, shell. Defaults to python"),
		}),
	), bridge.SandboxCreate)

	server.AddTool(NewTool(
		"code_execute",
		"Execute code once in a temporary context that is deleted asynchronously after execution",
		objectSchema(map[string]*jsonschema.Schema{
			"sandbox_id": sandboxID,
			"language":   stringSchema("Context language, supported values: python, shell. Defaults to python"),
			"cwd":        stringSchema("Working directory for the temporary context"),
			"code":       stringSchema("Code to execute in the temporary context"),
			"timeout_ms": integerSchema("Execution timeout in milliseconds, valid range is 100-300000"),
		}, "sandbox_id", "code"),
	), bridge.CodeExecute)

	server.AddTool(NewTool(
		"fs_tree",
		"List files and directories under a path",
		objectSchema(map[string]*jsonschema.Schema{
			"sandbox_id":    sandboxID,
			"path":          stringSchema("Directory path to traverse, relative or absolute"),
			"depth":         integerSchema("Traversal depth, valid range is 1-20"),
			"includeHidden": booleanSchema("Whether to include hidden files and directories"),
		}, "sandbox_id"),
	), bridge.FSTree)

	server.AddTool(NewTool(
		"fs_file_get",
		"Read file content with utf8 or base64 encoding",
		objectSchema(map[string]*jsonschema.Schema{
			"sandbox_id": sandboxID,
			"path":       stringSchema("File path to read, relative or absolute"),
			"encoding":   stringSchema("Content encoding, supported values: utf8, utf-8, base64"),
		}, "sandbox_id", "path"),
	), bridge.FSFileGet)

	server.AddTool(NewTool(
		"fs_file_write",
		"Write file content with utf8 or base64 encoding",
		objectSchema(map[string]*jsonschema.Schema{
			"sandbox_id": sandboxID,
			"path":       stringSchema("Destination file path, relative or absolute"),
			"content":    stringSchema("File content to write"),
			"encoding":   stringSchema("Input content encoding, supported values: utf8, utf-8, base64"),
		}, "sandbox_id", "path", "content"),
	), bridge.FSFileWrite)

	return server
}
