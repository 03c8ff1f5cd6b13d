package mcp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mcpgo "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/agentland/agentland-go/internal/sandbox"
)

func newTestBridge(t *testing.T, handler http.Handler) *Bridge {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := sandbox.New(server.URL, 0, nil)
	require.NoError(t, err)

	return NewBridge(client, nil)
}

func toolRequest(t *testing.T, args map[string]any) *mcpgo.CallToolRequest {
	t.Helper()

	raw, err := json.Marshal(args)
	require.NoError(t, err)

	return &mcpgo.CallToolRequest{
		Params: &mcpgo.CallToolParamsRaw{Arguments: raw},
	}
}

func resultText(t *testing.T, res *mcpgo.CallToolResult) string {
	t.Helper()

	require.Len(t, res.Content, 1)

	text, ok := res.Content[0].(*mcpgo.TextContent)
	require.True(t, ok)

	return text.Text
}

func writeEnvelope(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"code": 200,
		"msg":  "success",
		"data": data,
	})
}

func TestSandboxCreateTool(t *testing.T) {
	bridge := newTestBridge(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/code-runner/sandboxes", r.URL.Path)
		writeEnvelope(w, map[string]any{"sandbox_id": "sbx-1"})
	}))

	res, err := bridge.SandboxCreate(t.Context(), toolRequest(t, map[string]any{"language": "python"}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.JSONEq(t, `{"sandbox_id": "sbx-1"}`, resultText(t, res))
}

func TestSandboxCreateToolRejectsLanguage(t *testing.T) {
	bridge := newTestBridge(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("gateway must not be called")
	}))

	res, err := bridge.SandboxCreate(t.Context(), toolRequest(t, map[string]any{"language": "cobol"}))
	require.NoError(t, err)
	require.True(t, res.IsError)
}

func TestCodeExecuteTool(t *testing.T) {
	deleted := make(chan string, 1)

	bridge := newTestBridge(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/code-runner/contexts":
			require.Equal(t, "sbx-1", r.Header.Get(sandbox.SessionHeader))
			writeEnvelope(w, map[string]any{"context_id": "ctx-1"})

		case r.Method == http.MethodPost && r.URL.Path == "/api/code-runner/contexts/ctx-1/execute":
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "print(5)", body["code"])
			writeEnvelope(w, map[string]any{
				"context_id":      "ctx-1",
				"execution_count": 1,
				"exit_code":       0,
				"stdout":          "5\n",
				"stderr":          "",
				"duration_ms":     10,
			})

		case r.Method == http.MethodDelete && r.URL.Path == "/api/code-runner/contexts/ctx-1":
			deleted <- r.URL.Path

		default:
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))

	res, err := bridge.CodeExecute(t.Context(), toolRequest(t, map[string]any{
		"sandbox_id": "sbx-1",
		"code":       "print(5)",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var out sandbox.ExecResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	require.Equal(t, "ctx-1", out.ContextID)
	require.Equal(t, "5\n", out.Stdout)
	require.Equal(t, int32(0), out.ExitCode)

	// The temporary context is deleted asynchronously after the response.
	select {
	case <-deleted:
	case <-time.After(2 * time.Second):
		t.Fatal("temporary context was never deleted")
	}
}

func TestCodeExecuteToolValidation(t *testing.T) {
	bridge := newTestBridge(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("gateway must not be called")
	}))

	res, err := bridge.CodeExecute(t.Context(), toolRequest(t, map[string]any{"code": "print(5)"}))
	require.NoError(t, err)
	require.True(t, res.IsError)

	res, err = bridge.CodeExecute(t.Context(), toolRequest(t, map[string]any{"sandbox_id": "sbx-1"}))
	require.NoError(t, err)
	require.True(t, res.IsError)
}

func TestFSTreeToolDefaultDepth(t *testing.T) {
	var gotDepth string

	bridge := newTestBridge(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotDepth = r.URL.Query().Get("depth")
		writeEnvelope(w, map[string]any{"root": "/workspace", "nodes": []any{}})
	}))

	res, err := bridge.FSTree(t.Context(), toolRequest(t, map[string]any{"sandbox_id": "sbx-1"}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Equal(t, "5", gotDepth)
}

func TestFSFileGetTool(t *testing.T) {
	bridge := newTestBridge(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "main.py", r.URL.Query().Get("path"))
		writeEnvelope(w, map[string]any{
			"path":     "/workspace/main.py",
			"size":     9,
			"encoding": "utf8",
			"content":  "print(5)\n",
		})
	}))

	res, err := bridge.FSFileGet(t.Context(), toolRequest(t, map[string]any{
		"sandbox_id": "sbx-1",
		"path":       "main.py",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var out sandbox.FileContent
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	require.Equal(t, "print(5)\n", out.Content)
}

func TestFSFileWriteTool(t *testing.T) {
	var gotBody map[string]any

	bridge := newTestBridge(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		writeEnvelope(w, map[string]any{"path": "/workspace/out.txt", "size": 5, "encoding": "utf8"})
	}))

	res, err := bridge.FSFileWrite(t.Context(), toolRequest(t, map[string]any{
		"sandbox_id": "sbx-1",
		"path":       "out.txt",
		"content":    "hello",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Equal(t, "hello", gotBody["content"])
}

func TestToolErrorsAreResultsNotErrors(t *testing.T) {
	bridge := newTestBridge(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"msg": "sandbox not found", "code": 40401}`))
	}))

	res, err := bridge.FSTree(t.Context(), toolRequest(t, map[string]any{
		"sandbox_id": "sbx-missing",
		"depth":      3,
	}))
	require.NoError(t, err)
	require.True(t, res.IsError)
	require.Contains(t, resultText(t, res), "sandbox not found")
}

func TestNewServerRegistersTools(t *testing.T) {
	bridge := newTestBridge(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	server := NewServer(bridge, "agentland-code-runner", "v0.1.0")
	require.NotNil(t, server)
}

func TestParseArguments(t *testing.T) {
	args, err := ParseArguments(nil)
	require.NoError(t, err)
	require.Empty(t, args)

	args, err = ParseArguments(&mcpgo.CallToolRequest{Params: &mcpgo.CallToolParamsRaw{}})
	require.NoError(t, err)
	require.Empty(t, args)

	_, err = ParseArguments(&mcpgo.CallToolRequest{
		Params: &mcpgo.CallToolParamsRaw{Arguments: json.RawMessage(`not json`)},
	})
	require.Error(t, err)
}
