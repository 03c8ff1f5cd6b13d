package sandbox

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/agentland/agentland-go/internal/errors"
)

// Timeout bounds accepted by the gateway for one execution, in milliseconds.
const (
	MinExecTimeoutMS = 100
	MaxExecTimeoutMS = 300000

	// DefaultExecTimeoutMS is applied when the caller passes zero.
	DefaultExecTimeoutMS = 30000
)

// Supported context languages.
const (
	LanguagePython = "python"
	LanguageShell  = "shell"
)

// ExecResult is the gateway's response to one context execution.
type ExecResult struct {
	ContextID      string `json:"context_id"`
	ExecutionCount int64  `json:"execution_count"`
	ExitCode       int32  `json:"exit_code"`
	Stdout         string `json:"stdout"`
	Stderr         string `json:"stderr"`
	DurationMS     int64  `json:"duration_ms"`
}

// Sandbox is one code-runner sandbox session.
type Sandbox struct {
	client *Client

	// ID is the sandbox session id carried on every request.
	ID string
}

// CreateSandbox creates a sandbox for the given language (default python).
func (c *Client) CreateSandbox(ctx context.Context, language string) (*Sandbox, error) {
	lang, err := NormalizeLanguage(language)
	if err != nil {
		return nil, err
	}

	var out struct {
		SandboxID string `json:"sandbox_id"`
	}

	err = c.requestJSON(ctx, "POST", "/api/code-runner/sandboxes", "", nil,
		map[string]any{"language": lang}, &out)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(out.SandboxID) == "" {
		return nil, &errors.APIError{Msg: "gateway returned empty sandbox_id"}
	}

	c.log.Info("Sandbox created", "sandbox_id", out.SandboxID, "language", lang)

	return &Sandbox{client: c, ID: out.SandboxID}, nil
}

// Sandbox binds to an existing sandbox id. No server-side lookup is
// performed; a stale id surfaces as an APIError on first use.
func (c *Client) Sandbox(id string) (*Sandbox, error) {
	cleaned := strings.TrimSpace(id)
	if cleaned == "" {
		return nil, errors.ErrSandboxIDRequired
	}

	return &Sandbox{client: c, ID: cleaned}, nil
}

// Context is one execution context inside a sandbox. State (variables,
// working directory) persists across Exec calls on the same context.
type Context struct {
	sandbox *Sandbox

	ID string
}

// CreateContext creates an execution context. cwd defaults to /workspace on
// the gateway side when empty.
func (s *Sandbox) CreateContext(ctx context.Context, language, cwd string) (*Context, error) {
	lang, err := NormalizeLanguage(language)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{"language": lang}
	if strings.TrimSpace(cwd) != "" {
		payload["cwd"] = strings.TrimSpace(cwd)
	}

	var out struct {
		ContextID string `json:"context_id"`
	}

	err = s.client.requestJSON(ctx, "POST", "/api/code-runner/contexts", s.ID, nil, payload, &out)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(out.ContextID) == "" {
		return nil, &errors.APIError{Msg: "gateway returned empty context_id"}
	}

	return &Context{sandbox: s, ID: out.ContextID}, nil
}

// Exec runs code in the context. timeoutMS zero selects the gateway default
// of 30000; other values must lie in [100, 300000].
func (cx *Context) Exec(ctx context.Context, code string, timeoutMS int) (*ExecResult, error) {
	if strings.TrimSpace(code) == "" {
		return nil, errors.ErrCodeRequired
	}

	if timeoutMS == 0 {
		timeoutMS = DefaultExecTimeoutMS
	}

	if timeoutMS < MinExecTimeoutMS || timeoutMS > MaxExecTimeoutMS {
		return nil, errors.ErrInvalidTimeout
	}

	out := &ExecResult{}

	err := cx.sandbox.client.requestJSON(ctx, "POST",
		fmt.Sprintf("/api/code-runner/contexts/%s/execute", cx.ID),
		cx.sandbox.ID, nil,
		map[string]any{"code": code, "timeout_ms": timeoutMS}, out)
	if err != nil {
		return nil, err
	}

	if out.ContextID == "" {
		out.ContextID = cx.ID
	}

	return out, nil
}

// Delete tears the context down.
func (cx *Context) Delete(ctx context.Context) error {
	return cx.sandbox.client.requestJSON(ctx, "DELETE",
		fmt.Sprintf("/api/code-runner/contexts/%s", cx.ID),
		cx.sandbox.ID, nil, nil, nil)
}

// FS exposes the sandbox filesystem operations.
type FS struct {
	sandbox *Sandbox
}

// FS returns the filesystem service for the sandbox.
func (s *Sandbox) FS() *FS {
	return &FS{sandbox: s}
}

// FileNode is one entry in a file tree listing.
type FileNode struct {
	Path    string `json:"path"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Size    int64  `json:"size,omitempty"`
	ModTime string `json:"modTime,omitempty"`
}

// FileTree is the listing under one root path.
type FileTree struct {
	Root  string     `json:"root"`
	Nodes []FileNode `json:"nodes"`
}

// FileContent is the payload of one file read.
type FileContent struct {
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
}

// WriteReceipt acknowledges one file write.
type WriteReceipt struct {
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	Encoding string `json:"encoding"`
}

// Tree lists files and directories under path. depth must lie in [1, 20].
func (f *FS) Tree(ctx context.Context, path string, depth int, includeHidden bool) (*FileTree, error) {
	if depth < 1 || depth > 20 {
		return nil, &errors.APIError{Msg: "depth must be between 1 and 20"}
	}

	if strings.TrimSpace(path) == "" {
		path = "."
	}

	query := url.Values{}
	query.Set("path", path)
	query.Set("depth", strconv.Itoa(depth))
	query.Set("includeHidden", strconv.FormatBool(includeHidden))

	out := &FileTree{}
	if err := f.sandbox.client.requestJSON(ctx, "GET", "/api/code-runner/fs/tree",
		f.sandbox.ID, query, nil, out); err != nil {
		return nil, err
	}

	return out, nil
}

// ReadFile reads file content with utf8 or base64 encoding (default utf8).
func (f *FS) ReadFile(ctx context.Context, path, encoding string) (*FileContent, error) {
	cleaned := strings.TrimSpace(path)
	if cleaned == "" {
		return nil, &errors.APIError{Msg: "path is required"}
	}

	if encoding == "" {
		encoding = "utf8"
	}

	query := url.Values{}
	query.Set("path", cleaned)
	query.Set("encoding", encoding)

	out := &FileContent{}
	if err := f.sandbox.client.requestJSON(ctx, "GET", "/api/code-runner/fs/file",
		f.sandbox.ID, query, nil, out); err != nil {
		return nil, err
	}

	return out, nil
}

// WriteFile writes file content with utf8 or base64 encoding (default utf8).
func (f *FS) WriteFile(ctx context.Context, path, content, encoding string) (*WriteReceipt, error) {
	cleaned := strings.TrimSpace(path)
	if cleaned == "" {
		return nil, &errors.APIError{Msg: "path is required"}
	}

	if encoding == "" {
		encoding = "utf8"
	}

	out := &WriteReceipt{}

	err := f.sandbox.client.requestJSON(ctx, "POST", "/api/code-runner/fs/file",
		f.sandbox.ID, nil,
		map[string]any{"path": cleaned, "content": content, "encoding": encoding}, out)
	if err != nil {
		return nil, err
	}

	return out, nil
}

// NormalizeLanguage lowercases and validates a context language, defaulting
// to python when empty.
func NormalizeLanguage(language string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(language))
	if normalized == "" {
		return LanguagePython, nil
	}

	if normalized != LanguagePython && normalized != LanguageShell {
		return "", errors.ErrUnsupportedLanguage
	}

	return normalized, nil
}
