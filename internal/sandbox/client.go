// Package sandbox implements the HTTP client for the agentland code-runner
// gateway: sandbox sessions, execution contexts, and the sandbox filesystem.
//
// The gateway wraps JSON responses in a {code, msg, data} envelope; this
// client unwraps it and surfaces gateway failures as APIError. The kernel
// session client and this package are separate subsystems and are never
// composed with each other.
package sandbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/agentland/agentland-go/internal/errors"
)

// SessionHeader carries the sandbox id on every sandbox-scoped request.
const SessionHeader = "x-agentland-session"

// DefaultTimeout is the per-request HTTP timeout when none is configured.
const DefaultTimeout = 30 * time.Second

// Client is a thin HTTP client for one gateway base URL.
// It is safe for concurrent use.
type Client struct {
	log        *slog.Logger
	baseURL    string
	httpClient *http.Client
}

// New creates a gateway client. The base URL is normalized by stripping any
// trailing slash; an empty URL is rejected.
func New(baseURL string, timeout time.Duration, log *slog.Logger) (*Client, error) {
	normalized := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if normalized == "" {
		return nil, &errors.APIError{Msg: "base_url is required"}
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		log:        log.With("component", "gateway"),
		baseURL:    normalized,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// BaseURL returns the normalized gateway base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// response is a raw gateway response before envelope unwrapping.
type response struct {
	status int
	header http.Header
	body   []byte
}

func (c *Client) buildURL(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	return u
}

// do performs one HTTP request and reads the full body. Non-2xx statuses are
// mapped to APIError, extracting the gateway's msg/error fields when the
// body carries them.
func (c *Client) do(
	ctx context.Context,
	method, path string,
	sessionID string,
	query url.Values,
	contentType string,
	body io.Reader,
) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path, query), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if sessionID != "" {
		req.Header.Set(SessionHeader, sessionID)
	}

	c.log.Debug("Gateway request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &errors.APIError{Msg: fmt.Sprintf("http request failed: %v", err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errors.APIError{Msg: fmt.Sprintf("read response body: %v", err), HTTPStatus: resp.StatusCode}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errorFromBody(resp.StatusCode, data)
	}

	return &response{status: resp.StatusCode, header: resp.Header, body: data}, nil
}

// errorFromBody builds an APIError from a non-2xx body, preferring the
// gateway's own msg/error fields over a generic message.
func errorFromBody(status int, body []byte) *errors.APIError {
	apiErr := &errors.APIError{
		Msg:        fmt.Sprintf("http request failed: %d", status),
		HTTPStatus: status,
		Body:       string(body),
	}

	parsed := gjson.ParseBytes(body)
	if !parsed.IsObject() {
		return apiErr
	}

	if msg := parsed.Get("msg"); msg.Type == gjson.String && msg.Str != "" {
		apiErr.Msg = msg.Str
	} else if errField := parsed.Get("error"); errField.Type == gjson.String && errField.Str != "" {
		apiErr.Msg = errField.Str
	}

	if code := parsed.Get("code"); code.Type == gjson.Number {
		apiErr.Code = int(code.Int())
	}

	return apiErr
}

// requestJSON performs a JSON request and unwraps the gateway envelope into
// out (a pointer to struct or map). A nil out discards the payload.
func (c *Client) requestJSON(
	ctx context.Context,
	method, path string,
	sessionID string,
	query url.Values,
	jsonBody any,
	out any,
) error {
	var (
		body        io.Reader
		contentType string
	)

	if jsonBody != nil {
		data, err := json.Marshal(jsonBody)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}

		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	resp, err := c.do(ctx, method, path, sessionID, query, contentType, body)
	if err != nil {
		return err
	}

	return unwrapEnvelope(resp, out)
}

// unwrapEnvelope decodes the gateway's {code, msg, data} envelope. Payloads
// without the envelope fields are treated as bare data objects.
func unwrapEnvelope(resp *response, out any) error {
	trimmed := bytes.TrimSpace(resp.body)
	if len(trimmed) == 0 {
		if out == nil {
			return nil
		}

		return &errors.APIError{Msg: "response data is empty or invalid", HTTPStatus: resp.status}
	}

	parsed := gjson.ParseBytes(trimmed)
	if !parsed.IsObject() {
		return &errors.APIError{
			Msg:        "response JSON must be an object",
			HTTPStatus: resp.status,
			Body:       string(trimmed),
		}
	}

	payload := trimmed

	code := parsed.Get("code")
	if code.Exists() && parsed.Get("msg").Exists() {
		if code.Int() != 200 {
			return &errors.APIError{
				Msg:        parsed.Get("msg").String(),
				Code:       int(code.Int()),
				HTTPStatus: resp.status,
				Body:       string(trimmed),
			}
		}

		data := parsed.Get("data")
		if !data.IsObject() {
			return &errors.APIError{Msg: "response data is empty or invalid", HTTPStatus: resp.status}
		}

		payload = []byte(data.Raw)
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return &errors.APIError{
			Msg:        fmt.Sprintf("response is not valid JSON: %v", err),
			HTTPStatus: resp.status,
			Body:       string(trimmed),
		}
	}

	return nil
}
