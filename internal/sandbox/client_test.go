package sandbox

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agentland/agentland-go/internal/errors"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(server.URL, 0, nil)
	require.NoError(t, err)

	return client
}

func writeEnvelope(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"code": 200,
		"msg":  "success",
		"data": data,
	})
}

func TestNewNormalizesBaseURL(t *testing.T) {
	client, err := New("http://gateway.local/", 0, nil)
	require.NoError(t, err)
	require.Equal(t, "http://gateway.local", client.BaseURL())

	_, err = New("   ", 0, nil)

	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
}

func TestRequestJSONUnwrapsEnvelope(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, map[string]any{"value": "inside"})
	}))

	var out struct {
		Value string `json:"value"`
	}

	err := client.requestJSON(t.Context(), "GET", "/api/test", "", nil, nil, &out)
	require.NoError(t, err)
	require.Equal(t, "inside", out.Value)
}

func TestRequestJSONBarePayload(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"value": "bare"}`)
	}))

	var out struct {
		Value string `json:"value"`
	}

	err := client.requestJSON(t.Context(), "GET", "/api/test", "", nil, nil, &out)
	require.NoError(t, err)
	require.Equal(t, "bare", out.Value)
}

func TestRequestJSONEnvelopeFailureCode(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"code": 40001, "msg": "sandbox not found", "data": null}`)
	}))

	err := client.requestJSON(t.Context(), "GET", "/api/test", "", nil, nil, nil)

	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 40001, apiErr.Code)
	require.Equal(t, "sandbox not found", apiErr.Msg)
}

func TestRequestJSONHTTPErrorWithGatewayMessage(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"msg": "timeout_ms out of range", "code": 40002}`)
	}))

	err := client.requestJSON(t.Context(), "POST", "/api/test", "", nil, map[string]any{}, nil)

	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.HTTPStatus)
	require.Equal(t, "timeout_ms out of range", apiErr.Msg)
	require.Equal(t, 40002, apiErr.Code)
}

func TestRequestJSONHTTPErrorWithoutBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	err := client.requestJSON(t.Context(), "GET", "/api/test", "", nil, nil, nil)

	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadGateway, apiErr.HTTPStatus)
	require.Contains(t, apiErr.Msg, "502")
}

func TestRequestJSONEmptyBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	// Callers discarding the payload tolerate an empty body.
	require.NoError(t, client.requestJSON(t.Context(), "DELETE", "/api/test", "", nil, nil, nil))

	var out map[string]any

	err := client.requestJSON(t.Context(), "GET", "/api/test", "", nil, nil, &out)

	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
}

func TestRequestJSONSessionHeader(t *testing.T) {
	var header string

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get(SessionHeader)
		writeEnvelope(w, map[string]any{})
	}))

	require.NoError(t, client.requestJSON(t.Context(), "GET", "/api/test", "sbx-42", nil, nil, nil))
	require.Equal(t, "sbx-42", header)
}
