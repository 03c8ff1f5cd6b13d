package agentland_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/agentland/agentland-go"
)

// scriptedKernel drives the public API without a real kernel. It answers
// every execute command with a scripted broadcast sequence and reply.
type scriptedKernel struct {
	ready chan struct{}
	iopub chan map[string]any
	shell chan map[string]any
	errs  chan error

	mu      sync.Mutex
	control []string

	script func(k *scriptedKernel, msgID string)
}

func newScriptedKernel(script func(k *scriptedKernel, msgID string)) *scriptedKernel {
	k := &scriptedKernel{
		ready:  make(chan struct{}),
		iopub:  make(chan map[string]any, 32),
		shell:  make(chan map[string]any, 8),
		errs:   make(chan error),
		script: script,
	}
	close(k.ready)

	return k
}

func (k *scriptedKernel) Start(ctx context.Context) error { return nil }

func (k *scriptedKernel) Ready() <-chan struct{} { return k.ready }

func (k *scriptedKernel) IOPubMessages(ctx context.Context) (<-chan map[string]any, <-chan error) {
	return k.iopub, k.errs
}

func (k *scriptedKernel) ShellMessages(ctx context.Context) (<-chan map[string]any, <-chan error) {
	return k.shell, k.errs
}

func (k *scriptedKernel) SendShell(ctx context.Context, data []byte) error {
	var msg map[string]any
	if err := json.Unmarshal(data, &msg); err != nil {
		return err
	}

	header, _ := msg["header"].(map[string]any)
	msgID, _ := header["msg_id"].(string)

	if k.script != nil {
		k.script(k, msgID)
	}

	return nil
}

func (k *scriptedKernel) SendControl(ctx context.Context, data []byte) error {
	var msg map[string]any
	if err := json.Unmarshal(data, &msg); err != nil {
		return err
	}

	header, _ := msg["header"].(map[string]any)
	msgType, _ := header["msg_type"].(string)

	k.mu.Lock()
	k.control = append(k.control, msgType)
	k.mu.Unlock()

	return nil
}

func (k *scriptedKernel) Close() error { return nil }

func (k *scriptedKernel) controlTypes() []string {
	k.mu.Lock()
	defer k.mu.Unlock()

	return append([]string(nil), k.control...)
}

func event(parent, msgType string, content map[string]any) map[string]any {
	return map[string]any{
		"parent_header": map[string]any{"msg_id": parent},
		"header":        map[string]any{"msg_type": msgType},
		"content":       content,
	}
}

func TestProbe(t *testing.T) {
	res, err := agentland.Probe(t.Context(), "kernel.json",
		agentland.WithTransport(newScriptedKernel(nil)))

	require.NoError(t, err)
	require.True(t, res.OK)
}

func TestExecute(t *testing.T) {
	kernel := newScriptedKernel(func(k *scriptedKernel, msgID string) {
		k.iopub <- event(msgID, "execute_input", map[string]any{"execution_count": float64(3)})
		k.iopub <- event(msgID, "stream", map[string]any{"name": "stdout", "text": "5\n"})
		k.iopub <- event(msgID, "status", map[string]any{"execution_state": "idle"})
		k.shell <- event(msgID, "execute_reply", map[string]any{"status": "ok", "execution_count": float64(3)})
	})

	res, err := agentland.Execute(t.Context(), "kernel.json", "print(5)",
		agentland.WithTransport(kernel),
		agentland.WithTimeout(time.Second),
		agentland.WithSession("test-session"))

	require.NoError(t, err)
	require.Equal(t, agentland.StatusOK, res.Status)
	require.Equal(t, int64(3), res.ExecutionCount)
	require.Equal(t, "5\n", res.Stdout)
	require.Empty(t, res.Stderr)
}

func TestExecuteTimeout(t *testing.T) {
	kernel := newScriptedKernel(nil)

	res, err := agentland.Execute(t.Context(), "kernel.json", "while True: pass",
		agentland.WithTransport(kernel),
		agentland.WithTimeout(100*time.Millisecond))

	require.NoError(t, err)
	require.Equal(t, agentland.StatusTimeout, res.Status)
	require.Contains(t, res.Stderr, "Execution timed out after 100 ms.")
	require.Equal(t, []string{"interrupt_request"}, kernel.controlTypes())
}

func TestExecuteKernelError(t *testing.T) {
	kernel := newScriptedKernel(func(k *scriptedKernel, msgID string) {
		k.iopub <- event(msgID, "error", map[string]any{
			"traceback": []any{"ValueError: bad input"},
		})
		k.iopub <- event(msgID, "status", map[string]any{"execution_state": "idle"})
		k.shell <- event(msgID, "execute_reply", map[string]any{"status": "error"})
	})

	res, err := agentland.Execute(t.Context(), "kernel.json", "raise ValueError('bad input')",
		agentland.WithTransport(kernel),
		agentland.WithTimeout(time.Second))

	require.NoError(t, err)
	require.Equal(t, agentland.StatusError, res.Status)
	require.Equal(t, "ValueError: bad input\n", res.Stderr)
}

func TestShutdown(t *testing.T) {
	kernel := newScriptedKernel(nil)

	res, err := agentland.Shutdown(t.Context(), "kernel.json",
		agentland.WithTransport(kernel))

	require.NoError(t, err)
	require.True(t, res.OK)
	require.Equal(t, []string{"shutdown_request"}, kernel.controlTypes())
}

func TestNopLogger(t *testing.T) {
	require.NotNil(t, agentland.NopLogger())
}
