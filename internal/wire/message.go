package wire

import (
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"
)

// Protocol is the kernel messaging protocol version stamped on every header.
const Protocol = "5.3"

// Message kinds sent on the shell and control channels.
const (
	MsgTypeExecuteRequest   = "execute_request"
	MsgTypeInterruptRequest = "interrupt_request"
	MsgTypeShutdownRequest  = "shutdown_request"
)

// Message kinds received on the iopub (broadcast) channel.
const (
	MsgTypeStream       = "stream"
	MsgTypeError        = "error"
	MsgTypeExecuteInput = "execute_input"
	MsgTypeStatus       = "status"
)

// StreamStderr is the explicit stream name that routes output to the stderr
// accumulator. Every other stream name routes to stdout.
const StreamStderr = "stderr"

// ExecutionStateIdle is the status value announcing that no command is
// currently executing.
const ExecutionStateIdle = "idle"

// Header identifies a single protocol message. MsgID doubles as the
// correlation id: events and replies produced by a command echo it in their
// parent header.
type Header struct {
	MsgID    string `json:"msg_id"`
	Session  string `json:"session"`
	Username string `json:"username,omitempty"`
	MsgType  string `json:"msg_type"`
	Version  string `json:"version,omitempty"`
	Date     string `json:"date,omitempty"`
}

// Message is a command envelope sent to the kernel.
type Message struct {
	Header       Header         `json:"header"`
	ParentHeader Header         `json:"parent_header"`
	Metadata     map[string]any `json:"metadata"`
	Content      map[string]any `json:"content"`
}

// MsgID returns the envelope's correlation id.
func (m *Message) MsgID() string {
	return m.Header.MsgID
}

// Marshal encodes the envelope as a single JSON object for the transport.
func (m *Message) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// newMessage builds an envelope with a fresh ULID correlation id.
func newMessage(session, msgType string) *Message {
	return &Message{
		Header: Header{
			MsgID:    ulid.Make().String(),
			Session:  session,
			Username: "agentland",
			MsgType:  msgType,
			Version:  Protocol,
			Date:     time.Now().UTC().Format(time.RFC3339),
		},
		Metadata: map[string]any{},
		Content:  map[string]any{},
	}
}

// NewExecuteRequest builds an execute command for the shell channel.
// History is recorded and stdin is disallowed, matching a non-interactive
// driver: the kernel must never prompt the caller for input.
func NewExecuteRequest(session, code string) *Message {
	msg := newMessage(session, MsgTypeExecuteRequest)
	msg.Content = map[string]any{
		"code":             code,
		"silent":           false,
		"store_history":    true,
		"user_expressions": map[string]any{},
		"allow_stdin":      false,
		"stop_on_error":    false,
	}

	return msg
}

// NewInterruptRequest builds the advisory interrupt command sent on the
// control channel when an execution deadline elapses.
func NewInterruptRequest(session string) *Message {
	return newMessage(session, MsgTypeInterruptRequest)
}

// NewShutdownRequest builds a graceful shutdown command for the control
// channel. Restart is always false: the SDK never restarts kernels.
func NewShutdownRequest(session string) *Message {
	msg := newMessage(session, MsgTypeShutdownRequest)
	msg.Content = map[string]any{"restart": false}

	return msg
}
