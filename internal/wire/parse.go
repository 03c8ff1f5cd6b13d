package wire

import "strings"

// Event is a broadcast-channel message received from the kernel, decoded
// tolerantly: missing or mistyped fields are left at their zero values rather
// than failing the whole message, since unmatched events are discarded anyway.
type Event struct {
	// ParentID is the correlation id of the command that produced the event.
	// Empty for kernel-wide status events.
	ParentID string

	// Type is one of the MsgType* iopub constants, or whatever the kernel
	// sent; drivers ignore kinds they do not understand.
	Type string

	// Stream payload (Type == MsgTypeStream).
	StreamName string
	Text       string

	// Error payload (Type == MsgTypeError).
	Traceback []string
	EValue    string

	// Input-echo payload (Type == MsgTypeExecuteInput).
	ExecutionCount    int64
	HasExecutionCount bool

	// Status payload (Type == MsgTypeStatus).
	ExecutionState string
}

// ParseEvent decodes a raw iopub message.
func ParseEvent(raw map[string]any) *Event {
	content := mapField(raw, "content")

	ev := &Event{
		ParentID:       parentID(raw),
		Type:           stringField(mapField(raw, "header"), "msg_type"),
		StreamName:     stringField(content, "name"),
		Text:           stringField(content, "text"),
		Traceback:      stringSliceField(content, "traceback"),
		EValue:         stringField(content, "evalue"),
		ExecutionState: stringField(content, "execution_state"),
	}
	ev.ExecutionCount, ev.HasExecutionCount = intField(content, "execution_count")

	return ev
}

// ErrorText renders an error event the way it is folded into stderr: the
// formatted traceback when present, the error value otherwise. Returns ""
// when the event carries neither.
func (e *Event) ErrorText() string {
	return errorText(e.Traceback, e.EValue)
}

// Reply is a reply-channel acknowledgement. Any shell message whose parent id
// matches the active command terminates the acknowledgement wait, regardless
// of its msg_type.
type Reply struct {
	ParentID string
	Type     string

	// Status is the terminal status of the command, defaulting to "ok" when
	// the kernel omits it.
	Status string

	ExecutionCount    int64
	HasExecutionCount bool

	Traceback []string
	EValue    string
}

// ParseReply decodes a raw shell message.
func ParseReply(raw map[string]any) *Reply {
	content := mapField(raw, "content")

	r := &Reply{
		ParentID:  parentID(raw),
		Type:      stringField(mapField(raw, "header"), "msg_type"),
		Status:    stringField(content, "status"),
		Traceback: stringSliceField(content, "traceback"),
		EValue:    stringField(content, "evalue"),
	}
	if r.Status == "" {
		r.Status = "ok"
	}

	r.ExecutionCount, r.HasExecutionCount = intField(content, "execution_count")

	return r
}

// ErrorText renders an error acknowledgement for the stderr accumulator.
func (r *Reply) ErrorText() string {
	return errorText(r.Traceback, r.EValue)
}

func errorText(traceback []string, evalue string) string {
	if len(traceback) > 0 {
		return strings.Join(traceback, "\n") + "\n"
	}

	if evalue != "" {
		return evalue + "\n"
	}

	return ""
}

func parentID(raw map[string]any) string {
	return stringField(mapField(raw, "parent_header"), "msg_id")
}

func mapField(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}

	v, _ := m[key].(map[string]any)

	return v
}

func stringField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}

	v, _ := m[key].(string)

	return v
}

// intField accepts both float64 (JSON-decoded) and integer values.
func intField(m map[string]any, key string) (int64, bool) {
	if m == nil {
		return 0, false
	}

	switch v := m[key].(type) {
	case float64:
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	default:
		return 0, false
	}
}

func stringSliceField(m map[string]any, key string) []string {
	if m == nil {
		return nil
	}

	raw, ok := m[key].([]any)
	if !ok {
		// Already-typed slices pass through (in-process transports).
		if typed, ok := m[key].([]string); ok {
			return typed
		}

		return nil
	}

	out := make([]string, 0, len(raw))

	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}

	return out
}
