// Package connfile loads the on-disk connection descriptor that locates one
// kernel's transport endpoints. The SDK treats the descriptor as an opaque
// path at its public boundary; transports receive the loaded Info.
package connfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	sdkerrors "github.com/agentland/agentland-go/internal/errors"
)

// Info mirrors the kernel connection-file format. Port values are endpoint
// identifiers: TCP ports for the tcp transport, socket-name suffixes for ipc.
type Info struct {
	ShellPort       int    `json:"shell_port"`
	IOPubPort       int    `json:"iopub_port"`
	StdinPort       int    `json:"stdin_port"`
	ControlPort     int    `json:"control_port"`
	HBPort          int    `json:"hb_port"`
	IP              string `json:"ip"`
	Key             string `json:"key"`
	Transport       string `json:"transport"`
	SignatureScheme string `json:"signature_scheme"`
	KernelName      string `json:"kernel_name"`
}

// Load reads and validates a connection descriptor.
func Load(path string) (*Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &sdkerrors.ConnectionFileError{Path: path, Err: err}
	}

	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, &sdkerrors.ConnectionFileError{Path: path, Err: fmt.Errorf("decode: %w", err)}
	}

	if err := info.Validate(); err != nil {
		return nil, &sdkerrors.ConnectionFileError{Path: path, Err: err}
	}

	return &info, nil
}

// Validate checks the fields a transport cannot do without.
func (i *Info) Validate() error {
	if i.IP == "" {
		return errors.New("missing ip")
	}

	if i.ShellPort <= 0 {
		return errors.New("missing shell_port")
	}

	if i.IOPubPort <= 0 {
		return errors.New("missing iopub_port")
	}

	if i.ControlPort <= 0 {
		return errors.New("missing control_port")
	}

	return nil
}

// Endpoint renders a channel endpoint for the descriptor's transport,
// e.g. "tcp://127.0.0.1:53712" or "ipc:///tmp/kernel-53712".
func (i *Info) Endpoint(port int) string {
	transport := i.Transport
	if transport == "" {
		transport = "tcp"
	}

	if transport == "ipc" {
		return fmt.Sprintf("ipc://%s-%d", i.IP, port)
	}

	return fmt.Sprintf("%s://%s:%d", transport, i.IP, port)
}

// ShellEndpoint returns the reply-channel endpoint.
func (i *Info) ShellEndpoint() string { return i.Endpoint(i.ShellPort) }

// IOPubEndpoint returns the broadcast-channel endpoint.
func (i *Info) IOPubEndpoint() string { return i.Endpoint(i.IOPubPort) }

// ControlEndpoint returns the control-channel endpoint.
func (i *Info) ControlEndpoint() string { return i.Endpoint(i.ControlPort) }
