package connfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	sdkerrors "github.com/agentland/agentland-go/internal/errors"
)

func writeDescriptor(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "kernel.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoad(t *testing.T) {
	path := writeDescriptor(t, `{
		"shell_port": 53701,
		"iopub_port": 53702,
		"stdin_port": 53703,
		"control_port": 53704,
		"hb_port": 53705,
		"ip": "127.0.0.1",
		"key": "a0436f6c-1916-498b-8eb9-e81ab9368e84",
		"transport": "tcp",
		"signature_scheme": "hmac-sha256",
		"kernel_name": "python3"
	}`)

	info, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 53701, info.ShellPort)
	require.Equal(t, 53702, info.IOPubPort)
	require.Equal(t, 53704, info.ControlPort)
	require.Equal(t, "127.0.0.1", info.IP)
	require.Equal(t, "hmac-sha256", info.SignatureScheme)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))

	var cfErr *sdkerrors.ConnectionFileError
	require.ErrorAs(t, err, &cfErr)
}

func TestLoadInvalidJSON(t *testing.T) {
	path := writeDescriptor(t, "not json")

	_, err := Load(path)

	var cfErr *sdkerrors.ConnectionFileError
	require.ErrorAs(t, err, &cfErr)
}

func TestLoadRejectsIncompleteDescriptor(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing ip", `{"shell_port": 1, "iopub_port": 2, "control_port": 3}`},
		{"missing shell_port", `{"ip": "127.0.0.1", "iopub_port": 2, "control_port": 3}`},
		{"missing iopub_port", `{"ip": "127.0.0.1", "shell_port": 1, "control_port": 3}`},
		{"missing control_port", `{"ip": "127.0.0.1", "shell_port": 1, "iopub_port": 2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeDescriptor(t, tt.content))

			var cfErr *sdkerrors.ConnectionFileError
			require.ErrorAs(t, err, &cfErr)
		})
	}
}

func TestEndpoints(t *testing.T) {
	info := &Info{
		ShellPort:   53701,
		IOPubPort:   53702,
		ControlPort: 53704,
		IP:          "127.0.0.1",
	}

	require.Equal(t, "tcp://127.0.0.1:53701", info.ShellEndpoint())
	require.Equal(t, "tcp://127.0.0.1:53702", info.IOPubEndpoint())
	require.Equal(t, "tcp://127.0.0.1:53704", info.ControlEndpoint())

	info.Transport = "ipc"
	require.Equal(t, "ipc://127.0.0.1-53701", info.ShellEndpoint())
}
