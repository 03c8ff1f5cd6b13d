package agentland

import (
	"github.com/agentland/agentland-go/internal/config"
	"github.com/agentland/agentland-go/internal/connfile"
)

// Transport defines the interface for the kernel channel layer: a broadcast
// (iopub) receive stream, a reply (shell) send/receive pair, and a control
// send path for advisory commands.
//
// The SDK deliberately ships no concrete kernel transport — it assumes a
// reliable ordered delivery layer already exists. Implement this to bind the
// session client to one (or to script kernel behavior in tests) and inject
// it via WithTransport or WithTransportFactory.
type Transport = config.Transport

// TransportFactory opens a Transport for a loaded connection descriptor.
type TransportFactory = config.TransportFactory

// ConnectionInfo is the parsed kernel connection descriptor handed to a
// TransportFactory.
type ConnectionInfo = connfile.Info
