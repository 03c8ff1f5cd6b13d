// Package agentland provides a Go SDK for the agentland code-execution
// platform: a kernel session client that drives an interactive code kernel
// over its two-channel message transport, and an HTTP client for the
// code-runner gateway.
//
// # Kernel operations
//
// The kernel session client turns the asynchronous kernel transport into
// three synchronous operations. Each call opens a fresh session against a
// connection descriptor (the kernel's on-disk connection file), runs to
// completion, and tears the session down:
//
//	res, err := agentland.Execute(ctx, "/run/kernel/connection.json",
//	    "print(2+3)",
//	    agentland.WithTransportFactory(openKernelTransport),
//	    agentland.WithTimeout(30*time.Second),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%s: %s", res.Status, res.Stdout)
//
// Execute never turns a kernel timeout or a kernel-reported execution error
// into a Go error: both are statuses on the ExecuteResult, with partial
// output retained. Errors are reserved for the session itself — a channel
// that cannot be opened (UnavailableError) or a send/receive failure outside
// the protocol (TransportError).
//
// The SDK does not ship a concrete kernel transport; callers supply one via
// WithTransport or WithTransportFactory. See the Transport interface for the
// contract a channel layer must provide.
//
// # Gateway client
//
// Gateway talks to the agentland code-runner HTTP API: sandboxes, execution
// contexts, and the sandbox filesystem:
//
//	gw, err := agentland.NewGateway("http://127.0.0.1:8080")
//	sb, err := gw.CreateSandbox(ctx, "python")
//	cx, err := sb.CreateContext(ctx, "python", "/workspace")
//	out, err := cx.Exec(ctx, "print('hi')", 30000)
//
// # Tools
//
// NewToolServer assembles the gateway operations into an MCP server exposing
// sandbox_create, code_execute, and the fs_* tools; cmd/agentland runs it
// over stdio.
//
// # Logging
//
// All constructors accept WithLogger with a *slog.Logger. Without it,
// operation is silent.
package agentland
