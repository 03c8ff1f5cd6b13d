package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/agentland/agentland-go"
)

var (
	execLanguage  string
	execCWD       string
	execTimeoutMS int
	execSandboxID string
)

var execCmd = &cobra.Command{
	Use:   "exec [code]",
	Short: "Execute code once in a sandbox and print the result as JSON",
	Long: "Execute code in a fresh context and print the execution result as a single JSON line. " +
		"Pass \"-\" as code to read it from stdin. Without --sandbox a new sandbox is created for the run.",
	Args: cobra.ExactArgs(1),
	RunE: runExec,
}

func init() {
	execCmd.Flags().StringVar(&execLanguage, "language", "", "context language: python or shell (default python)")
	execCmd.Flags().StringVar(&execCWD, "cwd", "", "working directory for the context")
	execCmd.Flags().IntVar(&execTimeoutMS, "timeout-ms", 0, "execution timeout in milliseconds (default 30000)")
	execCmd.Flags().StringVar(&execSandboxID, "sandbox", "", "existing sandbox id to execute in")
}

func runExec(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code := args[0]
	if code == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read code from stdin: %w", err)
		}

		code = string(data)
	}

	log := newLogger()

	gateway, err := newGateway(log)
	if err != nil {
		return err
	}

	sb, err := resolveSandbox(ctx, gateway, log)
	if err != nil {
		return err
	}

	cx, err := sb.CreateContext(ctx, execLanguage, execCWD)
	if err != nil {
		return err
	}

	defer func() {
		if err := cx.Delete(ctx); err != nil {
			log.Warn("Context cleanup failed", "context_id", cx.ID, "error", err)
		}
	}()

	result, err := cx.Exec(ctx, code, execTimeoutMS)
	if err != nil {
		return err
	}

	out, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	return nil
}

// resolveSandbox binds to --sandbox when given, otherwise creates a fresh
// sandbox for this run.
func resolveSandbox(ctx context.Context, gateway *agentland.Gateway, log *slog.Logger) (*agentland.Sandbox, error) {
	if execSandboxID != "" {
		return gateway.Sandbox(execSandboxID)
	}

	sb, err := gateway.CreateSandbox(ctx, execLanguage)
	if err != nil {
		return nil, err
	}

	log.Debug("Created sandbox for run", "sandbox_id", sb.ID)

	return sb, nil
}
