// Package cmd implements the agentland CLI commands.
package cmd

import (
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentland/agentland-go"
)

var (
	cfgFile string
	baseURL string
	timeout int
	verbose bool

	appVersion = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "agentland",
	Short: "agentland code-runner client",
	Long:  "Command-line client for the agentland code-runner gateway: one-shot code execution and an MCP tool server.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default ~/.config/agentland/config.toml)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "gateway base URL")
	rootCmd.PersistentFlags().IntVar(&timeout, "timeout", 0, "gateway request timeout in seconds")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(mcpCmd)
}

// SetVersionInfo sets the version for display.
func SetVersionInfo(version string) {
	appVersion = version
	rootCmd.Version = version
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger builds the CLI logger on stderr so stdout stays parseable.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newGateway resolves config file and flags into a gateway client.
func newGateway(log *slog.Logger) (*agentland.Gateway, error) {
	cfg, err := loadConfig(cfgFile)
	if err != nil {
		return nil, err
	}

	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	if timeout > 0 {
		cfg.TimeoutSeconds = timeout
	}

	return agentland.NewGateway(cfg.BaseURL,
		agentland.WithGatewayTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second),
		agentland.WithGatewayLogger(log))
}
