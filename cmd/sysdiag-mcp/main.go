// Command sysdiag-mcp serves the system diagnostic tools over MCP.
//
// The stdio transport is the default and suits subprocess-based MCP
// clients; the sse transport serves the same tools over HTTP.
//
// Usage:
//
//	sysdiag-mcp --mode stdio
//	sysdiag-mcp --mode sse --host 0.0.0.0 --port 7002 --base-path /mcp
//
// Configuration comes from the environment (optionally via .env):
// DEPLOY_MODE, OPENAPI_TYPE, ACCESS_KEY_ID, ACCESS_KEY_SECRET,
// SECURITY_TOKEN, ROLE_ARN, REGION, ENDPOINT, CALLER_UID,
// FRAMEWORK_ENDPOINTS, DIAGNOSE_TIMEOUT, POLL_INTERVAL, LOG_LEVEL.
package main

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cqian/sysdiag/config"
	"github.com/cqian/sysdiag/internal/logging"
	"github.com/cqian/sysdiag/mcpserver"
	"github.com/cqian/sysdiag/openapi"
	"github.com/cqian/sysdiag/tools"
)

const serverVersion = "1.0.0"

type flags struct {
	mode      string
	host      string
	port      int
	basePath  string
	logStdout bool
}

func main() {
	var f flags

	root := &cobra.Command{
		Use:           "sysdiag-mcp",
		Short:         "MCP server for system diagnostics",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(f)
		},
	}
	root.Flags().StringVar(&f.mode, "mode", "stdio", "transport: stdio or sse")
	root.Flags().StringVar(&f.host, "host", "127.0.0.1", "listen host for the sse transport")
	root.Flags().IntVar(&f.port, "port", 7002, "listen port for the sse transport")
	root.Flags().StringVar(&f.basePath, "base-path", "", "URL prefix for the sse endpoints")
	root.Flags().BoolVar(&f.logStdout, "log-stdout", false, "log to stdout instead of stderr (sse only)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(f flags) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// The stdio transport owns stdout for the protocol stream.
	log := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Stdout: f.logStdout && f.mode != "stdio",
	})

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	registry := openapi.NewRegistry()
	openapi.RegisterDiagnosisRoutes(registry)

	factory, err := cfg.Factory(registry, log)
	if err != nil {
		return err
	}

	toolRegistry := tools.All(tools.Deps{
		Factory:      factory,
		Registry:     registry,
		Timeout:      cfg.DiagnoseTimeout,
		PollInterval: cfg.PollInterval,
		Logger:       log,
	})

	log.Info().
		Str("mode", f.mode).
		Str("deploy_mode", cfg.DeployMode).
		Int("tools", toolRegistry.Len()).
		Msg("starting mcp server")

	opts := []mcpserver.Option{
		mcpserver.WithName("sysdiag-mcp"),
		mcpserver.WithVersion(serverVersion),
	}

	switch f.mode {
	case "stdio":
		return mcpserver.ServeStdio(toolRegistry, opts...)
	case "sse":
		addr := net.JoinHostPort(f.host, strconv.Itoa(f.port))
		opts = append(opts, mcpserver.WithBasePath(f.basePath))
		return mcpserver.ServeSSE(toolRegistry, addr, opts...)
	default:
		return fmt.Errorf("unknown mode %q, want stdio or sse", f.mode)
	}
}
