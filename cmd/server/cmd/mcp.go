package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Togather-Foundation/venues/internal/api"
	"github.com/Togather-Foundation/venues/internal/config"
	"github.com/Togather-Foundation/venues/internal/mcp"
	"github.com/spf13/cobra"
)

func newMCPCommand(opts *globalOptions) *cobra.Command {
	var (
		transport string
		host      string
		port      int
	)

	mcpCmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the venues tools over the Model Context Protocol",
		Long: `Expose the venue and event operations as MCP tools for AI agents.

Transport defaults to MCP_TRANSPORT (stdio). With stdio, logs are written to
stderr so stdout carries only protocol messages.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			transportCfg, err := mcp.LoadTransportConfig()
			if err != nil {
				return err
			}
			if transport != "" {
				if transportCfg.Type, err = mcp.ParseTransport(transport); err != nil {
					return err
				}
			}
			if host != "" {
				transportCfg.Host = host
			}
			if port != 0 {
				transportCfg.Port = port
			}

			logger := config.NewLoggerTo(cfg.Logging, os.Stderr)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			be, err := openBackend(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer be.Close()

			srv := mcp.NewServer(mcp.Config{
				Name:      "venues",
				Version:   Version,
				Transport: transportCfg.Type,
				OpenAPI:   api.OpenAPIDocument,
			}, be.newService(logger))

			logger.Info().Str("transport", string(transportCfg.Type)).Msg("starting MCP server")
			return mcp.Serve(ctx, srv.MCPServer(), transportCfg, cfg.RateLimit, cfg.Environment)
		},
	}

	mcpCmd.Flags().StringVar(&transport, "transport", "", "transport: stdio, sse, or http (default: $MCP_TRANSPORT or stdio)")
	mcpCmd.Flags().StringVar(&host, "host", "", "bind address for sse/http (default: $MCP_HOST or 0.0.0.0)")
	mcpCmd.Flags().IntVar(&port, "port", 0, "listen port for sse/http (default: $MCP_PORT or 8081)")
	return mcpCmd
}
