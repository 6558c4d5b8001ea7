package cmd

import (
	"fmt"
	"os"

	"github.com/Togather-Foundation/venues/internal/config"
	"github.com/spf13/cobra"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

var rootCmd = newRootCommand()

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}
	serve := newServeCommand(opts)

	root := &cobra.Command{
		Use:   "server",
		Short: "Togather venues server - venue and event scheduling backend",
		Long: `Togather venues server keeps venues and the events scheduled in them
consistent across two independent record tables.

Every venue holds at most five events, every event sits in at most one venue,
and an event is Scheduled exactly when a venue holds it. The same operations
are available over a JSON HTTP API and as MCP tools.`,
		SilenceUsage: true,
		// Run serve when no subcommand is given
		RunE: serve.RunE,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file path (optional, uses env vars by default)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error) (default: info)")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "log format (json, console) (default: json)")

	root.AddCommand(serve)
	root.AddCommand(newMigrateCommand(opts))
	root.AddCommand(newAuditCommand(opts))
	root.AddCommand(newMCPCommand(opts))
	root.AddCommand(newHealthcheckCommand())
	root.AddCommand(newVersionCommand())
	return root
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads configuration and applies the logging flag overrides.
func loadConfig(opts *globalOptions) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.Logging.Format = opts.logFormat
	}
	return cfg, nil
}
