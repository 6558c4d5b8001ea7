package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/Togather-Foundation/venues/internal/config"
	"github.com/Togather-Foundation/venues/internal/metrics"
	"github.com/spf13/cobra"
)

func newAuditCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Check every venue and event for consistency",
		Long: `Scan the configured storage and report venues or events that break the
scheduling rules: overfull venues, duplicate placements, orphaned ids and
status mismatches.

The report is printed as JSON. The command fails when any violation is found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			logger := config.NewLoggerTo(cfg.Logging, cmd.ErrOrStderr())

			be, err := openBackend(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer be.Close()

			report, err := be.newService(logger).Audit(cmd.Context())
			if err != nil {
				return fmt.Errorf("audit failed: %w", err)
			}
			metrics.RecordAudit(report)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
			if !report.Healthy() {
				return fmt.Errorf("found %d consistency violation(s)", len(report.Violations))
			}
			return nil
		},
	}
}
