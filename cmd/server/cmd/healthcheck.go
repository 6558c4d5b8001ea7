package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// healthResponse matches the readiness payload from internal/api/handlers/health.go.
type healthResponse struct {
	Status string         `json:"status"`
	Checks map[string]any `json:"checks,omitempty"`
}

func newHealthcheckCommand() *cobra.Command {
	var (
		timeout int
		url     string
	)

	healthcheck := &cobra.Command{
		Use:   "healthcheck",
		Short: "Check if the server is healthy",
		Long: `Performs a health check by calling the /readyz endpoint.

This command is used by Docker HEALTHCHECK to monitor container health.
It exits with code 0 if the server is healthy, non-zero otherwise.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := url
			if target == "" {
				port := os.Getenv("SERVER_PORT")
				if port == "" {
					port = "8080"
				}
				target = fmt.Sprintf("http://localhost:%s/readyz", port)
			}
			return runHealthcheck(cmd.Context(), target, time.Duration(timeout)*time.Second)
		},
	}

	healthcheck.Flags().IntVar(&timeout, "timeout", 5, "timeout in seconds")
	healthcheck.Flags().StringVar(&url, "url", "", "health check URL (default: http://localhost:{SERVER_PORT}/readyz)")
	return healthcheck
}

func runHealthcheck(ctx context.Context, url string, timeout time.Duration) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}

	var health healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return fmt.Errorf("parse health check response: %w", err)
	}
	if health.Status != "healthy" {
		return fmt.Errorf("unhealthy: status=%s", health.Status)
	}
	return nil
}
