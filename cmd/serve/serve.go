// Package serve implements the serve command: expose the scoring pipeline
// over HTTP.
package serve

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/esglens/internal/api"
	"github.com/jonesrussell/esglens/internal/config"
	"github.com/jonesrussell/esglens/internal/logger"
	"github.com/jonesrussell/esglens/internal/pipeline"
)

var cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the scoring API over HTTP",
	Long: `Serve starts an HTTP server exposing the scoring pipeline.

Endpoints:
  POST /v1/score  {"company": "<name, domain, or URL>"}
  GET  /healthz
`,
	RunE: runServe,
}

// Command returns the serve command for use in the root command.
func Command() *cobra.Command {
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.New(cfg.Logger)

	p, err := pipeline.FromConfig(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}
	defer func() {
		if closeErr := p.Close(); closeErr != nil {
			log.Warn("failed to close pipeline", "error", closeErr)
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := api.NewServer(cfg.Server, p, log)

	return server.Start(ctx)
}
