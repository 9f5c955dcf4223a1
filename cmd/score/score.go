// Package score implements the score command: run the full evidence
// discovery and scoring pipeline for one company from the command line.
package score

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/esglens/internal/config"
	"github.com/jonesrussell/esglens/internal/logger"
	"github.com/jonesrussell/esglens/internal/output"
	"github.com/jonesrussell/esglens/internal/pipeline"
)

// jsonOutput switches the report format from tables to JSON.
var jsonOutput bool

var cmd = &cobra.Command{
	Use:   "score <company>",
	Short: "Score a company's ESG evidence",
	Long: `Score resolves a company name, domain, or URL to its website, gathers
ESG evidence from the site and external sources, and prints the computed
scores with their supporting signals.

Examples:
  # Score by company name
  esglens score "Acme Corporation"

  # Score by domain and emit JSON
  esglens score acme.com --json
`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

// Command returns the score command for use in the root command.
func Command() *cobra.Command {
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "emit the full result as JSON")
	return cmd
}

func runScore(cmd *cobra.Command, args []string) error {
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

	result, err := p.Run(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("scoring failed: %w", err)
	}

	if jsonOutput {
		return output.RenderJSON(os.Stdout, result)
	}

	output.RenderTables(os.Stdout, result)

	return nil
}
