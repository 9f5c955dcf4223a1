// Package cmd implements the command-line interface for esglens.
// It provides the root command and subcommands for scoring companies and
// serving the HTTP API.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jonesrussell/esglens/cmd/score"
	"github.com/jonesrussell/esglens/cmd/serve"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// debug enables debug logging for all commands.
	debug bool

	rootCmd = &cobra.Command{
		Use:   "esglens",
		Short: "Discover and score ESG evidence for a company",
		Long: `esglens crawls a company's website, searches for external ESG reports,
extracts structured signals from the evidence, and computes deterministic
E/S/G scores with a narrative explanation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	// Load .env early so environment variables are available to viper.
	_ = godotenv.Load()

	// Parse flags early so --config and --debug influence initConfig.
	_ = rootCmd.ParseFlags(os.Args[1:])

	if err := initConfig(); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml or ./config/config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("esglens version %s\n", "1.0.0")
		},
	})

	rootCmd.AddCommand(score.Command())
	rootCmd.AddCommand(serve.Command())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	// Config file is optional: defaults and environment variables suffice.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Warning: config file not loaded: %v\n", err)
		}
	}

	if err := bindEnvVars(); err != nil {
		return err
	}

	if debug || viper.GetBool("app.debug") {
		viper.Set("logger.level", "debug")
		viper.Set("app.debug", true)
	}
	if viper.GetString("app.environment") == "development" {
		viper.Set("logger.development", true)
		viper.Set("logger.encoding", "console")
	}

	return nil
}

// bindEnvVars maps the conventional API-key environment variables to config
// keys so they never have to live in a config file.
func bindEnvVars() error {
	bindings := map[string][]string{
		"app.environment":   {"APP_ENV"},
		"logger.level":      {"LOG_LEVEL"},
		"logger.encoding":   {"LOG_FORMAT"},
		"search.api_key":    {"SERPER_API_KEY"},
		"extractor.api_key": {"OPENAI_API_KEY"},
		"cache.redis_addr":  {"REDIS_ADDR"},
	}

	for key, envVars := range bindings {
		if err := viper.BindEnv(append([]string{key}, envVars...)...); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	return nil
}

// setDefaults sets default configuration values.
func setDefaults() {
	viper.SetDefault("app", map[string]any{
		"name":        "esglens",
		"environment": "production",
		"debug":       false,
	})

	viper.SetDefault("logger", map[string]any{
		"level":       "info",
		"encoding":    "json",
		"development": false,
	})

	viper.SetDefault("crawl", map[string]any{
		"keywords": []string{
			"sustainability", "esg", "responsibility", "impact",
			"environment", "governance", "social", "csr",
		},
		"targeted_max_pages":  15,
		"targeted_max_depth":  2,
		"full_site_max_pages": 10,
		"full_site_max_depth": 1,
		"sufficient_pages":    2,
		"fetch_timeout":       "15s",
		"max_retries":         2,
		"parallelism":         5,
		"rate_per_second":     4,
		"max_body_bytes":      10 * 1024 * 1024,
	})

	viper.SetDefault("search", map[string]any{
		"endpoint":         "https://google.serper.dev/search",
		"timeout":          "20s",
		"max_pdf_results":  5,
		"max_html_results": 5,
		"max_snippets":     15,
	})

	viper.SetDefault("chunker", map[string]any{
		"size":    2000,
		"overlap": 200,
	})

	viper.SetDefault("merge", map[string]any{
		"signature_prefix_len": 256,
		"length_bucket":        2048,
	})

	viper.SetDefault("extractor", map[string]any{
		"model":       "gpt-4o-mini",
		"timeout":     "60s",
		"parallelism": 4,
		"max_chunks":  40,
	})

	viper.SetDefault("narrative", map[string]any{
		"model":        "gpt-4.1-mini",
		"top_k":        3,
		"min_evidence": 3,
	})

	viper.SetDefault("cache", map[string]any{
		"ttl": "24h",
	})

	viper.SetDefault("server", map[string]any{
		"address":       ":8080",
		"read_timeout":  "15s",
		"write_timeout": "5m",
	})
}
