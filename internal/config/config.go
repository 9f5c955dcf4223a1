// Package config loads and validates application configuration from viper
// (config file, environment variables, defaults).
package config

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/spf13/viper"

	"github.com/jonesrussell/esglens/internal/logger"
)

// Weight tables must sum to 1.0 within this tolerance.
const weightSumTolerance = 1e-6

// ErrInvalidWeights is returned when a configured weight table does not sum to 1.0.
var ErrInvalidWeights = errors.New("weight table must sum to 1.0")

// Config is the root application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Logger    logger.Config   `mapstructure:"logger"`
	Crawl     CrawlConfig     `mapstructure:"crawl"`
	Search    SearchConfig    `mapstructure:"search"`
	Chunker   ChunkerConfig   `mapstructure:"chunker"`
	Merge     MergeConfig     `mapstructure:"merge"`
	Extractor ExtractorConfig `mapstructure:"extractor"`
	Narrative NarrativeConfig `mapstructure:"narrative"`
	Scoring   ScoringConfig   `mapstructure:"scoring"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Server    ServerConfig    `mapstructure:"server"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
}

// CrawlConfig bounds the two on-site crawl stages.
type CrawlConfig struct {
	// Keywords is the ESG relevance keyword set applied to link paths and
	// anchor text.
	Keywords []string `mapstructure:"keywords"`
	// PDFAnchorKeywords extends Keywords when matching PDF anchor text.
	PDFAnchorKeywords []string `mapstructure:"pdf_anchor_keywords"`

	TargetedMaxPages int `mapstructure:"targeted_max_pages"`
	TargetedMaxDepth int `mapstructure:"targeted_max_depth"`
	FullSiteMaxPages int `mapstructure:"full_site_max_pages"`
	FullSiteMaxDepth int `mapstructure:"full_site_max_depth"`

	// SufficientPages is the coverage-sufficiency threshold N: the targeted
	// stage is sufficient when it found at least one PDF link or N
	// keyword-matched HTML pages. Tunable heuristic, not a hard law.
	SufficientPages int `mapstructure:"sufficient_pages"`

	FetchTimeout  time.Duration `mapstructure:"fetch_timeout"`
	MaxRetries    int           `mapstructure:"max_retries"`
	Parallelism   int           `mapstructure:"parallelism"`
	RatePerSecond float64       `mapstructure:"rate_per_second"`
	MaxBodyBytes  int64         `mapstructure:"max_body_bytes"`
	UserAgent     string        `mapstructure:"user_agent"`
}

// SearchConfig configures the external search oracle.
type SearchConfig struct {
	APIKey         string        `mapstructure:"api_key"`
	Endpoint       string        `mapstructure:"endpoint"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxPDFResults  int           `mapstructure:"max_pdf_results"`
	MaxHTMLResults int           `mapstructure:"max_html_results"`
	MaxSnippets    int           `mapstructure:"max_snippets"`
}

// ChunkerConfig bounds chunk size and overlap in characters.
type ChunkerConfig struct {
	Size    int `mapstructure:"size"`
	Overlap int `mapstructure:"overlap"`
}

// MergeConfig tunes near-duplicate detection.
type MergeConfig struct {
	// SignaturePrefixLen is the number of leading normalized characters in
	// the near-duplicate signature.
	SignaturePrefixLen int `mapstructure:"signature_prefix_len"`
	// LengthBucket groups documents whose lengths fall in the same bucket.
	LengthBucket int `mapstructure:"length_bucket"`
}

// ExtractorConfig configures the signal-extraction oracle.
type ExtractorConfig struct {
	Model       string        `mapstructure:"model"`
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Parallelism int           `mapstructure:"parallelism"`
	MaxChunks   int           `mapstructure:"max_chunks"`
}

// NarrativeConfig configures the narrative oracle.
type NarrativeConfig struct {
	Model string `mapstructure:"model"`
	// TopK is how many category signals per pillar go into the prompt.
	TopK int `mapstructure:"top_k"`
	// MinEvidence is the minimum number of positively evidenced categories
	// before the oracle is consulted; below it a fixed low-confidence text
	// is returned instead.
	MinEvidence int `mapstructure:"min_evidence"`
}

// ScoringConfig overrides the built-in weight tables. Empty maps keep the
// defaults. Keys are pillar letters and category names.
type ScoringConfig struct {
	PillarWeights   map[string]float64            `mapstructure:"pillar_weights"`
	CategoryWeights map[string]map[string]float64 `mapstructure:"category_weights"`
}

// CacheConfig configures the optional Redis evidence cache. An empty address
// disables caching entirely.
type CacheConfig struct {
	RedisAddr string        `mapstructure:"redis_addr"`
	TTL       time.Duration `mapstructure:"ttl"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Load unmarshals the global viper state into a Config and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cross-field constraints that viper cannot express.
func (c *Config) Validate() error {
	if err := validateWeights("pillar", c.Scoring.PillarWeights); err != nil {
		return err
	}

	for pillar, table := range c.Scoring.CategoryWeights {
		if err := validateWeights("category:"+pillar, table); err != nil {
			return err
		}
	}

	if c.Chunker.Size > 0 && c.Chunker.Overlap >= c.Chunker.Size {
		return fmt.Errorf("chunker overlap %d must be smaller than size %d",
			c.Chunker.Overlap, c.Chunker.Size)
	}

	return nil
}

// validateWeights checks that a non-empty weight table sums to 1.0.
func validateWeights(name string, table map[string]float64) error {
	if len(table) == 0 {
		return nil
	}

	var sum float64
	for _, w := range table {
		sum += w
	}

	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("%w: %s weights sum to %v", ErrInvalidWeights, name, sum)
	}

	return nil
}
