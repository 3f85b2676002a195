package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/leadgen-cli/internal/scorer"
)

// Config holds the full application configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	SerpAPI SerpAPIConfig `yaml:"serpapi" mapstructure:"serpapi"`
	Yelp    YelpConfig    `yaml:"yelp" mapstructure:"yelp"`
	Dedupe  DedupeConfig  `yaml:"dedupe" mapstructure:"dedupe"`
	Enrich  EnrichConfig  `yaml:"enrich" mapstructure:"enrich"`
	Scorer  scorer.Config `yaml:"scorer" mapstructure:"scorer"`
	Export  ExportConfig  `yaml:"export" mapstructure:"export"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// SerpAPIConfig holds SerpAPI (Google Maps engine) settings.
type SerpAPIConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// YelpConfig holds Yelp public-search scrape settings.
type YelpConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// DedupeConfig configures the deduplication stage.
type DedupeConfig struct {
	Threshold int `yaml:"threshold" mapstructure:"threshold"`
}

// EnrichConfig configures the enrichment stage.
type EnrichConfig struct {
	TimeoutSecs       int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Concurrency       int     `yaml:"concurrency" mapstructure:"concurrency"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// Timeout returns the per-probe timeout as a duration.
func (c EnrichConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// ExportConfig configures file exports.
type ExportConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "leadgen.db")
	// Default the key to empty so AutomaticEnv knows the key exists and
	// LEADGEN_SERPAPI_KEY reaches Unmarshal.
	v.SetDefault("serpapi.key", "")
	v.SetDefault("serpapi.base_url", "https://serpapi.com/search.json")
	v.SetDefault("yelp.base_url", "https://www.yelp.com")
	v.SetDefault("yelp.timeout_secs", 15)
	v.SetDefault("dedupe.threshold", 85)
	v.SetDefault("enrich.timeout_secs", 5)
	v.SetDefault("enrich.concurrency", 8)
	v.SetDefault("enrich.requests_per_second", 5)
	v.SetDefault("export.dir", "exports")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	defaults := scorer.DefaultConfig()
	v.SetDefault("scorer.rating_weight", defaults.RatingWeight)
	v.SetDefault("scorer.reviews_weight", defaults.ReviewsWeight)
	v.SetDefault("scorer.reachable_weight", defaults.ReachableWeight)
	v.SetDefault("scorer.email_weight", defaults.EmailWeight)
	v.SetDefault("scorer.tags_weight", defaults.TagsWeight)
	v.SetDefault("scorer.neutral_rating", defaults.NeutralRating)
	v.SetDefault("scorer.review_log_cap", defaults.ReviewLogCap)
	v.SetDefault("scorer.max_tag_bonus", defaults.MaxTagBonus)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the pipeline configuration is usable. Configuration
// errors are fatal at construction time, before any batch is processed.
func (c *Config) Validate() error {
	var errs []string

	if c.Dedupe.Threshold < 0 {
		errs = append(errs, fmt.Sprintf("dedupe.threshold must be >= 0, got %d", c.Dedupe.Threshold))
	}
	if c.Enrich.TimeoutSecs <= 0 {
		errs = append(errs, fmt.Sprintf("enrich.timeout_secs must be > 0, got %d", c.Enrich.TimeoutSecs))
	}
	if c.Enrich.Concurrency <= 0 {
		errs = append(errs, fmt.Sprintf("enrich.concurrency must be > 0, got %d", c.Enrich.Concurrency))
	}
	if c.Enrich.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Sprintf("enrich.requests_per_second must be >= 0, got %g", c.Enrich.RequestsPerSecond))
	}
	if c.Store.Driver != "sqlite" && c.Store.Driver != "postgres" {
		errs = append(errs, fmt.Sprintf("store.driver must be sqlite or postgres, got %q", c.Store.Driver))
	}

	if err := c.Scorer.Validate(); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
