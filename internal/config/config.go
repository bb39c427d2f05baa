// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Export target selectors.
const (
	TargetInstantly = "instantly"
	TargetSmartlead = "smartlead"
	TargetBoth      = "both"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Dedupe   DedupeConfig   `yaml:"dedupe" mapstructure:"dedupe"`
	Export   ExportConfig   `yaml:"export" mapstructure:"export"`
	Score    ScoreWeights   `yaml:"score" mapstructure:"score"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend for the leads dump.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

// PipelineConfig configures merge, enrichment, and filtering behavior.
// The thresholds are inherited operating values, kept configurable rather
// than re-derived.
type PipelineConfig struct {
	MinQualityScore     int     `yaml:"min_quality_score" mapstructure:"min_quality_score"`
	FuzzyMatchThreshold float64 `yaml:"fuzzy_match_threshold" mapstructure:"fuzzy_match_threshold"`
	MXTimeoutSecs       int     `yaml:"mx_timeout_secs" mapstructure:"mx_timeout_secs"`
	MXRateLimit         float64 `yaml:"mx_rate_limit" mapstructure:"mx_rate_limit"`
	MaxConcurrentLeads  int     `yaml:"max_concurrent_leads" mapstructure:"max_concurrent_leads"`
}

// DedupeConfig configures composite-key deduplication.
type DedupeConfig struct {
	Keys []string `yaml:"keys" mapstructure:"keys"`
}

// ExportConfig configures downstream campaign-platform output.
type ExportConfig struct {
	Target   string `yaml:"target" mapstructure:"target"`
	Vertical string `yaml:"vertical" mapstructure:"vertical"`
	GroupBy  string `yaml:"group_by" mapstructure:"group_by"`
	OutDir   string `yaml:"out_dir" mapstructure:"out_dir"`
}

// ScoreWeights holds the additive quality-score weights. Defaults sum past
// 100; the scorer caps the total.
type ScoreWeights struct {
	ValidEmail       int     `yaml:"valid_email" mapstructure:"valid_email"`
	NonInferredEmail int     `yaml:"non_inferred_email" mapstructure:"non_inferred_email"`
	NonRoleEmail     int     `yaml:"non_role_email" mapstructure:"non_role_email"`
	CompanyName      int     `yaml:"company_name" mapstructure:"company_name"`
	Domain           int     `yaml:"domain" mapstructure:"domain"`
	Phone            int     `yaml:"phone" mapstructure:"phone"`
	FullName         int     `yaml:"full_name" mapstructure:"full_name"`
	HighRating       int     `yaml:"high_rating" mapstructure:"high_rating"`
	ReviewVolume     int     `yaml:"review_volume" mapstructure:"review_volume"`
	ProfileIdentity  int     `yaml:"profile_identity" mapstructure:"profile_identity"`
	RecentActivity   int     `yaml:"recent_activity" mapstructure:"recent_activity"`
	MergedSources    int     `yaml:"merged_sources" mapstructure:"merged_sources"`
	MailExchange     int     `yaml:"mail_exchange" mapstructure:"mail_exchange"`
	MinRating        float64 `yaml:"min_rating" mapstructure:"min_rating"`
	MinReviews       int     `yaml:"min_reviews" mapstructure:"min_reviews"`
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
	v.SetEnvPrefix("LEADPIPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite_path", "leadpipe.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("pipeline.min_quality_score", 50)
	v.SetDefault("pipeline.fuzzy_match_threshold", 0.8)
	v.SetDefault("pipeline.mx_timeout_secs", 5)
	v.SetDefault("pipeline.mx_rate_limit", 20)
	v.SetDefault("pipeline.max_concurrent_leads", 8)
	v.SetDefault("dedupe.keys", []string{"email", "domain"})
	v.SetDefault("export.target", TargetBoth)
	v.SetDefault("export.group_by", "category")
	v.SetDefault("export.out_dir", ".")
	v.SetDefault("score.valid_email", 40)
	v.SetDefault("score.non_inferred_email", 10)
	v.SetDefault("score.non_role_email", 5)
	v.SetDefault("score.company_name", 10)
	v.SetDefault("score.domain", 10)
	v.SetDefault("score.phone", 10)
	v.SetDefault("score.full_name", 5)
	v.SetDefault("score.high_rating", 8)
	v.SetDefault("score.review_volume", 7)
	v.SetDefault("score.profile_identity", 5)
	v.SetDefault("score.recent_activity", 5)
	v.SetDefault("score.merged_sources", 5)
	v.SetDefault("score.mail_exchange", 5)
	v.SetDefault("score.min_rating", 4.0)
	v.SetDefault("score.min_reviews", 10)

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

// Validate checks the configuration for unrecoverable errors.
func (c *Config) Validate() error {
	switch c.Export.Target {
	case TargetInstantly, TargetSmartlead, TargetBoth:
	default:
		return eris.Errorf("config: unrecognized export target %q", c.Export.Target)
	}

	if c.Pipeline.FuzzyMatchThreshold < 0 || c.Pipeline.FuzzyMatchThreshold > 1 {
		return eris.Errorf("config: fuzzy_match_threshold must be in [0,1], got %v", c.Pipeline.FuzzyMatchThreshold)
	}
	if c.Pipeline.MinQualityScore < 0 || c.Pipeline.MinQualityScore > 100 {
		return eris.Errorf("config: min_quality_score must be in [0,100], got %d", c.Pipeline.MinQualityScore)
	}
	if len(c.Dedupe.Keys) == 0 {
		return eris.New("config: dedupe.keys must not be empty")
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
