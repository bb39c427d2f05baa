package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, 50, cfg.Pipeline.MinQualityScore)
	assert.Equal(t, 0.8, cfg.Pipeline.FuzzyMatchThreshold)
	assert.Equal(t, 5, cfg.Pipeline.MXTimeoutSecs)
	assert.Equal(t, 20.0, cfg.Pipeline.MXRateLimit)
	assert.Equal(t, 8, cfg.Pipeline.MaxConcurrentLeads)
	assert.Equal(t, []string{"email", "domain"}, cfg.Dedupe.Keys)
	assert.Equal(t, TargetBoth, cfg.Export.Target)
	assert.Equal(t, "category", cfg.Export.GroupBy)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadDefaultScoreWeights(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 40, cfg.Score.ValidEmail)
	assert.Equal(t, 10, cfg.Score.NonInferredEmail)
	assert.Equal(t, 5, cfg.Score.NonRoleEmail)
	assert.Equal(t, 4.0, cfg.Score.MinRating)
	assert.Equal(t, 10, cfg.Score.MinReviews)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("LEADPIPE_PIPELINE_MIN_QUALITY_SCORE", "70")
	t.Setenv("LEADPIPE_EXPORT_TARGET", TargetInstantly)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 70, cfg.Pipeline.MinQualityScore)
	assert.Equal(t, TargetInstantly, cfg.Export.Target)
}

func validConfig() *Config {
	return &Config{
		Pipeline: PipelineConfig{MinQualityScore: 50, FuzzyMatchThreshold: 0.8},
		Dedupe:   DedupeConfig{Keys: []string{"email", "domain"}},
		Export:   ExportConfig{Target: TargetBoth},
	}
}

func TestValidateOK(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidateRejectsUnknownTarget(t *testing.T) {
	cfg := validConfig()
	cfg.Export.Target = "mailchimp"
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsThresholdOutOfRange(t *testing.T) {
	cfg := validConfig()
	cfg.Pipeline.FuzzyMatchThreshold = 1.5
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Pipeline.MinQualityScore = 101
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsEmptyDedupeKeys(t *testing.T) {
	cfg := validConfig()
	cfg.Dedupe.Keys = nil
	assert.Error(t, cfg.Validate())
}

func TestInitLoggerRejectsBadLevel(t *testing.T) {
	assert.Error(t, InitLogger(LogConfig{Level: "loud", Format: "json"}))
}

func TestInitLogger(t *testing.T) {
	assert.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
}
