package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, 85, cfg.Dedupe.Threshold)
	assert.Equal(t, 5, cfg.Enrich.TimeoutSecs)
	assert.Equal(t, 8, cfg.Enrich.Concurrency)
	assert.Equal(t, 30.0, cfg.Scorer.RatingWeight)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LEADGEN_SERPAPI_KEY", "sk-test-123")
	t.Setenv("LEADGEN_DEDUPE_THRESHOLD", "90")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sk-test-123", cfg.SerpAPI.Key)
	assert.Equal(t, 90, cfg.Dedupe.Threshold)
}

func TestValidate_NegativeThreshold(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	cfg.Dedupe.Threshold = -1

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dedupe.threshold")
}

func TestValidate_ZeroTimeout(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	cfg.Enrich.TimeoutSecs = 0

	assert.Error(t, cfg.Validate())
}

func TestValidate_ZeroConcurrency(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	cfg.Enrich.Concurrency = 0

	assert.Error(t, cfg.Validate())
}

func TestValidate_BadDriver(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	cfg.Store.Driver = "mongodb"

	assert.Error(t, cfg.Validate())
}

func TestValidate_CollectsMultipleErrors(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	cfg.Dedupe.Threshold = -1
	cfg.Enrich.Concurrency = -2

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dedupe.threshold")
	assert.Contains(t, err.Error(), "enrich.concurrency")
}

func TestEnrichConfig_Timeout(t *testing.T) {
	c := EnrichConfig{TimeoutSecs: 5}
	assert.Equal(t, "5s", c.Timeout().String())
}
