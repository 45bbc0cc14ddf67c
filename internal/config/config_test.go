package config_test

import (
	"testing"
	"time"

	"github.com/hanriverdata/regionpulse/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, ".cache", cfg.CacheDir)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.Equal(t, "data", cfg.OutputDir)
	assert.Equal(t, uint64(20240101), cfg.Seed)
	assert.Equal(t, 2000, cfg.StartYear)
	assert.Equal(t, 0, cfg.TargetYear)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RUN_SEED", "42")
	t.Setenv("CACHE_TTL", "1h")
	t.Setenv("TARGET_YEAR", "2023")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, 2023, cfg.TargetYear)
}

func TestLoad_RejectsInvertedYearWindow(t *testing.T) {
	t.Setenv("START_YEAR", "2010")
	t.Setenv("TARGET_YEAR", "2005")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_RejectsNonPositiveTimeout(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT", "0s")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestResolveTargetYear(t *testing.T) {
	now := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	cfg := &config.Config{TargetYear: 0}
	assert.Equal(t, 2024, cfg.ResolveTargetYear(now))

	cfg.TargetYear = 2022
	assert.Equal(t, 2022, cfg.ResolveTargetYear(now))
}

func TestCredential(t *testing.T) {
	t.Setenv("KOSIS_API_KEY", "abc123")

	cfg := &config.Config{}
	assert.Equal(t, "abc123", cfg.Credential("KOSIS_API_KEY"))
	assert.Equal(t, "", cfg.Credential("UNSET_CREDENTIAL_ENV"))
	assert.Equal(t, "", cfg.Credential(""))
}
