package config_test

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/winery/pkg/config"
)

type validationDefaults struct {
	SugarTolerance  float64       `env:"TEST_SUGAR_TOLERANCE" envDefault:"0"`
	EnforceTimeline bool          `env:"TEST_ENFORCE_TIMELINE" envDefault:"true"`
	LockTTL         time.Duration `env:"TEST_LOCK_TTL" envDefault:"30s"`
}

type validationOverrides struct {
	SugarTolerance float64 `env:"TEST_OVERRIDE_SUGAR_TOLERANCE" envDefault:"0"`
	Backend        string  `env:"TEST_OVERRIDE_LOCK_BACKEND" envDefault:"memory"`
}

type cachedConfig struct {
	Value string `env:"TEST_CACHED_VALUE" envDefault:"first"`
}

type requiredConfig struct {
	DSN string `env:"TEST_REQUIRED_DSN,required"`
}

func TestLoad_DefaultValues(t *testing.T) {
	os.Unsetenv("TEST_SUGAR_TOLERANCE")
	os.Unsetenv("TEST_ENFORCE_TIMELINE")
	os.Unsetenv("TEST_LOCK_TTL")

	var cfg validationDefaults
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, 0.0, cfg.SugarTolerance)
	assert.True(t, cfg.EnforceTimeline)
	assert.Equal(t, 30*time.Second, cfg.LockTTL)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("TEST_OVERRIDE_SUGAR_TOLERANCE", "0.1")
	t.Setenv("TEST_OVERRIDE_LOCK_BACKEND", "redis")

	var cfg validationOverrides
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, 0.1, cfg.SugarTolerance)
	assert.Equal(t, "redis", cfg.Backend)
}

func TestLoad_Caches(t *testing.T) {
	config.ResetCache()
	t.Setenv("TEST_CACHED_VALUE", "first")

	var first cachedConfig
	require.NoError(t, config.Load(&first))

	t.Setenv("TEST_CACHED_VALUE", "second")

	var second cachedConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "first", second.Value, "cached copy must be returned")

	var fresh cachedConfig
	require.NoError(t, config.Parse(&fresh))
	assert.Equal(t, "second", fresh.Value, "Parse bypasses the cache")

	config.ResetCache()
	var reloaded cachedConfig
	require.NoError(t, config.Load(&reloaded))
	assert.Equal(t, "second", reloaded.Value)
}

func TestLoad_MissingRequired(t *testing.T) {
	os.Unsetenv("TEST_REQUIRED_DSN")

	var cfg requiredConfig
	err := config.Load(&cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrParsingConfig))
}

func TestLoad_NilPointer(t *testing.T) {
	var cfg *validationDefaults
	assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
	assert.ErrorIs(t, config.Parse(cfg), config.ErrNilPointer)
}

func TestMustLoad_Panics(t *testing.T) {
	os.Unsetenv("TEST_REQUIRED_DSN")
	config.ResetCache()

	assert.Panics(t, func() {
		var cfg requiredConfig
		config.MustLoad(&cfg)
	})
}
