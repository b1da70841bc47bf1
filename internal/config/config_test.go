package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GabrielNunesIT/cachecore/internal/cache"
	"github.com/GabrielNunesIT/cachecore/internal/config"
)

func TestDefaults(t *testing.T) {
	t.Parallel()

	d := config.Defaults()
	assert.Equal(t, ":8080", d.ListenAddress)
	assert.Equal(t, "lru", d.Policy)
	assert.Equal(t, cache.DefaultConfig().MaxSize, d.MaxSize)
	assert.True(t, d.MetricsEnabled)
}

func TestLoad_EnvOverridesMultiWordKey(t *testing.T) {
	os.Setenv("CACHECORE_MAX_SIZE", "42")
	os.Setenv("CACHECORE_POLICY", "lfu")
	defer os.Unsetenv("CACHECORE_MAX_SIZE")
	defer os.Unsetenv("CACHECORE_POLICY")

	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.MaxSize)
	assert.Equal(t, "lfu", cfg.Policy)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	os.Setenv("CACHECORE_MAX_SIZE", "42")
	defer os.Unsetenv("CACHECORE_MAX_SIZE")

	flags := config.Flags()
	require.NoError(t, flags.Parse([]string{"--max-size", "99"}))

	cfg, err := config.Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, 99, cfg.MaxSize)
}

func TestCacheEngineConfig_ResolvesPolicy(t *testing.T) {
	t.Parallel()

	cfg := config.Defaults()
	cfg.Policy = "ttl"

	engineCfg, err := cfg.CacheEngineConfig()
	require.NoError(t, err)
	assert.Equal(t, cache.PolicyTTL, engineCfg.Policy)
	assert.Equal(t, cfg.MaxSize, engineCfg.MaxSize)
}

func TestCacheEngineConfig_UnknownPolicy(t *testing.T) {
	t.Parallel()

	cfg := config.Defaults()
	cfg.Policy = "bogus"

	_, err := cfg.CacheEngineConfig()
	assert.Error(t, err)
}

func TestFlags_RegistersExpectedNames(t *testing.T) {
	t.Parallel()

	fs := config.Flags()
	for _, name := range []string{
		"listen-address", "log-level", "log-format", "metrics-enabled",
		"metrics-route", "policy", "max-size", "max-bytes",
		"cleanup-interval", "default-ttl", "max-key-length",
		"reap-batch-size", "max-keys-page-size",
	} {
		assert.NotNil(t, fs.Lookup(name), "expected flag %q to be registered", name)
	}
}

func TestFlags_IndependentInstances(t *testing.T) {
	t.Parallel()

	a := config.Flags()
	b := config.Flags()
	require.NoError(t, a.Parse([]string{"--max-size", "5"}))

	n, err := a.GetInt("max-size")
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	bFlag := b.Lookup("max-size")
	require.NotNil(t, bFlag)
	assert.Equal(t, config.Defaults().MaxSize, mustAtoi(t, bFlag.DefValue))
}

func mustAtoi(t *testing.T, s string) int {
	t.Helper()
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			t.Fatalf("not a digit string: %q", s)
		}
		n = n*10 + int(c-'0')
	}
	return n
}
