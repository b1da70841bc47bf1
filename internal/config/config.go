package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/GabrielNunesIT/cachecore/internal/cache"
)

// Config is the cachecore service configuration surface: the cache
// engine's construction parameters plus the HTTP server and logging
// settings layered on top. Fields carry the "koanf" tag the generic
// ConfigLoader's structs provider reads by default.
type Config struct {
	ListenAddress   string        `koanf:"listen_address"`
	LogLevel        string        `koanf:"log_level"`
	LogFormat       string        `koanf:"log_format"`
	MetricsEnabled  bool          `koanf:"metrics_enabled"`
	MetricsRoute    string        `koanf:"metrics_route"`

	Policy          string        `koanf:"policy"`
	MaxSize         int           `koanf:"max_size"`
	MaxBytes        int           `koanf:"max_bytes"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
	DefaultTTL      time.Duration `koanf:"default_ttl"`
	MaxKeyLength    int           `koanf:"max_key_length"`
	ReapBatchSize   int           `koanf:"reap_batch_size"`

	MaxKeysPageSize int `koanf:"max_keys_page_size"`
}

// Defaults returns the baseline configuration, mirroring cache.DefaultConfig
// plus the ambient HTTP/log settings.
func Defaults() Config {
	cacheDefaults := cache.DefaultConfig()
	return Config{
		ListenAddress:   ":8080",
		LogLevel:        "info",
		LogFormat:       "console",
		MetricsEnabled:  true,
		MetricsRoute:    "/metrics",
		Policy:          cacheDefaults.Policy.String(),
		MaxSize:         cacheDefaults.MaxSize,
		MaxBytes:        cacheDefaults.MaxBytes,
		CleanupInterval: cacheDefaults.CleanupInterval,
		DefaultTTL:      cacheDefaults.DefaultTTL,
		MaxKeyLength:    cacheDefaults.MaxKeyLength,
		ReapBatchSize:   cacheDefaults.ReapBatchSize,
		MaxKeysPageSize: 10000,
	}
}

// Load layers configuration sources: struct defaults, then an optional
// file, then environment variables prefixed CACHECORE_, then command-line
// flags — each source overriding the previous one.
func Load(filePath string, flags *pflag.FlagSet) (Config, error) {
	opts := []Option[Config]{
		WithDefaults(Defaults()),
	}
	if filePath != "" {
		opts = append(opts, WithFile[Config](filePath))
	}
	opts = append(opts, WithEnv[Config]("CACHECORE_"))
	if flags != nil {
		opts = append(opts, WithFlags[Config](flags))
	}

	loader := NewConfigLoader(opts...)
	cfg, err := loader.Load()
	if err != nil {
		return Config{}, fmt.Errorf("config: load: %w", err)
	}
	return cfg, nil
}

// CacheEngineConfig projects Config onto cache.Config, resolving the policy
// string through cache.ParsePolicy.
func (c Config) CacheEngineConfig() (cache.Config, error) {
	policy, err := cache.ParsePolicy(c.Policy)
	if err != nil {
		return cache.Config{}, fmt.Errorf("config: %w", err)
	}

	return cache.Config{
		MaxSize:               c.MaxSize,
		MaxBytes:              c.MaxBytes,
		Policy:                policy,
		CleanupInterval:       c.CleanupInterval,
		PerEntryOverheadBytes: cache.DefaultPerEntryOverheadBytes,
		DefaultTTL:            c.DefaultTTL,
		MaxKeyLength:          c.MaxKeyLength,
		ReapBatchSize:         c.ReapBatchSize,
	}, nil
}

// Flags registers the command-line flags Load accepts, mirroring the
// koanf tag names with dashes in place of underscores.
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("cachecored", pflag.ContinueOnError)
	d := Defaults()

	fs.String("listen-address", d.ListenAddress, "HTTP listen address")
	fs.String("log-level", d.LogLevel, "log level: trace, debug, info, warn, error")
	fs.String("log-format", d.LogFormat, "log format: console or json")
	fs.Bool("metrics-enabled", d.MetricsEnabled, "expose the Prometheus /metrics endpoint")
	fs.String("metrics-route", d.MetricsRoute, "route to serve Prometheus metrics on")
	fs.String("policy", d.Policy, "eviction policy: lru, lfu, ttl, size")
	fs.Int("max-size", d.MaxSize, "maximum number of entries")
	fs.Int("max-bytes", d.MaxBytes, "maximum estimated byte footprint")
	fs.Duration("cleanup-interval", d.CleanupInterval, "proactive reaper sweep interval")
	fs.Duration("default-ttl", d.DefaultTTL, "default TTL applied when a Set omits one")
	fs.Int("max-key-length", d.MaxKeyLength, "maximum key length in bytes")
	fs.Int("reap-batch-size", d.ReapBatchSize, "entries inspected per reaper lock acquisition")
	fs.Int("max-keys-page-size", d.MaxKeysPageSize, "hard ceiling on /admin/keys limit")

	return fs
}
