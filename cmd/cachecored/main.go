// Command cachecored runs the cache engine behind an HTTP adapter.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/GabrielNunesIT/cachecore/internal/cache"
	"github.com/GabrielNunesIT/cachecore/internal/config"
	"github.com/GabrielNunesIT/cachecore/internal/httpapi"
	"github.com/GabrielNunesIT/cachecore/internal/logging"
	"github.com/GabrielNunesIT/cachecore/internal/metrics"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "FATAL:", err)
		os.Exit(1)
	}
}

func run() error {
	flags := config.Flags()
	configFile := flags.String("config", "", "path to a JSON or YAML config file")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return fmt.Errorf("parsing flags: %w", err)
	}

	cfg, err := config.Load(*configFile, flags)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	log := buildLogger(cfg)
	logging.SetDefaultLogger(log)

	engineCfg, err := cfg.CacheEngineConfig()
	if err != nil {
		return fmt.Errorf("resolving cache engine config: %w", err)
	}

	engine, err := cache.New(engineCfg)
	if err != nil {
		return fmt.Errorf("constructing cache engine: %w", err)
	}
	defer engine.Close()

	log.Infof("cache engine constructed: policy=%s max_size=%d max_bytes=%d cleanup_interval=%s",
		engineCfg.Policy, engineCfg.MaxSize, engineCfg.MaxBytes, engineCfg.CleanupInterval)

	reg := metrics.New(
		metrics.WithNamespace("cachecore"),
		metrics.WithProcessCollector(),
		metrics.WithGoCollector(),
	)
	metrics.MustRegisterCache(reg, engine, "cache")
	httpMetrics := metrics.NewHTTPMetrics(reg)

	requestLogger := httpapi.NewRequestLogger(
		httpapi.WithRequestLogLevel(logging.LevelInfo),
		httpapi.WithFullRequestLine(),
	)
	if cfg.LogFormat == "json" {
		httpapi.WithJSONRequestLog()(requestLogger)
	}

	server := httpapi.New(
		httpapi.WithAddress(cfg.ListenAddress),
		httpapi.WithLogger(log),
		httpapi.WithRecovery(),
		httpapi.WithRequestID(),
		httpapi.WithCustomMiddleware(requestLogger.ToMiddleware()),
		httpapi.WithReadTimeout(10*time.Second),
		httpapi.WithWriteTimeout(10*time.Second),
		httpapi.WithHTTPMetrics(httpMetrics),
		httpapi.WithPprof(),
	)
	if cfg.MetricsEnabled {
		httpapi.WithMetricsRoute(cfg.MetricsRoute, reg)(server)
	}

	api := httpapi.NewCacheAPI(engine, cfg.MaxKeysPageSize)
	api.Register(server)

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", cfg.ListenAddress)
		if startErr := server.StartHTTP(); startErr != nil {
			errCh <- startErr
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Infof("received signal %s, shutting down", sig)
	case startErr := <-errCh:
		if startErr != nil {
			log.Errorf("http server error: %v", startErr)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("error during HTTP shutdown: %v", err)
	}

	return nil
}

func buildLogger(cfg config.Config) logging.ILogger {
	var log logging.ILogger
	if cfg.LogFormat == "json" {
		log = logging.NewJSONLogger(os.Stdout)
	} else {
		log = logging.NewConsoleLogger(os.Stdout)
	}

	switch cfg.LogLevel {
	case "trace":
		log.SetLevel(logging.LevelTrace)
	case "debug":
		log.SetLevel(logging.LevelDebug)
	case "warn", "warning":
		log.SetLevel(logging.LevelWarning)
	case "error":
		log.SetLevel(logging.LevelError)
	default:
		log.SetLevel(logging.LevelInfo)
	}

	return log
}
