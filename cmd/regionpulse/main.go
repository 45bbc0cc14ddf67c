// Command regionpulse runs one integration pass: fetch the configured
// statistics sources, merge real values with synthetic fallback, reconstruct
// the historical series, and write the snapshot and history artifacts.
//
// Usage:
//
//	regionpulse              # full run with defaults from the environment
//	regionpulse -year 2023   # override the target year
//	regionpulse -no-cache    # bypass cached responses (still writes back)
//	regionpulse -check       # connectivity check only, no artifacts
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/hanriverdata/regionpulse/internal/adapter/datago"
	"github.com/hanriverdata/regionpulse/internal/adapter/httpserver"
	"github.com/hanriverdata/regionpulse/internal/artifact"
	"github.com/hanriverdata/regionpulse/internal/config"
	"github.com/hanriverdata/regionpulse/internal/domain"
	"github.com/hanriverdata/regionpulse/internal/observability"
	"github.com/hanriverdata/regionpulse/internal/pipeline"
	"github.com/hanriverdata/regionpulse/internal/source"
)

func main() {
	yearFlag := flag.Int("year", 0, "target year (default: previous calendar year)")
	noCache := flag.Bool("no-cache", false, "bypass cached responses; fresh responses are still cached")
	checkOnly := flag.Bool("check", false, "probe source connectivity and exit")
	outDir := flag.String("out", "", "artifact output directory (default: OUTPUT_DIR)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *yearFlag != 0 {
		cfg.TargetYear = *yearFlag
	}
	if *outDir != "" {
		cfg.OutputDir = *outDir
	}
	targetYear := cfg.ResolveTargetYear(time.Now())

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	// The region catalog is the identity backbone; a malformed catalog is the
	// one unrecoverable startup failure.
	catalog, err := domain.LoadCatalog()
	if err != nil {
		logger.Error("failed to load region catalog", "error", err)
		os.Exit(1)
	}
	resolver := domain.NewResolver(catalog)

	registry, err := source.Load()
	if err != nil {
		logger.Error("failed to load source registry", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.CacheDir, 0o755); err != nil {
		logger.Error("failed to create cache dir", "error", err)
		os.Exit(1)
	}
	cache, err := datago.OpenCache(filepath.Join(cfg.CacheDir, "responses.db"), cfg.CacheTTL, nil)
	if err != nil {
		logger.Error("failed to open response cache", "error", err)
		os.Exit(1)
	}
	defer cache.Close()

	httpFetcher := datago.NewHTTPFetcher(cfg.HTTPTimeout, nil, logger)
	fetcher := datago.NewCachedFetcher(httpFetcher, cache, *noCache)

	fetchers := make(map[string]pipeline.TableFetcher, len(registry.Sources))
	for i := range registry.Sources {
		src := registry.Sources[i]
		key := cfg.Credential(src.CredentialEnv)
		if src.CredentialEnv != "" && key == "" {
			continue // pipeline logs the skip
		}
		fetchers[src.ID] = datago.NewClient(src, key, fetcher, logger)
	}

	synth := domain.NewSynthesizer(cfg.Seed)
	p := pipeline.New(catalog, resolver, registry, fetchers, synth, logger, metrics,
		cfg.StartYear, targetYear)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *checkOnly {
		if err := p.Check(ctx); err != nil {
			logger.Error("connectivity check failed", "error", err)
			os.Exit(1)
		}
		logger.Info("connectivity check passed")
		return
	}

	srv := httpserver.NewServer(cfg.HTTPAddr, p, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	result, err := p.Run(ctx)
	if err != nil {
		logger.Error("pipeline run failed", "error", err)
		shutdown(srv, cfg.ShutdownTimeout, logger)
		os.Exit(1)
	}

	snap := artifact.BuildSnapshot(targetYear, cfg.Seed, result.Records)
	if err := artifact.WriteSnapshot(cfg.OutputDir, snap); err != nil {
		logger.Error("failed to write snapshot artifact", "error", err)
		shutdown(srv, cfg.ShutdownTimeout, logger)
		os.Exit(1)
	}
	if err := artifact.WriteHistory(cfg.OutputDir, result.Series); err != nil {
		logger.Error("failed to write history artifact", "error", err)
		shutdown(srv, cfg.ShutdownTimeout, logger)
		os.Exit(1)
	}
	logger.Info("artifacts written",
		"dir", cfg.OutputDir,
		"regions", len(result.Records),
		"years", result.Series.EndYear-result.Series.StartYear+1,
	)

	shutdown(srv, cfg.ShutdownTimeout, logger)
}

func shutdown(srv *httpserver.Server, timeout time.Duration, logger *slog.Logger) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
}
