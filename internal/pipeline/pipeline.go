// Package pipeline orchestrates one integration run: fetch every configured
// source concurrently, extract canonical field values, merge them in priority
// order with synthetic fallback, and reconstruct the historical series.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/hanriverdata/regionpulse/internal/domain"
	"github.com/hanriverdata/regionpulse/internal/extract"
	"github.com/hanriverdata/regionpulse/internal/observability"
	"github.com/hanriverdata/regionpulse/internal/source"
)

// TableFetcher retrieves all rows of one table for a year window.
type TableFetcher interface {
	FetchTable(ctx context.Context, spec source.TableSpec, startYear, endYear int) ([]domain.Row, error)
}

// Pipeline runs the fetch-extract-merge-reconstruct sequence once per
// invocation. Sources run concurrently; tables within a source run serially,
// paced by the source's declared request delay.
type Pipeline struct {
	catalog  *domain.Catalog
	resolver *domain.Resolver
	registry *source.Registry
	fetchers map[string]TableFetcher // keyed by source ID; absent means disabled
	synth    *domain.Synthesizer
	logger   *slog.Logger
	metrics  *observability.Metrics

	startYear  int
	targetYear int

	ready atomic.Bool
}

// New creates a Pipeline. Sources without an entry in fetchers are skipped
// with a warning; every region still gets a complete record via synthesis.
func New(
	catalog *domain.Catalog,
	resolver *domain.Resolver,
	registry *source.Registry,
	fetchers map[string]TableFetcher,
	synth *domain.Synthesizer,
	logger *slog.Logger,
	metrics *observability.Metrics,
	startYear, targetYear int,
) *Pipeline {
	return &Pipeline{
		catalog:    catalog,
		resolver:   resolver,
		registry:   registry,
		fetchers:   fetchers,
		synth:      synth,
		logger:     logger,
		metrics:    metrics,
		startYear:  startYear,
		targetYear: targetYear,
	}
}

// CheckReadiness returns nil once the pipeline has completed a run.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not completed a run yet")
	}
	return nil
}

// Result is the output of one run.
type Result struct {
	Records    map[string]domain.RegionRecord
	Provenance domain.Provenance
	Series     *domain.HistoricalSeries
	Coverage   CoverageReport
	Stats      map[string]extract.Stats
}

// sourceOutput accumulates one source's extraction across its tables.
type sourceOutput struct {
	fields SourceFields
	yearly domain.YearObservations
	stats  extract.Stats
}

// Run executes one complete integration run. Source and table failures
// degrade to zero rows; the only errors returned are context cancellation
// and history-window validation.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	p.logger.Info("pipeline run starting",
		"regions", p.catalog.Len(),
		"sources", len(p.registry.Sources),
		"start_year", p.startYear,
		"target_year", p.targetYear,
	)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	// One slot per source, written only by that source's goroutine.
	outputs := make([]sourceOutput, len(p.registry.Sources))
	g, gctx := errgroup.WithContext(ctx)
	for i := range p.registry.Sources {
		src := p.registry.Sources[i]
		fetcher, ok := p.fetchers[src.ID]
		if !ok {
			p.logger.Warn("source disabled, credential not configured", "source", src.ID)
			continue
		}
		out := &outputs[i]
		g.Go(func() error {
			*out = p.runSource(gctx, src, fetcher)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	bySource := make(map[string]SourceFields, len(outputs))
	stats := make(map[string]extract.Stats, len(outputs))
	for i, src := range p.registry.Sources {
		if outputs[i].fields == nil {
			continue
		}
		bySource[src.ID] = outputs[i].fields
		stats[src.ID] = outputs[i].stats
	}

	merged := Merge(p.catalog, p.registry.Priority(), bySource, p.synth)
	for id, n := range merged.RealBySource {
		p.metrics.FieldsReal.WithLabelValues(id).Add(float64(n))
	}
	p.metrics.FieldsSynthesized.Add(float64(merged.Synthesized))

	series, err := domain.BuildHistory(merged.Records, mergeYearly(outputs), p.startYear, p.targetYear, p.synth)
	if err != nil {
		return nil, fmt.Errorf("build history: %w", err)
	}

	coverage := BuildCoverage(merged.Provenance)
	coverage.Log(p.logger)

	p.ready.Store(true)
	p.logger.Info("pipeline run complete",
		"synthesized_fields", merged.Synthesized,
		"fully_synthetic_regions", len(coverage.FullySynthetic),
	)
	return &Result{
		Records:    merged.Records,
		Provenance: merged.Provenance,
		Series:     series,
		Coverage:   coverage,
		Stats:      stats,
	}, nil
}

// runSource fetches and extracts every table of one source serially. A table
// failure is logged and counted, then the source continues with its next
// table; the merge treats missing values as synthesizer work.
func (p *Pipeline) runSource(ctx context.Context, src source.Source, fetcher TableFetcher) sourceOutput {
	out := sourceOutput{
		fields: make(SourceFields),
		yearly: make(domain.YearObservations),
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if src.RequestDelayMS > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Duration(src.RequestDelayMS)*time.Millisecond), 1)
	}

	for _, table := range src.Tables {
		if err := limiter.Wait(ctx); err != nil {
			return out
		}

		start := time.Now()
		rows, err := fetcher.FetchTable(ctx, table, p.startYear, p.targetYear)
		p.metrics.FetchDuration.WithLabelValues(src.ID).Observe(time.Since(start).Seconds())
		if err != nil {
			p.logger.Warn("table fetch failed, continuing without it",
				"source", src.ID, "table", table.ID, "error", err)
			p.metrics.TablesFetched.WithLabelValues(src.ID, "error").Inc()
			p.metrics.SourceFailures.WithLabelValues(src.ID).Inc()
			continue
		}
		p.metrics.TablesFetched.WithLabelValues(src.ID, "success").Inc()
		p.metrics.RowsFetched.WithLabelValues(src.ID).Add(float64(len(rows)))

		res := extract.Extract(rows, table, p.resolver, p.targetYear)
		out.stats.Add(res.Stats)
		observeSkips(p.metrics, src.ID, res.Stats)
		mergeFirstWins(out.fields, res.Fields)
		mergeYearlyFirstWins(out.yearly, res.Yearly)

		p.logger.Info("table extracted",
			"source", src.ID,
			"table", table.ID,
			"rows", res.Stats.RowsTotal,
			"extracted", res.Stats.Extracted,
			"skipped", res.Stats.Skipped(),
		)
	}
	return out
}

// Check probes connectivity by fetching the first table of every enabled
// source. It returns the joined per-source failures; a partial failure still
// reports which sources answered.
func (p *Pipeline) Check(ctx context.Context) error {
	var errs []error
	for _, src := range p.registry.Sources {
		fetcher, ok := p.fetchers[src.ID]
		if !ok {
			p.logger.Warn("source disabled, credential not configured", "source", src.ID)
			continue
		}
		if len(src.Tables) == 0 {
			continue
		}
		rows, err := fetcher.FetchTable(ctx, src.Tables[0], p.targetYear, p.targetYear)
		if err != nil {
			p.logger.Error("source check failed", "source", src.ID, "error", err)
			errs = append(errs, fmt.Errorf("source %s: %w", src.ID, err))
			continue
		}
		p.logger.Info("source check ok", "source", src.ID, "rows", len(rows))
	}
	return errors.Join(errs...)
}

// mergeYearly combines the per-source yearly observations in priority order:
// registry order is priority order, and the first source to report a
// (region, field, year) keeps it.
func mergeYearly(outputs []sourceOutput) domain.YearObservations {
	merged := make(domain.YearObservations)
	for i := range outputs {
		mergeYearlyFirstWins(merged, outputs[i].yearly)
	}
	return merged
}

func mergeFirstWins(dst SourceFields, src map[string]map[domain.FieldID]float64) {
	for code, byField := range src {
		m, ok := dst[code]
		if !ok {
			m = make(map[domain.FieldID]float64, len(byField))
			dst[code] = m
		}
		for field, v := range byField {
			if _, exists := m[field]; !exists {
				m[field] = v
			}
		}
	}
}

func mergeYearlyFirstWins(dst, src domain.YearObservations) {
	for code, byField := range src {
		for field, byYear := range byField {
			for year, v := range byYear {
				if _, exists := dst[code][field][year]; !exists {
					dst.Add(code, field, year, v)
				}
			}
		}
	}
}

func observeSkips(m *observability.Metrics, sourceID string, s extract.Stats) {
	for reason, n := range map[string]int{
		"unresolved":     s.Unresolved,
		"ambiguous":      s.Ambiguous,
		"aggregate":      s.Aggregate,
		"sub_district":   s.SubDistrict,
		"unparsable":     s.Unparsable,
		"no_field_match": s.NoFieldMatch,
		"duplicate":      s.Duplicate,
	} {
		if n > 0 {
			m.RowsSkipped.WithLabelValues(sourceID, reason).Add(float64(n))
		}
	}
}
