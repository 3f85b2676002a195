// Package pipeline orchestrates the lead processing stages: gather,
// deduplicate, enrich, score, filter, persist.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/dedupe"
	"github.com/sells-group/leadgen-cli/internal/enrich"
	"github.com/sells-group/leadgen-cli/internal/filter"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/scorer"
	"github.com/sells-group/leadgen-cli/internal/store"
)

// Source produces raw leads for a query/location pair.
type Source interface {
	Search(ctx context.Context, query, location string) ([]model.Lead, error)
}

// namedSource pairs a source with a label for logging.
type namedSource struct {
	name   string
	source Source
}

// Pipeline runs the full lead processing flow for one query.
type Pipeline struct {
	cfg      *config.Config
	store    store.Store
	sources  []namedSource
	dedupe   *dedupe.Deduplicator
	enricher *enrich.Enricher
	scorer   *scorer.Scorer
}

// Result is the outcome of a pipeline run.
type Result struct {
	RunID   string
	Leads   []model.Lead
	Summary model.RunSummary
}

// New creates a Pipeline. All configuration is validated here; a pipeline
// that constructs successfully will not fail on bad config later.
func New(cfg *config.Config, st store.Store) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, eris.Wrap(err, "pipeline: invalid config")
	}

	dd, err := dedupe.New(cfg.Dedupe.Threshold)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: build deduplicator")
	}

	var limiter *rate.Limiter
	if cfg.Enrich.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Enrich.RequestsPerSecond), 1)
	}
	enricher, err := enrich.NewEnricher(enrich.NewProber(cfg.Enrich.Timeout()), cfg.Enrich.Concurrency, limiter)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: build enricher")
	}

	sc, err := scorer.New(cfg.Scorer)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: build scorer")
	}

	return &Pipeline{
		cfg:      cfg,
		store:    st,
		dedupe:   dd,
		enricher: enricher,
		scorer:   sc,
	}, nil
}

// AddSource registers a lead source. Sources contribute leads in
// registration order.
func (p *Pipeline) AddSource(name string, s Source) {
	p.sources = append(p.sources, namedSource{name: name, source: s})
}

// Run executes gather, dedupe, enrich, score, and filter for the query,
// persisting the run record and final leads.
func (p *Pipeline) Run(ctx context.Context, query, location string, filterOpts filter.Options) (*Result, error) {
	log := zap.L().With(zap.String("query", query), zap.String("location", location))
	log.Info("pipeline: starting run")
	start := time.Now()

	run, err := p.store.CreateRun(ctx, query, location)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: create run")
	}

	setStatus := func(status model.RunStatus) {
		if statusErr := p.store.UpdateRunStatus(ctx, run.ID, status); statusErr != nil {
			log.Warn("pipeline: failed to update status", zap.Error(statusErr))
		}
	}

	fail := func(stage string, stageErr error) (*Result, error) {
		summary := &model.RunSummary{
			DurationMS: time.Since(start).Milliseconds(),
			Error:      stageErr.Error(),
		}
		if updErr := p.store.UpdateRunSummary(ctx, run.ID, model.RunStatusFailed, summary); updErr != nil {
			log.Warn("pipeline: failed to record failure", zap.Error(updErr))
		}
		return nil, eris.Wrapf(stageErr, "pipeline: %s", stage)
	}

	raw, err := p.gather(ctx, query, location)
	if err != nil {
		return fail("gather", err)
	}
	log.Info("pipeline: gathered leads", zap.Int("count", len(raw)))

	setStatus(model.RunStatusDeduplicating)
	unique := p.dedupe.Deduplicate(raw)
	log.Info("pipeline: deduplicated",
		zap.Int("in", len(raw)),
		zap.Int("out", len(unique)))

	setStatus(model.RunStatusEnriching)
	enriched := p.enricher.Enrich(ctx, unique)

	setStatus(model.RunStatusScoring)
	scored := p.scorer.Score(enriched)

	final := filter.Apply(scored, filterOpts)

	if err := p.store.SaveLeads(ctx, run.ID, query, location, final); err != nil {
		return fail("save leads", err)
	}

	summary := buildSummary(raw, enriched, final, time.Since(start))
	if err := p.store.UpdateRunSummary(ctx, run.ID, model.RunStatusComplete, &summary); err != nil {
		return fail("record summary", err)
	}

	log.Info("pipeline: run complete",
		zap.Int("leads_in", summary.LeadsIn),
		zap.Int("duplicates", summary.Duplicates),
		zap.Int("leads_out", summary.LeadsOut),
		zap.Float64("top_score", summary.TopScore),
		zap.Int64("duration_ms", summary.DurationMS))

	return &Result{RunID: run.ID, Leads: final, Summary: summary}, nil
}

// gather queries all sources concurrently. Per-source failures are logged
// and skipped; gather fails only when every source fails.
func (p *Pipeline) gather(ctx context.Context, query, location string) ([]model.Lead, error) {
	if len(p.sources) == 0 {
		return nil, eris.New("no sources registered")
	}

	results := make([][]model.Lead, len(p.sources))
	var (
		mu       sync.Mutex
		lastErr  error
		failures int
	)

	g, gctx := errgroup.WithContext(ctx)
	for i, ns := range p.sources {
		g.Go(func() error {
			leads, err := ns.source.Search(gctx, query, location)
			if err != nil {
				zap.L().Warn("pipeline: source failed",
					zap.String("source", ns.name),
					zap.Error(err))
				mu.Lock()
				failures++
				lastErr = err
				mu.Unlock()
				return nil
			}
			results[i] = leads
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if failures == len(p.sources) {
		return nil, eris.Wrap(lastErr, "all sources failed")
	}

	// Flatten in registration order so output ordering is deterministic.
	var all []model.Lead
	for _, leads := range results {
		all = append(all, leads...)
	}
	return all, nil
}

func buildSummary(raw, enriched, final []model.Lead, elapsed time.Duration) model.RunSummary {
	summary := model.RunSummary{
		LeadsIn:    len(raw),
		Duplicates: len(raw) - len(enriched),
		LeadsOut:   len(final),
		DurationMS: elapsed.Milliseconds(),
	}
	for _, lead := range enriched {
		if lead.Reachable {
			summary.Reachable++
		}
		if lead.Email != "" {
			summary.EmailsFound++
		}
	}
	for _, lead := range final {
		if lead.Score > summary.TopScore {
			summary.TopScore = lead.Score
		}
	}
	return summary
}
