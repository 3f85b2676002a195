package enrich

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// DefaultConcurrency bounds the probe fan-out. Kept small so a batch does
// not rate-limit itself against the sites it is probing.
const DefaultConcurrency = 8

// Enricher probes each lead's website and extracts contact signals from
// the response body. Per-lead enrichment is independent: probes run
// concurrently, but the returned batch always preserves input order.
type Enricher struct {
	prober      *Prober
	extractor   *Extractor
	concurrency int
	limiter     *rate.Limiter
}

// NewEnricher creates an Enricher with the given probe fan-out bound.
// A nil limiter disables outbound rate limiting.
func NewEnricher(prober *Prober, concurrency int, limiter *rate.Limiter) (*Enricher, error) {
	if prober == nil {
		return nil, eris.New("enrich: prober is required")
	}
	if concurrency <= 0 {
		return nil, eris.Errorf("enrich: concurrency must be > 0, got %d", concurrency)
	}
	return &Enricher{
		prober:      prober,
		extractor:   NewExtractor(),
		concurrency: concurrency,
		limiter:     limiter,
	}, nil
}

// Enrich returns a batch of the same length and order as leads, each lead
// extended with Reachable, Email, and Tags. Leads without a website skip
// network work entirely. A failed probe or extraction degrades that lead to
// its empty enrichment defaults; it never fails the batch. Cancelling ctx
// resolves not-yet-probed leads to their defaults instead of hanging.
func (e *Enricher) Enrich(ctx context.Context, leads []model.Lead) []model.Lead {
	out := make([]model.Lead, len(leads))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, lead := range leads {
		// Each worker owns exactly one output slot, so no locking is
		// needed when collecting results.
		g.Go(func() error {
			out[i] = e.enrichOne(gCtx, lead)
			return nil
		})
	}
	_ = g.Wait()

	reachable := 0
	for i := range out {
		if out[i].Reachable {
			reachable++
		}
	}
	zap.L().Info("enrich: batch complete",
		zap.Int("leads", len(out)),
		zap.Int("reachable", reachable),
	)

	return out
}

func (e *Enricher) enrichOne(ctx context.Context, lead model.Lead) model.Lead {
	lead.Reachable = false
	lead.Email = ""
	lead.Tags = nil

	if lead.Website == "" {
		return lead
	}
	if ctx.Err() != nil {
		return lead
	}

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return lead
		}
	}

	probe := e.prober.Probe(ctx, lead.Website)
	if !probe.Reachable {
		return lead
	}

	lead.Reachable = true
	lead.Email, lead.Tags = e.extractor.Extract(probe.Body)
	return lead
}
