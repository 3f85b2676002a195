// Package dedupe removes exact and near-duplicate leads from a batch.
package dedupe

import (
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/similarity"
)

// DefaultThreshold is the fuzzy-match similarity threshold.
const DefaultThreshold = 85

// Deduplicator collapses duplicate leads using a two-pass cascade:
//
//  1. Exact pass: leads sharing an identical fully non-empty
//     (name, phone, website) triple collapse to the first occurrence.
//  2. Fuzzy pass: a candidate whose name AND address similarity against an
//     already-accepted lead both exceed the threshold is discarded.
//
// Both passes keep the first occurrence in input order and preserve the
// relative order of survivors. The fuzzy pass compares every candidate
// against every accepted lead, so cost is quadratic in batch size; callers
// should pre-chunk batches above roughly 1,000 leads.
type Deduplicator struct {
	threshold int
}

// New creates a Deduplicator. The threshold must be non-negative.
func New(threshold int) (*Deduplicator, error) {
	if threshold < 0 {
		return nil, eris.Errorf("dedupe: threshold must be >= 0, got %d", threshold)
	}
	return &Deduplicator{threshold: threshold}, nil
}

// Deduplicate returns the surviving leads in first-seen order. It is
// idempotent: running it over its own output is a no-op.
func (d *Deduplicator) Deduplicate(leads []model.Lead) []model.Lead {
	if len(leads) == 0 {
		return []model.Lead{}
	}

	exact := d.exactPass(leads)
	accepted := d.fuzzyPass(exact)

	if dropped := len(leads) - len(accepted); dropped > 0 {
		zap.L().Debug("dedupe: removed duplicates",
			zap.Int("input", len(leads)),
			zap.Int("output", len(accepted)),
			zap.Int("dropped", dropped),
		)
	}

	return accepted
}

// exactPass collapses leads with identical non-empty (name, phone, website)
// triples. Leads with any empty field in the triple pass through unchanged.
func (d *Deduplicator) exactPass(leads []model.Lead) []model.Lead {
	seen := make(map[string]bool, len(leads))
	out := make([]model.Lead, 0, len(leads))

	for _, lead := range leads {
		if lead.Name == "" || lead.Phone == "" || lead.Website == "" {
			out = append(out, lead)
			continue
		}
		key := strings.Join([]string{lead.Name, lead.Phone, lead.Website}, "\x00")
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, lead)
	}

	return out
}

// fuzzyPass accumulates accepted leads, discarding candidates that fuzz-match
// an accepted lead on both name and address.
func (d *Deduplicator) fuzzyPass(leads []model.Lead) []model.Lead {
	accepted := make([]model.Lead, 0, len(leads))

	for _, candidate := range leads {
		if d.isDuplicate(candidate, accepted) {
			continue
		}
		accepted = append(accepted, candidate)
	}

	return accepted
}

func (d *Deduplicator) isDuplicate(candidate model.Lead, accepted []model.Lead) bool {
	for i := range accepted {
		nameScore := similarity.Score(candidate.Name, accepted[i].Name)
		addrScore := similarity.Score(candidate.Address, accepted[i].Address)
		if nameScore > d.threshold && addrScore > d.threshold {
			return true
		}
	}
	return false
}
