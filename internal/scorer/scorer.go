// Package scorer converts raw and enriched lead attributes into a ranked
// lead-quality score.
package scorer

import (
	"math"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// Breakdown factor names as they appear in Lead.ScoreBreakdown.
const (
	FactorRating    = "rating"
	FactorReviews   = "reviews"
	FactorReachable = "reachable"
	FactorEmail     = "email"
	FactorTags      = "tags"
)

// Scorer computes a weighted linear score over normalized lead signals.
// Scoring is pure and deterministic: the same batch and config always
// produce byte-identical scores.
type Scorer struct {
	cfg Config
}

// New creates a Scorer, validating the config up front.
func New(cfg Config) (*Scorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{cfg: cfg}, nil
}

// Score returns a batch of the same length and order as leads, each with
// Score and ScoreBreakdown populated. Leads are never dropped or reordered;
// sorting for presentation is the caller's concern.
func (s *Scorer) Score(leads []model.Lead) []model.Lead {
	out := make([]model.Lead, len(leads))
	for i, lead := range leads {
		out[i] = s.scoreOne(lead)
	}

	if len(out) > 0 {
		top := 0.0
		for i := range out {
			if out[i].Score > top {
				top = out[i].Score
			}
		}
		zap.L().Debug("scorer: batch scored",
			zap.Int("leads", len(out)),
			zap.Float64("top_score", top),
		)
	}

	return out
}

func (s *Scorer) scoreOne(lead model.Lead) model.Lead {
	breakdown := map[string]float64{
		FactorRating:    s.ratingComponent(lead),
		FactorReviews:   s.reviewsComponent(lead),
		FactorReachable: s.reachableComponent(lead),
		FactorEmail:     s.emailComponent(lead),
		FactorTags:      s.tagsComponent(lead),
	}

	total := 0.0
	for _, v := range breakdown {
		total += v
	}

	lead.Score = round2(total)
	lead.ScoreBreakdown = breakdown
	return lead
}

// ratingComponent normalizes the 0-5 star rating into the rating weight.
// Missing ratings get a neutral default instead of zero so leads without
// review data are not unfairly buried.
func (s *Scorer) ratingComponent(lead model.Lead) float64 {
	rating := s.cfg.NeutralRating
	if lead.Rating != nil {
		rating = clamp(*lead.Rating, 0, 5)
	}
	return round2(rating / 5 * s.cfg.RatingWeight)
}

// reviewsComponent log-scales the review count; raw counts are heavy-tailed.
func (s *Scorer) reviewsComponent(lead model.Lead) float64 {
	if lead.ReviewCount == nil || *lead.ReviewCount <= 0 {
		return 0
	}
	scaled := math.Log10(float64(*lead.ReviewCount) + 1)
	if scaled > s.cfg.ReviewLogCap {
		scaled = s.cfg.ReviewLogCap
	}
	return round2(scaled / s.cfg.ReviewLogCap * s.cfg.ReviewsWeight)
}

func (s *Scorer) reachableComponent(lead model.Lead) float64 {
	if !lead.Reachable {
		return 0
	}
	return s.cfg.ReachableWeight
}

func (s *Scorer) emailComponent(lead model.Lead) float64 {
	if lead.Email == "" {
		return 0
	}
	return s.cfg.EmailWeight
}

// tagsComponent grants a per-tag bonus, capped at MaxTagBonus tags.
func (s *Scorer) tagsComponent(lead model.Lead) float64 {
	if len(lead.Tags) == 0 || s.cfg.MaxTagBonus <= 0 {
		return 0
	}
	n := len(lead.Tags)
	if n > s.cfg.MaxTagBonus {
		n = s.cfg.MaxTagBonus
	}
	return round2(float64(n) / float64(s.cfg.MaxTagBonus) * s.cfg.TagsWeight)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
