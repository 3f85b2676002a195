package scorer

import (
	"fmt"
	"math"
	"strings"

	"github.com/rotisserie/eris"
)

// Config holds the scorer's weights and caps. Weights sum to 100 so the
// final score reads as a 0-100 quality scale.
type Config struct {
	RatingWeight    float64 `yaml:"rating_weight" mapstructure:"rating_weight"`
	ReviewsWeight   float64 `yaml:"reviews_weight" mapstructure:"reviews_weight"`
	ReachableWeight float64 `yaml:"reachable_weight" mapstructure:"reachable_weight"`
	EmailWeight     float64 `yaml:"email_weight" mapstructure:"email_weight"`
	TagsWeight      float64 `yaml:"tags_weight" mapstructure:"tags_weight"`

	// NeutralRating is assumed for leads with no rating data (0-5 scale).
	NeutralRating float64 `yaml:"neutral_rating" mapstructure:"neutral_rating"`
	// ReviewLogCap caps log10(reviews+1); 4 means 10k reviews saturate.
	ReviewLogCap float64 `yaml:"review_log_cap" mapstructure:"review_log_cap"`
	// MaxTagBonus is the number of tags that earn credit.
	MaxTagBonus int `yaml:"max_tag_bonus" mapstructure:"max_tag_bonus"`
}

// DefaultConfig returns the documented default weights (sum = 100).
func DefaultConfig() Config {
	return Config{
		RatingWeight:    30,
		ReviewsWeight:   20,
		ReachableWeight: 25,
		EmailWeight:     15,
		TagsWeight:      10,

		NeutralRating: 3.0,
		ReviewLogCap:  4,
		MaxTagBonus:   5,
	}
}

// WeightSum returns the sum of all component weights.
func (c Config) WeightSum() float64 {
	return c.RatingWeight + c.ReviewsWeight + c.ReachableWeight +
		c.EmailWeight + c.TagsWeight
}

// Validate checks that the config is internally consistent.
func (c Config) Validate() error {
	var errs []string

	weights := map[string]float64{
		"rating_weight":    c.RatingWeight,
		"reviews_weight":   c.ReviewsWeight,
		"reachable_weight": c.ReachableWeight,
		"email_weight":     c.EmailWeight,
		"tags_weight":      c.TagsWeight,
	}
	for name, w := range weights {
		if w < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
	}

	sum := c.WeightSum()
	if sum <= 0 {
		errs = append(errs, "weight sum must be > 0")
	}
	if math.Abs(sum-100) > 1 {
		errs = append(errs, fmt.Sprintf("weights should sum to 100, got %.1f", sum))
	}

	if c.NeutralRating < 0 || c.NeutralRating > 5 {
		errs = append(errs, "neutral_rating must be between 0 and 5")
	}
	if c.ReviewLogCap <= 0 {
		errs = append(errs, "review_log_cap must be > 0")
	}
	if c.MaxTagBonus < 0 {
		errs = append(errs, "max_tag_bonus must be >= 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("scorer: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
