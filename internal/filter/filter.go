// Package filter narrows a scored lead batch for presentation or export.
package filter

import (
	"strings"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// Options selects which leads survive filtering. Zero values disable the
// corresponding criterion.
type Options struct {
	MinScore     float64  `yaml:"min_score" mapstructure:"min_score"`
	RequireEmail bool     `yaml:"require_email" mapstructure:"require_email"`
	Categories   []string `yaml:"categories" mapstructure:"categories"`
}

// Apply returns the leads matching opts, preserving input order.
func Apply(leads []model.Lead, opts Options) []model.Lead {
	out := make([]model.Lead, 0, len(leads))
	for _, lead := range leads {
		if lead.Score < opts.MinScore {
			continue
		}
		if opts.RequireEmail && lead.Email == "" {
			continue
		}
		if len(opts.Categories) > 0 && !matchesCategory(lead.Category, opts.Categories) {
			continue
		}
		out = append(out, lead)
	}
	return out
}

func matchesCategory(category string, allowed []string) bool {
	for _, c := range allowed {
		if strings.EqualFold(category, c) {
			return true
		}
	}
	return false
}
