// Package similarity computes normalized string similarity scores for
// fuzzy lead matching.
package similarity

import (
	"math"
	"sort"
	"strings"

	"github.com/agext/levenshtein"
	"golang.org/x/text/cases"
)

var foldCaser = cases.Fold()

// matchParams tunes the edit-distance match for listing fields. The prefix
// bonus is raised above the Winkler default so that abbreviated suffixes
// ("123 Main St" vs "123 Main Street") still clear typical thresholds.
var matchParams = levenshtein.NewParams().BonusPrefix(8)

// Score returns a similarity score in [0,100] between a and b.
//
// Both inputs are normalized before comparison: case-folded, whitespace
// collapsed, and tokens sorted, so strings containing the same words in a
// different order score 100. The score is symmetric and equals 100 exactly
// when the normalized forms are equal, including Score("", "") == 100.
func Score(a, b string) int {
	na := normalize(a)
	nb := normalize(b)

	if na == nb {
		return 100
	}

	return int(math.Round(levenshtein.Match(na, nb, matchParams) * 100))
}

// normalize case-folds s, collapses runs of whitespace, and sorts tokens.
func normalize(s string) string {
	tokens := strings.Fields(foldCaser.String(s))
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
