package quiz

import (
	"strings"

	"github.com/agext/levenshtein"
)

// Scorer rates a submitted answer against the expected lexeme.
type Scorer struct {
	threshold float64
	params    *levenshtein.Params
}

// NewScorer creates a Scorer accepting answers whose ratio is >= threshold.
func NewScorer(threshold float64) Scorer {
	return Scorer{
		threshold: threshold,
		// A substitution costs as much as a deletion plus an insertion, so
		// the similarity is 1 - indel/(len(a)+len(b)).
		params: levenshtein.NewParams().SubCost(2),
	}
}

// Score returns the similarity ratio in [0,1] and whether it passes the
// acceptance threshold.
//
// Surrounding whitespace of the submitted answer is ignored; comparison is
// otherwise exact (case-sensitive, rune-wise).
func (s Scorer) Score(submitted, expected string) (float64, bool) {
	submitted = strings.TrimSpace(submitted)

	var ratio float64
	switch {
	case submitted == expected:
		ratio = 1
	case submitted == "" || expected == "":
		ratio = 0
	default:
		ratio = levenshtein.Similarity(submitted, expected, s.params)
	}
	return ratio, ratio >= s.threshold
}

// Threshold returns the acceptance threshold.
func (s Scorer) Threshold() float64 {
	return s.threshold
}
