package sentiment

import (
	"context"
	"strings"
)

// Scorer assigns a positivity score to a piece of text. Higher means
// more positive. Implementations that call external services may fail;
// the caller drops the affected headline on error.
type Scorer interface {
	Score(ctx context.Context, text string) (float64, error)
}

// Weight added per positive keyword found by KeywordScorer.
const positiveWeight = 0.1

// KeywordScorer is the offline heuristic: every positive keyword present
// in the text adds a fixed weight, every negative keyword subtracts the
// configured penalty. Matching is case-insensitive substring matching.
type KeywordScorer struct {
	Positive []string
	Negative []string
	Penalty  float64
}

func (s KeywordScorer) Score(_ context.Context, text string) (float64, error) {
	lowered := strings.ToLower(text)
	var score float64
	for _, word := range s.Positive {
		if w := strings.ToLower(strings.TrimSpace(word)); w != "" && strings.Contains(lowered, w) {
			score += positiveWeight
		}
	}
	score -= penalize(lowered, s.Negative, s.Penalty)
	return score, nil
}

func penalize(loweredText string, negative []string, penalty float64) float64 {
	var total float64
	for _, word := range negative {
		if w := strings.ToLower(strings.TrimSpace(word)); w != "" && strings.Contains(loweredText, w) {
			total += penalty
		}
	}
	return total
}
