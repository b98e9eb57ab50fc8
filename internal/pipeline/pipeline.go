package pipeline

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/welezhka/goodsky/internal/models"
	"github.com/welezhka/goodsky/internal/processing"
	"github.com/welezhka/goodsky/internal/sentiment"
)

// Filter turns raw fetched headlines into the deduplicated candidate
// set. Admission rules run in a fixed order and short-circuit on the
// first failure: required fields, recency, sentiment threshold, keyword
// match, not previously posted, no recently used keyword.
type Filter struct {
	Scorer    sentiment.Scorer
	Groups    []models.KeywordGroup
	MaxAge    time.Duration
	Threshold float64
	Log       *slog.Logger
}

// Run applies the admission rules. The posted list holds normalized
// titles; recent holds keywords used by previous runs. When the same
// headline arrives from several sources or matches several keyword
// groups it yields a single candidate whose keyword set is the union of
// all matches, attributed to the first occurrence seen.
func (f *Filter) Run(ctx context.Context, headlines []models.Headline, posted, recent []string) []models.Candidate {
	log := f.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	postedSet := make(map[string]struct{}, len(posted))
	for _, title := range posted {
		postedSet[title] = struct{}{}
	}
	recentSet := make(map[string]struct{}, len(recent))
	for _, kw := range recent {
		recentSet[strings.ToLower(kw)] = struct{}{}
	}

	cutoff := time.Now().Add(-f.MaxAge)

	byTitle := make(map[string]int)
	var candidates []models.Candidate

	for _, h := range headlines {
		if h.Title == "" || h.Link == "" || h.Published.IsZero() {
			continue
		}
		if h.Published.Before(cutoff) {
			continue
		}

		score, err := f.Scorer.Score(ctx, h.Title)
		if err != nil {
			log.Warn("dropping headline, classification failed",
				slog.String("title", h.Title),
				slog.Any("err", err),
			)
			continue
		}
		if score < f.Threshold {
			continue
		}

		var matched []string
		for _, group := range f.Groups {
			matched = mergeKeywords(matched, processing.MatchKeywords(h.Title, group.Keywords))
		}
		if len(matched) == 0 {
			continue
		}

		norm := processing.NormalizeTitle(h.Title)
		if _, alreadyPosted := postedSet[norm]; alreadyPosted {
			continue
		}
		if anyRecent(matched, recentSet) {
			continue
		}

		if idx, ok := byTitle[norm]; ok {
			candidates[idx].Keywords = mergeKeywords(candidates[idx].Keywords, matched)
			continue
		}
		byTitle[norm] = len(candidates)
		candidates = append(candidates, models.Candidate{Headline: h, Keywords: matched})
	}

	return candidates
}

// mergeKeywords unions add into dst preserving first-seen order.
func mergeKeywords(dst, add []string) []string {
	seen := make(map[string]struct{}, len(dst))
	for _, kw := range dst {
		seen[strings.ToLower(kw)] = struct{}{}
	}
	for _, kw := range add {
		k := strings.ToLower(kw)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		dst = append(dst, kw)
	}
	return dst
}

func anyRecent(matched []string, recent map[string]struct{}) bool {
	for _, kw := range matched {
		if _, ok := recent[strings.ToLower(kw)]; ok {
			return true
		}
	}
	return false
}
