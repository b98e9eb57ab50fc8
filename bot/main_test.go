package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/welezhka/goodsky/internal/config"
	"github.com/welezhka/goodsky/internal/models"
)

type stubFetcher struct {
	headlines []models.Headline
}

func (s *stubFetcher) FetchAll(context.Context, []string) []models.Headline {
	return s.headlines
}

type stubPoster struct {
	published []models.Candidate
	err       error
}

func (s *stubPoster) Publish(_ context.Context, cand models.Candidate) error {
	if s.err != nil {
		return s.err
	}
	s.published = append(s.published, cand)
	return nil
}

func testConfig(t *testing.T) *config.Bot {
	dir := t.TempDir()
	return &config.Bot{
		Handle:             "bot.example.com",
		AppPassword:        "app-password",
		MaxAgeDays:         7,
		PositiveThreshold:  0.1,
		NegativePenalty:    0.1,
		MaxPostedTitles:    50,
		RecentKeywordsCap:  4,
		MaxPostLength:      256,
		PostedTitlesFile:   filepath.Join(dir, "posted_titles.txt"),
		RecentKeywordsFile: filepath.Join(dir, "recent_keywords.txt"),
		Feeds:              []string{"https://feed.example.com/rss"},
		KeywordGroups: []models.KeywordGroup{
			{Name: "labor", Keywords: []string{"union", "workers"}},
			{Name: "uplift", Keywords: []string{"victory", "hope"}},
		},
		NegativeKeywords: []string{"war", "scandal"},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunPostsAndPersists(t *testing.T) {
	cfg := testConfig(t)
	fetcher := &stubFetcher{headlines: []models.Headline{{
		Title:     "Union Wins Historic Victory for Workers",
		Link:      "https://example.com/union-wins",
		Published: time.Now().Add(-2 * time.Hour),
	}}}
	p := &stubPoster{}
	rng := rand.New(rand.NewSource(7))

	require.NoError(t, run(context.Background(), discardLogger(), cfg, fetcher, p, rng))

	require.Len(t, p.published, 1)
	require.Equal(t, "Union Wins Historic Victory for Workers", p.published[0].Headline.Title)
	require.Equal(t, []string{"union", "workers", "victory"}, p.published[0].Keywords)

	postedRaw, err := os.ReadFile(cfg.PostedTitlesFile)
	require.NoError(t, err)
	require.Equal(t, "union wins historic victory for workers\n", string(postedRaw))

	recentRaw, err := os.ReadFile(cfg.RecentKeywordsFile)
	require.NoError(t, err)
	require.Equal(t, "union\nworkers\nvictory\n", string(recentRaw))
}

func TestRunNoCandidatesIsCleanSuccess(t *testing.T) {
	cfg := testConfig(t)
	fetcher := &stubFetcher{headlines: []models.Headline{{
		Title:     "Markets slide on weak earnings",
		Link:      "https://example.com/markets",
		Published: time.Now().Add(-time.Hour),
	}}}
	p := &stubPoster{}
	rng := rand.New(rand.NewSource(7))

	require.NoError(t, run(context.Background(), discardLogger(), cfg, fetcher, p, rng))

	require.Empty(t, p.published)
	// No state mutation on the no-candidates path.
	_, err := os.Stat(cfg.PostedTitlesFile)
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(cfg.RecentKeywordsFile)
	require.True(t, os.IsNotExist(err))
}

func TestRunPublishFailureLeavesStateUntouched(t *testing.T) {
	cfg := testConfig(t)

	// Pre-seed state so we can assert byte-for-byte stability.
	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.PostedTitlesFile), 0o755))
	require.NoError(t, os.WriteFile(cfg.PostedTitlesFile, []byte("earlier story\n"), 0o644))
	require.NoError(t, os.WriteFile(cfg.RecentKeywordsFile, []byte("hope\n"), 0o644))

	fetcher := &stubFetcher{headlines: []models.Headline{{
		Title:     "Union Wins Historic Victory for Workers",
		Link:      "https://example.com/union-wins",
		Published: time.Now().Add(-time.Hour),
	}}}
	p := &stubPoster{err: errors.New("pds unavailable")}
	rng := rand.New(rand.NewSource(7))

	err := run(context.Background(), discardLogger(), cfg, fetcher, p, rng)
	require.Error(t, err)

	postedRaw, err := os.ReadFile(cfg.PostedTitlesFile)
	require.NoError(t, err)
	require.Equal(t, "earlier story\n", string(postedRaw))

	recentRaw, err := os.ReadFile(cfg.RecentKeywordsFile)
	require.NoError(t, err)
	require.Equal(t, "hope\n", string(recentRaw))
}

func TestRunSkipsAlreadyPostedTitle(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.PostedTitlesFile), 0o755))
	require.NoError(t, os.WriteFile(cfg.PostedTitlesFile, []byte("union wins historic victory for workers\n"), 0o644))

	fetcher := &stubFetcher{headlines: []models.Headline{{
		Title:     "Union Wins Historic Victory for Workers",
		Link:      "https://example.com/union-wins",
		Published: time.Now().Add(-time.Hour),
	}}}
	p := &stubPoster{}
	rng := rand.New(rand.NewSource(7))

	require.NoError(t, run(context.Background(), discardLogger(), cfg, fetcher, p, rng))
	require.Empty(t, p.published)
}

func TestRunSuppressesRecentKeyword(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.RecentKeywordsFile), 0o755))
	require.NoError(t, os.WriteFile(cfg.RecentKeywordsFile, []byte("union\n"), 0o644))

	fetcher := &stubFetcher{headlines: []models.Headline{{
		Title:     "Union Wins Historic Victory for Workers",
		Link:      "https://example.com/union-wins",
		Published: time.Now().Add(-time.Hour),
	}}}
	p := &stubPoster{}
	rng := rand.New(rand.NewSource(7))

	require.NoError(t, run(context.Background(), discardLogger(), cfg, fetcher, p, rng))
	require.Empty(t, p.published)
}

func TestRunDeduplicatesAcrossFeeds(t *testing.T) {
	cfg := testConfig(t)
	fetcher := &stubFetcher{headlines: []models.Headline{
		{
			Title:     "Union Wins Historic Victory for Workers",
			Link:      "https://example.com/union-wins",
			Published: time.Now().Add(-time.Hour),
			Source:    "feed-a",
		},
		{
			Title:     "Union wins historic victory for workers!",
			Link:      "https://mirror.example.com/union-wins",
			Published: time.Now().Add(-2 * time.Hour),
			Source:    "feed-b",
		},
	}}
	p := &stubPoster{}
	rng := rand.New(rand.NewSource(7))

	require.NoError(t, run(context.Background(), discardLogger(), cfg, fetcher, p, rng))

	require.Len(t, p.published, 1)
	require.Equal(t, "feed-a", p.published[0].Headline.Source)
}
