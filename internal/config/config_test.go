package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/welezhka/goodsky/internal/config"
)

func setRequired(t *testing.T) {
	t.Setenv("BLUESKY_HANDLE", "bot.example.com")
	t.Setenv("BLUESKY_APP_PASSWORD", "app-password")
}

func TestLoadBotDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.LoadBot()
	require.NoError(t, err)

	require.Equal(t, "bot.example.com", cfg.Handle)
	require.Equal(t, "https://bsky.social", cfg.Service)
	require.Equal(t, 14, cfg.MaxAgeDays)
	require.InDelta(t, 0.1, cfg.PositiveThreshold, 1e-9)
	require.InDelta(t, 0.1, cfg.NegativePenalty, 1e-9)
	require.Equal(t, 50, cfg.MaxPostedTitles)
	require.Equal(t, 4, cfg.RecentKeywordsCap)
	require.Equal(t, 256, cfg.MaxPostLength)
	require.Equal(t, "data/posted_titles.txt", cfg.PostedTitlesFile)
	require.Equal(t, "data/recent_keywords.txt", cfg.RecentKeywordsFile)
	require.Equal(t, 20*time.Second, cfg.FetchTimeout)
	require.NotEmpty(t, cfg.Feeds)
	require.NotEmpty(t, cfg.KeywordGroups)
	require.NotEmpty(t, cfg.NegativeKeywords)
	require.Empty(t, cfg.Schedule)
}

func TestLoadBotOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("BLUESKY_SERVICE", "https://pds.example.com")
	t.Setenv("MAX_DAYS_OLD", "7")
	t.Setenv("POSITIVE_THRESHOLD", "0.75")
	t.Setenv("NEGATIVE_PENALTY", "1")
	t.Setenv("MAX_POSTED_TITLES", "63")
	t.Setenv("RECENT_KEYWORDS_LIMIT", "20")
	t.Setenv("MAX_POST_LENGTH", "300")
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("FEEDS", "https://a.example.com/rss, https://b.example.com/rss")
	t.Setenv("SCHEDULE", "0 9 * * *")

	cfg, err := config.LoadBot()
	require.NoError(t, err)

	require.Equal(t, "https://pds.example.com", cfg.Service)
	require.Equal(t, 7, cfg.MaxAgeDays)
	require.InDelta(t, 0.75, cfg.PositiveThreshold, 1e-9)
	require.InDelta(t, 1.0, cfg.NegativePenalty, 1e-9)
	require.Equal(t, 63, cfg.MaxPostedTitles)
	require.Equal(t, 20, cfg.RecentKeywordsCap)
	require.Equal(t, 300, cfg.MaxPostLength)
	require.Equal(t, 5*time.Second, cfg.FetchTimeout)
	require.Equal(t, []string{"https://a.example.com/rss", "https://b.example.com/rss"}, cfg.Feeds)
	require.Equal(t, "0 9 * * *", cfg.Schedule)
}

func TestLoadBotRequiresCredentials(t *testing.T) {
	t.Setenv("BLUESKY_HANDLE", "")
	t.Setenv("BLUESKY_APP_PASSWORD", "")

	_, err := config.LoadBot()
	require.Error(t, err)
}

func TestLoadBotRejectsInvalidValues(t *testing.T) {
	setRequired(t)
	t.Setenv("MAX_DAYS_OLD", "-3")

	_, err := config.LoadBot()
	require.Error(t, err)
}

func TestLoadBotFeedsFile(t *testing.T) {
	setRequired(t)

	doc := `feeds:
  - https://feeds.example.com/one
  - https://feeds.example.com/two
keyword_groups:
  - name: labor
    keywords: [union, strike]
  - name: uplift
    keywords: [hope]
negative_keywords: [war, scandal]
`
	path := filepath.Join(t.TempDir(), "feeds.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	t.Setenv("FEEDS_FILE", path)

	cfg, err := config.LoadBot()
	require.NoError(t, err)

	require.Equal(t, []string{"https://feeds.example.com/one", "https://feeds.example.com/two"}, cfg.Feeds)
	require.Len(t, cfg.KeywordGroups, 2)
	require.Equal(t, "labor", cfg.KeywordGroups[0].Name)
	require.Equal(t, []string{"union", "strike"}, cfg.KeywordGroups[0].Keywords)
	require.Equal(t, []string{"war", "scandal"}, cfg.NegativeKeywords)
}

func TestLoadBotMissingFeedsFile(t *testing.T) {
	setRequired(t)
	t.Setenv("FEEDS_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := config.LoadBot()
	require.Error(t, err)
}

func TestAllKeywordsFlattensAndDeduplicates(t *testing.T) {
	setRequired(t)

	doc := `keyword_groups:
  - name: a
    keywords: [union, hope]
  - name: b
    keywords: [Hope, strike]
`
	path := filepath.Join(t.TempDir(), "feeds.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	t.Setenv("FEEDS_FILE", path)

	cfg, err := config.LoadBot()
	require.NoError(t, err)
	require.Equal(t, []string{"union", "hope", "strike"}, cfg.AllKeywords())
}
