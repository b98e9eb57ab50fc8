package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/welezhka/goodsky/internal/models"
)

// Bot holds everything one run needs: credentials, thresholds, state
// file locations, the feed list and the keyword groups. The struct is
// built once at startup and treated as immutable afterwards.
type Bot struct {
	Handle      string
	AppPassword string
	Service     string

	SentimentAPIURL string
	SentimentAPIKey string

	MaxAgeDays        int
	PositiveThreshold float64
	NegativePenalty   float64
	MaxPostedTitles   int
	RecentKeywordsCap int
	MaxPostLength     int

	PostedTitlesFile   string
	RecentKeywordsFile string

	FeedUserAgent string
	FetchTimeout  time.Duration

	// Schedule is an optional cron expression; empty means one run per
	// invocation, the cron-driven default.
	Schedule string

	Feeds            []string
	KeywordGroups    []models.KeywordGroup
	NegativeKeywords []string
}

// feedsFile is the optional YAML document overriding the compiled-in
// feed list and keyword groups.
type feedsFile struct {
	Feeds            []string              `yaml:"feeds"`
	KeywordGroups    []models.KeywordGroup `yaml:"keyword_groups"`
	NegativeKeywords []string              `yaml:"negative_keywords"`
}

// LoadBot builds the bot config from environment variables and the
// optional FEEDS_FILE document.
func LoadBot() (*Bot, error) {
	c := &Bot{
		Handle:      getEnv("BLUESKY_HANDLE", ""),
		AppPassword: getEnv("BLUESKY_APP_PASSWORD", ""),
		Service:     getEnv("BLUESKY_SERVICE", "https://bsky.social"),

		SentimentAPIURL: getEnv("SENTIMENT_API_URL", ""),
		SentimentAPIKey: getEnv("SENTIMENT_API_KEY", ""),

		MaxAgeDays:        getInt("MAX_DAYS_OLD", 14),
		PositiveThreshold: getFloat("POSITIVE_THRESHOLD", 0.1),
		NegativePenalty:   getFloat("NEGATIVE_PENALTY", 0.1),
		MaxPostedTitles:   getInt("MAX_POSTED_TITLES", 50),
		RecentKeywordsCap: getInt("RECENT_KEYWORDS_LIMIT", 4),
		MaxPostLength:     getInt("MAX_POST_LENGTH", 256),

		PostedTitlesFile:   getEnv("POSTED_TITLES_FILE", "data/posted_titles.txt"),
		RecentKeywordsFile: getEnv("RECENT_KEYWORDS_FILE", "data/recent_keywords.txt"),

		FeedUserAgent: getEnv("FEED_USER_AGENT", ""),
		FetchTimeout:  getDuration("FETCH_TIMEOUT", "20s"),

		Schedule: getEnv("SCHEDULE", ""),

		Feeds:            defaultFeeds,
		KeywordGroups:    defaultKeywordGroups,
		NegativeKeywords: defaultNegativeKeywords,
	}

	if extra := getEnv("FEEDS", ""); extra != "" {
		c.Feeds = splitAndTrim(extra)
	}

	if path := getEnv("FEEDS_FILE", ""); path != "" {
		if err := c.applyFeedsFile(path); err != nil {
			return nil, err
		}
	}

	if c.Handle == "" {
		return nil, fmt.Errorf("BLUESKY_HANDLE must be set")
	}
	if c.AppPassword == "" {
		return nil, fmt.Errorf("BLUESKY_APP_PASSWORD must be set")
	}
	if c.MaxAgeDays <= 0 {
		return nil, fmt.Errorf("MAX_DAYS_OLD must be positive")
	}
	if c.MaxPostedTitles <= 0 {
		return nil, fmt.Errorf("MAX_POSTED_TITLES must be positive")
	}
	if c.RecentKeywordsCap <= 0 {
		return nil, fmt.Errorf("RECENT_KEYWORDS_LIMIT must be positive")
	}
	if c.MaxPostLength <= 0 {
		return nil, fmt.Errorf("MAX_POST_LENGTH must be positive")
	}
	if c.NegativePenalty < 0 {
		return nil, fmt.Errorf("NEGATIVE_PENALTY cannot be negative")
	}
	if len(c.Feeds) == 0 {
		return nil, fmt.Errorf("at least one feed must be configured")
	}
	if len(c.KeywordGroups) == 0 {
		return nil, fmt.Errorf("at least one keyword group must be configured")
	}

	return c, nil
}

func (c *Bot) applyFeedsFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read feeds file: %w", err)
	}
	var f feedsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse feeds file %s: %w", path, err)
	}
	if len(f.Feeds) > 0 {
		c.Feeds = f.Feeds
	}
	if len(f.KeywordGroups) > 0 {
		c.KeywordGroups = f.KeywordGroups
	}
	if len(f.NegativeKeywords) > 0 {
		c.NegativeKeywords = f.NegativeKeywords
	}
	return nil
}

// AllKeywords flattens every group into one deduplicated list. The
// keyword scorer uses it as its positive lexicon.
func (c *Bot) AllKeywords() []string {
	seen := make(map[string]struct{})
	var all []string
	for _, group := range c.KeywordGroups {
		for _, kw := range group.Keywords {
			k := strings.ToLower(kw)
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			all = append(all, kw)
		}
	}
	return all
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key, fallback string) time.Duration {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		fd, ferr := time.ParseDuration(fallback)
		if ferr != nil {
			panic(fmt.Sprintf("invalid fallback duration %q: %v", fallback, ferr))
		}
		return fd
	}
	return d
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
