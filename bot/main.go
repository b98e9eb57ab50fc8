package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/welezhka/goodsky/internal/bluesky"
	"github.com/welezhka/goodsky/internal/config"
	"github.com/welezhka/goodsky/internal/feeds"
	"github.com/welezhka/goodsky/internal/logger"
	"github.com/welezhka/goodsky/internal/models"
	"github.com/welezhka/goodsky/internal/pipeline"
	"github.com/welezhka/goodsky/internal/processing"
	"github.com/welezhka/goodsky/internal/sentiment"
	"github.com/welezhka/goodsky/internal/state"
)

type headlineFetcher interface {
	FetchAll(ctx context.Context, urls []string) []models.Headline
}

type poster interface {
	Publish(ctx context.Context, cand models.Candidate) error
}

func main() {
	_ = godotenv.Load()

	log := logger.New("bot")
	cfg, err := config.LoadBot()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	client, err := bluesky.New(cfg.Service, cfg.Handle, cfg.AppPassword, log)
	if err != nil {
		log.Error("init bluesky client", slog.Any("err", err))
		os.Exit(1)
	}

	fetcher := feeds.NewFetcher(cfg.FeedUserAgent, cfg.FetchTimeout, log)
	publisher := bluesky.NewPublisher(client, cfg.MaxPostLength, log)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if cfg.Schedule != "" {
		runScheduled(ctx, log, cfg, fetcher, publisher, rng)
		return
	}

	if err := run(ctx, logger.WithRun(log), cfg, fetcher, publisher, rng); err != nil {
		log.Error("run failed", slog.Any("err", err))
		os.Exit(1)
	}
}

// runScheduled keeps the process alive and fires runs on the configured
// cron expression until a shutdown signal arrives. A failed run is
// logged and the schedule keeps going.
func runScheduled(ctx context.Context, log *slog.Logger, cfg *config.Bot, fetcher headlineFetcher, publisher poster, rng *rand.Rand) {
	c := cron.New()
	_, err := c.AddFunc(cfg.Schedule, func() {
		if err := run(ctx, logger.WithRun(log), cfg, fetcher, publisher, rng); err != nil {
			log.Error("run failed", slog.Any("err", err))
		}
	})
	if err != nil {
		log.Error("invalid schedule", slog.String("schedule", cfg.Schedule), slog.Any("err", err))
		os.Exit(1)
	}

	c.Start()
	log.Info("scheduler running", slog.String("schedule", cfg.Schedule))

	<-ctx.Done()
	<-c.Stop().Done()
	log.Info("shutdown signal received")
}

// run executes one fetch -> filter -> pick -> publish -> persist cycle.
// State files are written only after the post is confirmed, so every
// stored title corresponds to something actually published. An empty
// candidate set is a clean no-op.
func run(ctx context.Context, log *slog.Logger, cfg *config.Bot, fetcher headlineFetcher, publisher poster, rng *rand.Rand) error {
	postedStore := state.NewStore(cfg.PostedTitlesFile)
	recentStore := state.NewStore(cfg.RecentKeywordsFile)

	posted := postedStore.Load()
	recent := recentStore.Load()

	headlines := fetcher.FetchAll(ctx, cfg.Feeds)
	log.Info("fetched headlines",
		slog.Int("count", len(headlines)),
		slog.Int("feeds", len(cfg.Feeds)),
	)

	filter := &pipeline.Filter{
		Scorer:    newScorer(cfg),
		Groups:    cfg.KeywordGroups,
		MaxAge:    time.Duration(cfg.MaxAgeDays) * 24 * time.Hour,
		Threshold: cfg.PositiveThreshold,
		Log:       log,
	}
	candidates := filter.Run(ctx, headlines, posted, recent)
	if len(candidates) == 0 {
		log.Info("no new positive headlines to post")
		return nil
	}

	chosen, err := pipeline.Pick(candidates, rng)
	if err != nil {
		return err
	}
	log.Info("selected headline",
		slog.String("title", chosen.Headline.Title),
		slog.Any("keywords", chosen.Keywords),
		slog.Int("candidates", len(candidates)),
	)

	if err := publisher.Publish(ctx, chosen); err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	posted = state.Append(posted, []string{processing.NormalizeTitle(chosen.Headline.Title)}, cfg.MaxPostedTitles)
	if err := postedStore.Save(posted); err != nil {
		return fmt.Errorf("save posted titles: %w", err)
	}

	recent = state.Append(recent, chosen.Keywords, cfg.RecentKeywordsCap)
	if err := recentStore.Save(recent); err != nil {
		return fmt.Errorf("save recent keywords: %w", err)
	}

	log.Info("posted",
		slog.String("title", chosen.Headline.Title),
		slog.String("link", chosen.Headline.Link),
	)
	return nil
}

// newScorer picks the remote classifier when an endpoint is configured
// and falls back to the keyword heuristic otherwise.
func newScorer(cfg *config.Bot) sentiment.Scorer {
	if cfg.SentimentAPIURL != "" {
		return &sentiment.RemoteScorer{
			URL:      cfg.SentimentAPIURL,
			APIKey:   cfg.SentimentAPIKey,
			Negative: cfg.NegativeKeywords,
			Penalty:  cfg.NegativePenalty,
		}
	}
	return sentiment.KeywordScorer{
		Positive: cfg.AllKeywords(),
		Negative: cfg.NegativeKeywords,
		Penalty:  cfg.NegativePenalty,
	}
}
