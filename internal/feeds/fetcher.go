package feeds

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/welezhka/goodsky/internal/models"
	"github.com/welezhka/goodsky/internal/processing"
)

const defaultUserAgent = "goodsky/1.0 (+https://github.com/welezhka/goodsky)"

// Fetcher pulls headlines from RSS/Atom sources. Sources are fetched
// concurrently and a failing source never affects the others.
type Fetcher struct {
	parser    *gofeed.Parser
	client    *http.Client
	userAgent string
	timeout   time.Duration
	log       *slog.Logger
}

// NewFetcher builds a fetcher with a per-source timeout and optional
// custom user agent. Several of the configured feeds reject requests
// without a browser-looking agent.
func NewFetcher(userAgent string, timeout time.Duration, log *slog.Logger) *Fetcher {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Fetcher{
		parser:    gofeed.NewParser(),
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		timeout:   timeout,
		log:       log,
	}
}

// FetchAll pulls every source concurrently and merges the results. The
// merge is order-independent; failures are logged and skipped so the
// join itself never fails.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string) []models.Headline {
	var (
		mu  sync.Mutex
		all []models.Headline
		wg  sync.WaitGroup
	)

	for _, url := range urls {
		url := url
		wg.Add(1)
		go func() {
			defer wg.Done()
			headlines, err := f.fetchOne(ctx, url)
			if err != nil {
				f.log.Warn("skipping feed", slog.String("url", url), slog.Any("err", err))
				return
			}
			mu.Lock()
			all = append(all, headlines...)
			mu.Unlock()
		}()
	}
	wg.Wait()

	return all
}

func (f *Fetcher) fetchOne(ctx context.Context, url string) ([]models.Headline, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch feed: unexpected status %s", resp.Status)
	}

	feed, err := f.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	headlines := make([]models.Headline, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		headlines = append(headlines, toHeadline(item, url))
	}
	return headlines, nil
}

func toHeadline(item *gofeed.Item, source string) models.Headline {
	h := models.Headline{
		Title:       strings.TrimSpace(item.Title),
		Link:        strings.TrimSpace(item.Link),
		Description: processing.CleanText(item.Description),
		ImageURL:    extractImageURL(item),
		Source:      source,
	}
	if item.PublishedParsed != nil {
		h.Published = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		h.Published = *item.UpdatedParsed
	}
	return h
}

// extractImageURL prefers the feed-level item image and falls back to
// the first image enclosure.
func extractImageURL(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	for _, enc := range item.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") && enc.URL != "" {
			return enc.URL
		}
	}
	return ""
}
