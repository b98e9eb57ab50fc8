package bluesky

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/welezhka/goodsky/internal/models"
	"github.com/welezhka/goodsky/internal/processing"
)

// The PDS rejects blobs above 1 MB.
const maxThumbBytes = 1 << 20

const fallbackDescription = "Positive news story"

// Publisher formats a chosen candidate and submits it as a single post.
// When the headline carries an image it is uploaded as a link-card
// thumbnail; any failure on that path degrades to a plain post with the
// link appended so the story stays reachable.
type Publisher struct {
	client *Client
	http   *http.Client
	maxLen int
	log    *slog.Logger
}

// NewPublisher wires a publisher around an authenticated-on-demand
// client. maxLen bounds the visible post text in runes.
func NewPublisher(client *Client, maxLen int, log *slog.Logger) *Publisher {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Publisher{
		client: client,
		http:   &http.Client{Timeout: 30 * time.Second},
		maxLen: maxLen,
		log:    log,
	}
}

// Publish logs in and creates exactly one post for the candidate. On any
// returned error no remote post was created.
func (p *Publisher) Publish(ctx context.Context, cand models.Candidate) error {
	if err := p.client.Login(ctx); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	text := processing.TruncatePost(cand.Headline.Title, p.maxLen)

	var external *External
	if cand.Headline.ImageURL != "" {
		thumb, err := p.uploadThumb(ctx, cand.Headline.ImageURL)
		if err != nil {
			p.log.Warn("posting without thumbnail",
				slog.String("image", cand.Headline.ImageURL),
				slog.Any("err", err),
			)
		} else {
			desc := cand.Headline.Description
			if desc == "" {
				desc = fallbackDescription
			}
			external = &External{
				URI:         cand.Headline.Link,
				Title:       cand.Headline.Title,
				Description: desc,
				Thumb:       thumb,
			}
		}
	}
	if external == nil {
		// No link card, so the link has to live in the post text.
		text += "\n\n" + cand.Headline.Link
	}

	return p.client.Post(ctx, text, external)
}

func (p *Publisher) uploadThumb(ctx context.Context, imageURL string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build image request: %w", err)
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxThumbBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(data) > maxThumbBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", maxThumbBytes)
	}

	mime := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(mime, "image/") {
		mime = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mime, "image/") {
		return nil, fmt.Errorf("not an image: %s", mime)
	}

	return p.client.UploadBlob(ctx, data, mime)
}
