package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RemoteScorer defers to an external text-classification service that
// returns a POSITIVE/NEGATIVE/NEUTRAL label with a confidence in [0,1].
// The label is mapped onto a signed score and the same negative-keyword
// penalty applied on top.
type RemoteScorer struct {
	URL      string
	APIKey   string
	Negative []string
	Penalty  float64

	// HTTP overrides the default client, mainly for tests.
	HTTP *http.Client
}

type classification struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func (s *RemoteScorer) Score(ctx context.Context, text string) (float64, error) {
	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return 0, fmt.Errorf("marshal classify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("build classify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.APIKey)
	}

	client := s.HTTP
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("classify: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("classify: unexpected status %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var c classification
	if err := json.NewDecoder(resp.Body).Decode(&c); err != nil {
		return 0, fmt.Errorf("decode classification: %w", err)
	}

	var base float64
	switch strings.ToUpper(strings.TrimSpace(c.Label)) {
	case "POSITIVE":
		base = c.Score
	case "NEGATIVE":
		base = -c.Score
	default:
		// NEUTRAL and anything unrecognized score zero.
	}

	return base - penalize(strings.ToLower(text), s.Negative, s.Penalty), nil
}
