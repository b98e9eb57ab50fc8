package bluesky

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultService is the public Bluesky PDS.
const DefaultService = "https://bsky.social"

// Client is a minimal XRPC client covering the three calls the bot
// needs: createSession, uploadBlob and createRecord.
type Client struct {
	service  string
	handle   string
	password string
	http     *http.Client
	log      *slog.Logger

	accessJwt string
	did       string
}

// New validates credentials and builds a client. Missing credentials are
// a configuration error and fatal for the run.
func New(service, handle, password string, log *slog.Logger) (*Client, error) {
	if handle == "" || password == "" {
		return nil, errors.New("bluesky handle and app password are required")
	}
	if service == "" {
		service = DefaultService
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		service:  strings.TrimRight(service, "/"),
		handle:   handle,
		password: password,
		http:     &http.Client{Timeout: 30 * time.Second},
		log:      log,
	}, nil
}

// Login creates a session and keeps the access token and DID for the
// calls that follow.
func (c *Client) Login(ctx context.Context) error {
	in := map[string]string{"identifier": c.handle, "password": c.password}
	var out struct {
		AccessJwt string `json:"accessJwt"`
		Did       string `json:"did"`
	}
	if err := c.call(ctx, "com.atproto.server.createSession", in, &out); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	if out.AccessJwt == "" || out.Did == "" {
		return errors.New("create session: empty token in response")
	}
	c.accessJwt = out.AccessJwt
	c.did = out.Did
	c.log.Debug("session created", slog.String("did", c.did))
	return nil
}

// UploadBlob pushes raw image bytes and returns the opaque blob
// reference to embed in a post record.
func (c *Client) UploadBlob(ctx context.Context, data []byte, mimeType string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.service+"/xrpc/com.atproto.repo.uploadBlob", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", mimeType)
	req.Header.Set("Authorization", "Bearer "+c.accessJwt)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload blob: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upload blob: %s", readError(resp))
	}

	var out struct {
		Blob json.RawMessage `json:"blob"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	if len(out.Blob) == 0 {
		return nil, errors.New("upload blob: response carries no blob ref")
	}
	return out.Blob, nil
}

// External describes the link card attached to a post.
type External struct {
	URI         string          `json:"uri"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Thumb       json.RawMessage `json:"thumb,omitempty"`
}

// Post submits one app.bsky.feed.post record, optionally carrying an
// external-link embed. Exactly one remote post exists on success.
func (c *Client) Post(ctx context.Context, text string, external *External) error {
	record := map[string]any{
		"$type":     "app.bsky.feed.post",
		"text":      text,
		"createdAt": time.Now().UTC().Format(time.RFC3339),
	}
	if external != nil {
		record["embed"] = map[string]any{
			"$type":    "app.bsky.embed.external",
			"external": external,
		}
	}
	in := map[string]any{
		"repo":       c.did,
		"collection": "app.bsky.feed.post",
		"record":     record,
	}
	if err := c.call(ctx, "com.atproto.repo.createRecord", in, nil); err != nil {
		return fmt.Errorf("create record: %w", err)
	}
	return nil
}

func (c *Client) call(ctx context.Context, method string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.service+"/xrpc/"+method, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.accessJwt != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessJwt)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.New(readError(resp))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func readError(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return resp.Status
	}
	return resp.Status + ": " + msg
}
