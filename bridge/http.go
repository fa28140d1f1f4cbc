package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"pkt.systems/mdview"
)

// HTTP posts each message as a JSON request body.
type HTTP struct {
	url    string
	client *http.Client
}

// NewHTTP returns an HTTP bridge posting to target. A nil client uses
// http.DefaultClient.
func NewHTTP(target string, client *http.Client) (*HTTP, error) {
	if target == "" {
		return nil, fmt.Errorf("bridge http: URL is required")
	}
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("bridge http: parse URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("bridge http: unsupported scheme %q", u.Scheme)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTP{url: target, client: client}, nil
}

// PostMessage implements mdview.Bridge. Any non-2xx status is an error.
func (h *HTTP) PostMessage(ctx context.Context, msg mdview.Message) error {
	if ctx == nil {
		ctx = context.Background()
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("bridge http: encode: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("bridge http: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := h.client.Do(req)
	if err != nil {
		tracer().Errorf("post %s to %s: %v", msg.Type, h.url, err)
		return fmt.Errorf("bridge http: request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		tracer().Errorf("post %s to %s: %s", msg.Type, h.url, resp.Status)
		return fmt.Errorf("bridge http: status %s", resp.Status)
	}
	tracer().Debugf("posted %s to %s", msg.Type, h.url)
	return nil
}
