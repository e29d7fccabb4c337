package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pders01/mpsh/internal/config"
)

const defaultTimeout = 30 * time.Second

type Fetcher struct {
	client    *http.Client
	userAgent string
}

func NewFetcher(cfg config.BackendConfig) *Fetcher {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: cfg.UserAgent,
	}
}

// Fetch returns the body of feedURL. The caller closes it.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching feed: %w", err)
	}

	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	return resp.Body, nil
}
