package media

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/pders01/mpsh/internal/config"
	"github.com/pders01/mpsh/internal/debuglog"
	"github.com/pders01/mpsh/internal/storage"
)

// preloadTimeout bounds a background resolution.
const preloadTimeout = 15 * time.Second

// StreamCache remembers the playable link of each entry. Direct media links
// are followed through redirects once so players start from the final
// location; site links are passed through for the player to resolve.
//
// It is safe for concurrent use: Preload resolves in the background while
// the shell keeps running.
type StreamCache struct {
	client    *http.Client
	userAgent string

	mu       sync.Mutex
	streams  map[string]string
	inflight map[string]bool
}

func NewStreamCache(cfg config.BackendConfig) *StreamCache {
	return &StreamCache{
		client:    &http.Client{Timeout: cfg.HTTPTimeout},
		userAgent: cfg.UserAgent,
		streams:   make(map[string]string),
		inflight:  make(map[string]bool),
	}
}

func cacheKey(e storage.Entry) string {
	return e.Kind.String() + ":" + e.ID
}

// Resolve returns the playable link of e, from the cache when possible.
func (c *StreamCache) Resolve(ctx context.Context, e storage.Entry) (string, error) {
	if link, ok := c.Cached(e); ok {
		return link, nil
	}
	link, err := c.resolve(ctx, e)
	if err != nil {
		return "", err
	}
	c.mu.Lock()
	c.streams[cacheKey(e)] = link
	c.mu.Unlock()
	return link, nil
}

// Cached reports the stored link of e without resolving it.
func (c *StreamCache) Cached(e storage.Entry) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	link, ok := c.streams[cacheKey(e)]
	return link, ok
}

// Preload resolves e in the background. Failures are only logged: the entry
// is resolved again when it is played.
func (c *StreamCache) Preload(e storage.Entry) {
	key := cacheKey(e)
	c.mu.Lock()
	if _, done := c.streams[key]; done || c.inflight[key] {
		c.mu.Unlock()
		return
	}
	c.inflight[key] = true
	c.mu.Unlock()

	go func() {
		defer func() {
			c.mu.Lock()
			delete(c.inflight, key)
			c.mu.Unlock()
		}()
		ctx, cancel := context.WithTimeout(context.Background(), preloadTimeout)
		defer cancel()
		if _, err := c.Resolve(ctx, e); err != nil {
			debuglog.Debugf("preload %s: %v", key, err)
		}
	}()
}

// Clear forgets every resolved link.
func (c *StreamCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.streams = make(map[string]string)
}

// Len is the number of cached links.
func (c *StreamCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.streams)
}

func (c *StreamCache) resolve(ctx context.Context, e storage.Entry) (string, error) {
	if e.URL == "" {
		return e.Link(), nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, e.URL, nil)
	if err != nil {
		return "", err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusMethodNotAllowed:
		return e.URL, nil
	case resp.StatusCode >= 400:
		return "", fmt.Errorf("stream %s: HTTP %d", e.URL, resp.StatusCode)
	}
	return resp.Request.URL.String(), nil
}
