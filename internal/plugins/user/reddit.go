package user

import (
	"context"
	"net/http"
	"strings"

	"github.com/pders01/mpsh/internal/plugins"
)

// RedditResolver maps subreddit links to their RSS feed.
type RedditResolver struct{}

func NewRedditResolver() *RedditResolver {
	return &RedditResolver{}
}

func (p *RedditResolver) Name() string { return "reddit" }

func (p *RedditResolver) CanHandle(url string) bool {
	return strings.Contains(url, "://www.reddit.com/r/") ||
		strings.Contains(url, "://old.reddit.com/r/") ||
		strings.Contains(url, "://reddit.com/r/")
}

func (p *RedditResolver) Priority() int { return 50 }

func (p *RedditResolver) Resolve(_ context.Context, rawURL string, _ *http.Client) (*plugins.Resolution, error) {
	base, _, _ := strings.Cut(rawURL, "?")
	base = strings.TrimSuffix(base, "/")

	subreddit := "unknown"
	if _, rest, ok := strings.Cut(base, "/r/"); ok {
		subreddit, _, _ = strings.Cut(rest, "/")
	}

	feedURL := base
	if !strings.HasSuffix(feedURL, ".rss") {
		feedURL += ".rss"
	}

	return &plugins.Resolution{
		OriginalURL: rawURL,
		Target:      plugins.TargetFeed,
		FeedURL:     feedURL,
		Title:       "r/" + subreddit,
		Metadata: map[string]string{
			"plugin":    "reddit",
			"subreddit": subreddit,
		},
	}, nil
}
