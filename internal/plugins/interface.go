// Package plugins turns site-specific links into something the shell can
// list: a feed URL, a remote playlist id or a channel id.
package plugins

import (
	"context"
	"net/http"
	"sort"
	"time"
)

// Target says what a resolved link points at.
type Target int

const (
	TargetFeed Target = iota
	TargetPlaylist
	TargetChannel
)

func (t Target) String() string {
	switch t {
	case TargetPlaylist:
		return "playlist"
	case TargetChannel:
		return "channel"
	default:
		return "feed"
	}
}

// Resolution is what a resolver made of a link.
type Resolution struct {
	OriginalURL string
	Target      Target
	// FeedURL is set for every target that has a syndication feed.
	FeedURL string
	// ID is the playlist or channel id when Target is not TargetFeed.
	ID       string
	Title    string
	Metadata map[string]string
}

// Resolver handles the links of one site.
type Resolver interface {
	Name() string
	CanHandle(url string) bool
	Resolve(ctx context.Context, url string, client *http.Client) (*Resolution, error)
	// Priority breaks ties when more than one resolver accepts a link;
	// higher wins.
	Priority() int
}

// Registry holds resolvers and the client they share.
type Registry struct {
	resolvers []Resolver
	client    *http.Client
}

func NewRegistry(timeout time.Duration) *Registry {
	return &Registry{
		client: &http.Client{Timeout: timeout},
	}
}

func (r *Registry) Register(res Resolver) {
	r.resolvers = append(r.resolvers, res)
}

// Find returns the highest-priority resolver accepting url. Ties go to the
// resolver registered first.
func (r *Registry) Find(url string) (Resolver, bool) {
	var (
		best  Resolver
		score = -1
	)
	for _, res := range r.resolvers {
		if res.CanHandle(url) && res.Priority() > score {
			best, score = res, res.Priority()
		}
	}
	return best, best != nil
}

// Resolve runs the matching resolver. A link no resolver accepts is taken
// to be a feed URL as is.
func (r *Registry) Resolve(ctx context.Context, url string) (*Resolution, error) {
	res, ok := r.Find(url)
	if !ok {
		return &Resolution{
			OriginalURL: url,
			Target:      TargetFeed,
			FeedURL:     url,
			Metadata:    map[string]string{},
		}, nil
	}
	return res.Resolve(ctx, url, r.client)
}

// Names lists the registered resolvers by priority.
func (r *Registry) Names() []string {
	sorted := append([]Resolver(nil), r.resolvers...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Priority() > sorted[j].Priority() })
	names := make([]string, len(sorted))
	for i, res := range sorted {
		names[i] = res.Name()
	}
	return names
}
