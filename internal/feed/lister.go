// Package feed lists syndication feeds (podcasts, RSS, Atom, channel
// feeds) as finite result sets.
package feed

import (
	"context"
	"fmt"

	"github.com/pders01/mpsh/internal/config"
	"github.com/pders01/mpsh/internal/debuglog"
	"github.com/pders01/mpsh/internal/plugins"
	"github.com/pders01/mpsh/internal/plugins/user"
	"github.com/pders01/mpsh/internal/storage"
	"github.com/pders01/mpsh/internal/validation"
)

// Listing is one fetched feed.
type Listing struct {
	Title   string
	URL     string
	Entries []storage.Entry
}

type Lister struct {
	fetcher   *Fetcher
	parser    *Parser
	resolvers *plugins.Registry
	validator *validation.LinkValidator
}

func NewLister(cfg config.BackendConfig) *Lister {
	resolvers := plugins.NewRegistry(cfg.HTTPTimeout)
	resolvers.Register(user.NewYouTubeResolver())
	resolvers.Register(user.NewRedditResolver())

	return &Lister{
		fetcher:   NewFetcher(cfg),
		parser:    NewParser(),
		resolvers: resolvers,
		validator: validation.NewLinkValidator(),
	}
}

// SetPermissiveValidation allows local feed servers.
func (l *Lister) SetPermissiveValidation(permissive bool) {
	if permissive {
		l.validator = validation.NewPermissiveLinkValidator()
	} else {
		l.validator = validation.NewLinkValidator()
	}
}

// Resolve validates a typed link and asks the site resolvers what it
// points at.
func (l *Lister) Resolve(ctx context.Context, rawURL string) (*plugins.Resolution, error) {
	normalized, err := l.validator.ValidateAndNormalize(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid link: %w", err)
	}
	return l.resolvers.Resolve(ctx, normalized)
}

// List fetches the feed behind rawURL.
func (l *Lister) List(ctx context.Context, rawURL string) (Listing, error) {
	res, err := l.Resolve(ctx, rawURL)
	if err != nil {
		return Listing{}, err
	}
	if res.FeedURL == "" {
		return Listing{}, fmt.Errorf("no feed available for %s", rawURL)
	}

	debuglog.WithFields(map[string]interface{}{
		"url":    res.FeedURL,
		"target": res.Target.String(),
	}).Infof("listing feed")

	body, err := l.fetcher.Fetch(ctx, res.FeedURL)
	if err != nil {
		return Listing{}, err
	}
	defer body.Close()

	title, entries, err := l.parser.Parse(body)
	if err != nil {
		return Listing{}, err
	}
	if res.Title != "" {
		title = res.Title
	}
	return Listing{Title: title, URL: res.FeedURL, Entries: entries}, nil
}
