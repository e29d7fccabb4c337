// Package shell is the interactive command loop: it reads lines, matches
// them against the command table and renders the result.
package shell

import (
	"context"
	"strings"
	"time"

	"github.com/atotto/clipboard"

	"github.com/pders01/mpsh/internal/backend"
	"github.com/pders01/mpsh/internal/browse"
	"github.com/pders01/mpsh/internal/config"
	"github.com/pders01/mpsh/internal/debuglog"
	"github.com/pders01/mpsh/internal/feed"
	"github.com/pders01/mpsh/internal/lazyseq"
	"github.com/pders01/mpsh/internal/media"
	"github.com/pders01/mpsh/internal/search"
	"github.com/pders01/mpsh/internal/storage"
	"github.com/pders01/mpsh/internal/tui"
)

// Backend is the remote catalogue. *backend.Client implements it.
type Backend interface {
	SearchVideos(term string) lazyseq.PageFunc[storage.Entry]
	SearchPlaylists(term string) lazyseq.PageFunc[storage.Entry]
	PlaylistItems(playlistID string) lazyseq.PageFunc[storage.Entry]
	Related(videoID string) lazyseq.PageFunc[storage.Entry]
	ChannelVideos(channelID, term string) lazyseq.PageFunc[storage.Entry]
	ChannelPlaylists(channelID string) lazyseq.PageFunc[storage.Entry]
	Videos(ctx context.Context, ids []string) ([]storage.Entry, error)
	ChannelID(ctx context.Context, name string) (backend.Channel, bool, error)
	Comments(videoID string) lazyseq.PageFunc[storage.Entry]
	MaxTotal() int
}

// AlbumFinder looks up album track listings. *backend.AlbumClient
// implements it.
type AlbumFinder interface {
	FindAlbum(ctx context.Context, title string) (backend.Album, bool, error)
}

// FeedLister fetches syndication feeds. *feed.Lister implements it.
type FeedLister interface {
	List(ctx context.Context, rawURL string) (feed.Listing, error)
}

// Opener hands a link to the desktop, usually a web browser.
type Opener interface {
	Open(link string) error
}

// Clipboard receives copied links.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard writes to the desktop clipboard.
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return errClipboardUnsupported
	}
	return clipboard.WriteAll(text)
}

// Env is everything a command handler may read or change. Handlers get it
// explicitly; there is no other shared state.
type Env struct {
	Session   *browse.Session[storage.Entry]
	Store     *storage.Store
	Backend   Backend
	Feeds     FeedLister
	Albums    AlbumFinder
	Search    search.Searcher
	Player    media.Player
	Opener    Opener
	Streams   *media.StreamCache
	Clipboard Clipboard
	Renderer  *tui.Renderer

	Config     *config.Config
	ConfigPath string
	// OnSettingChanged runs after `set` changed a setting, so owners of
	// derived objects such as the player can rebuild them.
	OnSettingChanged func(name string)

	// Working is the unsaved list built with `add` and loaded with `open`.
	Working storage.Playlist
	// LastOpened names the saved playlist Working was loaded from.
	LastOpened string

	Now func() time.Time
}

func (env *Env) now() time.Time {
	if env.Now != nil {
		return env.Now()
	}
	return time.Now()
}

// RecordPlay appends e to the play history and the local index. It is
// wired to the player so it runs as each item starts.
func (env *Env) RecordPlay(e storage.Entry) {
	if env.Store != nil {
		if err := env.Store.AppendHistory(e, env.now()); err != nil {
			debuglog.Warnf("recording history for %s: %v", e.ID, err)
		}
	}
	env.index([]storage.Entry{e})
}

func (env *Env) index(entries []storage.Entry) {
	if env.Search == nil || len(entries) == 0 {
		return
	}
	if err := env.Search.Index(entries); err != nil {
		debuglog.Warnf("indexing %d entries: %v", len(entries), err)
	}
}

// preload warms the stream cache for e without blocking.
func (env *Env) preload(e storage.Entry) {
	if env.Streams == nil || e.Kind != storage.KindVideo {
		return
	}
	env.Streams.Preload(e)
}

func (env *Env) width() int {
	if env.Renderer == nil {
		return 80
	}
	return env.Renderer.Width()
}

// channelMetaKey is where a resolved user name is cached.
func channelMetaKey(name string) string {
	return "channel:" + strings.ToLower(strings.TrimSpace(name))
}

// lookupChannel resolves a user name to a channel, consulting the store
// before the backend.
func (env *Env) lookupChannel(ctx context.Context, name string) (backend.Channel, bool, error) {
	key := channelMetaKey(name)
	if env.Store != nil {
		if v, ok, err := env.Store.GetMeta(key); err == nil && ok {
			id, title, _ := strings.Cut(v, "\t")
			return backend.Channel{ID: id, Title: title}, true, nil
		} else if err != nil {
			debuglog.Warnf("reading channel cache: %v", err)
		}
	}
	ch, found, err := env.Backend.ChannelID(ctx, name)
	if err != nil || !found {
		return ch, found, err
	}
	if env.Store != nil {
		if err := env.Store.PutMeta(key, ch.ID+"\t"+ch.Title); err != nil {
			debuglog.Warnf("caching channel %s: %v", name, err)
		}
	}
	return ch, true, nil
}
