package shell

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pders01/mpsh/internal/backend"
	"github.com/pders01/mpsh/internal/browse"
	"github.com/pders01/mpsh/internal/config"
	"github.com/pders01/mpsh/internal/feed"
	"github.com/pders01/mpsh/internal/lazyseq"
	"github.com/pders01/mpsh/internal/media"
	"github.com/pders01/mpsh/internal/search"
	"github.com/pders01/mpsh/internal/storage"
	"github.com/pders01/mpsh/internal/tui"
)

const fakePageSize = 4

// fakeBackend serves canned listings keyed by term, id or channel.
type fakeBackend struct {
	videos    map[string][]storage.Entry
	playlists map[string][]storage.Entry
	items     map[string][]storage.Entry
	channels  map[string]backend.Channel
	comments  map[string][]storage.Entry
	err       error

	lookups int
	pulls   int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		videos:    map[string][]storage.Entry{},
		playlists: map[string][]storage.Entry{},
		items:     map[string][]storage.Entry{},
		channels:  map[string]backend.Channel{},
		comments:  map[string][]storage.Entry{},
	}
}

func (b *fakeBackend) pages(records []storage.Entry) lazyseq.PageFunc[storage.Entry] {
	return func(_ context.Context, tok lazyseq.Token) (lazyseq.Page[storage.Entry], error) {
		b.pulls++
		if b.err != nil {
			return lazyseq.Page[storage.Entry]{}, b.err
		}
		start := 0
		if tok != "" {
			start, _ = strconv.Atoi(string(tok))
		}
		end := min(start+fakePageSize, len(records))
		p := lazyseq.Page[storage.Entry]{Records: records[start:end], Total: len(records)}
		if end < len(records) {
			p.More = true
			p.Next = lazyseq.Token(strconv.Itoa(end))
		}
		return p, nil
	}
}

func (b *fakeBackend) SearchVideos(term string) lazyseq.PageFunc[storage.Entry] {
	return b.pages(b.videos[term])
}

func (b *fakeBackend) SearchPlaylists(term string) lazyseq.PageFunc[storage.Entry] {
	return b.pages(b.playlists[term])
}

func (b *fakeBackend) PlaylistItems(id string) lazyseq.PageFunc[storage.Entry] {
	return b.pages(b.items[id])
}

func (b *fakeBackend) Related(id string) lazyseq.PageFunc[storage.Entry] {
	return b.pages(b.videos["related:"+id])
}

func (b *fakeBackend) ChannelVideos(channelID, term string) lazyseq.PageFunc[storage.Entry] {
	return b.pages(b.videos["channel:"+channelID])
}

func (b *fakeBackend) ChannelPlaylists(channelID string) lazyseq.PageFunc[storage.Entry] {
	return b.pages(b.playlists["channel:"+channelID])
}

func (b *fakeBackend) Videos(_ context.Context, ids []string) ([]storage.Entry, error) {
	out := make([]storage.Entry, len(ids))
	for i, id := range ids {
		out[i] = video(id, "Video "+id)
	}
	return out, nil
}

func (b *fakeBackend) ChannelID(_ context.Context, name string) (backend.Channel, bool, error) {
	b.lookups++
	ch, ok := b.channels[name]
	return ch, ok, nil
}

func (b *fakeBackend) Comments(videoID string) lazyseq.PageFunc[storage.Entry] {
	return b.pages(b.comments[videoID])
}

func (b *fakeBackend) MaxTotal() int { return 500 }

type fakeAlbums struct {
	albums map[string]backend.Album
}

func (f *fakeAlbums) FindAlbum(_ context.Context, title string) (backend.Album, bool, error) {
	a, ok := f.albums[title]
	return a, ok, nil
}

func comment(id, author, text string) storage.Entry {
	return storage.Entry{Kind: storage.KindComment, ID: id, Author: author, Description: text}
}

type playCall struct {
	entries []storage.Entry
	opts    media.Options
}

type fakePlayer struct {
	calls   []playCall
	err     error
	onStart func(storage.Entry)
}

func (p *fakePlayer) Play(_ context.Context, entries []storage.Entry, opts media.Options) error {
	p.calls = append(p.calls, playCall{entries: entries, opts: opts})
	if p.err != nil {
		return p.err
	}
	for _, e := range entries {
		if p.onStart != nil {
			p.onStart(e)
		}
	}
	return nil
}

type fakeClipboard struct{ text string }

func (c *fakeClipboard) WriteAll(text string) error {
	c.text = text
	return nil
}

type fakeOpener struct{ opened []string }

func (o *fakeOpener) Open(link string) error {
	o.opened = append(o.opened, link)
	return nil
}

// scriptedReader replays lines; an error entry is returned instead of a
// line. Past the end it reports io.EOF.
type scriptedReader struct {
	steps []any
	reads int
}

func (r *scriptedReader) ReadLine(context.Context, string) (string, error) {
	if r.reads >= len(r.steps) {
		r.reads++
		return "", io.EOF
	}
	step := r.steps[r.reads]
	r.reads++
	if err, ok := step.(error); ok {
		return "", err
	}
	return step.(string), nil
}

func video(id, title string) storage.Entry {
	return storage.Entry{
		Kind:     storage.KindVideo,
		ID:       id,
		Title:    title,
		Author:   "Gopher",
		AuthorID: "UCgopher",
		Duration: 3 * time.Minute,
	}
}

func videos(prefix string, n int) []storage.Entry {
	out := make([]storage.Entry, n)
	for i := range out {
		out[i] = video(fmt.Sprintf("%s%02d", prefix, i+1), fmt.Sprintf("%s video %d", prefix, i+1))
	}
	return out
}

type fakeFeeds struct {
	listings map[string]feed.Listing
	calls    int
}

func (f *fakeFeeds) List(_ context.Context, rawURL string) (feed.Listing, error) {
	f.calls++
	l, ok := f.listings[rawURL]
	if !ok {
		return feed.Listing{}, fmt.Errorf("no feed at %s", rawURL)
	}
	return l, nil
}

type harness struct {
	env       *Env
	backend   *fakeBackend
	player    *fakePlayer
	clipboard *fakeClipboard
	opener    *fakeOpener
	feeds     *fakeFeeds
	albums    *fakeAlbums
	out       *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store, err := storage.NewStore(filepath.Join(t.TempDir(), "shell.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	cfg := config.TestConfig()
	cfg.UI.PageSize = 3
	cfg.UI.Columns = 100

	h := &harness{
		backend:   newFakeBackend(),
		player:    &fakePlayer{},
		clipboard: &fakeClipboard{},
		opener:    &fakeOpener{},
		feeds:     &fakeFeeds{listings: map[string]feed.Listing{}},
		albums:    &fakeAlbums{albums: map[string]backend.Album{}},
		out:       &bytes.Buffer{},
	}
	h.env = &Env{
		Session:   browse.NewSession[storage.Entry](cfg.UI.PageSize),
		Store:     store,
		Backend:   h.backend,
		Feeds:     h.feeds,
		Albums:    h.albums,
		Search:    search.NewEngine(store),
		Player:    h.player,
		Opener:    h.opener,
		Clipboard: h.clipboard,
		Renderer:  tui.NewRenderer(cfg.UI),
		Config:    cfg,
	}
	h.player.onStart = h.env.RecordPlay
	return h
}

func (h *harness) dispatcher(batch bool, queue []string, reader tui.LineReader) *Dispatcher {
	if reader == nil {
		reader = &scriptedReader{}
	}
	return New(Options{
		Env:      h.env,
		Reader:   reader,
		Renderer: h.env.Renderer,
		Out:      h.out,
		Queue:    queue,
		Batch:    batch,
	})
}

// run handles lines one by one, failing the test on any that fails.
func (h *harness) run(t *testing.T, lines ...string) *Dispatcher {
	t.Helper()
	d := h.dispatcher(false, nil, nil)
	for _, line := range lines {
		out := d.Handle(context.Background(), line)
		require.NoError(t, out.Err, "line %q (status %q)", line, h.env.Session.Status())
	}
	return d
}

func titles(entries []storage.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Title
	}
	return out
}
