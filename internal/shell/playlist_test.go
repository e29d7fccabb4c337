package shell

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/mpsh/internal/browse"
	"github.com/pders01/mpsh/internal/storage"
)

func TestSaveListOpenAndDelete(t *testing.T) {
	h := newHarness(t)
	h.backend.videos["golang"] = videos("go", 3)
	h.run(t, "search golang", "save mylist")

	p, found, err := h.env.Store.GetPlaylist("mylist")
	require.NoError(t, err)
	require.True(t, found)
	assert.Len(t, p.Entries, 3)

	h.run(t, "ls")
	assert.Equal(t, browse.ModePlaylists, h.env.Session.Mode())
	assert.Equal(t, []string{"mylist"}, titles(h.env.Session.CurrentPageRecords()))

	h.run(t, "1")
	assert.Equal(t, "Showing playlist mylist", h.env.Session.Status())
	assert.Equal(t, 3, h.env.Session.Len())
	assert.Empty(t, h.env.LastOpened)

	h.run(t, "open my")
	assert.Equal(t, "mylist", h.env.LastOpened)
	assert.Len(t, h.env.Working.Entries, 3)

	h.run(t, "play mylist")
	require.Len(t, h.player.calls, 1)
	assert.Len(t, h.player.calls[0].entries, 3)

	h.run(t, "ls", "rmp 1")
	assert.Equal(t, "Deleted playlist mylist", h.env.Session.Status())
	assert.Empty(t, h.env.LastOpened)
	_, found, err = h.env.Store.GetPlaylist("mylist")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestOpenUnknownPlaylist(t *testing.T) {
	h := newHarness(t)
	d := h.dispatcher(false, nil, nil)

	out := d.Handle(context.Background(), "open nothing")
	assert.Error(t, out.Err)
	assert.Equal(t, "Playlist nothing not found", h.env.Session.Status())

	out = d.Handle(context.Background(), "view 4")
	assert.ErrorIs(t, out.Err, browse.ErrOutOfRange)

	out = d.Handle(context.Background(), "ls")
	assert.NoError(t, out.Err)
	assert.Equal(t, MsgNoPlaylists, h.env.Session.Status())
}

func TestSaveWithoutNameDerivesOne(t *testing.T) {
	h := newHarness(t)
	h.backend.videos["jazz"] = []storage.Entry{video("j1", "Jazz for coding"), video("j2", "More jazz")}
	h.run(t, "search jazz", "save", "save")

	all, err := h.env.Store.AllPlaylists()
	require.NoError(t, err)
	names := make([]string, len(all))
	for i, p := range all {
		names[i] = p.Name
	}
	assert.Equal(t, []string{"Jazz-for-coding", "Jazz-for-coding-1"}, names)
}

func TestDerivedNameDropsLeadingDigitsBeforeDedup(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.env.Store.SavePlaylist(&storage.Playlist{Name: "Hits", Entries: []storage.Entry{video("old", "Old hit")}}))
	h.backend.videos["hits"] = []storage.Entry{video("h1", "99Hits"), video("h2", "More")}
	h.run(t, "search hits", "save")

	kept, found, err := h.env.Store.GetPlaylist("Hits")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{"Old hit"}, titles(kept.Entries), "existing playlist is not overwritten")

	derived, found, err := h.env.Store.GetPlaylist("Hits-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{"99Hits", "More"}, titles(derived.Entries))
}

func TestSaveAfterOpenOverwrites(t *testing.T) {
	h := newHarness(t)
	h.backend.videos["golang"] = videos("go", 3)
	h.run(t, "search golang", "save gophers", "open gophers", "rm 1", "save")

	p, _, err := h.env.Store.GetPlaylist("gophers")
	require.NoError(t, err)
	assert.Equal(t, []string{"go video 2", "go video 3"}, titles(p.Entries))
}

func TestWorkingPlaylist(t *testing.T) {
	h := newHarness(t)
	h.backend.videos["golang"] = videos("go", 3)
	h.run(t, "search golang", "add 1-2")
	assert.Contains(t, h.env.Session.Status(), "Added 2 tracks to current playlist")

	h.run(t, "add 2,3")
	assert.Contains(t, h.env.Session.Status(), "skipped 1 already present")
	assert.Equal(t, []string{"go video 1", "go video 2", "go video 3"}, titles(h.env.Working.Entries))

	h.run(t, "reverse all")
	assert.Equal(t, "Reversed entire playlist", h.env.Session.Status())
	assert.Equal(t, []string{"go video 3", "go video 2", "go video 1"}, titles(h.env.Session.CurrentPageRecords()))

	h.run(t, "vp")
	assert.Equal(t, 3, h.env.Session.Len())
}

func TestReverseAllWithoutPlaylist(t *testing.T) {
	h := newHarness(t)
	out := h.dispatcher(false, nil, nil).Handle(context.Background(), "reverse all")

	assert.Error(t, out.Err)
	assert.Equal(t, "No playlist loaded", h.env.Session.Status())
}

func TestAddToNamedAndRename(t *testing.T) {
	h := newHarness(t)
	h.backend.videos["golang"] = videos("go", 3)
	h.run(t, "search golang", "add 1 focus")
	assert.Equal(t, "Created playlist focus with 1 tracks", h.env.Session.Status())

	h.run(t, "add 2-3 focus")
	p, _, err := h.env.Store.GetPlaylist("focus")
	require.NoError(t, err)
	assert.Len(t, p.Entries, 3)

	h.run(t, "mv focus deep work")
	assert.Equal(t, "Renamed playlist focus to deep-work", h.env.Session.Status())

	h.run(t, "mv 1 flow")
	_, found, err := h.env.Store.GetPlaylist("flow")
	require.NoError(t, err)
	assert.True(t, found)
}
