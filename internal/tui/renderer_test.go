package tui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/mpsh/internal/browse"
	"github.com/pders01/mpsh/internal/config"
	"github.com/pders01/mpsh/internal/lazyseq"
	"github.com/pders01/mpsh/internal/storage"
)

func testRenderer() *Renderer {
	cfg := config.TestConfig().UI
	cfg.Columns = 80
	cfg.ShowStatus = true
	return NewRenderer(cfg)
}

func TestRenderVideos(t *testing.T) {
	r := testRenderer()
	out := r.View(Frame{
		Mode: browse.ModeNormal,
		Records: []storage.Entry{
			{Kind: storage.KindVideo, ID: "a", Title: "First video", Author: "Someone", Duration: 3*time.Minute + 7*time.Second},
			{Kind: storage.KindVideo, ID: "b", Title: strings.Repeat("very long title ", 10), Published: time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)},
		},
		Status: "Search results for foo",
		Pages:  3,
		Page:   1,
	})

	assert.Contains(t, out, "Num")
	assert.Contains(t, out, "First video")
	assert.Contains(t, out, "Someone")
	assert.Contains(t, out, "3:07")
	assert.Contains(t, out, "2024-05-06")
	assert.Contains(t, out, "…", "long titles are truncated")
	assert.Contains(t, out, "Page 2 of 3")
	assert.Contains(t, out, "Search results for foo")
}

func TestRenderPlaylists(t *testing.T) {
	r := testRenderer()
	out := r.View(Frame{
		Mode: browse.ModePlaylists,
		Records: []storage.Entry{
			{Kind: storage.KindPlaylist, ID: "PL1", Title: "Road trip", Count: 42},
		},
		Pages: -1,
	})
	assert.Contains(t, out, "Playlist")
	assert.Contains(t, out, "Road trip")
	assert.Contains(t, out, "42")
	assert.Contains(t, out, "Page 1", "unknown totals still show the page")
	assert.NotContains(t, out, " of ")
}

func TestRenderRaw(t *testing.T) {
	r := testRenderer()
	out := r.View(Frame{Mode: browse.ModeRaw, Text: "some text\n", Status: "ok"})
	assert.True(t, strings.HasPrefix(out, "some text\n"))
	assert.NotContains(t, out, "Page")
}

func TestRenderComments(t *testing.T) {
	r := testRenderer()
	comments := []storage.Entry{
		{Kind: storage.KindComment, ID: "c1", Author: "ann", Description: "great track"},
		{Kind: storage.KindComment, ID: "c2", Author: "bob", Description: "meh"},
	}
	out := r.View(Frame{Mode: browse.ModeRaw, Records: comments, Offset: 20, Page: 1, Pages: -1})
	assert.Contains(t, out, "21 ann")
	assert.Contains(t, out, "great track")
	assert.Contains(t, out, "22 bob")
	assert.Contains(t, out, "Page 2", "comment pages get the pager footer")
}

func TestRenderDumped(t *testing.T) {
	r := testRenderer()
	out := r.View(Frame{Records: []storage.Entry{{ID: "a"}, {ID: "b"}}, Dumped: true, Pages: 1})
	assert.Contains(t, out, "All 2 items")
}

func TestRenderHidesStatusWhenDisabled(t *testing.T) {
	cfg := config.TestConfig().UI
	cfg.Columns = 80
	cfg.ShowStatus = false
	r := NewRenderer(cfg)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, Frame{Mode: browse.ModeRaw, Text: "x", Status: "hidden"}))
	assert.NotContains(t, buf.String(), "hidden")
}

func TestFrameFor(t *testing.T) {
	s := browse.NewSession[storage.Entry](2)
	records := []storage.Entry{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	q := browse.StaticQuery("list", browse.Listing[storage.Entry]{Seq: lazyseq.FromSlice(records), Message: "three"})
	require.NoError(t, s.ApplyQuery(t.Context(), q, 1))

	f := FrameFor(s)
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 2, f.Pages)
	assert.Equal(t, "three", f.Status)
	require.Len(t, f.Records, 1)
	assert.Equal(t, "c", f.Records[0].ID)
	assert.Equal(t, 2, f.Offset)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "", FormatDuration(0))
	assert.Equal(t, "0:05", FormatDuration(5*time.Second))
	assert.Equal(t, "12:00", FormatDuration(12*time.Minute))
	assert.Equal(t, "1:01:01", FormatDuration(time.Hour+time.Minute+time.Second))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncateEnd("abc", 5))
	assert.Equal(t, "ab…", truncateEnd("abcdef", 3))
	assert.Equal(t, "", truncateEnd("abc", 0))
	assert.Equal(t, "日…", truncateEnd("日本語", 4), "wide runes count as two cells")
	assert.Equal(t, "ab…ef", TruncateMiddle("abcdef", 5))
	assert.Equal(t, "abc  ", fit("abc", 5))
}
