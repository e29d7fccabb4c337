package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/mpsh/internal/config"
	"github.com/pders01/mpsh/internal/lazyseq"
	"github.com/pders01/mpsh/internal/storage"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := config.TestConfig().Backend
	cfg.BaseURL = srv.URL
	return NewClient(cfg)
}

const searchPage1 = `{
  "nextPageToken": "CDIQAA",
  "pageInfo": {"totalResults": 1000000},
  "items": [
    {"id": {"kind": "youtube#video", "videoId": "v1"}, "snippet": {"title": "First", "channelId": "UC1", "channelTitle": "Chan"}},
    {"id": {"kind": "youtube#video", "videoId": "v2"}, "snippet": {"title": "Second", "channelId": "UC1", "channelTitle": "Chan"}}
  ]
}`

const videosBody = `{
  "items": [
    {"id": "v1", "contentDetails": {"duration": "PT1H2M3S"}, "snippet": {"title": "First", "description": "about first"}},
    {"id": "v2", "contentDetails": {"duration": "PT45S"}, "snippet": {"title": "Second"}}
  ]
}`

func TestSearchVideos(t *testing.T) {
	var searches int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "mpsh-test/1.0", r.Header.Get("User-Agent"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		switch r.URL.Path {
		case "/search":
			atomic.AddInt32(&searches, 1)
			assert.Equal(t, "lofi beats", r.URL.Query().Get("q"))
			assert.Equal(t, "video", r.URL.Query().Get("type"))
			assert.Equal(t, "50", r.URL.Query().Get("maxResults"))
			fmt.Fprint(w, searchPage1)
		case "/videos":
			assert.Equal(t, "v1,v2", r.URL.Query().Get("id"))
			fmt.Fprint(w, videosBody)
		default:
			http.NotFound(w, r)
		}
	})

	page, err := c.SearchVideos("lofi beats")(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, page.Records, 2)

	first := page.Records[0]
	assert.Equal(t, storage.KindVideo, first.Kind)
	assert.Equal(t, "v1", first.ID)
	assert.Equal(t, "Chan", first.Author)
	assert.Equal(t, "UC1", first.AuthorID)
	assert.Equal(t, time.Hour+2*time.Minute+3*time.Second, first.Duration)
	assert.Equal(t, "about first", first.Description)

	assert.Equal(t, lazyseq.Token("CDIQAA"), page.Next)
	assert.True(t, page.More)
	assert.Equal(t, 500, page.Total, "declared totals are capped")
	assert.EqualValues(t, 1, searches)
}

func TestSearchVideosPassesPageToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/search" {
			assert.Equal(t, "CDIQAA", r.URL.Query().Get("pageToken"))
			fmt.Fprint(w, `{"pageInfo": {"totalResults": 3}, "items": [{"id": {"videoId": "v3"}, "snippet": {"title": "Third"}}]}`)
			return
		}
		fmt.Fprint(w, `{"items": []}`)
	})

	page, err := c.SearchVideos("x")(context.Background(), "CDIQAA")
	require.NoError(t, err)
	assert.False(t, page.More)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, "v3", page.Records[0].ID)
}

func TestSearchVideosDurationFailureIsNotFatal(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/videos" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, searchPage1)
	})

	page, err := c.SearchVideos("x")(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, page.Records, 2)
	assert.Zero(t, page.Records[0].Duration)
}

func TestUpstreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error": {"code": 403, "message": "quota exceeded"}}`)
	})

	_, err := c.SearchVideos("x")(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstream))

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusForbidden, fe.StatusCode)
	assert.Equal(t, "search", fe.Endpoint)
	assert.Contains(t, fe.Error(), "quota exceeded")
}

func TestNetworkErrorIsUpstream(t *testing.T) {
	cfg := config.TestConfig().Backend
	cfg.BaseURL = "http://127.0.0.1:1"
	c := NewClient(cfg)

	_, err := c.SearchPlaylists("x")(context.Background(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestMalformedSalvage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/search" {
			fmt.Fprint(w, `{"items": [
				{"id": {"videoId": "ok"}, "snippet": {"title": "fine"}},
				{"id": 42, "snippet": {"title": "bad id"}},
				{"id": {"videoId": ""}, "snippet": {"title": "no id"}},
				"not even an object"
			]}`)
			return
		}
		fmt.Fprint(w, `{"items": []}`)
	})

	page, err := c.SearchVideos("x")(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	assert.Equal(t, "ok", page.Records[0].ID)
	assert.Equal(t, lazyseq.Unknown, page.Total)
}

func TestMalformedNothingSalvageable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items": [{"id": 1}, {"id": {"videoId": ""}}]}`)
	})

	_, err := c.SearchVideos("x")(context.Background(), "")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestMalformedEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>not json</html>`)
	})

	_, err := c.SearchVideos("x")(context.Background(), "")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestSearchPlaylists(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			assert.Equal(t, "playlist", r.URL.Query().Get("type"))
			fmt.Fprint(w, `{"pageInfo": {"totalResults": 2}, "items": [
				{"id": {"kind": "youtube#playlist", "playlistId": "PL1"}, "snippet": {"title": "Mix", "channelTitle": "Someone"}},
				{"id": {"kind": "youtube#playlist", "playlistId": "PL2"}, "snippet": {"title": "Other"}}
			]}`)
		case "/playlists":
			assert.Equal(t, "PL1,PL2", r.URL.Query().Get("id"))
			fmt.Fprint(w, `{"items": [{"id": "PL1", "contentDetails": {"itemCount": 12}}, {"id": "PL2", "contentDetails": {"itemCount": 3}}]}`)
		}
	})

	page, err := c.SearchPlaylists("mix")(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, page.Records, 2)
	assert.Equal(t, storage.KindPlaylist, page.Records[0].Kind)
	assert.Equal(t, "PL1", page.Records[0].ID)
	assert.Equal(t, 12, page.Records[0].Count)
	assert.Equal(t, 3, page.Records[1].Count)
}

func TestPlaylistItems(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/playlistItems":
			assert.Equal(t, "PL1", r.URL.Query().Get("playlistId"))
			fmt.Fprint(w, `{"items": [
				{"id": "UExpdGVt", "snippet": {"title": "Track", "resourceId": {"videoId": "v9"}, "videoOwnerChannelTitle": "Artist", "videoOwnerChannelId": "UC9"}, "contentDetails": {"videoId": "v9"}}
			]}`)
		case "/videos":
			fmt.Fprint(w, `{"items": [{"id": "v9", "contentDetails": {"duration": "PT3M"}}]}`)
		}
	})

	page, err := c.PlaylistItems("PL1")(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	e := page.Records[0]
	assert.Equal(t, "v9", e.ID)
	assert.Equal(t, "Artist", e.Author)
	assert.Equal(t, "UC9", e.AuthorID)
	assert.Equal(t, 3*time.Minute, e.Duration)
}

func TestChannelVideosAndRelatedParams(t *testing.T) {
	var seen []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/search" {
			seen = append(seen, r.URL.RawQuery)
		}
		fmt.Fprint(w, `{"items": []}`)
	})

	_, err := c.ChannelVideos("UC1", "")(context.Background(), "")
	require.NoError(t, err)
	_, err = c.Related("v1")(context.Background(), "")
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.Contains(t, seen[0], "channelId=UC1")
	assert.Contains(t, seen[0], "order=date")
	assert.Contains(t, seen[1], "relatedToVideoId=v1")
}

func TestChannelID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Query().Get("q"), "nobody") {
			fmt.Fprint(w, `{"items": []}`)
			return
		}
		assert.Equal(t, "channel", r.URL.Query().Get("type"))
		fmt.Fprint(w, `{"items": [{"id": {"kind": "youtube#channel", "channelId": "UCabc"}, "snippet": {"title": "Some Band", "channelId": "UCabc"}}]}`)
	})

	ch, found, err := c.ChannelID(context.Background(), "some band")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, Channel{ID: "UCabc", Title: "Some Band"}, ch)

	_, found, err = c.ChannelID(context.Background(), "nobody at all")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestParseISODuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"PT4M13S", 4*time.Minute + 13*time.Second},
		{"PT1H", time.Hour},
		{"P1DT2H", 26 * time.Hour},
		{"PT0S", 0},
		{"", 0},
		{"4:13", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseISODuration(tt.in), tt.in)
	}
}

func TestFetchErrorMessage(t *testing.T) {
	assert.Equal(t, "search: HTTP 500", (&FetchError{Endpoint: "search", StatusCode: 500}).Error())
	wrapped := &FetchError{Endpoint: "videos", Err: errors.New("dial tcp: refused")}
	assert.Equal(t, "videos: dial tcp: refused", wrapped.Error())
	assert.ErrorIs(t, wrapped, ErrUpstream)
}

func TestPageTokensDriveLazySequence(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			fmt.Fprint(w, `{"items": []}`)
			return
		}
		switch r.URL.Query().Get("pageToken") {
		case "":
			fmt.Fprint(w, `{"nextPageToken": "p2", "items": [{"id": {"videoId": "a"}}, {"id": {"videoId": "b"}}]}`)
		case "p2":
			fmt.Fprint(w, `{"items": [{"id": {"videoId": "c"}}]}`)
		default:
			t.Errorf("unexpected token %q", r.URL.Query().Get("pageToken"))
		}
	})

	seq := lazyseq.New[storage.Entry](lazyseq.GeneratorBacked[storage.Entry]{Produce: c.SearchVideos("x"), Limit: c.MaxTotal()})
	n, err := seq.Len(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
