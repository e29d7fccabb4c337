package backend

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/pders01/mpsh/internal/debuglog"
	"github.com/pders01/mpsh/internal/lazyseq"
	"github.com/pders01/mpsh/internal/storage"
)

// Channel is the result of a channel name lookup.
type Channel struct {
	ID    string
	Title string
}

// SearchVideos pages through video hits for term.
func (c *Client) SearchVideos(term string) lazyseq.PageFunc[storage.Entry] {
	return c.searchVideos(url.Values{"q": {term}})
}

// Related pages through videos related to videoID.
func (c *Client) Related(videoID string) lazyseq.PageFunc[storage.Entry] {
	return c.searchVideos(url.Values{"relatedToVideoId": {videoID}})
}

// ChannelVideos pages through a channel's uploads, newest first,
// optionally narrowed by term.
func (c *Client) ChannelVideos(channelID, term string) lazyseq.PageFunc[storage.Entry] {
	params := url.Values{"channelId": {channelID}, "order": {"date"}}
	if term != "" {
		params.Set("q", term)
		params.Del("order")
	}
	return c.searchVideos(params)
}

func (c *Client) searchVideos(base url.Values) lazyseq.PageFunc[storage.Entry] {
	return func(ctx context.Context, tok lazyseq.Token) (lazyseq.Page[storage.Entry], error) {
		params := c.params(base, tok)
		params.Set("part", "id,snippet")
		params.Set("type", "video")

		lr, err := c.get(ctx, "search", params)
		if err != nil {
			return lazyseq.Page[storage.Entry]{}, err
		}
		entries, err := decodeEach("search", lr.Items, toVideo(false))
		if err != nil {
			return lazyseq.Page[storage.Entry]{}, err
		}
		c.addDurations(ctx, entries)
		return c.page(entries, lr), nil
	}
}

// SearchPlaylists pages through playlist hits for term.
func (c *Client) SearchPlaylists(term string) lazyseq.PageFunc[storage.Entry] {
	return func(ctx context.Context, tok lazyseq.Token) (lazyseq.Page[storage.Entry], error) {
		params := c.params(url.Values{"q": {term}}, tok)
		params.Set("part", "id,snippet")
		params.Set("type", "playlist")

		lr, err := c.get(ctx, "search", params)
		if err != nil {
			return lazyseq.Page[storage.Entry]{}, err
		}
		entries, err := decodeEach("search", lr.Items, toPlaylist)
		if err != nil {
			return lazyseq.Page[storage.Entry]{}, err
		}
		c.addItemCounts(ctx, entries)
		return c.page(entries, lr), nil
	}
}

// ChannelPlaylists pages through the playlists a channel owns.
func (c *Client) ChannelPlaylists(channelID string) lazyseq.PageFunc[storage.Entry] {
	return func(ctx context.Context, tok lazyseq.Token) (lazyseq.Page[storage.Entry], error) {
		params := c.params(url.Values{"channelId": {channelID}}, tok)
		params.Set("part", "snippet,contentDetails")

		lr, err := c.get(ctx, "playlists", params)
		if err != nil {
			return lazyseq.Page[storage.Entry]{}, err
		}
		entries, err := decodeEach("playlists", lr.Items, toPlaylist)
		if err != nil {
			return lazyseq.Page[storage.Entry]{}, err
		}
		return c.page(entries, lr), nil
	}
}

// PlaylistItems pages through the videos of a remote playlist.
func (c *Client) PlaylistItems(playlistID string) lazyseq.PageFunc[storage.Entry] {
	return func(ctx context.Context, tok lazyseq.Token) (lazyseq.Page[storage.Entry], error) {
		params := c.params(url.Values{"playlistId": {playlistID}}, tok)
		params.Set("part", "snippet,contentDetails")
		params.Del("regionCode")

		lr, err := c.get(ctx, "playlistItems", params)
		if err != nil {
			return lazyseq.Page[storage.Entry]{}, err
		}
		entries, err := decodeEach("playlistItems", lr.Items, toVideo(false))
		if err != nil {
			return lazyseq.Page[storage.Entry]{}, err
		}
		c.addDurations(ctx, entries)
		return c.page(entries, lr), nil
	}
}

// Videos looks up full details for up to fifty video ids.
func (c *Client) Videos(ctx context.Context, ids []string) ([]storage.Entry, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	params := url.Values{
		"part": {"contentDetails,snippet"},
		"id":   {strings.Join(ids, ",")},
	}
	lr, err := c.get(ctx, "videos", params)
	if err != nil {
		return nil, err
	}
	return decodeEach("videos", lr.Items, toVideo(true))
}

// ChannelID finds the channel best matching name. A name with no match is
// reported through found.
func (c *Client) ChannelID(ctx context.Context, name string) (ch Channel, found bool, err error) {
	params := url.Values{
		"part":       {"id,snippet"},
		"type":       {"channel"},
		"maxResults": {"1"},
		"q":          {name},
	}
	lr, err := c.get(ctx, "search", params)
	if err != nil {
		return Channel{}, false, err
	}
	for _, raw := range lr.Items {
		var it rawItem
		if jsonErr := decodeItem(raw, &it); jsonErr != nil {
			debuglog.Warnf("channel lookup: skipping item: %v", jsonErr)
			continue
		}
		_, _, id, idErr := it.ids()
		if idErr != nil || id == "" {
			id = it.Snippet.ChannelID
		}
		if id == "" {
			continue
		}
		title := it.Snippet.Title
		if title == "" {
			title = it.Snippet.ChannelTitle
		}
		return Channel{ID: id, Title: title}, true, nil
	}
	return Channel{}, false, nil
}

func (c *Client) params(base url.Values, tok lazyseq.Token) url.Values {
	params := url.Values{}
	for k, v := range base {
		params[k] = append([]string(nil), v...)
	}
	params.Set("maxResults", strconv.Itoa(pageSize))
	if tok != "" {
		params.Set("pageToken", string(tok))
	}
	if c.region != "" {
		params.Set("regionCode", c.region)
	}
	return params
}

func (c *Client) page(entries []storage.Entry, lr *listResponse) lazyseq.Page[storage.Entry] {
	total := lazyseq.Unknown
	if lr.PageInfo.TotalResults > 0 {
		total = c.capTotal(lr.PageInfo.TotalResults)
	}
	return lazyseq.Page[storage.Entry]{
		Records: entries,
		Next:    lazyseq.Token(lr.NextPageToken),
		More:    lr.NextPageToken != "",
		Total:   total,
	}
}

// addDurations fills in durations from the videos endpoint. Search results
// are usable without them, so a failure only costs the durations.
func (c *Client) addDurations(ctx context.Context, entries []storage.Entry) {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Duration == 0 {
			ids = append(ids, e.ID)
		}
	}
	if len(ids) == 0 {
		return
	}
	details, err := c.Videos(ctx, ids)
	if err != nil {
		debuglog.Warnf("fetching durations: %v", err)
		return
	}
	byID := make(map[string]storage.Entry, len(details))
	for _, d := range details {
		byID[d.ID] = d
	}
	for i := range entries {
		d, ok := byID[entries[i].ID]
		if !ok {
			continue
		}
		entries[i].Duration = d.Duration
		if entries[i].Description == "" {
			entries[i].Description = d.Description
		}
	}
}

// addItemCounts fills in playlist sizes, which search results lack.
func (c *Client) addItemCounts(ctx context.Context, entries []storage.Entry) {
	if len(entries) == 0 {
		return
	}
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	params := url.Values{
		"part":       {"contentDetails"},
		"id":         {strings.Join(ids, ",")},
		"maxResults": {strconv.Itoa(pageSize)},
	}
	lr, err := c.get(ctx, "playlists", params)
	if err != nil {
		debuglog.Warnf("fetching playlist sizes: %v", err)
		return
	}
	details, err := decodeEach("playlists", lr.Items, toPlaylist)
	if err != nil {
		debuglog.Warnf("fetching playlist sizes: %v", err)
		return
	}
	counts := make(map[string]int, len(details))
	for _, d := range details {
		counts[d.ID] = d.Count
	}
	for i := range entries {
		entries[i].Count = counts[entries[i].ID]
	}
}
