package backend

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/pders01/mpsh/internal/debuglog"
	"github.com/pders01/mpsh/internal/storage"
)

type rawItem struct {
	ID      json.RawMessage `json:"id"`
	Snippet struct {
		Title        string `json:"title"`
		Description  string `json:"description"`
		ChannelID    string `json:"channelId"`
		ChannelTitle string `json:"channelTitle"`
		PublishedAt  string `json:"publishedAt"`
		ResourceID   struct {
			VideoID string `json:"videoId"`
		} `json:"resourceId"`
		// playlist items carry the uploader of the video here
		VideoOwnerChannelID    string `json:"videoOwnerChannelId"`
		VideoOwnerChannelTitle string `json:"videoOwnerChannelTitle"`
	} `json:"snippet"`
	ContentDetails struct {
		VideoID   string `json:"videoId"`
		Duration  string `json:"duration"`
		ItemCount int    `json:"itemCount"`
	} `json:"contentDetails"`
}

type compoundID struct {
	Kind       string `json:"kind"`
	VideoID    string `json:"videoId"`
	PlaylistID string `json:"playlistId"`
	ChannelID  string `json:"channelId"`
}

// ids returns the video, playlist and channel ids an item names, in
// whichever of the response shapes it came.
func (it *rawItem) ids() (video, playlist, channel string, err error) {
	video = it.ContentDetails.VideoID
	if video == "" {
		video = it.Snippet.ResourceID.VideoID
	}
	if len(it.ID) == 0 {
		return video, "", "", nil
	}
	if it.ID[0] == '"' {
		var plain string
		if err := json.Unmarshal(it.ID, &plain); err != nil {
			return "", "", "", err
		}
		return video, plain, plain, nil
	}
	var cid compoundID
	if err := json.Unmarshal(it.ID, &cid); err != nil {
		return "", "", "", err
	}
	if video == "" {
		video = cid.VideoID
	}
	return video, cid.PlaylistID, cid.ChannelID, nil
}

// decodeEach decodes raw items one at a time. Items that fail to decode
// are skipped with a warning; ErrMalformed is returned only when there
// were items and none survived.
func decodeEach[R any](endpoint string, items []json.RawMessage, conv func(*R) (storage.Entry, error)) ([]storage.Entry, error) {
	out := make([]storage.Entry, 0, len(items))
	for i, raw := range items {
		var it R
		if err := json.Unmarshal(raw, &it); err != nil {
			debuglog.Warnf("%s: skipping item %d: %v", endpoint, i, err)
			continue
		}
		e, err := conv(&it)
		if err != nil {
			debuglog.Warnf("%s: skipping item %d: %v", endpoint, i, err)
			continue
		}
		out = append(out, e)
	}
	if len(items) > 0 && len(out) == 0 {
		return nil, fmt.Errorf("%s: %w: none of %d items could be read", endpoint, ErrMalformed, len(items))
	}
	return out, nil
}

func decodeItem(raw json.RawMessage, it *rawItem) error {
	return json.Unmarshal(raw, it)
}

// toVideo builds a video entry. plainIsVideo says a bare string id is a
// video id, which holds only for the videos endpoint.
func toVideo(plainIsVideo bool) func(*rawItem) (storage.Entry, error) {
	return func(it *rawItem) (storage.Entry, error) {
		video, plain, _, err := it.ids()
		if err != nil {
			return storage.Entry{}, err
		}
		if video == "" && plainIsVideo {
			video = plain
		}
		if video == "" {
			return storage.Entry{}, fmt.Errorf("item has no video id")
		}
		author, authorID := it.Snippet.ChannelTitle, it.Snippet.ChannelID
		if it.Snippet.VideoOwnerChannelID != "" {
			author, authorID = it.Snippet.VideoOwnerChannelTitle, it.Snippet.VideoOwnerChannelID
		}
		return storage.Entry{
			Kind:        storage.KindVideo,
			ID:          video,
			Title:       it.Snippet.Title,
			Author:      author,
			AuthorID:    authorID,
			Duration:    parseISODuration(it.ContentDetails.Duration),
			Published:   parseTime(it.Snippet.PublishedAt),
			Description: it.Snippet.Description,
		}, nil
	}
}

func toPlaylist(it *rawItem) (storage.Entry, error) {
	_, playlist, _, err := it.ids()
	if err != nil {
		return storage.Entry{}, err
	}
	if playlist == "" {
		return storage.Entry{}, fmt.Errorf("item has no playlist id")
	}
	return storage.Entry{
		Kind:        storage.KindPlaylist,
		ID:          playlist,
		Title:       it.Snippet.Title,
		Author:      it.Snippet.ChannelTitle,
		AuthorID:    it.Snippet.ChannelID,
		Published:   parseTime(it.Snippet.PublishedAt),
		Description: it.Snippet.Description,
		Count:       it.ContentDetails.ItemCount,
	}, nil
}

var isoDuration = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// parseISODuration reads the PT#H#M#S form; anything else is zero.
func parseISODuration(s string) time.Duration {
	m := isoDuration.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	units := []time.Duration{24 * time.Hour, time.Hour, time.Minute, time.Second}
	var d time.Duration
	for i, u := range units {
		if m[i+1] == "" {
			continue
		}
		n, _ := strconv.Atoi(m[i+1])
		d += time.Duration(n) * u
	}
	return d
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
