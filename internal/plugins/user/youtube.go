// Package user holds the built-in site resolvers.
package user

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pders01/mpsh/internal/plugins"
)

const youtubeFeedBase = "https://www.youtube.com/feeds/videos.xml"

// YouTubeResolver recognizes playlist and channel links.
type YouTubeResolver struct{}

func NewYouTubeResolver() *YouTubeResolver {
	return &YouTubeResolver{}
}

func (p *YouTubeResolver) Name() string { return "youtube" }

func (p *YouTubeResolver) CanHandle(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")
	return host == "youtube.com" || host == "music.youtube.com" || host == "youtu.be"
}

func (p *YouTubeResolver) Priority() int { return 100 }

func (p *YouTubeResolver) Resolve(_ context.Context, raw string, _ *http.Client) (*plugins.Resolution, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing youtube link: %w", err)
	}

	res := &plugins.Resolution{
		OriginalURL: raw,
		Metadata:    map[string]string{"plugin": "youtube"},
	}

	if list := u.Query().Get("list"); list != "" {
		res.Target = plugins.TargetPlaylist
		res.ID = list
		res.FeedURL = youtubeFeedBase + "?playlist_id=" + url.QueryEscape(list)
		return res, nil
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	switch {
	case len(segments) >= 2 && segments[0] == "channel":
		res.Target = plugins.TargetChannel
		res.ID = segments[1]
		res.FeedURL = youtubeFeedBase + "?channel_id=" + url.QueryEscape(segments[1])
	case len(segments) >= 1 && strings.HasPrefix(segments[0], "@"):
		// handles need a lookup; the caller resolves the name to an id
		res.Target = plugins.TargetChannel
		res.Title = segments[0]
		res.Metadata["handle"] = strings.TrimPrefix(segments[0], "@")
	case len(segments) >= 2 && (segments[0] == "user" || segments[0] == "c"):
		res.Target = plugins.TargetChannel
		res.Title = segments[1]
		res.Metadata["handle"] = segments[1]
		if segments[0] == "user" {
			res.FeedURL = youtubeFeedBase + "?user=" + url.QueryEscape(segments[1])
		}
	default:
		return nil, fmt.Errorf("not a youtube playlist or channel link: %s", raw)
	}
	return res, nil
}
