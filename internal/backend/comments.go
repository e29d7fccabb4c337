package backend

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/pders01/mpsh/internal/lazyseq"
	"github.com/pders01/mpsh/internal/storage"
)

type rawThread struct {
	ID      string `json:"id"`
	Snippet struct {
		TopLevelComment struct {
			ID      string `json:"id"`
			Snippet struct {
				Author      string `json:"authorDisplayName"`
				Text        string `json:"textDisplay"`
				PublishedAt string `json:"publishedAt"`
				AuthorID    struct {
					Value string `json:"value"`
				} `json:"authorChannelId"`
			} `json:"snippet"`
		} `json:"topLevelComment"`
	} `json:"snippet"`
}

// Comments pages through the top level comments on a video. The API reports
// per-page counts only, so the total stays unknown until the last page.
func (c *Client) Comments(videoID string) lazyseq.PageFunc[storage.Entry] {
	return func(ctx context.Context, tok lazyseq.Token) (lazyseq.Page[storage.Entry], error) {
		params := c.params(url.Values{"videoId": {videoID}}, tok)
		params.Set("part", "snippet")
		params.Set("textFormat", "plainText")
		params.Del("regionCode")

		lr, err := c.get(ctx, "commentThreads", params)
		if err != nil {
			return lazyseq.Page[storage.Entry]{}, err
		}
		entries, err := decodeEach("commentThreads", lr.Items, toComment(videoID))
		if err != nil {
			return lazyseq.Page[storage.Entry]{}, err
		}

		kept := entries[:0]
		for _, e := range entries {
			if strings.TrimSpace(e.Description) != "" {
				kept = append(kept, e)
			}
		}
		page := c.page(kept, lr)
		page.Total = lazyseq.Unknown
		return page, nil
	}
}

func toComment(videoID string) func(*rawThread) (storage.Entry, error) {
	return func(t *rawThread) (storage.Entry, error) {
		top := t.Snippet.TopLevelComment
		id := top.ID
		if id == "" {
			id = t.ID
		}
		if id == "" {
			return storage.Entry{}, fmt.Errorf("comment has no id")
		}
		return storage.Entry{
			Kind:        storage.KindComment,
			ID:          id,
			URL:         "https://www.youtube.com/watch?v=" + videoID + "&lc=" + id,
			Author:      top.Snippet.Author,
			AuthorID:    top.Snippet.AuthorID.Value,
			Published:   parseTime(top.Snippet.PublishedAt),
			Description: strings.TrimSpace(top.Snippet.Text),
		}, nil
	}
}
