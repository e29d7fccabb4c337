package feed

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/pders01/mpsh/internal/storage"
)

type Parser struct {
	parser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		parser: gofeed.NewParser(),
	}
}

// Parse reads a feed and returns its title and playable items in feed
// order. Items with nothing to play are dropped.
func (p *Parser) Parse(reader io.Reader) (string, []storage.Entry, error) {
	feed, err := p.parser.Parse(reader)
	if err != nil {
		return "", nil, fmt.Errorf("parsing feed: %w", err)
	}

	entries := make([]storage.Entry, 0, len(feed.Items))
	for _, item := range feed.Items {
		entry, ok := toEntry(feed, item)
		if !ok {
			continue
		}
		entries = append(entries, entry)
	}

	return feed.Title, entries, nil
}

func toEntry(feed *gofeed.Feed, item *gofeed.Item) (storage.Entry, bool) {
	entry := storage.Entry{
		Kind:        storage.KindVideo,
		Title:       strings.TrimSpace(item.Title),
		Description: item.Description,
		Author:      feed.Title,
	}
	if item.Author != nil && item.Author.Name != "" {
		entry.Author = item.Author.Name
	}
	if item.PublishedParsed != nil {
		entry.Published = *item.PublishedParsed
	}
	if item.ITunesExt != nil {
		entry.Duration = parseClock(item.ITunesExt.Duration)
	}

	if id := extValue(item, "yt", "videoId"); id != "" {
		entry.ID = id
		entry.AuthorID = extValue(item, "yt", "channelId")
		return entry, true
	}

	entry.URL = mediaURL(item)
	if entry.URL == "" {
		return storage.Entry{}, false
	}
	entry.ID = item.GUID
	if entry.ID == "" {
		entry.ID = entry.URL
	}
	return entry, true
}

func extValue(item *gofeed.Item, ns, name string) string {
	if item.Extensions == nil {
		return ""
	}
	vals := item.Extensions[ns][name]
	if len(vals) == 0 {
		return ""
	}
	return vals[0].Value
}

// mediaURL prefers an audio or video enclosure, then embedded media, then
// the item link.
func mediaURL(item *gofeed.Item) string {
	for _, enc := range item.Enclosures {
		if enc.URL == "" {
			continue
		}
		if strings.HasPrefix(enc.Type, "audio/") || strings.HasPrefix(enc.Type, "video/") {
			return enc.URL
		}
	}
	if urls := findMediaInHTML(item.Content + " " + item.Description); len(urls) > 0 {
		return urls[0]
	}
	return item.Link
}

var mediaSrc = regexp.MustCompile(`<(?:video|audio|source)[^>]+src=["']([^"']+)["']`)

func findMediaInHTML(html string) []string {
	var urls []string
	for _, match := range mediaSrc.FindAllStringSubmatch(html, -1) {
		urls = append(urls, match[1])
	}
	return urls
}

// parseClock reads itunes durations: seconds, MM:SS or HH:MM:SS.
func parseClock(s string) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	var total int
	for _, part := range strings.Split(s, ":") {
		n, err := strconv.Atoi(part)
		if err != nil {
			return 0
		}
		total = total*60 + n
	}
	return time.Duration(total) * time.Second
}
