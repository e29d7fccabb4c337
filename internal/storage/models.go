package storage

import (
	"time"
)

// Kind distinguishes playable items from playlist references and comments.
type Kind int

const (
	KindVideo Kind = iota
	KindPlaylist
	KindComment
)

func (k Kind) String() string {
	switch k {
	case KindPlaylist:
		return "playlist"
	case KindComment:
		return "comment"
	default:
		return "video"
	}
}

// Entry is one record of a result set: a playable item, a playlist or a
// comment on a video, whose text is held in Description.
type Entry struct {
	Kind        Kind          `json:"kind"`
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	URL         string        `json:"url"`
	Author      string        `json:"author"`
	AuthorID    string        `json:"author_id"`
	Duration    time.Duration `json:"duration"`
	Published   time.Time     `json:"published"`
	Description string        `json:"description"`
	Count       int           `json:"count"`
}

// Link returns a URL a browser or player can open.
func (e Entry) Link() string {
	if e.URL != "" {
		return e.URL
	}
	if e.Kind == KindPlaylist {
		return "https://www.youtube.com/playlist?list=" + e.ID
	}
	return "https://www.youtube.com/watch?v=" + e.ID
}

// Playlist is a named, user-saved list of entries.
type Playlist struct {
	Name      string    `json:"name"`
	Entries   []Entry   `json:"entries"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Duration sums the known durations of the playlist's entries.
func (p Playlist) Duration() time.Duration {
	var d time.Duration
	for _, e := range p.Entries {
		d += e.Duration
	}
	return d
}

// Contains reports whether an entry with the same ID is already present.
func (p Playlist) Contains(e Entry) bool {
	for _, x := range p.Entries {
		if x.ID == e.ID {
			return true
		}
	}
	return false
}

// HistoryEntry records one playback.
type HistoryEntry struct {
	Entry    Entry     `json:"entry"`
	PlayedAt time.Time `json:"played_at"`
}
