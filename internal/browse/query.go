package browse

import (
	"context"

	"github.com/pders01/mpsh/internal/lazyseq"
)

// Mode tags how the records currently shown are interpreted and rendered.
type Mode int

const (
	ModeNormal Mode = iota
	ModePlaylists
	ModeRaw
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModePlaylists:
		return "playlists"
	case ModeRaw:
		return "raw"
	default:
		return "unknown"
	}
}

// Listing is what a query hands back for one page request.
type Listing[R any] struct {
	Seq  *lazyseq.Sequence[R]
	Mode Mode
	// Message becomes the status when the page has records, EmptyMessage
	// when it does not.
	Message      string
	EmptyMessage string
}

// Query is a handler plus the non-page arguments it was called with. Run must
// be safe to call again for any page: it may only produce that page's listing.
type Query[R any] struct {
	Name string
	Args map[string]string
	Run  func(ctx context.Context, page int) (Listing[R], error)
}

// StaticQuery wraps a fixed listing, typically a FiniteList built from local
// data, as a repeatable query.
func StaticQuery[R any](name string, l Listing[R]) Query[R] {
	return Query[R]{
		Name: name,
		Args: map[string]string{},
		Run: func(context.Context, int) (Listing[R], error) {
			return l, nil
		},
	}
}
