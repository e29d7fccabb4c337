package browse

import "fmt"

// Move is a page navigation request.
type Move struct {
	kind moveKind
	page int
}

type moveKind int

const (
	moveNext moveKind = iota
	movePrevious
	moveGoto
)

// Next asks for the page after the current one.
func Next() Move { return Move{kind: moveNext} }

// Previous asks for the page before the current one.
func Previous() Move { return Move{kind: movePrevious} }

// Goto asks for the zero-based page n.
func Goto(n int) Move { return Move{kind: moveGoto, page: n} }

func (m Move) String() string {
	switch m.kind {
	case moveNext:
		return "next"
	case movePrevious:
		return "previous"
	default:
		return fmt.Sprintf("page %d", m.page+1)
	}
}

// Cursor tracks the current page of a result set. It is a value type; the
// session replaces it wholesale when a page change is accepted.
type Cursor struct {
	page  int
	size  int
	total int
	known bool
}

// NewCursor returns a cursor on page 0 of an empty result set.
func NewCursor(size int) Cursor {
	if size < 1 {
		size = 1
	}
	return Cursor{size: size, known: true}
}

// WithTotal returns a copy of c positioned on page with the given total.
func (c Cursor) WithTotal(page, total int, known bool) Cursor {
	c.page = page
	c.total = total
	c.known = known
	return c
}

// WithSize returns a copy of c with a different page size.
func (c Cursor) WithSize(size int) Cursor {
	if size < 1 {
		size = 1
	}
	c.size = size
	return c
}

func (c Cursor) Page() int { return c.page }
func (c Cursor) Size() int { return c.size }

// Total returns the record count and whether it is known.
func (c Cursor) Total() (int, bool) { return c.total, c.known }

// Bounds returns the half-open record range [start, stop) of page.
func (c Cursor) Bounds(page int) (start, stop int) {
	return page * c.size, (page + 1) * c.size
}

// PageCount returns ceil(total / size) when the total is known.
func (c Cursor) PageCount() (int, bool) {
	if !c.known {
		return 0, false
	}
	return (c.total + c.size - 1) / c.size, true
}

// Advance resolves m against the cursor and returns the target page. Targets
// outside [0, PageCount()) are rejected with ErrNoSuchPage, never clamped.
// When the total is unknown, moving forward is always allowed.
func (c Cursor) Advance(m Move) (int, error) {
	target := c.page
	switch m.kind {
	case moveNext:
		target = c.page + 1
	case movePrevious:
		target = c.page - 1
	case moveGoto:
		target = m.page
	}

	if target < 0 {
		return c.page, fmt.Errorf("%w: no %s page", ErrNoSuchPage, m)
	}
	if count, ok := c.PageCount(); ok && target >= count {
		return c.page, fmt.Errorf("%w: no %s page", ErrNoSuchPage, m)
	}
	return target, nil
}
