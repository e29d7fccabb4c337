// Package browse holds the state of what the shell is currently showing and
// how to fetch any other page of it.
package browse

import (
	"context"
	"errors"
	"fmt"

	"github.com/pders01/mpsh/internal/lazyseq"
)

// Session is the single browse state of a shell. It is owned by the
// dispatcher goroutine and is not safe for concurrent use.
type Session[R any] struct {
	records []R
	mode    Mode
	text    string
	query   *Query[R]
	cursor  Cursor
	dumped  bool

	status     string
	payload    string
	hasPayload bool
}

// snapshot is a fully computed replacement state, applied in one step.
type snapshot[R any] struct {
	records []R
	mode    Mode
	query   Query[R]
	cursor  Cursor
	dumped  bool
	status  string
}

// NewSession returns an empty session showing nothing in normal mode.
func NewSession[R any](pageSize int) *Session[R] {
	return &Session[R]{
		records: []R{},
		mode:    ModeNormal,
		cursor:  NewCursor(pageSize),
	}
}

// ApplyQuery runs q for page and, only if that succeeds, replaces the
// current query, cursor, records and mode together.
func (s *Session[R]) ApplyQuery(ctx context.Context, q Query[R], page int) error {
	snap, err := s.load(ctx, q, page, false)
	if err != nil {
		if !errors.Is(err, ErrNoSuchPage) {
			s.status = err.Error()
		}
		return err
	}
	s.commit(snap)
	return nil
}

// NextPage moves to the following page.
func (s *Session[R]) NextPage(ctx context.Context) error {
	return s.move(ctx, Next())
}

// PreviousPage moves to the preceding page.
func (s *Session[R]) PreviousPage(ctx context.Context) error {
	return s.move(ctx, Previous())
}

// GotoPage moves to the zero-based page n.
func (s *Session[R]) GotoPage(ctx context.Context, n int) error {
	return s.move(ctx, Goto(n))
}

// Dump replaces the current page with the whole result set of the current
// query. Undump (on == false) goes back to the first page.
func (s *Session[R]) Dump(ctx context.Context, on bool) error {
	if s.query == nil {
		s.status = "Nothing to dump"
		return ErrNoQuery
	}
	snap, err := s.load(ctx, *s.query, 0, on)
	if err != nil {
		s.status = err.Error()
		return err
	}
	s.commit(snap)
	return nil
}

func (s *Session[R]) move(ctx context.Context, m Move) error {
	if s.query == nil {
		s.status = fmt.Sprintf("No %s items to display", m)
		return ErrNoQuery
	}
	target, err := s.cursor.Advance(m)
	if err != nil {
		s.status = fmt.Sprintf("No %s items to display", m)
		return err
	}
	snap, err := s.load(ctx, *s.query, target, false)
	if err != nil {
		if errors.Is(err, ErrNoSuchPage) {
			s.status = fmt.Sprintf("No %s items to display", m)
		} else {
			s.status = err.Error()
		}
		return err
	}
	s.commit(snap)
	return nil
}

// load computes the state for page of q without touching the session.
func (s *Session[R]) load(ctx context.Context, q Query[R], page int, dump bool) (snapshot[R], error) {
	if q.Run == nil {
		return snapshot[R]{}, fmt.Errorf("query %q has no handler", q.Name)
	}
	listing, err := q.Run(ctx, page)
	if err != nil {
		return snapshot[R]{}, err
	}
	if listing.Seq == nil {
		listing.Seq = lazyseq.FromSlice[R](nil)
	}

	start, stop := s.cursor.Bounds(page)
	if dump {
		start, stop = 0, lazyseq.ToEnd
	}
	records, err := listing.Seq.Slice(ctx, start, stop)
	if err != nil {
		return snapshot[R]{}, err
	}

	total, known := listing.Seq.Total()
	cursor := s.cursor.WithTotal(page, total, known)
	if page > 0 {
		if len(records) == 0 {
			return snapshot[R]{}, ErrNoSuchPage
		}
		if count, ok := cursor.PageCount(); ok && page >= count {
			return snapshot[R]{}, ErrNoSuchPage
		}
	}

	status := listing.Message
	if len(records) == 0 && listing.EmptyMessage != "" {
		status = listing.EmptyMessage
	}
	return snapshot[R]{
		records: records,
		mode:    listing.Mode,
		query:   q,
		cursor:  cursor,
		dumped:  dump,
		status:  status,
	}, nil
}

func (s *Session[R]) commit(snap snapshot[R]) {
	q := snap.query
	s.query = &q
	s.records = snap.records
	s.mode = snap.mode
	s.text = ""
	s.cursor = snap.cursor
	s.dumped = snap.dumped
	s.status = snap.status
}

// CurrentPageRecords returns a copy of the records on the current page.
func (s *Session[R]) CurrentPageRecords() []R {
	out := make([]R, len(s.records))
	copy(out, s.records)
	return out
}

// Len is the number of records on the current page.
func (s *Session[R]) Len() int { return len(s.records) }

func (s *Session[R]) Mode() Mode     { return s.mode }
func (s *Session[R]) Cursor() Cursor { return s.cursor }
func (s *Session[R]) Dumped() bool   { return s.dumped }

// Text is the body shown in raw mode.
func (s *Session[R]) Text() string { return s.text }

// Query returns the current repeatable query, if any.
func (s *Session[R]) Query() (Query[R], bool) {
	if s.query == nil {
		return Query[R]{}, false
	}
	return *s.query, true
}

// Require fails with ErrWrongMode unless the session is in mode m.
func (s *Session[R]) Require(m Mode) error {
	if s.mode != m {
		return fmt.Errorf("%w: showing %s items", ErrWrongMode, s.mode)
	}
	return nil
}

// Record returns the record numbered n (1-based) on the current page.
func (s *Session[R]) Record(n int) (R, bool) {
	var zero R
	if n < 1 || n > len(s.records) {
		return zero, false
	}
	return s.records[n-1], true
}

// Select returns the records numbered by nums (1-based), in the given order.
func (s *Session[R]) Select(nums []int) ([]R, error) {
	out := make([]R, 0, len(nums))
	for _, n := range nums {
		r, ok := s.Record(n)
		if !ok {
			return nil, fmt.Errorf("%w: item %d not on this page", ErrOutOfRange, n)
		}
		out = append(out, r)
	}
	return out, nil
}

// Update replaces the current page records with fn's result, keeping mode,
// query and cursor.
func (s *Session[R]) Update(fn func([]R) []R) {
	s.records = fn(s.CurrentPageRecords())
}

// Show pages through an in-memory list of records from its first page.
func (s *Session[R]) Show(records []R, mode Mode, status string) {
	q := StaticQuery(mode.String(), Listing[R]{Seq: lazyseq.FromSlice(records), Mode: mode})
	// a finite list cannot fail to slice
	snap, _ := s.load(context.Background(), q, 0, false)
	snap.status = status
	s.commit(snap)
}

// ShowText switches to raw mode with body as the content. Raw text has no
// query behind it, so it cannot be paged.
func (s *Session[R]) ShowText(body, status string) {
	s.query = nil
	s.records = []R{}
	s.mode = ModeRaw
	s.text = body
	s.cursor = s.cursor.WithTotal(0, 0, true)
	s.dumped = false
	s.status = status
}

// SetPageSize changes the session-wide page size.
func (s *Session[R]) SetPageSize(n int) { s.cursor = s.cursor.WithSize(n) }

func (s *Session[R]) PageSize() int { return s.cursor.Size() }

func (s *Session[R]) SetStatus(msg string) { s.status = msg }
func (s *Session[R]) Status() string       { return s.status }

// SetPayload leaves content to be shown instead of the page on the next render.
func (s *Session[R]) SetPayload(content string) {
	s.payload = content
	s.hasPayload = true
}

// TakePayload returns and clears the pending payload.
func (s *Session[R]) TakePayload() (string, bool) {
	p, ok := s.payload, s.hasPayload
	s.payload, s.hasPayload = "", false
	return p, ok
}

// Clear resets the session to an empty normal list.
func (s *Session[R]) Clear() {
	s.query = nil
	s.records = []R{}
	s.mode = ModeNormal
	s.text = ""
	s.cursor = s.cursor.WithTotal(0, 0, true)
	s.dumped = false
}
