package browse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorBounds(t *testing.T) {
	c := NewCursor(5)
	start, stop := c.Bounds(0)
	assert.Equal(t, 0, start)
	assert.Equal(t, 5, stop)

	start, stop = c.Bounds(3)
	assert.Equal(t, 15, start)
	assert.Equal(t, 20, stop)
}

func TestCursorPageCount(t *testing.T) {
	tests := []struct {
		name  string
		total int
		known bool
		size  int
		want  int
		ok    bool
	}{
		{name: "exact", total: 10, known: true, size: 5, want: 2, ok: true},
		{name: "partial last page", total: 11, known: true, size: 5, want: 3, ok: true},
		{name: "empty", total: 0, known: true, size: 5, want: 0, ok: true},
		{name: "unknown", known: false, size: 5, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCursor(tt.size).WithTotal(0, tt.total, tt.known)
			got, ok := c.PageCount()
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCursorAdvance(t *testing.T) {
	known := NewCursor(5).WithTotal(0, 12, true) // pages 0..2
	unknown := NewCursor(5).WithTotal(0, 0, false)

	tests := []struct {
		name    string
		cursor  Cursor
		move    Move
		want    int
		wantErr bool
	}{
		{name: "next from first", cursor: known, move: Next(), want: 1},
		{name: "previous at page 0", cursor: known, move: Previous(), wantErr: true},
		{name: "goto last", cursor: known, move: Goto(2), want: 2},
		{name: "goto past end", cursor: known, move: Goto(3), wantErr: true},
		{name: "goto negative", cursor: known, move: Goto(-1), wantErr: true},
		{name: "next past end", cursor: known.WithTotal(2, 12, true), move: Next(), wantErr: true},
		{name: "previous from last", cursor: known.WithTotal(2, 12, true), move: Previous(), want: 1},
		{name: "unknown total always allows next", cursor: unknown.WithTotal(40, 0, false), move: Next(), want: 41},
		{name: "unknown total still rejects previous at 0", cursor: unknown, move: Previous(), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cursor.Advance(tt.move)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrNoSuchPage)
				assert.Equal(t, tt.cursor.Page(), got, "rejected move must not change the page")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCursorSizeFloor(t *testing.T) {
	assert.Equal(t, 1, NewCursor(0).Size())
	assert.Equal(t, 1, NewCursor(3).WithSize(-2).Size())
}
