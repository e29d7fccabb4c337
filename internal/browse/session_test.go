package browse

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/mpsh/internal/lazyseq"
)

func items(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return out
}

func finiteQuery(name string, recs []string) Query[string] {
	seq := lazyseq.FromSlice(recs)
	return Query[string]{
		Name: name,
		Run: func(context.Context, int) (Listing[string], error) {
			return Listing[string]{Seq: seq, Mode: ModeNormal, Message: "results for " + name, EmptyMessage: "nothing for " + name}, nil
		},
	}
}

// pagedQuery is generator-backed with an undeclared total; pulls counts
// generator calls.
func pagedQuery(n, pageSize int, pulls *int) Query[string] {
	produce := func(_ context.Context, tok lazyseq.Token) (lazyseq.Page[string], error) {
		*pulls++
		start := 0
		if tok != "" {
			start, _ = strconv.Atoi(string(tok))
		}
		end := min(start+pageSize, n)
		return lazyseq.Page[string]{
			Records: items("r", n)[start:end],
			Next:    lazyseq.Token(strconv.Itoa(end)),
			More:    end < n,
			Total:   lazyseq.Unknown,
		}, nil
	}
	seq := lazyseq.New[string](lazyseq.GeneratorBacked[string]{Produce: produce})
	return Query[string]{
		Name: "paged",
		Run: func(context.Context, int) (Listing[string], error) {
			return Listing[string]{Seq: seq, Mode: ModeNormal}, nil
		},
	}
}

func TestApplyQuery(t *testing.T) {
	ctx := context.Background()
	s := NewSession[string](5)

	require.NoError(t, s.ApplyQuery(ctx, finiteQuery("foo", items("a", 12)), 0))
	assert.Equal(t, items("a", 5), s.CurrentPageRecords())
	assert.Equal(t, ModeNormal, s.Mode())
	assert.Equal(t, "results for foo", s.Status())
	count, ok := s.Cursor().PageCount()
	assert.True(t, ok)
	assert.Equal(t, 3, count)

	q, ok := s.Query()
	require.True(t, ok)
	assert.Equal(t, "foo", q.Name)
}

func TestApplyQueryEmptyResult(t *testing.T) {
	s := NewSession[string](5)
	require.NoError(t, s.ApplyQuery(context.Background(), finiteQuery("foo", nil), 0))
	assert.Empty(t, s.CurrentPageRecords())
	assert.Equal(t, "nothing for foo", s.Status())
}

func TestApplyQueryFailureKeepsPreviousState(t *testing.T) {
	ctx := context.Background()
	s := NewSession[string](5)
	require.NoError(t, s.ApplyQuery(ctx, finiteQuery("foo", items("a", 12)), 1))
	before := s.CurrentPageRecords()

	failing := Query[string]{
		Name: "broken",
		Run: func(context.Context, int) (Listing[string], error) {
			return Listing[string]{}, errors.New("network unreachable")
		},
	}
	err := s.ApplyQuery(ctx, failing, 0)
	require.Error(t, err)

	assert.Equal(t, before, s.CurrentPageRecords())
	assert.Equal(t, 1, s.Cursor().Page())
	q, _ := s.Query()
	assert.Equal(t, "foo", q.Name)
	assert.Equal(t, "network unreachable", s.Status())
}

func TestApplyQuerySliceFailureKeepsPreviousState(t *testing.T) {
	ctx := context.Background()
	s := NewSession[string](5)
	require.NoError(t, s.ApplyQuery(ctx, finiteQuery("foo", items("a", 3)), 0))

	calls := 0
	produce := func(context.Context, lazyseq.Token) (lazyseq.Page[string], error) {
		calls++
		if calls > 1 {
			return lazyseq.Page[string]{}, errors.New("timeout")
		}
		return lazyseq.Page[string]{Records: items("b", 2), Next: "x", More: true, Total: lazyseq.Unknown}, nil
	}
	seq := lazyseq.New[string](lazyseq.GeneratorBacked[string]{Produce: produce})
	partial := Query[string]{
		Name: "partial",
		Run: func(context.Context, int) (Listing[string], error) {
			return Listing[string]{Seq: seq, Mode: ModePlaylists}, nil
		},
	}

	require.Error(t, s.ApplyQuery(ctx, partial, 0))
	assert.Equal(t, items("a", 3), s.CurrentPageRecords())
	assert.Equal(t, ModeNormal, s.Mode())
}

func TestNavigationBounds(t *testing.T) {
	ctx := context.Background()
	s := NewSession[string](5)
	require.NoError(t, s.ApplyQuery(ctx, finiteQuery("foo", items("a", 12)), 0))

	err := s.PreviousPage(ctx)
	require.ErrorIs(t, err, ErrNoSuchPage)
	assert.Equal(t, 0, s.Cursor().Page())
	assert.Equal(t, "No previous items to display", s.Status())

	require.NoError(t, s.NextPage(ctx))
	require.NoError(t, s.NextPage(ctx))
	assert.Equal(t, []string{"a10", "a11"}, s.CurrentPageRecords())

	err = s.NextPage(ctx)
	require.ErrorIs(t, err, ErrNoSuchPage)
	assert.Equal(t, 2, s.Cursor().Page())
	assert.Equal(t, []string{"a10", "a11"}, s.CurrentPageRecords())

	require.ErrorIs(t, s.GotoPage(ctx, 3), ErrNoSuchPage)
	require.NoError(t, s.GotoPage(ctx, 0))
	assert.Equal(t, items("a", 5), s.CurrentPageRecords())
}

func TestNavigationWithoutQuery(t *testing.T) {
	s := NewSession[string](5)
	require.ErrorIs(t, s.NextPage(context.Background()), ErrNoQuery)
}

func TestPagingReusesMemo(t *testing.T) {
	ctx := context.Background()
	pulls := 0
	s := NewSession[string](5)
	q := pagedQuery(10, 5, &pulls)

	require.NoError(t, s.ApplyQuery(ctx, q, 0))
	require.NoError(t, s.NextPage(ctx))
	assert.Equal(t, []string{"r5", "r6", "r7", "r8", "r9"}, s.CurrentPageRecords())
	assert.Equal(t, 2, pulls)

	require.NoError(t, s.PreviousPage(ctx))
	assert.Equal(t, items("r", 5), s.CurrentPageRecords())
	assert.Equal(t, 2, pulls, "going back must not re-pull the generator")
}

func TestUnknownTotalRejectsEmptyNextPage(t *testing.T) {
	ctx := context.Background()
	pulls := 0
	s := NewSession[string](5)
	require.NoError(t, s.ApplyQuery(ctx, pagedQuery(5, 5, &pulls), 0))

	err := s.NextPage(ctx)
	require.ErrorIs(t, err, ErrNoSuchPage)
	assert.Equal(t, 0, s.Cursor().Page())
	assert.Equal(t, items("r", 5), s.CurrentPageRecords())
}

func TestDump(t *testing.T) {
	ctx := context.Background()
	s := NewSession[string](5)
	require.NoError(t, s.ApplyQuery(ctx, finiteQuery("foo", items("a", 12)), 1))

	require.NoError(t, s.Dump(ctx, true))
	assert.Len(t, s.CurrentPageRecords(), 12)
	assert.True(t, s.Dumped())

	require.NoError(t, s.Dump(ctx, false))
	assert.Equal(t, items("a", 5), s.CurrentPageRecords())
	assert.False(t, s.Dumped())
}

func TestRequireAndSelect(t *testing.T) {
	ctx := context.Background()
	s := NewSession[string](5)
	require.NoError(t, s.ApplyQuery(ctx, finiteQuery("foo", items("a", 3)), 0))

	assert.NoError(t, s.Require(ModeNormal))
	assert.ErrorIs(t, s.Require(ModePlaylists), ErrWrongMode)

	got, err := s.Select([]int{3, 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"a2", "a0"}, got)

	_, err = s.Select([]int{4})
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, ok := s.Record(0)
	assert.False(t, ok)
}

func TestShowAndShowText(t *testing.T) {
	s := NewSession[string](2)
	s.Show(items("p", 3), ModePlaylists, "saved playlists")
	assert.Equal(t, ModePlaylists, s.Mode())
	assert.Equal(t, []string{"p0", "p1"}, s.CurrentPageRecords())
	require.NoError(t, s.NextPage(context.Background()))
	assert.Equal(t, []string{"p2"}, s.CurrentPageRecords())

	s.ShowText("history cleared", "done")
	assert.Equal(t, ModeRaw, s.Mode())
	assert.Empty(t, s.CurrentPageRecords())
	assert.Equal(t, "history cleared", s.Text())
	require.ErrorIs(t, s.NextPage(context.Background()), ErrNoQuery)
}

func TestRawQueryPages(t *testing.T) {
	s := NewSession[string](2)
	q := StaticQuery("comments", Listing[string]{Seq: lazyseq.FromSlice(items("c", 3)), Mode: ModeRaw})
	require.NoError(t, s.ApplyQuery(context.Background(), q, 0))
	assert.Equal(t, ModeRaw, s.Mode())

	require.NoError(t, s.NextPage(context.Background()))
	assert.Equal(t, []string{"c2"}, s.CurrentPageRecords())
	assert.Equal(t, ModeRaw, s.Mode())
}

func TestPayloadIsOneShot(t *testing.T) {
	s := NewSession[string](5)
	_, ok := s.TakePayload()
	assert.False(t, ok)

	s.SetPayload("help text")
	p, ok := s.TakePayload()
	assert.True(t, ok)
	assert.Equal(t, "help text", p)

	_, ok = s.TakePayload()
	assert.False(t, ok)
}

func TestUpdateKeepsQuery(t *testing.T) {
	ctx := context.Background()
	s := NewSession[string](5)
	require.NoError(t, s.ApplyQuery(ctx, finiteQuery("foo", items("a", 3)), 0))

	s.Update(func(r []string) []string { return r[1:] })
	assert.Equal(t, []string{"a1", "a2"}, s.CurrentPageRecords())
	_, ok := s.Query()
	assert.True(t, ok)
}
