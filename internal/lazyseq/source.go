package lazyseq

import "context"

// Unknown marks a total that the source has not declared.
const Unknown = -1

// ToEnd as a slice stop means "pull until the source is exhausted".
const ToEnd = -1

// Token is an opaque continuation handle handed out by a paged source.
// The empty token asks for the first page.
type Token string

// Page is one batch produced by a generator-backed source.
type Page[T any] struct {
	Records []T
	// Next is the continuation for the following page. Only meaningful when More is set.
	Next Token
	More bool
	// Total is the declared size of the whole result set, or Unknown.
	Total int
}

// PageFunc produces the page addressed by tok.
type PageFunc[T any] func(ctx context.Context, tok Token) (Page[T], error)

// Source is the closed set of shapes a result set can come in:
// FiniteList or GeneratorBacked.
type Source[T any] interface {
	open() *Sequence[T]
}

// FiniteList is an already materialized, in-memory result set.
type FiniteList[T any] struct {
	Records []T
}

func (f FiniteList[T]) open() *Sequence[T] {
	memo := make([]T, len(f.Records))
	copy(memo, f.Records)
	return &Sequence[T]{
		memo:      memo,
		exhausted: true,
		total:     len(memo),
		limit:     Unknown,
	}
}

// GeneratorBacked is a one-way, possibly infinite source that is pulled a
// page at a time.
type GeneratorBacked[T any] struct {
	Produce PageFunc[T]
	// Limit caps how many records will ever be pulled and the total that is
	// reported. Zero or negative means no cap.
	Limit int
}

func (g GeneratorBacked[T]) open() *Sequence[T] {
	limit := g.Limit
	if limit <= 0 {
		limit = Unknown
	}
	return &Sequence[T]{
		produce: g.Produce,
		total:   Unknown,
		limit:   limit,
	}
}
