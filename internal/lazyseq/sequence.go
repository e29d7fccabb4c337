// Package lazyseq provides a memoizing, range-sliceable view over result sets
// that are either already in memory or pulled page by page from a remote
// source.
//
// A Sequence is single-consumer: callers must not slice the same Sequence
// from two goroutines at once.
package lazyseq

import (
	"context"
	"fmt"
)

// Sequence memoizes every record pulled from its source. The memo is always
// a prefix of the full result set.
type Sequence[T any] struct {
	memo      []T
	produce   PageFunc[T]
	next      Token
	exhausted bool
	total     int
	limit     int
	pulls     int
	// empties counts consecutive pulls that returned no records.
	empties int
}

// maxEmptyPulls is how many empty pages in a row end a generator that keeps
// handing out fresh continuation tokens.
const maxEmptyPulls = 3

// New adapts src to the uniform slicing contract.
func New[T any](src Source[T]) *Sequence[T] {
	return src.open()
}

// FromSlice is shorthand for New(FiniteList[T]{Records: records}).
func FromSlice[T any](records []T) *Sequence[T] {
	return New[T](FiniteList[T]{Records: records})
}

// Slice returns the records in [start, stop), clamped to what the source can
// provide. stop == ToEnd pulls until exhaustion. Indices already memoized are
// never fetched again. When a pull fails the error is returned and the records
// memoized so far stay valid.
func (s *Sequence[T]) Slice(ctx context.Context, start, stop int) ([]T, error) {
	if start < 0 {
		start = 0
	}
	if stop != ToEnd && stop < start {
		stop = start
	}

	err := s.fill(ctx, stop)

	end := stop
	if end == ToEnd || end > len(s.memo) {
		end = len(s.memo)
	}
	if start >= end {
		return []T{}, err
	}

	out := make([]T, end-start)
	copy(out, s.memo[start:end])
	return out, err
}

// Len returns the declared total if there is one. Otherwise it pulls the
// source to exhaustion and returns the number of records obtained.
func (s *Sequence[T]) Len(ctx context.Context) (int, error) {
	if n, ok := s.Total(); ok {
		return n, nil
	}
	if err := s.fill(ctx, ToEnd); err != nil {
		return len(s.memo), err
	}
	s.total = len(s.memo)
	return s.total, nil
}

// Total reports the declared total without fetching anything.
func (s *Sequence[T]) Total() (int, bool) {
	if s.exhausted {
		return len(s.memo), true
	}
	if s.total == Unknown {
		return 0, false
	}
	if s.limit != Unknown && s.total > s.limit {
		return s.limit, true
	}
	return s.total, true
}

// Materialized is the number of records held in the memo.
func (s *Sequence[T]) Materialized() int {
	return len(s.memo)
}

// Exhausted reports whether the source has nothing more to give.
func (s *Sequence[T]) Exhausted() bool {
	return s.exhausted
}

// Pulls is the number of pages requested from the source so far.
func (s *Sequence[T]) Pulls() int {
	return s.pulls
}

// fill pulls pages until the memo holds at least stop records, the source is
// exhausted or the limit is reached.
func (s *Sequence[T]) fill(ctx context.Context, stop int) error {
	for !s.exhausted && (stop == ToEnd || len(s.memo) < stop) {
		if s.limit != Unknown && len(s.memo) >= s.limit {
			s.exhausted = true
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		page, err := s.produce(ctx, s.next)
		s.pulls++
		if err != nil {
			return fmt.Errorf("pulling records after index %d: %w", len(s.memo), err)
		}

		records := page.Records
		if s.limit != Unknown && len(s.memo)+len(records) > s.limit {
			records = records[:s.limit-len(s.memo)]
		}
		s.memo = append(s.memo, records...)

		if page.Total != Unknown && page.Total >= 0 {
			s.total = page.Total
		}
		if len(page.Records) == 0 {
			s.empties++
		} else {
			s.empties = 0
		}
		if !page.More || s.empties >= maxEmptyPulls || (len(page.Records) == 0 && page.Next == s.next) {
			s.exhausted = true
			break
		}
		s.next = page.Next
	}
	return nil
}
