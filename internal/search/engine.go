package search

import (
	"context"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/pders01/mpsh/internal/lazyseq"
	"github.com/pders01/mpsh/internal/storage"
)

// Engine scores entries straight from the store without an index. It is
// used when the bleve index cannot be opened.
type Engine struct {
	store *storage.Store
	extra map[string]storage.Entry
}

// NewEngine creates a new search engine
func NewEngine(store *storage.Store) *Engine {
	return &Engine{store: store, extra: map[string]storage.Entry{}}
}

// Index remembers entries that are not in the store yet (feed listings,
// for example) for the rest of the session.
func (e *Engine) Index(entries []storage.Entry) error {
	for _, en := range entries {
		if en.ID != "" {
			e.extra[docID(en)] = en
		}
	}
	return nil
}

// Search scores every known entry and returns the matches as one page.
func (e *Engine) Search(term string) lazyseq.PageFunc[storage.Entry] {
	return func(ctx context.Context, _ lazyseq.Token) (lazyseq.Page[storage.Entry], error) {
		results, err := e.search(term)
		if err != nil {
			return lazyseq.Page[storage.Entry]{}, err
		}
		return lazyseq.Page[storage.Entry]{Records: results, Total: len(results)}, nil
	}
}

type scored struct {
	entry storage.Entry
	score float64
}

func (e *Engine) search(term string) ([]storage.Entry, error) {
	if len(strings.TrimSpace(term)) < MinTermLength {
		return []storage.Entry{}, nil
	}
	terms := tokenize(term)
	if len(terms) == 0 {
		return []storage.Entry{}, nil
	}

	entries, err := knownEntries(e.store)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(entries))
	for _, en := range entries {
		seen[docID(en)] = true
	}
	for id, en := range e.extra {
		if !seen[id] {
			entries = append(entries, en)
		}
	}

	var hits []scored
	for _, en := range entries {
		s := scoreField(en.Title, terms, 4.0) +
			scoreField(en.Author, terms, 2.0) +
			scoreField(en.Description, terms, 1.0)
		if s > 0 {
			hits = append(hits, scored{entry: en, score: s})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})

	out := make([]storage.Entry, len(hits))
	for i, h := range hits {
		out[i] = h.entry
	}
	return out, nil
}

// scoreField calculates relevance score for a field
func scoreField(text string, terms []string, weight float64) float64 {
	if text == "" {
		return 0
	}

	lower := strings.ToLower(text)
	words := tokenize(text)
	if len(words) == 0 {
		return 0
	}

	var score float64
	matchedTerms := 0

	for _, term := range terms {
		if strings.Contains(lower, term) {
			score += 2.0
			matchedTerms++
		}

		for _, word := range words {
			switch {
			case word == term:
				score += 1.5
				matchedTerms++
			case strings.HasPrefix(word, term) || strings.HasSuffix(word, term):
				score += 1.0
				matchedTerms++
			case strings.Contains(word, term):
				score += 0.5
				matchedTerms++
			}
		}
	}

	if len(terms) > 1 && matchedTerms > 1 {
		score *= 1.0 + float64(matchedTerms)/float64(len(terms))
	}

	tf := float64(matchedTerms) / float64(len(words))
	score *= 1.0 + math.Log(1.0+tf)

	return score * weight
}

// tokenize breaks text into lower-case searchable terms, skipping single
// characters.
func tokenize(text string) []string {
	var terms []string
	current := strings.Builder{}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(unicode.ToLower(r))
		} else if current.Len() > 0 {
			if term := current.String(); len([]rune(term)) > 1 {
				terms = append(terms, term)
			}
			current.Reset()
		}
	}

	if len([]rune(current.String())) > 1 {
		terms = append(terms, current.String())
	}

	return terms
}
