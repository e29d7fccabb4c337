package search

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/pders01/mpsh/internal/debuglog"
	"github.com/pders01/mpsh/internal/lazyseq"
	"github.com/pders01/mpsh/internal/storage"
)

// bleveBatch is how many hits one page of a local search asks for.
const bleveBatch = 50

type bleveEngine struct {
	store *storage.Store
	idx   bleve.Index
}

// NewBleveEngine creates or opens a Bleve index at indexPath and indexes
// everything already in store.
func NewBleveEngine(store *storage.Store, indexPath string) (Searcher, error) {
	if err := os.MkdirAll(filepath.Dir(indexPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	idx, err := bleve.Open(indexPath)
	if err != nil {
		idx, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, err
		}
	}

	be := &bleveEngine{store: store, idx: idx}
	if err := be.reindexAll(); err != nil {
		_ = idx.Close()
		return nil, err
	}
	return be, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	title := bleve.NewTextFieldMapping()
	title.Analyzer = standard.Name
	title.IncludeTermVectors = true

	author := bleve.NewTextFieldMapping()
	author.Analyzer = standard.Name

	desc := bleve.NewTextFieldMapping()
	desc.Analyzer = standard.Name
	desc.IncludeTermVectors = false

	kind := bleve.NewTextFieldMapping()
	kind.Analyzer = keyword.Name

	// the entry itself, returned with hits so results need no store lookup
	payload := bleve.NewTextFieldMapping()
	payload.Index = false
	payload.Store = true
	payload.IncludeInAll = false

	dm.AddFieldMappingsAt("title", title)
	dm.AddFieldMappingsAt("author", author)
	dm.AddFieldMappingsAt("description", desc)
	dm.AddFieldMappingsAt("kind", kind)
	dm.AddFieldMappingsAt("payload", payload)

	im.DefaultMapping = dm
	return im
}

func (b *bleveEngine) reindexAll() error {
	entries, err := knownEntries(b.store)
	if err != nil {
		return err
	}
	return b.Index(entries)
}

// Index adds or refreshes entries in one batch.
func (b *bleveEngine) Index(entries []storage.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	batch := b.idx.NewBatch()
	for _, e := range entries {
		if e.ID == "" {
			continue
		}
		payload, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", docID(e), err)
		}
		if err := batch.Index(docID(e), map[string]any{
			"kind":        e.Kind.String(),
			"title":       e.Title,
			"author":      e.Author,
			"description": e.Description,
			"payload":     string(payload),
		}); err != nil {
			return err
		}
	}
	return b.idx.Batch(batch)
}

// Search pages through hits using the hit offset as the continuation token.
func (b *bleveEngine) Search(term string) lazyseq.PageFunc[storage.Entry] {
	return func(ctx context.Context, tok lazyseq.Token) (lazyseq.Page[storage.Entry], error) {
		q := buildQuery(term)
		if q == nil {
			return lazyseq.Page[storage.Entry]{Total: 0}, nil
		}
		from := 0
		if tok != "" {
			n, err := strconv.Atoi(string(tok))
			if err != nil || n < 0 {
				return lazyseq.Page[storage.Entry]{}, fmt.Errorf("bad search continuation %q", tok)
			}
			from = n
		}

		req := bleve.NewSearchRequestOptions(q, bleveBatch, from, false)
		req.Fields = []string{"payload"}
		res, err := b.idx.SearchInContext(ctx, req)
		if err != nil {
			return lazyseq.Page[storage.Entry]{}, err
		}

		records := make([]storage.Entry, 0, len(res.Hits))
		for _, h := range res.Hits {
			raw, _ := h.Fields["payload"].(string)
			var e storage.Entry
			if err := json.Unmarshal([]byte(raw), &e); err != nil {
				debuglog.Warnf("local search: skipping %s: %v", h.ID, err)
				continue
			}
			records = append(records, e)
		}

		next := from + len(res.Hits)
		more := len(res.Hits) > 0 && uint64(next) < res.Total
		return lazyseq.Page[storage.Entry]{
			Records: records,
			Next:    lazyseq.Token(strconv.Itoa(next)),
			More:    more,
			Total:   int(res.Total),
		}, nil
	}
}

// buildQuery ORs per-term matches across the text fields, title boosted
// highest. It returns nil when the term has nothing searchable.
func buildQuery(term string) bleveQuery.Query {
	if len(strings.TrimSpace(term)) < MinTermLength {
		return nil
	}
	var qs []bleveQuery.Query
	for _, tok := range tokenize(term) {
		for _, f := range []struct {
			field string
			boost float64
		}{
			{"title", 4.0},
			{"author", 2.0},
			{"description", 1.0},
		} {
			qm := bleve.NewMatchQuery(tok)
			qm.SetField(f.field)
			qm.SetBoost(f.boost)
			qp := bleve.NewPrefixQuery(tok)
			qp.SetField(f.field)
			qp.SetBoost(f.boost * 0.8)
			qs = append(qs, qm, qp)
		}
	}
	if len(qs) == 0 {
		return nil
	}
	return bleve.NewDisjunctionQuery(qs...)
}

// DocCount reports total documents in the index.
func (b *bleveEngine) DocCount() (int, error) {
	n, err := b.idx.DocCount()
	return int(n), err
}

// Close releases the index.
func (b *bleveEngine) Close() error {
	return b.idx.Close()
}
