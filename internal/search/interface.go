// Package search finds entries the user has already met: everything played
// or saved is indexed locally and can be searched without the backend.
package search

import (
	"github.com/pders01/mpsh/internal/lazyseq"
	"github.com/pders01/mpsh/internal/storage"
)

// MinTermLength is the shortest term a search will run for.
const MinTermLength = 2

// Searcher is the local search API used by the shell.
type Searcher interface {
	// Search pages through entries matching term, best first.
	Search(term string) lazyseq.PageFunc[storage.Entry]
	// Index adds or refreshes entries.
	Index(entries []storage.Entry) error
}

// DebugStatser provides lightweight stats for visibility/debugging.
type DebugStatser interface {
	DocCount() (int, error)
}

// docID keys an entry in the index. The same id can name a video and a
// playlist, so the kind is part of the key.
func docID(e storage.Entry) string {
	return e.Kind.String() + ":" + e.ID
}

// knownEntries collects every entry the store knows about, newest history
// first, each kind:id once.
func knownEntries(store *storage.Store) ([]storage.Entry, error) {
	seen := map[string]bool{}
	var out []storage.Entry
	add := func(e storage.Entry) {
		if e.ID == "" || seen[docID(e)] {
			return
		}
		seen[docID(e)] = true
		out = append(out, e)
	}

	history, err := store.History()
	if err != nil {
		return nil, err
	}
	for _, h := range history {
		add(h.Entry)
	}

	playlists, err := store.AllPlaylists()
	if err != nil {
		return nil, err
	}
	for _, p := range playlists {
		for _, e := range p.Entries {
			add(e)
		}
	}
	return out, nil
}
