package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	playlistsBucket = []byte("playlists")
	historyBucket   = []byte("history")
	metaBucket      = []byte("metadata")
)

// MaxHistory bounds how many playbacks are kept.
const MaxHistory = 2000

type Store struct {
	db *bolt.DB
}

func NewStore(dbPath string) (*Store, error) {
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{playlistsBucket, historyBucket, metaBucket} {
			if _, createErr := tx.CreateBucketIfNotExists(bucket); createErr != nil {
				return createErr
			}
		}
		return nil
	})

	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) SavePlaylist(p *Playlist) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("playlist name cannot be empty")
	}
	p.UpdatedAt = time.Now()
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(playlistsBucket)
		data, err := json.Marshal(p)
		if err != nil {
			return err
		}
		return b.Put([]byte(p.Name), data)
	})
}

// GetPlaylist looks a playlist up by exact name. A missing playlist is
// reported through found, not through err.
func (s *Store) GetPlaylist(name string) (p Playlist, found bool, err error) {
	err = s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(playlistsBucket).Get([]byte(name))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &p)
	})
	return p, found, err
}

// AllPlaylists returns every saved playlist sorted by name.
func (s *Store) AllPlaylists() ([]Playlist, error) {
	var playlists []Playlist
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(playlistsBucket).ForEach(func(_ []byte, v []byte) error {
			var p Playlist
			if err := json.Unmarshal(v, &p); err != nil {
				return err
			}
			playlists = append(playlists, p)
			return nil
		})
	})
	sort.Slice(playlists, func(i, j int) bool {
		return strings.ToLower(playlists[i].Name) < strings.ToLower(playlists[j].Name)
	})
	return playlists, err
}

func (s *Store) DeletePlaylist(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(playlistsBucket)
		if b.Get([]byte(name)) == nil {
			return fmt.Errorf("playlist %q not found", name)
		}
		return b.Delete([]byte(name))
	})
}

// RenamePlaylist moves a playlist to a new name in one transaction.
func (s *Store) RenamePlaylist(from, to string) error {
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("playlist name cannot be empty")
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(playlistsBucket)
		data := b.Get([]byte(from))
		if data == nil {
			return fmt.Errorf("playlist %q not found", from)
		}
		if b.Get([]byte(to)) != nil {
			return fmt.Errorf("playlist %q already exists", to)
		}

		var p Playlist
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		p.Name = to
		p.UpdatedAt = time.Now()

		out, err := json.Marshal(p)
		if err != nil {
			return err
		}
		if err := b.Put([]byte(to), out); err != nil {
			return err
		}
		return b.Delete([]byte(from))
	})
}

// AppendHistory records a playback, trimming the oldest beyond MaxHistory.
func (s *Store) AppendHistory(e Entry, playedAt time.Time) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(historyBucket)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		data, err := json.Marshal(HistoryEntry{Entry: e, PlayedAt: playedAt})
		if err != nil {
			return err
		}
		if err := b.Put(itob(seq), data); err != nil {
			return err
		}

		excess := b.Stats().KeyN - MaxHistory
		c := b.Cursor()
		for k, _ := c.First(); k != nil && excess > 0; k, _ = c.Next() {
			if err := c.Delete(); err != nil {
				return err
			}
			excess--
		}
		return nil
	})
}

// History returns playbacks, most recent first.
func (s *Store) History() ([]HistoryEntry, error) {
	var out []HistoryEntry
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(historyBucket).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var h HistoryEntry
			if err := json.Unmarshal(v, &h); err != nil {
				continue
			}
			out = append(out, h)
		}
		return nil
	})
	return out, err
}

func (s *Store) ClearHistory() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(historyBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucket(historyBucket)
		return err
	})
}

func (s *Store) PutMeta(key, value string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(metaBucket).Put([]byte(key), []byte(value))
	})
}

// GetMeta returns the stored value and whether the key exists.
func (s *Store) GetMeta(key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		if data := tx.Bucket(metaBucket).Get([]byte(key)); data != nil {
			value, found = string(data), true
		}
		return nil
	})
	return value, found, err
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
