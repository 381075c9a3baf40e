// Package favorites keeps the client-local favorite markers. Favorites never
// touch the server; they live under a single key of the preference store and
// persist until toggled off.
package favorites

import (
	"encoding/json"
	"fmt"
	"log"

	"fygallery/internal/prefs"
)

// Record is one favorited image. Uniqueness is by ID.
type Record struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// KeyValueStore abstracts the preference store for easier testing.
type KeyValueStore interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
}

// Store is the sole writer of the favorites key.
type Store struct {
	kv     KeyValueStore
	key    string
	logger prefs.LoggerFunc
}

// NewStore creates a favorites store on top of kv.
func NewStore(kv KeyValueStore, logger prefs.LoggerFunc) *Store {
	return &Store{kv: kv, key: prefs.KeyFavorites, logger: logger}
}

func (s *Store) logMessage(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger(fmt.Sprintf(format, args...))
	} else {
		log.Printf(format, args...)
	}
}

// List returns the stored records in insertion order.
// A corrupt stored value reads as an empty set.
func (s *Store) List() ([]Record, error) {
	data, err := s.kv.Get(s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read favorites: %w", err)
	}
	if data == nil {
		return []Record{}, nil
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		s.logMessage("Favorites data is unreadable, treating as empty: %v", err)
		return []Record{}, nil
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// Toggle flips the membership of id and returns the new state.
// The full set is rewritten on every call.
func (s *Store) Toggle(id int, title string) (bool, error) {
	records, err := s.List()
	if err != nil {
		return false, err
	}

	index := -1
	for i, r := range records {
		if r.ID == id {
			index = i
			break
		}
	}

	member := index < 0
	if member {
		records = append(records, Record{ID: id, Title: title})
	} else {
		records = append(records[:index], records[index+1:]...)
	}

	data, err := json.Marshal(records)
	if err != nil {
		return false, fmt.Errorf("failed to encode favorites: %w", err)
	}
	if err := s.kv.Put(s.key, data); err != nil {
		return false, fmt.Errorf("failed to write favorites: %w", err)
	}
	return member, nil
}

// IsFavorite reports whether any stored record carries title.
//
// Matching is by title, not id, so two images sharing a title both show as
// favorites once either is toggled. Storage is still keyed by id.
func (s *Store) IsFavorite(title string) bool {
	records, err := s.List()
	if err != nil {
		s.logMessage("IsFavorite: %v", err)
		return false
	}
	for _, r := range records {
		if r.Title == title {
			return true
		}
	}
	return false
}

// Titles returns the set of stored titles, for bulk marking after a render.
func (s *Store) Titles() (map[string]bool, error) {
	records, err := s.List()
	if err != nil {
		return nil, err
	}
	titles := make(map[string]bool, len(records))
	for _, r := range records {
		titles[r.Title] = true
	}
	return titles, nil
}
