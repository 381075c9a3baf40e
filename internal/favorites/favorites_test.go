package favorites

import (
	"encoding/json"
	"errors"
	"testing"

	"fygallery/internal/prefs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *prefs.Store) {
	t.Helper()
	kv, err := prefs.Open(t.TempDir(), func(string) {})
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })
	return NewStore(kv, func(msg string) { t.Logf("favorites: %s", msg) }), kv
}

func storedRecords(t *testing.T, kv *prefs.Store) []Record {
	t.Helper()
	data, err := kv.Get(prefs.KeyFavorites)
	require.NoError(t, err)
	var records []Record
	require.NoError(t, json.Unmarshal(data, &records))
	return records
}

func TestToggleInsertsThenRemoves(t *testing.T) {
	s, kv := newTestStore(t)

	on, err := s.Toggle(7, "Sunset")
	require.NoError(t, err)
	assert.True(t, on)
	assert.Equal(t, []Record{{ID: 7, Title: "Sunset"}}, storedRecords(t, kv))

	off, err := s.Toggle(7, "Sunset")
	require.NoError(t, err)
	assert.False(t, off)
	assert.Empty(t, storedRecords(t, kv))
}

func TestToggleIsAnInvolution(t *testing.T) {
	s, kv := newTestStore(t)
	_, err := s.Toggle(1, "Beach")
	require.NoError(t, err)

	for _, r := range []Record{{ID: 1, Title: "Beach"}, {ID: 2, Title: "Forest"}} {
		before := s.IsFavorite(r.Title)
		_, err := s.Toggle(r.ID, r.Title)
		require.NoError(t, err)
		_, err = s.Toggle(r.ID, r.Title)
		require.NoError(t, err)
		assert.Equal(t, before, s.IsFavorite(r.Title), "id %d", r.ID)
	}
	assert.Equal(t, []Record{{ID: 1, Title: "Beach"}}, storedRecords(t, kv))
}

func TestRemovalIsByIDNotTitle(t *testing.T) {
	s, kv := newTestStore(t)
	_, err := s.Toggle(1, "Old title")
	require.NoError(t, err)

	// Same id, renamed on the server: still removes the record.
	on, err := s.Toggle(1, "New title")
	require.NoError(t, err)
	assert.False(t, on)
	assert.Empty(t, storedRecords(t, kv))
}

func TestIsFavoriteMatchesByTitle(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Toggle(1, "Twin")
	require.NoError(t, err)

	// A different image that happens to share the title reads as favorited too.
	assert.True(t, s.IsFavorite("Twin"))
	assert.False(t, s.IsFavorite("twin"))

	titles, err := s.Titles()
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"Twin": true}, titles)
}

func TestCorruptDataReadsAsEmpty(t *testing.T) {
	s, kv := newTestStore(t)
	require.NoError(t, kv.Put(prefs.KeyFavorites, []byte("{not json")))

	records, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, records)

	on, err := s.Toggle(3, "Fresh")
	require.NoError(t, err)
	assert.True(t, on)
	assert.Equal(t, []Record{{ID: 3, Title: "Fresh"}}, storedRecords(t, kv))
}

type failingKV struct{}

func (failingKV) Get(string) ([]byte, error) { return nil, nil }
func (failingKV) Put(string, []byte) error   { return errors.New("disk full") }

func TestToggleReportsWriteFailure(t *testing.T) {
	s := NewStore(failingKV{}, func(string) {})
	_, err := s.Toggle(1, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
