//nolint:testpackage // White-box tests require access to unexported identifiers in this package.
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestStorage_RecordPersistence(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "nested", "history.json")

	s, err := NewStorage(path, 0)
	require.NoError(t, err)
	require.Empty(t, s.Data.Lookups)

	require.NoError(t, s.Record(Lookup{CharacterID: "12345", Status: map[string]any{"job": "WHM"}}))

	// Read raw file to ensure fields are stored
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	require.Equal(t, "12345", raw["last_character_id"])
	require.Len(t, raw["lookups"], 1)

	// Re-open and ensure persistence
	s2, err := NewStorage(path, 0)
	require.NoError(t, err)
	require.Equal(t, "12345", s2.Data.LastCharacterID)
	require.Len(t, s2.Data.Lookups, 1)
	l := s2.Data.Lookups[0]
	_, err = uuid.Parse(l.ID)
	require.NoError(t, err)
	require.False(t, l.FetchedAt.IsZero())
	require.Equal(t, "WHM", l.Status["job"])
}

func TestStorage_RecordTrimsToLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	s, err := NewStorage(path, 2)
	require.NoError(t, err)

	for _, id := range []string{"1", "2", "3"} {
		require.NoError(t, s.Record(Lookup{CharacterID: id}))
	}
	require.Len(t, s.Data.Lookups, 2)
	require.Equal(t, "2", s.Data.Lookups[0].CharacterID)
	require.Equal(t, "3", s.Data.Lookups[1].CharacterID)
	require.Equal(t, "3", s.Data.LastCharacterID)
}

func TestStorage_RecordRejectsInvalid(t *testing.T) {
	s, err := NewStorage(filepath.Join(t.TempDir(), "history.json"), 0)
	require.NoError(t, err)

	require.Error(t, s.Record(Lookup{CharacterID: "abc"}))
	require.Error(t, s.Record(Lookup{ID: "not-a-uuid", CharacterID: "1"}))
	require.Empty(t, s.Data.Lookups)
	require.Empty(t, s.Data.LastCharacterID)
}

func TestStorage_LoadSelfHeals(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	good := Lookup{ID: uuid.NewString(), CharacterID: "7", FetchedAt: time.Now().UTC()}
	bad := Lookup{ID: "broken", CharacterID: "7", FetchedAt: time.Now().UTC()}
	raw, err := json.Marshal(Data{LastCharacterID: "not-digits", Lookups: []Lookup{good, bad}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	s, err := NewStorage(path, 0)
	require.NoError(t, err)
	require.Empty(t, s.Data.LastCharacterID)
	require.Len(t, s.Data.Lookups, 1)
	require.Equal(t, good.ID, s.Data.Lookups[0].ID)

	// The healed file was written back.
	s2, err := NewStorage(path, 0)
	require.NoError(t, err)
	require.Len(t, s2.Data.Lookups, 1)
}

func TestStorage_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	s, err := NewStorage(path, 0)
	require.NoError(t, err)
	require.NoError(t, s.Record(Lookup{CharacterID: "99"}))

	require.NoError(t, s.Clear())
	s2, err := NewStorage(path, 0)
	require.NoError(t, err)
	require.Empty(t, s2.Data.Lookups)
	require.Equal(t, "99", s2.Data.LastCharacterID)
}

func TestStorage_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err := NewStorage(path, 0)
	require.Error(t, err)
}

func TestNewStorage_RejectsDirectoryPath(t *testing.T) {
	dir := t.TempDir()
	_, err := NewStorage(dir, 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid storage path")

	_, err = NewStorage("", 0)
	require.Error(t, err)

	s, err := NewStorage(filepath.Join(dir, "nested", "history.json"), 0)
	require.NoError(t, err)
	require.Empty(t, s.Data.Lookups)
}
