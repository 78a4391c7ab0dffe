package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ffajobchange/ffa-status/internal/config"
	"github.com/ffajobchange/ffa-status/internal/validate"
)

// DefaultPath is the history file used by the CLI.
const DefaultPath = "~/.ffa-status/history.json"

// Lookup is one recorded status lookup.
type Lookup struct {
	ID          string         `json:"id" validate:"required,uuid4"`
	CharacterID string         `json:"character_id" validate:"character_id"`
	FetchedAt   time.Time      `json:"fetched_at" validate:"required"`
	Status      map[string]any `json:"status,omitempty"`
	Error       string         `json:"error,omitempty"`
	Extended    bool           `json:"extended,omitempty"`
}

// Data represents the structure of the storage file.
type Data struct {
	LastCharacterID string   `json:"last_character_id,omitempty" validate:"omitempty,character_id"`
	Lookups         []Lookup `json:"lookups" validate:"dive"`
}

// Storage handles the loading and saving of the storage file.
type Storage struct {
	Path  string `validate:"required,filepath"`
	Limit int
	Data  Data
}

// NewStorage creates a Storage for path, loading it when it exists.
// limit caps the number of kept lookups; zero keeps all of them.
func NewStorage(path string, limit int) (*Storage, error) {
	expandedPath, err := config.ExpandTilde(path)
	if err != nil {
		return nil, err
	}

	s := &Storage{
		Path:  expandedPath,
		Limit: limit,
		Data:  Data{Lookups: []Lookup{}},
	}
	if err := validate.Struct(s); err != nil {
		return nil, fmt.Errorf("invalid storage path %q: %w", expandedPath, err)
	}

	if err := s.Load(); err != nil {
		// If the file doesn't exist, we can ignore the error.
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	return s, nil
}

func (s *Storage) Load() error {
	logrus.Debug("Loading storage file from: ", s.Path)
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, &s.Data); err != nil {
		return err
	}
	if s.Data.Lookups == nil {
		s.Data.Lookups = []Lookup{}
	}

	// Validate loaded data and self-heal when possible.
	if err := validate.Struct(s.Data); err != nil {
		if s.Data.LastCharacterID != "" && validate.CharacterID(s.Data.LastCharacterID) != nil {
			logrus.Warn("Invalid last_character_id found in storage; clearing.")
			s.Data.LastCharacterID = ""
		}
		kept := s.Data.Lookups[:0]
		for _, l := range s.Data.Lookups {
			if validate.Struct(l) != nil {
				logrus.Warnf("Dropping invalid lookup %q from storage.", l.ID)
				continue
			}
			kept = append(kept, l)
		}
		s.Data.Lookups = kept
		if err := s.Save(); err != nil {
			return err
		}
	}
	return nil
}

// Save writes the storage data to the file.
func (s *Storage) Save() error {
	logrus.Debug("Saving storage file to: ", s.Path)
	// Ensure parent directory exists.
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.Data, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.Path, data, 0o600)
}

// Record appends l, remembers its character as the last one used, trims
// to Limit and saves. A missing ID is generated.
func (s *Storage) Record(l Lookup) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.FetchedAt.IsZero() {
		l.FetchedAt = time.Now().UTC()
	}
	if err := validate.Struct(l); err != nil {
		return err
	}
	s.Data.LastCharacterID = l.CharacterID
	s.Data.Lookups = append(s.Data.Lookups, l)
	if s.Limit > 0 && len(s.Data.Lookups) > s.Limit {
		s.Data.Lookups = s.Data.Lookups[len(s.Data.Lookups)-s.Limit:]
	}
	return s.Save()
}

// Clear removes all recorded lookups but keeps the last character ID.
func (s *Storage) Clear() error {
	logrus.Debug("Clearing lookup history")
	s.Data.Lookups = []Lookup{}
	return s.Save()
}
