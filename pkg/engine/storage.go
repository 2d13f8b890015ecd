package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Store persists game records as one JSON file per game under a
// directory.
type Store struct {
	dir string
}

// NewStore creates the storage directory if needed and returns a store
// rooted there.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// SaveGame writes the record to <dir>/<game_id>.json.
func (s *Store) SaveGame(rec *GameRecord) error {
	if rec == nil || rec.GameID == "" {
		return fmt.Errorf("record must have a game ID")
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding game %s: %w", rec.GameID, err)
	}
	path := filepath.Join(s.dir, rec.GameID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing game %s: %w", rec.GameID, err)
	}
	return nil
}

// LoadGame reads a record back by game ID.
func (s *Store) LoadGame(gameID string) (*GameRecord, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, gameID+".json"))
	if err != nil {
		return nil, fmt.Errorf("reading game %s: %w", gameID, err)
	}
	var rec GameRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding game %s: %w", gameID, err)
	}
	return &rec, nil
}

// ListGames returns the stored game IDs in sorted order.
func (s *Store) ListGames() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("listing storage directory: %w", err)
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}
