// Package cache is the device-local persistence layer: one JSON
// document per key, held in an embedded SQLite table. It is the
// disposable, rebuildable projection of the last-synced snapshot - a
// missing or unreadable value is always an empty default, never an
// error, and a failed write is reported as false rather than raised.
package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"studyflow/internal/domain/models"
)

// Cache keys, one JSON document each.
const (
	KeyDecks    = "studyflow-decks"
	KeyFolders  = "studyflow-folders"
	KeySettings = "studyflow-settings"
	KeyStats    = "studyflow-stats"
)

const kvSchema = `
CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at INTEGER NOT NULL
)`

// Store is the local key-value cache. Access is expected to be
// single-threaded (one sync at a time per device).
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open creates or opens the cache database at the given path.
// The caller must Close when done.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping cache database: %w", err)
	}

	if _, err := db.Exec(kvSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Load returns the raw value for a key, or nil if the key is missing
// or unreadable. Errors never propagate past this boundary.
func (s *Store) Load(key string) []byte {
	var value []byte
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err != nil {
		if err != sql.ErrNoRows {
			s.logger.Warn("cache read failed", "key", key, "error", err)
		}
		return nil
	}
	return value
}

// Save replaces a key's entire value. Returns false on failure - the
// caller keeps working against whatever was stored before.
func (s *Store) Save(key string, value []byte) bool {
	_, err := s.db.Exec(
		"INSERT INTO kv (key, value, updated_at) VALUES (?, ?, unixepoch()) "+
			"ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at",
		key, value,
	)
	if err != nil {
		s.logger.Warn("cache write failed", "key", key, "error", err)
		return false
	}
	return true
}

// Decks returns the cached deck list, empty when missing or corrupt.
func (s *Store) Decks() []models.Deck {
	var decks []models.Deck
	if !s.loadJSON(KeyDecks, &decks) || decks == nil {
		return []models.Deck{}
	}
	return decks
}

// SaveDecks replaces the cached deck list.
func (s *Store) SaveDecks(decks []models.Deck) bool {
	return s.saveJSON(KeyDecks, decks)
}

// Folders returns the cached folder list, empty when missing or corrupt.
func (s *Store) Folders() []models.Folder {
	var folders []models.Folder
	if !s.loadJSON(KeyFolders, &folders) || folders == nil {
		return []models.Folder{}
	}
	return folders
}

// SaveFolders replaces the cached folder list.
func (s *Store) SaveFolders(folders []models.Folder) bool {
	return s.saveJSON(KeyFolders, folders)
}

// Settings returns the cached settings, defaults when missing or corrupt.
func (s *Store) Settings() models.Settings {
	var settings models.Settings
	if !s.loadJSON(KeySettings, &settings) {
		return models.DefaultSettings()
	}
	return settings
}

// SaveSettings replaces the cached settings.
func (s *Store) SaveSettings(settings models.Settings) bool {
	return s.saveJSON(KeySettings, settings)
}

// StudySessions returns the cached study history, empty when missing
// or corrupt.
func (s *Store) StudySessions() []models.StudySession {
	var sessions []models.StudySession
	if !s.loadJSON(KeyStats, &sessions) || sessions == nil {
		return []models.StudySession{}
	}
	return sessions
}

// SaveStudySessions replaces the cached study history.
func (s *Store) SaveStudySessions(sessions []models.StudySession) bool {
	return s.saveJSON(KeyStats, sessions)
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) loadJSON(key string, dest interface{}) bool {
	raw := s.Load(key)
	if raw == nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		s.logger.Warn("cache value unreadable", "key", key, "error", err)
		return false
	}
	return true
}

func (s *Store) saveJSON(key string, value interface{}) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("cache value not serializable", "key", key, "error", err)
		return false
	}
	return s.Save(key, raw)
}
