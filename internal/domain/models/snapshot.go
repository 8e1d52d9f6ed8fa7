package models

import "time"

// Folder is one node of a user's folder tree. ParentFolderID is nil for
// root-level folders. The parent-pointer graph is expected to be a
// forest; cyclic or dangling references are tolerated and normalized at
// sync time rather than rejected.
type Folder struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	ParentFolderID *string   `json:"parentFolderId"`
	Created        time.Time `json:"created"`
}

// Deck owns an ordered list of cards. FolderID is nil for unfiled decks.
type Deck struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Category   string    `json:"category,omitempty"`
	Visibility string    `json:"visibility,omitempty"`
	FolderID   *string   `json:"folderId"`
	Cards      []Card    `json:"cards"`
	Created    time.Time `json:"created"`
}

// Card order within a deck is significant and preserved across sync.
type Card struct {
	Front    string `json:"front"`
	Back     string `json:"back"`
	MediaURL string `json:"mediaUrl,omitempty"`
}

// Settings holds per-user preferences.
type Settings struct {
	StatsEnabled  bool   `json:"statsEnabled"`
	DarkMode      bool   `json:"darkMode"`
	FontSize      string `json:"fontSize"`
	HighContrast  bool   `json:"highContrast"`
	ReducedMotion bool   `json:"reducedMotion"`
}

// DefaultSettings returns the settings used when a user has no stored
// settings row (or the local cache value is missing/unreadable).
func DefaultSettings() Settings {
	return Settings{
		StatsEnabled: true,
		FontSize:     "medium",
	}
}

// StudySession is one completed study run.
type StudySession struct {
	Timestamp    time.Time `json:"timestamp"`
	DeckName     string    `json:"deckName"`
	CardsStudied int       `json:"cardsStudied"`
}

// Stats wraps study history for the wire shape.
type Stats struct {
	StudySessions []StudySession `json:"studySessions"`
}

// Snapshot is the complete set of a user's data, always transferred
// whole. Identifiers are strings on the wire regardless of how the
// backing store keys its rows.
type Snapshot struct {
	Folders  []Folder `json:"folders"`
	Decks    []Deck   `json:"decks"`
	Settings Settings `json:"settings"`
	Stats    Stats    `json:"stats"`
}

// IsEmpty reports whether the snapshot carries no folders and no decks.
// The sync coordinator uses this to decide between upload and download.
func (s *Snapshot) IsEmpty() bool {
	return len(s.Folders) == 0 && len(s.Decks) == 0
}

// User is an account row keyed by the external identity subject.
type User struct {
	ID          string    `json:"id"`
	ExternalUID string    `json:"external_uid"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
}
