package sync

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"studyflow/internal/cache"
	"studyflow/internal/domain/models"
)

// Session applies local edits to the cached data between syncs. It
// owns the cache reference explicitly - nothing here reaches for
// shared globals, so the sync engine stays decoupled from whatever
// front end holds the session.
type Session struct {
	store  *cache.Store
	now    func() time.Time
	logger *slog.Logger
}

// NewSession creates a session over the local cache.
func NewSession(store *cache.Store, logger *slog.Logger) *Session {
	return &Session{
		store:  store,
		now:    time.Now,
		logger: logger,
	}
}

// Snapshot assembles the session's current data in the wire shape.
func (s *Session) Snapshot() *models.Snapshot {
	return &models.Snapshot{
		Folders:  s.store.Folders(),
		Decks:    s.store.Decks(),
		Settings: s.store.Settings(),
		Stats:    models.Stats{StudySessions: s.store.StudySessions()},
	}
}

// AddFolder creates a folder with a client-generated identifier.
func (s *Session) AddFolder(name string, parentID *string) (models.Folder, bool) {
	folder := models.Folder{
		ID:             newClientID("f"),
		Name:           name,
		ParentFolderID: parentID,
		Created:        s.now().UTC(),
	}
	folders := append(s.store.Folders(), folder)
	return folder, s.store.SaveFolders(folders)
}

// RenameFolder renames a folder in place. Returns false if the folder
// is unknown or the cache write fails.
func (s *Session) RenameFolder(id, name string) bool {
	folders := s.store.Folders()
	found := false
	for i := range folders {
		if folders[i].ID == id {
			folders[i].Name = name
			found = true
		}
	}
	if !found {
		return false
	}
	return s.store.SaveFolders(folders)
}

// DeleteFolder removes a folder, re-parenting its direct children
// (decks and subfolders) to the deleted folder's own parent. Deletion
// never cascades.
func (s *Session) DeleteFolder(id string) bool {
	folders := s.store.Folders()

	var parent *string
	found := false
	for _, f := range folders {
		if f.ID == id {
			parent = f.ParentFolderID
			found = true
			break
		}
	}
	if !found {
		return false
	}

	kept := make([]models.Folder, 0, len(folders))
	for _, f := range folders {
		if f.ID == id {
			continue
		}
		if f.ParentFolderID != nil && *f.ParentFolderID == id {
			f.ParentFolderID = parent
		}
		kept = append(kept, f)
	}

	decks := s.store.Decks()
	for i := range decks {
		if decks[i].FolderID != nil && *decks[i].FolderID == id {
			decks[i].FolderID = parent
		}
	}

	ok := s.store.SaveFolders(kept)
	ok = s.store.SaveDecks(decks) && ok
	return ok
}

// AddDeck creates a deck with a client-generated identifier.
func (s *Session) AddDeck(name, category string, folderID *string, cards []models.Card) (models.Deck, bool) {
	if cards == nil {
		cards = []models.Card{}
	}
	deck := models.Deck{
		ID:         newClientID("d"),
		Name:       name,
		Category:   category,
		Visibility: "private",
		FolderID:   folderID,
		Cards:      cards,
		Created:    s.now().UTC(),
	}
	decks := append(s.store.Decks(), deck)
	return deck, s.store.SaveDecks(decks)
}

// DeleteDeck removes a deck. Returns false if unknown or the write
// fails.
func (s *Session) DeleteDeck(id string) bool {
	decks := s.store.Decks()
	kept := make([]models.Deck, 0, len(decks))
	for _, d := range decks {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	if len(kept) == len(decks) {
		return false
	}
	return s.store.SaveDecks(kept)
}

// RecordStudySession appends one completed study run to the history.
func (s *Session) RecordStudySession(deckName string, cardsStudied int) bool {
	sessions := append(s.store.StudySessions(), models.StudySession{
		Timestamp:    s.now().UTC(),
		DeckName:     deckName,
		CardsStudied: cardsStudied,
	})
	return s.store.SaveStudySessions(sessions)
}

// newClientID generates a client-local identifier. These are
// placeholders: the server assigns authoritative keys on upload and
// the ID map rewrites references.
func newClientID(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.NewString())
}
