package repositories

import (
	"context"

	"studyflow/internal/domain/models"
)

// SnapshotRepository persists whole user snapshots against the remote
// relational store.
type SnapshotRepository interface {
	// Load reads the user's folders, decks (cards grouped and ordered
	// by position), settings, and study sessions, assembled into the
	// wire shape. Row identifiers are serialized as strings.
	Load(ctx context.Context, userID string) (*models.Snapshot, error)

	// Replace deletes all of the user's existing rows in dependency
	// order and reinserts the snapshot: folders in topological order
	// (building the client->server ID map as inserts return their new
	// keys), then decks with remapped folder references and cards with
	// explicit positions, then settings and study sessions.
	//
	// Replace must run inside a transaction (see TransactionManager):
	// the unconditional delete means a partial replacement must never
	// be visible. Concurrent replaces for the same user are not
	// coordinated beyond transaction isolation - the later commit wins.
	Replace(ctx context.Context, userID string, snapshot *models.Snapshot) error
}
