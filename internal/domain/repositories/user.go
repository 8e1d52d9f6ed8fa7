package repositories

import (
	"context"

	"studyflow/internal/domain/models"
)

// UserRepository manages account rows keyed by the external identity
// subject.
type UserRepository interface {
	// FindOrCreate upserts the user for the given external identity
	// subject, refreshing the stored email, and ensures a default
	// settings row exists.
	FindOrCreate(ctx context.Context, externalUID, email string) (*models.User, error)

	// GetByExternalUID looks up an existing user. Returns
	// domain.ErrNotFound if no record exists (the caller must create
	// one via FindOrCreate first).
	GetByExternalUID(ctx context.Context, externalUID string) (*models.User, error)
}
