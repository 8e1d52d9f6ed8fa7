package service

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"studyflow/internal/config"
	"studyflow/internal/domain"
	"studyflow/internal/domain/models"
	"studyflow/internal/domain/repositories"
)

// SnapshotService loads and saves whole user snapshots. Saves are
// validated before any mutation begins and executed inside a single
// transaction.
type SnapshotService interface {
	Load(ctx context.Context, userID string) (*models.Snapshot, error)
	Save(ctx context.Context, userID string, snapshot *models.Snapshot, serializedSize int) error
}

type snapshotService struct {
	snapshotRepo repositories.SnapshotRepository
	txManager    repositories.TransactionManager
	logger       *slog.Logger
}

// NewSnapshotService creates a new snapshot service
func NewSnapshotService(
	snapshotRepo repositories.SnapshotRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) SnapshotService {
	return &snapshotService{
		snapshotRepo: snapshotRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// Load reads the user's snapshot from the remote store.
func (s *snapshotService) Load(ctx context.Context, userID string) (*models.Snapshot, error) {
	return s.snapshotRepo.Load(ctx, userID)
}

// Save validates the snapshot and performs the full-replace save inside
// one transaction. Size and count limits are checked up front so an
// oversized payload is rejected without touching the store.
func (s *snapshotService) Save(ctx context.Context, userID string, snapshot *models.Snapshot, serializedSize int) error {
	if err := validateSnapshot(snapshot, serializedSize); err != nil {
		return err
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		return s.snapshotRepo.Replace(txCtx, userID, snapshot)
	})
	if err != nil {
		return err
	}

	s.logger.Info("snapshot saved",
		"user_id", userID,
		"folders", len(snapshot.Folders),
		"decks", len(snapshot.Decks),
	)
	return nil
}

func validateSnapshot(snapshot *models.Snapshot, serializedSize int) error {
	if serializedSize > config.MaxSnapshotBytes {
		return &domain.PayloadTooLargeError{
			Message: fmt.Sprintf("payload is %d bytes (max %d)", serializedSize, config.MaxSnapshotBytes),
		}
	}
	if len(snapshot.Decks) > config.MaxDecksPerUser {
		return &domain.ValidationError{
			Message: fmt.Sprintf("too many decks (max %d)", config.MaxDecksPerUser),
		}
	}
	if len(snapshot.Folders) > config.MaxFoldersPerUser {
		return &domain.ValidationError{
			Message: fmt.Sprintf("too many folders (max %d)", config.MaxFoldersPerUser),
		}
	}

	for _, folder := range snapshot.Folders {
		if err := validation.Validate(folder.Name,
			validation.Required,
			validation.Length(1, config.MaxNameLength),
		); err != nil {
			return &domain.ValidationError{Message: fmt.Sprintf("folder name: %v", err)}
		}
	}
	for _, deck := range snapshot.Decks {
		if err := validation.Validate(deck.Name,
			validation.Required,
			validation.Length(1, config.MaxNameLength),
		); err != nil {
			return &domain.ValidationError{Message: fmt.Sprintf("deck name: %v", err)}
		}
		if err := validation.Validate(deck.Visibility,
			validation.In("", "private", "public"),
		); err != nil {
			return &domain.ValidationError{Message: fmt.Sprintf("deck visibility: %v", err)}
		}
	}

	return nil
}
