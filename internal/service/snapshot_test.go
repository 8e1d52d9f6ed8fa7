package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"studyflow/internal/config"
	"studyflow/internal/domain"
	"studyflow/internal/domain/models"
	"studyflow/internal/domain/repositories"
)

type fakeSnapshotRepo struct {
	loaded       *models.Snapshot
	loadErr      error
	replaceCalls int
	replacedWith *models.Snapshot
	replaceErr   error
}

func (f *fakeSnapshotRepo) Load(ctx context.Context, userID string) (*models.Snapshot, error) {
	return f.loaded, f.loadErr
}

func (f *fakeSnapshotRepo) Replace(ctx context.Context, userID string, snapshot *models.Snapshot) error {
	f.replaceCalls++
	f.replacedWith = snapshot
	return f.replaceErr
}

// fakeTxManager just runs the function; it records whether a
// transaction was opened at all.
type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	f.calls++
	return fn(ctx)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSnapshot() *models.Snapshot {
	return &models.Snapshot{
		Folders: []models.Folder{{ID: "f1", Name: "Biology"}},
		Decks: []models.Deck{{
			ID:    "d1",
			Name:  "Cell Structure",
			Cards: []models.Card{{Front: "Mitochondria", Back: "Powerhouse"}},
		}},
		Settings: models.DefaultSettings(),
	}
}

func TestSave(t *testing.T) {
	repo := &fakeSnapshotRepo{}
	tx := &fakeTxManager{}
	svc := NewSnapshotService(repo, tx, discardLogger())

	err := svc.Save(context.Background(), "user-1", testSnapshot(), 1024)
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if tx.calls != 1 {
		t.Errorf("expected 1 transaction, got %d", tx.calls)
	}
	if repo.replaceCalls != 1 {
		t.Errorf("expected 1 replace call, got %d", repo.replaceCalls)
	}
}

func TestSavePayloadTooLarge(t *testing.T) {
	repo := &fakeSnapshotRepo{}
	svc := NewSnapshotService(repo, &fakeTxManager{}, discardLogger())

	err := svc.Save(context.Background(), "user-1", testSnapshot(), config.MaxSnapshotBytes+1)
	if !errors.Is(err, domain.ErrPayloadTooLarge) {
		t.Errorf("expected ErrPayloadTooLarge, got %v", err)
	}
	if repo.replaceCalls != 0 {
		t.Errorf("oversized payload must be rejected before the store is touched")
	}
}

func TestSaveTooManyDecks(t *testing.T) {
	snapshot := &models.Snapshot{}
	for i := 0; i <= config.MaxDecksPerUser; i++ {
		snapshot.Decks = append(snapshot.Decks, models.Deck{ID: "d", Name: "Deck"})
	}

	repo := &fakeSnapshotRepo{}
	svc := NewSnapshotService(repo, &fakeTxManager{}, discardLogger())

	err := svc.Save(context.Background(), "user-1", snapshot, 1024)
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
	if repo.replaceCalls != 0 {
		t.Errorf("invalid payload must not reach the store")
	}
}

func TestSaveTooManyFolders(t *testing.T) {
	snapshot := &models.Snapshot{}
	for i := 0; i <= config.MaxFoldersPerUser; i++ {
		snapshot.Folders = append(snapshot.Folders, models.Folder{ID: "f", Name: "Folder"})
	}

	svc := NewSnapshotService(&fakeSnapshotRepo{}, &fakeTxManager{}, discardLogger())

	err := svc.Save(context.Background(), "user-1", snapshot, 1024)
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestSaveRejectsBlankNames(t *testing.T) {
	tests := []struct {
		name     string
		snapshot *models.Snapshot
	}{
		{
			name: "empty folder name",
			snapshot: &models.Snapshot{
				Folders: []models.Folder{{ID: "f1", Name: ""}},
			},
		},
		{
			name: "empty deck name",
			snapshot: &models.Snapshot{
				Decks: []models.Deck{{ID: "d1", Name: ""}},
			},
		},
		{
			name: "overlong deck name",
			snapshot: &models.Snapshot{
				Decks: []models.Deck{{ID: "d1", Name: strings.Repeat("x", config.MaxNameLength+1)}},
			},
		},
		{
			name: "bad visibility",
			snapshot: &models.Snapshot{
				Decks: []models.Deck{{ID: "d1", Name: "ok", Visibility: "friends-only"}},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewSnapshotService(&fakeSnapshotRepo{}, &fakeTxManager{}, discardLogger())
			err := svc.Save(context.Background(), "user-1", tc.snapshot, 100)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestSavePropagatesRepoError(t *testing.T) {
	repoErr := errors.New("connection reset")
	repo := &fakeSnapshotRepo{replaceErr: repoErr}
	svc := NewSnapshotService(repo, &fakeTxManager{}, discardLogger())

	err := svc.Save(context.Background(), "user-1", testSnapshot(), 1024)
	if !errors.Is(err, repoErr) {
		t.Errorf("expected repo error to propagate, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	want := testSnapshot()
	repo := &fakeSnapshotRepo{loaded: want}
	svc := NewSnapshotService(repo, &fakeTxManager{}, discardLogger())

	got, err := svc.Load(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got != want {
		t.Errorf("Load returned a different snapshot than the repository")
	}
}
