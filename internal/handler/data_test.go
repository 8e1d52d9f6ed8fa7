package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"studyflow/internal/config"
	"studyflow/internal/domain"
	"studyflow/internal/domain/models"
	"studyflow/internal/httputil"
)

type fakeSnapshotService struct {
	loaded  *models.Snapshot
	loadErr error
	saved   *models.Snapshot
	savedBy string
	saveErr error
}

func (f *fakeSnapshotService) Load(ctx context.Context, userID string) (*models.Snapshot, error) {
	return f.loaded, f.loadErr
}

func (f *fakeSnapshotService) Save(ctx context.Context, userID string, snapshot *models.Snapshot, serializedSize int) error {
	f.saved = snapshot
	f.savedBy = userID
	return f.saveErr
}

type fakeUserService struct {
	user *models.User
	err  error
}

func (f *fakeUserService) EnsureUser(ctx context.Context, externalUID, email string) (*models.User, error) {
	return f.user, f.err
}

func (f *fakeUserService) GetUser(ctx context.Context, externalUID string) (*models.User, error) {
	return f.user, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func knownUser() *models.User {
	return &models.User{ID: "u-1", ExternalUID: "uid-123", Email: "user@example.com"}
}

func authedRequest(method, target string, body io.Reader) *http.Request {
	r := httptest.NewRequest(method, target, body)
	return httputil.WithIdentity(r, "uid-123", "user@example.com")
}

func TestHealthCheck(t *testing.T) {
	h := NewDataHandler(&fakeSnapshotService{}, &fakeUserService{}, discardLogger())

	rec := httptest.NewRecorder()
	h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestLoadData(t *testing.T) {
	snapshot := &models.Snapshot{
		Decks:    []models.Deck{{ID: "1", Name: "Spanish"}},
		Settings: models.DefaultSettings(),
	}
	h := NewDataHandler(
		&fakeSnapshotService{loaded: snapshot},
		&fakeUserService{user: knownUser()},
		discardLogger(),
	)

	rec := httptest.NewRecorder()
	h.LoadData(rec, authedRequest(http.MethodGet, "/data", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var got models.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if len(got.Decks) != 1 || got.Decks[0].Name != "Spanish" {
		t.Errorf("unexpected snapshot body: %s", rec.Body.String())
	}
}

func TestLoadDataUnknownUser(t *testing.T) {
	h := NewDataHandler(
		&fakeSnapshotService{},
		&fakeUserService{err: &domain.NotFoundError{Message: "user not found"}},
		discardLogger(),
	)

	rec := httptest.NewRecorder()
	h.LoadData(rec, authedRequest(http.MethodGet, "/data", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestLoadDataUnauthenticated(t *testing.T) {
	h := NewDataHandler(&fakeSnapshotService{}, &fakeUserService{user: knownUser()}, discardLogger())

	rec := httptest.NewRecorder()
	h.LoadData(rec, httptest.NewRequest(http.MethodGet, "/data", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestSaveData(t *testing.T) {
	svc := &fakeSnapshotService{}
	h := NewDataHandler(svc, &fakeUserService{user: knownUser()}, discardLogger())

	body, _ := json.Marshal(models.Snapshot{
		Folders: []models.Folder{{ID: "f1", Name: "Languages"}},
	})
	rec := httptest.NewRecorder()
	h.SaveData(rec, authedRequest(http.MethodPut, "/data", bytes.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.saved == nil || len(svc.saved.Folders) != 1 {
		t.Errorf("service did not receive the decoded snapshot")
	}
	if svc.savedBy != "u-1" {
		t.Errorf("save keyed by %q, want the account row ID", svc.savedBy)
	}

	var resp map[string]bool
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || !resp["success"] {
		t.Errorf("expected success body, got %s", rec.Body.String())
	}
}

func TestSaveDataMalformedJSON(t *testing.T) {
	svc := &fakeSnapshotService{}
	h := NewDataHandler(svc, &fakeUserService{user: knownUser()}, discardLogger())

	rec := httptest.NewRecorder()
	h.SaveData(rec, authedRequest(http.MethodPut, "/data", strings.NewReader("{not json")))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if svc.saved != nil {
		t.Errorf("service must not be called for malformed bodies")
	}
}

func TestSaveDataOversizedBody(t *testing.T) {
	svc := &fakeSnapshotService{}
	h := NewDataHandler(svc, &fakeUserService{user: knownUser()}, discardLogger())

	oversize := bytes.Repeat([]byte("a"), config.MaxSnapshotBytes+1)
	rec := httptest.NewRecorder()
	h.SaveData(rec, authedRequest(http.MethodPut, "/data", bytes.NewReader(oversize)))

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", rec.Code)
	}
	if svc.saved != nil {
		t.Errorf("service must not be called for oversized bodies")
	}
}

func TestSaveDataValidationError(t *testing.T) {
	svc := &fakeSnapshotService{saveErr: &domain.ValidationError{Message: "too many decks"}}
	h := NewDataHandler(svc, &fakeUserService{user: knownUser()}, discardLogger())

	body, _ := json.Marshal(models.Snapshot{})
	rec := httptest.NewRecorder()
	h.SaveData(rec, authedRequest(http.MethodPut, "/data", bytes.NewReader(body)))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestEnsureUser(t *testing.T) {
	h := NewUserHandler(&fakeUserService{user: knownUser()}, discardLogger())

	rec := httptest.NewRecorder()
	h.EnsureUser(rec, authedRequest(http.MethodPost, "/user", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		User models.User `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if resp.User.ID != "u-1" {
		t.Errorf("expected user u-1 in body, got %q", resp.User.ID)
	}
}

func TestEnsureUserUnauthenticated(t *testing.T) {
	h := NewUserHandler(&fakeUserService{user: knownUser()}, discardLogger())

	rec := httptest.NewRecorder()
	h.EnsureUser(rec, httptest.NewRequest(http.MethodPost, "/user", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}
