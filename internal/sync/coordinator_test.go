package sync

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"studyflow/internal/cache"
	"studyflow/internal/domain/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func staticToken(token string) TokenSource {
	return func(ctx context.Context) (string, error) { return token, nil }
}

func openTestCache(t *testing.T) *cache.Store {
	t.Helper()
	store, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"), discardLogger())
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// syncServer is a minimal in-memory backend for coordinator tests.
type syncServer struct {
	remote    models.Snapshot
	pushed    *models.Snapshot
	userCalls int
}

func (s *syncServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /user", func(w http.ResponseWriter, r *http.Request) {
		s.userCalls++
		json.NewEncoder(w).Encode(map[string]any{
			"user": models.User{ID: "u-1", ExternalUID: "uid-123"},
		})
	})
	mux.HandleFunc("GET /data", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(s.remote)
	})
	mux.HandleFunc("PUT /data", func(w http.ResponseWriter, r *http.Request) {
		var snapshot models.Snapshot
		if err := json.NewDecoder(r.Body).Decode(&snapshot); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		s.pushed = &snapshot
		json.NewEncoder(w).Encode(map[string]bool{"success": true})
	})
	return mux
}

func TestSyncUploadsWhenRemoteEmpty(t *testing.T) {
	backend := &syncServer{remote: models.Snapshot{Settings: models.DefaultSettings()}}
	server := httptest.NewServer(backend.handler())
	defer server.Close()

	store := openTestCache(t)
	store.SaveFolders([]models.Folder{{ID: "f1", Name: "Local"}})
	store.SaveDecks([]models.Deck{{ID: "d1", Name: "Local Deck", Cards: []models.Card{{Front: "q", Back: "a"}}}})

	client := NewClient(server.URL, staticToken("tok"), discardLogger())
	coordinator := NewCoordinator(client, store, discardLogger())

	state := coordinator.Sync(context.Background())
	if state != StateDone {
		t.Fatalf("expected done, got %s", state)
	}
	if backend.userCalls != 1 {
		t.Errorf("expected one ensure-user call, got %d", backend.userCalls)
	}
	if backend.pushed == nil {
		t.Fatal("expected an upload, server saw none")
	}
	if len(backend.pushed.Folders) != 1 || backend.pushed.Folders[0].Name != "Local" {
		t.Errorf("uploaded snapshot missing local folders: %+v", backend.pushed)
	}

	// Local cache stays as it was.
	if folders := store.Folders(); len(folders) != 1 || folders[0].Name != "Local" {
		t.Errorf("upload must not modify the cache: %+v", folders)
	}
}

func TestSyncDownloadsWhenRemoteHasData(t *testing.T) {
	backend := &syncServer{remote: models.Snapshot{
		Folders:  []models.Folder{{ID: "10", Name: "Remote"}},
		Decks:    []models.Deck{{ID: "20", Name: "Remote Deck"}},
		Settings: models.Settings{DarkMode: true, FontSize: "small"},
		Stats:    models.Stats{StudySessions: []models.StudySession{{DeckName: "Remote Deck", CardsStudied: 3}}},
	}}
	server := httptest.NewServer(backend.handler())
	defer server.Close()

	store := openTestCache(t)
	store.SaveFolders([]models.Folder{{ID: "f1", Name: "Stale Local"}})

	client := NewClient(server.URL, staticToken("tok"), discardLogger())
	coordinator := NewCoordinator(client, store, discardLogger())

	state := coordinator.Sync(context.Background())
	if state != StateDone {
		t.Fatalf("expected done, got %s", state)
	}
	if backend.pushed != nil {
		t.Error("non-empty remote must not trigger an upload")
	}

	folders := store.Folders()
	if len(folders) != 1 || folders[0].Name != "Remote" {
		t.Errorf("cache should hold the remote folders, got %+v", folders)
	}
	if decks := store.Decks(); len(decks) != 1 || decks[0].Name != "Remote Deck" {
		t.Errorf("cache should hold the remote decks, got %+v", decks)
	}
	if settings := store.Settings(); !settings.DarkMode || settings.FontSize != "small" {
		t.Errorf("cache should hold the remote settings, got %+v", settings)
	}
	if sessions := store.StudySessions(); len(sessions) != 1 {
		t.Errorf("cache should hold the remote study history, got %+v", sessions)
	}
}

func TestSyncFailsWhenServerUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	store := openTestCache(t)
	store.SaveFolders([]models.Folder{{ID: "f1", Name: "Untouched"}})

	client := NewClient(url, staticToken("tok"), discardLogger())
	coordinator := NewCoordinator(client, store, discardLogger())

	state := coordinator.Sync(context.Background())
	if state != StateFailed {
		t.Fatalf("expected failed, got %s", state)
	}
	if coordinator.State() != StateFailed {
		t.Errorf("State() should report the terminal state")
	}

	if folders := store.Folders(); len(folders) != 1 || folders[0].Name != "Untouched" {
		t.Errorf("failed sync must not touch the cache: %+v", folders)
	}
}

func TestSyncFailsOnRejectedToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"title": "Unauthorized", "detail": "invalid or expired token"})
	}))
	defer server.Close()

	store := openTestCache(t)
	client := NewClient(server.URL, staticToken("expired"), discardLogger())
	coordinator := NewCoordinator(client, store, discardLogger())

	if state := coordinator.Sync(context.Background()); state != StateFailed {
		t.Errorf("expected failed, got %s", state)
	}
}

func TestSyncSendsBearerToken(t *testing.T) {
	var gotAuth string
	backend := &syncServer{}
	wrapped := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		backend.handler().ServeHTTP(w, r)
	})
	server := httptest.NewServer(wrapped)
	defer server.Close()

	store := openTestCache(t)
	client := NewClient(server.URL, staticToken("tok-abc"), discardLogger())
	NewCoordinator(client, store, discardLogger()).Sync(context.Background())

	if gotAuth != "Bearer tok-abc" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
}
