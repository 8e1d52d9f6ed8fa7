package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"studyflow/internal/config"
	"studyflow/internal/domain/models"
	"studyflow/internal/httputil"
	"studyflow/internal/service"
)

// DataHandler handles bulk snapshot sync requests. All user data moves
// through these two endpoints as one unit - there are no incremental
// patches.
type DataHandler struct {
	snapshotService service.SnapshotService
	userService     service.UserService
	logger          *slog.Logger
}

// NewDataHandler creates a new data handler
func NewDataHandler(snapshotService service.SnapshotService, userService service.UserService, logger *slog.Logger) *DataHandler {
	return &DataHandler{
		snapshotService: snapshotService,
		userService:     userService,
		logger:          logger,
	}
}

// HealthCheck reports liveness.
// GET /health
func (h *DataHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// LoadData returns the user's complete snapshot.
// GET /data
// 404 if the user record does not exist yet (POST /user first).
func (h *DataHandler) LoadData(w http.ResponseWriter, r *http.Request) {
	user, ok := h.resolveUser(w, r)
	if !ok {
		return
	}

	snapshot, err := h.snapshotService.Load(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("load snapshot failed", "user_id", user.ID, "error", err)
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, snapshot)
}

// SaveData performs the full-replace save of the user's snapshot.
// PUT /data
// 413 for oversized bodies, 400 for over-count or malformed payloads,
// 404 if the user record does not exist.
func (h *DataHandler) SaveData(w http.ResponseWriter, r *http.Request) {
	user, ok := h.resolveUser(w, r)
	if !ok {
		return
	}

	body, err := httputil.ReadBody(w, r, config.MaxSnapshotBytes)
	if err != nil {
		handleError(w, err)
		return
	}

	var snapshot models.Snapshot
	if err := json.Unmarshal(body, &snapshot); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid data format")
		return
	}

	if err := h.snapshotService.Save(r.Context(), user.ID, &snapshot, len(body)); err != nil {
		h.logger.Error("save snapshot failed", "user_id", user.ID, "error", err)
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// resolveUser maps the authenticated identity to its account row,
// writing the error response itself when that fails.
func (h *DataHandler) resolveUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	uid := httputil.ExternalUID(r)
	if uid == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "not authenticated")
		return nil, false
	}

	user, err := h.userService.GetUser(r.Context(), uid)
	if err != nil {
		handleError(w, err)
		return nil, false
	}

	return user, true
}
