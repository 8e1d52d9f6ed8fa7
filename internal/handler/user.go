package handler

import (
	"log/slog"
	"net/http"

	"studyflow/internal/httputil"
	"studyflow/internal/service"
)

// UserHandler handles account HTTP requests
type UserHandler struct {
	userService service.UserService
	logger      *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// EnsureUser finds or creates the account for the authenticated
// identity. Clients call this once per login, before any data sync.
// POST /user
func (h *UserHandler) EnsureUser(w http.ResponseWriter, r *http.Request) {
	uid := httputil.ExternalUID(r)
	if uid == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	user, err := h.userService.EnsureUser(r.Context(), uid, httputil.Email(r))
	if err != nil {
		h.logger.Error("ensure user failed", "error", err)
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}
