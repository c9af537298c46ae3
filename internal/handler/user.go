package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/stemless/internal/auth"
	"github.com/sakif/stemless/internal/repository"
	"github.com/sakif/stemless/internal/service"
)

// UserHandler serves the identity-lookup endpoints. Both routes sit
// behind RequireAuth, so the caller is always a resolved user.
type UserHandler struct {
	accounts *service.AccountService
	logger   *slog.Logger
}

func NewUserHandler(accounts *service.AccountService, logger *slog.Logger) *UserHandler {
	return &UserHandler{accounts: accounts, logger: logger}
}

// HandleMe returns the authenticated user's own record.
//
// HTTP: GET /users/me
// Auth: required — the gate already resolved the snapshot, so this
// handler does no further store lookup.
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		// Should never happen on a RequireAuth-protected route, but be safe.
		writeJSON(w, http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: "valid authentication required",
		})
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleGetByField looks any user up by uuid, username or email.
//
// HTTP: GET /users/{key}/{value}
// Auth: required
// 400  if key is not one of {uuid, username, email}
// 404  if no user matches
func (h *UserHandler) HandleGetByField(w http.ResponseWriter, r *http.Request) {
	key, err := repository.ParseLookupKey(chi.URLParam(r, "key"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "lookup key must be one of uuid, username, email",
		})
		return
	}

	user, err := h.accounts.GetUser(r.Context(), key, chi.URLParam(r, "value"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
