package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/stemless/internal/service"
)

// AuthHandler exposes the signup and login endpoints.
//
// HANDLER RESPONSIBILITIES:
//   - HandleSignup → POST /auth/signup: register, respond 201 {user, token}
//   - HandleLogin  → POST /auth/login: authenticate, respond 200 {user, token}
//
// All the rules live in AccountService; this layer only decodes bodies,
// calls the service and encodes the result.
type AuthHandler struct {
	accounts *service.AccountService
	logger   *slog.Logger
}

// NewAuthHandler creates an AuthHandler. All dependencies are injected;
// the handler has no knowledge of how they're constructed.
func NewAuthHandler(accounts *service.AccountService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, logger: logger}
}

// signupRequest is the expected body of POST /auth/signup.
type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginRequest is the expected body of POST /auth/login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleSignup registers a new account.
//
// HTTP: POST /auth/signup
// Body: {"username": ..., "email": ..., "password": ...}
// 201  {"user": {...}, "token": "..."} — user carries no password field
// 400  {"error": ..., "message": ...} on validation or conflict failures
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "request body must be valid JSON",
		})
		return
	}

	result, err := h.accounts.Signup(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// HandleLogin authenticates an existing account.
//
// HTTP: POST /auth/login
// Body: {"username": ..., "password": ...}
// 200  {"user": {...}, "token": "..."}
// 400  generic invalid-credentials body — identical for a wrong password
// and an unknown username.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "request body must be valid JSON",
		})
		return
	}

	result, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
