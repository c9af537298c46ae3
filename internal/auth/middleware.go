package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sakif/stemless/internal/apperror"
	"github.com/sakif/stemless/internal/model"
	"github.com/sakif/stemless/internal/repository"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue uses any as the key type. If you use a plain string
// like context.WithValue(ctx, "user", u), ANY package that knows the string
// "user" can read or shadow your value. Using a package-private type
// prevents collisions: only THIS package can create a key of type
// contextKey, so only this package can read or write user values.
type contextKey string

const userKey contextKey = "user"

// forbiddenBody is the one generic rejection the gate ever sends.
// Missing header, bad token and unknown uuid all look identical from
// the outside — the body must not say which check failed.
const forbiddenBody = `{"error":"forbidden","message":"valid authentication required"}`

// internalBody mirrors the handler layer's generic 500 payload. The gate
// writes it directly because it sits outside the handlers' error mapping.
const internalBody = `{"error":"internal_error","message":"An internal error occurred"}`

// RequireAuth is the middleware that gates protected routes.
//
// Per request it does exactly one token verification and at most one
// store lookup, then either:
//   - rejects with 403 (header absent, token invalid, or the token's
//     uuid no longer resolves to a user), or
//   - attaches the resolved User snapshot to the request context and
//     passes control on. Downstream handlers read it back with
//     UserFromContext and never re-verify within the same request.
//
// The token is read from "Authorization: Bearer <token>". The gate only
// reads the user record; it never mutates it.
func RequireAuth(tokens *TokenService, users repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := bearerToken(r)
			if !ok {
				forbid(w)
				return
			}

			uuid, err := tokens.Validate(tokenStr)
			if err != nil {
				forbid(w)
				return
			}

			// The claims are a snapshot from issuance time; the uuid is
			// the only claim we trust. Resolve it against the store so
			// tokens for deleted accounts stop working. Only a confirmed
			// miss is a rejection; a failing store is not the caller's
			// fault and must not read as one.
			user, err := users.FindBy(r.Context(), repository.LookupUUID, uuid)
			if errors.Is(err, apperror.ErrNotFound) {
				forbid(w)
				return
			}
			if err != nil {
				internalError(w)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext retrieves the authenticated user's snapshot from the
// request context.
//
// Returns (nil, false) if the request never passed through RequireAuth.
//
// Usage in handlers:
//
//	user, ok := auth.UserFromContext(r.Context())
//	if !ok {
//	    // route was not gated — programming error
//	}
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok && user != nil
}

// bearerToken extracts the token from the Authorization header.
// Returns false when the header is absent or not a Bearer scheme.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}

func forbid(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	w.Write([]byte(forbiddenBody))
}

func internalError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	w.Write([]byte(internalBody))
}
