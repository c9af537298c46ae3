// Package auth provides JWT token issuance and validation for the API.
//
// AUTHENTICATION FLOW OVERVIEW:
// 1. Client POSTs credentials to /auth/signup or /auth/login
// 2. Server validates them, resolves the user, and issues a signed JWT
// 3. On subsequent API calls the client sends "Authorization: Bearer <jwt>"
// 4. RequireAuth validates the token, looks the user up, and puts the
//    snapshot in the request context
//
// WHY JWT?
// JWT (JSON Web Token) is stateless — the server doesn't need to store
// session data. All the information needed (user UUID, expiry) is inside
// the signed token. The signature ensures nobody can tamper with it
// without the secret key.
//
// There is no revocation list: an issued token stays valid until it
// expires, even if the account changes afterwards. The gate compensates
// by resolving the UUID against the store on every request, so tokens
// for deleted accounts stop working immediately.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"

	"github.com/sakif/stemless/internal/model"
)

const issuer = "stemless"

// defaultTokenTTL is how long an issued token stays valid.
const defaultTokenTTL = 24 * time.Hour

// TokenService handles JWT creation and validation.
//
// It holds the HMAC secret key used to sign and verify tokens. The key is
// process-wide configuration: the same TokenService instance is shared by
// the account service (issuing) and the auth gate (verifying).
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret), ttl: defaultTokenTTL}, nil
}

// Claims is the JWT payload: the identity snapshot embedded at issuance
// time. The "sub" registered claim carries the user UUID — that is the
// only claim the gate acts on; username is informational and may go
// stale if the account is later renamed.
type Claims struct {
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// Issue creates and signs a JWT for the given user snapshot.
//
// Signing algorithm: HS256 (HMAC-SHA256)
// - Symmetric: same key for signing and verifying
// - Fast and simple — good for single-server deployments
//
// Each token gets a unique "jti" (xid) so individual tokens are
// distinguishable in logs even when issued within the same second.
func (s *TokenService) Issue(user *model.User) (string, error) {
	if user == nil || user.UUID == "" {
		return "", fmt.Errorf("auth: cannot issue token without a user uuid")
	}

	now := time.Now()
	c := Claims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UUID,
			ID:        xid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// IssueWithDuration creates a token with a custom expiry duration.
// Used in tests to produce already-expired tokens.
func (s *TokenService) IssueWithDuration(user *model.User, d time.Duration) (string, error) {
	clone := *s
	clone.ttl = d
	return clone.Issue(user)
}

// Validate parses and verifies a JWT string and returns the user UUID
// stored in the "sub" claim.
//
// VALIDATION CHECKS (performed by the jwt library):
//   - Signature is valid (wasn't tampered with)
//   - Token is not expired (ExpiresAt is in the future)
//   - Issuer matches "stemless" (prevents tokens from other apps)
//   - Algorithm is HS256 (prevents algorithm confusion attacks)
//
// Expired, malformed and bad-signature tokens all come back as errors;
// the gate collapses them into one generic rejection so clients cannot
// learn which check failed.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			// Reject tokens that aren't signed with HMAC
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return c.Subject, nil
}
