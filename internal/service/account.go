// Package service — account business logic.
//
// AccountService is the orchestration layer between the HTTP handlers and
// the repository/auth utilities:
//
//	AuthHandler (HTTP) → AccountService (business rules) → UserRepository (DB)
//	                   ↘ TokenService (JWT) / PasswordService (bcrypt)
//
// KEY RESPONSIBILITIES:
//   - Signup: validate → hash → persist → issue token
//   - Login: validate → lookup → verify digest → issue token
//   - Keep every auth rule in one place, away from HTTP concerns
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/stemless/internal/apperror"
	"github.com/sakif/stemless/internal/auth"
	"github.com/sakif/stemless/internal/model"
	"github.com/sakif/stemless/internal/repository"
	"github.com/sakif/stemless/internal/validate"
)

// AccountService handles signup, login and identity lookup.
//
// DEPENDENCIES (injected via NewAccountService):
//   - users      repository.UserRepository  → read/write user records
//   - tokens     *auth.TokenService         → issue JWTs
//   - passwords  *auth.PasswordService      → bcrypt hashing/verification
//   - logger     *slog.Logger               → structured logging
type AccountService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAccountService creates an AccountService with all required
// dependencies. Call this in server.go when wiring the dependency graph.
func NewAccountService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// padDigest is a well-formed cost-12 bcrypt digest that matches no real
// password. Login runs a comparison against it when the username does
// not resolve, so an unknown username costs the same wall-clock time as
// a wrong password. Without the pad, response timing would tell a
// caller which usernames exist.
const padDigest = "$2a$12$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthResult bundles the user record and the issued JWT so the handler
// can respond in one step. User.PasswordHash is excluded from JSON at
// the model level, so encoding this struct never leaks the digest.
type AuthResult struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// Signup registers a new account.
//
// Order matters: all three fields are validated BEFORE the store is
// touched, so a request with a bad email never costs a bcrypt hash or an
// insert attempt. Uniqueness is enforced solely by the store's
// constrained insert — a conflict comes back naming the colliding field
// and is surfaced as-is ("a user with this username already exists").
func (s *AccountService) Signup(ctx context.Context, username, email, password string) (*AuthResult, error) {
	if !validate.Username(username) {
		return nil, apperror.ValidationFailed("username", "username doesn't meet complexity requirements")
	}
	if !validate.Email(email) {
		return nil, apperror.ValidationFailed("email", "email doesn't meet complexity requirements")
	}
	if !validate.Password(password) {
		return nil, apperror.ValidationFailed("password", "password doesn't meet complexity requirements")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/account: hashing password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("service/account: creating user %q: %w", username, err)
	}

	s.logger.Info("user signed up",
		slog.String("uuid", user.UUID),
		slog.String("username", user.Username),
	)

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("service/account: issuing token for %s: %w", user.UUID, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Login authenticates an existing account by username and password.
//
// Every failure path — malformed input, unknown username, wrong
// password, even an unreadable stored digest — returns the one generic
// InvalidCredentials error. Nothing about the response may reveal
// whether the username exists.
func (s *AccountService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	if !validate.Username(username) || !validate.Password(password) {
		return nil, apperror.InvalidCredentials()
	}

	user, err := s.users.FindBy(ctx, repository.LookupUsername, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			// Burn a comparison so this path is as slow as a failed
			// password check.
			s.passwords.Matches(padDigest, password)
			return nil, apperror.InvalidCredentials()
		}
		return nil, fmt.Errorf("service/account: looking up %q: %w", username, err)
	}

	if !s.passwords.Matches(user.PasswordHash, password) {
		return nil, apperror.InvalidCredentials()
	}

	s.logger.Info("user logged in",
		slog.String("uuid", user.UUID),
		slog.String("username", user.Username),
	)

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("service/account: issuing token for %s: %w", user.UUID, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// GetUser looks a user up by one of the closed lookup keys. A miss is
// apperror.NotFound, which the handler maps to 404.
func (s *AccountService) GetUser(ctx context.Context, key repository.LookupKey, value string) (*model.User, error) {
	if value == "" {
		return nil, apperror.ValidationFailed(key.String(), "lookup value must not be empty")
	}

	user, err := s.users.FindBy(ctx, key, value)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("service/account: fetching user by %s: %w", key, err)
	}

	return user, nil
}
