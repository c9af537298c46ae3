package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sakif/stemless/internal/apperror"
	"github.com/sakif/stemless/internal/model"
	"github.com/sakif/stemless/internal/repository"
)

// compile-time check that *UserStore implements repository.UserRepository
var _ repository.UserRepository = (*UserStore)(nil)

// UserStore is the sqlite-backed identity store.
type UserStore struct {
	conn *sql.DB
}

// Create inserts a new user in a single constrained INSERT.
//
// The uuid and both timestamps are assigned here, immediately before the
// insert, so they land atomically with the row. There is no prior
// existence check — the UNIQUE constraints on uuid/username/email are
// the only arbiter, which is what makes two concurrent signups with the
// same username race-free: exactly one INSERT wins, the other comes back
// as a constraint violation and is mapped to a field-naming Conflict.
func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	now := time.Now().UnixMilli()
	user.UUID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO users (uuid, username, email, password_hash, avatar, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.UUID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Avatar,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if field, ok := uniqueViolation(err); ok {
			return apperror.Conflict("user", field)
		}
		return fmt.Errorf("sqlite: inserting user %q: %w", user.Username, err)
	}

	return nil
}

// FindBy looks a user up by the given key. The enum is dispatched to one
// dedicated query per key — no field name is ever interpolated into SQL.
//
// A miss is apperror.NotFound; anything else is a wrapped query error.
// Callers can tell the two apart with errors.Is.
func (s *UserStore) FindBy(ctx context.Context, key repository.LookupKey, value string) (*model.User, error) {
	var row *sql.Row
	switch key {
	case repository.LookupUUID:
		row = s.conn.QueryRowContext(ctx, selectUser+` WHERE uuid = ?`, value)
	case repository.LookupUsername:
		row = s.conn.QueryRowContext(ctx, selectUser+` WHERE username = ?`, value)
	case repository.LookupEmail:
		row = s.conn.QueryRowContext(ctx, selectUser+` WHERE email = ?`, value)
	default:
		return nil, fmt.Errorf("sqlite: unknown lookup key %v", key)
	}

	var u model.User
	err := row.Scan(
		&u.UUID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Avatar,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", value)
		}
		return nil, fmt.Errorf("sqlite: finding user by %s: %w", key, err)
	}

	return &u, nil
}

const selectUser = `SELECT uuid, username, email, password_hash, avatar, created_at, updated_at FROM users`

// uniqueViolation inspects a driver error and, when it is a UNIQUE
// constraint failure on the users table, returns the colliding column.
//
// modernc.org/sqlite reports these as
// "constraint failed: UNIQUE constraint failed: users.username (2067)";
// there is no structured column field to read, so we match the message.
// This mirrors how the clients already phrase the failure ("a user with
// this username already exists").
func uniqueViolation(err error) (field string, ok bool) {
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return "", false
	}
	for _, col := range []string{"username", "email", "uuid"} {
		if strings.Contains(msg, "users."+col) {
			return col, true
		}
	}
	return "", false
}
