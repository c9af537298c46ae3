// Package repository declares the storage interfaces. The sqlite
// subpackage implements them; services and middleware depend only on
// these interfaces so storage can be swapped without touching callers.
package repository

import (
	"context"
	"fmt"

	"github.com/sakif/stemless/internal/model"
)

// LookupKey is the closed set of fields a user can be looked up by.
// Keeping this an enum (instead of accepting arbitrary field names)
// means a typo'd or hostile field name is rejected before it reaches
// any query.
type LookupKey int

const (
	LookupUUID LookupKey = iota
	LookupUsername
	LookupEmail
)

// String returns the wire/URL spelling of the key.
func (k LookupKey) String() string {
	switch k {
	case LookupUUID:
		return "uuid"
	case LookupUsername:
		return "username"
	case LookupEmail:
		return "email"
	default:
		return fmt.Sprintf("LookupKey(%d)", int(k))
	}
}

// ParseLookupKey converts a URL path segment into a LookupKey.
// Anything outside {uuid, username, email} is an error.
func ParseLookupKey(s string) (LookupKey, error) {
	switch s {
	case "uuid":
		return LookupUUID, nil
	case "username":
		return LookupUsername, nil
	case "email":
		return LookupEmail, nil
	default:
		return 0, fmt.Errorf("repository: invalid lookup key %q", s)
	}
}

// UserRepository is the identity store. It exclusively owns the
// persisted user representation; everything else holds snapshots.
type UserRepository interface {
	// Create inserts a new user. The uuid, created_at and updated_at
	// fields are assigned atomically with the insert — on return they
	// are populated on the passed struct. A uniqueness violation
	// returns apperror.Conflict naming the colliding field; there is
	// no separate existence check, the constrained INSERT is the only
	// coordination point between concurrent signups.
	Create(ctx context.Context, user *model.User) error

	// FindBy looks a user up by exact, case-sensitive match on the
	// given key. A miss returns apperror.NotFound; a query failure
	// returns a wrapped driver error — the two are distinct outcomes.
	FindBy(ctx context.Context, key LookupKey, value string) (*model.User, error)
}

// ProjectRepository stores project records. Projects are plain data in
// this backend; only creation and lookup are exposed.
type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	GetByUUID(ctx context.Context, uuid string) (*model.Project, error)
	GetByName(ctx context.Context, name string) (*model.Project, error)
}

// CommentRepository stores comment records.
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByUUID(ctx context.Context, uuid string) (*model.Comment, error)
}
