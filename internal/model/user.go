// Package model defines the data structures used throughout the application.
package model

// User represents a registered account on the platform.
//
// WHY EPOCH MILLISECONDS FOR TIMESTAMPS?
// The clients already store and compare `created_at`/`updated_at` as
// millisecond epoch numbers, so we keep int64 rather than time.Time to
// serialize exactly that shape without custom JSON marshalling.
//
// WHY PasswordHash `json:"-"`?
// The bcrypt digest must never cross the API boundary. Excluding it at
// the type level means every handler that encodes a User gets the
// sanitized projection for free — there is no "forgot to strip it" path.
type User struct {
	UUID         string `json:"uuid"       db:"uuid"`     // server-generated v4 UUID, immutable
	Username     string `json:"username"   db:"username"` // globally unique, case-sensitive
	Email        string `json:"email"      db:"email"`    // globally unique
	PasswordHash string `json:"-"          db:"password_hash"`
	Avatar       string `json:"avatar,omitempty" db:"avatar"` // optional avatar URL
	CreatedAt    int64  `json:"created_at" db:"created_at"`   // epoch ms, set once at insert
	UpdatedAt    int64  `json:"updated_at" db:"updated_at"`   // epoch ms, set on every write
}
