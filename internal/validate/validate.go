// Package validate holds the input policy for account fields.
//
// These are pure predicates — no I/O, no state, no normalization. The
// same functions run on signup and on login so the two paths can never
// disagree about what a well-formed username or password looks like.
package validate

import "regexp"

// Policy knobs. Tests pin the exact boundaries, so change these in one
// place only.
const (
	UsernameMinLen = 3
	UsernameMaxLen = 32
	PasswordMinLen = 8
	// PasswordMaxLen matches the bcrypt input limit. The codec refuses
	// anything longer than 72 bytes, so the policy must too, or a
	// passing password could still fail to hash.
	PasswordMaxLen = 72
)

var (
	// emailRx is the usual pragmatic email grammar: one @, no spaces,
	// a dot somewhere in the domain. Full RFC 5322 parsing buys nothing
	// here — the address is only ever used as an opaque unique key.
	emailRx = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	usernameRx = regexp.MustCompile(`^[a-zA-Z0-9._\-]+$`)

	hasLetterRx = regexp.MustCompile(`[a-zA-Z]`)
	hasDigitRx  = regexp.MustCompile(`[0-9]`)
)

// Email reports whether s is a well-formed email address.
func Email(s string) bool {
	return emailRx.MatchString(s)
}

// Username reports whether s is 3–32 characters of alphanumerics plus
// dot, underscore and hyphen. Case is preserved and significant.
func Username(s string) bool {
	if len(s) < UsernameMinLen || len(s) > UsernameMaxLen {
		return false
	}
	return usernameRx.MatchString(s)
}

// Password reports whether s meets the complexity policy: 8–72 bytes
// containing at least one letter and one digit.
func Password(s string) bool {
	if len(s) < PasswordMinLen || len(s) > PasswordMaxLen {
		return false
	}
	return hasLetterRx.MatchString(s) && hasDigitRx.MatchString(s)
}
