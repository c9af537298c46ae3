package auth

import (
	"testing"
	"time"

	"github.com/sakif/stemless/internal/model"
)

// newTestTokenService creates a TokenService for testing.
// It uses a fixed, known secret so tests are deterministic.
func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	ts, err := NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return ts
}

func testUser(uuid, username string) *model.User {
	return &model.User{UUID: uuid, Username: username, Email: username + "@example.com"}
}

// =========================================================================
// TOKEN SERVICE CONSTRUCTION TESTS
// =========================================================================

func TestNewTokenService_ShortSecret(t *testing.T) {
	_, err := NewTokenService("short")
	if err == nil {
		t.Fatal("NewTokenService() should reject secrets shorter than 16 chars")
	}
}

func TestNewTokenService_ValidSecret(t *testing.T) {
	_, err := NewTokenService("this-is-16-chars")
	if err != nil {
		t.Fatalf("NewTokenService() unexpected error for valid secret: %v", err)
	}
}

// =========================================================================
// ISSUE TESTS
// =========================================================================

func TestIssue_ReturnsNonEmptyToken(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Issue(testUser("uuid-123", "ada"))
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if token == "" {
		t.Error("Issue() returned empty token")
	}

	// JWT tokens have 3 dot-separated parts: header.payload.signature
	dots := 0
	for _, c := range token {
		if c == '.' {
			dots++
		}
	}
	if dots != 2 {
		t.Errorf("Issue() token doesn't look like a JWT (expected 2 dots, got %d)", dots)
	}
}

func TestIssue_DifferentUsersGetDifferentTokens(t *testing.T) {
	ts := newTestTokenService(t)

	token1, _ := ts.Issue(testUser("uuid-aaa", "aaa"))
	token2, _ := ts.Issue(testUser("uuid-bbb", "bbb"))

	if token1 == token2 {
		t.Error("Issue() returned identical tokens for different users")
	}
}

func TestIssue_RejectsUserWithoutUUID(t *testing.T) {
	ts := newTestTokenService(t)

	if _, err := ts.Issue(&model.User{Username: "ada"}); err == nil {
		t.Fatal("Issue() should reject a user with no uuid")
	}
	if _, err := ts.Issue(nil); err == nil {
		t.Fatal("Issue() should reject a nil user")
	}
}

// =========================================================================
// VALIDATE TESTS
// =========================================================================

func TestValidate_RoundTrip(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Issue(testUser("uuid-abc-123", "ada"))
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	// Validate should return the exact same uuid we put in
	got, err := ts.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got != "uuid-abc-123" {
		t.Errorf("Validate() uuid = %q, want %q", got, "uuid-abc-123")
	}
}

func TestValidate_ExpiredToken(t *testing.T) {
	ts := newTestTokenService(t)

	// A token that expired 1 second ago
	token, err := ts.IssueWithDuration(testUser("uuid-123", "ada"), -1*time.Second)
	if err != nil {
		t.Fatalf("IssueWithDuration() error = %v", err)
	}

	_, err = ts.Validate(token)
	if err == nil {
		t.Fatal("Validate() should return an error for an expired token")
	}
	t.Logf("Expired token error (expected): %v", err)
}

func TestValidate_TamperedToken(t *testing.T) {
	ts := newTestTokenService(t)

	token, _ := ts.Issue(testUser("uuid-123", "ada"))

	// Flip a single bit in the signature to simulate tampering
	raw := []byte(token)
	raw[len(raw)-1] ^= 0x01
	tampered := string(raw)

	_, err := ts.Validate(tampered)
	if err == nil {
		t.Fatal("Validate() should return an error for a tampered token")
	}
	t.Logf("Tampered token error (expected): %v", err)
}

func TestValidate_WrongSecret(t *testing.T) {
	ts1, _ := NewTokenService("correct-secret-32-chars-long!!!!")
	ts2, _ := NewTokenService("wrong-secret-32-chars-long!!!!!!")

	token, _ := ts1.Issue(testUser("uuid-123", "ada"))

	// Validating with a different secret must fail
	_, err := ts2.Validate(token)
	if err == nil {
		t.Fatal("Validate() should fail when using a different secret")
	}
}

func TestValidate_EmptyToken(t *testing.T) {
	ts := newTestTokenService(t)

	_, err := ts.Validate("")
	if err == nil {
		t.Fatal("Validate() should return an error for an empty string")
	}
}

func TestValidate_GarbageString(t *testing.T) {
	ts := newTestTokenService(t)

	_, err := ts.Validate("not.a.jwt.token")
	if err == nil {
		t.Fatal("Validate() should return an error for a garbage string")
	}
}

// =========================================================================
// DURATION TESTS
// =========================================================================

func TestIssueWithDuration_FutureToken(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.IssueWithDuration(testUser("uuid-123", "ada"), 1*time.Hour)
	if err != nil {
		t.Fatalf("IssueWithDuration() error = %v", err)
	}

	uuid, err := ts.Validate(token)
	if err != nil {
		t.Fatalf("Validate() on 1h token error = %v", err)
	}
	if uuid != "uuid-123" {
		t.Errorf("uuid = %q, want %q", uuid, "uuid-123")
	}
}
