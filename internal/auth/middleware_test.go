package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sakif/stemless/internal/apperror"
	"github.com/sakif/stemless/internal/model"
	"github.com/sakif/stemless/internal/repository"
)

// fakeUserRepo resolves exactly one user and counts lookups, so the
// "at most one store lookup per request" contract is checkable.
type fakeUserRepo struct {
	user    *model.User
	lookups int
	findErr error
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	panic("gate must never write to the store")
}

func (f *fakeUserRepo) FindBy(ctx context.Context, key repository.LookupKey, value string) (*model.User, error) {
	f.lookups++
	if f.findErr != nil {
		return nil, f.findErr
	}
	if f.user != nil && key == repository.LookupUUID && f.user.UUID == value {
		copied := *f.user
		return &copied, nil
	}
	return nil, apperror.NotFound("user", value)
}

func gateFixture(t *testing.T) (*TokenService, *fakeUserRepo, http.Handler, *bool) {
	t.Helper()
	tokens := newTestTokenService(t)
	repo := &fakeUserRepo{user: testUser("uuid-ada", "ada")}

	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		user, ok := UserFromContext(r.Context())
		if !ok {
			t.Error("handler behind the gate got no user in context")
			return
		}
		if user.UUID != "uuid-ada" {
			t.Errorf("context user uuid = %q, want %q", user.UUID, "uuid-ada")
		}
	})

	return tokens, repo, RequireAuth(tokens, repo)(next), &reached
}

func TestRequireAuth_ValidToken(t *testing.T) {
	tokens, repo, gate, reached := gateFixture(t)

	token, err := tokens.Issue(testUser("uuid-ada", "ada"))
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	gate.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rr.Code, rr.Body.String())
	}
	if !*reached {
		t.Error("gate did not pass a valid request through")
	}
	if repo.lookups != 1 {
		t.Errorf("store lookups = %d, want exactly 1", repo.lookups)
	}
}

func TestRequireAuth_Rejections(t *testing.T) {
	tokens, _, gate, reached := gateFixture(t)

	validToken, _ := tokens.Issue(testUser("uuid-ada", "ada"))
	raw := []byte(validToken)
	raw[len(raw)-1] ^= 0x01

	ghostToken, _ := tokens.Issue(testUser("uuid-ghost", "ghost"))

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer scheme", "Basic dXNlcjpwYXNz"},
		{"empty bearer", "Bearer "},
		{"tampered signature", "Bearer " + string(raw)},
		{"unknown uuid", "Bearer " + ghostToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			*reached = false
			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			gate.ServeHTTP(rr, req)

			if rr.Code != http.StatusForbidden {
				t.Errorf("status = %d, want 403", rr.Code)
			}
			if rr.Body.String() != forbiddenBody {
				t.Errorf("body = %s, want the one generic rejection", rr.Body.String())
			}
			if *reached {
				t.Error("gate passed a bad request through")
			}
		})
	}
}

func TestRequireAuth_StoreFailureIsNotForbidden(t *testing.T) {
	tokens, repo, gate, reached := gateFixture(t)
	repo.findErr = errors.New("sqlite: database is locked")

	token, err := tokens.Issue(testUser("uuid-ada", "ada"))
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	gate.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500; a broken store must not read as a rejection", rr.Code)
	}
	if rr.Body.String() != internalBody {
		t.Errorf("body = %s, want the generic internal error", rr.Body.String())
	}
	if *reached {
		t.Error("gate passed a request through with the store down")
	}
}

func TestUserFromContext_Unauthenticated(t *testing.T) {
	if _, ok := UserFromContext(context.Background()); ok {
		t.Fatal("UserFromContext() should report false on a bare context")
	}
}
