package domain_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/mhutchins/feedboard/internal/domain"
)

type fakeIssuer struct {
	issued []string
	err    error
}

func (f *fakeIssuer) Issue(userID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.issued = append(f.issued, userID)
	return "token-for-" + userID, nil
}

func newAuthFixture() (*fakeStore, *fakeIssuer, *domain.AuthService) {
	store := newFakeStore(&opLog{})
	issuer := &fakeIssuer{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return store, issuer, domain.NewAuthService(store, issuer, logger)
}

func TestSignupAndLogin(t *testing.T) {
	store, issuer, svc := newAuthFixture()

	id, err := svc.Signup(context.Background(), "alice@example.com", "Alice", "secret123")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if id == "" {
		t.Fatal("expected a user ID")
	}

	stored := store.users[id]
	if stored.PasswordHash == "secret123" || stored.PasswordHash == "" {
		t.Errorf("password stored in the clear or not at all")
	}

	token, loginID, err := svc.Login(context.Background(), "alice@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if loginID != id {
		t.Errorf("login user ID = %q, want %q", loginID, id)
	}
	if token != "token-for-"+id {
		t.Errorf("token = %q, want issued token", token)
	}
	if len(issuer.issued) != 1 {
		t.Errorf("tokens issued = %d, want 1", len(issuer.issued))
	}
}

func TestSignupValidation(t *testing.T) {
	tests := []struct {
		name                  string
		email, user, password string
	}{
		{"bad email", "not-an-email", "Alice", "secret123"},
		{"empty name", "alice@example.com", "  ", "secret123"},
		{"short password", "alice@example.com", "Alice", "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, svc := newAuthFixture()
			_, err := svc.Signup(context.Background(), tt.email, tt.user, tt.password)
			if domain.KindOf(err) != domain.KindValidation {
				t.Errorf("error kind = %v (%v), want validation", domain.KindOf(err), err)
			}
		})
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	_, _, svc := newAuthFixture()

	if _, err := svc.Signup(context.Background(), "alice@example.com", "Alice", "secret123"); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	_, err := svc.Signup(context.Background(), "Alice@Example.com", "Alice II", "secret123")
	if domain.KindOf(err) != domain.KindValidation {
		t.Errorf("duplicate signup error kind = %v, want validation", domain.KindOf(err))
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	_, _, svc := newAuthFixture()
	if _, err := svc.Signup(context.Background(), "alice@example.com", "Alice", "secret123"); err != nil {
		t.Fatalf("signup: %v", err)
	}

	tests := []struct {
		name            string
		email, password string
	}{
		{"unknown email", "bob@example.com", "secret123"},
		{"wrong password", "alice@example.com", "wrong"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Login(context.Background(), tt.email, tt.password)
			if domain.KindOf(err) != domain.KindUnauthenticated {
				t.Errorf("error kind = %v, want unauthenticated", domain.KindOf(err))
			}
		})
	}
}
