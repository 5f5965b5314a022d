package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssueAndVerify(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	userID, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if userID != "user-1" {
		t.Errorf("userID = %q, want user-1", userID)
	}
}

func TestVerifyRejects(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	expired := NewManager("test-secret", -time.Minute)
	expiredToken, err := expired.Issue("user-1")
	if err != nil {
		t.Fatalf("issue expired token: %v", err)
	}

	other := NewManager("other-secret", time.Hour)
	foreignToken, err := other.Issue("user-1")
	if err != nil {
		t.Fatalf("issue foreign token: %v", err)
	}

	// Structurally valid token signed with our secret but carrying no
	// user ID claim.
	anon := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	anonToken, err := anon.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign anonymous token: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.token"},
		{"expired", expiredToken},
		{"wrong secret", foreignToken},
		{"missing user id", anonToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Verify(tt.token); err == nil {
				t.Errorf("Verify accepted %s token", tt.name)
			}
		})
	}
}
