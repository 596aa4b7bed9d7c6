package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tasknestle/tasknestle/internal/core/domain"
)

func TestTokenManager_InvitationRoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour, 0)

	token, issued, err := m.IssueInvitation("new@example.com", "p1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if issued.TokenID == "" {
		t.Fatalf("expected a token id")
	}
	if got := issued.ExpiresAt.Sub(time.Now()); got < 7*24*time.Hour-time.Minute {
		t.Fatalf("expected default 7 day validity, got %v", got)
	}

	claims, err := m.ParseInvitation(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Email != "new@example.com" || claims.ProjectID != "p1" || claims.TokenID != issued.TokenID {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	m := NewTokenManager("secret", time.Hour, time.Hour)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := m.IssueInvitation("new@example.com", "p1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	m.now = time.Now
	if _, err := m.ParseInvitation(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenManager_PurposeIsEnforced(t *testing.T) {
	m := NewTokenManager("secret", time.Hour, time.Hour)

	session, err := m.IssueSession(&domain.User{ID: "u1", Role: domain.RoleMember})
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}
	if _, err := m.ParseInvitation(session); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("session accepted as invitation: %v", err)
	}

	invite, _, err := m.IssueInvitation("x@example.com", "p1")
	if err != nil {
		t.Fatalf("issue invitation: %v", err)
	}
	if _, err := m.ParseSession(invite); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("invitation accepted as session: %v", err)
	}
}

func TestTokenManager_RejectsForeignSignature(t *testing.T) {
	m := NewTokenManager("secret", time.Hour, time.Hour)
	other := NewTokenManager("other-secret", time.Hour, time.Hour)

	token, err := other.IssueSession(&domain.User{ID: "u1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.ParseSession(token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestTokenManager_RejectsOtherAlgorithms(t *testing.T) {
	m := NewTokenManager("secret", time.Hour, time.Hour)
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "u1",
		"typ": purposeSession,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := m.ParseSession(token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestGeneratePassword(t *testing.T) {
	for i := 0; i < 50; i++ {
		pw, err := generatePassword()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(pw) != generatedPasswordLength {
			t.Fatalf("unexpected length %d", len(pw))
		}
		if !domain.StrongPassword(pw) {
			t.Fatalf("generated password %q is not strong", pw)
		}
	}
}
