package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tasknestle/tasknestle/internal/core/domain"
)

const (
	purposeSession    = "session"
	purposeInvitation = "invitation"

	defaultSessionTTL    = 7 * 24 * time.Hour
	defaultInvitationTTL = 7 * 24 * time.Hour
)

type sessionClaims struct {
	Purpose string      `json:"typ"`
	Role    domain.Role `json:"role"`
	jwt.RegisteredClaims
}

type invitationClaims struct {
	Email     string `json:"email"`
	ProjectID string `json:"projectId"`
	Purpose   string `json:"type"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 session and invitation tokens.
// The purpose claim keeps one kind from being accepted as the other.
type TokenManager struct {
	secret        []byte
	sessionTTL    time.Duration
	invitationTTL time.Duration
	now           func() time.Time
}

func NewTokenManager(secret string, sessionTTL, invitationTTL time.Duration) *TokenManager {
	if sessionTTL <= 0 {
		sessionTTL = defaultSessionTTL
	}
	if invitationTTL <= 0 {
		invitationTTL = defaultInvitationTTL
	}
	return &TokenManager{
		secret:        []byte(secret),
		sessionTTL:    sessionTTL,
		invitationTTL: invitationTTL,
		now:           time.Now,
	}
}

// IssueSession returns a session token whose subject is the user's id.
func (m *TokenManager) IssueSession(user *domain.User) (string, error) {
	now := m.now()
	claims := sessionClaims{
		Purpose: purposeSession,
		Role:    user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.sessionTTL)),
		},
	}
	return m.sign(claims)
}

// ParseSession verifies a session token and returns its subject.
// Any failure is reported as domain.ErrUnauthenticated.
func (m *TokenManager) ParseSession(token string) (string, error) {
	var claims sessionClaims
	if err := m.parse(token, &claims); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	if claims.Purpose != purposeSession || claims.Subject == "" {
		return "", domain.ErrUnauthenticated
	}
	return claims.Subject, nil
}

// IssueInvitation mints a single-purpose token for email to join projectID.
func (m *TokenManager) IssueInvitation(email, projectID string) (string, *domain.InvitationClaims, error) {
	now := m.now()
	claims := invitationClaims{
		Email:     email,
		ProjectID: projectID,
		Purpose:   purposeInvitation,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.invitationTTL)),
		},
	}
	signed, err := m.sign(claims)
	if err != nil {
		return "", nil, err
	}
	return signed, &domain.InvitationClaims{
		TokenID:   claims.ID,
		Email:     email,
		ProjectID: projectID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// ParseInvitation verifies signature, expiry and purpose of an invitation
// token. Any failure is reported as domain.ErrInvalidToken.
func (m *TokenManager) ParseInvitation(token string) (*domain.InvitationClaims, error) {
	var claims invitationClaims
	if err := m.parse(token, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if claims.Purpose != purposeInvitation || claims.Email == "" || claims.ProjectID == "" {
		return nil, domain.ErrInvalidToken
	}
	return &domain.InvitationClaims{
		TokenID:   claims.ID,
		Email:     claims.Email,
		ProjectID: claims.ProjectID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (m *TokenManager) sign(claims jwt.Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secret)
}

func (m *TokenManager) parse(token string, claims jwt.Claims) error {
	if token == "" {
		return errors.New("empty token")
	}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	return err
}
