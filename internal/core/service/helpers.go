package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/tasknestle/tasknestle/internal/core/domain"
	"github.com/tasknestle/tasknestle/internal/core/policy"
	"github.com/tasknestle/tasknestle/internal/core/ports"
)

// hashCost is lowered by tests.
var hashCost = bcrypt.DefaultCost

func hashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func passwordMatches(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

func checkPassword(field, pw string) error {
	if !domain.StrongPassword(pw) {
		return domain.NewValidationError(field, fmt.Sprintf(
			"%s must be at least %d characters and contain an uppercase letter, a lowercase letter and a digit",
			field, domain.MinPasswordLength))
	}
	return nil
}

const (
	generatedPasswordLength = 12
	lowerChars              = "abcdefghijkmnopqrstuvwxyz"
	upperChars              = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	digitChars              = "23456789"
)

// generatePassword returns a random password that satisfies StrongPassword.
func generatePassword() (string, error) {
	all := lowerChars + upperChars + digitChars
	buf := make([]byte, generatedPasswordLength)
	sets := []string{upperChars, lowerChars, digitChars}
	for i := range buf {
		set := all
		if i < len(sets) {
			set = sets[i]
		}
		c, err := randomChar(set)
		if err != nil {
			return "", err
		}
		buf[i] = c
	}
	// Fisher-Yates so the guaranteed classes are not always in front.
	for i := len(buf) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		buf[i], buf[j.Int64()] = buf[j.Int64()], buf[i]
	}
	return string(buf), nil
}

func randomChar(set string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, fmt.Errorf("generate password: %w", err)
	}
	return set[n.Int64()], nil
}

// forbid wraps ErrForbidden with the denied action for logs.
func forbid(action policy.Action) error {
	return fmt.Errorf("%s: %w", action, domain.ErrForbidden)
}

func requireAdmin(p *domain.User) error {
	if !p.IsAdmin() {
		return fmt.Errorf("admin only: %w", domain.ErrForbidden)
	}
	return nil
}

// checkUsersExist fails with ErrInvalidMembers unless every id resolves to a user.
func checkUsersExist(ctx context.Context, users ports.UserRepository, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := users.FindByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("lookup members: %w", err)
	}
	if len(found) != len(ids) {
		return domain.ErrInvalidMembers
	}
	return nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// notify hands n to the notifier and only logs a failure.
func notify(ctx context.Context, notifier ports.Notifier, log zerolog.Logger, n domain.Notification) {
	if notifier == nil || n.To == "" {
		return
	}
	if err := notifier.Notify(ctx, n); err != nil {
		log.Warn().Err(err).
			Str("kind", string(n.Kind)).
			Str("to", n.To).
			Msg("notification not delivered")
	}
}

// canonicalIDs lower-cases and trims ids so string comparison matches how
// the store resolves them.
func canonicalIDs(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = strings.ToLower(strings.TrimSpace(id))
	}
	return out
}
