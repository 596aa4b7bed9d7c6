package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedemptionTTL = 7 * 24 * time.Hour

// RedemptionStore remembers which invitation tokens have been accepted.
// Key format: invitation:redeemed:<token_id>
type RedemptionStore struct {
	client *redis.Client
}

// NewRedemptionStore creates a RedemptionStore wrapping the given Redis client.
func NewRedemptionStore(client *redis.Client) *RedemptionStore {
	return &RedemptionStore{client: client}
}

// IsRedeemed reports whether the token has already been used.
func (s *RedemptionStore) IsRedeemed(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, redemptionKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("redemption check: %w", err)
	}
	return n > 0, nil
}

// MarkRedeemed records the token as used until it would have expired anyway.
func (s *RedemptionStore) MarkRedeemed(ctx context.Context, tokenID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, redemptionKey(tokenID), "1", redemptionTTL(ttl)).Err(); err != nil {
		return fmt.Errorf("redemption mark: %w", err)
	}
	return nil
}

func redemptionKey(tokenID string) string {
	return "invitation:redeemed:" + tokenID
}

// redemptionTTL keeps the marker alive at least a minute so a token accepted
// right before expiry cannot be replayed within clock skew.
func redemptionTTL(ttl time.Duration) time.Duration {
	switch {
	case ttl <= 0:
		return defaultRedemptionTTL
	case ttl < time.Minute:
		return time.Minute
	default:
		return ttl
	}
}
