package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist remembers revoked token IDs until they would have expired
type TokenBlacklist struct {
	client *redis.Client
	prefix string
}

func NewTokenBlacklist(client *redis.Client, prefix string) *TokenBlacklist {
	return &TokenBlacklist{client: client, prefix: prefix}
}

// Revoke blacklists tokenID for ttl. Tokens that already expired are ignored.
func (b *TokenBlacklist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return b.client.Set(ctx, b.key(tokenID), 1, ttl).Err()
}

func (b *TokenBlacklist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := b.client.Get(ctx, b.key(tokenID)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (b *TokenBlacklist) key(tokenID string) string {
	return b.prefix + ":" + tokenID
}
