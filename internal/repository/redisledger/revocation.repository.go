// Package redisledger keeps revoked token ids in redis. Every key expires
// together with the token it revokes, so no pruning pass is needed.
package redisledger

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// client is the subset of redis.Cmdable the ledger uses.
type client interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
}

type RevocationLedger struct {
	client client
	prefix string
	now    func() time.Time
}

func NewRevocationLedger(c redis.Cmdable, prefix string) *RevocationLedger {
	return newLedger(c, prefix)
}

func newLedger(c client, prefix string) *RevocationLedger {
	return &RevocationLedger{client: c, prefix: prefix, now: time.Now}
}

func (l *RevocationLedger) key(jti string) string {
	return l.prefix + jti
}

// Revoke stores the jti until the token's own expiry. Tokens that already
// expired are rejected by signature validation, so nothing is stored for them.
func (l *RevocationLedger) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(l.now())
	if ttl <= 0 {
		return nil
	}
	if err := l.client.SetNX(ctx, l.key(jti), 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (l *RevocationLedger) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := l.client.Exists(ctx, l.key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("check revocation: %w", err)
	}
	return n > 0, nil
}

// Prune is a no-op: redis expires the keys itself.
func (l *RevocationLedger) Prune(context.Context, time.Time) (int64, error) {
	return 0, nil
}
