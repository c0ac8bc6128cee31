package repository

import (
	"context"
	"time"

	"github.com/duccv/go-product-catalog/pkg/cache"
	"golang.org/x/sync/singleflight"
)

// CachedLedger remembers positive revocations in process memory until the
// token expires. Negative answers always go to the inner ledger, so a logout
// on any replica is honoured on the next request.
type CachedLedger struct {
	inner   RevocationLedger
	cache   cache.Cache
	group   singleflight.Group
	now     func() time.Time
	timeout time.Duration
}

const defaultLookupTimeout = 5 * time.Second

func NewCachedLedger(inner RevocationLedger, c cache.Cache) *CachedLedger {
	return &CachedLedger{inner: inner, cache: c, now: time.Now, timeout: defaultLookupTimeout}
}

func (l *CachedLedger) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	if err := l.inner.Revoke(ctx, jti, expiresAt); err != nil {
		return err
	}
	l.remember(jti, expiresAt)
	return nil
}

func (l *CachedLedger) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if _, ok := l.cache.Get(jti); ok {
		return true, nil
	}

	// the lookup is shared by every caller of jti, so it must not die with
	// the first caller's request
	ch := l.group.DoChan(jti, func() (any, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout)
		defer cancel()
		return l.inner.IsRevoked(lookupCtx, jti)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return false, res.Err
	}
	revoked := res.Val.(bool)
	if revoked {
		// expiry unknown here, the cache default TTL bounds the entry
		l.cache.Set(jti, struct{}{})
	}
	return revoked, nil
}

func (l *CachedLedger) Prune(ctx context.Context, now time.Time) (int64, error) {
	return l.inner.Prune(ctx, now)
}

func (l *CachedLedger) remember(jti string, expiresAt time.Time) {
	if ttl := expiresAt.Sub(l.now()); ttl > 0 {
		l.cache.SetWithTTL(jti, struct{}{}, ttl)
	}
}
