package memory

import (
	"context"
	"sync"
	"time"
)

// RevocationLedger keeps revoked jtis with their token expiry.
type RevocationLedger struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

func NewRevocationLedger() *RevocationLedger {
	return &RevocationLedger{revoked: make(map[string]time.Time)}
}

func (l *RevocationLedger) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.revoked[jti]; !exists {
		l.revoked[jti] = expiresAt
	}
	return nil
}

func (l *RevocationLedger) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()

	_, revoked := l.revoked[jti]
	return revoked, nil
}

func (l *RevocationLedger) Prune(ctx context.Context, now time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	var removed int64
	for jti, expiresAt := range l.revoked {
		if expiresAt.Before(now) {
			delete(l.revoked, jti)
			removed++
		}
	}
	return removed, nil
}

// Len is the number of records currently held.
func (l *RevocationLedger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.revoked)
}
