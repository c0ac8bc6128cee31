package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RevocationLedger stores revoked jtis in the revoked_tokens table.
type RevocationLedger struct {
	store
}

func NewRevocationLedger(read, write *pgxpool.Pool, timeout time.Duration) *RevocationLedger {
	return &RevocationLedger{store{read: read, write: write, timeout: timeout}}
}

func (l *RevocationLedger) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	_, err := l.write.Exec(ctx, `
		INSERT INTO revoked_tokens (jti, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (jti) DO NOTHING`, jti, expiresAt)
	return translate(err, "revoke token")
}

// IsRevoked reads from the primary: a logout must be visible to the very next request.
func (l *RevocationLedger) IsRevoked(ctx context.Context, jti string) (bool, error) {
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	var revoked bool
	err := l.write.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = $1)`, jti).Scan(&revoked)
	if err != nil {
		return false, translate(err, "check revocation")
	}
	return revoked, nil
}

func (l *RevocationLedger) Prune(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	tag, err := l.write.Exec(ctx, `DELETE FROM revoked_tokens WHERE expires_at < $1`, now)
	if err != nil {
		return 0, translate(err, "prune revoked tokens")
	}
	return tag.RowsAffected(), nil
}
