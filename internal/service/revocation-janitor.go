package service

import (
	"context"
	"time"

	"github.com/duccv/go-product-catalog/internal/repository"
	"github.com/duccv/go-product-catalog/pkg/logger"
	"go.uber.org/zap"
)

// RevocationJanitor periodically forgets revocations of tokens that have
// expired on their own.
type RevocationJanitor struct {
	ledger   repository.RevocationLedger
	interval time.Duration
	now      func() time.Time
	log      *zap.Logger
}

func NewRevocationJanitor(ledger repository.RevocationLedger, interval time.Duration) *RevocationJanitor {
	return &RevocationJanitor{
		ledger:   ledger,
		interval: interval,
		now:      time.Now,
		log:      logger.WithComponent(zap.L(), "revocation-janitor"),
	}
}

// Run blocks until ctx is cancelled. A non-positive interval disables pruning.
func (j *RevocationJanitor) Run(ctx context.Context) {
	if j.interval <= 0 {
		return
	}
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := j.PruneOnce(ctx); err != nil && ctx.Err() == nil {
				j.log.Warn("Revocation prune failed", zap.Error(err))
			}
		}
	}
}

func (j *RevocationJanitor) PruneOnce(ctx context.Context) (int64, error) {
	removed, err := j.ledger.Prune(ctx, j.now())
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		j.log.Info("Pruned expired revocations", zap.Int64("removed", removed))
	}
	return removed, nil
}
