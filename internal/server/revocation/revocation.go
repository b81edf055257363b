// Package revocation keeps track of session tokens that were revoked (logout)
// before their natural expiry.
package revocation

import (
	"context"
	"log/slog"
	"time"
)

// List records revoked tokens.
// Every authenticated request must check IsRevoked in addition to
// signature and expiry validation.
type List interface {
	// Revoke marks token as unusable until expiresAt. Idempotent.
	Revoke(ctx context.Context, token string, expiresAt time.Time) error

	// IsRevoked reports whether token was revoked
	IsRevoked(ctx context.Context, token string) (bool, error)

	// Prune drops entries of tokens that expired naturally.
	// Returns number of removed entries.
	Prune(ctx context.Context) (int, error)

	// Len returns number of tracked entries
	Len(ctx context.Context) (int, error)
}

// PruneObserver receives results of pruner passes. metrics.Recorder satisfies it.
type PruneObserver interface {
	RecordPruned(count int)
	RecordRevokedTokens(count int)
}

// RunPruner periodically prunes expired entries until ctx is done.
// After every pass observer, if not nil, receives the number of removed
// and remaining entries.
func RunPruner(ctx context.Context, list List, interval time.Duration, logger *slog.Logger, observer PruneObserver) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := list.Prune(ctx)
			if err != nil {
				logger.ErrorContext(ctx, "failed to prune revoked tokens", slog.Any("error", err))
				continue
			}
			if removed > 0 {
				logger.DebugContext(ctx, "pruned revoked tokens", slog.Int("removed", removed))
			}
			if observer == nil {
				continue
			}
			observer.RecordPruned(removed)

			remaining, err := list.Len(ctx)
			if err != nil {
				logger.ErrorContext(ctx, "failed to count revoked tokens", slog.Any("error", err))
				continue
			}
			observer.RecordRevokedTokens(remaining)
		}
	}
}
