package revocation

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/gophtodo/internal/crypto"
	"github.com/iudanet/gophtodo/internal/models"
	"github.com/iudanet/gophtodo/internal/server/storage"
)

// Persistent stores revoked tokens in the database, so revocations
// survive restarts and are shared by every process using the same database.
type Persistent struct {
	store storage.RevocationStorage
	now   func() time.Time
}

// NewPersistent creates a revocation list backed by store
func NewPersistent(store storage.RevocationStorage) *Persistent {
	return &Persistent{
		store: store,
		now:   time.Now,
	}
}

// Revoke marks token as revoked
func (p *Persistent) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	entry := &models.RevokedToken{
		TokenHash: crypto.HashToken(token),
		ExpiresAt: expiresAt,
		RevokedAt: p.now(),
	}

	if err := p.store.SaveRevokedToken(ctx, entry); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	return nil
}

// IsRevoked reports whether token was revoked
func (p *Persistent) IsRevoked(ctx context.Context, token string) (bool, error) {
	revoked, err := p.store.IsTokenRevoked(ctx, crypto.HashToken(token))
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return revoked, nil
}

// Prune removes entries whose token already expired
func (p *Persistent) Prune(ctx context.Context) (int, error) {
	removed, err := p.store.DeleteExpiredTokens(ctx, p.now())
	if err != nil {
		return 0, fmt.Errorf("failed to prune revoked tokens: %w", err)
	}
	return removed, nil
}

// Len returns number of stored entries
func (p *Persistent) Len(ctx context.Context) (int, error) {
	count, err := p.store.CountRevokedTokens(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count revoked tokens: %w", err)
	}
	return count, nil
}
