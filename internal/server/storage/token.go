package storage

import (
	"context"
	"time"

	"github.com/iudanet/gophtodo/internal/models"
)

// RevocationStorage defines interface for revoked session token persistence
type RevocationStorage interface {
	// SaveRevokedToken records token hash as revoked.
	// Saving the same hash again keeps the later expiry.
	SaveRevokedToken(ctx context.Context, token *models.RevokedToken) error

	// IsTokenRevoked reports whether token hash was revoked
	IsTokenRevoked(ctx context.Context, tokenHash string) (bool, error)

	// DeleteExpiredTokens removes entries whose token expired before now
	// Returns number of deleted entries
	DeleteExpiredTokens(ctx context.Context, now time.Time) (int, error)

	// CountRevokedTokens returns number of stored entries
	CountRevokedTokens(ctx context.Context) (int, error)
}
