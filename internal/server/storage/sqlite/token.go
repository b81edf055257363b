package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/gophtodo/internal/models"
)

// SaveRevokedToken records token hash as revoked
func (s *Storage) SaveRevokedToken(ctx context.Context, token *models.RevokedToken) error {
	// Повторный отзыв не укорачивает срок хранения записи
	query := `
		INSERT INTO revoked_tokens (token_hash, expires_at, revoked_at)
		VALUES (?, ?, ?)
		ON CONFLICT (token_hash) DO UPDATE SET expires_at = MAX(expires_at, excluded.expires_at)
	`

	_, err := s.db.ExecContext(ctx, query,
		token.TokenHash,
		token.ExpiresAt.Unix(),
		token.RevokedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save revoked token: %w", err)
	}

	return nil
}

// IsTokenRevoked reports whether token hash was revoked
func (s *Storage) IsTokenRevoked(ctx context.Context, tokenHash string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE token_hash = ?)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, tokenHash).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check revoked token: %w", err)
	}

	return exists, nil
}

// DeleteExpiredTokens removes entries whose token expired before now
func (s *Storage) DeleteExpiredTokens(ctx context.Context, now time.Time) (int, error) {
	query := `DELETE FROM revoked_tokens WHERE expires_at < ?`

	result, err := s.db.ExecContext(ctx, query, now.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rows), nil
}

// CountRevokedTokens returns number of stored entries
func (s *Storage) CountRevokedTokens(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM revoked_tokens`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count revoked tokens: %w", err)
	}
	return count, nil
}
