package store

import (
	"context"
	"fmt"
	"time"

	"github.com/safar/go-storefront/internal/database"
)

// PostgresBlacklist stores revoked refresh tokens in blacklisted_tokens.
type PostgresBlacklist struct {
	DB database.DBTX
}

func (b PostgresBlacklist) Add(ctx context.Context, jti string, userID int64, expiresAt time.Time) error {
	_, err := b.DB.ExecContext(ctx, `
		INSERT INTO blacklisted_tokens (jti, user_id, expires_at, blacklisted_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (jti) DO NOTHING`, jti, userID, expiresAt)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return database.ErrUserNotFound
		}
		return fmt.Errorf("blacklist token: %w", err)
	}
	return nil
}

func (b PostgresBlacklist) Contains(ctx context.Context, jti string) (bool, error) {
	var exists bool
	err := b.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM blacklisted_tokens WHERE jti = $1)`, jti).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check blacklisted token: %w", err)
	}
	return exists, nil
}

// PurgeExpiredTokens drops entries whose token could no longer be used anyway.
func PurgeExpiredTokens(ctx context.Context, db database.DBTX) (int64, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM blacklisted_tokens WHERE expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("purge blacklisted tokens: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return n, nil
}
