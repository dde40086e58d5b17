package postgres

import (
	"context"
	"fmt"

	"classfolio/internal/domain"
	"classfolio/internal/domain/models"
	"classfolio/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresDriveTokenRepository implements the DriveTokenRepository interface
type PostgresDriveTokenRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewDriveTokenRepository creates a new drive token repository
func NewDriveTokenRepository(config *RepositoryConfig) repositories.DriveTokenRepository {
	return &PostgresDriveTokenRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Get retrieves a user's drive credential
func (r *PostgresDriveTokenRepository) Get(ctx context.Context, userID string) (*models.DriveToken, error) {
	query := fmt.Sprintf(`
		SELECT user_id, access_token, refresh_token, expiry, updated_at
		FROM %s
		WHERE user_id = $1
	`, r.tables.DriveTokens)

	var token models.DriveToken
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&token.UserID,
		&token.AccessToken,
		&token.RefreshToken,
		&token.Expiry,
		&token.UpdatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("drive token for user %s: %w", userID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get drive token: %w", err)
	}

	return &token, nil
}

// Save inserts or replaces a user's drive credential
func (r *PostgresDriveTokenRepository) Save(ctx context.Context, token *models.DriveToken) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, access_token, refresh_token, expiry, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET access_token = EXCLUDED.access_token,
		    refresh_token = EXCLUDED.refresh_token,
		    expiry = EXCLUDED.expiry,
		    updated_at = EXCLUDED.updated_at
	`, r.tables.DriveTokens)

	_, err := r.pool.Exec(ctx, query,
		token.UserID,
		token.AccessToken,
		token.RefreshToken,
		token.Expiry,
		token.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("save drive token: %w", err)
	}

	return nil
}
