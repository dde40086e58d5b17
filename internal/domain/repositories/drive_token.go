package repositories

import (
	"context"

	"classfolio/internal/domain/models"
)

// DriveTokenRepository persists per-user drive provider credentials.
type DriveTokenRepository interface {
	// Get returns the user's stored credential.
	Get(ctx context.Context, userID string) (*models.DriveToken, error)

	// Save inserts or replaces the user's credential.
	Save(ctx context.Context, token *models.DriveToken) error
}
