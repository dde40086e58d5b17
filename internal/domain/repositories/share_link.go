package repositories

import (
	"context"

	"classfolio/internal/domain/models"
)

// ShareLinkRepository defines persistence operations for share links.
// A project has at most one share link (unique project_id).
type ShareLinkRepository interface {
	// Upsert creates or replaces the project's share link.
	Upsert(ctx context.Context, link *models.ShareLink) error

	// GetByProject returns the project's share link, if any.
	GetByProject(ctx context.Context, projectID string) (*models.ShareLink, error)

	// GetBySlug returns the share link addressed by the public slug.
	GetBySlug(ctx context.Context, slug string) (*models.ShareLink, error)

	// DeleteByProject removes the project's share link.
	DeleteByProject(ctx context.Context, projectID string) error
}
