package services

import (
	"context"
	"time"

	"classfolio/internal/domain/models"
)

// UpsertShareLinkRequest carries input for creating or replacing a
// project's share link. PIN is required for pin mode and ignored otherwise.
type UpsertShareLinkRequest struct {
	Mode      string     `json:"mode"`
	PIN       string     `json:"pin,omitempty"`
	Enabled   *bool      `json:"enabled,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// ShareView is the supervisor-facing read-only view of a shared project.
type ShareView struct {
	ProjectTitle string          `json:"project_title"`
	Folders      []models.Folder `json:"folders"`
	Files        []models.File   `json:"files"`
}

// ShareService manages share links and resolves public slugs.
type ShareService interface {
	UpsertShareLink(ctx context.Context, projectID, callerID string, req *UpsertShareLinkRequest) (*models.ShareLink, error)
	GetShareLink(ctx context.Context, projectID, callerID string) (*models.ShareLink, error)
	RevokeShareLink(ctx context.Context, projectID, callerID string) error

	// ResolveSlug returns the shared view for a slug. Disabled, expired, and
	// unknown slugs all surface as NotFound so the slug space leaks nothing.
	// A wrong PIN on a pin-protected link is Forbidden; an org-restricted
	// link resolved without a viewer identity is Unauthorized. viewerID is
	// empty for anonymous viewers.
	ResolveSlug(ctx context.Context, slug, pin, viewerID string) (*ShareView, error)
}
