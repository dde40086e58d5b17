package repositories

import (
	"context"
	"time"

	"classfolio/internal/domain/models"
)

// ProjectRepository defines persistence operations for projects.
//
// Getters are not owner-scoped: ownership is resolved by the authorization
// layer so that a valid id owned by someone else surfaces as Forbidden, not
// NotFound. Trash transitions are conditional updates - an entity that is
// not in the required source state behaves as if it does not exist.
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error

	// GetByID returns an active (non-trashed) project.
	GetByID(ctx context.Context, id string) (*models.Project, error)

	// GetByIDAny returns a project regardless of its trash state.
	// Used by trash transitions and ownership resolution.
	GetByIDAny(ctx context.Context, id string) (*models.Project, error)

	// List returns the owner's active projects, most recently updated first.
	List(ctx context.Context, ownerID string) ([]models.Project, error)

	// ListTrashed returns the owner's soft-deleted projects.
	ListTrashed(ctx context.Context, ownerID string) ([]models.Project, error)

	// Update persists title and status. It never touches the trash flags
	// or the storage root.
	Update(ctx context.Context, project *models.Project) error

	// SoftDelete marks an active project as trashed at the given time.
	// Returns domain.ErrNotFound if the project is missing or already trashed.
	SoftDelete(ctx context.Context, id string, deletedAt time.Time) (*models.Project, error)

	// Restore clears the trash flags on a trashed project.
	// Returns domain.ErrNotFound if the project is missing or not trashed.
	Restore(ctx context.Context, id string) (*models.Project, error)

	// HardDelete removes a trashed project's row. Terminal.
	// Returns domain.ErrNotFound if the project is missing or not trashed.
	HardDelete(ctx context.Context, id string) error
}
