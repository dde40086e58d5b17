package repositories

import (
	"context"
	"time"

	"classfolio/internal/domain/models"
)

// FileRepository defines persistence operations for file metadata rows.
// Trash-state semantics match ProjectRepository.
type FileRepository interface {
	Create(ctx context.Context, file *models.File) error

	// GetByID returns an active (non-trashed) file.
	GetByID(ctx context.Context, id string) (*models.File, error)

	// GetByIDAny returns a file regardless of its trash state.
	GetByIDAny(ctx context.Context, id string) (*models.File, error)

	// ListByProject returns the project's active files.
	ListByProject(ctx context.Context, projectID string) ([]models.File, error)

	// ListTrashedByProject returns the project's soft-deleted files.
	ListTrashedByProject(ctx context.Context, projectID string) ([]models.File, error)

	SoftDelete(ctx context.Context, id string, deletedAt time.Time) (*models.File, error)
	Restore(ctx context.Context, id string) (*models.File, error)
	HardDelete(ctx context.Context, id string) error
}
