package repositories

import (
	"context"
	"time"

	"classfolio/internal/domain/models"
)

// FolderRepository defines persistence operations for folders.
// Trash-state semantics match ProjectRepository.
type FolderRepository interface {
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID returns an active (non-trashed) folder.
	GetByID(ctx context.Context, id string) (*models.Folder, error)

	// GetByIDAny returns a folder regardless of its trash state.
	GetByIDAny(ctx context.Context, id string) (*models.Folder, error)

	// ListByProject returns the project's active folders.
	ListByProject(ctx context.Context, projectID string) ([]models.Folder, error)

	// ListTrashedByProject returns the project's soft-deleted folders.
	// Each row's trash flag is independent of its ancestors' state.
	ListTrashedByProject(ctx context.Context, projectID string) ([]models.Folder, error)

	SoftDelete(ctx context.Context, id string, deletedAt time.Time) (*models.Folder, error)
	Restore(ctx context.Context, id string) (*models.Folder, error)
	HardDelete(ctx context.Context, id string) error
}
