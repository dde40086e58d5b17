package postgres

import (
	"context"
	"fmt"
	"time"

	"classfolio/internal/domain"
	"classfolio/internal/domain/models"
	"classfolio/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

const folderColumns = "id, project_id, parent_id, name, storage_id, is_deleted, deleted_at, created_at, updated_at"

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

func scanFolder(row interface{ Scan(...any) error }, f *models.Folder) error {
	return row.Scan(
		&f.ID,
		&f.ProjectID,
		&f.ParentID,
		&f.Name,
		&f.StorageID,
		&f.IsDeleted,
		&f.DeletedAt,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
}

// Create inserts a new folder row
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (project_id, parent_id, name, storage_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, r.tables.Folders)

	err := r.pool.QueryRow(ctx, query,
		folder.ProjectID,
		folder.ParentID,
		folder.Name,
		folder.StorageID,
		folder.CreatedAt,
		folder.UpdatedAt,
	).Scan(&folder.ID, &folder.CreatedAt, &folder.UpdatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("folder '%s' already exists in this location", folder.Name),
				ResourceType: "folder",
			}
		}
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("folder parent: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// GetByID retrieves an active folder by ID
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE id = $1 AND is_deleted = FALSE
	`, folderColumns, r.tables.Folders)

	var folder models.Folder
	if err := scanFolder(r.pool.QueryRow(ctx, query, id), &folder); err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return &folder, nil
}

// GetByIDAny retrieves a folder by ID regardless of trash state
func (r *PostgresFolderRepository) GetByIDAny(ctx context.Context, id string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE id = $1
	`, folderColumns, r.tables.Folders)

	var folder models.Folder
	if err := scanFolder(r.pool.QueryRow(ctx, query, id), &folder); err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return &folder, nil
}

// ListByProject retrieves all active folders in a project
func (r *PostgresFolderRepository) ListByProject(ctx context.Context, projectID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE project_id = $1 AND is_deleted = FALSE
		ORDER BY name
	`, folderColumns, r.tables.Folders)

	return r.queryFolders(ctx, query, projectID)
}

// ListTrashedByProject retrieves all soft-deleted folders in a project.
// No ancestor filtering: a folder's trash flag is independent of its
// parent's state.
func (r *PostgresFolderRepository) ListTrashedByProject(ctx context.Context, projectID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE project_id = $1 AND is_deleted = TRUE
		ORDER BY deleted_at DESC
	`, folderColumns, r.tables.Folders)

	return r.queryFolders(ctx, query, projectID)
}

func (r *PostgresFolderRepository) queryFolders(ctx context.Context, query string, args ...any) ([]models.Folder, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		var folder models.Folder
		if err := scanFolder(rows, &folder); err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	if folders == nil {
		folders = []models.Folder{}
	}

	return folders, nil
}

// SoftDelete marks an active folder as trashed and returns the updated row
func (r *PostgresFolderRepository) SoftDelete(ctx context.Context, id string, deletedAt time.Time) (*models.Folder, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET is_deleted = TRUE, deleted_at = $2
		WHERE id = $1 AND is_deleted = FALSE
		RETURNING %s
	`, r.tables.Folders, folderColumns)

	var folder models.Folder
	if err := scanFolder(r.pool.QueryRow(ctx, query, id, deletedAt), &folder); err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("soft delete folder: %w", err)
	}

	return &folder, nil
}

// Restore clears the trash flags on a trashed folder and returns the row
func (r *PostgresFolderRepository) Restore(ctx context.Context, id string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET is_deleted = FALSE, deleted_at = NULL
		WHERE id = $1 AND is_deleted = TRUE
		RETURNING %s
	`, r.tables.Folders, folderColumns)

	var folder models.Folder
	if err := scanFolder(r.pool.QueryRow(ctx, query, id), &folder); err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("restore folder: %w", err)
	}

	return &folder, nil
}

// HardDelete removes a trashed folder row permanently
func (r *PostgresFolderRepository) HardDelete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND is_deleted = TRUE
	`, r.tables.Folders)

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("hard delete folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
