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

const fileColumns = "id, project_id, folder_id, storage_id, name, content_type, size, web_link, is_deleted, deleted_at, created_at, updated_at"

// PostgresFileRepository implements the FileRepository interface
type PostgresFileRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFileRepository creates a new file repository
func NewFileRepository(config *RepositoryConfig) repositories.FileRepository {
	return &PostgresFileRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

func scanFile(row interface{ Scan(...any) error }, f *models.File) error {
	return row.Scan(
		&f.ID,
		&f.ProjectID,
		&f.FolderID,
		&f.StorageID,
		&f.Name,
		&f.ContentType,
		&f.Size,
		&f.WebLink,
		&f.IsDeleted,
		&f.DeletedAt,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
}

// Create inserts a new file metadata row
func (r *PostgresFileRepository) Create(ctx context.Context, file *models.File) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (project_id, folder_id, storage_id, name, content_type, size, web_link, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, r.tables.Files)

	err := r.pool.QueryRow(ctx, query,
		file.ProjectID,
		file.FolderID,
		file.StorageID,
		file.Name,
		file.ContentType,
		file.Size,
		file.WebLink,
		file.CreatedAt,
		file.UpdatedAt,
	).Scan(&file.ID, &file.CreatedAt, &file.UpdatedAt)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("file parent: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("create file: %w", err)
	}

	return nil
}

// GetByID retrieves an active file by ID
func (r *PostgresFileRepository) GetByID(ctx context.Context, id string) (*models.File, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE id = $1 AND is_deleted = FALSE
	`, fileColumns, r.tables.Files)

	var file models.File
	if err := scanFile(r.pool.QueryRow(ctx, query, id), &file); err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get file: %w", err)
	}

	return &file, nil
}

// GetByIDAny retrieves a file by ID regardless of trash state
func (r *PostgresFileRepository) GetByIDAny(ctx context.Context, id string) (*models.File, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE id = $1
	`, fileColumns, r.tables.Files)

	var file models.File
	if err := scanFile(r.pool.QueryRow(ctx, query, id), &file); err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get file: %w", err)
	}

	return &file, nil
}

// ListByProject retrieves all active files in a project
func (r *PostgresFileRepository) ListByProject(ctx context.Context, projectID string) ([]models.File, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE project_id = $1 AND is_deleted = FALSE
		ORDER BY name
	`, fileColumns, r.tables.Files)

	return r.queryFiles(ctx, query, projectID)
}

// ListTrashedByProject retrieves all soft-deleted files in a project
func (r *PostgresFileRepository) ListTrashedByProject(ctx context.Context, projectID string) ([]models.File, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE project_id = $1 AND is_deleted = TRUE
		ORDER BY deleted_at DESC
	`, fileColumns, r.tables.Files)

	return r.queryFiles(ctx, query, projectID)
}

func (r *PostgresFileRepository) queryFiles(ctx context.Context, query string, args ...any) ([]models.File, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	var files []models.File
	for rows.Next() {
		var file models.File
		if err := scanFile(rows, &file); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}

	if files == nil {
		files = []models.File{}
	}

	return files, nil
}

// SoftDelete marks an active file as trashed and returns the updated row
func (r *PostgresFileRepository) SoftDelete(ctx context.Context, id string, deletedAt time.Time) (*models.File, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET is_deleted = TRUE, deleted_at = $2
		WHERE id = $1 AND is_deleted = FALSE
		RETURNING %s
	`, r.tables.Files, fileColumns)

	var file models.File
	if err := scanFile(r.pool.QueryRow(ctx, query, id, deletedAt), &file); err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("soft delete file: %w", err)
	}

	return &file, nil
}

// Restore clears the trash flags on a trashed file and returns the row
func (r *PostgresFileRepository) Restore(ctx context.Context, id string) (*models.File, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET is_deleted = FALSE, deleted_at = NULL
		WHERE id = $1 AND is_deleted = TRUE
		RETURNING %s
	`, r.tables.Files, fileColumns)

	var file models.File
	if err := scanFile(r.pool.QueryRow(ctx, query, id), &file); err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("restore file: %w", err)
	}

	return &file, nil
}

// HardDelete removes a trashed file row permanently
func (r *PostgresFileRepository) HardDelete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND is_deleted = TRUE
	`, r.tables.Files)

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("hard delete file: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
