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

const projectColumns = "id, owner_id, title, status, storage_root_id, is_deleted, deleted_at, created_at, updated_at"

// PostgresProjectRepository implements the ProjectRepository interface
type PostgresProjectRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(config *RepositoryConfig) repositories.ProjectRepository {
	return &PostgresProjectRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

func scanProject(row interface{ Scan(...any) error }, p *models.Project) error {
	return row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Title,
		&p.Status,
		&p.StorageRootID,
		&p.IsDeleted,
		&p.DeletedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

// Create inserts a new project row. The storage root id must already be
// set: the external container is created before the row (see the create
// saga in the service layer).
func (r *PostgresProjectRepository) Create(ctx context.Context, project *models.Project) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (owner_id, title, status, storage_root_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, r.tables.Projects)

	err := r.pool.QueryRow(ctx, query,
		project.OwnerID,
		project.Title,
		project.Status,
		project.StorageRootID,
		project.CreatedAt,
		project.UpdatedAt,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("project '%s' already exists", project.Title),
				ResourceType: "project",
			}
		}
		return fmt.Errorf("create project: %w", err)
	}

	return nil
}

// GetByID retrieves an active project by ID
func (r *PostgresProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE id = $1 AND is_deleted = FALSE
	`, projectColumns, r.tables.Projects)

	var project models.Project
	if err := scanProject(r.pool.QueryRow(ctx, query, id), &project); err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get project: %w", err)
	}

	return &project, nil
}

// GetByIDAny retrieves a project by ID regardless of trash state
func (r *PostgresProjectRepository) GetByIDAny(ctx context.Context, id string) (*models.Project, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE id = $1
	`, projectColumns, r.tables.Projects)

	var project models.Project
	if err := scanProject(r.pool.QueryRow(ctx, query, id), &project); err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get project: %w", err)
	}

	return &project, nil
}

// List retrieves all active projects for an owner, ordered by updated_at DESC
func (r *PostgresProjectRepository) List(ctx context.Context, ownerID string) ([]models.Project, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE owner_id = $1 AND is_deleted = FALSE
		ORDER BY updated_at DESC
	`, projectColumns, r.tables.Projects)

	return r.queryProjects(ctx, query, ownerID)
}

// ListTrashed retrieves all soft-deleted projects for an owner, most
// recently trashed first
func (r *PostgresProjectRepository) ListTrashed(ctx context.Context, ownerID string) ([]models.Project, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE owner_id = $1 AND is_deleted = TRUE
		ORDER BY deleted_at DESC
	`, projectColumns, r.tables.Projects)

	return r.queryProjects(ctx, query, ownerID)
}

func (r *PostgresProjectRepository) queryProjects(ctx context.Context, query string, args ...any) ([]models.Project, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var project models.Project
		if err := scanProject(rows, &project); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}

	// Return empty slice instead of nil if no projects
	if projects == nil {
		projects = []models.Project{}
	}

	return projects, nil
}

// Update updates a project's title, status and updated_at timestamp.
// The storage root and trash flags are deliberately not in the SET list.
func (r *PostgresProjectRepository) Update(ctx context.Context, project *models.Project) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, status = $2, updated_at = $3
		WHERE id = $4 AND is_deleted = FALSE
	`, r.tables.Projects)

	result, err := r.pool.Exec(ctx, query,
		project.Title,
		project.Status,
		project.UpdatedAt,
		project.ID,
	)

	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("project '%s' already exists", project.Title),
				ResourceType: "project",
			}
		}
		return fmt.Errorf("update project: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("project %s: %w", project.ID, domain.ErrNotFound)
	}

	return nil
}

// SoftDelete marks an active project as trashed and returns the updated row.
// The is_deleted = FALSE condition makes the transition a no-op on rows that
// are already trashed, which maps to NotFound.
func (r *PostgresProjectRepository) SoftDelete(ctx context.Context, id string, deletedAt time.Time) (*models.Project, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET is_deleted = TRUE, deleted_at = $2
		WHERE id = $1 AND is_deleted = FALSE
		RETURNING %s
	`, r.tables.Projects, projectColumns)

	var project models.Project
	if err := scanProject(r.pool.QueryRow(ctx, query, id, deletedAt), &project); err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("soft delete project: %w", err)
	}

	return &project, nil
}

// Restore clears the trash flags on a trashed project and returns the row.
func (r *PostgresProjectRepository) Restore(ctx context.Context, id string) (*models.Project, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET is_deleted = FALSE, deleted_at = NULL
		WHERE id = $1 AND is_deleted = TRUE
		RETURNING %s
	`, r.tables.Projects, projectColumns)

	var project models.Project
	if err := scanProject(r.pool.QueryRow(ctx, query, id), &project); err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("restore project: %w", err)
	}

	return &project, nil
}

// HardDelete removes a trashed project row permanently
func (r *PostgresProjectRepository) HardDelete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND is_deleted = TRUE
	`, r.tables.Projects)

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("hard delete project: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
