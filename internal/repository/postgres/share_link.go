package postgres

import (
	"context"
	"fmt"

	"classfolio/internal/domain"
	"classfolio/internal/domain/models"
	"classfolio/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

const shareLinkColumns = "id, project_id, slug, mode, pin_hash, enabled, expires_at, created_at, updated_at"

// PostgresShareLinkRepository implements the ShareLinkRepository interface
type PostgresShareLinkRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewShareLinkRepository creates a new share link repository
func NewShareLinkRepository(config *RepositoryConfig) repositories.ShareLinkRepository {
	return &PostgresShareLinkRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

func scanShareLink(row interface{ Scan(...any) error }, l *models.ShareLink) error {
	return row.Scan(
		&l.ID,
		&l.ProjectID,
		&l.Slug,
		&l.Mode,
		&l.PINHash,
		&l.Enabled,
		&l.ExpiresAt,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
}

// Upsert creates or replaces the project's share link. The unique
// project_id constraint enforces the at-most-one-per-project invariant.
func (r *PostgresShareLinkRepository) Upsert(ctx context.Context, link *models.ShareLink) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (project_id, slug, mode, pin_hash, enabled, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (project_id) DO UPDATE
		SET slug = EXCLUDED.slug,
		    mode = EXCLUDED.mode,
		    pin_hash = EXCLUDED.pin_hash,
		    enabled = EXCLUDED.enabled,
		    expires_at = EXCLUDED.expires_at,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at
	`, r.tables.ShareLinks)

	err := r.pool.QueryRow(ctx, query,
		link.ProjectID,
		link.Slug,
		link.Mode,
		link.PINHash,
		link.Enabled,
		link.ExpiresAt,
		link.CreatedAt,
		link.UpdatedAt,
	).Scan(&link.ID, &link.CreatedAt, &link.UpdatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			// Slug collision with another project's link
			return &domain.ConflictError{
				Message:      "share slug already in use",
				ResourceType: "share_link",
			}
		}
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("share link project: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("upsert share link: %w", err)
	}

	return nil
}

// GetByProject retrieves the project's share link
func (r *PostgresShareLinkRepository) GetByProject(ctx context.Context, projectID string) (*models.ShareLink, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE project_id = $1
	`, shareLinkColumns, r.tables.ShareLinks)

	var link models.ShareLink
	if err := scanShareLink(r.pool.QueryRow(ctx, query, projectID), &link); err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("share link for project %s: %w", projectID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get share link: %w", err)
	}

	return &link, nil
}

// GetBySlug retrieves a share link by its public slug
func (r *PostgresShareLinkRepository) GetBySlug(ctx context.Context, slug string) (*models.ShareLink, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE slug = $1
	`, shareLinkColumns, r.tables.ShareLinks)

	var link models.ShareLink
	if err := scanShareLink(r.pool.QueryRow(ctx, query, slug), &link); err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("share link %s: %w", slug, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get share link by slug: %w", err)
	}

	return &link, nil
}

// DeleteByProject removes the project's share link
func (r *PostgresShareLinkRepository) DeleteByProject(ctx context.Context, projectID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE project_id = $1
	`, r.tables.ShareLinks)

	result, err := r.pool.Exec(ctx, query, projectID)
	if err != nil {
		return fmt.Errorf("delete share link: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("share link for project %s: %w", projectID, domain.ErrNotFound)
	}

	return nil
}
