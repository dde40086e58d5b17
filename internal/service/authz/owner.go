// Package authz resolves resource ownership. A caller can act on a
// resource only if they own the project that contains it.
package authz

import (
	"context"
	"fmt"

	"classfolio/internal/domain"
	"classfolio/internal/domain/models"
	"classfolio/internal/domain/repositories"
)

// OwnerResolver implements the "resolve owning project" capability once
// for all entity kinds. Folder and file ownership is resolved transitively
// through their project reference. Lookups ignore trash state: ownership
// of a trashed entity is still the owner's.
type OwnerResolver struct {
	projects repositories.ProjectRepository
	folders  repositories.FolderRepository
	files    repositories.FileRepository
}

// NewOwnerResolver creates a new ownership resolver
func NewOwnerResolver(
	projects repositories.ProjectRepository,
	folders repositories.FolderRepository,
	files repositories.FileRepository,
) *OwnerResolver {
	return &OwnerResolver{
		projects: projects,
		folders:  folders,
		files:    files,
	}
}

// ResolveProject returns the project after verifying the caller owns it.
// A valid id owned by someone else is Forbidden, not NotFound: the caller
// proved the id exists, hiding it gains nothing.
func (r *OwnerResolver) ResolveProject(ctx context.Context, projectID, callerID string) (*models.Project, error) {
	project, err := r.projects.GetByIDAny(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if project.OwnerID != callerID {
		return nil, fmt.Errorf("access denied to project %s: %w", projectID, domain.ErrForbidden)
	}

	return project, nil
}

// ResolveFolder returns the folder and its owning project after verifying
// the caller owns the project.
func (r *OwnerResolver) ResolveFolder(ctx context.Context, folderID, callerID string) (*models.Folder, *models.Project, error) {
	folder, err := r.folders.GetByIDAny(ctx, folderID)
	if err != nil {
		return nil, nil, err
	}

	project, err := r.ResolveProject(ctx, folder.ProjectID, callerID)
	if err != nil {
		return nil, nil, err
	}

	return folder, project, nil
}

// ResolveFile returns the file and its owning project after verifying the
// caller owns the project.
func (r *OwnerResolver) ResolveFile(ctx context.Context, fileID, callerID string) (*models.File, *models.Project, error) {
	file, err := r.files.GetByIDAny(ctx, fileID)
	if err != nil {
		return nil, nil, err
	}

	project, err := r.ResolveProject(ctx, file.ProjectID, callerID)
	if err != nil {
		return nil, nil, err
	}

	return file, project, nil
}
