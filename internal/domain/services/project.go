package services

import (
	"context"

	"classfolio/internal/domain/models"
)

// CreateProjectRequest carries input for project creation
type CreateProjectRequest struct {
	OwnerID string `json:"-"`
	Title   string `json:"title"`
	Status  string `json:"status"`
}

// UpdateProjectRequest carries input for project updates. Empty fields
// keep their current value.
type UpdateProjectRequest struct {
	Title  string `json:"title"`
	Status string `json:"status"`
}

// ProjectService defines project business operations. Trash transitions
// live on TrashService; this interface never flips delete flags.
type ProjectService interface {
	CreateProject(ctx context.Context, req *CreateProjectRequest) (*models.Project, error)
	GetProject(ctx context.Context, id, callerID string) (*models.Project, error)
	ListProjects(ctx context.Context, callerID string) ([]models.Project, error)
	ListTrashedProjects(ctx context.Context, callerID string) ([]models.Project, error)
	UpdateProject(ctx context.Context, id, callerID string, req *UpdateProjectRequest) (*models.Project, error)
}
