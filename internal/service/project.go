package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"classfolio/internal/config"
	"classfolio/internal/domain"
	"classfolio/internal/domain/models"
	"classfolio/internal/domain/repositories"
	"classfolio/internal/domain/services"
	"classfolio/internal/service/authz"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// projectService implements the ProjectService interface
type projectService struct {
	projects repositories.ProjectRepository
	resolver *authz.OwnerResolver
	storage  Storage
	now      func() time.Time
	logger   *slog.Logger
}

// NewProjectService creates a new project service. now is injectable for
// tests; pass nil for time.Now.
func NewProjectService(
	projects repositories.ProjectRepository,
	resolver *authz.OwnerResolver,
	storage Storage,
	now func() time.Time,
	logger *slog.Logger,
) services.ProjectService {
	if now == nil {
		now = time.Now
	}
	return &projectService{
		projects: projects,
		resolver: resolver,
		storage:  storage,
		now:      now,
		logger:   logger,
	}
}

// CreateProject provisions the external container, then persists the row.
// The container id becomes the project's immutable storage root. If the
// row insert fails, the saga compensates by deleting the container.
func (s *projectService) CreateProject(ctx context.Context, req *services.CreateProjectRequest) (*models.Project, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	title := strings.TrimSpace(req.Title)
	status := req.Status
	if status == "" {
		status = models.ProjectStatusActive
	}

	var project *models.Project
	saga := &createSaga{
		createExternal: func(ctx context.Context) (string, error) {
			obj, err := s.storage.CreateFolder(ctx, req.OwnerID, title, "")
			if err != nil {
				return "", err
			}
			return obj.ID, nil
		},
		persistLocal: func(ctx context.Context, externalID string) error {
			project = &models.Project{
				OwnerID:       req.OwnerID,
				Title:         title,
				Status:        status,
				StorageRootID: externalID,
				CreatedAt:     s.now(),
				UpdatedAt:     s.now(),
			}
			return s.projects.Create(ctx, project)
		},
		compensate: func(ctx context.Context, externalID string) error {
			return s.storage.Delete(ctx, req.OwnerID, externalID)
		},
		logger: s.logger,
	}

	if err := saga.run(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("project created",
		"id", project.ID,
		"title", project.Title,
		"storage_root_id", project.StorageRootID,
		"owner_id", req.OwnerID,
	)

	return project, nil
}

// GetProject retrieves an active project owned by the caller
func (s *projectService) GetProject(ctx context.Context, id, callerID string) (*models.Project, error) {
	project, err := s.resolver.ResolveProject(ctx, id, callerID)
	if err != nil {
		return nil, err
	}

	if project.IsDeleted {
		return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}

	return project, nil
}

// ListProjects retrieves the caller's active projects
func (s *projectService) ListProjects(ctx context.Context, callerID string) ([]models.Project, error) {
	return s.projects.List(ctx, callerID)
}

// ListTrashedProjects retrieves the caller's soft-deleted projects
func (s *projectService) ListTrashedProjects(ctx context.Context, callerID string) ([]models.Project, error) {
	return s.projects.ListTrashed(ctx, callerID)
}

// UpdateProject updates a project's title and status. The storage root is
// immutable and trash flags only move through the trash service.
func (s *projectService) UpdateProject(ctx context.Context, id, callerID string, req *services.UpdateProjectRequest) (*models.Project, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	project, err := s.GetProject(ctx, id, callerID)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		project.Title = strings.TrimSpace(req.Title)
	}
	if req.Status != "" {
		project.Status = req.Status
	}
	project.UpdatedAt = s.now()

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("project updated",
		"id", project.ID,
		"title", project.Title,
		"status", project.Status,
		"owner_id", callerID,
	)

	return project, nil
}

// validateCreateRequest validates a create project request
func (s *projectService) validateCreateRequest(req *services.CreateProjectRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.OwnerID, validation.Required),
		validation.Field(&req.Title,
			validation.Required,
			validation.Length(1, config.MaxProjectTitleLength),
		),
		validation.Field(&req.Status,
			validation.In(models.ProjectStatusActive, models.ProjectStatusArchived, models.ProjectStatusDraft),
		),
	)
}

// validateUpdateRequest validates an update project request
func (s *projectService) validateUpdateRequest(req *services.UpdateProjectRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title,
			validation.Length(1, config.MaxProjectTitleLength),
		),
		validation.Field(&req.Status,
			validation.In(models.ProjectStatusActive, models.ProjectStatusArchived, models.ProjectStatusDraft),
		),
	)
}
