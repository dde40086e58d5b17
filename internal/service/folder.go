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

// folderService implements the FolderService interface
type folderService struct {
	folders  repositories.FolderRepository
	resolver *authz.OwnerResolver
	storage  Storage
	now      func() time.Time
	logger   *slog.Logger
}

// NewFolderService creates a new folder service. now is injectable for
// tests; pass nil for time.Now.
func NewFolderService(
	folders repositories.FolderRepository,
	resolver *authz.OwnerResolver,
	storage Storage,
	now func() time.Time,
	logger *slog.Logger,
) services.FolderService {
	if now == nil {
		now = time.Now
	}
	return &folderService{
		folders:  folders,
		resolver: resolver,
		storage:  storage,
		now:      now,
		logger:   logger,
	}
}

// CreateFolder creates the folder in the external provider under its
// resolved parent location, then persists the row. The parent location is
// the parent folder's storage id, or the project's storage root when the
// folder sits at the project root.
func (s *folderService) CreateFolder(ctx context.Context, req *services.CreateFolderRequest) (*models.Folder, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	project, err := s.resolver.ResolveProject(ctx, req.ProjectID, req.CallerID)
	if err != nil {
		return nil, err
	}
	if project.IsDeleted {
		return nil, fmt.Errorf("project %s: %w", req.ProjectID, domain.ErrNotFound)
	}

	parentStorageID := project.StorageRootID
	if req.ParentID != nil {
		parent, _, err := s.resolver.ResolveFolder(ctx, *req.ParentID, req.CallerID)
		if err != nil {
			return nil, err
		}
		if parent.ProjectID != req.ProjectID {
			return nil, fmt.Errorf("%w: parent folder belongs to a different project", domain.ErrValidation)
		}
		if parent.IsDeleted {
			return nil, fmt.Errorf("folder %s: %w", *req.ParentID, domain.ErrNotFound)
		}
		parentStorageID = parent.StorageID
	}

	name := strings.TrimSpace(req.Name)

	obj, err := s.storage.CreateFolder(ctx, req.CallerID, name, parentStorageID)
	if err != nil {
		return nil, fmt.Errorf("create storage folder: %w", err)
	}

	folder := &models.Folder{
		ProjectID: req.ProjectID,
		ParentID:  req.ParentID,
		Name:      name,
		StorageID: obj.ID,
		CreatedAt: s.now(),
		UpdatedAt: s.now(),
	}

	if err := s.folders.Create(ctx, folder); err != nil {
		// The external folder now exists without a row of record. Leave it
		// and surface the store failure; the drift is logged, not hidden.
		s.logger.Warn("folder row insert failed after storage create, storage object orphaned",
			"storage_id", obj.ID,
			"project_id", req.ProjectID,
			"error", err,
		)
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"project_id", folder.ProjectID,
		"storage_id", folder.StorageID,
	)

	return folder, nil
}

// GetFolder retrieves an active folder owned by the caller
func (s *folderService) GetFolder(ctx context.Context, id, callerID string) (*models.Folder, error) {
	folder, _, err := s.resolver.ResolveFolder(ctx, id, callerID)
	if err != nil {
		return nil, err
	}

	if folder.IsDeleted {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	return folder, nil
}

// validateCreateRequest validates a create folder request
func (s *folderService) validateCreateRequest(req *services.CreateFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.CallerID, validation.Required),
		validation.Field(&req.ProjectID, validation.Required),
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxFolderNameLength),
		),
	)
}
