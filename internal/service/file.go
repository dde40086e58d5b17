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

// fileService implements the FileService interface
type fileService struct {
	files    repositories.FileRepository
	resolver *authz.OwnerResolver
	storage  Storage
	now      func() time.Time
	logger   *slog.Logger
}

// NewFileService creates a new file service. now is injectable for tests;
// pass nil for time.Now.
func NewFileService(
	files repositories.FileRepository,
	resolver *authz.OwnerResolver,
	storage Storage,
	now func() time.Time,
	logger *slog.Logger,
) services.FileService {
	if now == nil {
		now = time.Now
	}
	return &fileService{
		files:    files,
		resolver: resolver,
		storage:  storage,
		now:      now,
		logger:   logger,
	}
}

// UploadFile uploads the content to the external provider under its
// resolved parent location (folder's storage id, or the project root),
// then persists the metadata row.
func (s *fileService) UploadFile(ctx context.Context, req *services.UploadFileRequest) (*models.File, error) {
	if err := s.validateUploadRequest(req); err != nil {
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
	if req.FolderID != nil {
		folder, _, err := s.resolver.ResolveFolder(ctx, *req.FolderID, req.CallerID)
		if err != nil {
			return nil, err
		}
		if folder.ProjectID != req.ProjectID {
			return nil, fmt.Errorf("%w: folder belongs to a different project", domain.ErrValidation)
		}
		if folder.IsDeleted {
			return nil, fmt.Errorf("folder %s: %w", *req.FolderID, domain.ErrNotFound)
		}
		parentStorageID = folder.StorageID
	}

	name := strings.TrimSpace(req.Name)

	obj, err := s.storage.UploadFile(ctx, req.CallerID, name, req.ContentType, parentStorageID, req.Content)
	if err != nil {
		return nil, fmt.Errorf("upload storage object: %w", err)
	}

	file := &models.File{
		ProjectID:   req.ProjectID,
		FolderID:    req.FolderID,
		StorageID:   obj.ID,
		Name:        name,
		ContentType: req.ContentType,
		Size:        int64(len(req.Content)),
		CreatedAt:   s.now(),
		UpdatedAt:   s.now(),
	}
	if obj.WebViewLink != "" {
		file.WebLink = &obj.WebViewLink
	}

	if err := s.files.Create(ctx, file); err != nil {
		s.logger.Warn("file row insert failed after storage upload, storage object orphaned",
			"storage_id", obj.ID,
			"project_id", req.ProjectID,
			"error", err,
		)
		return nil, err
	}

	s.logger.Info("file uploaded",
		"id", file.ID,
		"name", file.Name,
		"size", file.Size,
		"project_id", file.ProjectID,
		"storage_id", file.StorageID,
	)

	return file, nil
}

// GetFile retrieves an active file owned by the caller
func (s *fileService) GetFile(ctx context.Context, id, callerID string) (*models.File, error) {
	file, _, err := s.resolver.ResolveFile(ctx, id, callerID)
	if err != nil {
		return nil, err
	}

	if file.IsDeleted {
		return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}

	return file, nil
}

// ListFiles retrieves a project's active files
func (s *fileService) ListFiles(ctx context.Context, projectID, callerID string) ([]models.File, error) {
	project, err := s.resolver.ResolveProject(ctx, projectID, callerID)
	if err != nil {
		return nil, err
	}
	if project.IsDeleted {
		return nil, fmt.Errorf("project %s: %w", projectID, domain.ErrNotFound)
	}

	return s.files.ListByProject(ctx, projectID)
}

// validateUploadRequest validates a file upload request
func (s *fileService) validateUploadRequest(req *services.UploadFileRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.CallerID, validation.Required),
		validation.Field(&req.ProjectID, validation.Required),
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxFileNameLength),
		),
		validation.Field(&req.ContentType, validation.Required),
		validation.Field(&req.Content,
			validation.Required,
			validation.Length(1, config.MaxUploadBytes),
		),
	)
}
