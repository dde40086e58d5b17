package services

import (
	"context"

	"classfolio/internal/domain/models"
)

// CreateFolderRequest carries input for folder creation
type CreateFolderRequest struct {
	CallerID  string  `json:"-"`
	ProjectID string  `json:"project_id"`
	ParentID  *string `json:"parent_id,omitempty"`
	Name      string  `json:"name"`
}

// FolderService defines folder business operations
type FolderService interface {
	CreateFolder(ctx context.Context, req *CreateFolderRequest) (*models.Folder, error)
	GetFolder(ctx context.Context, id, callerID string) (*models.Folder, error)
}
