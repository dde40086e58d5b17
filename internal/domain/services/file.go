package services

import (
	"context"

	"classfolio/internal/domain/models"
)

// UploadFileRequest carries input for a file upload. Content is the full
// object body (uploads are size-capped at the handler).
type UploadFileRequest struct {
	CallerID    string
	ProjectID   string
	FolderID    *string
	Name        string
	ContentType string
	Content     []byte
}

// FileService defines file business operations
type FileService interface {
	UploadFile(ctx context.Context, req *UploadFileRequest) (*models.File, error)
	GetFile(ctx context.Context, id, callerID string) (*models.File, error)
	ListFiles(ctx context.Context, projectID, callerID string) ([]models.File, error)
}
