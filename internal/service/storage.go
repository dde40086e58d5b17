package service

import (
	"context"

	"classfolio/internal/drive"
)

// Storage is the external-provider surface used when creating entities.
// Implemented by *drive.Client.
type Storage interface {
	CreateFolder(ctx context.Context, userID, name, parentID string) (*drive.Object, error)
	UploadFile(ctx context.Context, userID, name, contentType, parentID string, content []byte) (*drive.Object, error)
	Delete(ctx context.Context, userID, objectID string) error
}

// Mirror is the external-provider surface used by trash transitions. All
// calls through it are best-effort: failures are logged, never propagated.
// Implemented by *drive.Client.
type Mirror interface {
	Trash(ctx context.Context, userID, objectID string) error
	Untrash(ctx context.Context, userID, objectID string) error
	Delete(ctx context.Context, userID, objectID string) error
}
