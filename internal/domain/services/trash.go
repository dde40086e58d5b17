package services

import (
	"context"

	"classfolio/internal/domain/models"
)

// TrashReceipt reports the outcome of a trash transition. StorageSynced is
// false when the metadata store transition succeeded but the best-effort
// mirror call to the external provider did not - the operation itself is
// still a success (metadata store wins), the drift is just made visible.
type TrashReceipt struct {
	Project       *models.Project `json:"project,omitempty"`
	Folder        *models.Folder  `json:"folder,omitempty"`
	File          *models.File    `json:"file,omitempty"`
	StorageSynced bool            `json:"storage_synced"`
}

// EmptyTrashResult reports a bulk purge.
type EmptyTrashResult struct {
	PurgedFolders int  `json:"purged_folders"`
	PurgedFiles   int  `json:"purged_files"`
	StorageSynced bool `json:"storage_synced"`
}

// TrashListing is the contents of a project's trash. Rows are independent:
// a trashed folder's children appear only if they are trashed themselves.
type TrashListing struct {
	Folders []models.Folder `json:"folders"`
	Files   []models.File   `json:"files"`
}

// TrashService coordinates the soft-delete / restore / purge lifecycle
// across the metadata store and the external storage provider. The
// metadata store is the store of record: its write decides the outcome,
// and provider mirror failures are logged and swallowed.
//
// Per-entity state machine: active --soft delete--> trashed --restore-->
// active, trashed --hard delete--> purged (terminal). Hard delete is only
// reachable from the trash.
type TrashService interface {
	SoftDeleteProject(ctx context.Context, id, callerID string) (*TrashReceipt, error)
	RestoreProject(ctx context.Context, id, callerID string) (*TrashReceipt, error)
	HardDeleteProject(ctx context.Context, id, callerID string) (*TrashReceipt, error)

	SoftDeleteFolder(ctx context.Context, id, callerID string) (*TrashReceipt, error)
	RestoreFolder(ctx context.Context, id, callerID string) (*TrashReceipt, error)
	HardDeleteFolder(ctx context.Context, id, callerID string) (*TrashReceipt, error)

	SoftDeleteFile(ctx context.Context, id, callerID string) (*TrashReceipt, error)
	RestoreFile(ctx context.Context, id, callerID string) (*TrashReceipt, error)
	HardDeleteFile(ctx context.Context, id, callerID string) (*TrashReceipt, error)

	// EmptyTrash purges every trashed folder and file under the project.
	// Mirror failures never halt the loop; every row is still purged.
	EmptyTrash(ctx context.Context, projectID, callerID string) (*EmptyTrashResult, error)

	// ListTrash returns the project's trashed folders and files.
	ListTrash(ctx context.Context, projectID, callerID string) (*TrashListing, error)
}
