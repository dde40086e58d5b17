package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"classfolio/internal/domain"
	"classfolio/internal/domain/repositories"
	"classfolio/internal/domain/services"
	"classfolio/internal/service/authz"
)

// trashService implements the TrashService interface.
//
// Every transition follows the same shape: resolve ownership, check the
// source state, fire the best-effort mirror call, then apply the
// conditional store write. The store write is the operation of record -
// it decides success, and the conditional predicate (is_deleted = X)
// doubles as the last-write-wins guard against concurrent transitions.
type trashService struct {
	projects repositories.ProjectRepository
	folders  repositories.FolderRepository
	files    repositories.FileRepository
	resolver *authz.OwnerResolver
	mirror   Mirror
	now      func() time.Time
	logger   *slog.Logger
}

// NewTrashService creates a new trash lifecycle service. now is injectable
// for tests; pass nil for time.Now.
func NewTrashService(
	projects repositories.ProjectRepository,
	folders repositories.FolderRepository,
	files repositories.FileRepository,
	resolver *authz.OwnerResolver,
	mirror Mirror,
	now func() time.Time,
	logger *slog.Logger,
) services.TrashService {
	if now == nil {
		now = time.Now
	}
	return &trashService{
		projects: projects,
		folders:  folders,
		files:    files,
		resolver: resolver,
		mirror:   mirror,
		now:      now,
		logger:   logger,
	}
}

// mirrorCall runs a best-effort provider call and reports whether it
// succeeded. Failures are logged at Warn and swallowed: the metadata
// store transition proceeds regardless, and the resulting drift is an
// accepted, visible condition rather than an error.
func (s *trashService) mirrorCall(op, kind, id string, fn func() error) bool {
	if err := fn(); err != nil {
		s.logger.Warn("storage mirror call failed, store transition proceeds",
			"op", op,
			"kind", kind,
			"id", id,
			"error", err,
		)
		return false
	}
	return true
}

// --- Projects ---

// SoftDeleteProject moves an active project to the trash.
func (s *trashService) SoftDeleteProject(ctx context.Context, id, callerID string) (*services.TrashReceipt, error) {
	project, err := s.resolver.ResolveProject(ctx, id, callerID)
	if err != nil {
		return nil, err
	}
	if project.IsDeleted {
		return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}

	synced := s.mirrorCall("trash", "project", id, func() error {
		return s.mirror.Trash(ctx, callerID, project.StorageRootID)
	})

	updated, err := s.projects.SoftDelete(ctx, id, s.now())
	if err != nil {
		return nil, err
	}

	s.logger.Info("project trashed", "id", id, "owner_id", callerID, "storage_synced", synced)

	return &services.TrashReceipt{Project: updated, StorageSynced: synced}, nil
}

// RestoreProject moves a trashed project back to active.
func (s *trashService) RestoreProject(ctx context.Context, id, callerID string) (*services.TrashReceipt, error) {
	project, err := s.resolver.ResolveProject(ctx, id, callerID)
	if err != nil {
		return nil, err
	}
	if !project.IsDeleted {
		return nil, fmt.Errorf("project %s is not in the trash: %w", id, domain.ErrNotFound)
	}

	synced := s.mirrorCall("untrash", "project", id, func() error {
		return s.mirror.Untrash(ctx, callerID, project.StorageRootID)
	})

	updated, err := s.projects.Restore(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("project restored", "id", id, "owner_id", callerID, "storage_synced", synced)

	return &services.TrashReceipt{Project: updated, StorageSynced: synced}, nil
}

// HardDeleteProject purges a trashed project. Terminal.
func (s *trashService) HardDeleteProject(ctx context.Context, id, callerID string) (*services.TrashReceipt, error) {
	project, err := s.resolver.ResolveProject(ctx, id, callerID)
	if err != nil {
		return nil, err
	}
	if !project.IsDeleted {
		return nil, fmt.Errorf("project %s is not in the trash: %w", id, domain.ErrNotFound)
	}

	synced := s.mirrorCall("delete", "project", id, func() error {
		return s.mirror.Delete(ctx, callerID, project.StorageRootID)
	})

	if err := s.projects.HardDelete(ctx, id); err != nil {
		return nil, err
	}

	s.logger.Info("project purged", "id", id, "owner_id", callerID, "storage_synced", synced)

	return &services.TrashReceipt{StorageSynced: synced}, nil
}

// --- Folders ---

// SoftDeleteFolder moves an active folder to the trash. Children are not
// cascaded: each row's trash flag is independent.
func (s *trashService) SoftDeleteFolder(ctx context.Context, id, callerID string) (*services.TrashReceipt, error) {
	folder, _, err := s.resolver.ResolveFolder(ctx, id, callerID)
	if err != nil {
		return nil, err
	}
	if folder.IsDeleted {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	synced := s.mirrorCall("trash", "folder", id, func() error {
		return s.mirror.Trash(ctx, callerID, folder.StorageID)
	})

	updated, err := s.folders.SoftDelete(ctx, id, s.now())
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder trashed", "id", id, "owner_id", callerID, "storage_synced", synced)

	return &services.TrashReceipt{Folder: updated, StorageSynced: synced}, nil
}

// RestoreFolder moves a trashed folder back to active.
func (s *trashService) RestoreFolder(ctx context.Context, id, callerID string) (*services.TrashReceipt, error) {
	folder, _, err := s.resolver.ResolveFolder(ctx, id, callerID)
	if err != nil {
		return nil, err
	}
	if !folder.IsDeleted {
		return nil, fmt.Errorf("folder %s is not in the trash: %w", id, domain.ErrNotFound)
	}

	synced := s.mirrorCall("untrash", "folder", id, func() error {
		return s.mirror.Untrash(ctx, callerID, folder.StorageID)
	})

	updated, err := s.folders.Restore(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder restored", "id", id, "owner_id", callerID, "storage_synced", synced)

	return &services.TrashReceipt{Folder: updated, StorageSynced: synced}, nil
}

// HardDeleteFolder purges a trashed folder. Terminal.
func (s *trashService) HardDeleteFolder(ctx context.Context, id, callerID string) (*services.TrashReceipt, error) {
	folder, _, err := s.resolver.ResolveFolder(ctx, id, callerID)
	if err != nil {
		return nil, err
	}
	if !folder.IsDeleted {
		return nil, fmt.Errorf("folder %s is not in the trash: %w", id, domain.ErrNotFound)
	}

	synced := s.mirrorCall("delete", "folder", id, func() error {
		return s.mirror.Delete(ctx, callerID, folder.StorageID)
	})

	if err := s.folders.HardDelete(ctx, id); err != nil {
		return nil, err
	}

	s.logger.Info("folder purged", "id", id, "owner_id", callerID, "storage_synced", synced)

	return &services.TrashReceipt{StorageSynced: synced}, nil
}

// --- Files ---

// SoftDeleteFile moves an active file to the trash.
func (s *trashService) SoftDeleteFile(ctx context.Context, id, callerID string) (*services.TrashReceipt, error) {
	file, _, err := s.resolver.ResolveFile(ctx, id, callerID)
	if err != nil {
		return nil, err
	}
	if file.IsDeleted {
		return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}

	synced := s.mirrorCall("trash", "file", id, func() error {
		return s.mirror.Trash(ctx, callerID, file.StorageID)
	})

	updated, err := s.files.SoftDelete(ctx, id, s.now())
	if err != nil {
		return nil, err
	}

	s.logger.Info("file trashed", "id", id, "owner_id", callerID, "storage_synced", synced)

	return &services.TrashReceipt{File: updated, StorageSynced: synced}, nil
}

// RestoreFile moves a trashed file back to active.
func (s *trashService) RestoreFile(ctx context.Context, id, callerID string) (*services.TrashReceipt, error) {
	file, _, err := s.resolver.ResolveFile(ctx, id, callerID)
	if err != nil {
		return nil, err
	}
	if !file.IsDeleted {
		return nil, fmt.Errorf("file %s is not in the trash: %w", id, domain.ErrNotFound)
	}

	synced := s.mirrorCall("untrash", "file", id, func() error {
		return s.mirror.Untrash(ctx, callerID, file.StorageID)
	})

	updated, err := s.files.Restore(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("file restored", "id", id, "owner_id", callerID, "storage_synced", synced)

	return &services.TrashReceipt{File: updated, StorageSynced: synced}, nil
}

// HardDeleteFile purges a trashed file. Terminal.
func (s *trashService) HardDeleteFile(ctx context.Context, id, callerID string) (*services.TrashReceipt, error) {
	file, _, err := s.resolver.ResolveFile(ctx, id, callerID)
	if err != nil {
		return nil, err
	}
	if !file.IsDeleted {
		return nil, fmt.Errorf("file %s is not in the trash: %w", id, domain.ErrNotFound)
	}

	synced := s.mirrorCall("delete", "file", id, func() error {
		return s.mirror.Delete(ctx, callerID, file.StorageID)
	})

	if err := s.files.HardDelete(ctx, id); err != nil {
		return nil, err
	}

	s.logger.Info("file purged", "id", id, "owner_id", callerID, "storage_synced", synced)

	return &services.TrashReceipt{StorageSynced: synced}, nil
}

// --- Bulk operations ---

// EmptyTrash purges every trashed folder and file under the project.
// Mirror failures never halt the loop. Store failures on individual rows
// are also not allowed to halt it - the remaining rows still get purged -
// but they do fail the overall operation so the caller knows the trash is
// not empty.
func (s *trashService) EmptyTrash(ctx context.Context, projectID, callerID string) (*services.EmptyTrashResult, error) {
	if _, err := s.resolver.ResolveProject(ctx, projectID, callerID); err != nil {
		return nil, err
	}

	trashedFiles, err := s.files.ListTrashedByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	trashedFolders, err := s.folders.ListTrashedByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	result := &services.EmptyTrashResult{StorageSynced: true}
	var storeErr error

	for i := range trashedFiles {
		file := &trashedFiles[i]
		if !s.mirrorCall("delete", "file", file.ID, func() error {
			return s.mirror.Delete(ctx, callerID, file.StorageID)
		}) {
			result.StorageSynced = false
		}

		if err := s.files.HardDelete(ctx, file.ID); err != nil {
			s.logger.Error("empty trash: file purge failed", "id", file.ID, "error", err)
			storeErr = err
			continue
		}
		result.PurgedFiles++
	}

	for i := range trashedFolders {
		folder := &trashedFolders[i]
		if !s.mirrorCall("delete", "folder", folder.ID, func() error {
			return s.mirror.Delete(ctx, callerID, folder.StorageID)
		}) {
			result.StorageSynced = false
		}

		if err := s.folders.HardDelete(ctx, folder.ID); err != nil {
			s.logger.Error("empty trash: folder purge failed", "id", folder.ID, "error", err)
			storeErr = err
			continue
		}
		result.PurgedFolders++
	}

	if storeErr != nil {
		return nil, fmt.Errorf("empty trash incomplete: %w", storeErr)
	}

	s.logger.Info("trash emptied",
		"project_id", projectID,
		"purged_files", result.PurgedFiles,
		"purged_folders", result.PurgedFolders,
		"storage_synced", result.StorageSynced,
	)

	return result, nil
}

// ListTrash returns the project's trashed folders and files.
func (s *trashService) ListTrash(ctx context.Context, projectID, callerID string) (*services.TrashListing, error) {
	if _, err := s.resolver.ResolveProject(ctx, projectID, callerID); err != nil {
		return nil, err
	}

	folders, err := s.folders.ListTrashedByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	files, err := s.files.ListTrashedByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	return &services.TrashListing{Folders: folders, Files: files}, nil
}
