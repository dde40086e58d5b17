package service

import (
	"context"
	"errors"
	"testing"

	"classfolio/internal/domain"
	"classfolio/internal/domain/models"
	"classfolio/internal/domain/services"
	"classfolio/internal/service/authz"
)

const (
	ownerID    = "teacher-1"
	intruderID = "teacher-2"
)

type trashFixture struct {
	projects *fakeProjectRepo
	folders  *fakeFolderRepo
	files    *fakeFileRepo
	mirror   *fakeMirror
	svc      services.TrashService

	projectID string
	folderID  string
	fileID    string
}

// newTrashFixture seeds one active project with one active folder and one
// active file, all owned by ownerID.
func newTrashFixture(t *testing.T) *trashFixture {
	t.Helper()

	projects := newFakeProjectRepo()
	folders := newFakeFolderRepo()
	files := newFakeFileRepo()
	mirror := &fakeMirror{}

	ctx := context.Background()

	project := &models.Project{
		OwnerID:       ownerID,
		Title:         "Spring Term Art",
		Status:        models.ProjectStatusActive,
		StorageRootID: "drive-root-1",
	}
	if err := projects.Create(ctx, project); err != nil {
		t.Fatalf("seed project: %v", err)
	}

	folder := &models.Folder{
		ProjectID: project.ID,
		Name:      "Sketches",
		StorageID: "drive-folder-1",
	}
	if err := folders.Create(ctx, folder); err != nil {
		t.Fatalf("seed folder: %v", err)
	}

	file := &models.File{
		ProjectID:   project.ID,
		StorageID:   "drive-file-1",
		Name:        "landscape.png",
		ContentType: "image/png",
		Size:        512,
	}
	if err := files.Create(ctx, file); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	resolver := authz.NewOwnerResolver(projects, folders, files)
	svc := NewTrashService(projects, folders, files, resolver, mirror, fixedNow, testLogger())

	return &trashFixture{
		projects:  projects,
		folders:   folders,
		files:     files,
		mirror:    mirror,
		svc:       svc,
		projectID: project.ID,
		folderID:  folder.ID,
		fileID:    file.ID,
	}
}

func TestSoftDeleteRestoreRoundtrip(t *testing.T) {
	fx := newTrashFixture(t)
	ctx := context.Background()

	receipt, err := fx.svc.SoftDeleteFile(ctx, fx.fileID, ownerID)
	if err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if !receipt.StorageSynced {
		t.Error("expected storage_synced=true when the mirror call succeeds")
	}
	if !receipt.File.IsDeleted {
		t.Error("receipt file should be marked deleted")
	}
	if receipt.File.DeletedAt == nil || !receipt.File.DeletedAt.Equal(fixedNow()) {
		t.Errorf("deleted_at = %v, want %v", receipt.File.DeletedAt, fixedNow())
	}

	// Trashed file is invisible to active reads
	if _, err := fx.files.GetByID(ctx, fx.fileID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("active read of trashed file: got %v, want ErrNotFound", err)
	}

	receipt, err = fx.svc.RestoreFile(ctx, fx.fileID, ownerID)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if receipt.File.IsDeleted {
		t.Error("restored file should not be marked deleted")
	}
	if receipt.File.DeletedAt != nil {
		t.Error("restored file should have deleted_at cleared")
	}

	if len(fx.mirror.trashed) != 1 || fx.mirror.trashed[0] != "drive-file-1" {
		t.Errorf("mirror trash calls = %v, want [drive-file-1]", fx.mirror.trashed)
	}
	if len(fx.mirror.untrashed) != 1 || fx.mirror.untrashed[0] != "drive-file-1" {
		t.Errorf("mirror untrash calls = %v, want [drive-file-1]", fx.mirror.untrashed)
	}
}

func TestSoftDeleteSucceedsWhenMirrorFails(t *testing.T) {
	fx := newTrashFixture(t)
	fx.mirror.trashErr = errors.New("provider 500")
	ctx := context.Background()

	receipt, err := fx.svc.SoftDeleteProject(ctx, fx.projectID, ownerID)
	if err != nil {
		t.Fatalf("soft delete with failing mirror: %v", err)
	}
	if receipt.StorageSynced {
		t.Error("expected storage_synced=false when the mirror call fails")
	}

	// The store transition still happened
	stored, err := fx.projects.GetByIDAny(ctx, fx.projectID)
	if err != nil {
		t.Fatalf("reload project: %v", err)
	}
	if !stored.IsDeleted {
		t.Error("project should be trashed in the store despite the mirror failure")
	}
}

func TestWrongStateTransitionsAreNotFound(t *testing.T) {
	tests := []struct {
		name string
		run  func(fx *trashFixture) error
	}{
		{
			name: "soft delete already trashed file",
			run: func(fx *trashFixture) error {
				ctx := context.Background()
				if _, err := fx.svc.SoftDeleteFile(ctx, fx.fileID, ownerID); err != nil {
					return err
				}
				_, err := fx.svc.SoftDeleteFile(ctx, fx.fileID, ownerID)
				return err
			},
		},
		{
			name: "restore active folder",
			run: func(fx *trashFixture) error {
				_, err := fx.svc.RestoreFolder(context.Background(), fx.folderID, ownerID)
				return err
			},
		},
		{
			name: "hard delete active project",
			run: func(fx *trashFixture) error {
				_, err := fx.svc.HardDeleteProject(context.Background(), fx.projectID, ownerID)
				return err
			},
		},
		{
			name: "restore unknown id",
			run: func(fx *trashFixture) error {
				_, err := fx.svc.RestoreFile(context.Background(), "no-such-file", ownerID)
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newTrashFixture(t)
			if err := tt.run(fx); !errors.Is(err, domain.ErrNotFound) {
				t.Errorf("got %v, want ErrNotFound", err)
			}
		})
	}
}

func TestHardDeleteOnlyReachableFromTrash(t *testing.T) {
	fx := newTrashFixture(t)
	ctx := context.Background()

	if _, err := fx.svc.HardDeleteFolder(ctx, fx.folderID, ownerID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("hard delete of active folder: got %v, want ErrNotFound", err)
	}

	if _, err := fx.svc.SoftDeleteFolder(ctx, fx.folderID, ownerID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	receipt, err := fx.svc.HardDeleteFolder(ctx, fx.folderID, ownerID)
	if err != nil {
		t.Fatalf("hard delete of trashed folder: %v", err)
	}
	if !receipt.StorageSynced {
		t.Error("expected storage_synced=true")
	}

	// Purged for good
	if _, err := fx.folders.GetByIDAny(ctx, fx.folderID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("purged folder still readable: %v", err)
	}
	if _, err := fx.svc.RestoreFolder(ctx, fx.folderID, ownerID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("restore after purge: got %v, want ErrNotFound", err)
	}
}

func TestNonOwnerTransitionsAreForbidden(t *testing.T) {
	fx := newTrashFixture(t)
	ctx := context.Background()

	ops := map[string]func() error{
		"soft delete project": func() error {
			_, err := fx.svc.SoftDeleteProject(ctx, fx.projectID, intruderID)
			return err
		},
		"restore folder": func() error {
			_, err := fx.svc.RestoreFolder(ctx, fx.folderID, intruderID)
			return err
		},
		"hard delete file": func() error {
			_, err := fx.svc.HardDeleteFile(ctx, fx.fileID, intruderID)
			return err
		},
		"empty trash": func() error {
			_, err := fx.svc.EmptyTrash(ctx, fx.projectID, intruderID)
			return err
		},
		"list trash": func() error {
			_, err := fx.svc.ListTrash(ctx, fx.projectID, intruderID)
			return err
		},
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			if err := op(); !errors.Is(err, domain.ErrForbidden) {
				t.Errorf("got %v, want ErrForbidden", err)
			}
		})
	}

	if len(fx.mirror.trashed)+len(fx.mirror.deleted) != 0 {
		t.Error("no mirror call should fire for a forbidden caller")
	}
}

func TestEmptyTrashPurgesOnlyTrashedRows(t *testing.T) {
	fx := newTrashFixture(t)
	ctx := context.Background()

	// A second file that stays active
	active := &models.File{ProjectID: fx.projectID, StorageID: "drive-file-2", Name: "keep.png", ContentType: "image/png"}
	if err := fx.files.Create(ctx, active); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := fx.svc.SoftDeleteFile(ctx, fx.fileID, ownerID); err != nil {
		t.Fatalf("soft delete file: %v", err)
	}
	if _, err := fx.svc.SoftDeleteFolder(ctx, fx.folderID, ownerID); err != nil {
		t.Fatalf("soft delete folder: %v", err)
	}

	result, err := fx.svc.EmptyTrash(ctx, fx.projectID, ownerID)
	if err != nil {
		t.Fatalf("empty trash: %v", err)
	}
	if result.PurgedFiles != 1 || result.PurgedFolders != 1 {
		t.Errorf("purged files=%d folders=%d, want 1 and 1", result.PurgedFiles, result.PurgedFolders)
	}
	if !result.StorageSynced {
		t.Error("expected storage_synced=true")
	}

	// The active file survived
	if _, err := fx.files.GetByID(ctx, active.ID); err != nil {
		t.Errorf("active file should survive empty trash: %v", err)
	}

	// The trash is now empty
	listing, err := fx.svc.ListTrash(ctx, fx.projectID, ownerID)
	if err != nil {
		t.Fatalf("list trash: %v", err)
	}
	if len(listing.Folders) != 0 || len(listing.Files) != 0 {
		t.Errorf("trash not empty after purge: %d folders, %d files", len(listing.Folders), len(listing.Files))
	}
}

func TestEmptyTrashContinuesPastMirrorFailures(t *testing.T) {
	fx := newTrashFixture(t)
	ctx := context.Background()

	if _, err := fx.svc.SoftDeleteFile(ctx, fx.fileID, ownerID); err != nil {
		t.Fatalf("soft delete file: %v", err)
	}
	if _, err := fx.svc.SoftDeleteFolder(ctx, fx.folderID, ownerID); err != nil {
		t.Fatalf("soft delete folder: %v", err)
	}

	fx.mirror.deleteErr = errors.New("provider unreachable")

	result, err := fx.svc.EmptyTrash(ctx, fx.projectID, ownerID)
	if err != nil {
		t.Fatalf("empty trash with failing mirror: %v", err)
	}
	if result.PurgedFiles != 1 || result.PurgedFolders != 1 {
		t.Errorf("purged files=%d folders=%d, want 1 and 1", result.PurgedFiles, result.PurgedFolders)
	}
	if result.StorageSynced {
		t.Error("expected storage_synced=false when mirror deletes fail")
	}
}

func TestEmptyTrashReportsStoreFailuresAfterPurgingTheRest(t *testing.T) {
	fx := newTrashFixture(t)
	ctx := context.Background()

	second := &models.File{ProjectID: fx.projectID, StorageID: "drive-file-2", Name: "b.png", ContentType: "image/png"}
	if err := fx.files.Create(ctx, second); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := fx.svc.SoftDeleteFile(ctx, fx.fileID, ownerID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if _, err := fx.svc.SoftDeleteFile(ctx, second.ID, ownerID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	storeErr := errors.New("row locked")
	fx.files.hardDeleteErr[fx.fileID] = storeErr

	_, err := fx.svc.EmptyTrash(ctx, fx.projectID, ownerID)
	if !errors.Is(err, storeErr) {
		t.Fatalf("got %v, want wrapped store error", err)
	}

	// The other row was still purged
	if _, err := fx.files.GetByIDAny(ctx, second.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second file should have been purged despite the first failing: %v", err)
	}
}
