package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"classfolio/internal/domain"
	"classfolio/internal/domain/models"
	"classfolio/internal/drive"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
}

// --- in-memory project repository ---

type fakeProjectRepo struct {
	projects      map[string]*models.Project
	createErr     error
	hardDeleteErr map[string]error
	nextID        int
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{
		projects:      make(map[string]*models.Project),
		hardDeleteErr: make(map[string]error),
	}
}

func (r *fakeProjectRepo) Create(ctx context.Context, project *models.Project) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	project.ID = fmt.Sprintf("project-%d", r.nextID)
	cp := *project
	r.projects[project.ID] = &cp
	return nil
}

func (r *fakeProjectRepo) GetByID(ctx context.Context, id string) (*models.Project, error) {
	p, ok := r.projects[id]
	if !ok || p.IsDeleted {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProjectRepo) GetByIDAny(ctx context.Context, id string) (*models.Project, error) {
	p, ok := r.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProjectRepo) List(ctx context.Context, ownerID string) ([]models.Project, error) {
	out := []models.Project{}
	for _, p := range r.projects {
		if p.OwnerID == ownerID && !p.IsDeleted {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) ListTrashed(ctx context.Context, ownerID string) ([]models.Project, error) {
	out := []models.Project{}
	for _, p := range r.projects {
		if p.OwnerID == ownerID && p.IsDeleted {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) Update(ctx context.Context, project *models.Project) error {
	p, ok := r.projects[project.ID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Title = project.Title
	p.Status = project.Status
	p.UpdatedAt = project.UpdatedAt
	return nil
}

func (r *fakeProjectRepo) SoftDelete(ctx context.Context, id string, deletedAt time.Time) (*models.Project, error) {
	p, ok := r.projects[id]
	if !ok || p.IsDeleted {
		return nil, domain.ErrNotFound
	}
	p.IsDeleted = true
	p.DeletedAt = &deletedAt
	cp := *p
	return &cp, nil
}

func (r *fakeProjectRepo) Restore(ctx context.Context, id string) (*models.Project, error) {
	p, ok := r.projects[id]
	if !ok || !p.IsDeleted {
		return nil, domain.ErrNotFound
	}
	p.IsDeleted = false
	p.DeletedAt = nil
	cp := *p
	return &cp, nil
}

func (r *fakeProjectRepo) HardDelete(ctx context.Context, id string) error {
	if err := r.hardDeleteErr[id]; err != nil {
		return err
	}
	p, ok := r.projects[id]
	if !ok || !p.IsDeleted {
		return domain.ErrNotFound
	}
	delete(r.projects, id)
	return nil
}

// --- in-memory folder repository ---

type fakeFolderRepo struct {
	folders       map[string]*models.Folder
	hardDeleteErr map[string]error
	nextID        int
}

func newFakeFolderRepo() *fakeFolderRepo {
	return &fakeFolderRepo{
		folders:       make(map[string]*models.Folder),
		hardDeleteErr: make(map[string]error),
	}
}

func (r *fakeFolderRepo) Create(ctx context.Context, folder *models.Folder) error {
	r.nextID++
	folder.ID = fmt.Sprintf("folder-%d", r.nextID)
	cp := *folder
	r.folders[folder.ID] = &cp
	return nil
}

func (r *fakeFolderRepo) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	f, ok := r.folders[id]
	if !ok || f.IsDeleted {
		return nil, domain.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *fakeFolderRepo) GetByIDAny(ctx context.Context, id string) (*models.Folder, error) {
	f, ok := r.folders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *fakeFolderRepo) ListByProject(ctx context.Context, projectID string) ([]models.Folder, error) {
	out := []models.Folder{}
	for _, f := range r.folders {
		if f.ProjectID == projectID && !f.IsDeleted {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *fakeFolderRepo) ListTrashedByProject(ctx context.Context, projectID string) ([]models.Folder, error) {
	out := []models.Folder{}
	for _, f := range r.folders {
		if f.ProjectID == projectID && f.IsDeleted {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *fakeFolderRepo) SoftDelete(ctx context.Context, id string, deletedAt time.Time) (*models.Folder, error) {
	f, ok := r.folders[id]
	if !ok || f.IsDeleted {
		return nil, domain.ErrNotFound
	}
	f.IsDeleted = true
	f.DeletedAt = &deletedAt
	cp := *f
	return &cp, nil
}

func (r *fakeFolderRepo) Restore(ctx context.Context, id string) (*models.Folder, error) {
	f, ok := r.folders[id]
	if !ok || !f.IsDeleted {
		return nil, domain.ErrNotFound
	}
	f.IsDeleted = false
	f.DeletedAt = nil
	cp := *f
	return &cp, nil
}

func (r *fakeFolderRepo) HardDelete(ctx context.Context, id string) error {
	if err := r.hardDeleteErr[id]; err != nil {
		return err
	}
	f, ok := r.folders[id]
	if !ok || !f.IsDeleted {
		return domain.ErrNotFound
	}
	delete(r.folders, id)
	return nil
}

// --- in-memory file repository ---

type fakeFileRepo struct {
	files         map[string]*models.File
	createErr     error
	hardDeleteErr map[string]error
	nextID        int
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{
		files:         make(map[string]*models.File),
		hardDeleteErr: make(map[string]error),
	}
}

func (r *fakeFileRepo) Create(ctx context.Context, file *models.File) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	file.ID = fmt.Sprintf("file-%d", r.nextID)
	cp := *file
	r.files[file.ID] = &cp
	return nil
}

func (r *fakeFileRepo) GetByID(ctx context.Context, id string) (*models.File, error) {
	f, ok := r.files[id]
	if !ok || f.IsDeleted {
		return nil, domain.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *fakeFileRepo) GetByIDAny(ctx context.Context, id string) (*models.File, error) {
	f, ok := r.files[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *fakeFileRepo) ListByProject(ctx context.Context, projectID string) ([]models.File, error) {
	out := []models.File{}
	for _, f := range r.files {
		if f.ProjectID == projectID && !f.IsDeleted {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *fakeFileRepo) ListTrashedByProject(ctx context.Context, projectID string) ([]models.File, error) {
	out := []models.File{}
	for _, f := range r.files {
		if f.ProjectID == projectID && f.IsDeleted {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *fakeFileRepo) SoftDelete(ctx context.Context, id string, deletedAt time.Time) (*models.File, error) {
	f, ok := r.files[id]
	if !ok || f.IsDeleted {
		return nil, domain.ErrNotFound
	}
	f.IsDeleted = true
	f.DeletedAt = &deletedAt
	cp := *f
	return &cp, nil
}

func (r *fakeFileRepo) Restore(ctx context.Context, id string) (*models.File, error) {
	f, ok := r.files[id]
	if !ok || !f.IsDeleted {
		return nil, domain.ErrNotFound
	}
	f.IsDeleted = false
	f.DeletedAt = nil
	cp := *f
	return &cp, nil
}

func (r *fakeFileRepo) HardDelete(ctx context.Context, id string) error {
	if err := r.hardDeleteErr[id]; err != nil {
		return err
	}
	f, ok := r.files[id]
	if !ok || !f.IsDeleted {
		return domain.ErrNotFound
	}
	delete(r.files, id)
	return nil
}

// --- in-memory share link repository ---

type fakeShareLinkRepo struct {
	byProject map[string]*models.ShareLink
	nextID    int
}

func newFakeShareLinkRepo() *fakeShareLinkRepo {
	return &fakeShareLinkRepo{byProject: make(map[string]*models.ShareLink)}
}

func (r *fakeShareLinkRepo) Upsert(ctx context.Context, link *models.ShareLink) error {
	if existing, ok := r.byProject[link.ProjectID]; ok {
		link.ID = existing.ID
	} else {
		r.nextID++
		link.ID = fmt.Sprintf("link-%d", r.nextID)
	}
	cp := *link
	r.byProject[link.ProjectID] = &cp
	return nil
}

func (r *fakeShareLinkRepo) GetByProject(ctx context.Context, projectID string) (*models.ShareLink, error) {
	l, ok := r.byProject[projectID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *fakeShareLinkRepo) GetBySlug(ctx context.Context, slug string) (*models.ShareLink, error) {
	for _, l := range r.byProject {
		if l.Slug == slug {
			cp := *l
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeShareLinkRepo) DeleteByProject(ctx context.Context, projectID string) error {
	if _, ok := r.byProject[projectID]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byProject, projectID)
	return nil
}

// --- external provider fakes ---

// fakeStorage counts creates and deletes so saga tests can assert that
// compensation ran exactly once.
type fakeStorage struct {
	createFolderErr error
	createCalls     int
	deleteCalls     int
	deleted         []string
	nextID          int
}

func (s *fakeStorage) CreateFolder(ctx context.Context, userID, name, parentID string) (*drive.Object, error) {
	s.createCalls++
	if s.createFolderErr != nil {
		return nil, s.createFolderErr
	}
	s.nextID++
	return &drive.Object{ID: fmt.Sprintf("obj-%d", s.nextID), Name: name}, nil
}

func (s *fakeStorage) UploadFile(ctx context.Context, userID, name, contentType, parentID string, content []byte) (*drive.Object, error) {
	s.nextID++
	return &drive.Object{ID: fmt.Sprintf("obj-%d", s.nextID), Name: name, Size: int64(len(content))}, nil
}

func (s *fakeStorage) Delete(ctx context.Context, userID, objectID string) error {
	s.deleteCalls++
	s.deleted = append(s.deleted, objectID)
	return nil
}

// fakeMirror records calls and can fail per operation.
type fakeMirror struct {
	trashErr   error
	untrashErr error
	deleteErr  error

	trashed   []string
	untrashed []string
	deleted   []string
}

func (m *fakeMirror) Trash(ctx context.Context, userID, objectID string) error {
	if m.trashErr != nil {
		return m.trashErr
	}
	m.trashed = append(m.trashed, objectID)
	return nil
}

func (m *fakeMirror) Untrash(ctx context.Context, userID, objectID string) error {
	if m.untrashErr != nil {
		return m.untrashErr
	}
	m.untrashed = append(m.untrashed, objectID)
	return nil
}

func (m *fakeMirror) Delete(ctx context.Context, userID, objectID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, objectID)
	return nil
}
