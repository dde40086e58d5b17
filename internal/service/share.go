package service

import (
	"context"
	"errors"
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
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// shareService implements the ShareService interface
type shareService struct {
	links    repositories.ShareLinkRepository
	projects repositories.ProjectRepository
	folders  repositories.FolderRepository
	files    repositories.FileRepository
	resolver *authz.OwnerResolver
	now      func() time.Time
	logger   *slog.Logger
}

// NewShareService creates a new share link service. now is injectable for
// tests; pass nil for time.Now.
func NewShareService(
	links repositories.ShareLinkRepository,
	projects repositories.ProjectRepository,
	folders repositories.FolderRepository,
	files repositories.FileRepository,
	resolver *authz.OwnerResolver,
	now func() time.Time,
	logger *slog.Logger,
) services.ShareService {
	if now == nil {
		now = time.Now
	}
	return &shareService{
		links:    links,
		projects: projects,
		folders:  folders,
		files:    files,
		resolver: resolver,
		now:      now,
		logger:   logger,
	}
}

// UpsertShareLink creates or replaces the project's share link. A project
// has at most one link; re-upserting keeps the existing slug so codes
// already handed out stay valid, and only the mode, PIN, enabled flag and
// expiry change.
func (s *shareService) UpsertShareLink(ctx context.Context, projectID, callerID string, req *services.UpsertShareLinkRequest) (*models.ShareLink, error) {
	if err := s.validateUpsertRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	project, err := s.resolver.ResolveProject(ctx, projectID, callerID)
	if err != nil {
		return nil, err
	}
	if project.IsDeleted {
		return nil, fmt.Errorf("project %s: %w", projectID, domain.ErrNotFound)
	}

	slug := newSlug()
	if existing, err := s.links.GetByProject(ctx, projectID); err == nil {
		slug = existing.Slug
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	link := &models.ShareLink{
		ProjectID: projectID,
		Slug:      slug,
		Mode:      req.Mode,
		Enabled:   true,
		ExpiresAt: req.ExpiresAt,
		CreatedAt: s.now(),
		UpdatedAt: s.now(),
	}
	if req.Enabled != nil {
		link.Enabled = *req.Enabled
	}

	if req.Mode == models.ShareModePIN {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.PIN), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash share pin: %w", err)
		}
		h := string(hash)
		link.PINHash = &h
	}

	if err := s.links.Upsert(ctx, link); err != nil {
		return nil, err
	}

	s.logger.Info("share link upserted",
		"project_id", projectID,
		"slug", link.Slug,
		"mode", link.Mode,
		"enabled", link.Enabled,
	)

	return link, nil
}

// GetShareLink returns the project's share link for its owner
func (s *shareService) GetShareLink(ctx context.Context, projectID, callerID string) (*models.ShareLink, error) {
	if _, err := s.resolver.ResolveProject(ctx, projectID, callerID); err != nil {
		return nil, err
	}
	return s.links.GetByProject(ctx, projectID)
}

// RevokeShareLink removes the project's share link
func (s *shareService) RevokeShareLink(ctx context.Context, projectID, callerID string) error {
	if _, err := s.resolver.ResolveProject(ctx, projectID, callerID); err != nil {
		return err
	}

	if err := s.links.DeleteByProject(ctx, projectID); err != nil {
		return err
	}

	s.logger.Info("share link revoked", "project_id", projectID)
	return nil
}

// ResolveSlug resolves a public slug into the shared read-only view. The
// view only includes active folders and files; trashed content never
// appears behind a share link.
func (s *shareService) ResolveSlug(ctx context.Context, slug, pin, viewerID string) (*services.ShareView, error) {
	link, err := s.links.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if !link.Enabled || link.Expired(s.now()) {
		return nil, fmt.Errorf("share link %s: %w", slug, domain.ErrNotFound)
	}

	switch link.Mode {
	case models.ShareModePIN:
		if link.PINHash == nil {
			return nil, fmt.Errorf("share link %s has no pin hash: %w", slug, domain.ErrNotFound)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(*link.PINHash), []byte(pin)); err != nil {
			return nil, fmt.Errorf("%w: wrong pin", domain.ErrForbidden)
		}
	case models.ShareModeOrg:
		if viewerID == "" {
			return nil, fmt.Errorf("%w: share link requires a signed-in viewer", domain.ErrUnauthorized)
		}
	}

	project, err := s.projects.GetByID(ctx, link.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("share link %s: %w", slug, domain.ErrNotFound)
	}

	folders, err := s.folders.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	files, err := s.files.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	return &services.ShareView{
		ProjectTitle: project.Title,
		Folders:      folders,
		Files:        files,
	}, nil
}

// validateUpsertRequest validates an upsert share link request
func (s *shareService) validateUpsertRequest(req *services.UpsertShareLinkRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Mode,
			validation.Required,
			validation.In(models.ShareModePublic, models.ShareModePIN, models.ShareModeOrg),
		),
		validation.Field(&req.PIN,
			validation.When(req.Mode == models.ShareModePIN,
				validation.Required,
				validation.Length(config.MinSharePINLength, config.MaxSharePINLength),
			),
		),
	)
}

// newSlug derives a short url-safe slug from a fresh uuid.
func newSlug() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}
