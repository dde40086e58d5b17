package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"classfolio/internal/domain"
	"classfolio/internal/domain/models"
	"classfolio/internal/domain/services"
	"classfolio/internal/service/authz"
)

type shareFixture struct {
	links     *fakeShareLinkRepo
	svc       services.ShareService
	projectID string
}

func newShareFixture(t *testing.T) *shareFixture {
	t.Helper()

	projects := newFakeProjectRepo()
	folders := newFakeFolderRepo()
	files := newFakeFileRepo()
	links := newFakeShareLinkRepo()

	ctx := context.Background()
	project := &models.Project{
		OwnerID:       ownerID,
		Title:         "Clay Workshop",
		Status:        models.ProjectStatusActive,
		StorageRootID: "drive-root-1",
	}
	if err := projects.Create(ctx, project); err != nil {
		t.Fatalf("seed project: %v", err)
	}
	file := &models.File{ProjectID: project.ID, StorageID: "drive-file-1", Name: "vase.jpg", ContentType: "image/jpeg"}
	if err := files.Create(ctx, file); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	resolver := authz.NewOwnerResolver(projects, folders, files)
	svc := NewShareService(links, projects, folders, files, resolver, fixedNow, testLogger())

	return &shareFixture{links: links, svc: svc, projectID: project.ID}
}

func TestUpsertShareLinkKeepsSlugStable(t *testing.T) {
	fx := newShareFixture(t)
	ctx := context.Background()

	first, err := fx.svc.UpsertShareLink(ctx, fx.projectID, ownerID, &services.UpsertShareLinkRequest{
		Mode: models.ShareModePublic,
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if first.Slug == "" {
		t.Fatal("slug should be generated")
	}

	second, err := fx.svc.UpsertShareLink(ctx, fx.projectID, ownerID, &services.UpsertShareLinkRequest{
		Mode: models.ShareModePIN,
		PIN:  "4711",
	})
	if err != nil {
		t.Fatalf("re-upsert: %v", err)
	}

	if second.Slug != first.Slug {
		t.Errorf("slug changed on re-upsert: %q -> %q", first.Slug, second.Slug)
	}
	if second.Mode != models.ShareModePIN || second.PINHash == nil {
		t.Error("re-upsert should switch mode and set the pin hash")
	}
}

func TestUpsertShareLinkValidation(t *testing.T) {
	fx := newShareFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *services.UpsertShareLinkRequest
	}{
		{"unknown mode", &services.UpsertShareLinkRequest{Mode: "everyone"}},
		{"pin mode without pin", &services.UpsertShareLinkRequest{Mode: models.ShareModePIN}},
		{"pin too short", &services.UpsertShareLinkRequest{Mode: models.ShareModePIN, PIN: "12"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := fx.svc.UpsertShareLink(ctx, fx.projectID, ownerID, tt.req); !errors.Is(err, domain.ErrValidation) {
				t.Errorf("got %v, want ErrValidation", err)
			}
		})
	}
}

func TestResolveSlugPublic(t *testing.T) {
	fx := newShareFixture(t)
	ctx := context.Background()

	link, err := fx.svc.UpsertShareLink(ctx, fx.projectID, ownerID, &services.UpsertShareLinkRequest{
		Mode: models.ShareModePublic,
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	view, err := fx.svc.ResolveSlug(ctx, link.Slug, "", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if view.ProjectTitle != "Clay Workshop" {
		t.Errorf("project title = %q", view.ProjectTitle)
	}
	if len(view.Files) != 1 {
		t.Errorf("files = %d, want 1", len(view.Files))
	}
}

func TestResolveSlugPINMode(t *testing.T) {
	fx := newShareFixture(t)
	ctx := context.Background()

	link, err := fx.svc.UpsertShareLink(ctx, fx.projectID, ownerID, &services.UpsertShareLinkRequest{
		Mode: models.ShareModePIN,
		PIN:  "4711",
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if _, err := fx.svc.ResolveSlug(ctx, link.Slug, "0000", ""); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("wrong pin: got %v, want ErrForbidden", err)
	}
	if _, err := fx.svc.ResolveSlug(ctx, link.Slug, "", ""); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("missing pin: got %v, want ErrForbidden", err)
	}
	if _, err := fx.svc.ResolveSlug(ctx, link.Slug, "4711", ""); err != nil {
		t.Errorf("correct pin: %v", err)
	}
}

func TestResolveSlugOrgModeNeedsViewer(t *testing.T) {
	fx := newShareFixture(t)
	ctx := context.Background()

	link, err := fx.svc.UpsertShareLink(ctx, fx.projectID, ownerID, &services.UpsertShareLinkRequest{
		Mode: models.ShareModeOrg,
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if _, err := fx.svc.ResolveSlug(ctx, link.Slug, "", ""); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("anonymous viewer: got %v, want ErrUnauthorized", err)
	}
	if _, err := fx.svc.ResolveSlug(ctx, link.Slug, "", "supervisor-1"); err != nil {
		t.Errorf("signed-in viewer: %v", err)
	}
}

func TestResolveSlugDisabledAndExpired(t *testing.T) {
	fx := newShareFixture(t)
	ctx := context.Background()

	disabled := false
	link, err := fx.svc.UpsertShareLink(ctx, fx.projectID, ownerID, &services.UpsertShareLinkRequest{
		Mode:    models.ShareModePublic,
		Enabled: &disabled,
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := fx.svc.ResolveSlug(ctx, link.Slug, "", ""); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("disabled link: got %v, want ErrNotFound", err)
	}

	past := fixedNow().Add(-time.Hour)
	link, err = fx.svc.UpsertShareLink(ctx, fx.projectID, ownerID, &services.UpsertShareLinkRequest{
		Mode:      models.ShareModePublic,
		ExpiresAt: &past,
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := fx.svc.ResolveSlug(ctx, link.Slug, "", ""); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expired link: got %v, want ErrNotFound", err)
	}

	if _, err := fx.svc.ResolveSlug(ctx, "no-such-slug", "", ""); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown slug: got %v, want ErrNotFound", err)
	}
}

func TestRevokeShareLink(t *testing.T) {
	fx := newShareFixture(t)
	ctx := context.Background()

	link, err := fx.svc.UpsertShareLink(ctx, fx.projectID, ownerID, &services.UpsertShareLinkRequest{
		Mode: models.ShareModePublic,
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if err := fx.svc.RevokeShareLink(ctx, fx.projectID, intruderID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("foreign revoke: got %v, want ErrForbidden", err)
	}

	if err := fx.svc.RevokeShareLink(ctx, fx.projectID, ownerID); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := fx.svc.ResolveSlug(ctx, link.Slug, "", ""); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("resolve after revoke: got %v, want ErrNotFound", err)
	}
}
