package pages_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitebuilder/internal/domain"
	"github.com/goliatone/go-sitebuilder/internal/pages"
	"github.com/goliatone/go-sitebuilder/pkg/testsupport"
)

func TestBunPageRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := testsupport.NewBunDB(t, (*pages.Page)(nil))
	repo := pages.NewBunPageRepository(db)
	svc := pages.NewService(repo, pages.WithClock(tickingClock()))

	menuID := uuid.New()
	about := mustCreate(t, svc, pages.CreatePageInput{
		Title:     "About",
		Slug:      "about",
		Published: true,
		Overrides: pages.Overrides{TopMenuID: &menuID, FooterID: domain.None()},
	})
	team := mustCreate(t, svc, pages.CreatePageInput{Title: "Team", Slug: "team", ParentID: &about.ID, Published: true})

	stored, err := repo.GetByID(ctx, about.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if stored.TopMenuID == nil || *stored.TopMenuID != menuID {
		t.Fatalf("expected top menu override persisted, got %v", stored.TopMenuID)
	}
	if domain.ClassifyOverride(stored.FooterID) != domain.OverrideNone {
		t.Fatalf("expected explicit none footer persisted, got %v", stored.FooterID)
	}
	if domain.ClassifyOverride(stored.LeftMenuID) != domain.OverrideInherit {
		t.Fatalf("expected inherited left menu, got %v", stored.LeftMenuID)
	}

	found, err := svc.ResolvePublic(ctx, siteID, "about/team")
	if err != nil {
		t.Fatalf("resolve public: %v", err)
	}
	if found.ID != team.ID {
		t.Fatalf("expected team page, got %s", found.ID)
	}

	roots, err := svc.Children(ctx, siteID, nil)
	if err != nil || len(roots) != 1 || roots[0].ID != about.ID {
		t.Fatalf("expected one root page, got %v %v", roots, err)
	}

	if _, err := svc.SaveContent(ctx, pages.SaveContentInput{
		PageID:  team.ID,
		Content: []byte(`[{"id":"r1","type":"row","children":[]}]`),
	}); err != nil {
		t.Fatalf("save content: %v", err)
	}
	reloaded, err := svc.Get(ctx, team.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Content == "[]" {
		t.Fatalf("expected content persisted")
	}

	if _, err := repo.GetBySlug(ctx, siteID, nil, "missing"); err == nil {
		t.Fatalf("expected missing slug error")
	} else {
		var notFound *pages.NotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("expected NotFoundError, got %T", err)
		}
	}

	if err := svc.Delete(ctx, pages.DeletePageInput{ID: about.ID, Cascade: true}); err != nil {
		t.Fatalf("cascade delete: %v", err)
	}
	remaining, err := svc.List(ctx, siteID)
	if err != nil || len(remaining) != 0 {
		t.Fatalf("expected no pages left, got %v %v", remaining, err)
	}
}
