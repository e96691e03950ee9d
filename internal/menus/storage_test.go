package menus_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitebuilder/internal/domain"
	"github.com/goliatone/go-sitebuilder/internal/menus"
	"github.com/goliatone/go-sitebuilder/pkg/testsupport"
)

func TestBunMenuRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := testsupport.NewBunDB(t, (*menus.Menu)(nil), (*menus.MenuItem)(nil))
	menuRepo := menus.NewBunMenuRepository(db)
	itemRepo := menus.NewBunMenuItemRepository(db)
	svc := menus.NewService(menuRepo, itemRepo)

	top, err := svc.Create(ctx, menus.CreateMenuInput{SiteID: siteID, Name: "Top", IsActive: true, IsSticky: true})
	if err != nil {
		t.Fatalf("create top: %v", err)
	}
	other, err := svc.Create(ctx, menus.CreateMenuInput{SiteID: siteID, Name: "Other"})
	if err != nil {
		t.Fatalf("create other: %v", err)
	}
	if _, err := svc.Activate(ctx, other.ID, uuid.Nil); err != nil {
		t.Fatalf("activate: %v", err)
	}
	active, err := svc.Active(ctx, siteID, domain.PositionTop)
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if active.ID != other.ID {
		t.Fatalf("expected other active, got %s", active.Name)
	}
	stored, err := menuRepo.GetByID(ctx, top.ID)
	if err != nil {
		t.Fatalf("get top: %v", err)
	}
	if stored.IsActive || !stored.IsSticky {
		t.Fatalf("unexpected stored flags %+v", stored)
	}

	pageID := uuid.New()
	if _, err := svc.AddItem(ctx, menus.AddItemInput{MenuID: other.ID, Label: "Home", LinkType: menus.LinkTypePage, PageID: &pageID}); err != nil {
		t.Fatalf("add page item: %v", err)
	}
	if _, err := svc.AddItem(ctx, menus.AddItemInput{MenuID: other.ID, Label: "Blog", LinkType: menus.LinkTypeCustom, CustomURL: "/blog"}); err != nil {
		t.Fatalf("add custom item: %v", err)
	}
	items, err := itemRepo.ListByMenu(ctx, other.ID)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 2 || items[0].Label != "Home" || items[1].Label != "Blog" {
		t.Fatalf("unexpected items %+v", items)
	}
	if items[0].PageID == nil || *items[0].PageID != pageID {
		t.Fatalf("expected page id persisted")
	}

	if err := svc.Delete(ctx, other.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	var notFound *menus.NotFoundError
	if _, err := menuRepo.GetByID(ctx, other.ID); !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	remaining, err := itemRepo.ListByMenu(ctx, other.ID)
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected items removed, got %d", len(remaining))
	}
}
