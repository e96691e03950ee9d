package pagescmd

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitebuilder/internal/pages"
)

func TestPageCommandsAgainstMemoryService(t *testing.T) {
	ctx := context.Background()
	siteID := uuid.New()
	svc := pages.NewService(pages.NewMemoryPageRepository())

	about, err := svc.Create(ctx, pages.CreatePageInput{SiteID: siteID, Title: "About"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := NewPublishPageHandler(svc, nil).Execute(ctx, PublishPageCommand{PageID: about.ID, Published: true}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := NewSetHomepageHandler(svc, nil).Execute(ctx, SetHomepageCommand{PageID: about.ID}); err != nil {
		t.Fatalf("homepage: %v", err)
	}
	home, err := svc.Homepage(ctx, siteID)
	if err != nil || home.ID != about.ID {
		t.Fatalf("expected about as homepage, got %+v (%v)", home, err)
	}

	var copied *pages.Page
	if err := NewCopyPageHandler(svc, nil, func(p *pages.Page) { copied = p }).Execute(ctx, CopyPageCommand{PageID: about.ID}); err != nil {
		t.Fatalf("copy: %v", err)
	}
	if copied == nil || copied.Slug != "about-copy" || copied.Published || copied.IsHomepage {
		t.Fatalf("unexpected copy %+v", copied)
	}

	if err := NewDeletePageHandler(svc, nil).Execute(ctx, DeletePageCommand{PageID: copied.ID}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, copied.ID); err == nil {
		t.Fatal("expected copied page to be removed")
	}
}
