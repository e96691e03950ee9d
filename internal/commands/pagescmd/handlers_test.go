package pagescmd

import (
	"context"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitebuilder/internal/commands"
	"github.com/goliatone/go-sitebuilder/internal/pages"
)

type stubPageService struct {
	publishRequests []pages.PublishPageInput
	homepageIDs     []uuid.UUID
	copyRequests    []pages.CopyPageInput
	deleteRequests  []pages.DeletePageInput

	deleteErr error
}

func (s *stubPageService) Publish(_ context.Context, input pages.PublishPageInput) (*pages.Page, error) {
	s.publishRequests = append(s.publishRequests, input)
	return &pages.Page{ID: input.ID, Published: input.Published}, nil
}

func (s *stubPageService) SetHomepage(_ context.Context, id uuid.UUID, _ uuid.UUID) (*pages.Page, error) {
	s.homepageIDs = append(s.homepageIDs, id)
	return &pages.Page{ID: id, IsHomepage: true}, nil
}

func (s *stubPageService) Copy(_ context.Context, input pages.CopyPageInput) (*pages.Page, error) {
	s.copyRequests = append(s.copyRequests, input)
	return &pages.Page{ID: uuid.New(), Slug: "about-copy"}, nil
}

func (s *stubPageService) Delete(_ context.Context, input pages.DeletePageInput) error {
	s.deleteRequests = append(s.deleteRequests, input)
	return s.deleteErr
}

func TestPublishPageHandlerExecutesService(t *testing.T) {
	service := &stubPageService{}
	handler := NewPublishPageHandler(service, commands.CommandLogger(nil, "pages"))

	pageID := uuid.New()
	actor := uuid.New()
	if err := handler.Execute(context.Background(), PublishPageCommand{PageID: pageID, Published: true, Actor: actor}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(service.publishRequests) != 1 {
		t.Fatalf("expected one publish request, got %d", len(service.publishRequests))
	}
	req := service.publishRequests[0]
	if req.ID != pageID || !req.Published || req.Actor != actor {
		t.Fatalf("unexpected publish request %+v", req)
	}
}

func TestPageCommandsRequirePageID(t *testing.T) {
	service := &stubPageService{}
	ctx := context.Background()

	errs := []error{
		NewPublishPageHandler(service, nil).Execute(ctx, PublishPageCommand{}),
		NewCopyPageHandler(service, nil, nil).Execute(ctx, CopyPageCommand{}),
		NewSetHomepageHandler(service, nil).Execute(ctx, SetHomepageCommand{}),
		NewDeletePageHandler(service, nil).Execute(ctx, DeletePageCommand{}),
	}
	for i, err := range errs {
		if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
			t.Fatalf("command %d: expected validation category, got %v", i, err)
		}
	}
	if len(service.publishRequests)+len(service.copyRequests)+len(service.homepageIDs)+len(service.deleteRequests) != 0 {
		t.Fatal("expected no service calls for invalid commands")
	}
}

func TestCopyPageHandlerReportsCopy(t *testing.T) {
	service := &stubPageService{}
	var copied *pages.Page
	handler := NewCopyPageHandler(service, nil, func(page *pages.Page) { copied = page })

	pageID := uuid.New()
	if err := handler.Execute(context.Background(), CopyPageCommand{PageID: pageID, IncludeChildren: true}); err != nil {
		t.Fatalf("copy: %v", err)
	}
	if copied == nil || copied.Slug != "about-copy" {
		t.Fatalf("expected copy callback, got %+v", copied)
	}
	if req := service.copyRequests[0]; req.ID != pageID || !req.IncludeChildren {
		t.Fatalf("unexpected copy request %+v", req)
	}
}

func TestSetHomepageHandlerExecutesService(t *testing.T) {
	service := &stubPageService{}
	pageID := uuid.New()
	if err := NewSetHomepageHandler(service, nil).Execute(context.Background(), SetHomepageCommand{PageID: pageID}); err != nil {
		t.Fatalf("homepage: %v", err)
	}
	if len(service.homepageIDs) != 1 || service.homepageIDs[0] != pageID {
		t.Fatalf("unexpected homepage calls %v", service.homepageIDs)
	}
}

func TestDeletePageHandlerWrapsServiceError(t *testing.T) {
	service := &stubPageService{deleteErr: pages.ErrPageHasChildren}
	err := NewDeletePageHandler(service, nil).Execute(context.Background(), DeletePageCommand{PageID: uuid.New()})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if len(service.deleteRequests) != 1 || service.deleteRequests[0].Cascade {
		t.Fatalf("unexpected delete requests %+v", service.deleteRequests)
	}
}
