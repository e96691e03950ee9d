package contentcmd

import (
	"context"
	"encoding/json"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitebuilder/internal/footers"
	"github.com/goliatone/go-sitebuilder/internal/pages"
)

var siteID = uuid.MustParse("00000000-0000-0000-0000-00000000c0de")

func TestSaveContainerContentRoutesByKind(t *testing.T) {
	ctx := context.Background()
	pageSvc := pages.NewService(pages.NewMemoryPageRepository())
	footerSvc := footers.NewService(footers.NewMemoryFooterRepository())

	page, err := pageSvc.Create(ctx, pages.CreatePageInput{SiteID: siteID, Title: "Home"})
	if err != nil {
		t.Fatalf("create page: %v", err)
	}
	footer, err := footerSvc.Create(ctx, footers.CreateFooterInput{SiteID: siteID, Name: "Main"})
	if err != nil {
		t.Fatalf("create footer: %v", err)
	}

	var outcomes []SaveOutcome
	handler := NewSaveContainerContentHandler(Savers{Pages: pageSvc, Footers: footerSvc}, nil, func(o SaveOutcome) {
		outcomes = append(outcomes, o)
	})

	pageDoc := `[{"id":"h1","type":"heading","attributes":{"level":1,"content":"Hi"}}]`
	if err := handler.Execute(ctx, SaveContainerContentCommand{
		Kind: KindPage, ContainerID: page.ID, Content: json.RawMessage(pageDoc),
	}); err != nil {
		t.Fatalf("save page: %v", err)
	}
	nonStrict := false
	if err := handler.Execute(ctx, SaveContainerContentCommand{
		Kind:        KindFooter,
		ContainerID: footer.ID,
		Content:     json.RawMessage(`[{"id":"c1","type":"column","attributes":{"width":15}}]`),
		Styles:      json.RawMessage(`{"color":"#333"}`),
		Strict:      &nonStrict,
	}); err != nil {
		t.Fatalf("save footer: %v", err)
	}

	if len(outcomes) != 2 || len(outcomes[0].Issues) != 0 || len(outcomes[1].Issues) != 1 {
		t.Fatalf("unexpected outcomes %+v", outcomes)
	}
	storedFooter, err := footerSvc.Get(ctx, footer.ID)
	if err != nil {
		t.Fatalf("get footer: %v", err)
	}
	if storedFooter.Styles != `{"color":"#333"}` {
		t.Fatalf("unexpected footer styles %s", storedFooter.Styles)
	}
}

func TestSaveContainerContentRejections(t *testing.T) {
	ctx := context.Background()
	pageSvc := pages.NewService(pages.NewMemoryPageRepository())
	page, err := pageSvc.Create(ctx, pages.CreatePageInput{SiteID: siteID, Title: "Home"})
	if err != nil {
		t.Fatalf("create page: %v", err)
	}
	handler := NewSaveContainerContentHandler(Savers{Pages: pageSvc}, nil, nil)

	cases := []struct {
		name     string
		msg      SaveContainerContentCommand
		category goerrors.Category
	}{
		{
			name:     "unknown kind",
			msg:      SaveContainerContentCommand{Kind: "sidebar", ContainerID: page.ID, Content: json.RawMessage(`[]`)},
			category: goerrors.CategoryValidation,
		},
		{
			name:     "missing container",
			msg:      SaveContainerContentCommand{Kind: KindPage, Content: json.RawMessage(`[]`)},
			category: goerrors.CategoryValidation,
		},
		{
			name:     "malformed document",
			msg:      SaveContainerContentCommand{Kind: KindPage, ContainerID: page.ID, Content: json.RawMessage(`{"not":"array"}`)},
			category: goerrors.CategoryValidation,
		},
		{
			name:     "menu service missing",
			msg:      SaveContainerContentCommand{Kind: KindMenu, ContainerID: uuid.New(), Content: json.RawMessage(`[]`)},
			category: goerrors.CategoryCommand,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := handler.Execute(ctx, tc.msg)
			if !goerrors.IsCategory(err, tc.category) {
				t.Fatalf("expected %v category, got %v", tc.category, err)
			}
		})
	}

	stored, err := pageSvc.Get(ctx, page.ID)
	if err != nil {
		t.Fatalf("get page: %v", err)
	}
	if stored.Content != "[]" {
		t.Fatalf("expected content untouched, got %s", stored.Content)
	}
}
