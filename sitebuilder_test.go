package sitebuilder_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-sitebuilder"
	"github.com/goliatone/go-sitebuilder/internal/pages"
	"github.com/goliatone/go-sitebuilder/internal/sites"
)

func newModule(t *testing.T) *sitebuilder.Module {
	t.Helper()
	cfg := sitebuilder.DefaultConfig()
	cfg.Logging.Provider = "none"
	module, err := sitebuilder.New(cfg)
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	return module
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := sitebuilder.DefaultConfig()
	cfg.Render.GridPrefix = ""
	if _, err := sitebuilder.New(cfg); !errors.Is(err, sitebuilder.ErrGridPrefixRequired) {
		t.Fatalf("expected ErrGridPrefixRequired, got %v", err)
	}
}

func TestModuleRendersPublishedPaths(t *testing.T) {
	ctx := context.Background()
	module := newModule(t)

	site, err := module.Sites().Create(ctx, sites.CreateSiteInput{Name: "Example"})
	if err != nil {
		t.Fatalf("create site: %v", err)
	}
	page, err := module.Pages().Create(ctx, pages.CreatePageInput{SiteID: site.ID, Title: "About"})
	if err != nil {
		t.Fatalf("create page: %v", err)
	}
	if _, err := module.Pages().SaveContent(ctx, pages.SaveContentInput{
		PageID:  page.ID,
		Content: []byte(`[{"id":"h1","type":"heading","attributes":{"level":2,"content":"Welcome"}}]`),
	}); err != nil {
		t.Fatalf("save content: %v", err)
	}

	if _, err := module.RenderPath(ctx, site.ID, "/about"); !errors.Is(err, pages.ErrPageNotFound) {
		t.Fatalf("expected draft page hidden from public paths, got %v", err)
	}

	preview, err := module.Preview(ctx, page.ID)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if !strings.Contains(preview, "Welcome") {
		t.Fatalf("expected heading in preview, got %s", preview)
	}

	if _, err := module.Pages().Publish(ctx, pages.PublishPageInput{ID: page.ID, Published: true}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	html, err := module.RenderPath(ctx, site.ID, "/about")
	if err != nil {
		t.Fatalf("render path: %v", err)
	}
	if !strings.Contains(html, "<main") || !strings.Contains(html, "Welcome") {
		t.Fatalf("unexpected document %s", html)
	}
}
