package di_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-sitebuilder/internal/di"
	"github.com/goliatone/go-sitebuilder/internal/layout"
	"github.com/goliatone/go-sitebuilder/internal/logging/gologger"
	"github.com/goliatone/go-sitebuilder/internal/menus"
	"github.com/goliatone/go-sitebuilder/internal/pages"
	"github.com/goliatone/go-sitebuilder/internal/render"
	"github.com/goliatone/go-sitebuilder/internal/runtimeconfig"
	"github.com/goliatone/go-sitebuilder/internal/sites"
	"github.com/goliatone/go-sitebuilder/internal/storage"
	"github.com/goliatone/go-sitebuilder/pkg/activity"
)

func quietConfig() runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "none"
	return cfg
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := quietConfig()
	cfg.Render.DefaultMode = "draft"
	if _, err := di.NewContainer(cfg); err == nil {
		t.Fatal("expected invalid config to fail")
	}
}

func TestContainerComposesPageInMemory(t *testing.T) {
	ctx := context.Background()
	container, err := di.NewContainer(quietConfig())
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	site, err := container.SiteService().Create(ctx, sites.CreateSiteInput{Name: "Example", Domain: "example.com"})
	if err != nil {
		t.Fatalf("create site: %v", err)
	}
	page, err := container.PageService().Create(ctx, pages.CreatePageInput{SiteID: site.ID, Title: "About", Published: true})
	if err != nil {
		t.Fatalf("create page: %v", err)
	}
	if _, err := container.PageService().SaveContent(ctx, pages.SaveContentInput{
		PageID:  page.ID,
		Content: []byte(`[{"id":"h1","type":"heading","attributes":{"level":1,"content":"Hi"}}]`),
	}); err != nil {
		t.Fatalf("save content: %v", err)
	}
	menu, err := container.MenuService().Create(ctx, menus.CreateMenuInput{SiteID: site.ID, Name: "Main", IsActive: true})
	if err != nil {
		t.Fatalf("create menu: %v", err)
	}
	if _, err := container.MenuService().AddItem(ctx, menus.AddItemInput{MenuID: menu.ID, Label: "About", PageID: &page.ID}); err != nil {
		t.Fatalf("add item: %v", err)
	}

	stored, err := container.PageService().Get(ctx, page.ID)
	if err != nil {
		t.Fatalf("get page: %v", err)
	}
	doc, err := container.Composer().ComposePage(ctx, stored, layoutOptions())
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if !strings.Contains(string(doc.Content.HTML), "Hi") {
		t.Fatalf("expected heading in page region, got %s", doc.Content.HTML)
	}
	if doc.Top == nil || len(doc.Top.Links) != 1 || doc.Top.Links[0].URL != "/about" || !doc.Top.Links[0].Active {
		t.Fatalf("unexpected top region %+v", doc.Top)
	}
	if len(container.CacheInvalidators()) != 0 {
		t.Fatal("expected no cache invalidators for memory repositories")
	}
}

func TestContainerUsesURLKitNavigation(t *testing.T) {
	ctx := context.Background()
	cfg := quietConfig()
	cfg.Navigation.RouteConfig = &urlkit.Config{
		Groups: []urlkit.GroupConfig{{
			Name:    "frontend",
			BaseURL: "https://example.com",
			Paths:   map[string]string{"page": "/pages/:slug"},
		}},
	}
	cfg.Navigation.DefaultGroup = "frontend"

	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if container.RouteManager() == nil {
		t.Fatal("expected route manager")
	}

	site, err := container.SiteService().Create(ctx, sites.CreateSiteInput{Name: "Example", Domain: "example.com"})
	if err != nil {
		t.Fatalf("create site: %v", err)
	}
	page, err := container.PageService().Create(ctx, pages.CreatePageInput{SiteID: site.ID, Title: "Company"})
	if err != nil {
		t.Fatalf("create page: %v", err)
	}
	menu, err := container.MenuService().Create(ctx, menus.CreateMenuInput{SiteID: site.ID, Name: "Main"})
	if err != nil {
		t.Fatalf("create menu: %v", err)
	}
	if _, err := container.MenuService().AddItem(ctx, menus.AddItemInput{MenuID: menu.ID, Label: "Company", PageID: &page.ID}); err != nil {
		t.Fatalf("add item: %v", err)
	}

	items, err := container.MenuService().ResolveItems(ctx, menu.ID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(items) != 1 || items[0].URL != "https://example.com/pages/company" {
		t.Fatalf("unexpected navigation %+v", items)
	}
}

func TestContainerEmitsActivityWhenEnabled(t *testing.T) {
	ctx := context.Background()
	cfg := quietConfig()
	cfg.Features.Activity = true

	var events []activity.Event
	hook := activity.HookFunc(func(_ context.Context, event activity.Event) error {
		events = append(events, event)
		return nil
	})
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	container, err := di.NewContainer(cfg, di.WithActivityHooks(hook), di.WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	site, err := container.SiteService().Create(ctx, sites.CreateSiteInput{Name: "Example", Domain: "example.com"})
	if err != nil {
		t.Fatalf("create site: %v", err)
	}
	page, err := container.PageService().Create(ctx, pages.CreatePageInput{SiteID: site.ID, Title: "Home"})
	if err != nil {
		t.Fatalf("create page: %v", err)
	}
	if _, err := container.PageService().SaveContent(ctx, pages.SaveContentInput{PageID: page.ID, Content: []byte(`[]`)}); err != nil {
		t.Fatalf("save content: %v", err)
	}

	var saved *activity.Event
	for i := range events {
		if events[i].Verb == activity.VerbSaveContent {
			saved = &events[i]
		}
	}
	if saved == nil {
		t.Fatalf("expected save_content event, got %+v", events)
	}
	if saved.ObjectID != page.ID.String() || !saved.OccurredAt.Equal(now) {
		t.Fatalf("unexpected event %+v", saved)
	}
}

func TestContainerConfiguresGoLogger(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Level = "error"
	cfg.Logging.Format = "json"

	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if _, ok := container.LoggerProvider().(*gologger.Provider); !ok {
		t.Fatalf("expected go-logger provider, got %T", container.LoggerProvider())
	}
}

func TestContainerWithBunStorage(t *testing.T) {
	ctx := context.Background()
	db, err := storage.Open(ctx, storage.Config{
		Provider: "sqlite",
		DSN:      fmt.Sprintf("file:di_container_%d?mode=memory&cache=shared&_fk=1", time.Now().UnixNano()),
	}, nil)
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	container, err := di.NewContainer(quietConfig(), di.WithBunDB(db))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if err := container.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	if got := len(container.CacheInvalidators()); got != 5 {
		t.Fatalf("expected 5 cache-backed repositories, got %d", got)
	}

	site, err := container.SiteService().Create(ctx, sites.CreateSiteInput{Name: "Example", Domain: "Example.com:8080"})
	if err != nil {
		t.Fatalf("create site: %v", err)
	}
	found, err := container.SiteService().GetByDomain(ctx, "EXAMPLE.COM")
	if err != nil || found.ID != site.ID {
		t.Fatalf("expected site by domain, got %+v (%v)", found, err)
	}
}

func layoutOptions() layout.ComposeOptions {
	return layout.ComposeOptions{Mode: render.ModePublic}
}
