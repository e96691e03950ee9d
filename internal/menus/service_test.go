package menus_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitebuilder/internal/domain"
	"github.com/goliatone/go-sitebuilder/internal/menus"
	"github.com/goliatone/go-sitebuilder/internal/pages"
	"github.com/goliatone/go-sitebuilder/internal/widgets"
	"github.com/goliatone/go-sitebuilder/pkg/activity"
)

var siteID = uuid.MustParse("00000000-0000-0000-0000-0000000000a1")

type tickingClock struct {
	now time.Time
}

func (c *tickingClock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

func newPages(t *testing.T) pages.Service {
	t.Helper()
	clock := &tickingClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	return pages.NewService(pages.NewMemoryPageRepository(), pages.WithClock(clock.Now))
}

func newService(t *testing.T, pageSvc pages.Service, opts ...menus.ServiceOption) menus.Service {
	t.Helper()
	clock := &tickingClock{now: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)}
	base := []menus.ServiceOption{menus.WithClock(clock.Now)}
	if pageSvc != nil {
		base = append(base, menus.WithPageLookup(pageSvc))
	}
	return menus.NewService(menus.NewMemoryMenuRepository(), menus.NewMemoryMenuItemRepository(), append(base, opts...)...)
}

func TestCreateMenuValidation(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, nil)

	menu, err := svc.Create(ctx, menus.CreateMenuInput{SiteID: siteID, Name: "  Main  "})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if menu.Name != "Main" || menu.Position != "top" || menu.IsActive {
		t.Fatalf("unexpected defaults %+v", menu)
	}
	if menu.Content != "[]" || menu.Styles != "{}" {
		t.Fatalf("expected empty containers, got %q %q", menu.Content, menu.Styles)
	}

	cases := []struct {
		name  string
		input menus.CreateMenuInput
	}{
		{"missing site", menus.CreateMenuInput{Name: "Main"}},
		{"missing name", menus.CreateMenuInput{SiteID: siteID}},
		{"long name", menus.CreateMenuInput{SiteID: siteID, Name: strings.Repeat("m", menus.MaxNameLength+1)}},
		{"bad position", menus.CreateMenuInput{SiteID: siteID, Name: "Main", Position: "bottom"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tc.input); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestActivateIsExclusivePerPosition(t *testing.T) {
	ctx := context.Background()
	var events []activity.Event
	emitter := activity.NewEmitter([]activity.Hook{activity.HookFunc(func(_ context.Context, event activity.Event) error {
		events = append(events, event)
		return nil
	})})
	svc := newService(t, nil, menus.WithActivityEmitter(emitter))

	first, err := svc.Create(ctx, menus.CreateMenuInput{SiteID: siteID, Name: "First", IsActive: true})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	side, err := svc.Create(ctx, menus.CreateMenuInput{SiteID: siteID, Name: "Side", Position: "LEFT", IsActive: true})
	if err != nil {
		t.Fatalf("create side: %v", err)
	}
	second, err := svc.Create(ctx, menus.CreateMenuInput{SiteID: siteID, Name: "Second"})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if _, err := svc.Activate(ctx, second.ID, uuid.Nil); err != nil {
		t.Fatalf("activate: %v", err)
	}

	top, err := svc.Active(ctx, siteID, domain.PositionTop)
	if err != nil {
		t.Fatalf("active top: %v", err)
	}
	if top.ID != second.ID {
		t.Fatalf("expected second menu active, got %s", top.Name)
	}
	reloaded, err := svc.Get(ctx, first.ID)
	if err != nil {
		t.Fatalf("get first: %v", err)
	}
	if reloaded.IsActive {
		t.Fatalf("expected first menu deactivated")
	}
	left, err := svc.Active(ctx, siteID, domain.PositionLeft)
	if err != nil || left.ID != side.ID {
		t.Fatalf("expected left menu untouched, got %v %v", left, err)
	}
	if _, err := svc.Active(ctx, siteID, domain.PositionRight); !errors.Is(err, menus.ErrNoActiveMenu) {
		t.Fatalf("expected ErrNoActiveMenu, got %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 activate events, got %d", len(events))
	}
	for _, event := range events {
		if event.Verb != activity.VerbActivate || event.ObjectType != activity.ObjectMenu {
			t.Fatalf("unexpected event %+v", event)
		}
	}
}

func TestMenuItemsOrderingAndReorder(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, nil)
	menu, err := svc.Create(ctx, menus.CreateMenuInput{SiteID: siteID, Name: "Main"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	add := func(label string, position *int) *menus.MenuItem {
		t.Helper()
		item, err := svc.AddItem(ctx, menus.AddItemInput{
			MenuID:    menu.ID,
			Label:     label,
			LinkType:  menus.LinkTypeCustom,
			CustomURL: "https://example.com/" + strings.ToLower(label),
			Position:  position,
		})
		if err != nil {
			t.Fatalf("add %s: %v", label, err)
		}
		return item
	}
	a := add("A", nil)
	c := add("C", nil)
	first := 1
	b := add("B", &first)

	labels := func() string {
		t.Helper()
		items, err := svc.Items(ctx, menu.ID)
		if err != nil {
			t.Fatalf("items: %v", err)
		}
		var out []string
		for i, item := range items {
			if item.Position != i {
				t.Fatalf("expected dense positions, item %s at %d", item.Label, item.Position)
			}
			out = append(out, item.Label)
		}
		return strings.Join(out, ",")
	}
	if got := labels(); got != "A,B,C" {
		t.Fatalf("expected A,B,C got %s", got)
	}

	if _, err := svc.ReorderItems(ctx, menu.ID, []uuid.UUID{c.ID, a.ID, b.ID}); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if got := labels(); got != "C,A,B" {
		t.Fatalf("expected C,A,B got %s", got)
	}

	if _, err := svc.ReorderItems(ctx, menu.ID, []uuid.UUID{c.ID, a.ID}); !errors.Is(err, menus.ErrReorderMismatch) {
		t.Fatalf("expected ErrReorderMismatch for short order, got %v", err)
	}
	if _, err := svc.ReorderItems(ctx, menu.ID, []uuid.UUID{c.ID, a.ID, a.ID}); !errors.Is(err, menus.ErrReorderMismatch) {
		t.Fatalf("expected ErrReorderMismatch for duplicate, got %v", err)
	}

	if err := svc.DeleteItem(ctx, a.ID); err != nil {
		t.Fatalf("delete item: %v", err)
	}
	if got := labels(); got != "C,B" {
		t.Fatalf("expected C,B got %s", got)
	}
}

func TestMenuItemLinkValidation(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, nil)
	menu, err := svc.Create(ctx, menus.CreateMenuInput{SiteID: siteID, Name: "Main"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	cases := []struct {
		name  string
		input menus.AddItemInput
		want  error
	}{
		{"page without id", menus.AddItemInput{Label: "Home", LinkType: menus.LinkTypePage}, menus.ErrMenuItemPageRequired},
		{"custom without url", menus.AddItemInput{Label: "Docs", LinkType: menus.LinkTypeCustom}, menus.ErrMenuItemURLRequired},
		{"script url", menus.AddItemInput{Label: "X", LinkType: menus.LinkTypeCustom, CustomURL: "javascript:alert(1)"}, menus.ErrMenuItemURLUnsafe},
		{"unknown link type", menus.AddItemInput{Label: "X", LinkType: "mail"}, menus.ErrMenuItemLinkInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.input.MenuID = menu.ID
			if _, err := svc.AddItem(ctx, tc.input); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	if _, err := svc.AddItem(ctx, menus.AddItemInput{MenuID: menu.ID, LinkType: menus.LinkTypeCustom, CustomURL: "/x"}); err == nil {
		t.Fatalf("expected label required error")
	}
}

func TestResolveItemsUsesPagePaths(t *testing.T) {
	ctx := context.Background()
	pageSvc := newPages(t)
	about, err := pageSvc.Create(ctx, pages.CreatePageInput{SiteID: siteID, Title: "About", Published: true})
	if err != nil {
		t.Fatalf("create about: %v", err)
	}
	team, err := pageSvc.Create(ctx, pages.CreatePageInput{SiteID: siteID, ParentID: &about.ID, Title: "Team", Published: true})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	svc := newService(t, pageSvc)
	menu, err := svc.Create(ctx, menus.CreateMenuInput{SiteID: siteID, Name: "Main"})
	if err != nil {
		t.Fatalf("create menu: %v", err)
	}
	missing := uuid.New()
	for _, input := range []menus.AddItemInput{
		{Label: "Team", LinkType: menus.LinkTypePage, PageID: &team.ID},
		{Label: "Docs", LinkType: menus.LinkTypeCustom, CustomURL: "https://docs.example.com"},
		{Label: "Gone", LinkType: menus.LinkTypePage, PageID: &missing},
	} {
		input.MenuID = menu.ID
		if _, err := svc.AddItem(ctx, input); err != nil {
			t.Fatalf("add %s: %v", input.Label, err)
		}
	}

	nav, err := svc.ResolveItems(ctx, menu.ID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := []string{"/about/team", "https://docs.example.com", "#"}
	if len(nav) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(nav))
	}
	for i, url := range want {
		if nav[i].URL != url {
			t.Fatalf("item %d: expected %q, got %q", i, url, nav[i].URL)
		}
	}
	if nav[0].PageID == nil || *nav[0].PageID != team.ID {
		t.Fatalf("expected page id carried on navigation item")
	}
}

func TestResolveItemsWithURLKit(t *testing.T) {
	ctx := context.Background()
	pageSvc := newPages(t)
	company, err := pageSvc.Create(ctx, pages.CreatePageInput{SiteID: siteID, Title: "Company", Published: true})
	if err != nil {
		t.Fatalf("create page: %v", err)
	}

	manager := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    "frontend",
				BaseURL: "https://example.com",
				Paths: map[string]string{
					"page": "/pages/:slug",
				},
			},
		},
	})
	resolver := menus.NewURLKitResolver(menus.URLKitResolverOptions{
		Manager:   manager,
		Group:     "frontend",
		PageRoute: "page",
		PathParam: "slug",
	})
	svc := newService(t, pageSvc, menus.WithURLResolver(resolver))
	menu, err := svc.Create(ctx, menus.CreateMenuInput{SiteID: siteID, Name: "Main"})
	if err != nil {
		t.Fatalf("create menu: %v", err)
	}
	if _, err := svc.AddItem(ctx, menus.AddItemInput{MenuID: menu.ID, Label: "Company", LinkType: menus.LinkTypePage, PageID: &company.ID}); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := svc.AddItem(ctx, menus.AddItemInput{MenuID: menu.ID, Label: "Blog", LinkType: menus.LinkTypeCustom, CustomURL: "/blog"}); err != nil {
		t.Fatalf("add item: %v", err)
	}

	nav, err := svc.ResolveItems(ctx, menu.ID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if nav[0].URL != "https://example.com/pages/company" {
		t.Fatalf("expected urlkit url, got %q", nav[0].URL)
	}
	if nav[1].URL != "/blog" {
		t.Fatalf("expected custom url verbatim, got %q", nav[1].URL)
	}
}

func TestURLKitResolverUnknownGroup(t *testing.T) {
	manager := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{{Name: "frontend", BaseURL: "https://example.com", Paths: map[string]string{"page": "/:slug"}}},
	})
	resolver := menus.NewURLKitResolver(menus.URLKitResolverOptions{Manager: manager, Group: "frontend.missing"})
	_, err := resolver.Resolve(context.Background(), menus.ResolveRequest{
		Item: &menus.MenuItem{LinkType: menus.LinkTypePage},
		Page: &pages.Page{Slug: "x"},
		Path: "x",
	})
	if err == nil {
		t.Fatalf("expected error for unknown child group")
	}
}

func TestMenuSaveContent(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, nil)
	menu, err := svc.Create(ctx, menus.CreateMenuInput{SiteID: siteID, Name: "Main"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	content := []byte(`[{"type":"link","id":"l1","attributes":{"text":"Home","url":"/"}}]`)
	result, err := svc.SaveContent(ctx, menus.SaveContentInput{
		MenuID:  menu.ID,
		Content: content,
		Styles:  []byte(`{"background-color":"#222","position":"fixed"}`),
	})
	if err != nil {
		t.Fatalf("save content: %v", err)
	}
	if !strings.Contains(result.Menu.Content, `"id":"l1"`) {
		t.Fatalf("expected stored content, got %s", result.Menu.Content)
	}
	if result.Menu.Styles != `{"backgroundColor":"#222"}` {
		t.Fatalf("expected sanitised styles, got %s", result.Menu.Styles)
	}

	if _, err := svc.SaveContent(ctx, menus.SaveContentInput{MenuID: menu.ID, Content: []byte(`{"type":"row"}`)}); !errors.Is(err, widgets.ErrMalformedTree) {
		t.Fatalf("expected ErrMalformedTree, got %v", err)
	}
	reloaded, err := svc.Get(ctx, menu.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if reloaded.Content != result.Menu.Content || reloaded.Styles != result.Menu.Styles {
		t.Fatalf("expected rejected save to keep stored document")
	}
}

func TestDeleteMenuRemovesItems(t *testing.T) {
	ctx := context.Background()
	items := menus.NewMemoryMenuItemRepository()
	svc := menus.NewService(menus.NewMemoryMenuRepository(), items)
	menu, err := svc.Create(ctx, menus.CreateMenuInput{SiteID: siteID, Name: "Main"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	item, err := svc.AddItem(ctx, menus.AddItemInput{MenuID: menu.ID, Label: "Blog", LinkType: menus.LinkTypeCustom, CustomURL: "/blog"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Delete(ctx, menu.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, menu.ID); !errors.Is(err, menus.ErrMenuNotFound) {
		t.Fatalf("expected ErrMenuNotFound, got %v", err)
	}
	if _, err := items.GetByID(ctx, item.ID); err == nil {
		t.Fatalf("expected item removed")
	}
}
