package layout_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitebuilder/internal/domain"
	"github.com/goliatone/go-sitebuilder/internal/footers"
	"github.com/goliatone/go-sitebuilder/internal/layout"
	"github.com/goliatone/go-sitebuilder/internal/menus"
	"github.com/goliatone/go-sitebuilder/internal/pages"
	"github.com/goliatone/go-sitebuilder/internal/render"
)

var siteID = uuid.MustParse("00000000-0000-0000-0000-0000000000c1")

type fixture struct {
	pages   pages.Service
	menus   menus.Service
	footers footers.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	now := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		now = now.Add(time.Second)
		return now
	}
	pageSvc := pages.NewService(pages.NewMemoryPageRepository(), pages.WithClock(clock))
	return fixture{
		pages:   pageSvc,
		menus:   menus.NewService(menus.NewMemoryMenuRepository(), menus.NewMemoryMenuItemRepository(), menus.WithPageLookup(pageSvc), menus.WithClock(clock)),
		footers: footers.NewService(footers.NewMemoryFooterRepository(), footers.WithClock(clock)),
	}
}

func (f fixture) resolver() *layout.Resolver {
	return layout.NewResolver(f.pages, f.menus, f.footers, nil)
}

func (f fixture) menu(t *testing.T, name, position string, active bool) *menus.Menu {
	t.Helper()
	menu, err := f.menus.Create(context.Background(), menus.CreateMenuInput{SiteID: siteID, Name: name, Position: position, IsActive: active})
	if err != nil {
		t.Fatalf("create menu %s: %v", name, err)
	}
	return menu
}

func (f fixture) footer(t *testing.T, name string, active bool) *footers.Footer {
	t.Helper()
	footer, err := f.footers.Create(context.Background(), footers.CreateFooterInput{SiteID: siteID, Name: name, IsActive: active})
	if err != nil {
		t.Fatalf("create footer %s: %v", name, err)
	}
	return footer
}

func (f fixture) page(t *testing.T, input pages.CreatePageInput) *pages.Page {
	t.Helper()
	input.SiteID = siteID
	page, err := f.pages.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("create page %s: %v", input.Title, err)
	}
	return page
}

func TestEffectiveMenuInheritance(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	siteTop := f.menu(t, "Site top", "top", true)
	sectionLeft := f.menu(t, "Section left", "left", false)
	f.menu(t, "Site left", "left", true)

	parent := f.page(t, pages.CreatePageInput{Title: "Docs", Overrides: pages.Overrides{LeftMenuID: domain.Specific(sectionLeft.ID)}})
	child := f.page(t, pages.CreatePageInput{Title: "Guide", ParentID: &parent.ID})
	bare := f.page(t, pages.CreatePageInput{Title: "Landing", ParentID: &parent.ID, Overrides: pages.Overrides{TopMenuID: domain.None(), LeftMenuID: domain.None()}})

	resolver := f.resolver()
	cases := []struct {
		name     string
		page     *pages.Page
		position domain.Position
		want     *menus.Menu
	}{
		{"site default", child, domain.PositionTop, siteTop},
		{"inherited override", child, domain.PositionLeft, sectionLeft},
		{"own override", parent, domain.PositionLeft, sectionLeft},
		{"explicit none", bare, domain.PositionTop, nil},
		{"none stops inheritance", bare, domain.PositionLeft, nil},
		{"no default", child, domain.PositionRight, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := resolver.EffectiveMenu(ctx, tc.page, tc.position)
			if err != nil {
				t.Fatalf("effective menu: %v", err)
			}
			switch {
			case tc.want == nil && got != nil:
				t.Fatalf("expected no menu, got %s", got.Name)
			case tc.want != nil && (got == nil || got.ID != tc.want.ID):
				t.Fatalf("expected %s, got %+v", tc.want.Name, got)
			}
		})
	}
}

func TestEffectiveFooterInheritance(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	siteFooter := f.footer(t, "Site", true)
	legal := f.footer(t, "Legal", false)

	parent := f.page(t, pages.CreatePageInput{Title: "Legal", Overrides: pages.Overrides{FooterID: domain.Specific(legal.ID)}})
	child := f.page(t, pages.CreatePageInput{Title: "Terms", ParentID: &parent.ID})
	dangling := f.page(t, pages.CreatePageInput{Title: "Old", Overrides: pages.Overrides{FooterID: domain.Specific(uuid.New())}})
	hidden := f.page(t, pages.CreatePageInput{Title: "Print", Overrides: pages.Overrides{FooterID: domain.None()}})

	resolver := f.resolver()
	check := func(page *pages.Page, want *footers.Footer) {
		t.Helper()
		got, err := resolver.EffectiveFooter(ctx, page)
		if err != nil {
			t.Fatalf("effective footer: %v", err)
		}
		if want == nil {
			if got != nil {
				t.Fatalf("expected no footer for %s, got %s", page.Title, got.Name)
			}
			return
		}
		if got == nil || got.ID != want.ID {
			t.Fatalf("expected footer %s for %s, got %+v", want.Name, page.Title, got)
		}
	}
	check(child, legal)
	check(dangling, siteFooter)
	check(hidden, nil)
}

func TestComposePage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	top := f.menu(t, "Main", "top", true)
	footer := f.footer(t, "Site", true)

	about := f.page(t, pages.CreatePageInput{Title: "About", Published: true})
	if _, err := f.pages.SaveContent(ctx, pages.SaveContentInput{
		PageID:  about.ID,
		Content: []byte(`[{"type":"heading","id":"h1","attributes":{"level":1,"content":"Hi"}}]`),
		Styles:  []byte(`{"backgroundColor":"#fafafa"}`),
	}); err != nil {
		t.Fatalf("save page content: %v", err)
	}
	if _, err := f.footers.SaveContent(ctx, footers.SaveContentInput{
		FooterID: footer.ID,
		Content:  []byte(`[{"type":"richtext","id":"t1","attributes":{"content":"2025 Example"}}]`),
	}); err != nil {
		t.Fatalf("save footer content: %v", err)
	}
	for _, input := range []menus.AddItemInput{
		{Label: "About", LinkType: menus.LinkTypePage, PageID: &about.ID},
		{Label: "Blog", LinkType: menus.LinkTypeCustom, CustomURL: "/blog"},
	} {
		input.MenuID = top.ID
		if _, err := f.menus.AddItem(ctx, input); err != nil {
			t.Fatalf("add item: %v", err)
		}
	}

	page, err := f.pages.Get(ctx, about.ID)
	if err != nil {
		t.Fatalf("get page: %v", err)
	}
	composer := layout.NewComposer(f.resolver())
	doc, err := composer.ComposePage(ctx, page, layout.ComposeOptions{})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if doc.Path != "about" || doc.Mode != render.ModePublic {
		t.Fatalf("unexpected document header %+v", doc)
	}
	if !strings.Contains(string(doc.Content.HTML), "Hi") {
		t.Fatalf("expected page markup, got %q", doc.Content.HTML)
	}
	if doc.Content.Styles["backgroundColor"] != "#fafafa" {
		t.Fatalf("expected page styles, got %v", doc.Content.Styles)
	}
	if doc.Top == nil || doc.Top.ID != top.ID || doc.Left != nil || doc.Right != nil {
		t.Fatalf("unexpected menu regions %+v %+v %+v", doc.Top, doc.Left, doc.Right)
	}
	if len(doc.Top.Links) != 2 || doc.Top.Links[0].URL != "/about" || !doc.Top.Links[0].Active || doc.Top.Links[1].Active {
		t.Fatalf("unexpected links %+v", doc.Top.Links)
	}
	if doc.Footer == nil || !strings.Contains(string(doc.Footer.HTML), "2025 Example") {
		t.Fatalf("expected footer markup, got %+v", doc.Footer)
	}

	markup, err := layout.Shell(doc)
	if err != nil {
		t.Fatalf("shell: %v", err)
	}
	for _, want := range []string{"<title>About</title>", `class="nav-link active" href="/about"`, `href="/blog"`, "2025 Example", "background-color"} {
		if !strings.Contains(markup, want) {
			t.Fatalf("expected shell to contain %q:\n%s", want, markup)
		}
	}
}

func TestComposePreviewPrefixesLinks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	top := f.menu(t, "Main", "top", true)
	home := f.page(t, pages.CreatePageInput{Title: "Home", Published: true})
	if _, err := f.menus.AddItem(ctx, menus.AddItemInput{MenuID: top.ID, Label: "Home", LinkType: menus.LinkTypePage, PageID: &home.ID}); err != nil {
		t.Fatalf("add item: %v", err)
	}

	doc, err := layout.NewComposer(f.resolver()).ComposePage(ctx, home, layout.ComposeOptions{Mode: render.ModePreview})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	want := "/site/" + siteID.String() + "/home"
	if doc.Top == nil || doc.Top.Links[0].URL != want {
		t.Fatalf("expected preview link %q, got %+v", want, doc.Top)
	}
}

func TestComposeToleratesCorruptStorage(t *testing.T) {
	page := &pages.Page{ID: uuid.New(), SiteID: siteID, Title: "Broken", Slug: "broken", Content: `{"oops"`, Styles: `[1]`}
	doc, err := layout.NewComposer(nil).ComposePage(context.Background(), page, layout.ComposeOptions{})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if doc.Content.HTML != "" || len(doc.Content.Styles) != 0 {
		t.Fatalf("expected empty region, got %+v", doc.Content)
	}
	if doc.Path != "broken" || doc.Top != nil || doc.Footer != nil {
		t.Fatalf("unexpected document %+v", doc)
	}
}
