// Package sitebuilder is the public entry point of the website builder: a
// widget tree codec, an HTML renderer and the site, page, menu and footer
// services that persist and compose them.
package sitebuilder

import (
	"context"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitebuilder/internal/di"
	"github.com/goliatone/go-sitebuilder/internal/fixtures"
	"github.com/goliatone/go-sitebuilder/internal/footers"
	"github.com/goliatone/go-sitebuilder/internal/layout"
	"github.com/goliatone/go-sitebuilder/internal/menus"
	"github.com/goliatone/go-sitebuilder/internal/pages"
	"github.com/goliatone/go-sitebuilder/internal/render"
	"github.com/goliatone/go-sitebuilder/internal/sites"
	"github.com/goliatone/go-sitebuilder/internal/widgets"
)

// SiteService exports the sites service contract.
type SiteService = sites.Service

// PageService exports the pages service contract.
type PageService = pages.Service

// MenuService exports the menus service contract.
type MenuService = menus.Service

// FooterService exports the footers service contract.
type FooterService = footers.Service

// Codec exports the widget tree codec.
type Codec = widgets.Codec

// Renderer exports the widget HTML renderer.
type Renderer = render.Renderer

// Document is a composed page with its menus and footer.
type Document = layout.Document

// ComposeOptions selects the render mode of a composed page.
type ComposeOptions = layout.ComposeOptions

// Importer exports the markdown fixture importer.
type Importer = *fixtures.Importer

// Render modes.
const (
	ModePublic  = render.ModePublic
	ModePreview = render.ModePreview
)

// Module represents the top level site builder runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// EnsureSchema creates the storage tables when the module is backed by bun.
func (m *Module) EnsureSchema(ctx context.Context) error {
	return m.container.EnsureSchema(ctx)
}

// Sites returns the configured site service.
func (m *Module) Sites() SiteService {
	return m.container.SiteService()
}

// Pages returns the configured page service.
func (m *Module) Pages() PageService {
	return m.container.PageService()
}

// Menus returns the configured menu service.
func (m *Module) Menus() MenuService {
	return m.container.MenuService()
}

// Footers returns the configured footer service.
func (m *Module) Footers() FooterService {
	return m.container.FooterService()
}

// Codec returns the widget codec configured from Validation.
func (m *Module) Codec() *Codec {
	return m.container.Codec()
}

// Renderer returns the widget renderer configured from Render.
func (m *Module) Renderer() *Renderer {
	return m.container.Renderer()
}

// Importer returns the markdown fixture importer.
func (m *Module) Importer() Importer {
	return m.container.Importer()
}

// Compose renders a page together with its effective menus and footer.
func (m *Module) Compose(ctx context.Context, page *pages.Page, opts ComposeOptions) (*Document, error) {
	return m.container.Composer().ComposePage(ctx, page, opts)
}

// RenderPath resolves a public path of a site and returns the full HTML
// document. Unpublished pages are not reachable.
func (m *Module) RenderPath(ctx context.Context, siteID uuid.UUID, path string) (string, error) {
	page, err := m.Pages().ResolvePublic(ctx, siteID, path)
	if err != nil {
		return "", err
	}
	doc, err := m.Compose(ctx, page, ComposeOptions{Mode: ModePublic})
	if err != nil {
		return "", err
	}
	return layout.Shell(doc)
}

// Preview returns the editor markup of a page regardless of its
// publication state.
func (m *Module) Preview(ctx context.Context, pageID uuid.UUID) (string, error) {
	page, err := m.Pages().Get(ctx, pageID)
	if err != nil {
		return "", err
	}
	doc, err := m.Compose(ctx, page, ComposeOptions{Mode: ModePreview})
	if err != nil {
		return "", err
	}
	return layout.Shell(doc)
}
