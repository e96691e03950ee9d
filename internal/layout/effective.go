// Package layout resolves the menus and footer a page displays and composes
// the rendered regions of a page.
package layout

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitebuilder/internal/domain"
	"github.com/goliatone/go-sitebuilder/internal/footers"
	"github.com/goliatone/go-sitebuilder/internal/logging"
	"github.com/goliatone/go-sitebuilder/internal/menus"
	"github.com/goliatone/go-sitebuilder/internal/pages"
	"github.com/goliatone/go-sitebuilder/pkg/interfaces"
)

// PageTree supplies the ancestor chain and public path of a page.
type PageTree interface {
	Ancestors(ctx context.Context, page *pages.Page) ([]*pages.Page, error)
	FullPath(ctx context.Context, page *pages.Page) (string, error)
}

// MenuSource is the subset of the menu service used by layout.
type MenuSource interface {
	Get(ctx context.Context, id uuid.UUID) (*menus.Menu, error)
	Active(ctx context.Context, siteID uuid.UUID, position domain.Position) (*menus.Menu, error)
	ResolveItems(ctx context.Context, menuID uuid.UUID) ([]menus.NavigationItem, error)
}

// FooterSource is the subset of the footer service used by layout.
type FooterSource interface {
	Get(ctx context.Context, id uuid.UUID) (*footers.Footer, error)
	Active(ctx context.Context, siteID uuid.UUID) (*footers.Footer, error)
}

// Resolver computes effective menus and footers. A page override wins,
// then the nearest ancestor override, then the site default. An explicit
// none at any level hides the region.
type Resolver struct {
	pages   PageTree
	menus   MenuSource
	footers FooterSource
	logger  interfaces.Logger
}

// NewResolver constructs a Resolver. A nil logger disables logging.
func NewResolver(tree PageTree, menuSource MenuSource, footerSource FooterSource, logger interfaces.Logger) *Resolver {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Resolver{pages: tree, menus: menuSource, footers: footerSource, logger: logger}
}

// EffectiveMenu returns the menu displayed at position, or nil when the
// region is empty.
func (r *Resolver) EffectiveMenu(ctx context.Context, page *pages.Page, position domain.Position) (*menus.Menu, error) {
	if page == nil || r.menus == nil {
		return nil, nil
	}
	chain, err := r.chain(ctx, page)
	if err != nil {
		return nil, err
	}
	for _, link := range chain {
		override := link.MenuOverride(position)
		switch domain.ClassifyOverride(override) {
		case domain.OverrideNone:
			return nil, nil
		case domain.OverrideSpecific:
			menu, err := r.menus.Get(ctx, *override)
			if err == nil {
				return menu, nil
			}
			if !errors.Is(err, menus.ErrMenuNotFound) {
				return nil, err
			}
			r.logger.Warn("layout.menu.override_missing",
				"page_id", link.ID,
				"menu_id", *override,
				"position", position.String(),
			)
		}
	}
	menu, err := r.menus.Active(ctx, page.SiteID, position)
	if errors.Is(err, menus.ErrNoActiveMenu) {
		return nil, nil
	}
	return menu, err
}

// EffectiveFooter returns the footer displayed under page, or nil.
func (r *Resolver) EffectiveFooter(ctx context.Context, page *pages.Page) (*footers.Footer, error) {
	if page == nil || r.footers == nil {
		return nil, nil
	}
	chain, err := r.chain(ctx, page)
	if err != nil {
		return nil, err
	}
	for _, link := range chain {
		switch domain.ClassifyOverride(link.FooterID) {
		case domain.OverrideNone:
			return nil, nil
		case domain.OverrideSpecific:
			footer, err := r.footers.Get(ctx, *link.FooterID)
			if err == nil {
				return footer, nil
			}
			if !errors.Is(err, footers.ErrFooterNotFound) {
				return nil, err
			}
			r.logger.Warn("layout.footer.override_missing", "page_id", link.ID, "footer_id", *link.FooterID)
		}
	}
	footer, err := r.footers.Active(ctx, page.SiteID)
	if errors.Is(err, footers.ErrNoActiveFooter) {
		return nil, nil
	}
	return footer, err
}

// chain returns page followed by its ancestors, nearest first.
func (r *Resolver) chain(ctx context.Context, page *pages.Page) ([]*pages.Page, error) {
	chain := []*pages.Page{page}
	if r.pages == nil || page.ParentID == nil {
		return chain, nil
	}
	ancestors, err := r.pages.Ancestors(ctx, page)
	if err != nil {
		return nil, err
	}
	for i := len(ancestors) - 1; i >= 0; i-- {
		chain = append(chain, ancestors[i])
	}
	return chain, nil
}
