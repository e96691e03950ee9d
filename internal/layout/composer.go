package layout

import (
	"context"
	"html/template"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitebuilder/internal/domain"
	"github.com/goliatone/go-sitebuilder/internal/logging"
	"github.com/goliatone/go-sitebuilder/internal/pages"
	"github.com/goliatone/go-sitebuilder/internal/render"
	"github.com/goliatone/go-sitebuilder/internal/widgets"
	"github.com/goliatone/go-sitebuilder/pkg/interfaces"
)

// Link is a resolved menu item ready for display.
type Link struct {
	Label  string
	URL    string
	Active bool
}

// Region is one rendered container of a page.
type Region struct {
	ID     uuid.UUID
	Name   string
	Kind   domain.ContainerKind
	HTML   template.HTML
	Styles map[string]string
	Sticky bool
	Links  []Link
}

// Style returns the region styles as an inline declaration list.
func (r *Region) Style() template.CSS {
	if r == nil {
		return ""
	}
	return render.InlineStyle(r.Styles)
}

// Document is a composed page: the page body plus the regions around it.
// Absent regions are nil.
type Document struct {
	Page     *pages.Page
	Title    string
	Path     string
	Mode     render.Mode
	Content  Region
	Top      *Region
	Left     *Region
	Right    *Region
	Footer   *Region
	Warnings []*widgets.UnknownWidgetTypeWarning
}

// Menu returns the region at position.
func (d *Document) Menu(position domain.Position) *Region {
	switch position {
	case domain.PositionTop:
		return d.Top
	case domain.PositionLeft:
		return d.Left
	case domain.PositionRight:
		return d.Right
	default:
		return nil
	}
}

// ComposeOptions selects the render mode. ActiveMenu defaults to the page
// path.
type ComposeOptions struct {
	Mode       render.Mode
	ActiveMenu string
}

// ComposerOption configures a Composer.
type ComposerOption func(*Composer)

// WithRenderer overrides the widget renderer.
func WithRenderer(renderer *render.Renderer) ComposerOption {
	return func(c *Composer) {
		if renderer != nil {
			c.renderer = renderer
		}
	}
}

// WithCodec overrides the codec used to decode stored containers.
func WithCodec(codec *widgets.Codec) ComposerOption {
	return func(c *Composer) {
		if codec != nil {
			c.codec = codec
		}
	}
}

// WithLogger sets the composer logger.
func WithLogger(logger interfaces.Logger) ComposerOption {
	return func(c *Composer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Composer renders a page together with its effective menus and footer.
type Composer struct {
	resolver *Resolver
	renderer *render.Renderer
	codec    *widgets.Codec
	logger   interfaces.Logger
}

// NewComposer constructs a Composer around resolver.
func NewComposer(resolver *Resolver, opts ...ComposerOption) *Composer {
	c := &Composer{
		resolver: resolver,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.renderer == nil {
		c.renderer = render.New(render.WithLogger(c.logger))
	}
	if c.codec == nil {
		c.codec = widgets.MustNewCodec(widgets.WithLogger(c.logger))
	}
	c.codec = c.codec.AsStrict(false)
	return c
}

// ComposePage renders page and its regions. Stored documents that fail to
// decode render empty and are logged.
func (c *Composer) ComposePage(ctx context.Context, page *pages.Page, opts ComposeOptions) (*Document, error) {
	if page == nil {
		return nil, pages.ErrPageNotFound
	}
	path := page.Slug
	if c.resolver != nil && c.resolver.pages != nil {
		full, err := c.resolver.pages.FullPath(ctx, page)
		if err != nil {
			return nil, err
		}
		path = full
	}
	if opts.Mode == "" {
		opts.Mode = render.ModePublic
	}
	if opts.ActiveMenu == "" {
		opts.ActiveMenu = "/" + path
	}
	rctx := render.Context{SiteID: page.SiteID, ActiveMenu: opts.ActiveMenu, Mode: opts.Mode}

	doc := &Document{Page: page, Title: page.Title, Path: path, Mode: opts.Mode}
	doc.Content = c.region(page.ID, page.Title, domain.ContainerPage, page.Content, page.Styles, rctx, doc)

	if c.resolver != nil {
		for _, position := range domain.Positions() {
			menu, err := c.resolver.EffectiveMenu(ctx, page, position)
			if err != nil {
				return nil, err
			}
			if menu == nil {
				continue
			}
			region := c.region(menu.ID, menu.Name, domain.ContainerMenu, menu.Content, menu.Styles, rctx, doc)
			region.Sticky = menu.IsSticky
			region.Links = c.links(ctx, menu.ID, rctx)
			switch position {
			case domain.PositionTop:
				doc.Top = &region
			case domain.PositionLeft:
				doc.Left = &region
			case domain.PositionRight:
				doc.Right = &region
			}
		}

		footer, err := c.resolver.EffectiveFooter(ctx, page)
		if err != nil {
			return nil, err
		}
		if footer != nil {
			region := c.region(footer.ID, footer.Name, domain.ContainerFooter, footer.Content, footer.Styles, rctx, doc)
			doc.Footer = &region
		}
	}

	c.logger.Debug("layout.page.composed",
		"page_id", page.ID,
		"mode", string(opts.Mode),
		"warnings", len(doc.Warnings),
	)
	return doc, nil
}

func (c *Composer) region(id uuid.UUID, name string, kind domain.ContainerKind, content, styles string, rctx render.Context, doc *Document) Region {
	region := Region{ID: id, Name: name, Kind: kind}

	decodedStyles, err := widgets.DecodeStyles([]byte(styles))
	if err != nil {
		c.logger.Warn("layout.styles.invalid", "container", string(kind), "id", id, "error", err)
	}
	region.Styles = decodedStyles

	result, err := c.codec.Decode([]byte(content))
	if err != nil {
		c.logger.Error("layout.content.invalid", "container", string(kind), "id", id, "error", err)
		return region
	}
	rendered := c.renderer.RenderDetailed(result.Nodes, rctx)
	for _, renderErr := range rendered.Errors {
		c.logger.Warn("layout.render.failed", "container", string(kind), "id", id, "error", renderErr)
	}
	doc.Warnings = append(doc.Warnings, rendered.Warnings...)
	region.HTML = template.HTML(rendered.HTML) // #nosec G203 -- renderer output is escaped
	return region
}

func (c *Composer) links(ctx context.Context, menuID uuid.UUID, rctx render.Context) []Link {
	items, err := c.resolver.menus.ResolveItems(ctx, menuID)
	if err != nil {
		c.logger.Warn("layout.menu.items_failed", "menu_id", menuID, "error", err)
		return nil
	}
	links := make([]Link, len(items))
	for i, item := range items {
		links[i] = Link{
			Label:  item.Label,
			URL:    render.LinkURL(item.URL, rctx),
			Active: render.IsActiveURL(item.URL, rctx),
		}
	}
	return links
}
