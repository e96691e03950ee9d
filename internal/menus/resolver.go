package menus

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitebuilder/internal/pages"
	"github.com/goliatone/go-sitebuilder/internal/sanitize"
)

// PageLookup finds the pages referenced by page-linked items.
type PageLookup interface {
	Get(ctx context.Context, id uuid.UUID) (*pages.Page, error)
	FullPath(ctx context.Context, page *pages.Page) (string, error)
}

// ResolveRequest describes the item being resolved. Page and Path are set
// for page items whose page exists.
type ResolveRequest struct {
	Menu *Menu
	Item *MenuItem
	Page *pages.Page
	Path string
}

// URLResolver turns a menu item into an href.
type URLResolver interface {
	Resolve(ctx context.Context, req ResolveRequest) (string, error)
}

// PathResolver links pages to their root-relative full path and returns
// custom URLs verbatim.
type PathResolver struct{}

// NewPathResolver constructs the default resolver.
func NewPathResolver() *PathResolver {
	return &PathResolver{}
}

func (PathResolver) Resolve(_ context.Context, req ResolveRequest) (string, error) {
	if req.Item == nil {
		return "", nil
	}
	if req.Item.LinkType == LinkTypeCustom {
		return customURL(req.Item.CustomURL), nil
	}
	if req.Page == nil {
		return "", nil
	}
	return "/" + strings.TrimPrefix(req.Path, "/"), nil
}

func customURL(raw string) string {
	if !sanitize.SafeURL(raw) {
		return ""
	}
	return strings.TrimSpace(raw)
}
