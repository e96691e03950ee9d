package menus

import (
	"context"
	"fmt"
	"strings"
	"sync"

	urlkit "github.com/goliatone/go-urlkit"
)

// URLKitResolverOptions configures the go-urlkit backed resolver.
type URLKitResolverOptions struct {
	Manager *urlkit.RouteManager
	// Group is a dotted group path such as "frontend" or "frontend.en".
	Group string
	// PageRoute names the route used for page items.
	PageRoute string
	// PathParam receives the page full path.
	PathParam string
	// SiteParam receives the site id when set.
	SiteParam string
}

// URLKitResolver resolves page items through a go-urlkit RouteManager.
// Custom items are returned verbatim.
type URLKitResolver struct {
	manager   *urlkit.RouteManager
	group     string
	pageRoute string
	pathParam string
	siteParam string

	groupCache map[string]*urlkit.Group
	mu         sync.RWMutex
}

// NewURLKitResolver constructs a resolver backed by go-urlkit.
func NewURLKitResolver(opts URLKitResolverOptions) *URLKitResolver {
	if strings.TrimSpace(opts.PageRoute) == "" {
		opts.PageRoute = "page"
	}
	if strings.TrimSpace(opts.PathParam) == "" {
		opts.PathParam = "slug"
	}
	return &URLKitResolver{
		manager:    opts.Manager,
		group:      strings.TrimSpace(opts.Group),
		pageRoute:  strings.TrimSpace(opts.PageRoute),
		pathParam:  strings.TrimSpace(opts.PathParam),
		siteParam:  strings.TrimSpace(opts.SiteParam),
		groupCache: make(map[string]*urlkit.Group),
	}
}

// Resolve builds the URL of a page item using the configured route.
func (r *URLKitResolver) Resolve(_ context.Context, req ResolveRequest) (string, error) {
	if r == nil || req.Item == nil {
		return "", nil
	}
	if req.Item.LinkType == LinkTypeCustom {
		return customURL(req.Item.CustomURL), nil
	}
	if req.Page == nil || r.manager == nil || r.group == "" {
		return "", nil
	}

	group, err := r.groupForPath(r.group)
	if err != nil {
		return "", err
	}
	builder, err := safeBuilder(group, r.pageRoute)
	if err != nil {
		return "", err
	}
	builder.WithParam(r.pathParam, strings.TrimPrefix(req.Path, "/"))
	if r.siteParam != "" {
		builder.WithParam(r.siteParam, req.Page.SiteID.String())
	}
	return builder.Build()
}

func (r *URLKitResolver) groupForPath(path string) (*urlkit.Group, error) {
	r.mu.RLock()
	group, ok := r.groupCache[path]
	r.mu.RUnlock()
	if ok {
		return group, nil
	}

	parts := strings.Split(path, ".")
	current, err := lookupGroup(r.manager, parts[0])
	if err != nil {
		return nil, err
	}
	for _, part := range parts[1:] {
		current, err = lookupChildGroup(current, part)
		if err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	r.groupCache[path] = current
	r.mu.Unlock()
	return current, nil
}

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	if group == nil {
		return nil, fmt.Errorf("menus: urlkit group is nil")
	}
	defer func() {
		if rec := recover(); rec != nil {
			builder = nil
			err = fmt.Errorf("menus: urlkit builder panic: %v", rec)
		}
	}()
	return group.Builder(route), nil
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	if manager == nil {
		return nil, fmt.Errorf("menus: route manager not configured")
	}
	defer func() {
		if rec := recover(); rec != nil {
			group = nil
			err = fmt.Errorf("menus: route group %q not found", name)
		}
	}()
	return manager.Group(name), nil
}

func lookupChildGroup(parent *urlkit.Group, name string) (group *urlkit.Group, err error) {
	if parent == nil {
		return nil, fmt.Errorf("menus: parent group is nil")
	}
	defer func() {
		if rec := recover(); rec != nil {
			group = nil
			err = fmt.Errorf("menus: child group %q not found", name)
		}
	}()
	return parent.Group(name), nil
}
