package di

import (
	"context"
	"fmt"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	urlkit "github.com/goliatone/go-urlkit"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitebuilder/internal/fixtures"
	"github.com/goliatone/go-sitebuilder/internal/footers"
	"github.com/goliatone/go-sitebuilder/internal/layout"
	"github.com/goliatone/go-sitebuilder/internal/logging"
	"github.com/goliatone/go-sitebuilder/internal/logging/gologger"
	"github.com/goliatone/go-sitebuilder/internal/menus"
	"github.com/goliatone/go-sitebuilder/internal/pages"
	"github.com/goliatone/go-sitebuilder/internal/render"
	"github.com/goliatone/go-sitebuilder/internal/runtimeconfig"
	"github.com/goliatone/go-sitebuilder/internal/sanitize"
	"github.com/goliatone/go-sitebuilder/internal/sites"
	"github.com/goliatone/go-sitebuilder/internal/storage"
	"github.com/goliatone/go-sitebuilder/internal/widgets"
	"github.com/goliatone/go-sitebuilder/pkg/activity"
	"github.com/goliatone/go-sitebuilder/pkg/interfaces"
)

// Container wires module dependencies. Without a database every repository
// is in memory.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider

	bunDB         *bun.DB
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	activityHooks []activity.Hook
	emitter       *activity.Emitter
	clock         func() time.Time
	idGenerator   func() uuid.UUID

	siteRepo     sites.SiteRepository
	pageRepo     pages.PageRepository
	menuRepo     menus.MenuRepository
	menuItemRepo menus.MenuItemRepository
	footerRepo   footers.FooterRepository

	routeManager    *urlkit.RouteManager
	menuURLResolver menus.URLResolver

	codec    *widgets.Codec
	renderer *render.Renderer

	siteSvc   sites.Service
	pageSvc   pages.Service
	menuSvc   menus.Service
	footerSvc footers.Service

	layoutResolver *layout.Resolver
	composer       *layout.Composer
	importer       *fixtures.Importer
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB switches every repository to bun. The caller owns the handle.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the default cache service and key serializer.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLoggerProvider overrides the provider built from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithActivityHooks registers activity hooks. Events are only emitted when
// Features.Activity is enabled.
func WithActivityHooks(hooks ...activity.Hook) Option {
	return func(c *Container) {
		c.activityHooks = append(c.activityHooks, hooks...)
	}
}

// WithRouteManager supplies a prebuilt go-urlkit manager instead of
// Config.Navigation.RouteConfig.
func WithRouteManager(manager *urlkit.RouteManager) Option {
	return func(c *Container) {
		c.routeManager = manager
	}
}

// WithMenuURLResolver replaces the navigation resolver.
func WithMenuURLResolver(resolver menus.URLResolver) Option {
	return func(c *Container) {
		c.menuURLResolver = resolver
	}
}

// WithClock overrides the timestamp source of every service.
func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		c.clock = clock
	}
}

// WithIDGenerator overrides the record id source of every service.
func WithIDGenerator(generator func() uuid.UUID) Option {
	return func(c *Container) {
		c.idGenerator = generator
	}
}

// NewContainer validates cfg and builds the services.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config:       cfg,
		siteRepo:     sites.NewMemorySiteRepository(),
		pageRepo:     pages.NewMemoryPageRepository(),
		menuRepo:     menus.NewMemoryMenuRepository(),
		menuItemRepo: menus.NewMemoryMenuItemRepository(),
		footerRepo:   footers.NewMemoryFooterRepository(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLogger(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	c.configureRepositories()
	if err := c.configureNavigation(); err != nil {
		return nil, err
	}
	c.configureActivity()
	c.configureRendering()
	c.configureServices()
	c.configureLayout()

	logging.ModuleLogger(c.loggerProvider, "sitebuilder.di").Debug("di.container.ready",
		"storage", c.storageKind(),
		"cache", c.cacheService != nil,
		"navigation", c.routeManager != nil,
		"activity", c.emitter != nil,
	)
	return c, nil
}

func (c *Container) configureLogger() error {
	if c.loggerProvider != nil {
		return nil
	}
	cfg := c.Config.Logging
	format := cfg.Format
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "none":
		return nil
	case "", "console":
		format = "console"
	}
	provider, err := gologger.NewProvider(gologger.Config{
		Level:     cfg.Level,
		Format:    format,
		AddSource: cfg.AddSource,
		Focus:     cfg.Focus,
	})
	if err != nil {
		return fmt.Errorf("di: configure logger: %w", err)
	}
	c.loggerProvider = provider
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled || c.bunDB == nil {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.Config.Cache.DefaultTTL > 0 {
			cfg.TTL = c.Config.Cache.DefaultTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() {
	if c.bunDB == nil {
		return
	}
	c.siteRepo = sites.NewBunSiteRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.pageRepo = pages.NewBunPageRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.menuRepo = menus.NewBunMenuRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.menuItemRepo = menus.NewBunMenuItemRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.footerRepo = footers.NewBunFooterRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
}

func (c *Container) configureNavigation() error {
	if c.menuURLResolver != nil {
		return nil
	}

	navCfg := c.Config.Navigation
	if c.routeManager == nil && navCfg.RouteConfig != nil {
		c.routeManager = urlkit.NewRouteManager(navCfg.RouteConfig)
	}
	if c.routeManager == nil {
		c.menuURLResolver = menus.NewPathResolver()
		return nil
	}

	group := strings.TrimSpace(navCfg.DefaultGroup)
	if group == "" {
		return runtimeconfig.ErrNavigationGroupRequired
	}
	c.menuURLResolver = menus.NewURLKitResolver(menus.URLKitResolverOptions{
		Manager:   c.routeManager,
		Group:     group,
		PageRoute: strings.TrimSpace(navCfg.PageRoute),
		PathParam: strings.TrimSpace(navCfg.PathParam),
		SiteParam: strings.TrimSpace(navCfg.SiteParam),
	})
	return nil
}

func (c *Container) configureActivity() {
	if !c.Config.Features.Activity || len(c.activityHooks) == 0 {
		return
	}
	opts := []activity.EmitterOption{}
	if c.clock != nil {
		opts = append(opts, activity.WithClock(c.clock))
	}
	c.emitter = activity.NewEmitter(c.activityHooks, opts...)
}

func (c *Container) configureRendering() {
	logger := logging.WidgetsLogger(c.loggerProvider)
	codecOpts := []widgets.CodecOption{
		widgets.WithStrict(c.Config.Validation.Strict),
		widgets.WithLogger(logger),
	}
	if c.Config.Validation.MaxDepth > 0 {
		codecOpts = append(codecOpts, widgets.WithMaxDepth(c.Config.Validation.MaxDepth))
	}

	renderOpts := []render.Option{
		render.WithLogger(logging.RenderLogger(c.loggerProvider)),
		render.WithGridPrefix(c.Config.Render.GridPrefix),
	}
	if c.Config.Validation.Sanitize {
		policy := sanitize.NewPolicy()
		codecOpts = append(codecOpts, widgets.WithSanitizer(policy))
		renderOpts = append(renderOpts, render.WithSanitizer(policy))
	}

	c.codec = widgets.MustNewCodec(codecOpts...)
	c.renderer = render.New(renderOpts...)
}

func (c *Container) configureServices() {
	siteOpts := []sites.ServiceOption{sites.WithLogger(logging.SitesLogger(c.loggerProvider))}
	pageOpts := []pages.ServiceOption{
		pages.WithLogger(logging.PagesLogger(c.loggerProvider)),
		pages.WithCodec(c.codec),
		pages.WithActivityEmitter(c.emitter),
	}
	menuOpts := []menus.ServiceOption{
		menus.WithLogger(logging.MenusLogger(c.loggerProvider)),
		menus.WithCodec(c.codec),
		menus.WithActivityEmitter(c.emitter),
		menus.WithURLResolver(c.menuURLResolver),
	}
	footerOpts := []footers.ServiceOption{
		footers.WithLogger(logging.FootersLogger(c.loggerProvider)),
		footers.WithCodec(c.codec),
		footers.WithActivityEmitter(c.emitter),
	}
	if c.clock != nil {
		siteOpts = append(siteOpts, sites.WithClock(c.clock))
		pageOpts = append(pageOpts, pages.WithClock(c.clock))
		menuOpts = append(menuOpts, menus.WithClock(c.clock))
		footerOpts = append(footerOpts, footers.WithClock(c.clock))
	}
	if c.idGenerator != nil {
		siteOpts = append(siteOpts, sites.WithIDGenerator(c.idGenerator))
		pageOpts = append(pageOpts, pages.WithIDGenerator(c.idGenerator))
		menuOpts = append(menuOpts, menus.WithIDGenerator(c.idGenerator))
		footerOpts = append(footerOpts, footers.WithIDGenerator(c.idGenerator))
	}

	c.siteSvc = sites.NewService(c.siteRepo, siteOpts...)
	c.pageSvc = pages.NewService(c.pageRepo, pageOpts...)
	c.menuSvc = menus.NewService(c.menuRepo, c.menuItemRepo, append(menuOpts, menus.WithPageLookup(c.pageSvc))...)
	c.footerSvc = footers.NewService(c.footerRepo, footerOpts...)
}

func (c *Container) configureLayout() {
	logger := logging.LayoutLogger(c.loggerProvider)
	c.layoutResolver = layout.NewResolver(c.pageSvc, c.menuSvc, c.footerSvc, logger)
	c.composer = layout.NewComposer(c.layoutResolver,
		layout.WithRenderer(c.renderer),
		layout.WithCodec(c.codec),
		layout.WithLogger(logger),
	)
	c.importer = fixtures.NewImporter(c.pageSvc, logging.FixturesLogger(c.loggerProvider))
}

func (c *Container) storageKind() string {
	if c.bunDB == nil {
		return "memory"
	}
	return c.bunDB.Dialect().Name().String()
}

// EnsureSchema creates the tables when the container runs on bun.
func (c *Container) EnsureSchema(ctx context.Context) error {
	if c.bunDB == nil {
		return nil
	}
	return storage.EnsureSchema(ctx, c.bunDB)
}

// CacheInvalidator is implemented by cache-wrapped repositories.
type CacheInvalidator interface {
	InvalidateCache(ctx context.Context) error
}

// CacheInvalidators lists the repositories that expose cache invalidation.
func (c *Container) CacheInvalidators() []CacheInvalidator {
	var out []CacheInvalidator
	for _, repo := range []any{c.siteRepo, c.pageRepo, c.menuRepo, c.menuItemRepo, c.footerRepo} {
		if inv, ok := repo.(CacheInvalidator); ok {
			out = append(out, inv)
		}
	}
	return out
}

// LoggerProvider exposes the configured logger provider. It may be nil.
func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

// BunDB exposes the database handle, nil for in-memory containers.
func (c *Container) BunDB() *bun.DB { return c.bunDB }

// Codec returns the container codec.
func (c *Container) Codec() *widgets.Codec { return c.codec }

// Renderer returns the container renderer.
func (c *Container) Renderer() *render.Renderer { return c.renderer }

// RouteManager exposes the go-urlkit manager, nil when navigation is path based.
func (c *Container) RouteManager() *urlkit.RouteManager { return c.routeManager }

// SiteService returns the configured site service.
func (c *Container) SiteService() sites.Service { return c.siteSvc }

// PageService returns the configured page service.
func (c *Container) PageService() pages.Service { return c.pageSvc }

// MenuService returns the configured menu service.
func (c *Container) MenuService() menus.Service { return c.menuSvc }

// FooterService returns the configured footer service.
func (c *Container) FooterService() footers.Service { return c.footerSvc }

// LayoutResolver returns the effective menu and footer resolver.
func (c *Container) LayoutResolver() *layout.Resolver { return c.layoutResolver }

// Composer returns the page composer.
func (c *Container) Composer() *layout.Composer { return c.composer }

// Importer returns the fixture importer.
func (c *Container) Importer() *fixtures.Importer { return c.importer }
