package menus

import (
	"context"
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitebuilder/internal/domain"
	"github.com/goliatone/go-sitebuilder/internal/logging"
	"github.com/goliatone/go-sitebuilder/internal/sanitize"
	"github.com/goliatone/go-sitebuilder/internal/widgets"
	"github.com/goliatone/go-sitebuilder/pkg/activity"
	"github.com/goliatone/go-sitebuilder/pkg/interfaces"
)

var (
	ErrMenuNotFound         = errors.New("menus: menu not found")
	ErrMenuItemNotFound     = errors.New("menus: menu item not found")
	ErrNoActiveMenu         = errors.New("menus: no active menu for position")
	ErrMenuPositionInvalid  = errors.New("menus: position must be top, left or right")
	ErrMenuItemLinkInvalid  = errors.New("menus: link type must be page or custom")
	ErrMenuItemPageRequired = errors.New("menus: page link requires a page id")
	ErrMenuItemURLRequired  = errors.New("menus: custom link requires a url")
	ErrMenuItemURLUnsafe    = errors.New("menus: custom url scheme is not allowed")
	ErrReorderMismatch      = errors.New("menus: reorder must list every item of the menu exactly once")
)

const (
	MaxNameLength  = 100
	MaxLabelLength = 100
	MaxURLLength   = 500
)

// Service manages menus, their items and their widget content.
type Service interface {
	Create(ctx context.Context, input CreateMenuInput) (*Menu, error)
	Get(ctx context.Context, id uuid.UUID) (*Menu, error)
	List(ctx context.Context, siteID uuid.UUID) ([]*Menu, error)
	Update(ctx context.Context, input UpdateMenuInput) (*Menu, error)
	Activate(ctx context.Context, id uuid.UUID, actor uuid.UUID) (*Menu, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*Menu, error)
	// Active returns the site default for a position.
	Active(ctx context.Context, siteID uuid.UUID, position domain.Position) (*Menu, error)
	SaveContent(ctx context.Context, input SaveContentInput) (*SaveContentResult, error)
	Delete(ctx context.Context, id uuid.UUID) error

	AddItem(ctx context.Context, input AddItemInput) (*MenuItem, error)
	UpdateItem(ctx context.Context, input UpdateItemInput) (*MenuItem, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
	Items(ctx context.Context, menuID uuid.UUID) ([]*MenuItem, error)
	ReorderItems(ctx context.Context, menuID uuid.UUID, order []uuid.UUID) ([]*MenuItem, error)
	ResolveItems(ctx context.Context, menuID uuid.UUID) ([]NavigationItem, error)
}

// CreateMenuInput captures the fields required to create a menu.
type CreateMenuInput struct {
	SiteID   uuid.UUID
	Name     string
	Position string
	IsActive bool
	IsSticky bool
	Actor    uuid.UUID
}

// Validate checks the name and position.
func (in CreateMenuInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.SiteID, validation.By(notNilUUID)),
		validation.Field(&in.Name, validation.Required, validation.RuneLength(1, MaxNameLength)),
		validation.Field(&in.Position, validation.In(positionValues()...).Error(ErrMenuPositionInvalid.Error())),
	)
}

// UpdateMenuInput changes menu fields when set.
type UpdateMenuInput struct {
	ID       uuid.UUID
	Name     *string
	Position *string
	IsSticky *bool
}

// SaveContentInput replaces the widget tree of a menu. Nil Styles keeps the
// stored style blob.
type SaveContentInput struct {
	MenuID  uuid.UUID
	Content []byte
	Styles  []byte
	Strict  *bool
	Actor   uuid.UUID
}

// SaveContentResult reports the stored menu and tolerated attribute issues.
type SaveContentResult struct {
	Menu   *Menu
	Issues widgets.ValidationErrors
}

// ServiceOption configures the menu service.
type ServiceOption func(*service)

// WithClock overrides the timestamp source.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides record id generation.
func WithIDGenerator(generator func() uuid.UUID) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.newID = generator
		}
	}
}

// WithCodec sets the codec used on the save path.
func WithCodec(codec *widgets.Codec) ServiceOption {
	return func(s *service) {
		if codec != nil {
			s.codec = codec
		}
	}
}

// WithPageLookup wires page resolution for page-linked items.
func WithPageLookup(lookup PageLookup) ServiceOption {
	return func(s *service) {
		s.pages = lookup
	}
}

// WithURLResolver overrides how item URLs are built.
func WithURLResolver(resolver URLResolver) ServiceOption {
	return func(s *service) {
		if resolver != nil {
			s.resolver = resolver
		}
	}
}

// WithActivityEmitter wires audit events.
func WithActivityEmitter(emitter *activity.Emitter) ServiceOption {
	return func(s *service) {
		s.activity = emitter
	}
}

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type cacheInvalidator interface {
	InvalidateCache(ctx context.Context) error
}

type service struct {
	menus    MenuRepository
	items    MenuItemRepository
	pages    PageLookup
	resolver URLResolver
	codec    *widgets.Codec
	activity *activity.Emitter
	logger   interfaces.Logger
	now      func() time.Time
	newID    func() uuid.UUID
}

// NewService constructs a menu service.
func NewService(menus MenuRepository, items MenuItemRepository, opts ...ServiceOption) Service {
	s := &service{
		menus:    menus,
		items:    items,
		resolver: NewPathResolver(),
		logger:   logging.NoOp(),
		now:      time.Now,
		newID:    uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.codec == nil {
		s.codec = widgets.MustNewCodec(
			widgets.WithLogger(s.logger),
			widgets.WithSanitizer(sanitize.NewPolicy()),
		)
	}
	return s
}

func (s *service) Create(ctx context.Context, input CreateMenuInput) (*Menu, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Position = normalizePosition(input.Position)
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	menu := &Menu{
		ID:        s.newID(),
		SiteID:    input.SiteID,
		Name:      input.Name,
		Position:  input.Position,
		IsSticky:  input.IsSticky,
		Content:   "[]",
		Styles:    "{}",
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := s.menus.Create(ctx, menu)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.logger.Info("menus.created", "menu_id", created.ID, "site_id", created.SiteID, "position", created.Position)

	if input.IsActive {
		return s.Activate(ctx, created.ID, input.Actor)
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Menu, error) {
	menu, err := s.menus.GetByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, ErrMenuNotFound)
	}
	return menu, nil
}

func (s *service) List(ctx context.Context, siteID uuid.UUID) ([]*Menu, error) {
	return s.menus.ListBySite(ctx, siteID)
}

func (s *service) Update(ctx context.Context, input UpdateMenuInput) (*Menu, error) {
	menu, err := s.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	candidate := CreateMenuInput{SiteID: menu.SiteID, Name: menu.Name, Position: menu.Position}
	if input.Name != nil {
		candidate.Name = strings.TrimSpace(*input.Name)
	}
	if input.Position != nil {
		candidate.Position = normalizePosition(*input.Position)
	}
	if err := candidate.Validate(); err != nil {
		return nil, err
	}
	moved := candidate.Position != menu.Position
	menu.Name = candidate.Name
	menu.Position = candidate.Position
	if input.IsSticky != nil {
		menu.IsSticky = *input.IsSticky
	}
	if moved && menu.IsActive {
		if err := s.deactivateOthers(ctx, menu); err != nil {
			return nil, err
		}
	}
	return s.save(ctx, menu)
}

// Activate flags id as the site default for its position and clears the
// flag on every other menu of the same site and position.
func (s *service) Activate(ctx context.Context, id uuid.UUID, actor uuid.UUID) (*Menu, error) {
	menu, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.deactivateOthers(ctx, menu); err != nil {
		return nil, err
	}
	if menu.IsActive {
		return menu, nil
	}
	menu.IsActive = true
	saved, err := s.save(ctx, menu)
	if err != nil {
		return nil, err
	}
	s.logger.Info("menus.activated", "menu_id", saved.ID, "site_id", saved.SiteID, "position", saved.Position)
	s.emit(ctx, actor, activity.VerbActivate, saved, nil)
	return saved, nil
}

func (s *service) Deactivate(ctx context.Context, id uuid.UUID) (*Menu, error) {
	menu, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !menu.IsActive {
		return menu, nil
	}
	menu.IsActive = false
	return s.save(ctx, menu)
}

func (s *service) Active(ctx context.Context, siteID uuid.UUID, position domain.Position) (*Menu, error) {
	records, err := s.menus.ListBySite(ctx, siteID)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		if record.IsActive && record.Region() == position {
			return record, nil
		}
	}
	return nil, ErrNoActiveMenu
}

// SaveContent decodes, validates and stores a full replacement document.
func (s *service) SaveContent(ctx context.Context, input SaveContentInput) (*SaveContentResult, error) {
	menu, err := s.Get(ctx, input.MenuID)
	if err != nil {
		return nil, err
	}
	codec := s.codec
	if input.Strict != nil {
		codec = codec.AsStrict(*input.Strict)
	}
	styles := input.Styles
	if styles == nil {
		styles = []byte(menu.Styles)
		if _, err := widgets.DecodeStyles(styles); err != nil {
			s.logger.Warn("menus.styles.reset", "menu_id", menu.ID, "error", err)
			styles = []byte("{}")
		}
	}
	prepared, err := codec.PrepareContainer(input.Content, styles)
	if err != nil {
		s.logger.Warn("menus.content.rejected", "menu_id", menu.ID, "error", err)
		return nil, err
	}

	menu.Content = string(prepared.Content)
	menu.Styles = string(prepared.Styles)
	saved, err := s.save(ctx, menu)
	if err != nil {
		return nil, err
	}
	s.logger.Info("menus.content.saved",
		"menu_id", saved.ID,
		"widgets", len(prepared.Result.Nodes),
		"issues", len(prepared.Result.Issues),
	)
	s.emit(ctx, input.Actor, activity.VerbSaveContent, saved, map[string]any{
		"widgets": len(prepared.Result.Nodes),
	})
	return &SaveContentResult{Menu: saved, Issues: prepared.Result.Issues}, nil
}

// Delete removes the menu together with its items.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	menu, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	items, err := s.items.ListByMenu(ctx, menu.ID)
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := s.items.Delete(ctx, item.ID); err != nil {
			return translateNotFound(err, ErrMenuItemNotFound)
		}
	}
	if err := s.menus.Delete(ctx, menu.ID); err != nil {
		return translateNotFound(err, ErrMenuNotFound)
	}
	s.invalidate(ctx)
	s.logger.Info("menus.deleted", "menu_id", menu.ID, "items", len(items))
	return nil
}

func (s *service) save(ctx context.Context, menu *Menu) (*Menu, error) {
	menu.UpdatedAt = s.now().UTC()
	updated, err := s.menus.Update(ctx, menu)
	if err != nil {
		return nil, translateNotFound(err, ErrMenuNotFound)
	}
	s.invalidate(ctx)
	return updated, nil
}

func (s *service) deactivateOthers(ctx context.Context, menu *Menu) error {
	records, err := s.menus.ListBySite(ctx, menu.SiteID)
	if err != nil {
		return err
	}
	for _, record := range records {
		if record.ID == menu.ID || !record.IsActive || record.Position != menu.Position {
			continue
		}
		record.IsActive = false
		record.UpdatedAt = s.now().UTC()
		if _, err := s.menus.Update(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) emit(ctx context.Context, actor uuid.UUID, verb string, menu *Menu, meta map[string]any) {
	if !s.activity.Enabled() || menu == nil {
		return
	}
	if meta == nil {
		meta = map[string]any{}
	}
	meta["site_id"] = menu.SiteID.String()
	meta["position"] = menu.Position
	event := activity.Event{
		Verb:       verb,
		ActorID:    actor.String(),
		ObjectType: activity.ObjectMenu,
		ObjectID:   menu.ID.String(),
		TenantID:   menu.SiteID.String(),
		Metadata:   meta,
	}
	if err := s.activity.Emit(ctx, event); err != nil {
		s.logger.Warn("menus.activity.emit_failed", "menu_id", menu.ID, "verb", verb, "error", err)
	}
}

func (s *service) invalidate(ctx context.Context) {
	for _, repo := range []any{s.menus, s.items} {
		invalidator, ok := repo.(cacheInvalidator)
		if !ok {
			continue
		}
		if err := invalidator.InvalidateCache(ctx); err != nil {
			s.logger.Warn("menus.cache.invalidate_failed", "error", err)
		}
	}
}

func normalizePosition(raw string) string {
	position, err := domain.ParsePosition(raw)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(raw))
	}
	return position.String()
}

func positionValues() []any {
	positions := domain.Positions()
	out := make([]any, len(positions))
	for i, position := range positions {
		out[i] = position.String()
	}
	return out
}

func notNilUUID(value any) error {
	if id, ok := value.(uuid.UUID); ok && id == uuid.Nil {
		return errors.New("is required")
	}
	return nil
}

func isNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

func translateNotFound(err error, sentinel error) error {
	if isNotFound(err) {
		return sentinel
	}
	return err
}
