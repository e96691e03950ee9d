package pages

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitebuilder/internal/logging"
	"github.com/goliatone/go-sitebuilder/internal/sanitize"
	"github.com/goliatone/go-sitebuilder/internal/widgets"
	"github.com/goliatone/go-sitebuilder/pkg/activity"
	"github.com/goliatone/go-sitebuilder/pkg/interfaces"
)

var (
	ErrPageNotFound       = errors.New("pages: page not found")
	ErrPageSlugInvalid    = errors.New("pages: slug can only contain lowercase letters, numbers, and hyphens")
	ErrPageSlugExists     = errors.New("pages: slug already used by a sibling page")
	ErrPageParentInvalid  = errors.New("pages: parent page belongs to another site")
	ErrPageHierarchyCycle = errors.New("pages: page cannot be its own ancestor")
	ErrPageHasChildren    = errors.New("pages: page has children; enable cascade to delete")
	ErrNoHomepage         = errors.New("pages: site has no published homepage")
)

// MaxTitleLength bounds page titles.
const MaxTitleLength = 200

// SlugPattern is the accepted page slug shape.
var SlugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Service manages pages and their hierarchy.
type Service interface {
	Create(ctx context.Context, input CreatePageInput) (*Page, error)
	Get(ctx context.Context, id uuid.UUID) (*Page, error)
	List(ctx context.Context, siteID uuid.UUID) ([]*Page, error)
	Children(ctx context.Context, siteID uuid.UUID, parentID *uuid.UUID) ([]*Page, error)
	Update(ctx context.Context, input UpdatePageInput) (*Page, error)
	Move(ctx context.Context, input MovePageInput) (*Page, error)
	SetOverrides(ctx context.Context, id uuid.UUID, overrides Overrides) (*Page, error)
	Publish(ctx context.Context, input PublishPageInput) (*Page, error)
	SetHomepage(ctx context.Context, id uuid.UUID, actor uuid.UUID) (*Page, error)
	SaveContent(ctx context.Context, input SaveContentInput) (*SaveContentResult, error)
	Copy(ctx context.Context, input CopyPageInput) (*Page, error)
	Delete(ctx context.Context, input DeletePageInput) error

	Ancestors(ctx context.Context, page *Page) ([]*Page, error)
	FullPath(ctx context.Context, page *Page) (string, error)
	ResolvePublic(ctx context.Context, siteID uuid.UUID, path string) (*Page, error)
	Homepage(ctx context.Context, siteID uuid.UUID) (*Page, error)
}

// CreatePageInput captures the fields required to create a page. A blank
// slug is derived from the title. A nil ID is generated.
type CreatePageInput struct {
	ID         uuid.UUID
	SiteID     uuid.UUID
	ParentID   *uuid.UUID
	Title      string
	Slug       string
	Published  bool
	IsHomepage bool
	Overrides  Overrides
	Actor      uuid.UUID
}

// Validate checks title and slug after normalisation.
func (in CreatePageInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.SiteID, validation.By(notNilUUID)),
		validation.Field(&in.Title, validation.Required, validation.RuneLength(1, MaxTitleLength)),
		validation.Field(&in.Slug, validation.Required, validation.Length(1, MaxTitleLength)),
	)
}

// UpdatePageInput updates title and slug when set.
type UpdatePageInput struct {
	ID    uuid.UUID
	Title *string
	Slug  *string
	Actor uuid.UUID
}

// MovePageInput reparents a page. A nil ParentID moves it to the root.
type MovePageInput struct {
	ID       uuid.UUID
	ParentID *uuid.UUID
	Actor    uuid.UUID
}

// PublishPageInput toggles public visibility.
type PublishPageInput struct {
	ID        uuid.UUID
	Published bool
	Actor     uuid.UUID
}

// DeletePageInput removes a page. Cascade removes descendants as well.
type DeletePageInput struct {
	ID      uuid.UUID
	Cascade bool
}

// ServiceOption configures the page service.
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
	repo     PageRepository
	codec    *widgets.Codec
	activity *activity.Emitter
	logger   interfaces.Logger
	now      func() time.Time
	newID    func() uuid.UUID
}

// NewService constructs a page service.
func NewService(repo PageRepository, opts ...ServiceOption) Service {
	s := &service{
		repo:   repo,
		logger: logging.NoOp(),
		now:    time.Now,
		newID:  uuid.New,
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

func (s *service) Create(ctx context.Context, input CreatePageInput) (*Page, error) {
	input.Title = strings.TrimSpace(input.Title)
	slugValue, err := resolveSlug(input.Slug, input.Title)
	if err != nil {
		return nil, err
	}
	input.Slug = slugValue
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if input.ParentID != nil {
		if err := s.ensureParent(ctx, input.SiteID, *input.ParentID); err != nil {
			return nil, err
		}
	}
	if err := s.ensureSlugFree(ctx, input.SiteID, input.ParentID, input.Slug, uuid.Nil); err != nil {
		return nil, err
	}

	id := input.ID
	if id == uuid.Nil {
		id = s.newID()
	}
	now := s.now().UTC()
	page := &Page{
		ID:         id,
		SiteID:     input.SiteID,
		ParentID:   cloneID(input.ParentID),
		Title:      input.Title,
		Slug:       input.Slug,
		Content:    "[]",
		Styles:     "{}",
		Published:  input.Published,
		IsHomepage: input.IsHomepage,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	page.applyOverrides(input.Overrides)

	if page.IsHomepage {
		if err := s.clearHomepage(ctx, page.SiteID, page.ID); err != nil {
			return nil, err
		}
	}
	created, err := s.repo.Create(ctx, page)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.logger.Info("pages.created", "page_id", created.ID, "site_id", created.SiteID, "slug", created.Slug)
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Page, error) {
	page, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return page, nil
}

func (s *service) List(ctx context.Context, siteID uuid.UUID) ([]*Page, error) {
	return s.repo.ListBySite(ctx, siteID)
}

func (s *service) Children(ctx context.Context, siteID uuid.UUID, parentID *uuid.UUID) ([]*Page, error) {
	return s.repo.ListChildren(ctx, siteID, parentID)
}

func (s *service) Update(ctx context.Context, input UpdatePageInput) (*Page, error) {
	page, err := s.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	candidate := CreatePageInput{SiteID: page.SiteID, Title: page.Title, Slug: page.Slug}
	if input.Title != nil {
		candidate.Title = strings.TrimSpace(*input.Title)
	}
	if input.Slug != nil {
		slugValue, err := resolveSlug(*input.Slug, candidate.Title)
		if err != nil {
			return nil, err
		}
		candidate.Slug = slugValue
	}
	if err := candidate.Validate(); err != nil {
		return nil, err
	}
	if candidate.Slug != page.Slug {
		if err := s.ensureSlugFree(ctx, page.SiteID, page.ParentID, candidate.Slug, page.ID); err != nil {
			return nil, err
		}
	}
	page.Title = candidate.Title
	page.Slug = candidate.Slug
	return s.save(ctx, page)
}

func (s *service) SetOverrides(ctx context.Context, id uuid.UUID, overrides Overrides) (*Page, error) {
	page, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	page.applyOverrides(overrides)
	return s.save(ctx, page)
}

func (s *service) Publish(ctx context.Context, input PublishPageInput) (*Page, error) {
	page, err := s.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if page.Published == input.Published {
		return page, nil
	}
	page.Published = input.Published
	saved, err := s.save(ctx, page)
	if err != nil {
		return nil, err
	}
	verb := activity.VerbPublish
	if !input.Published {
		verb = activity.VerbUnpublish
	}
	s.emit(ctx, input.Actor, verb, saved, nil)
	return saved, nil
}

// SetHomepage marks id as the site homepage and clears the flag on every
// other page of the site.
func (s *service) SetHomepage(ctx context.Context, id uuid.UUID, actor uuid.UUID) (*Page, error) {
	page, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.clearHomepage(ctx, page.SiteID, page.ID); err != nil {
		return nil, err
	}
	if page.IsHomepage {
		return page, nil
	}
	page.IsHomepage = true
	return s.save(ctx, page)
}

func (s *service) Delete(ctx context.Context, input DeletePageInput) error {
	page, err := s.Get(ctx, input.ID)
	if err != nil {
		return err
	}
	children, err := s.repo.ListChildren(ctx, page.SiteID, &page.ID)
	if err != nil {
		return err
	}
	if len(children) > 0 && !input.Cascade {
		return ErrPageHasChildren
	}
	for _, child := range children {
		if err := s.Delete(ctx, DeletePageInput{ID: child.ID, Cascade: true}); err != nil {
			return err
		}
	}
	if err := s.repo.Delete(ctx, page.ID); err != nil {
		return translateNotFound(err)
	}
	s.invalidate(ctx)
	s.logger.Info("pages.deleted", "page_id", page.ID, "site_id", page.SiteID)
	return nil
}

func (s *service) save(ctx context.Context, page *Page) (*Page, error) {
	page.UpdatedAt = s.now().UTC()
	updated, err := s.repo.Update(ctx, page)
	if err != nil {
		return nil, translateNotFound(err)
	}
	s.invalidate(ctx)
	return updated, nil
}

func (s *service) clearHomepage(ctx context.Context, siteID, keep uuid.UUID) error {
	records, err := s.repo.ListBySite(ctx, siteID)
	if err != nil {
		return err
	}
	for _, record := range records {
		if record.ID == keep || !record.IsHomepage {
			continue
		}
		record.IsHomepage = false
		record.UpdatedAt = s.now().UTC()
		if _, err := s.repo.Update(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) ensureParent(ctx context.Context, siteID, parentID uuid.UUID) error {
	parent, err := s.Get(ctx, parentID)
	if err != nil {
		return err
	}
	if parent.SiteID != siteID {
		return ErrPageParentInvalid
	}
	return nil
}

func (s *service) ensureSlugFree(ctx context.Context, siteID uuid.UUID, parentID *uuid.UUID, slugValue string, owner uuid.UUID) error {
	existing, err := s.repo.GetBySlug(ctx, siteID, parentID, slugValue)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != owner {
		return ErrPageSlugExists
	}
	return nil
}

func (s *service) emit(ctx context.Context, actor uuid.UUID, verb string, page *Page, meta map[string]any) {
	if !s.activity.Enabled() || page == nil {
		return
	}
	if meta == nil {
		meta = map[string]any{}
	}
	meta["site_id"] = page.SiteID.String()
	meta["slug"] = page.Slug
	event := activity.Event{
		Verb:       verb,
		ActorID:    actor.String(),
		ObjectType: activity.ObjectPage,
		ObjectID:   page.ID.String(),
		TenantID:   page.SiteID.String(),
		Metadata:   meta,
	}
	if err := s.activity.Emit(ctx, event); err != nil {
		s.logger.Warn("pages.activity.emit_failed", "page_id", page.ID, "verb", verb, "error", err)
	}
}

func (s *service) invalidate(ctx context.Context) {
	invalidator, ok := s.repo.(cacheInvalidator)
	if !ok {
		return
	}
	if err := invalidator.InvalidateCache(ctx); err != nil {
		s.logger.Warn("pages.cache.invalidate_failed", "error", err)
	}
}

// resolveSlug validates an explicit slug or derives one from title.
func resolveSlug(explicit, title string) (string, error) {
	candidate := strings.ToLower(strings.TrimSpace(explicit))
	if candidate != "" {
		if !SlugPattern.MatchString(candidate) {
			return "", ErrPageSlugInvalid
		}
		return candidate, nil
	}
	if strings.TrimSpace(title) == "" {
		return "", nil
	}
	derived, err := slug.Normalize(title)
	if err != nil || !SlugPattern.MatchString(derived) {
		return "page", nil
	}
	return derived, nil
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

func translateNotFound(err error) error {
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return ErrPageNotFound
	}
	return err
}
