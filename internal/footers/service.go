package footers

import (
	"context"
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitebuilder/internal/logging"
	"github.com/goliatone/go-sitebuilder/internal/sanitize"
	"github.com/goliatone/go-sitebuilder/internal/widgets"
	"github.com/goliatone/go-sitebuilder/pkg/activity"
	"github.com/goliatone/go-sitebuilder/pkg/interfaces"
)

var (
	ErrFooterNotFound = errors.New("footers: footer not found")
	ErrNoActiveFooter = errors.New("footers: site has no active footer")
)

// MaxNameLength bounds footer names.
const MaxNameLength = 100

// Service manages site footers.
type Service interface {
	Create(ctx context.Context, input CreateFooterInput) (*Footer, error)
	Get(ctx context.Context, id uuid.UUID) (*Footer, error)
	List(ctx context.Context, siteID uuid.UUID) ([]*Footer, error)
	Rename(ctx context.Context, id uuid.UUID, name string) (*Footer, error)
	Activate(ctx context.Context, id uuid.UUID, actor uuid.UUID) (*Footer, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*Footer, error)
	Active(ctx context.Context, siteID uuid.UUID) (*Footer, error)
	SaveContent(ctx context.Context, input SaveContentInput) (*SaveContentResult, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateFooterInput captures the fields required to create a footer.
type CreateFooterInput struct {
	SiteID   uuid.UUID
	Name     string
	IsActive bool
	Actor    uuid.UUID
}

func (in CreateFooterInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.SiteID, validation.By(func(value any) error {
			if id, ok := value.(uuid.UUID); ok && id == uuid.Nil {
				return errors.New("is required")
			}
			return nil
		})),
		validation.Field(&in.Name, validation.Required, validation.RuneLength(1, MaxNameLength)),
	)
}

// SaveContentInput replaces the widget tree of a footer. Nil Styles keeps
// the stored style blob.
type SaveContentInput struct {
	FooterID uuid.UUID
	Content  []byte
	Styles   []byte
	Strict   *bool
	Actor    uuid.UUID
}

// SaveContentResult reports the stored footer and tolerated attribute issues.
type SaveContentResult struct {
	Footer *Footer
	Issues widgets.ValidationErrors
}

// ServiceOption configures the footer service.
type ServiceOption func(*service)

func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

func WithIDGenerator(generator func() uuid.UUID) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.newID = generator
		}
	}
}

func WithCodec(codec *widgets.Codec) ServiceOption {
	return func(s *service) {
		if codec != nil {
			s.codec = codec
		}
	}
}

func WithActivityEmitter(emitter *activity.Emitter) ServiceOption {
	return func(s *service) {
		s.activity = emitter
	}
}

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
	repo     FooterRepository
	codec    *widgets.Codec
	activity *activity.Emitter
	logger   interfaces.Logger
	now      func() time.Time
	newID    func() uuid.UUID
}

// NewService constructs a footer service.
func NewService(repo FooterRepository, opts ...ServiceOption) Service {
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

func (s *service) Create(ctx context.Context, input CreateFooterInput) (*Footer, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := input.Validate(); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	footer := &Footer{
		ID:        s.newID(),
		SiteID:    input.SiteID,
		Name:      input.Name,
		Content:   "[]",
		Styles:    "{}",
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := s.repo.Create(ctx, footer)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.logger.Info("footers.created", "footer_id", created.ID, "site_id", created.SiteID)
	if input.IsActive {
		return s.Activate(ctx, created.ID, input.Actor)
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Footer, error) {
	footer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return footer, nil
}

func (s *service) List(ctx context.Context, siteID uuid.UUID) ([]*Footer, error) {
	return s.repo.ListBySite(ctx, siteID)
}

func (s *service) Rename(ctx context.Context, id uuid.UUID, name string) (*Footer, error) {
	footer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	candidate := CreateFooterInput{SiteID: footer.SiteID, Name: strings.TrimSpace(name)}
	if err := candidate.Validate(); err != nil {
		return nil, err
	}
	footer.Name = candidate.Name
	return s.save(ctx, footer)
}

// Activate flags id as the site footer and clears the flag on the others.
func (s *service) Activate(ctx context.Context, id uuid.UUID, actor uuid.UUID) (*Footer, error) {
	footer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	records, err := s.repo.ListBySite(ctx, footer.SiteID)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		if record.ID == footer.ID || !record.IsActive {
			continue
		}
		record.IsActive = false
		record.UpdatedAt = s.now().UTC()
		if _, err := s.repo.Update(ctx, record); err != nil {
			return nil, err
		}
	}
	if footer.IsActive {
		s.invalidate(ctx)
		return footer, nil
	}
	footer.IsActive = true
	saved, err := s.save(ctx, footer)
	if err != nil {
		return nil, err
	}
	s.logger.Info("footers.activated", "footer_id", saved.ID, "site_id", saved.SiteID)
	s.emit(ctx, actor, activity.VerbActivate, saved, nil)
	return saved, nil
}

func (s *service) Deactivate(ctx context.Context, id uuid.UUID) (*Footer, error) {
	footer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !footer.IsActive {
		return footer, nil
	}
	footer.IsActive = false
	return s.save(ctx, footer)
}

func (s *service) Active(ctx context.Context, siteID uuid.UUID) (*Footer, error) {
	records, err := s.repo.ListBySite(ctx, siteID)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		if record.IsActive {
			return record, nil
		}
	}
	return nil, ErrNoActiveFooter
}

// SaveContent decodes, validates and stores a full replacement document.
func (s *service) SaveContent(ctx context.Context, input SaveContentInput) (*SaveContentResult, error) {
	footer, err := s.Get(ctx, input.FooterID)
	if err != nil {
		return nil, err
	}
	codec := s.codec
	if input.Strict != nil {
		codec = codec.AsStrict(*input.Strict)
	}
	styles := input.Styles
	if styles == nil {
		styles = []byte(footer.Styles)
		if _, err := widgets.DecodeStyles(styles); err != nil {
			s.logger.Warn("footers.styles.reset", "footer_id", footer.ID, "error", err)
			styles = []byte("{}")
		}
	}
	prepared, err := codec.PrepareContainer(input.Content, styles)
	if err != nil {
		s.logger.Warn("footers.content.rejected", "footer_id", footer.ID, "error", err)
		return nil, err
	}
	footer.Content = string(prepared.Content)
	footer.Styles = string(prepared.Styles)
	saved, err := s.save(ctx, footer)
	if err != nil {
		return nil, err
	}
	s.logger.Info("footers.content.saved", "footer_id", saved.ID, "widgets", len(prepared.Result.Nodes))
	s.emit(ctx, input.Actor, activity.VerbSaveContent, saved, map[string]any{
		"widgets": len(prepared.Result.Nodes),
	})
	return &SaveContentResult{Footer: saved, Issues: prepared.Result.Issues}, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return translateNotFound(err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *service) save(ctx context.Context, footer *Footer) (*Footer, error) {
	footer.UpdatedAt = s.now().UTC()
	updated, err := s.repo.Update(ctx, footer)
	if err != nil {
		return nil, translateNotFound(err)
	}
	s.invalidate(ctx)
	return updated, nil
}

func (s *service) emit(ctx context.Context, actor uuid.UUID, verb string, footer *Footer, meta map[string]any) {
	if !s.activity.Enabled() {
		return
	}
	if meta == nil {
		meta = map[string]any{}
	}
	meta["site_id"] = footer.SiteID.String()
	event := activity.Event{
		Verb:       verb,
		ActorID:    actor.String(),
		ObjectType: activity.ObjectFooter,
		ObjectID:   footer.ID.String(),
		TenantID:   footer.SiteID.String(),
		Metadata:   meta,
	}
	if err := s.activity.Emit(ctx, event); err != nil {
		s.logger.Warn("footers.activity.emit_failed", "footer_id", footer.ID, "error", err)
	}
}

func (s *service) invalidate(ctx context.Context) {
	invalidator, ok := s.repo.(cacheInvalidator)
	if !ok {
		return
	}
	if err := invalidator.InvalidateCache(ctx); err != nil {
		s.logger.Warn("footers.cache.invalidate_failed", "error", err)
	}
}

func translateNotFound(err error) error {
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return ErrFooterNotFound
	}
	return err
}
