package sites

import (
	"context"
	"errors"
	"net"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitebuilder/internal/logging"
	"github.com/goliatone/go-sitebuilder/pkg/interfaces"
)

var (
	ErrSiteNotFound     = errors.New("sites: site not found")
	ErrSiteDomainExists = errors.New("sites: domain already assigned to another site")
)

var domainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?(\.[a-z0-9]([a-z0-9-]*[a-z0-9])?)*$`)

// Service manages sites.
type Service interface {
	Create(ctx context.Context, input CreateSiteInput) (*Site, error)
	Get(ctx context.Context, id uuid.UUID) (*Site, error)
	GetByDomain(ctx context.Context, host string) (*Site, error)
	List(ctx context.Context) ([]*Site, error)
	Update(ctx context.Context, input UpdateSiteInput) (*Site, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateSiteInput captures the fields required to register a site.
type CreateSiteInput struct {
	Name   string
	Domain string
}

// Validate checks the input after normalisation.
func (in CreateSiteInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.Domain, validation.Length(0, 255), validation.Match(domainPattern)),
	)
}

// UpdateSiteInput updates the provided fields only.
type UpdateSiteInput struct {
	ID     uuid.UUID
	Name   *string
	Domain *string
}

// ServiceOption configures the site service.
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
	repo   SiteRepository
	now    func() time.Time
	newID  func() uuid.UUID
	logger interfaces.Logger
}

// NewService constructs a site service.
func NewService(repo SiteRepository, opts ...ServiceOption) Service {
	s := &service{
		repo:   repo,
		now:    time.Now,
		newID:  uuid.New,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NormalizeDomain lowercases host and strips any port.
func NormalizeDomain(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" {
		return ""
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	} else if i := strings.LastIndexByte(host, ':'); i >= 0 && !strings.Contains(host[:i], ":") {
		host = host[:i]
	}
	return strings.TrimSuffix(strings.Trim(host, "[]"), ".")
}

// IsAdminHost reports whether host matches one of the admin domains.
func IsAdminHost(host string, adminDomains []string) bool {
	normalized := NormalizeDomain(host)
	if normalized == "" {
		return false
	}
	for _, domain := range adminDomains {
		if NormalizeDomain(domain) == normalized {
			return true
		}
	}
	return false
}

func (s *service) Create(ctx context.Context, input CreateSiteInput) (*Site, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Domain = NormalizeDomain(input.Domain)
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureDomainFree(ctx, input.Domain, uuid.Nil); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	site := &Site{
		ID:        s.newID(),
		Name:      input.Name,
		Domain:    input.Domain,
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := s.repo.Create(ctx, site)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.logger.Info("sites.created", "site_id", created.ID, "domain", created.Domain)
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Site, error) {
	site, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return site, nil
}

// GetByDomain resolves a request host to its site. Matching ignores case and
// port.
func (s *service) GetByDomain(ctx context.Context, host string) (*Site, error) {
	domain := NormalizeDomain(host)
	if domain == "" {
		return nil, ErrSiteNotFound
	}
	site, err := s.repo.GetByDomain(ctx, domain)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return site, nil
}

func (s *service) List(ctx context.Context) ([]*Site, error) {
	return s.repo.List(ctx)
}

func (s *service) Update(ctx context.Context, input UpdateSiteInput) (*Site, error) {
	site, err := s.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	candidate := CreateSiteInput{Name: site.Name, Domain: site.Domain}
	if input.Name != nil {
		candidate.Name = strings.TrimSpace(*input.Name)
	}
	if input.Domain != nil {
		candidate.Domain = NormalizeDomain(*input.Domain)
	}
	if err := candidate.Validate(); err != nil {
		return nil, err
	}
	if candidate.Domain != site.Domain {
		if err := s.ensureDomainFree(ctx, candidate.Domain, site.ID); err != nil {
			return nil, err
		}
	}
	site.Name = candidate.Name
	site.Domain = candidate.Domain
	site.UpdatedAt = s.now().UTC()
	updated, err := s.repo.Update(ctx, site)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return translateNotFound(err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *service) invalidate(ctx context.Context) {
	invalidator, ok := s.repo.(cacheInvalidator)
	if !ok {
		return
	}
	if err := invalidator.InvalidateCache(ctx); err != nil {
		s.logger.Warn("sites.cache.invalidate_failed", "error", err)
	}
}

func (s *service) ensureDomainFree(ctx context.Context, domain string, owner uuid.UUID) error {
	if domain == "" {
		return nil
	}
	existing, err := s.repo.GetByDomain(ctx, domain)
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	if existing.ID != owner {
		return ErrSiteDomainExists
	}
	return nil
}

func translateNotFound(err error) error {
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return ErrSiteNotFound
	}
	return err
}
