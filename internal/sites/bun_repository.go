package sites

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const siteNamespace = "site"

// BunSiteRepository implements SiteRepository with optional caching.
type BunSiteRepository struct {
	repo         repository.Repository[*Site]
	cacheService cache.CacheService
	cachePrefix  string
}

// NewBunSiteRepository creates a site repository without caching.
func NewBunSiteRepository(db *bun.DB) *BunSiteRepository {
	return NewBunSiteRepositoryWithCache(db, nil, nil)
}

// NewBunSiteRepositoryWithCache creates a site repository with caching services.
func NewBunSiteRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunSiteRepository {
	base := NewSiteRepository(db)
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
	}
	prefix := ""
	if svc != nil {
		prefix = cachePrefix(siteNamespace)
	}
	return &BunSiteRepository{repo: base, cacheService: svc, cachePrefix: prefix}
}

func (r *BunSiteRepository) Create(ctx context.Context, site *Site) (*Site, error) {
	record, err := r.repo.Create(ctx, site)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunSiteRepository) GetByID(ctx context.Context, id uuid.UUID) (*Site, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "site", id.String())
	}
	return result, nil
}

func (r *BunSiteRepository) GetByDomain(ctx context.Context, domain string) (*Site, error) {
	record, err := r.repo.GetByIdentifier(ctx, domain)
	if err != nil {
		return nil, mapRepositoryError(err, "site", domain)
	}
	return record, nil
}

func (r *BunSiteRepository) List(ctx context.Context) ([]*Site, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.name ASC")
		}),
	)
	return records, err
}

func (r *BunSiteRepository) Update(ctx context.Context, site *Site) (*Site, error) {
	record, err := r.repo.Update(ctx, site)
	if err != nil {
		return nil, mapRepositoryError(err, "site", site.ID.String())
	}
	return record, nil
}

func (r *BunSiteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.repo.Delete(ctx, &Site{ID: id})
}

func (r *BunSiteRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

func cachePrefix(namespace string) string {
	if namespace == "" {
		return ""
	}
	return namespace + cache.KeySeparator
}
