package pages

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

const pageNamespace = "page"

// BunPageRepository implements PageRepository with optional caching.
type BunPageRepository struct {
	repo         repository.Repository[*Page]
	cacheService cache.CacheService
	cachePrefix  string
}

// NewBunPageRepository creates a page repository without caching.
func NewBunPageRepository(db *bun.DB) *BunPageRepository {
	return NewBunPageRepositoryWithCache(db, nil, nil)
}

// NewBunPageRepositoryWithCache creates a page repository with caching services.
func NewBunPageRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunPageRepository {
	base := NewPageRepository(db)
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
	}
	prefix := ""
	if svc != nil {
		prefix = cachePrefix(pageNamespace)
	}
	return &BunPageRepository{repo: base, cacheService: svc, cachePrefix: prefix}
}

func (r *BunPageRepository) Create(ctx context.Context, page *Page) (*Page, error) {
	record, err := r.repo.Create(ctx, page)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunPageRepository) GetByID(ctx context.Context, id uuid.UUID) (*Page, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "page", id.String())
	}
	return record, nil
}

func (r *BunPageRepository) GetBySlug(ctx context.Context, siteID uuid.UUID, parentID *uuid.UUID, slug string) (*Page, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return siblingScope(q, siteID, parentID).Where("?TableAlias.slug = ?", slug)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "page", Key: slugKey(siteID, parentID, slug)}
	}
	return records[0], nil
}

func (r *BunPageRepository) ListBySite(ctx context.Context, siteID uuid.UUID) ([]*Page, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return creationOrder(q.Where("?TableAlias.site_id = ?", siteID))
		}),
	)
	return records, err
}

func (r *BunPageRepository) ListChildren(ctx context.Context, siteID uuid.UUID, parentID *uuid.UUID) ([]*Page, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return creationOrder(siblingScope(q, siteID, parentID))
		}),
	)
	return records, err
}

func (r *BunPageRepository) Update(ctx context.Context, page *Page) (*Page, error) {
	record, err := r.repo.Update(ctx, page)
	if err != nil {
		return nil, mapRepositoryError(err, "page", page.ID.String())
	}
	return record, nil
}

func (r *BunPageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.repo.Delete(ctx, &Page{ID: id})
}

func (r *BunPageRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

func siblingScope(q *bun.SelectQuery, siteID uuid.UUID, parentID *uuid.UUID) *bun.SelectQuery {
	q = q.Where("?TableAlias.site_id = ?", siteID)
	if parentID == nil {
		return q.Where("?TableAlias.parent_id IS NULL")
	}
	return q.Where("?TableAlias.parent_id = ?", *parentID)
}

func creationOrder(q *bun.SelectQuery) *bun.SelectQuery {
	return q.OrderExpr("?TableAlias.created_at ASC").OrderExpr("?TableAlias.id ASC")
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
