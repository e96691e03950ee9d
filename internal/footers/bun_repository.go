package footers

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

const footerNamespace = "footer"

// BunFooterRepository implements FooterRepository with optional caching.
type BunFooterRepository struct {
	repo         repository.Repository[*Footer]
	cacheService cache.CacheService
	cachePrefix  string
}

// NewBunFooterRepository creates a footer repository without caching.
func NewBunFooterRepository(db *bun.DB) *BunFooterRepository {
	return NewBunFooterRepositoryWithCache(db, nil, nil)
}

// NewBunFooterRepositoryWithCache creates a footer repository with caching services.
func NewBunFooterRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunFooterRepository {
	base := NewFooterRepository(db)
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
	}
	prefix := ""
	if svc != nil {
		prefix = footerNamespace + cache.KeySeparator
	}
	return &BunFooterRepository{repo: base, cacheService: svc, cachePrefix: prefix}
}

func (r *BunFooterRepository) Create(ctx context.Context, footer *Footer) (*Footer, error) {
	return r.repo.Create(ctx, footer)
}

func (r *BunFooterRepository) GetByID(ctx context.Context, id uuid.UUID) (*Footer, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, id.String())
	}
	return record, nil
}

func (r *BunFooterRepository) ListBySite(ctx context.Context, siteID uuid.UUID) ([]*Footer, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.site_id = ?", siteID).OrderExpr("?TableAlias.name ASC")
		}),
	)
	return records, err
}

func (r *BunFooterRepository) Update(ctx context.Context, footer *Footer) (*Footer, error) {
	record, err := r.repo.Update(ctx, footer)
	if err != nil {
		return nil, mapRepositoryError(err, footer.ID.String())
	}
	return record, nil
}

func (r *BunFooterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.repo.Delete(ctx, &Footer{ID: id})
}

func (r *BunFooterRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: "footer", Key: key}
	}
	return fmt.Errorf("footer repository error: %w", err)
}
