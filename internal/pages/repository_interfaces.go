package pages

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// PageRepository exposes persistence operations for pages.
type PageRepository interface {
	Create(ctx context.Context, page *Page) (*Page, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Page, error)
	// GetBySlug finds the page with slug directly below parentID. A nil
	// parent addresses root pages.
	GetBySlug(ctx context.Context, siteID uuid.UUID, parentID *uuid.UUID, slug string) (*Page, error)
	// ListBySite returns every page of a site ordered by creation time.
	ListBySite(ctx context.Context, siteID uuid.UUID) ([]*Page, error)
	// ListChildren returns the pages below parentID ordered by creation time.
	ListChildren(ctx context.Context, siteID uuid.UUID, parentID *uuid.UUID) ([]*Page, error)
	Update(ctx context.Context, page *Page) (*Page, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// NotFoundError is returned when a page cannot be located.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

func slugKey(siteID uuid.UUID, parentID *uuid.UUID, slug string) string {
	parent := "root"
	if parentID != nil {
		parent = parentID.String()
	}
	return siteID.String() + "/" + parent + "/" + slug
}
