package sites

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// SiteRepository exposes persistence operations for sites.
type SiteRepository interface {
	Create(ctx context.Context, site *Site) (*Site, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Site, error)
	GetByDomain(ctx context.Context, domain string) (*Site, error)
	List(ctx context.Context) ([]*Site, error)
	Update(ctx context.Context, site *Site) (*Site, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// NotFoundError is returned when a site cannot be located.
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
