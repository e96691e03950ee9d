package footers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// FooterRepository exposes persistence operations for footer records.
type FooterRepository interface {
	Create(ctx context.Context, footer *Footer) (*Footer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Footer, error)
	// ListBySite returns the footers of a site ordered by name.
	ListBySite(ctx context.Context, siteID uuid.UUID) ([]*Footer, error)
	Update(ctx context.Context, footer *Footer) (*Footer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// NotFoundError is returned when a footer cannot be located.
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
