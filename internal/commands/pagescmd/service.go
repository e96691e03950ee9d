package pagescmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitebuilder/internal/pages"
)

// PageService is the subset of pages.Service used by the page commands.
type PageService interface {
	Publish(ctx context.Context, input pages.PublishPageInput) (*pages.Page, error)
	SetHomepage(ctx context.Context, id uuid.UUID, actor uuid.UUID) (*pages.Page, error)
	Copy(ctx context.Context, input pages.CopyPageInput) (*pages.Page, error)
	Delete(ctx context.Context, input pages.DeletePageInput) error
}

func requiredID(code string) validation.Rule {
	return validation.By(func(value any) error {
		if id, ok := value.(uuid.UUID); ok && id != uuid.Nil {
			return nil
		}
		return validation.NewError(code, "page_id is required")
	})
}
