package pagescmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitebuilder/internal/commands"
	"github.com/goliatone/go-sitebuilder/pkg/interfaces"
)

const setHomepageMessageType = "sitebuilder.pages.homepage"

// SetHomepageCommand marks a page as the landing page of its site.
type SetHomepageCommand struct {
	PageID uuid.UUID `json:"page_id"`
	Actor  uuid.UUID `json:"actor,omitempty"`
}

// Type implements command.Message.
func (SetHomepageCommand) Type() string { return setHomepageMessageType }

// Validate ensures the page is addressed.
func (m SetHomepageCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.PageID, requiredID("pages.homepage.page_id_required")),
	)
}

// SetHomepageHandler moves the homepage flag to the addressed page.
type SetHomepageHandler struct {
	inner *commands.Handler[SetHomepageCommand]
}

// NewSetHomepageHandler constructs a handler wired to the provided page service.
func NewSetHomepageHandler(service PageService, logger interfaces.Logger, opts ...commands.HandlerOption[SetHomepageCommand]) *SetHomepageHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg SetHomepageCommand) error {
		_, err := service.SetHomepage(ctx, msg.PageID, msg.Actor)
		return err
	}

	handlerOpts := []commands.HandlerOption[SetHomepageCommand]{
		commands.WithLogger[SetHomepageCommand](baseLogger),
		commands.WithOperation[SetHomepageCommand]("pages.homepage"),
		commands.WithMessageFields(func(msg SetHomepageCommand) map[string]any {
			return map[string]any{"page_id": msg.PageID}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SetHomepageHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[SetHomepageCommand].Execute.
func (h *SetHomepageHandler) Execute(ctx context.Context, msg SetHomepageCommand) error {
	return h.inner.Execute(ctx, msg)
}
