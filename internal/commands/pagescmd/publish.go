package pagescmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitebuilder/internal/commands"
	"github.com/goliatone/go-sitebuilder/internal/pages"
	"github.com/goliatone/go-sitebuilder/pkg/interfaces"
)

const publishPageMessageType = "sitebuilder.pages.publish"

// PublishPageCommand toggles the public visibility of a page.
type PublishPageCommand struct {
	PageID    uuid.UUID `json:"page_id"`
	Published bool      `json:"published"`
	Actor     uuid.UUID `json:"actor,omitempty"`
}

// Type implements command.Message.
func (PublishPageCommand) Type() string { return publishPageMessageType }

// Validate ensures the page is addressed.
func (m PublishPageCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.PageID, requiredID("pages.publish.page_id_required")),
	)
}

// PublishPageHandler publishes or unpublishes pages via the page service.
type PublishPageHandler struct {
	inner *commands.Handler[PublishPageCommand]
}

// NewPublishPageHandler constructs a handler wired to the provided page service.
func NewPublishPageHandler(service PageService, logger interfaces.Logger, opts ...commands.HandlerOption[PublishPageCommand]) *PublishPageHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg PublishPageCommand) error {
		_, err := service.Publish(ctx, pages.PublishPageInput{
			ID:        msg.PageID,
			Published: msg.Published,
			Actor:     msg.Actor,
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[PublishPageCommand]{
		commands.WithLogger[PublishPageCommand](baseLogger),
		commands.WithOperation[PublishPageCommand]("pages.publish"),
		commands.WithMessageFields(func(msg PublishPageCommand) map[string]any {
			return map[string]any{"page_id": msg.PageID, "published": msg.Published}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[PublishPageCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &PublishPageHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[PublishPageCommand].Execute.
func (h *PublishPageHandler) Execute(ctx context.Context, msg PublishPageCommand) error {
	return h.inner.Execute(ctx, msg)
}
