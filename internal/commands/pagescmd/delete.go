package pagescmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitebuilder/internal/commands"
	"github.com/goliatone/go-sitebuilder/internal/pages"
	"github.com/goliatone/go-sitebuilder/pkg/interfaces"
)

const deletePageMessageType = "sitebuilder.pages.delete"

// DeletePageCommand removes a page. Pages with children require Cascade.
type DeletePageCommand struct {
	PageID  uuid.UUID `json:"page_id"`
	Cascade bool      `json:"cascade"`
}

// Type implements command.Message.
func (DeletePageCommand) Type() string { return deletePageMessageType }

// Validate ensures the page is addressed.
func (m DeletePageCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.PageID, requiredID("pages.delete.page_id_required")),
	)
}

// DeletePageHandler deletes pages via the page service.
type DeletePageHandler struct {
	inner *commands.Handler[DeletePageCommand]
}

// NewDeletePageHandler constructs a handler wired to the provided page service.
func NewDeletePageHandler(service PageService, logger interfaces.Logger, opts ...commands.HandlerOption[DeletePageCommand]) *DeletePageHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg DeletePageCommand) error {
		return service.Delete(ctx, pages.DeletePageInput{ID: msg.PageID, Cascade: msg.Cascade})
	}

	handlerOpts := []commands.HandlerOption[DeletePageCommand]{
		commands.WithLogger[DeletePageCommand](baseLogger),
		commands.WithOperation[DeletePageCommand]("pages.delete"),
		commands.WithMessageFields(func(msg DeletePageCommand) map[string]any {
			return map[string]any{"page_id": msg.PageID, "cascade": msg.Cascade}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &DeletePageHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[DeletePageCommand].Execute.
func (h *DeletePageHandler) Execute(ctx context.Context, msg DeletePageCommand) error {
	return h.inner.Execute(ctx, msg)
}
