package pagescmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitebuilder/internal/commands"
	"github.com/goliatone/go-sitebuilder/internal/pages"
	"github.com/goliatone/go-sitebuilder/pkg/interfaces"
)

const copyPageMessageType = "sitebuilder.pages.copy"

// CopyPageCommand duplicates a page, optionally with its descendants.
type CopyPageCommand struct {
	PageID          uuid.UUID `json:"page_id"`
	IncludeChildren bool      `json:"include_children"`
	Actor           uuid.UUID `json:"actor,omitempty"`
}

// Type implements command.Message.
func (CopyPageCommand) Type() string { return copyPageMessageType }

// Validate ensures the source page is addressed.
func (m CopyPageCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.PageID, requiredID("pages.copy.page_id_required")),
	)
}

// CopyPageHandler copies pages. The optional callback receives the new page.
type CopyPageHandler struct {
	inner *commands.Handler[CopyPageCommand]
}

// NewCopyPageHandler constructs a handler wired to the provided page service.
func NewCopyPageHandler(service PageService, logger interfaces.Logger, onCopied func(*pages.Page), opts ...commands.HandlerOption[CopyPageCommand]) *CopyPageHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg CopyPageCommand) error {
		copied, err := service.Copy(ctx, pages.CopyPageInput{
			ID:              msg.PageID,
			IncludeChildren: msg.IncludeChildren,
			Actor:           msg.Actor,
		})
		if err != nil {
			return err
		}
		if onCopied != nil {
			onCopied(copied)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[CopyPageCommand]{
		commands.WithLogger[CopyPageCommand](baseLogger),
		commands.WithOperation[CopyPageCommand]("pages.copy"),
		commands.WithMessageFields(func(msg CopyPageCommand) map[string]any {
			return map[string]any{"page_id": msg.PageID, "include_children": msg.IncludeChildren}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[CopyPageCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CopyPageHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[CopyPageCommand].Execute.
func (h *CopyPageHandler) Execute(ctx context.Context, msg CopyPageCommand) error {
	return h.inner.Execute(ctx, msg)
}
