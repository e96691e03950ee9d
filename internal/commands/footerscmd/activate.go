package footerscmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitebuilder/internal/commands"
	"github.com/goliatone/go-sitebuilder/internal/footers"
	"github.com/goliatone/go-sitebuilder/pkg/interfaces"
)

const activateFooterMessageType = "sitebuilder.footers.activate"

// FooterService is the subset of footers.Service used by the footer commands.
type FooterService interface {
	Activate(ctx context.Context, id uuid.UUID, actor uuid.UUID) (*footers.Footer, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*footers.Footer, error)
}

// ActivateFooterCommand makes a footer the site default, or clears the flag
// when Active is false.
type ActivateFooterCommand struct {
	FooterID uuid.UUID `json:"footer_id"`
	Active   bool      `json:"active"`
	Actor    uuid.UUID `json:"actor,omitempty"`
}

// Type implements command.Message.
func (ActivateFooterCommand) Type() string { return activateFooterMessageType }

// Validate ensures the footer is addressed.
func (m ActivateFooterCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.FooterID, validation.By(func(any) error {
			if m.FooterID == uuid.Nil {
				return validation.NewError("footers.activate.footer_id_required", "footer_id is required")
			}
			return nil
		})),
	)
}

// ActivateFooterHandler toggles footer activation.
type ActivateFooterHandler struct {
	inner *commands.Handler[ActivateFooterCommand]
}

// NewActivateFooterHandler constructs a handler wired to the provided footer service.
func NewActivateFooterHandler(service FooterService, logger interfaces.Logger, opts ...commands.HandlerOption[ActivateFooterCommand]) *ActivateFooterHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ActivateFooterCommand) error {
		if msg.Active {
			_, err := service.Activate(ctx, msg.FooterID, msg.Actor)
			return err
		}
		_, err := service.Deactivate(ctx, msg.FooterID)
		return err
	}

	handlerOpts := []commands.HandlerOption[ActivateFooterCommand]{
		commands.WithLogger[ActivateFooterCommand](baseLogger),
		commands.WithOperation[ActivateFooterCommand]("footers.activate"),
		commands.WithMessageFields(func(msg ActivateFooterCommand) map[string]any {
			return map[string]any{"footer_id": msg.FooterID, "active": msg.Active}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ActivateFooterHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ActivateFooterCommand].
func (h *ActivateFooterHandler) Execute(ctx context.Context, msg ActivateFooterCommand) error {
	return h.inner.Execute(ctx, msg)
}
