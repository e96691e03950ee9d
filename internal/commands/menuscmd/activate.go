package menuscmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitebuilder/internal/commands"
	"github.com/goliatone/go-sitebuilder/internal/menus"
	"github.com/goliatone/go-sitebuilder/pkg/interfaces"
)

const activateMenuMessageType = "sitebuilder.menus.activate"

// MenuService is the subset of menus.Service used by the menu commands.
type MenuService interface {
	Activate(ctx context.Context, id uuid.UUID, actor uuid.UUID) (*menus.Menu, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*menus.Menu, error)
	ReorderItems(ctx context.Context, menuID uuid.UUID, order []uuid.UUID) ([]*menus.MenuItem, error)
}

// ActivateMenuCommand makes a menu the site default for its position, or
// clears the flag when Active is false.
type ActivateMenuCommand struct {
	MenuID uuid.UUID `json:"menu_id"`
	Active bool      `json:"active"`
	Actor  uuid.UUID `json:"actor,omitempty"`
}

// Type implements command.Message.
func (ActivateMenuCommand) Type() string { return activateMenuMessageType }

// Validate ensures the menu is addressed.
func (m ActivateMenuCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.MenuID, requiredID("menus.activate.menu_id_required")),
	)
}

// ActivateMenuHandler toggles menu activation.
type ActivateMenuHandler struct {
	inner *commands.Handler[ActivateMenuCommand]
}

// NewActivateMenuHandler constructs a handler wired to the provided menu service.
func NewActivateMenuHandler(service MenuService, logger interfaces.Logger, opts ...commands.HandlerOption[ActivateMenuCommand]) *ActivateMenuHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ActivateMenuCommand) error {
		if msg.Active {
			_, err := service.Activate(ctx, msg.MenuID, msg.Actor)
			return err
		}
		_, err := service.Deactivate(ctx, msg.MenuID)
		return err
	}

	handlerOpts := []commands.HandlerOption[ActivateMenuCommand]{
		commands.WithLogger[ActivateMenuCommand](baseLogger),
		commands.WithOperation[ActivateMenuCommand]("menus.activate"),
		commands.WithMessageFields(func(msg ActivateMenuCommand) map[string]any {
			return map[string]any{"menu_id": msg.MenuID, "active": msg.Active}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ActivateMenuHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ActivateMenuCommand].
func (h *ActivateMenuHandler) Execute(ctx context.Context, msg ActivateMenuCommand) error {
	return h.inner.Execute(ctx, msg)
}

func requiredID(code string) validation.Rule {
	return validation.By(func(value any) error {
		if id, ok := value.(uuid.UUID); ok && id != uuid.Nil {
			return nil
		}
		return validation.NewError(code, "menu_id is required")
	})
}
