package menuscmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitebuilder/internal/commands"
	"github.com/goliatone/go-sitebuilder/pkg/interfaces"
)

const reorderMenuItemsMessageType = "sitebuilder.menus.items.reorder"

// ReorderMenuItemsCommand assigns dense positions following Order. Order
// must list every item of the menu exactly once.
type ReorderMenuItemsCommand struct {
	MenuID uuid.UUID   `json:"menu_id"`
	Order  []uuid.UUID `json:"order"`
}

// Type implements command.Message.
func (ReorderMenuItemsCommand) Type() string { return reorderMenuItemsMessageType }

// Validate ensures the menu and the new order are present.
func (m ReorderMenuItemsCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.MenuID, requiredID("menus.reorder.menu_id_required")),
		validation.Field(&m.Order, validation.Required),
	)
}

// ReorderMenuItemsHandler reorders menu items.
type ReorderMenuItemsHandler struct {
	inner *commands.Handler[ReorderMenuItemsCommand]
}

// NewReorderMenuItemsHandler constructs a handler wired to the provided menu service.
func NewReorderMenuItemsHandler(service MenuService, logger interfaces.Logger, opts ...commands.HandlerOption[ReorderMenuItemsCommand]) *ReorderMenuItemsHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ReorderMenuItemsCommand) error {
		_, err := service.ReorderItems(ctx, msg.MenuID, msg.Order)
		return err
	}

	handlerOpts := []commands.HandlerOption[ReorderMenuItemsCommand]{
		commands.WithLogger[ReorderMenuItemsCommand](baseLogger),
		commands.WithOperation[ReorderMenuItemsCommand]("menus.items.reorder"),
		commands.WithMessageFields(func(msg ReorderMenuItemsCommand) map[string]any {
			return map[string]any{"menu_id": msg.MenuID, "items": len(msg.Order)}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ReorderMenuItemsHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ReorderMenuItemsCommand].
func (h *ReorderMenuItemsHandler) Execute(ctx context.Context, msg ReorderMenuItemsCommand) error {
	return h.inner.Execute(ctx, msg)
}
