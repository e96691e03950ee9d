package menuscmd

import (
	"context"
	"errors"

	"github.com/goliatone/go-sitebuilder/internal/commands"
	"github.com/goliatone/go-sitebuilder/internal/logging"
	"github.com/goliatone/go-sitebuilder/pkg/interfaces"
)

const invalidateMenuCacheMessageType = "sitebuilder.menus.cache.invalidate"

// CacheInvalidator is implemented by cache-wrapped repositories.
type CacheInvalidator interface {
	InvalidateCache(ctx context.Context) error
}

// InvalidateMenuCacheCommand clears cached menu and menu item lookups.
type InvalidateMenuCacheCommand struct{}

// Type implements command.Message.
func (InvalidateMenuCacheCommand) Type() string { return invalidateMenuCacheMessageType }

// Validate satisfies command.Message.
func (InvalidateMenuCacheCommand) Validate() error { return nil }

// InvalidateMenuCacheHandler clears every configured repository cache.
type InvalidateMenuCacheHandler struct {
	inner *commands.Handler[InvalidateMenuCacheCommand]
}

// NewInvalidateMenuCacheHandler constructs the handler. Nil invalidators are skipped.
func NewInvalidateMenuCacheHandler(invalidators []CacheInvalidator, logger interfaces.Logger, opts ...commands.HandlerOption[InvalidateMenuCacheCommand]) *InvalidateMenuCacheHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, _ InvalidateMenuCacheCommand) error {
		var errs []error
		cleared := 0
		for _, invalidator := range invalidators {
			if invalidator == nil {
				continue
			}
			if err := invalidator.InvalidateCache(ctx); err != nil {
				errs = append(errs, err)
				continue
			}
			cleared++
		}
		if err := errors.Join(errs...); err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"operation": "invalidate",
			"caches":    cleared,
		}).Info("menus.command.cache.invalidated")
		return nil
	}

	handlerOpts := []commands.HandlerOption[InvalidateMenuCacheCommand]{
		commands.WithLogger[InvalidateMenuCacheCommand](baseLogger),
		commands.WithOperation[InvalidateMenuCacheCommand]("menus.cache.invalidate"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &InvalidateMenuCacheHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[InvalidateMenuCacheCommand].
func (h *InvalidateMenuCacheHandler) Execute(ctx context.Context, msg InvalidateMenuCacheCommand) error {
	return h.inner.Execute(ctx, msg)
}
