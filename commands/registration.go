// Package commands builds the go-command handlers exposed by a container and
// registers them with host registries and dispatchers.
package commands

import (
	"errors"

	"github.com/goliatone/go-command/dispatcher"

	internalcommands "github.com/goliatone/go-sitebuilder/internal/commands"
	"github.com/goliatone/go-sitebuilder/internal/commands/contentcmd"
	"github.com/goliatone/go-sitebuilder/internal/commands/fixturescmd"
	"github.com/goliatone/go-sitebuilder/internal/commands/footerscmd"
	"github.com/goliatone/go-sitebuilder/internal/commands/menuscmd"
	"github.com/goliatone/go-sitebuilder/internal/commands/pagescmd"
	"github.com/goliatone/go-sitebuilder/internal/di"
	"github.com/goliatone/go-sitebuilder/pkg/interfaces"
)

// CommandRegistry records command handlers so hosts can expose them via CLI.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandDispatcher subscribes command handlers to a dispatcher implementation.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

// RegistrationOptions configures how handlers are registered.
type RegistrationOptions struct {
	Registry       CommandRegistry
	Dispatcher     CommandDispatcher
	LoggerProvider interfaces.LoggerProvider
}

// RegistrationResult captures the constructed handlers and subscriptions.
type RegistrationResult struct {
	Handlers      []any
	Subscriptions []CommandSubscription
}

// Unsubscribe releases every dispatcher subscription.
func (r *RegistrationResult) Unsubscribe() {
	if r == nil {
		return
	}
	for _, sub := range r.Subscriptions {
		sub.Unsubscribe()
	}
	r.Subscriptions = nil
}

// RegisterContainerCommands builds the command handlers for the services of
// container and optionally registers them.
func RegisterContainerCommands(container *di.Container, opts RegistrationOptions) (*RegistrationResult, error) {
	if container == nil {
		return &RegistrationResult{}, nil
	}

	provider := opts.LoggerProvider
	if provider == nil {
		provider = container.LoggerProvider()
	}
	loggerFor := func(module string) interfaces.Logger {
		return internalcommands.CommandLogger(provider, module)
	}

	result := &RegistrationResult{
		Handlers:      make([]any, 0),
		Subscriptions: make([]CommandSubscription, 0),
	}
	var errs error

	register := func(handler any) {
		result.Handlers = append(result.Handlers, handler)
		if opts.Registry != nil {
			if err := opts.Registry.RegisterCommand(handler); err != nil {
				errs = errors.Join(errs, err)
			}
		}
		if opts.Dispatcher != nil {
			subscription, err := opts.Dispatcher.RegisterCommand(handler)
			if err != nil {
				errs = errors.Join(errs, err)
			} else if subscription != nil {
				result.Subscriptions = append(result.Subscriptions, subscription)
			}
		}
	}

	register(contentcmd.NewSaveContainerContentHandler(contentcmd.Savers{
		Pages:   container.PageService(),
		Menus:   container.MenuService(),
		Footers: container.FooterService(),
	}, loggerFor("content"), nil))

	pagesLogger := loggerFor("pages")
	register(pagescmd.NewPublishPageHandler(container.PageService(), pagesLogger))
	register(pagescmd.NewCopyPageHandler(container.PageService(), pagesLogger, nil))
	register(pagescmd.NewSetHomepageHandler(container.PageService(), pagesLogger))
	register(pagescmd.NewDeletePageHandler(container.PageService(), pagesLogger))

	menusLogger := loggerFor("menus")
	register(menuscmd.NewActivateMenuHandler(container.MenuService(), menusLogger))
	register(menuscmd.NewReorderMenuItemsHandler(container.MenuService(), menusLogger))
	invalidators := make([]menuscmd.CacheInvalidator, 0)
	for _, inv := range container.CacheInvalidators() {
		invalidators = append(invalidators, inv)
	}
	register(menuscmd.NewInvalidateMenuCacheHandler(invalidators, menusLogger))

	register(footerscmd.NewActivateFooterHandler(container.FooterService(), loggerFor("footers")))
	register(fixturescmd.NewImportFixturesHandler(container.Importer(), loggerFor("fixtures"), nil, nil))

	return result, errs
}

// ErrUnsupportedHandler is returned by Dispatcher for handlers it does not know.
var ErrUnsupportedHandler = errors.New("commands: unsupported handler type")

// Dispatcher subscribes the sitebuilder handlers to the go-command global
// dispatcher so hosts can dispatch commands by message.
type Dispatcher struct{}

// RegisterCommand satisfies CommandDispatcher.
func (Dispatcher) RegisterCommand(handler any) (CommandSubscription, error) {
	switch h := handler.(type) {
	case *contentcmd.SaveContainerContentHandler:
		return dispatcher.SubscribeCommand(h), nil
	case *pagescmd.PublishPageHandler:
		return dispatcher.SubscribeCommand(h), nil
	case *pagescmd.CopyPageHandler:
		return dispatcher.SubscribeCommand(h), nil
	case *pagescmd.SetHomepageHandler:
		return dispatcher.SubscribeCommand(h), nil
	case *pagescmd.DeletePageHandler:
		return dispatcher.SubscribeCommand(h), nil
	case *menuscmd.ActivateMenuHandler:
		return dispatcher.SubscribeCommand(h), nil
	case *menuscmd.ReorderMenuItemsHandler:
		return dispatcher.SubscribeCommand(h), nil
	case *menuscmd.InvalidateMenuCacheHandler:
		return dispatcher.SubscribeCommand(h), nil
	case *footerscmd.ActivateFooterHandler:
		return dispatcher.SubscribeCommand(h), nil
	case *fixturescmd.ImportFixturesHandler:
		return dispatcher.SubscribeCommand(h), nil
	}
	return nil, ErrUnsupportedHandler
}
