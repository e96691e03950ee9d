package logging

import (
	"context"

	"github.com/goliatone/go-sitebuilder/pkg/interfaces"
)

const (
	rootModule     = "sitebuilder"
	widgetsModule  = "sitebuilder.widgets"
	renderModule   = "sitebuilder.render"
	sitesModule    = "sitebuilder.sites"
	pagesModule    = "sitebuilder.pages"
	menusModule    = "sitebuilder.menus"
	footersModule  = "sitebuilder.footers"
	layoutModule   = "sitebuilder.layout"
	fixturesModule = "sitebuilder.fixtures"
	storageModule  = "sitebuilder.storage"
	cliModule      = "sitebuilder.cli"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(map[string]any{
			"module": module,
		})
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// WidgetsLogger returns the logger namespace reserved for the tree codec.
func WidgetsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, widgetsModule)
}

// RenderLogger returns the logger namespace reserved for renderers.
func RenderLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, renderModule)
}

func SitesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, sitesModule)
}

// PagesLogger returns the logger namespace reserved for page services.
func PagesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, pagesModule)
}

func MenusLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, menusModule)
}

func FootersLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, footersModule)
}

// LayoutLogger returns the logger namespace reserved for page composition.
func LayoutLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, layoutModule)
}

// FixturesLogger returns the logger namespace reserved for fixture imports.
func FixturesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, fixturesModule)
}

func StorageLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, storageModule)
}

// CLILogger returns the logger namespace reserved for the command line tool.
func CLILogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, cliModule)
}

// WithContainer tags a logger with the container kind and record id a
// content operation targets. Empty values are ignored.
func WithContainer(logger interfaces.Logger, kind, id string) interfaces.Logger {
	fields := map[string]any{}
	if kind != "" {
		fields["container"] = kind
	}
	if id != "" {
		fields["container_id"] = id
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
