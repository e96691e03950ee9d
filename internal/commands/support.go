package commands

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-sitebuilder/internal/logging"
	"github.com/goliatone/go-sitebuilder/pkg/interfaces"
)

// DefaultCommandTimeout bounds every command execution unless overridden.
const DefaultCommandTimeout = 30 * time.Second

// CommandLogger returns the logger for the command handlers of module,
// e.g. "pages" logs under sitebuilder.commands.pages.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	module = strings.TrimSpace(module)
	if module == "" {
		module = "core"
	}
	return logging.WithFields(logging.ModuleLogger(provider, "sitebuilder.commands."+module), map[string]any{
		"component":      "command",
		"command_module": module,
	})
}

// EnsureContext returns ctx, or a background context when ctx is nil.
func EnsureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

// WithCommandTimeout derives a deadline from ctx. A non-positive timeout
// leaves ctx as it is.
func WithCommandTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return ctx, func() {}
}

// EnsureLogger returns logger, or a no-op logger when it is nil.
func EnsureLogger(logger interfaces.Logger) interfaces.Logger {
	if logger != nil {
		return logger
	}
	return logging.NoOp()
}
