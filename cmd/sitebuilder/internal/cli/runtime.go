package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-sitebuilder"
	"github.com/goliatone/go-sitebuilder/internal/di"
	"github.com/goliatone/go-sitebuilder/internal/logging"
	"github.com/goliatone/go-sitebuilder/internal/logging/gologger"
	"github.com/goliatone/go-sitebuilder/internal/storage"
	"github.com/goliatone/go-sitebuilder/pkg/interfaces"
)

// runtime bundles a module with the resources the CLI must release.
type runtime struct {
	module *sitebuilder.Module
	logger interfaces.Logger
	close  func()
}

// openRuntime builds a module from cfg. Storage is only opened for commands
// that read or write sites; document commands run against memory.
func openRuntime(ctx context.Context, cfg sitebuilder.Config, withStorage bool) (*runtime, error) {
	opts := []di.Option{}
	provider, err := loggerProvider(cfg.Logging)
	if err != nil {
		return nil, err
	}
	if provider != nil {
		opts = append(opts, di.WithLoggerProvider(provider))
	}
	logger := logging.CLILogger(provider)

	closeFn := func() {}
	if withStorage {
		db, err := storage.Open(ctx, storage.Config{
			Provider: cfg.Storage.Provider,
			DSN:      cfg.Storage.DSN,
			Debug:    cfg.Storage.Debug,
		}, logging.StorageLogger(provider))
		if err != nil {
			return nil, err
		}
		opts = append(opts, di.WithBunDB(db))
		closeFn = func() { _ = db.Close() }
	}

	module, err := sitebuilder.New(cfg, opts...)
	if err != nil {
		closeFn()
		return nil, fmt.Errorf("initialise sitebuilder module: %w", err)
	}
	if withStorage {
		if err := module.EnsureSchema(ctx); err != nil {
			closeFn()
			return nil, err
		}
	}
	return &runtime{module: module, logger: logger, close: closeFn}, nil
}

func loggerProvider(cfg sitebuilder.LoggingConfig) (interfaces.LoggerProvider, error) {
	format := cfg.Format
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "none":
		return nil, nil
	case "", "console":
		format = "console"
	}
	provider, err := gologger.NewProvider(gologger.Config{
		Level:     cfg.Level,
		Format:    format,
		AddSource: cfg.AddSource,
		Focus:     cfg.Focus,
	})
	if err != nil {
		return nil, fmt.Errorf("configure logger: %w", err)
	}
	return provider, nil
}
