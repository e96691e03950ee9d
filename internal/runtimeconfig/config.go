package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
)

var (
	ErrMaxDepthInvalid         = errors.New("sitebuilder config: validation max depth must be zero or positive")
	ErrRenderModeInvalid       = errors.New("sitebuilder config: render default mode must be public or preview")
	ErrGridPrefixRequired      = errors.New("sitebuilder config: render grid prefix is required")
	ErrStorageProviderUnknown  = errors.New("sitebuilder config: storage provider must be sqlite or postgres")
	ErrStorageDSNRequired      = errors.New("sitebuilder config: storage dsn is required for postgres")
	ErrCacheTTLInvalid         = errors.New("sitebuilder config: cache default ttl must be positive when cache is enabled")
	ErrNavigationGroupRequired = errors.New("sitebuilder config: navigation default group is required when routes are configured")
	ErrLoggingProviderUnknown  = errors.New("sitebuilder config: logging provider is invalid")
	ErrLoggingLevelInvalid     = errors.New("sitebuilder config: logging level is invalid")
	ErrLoggingFormatInvalid    = errors.New("sitebuilder config: logging format is invalid")
)

// Config aggregates the runtime settings of the site builder.
type Config struct {
	Validation ValidationConfig `koanf:"validation"`
	Render     RenderConfig     `koanf:"render"`
	Storage    StorageConfig    `koanf:"storage"`
	Cache      CacheConfig      `koanf:"cache"`
	Navigation NavigationConfig `koanf:"navigation"`
	Logging    LoggingConfig    `koanf:"logging"`
	Features   Features         `koanf:"features"`
}

// ValidationConfig controls how container documents are accepted on save.
// MaxDepth zero keeps the codec default.
type ValidationConfig struct {
	Strict   bool `koanf:"strict"`
	MaxDepth int  `koanf:"max_depth"`
	Sanitize bool `koanf:"sanitize"`
}

// RenderConfig controls markup generation.
type RenderConfig struct {
	GridPrefix  string `koanf:"grid_prefix"`
	DefaultMode string `koanf:"default_mode"`
}

// StorageConfig selects the database provider.
type StorageConfig struct {
	Provider string `koanf:"provider"`
	DSN      string `koanf:"dsn"`
	Debug    bool   `koanf:"debug"`
}

// CacheConfig captures repository cache behaviour.
type CacheConfig struct {
	Enabled    bool          `koanf:"enabled"`
	DefaultTTL time.Duration `koanf:"default_ttl"`
}

// NavigationConfig captures routing configuration for menu URL resolution.
// A nil RouteConfig resolves page items to their full path.
type NavigationConfig struct {
	RouteConfig  *urlkit.Config `koanf:"-"`
	DefaultGroup string         `koanf:"default_group"`
	PageRoute    string         `koanf:"page_route"`
	PathParam    string         `koanf:"path_param"`
	SiteParam    string         `koanf:"site_param"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `koanf:"provider"`
	Level     string   `koanf:"level"`
	Format    string   `koanf:"format"`
	AddSource bool     `koanf:"add_source"`
	Focus     []string `koanf:"focus"`
}

// Features toggles optional behaviour.
type Features struct {
	Activity bool `koanf:"activity"`
}

// DefaultConfig returns the defaults used by the CLI and the container.
func DefaultConfig() Config {
	return Config{
		Validation: ValidationConfig{
			Strict:   false,
			MaxDepth: 32,
			Sanitize: true,
		},
		Render: RenderConfig{
			GridPrefix:  "col-md-",
			DefaultMode: "public",
		},
		Storage: StorageConfig{
			Provider: "sqlite",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Navigation: NavigationConfig{
			PageRoute: "page",
			PathParam: "slug",
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs consistency checks.
func (cfg Config) Validate() error {
	if cfg.Validation.MaxDepth < 0 {
		return ErrMaxDepthInvalid
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Render.DefaultMode)) {
	case "", "public", "preview":
	default:
		return fmt.Errorf("%w: %s", ErrRenderModeInvalid, cfg.Render.DefaultMode)
	}
	if strings.TrimSpace(cfg.Render.GridPrefix) == "" {
		return ErrGridPrefixRequired
	}

	switch provider := normalize(cfg.Storage.Provider); provider {
	case "", "sqlite", "sqlite3":
	case "postgres", "postgresql", "pg":
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, provider)
	}

	if cfg.Cache.Enabled && cfg.Cache.DefaultTTL <= 0 {
		return ErrCacheTTLInvalid
	}
	if cfg.Navigation.RouteConfig != nil && strings.TrimSpace(cfg.Navigation.DefaultGroup) == "" {
		return ErrNavigationGroupRequired
	}

	provider := normalize(cfg.Logging.Provider)
	if provider != "" && !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger", "none":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
