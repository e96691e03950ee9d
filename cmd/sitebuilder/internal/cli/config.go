package cli

import (
	"fmt"
	"os"
	"strings"

	urlkit "github.com/goliatone/go-urlkit"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/goliatone/go-sitebuilder"
)

const (
	envPrefix         = "SITEBUILDER_"
	defaultConfigFile = "sitebuilder.yaml"
)

// flagKeys maps CLI flags onto configuration keys. Flags not listed here do
// not feed the configuration.
var flagKeys = map[string]string{
	"strict":       "validation.strict",
	"max-depth":    "validation.max_depth",
	"mode":         "render.default_mode",
	"grid-prefix":  "render.grid_prefix",
	"storage":      "storage.provider",
	"dsn":          "storage.dsn",
	"db-debug":     "storage.debug",
	"log-provider": "logging.provider",
	"log-level":    "logging.level",
	"log-format":   "logging.format",
}

func defaults() map[string]any {
	cfg := sitebuilder.DefaultConfig()
	return map[string]any{
		"validation.strict":        cfg.Validation.Strict,
		"validation.max_depth":     cfg.Validation.MaxDepth,
		"validation.sanitize":      cfg.Validation.Sanitize,
		"render.grid_prefix":       cfg.Render.GridPrefix,
		"render.default_mode":      cfg.Render.DefaultMode,
		"storage.provider":         cfg.Storage.Provider,
		"storage.dsn":              cfg.Storage.DSN,
		"storage.debug":            cfg.Storage.Debug,
		"cache.enabled":            cfg.Cache.Enabled,
		"cache.default_ttl":        cfg.Cache.DefaultTTL.String(),
		"navigation.default_group": cfg.Navigation.DefaultGroup,
		"navigation.page_route":    cfg.Navigation.PageRoute,
		"navigation.path_param":    cfg.Navigation.PathParam,
		"navigation.site_param":    cfg.Navigation.SiteParam,
		// CLI output goes to stdout, so logging stays off unless asked for.
		"logging.provider":   "none",
		"logging.level":      cfg.Logging.Level,
		"logging.format":     cfg.Logging.Format,
		"logging.add_source": cfg.Logging.AddSource,
		"features.activity":  cfg.Features.Activity,
	}
}

// LoadConfig resolves the runtime configuration.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
// Env keys use a double underscore between section and field, e.g.
// SITEBUILDER_VALIDATION__MAX_DEPTH.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (sitebuilder.Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return sitebuilder.Config{}, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(cfgFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return sitebuilder.Config{}, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return sitebuilder.Config{}, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return sitebuilder.Config{}, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg sitebuilder.Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return sitebuilder.Config{}, fmt.Errorf("unable to decode config: %w", err)
	}

	if k.Exists("navigation.routes") {
		var routes urlkit.Config
		if err := k.UnmarshalWithConf("navigation.routes", &routes, koanf.UnmarshalConf{Tag: "json"}); err != nil {
			return sitebuilder.Config{}, fmt.Errorf("unable to decode navigation routes: %w", err)
		}
		cfg.Navigation.RouteConfig = &routes
	}

	return cfg, nil
}

func envKey(name string) string {
	name = strings.ToLower(strings.TrimPrefix(name, envPrefix))
	return strings.ReplaceAll(name, "__", ".")
}

func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile
	}
	return ""
}
