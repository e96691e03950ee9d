// Package cli provides the sitebuilder command line interface.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-sitebuilder"
)

// Version is set at build time.
var Version = "0.1.0"

type configKey struct{}

// NewRootCmd creates the root command and its subcommands.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "sitebuilder",
		Short: "Validate, render and import website builder documents",
		Long: `sitebuilder works with the widget trees stored by the website builder.

Document commands (render, validate, fmt, repair-ids) read a JSON container
document from a file or stdin. Site commands (import, page) use the
configured storage.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			cfg, err := LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(context.WithValue(ctx, configKey{}, cfg))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./sitebuilder.yaml)")
	flags.Bool("strict", false, "Reject documents whose widget attributes fail validation")
	flags.Int("max-depth", 0, "Maximum widget nesting depth")
	flags.String("mode", "", "Render mode (public|preview)")
	flags.String("grid-prefix", "", "Column width class prefix")
	flags.String("storage", "", "Storage provider (sqlite|postgres)")
	flags.String("dsn", "", "Database connection string")
	flags.Bool("db-debug", false, "Log every database query")
	flags.String("log-provider", "", "Logging provider (console|gologger|none)")
	flags.String("log-level", "", "Log level")
	flags.String("log-format", "", "Log format (json|console|pretty)")

	_ = rootCmd.RegisterFlagCompletionFunc("mode", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"public", "preview"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newRenderCommand())
	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newFmtCommand())
	rootCmd.AddCommand(newRepairIDsCommand())
	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newPageCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func configFrom(cmd *cobra.Command) sitebuilder.Config {
	if cfg, ok := cmd.Context().Value(configKey{}).(sitebuilder.Config); ok {
		return cfg
	}
	return sitebuilder.DefaultConfig()
}
