package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-sitebuilder/internal/commands/fixturescmd"
	"github.com/goliatone/go-sitebuilder/internal/fixtures"
	"github.com/goliatone/go-sitebuilder/internal/sites"
)

func newImportCommand() *cobra.Command {
	var (
		site     string
		siteName string
	)
	cmd := &cobra.Command{
		Use:   "import <dir>",
		Short: "Import markdown fixtures as pages of a site",
		Long: `Import reads every markdown file below dir and stores it as a page.

Directories become parent pages, index.md is the directory page and front
matter sets title, slug, publication and the homepage flag. Page ids are
derived from the site and path, so re-importing updates pages in place. The
site is created when no site matches --site.`,
		Example: `  sitebuilder import ./content --site example.com --dsn file:site.db`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFrom(cmd)
			rt, err := openRuntime(cmd.Context(), cfg, true)
			if err != nil {
				return err
			}
			defer rt.close()

			target, err := ensureSite(cmd.Context(), rt.module.Sites(), site, siteName)
			if err != nil {
				return err
			}

			var result *fixtures.Result
			handler := fixturescmd.NewImportFixturesHandler(rt.module.Importer(), rt.logger, nil, func(r *fixtures.Result) {
				result = r
			})
			runErr := handler.Execute(cmd.Context(), fixturescmd.ImportFixturesCommand{
				SiteID: target.ID,
				Dir:    args[0],
				Strict: cfg.Validation.Strict,
			})
			if result != nil {
				out := cmd.OutOrStdout()
				for _, page := range result.Pages {
					if page.Err != nil {
						fmt.Fprintf(out, "failed  %s: %v\n", page.Path, page.Err)
						continue
					}
					verb := "updated"
					if page.Created {
						verb = "created"
					}
					fmt.Fprintf(out, "%s %s\n", verb, page.Path)
				}
				fmt.Fprintf(out, "site %s: %d created, %d updated, %d failed\n", target.ID, result.Created, result.Updated, result.Failed)
			}
			return runErr
		},
	}
	cmd.Flags().StringVar(&site, "site", "", "Site domain or id")
	cmd.Flags().StringVar(&siteName, "site-name", "", "Name used when the site is created")
	_ = cmd.MarkFlagRequired("site")
	return cmd
}

func newPageCommand() *cobra.Command {
	var (
		site    string
		pageID  string
		preview bool
	)
	cmd := &cobra.Command{
		Use:   "page [path]",
		Short: "Render a stored page with its menus and footer",
		Long: `Page resolves a public path of a site and prints the composed HTML
document. With --preview and --id the editor markup of any page is printed,
published or not.`,
		Example: `  sitebuilder page /about --site example.com --dsn file:site.db
  sitebuilder page --preview --id 1b4e... --site example.com`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), configFrom(cmd), true)
			if err != nil {
				return err
			}
			defer rt.close()

			target, err := findSite(cmd.Context(), rt.module.Sites(), site)
			if err != nil {
				return err
			}

			var html string
			if preview {
				id, err := uuid.Parse(strings.TrimSpace(pageID))
				if err != nil {
					return fmt.Errorf("parse id: %w", err)
				}
				page, err := rt.module.Pages().Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				if page.SiteID != target.ID {
					return fmt.Errorf("page %s does not belong to site %s", page.ID, target.ID)
				}
				html, err = rt.module.Preview(cmd.Context(), id)
				if err != nil {
					return err
				}
			} else {
				path := "/"
				if len(args) == 1 {
					path = args[0]
				}
				html, err = rt.module.RenderPath(cmd.Context(), target.ID, path)
				if err != nil {
					return err
				}
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), html)
			return err
		},
	}
	cmd.Flags().StringVar(&site, "site", "", "Site domain or id")
	cmd.Flags().StringVar(&pageID, "id", "", "Page id rendered with --preview")
	cmd.Flags().BoolVar(&preview, "preview", false, "Render editor markup")
	_ = cmd.MarkFlagRequired("site")
	return cmd
}

// findSite looks a site up by id or domain.
func findSite(ctx context.Context, svc sites.Service, ref string) (*sites.Site, error) {
	ref = strings.TrimSpace(ref)
	if id, err := uuid.Parse(ref); err == nil {
		return svc.Get(ctx, id)
	}
	return svc.GetByDomain(ctx, ref)
}

func ensureSite(ctx context.Context, svc sites.Service, ref, name string) (*sites.Site, error) {
	site, err := findSite(ctx, svc, ref)
	if err == nil {
		return site, nil
	}
	if !errors.Is(err, sites.ErrSiteNotFound) {
		return nil, err
	}
	if _, parseErr := uuid.Parse(strings.TrimSpace(ref)); parseErr == nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		name = ref
	}
	return svc.Create(ctx, sites.CreateSiteInput{Name: name, Domain: ref})
}
