package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-sitebuilder/internal/render"
	"github.com/goliatone/go-sitebuilder/internal/widgets"
)

// ErrDocumentRejected is returned by validate when the document fails.
var ErrDocumentRejected = errors.New("document rejected")

func newRenderCommand() *cobra.Command {
	var (
		siteID string
		active string
	)
	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a container document to HTML",
		Long: `Render decodes a container document and prints its markup.

The document is read from the file argument, or stdin when the argument is
omitted or "-". Unknown widget types render as placeholders and are reported
on stderr.`,
		Example: `  # Render for the public site
  sitebuilder render page.json

  # Render editor markup with site-relative links
  sitebuilder render page.json --mode preview --site-id 5f0c...`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readDocument(cmd, args)
			if err != nil {
				return err
			}
			rctx := render.Context{
				ActiveMenu: strings.TrimSpace(active),
				Mode:       render.ParseMode(configFrom(cmd).Render.DefaultMode),
			}
			if strings.TrimSpace(siteID) != "" {
				id, err := uuid.Parse(strings.TrimSpace(siteID))
				if err != nil {
					return fmt.Errorf("parse site-id: %w", err)
				}
				rctx.SiteID = id
			}
			return runRender(cmd, data, rctx)
		},
	}
	cmd.Flags().StringVar(&siteID, "site-id", "", "Site id used to prefix links in preview mode")
	cmd.Flags().StringVar(&active, "active", "", "URL of the current navigation entry")
	return cmd
}

func runRender(cmd *cobra.Command, data []byte, rctx render.Context) error {
	rt, err := openRuntime(cmd.Context(), configFrom(cmd), false)
	if err != nil {
		return err
	}
	defer rt.close()

	decoded, err := rt.module.Codec().Decode(data)
	if err != nil {
		return err
	}
	reportIssues(cmd.ErrOrStderr(), decoded.Issues)

	result := rt.module.Renderer().RenderDetailed(decoded.Nodes, rctx)
	for _, warning := range result.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", warning)
	}
	if result.HTML != "" {
		fmt.Fprintln(cmd.OutOrStdout(), result.HTML)
	}
	return errors.Join(result.Errors...)
}

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a container document",
		Long: `Validate decodes a container document with the configured codec.

Structural problems always fail. Attribute problems fail with --strict and
are reported as warnings otherwise. Duplicate widget ids are reported so they
can be fixed with repair-ids.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readDocument(cmd, args)
			if err != nil {
				return err
			}
			return runValidate(cmd, data)
		},
	}
}

func runValidate(cmd *cobra.Command, data []byte) error {
	rt, err := openRuntime(cmd.Context(), configFrom(cmd), false)
	if err != nil {
		return err
	}
	defer rt.close()

	out := cmd.OutOrStdout()
	decoded, err := rt.module.Codec().Decode(data)
	if err != nil {
		var issues widgets.ValidationErrors
		if errors.As(err, &issues) {
			for _, issue := range issues {
				fmt.Fprintf(out, "error: %v\n", issue)
			}
		} else {
			fmt.Fprintf(out, "error: %v\n", err)
		}
		return ErrDocumentRejected
	}

	reportIssues(out, decoded.Issues)
	fmt.Fprintf(out, "ok: %d widgets, %d issues\n", countNodes(decoded.Nodes), len(decoded.Issues))
	return nil
}

func newFmtCommand() *cobra.Command {
	var (
		write  bool
		indent bool
	)
	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Rewrite a container document in canonical form",
		Long: `Fmt decodes a container document, fills attribute defaults, sanitises
it and prints the canonical encoding the builder stores.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readDocument(cmd, args)
			if err != nil {
				return err
			}
			rt, err := openRuntime(cmd.Context(), configFrom(cmd), false)
			if err != nil {
				return err
			}
			defer rt.close()

			encoded, decoded, err := rt.module.Codec().Prepare(data)
			if err != nil {
				return err
			}
			reportIssues(cmd.ErrOrStderr(), decoded.Issues)
			return writeDocument(cmd, args, encoded, write, indent)
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write the result back to the source file")
	cmd.Flags().BoolVar(&indent, "indent", false, "Indent the output")
	return cmd
}

func newRepairIDsCommand() *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "repair-ids [file]",
		Short: "Replace widget ids that are unsafe as anchors",
		Long: `Repair-ids rewrites legacy ids containing periods to dashes and gives
every repeated id a fresh value. Attributes are left untouched.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readDocument(cmd, args)
			if err != nil {
				return err
			}
			nodes, err := widgets.Decode(data)
			if err != nil {
				return err
			}
			repaired, changed := widgets.RepairIDs(nodes)
			encoded, err := widgets.Encode(repaired)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "repaired %d ids\n", changed)
			return writeDocument(cmd, args, encoded, write, false)
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write the result back to the source file")
	return cmd
}

func readDocument(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(args[0])
}

func writeDocument(cmd *cobra.Command, args []string, data []byte, write, indent bool) error {
	if indent {
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return err
		}
		data = buf.Bytes()
	}
	if write {
		if len(args) == 0 || args[0] == "-" {
			return errors.New("--write needs a file argument")
		}
		return os.WriteFile(args[0], append(data, '\n'), 0o644)
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

func reportIssues(w io.Writer, issues widgets.ValidationErrors) {
	for _, issue := range issues {
		fmt.Fprintf(w, "warning: %v\n", issue)
	}
}

func countNodes(nodes []widgets.Node) int {
	count := 0
	widgets.Walk(nodes, func(widgets.Path, widgets.Node) bool {
		count++
		return true
	})
	return count
}
