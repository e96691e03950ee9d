package fixturescmd

import (
	"context"
	"io/fs"
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitebuilder/internal/commands"
	"github.com/goliatone/go-sitebuilder/internal/fixtures"
	"github.com/goliatone/go-sitebuilder/pkg/interfaces"
)

const importFixturesMessageType = "sitebuilder.fixtures.import"

// Importer upserts parsed fixture documents.
type Importer interface {
	Import(ctx context.Context, siteID uuid.UUID, docs []*fixtures.Document, opts fixtures.Options) (*fixtures.Result, error)
}

// ImportFixturesCommand loads every markdown file below Dir as a page of the
// site. Any failed document fails the command after the run completes.
type ImportFixturesCommand struct {
	SiteID uuid.UUID `json:"site_id"`
	Dir    string    `json:"dir"`
	Strict bool      `json:"strict"`
	Actor  uuid.UUID `json:"actor,omitempty"`
}

// Type implements command.Message.
func (ImportFixturesCommand) Type() string { return importFixturesMessageType }

// Validate ensures the site and source directory are present.
func (m ImportFixturesCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.SiteID, validation.By(func(any) error {
			if m.SiteID == uuid.Nil {
				return validation.NewError("fixtures.import.site_id_required", "site_id is required")
			}
			return nil
		})),
		validation.Field(&m.Dir, validation.Required),
	)
}

// ImportFixturesHandler runs fixture imports.
type ImportFixturesHandler struct {
	inner *commands.Handler[ImportFixturesCommand]
}

// NewImportFixturesHandler constructs the handler. openFS defaults to os.DirFS;
// onResult is optional.
func NewImportFixturesHandler(importer Importer, logger interfaces.Logger, openFS func(dir string) fs.FS, onResult func(*fixtures.Result), opts ...commands.HandlerOption[ImportFixturesCommand]) *ImportFixturesHandler {
	baseLogger := commands.EnsureLogger(logger)
	if openFS == nil {
		openFS = os.DirFS
	}

	exec := func(ctx context.Context, msg ImportFixturesCommand) error {
		docs, err := fixtures.LoadDir(ctx, openFS(strings.TrimSpace(msg.Dir)))
		if err != nil {
			return err
		}
		result, err := importer.Import(ctx, msg.SiteID, docs, fixtures.Options{Strict: msg.Strict, Actor: msg.Actor})
		if result != nil && onResult != nil {
			onResult(result)
		}
		if err != nil {
			return err
		}
		return result.Errors()
	}

	handlerOpts := []commands.HandlerOption[ImportFixturesCommand]{
		commands.WithLogger[ImportFixturesCommand](baseLogger),
		commands.WithOperation[ImportFixturesCommand]("fixtures.import"),
		commands.WithMessageFields(func(msg ImportFixturesCommand) map[string]any {
			return map[string]any{"site_id": msg.SiteID, "dir": msg.Dir, "strict": msg.Strict}
		}),
		// directory walks can outlast the default budget
		commands.WithTimeout[ImportFixturesCommand](5 * commands.DefaultCommandTimeout),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ImportFixturesHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ImportFixturesCommand].
func (h *ImportFixturesHandler) Execute(ctx context.Context, msg ImportFixturesCommand) error {
	return h.inner.Execute(ctx, msg)
}
