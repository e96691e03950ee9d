package fixtures

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitebuilder/internal/identity"
	"github.com/goliatone/go-sitebuilder/internal/logging"
	"github.com/goliatone/go-sitebuilder/internal/pages"
	"github.com/goliatone/go-sitebuilder/internal/widgets"
	"github.com/goliatone/go-sitebuilder/pkg/interfaces"
)

// ErrParentMissing is returned when a document's parent page is neither in
// the batch nor stored.
var ErrParentMissing = errors.New("fixtures: parent page not found")

// PageWriter is the subset of the page service used by the importer.
type PageWriter interface {
	Get(ctx context.Context, id uuid.UUID) (*pages.Page, error)
	Create(ctx context.Context, input pages.CreatePageInput) (*pages.Page, error)
	Update(ctx context.Context, input pages.UpdatePageInput) (*pages.Page, error)
	Publish(ctx context.Context, input pages.PublishPageInput) (*pages.Page, error)
	SetHomepage(ctx context.Context, id uuid.UUID, actor uuid.UUID) (*pages.Page, error)
	SaveContent(ctx context.Context, input pages.SaveContentInput) (*pages.SaveContentResult, error)
}

// Options tunes an import run.
type Options struct {
	// Strict rejects documents whose widget attributes fail validation.
	Strict bool
	Actor  uuid.UUID
}

// ImportedPage reports the outcome for one document.
type ImportedPage struct {
	Path    string
	PageID  uuid.UUID
	Created bool
	Issues  int
	Err     error
}

// Result summarises an import run.
type Result struct {
	Created int
	Updated int
	Failed  int
	Pages   []ImportedPage
}

// Errors returns the per-document failures joined into one error.
func (r *Result) Errors() error {
	var errs []error
	for _, page := range r.Pages {
		if page.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", page.Path, page.Err))
		}
	}
	return errors.Join(errs...)
}

// Importer upserts fixture documents as pages. Page ids derive from the site
// and full path so repeated imports update in place.
type Importer struct {
	pages  PageWriter
	codec  *widgets.Codec
	logger interfaces.Logger
}

// NewImporter constructs an Importer. A nil logger disables logging.
func NewImporter(writer PageWriter, logger interfaces.Logger) *Importer {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Importer{
		pages:  writer,
		codec:  widgets.MustNewCodec(widgets.WithLogger(logger)),
		logger: logger,
	}
}

// Import applies docs in order. A failing document is recorded and the run
// continues; documents under a failed parent fail as well.
func (i *Importer) Import(ctx context.Context, siteID uuid.UUID, docs []*Document, opts Options) (*Result, error) {
	result := &Result{}
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		imported := i.importDocument(ctx, siteID, doc, opts)
		switch {
		case imported.Err != nil:
			result.Failed++
			i.logger.Warn("fixtures.page.failed", "path", doc.Path, "file", doc.File, "error", imported.Err)
		case imported.Created:
			result.Created++
		default:
			result.Updated++
		}
		result.Pages = append(result.Pages, imported)
	}
	i.logger.Info("fixtures.import.completed",
		"site_id", siteID,
		"created", result.Created,
		"updated", result.Updated,
		"failed", result.Failed,
	)
	return result, nil
}

func (i *Importer) importDocument(ctx context.Context, siteID uuid.UUID, doc *Document, opts Options) ImportedPage {
	id := identity.PageUUID(siteID, doc.Path)
	out := ImportedPage{Path: doc.Path, PageID: id}

	var parentID *uuid.UUID
	if doc.Parent != "" {
		pid := identity.PageUUID(siteID, doc.Parent)
		if _, err := i.pages.Get(ctx, pid); err != nil {
			if errors.Is(err, pages.ErrPageNotFound) {
				out.Err = fmt.Errorf("%w: %q", ErrParentMissing, doc.Parent)
			} else {
				out.Err = err
			}
			return out
		}
		parentID = &pid
	}

	content, styles, err := doc.container(id)
	if err != nil {
		out.Err = err
		return out
	}
	if _, err := i.codec.AsStrict(opts.Strict).Decode(content); err != nil {
		out.Err = err
		return out
	}

	existing, err := i.pages.Get(ctx, id)
	switch {
	case errors.Is(err, pages.ErrPageNotFound):
		if _, err := i.pages.Create(ctx, pages.CreatePageInput{
			ID:         id,
			SiteID:     siteID,
			ParentID:   parentID,
			Title:      doc.Title(),
			Slug:       doc.Slug,
			Published:  doc.IsPublished(),
			IsHomepage: doc.Meta.Homepage,
			Actor:      opts.Actor,
		}); err != nil {
			out.Err = err
			return out
		}
		out.Created = true
	case err != nil:
		out.Err = err
		return out
	default:
		title := doc.Title()
		if _, err := i.pages.Update(ctx, pages.UpdatePageInput{ID: id, Title: &title, Actor: opts.Actor}); err != nil {
			out.Err = err
			return out
		}
		if existing.Published != doc.IsPublished() {
			if _, err := i.pages.Publish(ctx, pages.PublishPageInput{ID: id, Published: doc.IsPublished(), Actor: opts.Actor}); err != nil {
				out.Err = err
				return out
			}
		}
		if doc.Meta.Homepage && !existing.IsHomepage {
			if _, err := i.pages.SetHomepage(ctx, id, opts.Actor); err != nil {
				out.Err = err
				return out
			}
		}
	}

	strict := opts.Strict
	saved, err := i.pages.SaveContent(ctx, pages.SaveContentInput{
		PageID:  id,
		Content: content,
		Styles:  styles,
		Strict:  &strict,
		Actor:   opts.Actor,
	})
	if err != nil {
		out.Err = err
		return out
	}
	out.Issues = len(saved.Issues)
	i.logger.Debug("fixtures.page.imported", "path", doc.Path, "page_id", id, "created", out.Created)
	return out
}

// container builds the stored widget document of a fixture. The markdown
// body becomes a full width row holding one markdown widget.
func (d *Document) container(pageID uuid.UUID) ([]byte, []byte, error) {
	styles, err := widgets.EncodeStyles(d.Meta.Styles)
	if err != nil {
		return nil, nil, err
	}
	if d.Meta.Content != "" {
		return []byte(d.Meta.Content), styles, nil
	}
	if len(d.Body) == 0 {
		return []byte("[]"), styles, nil
	}
	width := 12
	tree := []widgets.Node{{
		ID:         identity.WidgetID(pageID, "row"),
		Type:       widgets.TypeRow,
		Attributes: widgets.RowAttributes{},
		Children: []widgets.Node{{
			ID:         identity.WidgetID(pageID, "column"),
			Type:       widgets.TypeColumn,
			Attributes: widgets.ColumnAttributes{Width: &width},
			Children: []widgets.Node{{
				ID:         identity.WidgetID(pageID, "markdown"),
				Type:       widgets.TypeMarkdown,
				Attributes: widgets.MarkdownAttributes{Source: string(d.Body)},
			}},
		}},
	}}
	content, err := widgets.Encode(tree)
	if err != nil {
		return nil, nil, err
	}
	return content, styles, nil
}
