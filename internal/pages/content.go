package pages

import (
	"context"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitebuilder/internal/widgets"
	"github.com/goliatone/go-sitebuilder/pkg/activity"
)

// SaveContentInput replaces the widget tree of a page. Nil Styles keeps the
// stored style blob. Strict overrides the codec default when set.
type SaveContentInput struct {
	PageID  uuid.UUID
	Content []byte
	Styles  []byte
	Strict  *bool
	Actor   uuid.UUID
}

// SaveContentResult reports the stored page and the attribute issues
// tolerated in non-strict mode.
type SaveContentResult struct {
	Page   *Page
	Issues widgets.ValidationErrors
}

// SaveContent decodes, validates and stores a full replacement document.
// Rejected documents leave the stored content untouched.
func (s *service) SaveContent(ctx context.Context, input SaveContentInput) (*SaveContentResult, error) {
	page, err := s.Get(ctx, input.PageID)
	if err != nil {
		return nil, err
	}

	codec := s.codec
	if input.Strict != nil {
		codec = codec.AsStrict(*input.Strict)
	}
	styles := input.Styles
	if styles == nil {
		styles = []byte(page.Styles)
		if _, err := widgets.DecodeStyles(styles); err != nil {
			s.logger.Warn("pages.styles.reset", "page_id", page.ID, "error", err)
			styles = []byte("{}")
		}
	}
	prepared, err := codec.PrepareContainer(input.Content, styles)
	if err != nil {
		s.logger.Warn("pages.content.rejected", "page_id", page.ID, "error", err)
		return nil, err
	}

	page.Content = string(prepared.Content)
	page.Styles = string(prepared.Styles)
	saved, err := s.save(ctx, page)
	if err != nil {
		return nil, err
	}

	s.logger.Info("pages.content.saved",
		"page_id", saved.ID,
		"site_id", saved.SiteID,
		"widgets", len(prepared.Result.Nodes),
		"issues", len(prepared.Result.Issues),
	)
	s.emit(ctx, input.Actor, activity.VerbSaveContent, saved, map[string]any{
		"widgets": len(prepared.Result.Nodes),
	})
	return &SaveContentResult{Page: saved, Issues: prepared.Result.Issues}, nil
}
