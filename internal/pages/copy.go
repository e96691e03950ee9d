package pages

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitebuilder/pkg/activity"
)

const (
	copyTitleSuffix = " (Copy)"
	copySlugSuffix  = "-copy"
)

// CopyPageInput duplicates a page next to the original.
type CopyPageInput struct {
	ID              uuid.UUID
	IncludeChildren bool
	Actor           uuid.UUID
}

// Copy duplicates a page with its content, styles and overrides. Copies are
// unpublished and never the homepage. Slugs gain "-copy" plus a numeric
// suffix when a sibling already uses it. When a descendant fails to copy, the
// pages created so far are deleted again.
func (s *service) Copy(ctx context.Context, input CopyPageInput) (*Page, error) {
	source, err := s.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	var created []uuid.UUID
	copied, count, err := s.copyRecursive(ctx, source, source.ParentID, input.IncludeChildren, &created)
	if err != nil {
		s.discardCopies(ctx, source.ID, created)
		return nil, err
	}
	s.invalidate(ctx)
	s.logger.Info("pages.copied",
		"page_id", source.ID,
		"copy_id", copied.ID,
		"pages", count,
	)
	s.emit(ctx, input.Actor, activity.VerbCopy, copied, map[string]any{
		"source_id": source.ID.String(),
		"pages":     count,
	})
	return copied, nil
}

func (s *service) copyRecursive(ctx context.Context, source *Page, parentID *uuid.UUID, children bool, created *[]uuid.UUID) (*Page, int, error) {
	slugValue, err := s.copySlug(ctx, source.SiteID, parentID, source.Slug)
	if err != nil {
		return nil, 0, err
	}
	now := s.now().UTC()
	page := &Page{
		ID:        s.newID(),
		SiteID:    source.SiteID,
		ParentID:  cloneID(parentID),
		Title:     copyTitle(source.Title),
		Slug:      slugValue,
		Content:   source.Content,
		Styles:    source.Styles,
		CreatedAt: now,
		UpdatedAt: now,
	}
	page.applyOverrides(source.Overrides())

	stored, err := s.repo.Create(ctx, page)
	if err != nil {
		return nil, 0, err
	}
	*created = append(*created, stored.ID)
	count := 1
	if !children {
		return stored, count, nil
	}

	kids, err := s.repo.ListChildren(ctx, source.SiteID, &source.ID)
	if err != nil {
		return nil, 0, err
	}
	for _, kid := range kids {
		_, n, err := s.copyRecursive(ctx, kid, &stored.ID, true, created)
		if err != nil {
			return nil, 0, err
		}
		count += n
	}
	return stored, count, nil
}

// discardCopies deletes a partial copy, deepest pages first. Cleanup runs
// even when ctx is already cancelled.
func (s *service) discardCopies(ctx context.Context, sourceID uuid.UUID, ids []uuid.UUID) {
	if len(ids) == 0 {
		return
	}
	cleanup := context.WithoutCancel(ctx)
	for i := len(ids) - 1; i >= 0; i-- {
		if err := s.repo.Delete(cleanup, ids[i]); err != nil && !isNotFound(err) {
			s.logger.Error("pages.copy.cleanup_failed",
				"page_id", sourceID,
				"copy_id", ids[i],
				"error", err,
			)
		}
	}
	s.invalidate(cleanup)
}

func (s *service) copySlug(ctx context.Context, siteID uuid.UUID, parentID *uuid.UUID, base string) (string, error) {
	candidate := base + copySlugSuffix
	for attempt := 2; ; attempt++ {
		_, err := s.repo.GetBySlug(ctx, siteID, parentID, candidate)
		if err != nil {
			if isNotFound(err) {
				return candidate, nil
			}
			return "", err
		}
		candidate = fmt.Sprintf("%s%s-%d", base, copySlugSuffix, attempt)
	}
}

func copyTitle(title string) string {
	runes := []rune(title)
	limit := MaxTitleLength - len([]rune(copyTitleSuffix))
	if len(runes) > limit {
		runes = runes[:limit]
	}
	return string(runes) + copyTitleSuffix
}
