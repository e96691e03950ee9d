package pages

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// ResolvePublic walks slug segments from the site root, matching only
// published pages. A blank path resolves the homepage.
func (s *service) ResolvePublic(ctx context.Context, siteID uuid.UUID, path string) (*Page, error) {
	segments := splitPath(path)
	if len(segments) == 0 {
		return s.Homepage(ctx, siteID)
	}

	var (
		parentID *uuid.UUID
		page     *Page
	)
	for _, segment := range segments {
		found, err := s.repo.GetBySlug(ctx, siteID, parentID, segment)
		if err != nil {
			return nil, translateNotFound(err)
		}
		if !found.Published {
			return nil, ErrPageNotFound
		}
		page = found
		parentID = &found.ID
	}
	return page, nil
}

// Homepage resolves the public landing page of a site: the published page
// flagged as homepage, then the root page "home", then the root page
// "index", then the first published root page.
func (s *service) Homepage(ctx context.Context, siteID uuid.UUID) (*Page, error) {
	records, err := s.repo.ListBySite(ctx, siteID)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		if record.IsHomepage && record.Published {
			return record, nil
		}
	}
	for _, candidate := range []string{"home", "index"} {
		for _, record := range records {
			if record.ParentID == nil && record.Published && record.Slug == candidate {
				return record, nil
			}
		}
	}
	for _, record := range records {
		if record.ParentID == nil && record.Published {
			return record, nil
		}
	}
	return nil, ErrNoHomepage
}

// Ancestors returns the parents of page ordered from the root down.
func (s *service) Ancestors(ctx context.Context, page *Page) ([]*Page, error) {
	if page == nil {
		return nil, ErrPageNotFound
	}
	var chain []*Page
	seen := map[uuid.UUID]struct{}{page.ID: {}}
	current := page
	for current.ParentID != nil {
		parentID := *current.ParentID
		if _, loop := seen[parentID]; loop {
			return nil, ErrPageHierarchyCycle
		}
		seen[parentID] = struct{}{}
		parent, err := s.repo.GetByID(ctx, parentID)
		if err != nil {
			if isNotFound(err) {
				break
			}
			return nil, err
		}
		chain = append(chain, parent)
		current = parent
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// FullPath joins the slugs of page and its ancestors, e.g. "about/team".
func (s *service) FullPath(ctx context.Context, page *Page) (string, error) {
	ancestors, err := s.Ancestors(ctx, page)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(ancestors)+1)
	for _, ancestor := range ancestors {
		parts = append(parts, ancestor.Slug)
	}
	parts = append(parts, page.Slug)
	return strings.Join(parts, "/"), nil
}

// Move reparents a page, rejecting moves below its own descendants.
func (s *service) Move(ctx context.Context, input MovePageInput) (*Page, error) {
	page, err := s.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if sameParent(page.ParentID, input.ParentID) {
		return page, nil
	}
	if input.ParentID != nil {
		if *input.ParentID == page.ID {
			return nil, ErrPageHierarchyCycle
		}
		parent, err := s.Get(ctx, *input.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.SiteID != page.SiteID {
			return nil, ErrPageParentInvalid
		}
		ancestors, err := s.Ancestors(ctx, parent)
		if err != nil {
			return nil, err
		}
		for _, ancestor := range ancestors {
			if ancestor.ID == page.ID {
				return nil, ErrPageHierarchyCycle
			}
		}
	}
	if err := s.ensureSlugFree(ctx, page.SiteID, input.ParentID, page.Slug, page.ID); err != nil {
		return nil, err
	}
	page.ParentID = cloneID(input.ParentID)
	return s.save(ctx, page)
}

func splitPath(path string) []string {
	var segments []string
	for _, part := range strings.Split(strings.Trim(path, "/"), "/") {
		if part = strings.TrimSpace(part); part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}
