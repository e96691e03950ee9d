package menus

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitebuilder/internal/sanitize"
)

// AddItemInput appends or inserts a menu item. A nil Position appends.
type AddItemInput struct {
	MenuID    uuid.UUID
	Label     string
	LinkType  string
	PageID    *uuid.UUID
	CustomURL string
	Position  *int
}

// Validate checks the label and link target.
func (in AddItemInput) Validate() error {
	if err := validation.ValidateStruct(&in,
		validation.Field(&in.Label, validation.Required, validation.RuneLength(1, MaxLabelLength)),
		validation.Field(&in.CustomURL, validation.RuneLength(0, MaxURLLength)),
	); err != nil {
		return err
	}
	return validateLink(in.LinkType, in.PageID, in.CustomURL)
}

// UpdateItemInput changes item fields when set. Switching LinkType requires
// the matching target.
type UpdateItemInput struct {
	ID        uuid.UUID
	Label     *string
	LinkType  *string
	PageID    *uuid.UUID
	CustomURL *string
}

func validateLink(linkType string, pageID *uuid.UUID, customURL string) error {
	switch linkType {
	case LinkTypePage:
		if pageID == nil || *pageID == uuid.Nil {
			return ErrMenuItemPageRequired
		}
	case LinkTypeCustom:
		if strings.TrimSpace(customURL) == "" {
			return ErrMenuItemURLRequired
		}
		if !sanitize.SafeURL(customURL) {
			return ErrMenuItemURLUnsafe
		}
	default:
		return ErrMenuItemLinkInvalid
	}
	return nil
}

func (s *service) AddItem(ctx context.Context, input AddItemInput) (*MenuItem, error) {
	input.Label = strings.TrimSpace(input.Label)
	input.LinkType = strings.ToLower(strings.TrimSpace(input.LinkType))
	input.CustomURL = strings.TrimSpace(input.CustomURL)
	if input.LinkType == "" {
		input.LinkType = LinkTypePage
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	menu, err := s.Get(ctx, input.MenuID)
	if err != nil {
		return nil, err
	}
	existing, err := s.items.ListByMenu(ctx, menu.ID)
	if err != nil {
		return nil, err
	}

	index := len(existing)
	if input.Position != nil && *input.Position >= 0 && *input.Position < len(existing) {
		index = *input.Position
	}
	now := s.now().UTC()
	item := &MenuItem{
		ID:        s.newID(),
		MenuID:    menu.ID,
		Label:     input.Label,
		LinkType:  input.LinkType,
		Position:  index,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if input.LinkType == LinkTypePage {
		id := *input.PageID
		item.PageID = &id
	} else {
		item.CustomURL = input.CustomURL
	}

	created, err := s.items.Create(ctx, item)
	if err != nil {
		return nil, err
	}
	if index < len(existing) {
		shifted := existing[index:]
		for i, other := range shifted {
			other.Position = index + i + 1
			other.UpdatedAt = now
		}
		if err := s.items.BulkUpdatePositions(ctx, shifted); err != nil {
			return nil, err
		}
	}
	s.invalidate(ctx)
	s.logger.Info("menus.item.added", "menu_id", menu.ID, "item_id", created.ID, "position", created.Position)
	return created, nil
}

func (s *service) UpdateItem(ctx context.Context, input UpdateItemInput) (*MenuItem, error) {
	item, err := s.items.GetByID(ctx, input.ID)
	if err != nil {
		return nil, translateNotFound(err, ErrMenuItemNotFound)
	}
	candidate := AddItemInput{
		MenuID:    item.MenuID,
		Label:     item.Label,
		LinkType:  item.LinkType,
		PageID:    item.PageID,
		CustomURL: item.CustomURL,
	}
	if input.Label != nil {
		candidate.Label = strings.TrimSpace(*input.Label)
	}
	if input.LinkType != nil {
		candidate.LinkType = strings.ToLower(strings.TrimSpace(*input.LinkType))
	}
	if input.PageID != nil {
		candidate.PageID = input.PageID
	}
	if input.CustomURL != nil {
		candidate.CustomURL = strings.TrimSpace(*input.CustomURL)
	}
	if err := candidate.Validate(); err != nil {
		return nil, err
	}

	item.Label = candidate.Label
	item.LinkType = candidate.LinkType
	item.PageID = nil
	item.CustomURL = ""
	if candidate.LinkType == LinkTypePage {
		id := *candidate.PageID
		item.PageID = &id
	} else {
		item.CustomURL = candidate.CustomURL
	}
	item.UpdatedAt = s.now().UTC()
	updated, err := s.items.Update(ctx, item)
	if err != nil {
		return nil, translateNotFound(err, ErrMenuItemNotFound)
	}
	s.invalidate(ctx)
	return updated, nil
}

// DeleteItem removes an item and closes the gap in the remaining order.
func (s *service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return translateNotFound(err, ErrMenuItemNotFound)
	}
	if err := s.items.Delete(ctx, item.ID); err != nil {
		return translateNotFound(err, ErrMenuItemNotFound)
	}
	remaining, err := s.items.ListByMenu(ctx, item.MenuID)
	if err != nil {
		return err
	}
	if err := s.renumber(ctx, remaining); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *service) Items(ctx context.Context, menuID uuid.UUID) ([]*MenuItem, error) {
	if _, err := s.Get(ctx, menuID); err != nil {
		return nil, err
	}
	return s.items.ListByMenu(ctx, menuID)
}

// ReorderItems assigns positions following order, which must name every
// item of the menu once.
func (s *service) ReorderItems(ctx context.Context, menuID uuid.UUID, order []uuid.UUID) ([]*MenuItem, error) {
	items, err := s.Items(ctx, menuID)
	if err != nil {
		return nil, err
	}
	if len(order) != len(items) {
		return nil, ErrReorderMismatch
	}
	byID := make(map[uuid.UUID]*MenuItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	reordered := make([]*MenuItem, 0, len(order))
	for _, id := range order {
		item, ok := byID[id]
		if !ok {
			return nil, ErrReorderMismatch
		}
		delete(byID, id)
		reordered = append(reordered, item)
	}
	if err := s.renumber(ctx, reordered); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.logger.Info("menus.items.reordered", "menu_id", menuID, "items", len(reordered))
	return reordered, nil
}

func (s *service) renumber(ctx context.Context, items []*MenuItem) error {
	now := s.now().UTC()
	var changed []*MenuItem
	for i, item := range items {
		if item.Position == i {
			continue
		}
		item.Position = i
		item.UpdatedAt = now
		changed = append(changed, item)
	}
	return s.items.BulkUpdatePositions(ctx, changed)
}

// ResolveItems returns the ordered items of a menu with their URLs. Page
// items whose page is missing resolve to "#".
func (s *service) ResolveItems(ctx context.Context, menuID uuid.UUID) ([]NavigationItem, error) {
	menu, err := s.Get(ctx, menuID)
	if err != nil {
		return nil, err
	}
	items, err := s.items.ListByMenu(ctx, menu.ID)
	if err != nil {
		return nil, err
	}
	out := make([]NavigationItem, 0, len(items))
	for _, item := range items {
		req := ResolveRequest{Menu: menu, Item: item}
		if item.LinkType == LinkTypePage {
			if !s.lookupPage(ctx, &req) {
				out = append(out, navigationItem(item, "#"))
				continue
			}
		}
		url, err := s.resolver.Resolve(ctx, req)
		if err != nil {
			s.logger.Warn("menus.item.resolve_failed", "menu_id", menu.ID, "item_id", item.ID, "error", err)
			url = ""
		}
		if strings.TrimSpace(url) == "" {
			url = "#"
		}
		out = append(out, navigationItem(item, url))
	}
	return out, nil
}

func (s *service) lookupPage(ctx context.Context, req *ResolveRequest) bool {
	if s.pages == nil || req.Item.PageID == nil {
		return false
	}
	page, err := s.pages.Get(ctx, *req.Item.PageID)
	if err != nil {
		s.logger.Warn("menus.item.page_missing", "item_id", req.Item.ID, "page_id", *req.Item.PageID, "error", err)
		return false
	}
	path, err := s.pages.FullPath(ctx, page)
	if err != nil {
		s.logger.Warn("menus.item.page_path_failed", "item_id", req.Item.ID, "page_id", page.ID, "error", err)
		return false
	}
	req.Page = page
	req.Path = path
	return true
}

func navigationItem(item *MenuItem, url string) NavigationItem {
	nav := NavigationItem{
		ID:       item.ID,
		Label:    item.Label,
		URL:      url,
		LinkType: item.LinkType,
	}
	if item.PageID != nil {
		id := *item.PageID
		nav.PageID = &id
	}
	return nav
}
