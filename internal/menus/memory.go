package menus

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type memoryMenuRepository struct {
	mu    sync.RWMutex
	menus map[uuid.UUID]*Menu
}

// NewMemoryMenuRepository constructs an in-memory menu store.
func NewMemoryMenuRepository() MenuRepository {
	return &memoryMenuRepository{menus: make(map[uuid.UUID]*Menu)}
}

func (m *memoryMenuRepository) Create(_ context.Context, menu *Menu) (*Menu, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneMenu(menu)
	m.menus[cloned.ID] = cloned
	return cloneMenu(cloned), nil
}

func (m *memoryMenuRepository) GetByID(_ context.Context, id uuid.UUID) (*Menu, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	menu, ok := m.menus[id]
	if !ok {
		return nil, &NotFoundError{Resource: "menu", Key: id.String()}
	}
	return cloneMenu(menu), nil
}

func (m *memoryMenuRepository) ListBySite(_ context.Context, siteID uuid.UUID) ([]*Menu, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Menu
	for _, menu := range m.menus {
		if menu.SiteID == siteID {
			out = append(out, cloneMenu(menu))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (m *memoryMenuRepository) Update(_ context.Context, menu *Menu) (*Menu, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.menus[menu.ID]; !ok {
		return nil, &NotFoundError{Resource: "menu", Key: menu.ID.String()}
	}
	cloned := cloneMenu(menu)
	m.menus[cloned.ID] = cloned
	return cloneMenu(cloned), nil
}

func (m *memoryMenuRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.menus[id]; !ok {
		return &NotFoundError{Resource: "menu", Key: id.String()}
	}
	delete(m.menus, id)
	return nil
}

type memoryMenuItemRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*MenuItem
}

// NewMemoryMenuItemRepository constructs an in-memory menu item store.
func NewMemoryMenuItemRepository() MenuItemRepository {
	return &memoryMenuItemRepository{items: make(map[uuid.UUID]*MenuItem)}
}

func (m *memoryMenuItemRepository) Create(_ context.Context, item *MenuItem) (*MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneMenuItem(item)
	m.items[cloned.ID] = cloned
	return cloneMenuItem(cloned), nil
}

func (m *memoryMenuItemRepository) GetByID(_ context.Context, id uuid.UUID) (*MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.items[id]
	if !ok {
		return nil, &NotFoundError{Resource: "menu item", Key: id.String()}
	}
	return cloneMenuItem(item), nil
}

func (m *memoryMenuItemRepository) ListByMenu(_ context.Context, menuID uuid.UUID) ([]*MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*MenuItem
	for _, item := range m.items {
		if item.MenuID == menuID {
			out = append(out, cloneMenuItem(item))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (m *memoryMenuItemRepository) Update(_ context.Context, item *MenuItem) (*MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[item.ID]; !ok {
		return nil, &NotFoundError{Resource: "menu item", Key: item.ID.String()}
	}
	cloned := cloneMenuItem(item)
	m.items[cloned.ID] = cloned
	return cloneMenuItem(cloned), nil
}

func (m *memoryMenuItemRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[id]; !ok {
		return &NotFoundError{Resource: "menu item", Key: id.String()}
	}
	delete(m.items, id)
	return nil
}

func (m *memoryMenuItemRepository) BulkUpdatePositions(_ context.Context, items []*MenuItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, item := range items {
		stored, ok := m.items[item.ID]
		if !ok {
			return &NotFoundError{Resource: "menu item", Key: item.ID.String()}
		}
		stored.Position = item.Position
		stored.UpdatedAt = item.UpdatedAt
	}
	return nil
}
