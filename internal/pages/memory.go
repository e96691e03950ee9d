package pages

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type memoryPageRepository struct {
	mu    sync.RWMutex
	pages map[uuid.UUID]*Page
}

// NewMemoryPageRepository constructs an in-memory page store.
func NewMemoryPageRepository() PageRepository {
	return &memoryPageRepository{pages: make(map[uuid.UUID]*Page)}
}

func (m *memoryPageRepository) Create(_ context.Context, page *Page) (*Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := clonePage(page)
	m.pages[cloned.ID] = cloned
	return clonePage(cloned), nil
}

func (m *memoryPageRepository) GetByID(_ context.Context, id uuid.UUID) (*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	page, ok := m.pages[id]
	if !ok {
		return nil, &NotFoundError{Resource: "page", Key: id.String()}
	}
	return clonePage(page), nil
}

func (m *memoryPageRepository) GetBySlug(_ context.Context, siteID uuid.UUID, parentID *uuid.UUID, slug string) (*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, page := range m.sorted() {
		if page.SiteID == siteID && sameParent(page.ParentID, parentID) && page.Slug == slug {
			return clonePage(page), nil
		}
	}
	return nil, &NotFoundError{Resource: "page", Key: slugKey(siteID, parentID, slug)}
}

func (m *memoryPageRepository) ListBySite(_ context.Context, siteID uuid.UUID) ([]*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Page
	for _, page := range m.sorted() {
		if page.SiteID == siteID {
			out = append(out, clonePage(page))
		}
	}
	return out, nil
}

func (m *memoryPageRepository) ListChildren(_ context.Context, siteID uuid.UUID, parentID *uuid.UUID) ([]*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Page
	for _, page := range m.sorted() {
		if page.SiteID == siteID && sameParent(page.ParentID, parentID) {
			out = append(out, clonePage(page))
		}
	}
	return out, nil
}

func (m *memoryPageRepository) Update(_ context.Context, page *Page) (*Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.pages[page.ID]; !ok {
		return nil, &NotFoundError{Resource: "page", Key: page.ID.String()}
	}
	cloned := clonePage(page)
	m.pages[cloned.ID] = cloned
	return clonePage(cloned), nil
}

func (m *memoryPageRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.pages[id]; !ok {
		return &NotFoundError{Resource: "page", Key: id.String()}
	}
	delete(m.pages, id)
	return nil
}

// sorted returns the stored records in creation order. Callers hold the lock.
func (m *memoryPageRepository) sorted() []*Page {
	out := make([]*Page, 0, len(m.pages))
	for _, page := range m.pages {
		out = append(out, page)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}
