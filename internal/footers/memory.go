package footers

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type memoryFooterRepository struct {
	mu      sync.RWMutex
	footers map[uuid.UUID]*Footer
}

// NewMemoryFooterRepository constructs an in-memory footer store.
func NewMemoryFooterRepository() FooterRepository {
	return &memoryFooterRepository{footers: make(map[uuid.UUID]*Footer)}
}

func (m *memoryFooterRepository) Create(_ context.Context, footer *Footer) (*Footer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneFooter(footer)
	m.footers[cloned.ID] = cloned
	return cloneFooter(cloned), nil
}

func (m *memoryFooterRepository) GetByID(_ context.Context, id uuid.UUID) (*Footer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	footer, ok := m.footers[id]
	if !ok {
		return nil, &NotFoundError{Resource: "footer", Key: id.String()}
	}
	return cloneFooter(footer), nil
}

func (m *memoryFooterRepository) ListBySite(_ context.Context, siteID uuid.UUID) ([]*Footer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Footer
	for _, footer := range m.footers {
		if footer.SiteID == siteID {
			out = append(out, cloneFooter(footer))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (m *memoryFooterRepository) Update(_ context.Context, footer *Footer) (*Footer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.footers[footer.ID]; !ok {
		return nil, &NotFoundError{Resource: "footer", Key: footer.ID.String()}
	}
	cloned := cloneFooter(footer)
	m.footers[cloned.ID] = cloned
	return cloneFooter(cloned), nil
}

func (m *memoryFooterRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.footers[id]; !ok {
		return &NotFoundError{Resource: "footer", Key: id.String()}
	}
	delete(m.footers, id)
	return nil
}
