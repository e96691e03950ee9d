package sites

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type memorySiteRepository struct {
	mu       sync.RWMutex
	byID     map[uuid.UUID]*Site
	byDomain map[string]uuid.UUID
}

// NewMemorySiteRepository constructs an in-memory repository for sites.
func NewMemorySiteRepository() SiteRepository {
	return &memorySiteRepository{
		byID:     make(map[uuid.UUID]*Site),
		byDomain: make(map[string]uuid.UUID),
	}
}

func (m *memorySiteRepository) Create(_ context.Context, site *Site) (*Site, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneSite(site)
	m.byID[cloned.ID] = cloned
	if cloned.Domain != "" {
		m.byDomain[cloned.Domain] = cloned.ID
	}
	return cloneSite(cloned), nil
}

func (m *memorySiteRepository) GetByID(_ context.Context, id uuid.UUID) (*Site, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "site", Key: id.String()}
	}
	return cloneSite(record), nil
}

func (m *memorySiteRepository) GetByDomain(_ context.Context, domain string) (*Site, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byDomain[domain]
	if !ok {
		return nil, &NotFoundError{Resource: "site", Key: domain}
	}
	return cloneSite(m.byID[id]), nil
}

func (m *memorySiteRepository) List(_ context.Context) ([]*Site, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*Site, 0, len(m.byID))
	for _, record := range m.byID {
		records = append(records, cloneSite(record))
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Name < records[j].Name })
	return records, nil
}

func (m *memorySiteRepository) Update(_ context.Context, site *Site) (*Site, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[site.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "site", Key: site.ID.String()}
	}
	if existing.Domain != site.Domain {
		delete(m.byDomain, existing.Domain)
	}
	cloned := cloneSite(site)
	m.byID[cloned.ID] = cloned
	if cloned.Domain != "" {
		m.byDomain[cloned.Domain] = cloned.ID
	}
	return cloneSite(cloned), nil
}

func (m *memorySiteRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[id]
	if !ok {
		return &NotFoundError{Resource: "site", Key: id.String()}
	}
	delete(m.byDomain, existing.Domain)
	delete(m.byID, id)
	return nil
}
