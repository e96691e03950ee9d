package footers

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewFooterRepository creates a repository for Footer entities.
func NewFooterRepository(db *bun.DB) repository.Repository[*Footer] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Footer]{
		NewRecord: func() *Footer { return &Footer{} },
		GetID: func(f *Footer) uuid.UUID {
			return f.ID
		},
		SetID: func(f *Footer, id uuid.UUID) {
			f.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(f *Footer) string {
			return f.ID.String()
		},
	})
}
