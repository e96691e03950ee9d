package sites

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Site is the top-level tenant owning pages, menus and footers.
type Site struct {
	bun.BaseModel `bun:"table:sites,alias:s"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Domain    string    `bun:"domain,nullzero,unique" json:"domain,omitempty"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

func cloneSite(site *Site) *Site {
	if site == nil {
		return nil
	}
	cloned := *site
	return &cloned
}
