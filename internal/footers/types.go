package footers

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Footer is the bottom container of a site.
type Footer struct {
	bun.BaseModel `bun:"table:footers,alias:f"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	SiteID    uuid.UUID `bun:"site_id,notnull,type:uuid" json:"site_id"`
	Name      string    `bun:"name,notnull" json:"name"`
	IsActive  bool      `bun:"is_active,notnull,default:false" json:"is_active"`
	Content   string    `bun:"content,notnull,default:'[]'" json:"content"`
	Styles    string    `bun:"footer_styles,notnull,default:'{}'" json:"footer_styles"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

func cloneFooter(footer *Footer) *Footer {
	if footer == nil {
		return nil
	}
	cloned := *footer
	return &cloned
}
