package menus

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitebuilder/internal/domain"
)

const (
	LinkTypePage   = "page"
	LinkTypeCustom = "custom"
)

// Menu is a navigation container rendered in one page region.
type Menu struct {
	bun.BaseModel `bun:"table:menus,alias:m"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	SiteID    uuid.UUID `bun:"site_id,notnull,type:uuid" json:"site_id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Position  string    `bun:"position,notnull,default:'top'" json:"position"`
	IsActive  bool      `bun:"is_active,notnull,default:false" json:"is_active"`
	IsSticky  bool      `bun:"is_sticky,notnull,default:false" json:"is_sticky"`
	Content   string    `bun:"content,notnull,default:'[]'" json:"content"`
	Styles    string    `bun:"menu_styles,notnull,default:'{}'" json:"menu_styles"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Region returns the typed menu position.
func (m *Menu) Region() domain.Position {
	return domain.Position(m.Position)
}

// MenuItem is one ordered entry of a menu linking to a page or a URL.
type MenuItem struct {
	bun.BaseModel `bun:"table:menu_items,alias:mi"`

	ID        uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	MenuID    uuid.UUID  `bun:"menu_id,notnull,type:uuid" json:"menu_id"`
	Label     string     `bun:"label,notnull" json:"label"`
	LinkType  string     `bun:"link_type,notnull,default:'page'" json:"link_type"`
	PageID    *uuid.UUID `bun:"page_id,type:uuid" json:"page_id,omitempty"`
	CustomURL string     `bun:"custom_url" json:"custom_url,omitempty"`
	Position  int        `bun:"position,notnull,default:0" json:"position"`
	CreatedAt time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// NavigationItem is a menu item with its resolved URL.
type NavigationItem struct {
	ID       uuid.UUID  `json:"id"`
	Label    string     `json:"label"`
	URL      string     `json:"url"`
	LinkType string     `json:"link_type"`
	PageID   *uuid.UUID `json:"page_id,omitempty"`
}

func cloneMenu(menu *Menu) *Menu {
	if menu == nil {
		return nil
	}
	cloned := *menu
	return &cloned
}

func cloneMenuItem(item *MenuItem) *MenuItem {
	if item == nil {
		return nil
	}
	cloned := *item
	if item.PageID != nil {
		id := *item.PageID
		cloned.PageID = &id
	}
	return &cloned
}
