package pages

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitebuilder/internal/domain"
)

// Page is a site page owning one widget tree and a style blob. The menu and
// footer columns are overrides: nil inherits, uuid.Nil disables the region,
// any other value selects a record.
type Page struct {
	bun.BaseModel `bun:"table:pages,alias:p"`

	ID          uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	SiteID      uuid.UUID  `bun:"site_id,notnull,type:uuid" json:"site_id"`
	ParentID    *uuid.UUID `bun:"parent_id,type:uuid" json:"parent_id,omitempty"`
	Title       string     `bun:"title,notnull" json:"title"`
	Slug        string     `bun:"slug,notnull" json:"slug"`
	Content     string     `bun:"content,notnull,default:'[]'" json:"content"`
	Styles      string     `bun:"page_styles,notnull,default:'{}'" json:"page_styles"`
	Published   bool       `bun:"published,notnull,default:false" json:"published"`
	IsHomepage  bool       `bun:"is_homepage,notnull,default:false" json:"is_homepage"`
	TopMenuID   *uuid.UUID `bun:"top_menu_id,type:uuid" json:"top_menu_id,omitempty"`
	LeftMenuID  *uuid.UUID `bun:"left_menu_id,type:uuid" json:"left_menu_id,omitempty"`
	RightMenuID *uuid.UUID `bun:"right_menu_id,type:uuid" json:"right_menu_id,omitempty"`
	FooterID    *uuid.UUID `bun:"footer_id,type:uuid" json:"footer_id,omitempty"`
	CreatedAt   time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Status reports the publication state.
func (p *Page) Status() domain.Status {
	return domain.StatusFor(p.Published)
}

// MenuOverride returns the override column for position.
func (p *Page) MenuOverride(position domain.Position) *uuid.UUID {
	switch position {
	case domain.PositionTop:
		return p.TopMenuID
	case domain.PositionLeft:
		return p.LeftMenuID
	case domain.PositionRight:
		return p.RightMenuID
	default:
		return nil
	}
}

// Overrides groups the menu and footer override columns of a page.
type Overrides struct {
	TopMenuID   *uuid.UUID
	LeftMenuID  *uuid.UUID
	RightMenuID *uuid.UUID
	FooterID    *uuid.UUID
}

// Overrides returns the current override columns.
func (p *Page) Overrides() Overrides {
	return Overrides{
		TopMenuID:   cloneID(p.TopMenuID),
		LeftMenuID:  cloneID(p.LeftMenuID),
		RightMenuID: cloneID(p.RightMenuID),
		FooterID:    cloneID(p.FooterID),
	}
}

func (p *Page) applyOverrides(o Overrides) {
	p.TopMenuID = cloneID(o.TopMenuID)
	p.LeftMenuID = cloneID(o.LeftMenuID)
	p.RightMenuID = cloneID(o.RightMenuID)
	p.FooterID = cloneID(o.FooterID)
}

func sameParent(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func cloneID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	cloned := *id
	return &cloned
}

func clonePage(page *Page) *Page {
	if page == nil {
		return nil
	}
	cloned := *page
	cloned.ParentID = cloneID(page.ParentID)
	cloned.applyOverrides(page.Overrides())
	return &cloned
}
