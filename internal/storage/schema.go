package storage

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitebuilder/internal/footers"
	"github.com/goliatone/go-sitebuilder/internal/menus"
	"github.com/goliatone/go-sitebuilder/internal/pages"
	"github.com/goliatone/go-sitebuilder/internal/sites"
)

// Models lists every persisted record type in creation order.
func Models() []any {
	return []any{
		(*sites.Site)(nil),
		(*pages.Page)(nil),
		(*menus.Menu)(nil),
		(*menus.MenuItem)(nil),
		(*footers.Footer)(nil),
	}
}

type index struct {
	model   any
	name    string
	columns []string
}

var indexes = []index{
	{(*pages.Page)(nil), "idx_pages_site_parent", []string{"site_id", "parent_id"}},
	{(*menus.Menu)(nil), "idx_menus_site_position", []string{"site_id", "position"}},
	{(*menus.MenuItem)(nil), "idx_menu_items_menu_position", []string{"menu_id", "position"}},
	{(*footers.Footer)(nil), "idx_footers_site", []string{"site_id"}},
}

// EnsureSchema creates missing tables and indexes. Existing tables are left
// untouched.
func EnsureSchema(ctx context.Context, db bun.IDB) error {
	for _, model := range Models() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("storage: create table for %T: %w", model, err)
		}
	}
	for _, idx := range indexes {
		if _, err := db.NewCreateIndex().
			Model(idx.model).
			Index(idx.name).
			Column(idx.columns...).
			IfNotExists().
			Exec(ctx); err != nil {
			return fmt.Errorf("storage: create index %s: %w", idx.name, err)
		}
	}
	return nil
}
