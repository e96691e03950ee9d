package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestPageUUIDIsStable(t *testing.T) {
	site := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	first := PageUUID(site, "About/Team")
	second := PageUUID(site, "/about/team/")
	if first == uuid.Nil || first != second {
		t.Fatalf("expected normalised stable ids, got %s and %s", first, second)
	}
	if other := PageUUID(uuid.New(), "about/team"); other == first {
		t.Fatalf("expected site to scope page ids")
	}
}

func TestUUIDBlankKey(t *testing.T) {
	if got := UUID("   "); got != uuid.Nil {
		t.Fatalf("expected nil uuid for blank key, got %s", got)
	}
	if WidgetID(uuid.Nil, "row") == WidgetID(uuid.Nil, "column") {
		t.Fatalf("expected distinct widget ids per key")
	}
	if SiteUUID("Example.com") != SiteUUID("example.com") {
		t.Fatalf("expected case-insensitive site ids")
	}
}
