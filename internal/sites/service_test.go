package sites_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-sitebuilder/internal/sites"
	"github.com/goliatone/go-sitebuilder/pkg/testsupport"
)

func TestNormalizeDomain(t *testing.T) {
	cases := map[string]string{
		"Example.COM":       "example.com",
		"example.com:8080":  "example.com",
		" shop.example.io ": "shop.example.io",
		"example.com.":      "example.com",
		"[::1]:5000":        "::1",
		"":                  "",
	}
	for input, want := range cases {
		if got := sites.NormalizeDomain(input); got != want {
			t.Fatalf("NormalizeDomain(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestIsAdminHost(t *testing.T) {
	admins := []string{"admin.example.com", "localhost:5000"}
	if !sites.IsAdminHost("ADMIN.example.com:443", admins) {
		t.Fatalf("expected admin host match")
	}
	if !sites.IsAdminHost("localhost", admins) {
		t.Fatalf("expected port-insensitive match")
	}
	if sites.IsAdminHost("shop.example.com", admins) {
		t.Fatalf("expected non-admin host")
	}
}

func TestServiceCreateAndLookupByDomain(t *testing.T) {
	ctx := context.Background()
	svc := sites.NewService(sites.NewMemorySiteRepository())

	site, err := svc.Create(ctx, sites.CreateSiteInput{Name: "Acme", Domain: "Acme.Example.com:8080"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if site.Domain != "acme.example.com" {
		t.Fatalf("expected normalised domain, got %q", site.Domain)
	}

	found, err := svc.GetByDomain(ctx, "ACME.example.com:3000")
	if err != nil {
		t.Fatalf("get by domain: %v", err)
	}
	if found.ID != site.ID {
		t.Fatalf("expected %s, got %s", site.ID, found.ID)
	}

	if _, err := svc.GetByDomain(ctx, "unknown.example.com"); !errors.Is(err, sites.ErrSiteNotFound) {
		t.Fatalf("expected ErrSiteNotFound, got %v", err)
	}
}

func TestServiceRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	svc := sites.NewService(sites.NewMemorySiteRepository())

	if _, err := svc.Create(ctx, sites.CreateSiteInput{Name: " "}); err == nil {
		t.Fatalf("expected name required error")
	}
	if _, err := svc.Create(ctx, sites.CreateSiteInput{Name: "Bad", Domain: "bad_domain!"}); err == nil {
		t.Fatalf("expected domain format error")
	}

	if _, err := svc.Create(ctx, sites.CreateSiteInput{Name: "One", Domain: "one.example.com"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, sites.CreateSiteInput{Name: "Two", Domain: "ONE.example.com"}); !errors.Is(err, sites.ErrSiteDomainExists) {
		t.Fatalf("expected ErrSiteDomainExists, got %v", err)
	}
}

func TestServiceUpdateDomain(t *testing.T) {
	ctx := context.Background()
	svc := sites.NewService(sites.NewMemorySiteRepository())

	site, err := svc.Create(ctx, sites.CreateSiteInput{Name: "Acme"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	domain := "www.acme.test"
	updated, err := svc.Update(ctx, sites.UpdateSiteInput{ID: site.ID, Domain: &domain})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Domain != domain || updated.Name != "Acme" {
		t.Fatalf("unexpected update result %+v", updated)
	}
	if _, err := svc.GetByDomain(ctx, domain); err != nil {
		t.Fatalf("lookup after update: %v", err)
	}
}

func TestBunSiteRepositoryWithCache(t *testing.T) {
	ctx := context.Background()
	db := testsupport.NewBunDB(t, (*sites.Site)(nil))
	cacheService, serializer := testsupport.NewCache(t)

	repo := sites.NewBunSiteRepositoryWithCache(db, cacheService, serializer)
	svc := sites.NewService(repo)

	first, err := svc.Create(ctx, sites.CreateSiteInput{Name: "Beta", Domain: "beta.example.com"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, sites.CreateSiteInput{Name: "Alpha"}); err != nil {
		t.Fatalf("create without domain: %v", err)
	}
	if _, err := svc.Create(ctx, sites.CreateSiteInput{Name: "Gamma"}); err != nil {
		t.Fatalf("second site without domain: %v", err)
	}

	found, err := svc.GetByDomain(ctx, "Beta.example.com:80")
	if err != nil {
		t.Fatalf("get by domain: %v", err)
	}
	if found.ID != first.ID {
		t.Fatalf("expected %s, got %s", first.ID, found.ID)
	}

	listed, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 3 || listed[0].Name != "Alpha" {
		t.Fatalf("expected three sites ordered by name, got %+v", listed)
	}

	if err := repo.InvalidateCache(ctx); err != nil {
		t.Fatalf("invalidate cache: %v", err)
	}
	if err := svc.Delete(ctx, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, first.ID); err == nil {
		t.Fatalf("expected deleted site to be missing")
	}
}
