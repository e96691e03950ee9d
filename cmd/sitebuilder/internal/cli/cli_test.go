package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("", nil)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Logging.Provider != "none" {
		t.Fatalf("expected logging disabled by default, got %q", cfg.Logging.Provider)
	}
	if cfg.Render.GridPrefix != "col-md-" || cfg.Validation.MaxDepth != 32 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Cache.DefaultTTL != time.Minute {
		t.Fatalf("expected 1m cache ttl, got %v", cfg.Cache.DefaultTTL)
	}
}

func TestLoadConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sitebuilder.yaml")
	yaml := "validation:\n  strict: true\n  max_depth: 4\nrender:\n  grid_prefix: col-\n  default_mode: public\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SITEBUILDER_VALIDATION__MAX_DEPTH", "8")
	t.Setenv("SITEBUILDER_RENDER__DEFAULT_MODE", "public")

	flags := NewRootCmd().PersistentFlags()
	if err := flags.Parse([]string{"--mode", "preview"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := LoadConfig(path, flags)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.Validation.Strict || cfg.Render.GridPrefix != "col-" {
		t.Fatalf("expected file values, got %+v", cfg.Validation)
	}
	if cfg.Validation.MaxDepth != 8 {
		t.Fatalf("expected env to override file, got %d", cfg.Validation.MaxDepth)
	}
	if cfg.Render.DefaultMode != "preview" {
		t.Fatalf("expected flag to override env, got %q", cfg.Render.DefaultMode)
	}
}

func TestRenderCommandReadsStdin(t *testing.T) {
	doc := `[{"id":"h1","type":"heading","attributes":{"level":1,"content":"Hi"}}]`
	stdout, _, err := runCLI(t, doc, "render")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(stdout, "<h1") || !strings.Contains(stdout, "Hi") {
		t.Fatalf("unexpected markup %q", stdout)
	}
}

func TestRenderCommandReportsUnknownTypes(t *testing.T) {
	doc := `[{"id":"x1","type":"carousel","attributes":{}}]`
	_, stderr, err := runCLI(t, doc, "render")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(stderr, "carousel") {
		t.Fatalf("expected unknown type warning, got %q", stderr)
	}
}

func TestValidateCommand(t *testing.T) {
	doc := `[{"id":"c1","type":"column","attributes":{"width":15}}]`

	stdout, _, err := runCLI(t, doc, "validate")
	if err != nil {
		t.Fatalf("non-strict validate: %v", err)
	}
	if !strings.Contains(stdout, "ok: 1 widgets, 1 issues") {
		t.Fatalf("unexpected report %q", stdout)
	}

	stdout, _, err = runCLI(t, doc, "validate", "--strict")
	if !errors.Is(err, ErrDocumentRejected) {
		t.Fatalf("expected strict rejection, got %v", err)
	}
	if !strings.Contains(stdout, "error:") {
		t.Fatalf("expected error lines, got %q", stdout)
	}

	if _, _, err := runCLI(t, `{"not":"a list"}`, "validate"); !errors.Is(err, ErrDocumentRejected) {
		t.Fatalf("expected malformed rejection, got %v", err)
	}
}

func TestFmtCommandIsIdempotent(t *testing.T) {
	doc := `[{"type":"row","id":"r1","children":[{"id":"c1","type":"column","attributes":{"width":6}}]}]`
	first, _, err := runCLI(t, doc, "fmt")
	if err != nil {
		t.Fatalf("fmt: %v", err)
	}
	second, _, err := runCLI(t, first, "fmt")
	if err != nil {
		t.Fatalf("fmt again: %v", err)
	}
	if first != second {
		t.Fatalf("expected canonical output to be stable:\n%s\n%s", first, second)
	}
}

func TestFmtCommandWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.json")
	if err := os.WriteFile(path, []byte(`[{"id":"h1","type":"heading","attributes":{"content":"Hi"}}]`), 0o644); err != nil {
		t.Fatalf("write doc: %v", err)
	}
	stdout, _, err := runCLI(t, "", "fmt", "--write", path)
	if err != nil {
		t.Fatalf("fmt: %v", err)
	}
	if stdout != "" {
		t.Fatalf("expected no stdout with --write, got %q", stdout)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read doc: %v", err)
	}
	if !strings.Contains(string(data), `"level"`) {
		t.Fatalf("expected heading defaults filled in, got %s", data)
	}
}

func TestRepairIDsCommand(t *testing.T) {
	doc := `[{"id":"a.b","type":"heading","attributes":{"content":"A"}},{"id":"x","type":"heading","attributes":{"content":"B"}},{"id":"x","type":"heading","attributes":{"content":"C"}}]`
	stdout, stderr, err := runCLI(t, doc, "repair-ids")
	if err != nil {
		t.Fatalf("repair-ids: %v", err)
	}
	if !strings.Contains(stderr, "repaired 2 ids") {
		t.Fatalf("unexpected summary %q", stderr)
	}
	if !strings.Contains(stdout, `"a-b"`) || strings.Contains(stdout, `"a.b"`) {
		t.Fatalf("expected legacy id rewritten, got %s", stdout)
	}
}

func TestImportThenRenderPage(t *testing.T) {
	dir := t.TempDir()
	content := filepath.Join(dir, "content")
	if err := os.MkdirAll(content, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	index := "---\ntitle: Welcome\nhomepage: true\n---\n# Welcome\n\nImported from fixtures.\n"
	if err := os.WriteFile(filepath.Join(content, "index.md"), []byte(index), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	dsn := "file:" + filepath.Join(dir, "site.db") + "?_fk=1"

	stdout, _, err := runCLI(t, "", "import", content, "--site", "example.com", "--dsn", dsn)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(stdout, "1 created") {
		t.Fatalf("unexpected import summary %q", stdout)
	}

	stdout, _, err = runCLI(t, "", "page", "/", "--site", "example.com", "--dsn", dsn)
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if !strings.Contains(stdout, "<main") || !strings.Contains(stdout, "Imported from fixtures.") {
		t.Fatalf("unexpected page document %q", stdout)
	}
}

func TestPageCommandRequiresKnownSite(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "site.db") + "?_fk=1"
	if _, _, err := runCLI(t, "", "page", "/", "--site", "missing.example", "--dsn", dsn); err == nil {
		t.Fatal("expected unknown site to fail")
	}
}
