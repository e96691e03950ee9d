package widgets

import (
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-sitebuilder/internal/sanitize"
)

func newTestCodec(t *testing.T, opts ...CodecOption) *Codec {
	t.Helper()
	codec, err := NewCodec(opts...)
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	return codec
}

func TestValidateFlagsRuleFailures(t *testing.T) {
	nodes, err := DecodeString(`[
		{"id":"h1","type":"heading","attributes":{"level":9,"content":"x"}},
		{"id":"a1","type":"accordion","attributes":{"items":[{"title":"ok","content":"x"},{"title":"","content":"y"}]}},
		{"id":"i1","type":"image","attributes":{"alt":"no src"}}
	]`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	issues := Validate(nodes, ValidateOptions{})
	if len(issues) != 3 {
		t.Fatalf("expected 3 issues, got %d: %v", len(issues), issues)
	}
	if issues[0].Field != "level" || issues[0].ID != "h1" {
		t.Fatalf("unexpected first issue %+v", issues[0])
	}
	if issues[1].Field != "items.1.title" {
		t.Fatalf("expected nested field path, got %q", issues[1].Field)
	}
	if issues[2].Field != "src" || issues[2].Path.String() != "/2" {
		t.Fatalf("unexpected image issue %+v", issues[2])
	}
}

func TestValidateAcceptsDefaultsAndUnknownTypes(t *testing.T) {
	nodes, err := DecodeString(`[
		{"id":"r1","type":"row","children":[{"id":"c1","type":"column","children":[]}]},
		{"id":"h1","type":"heading","attributes":{"content":"x"}},
		{"id":"x1","type":"carousel","attributes":{"anything":true}}
	]`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if issues := Validate(nodes, ValidateOptions{Strict: true}); len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
}

func TestValidateStrictFlagsUnknownAttributeKeys(t *testing.T) {
	nodes, err := DecodeString(`[{"id":"b1","type":"button","attributes":{"text":"Go","icon":"star"}}]`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if issues := Validate(nodes, ValidateOptions{}); len(issues) != 0 {
		t.Fatalf("expected non-strict to accept extra keys, got %v", issues)
	}
	issues := Validate(nodes, ValidateOptions{Strict: true})
	if len(issues) != 1 || issues[0].Field != "icon" {
		t.Fatalf("expected icon flagged, got %v", issues)
	}
}

func TestValidateFlagsMismatchedAttributes(t *testing.T) {
	nodes, err := DecodeString(`[{"id":"c1","type":"column","attributes":{"width":"wide"}}]`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	issues := Validate(nodes, ValidateOptions{})
	if len(issues) != 1 || !errors.Is(issues[0], ErrAttributeValidation) {
		t.Fatalf("expected one attribute issue, got %v", issues)
	}
}

func TestCodecNonStrictIsolatesBadNode(t *testing.T) {
	codec := newTestCodec(t)

	result, err := codec.Decode([]byte(`[
		{"id":"h1","type":"heading","attributes":{"level":9,"content":"bad"}},
		{"id":"h2","type":"heading","attributes":{"content":"good"}}
	]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(result.Nodes) != 2 {
		t.Fatalf("expected both nodes kept, got %d", len(result.Nodes))
	}
	if len(result.Issues) != 1 || result.Issues[0].ID != "h1" {
		t.Fatalf("expected one warning for h1, got %v", result.Issues)
	}
	second := result.Nodes[1].Attributes.(HeadingAttributes)
	if second.Level != DefaultHeadingLevel {
		t.Fatalf("expected default heading level, got %d", second.Level)
	}
}

func TestCodecStrictRejects(t *testing.T) {
	codec := newTestCodec(t, WithStrict(true))

	cases := map[string]string{
		"rule failure":      `[{"id":"h1","type":"heading","attributes":{"level":9,"content":"x"}}]`,
		"numeric id":        `[{"id":12,"type":"richtext","attributes":{"content":"x"}}]`,
		"leaf children":     `[{"id":"t1","type":"richtext","attributes":{"content":"x"},"children":[{"id":"t2","type":"richtext"}]}]`,
		"unknown attribute": `[{"id":"b1","type":"button","attributes":{"text":"Go","icon":"star"}}]`,
		"bad button style":  `[{"id":"b1","type":"button","attributes":{"text":"Go","style":"neon"}}]`,
	}
	for name, input := range cases {
		_, err := codec.Decode([]byte(input))
		if !errors.Is(err, ErrAttributeValidation) {
			t.Fatalf("%s: expected attribute validation error, got %v", name, err)
		}
		if !IsRejection(err) {
			t.Fatalf("%s: expected rejection", name)
		}
	}

	if _, err := codec.Decode([]byte(`[{"id":"x1","type":"carousel"}]`)); err != nil {
		t.Fatalf("expected unknown type accepted in strict mode, got %v", err)
	}
	if _, err := codec.AsStrict(false).Decode([]byte(cases["rule failure"])); err != nil {
		t.Fatalf("expected per-call override to accept, got %v", err)
	}
}

func TestCodecStrictReportsPath(t *testing.T) {
	codec := newTestCodec(t, WithStrict(true))

	_, err := codec.Decode([]byte(`[{"id":"r1","type":"row","children":[{"id":"c1","type":"column","children":[{"id":"h1","type":"heading","attributes":{"level":7,"content":"x"}}]}]}]`))
	var issues ValidationErrors
	if !errors.As(err, &issues) || len(issues) == 0 {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if issues[0].Path.String() != "/0/0/0" {
		t.Fatalf("expected path /0/0/0, got %s", issues[0].Path)
	}
}

func TestCodecNonStrictRepairsUnsafeIDs(t *testing.T) {
	codec := newTestCodec(t)

	result, err := codec.Decode([]byte(`[
		{"id":"a.b","type":"accordion","attributes":{"items":[{"title":"x","content":"y"}]}},
		{"id":"d","type":"richtext","attributes":{"content":"one"}},
		{"id":"d","type":"richtext","attributes":{"content":"two"}}
	]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(result.Issues) != 2 {
		t.Fatalf("expected period and duplicate flagged, got %v", result.Issues)
	}
	if result.Issues[0].ID != "a.b" || result.Issues[0].Field != "id" {
		t.Fatalf("unexpected period issue %+v", result.Issues[0])
	}
	if result.Issues[1].Path.String() != "/2" || !errors.Is(result.Issues[1], ErrAttributeValidation) {
		t.Fatalf("unexpected duplicate issue %+v", result.Issues[1])
	}

	ids := []string{result.Nodes[0].ID, result.Nodes[1].ID, result.Nodes[2].ID}
	if ids[0] != "a-b" || ids[1] != "d" {
		t.Fatalf("unexpected repaired ids %v", ids)
	}
	if ids[2] == "d" || strings.Contains(ids[2], ".") {
		t.Fatalf("expected duplicate replaced, got %v", ids)
	}
}

func TestCodecStrictRejectsDuplicateIDs(t *testing.T) {
	codec := newTestCodec(t, WithStrict(true))

	_, err := codec.Decode([]byte(`[
		{"id":"r","type":"row","children":[{"id":"d","type":"column"}]},
		{"id":"d","type":"richtext","attributes":{"content":"x"}}
	]`))
	var issues ValidationErrors
	if !errors.As(err, &issues) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if len(issues) != 1 || issues[0].Path.String() != "/1" || issues[0].Field != "id" {
		t.Fatalf("expected duplicate at /1, got %v", issues)
	}

	if _, err := codec.Decode([]byte(`[{"id":"a.b","type":"richtext","attributes":{"content":"x"}}]`)); !IsRejection(err) {
		t.Fatalf("expected period id rejected, got %v", err)
	}
}

func TestCodecMaxDepth(t *testing.T) {
	codec := newTestCodec(t, WithMaxDepth(2))
	_, err := codec.Decode([]byte(`[{"id":"r","type":"row","children":[{"id":"c","type":"column","children":[{"id":"t","type":"richtext"}]}]}]`))
	if !errors.Is(err, ErrMalformedTree) {
		t.Fatalf("expected ErrMalformedTree, got %v", err)
	}

	unlimited := newTestCodec(t, WithMaxDepth(0))
	if _, err := unlimited.Decode([]byte(`[{"id":"r","type":"row","children":[{"id":"c","type":"column","children":[{"id":"t","type":"richtext"}]}]}]`)); err != nil {
		t.Fatalf("expected depth check disabled, got %v", err)
	}
}

func TestCodecPrepareSanitizes(t *testing.T) {
	codec := newTestCodec(t, WithSanitizer(sanitize.NewPolicy()))

	encoded, result, err := codec.Prepare([]byte(`[{"id":"t1","type":"richtext","styles":{"color":"red","position":"fixed"},"attributes":{"content":"<p>ok</p><script>alert(1)</script>"}}]`))
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if strings.Contains(string(encoded), "script") {
		t.Fatalf("expected script stripped, got %s", encoded)
	}
	if strings.Contains(string(encoded), "position") {
		t.Fatalf("expected disallowed style removed, got %s", encoded)
	}
	if result.Nodes[0].Styles["color"] != "red" {
		t.Fatalf("expected color kept, got %v", result.Nodes[0].Styles)
	}
}

func TestCodecRejectsMalformed(t *testing.T) {
	codec := newTestCodec(t)
	_, err := codec.Decode([]byte(`[{"type":"row"}]`))
	if !errors.Is(err, ErrMalformedTree) {
		t.Fatalf("expected ErrMalformedTree, got %v", err)
	}
}

func TestLocateSchemaPointer(t *testing.T) {
	path, field := locate("/0/children/1/attributes/level")
	if path.String() != "/0/1" || field != "level" {
		t.Fatalf("unexpected location %s %q", path, field)
	}
	path, field = locate("/2/id")
	if path.String() != "/2" || field != "id" {
		t.Fatalf("unexpected location %s %q", path, field)
	}
}

func TestCodecPrepareContainer(t *testing.T) {
	codec := newTestCodec(t, WithSanitizer(sanitize.NewPolicy()))

	prepared, err := codec.PrepareContainer([]byte(`[]`), []byte(`{"background-color":"#fff","behavior":"url(x)"}`))
	if err != nil {
		t.Fatalf("prepare container: %v", err)
	}
	if string(prepared.Content) != "[]" {
		t.Fatalf("expected empty document, got %s", prepared.Content)
	}
	if string(prepared.Styles) != `{"backgroundColor":"#fff"}` {
		t.Fatalf("unexpected styles %s", prepared.Styles)
	}

	if _, err := codec.PrepareContainer([]byte(`[]`), []byte(`[1]`)); !errors.Is(err, ErrMalformedTree) {
		t.Fatalf("expected malformed styles rejected, got %v", err)
	}
}
