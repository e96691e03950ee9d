package validation

import (
	"errors"
	"testing"
)

const levelSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "level": {"type": "integer", "minimum": 1, "maximum": 6}
  },
  "required": ["level"]
}`

func TestSchemaValidateJSON(t *testing.T) {
	schema, err := Compile([]byte(levelSchema))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	cases := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid", input: `{"level": 3}`},
		{name: "out of range", input: `{"level": 9}`, wantErr: true},
		{name: "missing", input: `{}`, wantErr: true},
		{name: "not json", input: `{`, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := schema.ValidateJSON([]byte(tc.input))
			if !tc.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrSchemaValidation) {
				t.Fatalf("expected ErrSchemaValidation, got %v", err)
			}
			if len(Issues(err)) == 0 {
				t.Fatalf("expected issues for %s", tc.input)
			}
		})
	}
}

func TestCompileRejectsBrokenSchema(t *testing.T) {
	if _, err := Compile([]byte(`{"type":`)); !errors.Is(err, ErrSchemaInvalid) {
		t.Fatalf("expected ErrSchemaInvalid, got %v", err)
	}
}

func TestNilSchemaAcceptsEverything(t *testing.T) {
	var schema *Schema
	if err := schema.ValidateJSON([]byte(`not json`)); err != nil {
		t.Fatalf("expected nil schema to accept, got %v", err)
	}
}

func TestIssuesFallsBackToMessage(t *testing.T) {
	issues := Issues(errors.New("plain"))
	if len(issues) != 1 || issues[0].Message != "plain" {
		t.Fatalf("unexpected issues %+v", issues)
	}
	if Issues(nil) != nil {
		t.Fatalf("expected nil issues for nil error")
	}
}
