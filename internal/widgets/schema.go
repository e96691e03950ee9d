package widgets

import (
	_ "embed"
	"errors"
	"strconv"
	"strings"

	docschema "github.com/goliatone/go-sitebuilder/internal/validation"
)

//go:embed schema/widgets.schema.json
var treeSchemaDocument []byte

// errSchemaRule carries a JSON Schema failure message.
type errSchemaRule struct{ message string }

func (e errSchemaRule) Error() string { return e.message }

// SchemaValidator checks raw container documents against the embedded tree
// schema. It is used in strict mode before any decoding.
type SchemaValidator struct {
	schema *docschema.Schema
}

// NewSchemaValidator compiles the embedded widget tree schema.
func NewSchemaValidator() (*SchemaValidator, error) {
	schema, err := docschema.Compile(treeSchemaDocument)
	if err != nil {
		return nil, err
	}
	return &SchemaValidator{schema: schema}, nil
}

// SchemaDocument returns a copy of the embedded schema text.
func SchemaDocument() []byte {
	return append([]byte(nil), treeSchemaDocument...)
}

// ValidateDocument returns nil when data satisfies the schema. Schema
// failures come back as ValidationErrors addressed by tree path.
func (v *SchemaValidator) ValidateDocument(data []byte) error {
	if v == nil || v.schema == nil {
		return nil
	}
	err := v.schema.ValidateJSON(data)
	if err == nil {
		return nil
	}
	if !errors.Is(err, docschema.ErrSchemaValidation) {
		return err
	}
	issues := docschema.Issues(err)
	out := make(ValidationErrors, 0, len(issues))
	for _, issue := range issues {
		path, field := locate(issue.Location)
		out = append(out, &AttributeValidationError{
			Path:  path,
			Field: field,
			Err:   errSchemaRule{message: issue.Message},
		})
	}
	if len(out) == 0 {
		return err
	}
	return out
}

// locate maps a JSON pointer such as /0/children/1/attributes/level to the
// node path [0 1] and the field "level".
func locate(pointer string) (Path, string) {
	segments := strings.Split(strings.Trim(strings.TrimPrefix(pointer, "#"), "/"), "/")
	path := Path{}
	expectIndex := true
	for i := 0; i < len(segments); i++ {
		segment := segments[i]
		if segment == "" {
			continue
		}
		if expectIndex {
			idx, err := strconv.Atoi(segment)
			if err != nil {
				return path, strings.Join(segments[i:], ".")
			}
			path = append(path, idx)
			expectIndex = false
			continue
		}
		if segment == keyChildren && i+1 < len(segments) {
			expectIndex = true
			continue
		}
		if segment == keyAttributes {
			return path, strings.Join(segments[i+1:], ".")
		}
		return path, strings.Join(segments[i:], ".")
	}
	return path, ""
}
