// Package validation compiles JSON Schema documents and reports failures as
// flat issue lists addressed by JSON pointer.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	ErrSchemaInvalid    = errors.New("validation: schema invalid")
	ErrSchemaValidation = errors.New("validation: document rejected by schema")
)

const resourceName = "document.schema.json"

// Issue is one leaf failure of a schema evaluation.
type Issue struct {
	Location string
	Message  string
}

func (i Issue) String() string {
	location := strings.TrimSpace(i.Location)
	if location == "" {
		location = "/"
	}
	if i.Message == "" {
		return location
	}
	return location + ": " + i.Message
}

// Error wraps the issues found in a single document.
type Error struct {
	Issues []Issue
	cause  error
}

func (e *Error) Error() string {
	if len(e.Issues) == 0 {
		if e.cause != nil {
			return e.cause.Error()
		}
		return ErrSchemaValidation.Error()
	}
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return strings.Join(parts, "; ")
}

func (e *Error) Unwrap() []error {
	if e.cause == nil {
		return []error{ErrSchemaValidation}
	}
	return []error{ErrSchemaValidation, e.cause}
}

// Issues returns the leaf failures carried by err. Errors that did not come
// from a schema evaluation yield a single issue holding their message.
func Issues(err error) []Issue {
	if err == nil {
		return nil
	}
	var docErr *Error
	if errors.As(err, &docErr) {
		return docErr.Issues
	}
	var schemaErr *jsonschema.ValidationError
	if errors.As(err, &schemaErr) {
		return leafIssues(schemaErr)
	}
	return []Issue{{Message: err.Error()}}
}

// Schema is a compiled draft 2020-12 schema.
type Schema struct {
	compiled *jsonschema.Schema
}

// Compile parses and compiles document.
func Compile(document []byte) (*Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(resourceName, bytes.NewReader(document)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	compiled, err := compiler.Compile(resourceName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	return &Schema{compiled: compiled}, nil
}

// ValidateJSON parses data and evaluates it. A nil schema accepts anything.
func (s *Schema) ValidateJSON(data []byte) error {
	if s == nil || s.compiled == nil {
		return nil
	}
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return &Error{Issues: []Issue{{Message: "document is not valid JSON"}}, cause: err}
	}
	return s.Validate(value)
}

// Validate evaluates an already decoded value.
func (s *Schema) Validate(value any) error {
	if s == nil || s.compiled == nil {
		return nil
	}
	err := s.compiled.Validate(value)
	if err == nil {
		return nil
	}
	return &Error{Issues: Issues(err), cause: err}
}

func leafIssues(root *jsonschema.ValidationError) []Issue {
	var issues []Issue
	stack := []*jsonschema.ValidationError{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == nil {
			continue
		}
		if len(node.Causes) == 0 {
			issues = append(issues, Issue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			continue
		}
		for i := len(node.Causes) - 1; i >= 0; i-- {
			stack = append(stack, node.Causes[i])
		}
	}
	return issues
}
