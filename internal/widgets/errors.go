package widgets

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidPath indicates a path that does not address a node.
	ErrInvalidPath = errors.New("widgets: invalid path")
	// ErrNotContainer indicates an insert below a leaf widget.
	ErrNotContainer = errors.New("widgets: target does not accept children")
	// ErrMalformedTree is the sentinel matched by every MalformedTreeError.
	ErrMalformedTree = errors.New("widgets: malformed tree")
	// ErrAttributeValidation is the sentinel matched by AttributeValidationError.
	ErrAttributeValidation = errors.New("widgets: attribute validation failed")
)

// MalformedTreeError reports a structural decode failure. Path is empty when
// the document itself could not be parsed.
type MalformedTreeError struct {
	Path   Path
	Reason string
	Err    error
}

func (e *MalformedTreeError) Error() string {
	var b strings.Builder
	b.WriteString("widgets: malformed tree")
	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(e.Path.String())
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *MalformedTreeError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedTree}
	}
	return []error{ErrMalformedTree, e.Err}
}

// AttributeValidationError reports a node whose attributes fail its type's rules.
type AttributeValidationError struct {
	Path  Path
	ID    string
	Type  Type
	Field string
	Err   error
}

func (e *AttributeValidationError) Error() string {
	target := e.Path.String()
	if e.ID != "" {
		target = fmt.Sprintf("%s (%s %q)", target, e.Type, e.ID)
	}
	if e.Field != "" {
		return fmt.Sprintf("widgets: %s: %s: %v", target, e.Field, e.Err)
	}
	return fmt.Sprintf("widgets: %s: %v", target, e.Err)
}

func (e *AttributeValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrAttributeValidation}
	}
	return []error{ErrAttributeValidation, e.Err}
}

// ValidationErrors aggregates attribute failures across a tree.
type ValidationErrors []*AttributeValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ErrAttributeValidation.Error()
	}
	parts := make([]string, len(e))
	for i, item := range e {
		parts[i] = item.Error()
	}
	return strings.Join(parts, "; ")
}

func (e ValidationErrors) Unwrap() []error {
	out := make([]error, 0, len(e)+1)
	out = append(out, ErrAttributeValidation)
	for _, item := range e {
		out = append(out, item)
	}
	return out
}

// UnknownWidgetTypeWarning is raised by renderers that meet a type outside
// the registered set. It is meant for logs, not for end users.
type UnknownWidgetTypeWarning struct {
	Path Path
	ID   string
	Type Type
}

func (w *UnknownWidgetTypeWarning) Error() string {
	return fmt.Sprintf("widgets: unknown widget type %q at %s (id %q)", w.Type, w.Path, w.ID)
}
