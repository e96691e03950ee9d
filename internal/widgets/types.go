package widgets

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Type tags a node in the widget tree.
type Type string

const (
	TypeRow        Type = "row"
	TypeColumn     Type = "column"
	TypeHeading    Type = "heading"
	TypeRichText   Type = "richtext"
	TypeHTML       Type = "html"
	TypeMarkdown   Type = "markdown"
	TypeSeparator  Type = "separator"
	TypeButton     Type = "button"
	TypeLink       Type = "link"
	TypeCard       Type = "card"
	TypeAlert      Type = "alert"
	TypeImage      Type = "image"
	TypeVideo      Type = "video"
	TypeAccordion  Type = "accordion"
	TypeBadge      Type = "badge"
	TypeBreadcrumb Type = "breadcrumb"
	TypeCollapse   Type = "collapse"
	TypeTabs       Type = "tabs"
	TypeToast      Type = "toast"
	TypeCopyright  Type = "copyright"
	TypeSocial     Type = "social"
)

var knownTypes = map[Type]struct{}{
	TypeRow: {}, TypeColumn: {}, TypeHeading: {}, TypeRichText: {}, TypeHTML: {},
	TypeMarkdown: {}, TypeSeparator: {}, TypeButton: {}, TypeLink: {}, TypeCard: {},
	TypeAlert: {}, TypeImage: {}, TypeVideo: {}, TypeAccordion: {}, TypeBadge: {},
	TypeBreadcrumb: {}, TypeCollapse: {}, TypeTabs: {}, TypeToast: {},
	TypeCopyright: {}, TypeSocial: {},
}

// KnownTypes lists the registered widget types in declaration order.
func KnownTypes() []Type {
	return []Type{
		TypeRow, TypeColumn, TypeHeading, TypeRichText, TypeHTML, TypeMarkdown,
		TypeSeparator, TypeButton, TypeLink, TypeCard, TypeAlert, TypeImage,
		TypeVideo, TypeAccordion, TypeBadge, TypeBreadcrumb, TypeCollapse,
		TypeTabs, TypeToast, TypeCopyright, TypeSocial,
	}
}

// Known reports whether the type belongs to the registered set.
func (t Type) Known() bool {
	_, ok := knownTypes[t]
	return ok
}

// IsContainer reports whether nodes of this type carry children.
func (t Type) IsContainer() bool {
	return t == TypeRow || t == TypeColumn
}

func (t Type) String() string { return string(t) }

// Node is a single widget in a container tree. Attributes holds the typed
// payload for known types and an OpaqueAttributes value otherwise. Extra
// keeps top-level keys the codec does not model so they survive a re-encode.
type Node struct {
	ID         string
	Type       Type
	Styles     map[string]string
	Attributes Attributes
	Children   []Node
	Extra      map[string]json.RawMessage
}

// Clone returns a deep copy of the node.
func (n Node) Clone() Node {
	out := n
	if n.Styles != nil {
		out.Styles = make(map[string]string, len(n.Styles))
		for k, v := range n.Styles {
			out.Styles[k] = v
		}
	}
	if n.Extra != nil {
		out.Extra = make(map[string]json.RawMessage, len(n.Extra))
		for k, v := range n.Extra {
			out.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	if n.Attributes != nil {
		out.Attributes = cloneAttributes(n.Attributes)
	}
	if n.Children != nil {
		out.Children = CloneAll(n.Children)
	}
	return out
}

// CloneAll deep copies a node sequence.
func CloneAll(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i := range nodes {
		out[i] = nodes[i].Clone()
	}
	return out
}

// Path addresses a node by child indices from the top-level list.
type Path []int

func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}
	parts := make([]string, len(p))
	for i, idx := range p {
		parts[i] = strconv.Itoa(idx)
	}
	return "/" + strings.Join(parts, "/")
}

// Child returns a new path extended with index.
func (p Path) Child(index int) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, index)
}

// Parent splits the path into its parent path and last index.
func (p Path) Parent() (Path, int, bool) {
	if len(p) == 0 {
		return nil, 0, false
	}
	parent := make(Path, len(p)-1)
	copy(parent, p[:len(p)-1])
	return parent, p[len(p)-1], true
}

// ParsePath parses the String form back into a Path.
func ParsePath(value string) (Path, error) {
	trimmed := strings.Trim(strings.TrimSpace(value), "/")
	if trimmed == "" {
		return Path{}, nil
	}
	parts := strings.Split(trimmed, "/")
	out := make(Path, 0, len(parts))
	for _, part := range parts {
		idx, err := strconv.Atoi(part)
		if err != nil || idx < 0 {
			return nil, ErrInvalidPath
		}
		out = append(out, idx)
	}
	return out, nil
}
