package widgets

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	keyID         = "id"
	keyType       = "type"
	keyStyles     = "styles"
	keyAttributes = "attributes"
	keyChildren   = "children"
)

// Decode parses a persisted container document. Empty input and a JSON null
// decode to an empty tree. Attribute objects that do not fit their type's
// payload are kept as OpaqueAttributes; validation decides what to do with them.
func Decode(data []byte) ([]Node, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []Node{}, nil
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(trimmed, &raws); err != nil {
		return nil, &MalformedTreeError{Reason: "document is not a JSON array", Err: err}
	}
	return decodeNodes(raws, Path{})
}

// DecodeString is Decode for text columns.
func DecodeString(text string) ([]Node, error) {
	return Decode([]byte(text))
}

func decodeNodes(raws []json.RawMessage, parent Path) ([]Node, error) {
	nodes := make([]Node, 0, len(raws))
	for i, raw := range raws {
		node, err := decodeNode(raw, parent.Child(i))
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func decodeNode(raw json.RawMessage, path Path) (Node, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return Node{}, &MalformedTreeError{Path: path, Reason: "node is not an object", Err: err}
	}

	id, err := decodeID(fields[keyID])
	if err != nil {
		return Node{}, &MalformedTreeError{Path: path, Reason: err.Error()}
	}

	var typeName string
	if rawType, ok := fields[keyType]; ok {
		if err := json.Unmarshal(rawType, &typeName); err != nil {
			return Node{}, &MalformedTreeError{Path: path, Reason: "type must be a string", Err: err}
		}
	}
	typeName = strings.TrimSpace(typeName)
	if typeName == "" {
		return Node{}, &MalformedTreeError{Path: path, Reason: "missing type"}
	}

	node := Node{ID: id, Type: Type(typeName)}

	if rawStyles, ok := fields[keyStyles]; ok && !isNull(rawStyles) {
		styles, err := decodeStyleValues(rawStyles)
		if err != nil {
			return Node{}, &MalformedTreeError{Path: path, Reason: "styles must be an object of strings", Err: err}
		}
		node.Styles = styles
	}

	if rawAttrs, ok := fields[keyAttributes]; ok && !isNull(rawAttrs) {
		if !isObject(rawAttrs) {
			return Node{}, &MalformedTreeError{Path: path, Reason: "attributes must be an object"}
		}
		attrs, err := decodeAttributes(node.Type, rawAttrs)
		if err != nil {
			attrs = OpaqueAttributes{Type: node.Type, Raw: append(json.RawMessage(nil), rawAttrs...)}
		}
		node.Attributes = attrs
	}

	if rawChildren, ok := fields[keyChildren]; ok && !isNull(rawChildren) {
		var children []json.RawMessage
		if err := json.Unmarshal(rawChildren, &children); err != nil {
			return Node{}, &MalformedTreeError{Path: path, Reason: "children must be an array", Err: err}
		}
		decoded, err := decodeNodes(children, path)
		if err != nil {
			return Node{}, err
		}
		node.Children = decoded
	}

	for key, val := range fields {
		switch key {
		case keyID, keyType, keyStyles, keyAttributes, keyChildren:
			continue
		}
		if node.Extra == nil {
			node.Extra = map[string]json.RawMessage{}
		}
		node.Extra[key] = append(json.RawMessage(nil), val...)
	}

	return node, nil
}

// decodeID accepts string ids and legacy numeric ids. Numeric ids keep their
// literal digits with the decimal point replaced so they stay selector safe.
func decodeID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || isNull(raw) {
		return "", fmt.Errorf("missing id")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return "", fmt.Errorf("invalid id: %w", err)
	}
	switch v := value.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return "", fmt.Errorf("missing id")
		}
		return v, nil
	case json.Number:
		return legacyID(v.String()), nil
	default:
		return "", fmt.Errorf("id must be a string or number")
	}
}

func legacyID(value string) string {
	return strings.ReplaceAll(value, ".", "-")
}

func decodeStyleValues(raw json.RawMessage) (map[string]string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	styles := make(map[string]string, len(fields))
	for key, val := range fields {
		trimmed := bytes.TrimSpace(val)
		switch {
		case isNull(trimmed):
			continue
		case len(trimmed) > 0 && trimmed[0] == '"':
			var s string
			if err := json.Unmarshal(trimmed, &s); err != nil {
				return nil, err
			}
			styles[key] = s
		case len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '['):
			return nil, fmt.Errorf("style %q must be a scalar", key)
		default:
			styles[key] = string(trimmed)
		}
	}
	return styles, nil
}

// Encode serialises a tree to its persisted form. Object keys are written in
// sorted order so equal trees always produce identical text.
func Encode(nodes []Node) ([]byte, error) {
	if len(nodes) == 0 {
		return []byte("[]"), nil
	}
	out, err := encodeNodes(nodes, Path{})
	if err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

// EncodeString is Encode for text columns.
func EncodeString(nodes []Node) (string, error) {
	data, err := Encode(nodes)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func encodeNodes(nodes []Node, parent Path) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(nodes))
	for i, node := range nodes {
		encoded, err := encodeNode(node, parent.Child(i))
		if err != nil {
			return nil, err
		}
		out = append(out, encoded)
	}
	return out, nil
}

func encodeNode(node Node, path Path) (json.RawMessage, error) {
	if strings.TrimSpace(node.ID) == "" {
		return nil, &MalformedTreeError{Path: path, Reason: "missing id"}
	}
	if strings.TrimSpace(string(node.Type)) == "" {
		return nil, &MalformedTreeError{Path: path, Reason: "missing type"}
	}

	fields := make(map[string]json.RawMessage, 5+len(node.Extra))
	for key, val := range node.Extra {
		fields[key] = val
	}

	var err error
	if fields[keyID], err = json.Marshal(node.ID); err != nil {
		return nil, err
	}
	if fields[keyType], err = json.Marshal(string(node.Type)); err != nil {
		return nil, err
	}
	if node.Styles != nil {
		if fields[keyStyles], err = json.Marshal(node.Styles); err != nil {
			return nil, err
		}
	} else {
		delete(fields, keyStyles)
	}
	delete(fields, keyAttributes)
	if node.Attributes != nil {
		attrs, err := encodeAttributes(node.Attributes)
		if err != nil {
			return nil, &MalformedTreeError{Path: path, Reason: "attributes", Err: err}
		}
		if len(attrs) > 0 {
			fields[keyAttributes] = attrs
		}
	}
	delete(fields, keyChildren)
	if node.Children != nil {
		children, err := encodeNodes(node.Children, path)
		if err != nil {
			return nil, err
		}
		if fields[keyChildren], err = json.Marshal(children); err != nil {
			return nil, err
		}
	}

	return json.Marshal(fields)
}

// DecodeStyles parses a container style blob. Blank input yields an empty map.
func DecodeStyles(data []byte) (map[string]string, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || isNull(trimmed) {
		return map[string]string{}, nil
	}
	if !isObject(trimmed) {
		return map[string]string{}, &MalformedTreeError{Reason: "styles must be a JSON object"}
	}
	styles, err := decodeStyleValues(trimmed)
	if err != nil {
		return map[string]string{}, &MalformedTreeError{Reason: "styles must be an object of strings", Err: err}
	}
	return styles, nil
}

// EncodeStyles serialises a container style blob with sorted keys.
func EncodeStyles(styles map[string]string) ([]byte, error) {
	if len(styles) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(styles)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
