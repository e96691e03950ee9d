package widgets

import (
	"encoding/json"
	"fmt"
	"strings"
)

// WalkFunc is called for every node in pre-order. Returning false skips the
// node's children.
type WalkFunc func(path Path, node Node) bool

// Walk visits nodes depth-first, pre-order.
func Walk(nodes []Node, fn WalkFunc) {
	walk(nodes, Path{}, fn)
}

func walk(nodes []Node, parent Path, fn WalkFunc) {
	for i, node := range nodes {
		path := parent.Child(i)
		if !fn(path, node) {
			continue
		}
		if len(node.Children) > 0 {
			walk(node.Children, path, fn)
		}
	}
}

// Depth returns the number of levels in the tree; an empty tree has depth 0.
func Depth(nodes []Node) int {
	deepest := 0
	Walk(nodes, func(path Path, _ Node) bool {
		if len(path) > deepest {
			deepest = len(path)
		}
		return true
	})
	return deepest
}

// Find returns the node addressed by path.
func Find(nodes []Node, path Path) (Node, error) {
	if len(path) == 0 {
		return Node{}, ErrInvalidPath
	}
	current := nodes
	var node Node
	for _, idx := range path {
		if idx < 0 || idx >= len(current) {
			return Node{}, fmt.Errorf("%w: %s", ErrInvalidPath, path)
		}
		node = current[idx]
		current = node.Children
	}
	return node, nil
}

// FindByID returns the path of the first node carrying id.
func FindByID(nodes []Node, id string) (Path, bool) {
	var found Path
	Walk(nodes, func(path Path, node Node) bool {
		if found != nil {
			return false
		}
		if node.ID == id {
			found = path
			return false
		}
		return true
	})
	return found, found != nil
}

// Insert places node at index within the children of parentPath, or within
// the top-level list when parentPath is empty. An index of -1 appends. A node
// without an id receives a fresh one.
func Insert(nodes []Node, parentPath Path, index int, node Node) ([]Node, error) {
	if strings.TrimSpace(node.ID) == "" {
		node.ID = NewID()
	}
	node = node.Clone()

	if len(parentPath) == 0 {
		return insertAt(nodes, index, node)
	}
	return replaceAt(nodes, parentPath, func(parent Node) (Node, error) {
		if !parent.Type.IsContainer() {
			return Node{}, fmt.Errorf("%w: %s is a %s", ErrNotContainer, parentPath, parent.Type)
		}
		children, err := insertAt(parent.Children, index, node)
		if err != nil {
			return Node{}, err
		}
		parent.Children = children
		return parent, nil
	})
}

// Remove deletes the node at path and returns it alongside the new tree.
func Remove(nodes []Node, path Path) ([]Node, Node, error) {
	parentPath, index, ok := path.Parent()
	if !ok {
		return nil, Node{}, ErrInvalidPath
	}
	var removed Node
	if len(parentPath) == 0 {
		out, node, err := removeAt(nodes, index)
		return out, node, err
	}
	out, err := replaceAt(nodes, parentPath, func(parent Node) (Node, error) {
		children, node, err := removeAt(parent.Children, index)
		if err != nil {
			return Node{}, err
		}
		removed = node
		parent.Children = children
		return parent, nil
	})
	if err != nil {
		return nil, Node{}, err
	}
	return out, removed, nil
}

// Move detaches the node at from and inserts it so that it ends up at to.
// The destination is resolved against the tree after the node is removed.
func Move(nodes []Node, from, to Path) ([]Node, error) {
	if len(to) == 0 {
		return nil, ErrInvalidPath
	}
	detached, node, err := Remove(nodes, from)
	if err != nil {
		return nil, err
	}
	parentPath, index, _ := to.Parent()
	return Insert(detached, parentPath, index, node)
}

// UpdateAttributes merges patch into the attributes of the node at path. A
// nil patch value removes the key. The merged object is decoded again so the
// result keeps the type's payload shape.
func UpdateAttributes(nodes []Node, path Path, patch map[string]any) ([]Node, error) {
	if len(patch) == 0 {
		return CloneAll(nodes), nil
	}
	return replaceAt(nodes, path, func(node Node) (Node, error) {
		current := map[string]json.RawMessage{}
		if node.Attributes != nil {
			raw, err := encodeAttributes(node.Attributes)
			if err != nil {
				return Node{}, err
			}
			if len(raw) > 0 {
				if err := json.Unmarshal(raw, &current); err != nil {
					return Node{}, err
				}
			}
		}
		for key, value := range patch {
			if value == nil {
				delete(current, key)
				continue
			}
			encoded, err := json.Marshal(value)
			if err != nil {
				return Node{}, &AttributeValidationError{Path: path, ID: node.ID, Type: node.Type, Field: key, Err: err}
			}
			current[key] = encoded
		}
		merged, err := json.Marshal(current)
		if err != nil {
			return Node{}, err
		}
		attrs, err := decodeAttributes(node.Type, merged)
		if err != nil {
			return Node{}, &AttributeValidationError{Path: path, ID: node.ID, Type: node.Type, Err: err}
		}
		node.Attributes = attrs
		return node, nil
	})
}

// UpdateStyles merges patch into the styles of the node at path. An empty
// value removes the property.
func UpdateStyles(nodes []Node, path Path, patch map[string]string) ([]Node, error) {
	return replaceAt(nodes, path, func(node Node) (Node, error) {
		styles := make(map[string]string, len(node.Styles)+len(patch))
		for key, value := range node.Styles {
			styles[key] = value
		}
		for key, value := range patch {
			if strings.TrimSpace(value) == "" {
				delete(styles, key)
				continue
			}
			styles[key] = value
		}
		if len(styles) == 0 {
			styles = nil
		}
		node.Styles = styles
		return node, nil
	})
}

// replaceAt copies the spine of the tree down to path and swaps in the node
// produced by fn. Siblings off the spine are shared with the input.
func replaceAt(nodes []Node, path Path, fn func(Node) (Node, error)) ([]Node, error) {
	if len(path) == 0 {
		return nil, ErrInvalidPath
	}
	idx := path[0]
	if idx < 0 || idx >= len(nodes) {
		return nil, fmt.Errorf("%w: index %d out of range", ErrInvalidPath, idx)
	}
	out := make([]Node, len(nodes))
	copy(out, nodes)
	if len(path) == 1 {
		replaced, err := fn(out[idx].Clone())
		if err != nil {
			return nil, err
		}
		out[idx] = replaced
		return out, nil
	}
	target := out[idx]
	children, err := replaceAt(target.Children, path[1:], fn)
	if err != nil {
		return nil, err
	}
	target.Children = children
	out[idx] = target
	return out, nil
}

func insertAt(nodes []Node, index int, node Node) ([]Node, error) {
	if index == -1 {
		index = len(nodes)
	}
	if index < 0 || index > len(nodes) {
		return nil, fmt.Errorf("%w: index %d out of range", ErrInvalidPath, index)
	}
	out := make([]Node, 0, len(nodes)+1)
	out = append(out, nodes[:index]...)
	out = append(out, node)
	out = append(out, nodes[index:]...)
	return out, nil
}

func removeAt(nodes []Node, index int) ([]Node, Node, error) {
	if index < 0 || index >= len(nodes) {
		return nil, Node{}, fmt.Errorf("%w: index %d out of range", ErrInvalidPath, index)
	}
	removed := nodes[index]
	out := make([]Node, 0, len(nodes)-1)
	out = append(out, nodes[:index]...)
	out = append(out, nodes[index+1:]...)
	return out, removed, nil
}
