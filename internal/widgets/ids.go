package widgets

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/oklog/ulid/v2"
)

var (
	errIDPeriod    = validation.NewError("validation_id_period", "id contains a period and cannot be used as an anchor")
	errIDDuplicate = validation.NewError("validation_id_duplicate", "id is already used by another widget")
)

// NewID returns a fresh selector-safe widget id.
func NewID() string {
	return strings.ToLower(ulid.Make().String())
}

// RepairIDs rewrites ids that are unsafe as selector anchors: periods become
// dashes and ids repeated within the tree get a fresh id. It returns the
// repaired tree and the number of ids changed.
func RepairIDs(nodes []Node) ([]Node, int) {
	out := CloneAll(nodes)
	seen := map[string]struct{}{}
	changed := 0
	repairIDs(out, seen, &changed)
	return out, changed
}

func repairIDs(nodes []Node, seen map[string]struct{}, changed *int) {
	for i := range nodes {
		id := nodes[i].ID
		if strings.Contains(id, ".") {
			id = legacyID(id)
		}
		if _, dup := seen[id]; dup || strings.TrimSpace(id) == "" {
			id = NewID()
		}
		if id != nodes[i].ID {
			nodes[i].ID = id
			*changed++
		}
		seen[id] = struct{}{}
		if len(nodes[i].Children) > 0 {
			repairIDs(nodes[i].Children, seen, changed)
		}
	}
}

// ValidateIDs reports ids containing periods and ids repeated later in the
// tree. The first node carrying an id keeps it; later ones are flagged.
func ValidateIDs(nodes []Node) ValidationErrors {
	var out ValidationErrors
	seen := map[string]struct{}{}
	Walk(nodes, func(path Path, node Node) bool {
		if strings.Contains(node.ID, ".") {
			out = append(out, &AttributeValidationError{
				Path: path, ID: node.ID, Type: node.Type, Field: keyID, Err: errIDPeriod,
			})
		}
		if _, dup := seen[node.ID]; dup {
			out = append(out, &AttributeValidationError{
				Path: path, ID: node.ID, Type: node.Type, Field: keyID, Err: errIDDuplicate,
			})
		}
		seen[node.ID] = struct{}{}
		return true
	})
	return out
}
