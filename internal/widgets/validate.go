package widgets

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-sitebuilder/internal/sanitize"
)

var (
	bootstrapVariants = []any{"primary", "secondary", "success", "danger", "warning", "info", "light", "dark"}
	buttonStyles      = []any{
		"primary", "secondary", "success", "danger", "warning", "info", "light", "dark", "link",
		"outline-primary", "outline-secondary",
	}
	buttonSizes     = []any{"sm", "md", "lg"}
	linkTargets     = []any{"_blank", "_self", "_parent", "_top"}
	alignments      = []any{"left", "center", "right", "start", "end", "justify"}
	rowAlignments   = []any{"start", "center", "end", "stretch", "baseline"}
	rowJustify      = []any{"start", "center", "end", "between", "around", "evenly"}
	separatorStyles = []any{"solid", "dashed", "dotted", "double"}
	tabStyles       = []any{"tabs", "pills"}
	socialSizes     = []any{"sm", "md", "lg"}
)

// errOpaqueAttributes flags a known type whose attributes could not be
// decoded into its payload.
var errOpaqueAttributes = validation.NewError("validation_attributes_shape", "attributes do not match the widget type")

var errUnknownAttribute = validation.NewError("validation_attribute_unknown", "attribute is not supported by this widget type")

func intBetween(lo, hi int) validation.RuleFunc {
	return func(value any) error {
		var n int
		switch v := value.(type) {
		case int:
			n = v
		case *int:
			if v == nil {
				return nil
			}
			n = *v
		default:
			return nil
		}
		if n < lo || n > hi {
			return validation.NewError("validation_out_of_range", fmt.Sprintf("must be between %d and %d", lo, hi))
		}
		return nil
	}
}

func safeURL(value any) error {
	s, _ := value.(string)
	if !sanitize.SafeURL(s) {
		return validation.NewError("validation_unsafe_url", "must be an http(s), mailto, tel or relative URL")
	}
	return nil
}

func (a RowAttributes) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Gutter, validation.By(intBetween(0, 5))),
		validation.Field(&a.Align, validation.In(rowAlignments...)),
		validation.Field(&a.Justify, validation.In(rowJustify...)),
	)
}

func (a ColumnAttributes) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Width, validation.By(intBetween(1, 12))),
	)
}

func (a HeadingAttributes) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Level, validation.By(intBetween(1, 6))),
		validation.Field(&a.Align, validation.In(alignments...)),
	)
}

func (a SeparatorAttributes) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Thickness, validation.By(intBetween(1, 20))),
		validation.Field(&a.Style, validation.In(separatorStyles...)),
	)
}

func (i DropdownItem) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Text, validation.Required),
		validation.Field(&i.URL, validation.By(safeURL)),
		validation.Field(&i.NestedItems),
	)
}

func (l DropdownLink) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Text, validation.Required),
		validation.Field(&l.URL, validation.By(safeURL)),
	)
}

func (a ButtonAttributes) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Text, validation.Required),
		validation.Field(&a.URL, validation.By(safeURL)),
		validation.Field(&a.Style, validation.In(buttonStyles...)),
		validation.Field(&a.Size, validation.In(buttonSizes...)),
		validation.Field(&a.Target, validation.In(linkTargets...)),
		validation.Field(&a.DropdownItems),
	)
}

func (a LinkAttributes) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Text, validation.Required),
		validation.Field(&a.URL, validation.By(safeURL)),
		validation.Field(&a.Target, validation.In(linkTargets...)),
		validation.Field(&a.DropdownItems),
	)
}

func (a CardAttributes) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.ImageURL, validation.By(safeURL)),
		validation.Field(&a.ButtonURL, validation.By(safeURL)),
	)
}

func (a AlertAttributes) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Variant, validation.In(bootstrapVariants...)),
	)
}

func (a ImageAttributes) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Src, validation.Required, validation.By(safeURL)),
		validation.Field(&a.Link, validation.By(safeURL)),
	)
}

func (a VideoAttributes) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Src, validation.Required, validation.By(safeURL)),
		validation.Field(&a.Poster, validation.By(safeURL)),
	)
}

func (i AccordionItem) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Title, validation.Required),
	)
}

func (a AccordionAttributes) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Items),
	)
}

func (a BadgeAttributes) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Text, validation.Required),
		validation.Field(&a.Variant, validation.In(bootstrapVariants...)),
	)
}

func (i BreadcrumbItem) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Label, validation.Required),
		validation.Field(&i.URL, validation.By(safeURL)),
	)
}

func (a BreadcrumbAttributes) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Items),
	)
}

func (t TabItem) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Title, validation.Required),
	)
}

func (a TabsAttributes) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Tabs),
		validation.Field(&a.Style, validation.In(tabStyles...)),
	)
}

func (a ToastAttributes) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Delay, validation.Min(0)),
	)
}

func (a CopyrightAttributes) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Year, validation.Min(1000), validation.Max(9999)),
	)
}

func (s SocialLink) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Network, validation.Required),
		validation.Field(&s.URL, validation.Required, validation.By(safeURL)),
	)
}

func (a SocialAttributes) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Platforms),
		validation.Field(&a.Size, validation.In(socialSizes...)),
	)
}

// ValidateOptions tunes Validate.
type ValidateOptions struct {
	// Strict reports attribute keys the widget type does not model.
	Strict bool
}

// Validate runs the per-type attribute rules over every node. Rules see the
// payload with defaults applied, so omitted optional fields never fail.
// Unknown widget types are not attribute errors.
func Validate(nodes []Node, opts ValidateOptions) ValidationErrors {
	var out ValidationErrors
	Walk(nodes, func(path Path, node Node) bool {
		out = append(out, validateNode(path, node, opts)...)
		return true
	})
	if len(out) == 0 {
		return nil
	}
	return out
}

func validateNode(path Path, node Node, opts ValidateOptions) ValidationErrors {
	if !node.Type.Known() {
		return nil
	}
	attrs := AttributesOf(node)
	if _, opaque := attrs.(OpaqueAttributes); opaque {
		return ValidationErrors{{Path: path, ID: node.ID, Type: node.Type, Err: errOpaqueAttributes}}
	}

	var out ValidationErrors
	if validatable, ok := attrs.(validation.Validatable); ok {
		for _, failure := range flattenErrors("", validatable.Validate()) {
			out = append(out, &AttributeValidationError{
				Path:  path,
				ID:    node.ID,
				Type:  node.Type,
				Field: failure.field,
				Err:   failure.err,
			})
		}
	}

	if opts.Strict {
		if carrier, ok := attrs.(extrasCarrier); ok {
			keys := make([]string, 0, len(carrier.unknownKeys()))
			for key := range carrier.unknownKeys() {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			for _, key := range keys {
				out = append(out, &AttributeValidationError{
					Path: path, ID: node.ID, Type: node.Type, Field: key, Err: errUnknownAttribute,
				})
			}
		}
		if !node.Type.IsContainer() && len(node.Children) > 0 {
			out = append(out, &AttributeValidationError{
				Path: path, ID: node.ID, Type: node.Type, Field: keyChildren,
				Err: fmt.Errorf("%s widgets do not accept children", node.Type),
			})
		}
	}
	return out
}

type fieldFailure struct {
	field string
	err   error
}

// flattenErrors turns nested ozzo errors into dotted field paths such as
// "items.0.title".
func flattenErrors(prefix string, err error) []fieldFailure {
	if err == nil {
		return nil
	}
	var nested validation.Errors
	if !errors.As(err, &nested) {
		return []fieldFailure{{field: prefix, err: err}}
	}
	keys := make([]string, 0, len(nested))
	for key := range nested {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return lessFieldKey(keys[i], keys[j]) })

	var out []fieldFailure
	for _, key := range keys {
		name := key
		if prefix != "" {
			name = prefix + "." + key
		}
		out = append(out, flattenErrors(name, nested[key])...)
	}
	return out
}

func lessFieldKey(a, b string) bool {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		return ai < bi
	}
	return a < b
}

// Normalize returns a copy of the tree with every known payload defaulted.
// Nodes whose attributes could not be decoded are left as they are.
func Normalize(nodes []Node) []Node {
	out := CloneAll(nodes)
	normalize(out)
	return out
}

func normalize(nodes []Node) {
	for i := range nodes {
		node := &nodes[i]
		if node.Type.Known() {
			if _, opaque := node.Attributes.(OpaqueAttributes); !opaque {
				node.Attributes = AttributesOf(*node)
			}
		}
		if strings.TrimSpace(node.ID) == "" {
			node.ID = NewID()
		}
		if len(node.Children) > 0 {
			normalize(node.Children)
		}
	}
}
