package widgets

import (
	"encoding/json"
	"reflect"
	"strings"
	"sync"
)

// Attributes is the per-type payload of a node. Known types map to one of the
// structs below; anything else is carried as OpaqueAttributes.
type Attributes interface {
	Kind() Type
	withDefaults() Attributes
}

// Extras holds attribute keys a payload struct does not model, plus the raw
// object the payload was decoded from.
type Extras struct {
	Unknown map[string]json.RawMessage `json:"-"`
	source  map[string]json.RawMessage
}

func (e Extras) unknownKeys() map[string]json.RawMessage { return e.Unknown }

func (e Extras) sourceFields() map[string]json.RawMessage { return e.source }

func (e *Extras) setDecoded(source, unknown map[string]json.RawMessage) {
	e.source = source
	e.Unknown = unknown
}

type extrasCarrier interface {
	unknownKeys() map[string]json.RawMessage
	sourceFields() map[string]json.RawMessage
}

type extrasSetter interface {
	setDecoded(source, unknown map[string]json.RawMessage)
}

// OpaqueAttributes preserves the raw attribute object of an unrecognised type,
// or of a known type whose attributes could not be decoded.
type OpaqueAttributes struct {
	Type Type
	Raw  json.RawMessage
}

func (a OpaqueAttributes) Kind() Type               { return a.Type }
func (a OpaqueAttributes) withDefaults() Attributes { return a }

type RowAttributes struct {
	Extras
	Gutter     *int   `json:"gutter,omitempty"`
	Align      string `json:"align,omitempty"`
	Justify    string `json:"justify,omitempty"`
	FullWidth  bool   `json:"fullWidth,omitempty"`
	Background string `json:"background,omitempty"`
}

type ColumnAttributes struct {
	Extras
	Width *int `json:"width,omitempty"`
}

type HeadingAttributes struct {
	Extras
	Level   int    `json:"level,omitempty"`
	Content string `json:"content"`
	Align   string `json:"align,omitempty"`
}

type RichTextAttributes struct {
	Extras
	Content string `json:"content"`
}

type HTMLAttributes struct {
	Extras
	Content string `json:"content"`
}

type MarkdownAttributes struct {
	Extras
	Source string `json:"source"`
}

type SeparatorAttributes struct {
	Extras
	Thickness int    `json:"thickness,omitempty"`
	Color     string `json:"color,omitempty"`
	Style     string `json:"style,omitempty"`
}

// DropdownItem is an entry of a button or link dropdown.
type DropdownItem struct {
	Text        string         `json:"text"`
	URL         string         `json:"url,omitempty"`
	NestedItems []DropdownLink `json:"nestedItems,omitempty"`
}

type DropdownLink struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

type ButtonAttributes struct {
	Extras
	Text          string         `json:"text"`
	URL           string         `json:"url,omitempty"`
	Style         string         `json:"style,omitempty"`
	Size          string         `json:"size,omitempty"`
	Target        string         `json:"target,omitempty"`
	Block         bool           `json:"block,omitempty"`
	DropdownItems []DropdownItem `json:"dropdownItems,omitempty"`
}

type LinkAttributes struct {
	Extras
	Text          string         `json:"text"`
	URL           string         `json:"url"`
	Target        string         `json:"target,omitempty"`
	DropdownItems []DropdownItem `json:"dropdownItems,omitempty"`
}

type CardAttributes struct {
	Extras
	Title      string `json:"title,omitempty"`
	Content    string `json:"content,omitempty"`
	ImageURL   string `json:"imageUrl,omitempty"`
	ImageAlt   string `json:"imageAlt,omitempty"`
	Footer     string `json:"footer,omitempty"`
	ButtonText string `json:"buttonText,omitempty"`
	ButtonURL  string `json:"buttonUrl,omitempty"`
}

type AlertAttributes struct {
	Extras
	Content     string `json:"content"`
	Variant     string `json:"variant,omitempty"`
	Dismissible bool   `json:"dismissible,omitempty"`
}

type ImageAttributes struct {
	Extras
	Src     string `json:"src"`
	Alt     string `json:"alt,omitempty"`
	Caption string `json:"caption,omitempty"`
	Link    string `json:"link,omitempty"`
	Width   string `json:"width,omitempty"`
	Rounded bool   `json:"rounded,omitempty"`
}

type VideoAttributes struct {
	Extras
	Src      string `json:"src"`
	Poster   string `json:"poster,omitempty"`
	Embed    bool   `json:"embed,omitempty"`
	Autoplay bool   `json:"autoplay,omitempty"`
	Controls *bool  `json:"controls,omitempty"`
	Loop     bool   `json:"loop,omitempty"`
	Muted    bool   `json:"muted,omitempty"`
}

type AccordionItem struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Expanded bool   `json:"expanded"`
}

type AccordionAttributes struct {
	Extras
	Items      []AccordionItem `json:"items"`
	AlwaysOpen bool            `json:"alwaysOpen,omitempty"`
	Flush      bool            `json:"flush,omitempty"`
}

type BadgeAttributes struct {
	Extras
	Text    string `json:"text"`
	Variant string `json:"variant,omitempty"`
	Pill    bool   `json:"pill,omitempty"`
}

type BreadcrumbItem struct {
	Label string `json:"label"`
	URL   string `json:"url,omitempty"`
}

type BreadcrumbAttributes struct {
	Extras
	Items []BreadcrumbItem `json:"items"`
}

type CollapseAttributes struct {
	Extras
	Title    string `json:"title"`
	Content  string `json:"content"`
	Expanded bool   `json:"expanded,omitempty"`
}

type TabItem struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Active  bool   `json:"active"`
}

type TabsAttributes struct {
	Extras
	Tabs  []TabItem `json:"tabs"`
	Style string    `json:"style,omitempty"`
}

type ToastAttributes struct {
	Extras
	Title    string `json:"title,omitempty"`
	Content  string `json:"content"`
	Delay    int    `json:"delay,omitempty"`
	Autohide bool   `json:"autohide,omitempty"`
}

type CopyrightAttributes struct {
	Extras
	Holder string `json:"holder"`
	Year   int    `json:"year,omitempty"`
	Text   string `json:"text,omitempty"`
}

type SocialLink struct {
	Network string `json:"network"`
	URL     string `json:"url"`
}

type SocialAttributes struct {
	Extras
	Platforms []SocialLink `json:"platforms"`
	Size      string       `json:"size,omitempty"`
}

func (RowAttributes) Kind() Type        { return TypeRow }
func (ColumnAttributes) Kind() Type     { return TypeColumn }
func (HeadingAttributes) Kind() Type    { return TypeHeading }
func (RichTextAttributes) Kind() Type   { return TypeRichText }
func (HTMLAttributes) Kind() Type       { return TypeHTML }
func (MarkdownAttributes) Kind() Type   { return TypeMarkdown }
func (SeparatorAttributes) Kind() Type  { return TypeSeparator }
func (ButtonAttributes) Kind() Type     { return TypeButton }
func (LinkAttributes) Kind() Type       { return TypeLink }
func (CardAttributes) Kind() Type       { return TypeCard }
func (AlertAttributes) Kind() Type      { return TypeAlert }
func (ImageAttributes) Kind() Type      { return TypeImage }
func (VideoAttributes) Kind() Type      { return TypeVideo }
func (AccordionAttributes) Kind() Type  { return TypeAccordion }
func (BadgeAttributes) Kind() Type      { return TypeBadge }
func (BreadcrumbAttributes) Kind() Type { return TypeBreadcrumb }
func (CollapseAttributes) Kind() Type   { return TypeCollapse }
func (TabsAttributes) Kind() Type       { return TypeTabs }
func (ToastAttributes) Kind() Type      { return TypeToast }
func (CopyrightAttributes) Kind() Type  { return TypeCopyright }
func (SocialAttributes) Kind() Type     { return TypeSocial }

const (
	DefaultColumnWidth    = 12
	DefaultHeadingLevel   = 2
	DefaultButtonStyle    = "primary"
	DefaultButtonSize     = "md"
	DefaultAlertVariant   = "info"
	DefaultBadgeVariant   = "secondary"
	DefaultSeparatorWidth = 1
	DefaultSeparatorStyle = "solid"
	DefaultToastDelay     = 5000
	DefaultTabsStyle      = "tabs"
)

func (a RowAttributes) withDefaults() Attributes { return a }

func (a ColumnAttributes) withDefaults() Attributes {
	if a.Width == nil {
		width := DefaultColumnWidth
		a.Width = &width
	}
	return a
}

func (a HeadingAttributes) withDefaults() Attributes {
	if a.Level == 0 {
		a.Level = DefaultHeadingLevel
	}
	return a
}

func (a RichTextAttributes) withDefaults() Attributes { return a }
func (a HTMLAttributes) withDefaults() Attributes     { return a }
func (a MarkdownAttributes) withDefaults() Attributes { return a }

func (a SeparatorAttributes) withDefaults() Attributes {
	if a.Thickness == 0 {
		a.Thickness = DefaultSeparatorWidth
	}
	if a.Style == "" {
		a.Style = DefaultSeparatorStyle
	}
	return a
}

func (a ButtonAttributes) withDefaults() Attributes {
	if a.Style == "" {
		a.Style = DefaultButtonStyle
	}
	if a.Size == "" {
		a.Size = DefaultButtonSize
	}
	return a
}

func (a LinkAttributes) withDefaults() Attributes { return a }
func (a CardAttributes) withDefaults() Attributes { return a }

func (a AlertAttributes) withDefaults() Attributes {
	if a.Variant == "" {
		a.Variant = DefaultAlertVariant
	}
	return a
}

func (a ImageAttributes) withDefaults() Attributes { return a }

func (a VideoAttributes) withDefaults() Attributes {
	if a.Controls == nil {
		controls := true
		a.Controls = &controls
	}
	return a
}

func (a AccordionAttributes) withDefaults() Attributes { return a }

func (a BadgeAttributes) withDefaults() Attributes {
	if a.Variant == "" {
		a.Variant = DefaultBadgeVariant
	}
	return a
}

func (a BreadcrumbAttributes) withDefaults() Attributes { return a }
func (a CollapseAttributes) withDefaults() Attributes   { return a }

func (a TabsAttributes) withDefaults() Attributes {
	if a.Style == "" {
		a.Style = DefaultTabsStyle
	}
	return a
}

func (a ToastAttributes) withDefaults() Attributes {
	if a.Delay == 0 {
		a.Delay = DefaultToastDelay
	}
	return a
}

func (a CopyrightAttributes) withDefaults() Attributes { return a }
func (a SocialAttributes) withDefaults() Attributes    { return a }

// WithDefaults returns a copy of the payload with optional fields filled.
func WithDefaults(attrs Attributes) Attributes {
	if attrs == nil {
		return nil
	}
	return attrs.withDefaults()
}

// NewAttributes returns the zero payload for a known type.
func NewAttributes(t Type) (Attributes, bool) {
	ptr, ok := newPayload(t)
	if !ok {
		return nil, false
	}
	return reflect.ValueOf(ptr).Elem().Interface().(Attributes), true
}

// AttributesOf returns the node payload with defaults applied, substituting
// the zero payload when the node carries none.
func AttributesOf(node Node) Attributes {
	attrs := node.Attributes
	if attrs == nil {
		zero, ok := NewAttributes(node.Type)
		if !ok {
			return OpaqueAttributes{Type: node.Type}
		}
		attrs = zero
	}
	return attrs.withDefaults()
}

func newPayload(t Type) (any, bool) {
	switch t {
	case TypeRow:
		return &RowAttributes{}, true
	case TypeColumn:
		return &ColumnAttributes{}, true
	case TypeHeading:
		return &HeadingAttributes{}, true
	case TypeRichText:
		return &RichTextAttributes{}, true
	case TypeHTML:
		return &HTMLAttributes{}, true
	case TypeMarkdown:
		return &MarkdownAttributes{}, true
	case TypeSeparator:
		return &SeparatorAttributes{}, true
	case TypeButton:
		return &ButtonAttributes{}, true
	case TypeLink:
		return &LinkAttributes{}, true
	case TypeCard:
		return &CardAttributes{}, true
	case TypeAlert:
		return &AlertAttributes{}, true
	case TypeImage:
		return &ImageAttributes{}, true
	case TypeVideo:
		return &VideoAttributes{}, true
	case TypeAccordion:
		return &AccordionAttributes{}, true
	case TypeBadge:
		return &BadgeAttributes{}, true
	case TypeBreadcrumb:
		return &BreadcrumbAttributes{}, true
	case TypeCollapse:
		return &CollapseAttributes{}, true
	case TypeTabs:
		return &TabsAttributes{}, true
	case TypeToast:
		return &ToastAttributes{}, true
	case TypeCopyright:
		return &CopyrightAttributes{}, true
	case TypeSocial:
		return &SocialAttributes{}, true
	default:
		return nil, false
	}
}

type modeledField struct {
	index int
	name  string
}

var modeledFields sync.Map // reflect.Type -> []modeledField

func modeledFieldsOf(rt reflect.Type) []modeledField {
	if cached, ok := modeledFields.Load(rt); ok {
		return cached.([]modeledField)
	}
	var fields []modeledField
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if field.Anonymous || !field.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = field.Name
		}
		fields = append(fields, modeledField{index: i, name: name})
	}
	modeledFields.Store(rt, fields)
	return fields
}

func isModeledKey(rt reflect.Type, key string) bool {
	for _, field := range modeledFieldsOf(rt) {
		if field.name == key {
			return true
		}
	}
	return false
}

// decodeAttributes decodes a raw attribute object into the payload for t.
// Unrecognised types yield OpaqueAttributes.
func decodeAttributes(t Type, raw json.RawMessage) (Attributes, error) {
	ptr, ok := newPayload(t)
	if !ok {
		return OpaqueAttributes{Type: t, Raw: append(json.RawMessage(nil), raw...)}, nil
	}
	if err := json.Unmarshal(raw, ptr); err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	value := reflect.ValueOf(ptr).Elem()
	var unknown map[string]json.RawMessage
	for key, val := range fields {
		if isModeledKey(value.Type(), key) {
			continue
		}
		if unknown == nil {
			unknown = map[string]json.RawMessage{}
		}
		unknown[key] = val
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	if setter, ok := ptr.(extrasSetter); ok {
		setter.setDecoded(fields, unknown)
	}
	return value.Interface().(Attributes), nil
}

// encodeAttributes renders a payload as a JSON object, merging back any
// keys the payload struct does not model. A payload decoded from a document
// writes back the keys it was read with: unchanged fields keep their source
// text and absent fields stay absent unless they now hold a value. Payloads
// built in code follow their struct tags.
func encodeAttributes(attrs Attributes) (json.RawMessage, error) {
	if opaque, ok := attrs.(OpaqueAttributes); ok {
		if len(opaque.Raw) == 0 {
			return nil, nil
		}
		return opaque.Raw, nil
	}
	carrier, ok := attrs.(extrasCarrier)
	if !ok || carrier.sourceFields() == nil {
		return json.Marshal(attrs)
	}
	source := carrier.sourceFields()

	merged := make(map[string]json.RawMessage, len(source))
	for key, val := range carrier.unknownKeys() {
		merged[key] = val
	}
	value := reflect.ValueOf(attrs)
	for _, field := range modeledFieldsOf(value.Type()) {
		current := value.Field(field.index)
		raw, present := source[field.name]
		if present && matchesSource(current, raw) {
			merged[field.name] = raw
			continue
		}
		if !present && current.IsZero() {
			continue
		}
		encoded, err := json.Marshal(current.Interface())
		if err != nil {
			return nil, err
		}
		merged[field.name] = encoded
	}
	return json.Marshal(merged)
}

// matchesSource reports whether raw decodes to the field's current value.
func matchesSource(current reflect.Value, raw json.RawMessage) bool {
	decoded := reflect.New(current.Type())
	if err := json.Unmarshal(raw, decoded.Interface()); err != nil {
		return false
	}
	return reflect.DeepEqual(decoded.Elem().Interface(), current.Interface())
}

func cloneAttributes(attrs Attributes) Attributes {
	if opaque, ok := attrs.(OpaqueAttributes); ok {
		opaque.Raw = append(json.RawMessage(nil), opaque.Raw...)
		return opaque
	}
	raw, err := encodeAttributes(attrs)
	if err != nil {
		return attrs
	}
	cloned, err := decodeAttributes(attrs.Kind(), raw)
	if err != nil {
		return attrs
	}
	return cloned
}
