package widgets

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-sitebuilder/internal/logging"
	"github.com/goliatone/go-sitebuilder/pkg/interfaces"
)

// DefaultMaxDepth bounds tree nesting during Codec decoding.
const DefaultMaxDepth = 32

// CodecOption configures a Codec.
type CodecOption func(*Codec)

// WithStrict toggles strict validation.
func WithStrict(strict bool) CodecOption {
	return func(c *Codec) { c.strict = strict }
}

// WithMaxDepth sets the nesting limit. Zero disables the check.
func WithMaxDepth(depth int) CodecOption {
	return func(c *Codec) {
		if depth >= 0 {
			c.maxDepth = depth
		}
	}
}

// WithSanitizer cleans HTML, URLs and styles of decoded trees.
func WithSanitizer(s Sanitizer) CodecOption {
	return func(c *Codec) { c.sanitizer = s }
}

// WithSchema overrides the strict-mode schema validator.
func WithSchema(v *SchemaValidator) CodecOption {
	return func(c *Codec) { c.schema = v }
}

// WithLogger sets the logger used to report non-strict warnings.
func WithLogger(logger interfaces.Logger) CodecOption {
	return func(c *Codec) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Codec decodes, validates and re-encodes container documents on the save
// path. Codecs are immutable and safe for concurrent use.
type Codec struct {
	strict    bool
	maxDepth  int
	sanitizer Sanitizer
	schema    *SchemaValidator
	logger    interfaces.Logger
}

// DecodeResult carries the decoded tree and the warnings collected in
// non-strict mode.
type DecodeResult struct {
	Nodes  []Node
	Issues ValidationErrors
}

// NewCodec builds a codec. The embedded schema is compiled when no
// validator is supplied.
func NewCodec(opts ...CodecOption) (*Codec, error) {
	c := &Codec{
		maxDepth: DefaultMaxDepth,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.schema == nil {
		schema, err := NewSchemaValidator()
		if err != nil {
			return nil, fmt.Errorf("widgets: compile tree schema: %w", err)
		}
		c.schema = schema
	}
	return c, nil
}

// MustNewCodec is NewCodec that panics when the embedded schema cannot be
// compiled.
func MustNewCodec(opts ...CodecOption) *Codec {
	codec, err := NewCodec(opts...)
	if err != nil {
		panic(err)
	}
	return codec
}

// Strict reports the codec's default validation mode.
func (c *Codec) Strict() bool { return c.strict }

// AsStrict returns a copy of the codec with the validation mode replaced.
func (c *Codec) AsStrict(strict bool) *Codec {
	clone := *c
	clone.strict = strict
	return &clone
}

// Decode parses and validates a document. Structural problems always fail
// with *MalformedTreeError. Attribute and id problems fail in strict mode and
// are returned as Issues otherwise, with defaults filled into the tree and
// offending ids repaired.
func (c *Codec) Decode(data []byte) (DecodeResult, error) {
	nodes, err := Decode(data)
	if err != nil {
		return DecodeResult{}, err
	}
	if c.maxDepth > 0 {
		if depth := Depth(nodes); depth > c.maxDepth {
			return DecodeResult{}, &MalformedTreeError{
				Reason: fmt.Sprintf("tree depth %d exceeds limit %d", depth, c.maxDepth),
			}
		}
	}

	if c.strict {
		if len(nodes) > 0 {
			if err := c.schema.ValidateDocument(data); err != nil {
				return DecodeResult{}, err
			}
		}
		issues := append(Validate(nodes, ValidateOptions{Strict: true}), ValidateIDs(nodes)...)
		if len(issues) > 0 {
			return DecodeResult{}, issues
		}
	}

	var issues ValidationErrors
	var idIssues ValidationErrors
	if !c.strict {
		idIssues = ValidateIDs(nodes)
		issues = append(Validate(nodes, ValidateOptions{}), idIssues...)
		for _, issue := range issues {
			c.logger.Warn("widgets.attributes.invalid",
				"path", issue.Path.String(),
				"widget_id", issue.ID,
				"widget_type", issue.Type.String(),
				"field", issue.Field,
				"error", issue.Err,
			)
		}
	}

	nodes = Normalize(nodes)
	if len(idIssues) > 0 {
		nodes, _ = RepairIDs(nodes)
	}
	if c.sanitizer != nil {
		nodes = Sanitize(nodes, c.sanitizer)
	}
	return DecodeResult{Nodes: nodes, Issues: issues}, nil
}

// Prepare decodes a submitted document and returns the canonical text to
// persist alongside the decode result.
func (c *Codec) Prepare(data []byte) ([]byte, DecodeResult, error) {
	result, err := c.Decode(data)
	if err != nil {
		return nil, DecodeResult{}, err
	}
	encoded, err := Encode(result.Nodes)
	if err != nil {
		return nil, DecodeResult{}, err
	}
	return encoded, result, nil
}

// IsRejection reports whether err is a document rejection (malformed tree or
// attribute validation) rather than an internal failure.
func IsRejection(err error) bool {
	return errors.Is(err, ErrMalformedTree) || errors.Is(err, ErrAttributeValidation)
}

// Prepared is a container save payload in its canonical stored form.
type Prepared struct {
	Content []byte
	Styles  []byte
	Result  DecodeResult
}

// PrepareContainer canonicalises a container document and its style blob.
// Style keys pass through the sanitizer when one is configured.
func (c *Codec) PrepareContainer(content, styles []byte) (Prepared, error) {
	encoded, result, err := c.Prepare(content)
	if err != nil {
		return Prepared{}, err
	}
	decoded, err := DecodeStyles(styles)
	if err != nil {
		return Prepared{}, err
	}
	if c.sanitizer != nil {
		decoded = c.sanitizer.Styles(decoded)
	}
	blob, err := EncodeStyles(decoded)
	if err != nil {
		return Prepared{}, err
	}
	return Prepared{Content: encoded, Styles: blob, Result: result}, nil
}
