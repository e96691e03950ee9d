// Package render turns widget trees into HTML markup.
package render

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/goliatone/go-sitebuilder/internal/logging"
	"github.com/goliatone/go-sitebuilder/internal/sanitize"
	"github.com/goliatone/go-sitebuilder/internal/widgets"
	"github.com/goliatone/go-sitebuilder/pkg/interfaces"
)

// Mode selects between editor preview markup and the public site.
type Mode string

const (
	ModePreview Mode = "preview"
	ModePublic  Mode = "public"
)

// ParseMode maps a configuration value to a Mode, defaulting to public.
func ParseMode(value string) Mode {
	if strings.EqualFold(strings.TrimSpace(value), string(ModePreview)) {
		return ModePreview
	}
	return ModePublic
}

// DefaultGridPrefix is the column width class prefix.
const DefaultGridPrefix = "col-md-"

// Context carries per-request render inputs.
type Context struct {
	// SiteID prefixes root-relative links with /site/{id} in preview mode.
	SiteID uuid.UUID
	// ActiveMenu is the URL of the current navigation entry; links pointing
	// at it are marked active.
	ActiveMenu string
	Mode       Mode
}

func (c Context) preview() bool { return c.Mode == ModePreview }

// Result is the outcome of RenderDetailed.
type Result struct {
	HTML     string
	Warnings []*widgets.UnknownWidgetTypeWarning
	Errors   []error
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger used for render warnings.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithSanitizer replaces the content policy applied at render time.
func WithSanitizer(s widgets.Sanitizer) Option {
	return func(r *Renderer) {
		if s != nil {
			r.sanitizer = s
		}
	}
}

// WithGridPrefix overrides the column class prefix.
func WithGridPrefix(prefix string) Option {
	return func(r *Renderer) {
		if strings.TrimSpace(prefix) != "" {
			r.gridPrefix = prefix
		}
	}
}

// WithMarkdown replaces the goldmark instance used by markdown widgets.
func WithMarkdown(md goldmark.Markdown) Option {
	return func(r *Renderer) {
		if md != nil {
			r.markdown = md
		}
	}
}

// Renderer renders widget trees. It holds no per-call state and is safe for
// concurrent use.
type Renderer struct {
	logger     interfaces.Logger
	sanitizer  widgets.Sanitizer
	markdown   goldmark.Markdown
	gridPrefix string
}

// New builds a Renderer with the default content policy.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		logger:     logging.NoOp(),
		sanitizer:  sanitize.NewPolicy(),
		markdown:   goldmark.New(goldmark.WithExtensions(extension.GFM)),
		gridPrefix: DefaultGridPrefix,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Render returns the markup for nodes. An empty tree renders to "".
func (r *Renderer) Render(nodes []widgets.Node, ctx Context) string {
	return r.RenderDetailed(nodes, ctx).HTML
}

// RenderDetailed renders nodes and reports unknown types and template
// failures alongside the markup.
func (r *Renderer) RenderDetailed(nodes []widgets.Node, ctx Context) Result {
	if len(nodes) == 0 {
		return Result{}
	}
	state := &renderState{ctx: ctx}
	clean := widgets.Sanitize(nodes, r.sanitizer)

	var buf bytes.Buffer
	r.renderNodes(&buf, clean, widgets.Path{}, state)
	return Result{HTML: buf.String(), Warnings: state.warnings, Errors: state.errors}
}

type renderState struct {
	ctx      Context
	warnings []*widgets.UnknownWidgetTypeWarning
	errors   []error
}

func (r *Renderer) renderNodes(buf *bytes.Buffer, nodes []widgets.Node, parent widgets.Path, state *renderState) {
	for i, node := range nodes {
		r.renderNode(buf, node, parent.Child(i), state)
	}
}

func (r *Renderer) renderNode(buf *bytes.Buffer, node widgets.Node, path widgets.Path, state *renderState) {
	if !node.Type.Known() {
		warning := &widgets.UnknownWidgetTypeWarning{Path: path, ID: node.ID, Type: node.Type}
		state.warnings = append(state.warnings, warning)
		r.logger.Warn("render.widget.unknown",
			"path", path.String(),
			"widget_id", node.ID,
			"widget_type", node.Type.String(),
		)
		r.execute(buf, "unknown", r.baseView(node, state), path, state)
		return
	}

	attrs := widgets.AttributesOf(node)
	if _, opaque := attrs.(widgets.OpaqueAttributes); opaque {
		r.logger.Warn("render.widget.invalid",
			"path", path.String(),
			"widget_id", node.ID,
			"widget_type", node.Type.String(),
			"fallback", node.Type.IsContainer(),
		)
		if !node.Type.IsContainer() {
			r.execute(buf, "invalid", r.baseView(node, state), path, state)
			return
		}
		// Containers keep their children and render with default attributes.
		zero, _ := widgets.NewAttributes(node.Type)
		attrs = widgets.WithDefaults(zero)
	}

	v := r.baseView(node, state)
	v.A = attrs
	switch a := attrs.(type) {
	case widgets.RowAttributes:
		v.Classes = rowClasses(a)
		v.Children = r.renderChildren(node, path, state)
		r.execute(buf, "row", v, path, state)
	case widgets.ColumnAttributes:
		v.Classes = r.columnClass(a)
		v.Children = r.renderChildren(node, path, state)
		r.execute(buf, "column", v, path, state)
	default:
		r.renderLeaf(buf, v, path, state)
	}
}

func (r *Renderer) renderChildren(node widgets.Node, path widgets.Path, state *renderState) template.HTML {
	if len(node.Children) == 0 {
		return ""
	}
	var buf bytes.Buffer
	r.renderNodes(&buf, node.Children, path, state)
	return template.HTML(buf.String()) // #nosec G203 -- produced by the widget templates
}

func (r *Renderer) execute(buf *bytes.Buffer, name string, data view, path widgets.Path, state *renderState) {
	var out bytes.Buffer
	if err := widgetTemplates.ExecuteTemplate(&out, name, data); err != nil {
		state.errors = append(state.errors, err)
		r.logger.Error("render.widget.failed",
			"path", path.String(),
			"widget_id", data.ID,
			"widget_type", data.Type,
			"error", err,
		)
		buf.WriteString(`<!-- error rendering widget -->`)
		return
	}
	buf.Write(out.Bytes())
}
