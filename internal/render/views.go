package render

import (
	"bytes"
	"fmt"
	"html/template"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitebuilder/internal/widgets"
)

// view is the data handed to every widget template.
type view struct {
	ID       string
	Type     string
	Preview  bool
	Style    template.CSS
	Classes  string
	URL      string
	Active   bool
	Controls bool
	Children template.HTML
	Markup   template.HTML
	Dropdown []dropdownView
	Crumbs   []crumbView
	Tabs     []widgets.TabItem
	A        widgets.Attributes

	styles map[string]string
}

type dropdownView struct {
	Text   string
	URL    string
	Active bool
	Nested []dropdownView
}

type crumbView struct {
	Label string
	URL   string
	Last  bool
}

func (r *Renderer) baseView(node widgets.Node, state *renderState) view {
	return view{
		ID:      node.ID,
		Type:    node.Type.String(),
		Preview: state.ctx.preview(),
		Style:   InlineStyle(node.Styles),
		styles:  node.Styles,
	}
}

func rowClasses(a widgets.RowAttributes) string {
	classes := []string{"row"}
	if a.Gutter != nil {
		classes = append(classes, "g-"+strconv.Itoa(*a.Gutter))
	}
	if a.Align != "" {
		classes = append(classes, "align-items-"+a.Align)
	}
	if a.Justify != "" {
		classes = append(classes, "justify-content-"+a.Justify)
	}
	return strings.Join(classes, " ")
}

// ClampWidth bounds a column width to the 12 column grid.
func ClampWidth(width int) int {
	switch {
	case width < 1:
		return 1
	case width > 12:
		return 12
	default:
		return width
	}
}

func (r *Renderer) columnClass(a widgets.ColumnAttributes) string {
	width := widgets.DefaultColumnWidth
	if a.Width != nil {
		width = *a.Width
	}
	return r.gridPrefix + strconv.Itoa(ClampWidth(width))
}

func clampLevel(level int) int {
	switch {
	case level < 1:
		return 1
	case level > 6:
		return 6
	default:
		return level
	}
}

func (r *Renderer) renderLeaf(buf *bytes.Buffer, v view, path widgets.Path, state *renderState) {
	name := v.Type
	switch a := v.A.(type) {
	case widgets.HeadingAttributes:
		name = fmt.Sprintf("heading%d", clampLevel(a.Level))
		v.Classes = "sb-heading"
		if a.Align != "" {
			v.Classes += " text-" + a.Align
		}
	case widgets.HTMLAttributes:
		name = "rawhtml"
	case widgets.MarkdownAttributes:
		v.Markup = r.renderMarkdown(a.Source, v, path, state)
	case widgets.SeparatorAttributes:
		computed := map[string]string{
			"borderTop": fmt.Sprintf("%dpx %s %s", a.Thickness, separatorStyle(a.Style), colorOr(a.Color)),
		}
		v.Style = InlineStyle(mergeStyles(computed, v.styles))
	case widgets.ButtonAttributes:
		v.Classes = buttonClasses(a)
		v.URL = LinkURL(a.URL, state.ctx)
		v.Active = IsActiveURL(a.URL, state.ctx)
		v.Dropdown = dropdownViews(a.DropdownItems, state.ctx)
	case widgets.LinkAttributes:
		v.Classes = "sb-link-anchor"
		v.URL = LinkURL(a.URL, state.ctx)
		v.Active = IsActiveURL(a.URL, state.ctx)
		if v.Active {
			v.Classes += " active"
		}
		v.Dropdown = dropdownViews(a.DropdownItems, state.ctx)
	case widgets.CardAttributes:
		v.URL = LinkURL(a.ButtonURL, state.ctx)
	case widgets.AlertAttributes:
		v.Classes = "alert alert-" + a.Variant
		if a.Dismissible {
			v.Classes += " alert-dismissible fade show"
		}
	case widgets.ImageAttributes:
		v.Classes = "img-fluid"
		if a.Rounded {
			v.Classes += " rounded"
		}
		v.URL = LinkURL(a.Link, state.ctx)
	case widgets.VideoAttributes:
		v.Controls = a.Controls == nil || *a.Controls
	case widgets.BadgeAttributes:
		v.Classes = "badge bg-" + a.Variant
		if a.Pill {
			v.Classes += " rounded-pill"
		}
	case widgets.BreadcrumbAttributes:
		v.Crumbs = make([]crumbView, len(a.Items))
		for i, item := range a.Items {
			v.Crumbs[i] = crumbView{
				Label: item.Label,
				URL:   LinkURL(item.URL, state.ctx),
				Last:  i == len(a.Items)-1,
			}
		}
	case widgets.TabsAttributes:
		v.Tabs = activeTabs(a.Tabs)
	case widgets.SocialAttributes:
		v.Classes = "sb-social list-inline"
		if a.Size != "" {
			v.Classes += " sb-social-" + a.Size
		}
	}
	r.execute(buf, name, v, path, state)
}

func (r *Renderer) renderMarkdown(source string, v view, path widgets.Path, state *renderState) template.HTML {
	if strings.TrimSpace(source) == "" {
		return ""
	}
	var out bytes.Buffer
	if err := r.markdown.Convert([]byte(source), &out); err != nil {
		state.errors = append(state.errors, err)
		r.logger.Error("render.markdown.failed",
			"path", path.String(),
			"widget_id", v.ID,
			"error", err,
		)
		return ""
	}
	return template.HTML(r.sanitizer.HTML(out.String())) // #nosec G203 -- sanitised above
}

var cssColorPattern = regexp.MustCompile(`^[#a-zA-Z0-9(),.% ]+$`)

func colorOr(color string) string {
	color = strings.TrimSpace(color)
	if color == "" || !cssColorPattern.MatchString(color) {
		return "currentColor"
	}
	return color
}

func separatorStyle(style string) string {
	switch style {
	case "solid", "dashed", "dotted", "double":
		return style
	default:
		return widgets.DefaultSeparatorStyle
	}
}

func buttonClasses(a widgets.ButtonAttributes) string {
	classes := []string{"btn", "btn-" + a.Style}
	switch a.Size {
	case "sm", "lg":
		classes = append(classes, "btn-"+a.Size)
	}
	if a.Block {
		classes = append(classes, "w-100")
	}
	return strings.Join(classes, " ")
}

func dropdownViews(items []widgets.DropdownItem, ctx Context) []dropdownView {
	if len(items) == 0 {
		return nil
	}
	out := make([]dropdownView, len(items))
	for i, item := range items {
		entry := dropdownView{
			Text:   item.Text,
			URL:    LinkURL(item.URL, ctx),
			Active: IsActiveURL(item.URL, ctx),
		}
		for _, nested := range item.NestedItems {
			entry.Nested = append(entry.Nested, dropdownView{
				Text:   nested.Text,
				URL:    LinkURL(nested.URL, ctx),
				Active: IsActiveURL(nested.URL, ctx),
			})
		}
		out[i] = entry
	}
	return out
}

func activeTabs(tabs []widgets.TabItem) []widgets.TabItem {
	out := make([]widgets.TabItem, len(tabs))
	copy(out, tabs)
	for _, tab := range out {
		if tab.Active {
			return out
		}
	}
	if len(out) > 0 {
		out[0].Active = true
	}
	return out
}

// LinkURL prefixes root-relative URLs with the site preview route.
func LinkURL(raw string, ctx Context) string {
	url := strings.TrimSpace(raw)
	if url == "" {
		return "#"
	}
	if ctx.preview() && ctx.SiteID != uuid.Nil && strings.HasPrefix(url, "/") && !strings.HasPrefix(url, "//") {
		return "/site/" + ctx.SiteID.String() + url
	}
	return url
}

// IsActiveURL reports whether raw is the active navigation URL.
func IsActiveURL(raw string, ctx Context) bool {
	active := strings.TrimSpace(ctx.ActiveMenu)
	return active != "" && strings.TrimSpace(raw) == active
}
