// Package sanitize cleans user-authored widget content before it is stored
// or rendered.
package sanitize

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var allowedTags = []string{
	"p", "br", "b", "i", "u", "strong", "em", "ul", "ol", "li", "a",
	"h1", "h2", "h3", "h4", "h5", "h6", "blockquote", "code", "pre",
	"span", "div", "table", "thead", "tbody", "tr", "th", "td",
}

var (
	linkTargetPattern = regexp.MustCompile(`^_(blank|self|parent|top)$`)
	scriptSchemeRe    = regexp.MustCompile(`(?i)javascript:`)
)

// Policy sanitises HTML fragments, inline styles and link targets. A Policy
// is safe for concurrent use once constructed.
type Policy struct {
	html *bluemonday.Policy
}

// NewPolicy builds the default content policy.
func NewPolicy() *Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(allowedTags...)
	p.AllowAttrs("href", "title").OnElements("a")
	p.AllowAttrs("target").Matching(linkTargetPattern).OnElements("a")
	p.AllowAttrs("class").Globally()
	p.AllowURLSchemes("http", "https", "mailto", "tel")
	p.AllowRelativeURLs(true)
	p.RequireParseableURLs(true)
	return &Policy{html: p}
}

// HTML strips disallowed tags and attributes from an HTML fragment.
func (p *Policy) HTML(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	cleaned := p.html.Sanitize(fragment)
	return scriptSchemeRe.ReplaceAllString(cleaned, "")
}

// URL returns the input when it is safe to use as a link or media source and
// an empty string otherwise.
func (p *Policy) URL(raw string) string {
	if SafeURL(raw) {
		return strings.TrimSpace(raw)
	}
	return ""
}

// Styles filters a style map through the CSS property whitelist.
func (p *Policy) Styles(styles map[string]string) map[string]string {
	return CSS(styles)
}

// SafeURL reports whether raw is an http(s), mailto, tel, anchor or relative
// URL. Script and data schemes are rejected.
func SafeURL(raw string) bool {
	value := strings.TrimSpace(raw)
	if value == "" {
		return true
	}
	lower := strings.ToLower(strings.Join(strings.Fields(value), ""))
	if strings.HasPrefix(value, "//") {
		return true
	}
	scheme, _, found := strings.Cut(lower, ":")
	if !found || strings.ContainsAny(scheme, "/?#") {
		return true
	}
	switch scheme {
	case "http", "https", "mailto", "tel":
		return true
	default:
		return false
	}
}
