package render

import (
	"html/template"
	"sort"
	"strings"

	"github.com/goliatone/go-sitebuilder/internal/sanitize"
)

// InlineStyle renders a style map as a CSS declaration list with sorted,
// kebab-cased property names. Callers pass maps that already went through
// the CSS whitelist.
func InlineStyle(styles map[string]string) template.CSS {
	if len(styles) == 0 {
		return ""
	}
	keys := make([]string, 0, len(styles))
	for key := range styles {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		value := strings.TrimSpace(styles[key])
		if value == "" || key == "custom" {
			continue
		}
		parts = append(parts, sanitize.KebabCase(key)+": "+value)
	}
	if custom := strings.TrimSpace(styles["custom"]); custom != "" {
		parts = append(parts, strings.TrimSuffix(custom, ";"))
	}
	return template.CSS(strings.Join(parts, "; "))
}

func mergeStyles(computed, node map[string]string) map[string]string {
	if len(computed) == 0 {
		return node
	}
	out := make(map[string]string, len(computed)+len(node))
	for key, value := range computed {
		out[key] = value
	}
	for key, value := range node {
		out[key] = value
	}
	return out
}
