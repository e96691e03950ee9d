package sanitize

import (
	"strings"
	"unicode"
)

var allowedProperties = map[string]struct{}{
	"color": {}, "backgroundColor": {}, "textAlign": {}, "textDecoration": {},
	"fontWeight": {}, "fontStyle": {}, "fontSize": {}, "fontFamily": {},
	"padding": {}, "margin": {}, "border": {}, "borderTop": {}, "borderRight": {},
	"borderBottom": {}, "borderLeft": {}, "borderRadius": {}, "borderColor": {},
	"width": {}, "height": {}, "maxWidth": {}, "maxHeight": {}, "minWidth": {},
	"minHeight": {}, "display": {}, "alignItems": {}, "justifyContent": {},
	"flexDirection": {}, "backgroundImage": {}, "backgroundSize": {},
	"backgroundPosition": {}, "backgroundRepeat": {}, "boxShadow": {},
	"opacity": {}, "lineHeight": {}, "letterSpacing": {}, "textTransform": {},
	"custom": {},
}

var forbiddenValueFragments = []string{
	"javascript:",
	"expression",
	"@",
	"</style",
	"<script",
	"url(javascript",
}

// AllowedProperty reports whether a style key survives sanitisation. Keys
// are accepted in camelCase or kebab-case.
func AllowedProperty(key string) bool {
	_, ok := allowedProperties[CamelCase(key)]
	return ok
}

// SafeStyleValue reports whether value can be emitted for property key.
func SafeStyleValue(key, value string) bool {
	lower := strings.ToLower(value)
	for _, fragment := range forbiddenValueFragments {
		if strings.Contains(lower, fragment) {
			return false
		}
	}
	name := CamelCase(key)
	if strings.ContainsAny(value, "{}<>\\") {
		return false
	}
	if name != "custom" && strings.Contains(value, ";") {
		return false
	}
	switch name {
	case "background", "backgroundImage":
		if strings.Contains(lower, "data:image/svg") {
			return false
		}
	}
	return true
}

// CSS returns a copy of styles holding only whitelisted properties with safe
// values. Keys are normalised to camelCase. The result is nil when nothing
// survives.
func CSS(styles map[string]string) map[string]string {
	if len(styles) == 0 {
		return nil
	}
	out := make(map[string]string, len(styles))
	for key, value := range styles {
		name := CamelCase(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if name == "" || value == "" || name == "behavior" {
			continue
		}
		if _, ok := allowedProperties[name]; !ok {
			continue
		}
		if !SafeStyleValue(name, value) {
			continue
		}
		out[name] = value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// CamelCase converts a kebab-case CSS property to camelCase. CamelCase input
// is returned unchanged.
func CamelCase(key string) string {
	if !strings.Contains(key, "-") {
		return key
	}
	var b strings.Builder
	upper := false
	for _, r := range key {
		if r == '-' {
			upper = b.Len() > 0
			continue
		}
		if upper {
			b.WriteRune(unicode.ToUpper(r))
			upper = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// KebabCase converts a camelCase style key to its CSS property name.
func KebabCase(key string) string {
	var b strings.Builder
	for i, r := range key {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
