package render

import (
	"fmt"
	"regexp"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_]+)\s*\}\}`)

// Render substitutes {{key}} placeholders in template with values from data.
// This is deliberately restricted to flat key lookup: no expressions, no
// nesting, no code execution. Unknown keys render as empty strings.
func Render(template string, data map[string]any) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		key := placeholderPattern.FindStringSubmatch(match)[1]
		v, ok := data[key]
		if !ok || v == nil {
			return ""
		}
		return stringify(v)
	})
}

func stringify(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case fmt.Stringer:
		return value.String()
	case float64:
		// JSON numbers decode to float64; keep integral values clean.
		if value == float64(int64(value)) {
			return fmt.Sprintf("%d", int64(value))
		}
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", value), "0"), ".")
	default:
		return fmt.Sprintf("%v", v)
	}
}
