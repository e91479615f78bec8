package validation

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// truthy reports whether a decoded JSON value is non-empty.
// nil, "", false, 0 and empty arrays/objects are empty.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case []any:
		return len(t) > 0
	case []string:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

// textOf renders a decoded JSON value as text. Missing values render as "".
func textOf(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case []string, []any, map[string]any:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	default:
		return fmt.Sprint(t)
	}
}

// entries returns the list stored under key as a list of objects.
// An absent or empty value ("", {}, null) is an empty list; any other non-list is a shape error.
func entries(resume map[string]any, key string) ([]map[string]any, error) {
	raw := resume[key]
	if !truthy(raw) {
		return nil, nil
	}

	var items []any
	switch t := raw.(type) {
	case []any:
		items = t
	case []map[string]any:
		return t, nil
	default:
		return nil, &InputShapeError{Field: key, Expected: "an array of objects", Got: kindOf(raw)}
	}

	result := make([]map[string]any, 0, len(items))
	for i, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			return nil, &InputShapeError{
				Field:    fmt.Sprintf("%s[%d]", key, i),
				Expected: "an object",
				Got:      kindOf(item),
			}
		}
		result = append(result, entry)
	}
	return result, nil
}

// stringList returns the string members of a list value, or nil if v is not a list.
func stringList(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if item == nil {
				continue
			}
			out = append(out, textOf(item))
		}
		return out
	default:
		return nil
	}
}
