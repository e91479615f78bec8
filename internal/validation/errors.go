// Package validation checks generated résumés against a target job description and
// reports advisory findings.
package validation

import "fmt"

// InputShapeError reports a structured résumé that does not have the expected shape,
// e.g. an experience list that is not a list of objects.
type InputShapeError struct {
	Field    string
	Expected string
	Got      string
}

func (e *InputShapeError) Error() string {
	return fmt.Sprintf("invalid resume shape: %s must be %s, got %s", e.Field, e.Expected, e.Got)
}

// kindOf names the JSON kind of a decoded value for error messages.
func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int64, int32:
		return "number"
	case []any, []string:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
