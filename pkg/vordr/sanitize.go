package vordr

import "github.com/orneryd/vordr/pkg/schema"

// ListLimit is the smallest list length dropped by sanitization. It tracks
// the formatter's list cutoff: a list too big to describe in the schema is
// too big to feed back into a prompt.
const ListLimit = schema.ListSizeLimit

// Sanitize returns v with every list of ListLimit or more elements removed,
// recursively. The second return is false when v itself is such a list.
// Oversized lists are overwhelmingly embedding vectors; passing them onward
// buries the useful row data.
func Sanitize(v interface{}) (interface{}, bool) {
	switch val := v.(type) {
	case map[string]interface{}:
		return sanitizeMap(val), true
	case []interface{}:
		if len(val) >= ListLimit {
			return nil, false
		}
		out := make([]interface{}, 0, len(val))
		for _, item := range val {
			if clean, ok := Sanitize(item); ok {
				out = append(out, clean)
			}
		}
		return out, true
	default:
		return v, true
	}
}

// SanitizeRows sanitizes each row of a query result. Keys whose values are
// dropped disappear from the row.
func SanitizeRows(rows []map[string]interface{}) []map[string]interface{} {
	if rows == nil {
		return nil
	}
	out := make([]map[string]interface{}, len(rows))
	for i, row := range rows {
		out[i] = sanitizeMap(row)
	}
	return out
}

func sanitizeMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		if clean, ok := Sanitize(v); ok {
			out[k] = clean
		}
	}
	return out
}
