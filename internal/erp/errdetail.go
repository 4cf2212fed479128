package erp

import (
	"encoding/json"
	"strings"
)

// maxDetailLen bounds what we relay to clients; ERPNext stack dumps can run
// to many kilobytes.
const maxDetailLen = 2000

// Detail normalizes an ERP error body into one string. ERPNext error payloads
// arrive in several shapes: a plain string, a JSON object with an "exc" field
// holding a JSON-encoded array of exception lines, an object with a "message",
// or an arbitrary nested object. All of them collapse here so call sites never
// shape-sniff.
func Detail(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "empty error response"
	}

	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		// Not JSON at all, e.g. an HTML error page.
		return truncate(trimmed)
	}
	return truncate(stringify(v))
}

func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []any:
		parts := make([]string, 0, len(val))
		for _, e := range val {
			parts = append(parts, stringify(e))
		}
		return strings.Join(parts, "\n")
	case map[string]any:
		// "exc" holds a JSON-encoded array of exception lines.
		if exc, ok := val["exc"].(string); ok {
			var lines []string
			if err := json.Unmarshal([]byte(exc), &lines); err == nil {
				return strings.Join(lines, "\n")
			}
			return exc
		}
		if msg, ok := val["message"].(string); ok {
			return msg
		}
		if det, ok := val["details"]; ok {
			return stringify(det)
		}
		if errVal, ok := val["error"]; ok {
			return stringify(errVal)
		}
		raw, err := json.Marshal(val)
		if err != nil {
			return "unrecognized error response"
		}
		return string(raw)
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return "unrecognized error response"
		}
		return string(raw)
	}
}

func truncate(s string) string {
	if len(s) <= maxDetailLen {
		return s
	}
	return s[:maxDetailLen] + "..."
}
