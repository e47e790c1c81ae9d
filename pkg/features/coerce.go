package features

import (
	"encoding/json"
	"strconv"
	"strings"
)

// SafeFloat coerces an arbitrary JSON-decoded value to a float64,
// substituting def for nil, blanks and unparseable input. Upstream sends
// numbers, numeric strings, and garbage interchangeably; extraction must
// never fail on any of them.
func SafeFloat(value interface{}, def float64) float64 {
	f, ok := toFloat(value)
	if !ok {
		return def
	}
	return f
}

// SafeInt coerces via float-then-truncate, so "3.9" becomes 3. Matches
// the lenient parse the training pipeline applied to the same columns.
func SafeInt(value interface{}, def int) int {
	f, ok := toFloat(value)
	if !ok {
		return def
	}
	return int(f)
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case nil:
		return 0, false
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Truthy mirrors the loose flag semantics of the upstream record: any
// non-empty string, non-zero number or true boolean raises the flag.
func Truthy(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	default:
		f, ok := toFloat(value)
		return ok && f != 0
	}
}

func asString(value interface{}) string {
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// idString renders a patient identifier, which upstream sends either as a
// string or as a bare number.
func idString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}
