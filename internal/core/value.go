package core

import (
	"math"
	"strconv"
)

// Loose-value coercion helpers used while repairing decoded JSON of unknown
// shape. Only the migration boundary touches these; in-process code works on
// typed records.

func asObject(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asSlice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

// asString returns v when it is a string and "" otherwise. Non-string values
// silently passed by callers become empty strings, never a stringified form.
func asString(v any) string {
	s, _ := v.(string)
	return s
}

// coerceString renders strings, numbers, and bools as strings; anything else
// is empty. Used where the legacy data carried stringly-typed fields.
func coerceString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// asCoord coerces a latitude/longitude candidate to a finite float. Numeric
// strings are accepted; NaN, infinities, and everything else become nil so a
// NaN never reaches the stored dataset.
func asCoord(v any) *float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		parsed, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func asInt(v any, fallback int) int {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return fallback
		}
		return int(t)
	case string:
		if n, err := strconv.Atoi(t); err == nil {
			return n
		}
		return fallback
	default:
		return fallback
	}
}

func asFloat(v any, fallback float64) float64 {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return fallback
		}
		return t
	case string:
		if f, err := strconv.ParseFloat(t, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f
		}
		return fallback
	default:
		return fallback
	}
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

// dedupeStrings removes duplicates while preserving first-seen order.
func dedupeStrings(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
