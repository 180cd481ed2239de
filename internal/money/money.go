package money

import (
	"encoding/json"
	"math"
)

// NonNegativeInt coerces an untrusted numeric value into a non-negative
// integer amount (cents or quantities). Non-finite input yields fallback,
// fractions are floored, negatives clamp to zero.
func NonNegativeInt(v float64, fallback int64) int64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	n := int64(math.Floor(v))
	if n < 0 {
		return 0
	}
	return n
}

// NonNegativeFromAny applies NonNegativeInt to whatever a decoded JSON body
// hands over (float64, int variants, or a numeric string).
func NonNegativeFromAny(v any, fallback int64) int64 {
	switch n := v.(type) {
	case float64:
		return NonNegativeInt(n, fallback)
	case int:
		return NonNegativeInt(float64(n), fallback)
	case int64:
		return NonNegativeInt(float64(n), fallback)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return fallback
		}
		return NonNegativeInt(f, fallback)
	case string:
		var f float64
		if err := json.Unmarshal([]byte(n), &f); err != nil {
			return fallback
		}
		return NonNegativeInt(f, fallback)
	default:
		return fallback
	}
}

// ParseObject parses a string as a JSON object. It returns nil both on parse
// failure and when the value is valid JSON but not an object; it never panics.
func ParseObject(raw string) map[string]any {
	if raw == "" {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}
