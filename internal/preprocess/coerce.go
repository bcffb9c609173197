// Package preprocess normalizes raw extractor output before it reaches a
// transformer: type coercion (int/float/string/bool-or-none) and enum
// code mapping. Vendor payloads mix integer enum codes with stringified
// integers in the same column across rows; any downstream comparison of
// mixed types is a defect this package exists to prevent.
package preprocess

import (
	"math"
	"strconv"
	"strings"
)

// nullTokens are string values that mean "no value" across every vendor
// this core ingests from.
var nullTokens = map[string]struct{}{
	"":     {},
	"-":    {},
	"—":    {},
	"N/A":  {},
	"NA":   {},
	"null": {},
	"NONE": {},
	"--":   {},
}

func isNullToken(s string) bool {
	_, ok := nullTokens[strings.TrimSpace(s)]
	return ok
}

// ToStringOrNone coerces v to a trimmed string, or (``, false) if v is a
// recognized null token or Go nil.
func ToStringOrNone(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		s = toStringFallback(v)
	}
	s = strings.TrimSpace(s)
	if isNullToken(s) {
		return "", false
	}
	return s, true
}

func toStringFallback(v any) string {
	switch t := v.(type) {
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// ToIntOrNone coerces v to an int, stripping commas, or (0, false) if v
// is null-like or not a valid integer.
func ToIntOrNone(v any) (int, bool) {
	f, ok := ToFloatOrNone(v)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// ToFloatOrNone coerces v to a float64, stripping commas and percent
// signs, rejecting NaN/±Inf, or (0, false) if v is null-like or invalid.
func ToFloatOrNone(v any) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return t, true
	case float32:
		return ToFloatOrNone(float64(t))
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case bool:
		return 0, false
	case string:
		s := strings.TrimSpace(t)
		if isNullToken(s) {
			return 0, false
		}
		s = strings.ReplaceAll(s, ",", "")
		s = strings.TrimSuffix(s, "%")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// ToBoolOrNone coerces v to a bool, or (false, false) if v is null-like
// or not recognizably boolean.
func ToBoolOrNone(v any) (bool, bool) {
	switch t := v.(type) {
	case nil:
		return false, false
	case bool:
		return t, true
	case int:
		return t != 0, true
	case float64:
		return t != 0, true
	case string:
		s := strings.TrimSpace(strings.ToLower(t))
		if isNullToken(s) {
			return false, false
		}
		switch s {
		case "true", "t", "yes", "y", "1":
			return true, true
		case "false", "f", "no", "n", "0":
			return false, true
		default:
			return false, false
		}
	default:
		return false, false
	}
}
