package utils

import (
	"strconv"
	"strings"
)

// BoolOr parses s as a boolean flag. It accepts 1/0, true/false, yes/no and
// on/off in any case and returns def for anything else.
func BoolOr(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}

// IntOr parses s as a base-10 integer and returns def when it is empty or invalid.
func IntOr(s string, def int) int {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return i
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
