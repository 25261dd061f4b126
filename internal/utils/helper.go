package utils

import "strings"

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Paginate normalizes limit/page query values into (limit, offset).
func Paginate(limit, page int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if page <= 0 {
		page = 1
	}
	return limit, (page - 1) * limit
}

// Last returns the trailing n characters of s, or s itself when shorter.
func Last(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
