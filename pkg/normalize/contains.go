package normalize

import "strings"

func containsEither(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// ContainsEither reports whether the compact forms of a and b contain each
// other in either direction. Empty inputs never match.
func ContainsEither(a, b string) bool {
	ca, cb := Compact(a), Compact(b)
	if ca == "" || cb == "" {
		return false
	}
	return containsEither(ca, cb)
}
