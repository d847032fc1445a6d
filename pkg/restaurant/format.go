package restaurant

import (
	"strings"
	"time"
	"unicode/utf8"
)

const registryDateLayout = "20060102"

// ParseDate parses a registry YYYYMMDD date. Anything that is not exactly
// eight digits of a real calendar date is rejected.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) != 8 {
		return time.Time{}, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return time.Time{}, false
		}
	}
	t, err := time.ParseInLocation(registryDateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate converts "20240115" into "2024-01-15".
func FormatDate(s string) (string, bool) {
	t, ok := ParseDate(s)
	if !ok {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

// FormatStars renders a star count, clamped to the 0-3 grade range.
func FormatStars(n int) string {
	if n <= 0 {
		return ""
	}
	if n > 3 {
		n = 3
	}
	return strings.Repeat("★", n)
}

// PriceTier returns 1-4 for a price range like "₩₩" or "$$$", or a Google
// price_level digit. 0 means unknown.
func PriceTier(priceRange string) int {
	s := strings.TrimSpace(priceRange)
	if s == "" {
		return 0
	}
	if len(s) == 1 && s[0] >= '0' && s[0] <= '4' {
		if s[0] == '0' {
			return 1
		}
		return int(s[0] - '0')
	}
	n := 0
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if r == '₩' || r == '$' {
			n++
		}
		s = s[size:]
	}
	if n > 4 {
		n = 4
	}
	return n
}
