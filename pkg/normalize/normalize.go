// Package normalize canonicalizes free-text restaurant names, regions and
// addresses for matching. Everything here is pure and safe for concurrent use.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	parenthesized = regexp.MustCompile(`[(\[（【][^)\]）】]*[)\]）】]`)
	// trailing branch qualifiers: "강남역점", "2호점", "본점", "직영점"
	branchToken = regexp.MustCompile(`^(?:[0-9]+호|[\p{Hangul}0-9]+)점$`)
)

var englishBranchWords = map[string]bool{"branch": true, "store": true}

// words ending in 점 that are part of the business name, not a branch
var nonBranchWords = map[string]bool{"반점": true, "주점": true, "상점": true, "매점": true, "백화점": true}

// Normalize composes to NFC, lower-cases, drops parenthesised qualifiers and a
// trailing branch token, and folds runs of whitespace into single spaces.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	s := norm.NFC.String(text)
	s = strings.ToLower(s)
	s = parenthesized.ReplaceAllString(s, " ")
	tokens := strings.Fields(s)
	return strings.Join(StripBranch(tokens), " ")
}

// StripBranch drops a trailing branch qualifier when at least one other token
// remains, so "스타벅스 강남역점" becomes "스타벅스" but "본점" stays.
func StripBranch(tokens []string) []string {
	if len(tokens) < 2 {
		return tokens
	}
	last := tokens[len(tokens)-1]
	if nonBranchWords[last] {
		return tokens
	}
	if branchToken.MatchString(last) || englishBranchWords[last] {
		return tokens[:len(tokens)-1]
	}
	return tokens
}

// Compact is Normalize with all spaces and punctuation removed. It is the
// form used for equality and containment checks.
func Compact(text string) string {
	n := Normalize(text)
	var b strings.Builder
	b.Grow(len(n))
	for _, r := range n {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Tokens splits the normalized text into words with punctuation trimmed.
func Tokens(text string) []string {
	fields := strings.Fields(Normalize(text))
	out := fields[:0]
	for _, f := range fields {
		f = strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Literal is the compact form without branch stripping, so "스타벅스 강남역점"
// and "스타벅스" stay distinct.
func Literal(text string) string {
	s := strings.ToLower(norm.NFC.String(text))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
