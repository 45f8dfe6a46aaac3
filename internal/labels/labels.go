// Package labels derives display names for choice keys that come without one.
package labels

import (
	"regexp"
	"strings"
)

var separators = regexp.MustCompile(`[_\-\s.]+`)

// FromKey turns a choice key such as "start-of-year" or "netIncome" into a
// display name ("Start of year", "Net income"). Only the first word is
// capitalised.
func FromKey(key string) string {
	if strings.TrimSpace(key) == "" {
		return ""
	}
	var words []string
	for _, part := range separators.Split(key, -1) {
		if part == "" {
			continue
		}
		words = append(words, strings.Fields(splitCamel(part))...)
	}
	for i, word := range words {
		if isAcronym(word) {
			continue
		}
		lower := strings.ToLower(word)
		if i == 0 {
			lower = strings.ToUpper(lower[:1]) + lower[1:]
		}
		words[i] = lower
	}
	return strings.Join(words, " ")
}

func splitCamel(input string) string {
	var out strings.Builder
	for i, r := range input {
		if i > 0 && isBoundary(input, i, r) {
			out.WriteRune(' ')
		}
		out.WriteRune(r)
	}
	return out.String()
}

// isBoundary splits lower→Upper and letter↔digit transitions. Runs of
// capitals stay together so acronyms survive.
func isBoundary(input string, index int, r rune) bool {
	prev := rune(input[index-1])
	return (isLower(prev) && isUpper(r)) || (isLetter(prev) && isDigit(r)) || (isDigit(prev) && isLetter(r))
}

func isAcronym(word string) bool {
	if len(word) < 2 {
		return false
	}
	for _, r := range word {
		if !isUpper(r) && !isDigit(r) {
			return false
		}
	}
	return true
}

func isUpper(r rune) bool  { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool  { return r >= 'a' && r <= 'z' }
func isDigit(r rune) bool  { return r >= '0' && r <= '9' }
func isLetter(r rune) bool { return isUpper(r) || isLower(r) }
