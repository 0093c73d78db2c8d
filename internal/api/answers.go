package api

import "strings"

// normalizeAnswer folds case, drops sentence punctuation at either end and
// collapses runs of whitespace.
func normalizeAnswer(s string) string {
	s = strings.Trim(s, ".!?¡¿ \t\n")
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// answersMatch reports whether given is accepted for expected.
func answersMatch(expected, given string) bool {
	n := normalizeAnswer(given)
	return n != "" && n == normalizeAnswer(expected)
}
