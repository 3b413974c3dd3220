package parsers

import "regexp"

var identifierRules = []rule[string]{
	{
		name:    "spaced-groups",
		prepare: collapseWhitespace,
		re:      regexp.MustCompile(`\b(\d{4}\s+\d{4}\s+\d{4})\b`),
		extract: func(m []string) (string, bool) { return reWhitespace.ReplaceAllString(m[1], ""), true },
	},
	{
		name:    "continuous",
		prepare: collapseWhitespace,
		re:      regexp.MustCompile(`\b(\d{12})\b`),
		extract: func(m []string) (string, bool) { return m[1], true },
	},
}

// ParseIdentifier extracts a 12-digit national identifier ("1234 5678 9012" or
// "123456789012") from text. No checksum validation is performed.
func ParseIdentifier(text string) (string, bool) {
	return guard("identifier", func() (string, bool) {
		return firstMatch(identifierRules, text)
	})
}

// NormalizeIdentifier strips separators from a candidate identifier and
// accepts it only when exactly 12 digits remain.
func NormalizeIdentifier(s string) (string, bool) {
	d := digitsOnly(s)
	if len(d) != 12 {
		return "", false
	}
	return d, true
}
