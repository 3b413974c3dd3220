package parsers

import (
	"fmt"
	"regexp"
)

const countryCode = "+91"

var phoneRules = []rule[string]{
	{
		// label then, within 30 chars, an optionally +91-prefixed 5+5 group or a bare 10-digit run
		name:    "labeled",
		re:      regexp.MustCompile(`(?i)(?:Mobile|Phone|Mob|Tel|Contact|Ph|Cells?)(?:[\s\S]{0,30}?)((?:\+91[\s-]?)?\d{5}[\s-]?\d{5}|\d{10})`),
		extract: func(m []string) (string, bool) { return FormatPhone(m[1]) },
	},
	{
		name:    "standalone-mobile",
		prepare: func(s string) string { return reNonDigits.ReplaceAllString(s, " ") },
		re:      regexp.MustCompile(`\b([6-9]\d{9})\b`),
		extract: func(m []string) (string, bool) {
			raw := digitsOnly(m[1])
			if len(raw) != 10 {
				return "", false
			}
			return formatLocal(raw), true
		},
	},
}

// ParsePhone extracts a mobile number from text and formats it as "+91 XXXXX XXXXX".
func ParsePhone(text string) (string, bool) {
	return guard("phone", func() (string, bool) {
		return firstMatch(phoneRules, text)
	})
}

// FormatPhone keeps the last ten digits of s and formats them as "+91 XXXXX XXXXX".
// Fewer than ten digits is a miss.
func FormatPhone(s string) (string, bool) {
	raw := digitsOnly(s)
	if len(raw) < 10 {
		return "", false
	}
	return formatLocal(raw[len(raw)-10:]), true
}

func formatLocal(ten string) string {
	return fmt.Sprintf("%s %s %s", countryCode, ten[:5], ten[5:])
}
