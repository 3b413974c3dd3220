package parsers

import (
	"regexp"
	"strings"
	"time"
)

// ISODate is the canonical output layout.
const ISODate = "2006-01-02"

// minBirthYear rejects placeholder years such as 0000 that time.Parse accepts.
const minBirthYear = 1900

// dateLayouts are tried in order; single-digit day and month are accepted.
var dateLayouts = []string{
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
	"2006/1/2",
	"2006-1-2",
}

var dateRules = []rule[string]{
	{
		name:    "labeled-dmy",
		re:      regexp.MustCompile(`(?i)(?:DOB|Date of Birth|जन्म तिथि|Year of Birth|YOB)\s*[:\-]?\s*(\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4})`),
		extract: func(m []string) (string, bool) { return NormalizeDate(m[1]) },
	},
	{
		name:    "labeled-ymd",
		re:      regexp.MustCompile(`(?i)(?:DOB|Date of Birth|जन्म तिथि)\s*[:\-]?\s*(\d{4}[/\-.]\d{1,2}[/\-.]\d{1,2})`),
		extract: func(m []string) (string, bool) { return NormalizeDate(m[1]) },
	},
	{
		name:    "unlabeled-dmy",
		re:      regexp.MustCompile(`\b(\d{2}[/\-.]\d{2}[/\-.]\d{4})\b`),
		extract: func(m []string) (string, bool) { return NormalizeDate(m[1]) },
	},
}

// ParseDateOfBirth finds a date of birth in text and returns it as YYYY-MM-DD.
func ParseDateOfBirth(text string) (string, bool) {
	return guard("date_of_birth", func() (string, bool) {
		return firstMatch(dateRules, text)
	})
}

// NormalizeDate parses s against the accepted layouts and reformats it as YYYY-MM-DD.
// Years before 1900 are rejected.
func NormalizeDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Year() < minBirthYear {
				return "", false
			}
			return t.Format(ISODate), true
		}
	}
	return "", false
}
