package parsers

import (
	"regexp"
	"strings"
)

// Name is a first/last pair; either part may be empty.
type Name struct {
	First string
	Last  string
}

var reLeadingNoise = regexp.MustCompile(`(?m)^[^a-zA-Z0-9\n]+`)

func stripLeadingNoise(s string) string { return reLeadingNoise.ReplaceAllString(s, "") }

// The captured name stays on one line so that a following label ("DOB") is not
// swallowed into the surname.
var nameRules = []rule[Name]{
	{
		name:    "name-label",
		prepare: stripLeadingNoise,
		re:      regexp.MustCompile(`(?i)(?:Name|नाम|Nane)\s*[:\-]?\s*([A-Za-z \t.]+)`),
		extract: splitName,
	},
	{
		name:    "relation-label",
		prepare: stripLeadingNoise,
		re:      regexp.MustCompile(`(?i)(?:To|Son of|S/O|D/O|W/O|Care of|C/O)\s*[:\-]?\s*([A-Za-z \t.]+)`),
		extract: splitName,
	},
}

func splitName(m []string) (Name, bool) {
	parts := strings.Fields(m[1])
	switch {
	case len(parts) >= 2:
		return Name{First: parts[0], Last: strings.Join(parts[1:], " ")}, true
	case len(parts) == 1:
		return Name{First: parts[0]}, true
	}
	return Name{}, false
}

// ParseName extracts a first/last name pair from labeled card text.
// Both parts are empty when nothing matches.
func ParseName(text string) Name {
	n, _ := guard("name", func() (Name, bool) {
		return firstMatch(nameRules, text)
	})
	return n
}
