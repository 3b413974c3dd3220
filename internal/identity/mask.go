package identity

import "unicode/utf8"

// MaskedPlaceholder replaces identifiers that are not 12 characters long.
const MaskedPlaceholder = "XXXX XXXX XXXX"

// MaskIdentifier hides all but the last four characters of a 12-character identifier.
func MaskIdentifier(id string) string {
	if utf8.RuneCountInString(id) != 12 {
		return MaskedPlaceholder
	}
	r := []rune(id)
	return "XXXX XXXX " + string(r[8:])
}
