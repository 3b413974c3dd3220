package constants

import (
	"strings"
)

type Gender string

const (
	Male   Gender = "Male"
	Female Gender = "Female"
)

// CanonicalizeGender maps free-form labels (model output, form values) to a Gender.
// Returns false when the label is not a recognised binary gender.
func CanonicalizeGender(input string) (Gender, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return "", false
	}

	synonyms := map[string]Gender{
		"m":      Male,
		"male":   Male,
		"man":    Male,
		"पुरुष":  Male,
		"f":      Female,
		"female": Female,
		"woman":  Female,
		"महिला":  Female,
	}
	if g, ok := synonyms[normalized]; ok {
		return g, true
	}
	return "", false
}
