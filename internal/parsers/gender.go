package parsers

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/idcard-intake/constants"
)

// Female indicators are checked first: "female" contains "male".
var (
	femaleIndicators = []string{"female", "महिला", " f ", "/f", "gender: f"}
	maleIndicators   = []string{"male", "पुरुष", " m ", "/m", "gender: m"}
	reMaleWord       = regexp.MustCompile(`\bmale\b`)
)

// ParseGender infers Male/Female from card text.
func ParseGender(text string) (constants.Gender, bool) {
	return guard("gender", func() (constants.Gender, bool) {
		lower := strings.ToLower(text)
		if containsAny(lower, femaleIndicators) {
			return constants.Female, true
		}
		if containsAny(lower, maleIndicators) && !strings.Contains(lower, "female") {
			return constants.Male, true
		}
		if reMaleWord.MatchString(lower) {
			return constants.Male, true
		}
		return "", false
	})
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
