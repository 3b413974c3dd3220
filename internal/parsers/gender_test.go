package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/idcard-intake/constants"
)

func TestParseGender(t *testing.T) {
	cases := []struct {
		name string
		text string
		want constants.Gender
		ok   bool
	}{
		{"female word", "FEMALE", constants.Female, true},
		{"male word", "Male", constants.Male, true},
		{"hindi female", "महिला / Female", constants.Female, true},
		{"hindi male", "पुरुष", constants.Male, true},
		{"slash abbreviation", "Sex/M", constants.Male, true},
		{"labeled abbreviation", "Gender: F", constants.Female, true},
		{"female precedence", "male female", constants.Female, true},
		{"nothing", "DOB 01-01-1985", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseGender(tc.text)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}
