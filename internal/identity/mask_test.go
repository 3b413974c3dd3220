package identity

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/idcard-intake/constants"
)

func TestMaskIdentifier(t *testing.T) {
	assert.Equal(t, "XXXX XXXX 9012", MaskIdentifier("123456789012"))
	assert.Equal(t, MaskedPlaceholder, MaskIdentifier(""))
	assert.Equal(t, MaskedPlaceholder, MaskIdentifier("12345"))
	assert.Equal(t, MaskedPlaceholder, MaskIdentifier("1234567890123"))
}

func TestMaskIdentifierCountsCharacters(t *testing.T) {
	// four 3-byte characters are 12 bytes but only 4 characters
	got := MaskIdentifier("नामक")
	assert.Equal(t, MaskedPlaceholder, got)

	got = MaskIdentifier("१२३४५६७८९०१२")
	assert.Equal(t, "XXXX XXXX ९०१२", got)
	assert.True(t, utf8.ValidString(got))
}

func TestTier(t *testing.T) {
	assert.Equal(t, constants.ConfidenceHigh, Tier(true, true))
	assert.Equal(t, constants.ConfidenceMedium, Tier(true, false))
	assert.Equal(t, constants.ConfidenceLow, Tier(false, true))
	assert.Equal(t, constants.ConfidenceLow, Tier(false, false))
}
