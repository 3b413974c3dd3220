package identity

import "github.com/joseph-ayodele/idcard-intake/constants"

// Tier grades a record: high when both a name and an identifier were found,
// medium with a name only, low otherwise.
func Tier(hasName, hasIdentifier bool) constants.ConfidenceTier {
	switch {
	case hasName && hasIdentifier:
		return constants.ConfidenceHigh
	case hasName:
		return constants.ConfidenceMedium
	default:
		return constants.ConfidenceLow
	}
}
