package constants

// ConfidenceTier grades how complete an extracted record is.
type ConfidenceTier string

// Stable values (emitted as-is to intake clients).
const (
	ConfidenceHigh   ConfidenceTier = "high"   // name and identifier present
	ConfidenceMedium ConfidenceTier = "medium" // name present, identifier missing
	ConfidenceLow    ConfidenceTier = "low"    // no name
)
