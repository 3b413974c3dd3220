// Package identity holds the extracted identity record and the pure rules that
// build it: AI-guess normalization, per-field reconciliation, masking and tiering.
package identity

import (
	"github.com/joseph-ayodele/idcard-intake/constants"
)

// MaxRecognizedText bounds Record.RecognizedText, counted in characters.
const MaxRecognizedText = 500

// Record is the reconciled result of one extraction. Nil pointers are absent fields.
type Record struct {
	FirstName        string                   `json:"firstName"`
	LastName         string                   `json:"lastName"`
	DateOfBirth      *string                  `json:"dateOfBirth"`
	Gender           *constants.Gender        `json:"gender"`
	Phone            *string                  `json:"phone"`
	MaskedIdentifier *string                  `json:"maskedIdentifier"`
	RawIdentifier    *string                  `json:"rawIdentifier"`
	RecognizedText   string                   `json:"recognizedText"`
	ConfidenceTier   constants.ConfidenceTier `json:"confidenceTier"`
}

// Redacted returns a copy without the raw identifier, for display and export.
func (r Record) Redacted() Record {
	r.RawIdentifier = nil
	return r
}

// HasName reports whether a first name was extracted.
func (r Record) HasName() bool { return r.FirstName != "" }

// HasIdentifier reports whether a raw identifier was extracted.
func (r Record) HasIdentifier() bool { return r.RawIdentifier != nil && *r.RawIdentifier != "" }

// Fields is the candidate set produced by one source (AI guess or OCR parsers).
type Fields struct {
	FirstName   string
	LastName    string
	DateOfBirth *string
	Gender      *constants.Gender
	Phone       *string
	Identifier  *string
}

// IsEmpty reports whether no field is set.
func (f Fields) IsEmpty() bool {
	return f.FirstName == "" && f.LastName == "" &&
		!present(f.DateOfBirth) && !presentGender(f.Gender) &&
		!present(f.Phone) && !present(f.Identifier)
}

func ptr[T any](v T) *T { return &v }

func present(s *string) bool { return s != nil && *s != "" }

func presentGender(g *constants.Gender) bool { return g != nil && *g != "" }
