package identity

// Source names which candidate won a field.
type Source string

const (
	SourceAI   Source = "ai"
	SourceOCR  Source = "ocr"
	SourceNone Source = "none"
)

// Provenance records the winning source per field.
type Provenance struct {
	Name        Source `json:"name"`
	DateOfBirth Source `json:"dateOfBirth"`
	Gender      Source `json:"gender"`
	Phone       Source `json:"phone"`
	Identifier  Source `json:"identifier"`
}

// Merge reconciles the AI and OCR candidates into a Record. A present,
// non-empty AI value wins each field; the name pair comes from the AI only
// when its first name is non-empty.
func Merge(ai, ocr Fields, recognizedText string) Record {
	rec, _ := MergeWithProvenance(ai, ocr, recognizedText)
	return rec
}

// MergeWithProvenance is Merge plus the winning source of each field.
func MergeWithProvenance(ai, ocr Fields, recognizedText string) (Record, Provenance) {
	var (
		rec  Record
		prov Provenance
	)

	rec.RawIdentifier, prov.Identifier = pick(ai.Identifier, ocr.Identifier)
	rec.DateOfBirth, prov.DateOfBirth = pick(ai.DateOfBirth, ocr.DateOfBirth)
	rec.Phone, prov.Phone = pick(ai.Phone, ocr.Phone)

	switch {
	case presentGender(ai.Gender):
		rec.Gender, prov.Gender = ptr(*ai.Gender), SourceAI
	case presentGender(ocr.Gender):
		rec.Gender, prov.Gender = ptr(*ocr.Gender), SourceOCR
	default:
		prov.Gender = SourceNone
	}

	switch {
	case ai.FirstName != "":
		rec.FirstName, rec.LastName, prov.Name = ai.FirstName, ai.LastName, SourceAI
	case ocr.FirstName != "" || ocr.LastName != "":
		rec.FirstName, rec.LastName, prov.Name = ocr.FirstName, ocr.LastName, SourceOCR
	default:
		prov.Name = SourceNone
	}

	if rec.HasIdentifier() {
		rec.MaskedIdentifier = ptr(MaskIdentifier(*rec.RawIdentifier))
	}
	rec.RecognizedText = truncateRunes(recognizedText, MaxRecognizedText)
	rec.ConfidenceTier = Tier(rec.HasName(), rec.HasIdentifier())
	return rec, prov
}

func pick(ai, ocr *string) (*string, Source) {
	switch {
	case present(ai):
		return ptr(*ai), SourceAI
	case present(ocr):
		return ptr(*ocr), SourceOCR
	}
	return nil, SourceNone
}

func truncateRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

