package extract

import (
	"github.com/joseph-ayodele/idcard-intake/internal/identity"
	"github.com/joseph-ayodele/idcard-intake/internal/parsers"
)

// Rules runs the heuristic field parsers over recognized text.
type Rules struct{}

func (Rules) ParseFields(text string) identity.Fields {
	var f identity.Fields
	if text == "" {
		return f
	}
	n := parsers.ParseName(text)
	f.FirstName, f.LastName = n.First, n.Last
	if v, ok := parsers.ParseIdentifier(text); ok {
		f.Identifier = &v
	}
	if v, ok := parsers.ParseDateOfBirth(text); ok {
		f.DateOfBirth = &v
	}
	if v, ok := parsers.ParseGender(text); ok {
		f.Gender = &v
	}
	if v, ok := parsers.ParsePhone(text); ok {
		f.Phone = &v
	}
	return f
}
