package identity

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/idcard-intake/constants"
	"github.com/joseph-ayodele/idcard-intake/internal/parsers"
)

// Guess keys understood by FieldsFromGuess.
const (
	KeyFirstName   = "firstName"
	KeyLastName    = "lastName"
	KeyDateOfBirth = "dateOfBirth"
	KeyGender      = "gender"
	KeyPhone       = "phone"
	KeyIdentifier  = "identifier"
)

// guessSynonyms maps alternate spellings a model tends to emit to the canonical keys.
var guessSynonyms = map[string]string{
	"aadhaarNumber": KeyIdentifier,
	"aadhaar":       KeyIdentifier,
	"idNumber":      KeyIdentifier,
	"uid":           KeyIdentifier,
	"dob":           KeyDateOfBirth,
	"birthDate":     KeyDateOfBirth,
	"mobile":        KeyPhone,
	"phoneNumber":   KeyPhone,
	"sex":           KeyGender,
	"first_name":    KeyFirstName,
	"last_name":     KeyLastName,
}

// CanonicalGuessKey resolves a guess key to its canonical name; ok is false for unknown keys.
func CanonicalGuessKey(k string) (string, bool) {
	switch k {
	case KeyFirstName, KeyLastName, KeyDateOfBirth, KeyGender, KeyPhone, KeyIdentifier:
		return k, true
	}
	if c, ok := guessSynonyms[k]; ok {
		return c, true
	}
	return "", false
}

// FieldsFromGuess converts an untyped AI guess into Fields. Values that would
// break a record invariant (identifier not 12 digits, unparsable date, unknown
// gender, short phone) are dropped so the OCR candidate can take their place.
// A canonical key wins over its synonyms, and among synonyms the first in
// sorted order wins; the losers are reported as dropped. The returned slice
// lists the dropped keys, sorted.
func FieldsFromGuess(guess map[string]any) (Fields, []string) {
	var (
		f       Fields
		dropped []string
		claimed = map[string]bool{}
	)
	for _, k := range guessKeyOrder(guess) {
		v := guess[k]
		key, known := CanonicalGuessKey(k)
		if known && claimed[key] {
			if v != nil {
				dropped = append(dropped, k)
			}
			continue
		}
		s, isStr := scalarString(v)
		if !known || !isStr {
			if v != nil {
				dropped = append(dropped, k)
			}
			if known && v == nil {
				claimed[key] = true
			}
			continue
		}
		claimed[key] = true
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}

		switch key {
		case KeyFirstName:
			f.FirstName = s
		case KeyLastName:
			f.LastName = s
		case KeyIdentifier:
			if id, ok := parsers.NormalizeIdentifier(s); ok {
				f.Identifier = ptr(id)
				continue
			}
			dropped = append(dropped, k)
		case KeyDateOfBirth:
			if d, ok := NormalizeGuessDate(s); ok {
				f.DateOfBirth = ptr(d)
				continue
			}
			dropped = append(dropped, k)
		case KeyGender:
			if g, ok := constants.CanonicalizeGender(s); ok {
				f.Gender = ptr(g)
				continue
			}
			dropped = append(dropped, k)
		case KeyPhone:
			if p, ok := parsers.FormatPhone(s); ok {
				f.Phone = ptr(p)
				continue
			}
			dropped = append(dropped, k)
		}
	}
	sort.Strings(dropped)
	return f, dropped
}

// guessKeyOrder lists canonical keys first, then everything else, each group sorted.
func guessKeyOrder(guess map[string]any) []string {
	keys := make([]string, 0, len(guess))
	for k := range guess {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ci, cj := isCanonicalKey(keys[i]), isCanonicalKey(keys[j])
		if ci != cj {
			return ci
		}
		return keys[i] < keys[j]
	})
	return keys
}

func isCanonicalKey(k string) bool {
	c, ok := CanonicalGuessKey(k)
	return ok && c == k
}

// NormalizeGuessDate is parsers.NormalizeDate that also tolerates a trailing time component.
func NormalizeGuessDate(s string) (string, bool) {
	if d, ok := parsers.NormalizeDate(s); ok {
		return d, true
	}
	// the model sometimes appends a time component
	if len(s) > 10 {
		return parsers.NormalizeDate(s[:10])
	}
	return "", false
}

// scalarString renders strings and numbers as text; anything else is rejected.
func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	}
	return "", false
}
