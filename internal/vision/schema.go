package vision

import (
	"github.com/joseph-ayodele/idcard-intake/internal/identity"
)

// BuildGuessJSONSchema returns the JSON-Schema (draft 2020-12 subset) a guess must satisfy.
// Every key is optional and may be null.
func BuildGuessJSONSchema() map[string]any {
	props := map[string]any{
		identity.KeyFirstName:   nullable(map[string]any{"type": "string"}),
		identity.KeyLastName:    nullable(map[string]any{"type": "string"}),
		identity.KeyDateOfBirth: nullable(map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`}),
		identity.KeyGender:      nullable(map[string]any{"type": "string"}),
		identity.KeyPhone:       nullable(map[string]any{"type": "string"}),
		identity.KeyIdentifier:  nullable(map[string]any{"type": "string", "pattern": `^\d{12}$`}),
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
	}
}

func nullable(p map[string]any) map[string]any {
	return map[string]any{"anyOf": []any{p, map[string]any{"type": "null"}}}
}
