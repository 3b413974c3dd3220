package vision

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/idcard-intake/internal/identity"
	"github.com/joseph-ayodele/idcard-intake/internal/parsers"
)

// SanitizeGuessJSON
// - Renames known synonyms (aadhaarNumber -> identifier)
// - Coerces numbers to strings, drops other non-string values
// - Normalizes identifier digits and the date layout, dropping what cannot be repaired
// - Removes unknown keys (additionalProperties = false friendliness)
func SanitizeGuessJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	dropped := make([]string, 0, 4)
	for k, v := range maps.Clone(m) {
		key, ok := identity.CanonicalGuessKey(k)
		if !ok {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
			continue
		}
		if key != k {
			delete(m, k)
			// don't overwrite a canonical value already present
			if _, exists := m[key]; exists {
				dropped = append(dropped, k+"(duplicate)")
				continue
			}
			dropped = append(dropped, k+"->"+key)
		}

		switch t := v.(type) {
		case nil:
			m[key] = nil
		case string:
			if t = strings.TrimSpace(t); t == "" {
				m[key] = nil
			} else {
				m[key] = t
			}
		case float64:
			m[key] = strconv.FormatFloat(t, 'f', -1, 64)
		default:
			delete(m, key)
			dropped = append(dropped, key+"(type)")
		}
	}

	if s, ok := m[identity.KeyIdentifier].(string); ok {
		if id, ok := parsers.NormalizeIdentifier(s); ok {
			m[identity.KeyIdentifier] = id
		} else {
			m[identity.KeyIdentifier] = nil
			dropped = append(dropped, identity.KeyIdentifier+"(digits)")
		}
	}
	if s, ok := m[identity.KeyDateOfBirth].(string); ok {
		if d, ok := identity.NormalizeGuessDate(s); ok {
			m[identity.KeyDateOfBirth] = d
		} else {
			m[identity.KeyDateOfBirth] = nil
			dropped = append(dropped, identity.KeyDateOfBirth+"(format)")
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("vision.guess.sanitize", "dropped", dropped)
	}
	return out, dropped, nil
}
