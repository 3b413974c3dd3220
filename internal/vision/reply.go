package vision

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/idcard-intake/internal/common"
)

// DecodeReply turns a model's text reply into a Guess: strip code fences,
// take the first balanced JSON object, validate, and on failure sanitize and
// re-validate. The returned bytes are the JSON that was finally decoded.
func DecodeReply(text string, logger *slog.Logger) (Guess, []byte, error) {
	if logger == nil {
		logger = slog.Default()
	}

	body, ok := extractFirstObject(stripCodeFences(text))
	if !ok {
		return nil, nil, common.NewAppError("VISION_REPLY", "no JSON object in reply", common.ErrMalformed)
	}
	raw := []byte(body)

	if err := ValidateGuessJSON(raw); err != nil {
		cleaned, dropped, sErr := SanitizeGuessJSON(raw, logger)
		if sErr != nil {
			return nil, raw, common.NewAppError("VISION_REPLY", "sanitize failed", errors.Join(common.ErrMalformed, sErr))
		}
		if vErr := ValidateGuessJSON(cleaned); vErr != nil {
			return nil, cleaned, common.NewAppError("VISION_REPLY", "schema validation failed", errors.Join(common.ErrMalformed, vErr))
		}
		logger.Warn("vision.guess.lenient_sanitize_applied", "dropped", dropped)
		raw = cleaned
	}

	var g Guess
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, raw, common.NewAppError("VISION_REPLY", "unmarshal guess", errors.Join(common.ErrMalformed, err))
	}
	return g, raw, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		// a short first line is a language tag such as "json"
		if i := strings.IndexByte(s, '\n'); i != -1 {
			if tag := strings.TrimSpace(s[:i]); len(tag) < 20 && !strings.ContainsAny(tag, "{[") {
				s = s[i+1:]
			}
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}

// extractFirstObject returns the first balanced {...} in s, ignoring braces inside strings.
func extractFirstObject(s string) (string, bool) {
	start, depth := -1, 0
	inString, escaped := false, false
	for i, r := range s {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}
	return "", false
}
