// Package parsers turns raw OCR text from an identity card into individual fields.
//
// Each parser is an ordered list of rules evaluated with first-match-wins
// semantics. Parsers never fail: a miss, or an unexpected fault inside a rule,
// yields the absent result for that field only.
package parsers

import (
	"log/slog"
	"regexp"
)

// rule pairs a pattern with the extractor applied to its submatches.
// prepare, when set, rewrites the text before the pattern runs.
type rule[T any] struct {
	name    string
	prepare func(string) string
	re      *regexp.Regexp
	extract func(m []string) (T, bool)
}

// firstMatch evaluates rules in order. A rule wins when its pattern matches
// and its extractor accepts the submatches; otherwise the next rule is tried.
func firstMatch[T any](rules []rule[T], text string) (T, bool) {
	for _, r := range rules {
		in := text
		if r.prepare != nil {
			in = r.prepare(in)
		}
		m := r.re.FindStringSubmatch(in)
		if m == nil {
			continue
		}
		if v, ok := r.extract(m); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// guard converts a panic inside fn into the absent result for field.
func guard[T any](field string, fn func() (T, bool)) (out T, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Default().Error("parsers.panic", "field", field, "panic", rec)
			var zero T
			out, ok = zero, false
		}
	}()
	return fn()
}

var (
	reWhitespace = regexp.MustCompile(`\s+`)
	reNonDigits  = regexp.MustCompile(`\D+`)
)

func collapseWhitespace(s string) string { return reWhitespace.ReplaceAllString(s, " ") }

func digitsOnly(s string) string { return reNonDigits.ReplaceAllString(s, "") }
