// Package vision defines the vision-model capability used to guess identity
// fields directly from a card image.
package vision

import (
	"context"
	"image"
)

// Guess is the untyped field map returned by a vision model. Keys follow
// identity.Key*; values are strings or nil.
type Guess map[string]any

// FieldGuesser is the interface the pipeline depends on.
type FieldGuesser interface {
	GuessFields(ctx context.Context, img image.Image) (Guess, []byte /*rawJSON*/, error)
}

// Disabled is the guesser used when no vision credential is configured.
// It always returns an empty guess.
type Disabled struct{}

func (Disabled) GuessFields(context.Context, image.Image) (Guess, []byte, error) {
	return Guess{}, nil, nil
}
