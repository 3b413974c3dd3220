// Package extract defines the text stages of the pipeline: image -> text, and text -> fields.
package extract

import (
	"context"
	"image"
	"time"

	"github.com/joseph-ayodele/idcard-intake/internal/identity"
)

// TextExtractor is Stage 1: image -> text.
type TextExtractor interface {
	Extract(ctx context.Context, img image.Image) (TextExtractionResult, error)
}

type TextExtractionResult struct {
	Text       string
	Method     string // "image-ocr"
	Language   string
	Duration   time.Duration
	Warnings   []string
	Confidence float32
}

// FieldParser is Stage 2: text -> candidate fields.
type FieldParser interface {
	ParseFields(text string) identity.Fields
}
