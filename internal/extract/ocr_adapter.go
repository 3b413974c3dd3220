package extract

import (
	"context"
	"image"

	"github.com/joseph-ayodele/idcard-intake/internal/ocr"
)

type OCRAdapter struct {
	e *ocr.Extractor
}

func NewOCRAdapter(e *ocr.Extractor) *OCRAdapter {
	return &OCRAdapter{e: e}
}

func (a *OCRAdapter) Extract(ctx context.Context, img image.Image) (TextExtractionResult, error) {
	r, err := a.e.Extract(ctx, img)
	return TextExtractionResult{
		Text:       r.Text,
		Method:     "image-ocr",
		Language:   r.Language,
		Duration:   r.Duration,
		Warnings:   r.Warnings,
		Confidence: r.Confidence,
	}, err
}
