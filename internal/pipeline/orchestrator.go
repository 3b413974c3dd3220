// Package pipeline reconciles the vision guess and the OCR parse of a card image
// into one identity.Record.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"strings"
	"time"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/idcard-intake/internal/common"
	"github.com/joseph-ayodele/idcard-intake/internal/extract"
	"github.com/joseph-ayodele/idcard-intake/internal/identity"
	"github.com/joseph-ayodele/idcard-intake/internal/vision"
)

// Orchestrator runs the vision guess, then OCR and the field parsers, and merges both.
// It holds no per-call state and may be shared across goroutines.
type Orchestrator struct {
	logger *slog.Logger
	vision vision.FieldGuesser
	text   extract.TextExtractor
	fields extract.FieldParser
}

type Option func(*Orchestrator)

// WithFieldParser overrides the heuristic parser stage.
func WithFieldParser(p extract.FieldParser) Option { return func(o *Orchestrator) { o.fields = p } }

func NewOrchestrator(logger *slog.Logger, guesser vision.FieldGuesser, text extract.TextExtractor, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if guesser == nil {
		guesser = vision.Disabled{}
	}
	o := &Orchestrator{logger: logger, vision: guesser, text: text, fields: extract.Rules{}}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Outcome is an extraction plus the audit data that is not part of the record.
type Outcome struct {
	RequestID     string
	Record        identity.Record
	Provenance    identity.Provenance
	OCRConfidence float32
	GuessDropped  []string
	Duration      time.Duration
}

// Extract never fails: a collaborator error degrades to an empty guess or empty text.
func (o *Orchestrator) Extract(ctx context.Context, img image.Image) identity.Record {
	return o.ExtractDetailed(ctx, img).Record
}

// ExtractDetailed is Extract plus provenance and timing.
func (o *Orchestrator) ExtractDetailed(ctx context.Context, img image.Image) Outcome {
	start := time.Now()
	rid := common.RequestIDFromContext(ctx)
	if rid == "" {
		rid = uuid.NewString()
		ctx = common.WithRequestID(ctx, rid)
	}
	log := common.LoggerWithContext(ctx, o.logger)

	// 1) vision guess
	guess := o.guess(ctx, img, log)

	// 2) OCR
	text, ocrConf := o.recognize(ctx, img, log)

	// 3) parse OCR text, 4) merge
	ocrFields := o.fields.ParseFields(text)
	aiFields, dropped := identity.FieldsFromGuess(guess)
	if len(dropped) > 0 {
		log.Warn("extract.vision.dropped_fields", "keys", dropped)
	}
	rec, prov := identity.MergeWithProvenance(aiFields, ocrFields, text)

	if aiFields.FirstName != "" && ocrFields.FirstName != "" {
		log.Info("extract.name_agreement", "jaro_winkler", nameAgreement(aiFields, ocrFields))
	}

	out := Outcome{
		RequestID:     rid,
		Record:        rec,
		Provenance:    prov,
		OCRConfidence: ocrConf,
		GuessDropped:  dropped,
		Duration:      time.Since(start),
	}
	masked := ""
	if rec.MaskedIdentifier != nil {
		masked = *rec.MaskedIdentifier
	}
	log.Info("extract.ok",
		"tier", rec.ConfidenceTier,
		"masked_identifier", masked,
		"text_len", len(text),
		"ocr_confidence", ocrConf,
		"src_name", prov.Name,
		"src_identifier", prov.Identifier,
		"src_dob", prov.DateOfBirth,
		"src_gender", prov.Gender,
		"src_phone", prov.Phone,
		"duration_ms", out.Duration.Milliseconds(),
	)
	return out
}

func (o *Orchestrator) guess(ctx context.Context, img image.Image, log *slog.Logger) (g vision.Guess) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("extract.vision.panic", "error", panicError("VISION_PANIC", r))
			g = nil
		}
	}()
	g, _, err := o.vision.GuessFields(ctx, img)
	if err != nil {
		log.Error("extract.vision.failed", "error", err)
		return nil
	}
	return g
}

func (o *Orchestrator) recognize(ctx context.Context, img image.Image, log *slog.Logger) (text string, conf float32) {
	if o.text == nil {
		return "", 0
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error("extract.ocr.panic", "error", panicError("OCR_PANIC", r))
			text, conf = "", 0
		}
	}()
	res, err := o.text.Extract(ctx, img)
	if err != nil {
		log.Error("extract.ocr.failed", "error", err)
		return "", 0
	}
	return res.Text, res.Confidence
}

func panicError(code string, r any) error {
	return common.NewAppError(code, fmt.Sprint(r), common.ErrInternal)
}

func nameAgreement(a, b identity.Fields) float64 {
	full := func(f identity.Fields) string {
		return strings.ToLower(strings.TrimSpace(f.FirstName + " " + f.LastName))
	}
	return strutil.Similarity(full(a), full(b), metrics.NewJaroWinkler())
}
