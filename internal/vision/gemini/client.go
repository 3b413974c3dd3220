// Package gemini implements vision.FieldGuesser on the Google Gemini API.
package gemini

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/joseph-ayodele/idcard-intake/internal/common"
	"github.com/joseph-ayodele/idcard-intake/internal/vision"
)

// Guesser asks a Gemini model for the identity fields on a card image.
// It is read-only after Open and safe for concurrent use.
type Guesser struct {
	cfg    Config
	client *genai.Client
	log    *slog.Logger
}

// Open performs the one-time client initialization. Without a credential, or
// when the client cannot be created, it returns vision.Disabled so that
// extraction degrades to OCR only. The returned func releases the client.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (vision.FieldGuesser, func()) {
	cfg = cfg.withDefaults()
	logger = loggerOrDefault(logger)

	if cfg.APIKey == "" {
		logger.Warn("vision.gemini.disabled", "reason", "GEMINI_API_KEY not set")
		return vision.Disabled{}, func() {}
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		logger.Warn("vision.gemini.disabled", "reason", "client init failed", "error", err)
		return vision.Disabled{}, func() {}
	}

	logger.Info("vision.gemini.ready", "model", cfg.Model, "timeout", cfg.Timeout.String())
	g := &Guesser{cfg: cfg, client: client, log: logger}
	return g, func() {
		if err := client.Close(); err != nil {
			logger.Warn("vision.gemini.close_error", "error", err)
		}
	}
}

// GuessFields implements vision.FieldGuesser.
func (g *Guesser) GuessFields(ctx context.Context, img image.Image) (vision.Guess, []byte, error) {
	log := common.LoggerWithContext(ctx, g.log)
	start := time.Now()

	data, format, err := vision.EncodeImage(img)
	if err != nil {
		return nil, nil, common.NewAppError("VISION_INPUT", "encode image", fmt.Errorf("%w: %w", common.ErrInvalidInput, err))
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	model := g.client.GenerativeModel(g.cfg.Model)
	model.SetTemperature(g.cfg.Temperature)
	model.ResponseMIMEType = "application/json"

	log.Info("vision.guess.start", "model", g.cfg.Model, "image_format", format, "image_bytes", len(data))

	resp, err := model.GenerateContent(ctx, genai.Text(vision.Instruction), genai.ImageData(format, data))
	if err != nil {
		log.Error("vision.guess.call_error", "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, nil, common.NewAppError("VISION_CALL", "generate content", fmt.Errorf("%w: %w", common.ErrUnavailable, err))
	}

	text := replyText(resp)
	if text == "" {
		log.Error("vision.guess.empty_reply", "elapsed_ms", time.Since(start).Milliseconds())
		return nil, nil, common.NewAppError("VISION_REPLY", "empty reply", common.ErrMalformed)
	}

	guess, raw, err := vision.DecodeReply(text, log)
	if err != nil {
		log.Error("vision.guess.decode_error", "error", err, "reply_len", len(text),
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, raw, err
	}

	log.Info("vision.guess.ok", "keys", len(guess), "elapsed_ms", time.Since(start).Milliseconds())
	return guess, raw, nil
}

// replyText concatenates the text parts of the first candidate.
func replyText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return strings.TrimSpace(b.String())
}
