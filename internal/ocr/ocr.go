package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/idcard-intake/internal/common"
)

type Config struct {
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	TessdataDir   string

	PSM int // 0 leaves tesseract's default page segmentation
	OEM int // 0 leaves the default engine

	EnableTSVConfidence bool
	Timeout             time.Duration

	ArtifactCacheDir string // scratch PNGs are written here
}

type Result struct {
	Text       string
	Language   string
	Duration   time.Duration
	Warnings   []string
	Confidence float32 // 0..1, blended heuristic and TSV word confidence
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

type Option func(*Extractor)

// WithRunner replaces the command runner, typically with a stub in tests.
func WithRunner(r Runner) Option { return func(e *Extractor) { e.runner = r } }

func NewExtractor(cfg Config, logger *slog.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.ArtifactCacheDir == "" {
		cfg.ArtifactCacheDir = "./tmp"
	}
	e := &Extractor{cfg: cfg, runner: NewExecRunner(), logger: logger}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Extract recognizes the text on img. Any bitmap is accepted; it is flattened
// to an opaque RGB image before recognition.
func (e *Extractor) Extract(ctx context.Context, img image.Image) (Result, error) {
	start := time.Now()
	log := common.LoggerWithContext(ctx, e.logger)
	if img == nil {
		return Result{}, common.NewAppError("OCR_INPUT", "nil image", common.ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	path, cleanup, err := writeScratchPNG(e.cfg.ArtifactCacheDir, flatten(img))
	if err != nil {
		log.Error("ocr.scratch.failed", "error", err)
		return Result{}, common.NewAppError("OCR_SCRATCH", "write scratch image", errors.Join(common.ErrInternal, err))
	}
	defer cleanup()

	res, err := e.recognize(ctx, path, log)
	res.Duration = time.Since(start)
	if err != nil {
		return res, common.NewAppError("OCR_EXEC", "tesseract", errors.Join(common.ErrUnavailable, err))
	}
	log.Info("ocr.extract.ok",
		"text_len", len(res.Text),
		"confidence", res.Confidence,
		"warnings", len(res.Warnings),
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

func (e *Extractor) recognize(ctx context.Context, path string, log *slog.Logger) (Result, error) {
	txt, warn, err := e.tesseractOCR(ctx, path, log)
	if err != nil {
		return Result{Language: e.cfg.TesseractLang, Warnings: warn}, err
	}
	txt = Normalize(txt)

	var tsvConf float32
	if e.cfg.EnableTSVConfidence {
		if c, w, err2 := e.tesseractTSVConfidence(ctx, path, log); err2 == nil {
			tsvConf = c
			warn = append(warn, w...)
		} else {
			warn = append(warn, fmt.Sprintf("tsv confidence: %v", err2))
		}
	}

	return Result{
		Text:       txt,
		Language:   e.cfg.TesseractLang,
		Warnings:   warn,
		Confidence: blendConfidence(tsvConf, heuristicConfidence(txt)),
	}, nil
}
