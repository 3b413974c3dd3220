package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/joseph-ayodele/idcard-intake/internal/common"
	"github.com/joseph-ayodele/idcard-intake/internal/extract"
	"github.com/joseph-ayodele/idcard-intake/internal/imageio"
	"github.com/joseph-ayodele/idcard-intake/internal/ocr"
	"github.com/joseph-ayodele/idcard-intake/internal/pipeline"
	"github.com/joseph-ayodele/idcard-intake/internal/vision/gemini"
)

// App bundles the collaborators every binary needs.
type App struct {
	Config       *common.Config
	Logger       *slog.Logger
	OCR          *ocr.Extractor
	Loader       *imageio.Loader
	Orchestrator *pipeline.Orchestrator

	closeVision func()
}

// NewLogger builds the JSON logger used by all binaries. Binaries that print
// results on stdout pass os.Stderr here.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// New wires the collaborators from cfg. A missing GEMINI_API_KEY is not an
// error; extraction then runs on OCR alone.
func New(ctx context.Context, cfg *common.Config, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}

	ocrExtractor := ocr.NewExtractor(OCRConfig(cfg), logger)
	guesser, closeVision := gemini.Open(ctx, gemini.Config{
		APIKey:      cfg.Vision.APIKey,
		Model:       cfg.Vision.Model,
		Temperature: cfg.Vision.Temperature,
		Timeout:     cfg.Vision.Timeout,
	}, logger)

	orch := pipeline.NewOrchestrator(logger, guesser, extract.NewOCRAdapter(ocrExtractor))
	loader := imageio.NewLoader(
		imageio.WithConverter(cfg.OCR.HeicConverter),
		imageio.WithScratchDir(cfg.OCR.ArtifactCacheDir),
		imageio.WithMaxMB(cfg.Intake.MaxImageMB),
		imageio.WithLogger(logger),
	)

	return &App{
		Config:       cfg,
		Logger:       logger,
		OCR:          ocrExtractor,
		Loader:       loader,
		Orchestrator: orch,
		closeVision:  closeVision,
	}
}

// OCRConfig maps the environment config onto the extractor's.
func OCRConfig(cfg *common.Config) ocr.Config {
	return ocr.Config{
		Tesseract:           cfg.OCR.TesseractBin,
		TesseractLang:       cfg.OCR.Lang,
		TessdataDir:         cfg.OCR.TessdataDir,
		PSM:                 cfg.OCR.PSM,
		OEM:                 cfg.OCR.OEM,
		EnableTSVConfidence: cfg.OCR.TSVConfidence,
		Timeout:             cfg.OCR.Timeout,
		ArtifactCacheDir:    cfg.OCR.ArtifactCacheDir,
	}
}

func (a *App) Close() {
	if a.closeVision != nil {
		a.closeVision()
	}
}
