package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/idcard-intake/internal/app"
	"github.com/joseph-ayodele/idcard-intake/internal/common"
	"github.com/joseph-ayodele/idcard-intake/internal/extract"
	"github.com/joseph-ayodele/idcard-intake/internal/identity"
	"github.com/joseph-ayodele/idcard-intake/internal/imageio"
	"github.com/joseph-ayodele/idcard-intake/internal/ocr"
)

type report struct {
	Path       string          `json:"path"`
	Confidence float32         `json:"ocrConfidence"`
	DurationMS int64           `json:"durationMs"`
	Warnings   []string        `json:"warnings,omitempty"`
	Text       string          `json:"text,omitempty"`
	Record     identity.Record `json:"record"`
}

type options struct {
	path     string
	showText bool
	reveal   bool
}

func main() {
	var opts options
	flag.BoolVar(&opts.showText, "text", false, "include the recognized text in the output")
	flag.BoolVar(&opts.reveal, "reveal", false, "include the raw identifier in the output")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: runocr [-text] [-reveal] <image>")
		os.Exit(2)
	}
	opts.path = flag.Arg(0)

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	_ = godotenv.Load()
	cfg := common.LoadConfig()
	logger := app.NewLogger(os.Stderr, cfg.SlogLevel())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = common.WithSource(ctx, opts.path)

	loader := imageio.NewLoader(
		imageio.WithConverter(cfg.OCR.HeicConverter),
		imageio.WithScratchDir(cfg.OCR.ArtifactCacheDir),
		imageio.WithMaxMB(cfg.Intake.MaxImageMB),
		imageio.WithLogger(logger),
	)
	loaded, err := loader.Load(ctx, opts.path)
	if err != nil {
		logger.Error("runocr.load_failed", "path", opts.path, "error", err)
		return err
	}

	text := extract.NewOCRAdapter(ocr.NewExtractor(app.OCRConfig(cfg), logger))
	start := time.Now()
	res, err := text.Extract(ctx, loaded.Image)
	if err != nil {
		logger.Error("runocr.ocr_failed", "path", opts.path, "error", err, "duration_ms", time.Since(start).Milliseconds())
		return err
	}

	fields := extract.Rules{}.ParseFields(res.Text)
	rec := identity.Merge(identity.Fields{}, fields, res.Text)
	if !opts.reveal {
		rec = rec.Redacted()
	}
	out := report{
		Path:       opts.path,
		Confidence: res.Confidence,
		DurationMS: res.Duration.Milliseconds(),
		Warnings:   res.Warnings,
		Record:     rec,
	}
	if opts.showText {
		out.Text = res.Text
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		logger.Error("runocr.encode_failed", "error", err)
		return err
	}
	return nil
}
