package imageio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joseph-ayodele/idcard-intake/internal/ocr"
)

// convertHEICtoPNG converts a HEIC/HEIF file to PNG inside a fresh temp
// directory under scratchDir (the OS temp dir when empty). The converted card
// is never kept: cleanup removes the directory and must always be called.
func convertHEICtoPNG(
	ctx context.Context,
	r ocr.Runner,
	logger *slog.Logger,
	converter string,
	in string,
	scratchDir string,
) (string, func(), error) {
	noop := func() {}
	if scratchDir != "" {
		if err := os.MkdirAll(scratchDir, 0o755); err != nil {
			return "", noop, err
		}
	}
	tmpDir, err := os.MkdirTemp(scratchDir, "heic-*")
	if err != nil {
		return "", noop, err
	}
	cleanup := func() { _ = os.RemoveAll(tmpDir) }
	out := filepath.Join(tmpDir, "card.png")

	var args []string
	switch converter {
	case "heif-convert", "magick":
		args = []string{in, out}
	case "sips":
		args = []string{"-s", "format", "png", in, "--out", out}
	default:
		return "", cleanup, fmt.Errorf("HEIC not supported: set HEIC_CONVERTER to one of: heif-convert | magick | sips")
	}
	if _, errb, err := r.Run(ctx, converter, logger, args...); err != nil {
		return "", cleanup, fmt.Errorf("%s convert failed: %w (%s)", converter, err, string(errb))
	}

	if _, statErr := os.Stat(out); statErr != nil {
		return "", cleanup, fmt.Errorf("HEIC conversion produced no output: %v", statErr)
	}
	logger.Debug("imageio.heic.converted")
	return out, cleanup, nil
}
