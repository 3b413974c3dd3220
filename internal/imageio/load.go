// Package imageio reads card images from disk for the command-line tools.
package imageio

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/joseph-ayodele/idcard-intake/constants"
	"github.com/joseph-ayodele/idcard-intake/internal/common"
	"github.com/joseph-ayodele/idcard-intake/internal/ocr"
)

// Loader decodes image files. HEIC/HEIF is converted to PNG first with an
// external converter; the converted file is deleted once decoded.
type Loader struct {
	runner    ocr.Runner
	converter string
	scratch   string
	maxBytes  int64
	logger    *slog.Logger
}

type Option func(*Loader)

func WithRunner(r ocr.Runner) Option { return func(l *Loader) { l.runner = r } }
func WithConverter(name string) Option { return func(l *Loader) { l.converter = name } }
func WithScratchDir(dir string) Option { return func(l *Loader) { l.scratch = dir } }
func WithMaxMB(mb int) Option { return func(l *Loader) { l.maxBytes = int64(mb) << 20 } }
func WithLogger(logger *slog.Logger) Option { return func(l *Loader) { l.logger = logger } }

func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		runner:    ocr.NewExecRunner(),
		converter: "magick",
		maxBytes:  int64(constants.MaxImageMBDefault) << 20,
		logger:    slog.Default(),
	}
	for _, o := range opts {
		o(l)
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l
}

// Loaded is a decoded image with the hex SHA-256 of the original file bytes.
type Loaded struct {
	Image  image.Image
	Format string
	Hash   string
	Size   int64
}

// Load reads and decodes path.
func (l *Loader) Load(ctx context.Context, path string) (Loaded, error) {
	ext := filepath.Ext(path)
	if !constants.IsAllowedExt(ext) {
		return Loaded{}, common.NewAppError("IMAGE_EXT", fmt.Sprintf("unsupported extension %q", ext), common.ErrUnsupported)
	}
	st, err := os.Stat(path)
	if err != nil {
		return Loaded{}, common.NewAppError("IMAGE_READ", "stat", err)
	}
	if l.maxBytes > 0 && st.Size() > l.maxBytes {
		return Loaded{}, common.NewAppError("IMAGE_SIZE",
			fmt.Sprintf("%d bytes exceeds limit of %d", st.Size(), l.maxBytes), common.ErrInvalidInput)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Loaded{}, common.NewAppError("IMAGE_READ", "read", err)
	}
	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	if constants.IsHEICExt(ext) {
		png, cleanup, err := convertHEICtoPNG(ctx, l.runner, l.logger, l.converter, path, l.scratch)
		if err != nil {
			cleanup()
			return Loaded{}, common.NewAppError("IMAGE_HEIC", "convert", err)
		}
		data, err = os.ReadFile(png)
		cleanup()
		if err != nil {
			return Loaded{}, common.NewAppError("IMAGE_READ", "read converted", err)
		}
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Loaded{}, common.NewAppError("IMAGE_DECODE", "decode", fmt.Errorf("%w: %w", common.ErrUnsupported, err))
	}
	l.logger.Debug("imageio.load.ok", "format", format, "bytes", st.Size(),
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return Loaded{Image: img, Format: format, Hash: hash, Size: st.Size()}, nil
}
