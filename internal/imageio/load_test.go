package imageio

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/joseph-ayodele/idcard-intake/internal/common"
)

func sample() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(0, 0, color.RGBA{R: 200, A: 255})
	return img
}

func writePNG(t *testing.T, path string) []byte {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, sample()))
	require.NoError(t, f.Close())
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return b
}

func TestLoadPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "card.PNG")
	raw := writePNG(t, path)

	got, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	sum := sha256.Sum256(raw)
	assert.Equal(t, hex.EncodeToString(sum[:]), got.Hash)
	assert.Equal(t, "png", got.Format)
	assert.Equal(t, image.Rect(0, 0, 3, 2), got.Image.Bounds())
}

func TestLoadBMP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "card.bmp")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, bmp.Encode(f, sample()))
	require.NoError(t, f.Close())

	got, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "bmp", got.Format)
}

func TestLoadRejects(t *testing.T) {
	dir := t.TempDir()

	_, err := NewLoader().Load(context.Background(), filepath.Join(dir, "card.pdf"))
	assert.True(t, errors.Is(err, common.ErrUnsupported))

	big := filepath.Join(dir, "big.png")
	writePNG(t, big)
	_, err = NewLoader(WithMaxMB(0)).Load(context.Background(), big)
	assert.NoError(t, err, "zero disables the limit")

	l := NewLoader()
	l.maxBytes = 10
	_, err = l.Load(context.Background(), big)
	assert.True(t, errors.Is(err, common.ErrInvalidInput))

	junk := filepath.Join(dir, "junk.jpg")
	require.NoError(t, os.WriteFile(junk, []byte("not an image"), 0o644))
	_, err = NewLoader().Load(context.Background(), junk)
	assert.Equal(t, "IMAGE_DECODE", common.ErrorCode(err))
}

// convertRunner plays the HEIC converter by writing a PNG to the output argument.
type convertRunner struct {
	t     *testing.T
	calls int
	name  string
	out   string
}

func (r *convertRunner) Run(_ context.Context, name string, _ *slog.Logger, args ...string) ([]byte, []byte, error) {
	r.calls++
	r.name = name
	r.out = args[len(args)-1]
	writePNG(r.t, r.out)
	return nil, nil, nil
}

func TestLoadHEICLeavesNoConvertedCopy(t *testing.T) {
	dir := t.TempDir()
	scratch := filepath.Join(dir, "scratch")
	path := filepath.Join(dir, "card.heic")
	require.NoError(t, os.WriteFile(path, []byte("fake heic bytes"), 0o644))

	r := &convertRunner{t: t}
	l := NewLoader(WithRunner(r), WithConverter("heif-convert"), WithScratchDir(scratch))

	got, err := l.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "png", got.Format)
	assert.Equal(t, "heif-convert", r.name)
	assert.NoFileExists(t, r.out)

	entries, err := os.ReadDir(scratch)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = l.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, r.calls, "every load converts again")
}

func TestLoadHEICUnknownConverter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "card.heif")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := NewLoader(WithConverter("gimp"), WithRunner(&convertRunner{t: t})).Load(context.Background(), path)
	assert.Equal(t, "IMAGE_HEIC", common.ErrorCode(err))
}
