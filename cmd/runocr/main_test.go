package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/idcard-intake/internal/common"
)

func TestRunReturnsLoadError(t *testing.T) {
	t.Setenv("ARTIFACT_CACHE_DIR", t.TempDir())

	err := run(options{path: filepath.Join(t.TempDir(), "missing.png")})

	require.Error(t, err)
	assert.Equal(t, "IMAGE_READ", common.ErrorCode(err))
}
