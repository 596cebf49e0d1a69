package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRun_RequiresPaths(t *testing.T) {
	err := run(zap.NewNop(), nil)
	assert.EqualError(t, err, "usage: uploader <image> [image...]")
}

func TestRun_MissingFileFailsRun(t *testing.T) {
	t.Setenv("TZ_SERVER_URL", "")
	t.Setenv("DRY_RUN", "1")

	err := run(zap.NewNop(), []string{filepath.Join(t.TempDir(), "missing.jpg")})
	assert.ErrorIs(t, err, errSomeFailed)
}
