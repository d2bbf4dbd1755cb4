package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 5, cfg.Upload.MaxFileSizeMB)
	assert.Equal(t, 1024, cfg.Upload.MaxDimensionPx)
	assert.Equal(t, []string{"png", "jpg", "jpeg", "bmp", "tiff"}, cfg.Upload.AllowedFormats)
	assert.Equal(t, 60*time.Second, cfg.Rembg.Timeout)
	assert.False(t, cfg.RateLimit.Enabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MAX_FILE_SIZE_MB", "10")
	t.Setenv("ALLOWED_FORMATS", "png, JPG")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Upload.MaxFileSizeMB)
	assert.Equal(t, []string{"png", "jpg"}, cfg.Upload.AllowedFormats)
	assert.True(t, cfg.RateLimit.Enabled())
}

func TestUploadConfig_AllowsFormat(t *testing.T) {
	cfg := UploadConfig{AllowedFormats: []string{"png", "jpg"}}

	assert.True(t, cfg.AllowsFormat("png"))
	assert.True(t, cfg.AllowsFormat("PNG"))
	assert.False(t, cfg.AllowsFormat("gif"))
	assert.False(t, cfg.AllowsFormat(""))
}

func TestLoad_BadTimeoutFallsBack(t *testing.T) {
	t.Setenv("REMBG_TIMEOUT", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 60*time.Second, cfg.Rembg.Timeout)
}
