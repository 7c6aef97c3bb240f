package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iwutil/internal/codec"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"DATA_DIR", "SAVE_FORMAT", "PROFILE", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg := LoadConfig()
	assert.Equal(t, &Config{DataDir: "data", SaveFormat: "parquet", LogLevel: "info", LogFormat: "text"}, cfg)
}

func TestLoadConfig_Profile(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("PROFILE", "dev")
	assert.Equal(t, "csv", LoadConfig().SaveFormat)

	t.Setenv("SAVE_FORMAT", "feather")
	assert.Equal(t, "feather", LoadConfig().SaveFormat)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DATA_DIR=from-file\nLOG_LEVEL=debug\n"), 0644))
	t.Setenv("LOG_LEVEL", "warn")

	cfg := LoadConfig()
	assert.Equal(t, "from-file", cfg.DataDir)
	assert.Equal(t, "warn", cfg.LogLevel, "environment wins over .env")
}

func TestProvideCodec(t *testing.T) {
	c, err := ProvideCodec(&Config{SaveFormat: "CSV"})
	require.NoError(t, err)
	assert.Equal(t, codec.CSV, c)

	_, err = ProvideCodec(&Config{SaveFormat: "xlsx"})
	assert.Error(t, err)
}

func TestProvideConverter(t *testing.T) {
	cfg := &Config{DataDir: "out", LogLevel: "info"}
	conv := ProvideConverter(cfg, codec.Feather{}, ProvideLogger(cfg))
	assert.Equal(t, "out", conv.Out)
	assert.Equal(t, codec.Feather{}, conv.Codec)
	assert.NotNil(t, conv.Logger)
}
