package app

import (
	"log/slog"
	"os"

	"iwutil/internal/batch"
	"iwutil/internal/codec"
	"iwutil/internal/slogx"
)

// ProvideConfig loads config from environment (for Wire).
func ProvideConfig() *Config {
	return LoadConfig()
}

// ProvideLogger builds the stderr logger from LOG_LEVEL and LOG_FORMAT (for Wire).
func ProvideLogger(cfg *Config) *slog.Logger {
	return slogx.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
}

// ProvideCodec resolves SAVE_FORMAT to a table codec (for Wire).
// Returns error if SaveFormat is not supported.
func ProvideCodec(cfg *Config) (codec.Codec, error) {
	return codec.Lookup(cfg.SaveFormat)
}

// ProvideConverter wires the directory converter with the default output dir and format (for Wire).
func ProvideConverter(cfg *Config, c codec.Codec, logger *slog.Logger) *batch.Converter {
	return &batch.Converter{
		Out:    cfg.DataDir,
		Codec:  c,
		Logger: logger,
	}
}
