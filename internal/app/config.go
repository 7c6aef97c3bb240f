package app

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// Config holds CLI configuration from env
type Config struct {
	DataDir    string
	SaveFormat string // csv | txt | tsv | json | parquet | feather
	LogLevel   string // debug | info | warn | error
	LogFormat  string // text | json
}

// LoadConfig reads config from environment. A .env file in the working
// directory is loaded first; variables already set in the environment win.
func LoadConfig() *Config {
	loadDotEnv(".env")
	return &Config{
		DataDir:    getEnv("DATA_DIR", "data"),
		SaveFormat: getSaveFormat(),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFormat:  getEnv("LOG_FORMAT", "text"),
	}
}

func loadDotEnv(path string) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("could not load env file", "path", path, "error", err)
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getSaveFormat() string {
	if v := os.Getenv("SAVE_FORMAT"); v != "" {
		return v
	}
	switch os.Getenv("PROFILE") {
	case "dev", "development":
		return "csv"
	default:
		return "parquet"
	}
}
