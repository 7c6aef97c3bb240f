package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"iwutil/internal/app"
	"iwutil/internal/batch"
	"iwutil/internal/slogx"
)

// App holds application dependencies built by Wire.
type App struct {
	Config    *app.Config
	Logger    *slog.Logger
	Converter *batch.Converter
}

func init() {
	slog.SetDefault(slogx.Default)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd(InitializeApp).ExecuteContext(ctx)
	stop()
	if err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
