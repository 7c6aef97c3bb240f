//go:build wireinject
// +build wireinject

package main

import (
	"iwutil/internal/app"

	"github.com/google/wire"
)

// InitializeApp builds App (Config + Logger + Converter) via Wire.
func InitializeApp() (*App, error) {
	wire.Build(
		app.ProvideConfig,
		app.ProvideLogger,
		app.ProvideCodec,
		app.ProvideConverter,
		wire.Struct(new(App), "Config", "Logger", "Converter"),
	)
	return nil, nil
}
