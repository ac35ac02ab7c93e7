package main

import (
	"context"

	"github.com/rmarsh/chessperf/internal/config"
)

type configKey struct{}

func withConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

func configFromContext(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(configKey{}).(*config.Config)
	if cfg == nil {
		panic("chessperf: command ran without a loaded configuration")
	}
	return cfg
}
