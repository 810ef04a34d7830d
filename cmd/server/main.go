package main

import (
	"context"
	"log/slog"
	"os"

	"hrpay/internal/app/server"
	"hrpay/internal/platform/config"
)

func main() {
	cfg := config.Load()

	app, err := server.New(context.Background(), cfg)
	if err != nil {
		slog.Error("startup failed", "err", err)
		os.Exit(1)
	}
	defer app.Close()

	if err := app.Run(); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
