package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"concierge-backend/internal/config"
	"concierge-backend/internal/server"
)

func main() {
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		TimeFormat: time.Kitchen,
	})))

	cfg := config.Load()
	s, err := server.NewServer(cfg)
	if err != nil {
		slog.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	addr := ":" + cfg.Port
	slog.Info("concierge server listening", "addr", addr)
	if err := http.ListenAndServe(addr, s.Router()); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
