package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/livesboard/livesboard/internal/cli"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	cli.Execute()
}
