package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/dev-tanvu/mateluxy-backend/internal/logging"
	"github.com/dev-tanvu/mateluxy-backend/internal/server"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/config"
)

func main() {

	ctx := context.Background()

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.LoadConfig()

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
