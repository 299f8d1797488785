package main

import (
	"log"
	"log/slog"
	"os"

	root "github.com/dinerozz/productivity-tracker-backend/cmd/root"
	"github.com/dinerozz/productivity-tracker-backend/config"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// @title						Productivity tracker API
// @version					1.0
// @BasePath					/api/v1
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	config := config.LoadConfig()
	logger := setupLogger(config.Env)
	slog.SetDefault(logger)

	cmd := root.GetRootCmd(config, logger)

	logger.Info("starting productivity tracker backend", slog.String("env", config.Env))

	if len(os.Args) == 1 {
		cmd.SetArgs([]string{"serve"})
	}

	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return log
}
