package main

import (
	"net/http"

	"transaction-dashboard/internal/analytics"
	"transaction-dashboard/internal/api"
	"transaction-dashboard/internal/config"
	"transaction-dashboard/internal/database"
	"transaction-dashboard/internal/logger"
	"transaction-dashboard/internal/services/seeder"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	envErr := godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.Environment, cfg.LogLevel)
	if envErr != nil {
		log.Debug().Msg("no .env file found")
	}
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Initialize(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	repo := database.NewTransactionRepository(db)
	engine := analytics.NewEngine(repo)
	seed := seeder.New(cfg.SeedURL, cfg.SeedTimeout, repo, log)

	r := api.NewRouter(engine, seed, log)

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
