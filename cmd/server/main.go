package main

import (
	"os"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/photogram/backend/internal/queue"
	"github.com/photogram/backend/internal/router"
	"github.com/photogram/backend/pkg/config"
	"github.com/photogram/backend/pkg/storage"
	"github.com/photogram/backend/validators"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	// Load configuration
	cfg := config.Load()
	if cfg.JWTSecret == "" || cfg.RefreshSecret == "" {
		log.Fatal().Msg("JWT_SECRET and REFRESH_SECRET must be set")
	}

	// Initialize database connection
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer config.CloseDB(db)

	if err := router.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database auto migration")
	}

	// Media uploads on local disk
	blob := storage.NewDiskStore(cfg.UploadDir)

	// Work queue client; notification writes fall back to synchronous
	// inserts when it is unreachable.
	enqueuer := queue.NewAsynqEnqueuer(cfg.RedisAddr)
	defer enqueuer.Close()

	// Create Echo instance
	e := echo.New()
	e.Validator = validators.NewValidator()

	router.SetupMiddleware(e)
	router.SetupRoutes(e, db, cfg, blob, enqueuer)

	// Start server
	log.Fatal().Err(e.Start(":" + cfg.Port)).Msg("Server stopped")
}
