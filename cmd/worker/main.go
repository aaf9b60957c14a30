package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/photogram/backend/internal/queue"
	"github.com/photogram/backend/internal/repositories"
	"github.com/photogram/backend/internal/router"
	"github.com/photogram/backend/internal/services"
	"github.com/photogram/backend/pkg/config"
	"github.com/photogram/backend/pkg/storage"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

// The worker runs the queued notification writes and the periodic
// reclamation sweeps: expired stories every 10 minutes, read-notification
// pruning daily at 02:00.
func main() {
	cfg := config.Load()

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer config.CloseDB(db)

	if err := router.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database auto migration")
	}

	storyRepo := repositories.NewPostgresStoryRepository(db)
	notificationRepo := repositories.NewPostgresNotificationRepository(db)
	blob := storage.NewDiskStore(cfg.UploadDir)
	cleaner := services.NewCleanupService(storyRepo, notificationRepo, blob)

	// Periodic sweeps; both are idempotent, so overlapping runs are fine.
	quartz := cron.New()
	quartz.AddFunc("@every 10m", func() {
		if _, err := cleaner.ReclaimExpiredStories(); err != nil {
			log.Error().Err(err).Msg("Expired story sweep failed")
		}
	})
	quartz.AddFunc("0 2 * * *", func() {
		if _, err := cleaner.PruneNotifications(cfg.NotificationRetention); err != nil {
			log.Error().Err(err).Msg("Notification pruning failed")
		}
	})
	quartz.Start()

	// Queued task handlers
	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		asynq.Config{Concurrency: 10},
	)
	mux := queue.NewServeMux(notificationRepo)

	go func() {
		if err := srv.Run(mux); err != nil {
			log.Fatal().Err(err).Msg("Failed to run task server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	srv.Shutdown()
	quartz.Stop()
	log.Info().Msg("Worker stopped.")
}
