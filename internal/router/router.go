package router

import (
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/photogram/backend/internal/handlers"
	"github.com/photogram/backend/internal/middleware"
	"github.com/photogram/backend/internal/models"
	"github.com/photogram/backend/internal/queue"
	"github.com/photogram/backend/internal/repositories"
	"github.com/photogram/backend/internal/services"
	"github.com/photogram/backend/pkg/config"
	"github.com/photogram/backend/pkg/storage"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
}

// Migrate runs the schema auto-migration for every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Post{},
		&models.Tag{},
		&models.Comment{},
		&models.Like{},
		&models.Follow{},
		&models.Story{},
		&models.StoryView{},
		&models.Notification{},
	)
}

// SetupRoutes wires repositories, services and handlers onto the Echo
// instance.
func SetupRoutes(e *echo.Echo, db *gorm.DB, cfg *config.Config, blob storage.BlobStore, enqueuer queue.Enqueuer) {
	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Repositories ---
	userRepo := repositories.NewPostgresUserRepository(db)
	postRepo := repositories.NewPostgresPostRepository(db)
	commentRepo := repositories.NewPostgresCommentRepository(db)
	likeRepo := repositories.NewPostgresLikeRepository(db)
	followRepo := repositories.NewPostgresFollowRepository(db)
	storyRepo := repositories.NewPostgresStoryRepository(db)
	notificationRepo := repositories.NewPostgresNotificationRepository(db)

	// --- Services ---
	notifier := services.NewNotifier(enqueuer, notificationRepo)
	graph := services.NewSocialGraphService(followRepo, userRepo, notifier)
	authService := services.NewAuthService(userRepo, followRepo, cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	postService := services.NewPostService(postRepo, followRepo, graph, blob, cfg.MaxFileSize)
	commentService := services.NewCommentService(commentRepo, postRepo, userRepo, graph, notifier)
	likeService := services.NewLikeService(likeRepo, postRepo, userRepo, followRepo, graph, notifier)
	storyService := services.NewStoryService(storyRepo, followRepo, graph, blob, cfg.MaxFileSize, cfg.StoryTTL)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(authService)
	authHandler.RegisterAuthRoutes(authGroup)

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))

	userHandler := handlers.NewUserHandler(userRepo, authService, blob, cfg.MaxFileSize)
	userHandler.RegisterUserRoutes(api)

	postHandler := handlers.NewPostHandler(postService, userRepo, postRepo, likeRepo)
	postHandler.RegisterPostRoutes(api)

	commentHandler := handlers.NewCommentHandler(commentService, userRepo)
	commentHandler.RegisterCommentRoutes(api)

	likeHandler := handlers.NewLikeHandler(likeService)
	likeHandler.RegisterLikeRoutes(api)

	followHandler := handlers.NewFollowHandler(graph)
	followHandler.RegisterFollowRoutes(api)

	storyHandler := handlers.NewStoryHandler(storyService, userRepo, storyRepo)
	storyHandler.RegisterStoryRoutes(api)

	notificationHandler := handlers.NewNotificationHandler(notificationRepo, userRepo)
	notificationHandler.RegisterNotificationRoutes(api)

	log.Info().Msg("All routes configured.")
}
