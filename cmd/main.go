package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/threepicks-backend/internal/clients/tmdb"
	"github.com/yungbote/threepicks-backend/internal/db"
	"github.com/yungbote/threepicks-backend/internal/handlers"
	"github.com/yungbote/threepicks-backend/internal/middleware"
	"github.com/yungbote/threepicks-backend/internal/platform/cache"
	"github.com/yungbote/threepicks-backend/internal/platform/envutil"
	"github.com/yungbote/threepicks-backend/internal/platform/logger"
	"github.com/yungbote/threepicks-backend/internal/platform/openai"
	"github.com/yungbote/threepicks-backend/internal/repos"
	"github.com/yungbote/threepicks-backend/internal/server"
	"github.com/yungbote/threepicks-backend/internal/services"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	feedbackRepo := repos.NewFeedbackRepo(thePG, log)
	userEventRepo := repos.NewUserEventRepo(thePG, log)

	// Cache
	movieCache, err := cache.NewRedis(log)
	if err != nil {
		log.Warn("Redis init failed, falling back to in-memory cache", "error", err)
		movieCache = cache.NewMemory()
	}

	// Clients
	log.Info("Setting up clients from main...")
	tmdbClient, err := tmdb.NewClient(log, movieCache)
	if err != nil {
		log.Error("Could not init TMDB client", "error", err)
		os.Exit(1)
	}
	var reasoner services.ReasonClient
	openaiClient, err := openai.NewClient(log)
	switch {
	case err == nil:
		reasoner = services.NewOpenAIPicker(log, openaiClient)
	case errors.Is(err, openai.ErrNoCredential):
		log.Warn("OPENAI_API_KEY not set, serving heuristic picks only")
	default:
		log.Error("Could not init OpenAI client", "error", err)
		os.Exit(1)
	}

	// Services
	log.Info("Setting up services from main...")
	userService := services.NewUserService(log, userRepo)
	catalogService := services.NewCatalogService(log, tmdbClient)
	pickerService := services.NewPickerService(log, catalogService, feedbackRepo, userEventRepo, reasoner)
	feedbackService := services.NewFeedbackService(log, feedbackRepo, userEventRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	picksHandler := handlers.NewPicksHandler(log, pickerService, tmdbClient)
	feedbackHandler := handlers.NewFeedbackHandler(log, feedbackService)

	// Middleware
	userMiddleware := middleware.NewUserMiddleware(log, userService)

	// Router
	log.Info("Setting up router from main...")
	if envutil.Bool("GIN_RELEASE_MODE", false) {
		gin.SetMode(gin.ReleaseMode)
	}
	router := server.NewRouter(server.RouterConfig{
		UserMiddleware:  userMiddleware,
		PicksHandler:    picksHandler,
		FeedbackHandler: feedbackHandler,
	})

	port := envutil.Str("PORT", "8080")
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
