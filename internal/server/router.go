package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/threepicks-backend/internal/handlers"
	"github.com/yungbote/threepicks-backend/internal/middleware"
)

type RouterConfig struct {
	UserMiddleware  *middleware.UserMiddleware
	PicksHandler    *handlers.PicksHandler
	FeedbackHandler *handlers.FeedbackHandler
	AllowOrigins    []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-User-ID", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	api.Use(cfg.UserMiddleware.RequireUser())
	{
		api.POST("/picks", cfg.PicksHandler.GetPicks)
		api.POST("/feedback", cfg.FeedbackHandler.SaveFeedback)
	}

	return router
}
