package app

import (
	"sabdakrida_backend/docs"
	"sabdakrida_backend/internal/config"
	"sabdakrida_backend/internal/middleware"
	"sabdakrida_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// public
	router.GET("/api/health", c.health.Health)
	router.POST("/api/register", c.auth.Register)
	router.POST("/api/login", c.auth.Login)

	// authorized
	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware(cfg))
	{
		api.POST("/assess/pronunciation", c.pronunciation.Assess)

		api.GET("/drills/priority", c.drill.Priority)
		api.GET("/drills/set", c.drill.DrillSet)
		api.GET("/drills/minimal-pairs", c.drill.MinimalPairs)

		api.GET("/profile/learner", c.profile.Learner)
		api.GET("/profile/difficulty", c.profile.Difficulty)

		api.GET("/tutor/weekly-arc", c.tutor.WeeklyArc)
		api.GET("/tutor/daily-brief", c.tutor.DailyBrief)
		api.GET("/tutor/session/spec/:zone/:level", c.tutor.Spec)
		api.POST("/tutor/session/start", c.tutor.StartSession)
		api.POST("/tutor/session/submit", c.tutor.SubmitSession)

		api.GET("/games/dhatu-dash", c.game.NewDhatuDash)
		api.POST("/games/dhatu-dash/evaluate", c.game.Evaluate)
		api.GET("/games/weakness-drills", c.game.WeaknessDrills)

		api.GET("/corpus/search", c.search.Corpus)

		api.POST("/tts/speak", c.tts.Speak)
	}
}
