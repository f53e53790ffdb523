package router

import (
	"github.com/gin-gonic/gin"

	"verity/internal/config"
	"verity/internal/handler"
	"verity/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	analyzeH *handler.AnalyzeHandler,
	appealH *handler.AppealHandler,
	exportH *handler.ExportHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	v1.POST("/analyze", analyzeH.AnalyzeFile)
	v1.POST("/analyze/text", analyzeH.AnalyzeText)
	v1.POST("/appeal", appealH.Generate)
	v1.POST("/reports/export", exportH.Export)

	return r
}
