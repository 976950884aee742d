// Package api implements the local report gateway: a small HTTP surface that
// serves normalized batch snapshots and aggregated reports to a local
// presentation layer, proxying the analysis backend.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/harper/simscan/internal/api/handler"
	"github.com/harper/simscan/internal/api/middleware"
	"github.com/harper/simscan/internal/client"
	"github.com/harper/simscan/internal/config"
	"github.com/harper/simscan/internal/logger"
)

// SetupRouter configures the Gin router with all gateway routes.
// Parameters:
//   - backend: analysis backend client.
//   - cfg: gateway configuration (CORS).
//   - log: base logger for request logging.
//
// Returns:
//   - *gin.Engine: configured router.
func SetupRouter(backend *client.Client, cfg *config.Gateway, log *logger.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  cfg.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.CORS.AllowAllOrigins,
	}))

	healthHandler := handler.NewHealthHandler()
	batchHandler := handler.NewBatchHandler(backend)

	r.GET("/health", healthHandler.Health)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/batches", batchHandler.List)
		v1.GET("/batches/:id", batchHandler.Get)
		v1.GET("/batches/:id/report", batchHandler.Report)
		v1.DELETE("/batches/:id", batchHandler.Delete)
	}

	return r
}
