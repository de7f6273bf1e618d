package api

import (
	"net/http"

	"transaction-dashboard/internal/analytics"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// NewRouter wires middleware, the health probe and the /api routes.
func NewRouter(engine *analytics.Engine, seed Seeder, log zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), AccessLog(log), CORS())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	SetupRoutes(r.Group("/api"), engine, seed, log)
	return r
}
