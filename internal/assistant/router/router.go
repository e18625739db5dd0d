// Package router wires the assistant's HTTP routes.
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/mercora/volt/internal/assistant/handler"
	"github.com/mercora/volt/internal/assistant/metrics"
	"github.com/mercora/volt/pkg/component/storage"
)

// New builds the gin engine with all assistant routes registered.
func New(assistantHandler *handler.AssistantHandler, storageMgr *storage.Manager) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())

	v1 := engine.Group("/v1")
	{
		assistant := v1.Group("/assistant")
		{
			assistant.POST("/ask", assistantHandler.Ask)
			assistant.POST("/index", assistantHandler.Index)
			assistant.GET("/stats", assistantHandler.Stats)
		}
		v1.GET("/recommendations", assistantHandler.Recommendations)
	}

	// Unversioned aliases for the storefront UI.
	engine.POST("/assistant/ask", assistantHandler.Ask)
	engine.GET("/recommendations", assistantHandler.Recommendations)

	engine.GET("/healthz", healthz(storageMgr))
	engine.GET("/metrics", func(c *gin.Context) {
		c.String(http.StatusOK, metrics.GetAssistantMetrics().Export("volt", "assistant"))
	})

	return engine
}

func healthz(storageMgr *storage.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "ok"
		code := http.StatusOK

		components := map[string]string{}
		if storageMgr != nil {
			for name, hs := range storageMgr.HealthCheckAll(c.Request.Context()) {
				if !hs.Healthy {
					components[name] = hs.Error.Error()
					status = "degraded"
					code = http.StatusServiceUnavailable
				} else {
					components[name] = "ok"
				}
			}
		}

		c.JSON(code, gin.H{"status": status, "components": components})
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Infow("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
