package api

import (
	"net/http"
	"time"

	"sales-tracker-scraper/internal/logger"

	"github.com/gin-gonic/gin"
)

// NewRouter mounts the handlers. metrics may be nil.
func NewRouter(h *Handler, metrics http.Handler, log logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	routes := r.Group("/api")
	routes.GET("/health", h.Health)
	routes.POST("/job-postings/scrape", h.Scrape)

	auth := routes.Group("/linkedin-auth")
	auth.GET("/status", h.Status)
	auth.POST("/upload-cookies", h.UploadCookies)
	auth.DELETE("/logout", h.Logout)
	auth.POST("/login", h.Login)

	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics))
	}
	return r
}

func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("HTTP request",
			logger.String("method", c.Request.Method),
			logger.String("path", c.FullPath()),
			logger.Int("status", c.Writer.Status()),
			logger.Duration("elapsed", time.Since(start)),
			logger.String("owner_id", c.GetHeader(UserIDHeader)),
		)
	}
}
