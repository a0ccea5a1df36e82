// Package httpapi exposes the translate action and the history view over HTTP.
package httpapi

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/doeshing/doctrans/internal/domain"
	"github.com/doeshing/doctrans/internal/ports"
)

// Translator runs one translate action.
type Translator interface {
	Run(req domain.TranslateRequest) (domain.TranslateResponse, error)
}

// Options tunes request handling.
type Options struct {
	DefaultTargets []string
	Timeout        time.Duration
	MaxUploadMB    int
	HistoryLimit   int
	// RecentRuns bounds the runs whose files stay downloadable by run ID.
	RecentRuns int
}

// New creates a router with all routes configured.
func New(translator Translator, history ports.HistoryRepository, logger ports.Logger, opts Options) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	if opts.MaxUploadMB <= 0 {
		opts.MaxUploadMB = domain.DefaultMaxUploadMB
	}
	r.MaxMultipartMemory = int64(opts.MaxUploadMB) << 20

	r.Use(requestLogger(logger))
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	h := &Handler{
		translator: translator,
		history:    history,
		runs:       newRunStore(opts.RecentRuns),
		logger:     logger,
		opts:       opts,
	}

	api := r.Group("/api")
	{
		api.POST("/translate", h.Translate)
		api.GET("/languages", h.Languages)
		api.GET("/history", h.History)
		api.GET("/runs/:run_id/download/:lang", h.DownloadRun)
		api.GET("/history/:index/download/:lang", h.Download)
	}

	return r
}

func requestLogger(logger ports.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}
		logger.Info("http request", map[string]interface{}{
			"method":    c.Request.Method,
			"path":      path,
			"status":    c.Writer.Status(),
			"latency":   time.Since(start).String(),
			"client_ip": c.ClientIP(),
		})
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func (o Options) requestContext(parent context.Context) (context.Context, context.CancelFunc) {
	if o.Timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, o.Timeout)
}
