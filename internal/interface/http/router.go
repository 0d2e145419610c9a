package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/celestial-scale/internal/infra/config"
	"github.com/yanqian/celestial-scale/internal/interface/http/web"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, sessions *SessionManager) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.SetHTMLTemplate(web.Templates())
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(handler.logger),
	)

	router.GET("/healthz", handler.Health)
	router.StaticFS("/static", http.FS(web.Static()))
	router.GET("/images/:key", handler.Image)

	limiter := rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger)
	withSession := sessionMiddleware(sessions, handler.logger)

	limited := router.Group("/", limiter, withSession)
	{
		limited.GET("/", handler.Page)
		limited.POST("/weighins", handler.SubmitForm)
		limited.POST("/carousel/next", handler.NextForm)
		limited.POST("/carousel/previous", handler.PreviousForm)
		limited.POST("/carousel/close", handler.CloseForm)
	}

	api := router.Group("/api/v1", limiter)
	{
		api.GET("/bodies", handler.ListBodies)
		api.GET("/bodies/:id", handler.GetBody)
		api.POST("/weighins/preview", handler.PreviewWeighIn)

		session := api.Group("", withSession)
		session.POST("/weighins", handler.SubmitWeighIn)
		session.GET("/carousel", handler.CurrentSlide)
		session.POST("/carousel/next", handler.NextSlide)
		session.POST("/carousel/previous", handler.PreviousSlide)
		session.POST("/carousel/close", handler.CloseCarousel)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        withRetry(router, cfg.HTTP.Retry, handler.logger),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("http request", "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status(), "latency_ms", latency.Milliseconds())
	}
}
