package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"divisafe-support/internal/metrics"
	"divisafe-support/internal/service"
)

// RouterDeps agrupa handlers y middlewares compartidos.
type RouterDeps struct {
	Logger         *zap.Logger
	Metrics        *metrics.Metrics
	AllowedOrigins []string
	Support        *SupportHandler
	Chat           *ChatHandler
	Moderation     *ModerationHandler
	Tokens         *service.ModeratorTokenService
}

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(deps RouterDeps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	r := gin.New()

	// Middlewares basicos: logging, recovery, CORS y JSON content-type.
	r.Use(zapLoggerMiddleware(logger, deps.Metrics), gin.Recovery(), corsMiddleware(deps.AllowedOrigins), jsonContentTypeMiddleware())

	r.GET("/health", deps.Support.Health)
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	api := r.Group("/api")
	api.POST("/chat/analyze", deps.Support.Analyze)
	api.GET("/chat/rooms", deps.Support.Rooms)
	api.GET("/crisis-resources", deps.Support.CrisisResources)
	if deps.Chat != nil {
		api.POST("/chat/reply", deps.Chat.Reply)
	}

	// Sin servicio de tokens el panel de moderacion no se expone.
	if deps.Moderation != nil && deps.Tokens != nil {
		mod := r.Group("/moderation", ModeratorAuthMiddleware(deps.Tokens))
		mod.GET("/escalations", deps.Moderation.ListPending)
		mod.GET("/escalations/:id", deps.Moderation.Get)
		mod.POST("/escalations/:id/resolve", deps.Moderation.Resolve)
		mod.GET("/interactions", deps.Moderation.RecentInteractions)
	}

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
// El body nunca se loguea: puede contener el texto del usuario.
func zapLoggerMiddleware(logger *zap.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, path, strconv.Itoa(c.Writer.Status()))
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}

// corsMiddleware habilita al frontend configurado en ALLOWED_ORIGINS.
func corsMiddleware(allowed []string) gin.HandlerFunc {
	origins := make(map[string]struct{}, len(allowed))
	wildcard := false
	for _, o := range allowed {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "*" {
			wildcard = true
		}
		if o != "" {
			origins[o] = struct{}{}
		}
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := origins[origin]; ok || wildcard {
				h := c.Writer.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
				h.Add("Vary", "Origin")
			}
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
