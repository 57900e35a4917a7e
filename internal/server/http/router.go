package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nimyab/word-aligner/internal/logging"
	"github.com/nimyab/word-aligner/internal/observability"
	"github.com/nimyab/word-aligner/internal/server/ports"
)

// RouterConfig controls the router middleware.
type RouterConfig struct {
	// Debug keeps gin in debug mode; release mode otherwise.
	Debug bool
	// MaxBodyBytes caps the request body size. Zero disables the cap.
	MaxBodyBytes int64
	Logger       logging.Logger
	Tracer       *observability.TracerProvider
}

// NewRouter builds the gin engine with the service routes. CORS is
// allow-all, matching the original service.
func NewRouter(service ports.AlignmentService, health ports.HealthChecker, cfg RouterConfig) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestID())
	engine.Use(RequestLogging(cfg.Logger))
	engine.Use(BodyLimit(cfg.MaxBodyBytes))
	engine.Use(Tracing(cfg.Tracer))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", RequestIDHeader}
	corsConfig.AllowWebSockets = true
	engine.Use(cors.New(corsConfig))

	handler := NewAPIHandler(service, health, WithHandlerLogger(cfg.Logger))
	stream := NewStreamHandler(service, WithStreamLogger(cfg.Logger))

	engine.POST("/align", handler.HandleAlign)
	engine.GET("/align/stream", stream.HandleStream)
	engine.GET("/health", handler.HandleHealth)
	engine.GET("/methods", handler.HandleMethods)

	return engine
}
