package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/takumanken/feed/config"
	"github.com/takumanken/feed/internal/api/v1/relay"
	"github.com/takumanken/feed/internal/middleware"
	"github.com/takumanken/feed/internal/ratelimit"
)

// Deps are the collaborators the router wires together. Limiter may be nil
// when opts.RateLimit is nil.
type Deps struct {
	Options   config.RelayOptions
	Processor relay.Processor
	Limiter   ratelimit.Limiter
}

func NewRouter(deps Deps) *gin.Engine {
	opts := deps.Options

	router := gin.New()
	router.Use(gin.Recovery())
	if opts.Logging {
		router.Use(middleware.Logger())
	}
	router.Use(cors.New(corsConfig(opts)))

	var gate []gin.HandlerFunc
	if opts.RateLimit != nil && deps.Limiter != nil {
		gate = append(gate, middleware.RateLimit(deps.Limiter, opts.RateLimit.Count, opts.RateLimit.Window))
	}

	relay.RegisterRoutes(router, relay.NewHandler(deps.Processor, opts.ErrorStatus, opts.Logging), gate...)

	return router
}

func corsConfig(opts config.RelayOptions) cors.Config {
	if opts.AllowsAllOrigins() {
		// the caller's origin is echoed back instead of "*"
		return cors.Config{
			AllowOriginFunc:  func(string) bool { return true },
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           600,
		}
	}

	return cors.Config{
		AllowOrigins:     opts.CORSOrigins,
		AllowMethods:     []string{http.MethodPost},
		AllowHeaders:     []string{"Content-Type"},
		AllowCredentials: false,
		MaxAge:           600,
	}
}
