package http

import (
	approotkey "github.com/asynclab-dev/unkey/internal/app/rootkey"
	"github.com/asynclab-dev/unkey/internal/config"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func NewRouter(handler *Handler, appService approotkey.Service, cfg *config.Config) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	if cfg.Observability.TraceEnabled {
		router.Use(otelgin.Middleware(serviceName))
	}
	router.Use(loggingMiddleware())

	router.GET("/healthz", handler.Healthz)

	// Forward-auth surface: the gateway mirrors privileged requests here
	// and trusts the status code.
	router.Any("/authz/rootkey/*path", handler.Check)

	// Privileged routes run behind the guard and consume the outcome.
	v1 := router.Group("/v1", RequireRootKey(appService))
	v1.GET("/rootkey.whoami", handler.Whoami)

	return router
}
