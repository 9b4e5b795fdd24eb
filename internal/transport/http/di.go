package http

import (
	"context"
	"fmt"
	"net/http"

	approotkey "github.com/asynclab-dev/unkey/internal/app/rootkey"
	"github.com/asynclab-dev/unkey/internal/config"
	"github.com/asynclab-dev/unkey/internal/domain/keys"
	"github.com/asynclab-dev/unkey/internal/domain/rootkey"
	"github.com/asynclab-dev/unkey/internal/infra/cache"
	"github.com/asynclab-dev/unkey/internal/infra/keysvc"
	httpclient "github.com/asynclab-dev/unkey/pkg/http"
	"github.com/asynclab-dev/unkey/pkg/logger"
	"github.com/asynclab-dev/unkey/pkg/otel"
	"github.com/asynclab-dev/unkey/pkg/tracer"
)

const (
	idleTimeoutMultiplier = 2
	serviceName           = "unkey-gateway"
)

type Server struct {
	httpServer *http.Server
}

func NewServer(cfg *config.Config) (*Server, error) {
	logger.InitLogger(cfg.Observability.LogLevel, cfg.Observability.Format, cfg.Observability.LogSource)

	otelCfg := otel.Config{
		ServiceName:        serviceName,
		EndpointURL:        cfg.Observability.TracingEndpointURL,
		Enabled:            cfg.Observability.TraceEnabled,
		SampleRatio:        1.0,
		Insecure:           true,
		ResourceAttributes: make(map[string]string),
	}
	if err := tracer.InitTracer(serviceName, otelCfg); err != nil {
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}

	httpclient.Configure(cfg.Keys.Timeout, cfg.Keys.RetryCount)

	verifier, err := newVerifier(cfg)
	if err != nil {
		return nil, err
	}

	guard := rootkey.NewGuard(verifier)
	appService := approotkey.NewService(guard)

	handler := NewHandler(appService)
	router := NewRouter(handler, appService, cfg)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout * idleTimeoutMultiplier,
	}

	return &Server{
		httpServer: httpServer,
	}, nil
}

// newVerifier builds the verification client, wrapped with the redis
// result cache when a cache TTL is configured.
func newVerifier(cfg *config.Config) (keys.Verifier, error) {
	verifier := keysvc.NewClient(cfg.Keys.BaseURL, cfg.Keys.ServiceToken)

	if cfg.Keys.CacheTTL <= 0 {
		return verifier, nil
	}

	redisClient, err := cache.NewRedisClient(cfg.Redis.URL, cfg.Redis.PoolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}

	return keysvc.NewCachedVerifier(verifier, cache.NewResultCache(redisClient), cfg.Keys.CacheTTL), nil
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
