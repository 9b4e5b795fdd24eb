package http

import (
	"errors"
	"net/http"
	"time"

	"log/slog"

	approotkey "github.com/asynclab-dev/unkey/internal/app/rootkey"
	"github.com/asynclab-dev/unkey/internal/domain/rootkey"
	"github.com/asynclab-dev/unkey/pkg/logger"
	"github.com/asynclab-dev/unkey/pkg/tracer"
	"github.com/gin-gonic/gin"
)

const authorizationContextKey = "rootkey.authorization"

// RequireRootKey guards a route group: it runs the authorization check
// and either attaches the outcome to the context or aborts with the
// mapped status. Handlers behind it can assume AuthorizationFrom succeeds.
func RequireRootKey(appService approotkey.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "transport.http.RequireRootKey")
		defer span.End()

		auth, err := appService.Authorize(ctx, c.Request.Header)
		if err != nil {
			span.RecordError(err)
			abortWithAuthError(c, err)
			return
		}

		c.Set(authorizationContextKey, auth)
		c.Next()
	}
}

// AuthorizationFrom returns the outcome attached by RequireRootKey.
func AuthorizationFrom(c *gin.Context) (*rootkey.Authorization, bool) {
	value, ok := c.Get(authorizationContextKey)
	if !ok {
		return nil, false
	}
	auth, ok := value.(*rootkey.Authorization)
	return auth, ok
}

// abortWithAuthError maps an AuthorizationError onto the response:
// 401 for UNAUTHORIZED, 500 for everything else. The body never carries
// more than the error's own code and message.
func abortWithAuthError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	var authErr *rootkey.AuthorizationError
	if !errors.As(err, &authErr) {
		logger.ErrorContext(ctx, "authorization failed with untyped error", slog.String("error", err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    string(rootkey.CodeInternalServerError),
				"message": "internal server error",
			},
		})
		return
	}

	status := http.StatusInternalServerError
	if authErr.Code == rootkey.CodeUnauthorized {
		status = http.StatusUnauthorized
		logger.WarnContext(ctx, "authorization denied", slog.String("reason", authErr.Message))
	} else {
		logger.ErrorContext(ctx, "authorization check failed", slog.String("error", authErr.Message))
	}

	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{
			"code":    string(authErr.Code),
			"message": authErr.Message,
		},
	})
}

func loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		if status >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request.Context(), "request failed",
				slog.String("method", method),
				slog.String("path", path),
				slog.Int("status", status),
				slog.Duration("duration", duration),
			)
		} else {
			logger.InfoContext(c.Request.Context(), "request completed",
				slog.String("method", method),
				slog.String("path", path),
				slog.Int("status", status),
				slog.Duration("duration", duration),
			)
		}
	}
}
