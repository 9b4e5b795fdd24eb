package http

import (
	"net/http"
	"strconv"

	approotkey "github.com/asynclab-dev/unkey/internal/app/rootkey"
	"github.com/asynclab-dev/unkey/pkg/tracer"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

const (
	headerKeyID     = "X-Unkey-Key-Id"
	headerAPIID     = "X-Unkey-Api-Id"
	headerOwnerID   = "X-Unkey-Owner-Id"
	headerRemaining = "X-Unkey-Remaining"
)

type Handler struct {
	appService approotkey.Service
}

func NewHandler(appService approotkey.Service) *Handler {
	return &Handler{appService: appService}
}

// Check is the forward-auth endpoint. The gateway sends the original
// request headers here; a 200 with identity headers means the request
// may proceed to the privileged upstream.
func (h *Handler) Check(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "transport.http.Check")
	defer span.End()

	auth, err := h.appService.Authorize(ctx, c.Request.Header)
	if err != nil {
		span.RecordError(err)
		abortWithAuthError(c, err)
		return
	}

	span.SetAttributes(attribute.Bool("authz.allowed", true))

	key := auth.Key
	if key.KeyID != "" {
		c.Header(headerKeyID, key.KeyID)
	}
	if key.APIID != "" {
		c.Header(headerAPIID, key.APIID)
	}
	if key.OwnerID != "" {
		c.Header(headerOwnerID, key.OwnerID)
	}
	if remaining := remainingHeader(key.Remaining); remaining != "" {
		c.Header(headerRemaining, remaining)
	}

	c.Status(http.StatusOK)
}

// Whoami echoes the verified principal back to the caller. It runs
// behind RequireRootKey, so a missing outcome is a wiring bug.
func (h *Handler) Whoami(c *gin.Context) {
	auth, ok := AuthorizationFrom(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "INTERNAL_SERVER_ERROR",
				"message": "authorization missing from context",
			},
		})
		return
	}

	c.JSON(http.StatusOK, auth.Key)
}

// Healthz reports process liveness.
func (h *Handler) Healthz(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// remainingHeader formats the optional remaining-verifications counter.
func remainingHeader(remaining *int64) string {
	if remaining == nil {
		return ""
	}
	return strconv.FormatInt(*remaining, 10)
}
