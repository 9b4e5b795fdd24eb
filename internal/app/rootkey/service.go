package rootkey

import (
	"context"
	"errors"
	"net/http"

	domain "github.com/asynclab-dev/unkey/internal/domain/rootkey"
	"github.com/asynclab-dev/unkey/pkg/tracer"
	"go.opentelemetry.io/otel/attribute"
)

type Service interface {
	Authorize(ctx context.Context, header http.Header) (*domain.Authorization, error)
}

type service struct {
	guard domain.Guard
}

func NewService(guard domain.Guard) Service {
	return &service{guard: guard}
}

func (s *service) Authorize(ctx context.Context, header http.Header) (*domain.Authorization, error) {
	ctx, span := tracer.Start(ctx, "app.rootkey.Authorize")
	defer span.End()

	auth, err := s.guard.Authorize(ctx, header)
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("authz.allowed", false))

		var authErr *domain.AuthorizationError
		if errors.As(err, &authErr) {
			span.SetAttributes(attribute.String("authz.code", string(authErr.Code)))
		}
		return nil, err
	}

	span.SetAttributes(
		attribute.Bool("authz.allowed", true),
		attribute.String("authz.key_id", auth.Key.KeyID),
	)

	return auth, nil
}
