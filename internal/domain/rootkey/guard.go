package rootkey

import (
	"context"
	"net/http"
	"strings"

	"github.com/asynclab-dev/unkey/internal/domain/keys"
)

const (
	authorizationHeader = "Authorization"
	bearerPrefix        = "Bearer "

	msgKeyRequired     = "key required"
	msgKeyNotValid     = "the root key is not valid"
	msgRootKeyRequired = "root key required"
)

// Authorization is the outcome attached to a request once the guard has
// admitted it. It carries the full verification result for downstream
// handlers and is discarded at the end of the request.
type Authorization struct {
	Key *keys.VerificationResult
}

// Guard decides whether a request carries a valid root key.
type Guard interface {
	Authorize(ctx context.Context, header http.Header) (*Authorization, error)
}

type guard struct {
	verifier keys.Verifier
}

func NewGuard(verifier keys.Verifier) Guard {
	return &guard{verifier: verifier}
}

// Authorize evaluates the request headers against the verification
// service. Branches are ordered; the first match decides the outcome:
// missing header, verification failure, invalid key, non-root key,
// success. An absent header never reaches the verifier.
func (g *guard) Authorize(ctx context.Context, header http.Header) (*Authorization, error) {
	values := header.Values(authorizationHeader)
	if len(values) == 0 {
		return nil, NewUnauthorized(msgKeyRequired)
	}

	// Strip a single literal "Bearer " prefix, case-sensitive. An empty
	// remainder is still forwarded: the verifier decides what a present
	// but malformed credential means.
	key := strings.TrimPrefix(values[0], bearerPrefix)

	result, err := g.verifier.Verify(ctx, key)
	if err != nil {
		return nil, NewInternal(err.Error())
	}

	if !result.Valid {
		return nil, NewUnauthorized(msgKeyNotValid)
	}

	if !result.IsRootKey {
		return nil, NewUnauthorized(msgRootKeyRequired)
	}

	return &Authorization{Key: result}, nil
}
