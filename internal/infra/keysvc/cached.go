package keysvc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/asynclab-dev/unkey/internal/domain/keys"
	"github.com/asynclab-dev/unkey/internal/infra/cache"
	"github.com/asynclab-dev/unkey/pkg/logger"
)

// cachedVerifier caches verification results for a short TTL. Cache
// failures degrade to a direct verify; a stale cache must never turn
// into a denied or allowed request on its own.
type cachedVerifier struct {
	inner keys.Verifier
	cache cache.ResultCache
	ttl   time.Duration
}

// NewCachedVerifier wraps verifier with a result cache. A TTL of zero
// or less returns the verifier unwrapped.
func NewCachedVerifier(verifier keys.Verifier, resultCache cache.ResultCache, ttl time.Duration) keys.Verifier {
	if ttl <= 0 {
		return verifier
	}
	return &cachedVerifier{
		inner: verifier,
		cache: resultCache,
		ttl:   ttl,
	}
}

func (v *cachedVerifier) Verify(ctx context.Context, key string) (*keys.VerificationResult, error) {
	keyHash := hashKey(key)

	cached, err := v.cache.Get(ctx, keyHash)
	if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		logger.WarnContext(ctx, "failed to read verification cache, verifying directly",
			slog.String("error", err.Error()))
	}
	if cached != nil {
		return cached, nil
	}

	result, err := v.inner.Verify(ctx, key)
	if err != nil {
		return nil, err
	}

	if setErr := v.cache.Set(ctx, keyHash, result, v.ttl); setErr != nil {
		logger.WarnContext(ctx, "failed to write verification cache",
			slog.String("error", setErr.Error()))
	}

	return result, nil
}

func hashKey(key string) string {
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:])
}
