package keysvc_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/asynclab-dev/unkey/internal/domain/keys"
	"github.com/asynclab-dev/unkey/internal/infra/cache"
	"github.com/asynclab-dev/unkey/internal/infra/keysvc"
)

type mockCache struct {
	entries map[string]*keys.VerificationResult
	getErr  error
	setErr  error
	gets    int
	sets    int
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string]*keys.VerificationResult)}
}

func (m *mockCache) Get(_ context.Context, keyHash string) (*keys.VerificationResult, error) {
	m.gets++
	if m.getErr != nil {
		return nil, m.getErr
	}
	if result, ok := m.entries[keyHash]; ok {
		return result, nil
	}
	return nil, cache.ErrCacheMiss
}

func (m *mockCache) Set(_ context.Context, keyHash string, result *keys.VerificationResult, _ time.Duration) error {
	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	m.entries[keyHash] = result
	return nil
}

type countingVerifier struct {
	result *keys.VerificationResult
	err    error
	calls  int
}

func (c *countingVerifier) Verify(_ context.Context, _ string) (*keys.VerificationResult, error) {
	c.calls++
	return c.result, c.err
}

func TestCachedVerifier_MissThenHit(t *testing.T) {
	resultCache := newMockCache()
	inner := &countingVerifier{result: &keys.VerificationResult{Valid: true, IsRootKey: true}}

	verifier := keysvc.NewCachedVerifier(inner, resultCache, time.Minute)

	first, err := verifier.Verify(context.Background(), "root-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := verifier.Verify(context.Background(), "root-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if inner.calls != 1 {
		t.Errorf("expected one upstream verify, got %d", inner.calls)
	}
	if resultCache.sets != 1 {
		t.Errorf("expected one cache write, got %d", resultCache.sets)
	}
	if !first.Valid || !second.Valid {
		t.Errorf("expected valid results, got %+v and %+v", first, second)
	}
}

func TestCachedVerifier_CacheFailureFallsBack(t *testing.T) {
	resultCache := newMockCache()
	resultCache.getErr = errors.New("redis down")
	inner := &countingVerifier{result: &keys.VerificationResult{Valid: true, IsRootKey: true}}

	verifier := keysvc.NewCachedVerifier(inner, resultCache, time.Minute)

	result, err := verifier.Verify(context.Background(), "root-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Valid {
		t.Errorf("expected a valid result despite cache failure, got %+v", result)
	}
	if inner.calls != 1 {
		t.Errorf("expected the upstream verifier to be called, got %d calls", inner.calls)
	}
}

func TestCachedVerifier_UpstreamErrorNotCached(t *testing.T) {
	resultCache := newMockCache()
	inner := &countingVerifier{err: errors.New("transport error")}

	verifier := keysvc.NewCachedVerifier(inner, resultCache, time.Minute)

	_, err := verifier.Verify(context.Background(), "root-key")
	if err == nil {
		t.Fatal("expected the upstream error to surface")
	}
	if resultCache.sets != 0 {
		t.Errorf("errors must not be cached, got %d writes", resultCache.sets)
	}
}

func TestNewCachedVerifier_ZeroTTLDisablesCache(t *testing.T) {
	inner := &countingVerifier{result: &keys.VerificationResult{Valid: true, IsRootKey: true}}

	verifier := keysvc.NewCachedVerifier(inner, newMockCache(), 0)

	if verifier != keys.Verifier(inner) {
		t.Error("expected a zero TTL to return the verifier unwrapped")
	}
}
