package keys

import (
	"context"
	"encoding/json"
)

// RateLimit is the rate-limit state reported by the verification service.
// The guard passes it through untouched.
type RateLimit struct {
	Limit     int64 `json:"limit"`
	Remaining int64 `json:"remaining"`
	Reset     int64 `json:"reset"`
}

// VerificationResult is the verification service's judgement on a single
// credential. Only Valid and IsRootKey are interpreted by the guard; the
// remaining fields are opaque pass-through data for downstream handlers.
type VerificationResult struct {
	Valid     bool            `json:"valid"`
	IsRootKey bool            `json:"isRootKey"`
	KeyID     string          `json:"keyId,omitempty"`
	APIID     string          `json:"apiId,omitempty"`
	OwnerID   string          `json:"ownerId,omitempty"`
	Meta      json.RawMessage `json:"meta,omitempty"`
	Expires   int64           `json:"expires,omitempty"`
	Remaining *int64          `json:"remaining,omitempty"`
	RateLimit *RateLimit      `json:"ratelimit,omitempty"`
	Code      string          `json:"code,omitempty"`
}

// Verifier is the port to the external Key Verification Service.
// Implementations decide validity and privilege; expiry, revocation and
// storage are their concern, not the caller's.
type Verifier interface {
	Verify(ctx context.Context, key string) (*VerificationResult, error)
}
