package keysvc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/asynclab-dev/unkey/internal/domain/keys"
	httpclient "github.com/asynclab-dev/unkey/pkg/http"
)

const verifyPath = "/v1/keys.verifyKey"

type verifyKeyRequest struct {
	Key string `json:"key"`
}

type verifyKeyResponse struct {
	keys.VerificationResult
	Error string `json:"error,omitempty"`
}

type client struct {
	baseURL      string
	serviceToken string
}

// NewClient returns a keys.Verifier backed by the key verification API.
// serviceToken, when set, authenticates this gateway against the service.
func NewClient(baseURL, serviceToken string) keys.Verifier {
	return &client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		serviceToken: serviceToken,
	}
}

// Verify performs a single verification call. Retries and timeouts are
// the shared HTTP client's policy; the caller gets exactly one answer
// or one error.
func (c *client) Verify(ctx context.Context, key string) (*keys.VerificationResult, error) {
	var result verifyKeyResponse

	resp, err := httpclient.Post(
		ctx,
		c.baseURL+verifyPath,
		httpclient.WithAuthToken(c.serviceToken),
		httpclient.WithBody(verifyKeyRequest{Key: key}),
		httpclient.WithResult(&result),
	)
	if err != nil {
		return nil, fmt.Errorf("verify key request failed: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf(
			"verify key failed with status %d: %s",
			resp.StatusCode(),
			string(resp.Body()),
		)
	}

	if result.Error != "" {
		return nil, errors.New(result.Error)
	}

	return &result.VerificationResult, nil
}
