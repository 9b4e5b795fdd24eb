package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/asynclab-dev/unkey/internal/config"
	"github.com/asynclab-dev/unkey/internal/domain/keys"
	"github.com/asynclab-dev/unkey/internal/domain/rootkey"
	httptransport "github.com/asynclab-dev/unkey/internal/transport/http"
	"github.com/gin-gonic/gin"
)

type mockAppService struct {
	authorizeFunc func(ctx context.Context, header http.Header) (*rootkey.Authorization, error)
}

func (m *mockAppService) Authorize(ctx context.Context, header http.Header) (*rootkey.Authorization, error) {
	if m.authorizeFunc != nil {
		return m.authorizeFunc(ctx, header)
	}
	return &rootkey.Authorization{
		Key: &keys.VerificationResult{Valid: true, IsRootKey: true, KeyID: "key_123", OwnerID: "owner_abc"},
	}, nil
}

func newTestRouter(svc *mockAppService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	return httptransport.NewRouter(httptransport.NewHandler(svc), svc, cfg)
}

func decodeErrorBody(t *testing.T, w *httptest.ResponseRecorder) (code, message string) {
	t.Helper()

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode error body %q: %v", w.Body.String(), err)
	}
	return body.Error.Code, body.Error.Message
}

func TestCheck_Allowed(t *testing.T) {
	router := newTestRouter(&mockAppService{})

	req := httptest.NewRequest(http.MethodGet, "/authz/rootkey/keys.createKey", nil)
	req.Header.Set("Authorization", "Bearer unkey_root")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if got := w.Header().Get("X-Unkey-Key-Id"); got != "key_123" {
		t.Errorf("expected key id header, got %q", got)
	}
	if got := w.Header().Get("X-Unkey-Owner-Id"); got != "owner_abc" {
		t.Errorf("expected owner id header, got %q", got)
	}
}

func TestCheck_Unauthorized(t *testing.T) {
	svc := &mockAppService{
		authorizeFunc: func(_ context.Context, _ http.Header) (*rootkey.Authorization, error) {
			return nil, rootkey.NewUnauthorized("the root key is not valid")
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/authz/rootkey/test", nil)
	req.Header.Set("Authorization", "Bearer bad")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
	code, message := decodeErrorBody(t, w)
	if code != "UNAUTHORIZED" {
		t.Errorf("expected code UNAUTHORIZED, got %q", code)
	}
	if message != "the root key is not valid" {
		t.Errorf("expected the guard's message, got %q", message)
	}
}

func TestCheck_InternalError(t *testing.T) {
	svc := &mockAppService{
		authorizeFunc: func(_ context.Context, _ http.Header) (*rootkey.Authorization, error) {
			return nil, rootkey.NewInternal("verification service unreachable")
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/authz/rootkey/test", nil)
	req.Header.Set("Authorization", "Bearer any")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
	code, message := decodeErrorBody(t, w)
	if code != "INTERNAL_SERVER_ERROR" {
		t.Errorf("expected code INTERNAL_SERVER_ERROR, got %q", code)
	}
	if message != "verification service unreachable" {
		t.Errorf("expected the service error message, got %q", message)
	}
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(&mockAppService{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}
