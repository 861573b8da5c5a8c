package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phamkhoa1373/E-commerce/pkg/logger"
	"github.com/phamkhoa1373/E-commerce/pkg/middleware"
)

func TestJWTAuth_ContextLoggerCarriesUserID(t *testing.T) {
	var buf bytes.Buffer
	base := logger.NewWithWriter("storefront", "info", &buf)

	// Same ordering as the router: the context logger is stored before
	// authentication runs.
	handler := middleware.RequestLogger(base)(
		JWTAuth(testSecret, testLogger())(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				logger.FromContext(r.Context()).Info("cart loaded")
				w.WriteHeader(http.StatusOK)
			}),
		),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", bearerToken(t, "u1", "user"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, buf.String(), `"user_id":"u1"`)
	assert.Contains(t, buf.String(), "cart loaded")
}

func TestRequireAdmin_RejectsNonAdmin(t *testing.T) {
	handler := JWTAuth(testSecret, testLogger())(
		RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})),
	)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", nil)
	req.Header.Set("Authorization", bearerToken(t, "u1", "user"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}
