package proxy

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
)

// ShopProxy forwards catalog, search, order and history routes straight to
// the shop backend. The storefront adds nothing to these reads and writes,
// so they pass through untouched apart from the /api/v1 prefix strip.
type ShopProxy struct {
	proxy  *httputil.ReverseProxy
	logger *slog.Logger
}

// New creates a single-host reverse proxy to the backend base URL.
func New(backendURL string, logger *slog.Logger) (*ShopProxy, error) {
	target, err := url.Parse(backendURL)
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}

	sp := &ShopProxy{logger: logger}

	p := httputil.NewSingleHostReverseProxy(target)
	director := p.Director
	p.Director = func(r *http.Request) {
		director(r)
		// The backend serves /products, not /api/v1/products.
		r.URL.Path = strings.TrimPrefix(r.URL.Path, "/api/v1")
		r.Host = target.Host
	}
	p.ErrorHandler = sp.errorHandler
	sp.proxy = p

	logger.Info("registered shop backend proxy", slog.String("target", backendURL))
	return sp, nil
}

// ServeHTTP forwards the request to the backend.
func (sp *ShopProxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sp.proxy.ServeHTTP(w, r)
}

func (sp *ShopProxy) errorHandler(w http.ResponseWriter, r *http.Request, err error) {
	sp.logger.Error("proxy error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadGateway)
	_, _ = w.Write([]byte(`{"error":{"code":"BAD_GATEWAY","message":"shop backend unavailable"}}`))
}
