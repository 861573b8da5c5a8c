package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phamkhoa1373/E-commerce/internal/backend"
	"github.com/phamkhoa1373/E-commerce/internal/cart"
	"github.com/phamkhoa1373/E-commerce/internal/config"
	"github.com/phamkhoa1373/E-commerce/internal/domain"
	"github.com/phamkhoa1373/E-commerce/internal/event"
	"github.com/phamkhoa1373/E-commerce/internal/proxy"
	apperrors "github.com/phamkhoa1373/E-commerce/pkg/errors"
	"github.com/phamkhoa1373/E-commerce/pkg/health"
	pkgkafka "github.com/phamkhoa1373/E-commerce/pkg/kafka"
)

const testSecret = "test-secret"

// fakeShopAPI is a function-field stub so each test wires only the calls it
// expects.
type fakeShopAPI struct {
	fetchCart   func(ctx context.Context, userID string) ([]domain.CartLine, error)
	addLine     func(ctx context.Context, userID string, productID int64, quantity int) error
	removeLine  func(ctx context.Context, userID string, productID int64) error
	clearCart   func(ctx context.Context, userID string) error
	getProduct  func(ctx context.Context, productID int64) (domain.ProductSnapshot, error)
	submitOrder func(ctx context.Context, draft domain.OrderDraft) (int64, error)
	login       func(ctx context.Context, creds backend.Credentials) (backend.LoginResult, error)
	register    func(ctx context.Context, reg backend.Registration) (backend.RegisterResult, error)
}

func (f *fakeShopAPI) FetchCart(ctx context.Context, userID string) ([]domain.CartLine, error) {
	if f.fetchCart == nil {
		return []domain.CartLine{}, nil
	}
	return f.fetchCart(ctx, userID)
}

func (f *fakeShopAPI) AddLine(ctx context.Context, userID string, productID int64, quantity int) error {
	if f.addLine == nil {
		return nil
	}
	return f.addLine(ctx, userID, productID, quantity)
}

func (f *fakeShopAPI) RemoveLine(ctx context.Context, userID string, productID int64) error {
	if f.removeLine == nil {
		return nil
	}
	return f.removeLine(ctx, userID, productID)
}

func (f *fakeShopAPI) ClearCart(ctx context.Context, userID string) error {
	if f.clearCart == nil {
		return nil
	}
	return f.clearCart(ctx, userID)
}

func (f *fakeShopAPI) GetProduct(ctx context.Context, productID int64) (domain.ProductSnapshot, error) {
	if f.getProduct == nil {
		return domain.ProductSnapshot{}, apperrors.NotFound("product", "0")
	}
	return f.getProduct(ctx, productID)
}

func (f *fakeShopAPI) SubmitOrder(ctx context.Context, draft domain.OrderDraft) (int64, error) {
	if f.submitOrder == nil {
		return 0, apperrors.Unavailable("not wired")
	}
	return f.submitOrder(ctx, draft)
}

func (f *fakeShopAPI) Login(ctx context.Context, creds backend.Credentials) (backend.LoginResult, error) {
	if f.login == nil {
		return backend.LoginResult{}, apperrors.Unauthorized("invalid credentials")
	}
	return f.login(ctx, creds)
}

func (f *fakeShopAPI) Register(ctx context.Context, reg backend.Registration) (backend.RegisterResult, error) {
	if f.register == nil {
		return backend.RegisterResult{}, apperrors.Unavailable("not wired")
	}
	return f.register(ctx, reg)
}

// --- Test helpers ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

type routerFixture struct {
	router http.Handler
	store  cart.Store
	api    *fakeShopAPI
}

func newRouterFixture(t *testing.T, backendURL string) *routerFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := cart.NewRedisStore(client, time.Hour)

	logger := testLogger()
	kafkaProducer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig([]string{"localhost:19092"}), logger)
	producer := event.NewProducer(kafkaProducer, logger)

	api := &fakeShopAPI{}
	svc := cart.NewService(api, store, producer, cart.StrategyAuthoritative, logger)

	if backendURL == "" {
		backendURL = "http://localhost:1"
	}
	shopProxy, err := proxy.New(backendURL, logger)
	require.NoError(t, err)

	cfg := &config.Config{
		Environment:        "development",
		JWTSecret:          testSecret,
		RateLimitRPS:       1000,
		RateLimitBurst:     1000,
		CORSAllowedOrigins: []string{"*"},
	}

	router := NewRouter(cfg, svc, api, shopProxy, health.NewHandler(), logger)
	return &routerFixture{router: router, store: store, api: api}
}

func bearerToken(t *testing.T, userID, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func seedCart(t *testing.T, store cart.Store, userID string, lines []domain.CartLine, selected ...int64) {
	t.Helper()
	state := cart.NewState(userID)
	state.Cart.Lines = lines
	state.Selection = domain.SelectionOf(selected...)
	require.NoError(t, store.Save(context.Background(), state))
}

func stubLine(productID int64, qty, stock int, price int64) domain.CartLine {
	return domain.CartLine{
		ID:        productID,
		ProductID: productID,
		Quantity:  qty,
		Product:   domain.ProductSnapshot{ID: productID, Name: "Product", Price: price, Stock: stock, Status: true},
	}
}

// --- Auth gating ---

func TestGetCart_RequiresToken(t *testing.T) {
	fix := newRouterFixture(t, "")

	rr := doJSON(t, fix.router, http.MethodGet, "/api/v1/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "UNAUTHORIZED")
}

func TestGetCart_RejectsBadToken(t *testing.T) {
	fix := newRouterFixture(t, "")

	rr := doJSON(t, fix.router, http.MethodGet, "/api/v1/cart", "Bearer not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

// --- Cart endpoints ---

func TestGetCart_ReturnsView(t *testing.T) {
	fix := newRouterFixture(t, "")
	fix.api.fetchCart = func(_ context.Context, _ string) ([]domain.CartLine, error) {
		return []domain.CartLine{stubLine(1, 2, 2, 150)}, nil
	}

	rr := doJSON(t, fix.router, http.MethodGet, "/api/v1/cart", bearerToken(t, "u1", "user"), nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Data cart.View `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Lines, 1)
	assert.Equal(t, 2, resp.Data.ItemCount)
	assert.False(t, resp.Data.Lines[0].CanIncrease)
	assert.True(t, resp.Data.Lines[0].CanDecrease)
}

func TestAddItem_ValidationFailure(t *testing.T) {
	fix := newRouterFixture(t, "")

	rr := doJSON(t, fix.router, http.MethodPost, "/api/v1/cart/items",
		bearerToken(t, "u1", "user"), map[string]any{"product_id": 1})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "quantity")
}

func TestAddItem_Succeeds(t *testing.T) {
	fix := newRouterFixture(t, "")

	var gotQty int
	fix.api.addLine = func(_ context.Context, _ string, _ int64, qty int) error {
		gotQty = qty
		return nil
	}
	fix.api.fetchCart = func(_ context.Context, _ string) ([]domain.CartLine, error) {
		return []domain.CartLine{stubLine(5, 3, 10, 99)}, nil
	}

	rr := doJSON(t, fix.router, http.MethodPost, "/api/v1/cart/items",
		bearerToken(t, "u1", "user"), map[string]any{"product_id": 5, "quantity": 3})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 3, gotQty)
}

func TestIncrease_NoBackendCallAtStockLimit(t *testing.T) {
	fix := newRouterFixture(t, "")
	seedCart(t, fix.store, "u1", []domain.CartLine{stubLine(5, 4, 4, 99)})

	called := false
	fix.api.addLine = func(_ context.Context, _ string, _ int64, _ int) error {
		called = true
		return nil
	}

	rr := doJSON(t, fix.router, http.MethodPost, "/api/v1/cart/items/5/increase",
		bearerToken(t, "u1", "user"), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, called)
}

func TestRemoveItem_PrunesSelection(t *testing.T) {
	fix := newRouterFixture(t, "")
	seedCart(t, fix.store, "u1",
		[]domain.CartLine{stubLine(1, 1, 5, 100), stubLine(2, 1, 5, 100)}, 1, 2)
	fix.api.fetchCart = func(_ context.Context, _ string) ([]domain.CartLine, error) {
		return []domain.CartLine{stubLine(1, 1, 5, 100)}, nil
	}

	rr := doJSON(t, fix.router, http.MethodDelete, "/api/v1/cart/items/2",
		bearerToken(t, "u1", "user"), nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Data cart.View `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Data.SelectedCount)
}

func TestReplaceSelection_RejectsUnknownProduct(t *testing.T) {
	fix := newRouterFixture(t, "")
	seedCart(t, fix.store, "u1", []domain.CartLine{stubLine(1, 1, 5, 100)})

	rr := doJSON(t, fix.router, http.MethodPut, "/api/v1/cart/selection",
		bearerToken(t, "u1", "user"), map[string]any{"product_ids": []int64{42}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSelectAll_Toggles(t *testing.T) {
	fix := newRouterFixture(t, "")
	seedCart(t, fix.store, "u1",
		[]domain.CartLine{stubLine(1, 1, 5, 100), stubLine(2, 1, 5, 200)})

	token := bearerToken(t, "u1", "user")

	rr := doJSON(t, fix.router, http.MethodPost, "/api/v1/cart/selection/all", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Data cart.View `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Data.AllSelected)
	assert.Equal(t, int64(300), resp.Data.SelectedTotal)
}

// --- Checkout ---

func TestCheckout_PhoneValidation(t *testing.T) {
	fix := newRouterFixture(t, "")

	rr := doJSON(t, fix.router, http.MethodPost, "/api/v1/checkout",
		bearerToken(t, "u1", "user"), map[string]any{
			"shipping_name":    "A",
			"shipping_address": "B",
			"shipping_phone":   "abc123",
		})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "shipping_phone")
}

func TestCheckout_SubmitsOrder(t *testing.T) {
	fix := newRouterFixture(t, "")
	seedCart(t, fix.store, "u1", []domain.CartLine{stubLine(1, 2, 5, 100)}, 1)

	fix.api.submitOrder = func(_ context.Context, draft domain.OrderDraft) (int64, error) {
		return 777, nil
	}
	fix.api.fetchCart = func(_ context.Context, _ string) ([]domain.CartLine, error) {
		return []domain.CartLine{}, nil
	}

	rr := doJSON(t, fix.router, http.MethodPost, "/api/v1/checkout",
		bearerToken(t, "u1", "user"), map[string]any{
			"shipping_name":    "Khoa",
			"shipping_address": "HCMC",
			"shipping_phone":   "0901234567",
		})
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp struct {
		Data cart.CheckoutResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, int64(777), resp.Data.OrderID)
	assert.Equal(t, int64(200), resp.Data.Total)
}

// --- Auth passthrough ---

func TestLogin_Passthrough(t *testing.T) {
	fix := newRouterFixture(t, "")
	fix.api.login = func(_ context.Context, creds backend.Credentials) (backend.LoginResult, error) {
		assert.Equal(t, "a@b.com", creds.Email)
		return backend.LoginResult{
			Session: backend.AuthSession{AccessToken: "tok"},
			User:    backend.AuthUser{ID: "u1", Email: creds.Email, Role: "user"},
		}, nil
	}

	rr := doJSON(t, fix.router, http.MethodPost, "/api/v1/auth/login", "",
		map[string]any{"email": "a@b.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"access_token":"tok"`)
}

func TestLogin_RejectsMalformedEmail(t *testing.T) {
	fix := newRouterFixture(t, "")

	rr := doJSON(t, fix.router, http.MethodPost, "/api/v1/auth/login", "",
		map[string]any{"email": "nope", "password": "secret1"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// --- Proxied catalog routes ---

func TestProducts_PublicReadProxied(t *testing.T) {
	var gotPath string
	shop := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer shop.Close()

	fix := newRouterFixture(t, shop.URL)

	rr := doJSON(t, fix.router, http.MethodGet, "/api/v1/products", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "/products", gotPath)
}

func TestProducts_WriteRequiresAdmin(t *testing.T) {
	fix := newRouterFixture(t, "")

	rr := doJSON(t, fix.router, http.MethodPost, "/api/v1/products",
		bearerToken(t, "u1", "user"), map[string]any{"name": "X"})
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestProducts_AdminWriteProxied(t *testing.T) {
	var gotMethod, gotPath string
	shop := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusCreated)
	}))
	defer shop.Close()

	fix := newRouterFixture(t, shop.URL)

	rr := doJSON(t, fix.router, http.MethodPost, "/api/v1/products",
		bearerToken(t, "admin-1", "admin"), map[string]any{"name": "X"})
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/products", gotPath)
}

func TestOrders_RequireToken(t *testing.T) {
	fix := newRouterFixture(t, "")

	rr := doJSON(t, fix.router, http.MethodGet, "/api/v1/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
