package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/phamkhoa1373/E-commerce/internal/domain"
	"github.com/phamkhoa1373/E-commerce/pkg/httpclient"
)

const upstreamName = "shop-api"

// ShopAPI is the set of backend operations the storefront orchestrates.
// The backend is authoritative for all of them; the client owns no state.
type ShopAPI interface {
	FetchCart(ctx context.Context, userID string) ([]domain.CartLine, error)
	AddLine(ctx context.Context, userID string, productID int64, quantity int) error
	RemoveLine(ctx context.Context, userID string, productID int64) error
	ClearCart(ctx context.Context, userID string) error
	GetProduct(ctx context.Context, productID int64) (domain.ProductSnapshot, error)
	SubmitOrder(ctx context.Context, draft domain.OrderDraft) (int64, error)
	Login(ctx context.Context, creds Credentials) (LoginResult, error)
	Register(ctx context.Context, reg Registration) (RegisterResult, error)
}

// Client implements ShopAPI over HTTP with retries and a circuit breaker.
type Client struct {
	baseURL string
	http    *httpclient.BreakerClient
	logger  *slog.Logger
}

// NewClient creates a ShopAPI client for the given base URL.
func NewClient(baseURL string, http *httpclient.BreakerClient, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    http,
		logger:  logger,
	}
}

// FetchCart retrieves every cart line for the user.
func (c *Client) FetchCart(ctx context.Context, userID string) ([]domain.CartLine, error) {
	url := fmt.Sprintf("%s/cart/%s", c.baseURL, userID)

	resp, err := c.http.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch cart: %w", err)
	}

	var items []cartItemPayload
	if err := decodeResponse(resp, &items); err != nil {
		return nil, fmt.Errorf("fetch cart: %w", err)
	}

	lines := make([]domain.CartLine, len(items))
	for i, it := range items {
		lines[i] = it.toLine()
	}
	return lines, nil
}

// AddLine merges a quantity into the user's cart line for the product. The
// backend owns the merge; callers refetch or patch locally afterward.
func (c *Client) AddLine(ctx context.Context, userID string, productID int64, quantity int) error {
	body := addToCartRequest{UserID: userID, ProductID: productID, Quantity: quantity}

	resp, err := c.postJSON(ctx, c.baseURL+"/cart/add", body)
	if err != nil {
		return fmt.Errorf("add cart line: %w", err)
	}
	return drainResponse(resp)
}

// RemoveLine deletes the user's cart line for the product.
func (c *Client) RemoveLine(ctx context.Context, userID string, productID int64) error {
	url := fmt.Sprintf("%s/cart/%s/%d", c.baseURL, userID, productID)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("create remove request: %w", err)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("remove cart line: %w", err)
	}
	return drainResponse(resp)
}

// ClearCart deletes every line for the user.
func (c *Client) ClearCart(ctx context.Context, userID string) error {
	url := fmt.Sprintf("%s/cart/clear/%s", c.baseURL, userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("create clear request: %w", err)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return drainResponse(resp)
}

// GetProduct fetches a single product (the detail-page view used to build
// optimistic lines).
func (c *Client) GetProduct(ctx context.Context, productID int64) (domain.ProductSnapshot, error) {
	url := c.baseURL + "/products/" + strconv.FormatInt(productID, 10)

	resp, err := c.http.Get(ctx, url)
	if err != nil {
		return domain.ProductSnapshot{}, fmt.Errorf("get product: %w", err)
	}

	var p productPayload
	if err := decodeResponse(resp, &p); err != nil {
		return domain.ProductSnapshot{}, fmt.Errorf("get product: %w", err)
	}
	return p.toSnapshot(), nil
}

// SubmitOrder posts the order draft and returns the created order ID.
func (c *Client) SubmitOrder(ctx context.Context, draft domain.OrderDraft) (int64, error) {
	body := createOrderRequest{
		UserID:          draft.UserID,
		ShippingName:    draft.Shipping.Name,
		ShippingAddress: draft.Shipping.Address,
		ShippingPhone:   draft.Shipping.Phone,
		Items:           draft.Items,
	}

	resp, err := c.postJSON(ctx, c.baseURL+"/checkout", body)
	if err != nil {
		return 0, fmt.Errorf("submit order: %w", err)
	}

	var result createOrderResponse
	if err := decodeResponse(resp, &result); err != nil {
		return 0, fmt.Errorf("submit order: %w", err)
	}
	return result.OrderID, nil
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, creds Credentials) (LoginResult, error) {
	resp, err := c.postJSON(ctx, c.baseURL+"/auth/login", creds)
	if err != nil {
		return LoginResult{}, fmt.Errorf("login: %w", err)
	}

	var result LoginResult
	if err := decodeResponse(resp, &result); err != nil {
		return LoginResult{}, fmt.Errorf("login: %w", err)
	}
	return result, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, reg Registration) (RegisterResult, error) {
	resp, err := c.postJSON(ctx, c.baseURL+"/auth/register", reg)
	if err != nil {
		return RegisterResult{}, fmt.Errorf("register: %w", err)
	}

	var result RegisterResult
	if err := decodeResponse(resp, &result); err != nil {
		return RegisterResult{}, fmt.Errorf("register: %w", err)
	}
	return result, nil
}

func (c *Client) postJSON(ctx context.Context, url string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create POST request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.http.Do(ctx, req)
}

// decodeResponse checks the status, maps error bodies, and decodes a 2xx
// body into target. The body is always closed.
func decodeResponse(resp *http.Response, target any) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return httpclient.ParseResponseError(resp, upstreamName)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode %s response: %w", upstreamName, err)
	}
	return nil
}

// drainResponse checks the status of a response whose body carries nothing
// the caller needs. The body is consumed before closing so the underlying
// connection stays reusable.
func drainResponse(resp *http.Response) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return httpclient.ParseResponseError(resp, upstreamName)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}
