package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/phamkhoa1373/E-commerce/internal/cart"
	apperrors "github.com/phamkhoa1373/E-commerce/pkg/errors"
	"github.com/phamkhoa1373/E-commerce/pkg/httputil"
	"github.com/phamkhoa1373/E-commerce/pkg/validator"
)

// CartHandler exposes the cart and selection endpoints.
type CartHandler struct {
	service *cart.Service
	logger  *slog.Logger
}

// NewCartHandler creates a cart HTTP handler.
func NewCartHandler(svc *cart.Service, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service: svc,
		logger:  logger,
	}
}

// AddItemRequest is the body for POST /api/v1/cart/items.
type AddItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gte=1"`
}

// SelectionRequest is the body for PUT /api/v1/cart/selection.
type SelectionRequest struct {
	ProductIDs []int64 `json:"product_ids"`
}

// GetCart handles GET /api/v1/cart.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.ErrUnauthorized, h.logger)
		return
	}

	state, err := h.service.Load(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart.NewView(state)})
}

// AddItem handles POST /api/v1/cart/items.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req AddItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	state, err := h.service.Add(r.Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart.NewView(state)})
}

// IncreaseItem handles POST /api/v1/cart/items/{productID}/increase.
func (h *CartHandler) IncreaseItem(w http.ResponseWriter, r *http.Request) {
	h.lineOp(w, r, h.service.Increase)
}

// DecreaseItem handles POST /api/v1/cart/items/{productID}/decrease.
func (h *CartHandler) DecreaseItem(w http.ResponseWriter, r *http.Request) {
	h.lineOp(w, r, h.service.Decrease)
}

// RemoveItem handles DELETE /api/v1/cart/items/{productID}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.lineOp(w, r, h.service.Remove)
}

// ToggleSelection handles POST /api/v1/cart/selection/{productID}.
func (h *CartHandler) ToggleSelection(w http.ResponseWriter, r *http.Request) {
	h.lineOp(w, r, h.service.ToggleSelect)
}

// ReplaceSelection handles PUT /api/v1/cart/selection.
func (h *CartHandler) ReplaceSelection(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req SelectionRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	state, err := h.service.SetSelection(r.Context(), userID, req.ProductIDs)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart.NewView(state)})
}

// SelectAll handles POST /api/v1/cart/selection/all.
func (h *CartHandler) SelectAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.ErrUnauthorized, h.logger)
		return
	}

	state, err := h.service.SelectAll(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart.NewView(state)})
}

// ClearCart handles DELETE /api/v1/cart.
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.ErrUnauthorized, h.logger)
		return
	}

	state, err := h.service.Clear(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart.NewView(state)})
}

// lineOp factors the shared shape of the per-line endpoints: resolve user
// and product id from the request, apply the operation, render the view.
func (h *CartHandler) lineOp(w http.ResponseWriter, r *http.Request, op func(context.Context, string, int64) (*cart.State, error)) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.ErrUnauthorized, h.logger)
		return
	}

	productID, ok := httputil.ParseID(w, chi.URLParam(r, "productID"))
	if !ok {
		return
	}

	state, err := op(r.Context(), userID, productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart.NewView(state)})
}
