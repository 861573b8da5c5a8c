package http

import (
	"log/slog"
	"net/http"

	"github.com/phamkhoa1373/E-commerce/internal/cart"
	"github.com/phamkhoa1373/E-commerce/internal/domain"
	apperrors "github.com/phamkhoa1373/E-commerce/pkg/errors"
	"github.com/phamkhoa1373/E-commerce/pkg/httputil"
	"github.com/phamkhoa1373/E-commerce/pkg/validator"
)

// CheckoutHandler submits orders for the selected cart lines.
type CheckoutHandler struct {
	service *cart.Service
	logger  *slog.Logger
}

// NewCheckoutHandler creates a checkout HTTP handler.
func NewCheckoutHandler(svc *cart.Service, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: svc,
		logger:  logger,
	}
}

// CheckoutRequest is the body for POST /api/v1/checkout. The phone rule
// matches the shop's order form: digits only, 9 to 11 of them.
type CheckoutRequest struct {
	Name    string `json:"shipping_name" validate:"required,min=1,max=200"`
	Address string `json:"shipping_address" validate:"required,min=1,max=500"`
	Phone   string `json:"shipping_phone" validate:"required,numeric,min=9,max=11"`
}

// Checkout handles POST /api/v1/checkout.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req CheckoutRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	shipping := domain.ShippingInfo{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
	}

	result, err := h.service.Checkout(r.Context(), userID, shipping)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: result})
}
