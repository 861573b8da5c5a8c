package http

import (
	"log/slog"
	"net/http"

	"github.com/phamkhoa1373/E-commerce/internal/backend"
	"github.com/phamkhoa1373/E-commerce/internal/cart"
	"github.com/phamkhoa1373/E-commerce/pkg/httputil"
	"github.com/phamkhoa1373/E-commerce/pkg/validator"
)

// AuthHandler passes login and register through to the shop's auth
// endpoints. Sessions are issued by the backend; this service only relays
// them and tears down its own state.
type AuthHandler struct {
	api     backend.ShopAPI
	service *cart.Service
	logger  *slog.Logger
}

// NewAuthHandler creates an auth HTTP handler.
func NewAuthHandler(api backend.ShopAPI, svc *cart.Service, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		api:     api,
		service: svc,
		logger:  logger,
	}
}

// LoginRequest is the body for POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// RegisterRequest is the body for POST /api/v1/auth/register.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Username string `json:"username" validate:"required,min=1,max=100"`
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	result, err := h.api.Login(r.Context(), backend.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	result, err := h.api.Register(r.Context(), backend.Registration{
		Email:    req.Email,
		Password: req.Password,
		Username: req.Username,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: result})
}

// Logout handles POST /api/v1/auth/logout. The backend holds no session to
// revoke; the session cart state is dropped so the next login starts clean.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if err := h.service.Forget(r.Context(), userID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
