package backend

import "github.com/phamkhoa1373/E-commerce/internal/domain"

// productPayload mirrors the backend's product representation.
type productPayload struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	CategoryID  int64  `json:"categoryId,omitempty"`
	Image       string `json:"image"`
	Description string `json:"description"`
	Stock       int    `json:"stock"`
	Status      bool   `json:"status"`
}

// cartItemPayload mirrors one row of GET /cart/{userId}. The joined product
// arrives under the "products" key.
type cartItemPayload struct {
	ID        int64          `json:"id"`
	ProductID int64          `json:"product_id"`
	Quantity  int            `json:"quantity"`
	Products  productPayload `json:"products"`
}

// addToCartRequest is the body of POST /cart/add. The backend merges the
// quantity into any existing line for the same product.
type addToCartRequest struct {
	UserID    string `json:"user_id"`
	ProductID int64  `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// createOrderRequest is the body of POST /checkout.
type createOrderRequest struct {
	UserID          string             `json:"user_id"`
	ShippingName    string             `json:"shipping_name"`
	ShippingAddress string             `json:"shipping_address"`
	ShippingPhone   string             `json:"shipping_phone"`
	Items           []domain.OrderItem `json:"items"`
}

// createOrderResponse is the backend's checkout acknowledgement.
type createOrderResponse struct {
	Message string `json:"message"`
	OrderID int64  `json:"order_id"`
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the register request body.
type Registration struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

// AuthSession is the token issued by the backend's auth provider.
type AuthSession struct {
	AccessToken string `json:"access_token"`
}

// AuthUser identifies the authenticated user.
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LoginResult is the response of POST /auth/login.
type LoginResult struct {
	Session AuthSession `json:"session"`
	User    AuthUser    `json:"user"`
}

// RegisterResult is the response of POST /auth/register.
type RegisterResult struct {
	Message string `json:"message,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

func (p productPayload) toSnapshot() domain.ProductSnapshot {
	return domain.ProductSnapshot{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Image:       p.Image,
		Stock:       p.Stock,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		Status:      p.Status,
	}
}

func (c cartItemPayload) toLine() domain.CartLine {
	return domain.CartLine{
		ID:        c.ID,
		ProductID: c.ProductID,
		Quantity:  c.Quantity,
		Product:   c.Products.toSnapshot(),
	}
}
