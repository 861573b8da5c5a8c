package cart

import (
	"github.com/phamkhoa1373/E-commerce/internal/domain"
)

// LineView is one cart line as rendered to the client, with the quantity
// stepper affordances precomputed from the snapshot.
type LineView struct {
	ProductID   int64  `json:"product_id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	Price       int64  `json:"price"`
	Stock       int    `json:"stock"`
	Quantity    int    `json:"quantity"`
	Subtotal    int64  `json:"subtotal"`
	Selected    bool   `json:"selected"`
	CanIncrease bool   `json:"can_increase"`
	CanDecrease bool   `json:"can_decrease"`
}

// View is the cart page payload: lines plus the selection summary.
type View struct {
	UserID        string     `json:"user_id"`
	Lines         []LineView `json:"lines"`
	ItemCount     int        `json:"item_count"`
	SelectedCount int        `json:"selected_count"`
	SelectedTotal int64      `json:"selected_total"`
	AllSelected   bool       `json:"all_selected"`
}

// NewView projects session state into the client payload.
func NewView(state *State) View {
	lines := make([]LineView, len(state.Cart.Lines))
	for i, l := range state.Cart.Lines {
		lines[i] = LineView{
			ProductID:   l.ProductID,
			Name:        l.Product.Name,
			Image:       l.Product.Image,
			Price:       l.Product.Price,
			Stock:       l.Product.Stock,
			Quantity:    l.Quantity,
			Subtotal:    l.Subtotal(),
			Selected:    state.Selection.Contains(l.ProductID),
			CanIncrease: l.CanIncrease(),
			CanDecrease: l.CanDecrease(),
		}
	}

	return View{
		UserID:        state.Cart.UserID,
		Lines:         lines,
		ItemCount:     state.Cart.ItemCount(),
		SelectedCount: len(state.Selection),
		SelectedTotal: domain.TotalForSelection(&state.Cart, state.Selection),
		AllSelected:   len(state.Selection) == len(state.Cart.Lines) && len(state.Cart.Lines) > 0,
	}
}
