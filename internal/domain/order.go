package domain

// OrderItem is one line of an order draft, priced from the cart snapshot.
type OrderItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
	Price     int64 `json:"price"`
}

// ShippingInfo is the checkout form payload.
type ShippingInfo struct {
	Name    string `json:"shipping_name"`
	Address string `json:"shipping_address"`
	Phone   string `json:"shipping_phone"`
}

// OrderDraft is the checkout submission built from the selected cart lines.
// Prices are frozen at cart-view time and are not re-verified against the
// backend before submission.
type OrderDraft struct {
	UserID   string      `json:"user_id"`
	Shipping ShippingInfo `json:"shipping"`
	Items    []OrderItem `json:"items"`
}

// BuildOrderDraft assembles a draft from the selected lines of the cart.
// Unselected lines are excluded; a selected ID without a line contributes
// nothing (the selection should already be pruned).
func BuildOrderDraft(cart *Cart, sel Selection, shipping ShippingInfo) OrderDraft {
	items := make([]OrderItem, 0, len(sel))
	for _, l := range cart.Lines {
		if !sel.Contains(l.ProductID) {
			continue
		}
		items = append(items, OrderItem{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Price:     l.Product.Price,
		})
	}

	return OrderDraft{
		UserID:   cart.UserID,
		Shipping: shipping,
		Items:    items,
	}
}

// Total sums quantity times frozen price over the draft items.
func (d OrderDraft) Total() int64 {
	var total int64
	for _, it := range d.Items {
		total += it.Price * int64(it.Quantity)
	}
	return total
}
