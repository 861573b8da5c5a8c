package domain

// ProductSnapshot is the catalog projection attached to a cart line at fetch
// time. It can be stale relative to the backend's live stock.
type ProductSnapshot struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Image       string `json:"image"`
	Stock       int    `json:"stock"`
	Description string `json:"description"`
	CategoryID  int64  `json:"category_id,omitempty"`
	Status      bool   `json:"status"`
}

// CartLine is one product's presence in a user's cart. Quantity is at least
// 1 and at most Product.Stock; a line that would drop to 0 is removed
// instead.
type CartLine struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Product   ProductSnapshot `json:"product"`
}

// Cart is a user's snapshot of cart lines as last fetched from the backend.
type Cart struct {
	UserID string     `json:"user_id"`
	Lines  []CartLine `json:"lines"`
}

// FindLine returns the index of the line for productID, or -1.
func (c *Cart) FindLine(productID int64) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// MergeLine folds a quantity for a product into the cart, keeping the
// one-line-per-product invariant: an existing line's quantity grows, a new
// line is appended otherwise. The merged quantity is clamped to the
// snapshot's stock.
func (c *Cart) MergeLine(product ProductSnapshot, quantity int) {
	if quantity <= 0 {
		return
	}

	if i := c.FindLine(product.ID); i >= 0 {
		merged := c.Lines[i].Quantity + quantity
		if merged > c.Lines[i].Product.Stock {
			merged = c.Lines[i].Product.Stock
		}
		c.Lines[i].Quantity = merged
		return
	}

	if quantity > product.Stock {
		quantity = product.Stock
	}
	if quantity < 1 {
		return
	}
	c.Lines = append(c.Lines, CartLine{
		ID:        product.ID,
		ProductID: product.ID,
		Quantity:  quantity,
		Product:   product,
	})
}

// RemoveLine drops the line for productID. Reports whether a line was
// removed.
func (c *Cart) RemoveLine(productID int64) bool {
	i := c.FindLine(productID)
	if i < 0 {
		return false
	}
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	return true
}

// ItemCount is the summed quantity across lines (the header badge number).
func (c *Cart) ItemCount() int {
	var n int
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// ProductIDs returns the product IDs of all lines in cart order.
func (c *Cart) ProductIDs() []int64 {
	ids := make([]int64, len(c.Lines))
	for i, l := range c.Lines {
		ids[i] = l.ProductID
	}
	return ids
}

// CanIncrease reports whether one more unit fits within the snapshot stock.
func (l CartLine) CanIncrease() bool {
	return l.Quantity < l.Product.Stock
}

// CanDecrease reports whether the line can lose a unit and remain valid.
func (l CartLine) CanDecrease() bool {
	return l.Quantity > 1
}

// Subtotal is the line's snapshot price times quantity.
func (l CartLine) Subtotal() int64 {
	return l.Product.Price * int64(l.Quantity)
}
