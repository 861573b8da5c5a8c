package domain

// Selection is the set of product IDs marked for checkout. It lives only in
// session state and must always be a subset of the cart's product IDs.
type Selection map[int64]struct{}

// NewSelection returns an empty selection.
func NewSelection() Selection {
	return make(Selection)
}

// SelectionOf builds a selection from the given product IDs.
func SelectionOf(ids ...int64) Selection {
	s := make(Selection, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains reports whether productID is selected.
func (s Selection) Contains(productID int64) bool {
	_, ok := s[productID]
	return ok
}

// Toggle flips productID's membership.
func (s Selection) Toggle(productID int64) {
	if s.Contains(productID) {
		delete(s, productID)
		return
	}
	s[productID] = struct{}{}
}

// Remove drops productID from the selection.
func (s Selection) Remove(productID int64) {
	delete(s, productID)
}

// IDs returns the selected product IDs in unspecified order.
func (s Selection) IDs() []int64 {
	ids := make([]int64, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	return ids
}

// Prune drops every selected ID that no longer has a cart line, restoring
// the subset invariant after a cart change.
func (s Selection) Prune(cart *Cart) {
	for id := range s {
		if cart.FindLine(id) < 0 {
			delete(s, id)
		}
	}
}

// ToggleAll implements select-all semantics: when every line is already
// selected the selection empties, otherwise it becomes the full line set.
func (s Selection) ToggleAll(cart *Cart) Selection {
	if len(s) == len(cart.Lines) && len(cart.Lines) > 0 {
		return NewSelection()
	}
	return SelectionOf(cart.ProductIDs()...)
}

// TotalForSelection sums price times quantity over the selected lines. The
// empty selection always totals 0.
func TotalForSelection(cart *Cart, sel Selection) int64 {
	var total int64
	for _, l := range cart.Lines {
		if sel.Contains(l.ProductID) {
			total += l.Subtotal()
		}
	}
	return total
}
