package cart

import (
	"context"

	"github.com/phamkhoa1373/E-commerce/internal/domain"
)

// State is one user's session cart state: the last-fetched snapshot plus the
// checkout selection. The selection is UI state only and is never sent to
// the backend as such.
type State struct {
	Cart      domain.Cart
	Selection domain.Selection
}

// NewState returns the empty state for a user.
func NewState(userID string) *State {
	return &State{
		Cart:      domain.Cart{UserID: userID, Lines: []domain.CartLine{}},
		Selection: domain.NewSelection(),
	}
}

// Store persists session cart state per user. It is an explicit dependency
// of the service; nothing in this package holds package-level state.
type Store interface {
	// Get retrieves the state for a user. Returns apperrors.ErrNotFound
	// when no state exists.
	Get(ctx context.Context, userID string) (*State, error)

	// Save overwrites the state for the user named in state.Cart.UserID.
	Save(ctx context.Context, state *State) error

	// Delete removes the user's state (logout teardown).
	Delete(ctx context.Context, userID string) error
}
