package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phamkhoa1373/E-commerce/internal/backend"
	"github.com/phamkhoa1373/E-commerce/internal/domain"
	"github.com/phamkhoa1373/E-commerce/internal/event"
	apperrors "github.com/phamkhoa1373/E-commerce/pkg/errors"
)

// CheckoutResult reports a submitted order.
type CheckoutResult struct {
	OrderID int64 `json:"order_id"`
	Total   int64 `json:"total"`
}

// Service orchestrates cart state between the session store and the shop
// backend. The backend is authoritative for cart contents; the store holds
// the last-fetched snapshot plus the checkout selection, which the backend
// never sees.
type Service struct {
	api      backend.ShopAPI
	store    Store
	producer *event.Producer
	strategy RefreshStrategy
	logger   *slog.Logger
}

// NewService creates a cart service.
func NewService(api backend.ShopAPI, store Store, producer *event.Producer, strategy RefreshStrategy, logger *slog.Logger) *Service {
	return &Service{
		api:      api,
		store:    store,
		producer: producer,
		strategy: strategy,
		logger:   logger,
	}
}

// Load refetches the cart from the backend and reconciles the session
// selection against it. When the backend is unreachable the last-known
// snapshot is served instead of an error; a user who cannot reach the shop
// still sees their cart page.
func (s *Service) Load(ctx context.Context, userID string) (*State, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}

	state, err := s.currentState(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.refresh(ctx, state); err != nil {
		s.logger.WarnContext(ctx, "cart refresh failed, serving last-known snapshot",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
	return state, nil
}

// Add merges a quantity of a product into the cart. The backend performs
// the actual merge; the configured strategy decides whether the local
// snapshot is patched in place or refetched.
func (s *Service) Add(ctx context.Context, userID string, productID int64, quantity int) (*State, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	if productID <= 0 {
		return nil, apperrors.InvalidInput("product id must be positive")
	}
	if quantity <= 0 {
		return nil, apperrors.InvalidInput("quantity must be greater than 0")
	}

	state, err := s.currentState(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.api.AddLine(ctx, userID, productID, quantity); err != nil {
		return nil, fmt.Errorf("add to cart: %w", err)
	}

	switch s.strategy {
	case StrategyOptimistic:
		if err := s.patchAdd(ctx, state, productID, quantity); err != nil {
			return nil, err
		}
	default:
		if err := s.refresh(ctx, state); err != nil {
			return nil, fmt.Errorf("reload after add: %w", err)
		}
	}

	s.publishUpdated(ctx, state)
	return state, nil
}

// Increase raises a line's quantity by one. When the snapshot says the line
// is already at stock the call is a no-op and no backend request is made.
func (s *Service) Increase(ctx context.Context, userID string, productID int64) (*State, error) {
	state, line, err := s.requireLine(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	if !line.CanIncrease() {
		return state, nil
	}

	if err := s.api.AddLine(ctx, userID, productID, 1); err != nil {
		return nil, fmt.Errorf("increase quantity: %w", err)
	}
	if err := s.refresh(ctx, state); err != nil {
		return nil, fmt.Errorf("reload after increase: %w", err)
	}

	s.publishUpdated(ctx, state)
	return state, nil
}

// Decrease lowers a line's quantity by one. The backend exposes no
// decrement, so this removes the line and re-adds it with quantity-1. The
// two requests are not atomic: when the re-add fails the line is gone from
// the backend, and the caller gets a conflict error alongside a refreshed
// snapshot that shows the loss. At quantity 1 the call is a no-op.
func (s *Service) Decrease(ctx context.Context, userID string, productID int64) (*State, error) {
	state, line, err := s.requireLine(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	if !line.CanDecrease() {
		return state, nil
	}

	if err := s.api.RemoveLine(ctx, userID, productID); err != nil {
		return nil, fmt.Errorf("decrease quantity: %w", err)
	}

	if err := s.api.AddLine(ctx, userID, productID, line.Quantity-1); err != nil {
		s.logger.ErrorContext(ctx, "decrease interrupted, line removed but not re-added",
			slog.String("user_id", userID),
			slog.Int64("product_id", productID),
			slog.String("error", err.Error()),
		)
		if rerr := s.refresh(ctx, state); rerr != nil {
			s.logger.WarnContext(ctx, "refresh after interrupted decrease failed",
				slog.String("user_id", userID),
				slog.String("error", rerr.Error()),
			)
		}
		return state, apperrors.Conflict("item was removed but could not be re-added with the lower quantity")
	}

	if err := s.refresh(ctx, state); err != nil {
		return nil, fmt.Errorf("reload after decrease: %w", err)
	}

	s.publishUpdated(ctx, state)
	return state, nil
}

// Remove deletes a line. The selection loses the product in the same
// update, so a removed line can never linger as a phantom selected item.
func (s *Service) Remove(ctx context.Context, userID string, productID int64) (*State, error) {
	state, _, err := s.requireLine(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	if err := s.api.RemoveLine(ctx, userID, productID); err != nil {
		return nil, fmt.Errorf("remove cart line: %w", err)
	}

	state.Cart.RemoveLine(productID)
	state.Selection.Remove(productID)

	if err := s.refresh(ctx, state); err != nil {
		s.logger.WarnContext(ctx, "refresh after remove failed, serving patched snapshot",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		if serr := s.store.Save(ctx, state); serr != nil {
			return nil, fmt.Errorf("save cart state: %w", serr)
		}
	}

	s.publishUpdated(ctx, state)
	return state, nil
}

// Clear empties the cart and the selection.
func (s *Service) Clear(ctx context.Context, userID string) (*State, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}

	if err := s.api.ClearCart(ctx, userID); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}

	state := NewState(userID)
	if err := s.store.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("save cart state: %w", err)
	}

	if err := s.producer.PublishCartCleared(ctx, userID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
	return state, nil
}

// ToggleSelect flips a line's checkout selection.
func (s *Service) ToggleSelect(ctx context.Context, userID string, productID int64) (*State, error) {
	state, _, err := s.requireLine(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	state.Selection.Toggle(productID)
	if err := s.store.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("save cart state: %w", err)
	}
	return state, nil
}

// SetSelection replaces the selection wholesale. Every ID must have a cart
// line.
func (s *Service) SetSelection(ctx context.Context, userID string, productIDs []int64) (*State, error) {
	state, err := s.currentState(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, id := range productIDs {
		if state.Cart.FindLine(id) < 0 {
			return nil, apperrors.InvalidInput(fmt.Sprintf("product %d is not in the cart", id))
		}
	}

	state.Selection = domain.SelectionOf(productIDs...)
	if err := s.store.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("save cart state: %w", err)
	}
	return state, nil
}

// SelectAll toggles the whole-cart selection: everything selected becomes
// nothing, anything else becomes everything.
func (s *Service) SelectAll(ctx context.Context, userID string) (*State, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}

	state, err := s.currentState(ctx, userID)
	if err != nil {
		return nil, err
	}

	state.Selection = state.Selection.ToggleAll(&state.Cart)
	if err := s.store.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("save cart state: %w", err)
	}
	return state, nil
}

// Checkout submits an order for the selected lines at their snapshot
// prices, then refetches the cart so the backend's post-order view wins.
func (s *Service) Checkout(ctx context.Context, userID string, shipping domain.ShippingInfo) (*CheckoutResult, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}

	state, err := s.currentState(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(state.Selection) == 0 {
		return nil, apperrors.InvalidInput("no items selected for checkout")
	}

	draft := domain.BuildOrderDraft(&state.Cart, state.Selection, shipping)
	if len(draft.Items) == 0 {
		return nil, apperrors.InvalidInput("selected items are no longer in the cart")
	}

	orderID, err := s.api.SubmitOrder(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("submit order: %w", err)
	}

	result := &CheckoutResult{OrderID: orderID, Total: draft.Total()}

	if err := s.producer.PublishOrderPlaced(ctx, orderID, draft); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.placed event",
			slog.Int64("order_id", orderID),
			slog.String("error", err.Error()),
		)
	}

	state.Selection = domain.NewSelection()
	if err := s.refresh(ctx, state); err != nil {
		s.logger.WarnContext(ctx, "cart refresh after checkout failed, serving patched snapshot",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		// The cleared selection must survive even without the refetch, or a
		// repeat checkout would resubmit the same draft.
		for _, it := range draft.Items {
			state.Cart.RemoveLine(it.ProductID)
		}
		if serr := s.store.Save(ctx, state); serr != nil {
			s.logger.ErrorContext(ctx, "save cart state after checkout failed",
				slog.String("user_id", userID),
				slog.String("error", serr.Error()),
			)
		}
	}

	return result, nil
}

// Forget drops the session state, typically on logout.
func (s *Service) Forget(ctx context.Context, userID string) error {
	if err := s.store.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete cart state: %w", err)
	}
	return nil
}

// currentState loads the stored session state, or starts an empty one.
func (s *Service) currentState(ctx context.Context, userID string) (*State, error) {
	state, err := s.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return NewState(userID), nil
		}
		return nil, fmt.Errorf("get cart state: %w", err)
	}
	return state, nil
}

// requireLine loads state and resolves the line for productID, refreshing
// once from the backend when the stored snapshot does not have it.
func (s *Service) requireLine(ctx context.Context, userID string, productID int64) (*State, domain.CartLine, error) {
	if userID == "" {
		return nil, domain.CartLine{}, apperrors.InvalidInput("user id is required")
	}
	if productID <= 0 {
		return nil, domain.CartLine{}, apperrors.InvalidInput("product id must be positive")
	}

	state, err := s.currentState(ctx, userID)
	if err != nil {
		return nil, domain.CartLine{}, err
	}

	i := state.Cart.FindLine(productID)
	if i < 0 {
		if err := s.refresh(ctx, state); err != nil {
			return nil, domain.CartLine{}, fmt.Errorf("reload cart: %w", err)
		}
		i = state.Cart.FindLine(productID)
	}
	if i < 0 {
		return nil, domain.CartLine{}, apperrors.NotFound("cart line", fmt.Sprintf("%d", productID))
	}

	return state, state.Cart.Lines[i], nil
}

// refresh replaces the snapshot with the backend's cart, prunes the
// selection to the surviving lines, and persists the result.
func (s *Service) refresh(ctx context.Context, state *State) error {
	lines, err := s.api.FetchCart(ctx, state.Cart.UserID)
	if err != nil {
		return fmt.Errorf("fetch cart: %w", err)
	}

	state.Cart.Lines = lines
	state.Selection.Prune(&state.Cart)

	if err := s.store.Save(ctx, state); err != nil {
		return fmt.Errorf("save cart state: %w", err)
	}
	return nil
}

// patchAdd applies an optimistic local merge after a successful backend
// add, fetching the product snapshot only when the line is new.
func (s *Service) patchAdd(ctx context.Context, state *State, productID int64, quantity int) error {
	if i := state.Cart.FindLine(productID); i >= 0 {
		state.Cart.MergeLine(state.Cart.Lines[i].Product, quantity)
	} else {
		product, err := s.api.GetProduct(ctx, productID)
		if err != nil {
			return fmt.Errorf("fetch product for merge: %w", err)
		}
		state.Cart.MergeLine(product, quantity)
	}

	if err := s.store.Save(ctx, state); err != nil {
		return fmt.Errorf("save cart state: %w", err)
	}
	return nil
}

// publishUpdated emits cart.updated, logging instead of failing the
// operation when the broker is down.
func (s *Service) publishUpdated(ctx context.Context, state *State) {
	if err := s.producer.PublishCartUpdated(ctx, &state.Cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("user_id", state.Cart.UserID),
			slog.String("error", err.Error()),
		)
	}
}
