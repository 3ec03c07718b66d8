package services

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"storefront/internal/cart"
	"storefront/internal/domain"
	"storefront/internal/metrics"
	"storefront/internal/store"
)

// CartService keeps the cart state in memory and mirrors it to the store
// after every dispatched action.
type CartService struct {
	Store store.Store

	mu    sync.Mutex
	state cart.State
}

// NewCartService loads the persisted cart. A missing or unreadable value starts
// an empty cart.
func NewCartService(ctx context.Context, st store.Store) (*CartService, error) {
	items, err := store.ReadCollection[domain.CartItem](ctx, st, domain.CartKey)
	if err != nil {
		return nil, err
	}
	return &CartService{Store: st, state: cart.State{Items: items}}, nil
}

// Dispatch applies a and persists the resulting state. The in-memory state
// moves even if the write fails. Every write stores the whole state, so the
// next successful Dispatch or Persist catches the store up.
func (s *CartService) Dispatch(ctx context.Context, a cart.Action) (cart.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatchLocked(ctx, a)
}

func (s *CartService) dispatchLocked(ctx context.Context, a cart.Action) (cart.State, error) {
	s.state = cart.Reduce(s.state, a)
	metrics.ObserveCart(a.Name(), len(s.state.Items))
	if err := s.persistLocked(ctx); err != nil {
		return s.state.Clone(), err
	}
	return s.state.Clone(), nil
}

// Persist writes the whole current state under the cart key. Writing the same
// state again stores the same value.
func (s *CartService) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked(ctx)
}

func (s *CartService) persistLocked(ctx context.Context) error {
	return store.WriteCollection(ctx, s.Store, domain.CartKey, s.state.Items)
}

func (s *CartService) State() cart.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *CartService) Add(ctx context.Context, p domain.Product, qty int) (cart.State, error) {
	return s.Dispatch(ctx, cart.Add{Product: p, Qty: qty})
}

func (s *CartService) Remove(ctx context.Context, productID string) (cart.State, error) {
	return s.Dispatch(ctx, cart.Remove{ProductID: productID})
}

func (s *CartService) Clear(ctx context.Context) (cart.State, error) {
	return s.Dispatch(ctx, cart.Clear{})
}

type CheckoutSummary struct {
	Count    int             `json:"count"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Lines    int             `json:"lines"`
}

// Checkout summarizes the cart and empties it in one step, so nothing added
// concurrently is cleared without being counted. There is no payment step.
// An empty cart is ErrEmptyCart.
func (s *CartService) Checkout(ctx context.Context) (CheckoutSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.state.Items) == 0 {
		return CheckoutSummary{}, ErrEmptyCart
	}
	sum := CheckoutSummary{Count: s.state.Count(), Subtotal: s.state.Subtotal(), Lines: len(s.state.Items)}
	if _, err := s.dispatchLocked(ctx, cart.Clear{}); err != nil {
		return CheckoutSummary{}, err
	}
	return sum, nil
}
