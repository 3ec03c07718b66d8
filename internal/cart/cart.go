// Package cart holds the shopping cart state and the reducer that moves it
// between states. Nothing here touches storage; see services.CartService.
package cart

import (
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

type State struct {
	Items []domain.CartItem `json:"items"`
}

// Action is one of Add, Remove or Clear.
type Action interface {
	isAction()
	Name() string
}

// Add puts a product in the cart. A product already present gets its
// quantity replaced, not incremented.
type Add struct {
	Product domain.Product
	Qty     int
}

type Remove struct {
	ProductID string
}

type Clear struct{}

func (Add) isAction()    {}
func (Remove) isAction() {}
func (Clear) isAction()  {}

func (Add) Name() string    { return "add" }
func (Remove) Name() string { return "remove" }
func (Clear) Name() string  { return "clear" }

// Reduce returns the state after applying a. The input state is never modified.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case Add:
		line := domain.CartItem{Product: a.Product, Qty: a.Qty}
		out := s.clone()
		for i := range out.Items {
			if out.Items[i].ID == a.Product.ID {
				out.Items[i] = line
				return out
			}
		}
		out.Items = append(out.Items, line)
		return out
	case Remove:
		out := State{Items: make([]domain.CartItem, 0, len(s.Items))}
		for _, it := range s.Items {
			if it.ID != a.ProductID {
				out.Items = append(out.Items, it)
			}
		}
		return out
	case Clear:
		return State{Items: []domain.CartItem{}}
	default:
		return s.clone()
	}
}

func (s State) clone() State {
	items := make([]domain.CartItem, len(s.Items), len(s.Items)+1)
	copy(items, s.Items)
	return State{Items: items}
}

// Clone returns a copy that shares nothing with s.
func (s State) Clone() State { return s.clone() }

// Count is the total quantity across lines.
func (s State) Count() int {
	n := 0
	for _, it := range s.Items {
		n += it.Qty
	}
	return n
}

func (s State) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range s.Items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}

func (s State) Find(productID string) (domain.CartItem, bool) {
	for _, it := range s.Items {
		if it.ID == productID {
			return it, true
		}
	}
	return domain.CartItem{}, false
}
