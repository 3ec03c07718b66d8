package cart_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/cart"
	"storefront/internal/domain"
)

func product(id, price string, stock int) domain.Product {
	return domain.Product{ID: id, Name: "P " + id, Price: decimal.RequireFromString(price), CountInStock: stock}
}

func TestReduce_AddTwiceKeepsOneLine(t *testing.T) {
	p := product("p1", "19.99", 5)
	s := cart.Reduce(cart.State{}, cart.Add{Product: p, Qty: 3})
	s = cart.Reduce(s, cart.Add{Product: p, Qty: 3})

	require.Len(t, s.Items, 1)
	assert.Equal(t, 3, s.Items[0].Qty)
}

func TestReduce_AddReplacesQuantityInPlace(t *testing.T) {
	a, b := product("a", "1.00", 9), product("b", "2.00", 9)
	s := cart.Reduce(cart.State{}, cart.Add{Product: a, Qty: 1})
	s = cart.Reduce(s, cart.Add{Product: b, Qty: 1})
	s = cart.Reduce(s, cart.Add{Product: a, Qty: 4})

	require.Len(t, s.Items, 2)
	assert.Equal(t, "a", s.Items[0].ID, "order is preserved")
	assert.Equal(t, 4, s.Items[0].Qty)
}

func TestReduce_RemoveAbsentLeavesStateUnchanged(t *testing.T) {
	s := cart.Reduce(cart.State{}, cart.Add{Product: product("a", "1.00", 1), Qty: 1})
	got := cart.Reduce(s, cart.Remove{ProductID: "missing"})
	assert.Equal(t, s.Items, got.Items)
}

func TestReduce_RemoveAndClear(t *testing.T) {
	s := cart.Reduce(cart.State{}, cart.Add{Product: product("a", "1.00", 1), Qty: 1})
	s = cart.Reduce(s, cart.Add{Product: product("b", "1.00", 1), Qty: 2})

	s = cart.Reduce(s, cart.Remove{ProductID: "a"})
	require.Len(t, s.Items, 1)
	assert.Equal(t, "b", s.Items[0].ID)

	s = cart.Reduce(s, cart.Clear{})
	assert.NotNil(t, s.Items)
	assert.Empty(t, s.Items)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	s := cart.Reduce(cart.State{}, cart.Add{Product: product("a", "1.00", 1), Qty: 1})
	before := s.Clone()

	_ = cart.Reduce(s, cart.Add{Product: product("a", "1.00", 1), Qty: 7})
	_ = cart.Reduce(s, cart.Add{Product: product("b", "1.00", 1), Qty: 1})
	_ = cart.Reduce(s, cart.Remove{ProductID: "a"})
	_ = cart.Reduce(s, cart.Clear{})

	assert.Equal(t, before.Items, s.Items)
}

func TestDerivedValues(t *testing.T) {
	s := cart.Reduce(cart.State{}, cart.Add{Product: product("p1", "19.99", 5), Qty: 3})
	assert.Equal(t, 3, s.Count())
	assert.True(t, s.Subtotal().Equal(decimal.RequireFromString("59.97")), s.Subtotal().String())

	s = cart.Reduce(s, cart.Add{Product: product("p2", "0.10", 5), Qty: 2})
	assert.Equal(t, 5, s.Count())
	assert.Equal(t, "60.17", s.Subtotal().StringFixed(2))

	line, ok := s.Find("p2")
	require.True(t, ok)
	assert.Equal(t, 2, line.Qty)
	_, ok = s.Find("zzz")
	assert.False(t, ok)

	assert.True(t, cart.State{}.Subtotal().IsZero())
}
