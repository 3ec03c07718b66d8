package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/cart"
	"storefront/internal/domain"
	"storefront/internal/services"
	"storefront/internal/store"
)

var widget = domain.Product{ID: "w", Name: "Widget", Price: decimal.RequireFromString("19.99"), CountInStock: 5}

func TestCartService_PersistsEveryAction(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc, err := services.NewCartService(ctx, st)
	require.NoError(t, err)

	_, err = svc.Add(ctx, widget, 3)
	require.NoError(t, err)
	s, err := svc.Add(ctx, widget, 3)
	require.NoError(t, err)
	require.Len(t, s.Items, 1)
	assert.Equal(t, 3, s.Items[0].Qty)

	stored, err := store.ReadCollection[domain.CartItem](ctx, st, domain.CartKey)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, 3, stored[0].Qty)
	assert.Equal(t, "59.97", svc.State().Subtotal().StringFixed(2))

	_, err = svc.Remove(ctx, "absent")
	require.NoError(t, err)
	assert.Len(t, svc.State().Items, 1)
}

func TestCartService_LoadsPersistedState(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	first, err := services.NewCartService(ctx, st)
	require.NoError(t, err)
	_, err = first.Add(ctx, widget, 2)
	require.NoError(t, err)

	second, err := services.NewCartService(ctx, st)
	require.NoError(t, err)
	line, ok := second.State().Find("w")
	require.True(t, ok)
	assert.Equal(t, 2, line.Qty)
}

func TestCartService_CorruptValueStartsEmpty(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	require.NoError(t, st.Set(ctx, domain.CartKey, "not json"))
	svc, err := services.NewCartService(ctx, st)
	require.NoError(t, err)
	assert.Empty(t, svc.State().Items)
}

func TestCartService_StateIsACopy(t *testing.T) {
	ctx := context.Background()
	svc, err := services.NewCartService(ctx, store.NewMemory())
	require.NoError(t, err)
	_, err = svc.Add(ctx, widget, 1)
	require.NoError(t, err)

	s := svc.State()
	s.Items[0].Qty = 99
	assert.Equal(t, 1, svc.State().Items[0].Qty)
}

func TestCartService_Checkout(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc, err := services.NewCartService(ctx, st)
	require.NoError(t, err)
	_, err = svc.Add(ctx, widget, 3)
	require.NoError(t, err)
	_, err = svc.Dispatch(ctx, cart.Add{Product: domain.Product{ID: "x", Price: decimal.RequireFromString("0.03")}, Qty: 1})
	require.NoError(t, err)

	sum, err := svc.Checkout(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, sum.Count)
	assert.Equal(t, 2, sum.Lines)
	assert.True(t, sum.Subtotal.Equal(decimal.RequireFromString("60.00")))

	assert.Empty(t, svc.State().Items)
	raw, _, _ := st.Get(ctx, domain.CartKey)
	assert.Equal(t, "[]", raw)
}

type failingStore struct{ *store.Memory }

func (failingStore) Set(context.Context, string, string) error { return errors.New("disk full") }

func TestCartService_PersistFailureIsReported(t *testing.T) {
	ctx := context.Background()
	svc, err := services.NewCartService(ctx, failingStore{store.NewMemory()})
	require.NoError(t, err)

	s, err := svc.Add(ctx, widget, 1)
	require.Error(t, err)
	assert.Len(t, s.Items, 1, "state moves even when the write fails")
}

// flakyStore fails the first n writes.
type flakyStore struct {
	*store.Memory
	n atomic.Int32
}

func (f *flakyStore) Set(ctx context.Context, key, value string) error {
	if f.n.Add(-1) >= 0 {
		return errors.New("disk full")
	}
	return f.Memory.Set(ctx, key, value)
}

func TestCartService_PersistCatchesStoreUp(t *testing.T) {
	ctx := context.Background()
	st := &flakyStore{Memory: store.NewMemory()}
	st.n.Store(1)
	svc, err := services.NewCartService(ctx, st)
	require.NoError(t, err)

	_, err = svc.Add(ctx, widget, 2)
	require.Error(t, err)
	_, ok, err := st.Get(ctx, domain.CartKey)
	require.NoError(t, err)
	require.False(t, ok, "failed write stored nothing")

	require.NoError(t, svc.Persist(ctx))
	want, err := store.Encode(svc.State().Items)
	require.NoError(t, err)
	first, _, _ := st.Get(ctx, domain.CartKey)
	assert.Equal(t, want, first)

	require.NoError(t, svc.Persist(ctx))
	second, _, _ := st.Get(ctx, domain.CartKey)
	assert.Equal(t, first, second, "persisting the same state twice stores the same value")
}

func TestCartService_NextActionCatchesStoreUp(t *testing.T) {
	ctx := context.Background()
	st := &flakyStore{Memory: store.NewMemory()}
	st.n.Store(1)
	svc, err := services.NewCartService(ctx, st)
	require.NoError(t, err)

	_, err = svc.Add(ctx, widget, 2)
	require.Error(t, err)
	_, err = svc.Add(ctx, domain.Product{ID: "g", Price: decimal.RequireFromString("1.00")}, 1)
	require.NoError(t, err)

	want, err := store.Encode(svc.State().Items)
	require.NoError(t, err)
	raw, _, _ := st.Get(ctx, domain.CartKey)
	assert.Equal(t, want, raw)
	assert.Len(t, svc.State().Items, 2)
}

func TestCartService_CheckoutEmpty(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc, err := services.NewCartService(ctx, st)
	require.NoError(t, err)

	_, err = svc.Checkout(ctx)
	assert.ErrorIs(t, err, services.ErrEmptyCart)
	_, ok, _ := st.Get(ctx, domain.CartKey)
	assert.False(t, ok, "nothing written")
}

// every unit added is either counted by some checkout or still in the cart
func TestCartService_CheckoutRacingAdds(t *testing.T) {
	ctx := context.Background()
	svc, err := services.NewCartService(ctx, store.NewMemory())
	require.NoError(t, err)

	const adds = 200
	var counted atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < adds; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			p := domain.Product{ID: fmt.Sprintf("p-%d", i), Price: decimal.RequireFromString("1.00")}
			_, err := svc.Add(ctx, p, 1)
			assert.NoError(t, err)
		}(i)
		go func() {
			defer wg.Done()
			sum, err := svc.Checkout(ctx)
			if errors.Is(err, services.ErrEmptyCart) {
				return
			}
			assert.NoError(t, err)
			counted.Add(int64(sum.Count))
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(adds), counted.Load()+int64(svc.State().Count()))
}
