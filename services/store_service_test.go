package services

import (
	"context"
	"testing"

	"github.com/esportsfed/platform/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storeFixture struct {
	txRunner    *fakeTxRunner
	productRepo *fakeProductRepo
	orderRepo   *fakeOrderRepo
	svc         StoreService
}

func newStoreFixture(t *testing.T) *storeFixture {
	t.Helper()
	f := &storeFixture{
		txRunner:    &fakeTxRunner{},
		productRepo: newFakeProductRepo(),
		orderRepo:   newFakeOrderRepo(),
	}
	f.svc = NewStoreService(f.txRunner, f.productRepo, f.orderRepo)
	return f
}

func TestPlaceOrder(t *testing.T) {
	f := newStoreFixture(t)
	product := f.productRepo.add(&models.Product{Name: "Jersey", PriceCents: 4500, Stock: 10})

	order, err := f.svc.PlaceOrder(context.Background(), 1, product.ID, 3)
	require.NoError(t, err)

	assert.Equal(t, models.OrderPlaced, order.Status)
	assert.Equal(t, 13500, order.TotalCents)
	assert.Equal(t, 7, product.Stock)
	assert.Equal(t, 1, f.txRunner.calls)
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	f := newStoreFixture(t)
	product := f.productRepo.add(&models.Product{Name: "Jersey", PriceCents: 4500, Stock: 2})

	_, err := f.svc.PlaceOrder(context.Background(), 1, product.ID, 3)
	assert.ErrorIs(t, err, ErrProductOutOfStock)

	// No partial effects: stock untouched, nothing stored.
	assert.Equal(t, 2, product.Stock)
	orders, err := f.orderRepo.ListByUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestPlaceOrderDrainsStockExactly(t *testing.T) {
	f := newStoreFixture(t)
	product := f.productRepo.add(&models.Product{Name: "Mousepad", PriceCents: 1500, Stock: 5})

	_, err := f.svc.PlaceOrder(context.Background(), 1, product.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, product.Stock)

	_, err = f.svc.PlaceOrder(context.Background(), 2, product.ID, 1)
	assert.ErrorIs(t, err, ErrProductOutOfStock)
}

func TestPlaceOrderInvalidQuantity(t *testing.T) {
	f := newStoreFixture(t)
	product := f.productRepo.add(&models.Product{Name: "Jersey", PriceCents: 4500, Stock: 10})

	_, err := f.svc.PlaceOrder(context.Background(), 1, product.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Equal(t, 0, f.txRunner.calls)
}

func TestPlaceOrderUnknownProduct(t *testing.T) {
	f := newStoreFixture(t)

	_, err := f.svc.PlaceOrder(context.Background(), 1, 404, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}
