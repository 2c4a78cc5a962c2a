package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-pos/internal/database"
	"go-pos/internal/invoices"
	"go-pos/internal/models"
	"go-pos/internal/sales"
	"go-pos/internal/testkit"
)

func TestCheckout_PersistsInvoiceAndDeductsStock(t *testing.T) {
	db := testkit.NewDB(t)
	bread := testkit.SeedProduct(t, db, "Bread", "12.50", 10)
	milk := testkit.SeedProduct(t, db, "Milk", "1.20", 4)
	customer := models.Customer{Contact: models.Contact{Name: "Ana Gómez"}}
	require.NoError(t, db.Create(&customer).Error)

	store := database.NewInvoiceStore(db)
	ctx := context.Background()

	inv, err := store.Checkout(ctx, database.CheckoutRequest{
		UserID: 1,
		Lines: []database.CartLine{
			{ProductID: bread.ID, Quantity: 2},
			{ProductID: milk.ID, Quantity: 3},
			{ProductID: bread.ID, Quantity: 1},
		},
		Params: sales.Params{
			Discount:      sales.Amount(decimal.RequireFromString("1.10")),
			PaymentMethod: sales.PaymentCard,
			CustomerID:    &customer.ID,
		},
		Notes: "bag please",
	})
	require.NoError(t, err)
	require.NotZero(t, inv.ID)

	// 3 × 12.50 + 3 × 1.20 = 41.10
	assert.True(t, inv.Subtotal.Equal(decimal.RequireFromString("41.10")), "subtotal %s", inv.Subtotal)
	assert.True(t, inv.Total.Equal(decimal.RequireFromString("40")), "total %s", inv.Total)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, bread.ID).Error)
	assert.Equal(t, 7, reloaded.StockQuantity)
	require.NoError(t, db.First(&reloaded, milk.ID).Error)
	assert.Equal(t, 1, reloaded.StockQuantity)

	found, err := store.FindInvoice(ctx, inv.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Len(t, found.Items, 2)
	assert.Equal(t, "Bread", *found.Items[0].ProductName)
	assert.Equal(t, 3, found.Items[0].Quantity)
	require.NotNil(t, found.CustomerName)
	assert.Equal(t, "Ana Gómez", *found.CustomerName)
	assert.Equal(t, "card", found.PaymentMethod)

	detail := invoices.Describe(*found, time.UTC)
	assert.True(t, detail.Items[0].LineTotal.Equal(decimal.RequireFromString("37.50")))
	assert.Equal(t, "bag please", detail.Notes)

	var audits int64
	db.Model(&models.AuditLog{}).Count(&audits)
	assert.Equal(t, int64(1), audits)
}

func TestCheckout_InsufficientStockRollsBack(t *testing.T) {
	db := testkit.NewDB(t)
	bread := testkit.SeedProduct(t, db, "Bread", "2", 5)
	milk := testkit.SeedProduct(t, db, "Milk", "1", 1)

	store := database.NewInvoiceStore(db)
	_, err := store.Checkout(context.Background(), database.CheckoutRequest{
		Lines: []database.CartLine{
			{ProductID: bread.ID, Quantity: 2},
			{ProductID: milk.ID, Quantity: 2},
		},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, database.ErrInsufficientStock))

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, bread.ID).Error)
	assert.Equal(t, 5, reloaded.StockQuantity)

	var count int64
	db.Model(&models.Invoice{}).Count(&count)
	assert.Zero(t, count)
}

func TestCheckout_Errors(t *testing.T) {
	db := testkit.NewDB(t)
	bread := testkit.SeedProduct(t, db, "Bread", "2", 5)
	store := database.NewInvoiceStore(db)
	ctx := context.Background()

	_, err := store.Checkout(ctx, database.CheckoutRequest{
		Lines: []database.CartLine{{ProductID: 999, Quantity: 1}},
	})
	assert.True(t, errors.Is(err, database.ErrProductNotFound))

	_, err = store.Checkout(ctx, database.CheckoutRequest{
		Lines: []database.CartLine{{ProductID: bread.ID, Quantity: -1}},
	})
	assert.True(t, errors.Is(err, sales.ErrInvalidInput))

	missing := uint(77)
	_, err = store.Checkout(ctx, database.CheckoutRequest{
		Lines:  []database.CartLine{{ProductID: bread.ID, Quantity: 1}},
		Params: sales.Params{CustomerID: &missing},
	})
	assert.True(t, errors.Is(err, database.ErrCustomerNotFound))

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, bread.ID).Error)
	assert.Equal(t, 5, reloaded.StockQuantity)
}

func TestQuote_HasNoSideEffects(t *testing.T) {
	db := testkit.NewDB(t)
	bread := testkit.SeedProduct(t, db, "Bread", "12.50", 1)
	store := database.NewInvoiceStore(db)

	draft, err := store.Quote(context.Background(),
		[]database.CartLine{{ProductID: bread.ID, Quantity: 3}},
		sales.Params{Tax: sales.Percent(decimal.NewFromInt(10))},
	)
	require.NoError(t, err)
	assert.True(t, draft.Subtotal.Equal(decimal.RequireFromString("37.5")))
	assert.True(t, draft.Total.Equal(decimal.RequireFromString("41.25")))

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, bread.ID).Error)
	assert.Equal(t, 1, reloaded.StockQuantity)
}

func TestInvoiceStore_ListAndFind(t *testing.T) {
	db := testkit.NewDB(t)
	store := database.NewInvoiceStore(db)
	ctx := context.Background()

	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	for i, total := range []string{"10", "20", "30"} {
		inv := models.Invoice{
			Total:    decimal.RequireFromString(total),
			IssuedAt: base.Add(time.Duration(i) * time.Hour).UnixMilli(),
		}
		require.NoError(t, db.Create(&inv).Error)
	}

	all, err := store.ListInvoices(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, uint(3), all[0].ID)
	assert.Equal(t, uint(1), all[2].ID)

	between, err := store.ListInvoicesBetween(ctx, base, base.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, between, 2)
	assert.Equal(t, uint(1), between[0].ID)

	recent, err := store.RecentInvoices(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, uint(3), recent[0].ID)

	missing, err := store.FindInvoice(ctx, 404)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestInvoiceStore_ServesProjection(t *testing.T) {
	db := testkit.NewDB(t)
	store := database.NewInvoiceStore(db)
	bus := invoices.NewBroadcaster()
	svc := invoices.NewService(store, bus, invoices.FixedClock{Loc: time.UTC})

	inv := models.Invoice{Total: decimal.RequireFromString("5"), IssuedAt: time.Now().UnixMilli()}
	require.NoError(t, db.Create(&inv).Error)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates, err := svc.Watch(ctx)
	require.NoError(t, err)

	first := <-updates
	require.NoError(t, first.Err)
	require.Len(t, first.Invoices, 1)
	assert.Equal(t, invoices.DefaultCustomerName, first.Invoices[0].Customer)

	require.NoError(t, db.Delete(&models.Invoice{}, inv.ID).Error)
	second := models.Invoice{Total: decimal.RequireFromString("9"), IssuedAt: time.Now().UnixMilli()}
	require.NoError(t, db.Create(&second).Error)
	require.NoError(t, bus.Publish(ctx))

	select {
	case next := <-updates:
		require.NoError(t, next.Err)
		require.Len(t, next.Invoices, 1)
		assert.Equal(t, second.ID, next.Invoices[0].ID)
	case <-time.After(2 * time.Second):
		t.Fatal("no update after publish")
	}
}
