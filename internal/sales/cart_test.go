package sales

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_AddMergesSameProduct(t *testing.T) {
	var cart Cart
	require.NoError(t, cart.Add(LineItem{ProductID: 1, Name: "Milk", Quantity: 1, UnitPrice: dec("1.20")}))
	require.NoError(t, cart.Add(LineItem{ProductID: 2, Name: "Eggs", Quantity: 1, UnitPrice: dec("2.65")}))
	require.NoError(t, cart.Add(LineItem{ProductID: 1, Name: "Milk", Quantity: 2, UnitPrice: dec("1.20")}))

	items := cart.Items()
	require.Len(t, items, 2)
	assert.Equal(t, uint(1), items[0].ProductID)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, uint(2), items[1].ProductID)
}

func TestCart_AddRejectsNegativeQuantity(t *testing.T) {
	var cart Cart
	err := cart.Add(LineItem{ProductID: 1, Quantity: -2, UnitPrice: dec("1")})
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, 0, cart.Len())
}

func TestCart_SetQuantityAndRemove(t *testing.T) {
	var cart Cart
	require.NoError(t, cart.Add(LineItem{ProductID: 1, Quantity: 1, UnitPrice: dec("4")}))
	require.NoError(t, cart.Add(LineItem{ProductID: 2, Quantity: 1, UnitPrice: dec("6")}))

	require.NoError(t, cart.SetQuantity(1, 5))
	assert.Equal(t, 5, cart.Items()[0].Quantity)

	require.NoError(t, cart.SetQuantity(2, 0))
	assert.Equal(t, 1, cart.Len())

	err := cart.SetQuantity(99, 1)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	cart.Remove(1)
	cart.Remove(1)
	assert.Equal(t, 0, cart.Len())
}

func TestCart_ItemsIsACopy(t *testing.T) {
	var cart Cart
	require.NoError(t, cart.Add(LineItem{ProductID: 1, Quantity: 1, UnitPrice: dec("4")}))

	items := cart.Items()
	items[0].Quantity = 50

	assert.Equal(t, 1, cart.Items()[0].Quantity)
}

func TestCart_Finalize(t *testing.T) {
	var cart Cart
	require.NoError(t, cart.Add(LineItem{ProductID: 1, Quantity: 2, UnitPrice: dec("10")}))

	draft, err := cart.Finalize(Params{Discount: Percent(dec("25")), PaymentMethod: PaymentTransfer})
	require.NoError(t, err)

	assertAmount(t, "20", draft.Subtotal, "subtotal")
	assertAmount(t, "5", draft.Discount, "discount")
	assertAmount(t, "15", draft.Total, "total")
	assert.Equal(t, 1, cart.Len())
}
