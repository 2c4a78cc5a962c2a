package invoices

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-pos/internal/models"
)

func ptr[T any](v T) *T { return &v }

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "F-00000007", FormatNumber(7))
	assert.Equal(t, "F-00000000", FormatNumber(0))
	assert.Equal(t, "F-12345678", FormatNumber(12345678))
	assert.Equal(t, "F-123456789", FormatNumber(123456789))
}

func TestDateOf_UsesGivenZone(t *testing.T) {
	// 2024-03-01 02:30 UTC
	millis := time.Date(2024, 3, 1, 2, 30, 0, 0, time.UTC).UnixMilli()

	assert.Equal(t, civil.Date{Year: 2024, Month: time.March, Day: 1}, DateOf(millis, time.UTC))

	bogota := time.FixedZone("COT", -5*3600)
	assert.Equal(t, civil.Date{Year: 2024, Month: time.February, Day: 29}, DateOf(millis, bogota))
}

func TestSummarize_DefaultsCustomer(t *testing.T) {
	inv := models.Invoice{ID: 7, Total: decimal.RequireFromString("37.50")}

	s := Summarize(inv, time.UTC)
	assert.Equal(t, "F-00000007", s.Number)
	assert.Equal(t, DefaultCustomerName, s.Customer)
	assert.True(t, s.Total.Equal(decimal.RequireFromString("37.5")))

	inv.CustomerName = ptr("")
	assert.Equal(t, DefaultCustomerName, Summarize(inv, time.UTC).Customer)

	inv.CustomerName = ptr("Ana Gómez")
	assert.Equal(t, "Ana Gómez", Summarize(inv, time.UTC).Customer)
}

func TestDescribe(t *testing.T) {
	issued := time.Date(2025, 6, 14, 18, 0, 0, 0, time.UTC)
	inv := models.Invoice{
		ID:              12,
		PaymentMethod:   "card",
		Subtotal:        decimal.RequireFromString("40"),
		DiscountAmount:  decimal.RequireFromString("2.5"),
		SurchargeAmount: decimal.Zero,
		TaxAmount:       decimal.Zero,
		Total:           decimal.RequireFromString("37.5"),
		IssuedAt:        issued.UnixMilli(),
		Items: []models.InvoiceItem{
			{ProductID: ptr(uint(3)), ProductName: ptr("Pan"), Quantity: 3, UnitPrice: decimal.RequireFromString("12.50")},
			{ProductID: nil, ProductName: nil, Quantity: 1, UnitPrice: decimal.RequireFromString("2.5")},
		},
	}

	d := Describe(inv, time.UTC)

	assert.Equal(t, "F-00000012", d.Number)
	assert.Equal(t, DefaultCustomerName, d.Customer)
	assert.Equal(t, civil.Date{Year: 2025, Month: time.June, Day: 14}, d.Date)
	assert.Equal(t, "card", d.PaymentMethod)
	assert.Equal(t, "", d.Notes)
	require.Len(t, d.Items, 2)

	first := d.Items[0]
	require.NotNil(t, first.ProductID)
	assert.Equal(t, uint(3), *first.ProductID)
	assert.Equal(t, "Pan", first.Name)
	assert.True(t, first.LineTotal.Equal(decimal.RequireFromString("37.50")), "got %s", first.LineTotal)

	second := d.Items[1]
	assert.Nil(t, second.ProductID)
	assert.Equal(t, DefaultProductName, second.Name)
	assert.True(t, second.LineTotal.Equal(decimal.RequireFromString("2.5")))
}

func TestDescribe_NotesAndEmptyItems(t *testing.T) {
	inv := models.Invoice{ID: 1, Notes: ptr("deliver tomorrow"), CustomerName: ptr("Tienda Luz")}

	d := Describe(inv, time.UTC)
	assert.Equal(t, "deliver tomorrow", d.Notes)
	assert.Equal(t, "Tienda Luz", d.Customer)
	assert.NotNil(t, d.Items)
	assert.Empty(t, d.Items)
}

func TestClockFor(t *testing.T) {
	c, err := ClockFor("")
	require.NoError(t, err)
	assert.IsType(t, SystemClock{}, c)

	c, err = ClockFor("America/Bogota")
	require.NoError(t, err)
	assert.Equal(t, "America/Bogota", c.Location().String())

	_, err = ClockFor("Not/AZone")
	assert.Error(t, err)

	assert.Equal(t, time.UTC, FixedClock{}.Location())
}
