// Package invoices builds the read models shown on the sales screens from
// persisted invoice rows. Every projection is recomputed from the records it
// is given; nothing is cached between calls.
package invoices

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"go-pos/internal/models"
)

const (
	// DefaultCustomerName is shown when an invoice was issued without a
	// customer.
	DefaultCustomerName = "Consumidor Final"
	// DefaultProductName is shown for item rows whose product name was
	// never recorded.
	DefaultProductName = "Producto sin nombre"

	numberPrefix = "F-"
)

// Summary is one row of the invoice listing.
type Summary struct {
	ID       uint            `json:"id"`
	Number   string          `json:"number"`
	Customer string          `json:"customer"`
	Date     civil.Date      `json:"date"`
	Total    decimal.Decimal `json:"total"`
}

// ItemRow is one line of an invoice detail. ProductID is nil when the row
// was stored without a product reference.
type ItemRow struct {
	ProductID *uint           `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Detail is the full invoice view.
type Detail struct {
	Summary
	PaymentMethod string          `json:"payment_method"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	Surcharge     decimal.Decimal `json:"surcharge"`
	Tax           decimal.Decimal `json:"tax"`
	Items         []ItemRow       `json:"items"`
	Notes         string          `json:"notes"`
}

// FormatNumber renders the human-facing invoice number. It is derived from
// the row id only, so two tills writing to separate databases can print the
// same number.
func FormatNumber(id uint) string {
	return fmt.Sprintf("%s%08d", numberPrefix, id)
}

// DateOf converts a stored unix-millis instant to the calendar date seen in
// loc.
func DateOf(millis int64, loc *time.Location) civil.Date {
	if loc == nil {
		loc = time.Local
	}
	return civil.DateOf(time.UnixMilli(millis).In(loc))
}

// Summarize projects the listing row of inv.
func Summarize(inv models.Invoice, loc *time.Location) Summary {
	customer := DefaultCustomerName
	if inv.CustomerName != nil && *inv.CustomerName != "" {
		customer = *inv.CustomerName
	}
	return Summary{
		ID:       inv.ID,
		Number:   FormatNumber(inv.ID),
		Customer: customer,
		Date:     DateOf(inv.IssuedAt, loc),
		Total:    inv.Total,
	}
}

// Describe projects the full detail of inv, keeping item order.
func Describe(inv models.Invoice, loc *time.Location) Detail {
	rows := make([]ItemRow, 0, len(inv.Items))
	for _, item := range inv.Items {
		rows = append(rows, projectItem(item))
	}

	var notes string
	if inv.Notes != nil {
		notes = *inv.Notes
	}

	return Detail{
		Summary:       Summarize(inv, loc),
		PaymentMethod: inv.PaymentMethod,
		Subtotal:      inv.Subtotal,
		Discount:      inv.DiscountAmount,
		Surcharge:     inv.SurchargeAmount,
		Tax:           inv.TaxAmount,
		Items:         rows,
		Notes:         notes,
	}
}

func projectItem(item models.InvoiceItem) ItemRow {
	name := DefaultProductName
	if item.ProductName != nil && *item.ProductName != "" {
		name = *item.ProductName
	}

	var productID *uint
	if item.ProductID != nil {
		id := *item.ProductID
		productID = &id
	}

	return ItemRow{
		ProductID: productID,
		Name:      name,
		Quantity:  item.Quantity,
		UnitPrice: item.UnitPrice,
		LineTotal: item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
	}
}

// SummarizeAll projects a whole snapshot into a fresh slice.
func SummarizeAll(records []models.Invoice, loc *time.Location) []Summary {
	out := make([]Summary, 0, len(records))
	for _, inv := range records {
		out = append(out, Summarize(inv, loc))
	}
	return out
}
