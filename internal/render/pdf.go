// Package render turns invoice read models into printable and exportable
// documents.
package render

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"go-pos/internal/invoices"
)

// InvoicePDF writes an A4 receipt for d.
func InvoicePDF(w io.Writer, shopName string, d invoices.Detail) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(d.Number, true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, tr(shopName), "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 6, "Invoice: "+d.Number, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Date: "+d.Date.String(), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr("Customer: "+d.Customer), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Payment: "+d.PaymentMethod, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	widths := []float64{90, 25, 35, 40}
	pdf.SetFont("Arial", "B", 11)
	for i, h := range []string{"Product", "Qty", "Unit price", "Line total"} {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(widths[i], 7, h, "B", 0, align, false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 11)
	for _, item := range d.Items {
		pdf.CellFormat(widths[0], 6, tr(item.Name), "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, fmt.Sprintf("%d", item.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 6, money(item.UnitPrice), "", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 6, money(item.LineTotal), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	totals := []struct {
		label string
		value decimal.Decimal
	}{
		{"Subtotal", d.Subtotal},
		{"Discount", d.Discount.Neg()},
		{"Surcharge", d.Surcharge},
		{"Tax", d.Tax},
		{"Total", d.Total},
	}
	for _, row := range totals {
		if row.label == "Total" {
			pdf.SetFont("Arial", "B", 12)
		}
		pdf.CellFormat(widths[0]+widths[1]+widths[2], 6, row.label, "", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 6, money(row.value), "", 1, "R", false, 0, "")
	}

	if d.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Arial", "I", 10)
		pdf.MultiCell(0, 5, tr(d.Notes), "", "L", false)
	}

	return pdf.Output(w)
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
